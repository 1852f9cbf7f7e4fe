package texture

import "github.com/anthropics/go-tracer-core/pkg/core"

// Checkerboard is a procedural SpectrumTexture alternating between two
// colors on a UV-space grid, grounded on the teacher's baked
// checkerboard texture but evaluated analytically at each UV rather than
// pre-rasterized into a bitmap.
type Checkerboard struct {
	Color1, Color2 core.Vec3
	ScaleU, ScaleV float64
}

// NewCheckerboard creates a Checkerboard texture with the given UV tile
// scale (tiles per unit UV).
func NewCheckerboard(color1, color2 core.Vec3, scaleU, scaleV float64) *Checkerboard {
	return &Checkerboard{Color1: color1, Color2: color2, ScaleU: scaleU, ScaleV: scaleV}
}

func (c *Checkerboard) Evaluate(uv core.Vec2) core.Vec3 {
	cu := int(floorf(uv.X * c.ScaleU))
	cv := int(floorf(uv.Y * c.ScaleV))
	if (cu+cv)%2 == 0 {
		return c.Color1
	}
	return c.Color2
}

func floorf(x float64) float64 {
	i := int(x)
	if x < 0 && float64(i) != x {
		i--
	}
	return float64(i)
}

// Gradient is a vertical (V-axis) linear interpolation between two
// colors, grounded on the teacher's gradient texture.
type Gradient struct {
	Top, Bottom core.Vec3
}

func NewGradient(top, bottom core.Vec3) *Gradient { return &Gradient{Top: top, Bottom: bottom} }

func (g *Gradient) Evaluate(uv core.Vec2) core.Vec3 {
	t := clamp01(uv.Y)
	return g.Top.Multiply(1 - t).Add(g.Bottom.Multiply(t))
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// UVDebug renders UV coordinates directly as a color, U->red, V->green;
// grounded on the teacher's UV debug texture. Useful for material
// authoring sanity checks, not for final renders.
type UVDebug struct{}

func (UVDebug) Evaluate(uv core.Vec2) core.Vec3 { return core.NewVec3(clamp01(uv.X), clamp01(uv.Y), 0) }
