// Package texture implements spec Component F: constant, image and
// procedural textures evaluated at a surface (u,v) coordinate.
package texture

import "github.com/anthropics/go-tracer-core/pkg/core"

// SpectrumTexture evaluates to an RGB color at a UV coordinate.
type SpectrumTexture interface {
	Evaluate(uv core.Vec2) core.Vec3
}

// FloatTexture evaluates to a scalar at a UV coordinate (roughness,
// alpha, bump height maps).
type FloatTexture interface {
	Evaluate(uv core.Vec2) float64
}

// ConstantColor is a SpectrumTexture that ignores its UV input.
type ConstantColor struct {
	Value core.Vec3
}

func NewConstantColor(v core.Vec3) *ConstantColor { return &ConstantColor{Value: v} }

func (c *ConstantColor) Evaluate(uv core.Vec2) core.Vec3 { return c.Value }

// ConstantFloat is a FloatTexture that ignores its UV input.
type ConstantFloat struct {
	Value float64
}

func NewConstantFloat(v float64) *ConstantFloat { return &ConstantFloat{Value: v} }

func (c *ConstantFloat) Evaluate(uv core.Vec2) float64 { return c.Value }
