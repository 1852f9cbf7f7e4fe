package renderer

import "github.com/anthropics/go-tracer-core/pkg/core"

// RenderStats summarizes a completed render pass or tile, per the
// teacher's renderer.RenderStats.
type RenderStats struct {
	TotalPixels    int
	TotalSamples   int
	AverageSamples float64
	MaxSamples     int
	MinSamples     int
	MaxSamplesUsed int
}

// PixelStats tracks running sample statistics for a single pixel,
// enough to drive adaptive-sampling termination via the coefficient of
// variation of accumulated luminance.
type PixelStats struct {
	ColorAccum       core.Vec3
	LuminanceAccum   float64
	LuminanceSqAccum float64
	SampleCount      int
}

// AddSample folds one integrator sample into this pixel's running stats.
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	lum := color.Luminance()
	ps.LuminanceAccum += lum
	ps.LuminanceSqAccum += lum * lum
	ps.SampleCount++
}

// GetColor returns the current running mean color for this pixel.
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}
