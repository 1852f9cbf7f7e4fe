package renderer

import (
	"image"
	"math"

	"github.com/anthropics/go-tracer-core/pkg/core"
	"github.com/anthropics/go-tracer-core/pkg/integrator"
	"github.com/anthropics/go-tracer-core/pkg/scene"
)

// RenderConfig holds the per-render sampling knobs, adapted from the
// teacher's core.SamplingConfig to this repo's scene/integrator split.
type RenderConfig struct {
	SamplesPerPixel   int
	AdaptiveMinFrac   float64 // minimum fraction of SamplesPerPixel taken before adaptive stop is considered
	AdaptiveThreshold float64 // stop once relative error in luminance drops below this
}

// TileRenderer renders pixel bounds by invoking one Integrator per
// sample, accumulating into the shared per-pixel statistics array, per
// the teacher's renderer.TileRenderer generalized from a single
// hard-coded path tracer to any integrator.Integrator.
type TileRenderer struct {
	scene      *scene.Scene
	camera     *Camera
	integrator integrator.Integrator
	config     RenderConfig
}

// NewTileRenderer creates a tile renderer over s, rendered through cam
// with the given integrator and sampling configuration.
func NewTileRenderer(s *scene.Scene, cam *Camera, integ integrator.Integrator, config RenderConfig) *TileRenderer {
	return &TileRenderer{scene: s, camera: cam, integrator: integ, config: config}
}

// RenderTileBounds renders every pixel in bounds up to targetSamples
// (taking fewer if adaptive sampling converges first), writing into the
// shared pixelStats array in global image coordinates.
func (tr *TileRenderer) RenderTileBounds(bounds image.Rectangle, pixelStats [][]PixelStats, targetSamples int) RenderStats {
	stats := RenderStats{
		TotalPixels: bounds.Dx() * bounds.Dy(),
		MaxSamples:  targetSamples,
		MinSamples:  targetSamples,
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			used := tr.samplePixel(x, y, &pixelStats[y][x], targetSamples)
			stats.TotalSamples += used
			stats.MinSamples = minInt(stats.MinSamples, used)
			stats.MaxSamplesUsed = maxInt(stats.MaxSamplesUsed, used)
		}
	}

	if stats.TotalPixels > 0 {
		stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	}
	return stats
}

// samplePixel takes integrator samples at (px, py) until either
// targetSamples is reached or the running coefficient of variation of
// luminance drops below the configured adaptive threshold, returning
// the number of new samples taken this call.
func (tr *TileRenderer) samplePixel(px, py int, ps *PixelStats, targetSamples int) int {
	initial := ps.SampleCount
	arena := core.NewArena()

	for ps.SampleCount < targetSamples && !tr.shouldStopSampling(ps, targetSamples) {
		sampler := core.NewSampler(px, py, ps.SampleCount)
		ray := tr.camera.GetRay(px, py, sampler)
		color := tr.integrator.Li(ray, tr.scene, sampler, arena)
		ps.AddSample(color)
	}

	return ps.SampleCount - initial
}

func (tr *TileRenderer) shouldStopSampling(ps *PixelStats, targetSamples int) bool {
	if tr.config.AdaptiveThreshold <= 0 {
		return false
	}
	minSamples := maxInt(1, int(float64(targetSamples)*tr.config.AdaptiveMinFrac))
	if ps.SampleCount < minSamples {
		return false
	}

	mean := ps.LuminanceAccum / float64(ps.SampleCount)
	meanSq := ps.LuminanceSqAccum / float64(ps.SampleCount)
	variance := math.Max(0, meanSq-mean*mean)

	if mean <= 1e-8 {
		return variance < 1e-6
	}
	relativeError := math.Sqrt(variance) / mean
	return relativeError < tr.config.AdaptiveThreshold
}
