// Package renderer implements the tile-parallel pixel-orchestration and
// camera/film pipeline spec.md names as out-of-scope external
// collaborators: it drives an integrator.Integrator across a
// scene.Scene's pixels in progressively-refined passes, the way the
// teacher's renderer package does for its path tracer.
package renderer

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/anthropics/go-tracer-core/pkg/core"
	"github.com/anthropics/go-tracer-core/pkg/integrator"
	"github.com/anthropics/go-tracer-core/pkg/scene"
)

// ProgressiveConfig configures the progressive render driver.
type ProgressiveConfig struct {
	TileSize           int
	InitialSamples     int
	MaxSamplesPerPixel int
	MaxPasses          int
	NumWorkers         int
	AdaptiveMinFrac    float64
	AdaptiveThreshold  float64
}

// DefaultProgressiveConfig returns the teacher's tuned defaults.
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		TileSize:           64,
		InitialSamples:     1,
		MaxSamplesPerPixel: 50,
		MaxPasses:          7,
		NumWorkers:         0,
		AdaptiveMinFrac:    0.2,
		AdaptiveThreshold:  0.05,
	}
}

// PassResult is emitted on ProgressiveRaytracer's pass channel after
// every completed pass.
type PassResult struct {
	PassNumber int
	Image      *image.RGBA
	Stats      RenderStats
	IsLast     bool
}

// ProgressiveRaytracer renders a scene in successively-refined passes,
// each adding samples to every pixel via a tile-parallel WorkerPool, so
// a caller (the CLI, or a future interactive viewer) can display an
// improving image instead of waiting for the final sample count.
type ProgressiveRaytracer struct {
	scene         *scene.Scene
	camera        *Camera
	integrator    integrator.Integrator
	width, height int
	config        ProgressiveConfig
	tiles         []*Tile
	pixelStats    [][]PixelStats
	workerPool    *WorkerPool
	logger        core.Logger
}

// NewProgressiveRaytracer builds a progressive driver over s, rendered
// through cam with integ, at width x height pixels.
func NewProgressiveRaytracer(s *scene.Scene, cam *Camera, integ integrator.Integrator, width, height int, config ProgressiveConfig, logger core.Logger) *ProgressiveRaytracer {
	if logger == nil {
		logger = core.NewNopLogger()
	}
	tiles := NewTileGrid(width, height, config.TileSize)

	pixelStats := make([][]PixelStats, height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, width)
	}

	renderConfig := RenderConfig{AdaptiveMinFrac: config.AdaptiveMinFrac, AdaptiveThreshold: config.AdaptiveThreshold}
	pool := NewWorkerPool(s, cam, integ, renderConfig, len(tiles), config.NumWorkers)

	return &ProgressiveRaytracer{
		scene:      s,
		camera:     cam,
		integrator: integ,
		width:      width,
		height:     height,
		config:     config,
		tiles:      tiles,
		pixelStats: pixelStats,
		workerPool: pool,
		logger:     logger,
	}
}

// getSamplesForPass computes the target cumulative sample count for
// pass N, per the teacher's ramp: a one-sample preview pass, then the
// remaining budget spread evenly, with the final pass topping up to
// exactly MaxSamplesPerPixel.
func (pr *ProgressiveRaytracer) getSamplesForPass(pass int) int {
	if pr.config.MaxPasses == 1 {
		return pr.config.MaxSamplesPerPixel
	}
	if pass == 1 {
		return pr.config.InitialSamples
	}
	remainingSamples := pr.config.MaxSamplesPerPixel - pr.config.InitialSamples
	remainingPasses := pr.config.MaxPasses - 1
	perPass := remainingSamples / remainingPasses
	target := pr.config.InitialSamples + (pass-1)*perPass
	if pass == pr.config.MaxPasses {
		target = pr.config.MaxSamplesPerPixel
	}
	return target
}

// RenderPass renders one progressive pass, dispatching every tile to
// the worker pool and blocking until all have completed.
func (pr *ProgressiveRaytracer) RenderPass(pass int) (*image.RGBA, RenderStats, error) {
	target := pr.getSamplesForPass(pass)
	pr.logger.Printf("pass %d: target %d samples/pixel across %d workers", pass, target, pr.workerPool.NumWorkers())

	for id, tile := range pr.tiles {
		pr.workerPool.SubmitTask(TileTask{Tile: tile, PassNumber: pass, TargetSamples: target, TaskID: id, PixelStats: pr.pixelStats})
	}

	for i := 0; i < len(pr.tiles); i++ {
		result, ok := pr.workerPool.GetResult()
		if !ok {
			return nil, RenderStats{}, fmt.Errorf("worker pool closed before all tiles completed")
		}
		pr.tiles[result.TaskID].PassesCompleted++
	}

	img, stats := pr.assembleImage(target)
	return img, stats, nil
}

// RenderProgressive runs every configured pass, streaming a PassResult
// per pass over the returned channel until MaxPasses completes, the
// sample budget is reached, or ctx is cancelled.
func (pr *ProgressiveRaytracer) RenderProgressive(ctx context.Context) (<-chan PassResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	errChan := make(chan error, 1)

	go func() {
		defer close(passChan)
		defer close(errChan)
		defer pr.workerPool.Stop()

		pr.logger.Printf("starting progressive render: %d passes, %dx%d", pr.config.MaxPasses, pr.width, pr.height)

		for pass := 1; pass <= pr.config.MaxPasses; pass++ {
			select {
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			default:
			}

			start := time.Now()
			img, stats, err := pr.RenderPass(pass)
			if err != nil {
				errChan <- err
				return
			}
			pr.logger.Printf("pass %d done in %v (%.1f samples/pixel)", pass, time.Since(start), stats.AverageSamples)

			isLast := pass == pr.config.MaxPasses || int(stats.AverageSamples) >= pr.config.MaxSamplesPerPixel
			select {
			case passChan <- PassResult{PassNumber: pass, Image: img, Stats: stats, IsLast: isLast}:
			case <-ctx.Done():
				return
			}

			if isLast {
				return
			}
		}
	}()

	return passChan, errChan
}

// assembleImage renders the shared pixel-statistics array into an RGBA
// image and computes the render-wide statistics in the same pass.
func (pr *ProgressiveRaytracer) assembleImage(targetSamples int) (*image.RGBA, RenderStats) {
	img := image.NewRGBA(image.Rect(0, 0, pr.width, pr.height))
	stats := RenderStats{TotalPixels: pr.width * pr.height, MaxSamples: targetSamples, MinSamples: targetSamples}

	for y := 0; y < pr.height; y++ {
		for x := 0; x < pr.width; x++ {
			px := &pr.pixelStats[y][x]
			img.SetRGBA(x, y, vec3ToColor(px.GetColor()))
			stats.TotalSamples += px.SampleCount
			stats.MinSamples = minInt(stats.MinSamples, px.SampleCount)
			stats.MaxSamplesUsed = maxInt(stats.MaxSamplesUsed, px.SampleCount)
		}
	}
	if stats.TotalPixels > 0 {
		stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	}
	return img, stats
}

// vec3ToColor tonemaps a linear radiance estimate to 8-bit sRGB via
// gamma-2 correction and clamping, per the teacher's Raytracer.vec3ToColor.
func vec3ToColor(c core.Vec3) color.RGBA {
	c = c.GammaCorrect(2.0).Clamp(0, 1)
	return color.RGBA{R: uint8(255 * c.X), G: uint8(255 * c.Y), B: uint8(255 * c.Z), A: 255}
}
