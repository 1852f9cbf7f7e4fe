package renderer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/anthropics/go-tracer-core/pkg/core"
	"github.com/anthropics/go-tracer-core/pkg/integrator"
	"github.com/anthropics/go-tracer-core/pkg/light"
	"github.com/anthropics/go-tracer-core/pkg/material"
	"github.com/anthropics/go-tracer-core/pkg/primitive"
	"github.com/anthropics/go-tracer-core/pkg/scene"
	"github.com/anthropics/go-tracer-core/pkg/shapes"
	"github.com/anthropics/go-tracer-core/pkg/texture"
)

func litSphereScene(t *testing.T) *scene.Scene {
	t.Helper()
	b := scene.NewBuilder(nil)
	mat := material.NewDiffuse(texture.NewConstantColor(core.NewVec3(0.7, 0.7, 0.7)))
	b.AddPrimitive(primitive.NewPrimitive(shapes.NewSphere(core.NewVec3(0, 0, 0), 1), mat))
	b.AddLight(light.NewPoint(core.NewVec3(0, 5, 0), core.NewVec3(40, 40, 40)))
	return b.Build()
}

func testCamera(width, height int) *Camera {
	return NewCamera(CameraConfig{
		LookFrom:      core.NewVec3(0, 0, -5),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		VFOV:          40,
		FocusDistance: 5,
		Width:         width,
		Height:        height,
	})
}

func TestGetSamplesForPassRampsToMax(t *testing.T) {
	pr := NewProgressiveRaytracer(litSphereScene(t), testCamera(8, 8), integrator.NewAmbientOcclusion(1),
		8, 8, ProgressiveConfig{TileSize: 8, InitialSamples: 1, MaxSamplesPerPixel: 16, MaxPasses: 4}, nil)

	require.Equal(t, 1, pr.getSamplesForPass(1))
	require.Equal(t, 16, pr.getSamplesForPass(4))
	require.Less(t, pr.getSamplesForPass(2), pr.getSamplesForPass(3))
}

func TestRenderPassFillsEveryPixel(t *testing.T) {
	const size = 8
	pr := NewProgressiveRaytracer(litSphereScene(t), testCamera(size, size), integrator.NewAmbientOcclusion(1),
		size, size, ProgressiveConfig{TileSize: 4, InitialSamples: 2, MaxSamplesPerPixel: 2, MaxPasses: 1, NumWorkers: 2}, nil)

	img, stats, err := pr.RenderPass(1)
	require.NoError(t, err)
	require.Equal(t, size*size, stats.TotalPixels)
	require.Equal(t, size, img.Bounds().Dx())
	require.Equal(t, size, img.Bounds().Dy())
	for _, row := range pr.pixelStats {
		for _, px := range row {
			require.Equal(t, 2, px.SampleCount)
		}
	}
}

func TestRenderProgressiveStreamsAPassPerIteration(t *testing.T) {
	const size = 6
	pr := NewProgressiveRaytracer(litSphereScene(t), testCamera(size, size), integrator.NewAmbientOcclusion(1),
		size, size, ProgressiveConfig{TileSize: 4, InitialSamples: 1, MaxSamplesPerPixel: 3, MaxPasses: 3, NumWorkers: 2}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	passChan, errChan := pr.RenderProgressive(ctx)
	var passes []PassResult
	for p := range passChan {
		passes = append(passes, p)
	}
	require.NoError(t, <-errChan)
	require.NotEmpty(t, passes)
	require.True(t, passes[len(passes)-1].IsLast)
}

func TestVec3ToColorClampsAndGammaCorrects(t *testing.T) {
	c := vec3ToColor(core.NewVec3(2, 0, -1))
	require.Equal(t, uint8(255), c.R)
	require.Equal(t, uint8(0), c.G)
	require.Equal(t, uint8(0), c.B)
	require.Equal(t, uint8(255), c.A)
}
