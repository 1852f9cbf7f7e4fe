package renderer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anthropics/go-tracer-core/pkg/core"
)

func TestNewCameraLooksTowardTarget(t *testing.T) {
	cam := NewCamera(CameraConfig{
		LookFrom:      core.NewVec3(0, 0, -5),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		VFOV:          40,
		Aperture:      0,
		FocusDistance: 5,
		Width:         100,
		Height:        100,
	})

	sampler := core.NewSampler(50, 50, 0)
	ray := cam.GetRay(50, 50, sampler)
	require.Greater(t, ray.Direction.Z, 0.0, "center ray should point roughly toward +Z, toward the look-at target")
}

func TestCameraApertureJittersOrigin(t *testing.T) {
	cam := NewCamera(CameraConfig{
		LookFrom:      core.NewVec3(0, 0, -5),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		VFOV:          40,
		Aperture:      2.0,
		FocusDistance: 5,
		Width:         100,
		Height:        100,
	})

	origins := map[core.Vec3]bool{}
	for i := 0; i < 8; i++ {
		sampler := core.NewSampler(50, 50, i)
		ray := cam.GetRay(50, 50, sampler)
		origins[ray.Origin] = true
	}
	require.Greater(t, len(origins), 1, "a nonzero aperture should jitter ray origins across samples")
}
