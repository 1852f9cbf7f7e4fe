package light

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anthropics/go-tracer-core/pkg/core"
	"github.com/anthropics/go-tracer-core/pkg/shapes"
)

func TestPointLightInverseSquareFalloff(t *testing.T) {
	p := NewPoint(core.NewVec3(0, 5, 0), core.NewVec3(100, 100, 100))
	s := p.SampleLi(core.Vec3{}, core.Vec2{})
	require.True(t, s.Valid)
	require.InDelta(t, 4.0, s.Li.X, 1e-9) // 100/5^2
	require.True(t, p.IsDelta())
}

func TestDirectionalLightIsDelta(t *testing.T) {
	d := NewDirectional(core.NewVec3(0, -1, 0), core.NewVec3(1, 1, 1))
	require.True(t, d.IsDelta())
	require.Equal(t, 0.0, d.PDFLi(core.Vec3{}, core.NewVec3(0, 1, 0)))
}

func TestAreaLightSampleLiTowardsSphere(t *testing.T) {
	sphere := shapes.NewSphere(core.NewVec3(0, 0, -5), 1)
	a := NewArea(sphere, core.NewVec3(10, 10, 10), false)
	s := a.SampleLi(core.Vec3{}, core.NewVec2(0.3, 0.6))
	require.True(t, s.Valid)
	require.Greater(t, s.PDF, 0.0)
	require.False(t, a.IsDelta())
}

func TestUniformInfiniteLightPDF(t *testing.T) {
	u := NewUniform(core.NewVec3(1, 1, 1))
	require.InDelta(t, 1.0/(4*math.Pi), u.PDFLi(core.Vec3{}, core.NewVec3(0, 1, 0)), 1e-9)
}
