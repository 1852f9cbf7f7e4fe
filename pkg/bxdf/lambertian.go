package bxdf

import (
	"math"

	"github.com/anthropics/go-tracer-core/pkg/core"
)

// Lambertian is a perfectly diffuse reflector: f = rho/pi, sampled
// cosine-weighted (spec §4.G).
type Lambertian struct {
	Albedo core.Vec3
}

// NewLambertian creates a Lambertian BxDF with the given reflectance.
func NewLambertian(albedo core.Vec3) *Lambertian { return &Lambertian{Albedo: albedo} }

func (l *Lambertian) F(wo, wi core.Vec3) core.Vec3 {
	if !core.SameHemisphere(wo, wi) {
		return core.Vec3{}
	}
	return l.Albedo.Multiply(1.0 / math.Pi)
}

func (l *Lambertian) Sample_f(wo core.Vec3, u1 float64, u2 core.Vec2) Sample {
	wi := core.CosineSampleHemisphere(u2)
	if wo.Z < 0 {
		wi.Z = -wi.Z
	}
	pdf := l.PDF(wo, wi)
	if pdf <= 0 {
		return Sample{}
	}
	return Sample{Wi: wi, F: l.F(wo, wi), PDF: pdf, Flags: l.Flags(), Valid: true}
}

func (l *Lambertian) PDF(wo, wi core.Vec3) float64 {
	if !core.SameHemisphere(wo, wi) {
		return 0
	}
	return core.CosineHemispherePDF(core.AbsCosTheta(wi))
}

func (l *Lambertian) Flags() Flag { return FlagDiffuse | FlagReflection }
