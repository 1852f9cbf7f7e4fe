package bxdf

import (
	"math"

	"github.com/anthropics/go-tracer-core/pkg/core"
)

// ComplexIOR is a wavelength-independent-per-channel complex index of
// refraction (eta, k) used by Conductor's Fresnel term.
type ComplexIOR struct {
	Eta, K core.Vec3
}

// fresnelConductor evaluates the unpolarized Fresnel reflectance of a
// conductor at incidence angle cosThetaI, per channel.
func fresnelConductor(cosThetaI float64, ior ComplexIOR) core.Vec3 {
	return core.Vec3{
		X: fresnelConductorChannel(cosThetaI, ior.Eta.X, ior.K.X),
		Y: fresnelConductorChannel(cosThetaI, ior.Eta.Y, ior.K.Y),
		Z: fresnelConductorChannel(cosThetaI, ior.Eta.Z, ior.K.Z),
	}
}

func fresnelConductorChannel(cosThetaI, eta, k float64) float64 {
	cos2 := cosThetaI * cosThetaI
	sin2 := 1 - cos2
	eta2 := eta * eta
	k2 := k * k

	t0 := eta2 - k2 - sin2
	a2b2 := math.Sqrt(math.Max(0, t0*t0+4*eta2*k2))
	t1 := a2b2 + cos2
	a := math.Sqrt(math.Max(0, 0.5*(a2b2+t0)))
	t2 := 2 * a * cosThetaI
	rs := (t1 - t2) / (t1 + t2)

	t3 := cos2*a2b2 + sin2*sin2
	t4 := t2 * sin2
	rp := rs * (t3 - t4) / (t3 + t4)

	return 0.5 * (rp + rs)
}

// Conductor is a rough or smooth metallic reflector: Fresnel with a
// complex index of refraction, GGX normal distribution, height-correlated
// Smith masking-shadowing (spec §4.G).
type Conductor struct {
	IOR          ComplexIOR
	AlphaX, AlphaY float64
}

// NewConductor creates a Conductor BxDF with isotropic roughness.
func NewConductor(ior ComplexIOR, roughness float64) *Conductor {
	a := core.RoughnessToAlpha(roughness)
	return &Conductor{IOR: ior, AlphaX: a, AlphaY: a}
}

func (c *Conductor) smooth() bool { return c.AlphaX < 1e-3 && c.AlphaY < 1e-3 }

func (c *Conductor) F(wo, wi core.Vec3) core.Vec3 {
	if !core.SameHemisphere(wo, wi) || c.smooth() {
		return core.Vec3{}
	}
	cosO, cosI := core.AbsCosTheta(wo), core.AbsCosTheta(wi)
	if cosO == 0 || cosI == 0 {
		return core.Vec3{}
	}
	wh := wo.Add(wi)
	if wh.IsZero() {
		return core.Vec3{}
	}
	wh = wh.Normalize()

	alpha2 := c.AlphaX * c.AlphaY
	d := core.DistributionGGX(core.AbsCosTheta(wh), alpha2)
	g := core.SmithG2Correlated(cosO, cosI, alpha2)
	fr := fresnelConductor(math.Abs(wo.Dot(wh)), c.IOR)

	return fr.Multiply(d * g / (4 * cosO * cosI))
}

func (c *Conductor) Sample_f(wo core.Vec3, u1 float64, u2 core.Vec2) Sample {
	if core.AbsCosTheta(wo) == 0 {
		return Sample{}
	}
	if c.smooth() {
		wi := reflectLocal(wo)
		fr := fresnelConductor(core.AbsCosTheta(wo), c.IOR)
		f := fr.Multiply(1.0 / core.AbsCosTheta(wi))
		return Sample{Wi: wi, F: f, PDF: 1, Flags: FlagSpecular | FlagReflection, Valid: true}
	}

	woFacing := wo
	if wo.Z < 0 {
		woFacing = wo.Negate()
	}
	wh := core.GGXSampleVNDF(woFacing, c.AlphaX, c.AlphaY, u2)
	if wo.Z < 0 {
		wh = wh.Negate()
	}
	wi := reflectAbout(wo, wh)
	if !core.SameHemisphere(wo, wi) {
		return Sample{}
	}
	pdf := c.PDF(wo, wi)
	if pdf <= 0 {
		return Sample{}
	}
	return Sample{Wi: wi, F: c.F(wo, wi), PDF: pdf, Flags: c.Flags(), Valid: true}
}

// reflectAbout reflects wo about an arbitrary half-vector wh.
func reflectAbout(wo, wh core.Vec3) core.Vec3 {
	return wo.Negate().Add(wh.Multiply(2 * wo.Dot(wh)))
}

func (c *Conductor) PDF(wo, wi core.Vec3) float64 {
	if !core.SameHemisphere(wo, wi) || c.smooth() {
		return 0
	}
	wh := wo.Add(wi)
	if wh.IsZero() {
		return 0
	}
	wh = wh.Normalize()
	if wh.Z < 0 {
		wh = wh.Negate()
	}
	alpha2 := c.AlphaX * c.AlphaY
	d := core.DistributionGGX(core.AbsCosTheta(wh), alpha2)
	g1 := core.SmithG1(core.AbsCosTheta(wo), alpha2)
	// VNDF pdf: D * G1 * |VoH| / |NoV|, then the Jacobian 1/(4|VoH|) of the
	// half-vector to outgoing-direction reflection map.
	return d * g1 * math.Abs(wo.Dot(wh)) / core.AbsCosTheta(wo) / (4 * math.Abs(wo.Dot(wh)))
}

func (c *Conductor) Flags() Flag {
	if c.smooth() {
		return FlagSpecular | FlagReflection
	}
	return FlagGlossy | FlagReflection
}
