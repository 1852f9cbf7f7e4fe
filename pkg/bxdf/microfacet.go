package bxdf

import (
	"math"

	"github.com/anthropics/go-tracer-core/pkg/core"
)

// Microfacet is the dielectric-coated diffuse/specular model of spec
// §4.G: a Cook-Torrance GGX specular lobe mixed with a Lambertian
// diffuse lobe, the mix weighted by a sampling weight t computed from
// Schlick's Fresnel term at normal incidence.
type Microfacet struct {
	Albedo         core.Vec3
	AlphaX, AlphaY float64
	Eta            float64 // dielectric IOR of the coat, for the Fresnel mix weight
	UseVNDF        bool
}

// NewMicrofacet creates an isotropic-roughness Microfacet BxDF.
func NewMicrofacet(albedo core.Vec3, roughness, eta float64, useVNDF bool) *Microfacet {
	a := core.RoughnessToAlpha(roughness)
	return &Microfacet{Albedo: albedo, AlphaX: a, AlphaY: a, Eta: eta, UseVNDF: useVNDF}
}

// sampleWeight is t in [0.15, 0.9], the probability mass Sample_f spends
// on the specular lobe vs. the diffuse lobe.
func (m *Microfacet) sampleWeight() float64 {
	r0 := schlickR0(m.Eta)
	fr := schlickFresnel(1.0, r0) // Fresnel at normal incidence
	return math.Max(0.15, math.Min(0.9, r0+(1-r0)*fr))
}

func (m *Microfacet) alpha2() float64 { return m.AlphaX * m.AlphaY }

func (m *Microfacet) specularF(wo, wi core.Vec3) (core.Vec3, core.Vec3) {
	cosO, cosI := core.AbsCosTheta(wo), core.AbsCosTheta(wi)
	if cosO == 0 || cosI == 0 {
		return core.Vec3{}, core.Vec3{}
	}
	wh := wo.Add(wi)
	if wh.IsZero() {
		return core.Vec3{}, core.Vec3{}
	}
	wh = wh.Normalize()

	alpha2 := m.alpha2()
	d := core.DistributionGGX(core.AbsCosTheta(wh), alpha2)
	g := core.SmithG2Correlated(cosO, cosI, alpha2)
	r0 := schlickR0(m.Eta)
	fr := schlickFresnel(math.Abs(wo.Dot(wh)), r0)

	spec := core.NewVec3(fr, fr, fr).Multiply(d * g / (4 * cosO * cosI))
	return spec, wh
}

func (m *Microfacet) F(wo, wi core.Vec3) core.Vec3 {
	if !core.SameHemisphere(wo, wi) {
		return core.Vec3{}
	}
	spec, _ := m.specularF(wo, wi)
	diffuse := m.Albedo.Multiply((1.0 / math.Pi))
	return spec.Add(diffuse)
}

func (m *Microfacet) Sample_f(wo core.Vec3, u1 float64, u2 core.Vec2) Sample {
	if core.AbsCosTheta(wo) == 0 {
		return Sample{}
	}
	t := m.sampleWeight()

	var wi core.Vec3
	if u1 < t {
		woFacing := wo
		if wo.Z < 0 {
			woFacing = wo.Negate()
		}
		var wh core.Vec3
		if m.UseVNDF {
			wh = core.GGXSampleVNDF(woFacing, m.AlphaX, m.AlphaY, u2)
		} else {
			wh = core.GGXSampleD(math.Sqrt(m.alpha2()), u2)
		}
		if wo.Z < 0 {
			wh = wh.Negate()
		}
		wi = reflectAbout(wo, wh)
	} else {
		wi = core.CosineSampleHemisphere(u2)
		if wo.Z < 0 {
			wi.Z = -wi.Z
		}
	}

	if !core.SameHemisphere(wo, wi) {
		return Sample{}
	}
	pdf := m.PDF(wo, wi)
	if pdf <= 0 {
		return Sample{}
	}
	return Sample{Wi: wi, F: m.F(wo, wi), PDF: pdf, Flags: m.Flags(), Valid: true}
}

// PDF returns the linear combination of the diffuse cosine PDF and the
// (VNDF-weighted, when enabled) specular half-vector PDF, per spec §4.G:
// (1-t)*cos/pi + t*D*NoH/(4*LoH).
func (m *Microfacet) PDF(wo, wi core.Vec3) float64 {
	if !core.SameHemisphere(wo, wi) {
		return 0
	}
	t := m.sampleWeight()
	diffusePDF := core.CosineHemispherePDF(core.AbsCosTheta(wi))

	wh := wo.Add(wi)
	if wh.IsZero() {
		return (1 - t) * diffusePDF
	}
	wh = wh.Normalize()
	if wh.Z < 0 {
		wh = wh.Negate()
	}
	loH := math.Abs(wi.Dot(wh))
	if loH == 0 {
		return (1 - t) * diffusePDF
	}

	var specPDF float64
	if m.UseVNDF {
		g1 := core.SmithG1(core.AbsCosTheta(wo), m.alpha2())
		d := core.DistributionGGX(core.AbsCosTheta(wh), m.alpha2())
		specPDF = d * g1 * math.Abs(wo.Dot(wh)) / core.AbsCosTheta(wo) / (4 * loH)
	} else {
		d := core.DistributionGGX(core.AbsCosTheta(wh), m.alpha2())
		specPDF = d * core.AbsCosTheta(wh) / (4 * loH)
	}

	return (1-t)*diffusePDF + t*specPDF
}

func (m *Microfacet) Flags() Flag { return FlagDiffuse | FlagGlossy | FlagReflection }
