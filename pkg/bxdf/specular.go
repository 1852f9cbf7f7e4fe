package bxdf

import (
	"math"

	"github.com/anthropics/go-tracer-core/pkg/core"
)

// reflectLocal reflects wo about the local-space shading normal (+Z).
func reflectLocal(wo core.Vec3) core.Vec3 {
	return core.Vec3{X: -wo.X, Y: -wo.Y, Z: wo.Z}
}

// Mirror is a perfect specular reflector: a Dirac delta in direction,
// returned as pdf=1 and marked specular per spec §4.G.
type Mirror struct {
	Albedo core.Vec3
}

func NewMirror(albedo core.Vec3) *Mirror { return &Mirror{Albedo: albedo} }

func (m *Mirror) F(wo, wi core.Vec3) core.Vec3 { return core.Vec3{} }

func (m *Mirror) Sample_f(wo core.Vec3, u1 float64, u2 core.Vec2) Sample {
	if core.AbsCosTheta(wo) == 0 {
		return Sample{}
	}
	wi := reflectLocal(wo)
	f := m.Albedo.Multiply(1.0 / core.AbsCosTheta(wi))
	return Sample{Wi: wi, F: f, PDF: 1, Flags: m.Flags(), Valid: true}
}

func (m *Mirror) PDF(wo, wi core.Vec3) float64 { return 0 }

func (m *Mirror) Flags() Flag { return FlagSpecular | FlagReflection }

// schlickR0 is the normal-incidence Fresnel reflectance from Schlick's
// approximation, per spec §4.G: R0 = ((1-eta)/(1+eta))^2.
func schlickR0(eta float64) float64 {
	r0 := (1 - eta) / (1 + eta)
	return r0 * r0
}

// schlickFresnel evaluates Schlick's approximation at incidence angle
// cosTheta given the normal-incidence reflectance r0.
func schlickFresnel(cosTheta, r0 float64) float64 {
	return r0 + (1-r0)*math.Pow(1-cosTheta, 5)
}

// refractLocal refracts wo (pointing away from the surface) through a
// local-space interface with the given relative IOR eta = etaIncident/etaTransmitted,
// returning (wt, ok); ok is false on total internal reflection.
func refractLocal(wo core.Vec3, eta float64) (core.Vec3, bool) {
	cosThetaI := core.AbsCosTheta(wo)
	sin2ThetaI := math.Max(0, 1-cosThetaI*cosThetaI)
	sin2ThetaT := eta * eta * sin2ThetaI
	if sin2ThetaT >= 1 {
		return core.Vec3{}, false // total internal reflection
	}
	cosThetaT := math.Sqrt(1 - sin2ThetaT)
	wt := core.Vec3{X: -wo.X * eta, Y: -wo.Y * eta, Z: -cosThetaT}
	if wo.Z < 0 {
		wt.Z = -wt.Z
	}
	return wt, true
}

// Dielectric is a smooth transparent interface (e.g. glass), choosing
// stochastically between reflection and refraction weighted by Schlick
// reflectance, with a TIR guard (spec §4.G).
type Dielectric struct {
	Eta float64 // index of refraction of the medium behind the surface
}

func NewDielectric(eta float64) *Dielectric { return &Dielectric{Eta: eta} }

func (d *Dielectric) F(wo, wi core.Vec3) core.Vec3 { return core.Vec3{} }

func (d *Dielectric) Sample_f(wo core.Vec3, u1 float64, u2 core.Vec2) Sample {
	entering := wo.Z > 0
	etaI, etaT := 1.0, d.Eta
	if !entering {
		etaI, etaT = etaT, etaI
	}
	eta := etaI / etaT

	cosThetaI := core.AbsCosTheta(wo)
	r0 := schlickR0(etaT / etaI)
	fr := schlickFresnel(cosThetaI, r0)

	if u1 < fr {
		wi := reflectLocal(wo)
		f := core.NewVec3(1, 1, 1).Multiply(fr / core.AbsCosTheta(wi))
		return Sample{Wi: wi, F: f, PDF: fr, Flags: FlagSpecular | FlagReflection, Valid: true}
	}

	wt, ok := refractLocal(wo, eta)
	if !ok {
		// Forced reflection: TIR guard, eta*sinThetaI >= 1.
		wi := reflectLocal(wo)
		f := core.NewVec3(1, 1, 1).Multiply(1.0 / core.AbsCosTheta(wi))
		return Sample{Wi: wi, F: f, PDF: 1, Flags: FlagSpecular | FlagReflection, Valid: true}
	}

	ft := 1 - fr
	f := core.NewVec3(1, 1, 1).Multiply(ft / core.AbsCosTheta(wt))
	return Sample{Wi: wt, F: f, PDF: ft, Flags: FlagSpecular | FlagTransmission, Valid: true}
}

func (d *Dielectric) PDF(wo, wi core.Vec3) float64 { return 0 }

func (d *Dielectric) Flags() Flag { return FlagSpecular | FlagReflection | FlagTransmission }

// ThinDielectric models an infinitely-thin slab of dielectric material
// (e.g. a soap film or thin glass pane) by collapsing the two surface
// interactions analytically, per spec §4.G: the light either reflects
// once or passes straight through, with no refraction bend.
type ThinDielectric struct {
	Eta float64
}

func NewThinDielectric(eta float64) *ThinDielectric { return &ThinDielectric{Eta: eta} }

func (t *ThinDielectric) F(wo, wi core.Vec3) core.Vec3 { return core.Vec3{} }

func (t *ThinDielectric) Sample_f(wo core.Vec3, u1 float64, u2 core.Vec2) Sample {
	cosThetaI := core.AbsCosTheta(wo)
	r0 := schlickR0(t.Eta)
	fr := schlickFresnel(cosThetaI, r0)
	if fr < 1 {
		// Account for the round trip through the slab: R' = R + T^2*R/(1-R^2).
		fr += (1 - fr) * (1 - fr) * fr / (1 - fr*fr)
	}

	if u1 < fr {
		wi := reflectLocal(wo)
		f := core.NewVec3(1, 1, 1).Multiply(fr / core.AbsCosTheta(wi))
		return Sample{Wi: wi, F: f, PDF: fr, Flags: FlagSpecular | FlagReflection, Valid: true}
	}

	wi := wo.Negate() // straight transmission, no bend
	ft := 1 - fr
	f := core.NewVec3(1, 1, 1).Multiply(ft / core.AbsCosTheta(wi))
	return Sample{Wi: wi, F: f, PDF: ft, Flags: FlagSpecular | FlagTransmission, Valid: true}
}

func (t *ThinDielectric) PDF(wo, wi core.Vec3) float64 { return 0 }

func (t *ThinDielectric) Flags() Flag { return FlagSpecular | FlagReflection | FlagTransmission }
