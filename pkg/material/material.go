package material

import (
	"hash/fnv"
	"math"

	"github.com/anthropics/go-tracer-core/pkg/bxdf"
	"github.com/anthropics/go-tracer-core/pkg/core"
	"github.com/anthropics/go-tracer-core/pkg/texture"
)

// Material is spec §4.H's tagged-union dispatcher: a surface property
// that, given a SurfaceInteraction, produces the BxDF to scatter through
// (and optionally a BSSRDF for subsurface transport), plus the ancillary
// queries an integrator needs before it ever builds a BSDF at all —
// emission, alpha testing and normal mapping. Each concrete type below
// is one arm of the union; GetBSDF/GetBSSRDF return ok=false for arms
// that don't apply (an Emissive has no BSDF, a Dielectric has no BSSRDF).
type Material interface {
	// GetBSDF builds the world-space BSDF at isect for outgoing direction
	// wo. ok is false if this material never scatters directly (e.g. a
	// pure Emissive, or a Mix arm that routed this sample elsewhere).
	GetBSDF(isect *SurfaceInteraction, wo core.Vec3) (bsdf *BSDF, ok bool)

	// GetBSSRDF returns the subsurface profile at isect, if this material
	// has one.
	GetBSSRDF(isect *SurfaceInteraction) (profile *bxdf.SeparableBSSRDF, ok bool)

	// Le returns the emitted radiance towards wi at isect; zero for
	// non-emissive materials.
	Le(isect *SurfaceInteraction, wi core.Vec3) core.Vec3

	// TestAlpha reports whether the surface is present at uv; false means
	// the intersection should be treated as if the ray passed straight
	// through (foliage/fence-style cutouts), per spec §4.H.
	TestAlpha(uv core.Vec2) bool

	// GetNormalMap returns the tangent-space normal-map texture for this
	// material, or nil if it has none.
	GetNormalMap() texture.SpectrumTexture
}

// base factors out the alpha/normal-map machinery shared by every
// concrete material, since spec §4.H treats those as orthogonal to the
// scattering model itself.
type base struct {
	alphaMask texture.FloatTexture // nil => fully opaque
	normalMap texture.SpectrumTexture
}

func (b base) TestAlpha(uv core.Vec2) bool {
	if b.alphaMask == nil {
		return true
	}
	return b.alphaMask.Evaluate(uv) >= 0.5
}

func (b base) GetNormalMap() texture.SpectrumTexture { return b.normalMap }

func (base) Le(*SurfaceInteraction, core.Vec3) core.Vec3 { return core.Vec3{} }

func (base) GetBSSRDF(*SurfaceInteraction) (*bxdf.SeparableBSSRDF, bool) { return nil, false }

// WithAlpha attaches an alpha-cutout mask to any material built in this
// package, returning a copy with the mask set.
func WithAlpha(m Material, mask texture.FloatTexture) Material {
	return &alphaWrapped{Material: m, mask: mask}
}

type alphaWrapped struct {
	Material
	mask texture.FloatTexture
}

func (a *alphaWrapped) TestAlpha(uv core.Vec2) bool { return a.mask.Evaluate(uv) >= 0.5 }

// WithNormalMap attaches a tangent-space normal map to any material.
func WithNormalMap(m Material, nm texture.SpectrumTexture) Material {
	return &normalWrapped{Material: m, nm: nm}
}

type normalWrapped struct {
	Material
	nm texture.SpectrumTexture
}

func (n *normalWrapped) GetNormalMap() texture.SpectrumTexture { return n.nm }

// Diffuse is a Lambertian reflector, per spec §4.H.
type Diffuse struct {
	base
	Albedo texture.SpectrumTexture
}

func NewDiffuse(albedo texture.SpectrumTexture) *Diffuse { return &Diffuse{Albedo: albedo} }

func (d *Diffuse) GetBSDF(isect *SurfaceInteraction, wo core.Vec3) (*BSDF, bool) {
	return NewBSDF(isect.Shading.Normal, bxdf.NewLambertian(d.Albedo.Evaluate(isect.UV))), true
}

// Mirror is a perfectly specular reflector.
type Mirror struct {
	base
	Albedo texture.SpectrumTexture
}

func NewMirror(albedo texture.SpectrumTexture) *Mirror { return &Mirror{Albedo: albedo} }

func (m *Mirror) GetBSDF(isect *SurfaceInteraction, wo core.Vec3) (*BSDF, bool) {
	return NewBSDF(isect.Shading.Normal, bxdf.NewMirror(m.Albedo.Evaluate(isect.UV))), true
}

// Glass is a smooth dielectric interface (spec §4.H "Dielectric").
type Glass struct {
	base
	Eta float64
	Thin bool
}

func NewGlass(eta float64, thin bool) *Glass { return &Glass{Eta: eta, Thin: thin} }

func (g *Glass) GetBSDF(isect *SurfaceInteraction, wo core.Vec3) (*BSDF, bool) {
	if g.Thin {
		return NewBSDF(isect.Shading.Normal, bxdf.NewThinDielectric(g.Eta)), true
	}
	return NewBSDF(isect.Shading.Normal, bxdf.NewDielectric(g.Eta)), true
}

// Conductor is a rough or smooth metal, per spec §4.H "Conductor".
type Conductor struct {
	base
	IOR       bxdf.ComplexIOR
	Roughness texture.FloatTexture
}

func NewConductor(ior bxdf.ComplexIOR, roughness texture.FloatTexture) *Conductor {
	return &Conductor{IOR: ior, Roughness: roughness}
}

func (c *Conductor) GetBSDF(isect *SurfaceInteraction, wo core.Vec3) (*BSDF, bool) {
	r := c.Roughness.Evaluate(isect.UV)
	return NewBSDF(isect.Shading.Normal, bxdf.NewConductor(c.IOR, r)), true
}

// Plastic is a dielectric-coated diffuse surface: Cook-Torrance GGX
// specular over a Lambertian base, per spec §4.H "Coated diffuse".
type Plastic struct {
	base
	Albedo    texture.SpectrumTexture
	Roughness texture.FloatTexture
	Eta       float64
	UseVNDF   bool
}

func NewPlastic(albedo texture.SpectrumTexture, roughness texture.FloatTexture, eta float64, useVNDF bool) *Plastic {
	return &Plastic{Albedo: albedo, Roughness: roughness, Eta: eta, UseVNDF: useVNDF}
}

func (p *Plastic) GetBSDF(isect *SurfaceInteraction, wo core.Vec3) (*BSDF, bool) {
	albedo := p.Albedo.Evaluate(isect.UV)
	r := p.Roughness.Evaluate(isect.UV)
	return NewBSDF(isect.Shading.Normal, bxdf.NewMicrofacet(albedo, r, p.Eta, p.UseVNDF)), true
}

// LayeredMaterial stacks a clear coat over an arbitrary base material's
// BxDF, per spec §4.H "Coated" generalization beyond Plastic's fixed
// diffuse base.
type LayeredMaterial struct {
	base
	CoatEta    float64
	Base       Material
	Thickness  float64
	MediumTint core.Vec3
}

func NewLayeredMaterial(coatEta float64, baseMat Material, thickness float64, tint core.Vec3) *LayeredMaterial {
	return &LayeredMaterial{CoatEta: coatEta, Base: baseMat, Thickness: thickness, MediumTint: tint}
}

func (l *LayeredMaterial) GetBSDF(isect *SurfaceInteraction, wo core.Vec3) (*BSDF, bool) {
	baseBSDF, ok := l.Base.GetBSDF(isect, wo)
	if !ok {
		return nil, false
	}
	return NewBSDF(isect.Shading.Normal, bxdf.NewLayered(l.CoatEta, baseBSDF.lobe, l.Thickness, l.MediumTint)), true
}

// Subsurface pairs a smooth dielectric boundary BSDF with a dipole
// diffusion BSSRDF, per spec §4.H "Subsurface (diffusion)".
type Subsurface struct {
	base
	Eta            float64
	SigmaA, SigmaS core.Vec3
	G              float64
}

func NewSubsurface(eta float64, sigmaA, sigmaS core.Vec3, g float64) *Subsurface {
	return &Subsurface{Eta: eta, SigmaA: sigmaA, SigmaS: sigmaS, G: g}
}

func (s *Subsurface) GetBSDF(isect *SurfaceInteraction, wo core.Vec3) (*BSDF, bool) {
	return NewBSDF(isect.Shading.Normal, bxdf.NewDielectric(s.Eta)), true
}

func (s *Subsurface) GetBSSRDF(isect *SurfaceInteraction) (*bxdf.SeparableBSSRDF, bool) {
	return bxdf.NewSeparableBSSRDF(s.SigmaA, s.SigmaS, s.G, s.Eta), true
}

// Emissive is a light-emitting surface with no scattering of its own,
// per spec §4.H: area lights attach one of these to the primitive they
// light rather than carrying radiance themselves.
type Emissive struct {
	base
	Radiance  texture.SpectrumTexture
	TwoSided  bool
}

func NewEmissive(radiance texture.SpectrumTexture, twoSided bool) *Emissive {
	return &Emissive{Radiance: radiance, TwoSided: twoSided}
}

func (e *Emissive) GetBSDF(*SurfaceInteraction, core.Vec3) (*BSDF, bool) { return nil, false }

func (e *Emissive) Le(isect *SurfaceInteraction, wi core.Vec3) core.Vec3 {
	if !e.TwoSided && isect.GeometricNormal.Dot(wi) <= 0 {
		return core.Vec3{}
	}
	return e.Radiance.Evaluate(isect.UV)
}

// Mix stochastically selects between two materials, weighted by amount,
// per spec §4.H "Mix". The choice must be deterministic for the same
// surface point across bounces (the spec's stated Open Question
// resolution, see DESIGN.md): rather than consuming a fresh random
// number, the selection hashes the intersection point and UV so that
// re-intersecting the identical point (e.g. on a shadow ray retrace or a
// second bounce landing on the same triangle) always routes to the same
// arm, avoiding bias from inconsistent energy bookkeeping.
type Mix struct {
	A, B   Material
	Amount texture.FloatTexture // P(select B)
}

func NewMix(a, b Material, amount texture.FloatTexture) *Mix {
	return &Mix{A: a, B: b, Amount: amount}
}

// selectionHash derives a stable pseudo-random value in [0,1) from a
// surface point, used to make Mix's arm selection deterministic per
// point rather than per call.
func selectionHash(p core.Vec3, uv core.Vec2) float64 {
	h := fnv.New64a()
	var buf [40]byte
	putFloat := func(off int, f float64) {
		bits := math.Float64bits(f)
		for i := 0; i < 8; i++ {
			buf[off+i] = byte(bits >> (8 * i))
		}
	}
	putFloat(0, p.X)
	putFloat(8, p.Y)
	putFloat(16, p.Z)
	putFloat(24, uv.X)
	putFloat(32, uv.Y)
	h.Write(buf[:])
	return float64(h.Sum64()%(1<<53)) / float64(int64(1)<<53)
}

func (m *Mix) pick(isect *SurfaceInteraction) Material {
	t := m.Amount.Evaluate(isect.UV)
	if selectionHash(isect.Point, isect.UV) < t {
		return m.B
	}
	return m.A
}

func (m *Mix) GetBSDF(isect *SurfaceInteraction, wo core.Vec3) (*BSDF, bool) {
	return m.pick(isect).GetBSDF(isect, wo)
}

func (m *Mix) GetBSSRDF(isect *SurfaceInteraction) (*bxdf.SeparableBSSRDF, bool) {
	return m.pick(isect).GetBSSRDF(isect)
}

func (m *Mix) Le(isect *SurfaceInteraction, wi core.Vec3) core.Vec3 {
	return m.pick(isect).Le(isect, wi)
}

func (m *Mix) TestAlpha(uv core.Vec2) bool { return true }

func (m *Mix) GetNormalMap() texture.SpectrumTexture { return nil }
