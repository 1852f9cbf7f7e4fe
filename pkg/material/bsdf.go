package material

import (
	"github.com/anthropics/go-tracer-core/pkg/bxdf"
	"github.com/anthropics/go-tracer-core/pkg/core"
)

// BSDF wraps a local-space bxdf.BxDF with the world-space shading Frame
// built from the Intersection's shading normal, so every caller outside
// this package works entirely in world space (spec §4.G/§4.H). NewBSDF
// returns an ordinary heap value for each shading point; it is not
// allocated from a core.Arena.
type BSDF struct {
	frame core.Frame
	lobe  bxdf.BxDF
}

// NewBSDF builds a world-space BSDF from a local-space BxDF and the
// shading normal it should be anchored to.
func NewBSDF(shadingNormal core.Vec3, lobe bxdf.BxDF) *BSDF {
	return &BSDF{frame: core.NewFrame(shadingNormal), lobe: lobe}
}

// F evaluates the BSDF for world-space directions.
func (b *BSDF) F(woWorld, wiWorld core.Vec3) core.Vec3 {
	wo, wi := b.frame.ToLocal(woWorld), b.frame.ToLocal(wiWorld)
	if wo.Z == 0 {
		return core.Vec3{}
	}
	return b.lobe.F(wo, wi)
}

// Sample_f draws a world-space scattering direction.
func (b *BSDF) Sample_f(woWorld core.Vec3, u1 float64, u2 core.Vec2) Interaction {
	wo := b.frame.ToLocal(woWorld)
	if wo.Z == 0 {
		return Interaction{}
	}
	s := b.lobe.Sample_f(wo, u1, u2)
	if !s.Valid || s.PDF <= 0 {
		return Interaction{}
	}
	return Interaction{
		Wi:          b.frame.ToWorld(s.Wi),
		Attenuation: s.F,
		PDF:         s.PDF,
		IsSpecular:  s.Flags.Has(bxdf.FlagSpecular),
		Valid:       true,
	}
}

// PDF returns the probability density of wiWorld under this BSDF's
// sampling strategy, for MIS against light sampling.
func (b *BSDF) PDF(woWorld, wiWorld core.Vec3) float64 {
	wo, wi := b.frame.ToLocal(woWorld), b.frame.ToLocal(wiWorld)
	if wo.Z == 0 {
		return 0
	}
	return b.lobe.PDF(wo, wi)
}

// IsSpecular reports whether every lobe this BSDF can produce is a
// delta distribution; MIS-capable integrators skip NEE at such vertices
// per spec §4.K.
func (b *BSDF) IsSpecular() bool {
	return b.lobe.Flags().Has(bxdf.FlagSpecular) && !b.lobe.Flags().Any(bxdf.FlagDiffuse|bxdf.FlagGlossy)
}
