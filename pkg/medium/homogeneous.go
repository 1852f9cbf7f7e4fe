package medium

import "github.com/anthropics/go-tracer-core/pkg/core"

// Homogeneous is a constant-density participating medium (uniform fog or
// smoke), per spec §4.J.
type Homogeneous struct {
	sigmaA, sigmaS core.Vec3
	le             core.Vec3
	g              float64
}

func NewHomogeneous(sigmaA, sigmaS core.Vec3, g float64) *Homogeneous {
	return &Homogeneous{sigmaA: sigmaA, sigmaS: sigmaS, g: g}
}

// NewHomogeneousEmissive is NewHomogeneous with a constant volume
// emission term, e.g. for a glowing fire/smoke slab.
func NewHomogeneousEmissive(sigmaA, sigmaS, le core.Vec3, g float64) *Homogeneous {
	return &Homogeneous{sigmaA: sigmaA, sigmaS: sigmaS, le: le, g: g}
}

func (h *Homogeneous) IsVacuum() bool { return false }

func (h *Homogeneous) SigmaA(core.Vec3) core.Vec3 { return h.sigmaA }
func (h *Homogeneous) SigmaS(core.Vec3) core.Vec3 { return h.sigmaS }
func (h *Homogeneous) G(core.Vec3) float64        { return h.g }
func (h *Homogeneous) Le(core.Vec3) core.Vec3     { return h.le }

func (h *Homogeneous) sigmaT() core.Vec3 { return h.sigmaA.Add(h.sigmaS) }

func (h *Homogeneous) Majorant(ray core.Ray, tMin, tMax float64) MajorantSegment {
	st := h.sigmaT()
	return MajorantSegment{TMin: tMin, TMax: tMax, SigmaMaj: st.MaxComponent()}
}

// homogeneousIterator yields the Homogeneous medium's single constant
// segment exactly once.
type homogeneousIterator struct {
	seg  MajorantSegment
	done bool
}

func (h *Homogeneous) Iterator(ray core.Ray, tMin, tMax float64) MajorantIterator {
	return &homogeneousIterator{seg: h.Majorant(ray, tMin, tMax)}
}

func (it *homogeneousIterator) Next() (MajorantSegment, bool) {
	if it.done {
		return MajorantSegment{}, false
	}
	it.done = true
	return it.seg, true
}

// vacuum is the zero-density Medium used as MediumInterface's default,
// per spec §3: crossing into a vacuum medium is a no-op for transmittance.
type vacuum struct{}

// Vacuum is the shared empty-space medium.
var Vacuum Medium = vacuum{}

func (vacuum) IsVacuum() bool { return true }

func (vacuum) SigmaA(core.Vec3) core.Vec3 { return core.Vec3{} }
func (vacuum) SigmaS(core.Vec3) core.Vec3 { return core.Vec3{} }
func (vacuum) G(core.Vec3) float64        { return 0 }
func (vacuum) Le(core.Vec3) core.Vec3     { return core.Vec3{} }

func (vacuum) Majorant(ray core.Ray, tMin, tMax float64) MajorantSegment {
	return MajorantSegment{TMin: tMin, TMax: tMax, SigmaMaj: 0}
}
