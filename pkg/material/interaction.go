// Package material implements spec Component H: the material dispatcher
// over the BxDF library in pkg/bxdf, BSDF/BSSRDF construction, emission,
// alpha testing and normal mapping.
package material

import "github.com/anthropics/go-tracer-core/pkg/core"

// ShadingGeometry is the {normal, tangent} pair spec §3 calls
// `shading.{normal, tangent}` — the (possibly bump/normal-mapped) frame
// used for BSDF evaluation, as opposed to the Intersection's geometric
// normal used for ray-offset and face-orientation decisions.
type ShadingGeometry struct {
	Normal, Tangent core.Vec3
}

// SurfaceInteraction is spec §3's Intersection, minus the owning
// primitive pointer: {t, point, geometric_normal, shading.{normal,
// tangent}, uv, front_face}. The primitive back-reference is attached
// separately by pkg/primitive.HitRecord so that this package never has
// to import the primitive package (which in turn depends on material
// for BSDF construction) — see DESIGN.md for the dependency rationale.
type SurfaceInteraction struct {
	Point           core.Vec3
	GeometricNormal core.Vec3
	Shading         ShadingGeometry
	UV              core.Vec2
	T               float64
	FrontFace       bool
}

// SetFaceNormal orients the geometric and shading normals against the
// incoming ray direction, per spec §3: front_face = sign(-wi . n) > 0,
// with stored normals/tangents flipped to match.
func (si *SurfaceInteraction) SetFaceNormal(rayDir, outwardGeometric, outwardShading, outwardTangent core.Vec3) {
	si.FrontFace = rayDir.Dot(outwardGeometric) < 0
	if si.FrontFace {
		si.GeometricNormal = outwardGeometric
		si.Shading = ShadingGeometry{Normal: outwardShading, Tangent: outwardTangent}
	} else {
		si.GeometricNormal = outwardGeometric.Negate()
		si.Shading = ShadingGeometry{Normal: outwardShading.Negate(), Tangent: outwardTangent.Negate()}
	}
}

// Interaction is the result of sampling or evaluating scattering at a
// SurfaceInteraction, per spec §3: either a specular bounce
// (wi_specular, attenuation) or a non-specular one carrying a
// directional PDF (expressed here as the sampled pdf value directly,
// since this repo's BxDF contract always returns an explicit pdf rather
// than a PDF object).
type Interaction struct {
	Wi          core.Vec3
	Attenuation core.Vec3
	PDF         float64
	IsSpecular  bool
	Valid       bool
}
