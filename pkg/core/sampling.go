package core

import "math"

// This file implements spec §4.A: sampling primitives pure in their 2-D
// uniform input u in [0,1)^2, plus the MIS balance/power heuristics
// shared by every NEE-capable integrator.

// UniformSampleSphere maps u to a point on the unit sphere, uniform by
// solid angle.
func UniformSampleSphere(u Vec2) Vec3 {
	z := 1 - 2*u.X
	r := math.Sqrt(math.Max(0, 1-z*z))
	phi := 2 * math.Pi * u.Y
	return Vec3{r * math.Cos(phi), r * math.Sin(phi), z}
}

// UniformSpherePDF is the PDF of UniformSampleSphere: 1/(4*pi).
func UniformSpherePDF() float64 { return 1.0 / (4.0 * math.Pi) }

// UniformSampleHemisphere maps u to a point on the unit hemisphere about
// +Z, uniform by solid angle.
func UniformSampleHemisphere(u Vec2) Vec3 {
	z := u.X
	r := math.Sqrt(math.Max(0, 1-z*z))
	phi := 2 * math.Pi * u.Y
	return Vec3{r * math.Cos(phi), r * math.Sin(phi), z}
}

// UniformHemispherePDF is the PDF of UniformSampleHemisphere: 1/(2*pi).
func UniformHemispherePDF() float64 { return 1.0 / (2.0 * math.Pi) }

// UniformSampleDisk maps u to a point on the unit disk via concentric
// mapping, avoiding the area distortion of the naive polar mapping.
func UniformSampleDisk(u Vec2) Vec2 {
	ox, oy := 2*u.X-1, 2*u.Y-1
	if ox == 0 && oy == 0 {
		return Vec2{}
	}
	var r, theta float64
	if math.Abs(ox) > math.Abs(oy) {
		r = ox
		theta = (math.Pi / 4) * (oy / ox)
	} else {
		r = oy
		theta = (math.Pi / 2) - (math.Pi/4)*(ox/oy)
	}
	return Vec2{r * math.Cos(theta), r * math.Sin(theta)}
}

// CosineSampleHemisphere maps u to a cosine-weighted direction on the
// hemisphere about +Z via Malley's method (disk sample lifted to the
// hemisphere), and returns the local-space direction. PDF is
// CosineHemispherePDF(cosTheta).
func CosineSampleHemisphere(u Vec2) Vec3 {
	d := UniformSampleDisk(u)
	z := math.Sqrt(math.Max(0, 1-d.X*d.X-d.Y*d.Y))
	return Vec3{d.X, d.Y, z}
}

// CosineHemispherePDF returns cos(theta)/pi for a local-space direction
// whose Z component is cosTheta.
func CosineHemispherePDF(cosTheta float64) float64 { return math.Max(0, cosTheta) / math.Pi }

// RandomCosineDirection draws a cosine-weighted direction in world space
// about the given normal, combining Frame construction with
// CosineSampleHemisphere. The ambient-occlusion integrator uses it; the
// BxDFs call CosineSampleHemisphere directly in local space.
func RandomCosineDirection(normal Vec3, u Vec2) Vec3 {
	return NewFrame(normal).ToWorld(CosineSampleHemisphere(u))
}

// GGXSampleD draws a half-vector from the GGX (Trowbridge-Reitz)
// distribution of normals in local space (wo-independent), alpha is the
// roughness-to-alpha mapped value.
func GGXSampleD(alpha float64, u Vec2) Vec3 {
	theta := math.Atan(alpha * math.Sqrt(u.X/math.Max(1e-8, 1-u.X)))
	phi := 2 * math.Pi * u.Y
	sinT, cosT := math.Sin(theta), math.Cos(theta)
	return Vec3{sinT * math.Cos(phi), sinT * math.Sin(phi), cosT}
}

// GGXSampleVNDF draws a half-vector from the visible normal distribution
// for GGX given a local-space outgoing direction wo, using Heitz's
// hemisphere-projection construction (a disk sample warped towards the
// visible half). It computes the same mapping as GGXSampleVNDFHeitz; the
// spherical-caps parameterization of Dupuy & Benyoub is not implemented.
func GGXSampleVNDF(wo Vec3, alphaX, alphaY float64, u Vec2) Vec3 {
	// Transform the view direction to the hemisphere configuration.
	vh := Vec3{alphaX * wo.X, alphaY * wo.Y, wo.Z}.Normalize()

	// Orthonormal basis in the hemisphere's tangent plane.
	lensq := vh.X*vh.X + vh.Y*vh.Y
	var t1 Vec3
	if lensq > 0 {
		t1 = Vec3{-vh.Y, vh.X, 0}.Multiply(1 / math.Sqrt(lensq))
	} else {
		t1 = Vec3{1, 0, 0}
	}
	t2 := vh.Cross(t1)

	// Sample a disk with a horizon-aware warp.
	r := math.Sqrt(u.X)
	phi := 2 * math.Pi * u.Y
	px := r * math.Cos(phi)
	py := r * math.Sin(phi)
	s := 0.5 * (1 + vh.Z)
	py = (1-s)*math.Sqrt(math.Max(0, 1-px*px)) + s*py

	pz := math.Sqrt(math.Max(0, 1-px*px-py*py))
	nh := t1.Multiply(px).Add(t2.Multiply(py)).Add(vh.Multiply(pz))

	// Transform back to the ellipsoid configuration and normalize.
	return Vec3{alphaX * nh.X, alphaY * nh.Y, math.Max(1e-8, nh.Z)}.Normalize()
}

// GGXSampleVNDFHeitz is the alternate VNDF sampler named in spec §4.A,
// Heitz's original reprojection-based construction. GGXSampleVNDF uses
// the same construction, so both return the same half-vector for the
// same inputs.
func GGXSampleVNDFHeitz(wo Vec3, alphaX, alphaY float64, u Vec2) Vec3 {
	vh := Vec3{alphaX * wo.X, alphaY * wo.Y, wo.Z}.Normalize()

	lensq := vh.X*vh.X + vh.Y*vh.Y
	var t1 Vec3
	if lensq > 0 {
		t1 = Vec3{-vh.Y, vh.X, 0}.Multiply(1 / math.Sqrt(lensq))
	} else {
		t1 = Vec3{1, 0, 0}
	}
	t2 := vh.Cross(t1)

	r := math.Sqrt(u.X)
	phi := 2 * math.Pi * u.Y
	t1p := r * math.Cos(phi)
	t2p := r * math.Sin(phi)
	s := 0.5 * (1 + vh.Z)
	t2p = (1-s)*math.Sqrt(math.Max(0, 1-t1p*t1p)) + s*t2p

	nh := t1.Multiply(t1p).Add(t2.Multiply(t2p)).Add(vh.Multiply(math.Sqrt(math.Max(0, 1-t1p*t1p-t2p*t2p))))
	return Vec3{alphaX * nh.X, alphaY * nh.Y, math.Max(1e-8, nh.Z)}.Normalize()
}

// RoughnessToAlpha maps a perceptual roughness in [0,1] to the GGX alpha
// parameter, per spec §4.A: max(r^2, 2e-3).
func RoughnessToAlpha(roughness float64) float64 {
	return math.Max(roughness*roughness, 2e-3)
}

const ggxEpsilon = 1e-7

// DistributionGGX evaluates the GGX normal distribution function D(NoH)
// for isotropic roughness alpha^2, per spec §4.A.
func DistributionGGX(noH, alpha2 float64) float64 {
	denom := noH*noH*(alpha2-1) + 1
	return alpha2 / math.Max(ggxEpsilon, math.Pi*denom*denom)
}

// SmithG1 is the monodirectional Smith masking term for GGX.
func SmithG1(cosTheta, alpha2 float64) float64 {
	cos2 := cosTheta * cosTheta
	tan2 := math.Max(0, 1-cos2) / math.Max(ggxEpsilon, cos2)
	return 2.0 / (1.0 + math.Sqrt(1.0+alpha2*tan2))
}

// SmithG2Correlated is the height-correlated Smith masking-shadowing
// term G2(wo, wi) for GGX.
func SmithG2Correlated(noV, noL, alpha2 float64) float64 {
	lambdaV := noL * math.Sqrt(noV*noV*(1-alpha2)+alpha2)
	lambdaL := noV * math.Sqrt(noL*noL*(1-alpha2)+alpha2)
	return 2 * noV * noL / math.Max(ggxEpsilon, lambdaV+lambdaL)
}

// VisibilitySmithCorrelated is G2/(4*NoV*NoL), the form that appears
// directly in the Cook-Torrance specular term.
func VisibilitySmithCorrelated(noV, noL, alpha2 float64) float64 {
	return SmithG2Correlated(noV, noL, alpha2) / math.Max(ggxEpsilon, 4*noV*noL)
}

// BalanceHeuristic implements the balance heuristic for multiple
// importance sampling.
func BalanceHeuristic(nf int, fPdf float64, ng int, gPdf float64) float64 {
	if fPdf == 0 {
		return 0
	}
	f := float64(nf) * fPdf
	g := float64(ng) * gPdf
	return f / (f + g)
}

// PowerHeuristic implements the power heuristic (beta=2) for multiple
// importance sampling, per spec §4.A.
func PowerHeuristic(nf int, fPdf float64, ng int, gPdf float64) float64 {
	if fPdf == 0 {
		return 0
	}
	f := float64(nf) * fPdf
	g := float64(ng) * gPdf
	return (f * f) / (f*f + g*g)
}
