// Package bxdf implements spec Component G: the BxDF library. Every
// implementation works entirely in local shading space (+Z is the
// shading normal, as built by core.Frame) so the material dispatcher in
// pkg/material owns the single Frame transform in and out.
package bxdf

import "github.com/anthropics/go-tracer-core/pkg/core"

// Flag is a bitmask classifying a BxDF lobe, per spec §4.G.
type Flag uint8

const (
	FlagDiffuse Flag = 1 << iota
	FlagGlossy
	FlagSpecular
	FlagReflection
	FlagTransmission
)

// Has reports whether f contains every bit in other.
func (f Flag) Has(other Flag) bool { return f&other == other }

// Any reports whether f shares any bit with other.
func (f Flag) Any(other Flag) bool { return f&other != 0 }

// Sample is the result of Sample_f: a sampled direction, its
// contribution, its PDF, and the flags of the lobe that was sampled.
// Per spec §4.K′, callers treat Valid=false as a failed sample and
// terminate the path with no contribution.
type Sample struct {
	Wi    core.Vec3
	F     core.Vec3
	PDF   float64
	Flags Flag
	Valid bool
}

// BxDF is the contract every scattering distribution implements, all in
// local shading-frame coordinates with wo/wi pointing away from the
// surface.
type BxDF interface {
	// F evaluates the distribution for a given pair of directions.
	F(wo, wi core.Vec3) core.Vec3

	// Sample_f draws a direction proportional to (an approximation of)
	// F*|cosTheta|, given two independent uniform samples.
	Sample_f(wo core.Vec3, u1 float64, u2 core.Vec2) Sample

	// PDF returns the probability density Sample_f would assign to wi
	// given wo, used for MIS against other sampling strategies.
	PDF(wo, wi core.Vec3) float64

	// Flags returns the subset of Flag this BxDF can produce.
	Flags() Flag
}
