package scene

import (
	"github.com/anthropics/go-tracer-core/pkg/bvh"
	"github.com/anthropics/go-tracer-core/pkg/core"
	"github.com/anthropics/go-tracer-core/pkg/light"
	"github.com/anthropics/go-tracer-core/pkg/material"
	"github.com/anthropics/go-tracer-core/pkg/primitive"
	"github.com/anthropics/go-tracer-core/pkg/texture"
)

// Builder assembles a Scene incrementally: add primitives and delta
// lights, then Build() constructs the acceleration structure and wires
// every emissive primitive into both primitive.AreaLightRef (for direct
// hits) and light.Light (for NEE), per spec §3/§4.I.
type Builder struct {
	primitives []*primitive.Primitive
	lights     []light.Light
	infinite   []light.InfiniteLight
	cache      *texture.Cache
	logger     core.Logger
}

// NewBuilder creates an empty scene builder with its own image cache,
// per spec §9's guidance against a process-global cache.
func NewBuilder(logger core.Logger) *Builder {
	if logger == nil {
		logger = core.NewNopLogger()
	}
	return &Builder{cache: texture.NewCache(), logger: logger}
}

// Cache returns the scene-scoped image cache, for loaders that need to
// decode textures into this scene's namespace.
func (b *Builder) Cache() *texture.Cache { return b.cache }

// AddPrimitive adds a non-emissive (or already-wired) primitive.
func (b *Builder) AddPrimitive(p *primitive.Primitive) {
	b.primitives = append(b.primitives, p)
}

// AddEmissivePrimitive adds a primitive whose material is an
// *material.Emissive (or wraps one), creating the matching light.Area
// and wiring it into the Primitive's AreaLight field, per spec §3's
// Primitive<->AreaLight bidirectional reference. The area light's
// constant radiance is sampled from the emissive texture at its (0.5,
// 0.5) UV midpoint since light.Area models a spatially-constant emitter;
// spatially-varying emission is still correctly rendered when a BSDF
// path hits the primitive directly, since that path calls Material.Le
// with the real hit UV (see DESIGN.md).
func (b *Builder) AddEmissivePrimitive(p *primitive.Primitive, emissive *material.Emissive) {
	radiance := emissive.Radiance.Evaluate(core.NewVec2(0.5, 0.5))
	al := light.NewArea(p.Shape, radiance, emissive.TwoSided)
	p.AreaLight = al
	b.primitives = append(b.primitives, p)
	b.lights = append(b.lights, al)
}

// AddLight adds a delta or infinite-but-non-environment light (point,
// spot, directional).
func (b *Builder) AddLight(l light.Light) { b.lights = append(b.lights, l) }

// AddInfiniteLight adds an environment light, included in both the NEE
// light list and the escaped-ray background lookup.
func (b *Builder) AddInfiniteLight(l light.InfiniteLight) {
	b.infinite = append(b.infinite, l)
	b.lights = append(b.lights, l)
}

// Build constructs the final Scene: a rebuilt (non-incremental) dynamic
// BVH over every accumulated primitive, per spec §4.E — scene
// construction always goes through Rebuild rather than repeated Insert
// calls, since every primitive is known up front.
func (b *Builder) Build() *Scene {
	tree := bvh.Rebuild(b.primitives)
	primLights := make(map[*primitive.Primitive]*light.Area, len(b.lights))
	for _, p := range b.primitives {
		if al, ok := p.AreaLight.(*light.Area); ok {
			primLights[p] = al
		}
	}
	return &Scene{
		Accel:           tree,
		Lights:          b.lights,
		InfiniteLights:  b.infinite,
		Cache:           b.cache,
		Logger:          b.logger,
		primitiveLights: primLights,
	}
}
