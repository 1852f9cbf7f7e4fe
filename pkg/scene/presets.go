package scene

import (
	"math"

	"github.com/anthropics/go-tracer-core/pkg/bxdf"
	"github.com/anthropics/go-tracer-core/pkg/core"
	"github.com/anthropics/go-tracer-core/pkg/light"
	"github.com/anthropics/go-tracer-core/pkg/material"
	"github.com/anthropics/go-tracer-core/pkg/primitive"
	"github.com/anthropics/go-tracer-core/pkg/shapes"
	"github.com/anthropics/go-tracer-core/pkg/texture"
)

// aluminiumIOR and goldIOR are approximate per-channel complex indices
// of refraction (at roughly 630/532/465nm), standing in for a full
// spectral Fresnel table.
func aluminiumIOR() bxdf.ComplexIOR {
	return bxdf.ComplexIOR{
		Eta: core.NewVec3(1.345, 0.965, 0.617),
		K:   core.NewVec3(7.47, 6.40, 5.30),
	}
}

func goldIOR() bxdf.ComplexIOR {
	return bxdf.ComplexIOR{
		Eta: core.NewVec3(0.143, 0.375, 1.442),
		K:   core.NewVec3(3.98, 2.39, 1.60),
	}
}

// CameraHint is the look-from/look-at/field-of-view a preset scene
// suggests for its own framing; pkg/scene cannot depend on
// pkg/renderer.CameraConfig (pkg/renderer depends on pkg/scene), so
// cmd/tracer converts this into a real Camera itself.
type CameraHint struct {
	LookFrom, LookAt, Up core.Vec3
	VFOV                 float64
}

// AddGroundPlane adds a finite, two-triangle ground quad centered at the
// origin to b, per the teacher's NewGroundQuad (generalized from an
// infinite plane shape, which this renderer's shapes package doesn't
// implement, to a large finite mesh).
func AddGroundPlane(b *Builder, y, halfExtent float64, mat material.Material) {
	a := shapes.Vertex{Position: core.NewVec3(-halfExtent, y, -halfExtent), Normal: core.NewVec3(0, 1, 0)}
	bv := shapes.Vertex{Position: core.NewVec3(halfExtent, y, -halfExtent), Normal: core.NewVec3(0, 1, 0)}
	c := shapes.Vertex{Position: core.NewVec3(halfExtent, y, halfExtent), Normal: core.NewVec3(0, 1, 0)}
	d := shapes.Vertex{Position: core.NewVec3(-halfExtent, y, halfExtent), Normal: core.NewVec3(0, 1, 0)}
	mesh := shapes.NewMesh([]shapes.Vertex{a, bv, c, d}, []int32{0, 1, 2, 0, 2, 3})
	for _, tri := range mesh.Triangles() {
		b.AddPrimitive(primitive.NewPrimitive(tri, mat))
	}
}

// NewDefaultScene builds the teacher's signature "spheres over a ground
// plane, lit by one bright overhead sphere light" scene, generalized
// from Lambertian/Metal/Dielectric materials to this renderer's
// Diffuse/Conductor/Glass/LayeredMaterial set.
func NewDefaultScene(logger core.Logger) (*Scene, CameraHint) {
	b := NewBuilder(logger)

	green := material.NewDiffuse(texture.NewConstantColor(core.NewVec3(0.48, 0.48, 0.0)))
	red := material.NewDiffuse(texture.NewConstantColor(core.NewVec3(0.65, 0.25, 0.2)))
	silver := material.NewConductor(aluminiumIOR(), texture.NewConstantFloat(0.02))
	gold := material.NewConductor(goldIOR(), texture.NewConstantFloat(0.3))
	glass := material.NewGlass(1.5, false)
	coatedRed := material.NewLayeredMaterial(1.5, red, 0.3, core.NewVec3(1, 1, 1))

	b.AddPrimitive(primitive.NewPrimitive(shapes.NewSphere(core.NewVec3(0, 0.5, -1), 0.5), coatedRed))
	b.AddPrimitive(primitive.NewPrimitive(shapes.NewSphere(core.NewVec3(-1, 0.5, -1), 0.5), silver))
	b.AddPrimitive(primitive.NewPrimitive(shapes.NewSphere(core.NewVec3(1, 0.5, -1), 0.5), gold))
	b.AddPrimitive(primitive.NewPrimitive(shapes.NewSphere(core.NewVec3(0.5, 0.25, -0.5), 0.25), glass))

	AddGroundPlane(b, 0, 5000, green)

	lightMat := material.NewEmissive(texture.NewConstantColor(core.NewVec3(15, 14, 13)), false)
	b.AddEmissivePrimitive(primitive.NewPrimitive(shapes.NewSphere(core.NewVec3(30, 30.5, 15), 10), lightMat), lightMat)

	b.AddInfiniteLight(light.NewUniform(core.NewVec3(0.5, 0.6, 0.8)))

	return b.Build(), CameraHint{
		LookFrom: core.NewVec3(0, 0.75, 2),
		LookAt:   core.NewVec3(0, 0.5, -1),
		Up:       core.NewVec3(0, 1, 0),
		VFOV:     40,
	}
}

// NewCornellScene builds the classic Cornell box: five diffuse walls
// (red/green/white), a ceiling area light, and two diffuse boxes
// approximated as spheres (this renderer has no box shape), grounded on
// the teacher's pkg/scene/cornell.go.
func NewCornellScene(logger core.Logger) (*Scene, CameraHint) {
	b := NewBuilder(logger)

	const size = 5.0
	white := material.NewDiffuse(texture.NewConstantColor(core.NewVec3(0.73, 0.73, 0.73)))
	red := material.NewDiffuse(texture.NewConstantColor(core.NewVec3(0.65, 0.05, 0.05)))
	green := material.NewDiffuse(texture.NewConstantColor(core.NewVec3(0.12, 0.45, 0.15)))

	addWall := func(center core.Vec3, normal core.Vec3, mat material.Material) {
		u, v := orthonormalBasis(normal)
		half := size / 2
		corners := [4]core.Vec3{
			center.Add(u.Multiply(-half)).Add(v.Multiply(-half)),
			center.Add(u.Multiply(half)).Add(v.Multiply(-half)),
			center.Add(u.Multiply(half)).Add(v.Multiply(half)),
			center.Add(u.Multiply(-half)).Add(v.Multiply(half)),
		}
		verts := make([]shapes.Vertex, 4)
		for i, c := range corners {
			verts[i] = shapes.Vertex{Position: c, Normal: normal}
		}
		mesh := shapes.NewMesh(verts, []int32{0, 1, 2, 0, 2, 3})
		for _, tri := range mesh.Triangles() {
			b.AddPrimitive(primitive.NewPrimitive(tri, mat))
		}
	}

	addWall(core.NewVec3(0, 0, size/2), core.NewVec3(0, 1, 0), white)  // floor
	addWall(core.NewVec3(0, size, size/2), core.NewVec3(0, -1, 0), white) // ceiling
	addWall(core.NewVec3(0, size/2, size), core.NewVec3(0, 0, -1), white) // back wall
	addWall(core.NewVec3(-size/2, size/2, size/2), core.NewVec3(1, 0, 0), red)
	addWall(core.NewVec3(size/2, size/2, size/2), core.NewVec3(-1, 0, 0), green)

	tall := material.NewDiffuse(texture.NewConstantColor(core.NewVec3(0.73, 0.73, 0.73)))
	b.AddPrimitive(primitive.NewPrimitive(shapes.NewSphere(core.NewVec3(-1, 0.75, size/2+0.5), 0.75), tall))
	b.AddPrimitive(primitive.NewPrimitive(shapes.NewSphere(core.NewVec3(1, 0.5, size/2-0.5), 0.5), tall))

	lightMat := material.NewEmissive(texture.NewConstantColor(core.NewVec3(15, 15, 15)), false)
	b.AddEmissivePrimitive(primitive.NewPrimitive(shapes.NewSphere(core.NewVec3(0, size-0.3, size/2), 0.5), lightMat), lightMat)

	return b.Build(), CameraHint{
		LookFrom: core.NewVec3(0, size/2, -2),
		LookAt:   core.NewVec3(0, size/2, size/2),
		Up:       core.NewVec3(0, 1, 0),
		VFOV:     40,
	}
}

// orthonormalBasis returns two unit vectors perpendicular to n and to
// each other, used to build an axis-aligned wall quad from its center
// and outward normal.
func orthonormalBasis(n core.Vec3) (core.Vec3, core.Vec3) {
	var helper core.Vec3
	if math.Abs(n.Y) < 0.99 {
		helper = core.NewVec3(0, 1, 0)
	} else {
		helper = core.NewVec3(1, 0, 0)
	}
	u := helper.Cross(n).Normalize()
	v := n.Cross(u)
	return u, v
}
