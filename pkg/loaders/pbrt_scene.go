package loaders

import (
	"github.com/pkg/errors"

	"github.com/anthropics/go-tracer-core/pkg/core"
	"github.com/anthropics/go-tracer-core/pkg/light"
	"github.com/anthropics/go-tracer-core/pkg/material"
	"github.com/anthropics/go-tracer-core/pkg/primitive"
	"github.com/anthropics/go-tracer-core/pkg/scene"
	"github.com/anthropics/go-tracer-core/pkg/shapes"
	"github.com/anthropics/go-tracer-core/pkg/texture"
)

// CameraSpec is the subset of a PBRT scene's pre-WorldBegin directives a
// caller needs to build a renderer.Camera; pkg/loaders depends only on
// pkg/core so it cannot return a renderer.CameraConfig directly.
type CameraSpec struct {
	LookFrom, LookAt, Up core.Vec3
	VFOV                 float64
}

// BuildPBRTScene parses a PBRT file and materializes its world block
// into a scene.Scene plus the camera directive it declared, grounded on
// the teacher's pkg/scene/pbrt_scene.go but narrowed to the shape/
// material/light subset this renderer implements (sphere shapes only;
// matte/plastic/mirror/glass materials; point, distant and infinite
// lights, plus area lights on shapes).
func BuildPBRTScene(path string, logger core.Logger) (*scene.Scene, CameraSpec, error) {
	parsed, err := LoadPBRT(path)
	if err != nil {
		return nil, CameraSpec{}, err
	}
	return buildPBRTScene(parsed, logger)
}

func buildPBRTScene(parsed *Scene, logger core.Logger) (*scene.Scene, CameraSpec, error) {
	b := scene.NewBuilder(logger)

	cam := CameraSpec{
		LookFrom: core.NewVec3(0, 0, -5),
		LookAt:   core.NewVec3(0, 0, 0),
		Up:       core.NewVec3(0, 1, 0),
		VFOV:     40,
	}
	if parsed.LookAt != nil {
		cam.LookFrom = *parsed.LookAt
	}
	if parsed.LookAtTo != nil {
		cam.LookAt = *parsed.LookAtTo
	}
	if parsed.LookAtUp != nil {
		cam.Up = *parsed.LookAtUp
	}
	if parsed.Camera != nil {
		if fov, ok := parsed.Camera.GetFloatParam("fov"); ok {
			cam.VFOV = fov
		}
	}

	materials := make([]material.Material, len(parsed.Materials))
	for i, stmt := range parsed.Materials {
		materials[i] = buildPBRTMaterial(stmt)
	}

	for _, stmt := range parsed.Shapes {
		if err := addPBRTShape(b, stmt, materials); err != nil {
			return nil, CameraSpec{}, err
		}
	}
	for _, attr := range parsed.Attributes {
		attrMaterials := make([]material.Material, len(attr.Materials))
		for i, stmt := range attr.Materials {
			attrMaterials[i] = buildPBRTMaterial(stmt)
		}
		for _, stmt := range attr.Shapes {
			mats := attrMaterials
			if len(mats) == 0 {
				mats = materials
			}
			if err := addPBRTShape(b, stmt, mats); err != nil {
				return nil, CameraSpec{}, err
			}
		}
	}

	for _, stmt := range parsed.LightSources {
		addPBRTLight(b, stmt)
	}

	return b.Build(), cam, nil
}

func buildPBRTMaterial(stmt Statement) material.Material {
	color, ok := stmt.GetRGBParam("Kd")
	if !ok {
		color = core.NewVec3(0.5, 0.5, 0.5)
	}
	switch stmt.Subtype {
	case "mirror":
		return material.NewMirror(texture.NewConstantColor(color))
	case "glass":
		eta, ok := stmt.GetFloatParam("eta")
		if !ok {
			eta = 1.5
		}
		return material.NewGlass(eta, false)
	case "plastic":
		rough, ok := stmt.GetFloatParam("roughness")
		if !ok {
			rough = 0.1
		}
		return material.NewPlastic(texture.NewConstantColor(color), texture.NewConstantFloat(rough), 1.5, true)
	default: // "matte" and anything unrecognized fall back to diffuse
		return material.NewDiffuse(texture.NewConstantColor(color))
	}
}

func addPBRTShape(b *scene.Builder, stmt Statement, materials []material.Material) error {
	var shape shapes.Shape
	switch stmt.Subtype {
	case "sphere":
		radius, _ := stmt.GetFloatParam("radius")
		if radius <= 0 {
			radius = 1
		}
		shape = shapes.NewSphere(core.Vec3{}, radius)
	default:
		return errors.Errorf("unsupported PBRT shape type %q (only \"sphere\" is built-in)", stmt.Subtype)
	}

	var mat material.Material
	if stmt.MaterialIndex >= 0 && stmt.MaterialIndex < len(materials) {
		mat = materials[stmt.MaterialIndex]
	} else {
		mat = material.NewDiffuse(texture.NewConstantColor(core.NewVec3(0.5, 0.5, 0.5)))
	}

	if stmt.IsAreaLight() {
		radiance, ok := stmt.GetRGBParam("L")
		if !ok {
			radiance = core.NewVec3(1, 1, 1)
		}
		emissive := material.NewEmissive(texture.NewConstantColor(radiance), false)
		b.AddEmissivePrimitive(primitive.NewPrimitive(shape, emissive), emissive)
		return nil
	}

	b.AddPrimitive(primitive.NewPrimitive(shape, mat))
	return nil
}

func addPBRTLight(b *scene.Builder, stmt Statement) {
	switch stmt.Subtype {
	case "point":
		pos, _ := stmt.GetPoint3Param("from")
		intensity, ok := stmt.GetRGBParam("I")
		if !ok {
			intensity = core.NewVec3(1, 1, 1)
		}
		b.AddLight(light.NewPoint(pos, intensity))
	case "distant":
		dir, _ := stmt.GetPoint3Param("to")
		radiance, ok := stmt.GetRGBParam("L")
		if !ok {
			radiance = core.NewVec3(1, 1, 1)
		}
		b.AddLight(light.NewDirectional(dir, radiance))
	case "infinite":
		radiance, ok := stmt.GetRGBParam("L")
		if !ok {
			radiance = core.NewVec3(1, 1, 1)
		}
		b.AddInfiniteLight(light.NewUniform(radiance))
	}
}
