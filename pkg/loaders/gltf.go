package loaders

import (
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/anthropics/go-tracer-core/pkg/core"
	"github.com/anthropics/go-tracer-core/pkg/material"
	"github.com/anthropics/go-tracer-core/pkg/primitive"
	"github.com/anthropics/go-tracer-core/pkg/scene"
	"github.com/anthropics/go-tracer-core/pkg/shapes"
	"github.com/anthropics/go-tracer-core/pkg/texture"
)

// LoadGLTFMeshes decodes every triangle-list primitive in a glTF/.glb
// document at path into one shapes.Mesh each, the glTF-ingestion half of
// the external LoadModel collaborator spec §6 names (pkg/loaders' PBRT
// and PLY loaders cover the other two input formats).
func LoadGLTFMeshes(path string) ([]*shapes.Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening glTF document %q", path)
	}

	var meshes []*shapes.Mesh
	for _, m := range doc.Meshes {
		for _, prim := range m.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			mesh, err := decodeGLTFPrimitive(doc, prim)
			if err != nil {
				return nil, errors.Wrapf(err, "decoding mesh %q", m.Name)
			}
			meshes = append(meshes, mesh)
		}
	}
	return meshes, nil
}

func decodeGLTFPrimitive(doc *gltf.Document, prim *gltf.Primitive) (*shapes.Mesh, error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, errors.New("primitive has no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, errors.Wrap(err, "reading POSITION accessor")
	}

	var normals [][3]float32
	if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
		normals, err = modeler.ReadNormal(doc, doc.Accessors[normIdx], nil)
		if err != nil {
			return nil, errors.Wrap(err, "reading NORMAL accessor")
		}
	}

	var uvs [][2]float32
	if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[uvIdx], nil)
		if err != nil {
			return nil, errors.Wrap(err, "reading TEXCOORD_0 accessor")
		}
	}

	vertices := make([]shapes.Vertex, len(positions))
	for i, p := range positions {
		v := shapes.Vertex{Position: core.NewVec3(float64(p[0]), float64(p[1]), float64(p[2]))}
		if i < len(normals) {
			n := normals[i]
			v.Normal = core.NewVec3(float64(n[0]), float64(n[1]), float64(n[2]))
		}
		if i < len(uvs) {
			uv := uvs[i]
			v.UV = core.NewVec2(float64(uv[0]), float64(uv[1]))
		}
		vertices[i] = v
	}

	indices32, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
	if err != nil {
		return nil, errors.Wrap(err, "reading index accessor")
	}
	indices := make([]int32, len(indices32))
	for i, idx := range indices32 {
		indices[i] = int32(idx)
	}

	return shapes.NewMesh(vertices, indices), nil
}

// BuildGLTFScene loads every mesh in a glTF document and adds it to a
// new scene.Scene as a diffuse primitive colored by that mesh's
// material's base-color factor (or mid-grey if untextured), so a glTF
// asset can be rendered without a full PBR material graph import.
func BuildGLTFScene(path string, logger core.Logger) (*scene.Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening glTF document %q", path)
	}

	b := scene.NewBuilder(logger)
	for _, m := range doc.Meshes {
		for _, prim := range m.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			mesh, err := decodeGLTFPrimitive(doc, prim)
			if err != nil {
				return nil, errors.Wrapf(err, "decoding mesh %q", m.Name)
			}
			mat := gltfMaterial(doc, prim.Material)
			for _, tri := range mesh.Triangles() {
				b.AddPrimitive(primitive.NewPrimitive(tri, mat))
			}
		}
	}
	return b.Build(), nil
}

func gltfMaterial(doc *gltf.Document, materialIndex *uint32) material.Material {
	albedo := core.NewVec3(0.7, 0.7, 0.7)
	if materialIndex != nil && int(*materialIndex) < len(doc.Materials) {
		gm := doc.Materials[*materialIndex]
		if gm.PBRMetallicRoughness != nil && gm.PBRMetallicRoughness.BaseColorFactor != nil {
			c := gm.PBRMetallicRoughness.BaseColorFactor
			albedo = core.NewVec3(float64(c[0]), float64(c[1]), float64(c[2]))
		}
	}
	return material.NewDiffuse(texture.NewConstantColor(albedo))
}
