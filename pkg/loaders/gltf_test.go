package loaders

import (
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/require"
)

func TestGltfMaterialDefaultsToMidGreyWithoutIndex(t *testing.T) {
	doc := &gltf.Document{}
	mat := gltfMaterial(doc, nil)
	require.NotNil(t, mat)
}

func TestGltfMaterialUsesBaseColorFactor(t *testing.T) {
	idx := uint32(0)
	doc := &gltf.Document{
		Materials: []*gltf.Material{
			{
				PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
					BaseColorFactor: &[4]float32{0.1, 0.2, 0.3, 1.0},
				},
			},
		},
	}
	mat := gltfMaterial(doc, &idx)
	require.NotNil(t, mat)
}

func TestGltfMaterialIgnoresOutOfRangeIndex(t *testing.T) {
	idx := uint32(7)
	doc := &gltf.Document{}
	mat := gltfMaterial(doc, &idx)
	require.NotNil(t, mat)
}
