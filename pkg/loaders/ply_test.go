package loaders

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeTestPLY builds a minimal binary-little-endian triangle (position +
// normal only) and returns the path to the written file.
func writeTestPLY(t *testing.T) string {
	t.Helper()
	header := "ply\n" +
		"format binary_little_endian 1.0\n" +
		"element vertex 3\n" +
		"property float x\n" +
		"property float y\n" +
		"property float z\n" +
		"property float nx\n" +
		"property float ny\n" +
		"property float nz\n" +
		"element face 1\n" +
		"property list uchar int vertex_indices\n" +
		"end_header\n"

	var body bytes.Buffer
	positions := [][6]float32{
		{0, 0, 0, 0, 1, 0},
		{1, 0, 0, 0, 1, 0},
		{0, 1, 0, 0, 1, 0},
	}
	for _, p := range positions {
		for _, v := range p {
			require.NoError(t, binary.Write(&body, binary.LittleEndian, v))
		}
	}
	require.NoError(t, binary.Write(&body, binary.LittleEndian, uint8(3)))
	require.NoError(t, binary.Write(&body, binary.LittleEndian, [3]int32{0, 1, 2}))

	path := filepath.Join(t.TempDir(), "triangle.ply")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	_, err = f.WriteString(header)
	require.NoError(t, err)
	_, err = f.Write(body.Bytes())
	require.NoError(t, err)
	return path
}

func TestLoadPLYMeshDecodesVerticesAndFaces(t *testing.T) {
	path := writeTestPLY(t)
	mesh, err := LoadPLYMesh(path)
	require.NoError(t, err)
	require.Equal(t, 1, mesh.TriangleCount())
	require.Len(t, mesh.Triangles(), 1)
}

func TestLoadPLYMeshRejectsASCIIFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ascii.ply")
	content := "ply\nformat ascii 1.0\nelement vertex 0\nend_header\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	_, err := LoadPLYMesh(path)
	require.Error(t, err)
}

func TestParsePLYHeaderDetectsNormalsAndUVs(t *testing.T) {
	header := "ply\n" +
		"format binary_little_endian 1.0\n" +
		"element vertex 1\n" +
		"property float x\n" +
		"property float y\n" +
		"property float z\n" +
		"property float nx\n" +
		"property float ny\n" +
		"property float nz\n" +
		"property float u\n" +
		"property float v\n" +
		"element face 0\n" +
		"property list uchar int vertex_indices\n" +
		"end_header\n"
	h, size, err := parsePLYHeader(bytes.NewReader([]byte(header)))
	require.NoError(t, err)
	require.True(t, h.HasNormals)
	require.True(t, h.HasUVs)
	require.Equal(t, 1, h.VertexCount)
	require.Equal(t, len(header), size)
}

func TestDecodePLYVertexMapsPositionAndNormal(t *testing.T) {
	props := []plyProperty{
		{Name: "x", Type: "float"},
		{Name: "y", Type: "float"},
		{Name: "z", Type: "float"},
		{Name: "nx", Type: "float"},
		{Name: "ny", Type: "float"},
		{Name: "nz", Type: "float"},
	}
	var buf bytes.Buffer
	for _, v := range []float32{1, 2, 3, 0, 1, 0} {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, v))
	}
	v := decodePLYVertex(buf.Bytes(), props)
	require.Equal(t, 1.0, v.Position.X)
	require.Equal(t, 2.0, v.Position.Y)
	require.Equal(t, 3.0, v.Position.Z)
	require.Equal(t, 1.0, v.Normal.Y)
}
