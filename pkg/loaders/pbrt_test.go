package loaders

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenizePBRT(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "simple statement",
			input:    `Camera "perspective"`,
			expected: []string{`Camera`, `"perspective"`},
		},
		{
			name:     "statement with parameters",
			input:    `Camera "perspective" "float fov" 45`,
			expected: []string{`Camera`, `"perspective"`, `"float fov"`, `45`},
		},
		{
			name:     "statement with array",
			input:    `Material "diffuse" "rgb reflectance" [0.7 0.3 0.1]`,
			expected: []string{`Material`, `"diffuse"`, `"rgb reflectance"`, `[0.7 0.3 0.1]`},
		},
		{
			name:     "lookAt statement",
			input:    `LookAt 278 278 -800 278 278 0 0 1 0`,
			expected: []string{`LookAt`, `278`, `278`, `-800`, `278`, `278`, `0`, `0`, `1`, `0`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tokenizePBRT(tt.input))
		})
	}
}

func TestParsePBRTStatement(t *testing.T) {
	stmt, err := parsePBRTStatement(`Material "diffuse" "rgb reflectance" [0.7 0.3 0.1]`)
	require.NoError(t, err)
	require.Equal(t, "Material", stmt.Type)
	require.Equal(t, "diffuse", stmt.Subtype)
	rgb, ok := stmt.GetRGBParam("reflectance")
	require.True(t, ok)
	require.InDelta(t, 0.7, rgb.X, 1e-9)
	require.InDelta(t, 0.3, rgb.Y, 1e-9)
	require.InDelta(t, 0.1, rgb.Z, 1e-9)
}

func TestParsePBRTLookAt(t *testing.T) {
	sc, err := ParsePBRT(strings.NewReader(`LookAt 0 0 -5  0 0 0  0 1 0`))
	require.NoError(t, err)
	require.NotNil(t, sc.LookAt)
	require.Equal(t, -5.0, sc.LookAt.Z)
	require.Equal(t, 0.0, sc.LookAtTo.Z)
	require.Equal(t, 1.0, sc.LookAtUp.Y)
}

func TestParsePBRTMultilineStatement(t *testing.T) {
	input := `Material "diffuse"
  "rgb reflectance" [0.7 0.3 0.1]
WorldBegin
Shape "sphere" "float radius" 1`
	sc, err := ParsePBRT(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, sc.Shapes, 1)
	require.Equal(t, "sphere", sc.Shapes[0].Subtype)
	radius, ok := sc.Shapes[0].GetFloatParam("radius")
	require.True(t, ok)
	require.Equal(t, 1.0, radius)
}

func TestParsePBRTAttributeBlockScopesMaterial(t *testing.T) {
	input := `WorldBegin
Material "diffuse" "rgb reflectance" [1 0 0]
Shape "sphere" "float radius" 1
AttributeBegin
Material "diffuse" "rgb reflectance" [0 1 0]
Shape "sphere" "float radius" 2
AttributeEnd
Shape "sphere" "float radius" 3`
	sc, err := ParsePBRT(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, sc.Shapes, 2)
	require.Equal(t, 0, sc.Shapes[0].MaterialIndex)
	require.Equal(t, 0, sc.Shapes[1].MaterialIndex)
	require.Len(t, sc.Attributes, 1)
	require.Len(t, sc.Attributes[0].Shapes, 1)
	require.Equal(t, 0, sc.Attributes[0].Shapes[0].MaterialIndex)
}

func TestParsePBRTAreaLightAttachesToShape(t *testing.T) {
	input := `WorldBegin
AttributeBegin
AreaLightSource "diffuse" "rgb L" [10 10 10]
Shape "sphere" "float radius" 1
AttributeEnd`
	sc, err := ParsePBRT(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, sc.Attributes, 1)
	require.Len(t, sc.Attributes[0].Shapes, 1)
	shape := sc.Attributes[0].Shapes[0]
	require.True(t, shape.IsAreaLight())
	l, ok := shape.GetRGBParam("L")
	require.True(t, ok)
	require.Equal(t, 10.0, l.X)
}

func TestValidatePBRTPathRejectsOutsideScenes(t *testing.T) {
	err := validatePBRTPath("/etc/passwd.pbrt")
	require.Error(t, err)
}

func TestValidatePBRTPathRejectsWrongExtension(t *testing.T) {
	err := validatePBRTPath("scenes/foo.txt")
	require.Error(t, err)
}

func TestValidatePBRTPathAcceptsScenesDir(t *testing.T) {
	err := validatePBRTPath("scenes/cornell.pbrt")
	require.NoError(t, err)
}
