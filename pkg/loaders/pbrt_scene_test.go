package loaders

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func parsePBRTString(t *testing.T, input string) *Scene {
	t.Helper()
	sc, err := ParsePBRT(strings.NewReader(input))
	require.NoError(t, err)
	return sc
}

func TestBuildPBRTSceneSphereAndPointLight(t *testing.T) {
	input := `LookAt 0 0 -5  0 0 0  0 1 0
Camera "perspective" "float fov" 30
WorldBegin
Material "matte" "rgb Kd" [0.8 0.2 0.2]
Shape "sphere" "float radius" 1
LightSource "point" "point3 from" [0 5 0] "rgb I" [10 10 10]`

	parsed := parsePBRTString(t, input)
	sc, cam, err := buildPBRTScene(parsed, nil)
	require.NoError(t, err)
	require.Equal(t, -5.0, cam.LookFrom.Z)
	require.Equal(t, 30.0, cam.VFOV)
	require.Len(t, sc.Lights, 1)
}

func TestBuildPBRTSceneAreaLightShapeBecomesEmissive(t *testing.T) {
	input := `WorldBegin
AttributeBegin
AreaLightSource "diffuse" "rgb L" [8 8 8]
Shape "sphere" "float radius" 2
AttributeEnd`

	parsed := parsePBRTString(t, input)
	sc, _, err := buildPBRTScene(parsed, nil)
	require.NoError(t, err)
	require.Len(t, sc.Lights, 1)
}

func TestBuildPBRTSceneUnsupportedShapeErrors(t *testing.T) {
	input := `WorldBegin
Shape "cone" "float radius" 1`
	parsed := parsePBRTString(t, input)
	_, _, err := buildPBRTScene(parsed, nil)
	require.Error(t, err)
}

func TestBuildPBRTMaterialVariants(t *testing.T) {
	mirror := buildPBRTMaterial(Statement{Subtype: "mirror", Parameters: map[string]Param{
		"Kd": {Values: []string{"0.9", "0.9", "0.9"}},
	}})
	require.NotNil(t, mirror)

	glass := buildPBRTMaterial(Statement{Subtype: "glass"})
	require.NotNil(t, glass)

	matte := buildPBRTMaterial(Statement{Subtype: "matte"})
	require.NotNil(t, matte)
}
