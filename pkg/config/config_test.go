package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultIsInternallyConsistent(t *testing.T) {
	cfg := Default()
	require.Equal(t, "default", cfg.Scene)
	require.Equal(t, "mis", cfg.Integrator)
	require.Greater(t, cfg.MaxSamplesPerPixel, cfg.InitialSamples)
	require.Greater(t, cfg.MaxPasses, 0)
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracer.toml")
	cfg := Default()
	cfg.Scene = "cornell"
	cfg.Width = 800
	cfg.Height = 600

	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "cornell", loaded.Scene)
	require.Equal(t, 800, loaded.Width)
	require.Equal(t, 600, loaded.Height)
	require.Equal(t, cfg.MaxSamplesPerPixel, loaded.MaxSamplesPerPixel)
}

func TestLoadOverlaysOntoDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.toml")
	require.NoError(t, os.WriteFile(path, []byte(`scene = "cornell"`+"\n"), 0o644))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "cornell", loaded.Scene)
	require.Equal(t, Default().MaxSamplesPerPixel, loaded.MaxSamplesPerPixel)
	require.Equal(t, Default().Width, loaded.Width)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.Error(t, err)
}
