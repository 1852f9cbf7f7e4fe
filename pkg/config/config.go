// Package config loads render and scene configuration from TOML files,
// the configuration-file format this renderer uses in place of the
// teacher's command-line-flags-only setup (spec §9's ambient config
// layer).
package config

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// RenderConfig is the TOML-serializable configuration for one render
// invocation: everything cmd/tracer would otherwise need as flags.
type RenderConfig struct {
	Scene      string `toml:"scene"`       // built-in scene name, or a .pbrt/.gltf/.glb file path
	Integrator string `toml:"integrator"`  // "ao", "whitted", "naive", "mis", "naive-volumetric", "mis-volumetric"
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Output     string `toml:"output"`

	MaxPasses          int     `toml:"max_passes"`
	InitialSamples     int     `toml:"initial_samples"`
	MaxSamplesPerPixel int     `toml:"max_samples_per_pixel"`
	TileSize           int     `toml:"tile_size"`
	NumWorkers         int     `toml:"num_workers"`
	AdaptiveMinFrac    float64 `toml:"adaptive_min_frac"`
	AdaptiveThreshold  float64 `toml:"adaptive_threshold"`

	MaxDepth          int     `toml:"max_depth"`
	RussianRouletteAt int     `toml:"russian_roulette_at"`
	AORadius          float64 `toml:"ao_radius"`

	Camera CameraConfig `toml:"camera"`
}

// CameraConfig is the TOML form of the camera settings; pkg/config
// cannot import pkg/renderer directly (cmd/tracer sits above both).
// cmd/tracer reads only Aperture and Focus from it; the look-from,
// look-at, up and VFOV it renders with come from the scene's CameraHint.
type CameraConfig struct {
	LookFrom [3]float64 `toml:"look_from"`
	LookAt   [3]float64 `toml:"look_at"`
	Up       [3]float64 `toml:"up"`
	VFOV     float64    `toml:"vfov"`
	Aperture float64    `toml:"aperture"`
	Focus    float64    `toml:"focus_distance"`
}

// Default returns the baseline configuration cmd/tracer falls back to
// when no --config file is given.
func Default() RenderConfig {
	return RenderConfig{
		Scene:              "default",
		Integrator:         "mis",
		Width:              400,
		Height:             300,
		Output:             "render.png",
		MaxPasses:          7,
		InitialSamples:     1,
		MaxSamplesPerPixel: 50,
		TileSize:           64,
		NumWorkers:         0,
		AdaptiveMinFrac:    0.2,
		AdaptiveThreshold:  0.05,
		MaxDepth:           10,
		RussianRouletteAt:  3,
		AORadius:           1.0,
		Camera: CameraConfig{
			LookFrom: [3]float64{0, 1, -5},
			LookAt:   [3]float64{0, 0, 0},
			Up:       [3]float64{0, 1, 0},
			VFOV:     40,
			Focus:    5,
		},
	}
}

// Load reads a RenderConfig from a TOML file at path, starting from
// Default() so a config file only needs to override the fields it
// cares about.
func Load(path string) (RenderConfig, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return RenderConfig{}, errors.Wrapf(err, "decoding config %q", path)
	}
	return cfg, nil
}

// Save writes cfg to path as TOML, for a CLI "init" subcommand that
// scaffolds an editable config file.
func Save(cfg RenderConfig, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating config %q", path)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return errors.Wrapf(err, "encoding config %q", path)
	}
	return nil
}
