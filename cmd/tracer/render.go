package main

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/anthropics/go-tracer-core/pkg/config"
	"github.com/anthropics/go-tracer-core/pkg/core"
	"github.com/anthropics/go-tracer-core/pkg/integrator"
	"github.com/anthropics/go-tracer-core/pkg/loaders"
	"github.com/anthropics/go-tracer-core/pkg/renderer"
	"github.com/anthropics/go-tracer-core/pkg/scene"
)

func newRenderCommand() *cobra.Command {
	var configPath string
	var overrides config.RenderConfig

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a scene to a PNG file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			applyRenderOverrides(&cfg, cmd, overrides)
			return runRender(cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a TOML render config (overrides built-in defaults)")
	cmd.Flags().StringVar(&overrides.Scene, "scene", "", "built-in scene name, or a .pbrt/.gltf/.glb file path")
	cmd.Flags().StringVar(&overrides.Integrator, "integrator", "", "ao|whitted|naive|mis|naive-volumetric|mis-volumetric")
	cmd.Flags().IntVar(&overrides.Width, "width", 0, "image width in pixels")
	cmd.Flags().IntVar(&overrides.Height, "height", 0, "image height in pixels")
	cmd.Flags().StringVar(&overrides.Output, "output", "", "output PNG path")
	cmd.Flags().IntVar(&overrides.MaxSamplesPerPixel, "max-samples", 0, "maximum samples per pixel")
	cmd.Flags().IntVar(&overrides.MaxPasses, "max-passes", 0, "maximum progressive passes")
	cmd.Flags().IntVar(&overrides.NumWorkers, "workers", 0, "parallel worker count (0 = auto-detect)")

	return cmd
}

// applyRenderOverrides merges cobra flags the user actually set on top
// of a loaded/default config, so an unset flag never clobbers a config
// file's value with its own zero value.
func applyRenderOverrides(cfg *config.RenderConfig, cmd *cobra.Command, o config.RenderConfig) {
	if cmd.Flags().Changed("scene") {
		cfg.Scene = o.Scene
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = o.Integrator
	}
	if cmd.Flags().Changed("width") {
		cfg.Width = o.Width
	}
	if cmd.Flags().Changed("height") {
		cfg.Height = o.Height
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = o.Output
	}
	if cmd.Flags().Changed("max-samples") {
		cfg.MaxSamplesPerPixel = o.MaxSamplesPerPixel
	}
	if cmd.Flags().Changed("max-passes") {
		cfg.MaxPasses = o.MaxPasses
	}
	if cmd.Flags().Changed("workers") {
		cfg.NumWorkers = o.NumWorkers
	}
}

func runRender(cfg config.RenderConfig) error {
	logger := core.NewZapLogger()
	defer logger.Sync()

	runID := uuid.New()
	logger.Printf("starting render %s: scene=%s integrator=%s %dx%d", runID, cfg.Scene, cfg.Integrator, cfg.Width, cfg.Height)

	sc, hint, err := resolveScene(cfg.Scene, logger)
	if err != nil {
		return errors.Wrap(err, "resolving scene")
	}

	cam := renderer.NewCamera(renderer.CameraConfig{
		LookFrom:      hint.LookFrom,
		LookAt:        hint.LookAt,
		Up:            hint.Up,
		VFOV:          hint.VFOV,
		Aperture:      cfg.Camera.Aperture,
		FocusDistance: cfg.Camera.Focus,
		Width:         cfg.Width,
		Height:        cfg.Height,
	})

	integ, err := resolveIntegrator(cfg)
	if err != nil {
		return err
	}

	progressiveCfg := renderer.ProgressiveConfig{
		TileSize:           cfg.TileSize,
		InitialSamples:     cfg.InitialSamples,
		MaxSamplesPerPixel: cfg.MaxSamplesPerPixel,
		MaxPasses:          cfg.MaxPasses,
		NumWorkers:         cfg.NumWorkers,
		AdaptiveMinFrac:    cfg.AdaptiveMinFrac,
		AdaptiveThreshold:  cfg.AdaptiveThreshold,
	}
	pr := renderer.NewProgressiveRaytracer(sc, cam, integ, cfg.Width, cfg.Height, progressiveCfg, logger)

	start := time.Now()
	passChan, errChan := pr.RenderProgressive(context.Background())

	var last *renderer.PassResult
	for pass := range passChan {
		p := pass
		last = &p
		fmt.Printf("pass %d: %.1f samples/pixel (%v elapsed)\n", p.PassNumber, p.Stats.AverageSamples, time.Since(start))
	}
	if err := <-errChan; err != nil {
		return errors.Wrap(err, "rendering")
	}
	if last == nil {
		return errors.New("render produced no passes")
	}

	if dir := filepath.Dir(cfg.Output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "creating output directory %q", dir)
		}
	}
	f, err := os.Create(cfg.Output)
	if err != nil {
		return errors.Wrapf(err, "creating output file %q", cfg.Output)
	}
	defer f.Close()
	if err := png.Encode(f, last.Image); err != nil {
		return errors.Wrap(err, "encoding PNG")
	}

	fmt.Printf("render complete in %v, saved to %s\n", time.Since(start), cfg.Output)
	return nil
}

func resolveScene(name string, logger core.Logger) (*scene.Scene, scene.CameraHint, error) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".pbrt"):
		sc, camSpec, err := loaders.BuildPBRTScene(name, logger)
		if err != nil {
			return nil, scene.CameraHint{}, err
		}
		return sc, scene.CameraHint{LookFrom: camSpec.LookFrom, LookAt: camSpec.LookAt, Up: camSpec.Up, VFOV: camSpec.VFOV}, nil
	case strings.HasSuffix(lower, ".gltf"), strings.HasSuffix(lower, ".glb"):
		sc, err := loaders.BuildGLTFScene(name, logger)
		if err != nil {
			return nil, scene.CameraHint{}, err
		}
		return sc, scene.CameraHint{
			LookFrom: core.NewVec3(0, 1, -5),
			LookAt:   core.NewVec3(0, 0, 0),
			Up:       core.NewVec3(0, 1, 0),
			VFOV:     40,
		}, nil
	case name == "cornell":
		sc, hint := scene.NewCornellScene(logger)
		return sc, hint, nil
	case name == "default", name == "":
		sc, hint := scene.NewDefaultScene(logger)
		return sc, hint, nil
	default:
		return nil, scene.CameraHint{}, errors.Errorf("unknown scene %q (built-ins: default, cornell; or pass a .pbrt/.gltf/.glb path)", name)
	}
}

func resolveIntegrator(cfg config.RenderConfig) (integrator.Integrator, error) {
	switch cfg.Integrator {
	case "ao":
		return integrator.NewAmbientOcclusion(cfg.AORadius), nil
	case "whitted":
		return integrator.NewWhitted(cfg.MaxDepth), nil
	case "naive":
		return integrator.NewNaivePath(cfg.MaxDepth, cfg.RussianRouletteAt), nil
	case "mis", "":
		return integrator.NewMISPath(cfg.MaxDepth, cfg.RussianRouletteAt), nil
	case "naive-volumetric":
		return integrator.NewNaiveVolumetricPath(cfg.MaxDepth, cfg.RussianRouletteAt), nil
	case "mis-volumetric":
		return integrator.NewMISVolumetricPath(cfg.MaxDepth, cfg.RussianRouletteAt), nil
	default:
		return nil, errors.Errorf("unknown integrator %q", cfg.Integrator)
	}
}
