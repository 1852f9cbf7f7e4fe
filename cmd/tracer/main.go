// Command tracer is the progressive Monte-Carlo renderer's CLI: it
// loads a render configuration (TOML file or built-in defaults),
// resolves a scene (built-in preset, PBRT file, or glTF/.glb asset),
// and drives a ProgressiveRaytracer to a PNG, generalized from the
// teacher's flag-based main.go to a cobra command tree.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "tracer",
		Short: "Progressive Monte-Carlo path tracer",
		Long:  "tracer renders a scene (built-in preset, PBRT file, or glTF asset) via progressive, tile-parallel Monte-Carlo integration.",
	}
	root.AddCommand(newRenderCommand())
	root.AddCommand(newInitCommand())
	return root
}
