package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anthropics/go-tracer-core/pkg/config"
)

func newInitCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default render config TOML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Save(config.Default(), output); err != nil {
				return err
			}
			fmt.Printf("wrote default config to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVar(&output, "output", "tracer.toml", "path to write the config file")
	return cmd
}
