package main

import (
	"github.com/spf13/cobra"

	"github.com/youruser/badgeapp/internal/layout"
)

func newLayoutCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print a layout file",
		Long: `Prints the default layout as YAML, or validates and re-prints the file
given with --file with every default filled in. Save the output and pass it
to generate with --layout to customise positions, fonts and barcode style.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := layout.Default()
			if path != "" {
				var err error
				if cfg, err = layout.Load(path); err != nil {
					return err
				}
			}
			b, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}

	cmd.Flags().StringVarP(&path, "file", "f", "", "Layout file to validate and expand")

	return cmd
}
