package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/youruser/badgeapp/internal/config"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "badgegen",
		Short: "Compose printable ID badges from card templates and a roster",
		Long: `badgegen lays names, badge numbers and barcodes over front and back
card templates for every person in a roster (CSV, XLSX or Parquet) and
packages the results as PNG files, a ZIP archive or a print-ready PDF.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
	}

	cmd.AddCommand(newGenerateCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newLayoutCmd())

	return cmd
}

// loadConfig reads process settings and installs the configured logger as the default.
func loadConfig() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	logger := cfg.Logger(os.Stderr)
	slog.SetDefault(logger)
	return cfg, logger, nil
}
