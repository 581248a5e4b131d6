package main

import (
	"fmt"
	"os"

	"github.com/spddl/spddl/internal/config"
	"github.com/spddl/spddl/internal/logging"
	"github.com/spddl/spddl/internal/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	var (
		configPath string
		outputDir  string
		logFile    string
	)

	cmd := &cobra.Command{
		Use:           "spddl-tui",
		Short:         "Full-screen downloader for tracks, albums and playlists",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("output") {
				settings.OutputDir = outputDir
			}
			if err := settings.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			// The screen belongs to the UI, so diagnostics only go to a file.
			logger := zap.NewNop()
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("failed to open log file: %w", err)
				}
				defer f.Close()

				logger, err = logging.New(settings.LogLevel, f)
				if err != nil {
					return err
				}
			}
			defer logger.Sync()

			return tui.Run(settings, logger)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Base directory for downloads (default: current directory)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Write diagnostic logs to this file")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
