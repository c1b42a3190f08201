package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oshokin/crowd-alarm/internal/config"
	"github.com/oshokin/crowd-alarm/internal/logger"
	"github.com/oshokin/crowd-alarm/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string
	// logLevel is the minimum level written to stderr.
	logLevel string

	// rootCmd represents the base command; every action is a subcommand.
	rootCmd = &cobra.Command{
		Use:   "crowd-alarm",
		Short: "Drive warning lights and buzzers from crowd density.",
		Long: `Crowd density alarm controller.

Polls an occupancy source for the number of people in a monitored area,
derives the crowd density (people per square metre) and renders one of four
severity levels on GPIO-driven lamps and buzzers:

  SAFE     density <= 3.5   everything off
  CAUTION  density <= 4.0   first lamp on
  WATCH    density <= 5.0   every lamp on
  WARNING  density >  5.0   lamps flash in sequence, buzzers sweep 700-1450 Hz`,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			level, ok := logger.ParseLogLevel(logLevel)
			if !ok {
				return fmt.Errorf("unknown log level %q", logLevel)
			}

			logger.SetLevel(level)

			return nil
		},
	}
)

// Execute runs the crowd-alarm CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	err := rootCmd.Execute()

	logger.Sync()

	if err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")
}
