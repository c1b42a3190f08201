package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/crowd-alarm/internal/service/controller"
)

var (
	// runOptions collects the flags of the run command.
	runOptions controller.Options

	// runCmd starts the control loop.
	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the density alarm control loop.",
		Long: `Claims the configured light and audible lines, then repeatedly fetches the
occupancy count, classifies it and renders the level on every unit until
interrupted with SIGINT or SIGTERM. Any source or render failure stops the
loop; every claimed line is released before the process exits.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			runOptions.ConfigPath = configPath

			return controller.Run(ctx, &runOptions)
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	runCmd.Flags().Float64Var(&runOptions.Area, "area", 0, "measured area in square metres, overrides the configuration")
	runCmd.Flags().DurationVar(&runOptions.Interval, "interval", 0, "pause between ticks, overrides the configuration")
	runCmd.Flags().BoolVar(&runOptions.Simulate, "simulate", false, "use the in-memory GPIO chip and log line changes")

	rootCmd.AddCommand(runCmd)
}
