package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/crowd-alarm/internal/service/controller"
)

var (
	// selfTestOptions collects the flags of the selftest command.
	selfTestOptions controller.SelfTestOptions

	// selfTestCmd renders every level once.
	selfTestCmd = &cobra.Command{
		Use:   "selftest",
		Short: "Render every level once to check the wiring.",
		Long: `Claims the configured lines and renders SAFE, CAUTION, WATCH, WARNING and
SAFE again, holding each level for the given pause. No occupancy source is
contacted.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			selfTestOptions.ConfigPath = configPath

			return controller.SelfTest(ctx, &selfTestOptions)
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	selfTestCmd.Flags().BoolVar(&selfTestOptions.Simulate, "simulate", false, "use the in-memory GPIO chip and log line changes")
	selfTestCmd.Flags().DurationVar(&selfTestOptions.Pause, "pause", controller.DefaultSelfTestPause, "how long each level is held")

	rootCmd.AddCommand(selfTestCmd)
}
