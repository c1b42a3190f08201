package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/oshokin/crowd-alarm/internal/domain/alarm"
)

// classifyCmd prints the level of a single reading.
var classifyCmd = &cobra.Command{
	Use:   "classify COUNT AREA",
	Short: "Print the severity level for a people count over an area.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("parse count %q: %w", args[0], err)
		}

		area, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("parse area %q: %w", args[1], err)
		}

		reading := alarm.Reading{Count: count, Area: area}

		level, err := reading.Level()
		if err != nil {
			return err
		}

		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s density=%.2f\n", level, reading.Density())

		return err
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(classifyCmd)
}
