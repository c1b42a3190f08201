package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/oshokin/crowd-alarm/internal/config"
)

var (
	// force allows init to overwrite an existing file.
	force bool

	// errConfigExists is returned when init would overwrite a file.
	errConfigExists = errors.New("configuration file already exists")

	// initCmd writes a sample configuration.
	initCmd = &cobra.Command{
		Use:   "init",
		Short: "Write a sample configuration file.",
		Long: `Writes a configuration using the static source and the default line layout
(lamps on 17, 27 and 22, buzzer on 18) to the --config path.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !force {
				if _, err := os.Stat(configPath); err == nil {
					return fmt.Errorf("%w: %s (use --force to overwrite)", errConfigExists, configPath)
				} else if !errors.Is(err, fs.ErrNotExist) {
					return err
				}
			}

			if err := config.Save(configPath, config.Sample()); err != nil {
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Sample configuration written to %s\n", configPath)

			return err
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	rootCmd.AddCommand(initCmd)
}
