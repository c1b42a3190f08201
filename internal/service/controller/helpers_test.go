package controller

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/crowd-alarm/internal/config"
)

// noSleep returns immediately unless ctx is done.
func noSleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

// quickConfig returns the sample configuration on the simulated chip with millisecond timings.
func quickConfig() *config.Config {
	cfg := config.Sample()
	cfg.GPIO.Chip = config.SimulatedChip
	cfg.Interval = time.Millisecond
	cfg.Light.FlashDwell = time.Millisecond
	cfg.Audible.StepDuration = time.Millisecond

	return cfg
}

// writeConfig saves cfg to a temporary file and returns its path.
func writeConfig(t *testing.T, cfg *config.Config) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), config.DefaultConfigFilename)
	require.NoError(t, config.Save(path, cfg))

	return path
}
