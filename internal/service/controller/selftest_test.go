package controller

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/crowd-alarm/internal/hardware/gpio"
	"github.com/oshokin/crowd-alarm/internal/indicator"
)

// TestSelfTest walks every level once and ends with every line off and released.
func TestSelfTest(t *testing.T) {
	t.Parallel()

	chip := gpio.NewMemoryChip("test", gpio.WithSleep(noSleep))
	cfg := quickConfig()

	err := SelfTest(context.Background(), &SelfTestOptions{
		ConfigPath: writeConfig(t, cfg),
		Pause:      time.Millisecond,
		Chip:       chip,
	})
	require.NoError(t, err)
	require.Zero(t, chip.Claimed())

	var tones int

	for _, ev := range chip.Events() {
		if ev.Kind == gpio.EventTone {
			tones++
		}
	}

	require.Len(t, indicator.DefaultSweep().Frequencies(), tones)

	for _, offset := range cfg.LightLines {
		require.False(t, chip.Active(offset))
		require.Equal(t, 1, chip.Releases(offset))
	}
}

// TestSelfTest_Interrupted stops between levels without an error and still releases the lines.
func TestSelfTest_Interrupted(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	chip := gpio.NewMemoryChip("test", gpio.WithSleep(noSleep))

	err := SelfTest(ctx, &SelfTestOptions{
		ConfigPath: writeConfig(t, quickConfig()),
		Chip:       chip,
	})
	require.NoError(t, err)
	require.Zero(t, chip.Claimed())
}

// TestSelfTest_InterruptedDuringWarning aborts the sweep on cancellation and exits cleanly.
func TestSelfTest_InterruptedDuringWarning(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	chip := gpio.NewMemoryChip("test",
		gpio.WithSleep(noSleep),
		gpio.WithObserver(func(ev gpio.Event) {
			if ev.Kind == gpio.EventTone {
				cancel()
			}
		}),
	)
	cfg := quickConfig()

	err := SelfTest(ctx, &SelfTestOptions{
		ConfigPath: writeConfig(t, cfg),
		Pause:      time.Millisecond,
		Chip:       chip,
	})
	require.NoError(t, err)
	require.Zero(t, chip.Claimed())
	require.False(t, chip.Active(cfg.AudibleLines[0]))
}

// TestSelfTest_RenderFailure still reports unit errors.
func TestSelfTest_RenderFailure(t *testing.T) {
	t.Parallel()

	chip := gpio.NewMemoryChip("test", gpio.WithSleep(noSleep))
	cfg := quickConfig()
	chip.FailSet(cfg.LightLines[0], errTestClaim)

	err := SelfTest(context.Background(), &SelfTestOptions{
		ConfigPath: writeConfig(t, cfg),
		Pause:      time.Millisecond,
		Chip:       chip,
	})
	require.ErrorIs(t, err, indicator.ErrRender)
	require.ErrorIs(t, err, errTestClaim)
	require.Zero(t, chip.Claimed())
}
