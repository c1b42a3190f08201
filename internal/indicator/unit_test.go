package indicator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/crowd-alarm/internal/hardware/gpio"
)

var errTestClaim = errors.New("test claim error")

// TestClaim_PartialFailureReleases verifies that lines claimed before a failing
// claim are released before the error is returned.
func TestClaim_PartialFailureReleases(t *testing.T) {
	t.Parallel()

	chip := gpio.NewMemoryChip("test")
	chip.FailOutput(22, errTestClaim)

	light, err := NewLight(chip, []int{17, 27, 22, 10})
	require.ErrorIs(t, err, errTestClaim)
	require.Nil(t, light)

	require.Equal(t, 0, chip.Claimed())
	require.Equal(t, 1, chip.Releases(17))
	require.Equal(t, 1, chip.Releases(27))
	require.Equal(t, 0, chip.Releases(22))
	require.Equal(t, 0, chip.Releases(10))
}

// TestClaim_ConflictBetweenUnits rejects a line already owned by another unit.
func TestClaim_ConflictBetweenUnits(t *testing.T) {
	t.Parallel()

	chip := gpio.NewMemoryChip("test")

	light, err := NewLight(chip, []int{17, 27})
	require.NoError(t, err)

	defer func() {
		_ = light.Close()
	}()

	buzzer, err := NewBuzzer(chip, []int{18, 27})
	require.ErrorIs(t, err, gpio.ErrLineBusy)
	require.Nil(t, buzzer)

	// The buzzer's own claim on 18 was rolled back, the light keeps 17 and 27.
	require.Equal(t, 1, chip.Releases(18))
	require.Equal(t, 2, chip.Claimed())
}

// TestClaim_InvalidOffsets covers empty and duplicated line lists.
func TestClaim_InvalidOffsets(t *testing.T) {
	t.Parallel()

	chip := gpio.NewMemoryChip("test")

	_, err := NewLight(chip, nil)
	require.ErrorIs(t, err, ErrNoLines)

	_, err = NewBuzzer(chip, []int{18, 18})
	require.ErrorIs(t, err, ErrDuplicateLine)

	require.Empty(t, chip.Events())
}

// TestClose_Idempotent ensures a second Close neither fails nor releases again.
func TestClose_Idempotent(t *testing.T) {
	t.Parallel()

	chip := gpio.NewMemoryChip("test")

	light, err := NewLight(chip, []int{17, 27, 22})
	require.NoError(t, err)

	require.NoError(t, light.Close())

	events := chip.Events()
	require.NoError(t, light.Close())
	require.Equal(t, events, chip.Events())

	for _, offset := range []int{17, 27, 22} {
		require.Equal(t, 1, chip.Releases(offset))
	}
}

// TestRender_AfterClose returns ErrUnitClosed without touching any line.
func TestRender_AfterClose(t *testing.T) {
	t.Parallel()

	chip := gpio.NewMemoryChip("test")

	light, err := NewLight(chip, []int{17})
	require.NoError(t, err)

	buzzer, err := NewBuzzer(chip, []int{18})
	require.NoError(t, err)

	require.NoError(t, light.Close())
	require.NoError(t, buzzer.Close())

	events := chip.Events()
	ctx := context.Background()

	for _, unit := range []Unit{light, buzzer} {
		require.ErrorIs(t, unit.Safe(ctx), ErrUnitClosed)
		require.ErrorIs(t, unit.Caution(ctx), ErrUnitClosed)
		require.ErrorIs(t, unit.Watch(ctx), ErrUnitClosed)
		require.ErrorIs(t, unit.Warning(ctx), ErrUnitClosed)
	}

	require.Equal(t, events, chip.Events())
}

// TestRender_LineFailure wraps driver failures in ErrRender.
func TestRender_LineFailure(t *testing.T) {
	t.Parallel()

	chip := gpio.NewMemoryChip("test")

	light, err := NewLight(chip, []int{17, 27})
	require.NoError(t, err)

	defer func() {
		_ = light.Close()
	}()

	chip.FailSet(27, errTestLine)

	err = light.Watch(context.Background())
	require.ErrorIs(t, err, ErrRender)
	require.ErrorIs(t, err, errTestLine)
	require.True(t, chip.Active(17))
}
