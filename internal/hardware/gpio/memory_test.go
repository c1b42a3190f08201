package gpio

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var errTestWrite = errors.New("test write error")

// noSleep returns immediately unless ctx is done.
func noSleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

// TestMemoryChip_ClaimIsExclusive verifies a second claim of the same line is rejected
// until the first owner releases it.
func TestMemoryChip_ClaimIsExclusive(t *testing.T) {
	t.Parallel()

	chip := NewMemoryChip("test")

	line, err := chip.Output(17)
	require.NoError(t, err)
	require.Equal(t, 17, line.Offset())

	_, err = chip.Output(17)
	require.ErrorIs(t, err, ErrLineBusy)

	require.NoError(t, line.Release())
	require.Equal(t, 0, chip.Claimed())

	again, err := chip.Output(17)
	require.NoError(t, err)
	require.NoError(t, again.Release())
}

// TestMemoryChip_InvalidOffset rejects negative offsets.
func TestMemoryChip_InvalidOffset(t *testing.T) {
	t.Parallel()

	_, err := NewMemoryChip("test").Output(-1)
	require.ErrorIs(t, err, ErrInvalidOffset)
}

// TestMemoryChip_RecordsEvents checks the recorded history and driven state.
func TestMemoryChip_RecordsEvents(t *testing.T) {
	t.Parallel()

	var observed []Event

	chip := NewMemoryChip("test", WithSleep(noSleep), WithObserver(func(ev Event) {
		observed = append(observed, ev)
	}))

	line, err := chip.Output(4)
	require.NoError(t, err)

	require.NoError(t, line.SetActive(true))
	require.True(t, chip.Active(4))

	require.NoError(t, line.Tone(context.Background(), 700, 0.95, 100*time.Millisecond))
	require.False(t, chip.Active(4))

	require.NoError(t, line.Release())

	want := []Event{
		{Kind: EventClaim, Offset: 4},
		{Kind: EventSet, Offset: 4, Active: true},
		{Kind: EventTone, Offset: 4, Frequency: 700, DutyCycle: 0.95, Duration: 100 * time.Millisecond},
		{Kind: EventRelease, Offset: 4},
	}
	require.Equal(t, want, chip.Events())
	require.Equal(t, want, observed)
	require.Equal(t, 1, chip.Releases(4))
}

// TestMemoryChip_ReleasedLine ensures a released line can neither be driven nor released again.
func TestMemoryChip_ReleasedLine(t *testing.T) {
	t.Parallel()

	chip := NewMemoryChip("test")

	line, err := chip.Output(5)
	require.NoError(t, err)
	require.NoError(t, line.Release())

	require.ErrorIs(t, line.SetActive(true), ErrLineReleased)
	require.ErrorIs(t, line.Release(), ErrLineReleased)
	require.Equal(t, 1, chip.Releases(5))
}

// TestMemoryChip_InjectedFailures covers claim and write fault injection.
func TestMemoryChip_InjectedFailures(t *testing.T) {
	t.Parallel()

	chip := NewMemoryChip("test", WithSleep(noSleep))
	chip.FailOutput(6, errTestWrite)
	chip.FailSet(7, errTestWrite)

	_, err := chip.Output(6)
	require.ErrorIs(t, err, errTestWrite)
	require.Equal(t, 0, chip.Claimed())

	line, err := chip.Output(7)
	require.NoError(t, err)
	require.ErrorIs(t, line.SetActive(true), errTestWrite)
	require.ErrorIs(t, line.Tone(context.Background(), 700, 0.5, time.Millisecond), errTestWrite)
}

// TestMemoryChip_ToneValidation rejects nonsensical tones.
func TestMemoryChip_ToneValidation(t *testing.T) {
	t.Parallel()

	line, err := NewMemoryChip("test", WithSleep(noSleep)).Output(1)
	require.NoError(t, err)

	require.ErrorIs(t, line.Tone(context.Background(), 0, 0.5, time.Millisecond), ErrInvalidTone)
	require.ErrorIs(t, line.Tone(context.Background(), 700, 1.5, time.Millisecond), ErrInvalidTone)
}

// TestMemoryChip_Closed refuses new claims after Close.
func TestMemoryChip_Closed(t *testing.T) {
	t.Parallel()

	chip := NewMemoryChip("test")
	require.NoError(t, chip.Close())

	_, err := chip.Output(1)
	require.ErrorIs(t, err, ErrChipClosed)
}

// TestSleep_HonoursContext ensures Sleep returns early once the context is canceled.
func TestSleep_HonoursContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	started := time.Now()
	err := Sleep(ctx, time.Minute)

	require.ErrorIs(t, err, context.Canceled)
	require.Less(t, time.Since(started), time.Second)
	require.NoError(t, Sleep(context.Background(), time.Millisecond))
}
