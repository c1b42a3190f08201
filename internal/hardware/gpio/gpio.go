package gpio

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Line is an output line owned by a single claimer.
type Line interface {
	// Offset is the line number on its chip.
	Offset() int
	// SetActive drives the line active (high) or inactive (low).
	SetActive(active bool) error
	// Tone drives a square wave of the given frequency (Hz) and duty cycle (0..1]
	// for duration, blocking until it is over or ctx is done. The line is left inactive.
	Tone(ctx context.Context, frequency, dutyCycle float64, duration time.Duration) error
	// Release returns the line to the input direction and gives up the claim.
	Release() error
}

// Chip hands out exclusive claims on its lines.
type Chip interface {
	// Name identifies the chip, e.g. "gpiochip0".
	Name() string
	// Output claims offset as an output driven inactive.
	Output(offset int) (Line, error)
	// Close releases the chip itself. Lines must be released by their owners first.
	Close() error
}

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

var (
	// ErrLineBusy is returned when a line is already claimed.
	ErrLineBusy = errors.New("line is already claimed")
	// ErrLineReleased is returned when a released line is used.
	ErrLineReleased = errors.New("line is released")
	// ErrInvalidOffset is returned for negative line offsets.
	ErrInvalidOffset = errors.New("invalid line offset")
	// ErrInvalidTone is returned for non-positive frequencies or duty cycles outside (0, 1].
	ErrInvalidTone = errors.New("invalid tone parameters")
	// ErrChipClosed is returned when a closed chip is asked for a line.
	ErrChipClosed = errors.New("chip is closed")
)

// Sleep is the default SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// validateTone checks tone parameters shared by every Line implementation.
func validateTone(frequency, dutyCycle float64) error {
	if frequency <= 0 || dutyCycle <= 0 || dutyCycle > 1 {
		return fmt.Errorf("%w: frequency %v Hz, duty cycle %v", ErrInvalidTone, frequency, dutyCycle)
	}

	return nil
}

// claims tracks offsets held inside this process, so two owners on the
// same chip are rejected before the driver is asked.
type claims struct {
	// held is the set of claimed offsets.
	held map[int]struct{}
	// mu protects held.
	mu sync.Mutex
}

// acquire marks offset as claimed.
func (c *claims) acquire(chip string, offset int) error {
	if offset < 0 {
		return fmt.Errorf("%w: %s line %d", ErrInvalidOffset, chip, offset)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.held == nil {
		c.held = make(map[int]struct{})
	}

	if _, busy := c.held[offset]; busy {
		return fmt.Errorf("%w: %s line %d", ErrLineBusy, chip, offset)
	}

	c.held[offset] = struct{}{}

	return nil
}

// drop forgets the claim on offset.
func (c *claims) drop(offset int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.held, offset)
}

// count returns the number of claimed offsets.
func (c *claims) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.held)
}
