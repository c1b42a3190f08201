//go:build linux

package gpio

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"time"

	"github.com/warthog618/go-gpiocdev"
	"go.uber.org/multierr"
)

// CdevChip is a Chip backed by the Linux GPIO character device (/dev/gpiochipN).
type CdevChip struct {
	// chip is the open character device.
	chip *gpiocdev.Chip
	// claims rejects double claims inside this process before the kernel does.
	claims claims
}

// OpenCdev opens the named chip; consumer is the label the kernel shows for claimed lines.
func OpenCdev(name, consumer string) (*CdevChip, error) {
	chip, err := gpiocdev.NewChip(name, gpiocdev.WithConsumer(consumer))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}

	return &CdevChip{chip: chip}, nil
}

// Name returns the chip name.
func (c *CdevChip) Name() string {
	return c.chip.Name
}

// Output requests offset from the kernel as an output driven low.
func (c *CdevChip) Output(offset int) (Line, error) {
	if err := c.claims.acquire(c.Name(), offset); err != nil {
		return nil, err
	}

	line, err := c.chip.RequestLine(offset, gpiocdev.AsOutput(0))
	if err != nil {
		c.claims.drop(offset)

		// EBUSY means another process (or driver) holds the line.
		if errors.Is(err, syscall.EBUSY) {
			return nil, fmt.Errorf("%w: %s line %d: %w", ErrLineBusy, c.Name(), offset, err)
		}

		return nil, fmt.Errorf("request %s line %d: %w", c.Name(), offset, err)
	}

	return &cdevLine{chip: c, line: line, offset: offset}, nil
}

// Close closes the character device.
func (c *CdevChip) Close() error {
	if err := c.chip.Close(); err != nil {
		return fmt.Errorf("close %s: %w", c.Name(), err)
	}

	return nil
}

// cdevLine is a Line requested from the kernel.
type cdevLine struct {
	// chip is the owning chip.
	chip *CdevChip
	// line is the kernel line request.
	line *gpiocdev.Line
	// offset is the line number.
	offset int
	// released is set by Release.
	released bool
}

// Offset returns the line number.
func (l *cdevLine) Offset() int {
	return l.offset
}

// SetActive drives the line high or low.
func (l *cdevLine) SetActive(active bool) error {
	if l.released {
		return fmt.Errorf("%w: %s line %d", ErrLineReleased, l.chip.Name(), l.offset)
	}

	value := 0
	if active {
		value = 1
	}

	if err := l.line.SetValue(value); err != nil {
		return fmt.Errorf("set %s line %d: %w", l.chip.Name(), l.offset, err)
	}

	return nil
}

// Tone bit-bangs a square wave. Timing follows the scheduler, which is
// accurate enough for a piezo buzzer but not for precise audio.
func (l *cdevLine) Tone(ctx context.Context, frequency, dutyCycle float64, duration time.Duration) error {
	if err := validateTone(frequency, dutyCycle); err != nil {
		return err
	}

	var (
		period   = time.Duration(float64(time.Second) / frequency)
		high     = time.Duration(float64(period) * dutyCycle)
		low      = period - high
		deadline = time.Now().Add(duration)
	)

	for time.Now().Before(deadline) {
		if err := ctx.Err(); err != nil {
			return multierr.Append(err, l.SetActive(false))
		}

		if err := l.SetActive(true); err != nil {
			return err
		}

		time.Sleep(high)

		if err := l.SetActive(false); err != nil {
			return err
		}

		time.Sleep(low)
	}

	return l.SetActive(false)
}

// Release switches the line back to an input and closes the request.
func (l *cdevLine) Release() error {
	if l.released {
		return fmt.Errorf("%w: %s line %d", ErrLineReleased, l.chip.Name(), l.offset)
	}

	l.released = true
	defer l.chip.claims.drop(l.offset)

	err := multierr.Append(
		l.line.Reconfigure(gpiocdev.AsInput),
		l.line.Close(),
	)
	if err != nil {
		return fmt.Errorf("release %s line %d: %w", l.chip.Name(), l.offset, err)
	}

	return nil
}
