package indicator

import (
	"context"
	"fmt"

	"github.com/oshokin/crowd-alarm/internal/hardware/gpio"
)

// Light is a multi-lamp unit: caution lights the first lamp, watch lights
// them all, warning flashes them one after another.
type Light struct {
	// bank holds the lamp lines.
	bank *bank
	// opts holds flash timing.
	opts options
}

var _ Unit = (*Light)(nil)

// NewLight claims offsets on chip as lamp outputs.
func NewLight(chip gpio.Chip, offsets []int, opts ...Option) (*Light, error) {
	b, err := claim(chip, "light", offsets)
	if err != nil {
		return nil, err
	}

	return &Light{
		bank: b,
		opts: newOptions(opts),
	}, nil
}

// Name returns "light".
func (l *Light) Name() string {
	return l.bank.name
}

// Lines returns the lamp offsets.
func (l *Light) Lines() []int {
	return l.bank.offsets()
}

// Safe turns every lamp off.
func (l *Light) Safe(context.Context) error {
	if err := l.bank.ready(); err != nil {
		return err
	}

	return l.bank.set(false)
}

// Caution lights only the first lamp.
func (l *Light) Caution(context.Context) error {
	if err := l.bank.ready(); err != nil {
		return err
	}

	if err := l.bank.set(false); err != nil {
		return err
	}

	return l.bank.set(true, l.bank.lines[0])
}

// Watch lights every lamp steadily.
func (l *Light) Watch(context.Context) error {
	if err := l.bank.ready(); err != nil {
		return err
	}

	return l.bank.set(true)
}

// Warning turns everything off, then flashes each lamp in order:
// on for the dwell time, off for the dwell time.
func (l *Light) Warning(ctx context.Context) error {
	if err := l.bank.ready(); err != nil {
		return err
	}

	if err := l.bank.set(false); err != nil {
		return err
	}

	for _, line := range l.bank.lines {
		if err := l.bank.set(true, line); err != nil {
			return err
		}

		if err := l.opts.sleep(ctx, l.opts.flashDwell); err != nil {
			// Leave nothing lit when interrupted mid-flash.
			_ = l.bank.set(false, line)

			return fmt.Errorf("light warning: %w", err)
		}

		if err := l.bank.set(false, line); err != nil {
			return err
		}

		if err := l.opts.sleep(ctx, l.opts.flashDwell); err != nil {
			return fmt.Errorf("light warning: %w", err)
		}
	}

	return nil
}

// Close releases the lamp lines.
func (l *Light) Close() error {
	return l.bank.close()
}
