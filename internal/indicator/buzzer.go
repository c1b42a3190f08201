package indicator

import (
	"context"
	"fmt"

	"github.com/oshokin/crowd-alarm/internal/hardware/gpio"
)

// Buzzer is an audible unit. It is silent on every level except warning,
// where each line plays a rising frequency sweep.
type Buzzer struct {
	// bank holds the buzzer lines.
	bank *bank
	// opts holds the sweep.
	opts options
}

var _ Unit = (*Buzzer)(nil)

// NewBuzzer claims offsets on chip as buzzer outputs.
func NewBuzzer(chip gpio.Chip, offsets []int, opts ...Option) (*Buzzer, error) {
	b, err := claim(chip, "buzzer", offsets)
	if err != nil {
		return nil, err
	}

	return &Buzzer{
		bank: b,
		opts: newOptions(opts),
	}, nil
}

// Name returns "buzzer".
func (b *Buzzer) Name() string {
	return b.bank.name
}

// Lines returns the buzzer offsets.
func (b *Buzzer) Lines() []int {
	return b.bank.offsets()
}

// Safe silences the buzzer.
func (b *Buzzer) Safe(context.Context) error {
	return b.silence()
}

// Caution silences the buzzer.
func (b *Buzzer) Caution(context.Context) error {
	return b.silence()
}

// Watch silences the buzzer.
func (b *Buzzer) Watch(context.Context) error {
	return b.silence()
}

// Warning plays the sweep on every line in order and returns when the last one ends.
func (b *Buzzer) Warning(ctx context.Context) error {
	if err := b.bank.ready(); err != nil {
		return err
	}

	sweep := b.opts.sweep

	for _, line := range b.bank.lines {
		for _, frequency := range sweep.Frequencies() {
			err := line.Tone(ctx, frequency, sweep.DutyCycle, sweep.StepDuration)
			if err == nil {
				continue
			}

			if ctxErr := ctx.Err(); ctxErr != nil {
				_ = b.bank.set(false, line)

				return fmt.Errorf("buzzer warning: %w", ctxErr)
			}

			return fmt.Errorf("%w: %s line %d at %v Hz: %w", ErrRender, b.bank.name, line.Offset(), frequency, err)
		}

		if err := b.bank.set(false, line); err != nil {
			return err
		}
	}

	return nil
}

// Close releases the buzzer lines.
func (b *Buzzer) Close() error {
	return b.bank.close()
}

// silence drives every line low.
func (b *Buzzer) silence() error {
	if err := b.bank.ready(); err != nil {
		return err
	}

	return b.bank.set(false)
}
