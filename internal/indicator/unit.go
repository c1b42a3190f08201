package indicator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/oshokin/crowd-alarm/internal/hardware/gpio"
)

// Unit is an alert device able to render every severity level.
type Unit interface {
	// Name identifies the unit in logs and errors.
	Name() string
	// Lines returns the claimed line offsets in unit order.
	Lines() []int
	// Safe renders the safe level.
	Safe(ctx context.Context) error
	// Caution renders the caution level.
	Caution(ctx context.Context) error
	// Watch renders the watch level.
	Watch(ctx context.Context) error
	// Warning renders the warning level, blocking until the pattern is over.
	Warning(ctx context.Context) error
	// Close releases every line. Calls after the first are no-ops.
	Close() error
}

var (
	// ErrNoLines is returned when a unit is built without lines.
	ErrNoLines = errors.New("unit needs at least one line")
	// ErrDuplicateLine is returned when a unit lists the same line twice.
	ErrDuplicateLine = errors.New("line listed more than once")
	// ErrUnitClosed is returned when a closed unit is asked to render.
	ErrUnitClosed = errors.New("unit is closed")
	// ErrRender is returned when a line cannot be driven mid-render.
	ErrRender = errors.New("render failed")
)

// Defaults for the lamp flash and the buzzer sweep.
const (
	// DefaultFlashDwell is how long each lamp stays on, then off, during a warning.
	DefaultFlashDwell = 150 * time.Millisecond
	// DefaultStartFrequency is the first sweep frequency in Hz.
	DefaultStartFrequency = 700.0
	// DefaultStopFrequency is the exclusive upper bound of the sweep in Hz.
	DefaultStopFrequency = 1500.0
	// DefaultFrequencyStep is the sweep increment in Hz.
	DefaultFrequencyStep = 50.0
	// DefaultStepDuration is how long every sweep frequency is held.
	DefaultStepDuration = 100 * time.Millisecond
	// DefaultDutyCycle is the share of each tone period the buzzer line is high.
	DefaultDutyCycle = 0.95
)

// Sweep describes the rising tone sounded by a buzzer on warning.
type Sweep struct {
	// StartFrequency is the first frequency in Hz.
	StartFrequency float64
	// StopFrequency is the exclusive upper bound in Hz.
	StopFrequency float64
	// Step is added to the frequency after every StepDuration.
	Step float64
	// StepDuration is how long each frequency is held.
	StepDuration time.Duration
	// DutyCycle is the high share of each period, in (0, 1].
	DutyCycle float64
}

// DefaultSweep returns the 700 Hz to 1450 Hz sweep in 50 Hz steps of 100ms.
func DefaultSweep() Sweep {
	return Sweep{
		StartFrequency: DefaultStartFrequency,
		StopFrequency:  DefaultStopFrequency,
		Step:           DefaultFrequencyStep,
		StepDuration:   DefaultStepDuration,
		DutyCycle:      DefaultDutyCycle,
	}
}

// Frequencies lists the sweep frequencies in playing order.
func (s Sweep) Frequencies() []float64 {
	if s.Step <= 0 {
		return nil
	}

	var frequencies []float64
	for f := s.StartFrequency; f < s.StopFrequency; f += s.Step {
		frequencies = append(frequencies, f)
	}

	return frequencies
}

// Duration is the time one line needs to play the whole sweep.
func (s Sweep) Duration() time.Duration {
	return time.Duration(len(s.Frequencies())) * s.StepDuration
}

// options holds settings shared by every unit kind.
type options struct {
	// flashDwell is the lamp on/off time during a warning.
	flashDwell time.Duration
	// sweep is the buzzer warning tone.
	sweep Sweep
	// sleep waits out dwell times.
	sleep gpio.SleepFunc
}

// Option configures a unit.
type Option func(*options)

// WithFlashDwell sets the lamp on/off time of a warning flash.
func WithFlashDwell(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.flashDwell = d
		}
	}
}

// WithSweep sets the buzzer warning tone.
func WithSweep(s Sweep) Option {
	return func(o *options) {
		o.sweep = s
	}
}

// WithSleep replaces the function used to wait between flashes.
func WithSleep(sleep gpio.SleepFunc) Option {
	return func(o *options) {
		if sleep != nil {
			o.sleep = sleep
		}
	}
}

// newOptions applies opts over the defaults.
func newOptions(opts []Option) options {
	o := options{
		flashDwell: DefaultFlashDwell,
		sweep:      DefaultSweep(),
		sleep:      gpio.Sleep,
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// bank is the ordered set of lines owned by one unit.
type bank struct {
	// name identifies the owning unit.
	name string
	// lines are the claimed lines in unit order.
	lines []gpio.Line
	// closed is set once the lines are released.
	closed bool
}

// claim requests every offset from chip. If any claim fails, the lines
// claimed so far are released before the error is returned.
func claim(chip gpio.Chip, name string, offsets []int) (*bank, error) {
	if len(offsets) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrNoLines)
	}

	seen := make(map[int]struct{}, len(offsets))
	for _, offset := range offsets {
		if _, dup := seen[offset]; dup {
			return nil, fmt.Errorf("%s: %w: %d", name, ErrDuplicateLine, offset)
		}

		seen[offset] = struct{}{}
	}

	b := &bank{
		name:  name,
		lines: make([]gpio.Line, 0, len(offsets)),
	}

	for _, offset := range offsets {
		line, err := chip.Output(offset)
		if err != nil {
			return nil, multierr.Append(fmt.Errorf("%s: %w", name, err), b.release())
		}

		b.lines = append(b.lines, line)
	}

	return b, nil
}

// offsets returns the line numbers in unit order.
func (b *bank) offsets() []int {
	result := make([]int, len(b.lines))
	for i, line := range b.lines {
		result[i] = line.Offset()
	}

	return result
}

// ready fails when the bank is already released.
func (b *bank) ready() error {
	if b.closed {
		return fmt.Errorf("%s: %w", b.name, ErrUnitClosed)
	}

	return nil
}

// set drives the given lines, or every line when none are given.
func (b *bank) set(active bool, lines ...gpio.Line) error {
	if len(lines) == 0 {
		lines = b.lines
	}

	for _, line := range lines {
		if err := line.SetActive(active); err != nil {
			return fmt.Errorf("%w: %s line %d: %w", ErrRender, b.name, line.Offset(), err)
		}
	}

	return nil
}

// close releases the lines once.
func (b *bank) close() error {
	if b.closed {
		return nil
	}

	return b.release()
}

// release gives every line back, collecting all failures.
func (b *bank) release() error {
	b.closed = true

	var err error
	for _, line := range b.lines {
		err = multierr.Append(err, line.Release())
	}

	if err != nil {
		return fmt.Errorf("release %s: %w", b.name, err)
	}

	return nil
}
