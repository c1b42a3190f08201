package indicator

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/multierr"

	"github.com/oshokin/crowd-alarm/internal/domain/alarm"
)

// Coordinator fans a level out to a fixed, ordered set of units.
type Coordinator struct {
	// units are rendered in this order.
	units []Unit
}

// NewCoordinator registers units in the order they will be rendered.
func NewCoordinator(units ...Unit) *Coordinator {
	return &Coordinator{
		units: slices.Clone(units),
	}
}

// Units returns the registered units in render order.
func (c *Coordinator) Units() []Unit {
	return slices.Clone(c.units)
}

// Broadcast renders level on every unit, one after another. A warning therefore
// takes the sum of every unit's warning pattern. The first failure stops the
// broadcast and is returned; remaining units are not rendered.
func (c *Coordinator) Broadcast(ctx context.Context, level alarm.Level) error {
	render, err := renderer(level)
	if err != nil {
		return err
	}

	for _, unit := range c.units {
		if err = render(unit, ctx); err != nil {
			return fmt.Errorf("render %s on %s: %w", level, unit.Name(), err)
		}
	}

	return nil
}

// Close releases every unit, last registered first, and reports all failures.
func (c *Coordinator) Close() error {
	var err error
	for i := len(c.units) - 1; i >= 0; i-- {
		err = multierr.Append(err, c.units[i].Close())
	}

	return err
}

// renderer picks the Unit method matching level.
func renderer(level alarm.Level) (func(Unit, context.Context) error, error) {
	switch level {
	case alarm.Safe:
		return Unit.Safe, nil
	case alarm.Caution:
		return Unit.Caution, nil
	case alarm.Watch:
		return Unit.Watch, nil
	case alarm.Warning:
		return Unit.Warning, nil
	default:
		return nil, fmt.Errorf("%w: %s", alarm.ErrUnknownLevel, level)
	}
}
