package controller

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/oshokin/crowd-alarm/internal/config"
	"github.com/oshokin/crowd-alarm/internal/hardware/gpio"
	"github.com/oshokin/crowd-alarm/internal/indicator"
	"github.com/oshokin/crowd-alarm/internal/logger"
)

// openChip opens the configured chip. The simulated chip logs every line operation at debug level.
func openChip(ctx context.Context, cfg *config.GPIO, simulate bool) (gpio.Chip, error) {
	if simulate || cfg.Chip == config.SimulatedChip {
		logger.Info(ctx, "Using the simulated GPIO chip")

		return gpio.NewMemoryChip(config.SimulatedChip, gpio.WithObserver(func(ev gpio.Event) {
			logLineEvent(ctx, ev)
		})), nil
	}

	chip, err := gpio.OpenCdev(cfg.Chip, cfg.Consumer)
	if err != nil {
		return nil, err
	}

	return chip, nil
}

// logLineEvent writes a simulated line operation to the log.
func logLineEvent(ctx context.Context, ev gpio.Event) {
	switch ev.Kind {
	case gpio.EventTone:
		logger.DebugKV(ctx, "Line tone", "offset", ev.Offset, "frequency", ev.Frequency, "duration", ev.Duration.String())
	case gpio.EventSet:
		logger.DebugKV(ctx, "Line set", "offset", ev.Offset, "active", ev.Active)
	default:
		logger.DebugKV(ctx, "Line "+string(ev.Kind), "offset", ev.Offset)
	}
}

// unitOptions turns the lamp and buzzer settings into unit options.
func unitOptions(cfg *config.Config) []indicator.Option {
	return []indicator.Option{
		indicator.WithFlashDwell(cfg.Light.FlashDwell),
		indicator.WithSweep(indicator.Sweep{
			StartFrequency: cfg.Audible.StartFrequency,
			StopFrequency:  cfg.Audible.StopFrequency,
			Step:           cfg.Audible.FrequencyStep,
			StepDuration:   cfg.Audible.StepDuration,
			DutyCycle:      cfg.Audible.DutyCycle,
		}),
	}
}

// buildCoordinator claims the light lines, then the audible lines, and registers
// the units in that order. A failed claim releases everything claimed before it.
func buildCoordinator(chip gpio.Chip, cfg *config.Config) (*indicator.Coordinator, error) {
	opts := unitOptions(cfg)

	light, err := indicator.NewLight(chip, cfg.LightLines, opts...)
	if err != nil {
		return nil, fmt.Errorf("claim light lines: %w", err)
	}

	buzzer, err := indicator.NewBuzzer(chip, cfg.AudibleLines, opts...)
	if err != nil {
		return nil, multierr.Append(fmt.Errorf("claim audible lines: %w", err), light.Close())
	}

	return indicator.NewCoordinator(light, buzzer), nil
}
