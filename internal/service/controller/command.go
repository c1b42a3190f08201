package controller

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/go-ps"
	"go.uber.org/multierr"

	"github.com/oshokin/crowd-alarm/internal/config"
	"github.com/oshokin/crowd-alarm/internal/hardware/gpio"
	"github.com/oshokin/crowd-alarm/internal/logger"
	"github.com/oshokin/crowd-alarm/internal/occupancy"
)

// Options controls the controller run.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// Area overrides measured_area when non-zero.
	Area float64
	// Interval overrides the configured pause between ticks when positive.
	Interval time.Duration
	// Simulate uses the in-memory chip regardless of the configured one.
	Simulate bool
	// Chip is used instead of opening one. Run never closes an injected chip.
	Chip gpio.Chip
}

// Run loads the configuration, claims the alert lines and runs the control loop
// until ctx is canceled or a fetch or render fails. Every claimed line is
// released before Run returns.
func Run(ctx context.Context, opts *Options) (err error) {
	ctx = logger.WithName(ctx, "crowd-alarm")
	ctx = logger.WithKV(ctx, "run_id", uuid.NewString())

	cfg, err := loadConfig(opts.ConfigPath, opts.Area)
	if err != nil {
		return err
	}

	if opts.Interval > 0 {
		cfg.Interval = opts.Interval
	}

	if opts.Chip == nil && !simulated(cfg, opts.Simulate) {
		if err = ensureSingleInstance(ps.Processes); err != nil {
			return err
		}
	}

	source, err := occupancy.New(ctx, &cfg.Source)
	if err != nil {
		return fmt.Errorf("%w: open %s source: %w", ErrSourceFetch, cfg.Source.Kind, err)
	}

	defer multierr.AppendInvoke(&err, multierr.Close(source))

	chip := opts.Chip
	if chip == nil {
		if chip, err = openChip(ctx, &cfg.GPIO, opts.Simulate); err != nil {
			return err
		}

		defer multierr.AppendInvoke(&err, multierr.Close(chip))
	}

	coordinator, err := buildCoordinator(chip, cfg)
	if err != nil {
		return err
	}

	defer multierr.AppendInvoke(&err, multierr.Close(coordinator))

	logger.InfoKV(ctx, "Controller started",
		"source", cfg.Source.Kind,
		"chip", chip.Name(),
		"area", cfg.MeasuredArea,
		"interval", cfg.Interval.String(),
		"light_lines", cfg.LightLines,
		"audible_lines", cfg.AudibleLines,
	)

	loop := &Loop{
		Source:      source,
		Coordinator: coordinator,
		Area:        cfg.MeasuredArea,
		Interval:    cfg.Interval,
		Timeout:     cfg.Source.Timeout,
	}

	return loop.Run(ctx)
}

// loadConfig reads the settings and applies a positive or negative area override,
// which is validated like the file value.
func loadConfig(path string, area float64) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	if area != 0 {
		cfg.MeasuredArea = area

		if err = config.Validate(cfg); err != nil {
			return nil, fmt.Errorf("load configuration: %w", err)
		}
	}

	return cfg, nil
}

// simulated reports whether the in-memory chip will be used.
func simulated(cfg *config.Config, simulate bool) bool {
	return simulate || cfg.GPIO.Chip == config.SimulatedChip
}
