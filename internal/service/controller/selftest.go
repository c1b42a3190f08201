package controller

import (
	"context"
	"time"

	"go.uber.org/multierr"

	"github.com/oshokin/crowd-alarm/internal/domain/alarm"
	"github.com/oshokin/crowd-alarm/internal/hardware/gpio"
	"github.com/oshokin/crowd-alarm/internal/logger"
)

// DefaultSelfTestPause is the default pause between self-test levels.
const DefaultSelfTestPause = 2 * time.Second

// SelfTestOptions controls the installation check.
type SelfTestOptions struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// Simulate uses the in-memory chip regardless of the configured one.
	Simulate bool
	// Pause is how long each level is held. Zero means DefaultSelfTestPause.
	Pause time.Duration
	// Chip is used instead of opening one. SelfTest never closes an injected chip.
	Chip gpio.Chip
}

// selfTestSequence walks every level and ends quiet.
//
//nolint:gochecknoglobals // Read-only lookup table.
var selfTestSequence = []alarm.Level{alarm.Safe, alarm.Caution, alarm.Watch, alarm.Warning, alarm.Safe}

// SelfTest renders every level once on the configured units so an installer can
// check the wiring. No occupancy source is opened.
func SelfTest(ctx context.Context, opts *SelfTestOptions) (err error) {
	ctx = logger.WithName(ctx, "selftest")

	cfg, err := loadConfig(opts.ConfigPath, 0)
	if err != nil {
		return err
	}

	pause := opts.Pause
	if pause <= 0 {
		pause = DefaultSelfTestPause
	}

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

	for i, level := range selfTestSequence {
		logger.InfoKV(ctx, "Rendering level", "step", i+1, "of", len(selfTestSequence), "level", level.String())

		if err = coordinator.Broadcast(ctx, level); err != nil {
			return interrupted(ctx, err)
		}

		if i == len(selfTestSequence)-1 {
			break
		}

		if err = gpio.Sleep(ctx, pause); err != nil {
			return interrupted(ctx, err)
		}
	}

	logger.Info(ctx, "Self-test finished")

	return nil
}

// interrupted turns err into nil when ctx was canceled, so an interrupted
// self-test exits like an interrupted run.
func interrupted(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		logger.Info(ctx, "Context canceled, self-test stopped")

		return nil
	}

	return err
}
