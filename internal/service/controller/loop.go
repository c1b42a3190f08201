package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oshokin/crowd-alarm/internal/config"
	"github.com/oshokin/crowd-alarm/internal/domain/alarm"
	"github.com/oshokin/crowd-alarm/internal/logger"
)

// ErrSourceFetch wraps every failure to obtain an occupancy count.
var ErrSourceFetch = errors.New("fetch occupancy count")

// Counter yields occupancy counts.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// Broadcaster renders a level on the alert units.
type Broadcaster interface {
	Broadcast(ctx context.Context, level alarm.Level) error
}

// Loop is the fetch, classify, broadcast cycle.
type Loop struct {
	// Source provides the counts.
	Source Counter
	// Coordinator renders every level.
	Coordinator Broadcaster
	// Area is the monitored floor area in square metres.
	Area float64
	// Interval is the pause after each broadcast. Zero means config.DefaultInterval.
	Interval time.Duration
	// Timeout bounds each fetch; zero leaves fetches unbounded.
	Timeout time.Duration
}

// Run repeats the cycle until ctx is canceled, which returns nil, or until the
// source or a unit fails. The level is broadcast on every tick, changed or not.
func (l *Loop) Run(ctx context.Context) error {
	if !alarm.ValidArea(l.Area) {
		return fmt.Errorf("%w: %v", alarm.ErrInvalidArea, l.Area)
	}

	interval := l.Interval
	if interval <= 0 {
		interval = config.DefaultInterval
	}

	current := alarm.Unknown

	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		count, err := l.fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info(ctx, "Context canceled, exiting")
				return nil
			}

			return fmt.Errorf("%w: %w", ErrSourceFetch, err)
		}

		level, err := alarm.Classify(count, l.Area)
		if err != nil {
			return err
		}

		if level != current {
			logger.InfoKV(ctx, "Level changed", "from", current.String(), "to", level.String(), "count", count)
		} else {
			logger.DebugKV(ctx, "Level unchanged", "level", level.String(), "count", count)
		}

		current = level

		if err = l.Coordinator.Broadcast(ctx, level); err != nil {
			if ctx.Err() != nil {
				logger.Info(ctx, "Context canceled during broadcast, exiting")
				return nil
			}

			return err
		}

		timer.Reset(interval)

		select {
		case <-ctx.Done():
			logger.Info(ctx, "Context canceled, exiting")
			return nil
		case <-timer.C:
		}
	}
}

// fetch asks the source for one count, bounded by Timeout when set.
func (l *Loop) fetch(ctx context.Context) (int, error) {
	if l.Timeout <= 0 {
		return l.Source.Count(ctx)
	}

	ctx, cancel := context.WithTimeout(ctx, l.Timeout)
	defer cancel()

	return l.Source.Count(ctx)
}
