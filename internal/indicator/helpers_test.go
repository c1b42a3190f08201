package indicator

import (
	"context"
	"sync"
	"time"

	"github.com/oshokin/crowd-alarm/internal/hardware/gpio"
)

// sleepRecorder is a gpio.SleepFunc that records durations without waiting.
type sleepRecorder struct {
	// slept holds every requested duration in order.
	slept []time.Duration
	// mu protects slept.
	mu sync.Mutex
}

// sleep records d and returns immediately unless ctx is done.
func (r *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.slept = append(r.slept, d)
	r.mu.Unlock()

	return ctx.Err()
}

// total returns the sum of recorded durations.
func (r *sleepRecorder) total() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	var sum time.Duration
	for _, d := range r.slept {
		sum += d
	}

	return sum
}

// since returns the events recorded after the first n.
func since(chip *gpio.MemoryChip, n int) []gpio.Event {
	return chip.Events()[n:]
}

// set is a shorthand for an EventSet.
func set(offset int, active bool) gpio.Event {
	return gpio.Event{Kind: gpio.EventSet, Offset: offset, Active: active}
}
