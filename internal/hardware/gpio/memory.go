package gpio

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"
)

// EventKind tells what happened to a line.
type EventKind string

// Line event kinds recorded by MemoryChip.
const (
	EventClaim   EventKind = "claim"
	EventSet     EventKind = "set"
	EventTone    EventKind = "tone"
	EventRelease EventKind = "release"
)

// Event is a single recorded line operation.
type Event struct {
	// Kind is the operation performed.
	Kind EventKind
	// Offset is the line the operation applied to.
	Offset int
	// Active is the driven value for EventSet.
	Active bool
	// Frequency is the tone frequency in Hz for EventTone.
	Frequency float64
	// DutyCycle is the tone duty cycle for EventTone.
	DutyCycle float64
	// Duration is the tone length for EventTone.
	Duration time.Duration
}

// MemoryOption configures a MemoryChip.
type MemoryOption func(*MemoryChip)

// WithSleep replaces the function used to wait out tones.
func WithSleep(sleep SleepFunc) MemoryOption {
	return func(c *MemoryChip) {
		if sleep != nil {
			c.sleep = sleep
		}
	}
}

// WithObserver registers a callback invoked after every recorded event.
func WithObserver(observer func(Event)) MemoryOption {
	return func(c *MemoryChip) {
		c.observer = observer
	}
}

// MemoryChip is an in-memory Chip that records every line operation.
type MemoryChip struct {
	// name identifies the chip in errors.
	name string
	// claims tracks claimed offsets.
	claims claims
	// sleep waits out tones.
	sleep SleepFunc
	// observer is notified about every event.
	observer func(Event)

	// mu protects the fields below.
	mu sync.Mutex
	// events is the ordered history of line operations.
	events []Event
	// active holds the driven value of every line ever claimed.
	active map[int]bool
	// releases counts releases per offset.
	releases map[int]int
	// failOutput injects errors into Output.
	failOutput map[int]error
	// failSet injects errors into SetActive and Tone.
	failSet map[int]error
	// closed is set by Close.
	closed bool
}

// NewMemoryChip creates an in-memory chip.
func NewMemoryChip(name string, opts ...MemoryOption) *MemoryChip {
	c := &MemoryChip{
		name:       name,
		sleep:      Sleep,
		active:     make(map[int]bool),
		releases:   make(map[int]int),
		failOutput: make(map[int]error),
		failSet:    make(map[int]error),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Name returns the chip name.
func (c *MemoryChip) Name() string {
	return c.name
}

// Output claims offset as an output driven inactive.
func (c *MemoryChip) Output(offset int) (Line, error) {
	c.mu.Lock()
	closed, injected := c.closed, c.failOutput[offset]
	c.mu.Unlock()

	if closed {
		return nil, fmt.Errorf("%w: %s", ErrChipClosed, c.name)
	}

	if injected != nil {
		return nil, fmt.Errorf("claim %s line %d: %w", c.name, offset, injected)
	}

	if err := c.claims.acquire(c.name, offset); err != nil {
		return nil, err
	}

	c.record(Event{Kind: EventClaim, Offset: offset}, func() {
		c.active[offset] = false
	})

	return &memoryLine{chip: c, offset: offset}, nil
}

// Close marks the chip closed. Lines still claimed stay claimed.
func (c *MemoryChip) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true

	return nil
}

// Events returns a copy of the recorded history.
func (c *MemoryChip) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	return slices.Clone(c.events)
}

// Active reports the value a line is currently driven to.
func (c *MemoryChip) Active(offset int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.active[offset]
}

// Claimed returns the number of lines currently claimed.
func (c *MemoryChip) Claimed() int {
	return c.claims.count()
}

// Releases returns how many times offset was released.
func (c *MemoryChip) Releases(offset int) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.releases[offset]
}

// FailOutput makes the next claims of offset fail with err.
func (c *MemoryChip) FailOutput(offset int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.failOutput[offset] = err
}

// FailSet makes writes to offset fail with err.
func (c *MemoryChip) FailSet(offset int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.failSet[offset] = err
}

// record appends ev, applies mutate under the lock and notifies the observer.
func (c *MemoryChip) record(ev Event, mutate func()) {
	c.mu.Lock()
	c.events = append(c.events, ev)

	if mutate != nil {
		mutate()
	}

	observer := c.observer
	c.mu.Unlock()

	if observer != nil {
		observer(ev)
	}
}

// writeError returns the injected write error for offset, if any.
func (c *MemoryChip) writeError(offset int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.failSet[offset]
}

// memoryLine is a Line claimed from a MemoryChip.
type memoryLine struct {
	// chip is the owning chip.
	chip *MemoryChip
	// offset is the line number.
	offset int
	// released is set by Release.
	released bool
}

// Offset returns the line number.
func (l *memoryLine) Offset() int {
	return l.offset
}

// SetActive records the new value.
func (l *memoryLine) SetActive(active bool) error {
	if err := l.writable(); err != nil {
		return err
	}

	l.chip.record(Event{Kind: EventSet, Offset: l.offset, Active: active}, func() {
		l.chip.active[l.offset] = active
	})

	return nil
}

// Tone records the tone and waits it out with the chip's sleep function.
func (l *memoryLine) Tone(ctx context.Context, frequency, dutyCycle float64, duration time.Duration) error {
	if err := l.writable(); err != nil {
		return err
	}

	if err := validateTone(frequency, dutyCycle); err != nil {
		return err
	}

	l.chip.record(Event{
		Kind:      EventTone,
		Offset:    l.offset,
		Frequency: frequency,
		DutyCycle: dutyCycle,
		Duration:  duration,
	}, func() {
		l.chip.active[l.offset] = false
	})

	return l.chip.sleep(ctx, duration)
}

// Release records the release and frees the claim. A second call fails.
func (l *memoryLine) Release() error {
	if l.released {
		return fmt.Errorf("%w: %s line %d", ErrLineReleased, l.chip.name, l.offset)
	}

	l.released = true

	l.chip.record(Event{Kind: EventRelease, Offset: l.offset}, func() {
		l.chip.active[l.offset] = false
		l.chip.releases[l.offset]++
	})
	l.chip.claims.drop(l.offset)

	return nil
}

// writable checks that the line can be driven.
func (l *memoryLine) writable() error {
	if l.released {
		return fmt.Errorf("%w: %s line %d", ErrLineReleased, l.chip.name, l.offset)
	}

	if err := l.chip.writeError(l.offset); err != nil {
		return fmt.Errorf("write %s line %d: %w", l.chip.name, l.offset, err)
	}

	return nil
}
