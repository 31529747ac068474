// internal/input/monitor.go
// Package input turns a level-read push-to-talk button into edge events on
// a single-slot channel.
package input

import (
	"context"
	"time"
)

// DefaultPollInterval keeps press/release latency bounded regardless of
// what the orchestrator is doing.
const DefaultPollInterval = 10 * time.Millisecond

// EventKind is a button edge direction.
type EventKind int

const (
	// Pressed is the down edge.
	Pressed EventKind = iota
	// Released is the up edge.
	Released
)

func (k EventKind) String() string {
	if k == Pressed {
		return "pressed"
	}
	return "released"
}

// ButtonEvent is one observed edge. Immutable once emitted.
type ButtonEvent struct {
	Kind      EventKind
	Timestamp time.Time
}

// Source reads the current button level. Implementations wrap GPIO pins,
// keyboards or test fixtures.
type Source interface {
	Pressed() bool
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func() bool

func (f SourceFunc) Pressed() bool { return f() }

// Monitor polls a Source and publishes edge transitions. Events go to a
// single-slot channel: publishing never blocks on a slow consumer, and
// unconsumed events are coalesced to the latest edge rather than queued,
// since only edges matter, not event counts.
type Monitor struct {
	source   Source
	interval time.Duration
	events   chan ButtonEvent
	pressed  bool
}

// NewMonitor creates a monitor polling the source at the given interval.
// A non-positive interval falls back to DefaultPollInterval.
func NewMonitor(source Source, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Monitor{
		source:   source,
		interval: interval,
		events:   make(chan ButtonEvent, 1),
	}
}

// Events returns the edge channel.
func (m *Monitor) Events() <-chan ButtonEvent {
	return m.events
}

// Run polls until the context is cancelled. It only ever emits
// alternating edges; holding the button produces no repeats.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.poll()
		}
	}
}

func (m *Monitor) poll() {
	pressed := m.source.Pressed()
	if pressed == m.pressed {
		return
	}
	m.pressed = pressed

	kind := Released
	if pressed {
		kind = Pressed
	}
	m.publish(ButtonEvent{Kind: kind, Timestamp: time.Now()})
}

// publish places an event in the slot, displacing a stale unconsumed one.
func (m *Monitor) publish(ev ButtonEvent) {
	for {
		select {
		case m.events <- ev:
			return
		default:
		}
		select {
		case <-m.events:
		default:
		}
	}
}
