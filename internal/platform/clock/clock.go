// Package clock lets timed loops take their timers as a dependency so tests
// can run them without real waiting.
package clock

import (
	"sync"
	"time"
)

type Clock interface {
	Now() time.Time
	// After behaves like time.After; d <= 0 fires immediately.
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

// Real returns the wall clock.
func Real() Clock { return realClock{} }

func (realClock) Now() time.Time { return time.Now() }

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Manual is a Clock whose timers fire immediately, advancing its notion of
// now by the requested duration. Every requested wait is recorded.
type Manual struct {
	mu    sync.Mutex
	now   time.Time
	waits []time.Duration
}

func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) After(d time.Duration) <-chan time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.waits = append(m.waits, d)
	if d > 0 {
		m.now = m.now.Add(d)
	}

	ch := make(chan time.Time, 1)
	ch <- m.now
	return ch
}

// Waits returns the durations passed to After, in call order.
func (m *Manual) Waits() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]time.Duration, len(m.waits))
	copy(out, m.waits)
	return out
}
