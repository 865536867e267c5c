// Package clockx provides the time sources used for expiry decisions.
package clockx

import (
	"sync"
	"time"
)

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// Func adapts a plain function into a Clock. Handy for tests.
type Func func() time.Time

func (f Func) Now() time.Time { return f() }

// Monotonic never hands out a time earlier than one it already returned, so
// a wall-clock step backwards cannot resurrect an expired link.
type Monotonic struct {
	mu   sync.Mutex
	last time.Time
	src  func() time.Time
}

// NewMonotonic wraps src (time.Now when nil).
func NewMonotonic(src func() time.Time) *Monotonic {
	if src == nil {
		src = time.Now
	}
	return &Monotonic{src: src}
}

// Now returns max(src(), last returned value) in UTC.
func (m *Monotonic) Now() time.Time {
	t := m.src().UTC()

	m.mu.Lock()
	defer m.mu.Unlock()

	if t.Before(m.last) {
		return m.last
	}
	m.last = t
	return t
}

// Manual is a settable clock for tests.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

func NewManual(start time.Time) *Manual { return &Manual{now: start.UTC()} }

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward (or backward for negative d).
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t.UTC()
}
