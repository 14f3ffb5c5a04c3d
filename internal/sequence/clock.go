package sequence

import (
	"sort"
	"sync"
	"time"
)

// Clock abstracts time for the scheduler so tests can drive scheduled sends
// deterministically instead of sleeping on wall-clock timers.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func())
}

// SystemClock is the production Clock backed by the time package.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }

// AfterFunc implements Clock.
func (SystemClock) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

// ManualClock is a Clock for tests. Callbacks registered via AfterFunc fire
// synchronously when Advance moves the clock past their deadline.
type ManualClock struct {
	mu      sync.Mutex
	now     time.Time
	pending []manualTimer
}

type manualTimer struct {
	at time.Time
	f  func()
}

// NewManualClock creates a manual clock starting at the given instant.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now implements Clock.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc implements Clock.
func (c *ManualClock) AfterFunc(d time.Duration, f func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = append(c.pending, manualTimer{at: c.now.Add(d), f: f})
}

// Advance moves the clock forward and runs every callback whose deadline has
// passed, in deadline order.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	now := c.now

	var due, rest []manualTimer
	for _, t := range c.pending {
		if !t.at.After(now) {
			due = append(due, t)
		} else {
			rest = append(rest, t)
		}
	}
	c.pending = rest
	sort.SliceStable(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

// PendingCount reports how many callbacks have not fired yet.
func (c *ManualClock) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}
