package harness

import (
	"sort"
	"time"

	"github.com/quietfjord/tessera"
)

// Clock is a fake tessera.Clock that never advances on its own: tests
// call Advance to fire any timer whose deadline has passed, the same
// pattern zjrosen-perles's fabric tests use for its debounce timer.
type Clock struct {
	now    time.Time
	timers []*fakeTimer
}

// NewClock returns a Clock starting at an arbitrary fixed instant.
func NewClock() *Clock {
	return &Clock{now: time.Unix(0, 0)}
}

func (c *Clock) Now() time.Time {
	return c.now
}

func (c *Clock) AfterFunc(d time.Duration, f func()) tessera.Timer {
	t := &fakeTimer{deadline: c.now.Add(d), fn: f, clock: c}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward by d, firing (in deadline order) every
// timer whose deadline is now due and hasn't been stopped.
func (c *Clock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !c.now.Before(t.deadline) {
			due = append(due, t)
		}
	}
	sort.SliceStable(due, func(i, j int) bool { return due[i].deadline.Before(due[j].deadline) })
	for _, t := range due {
		if t.stopped || t.fired {
			continue
		}
		t.fired = true
		t.fn()
	}
}

type fakeTimer struct {
	deadline time.Time
	fn       func()
	clock    *Clock
	stopped  bool
	fired    bool
}

func (t *fakeTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}
