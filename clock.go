package tessera

import "time"

// ConfigureTimeout is the deadline after which an unresponsive client's
// configure is assumed lost and the transaction commits anyway.
const ConfigureTimeout = 200 * time.Millisecond

// Clock abstracts time so the 200ms configure deadline is deterministically
// testable, the same reason zjrosen-perles's fabric.Clock exists for its
// nudge debounce timer.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a cancelable, one-shot callback scheduled by a Clock.
type Timer interface {
	// Stop cancels the timer. Returns false if it already fired or was
	// already stopped.
	Stop() bool
}

// realClock implements Clock with the standard time package.
type realClock struct{}

// NewRealClock returns the Clock used in production: time.AfterFunc backed.
func NewRealClock() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return realTimer{timer: time.AfterFunc(d, f)}
}

type realTimer struct {
	timer *time.Timer
}

func (t realTimer) Stop() bool {
	return t.timer.Stop()
}
