// Package clock abstracts timer scheduling so the blink aggregator and the
// calibration procedure can run against wall time in production and a
// manually advanced clock in tests.
package clock

import "time"

// Timer is a cancellation handle for a scheduled callback.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the
	// call stopped the timer before it fired.
	Stop() bool
}

// Scheduler schedules one-shot callbacks.
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Real schedules on the runtime timer heap. Callbacks run on their own
// goroutine.
type Real struct{}

// Now returns the wall clock time.
func (Real) Now() time.Time { return time.Now() }

// AfterFunc wraps time.AfterFunc.
func (Real) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

var _ Scheduler = Real{}
