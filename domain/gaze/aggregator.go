package gaze

import (
	"log/slog"
	"time"

	"github.com/soocke/gaze-go/domain/clock"
)

// AggregatorHooks receive the grouped blink events.
type AggregatorHooks struct {
	// LongBlink is called with the whole seconds the eyes have been closed:
	// once per tick while closed (final false) and once on eye open for the
	// completed duration (final true).
	LongBlink func(seconds int, final bool)
	// BlinkGroup is called when the group gap elapses without another blink.
	BlinkGroup func(count int)
}

// BlinkAggregator groups blink transitions into blink-count and long-blink
// events. Not safe for concurrent use: BlinkStarted, BlinkEnded, Reset and
// the scheduler callbacks must be serialized by the caller.
type BlinkAggregator struct {
	logger *slog.Logger
	sched  clock.Scheduler
	hooks  AggregatorHooks
	gap    time.Duration
	tick   time.Duration

	state         AggregatorState
	count         int
	duration      int
	closedAt      time.Time
	groupTimer    clock.Timer
	durationTimer clock.Timer
}

// NewBlinkAggregator builds an idle aggregator.
func NewBlinkAggregator(sched clock.Scheduler, gap, tick time.Duration, hooks AggregatorHooks, logger *slog.Logger) *BlinkAggregator {
	return &BlinkAggregator{logger: logger, sched: sched, hooks: hooks, gap: gap, tick: tick}
}

// State returns the current grouping state.
func (a *BlinkAggregator) State() AggregatorState { return a.state }

// Count returns the number of completed blinks in the open group beyond the first.
func (a *BlinkAggregator) Count() int { return a.count }

// Duration returns the whole seconds of the ongoing blink.
func (a *BlinkAggregator) Duration() int { return a.duration }

// ClosedSince returns when the current blink started. Zero unless closed.
func (a *BlinkAggregator) ClosedSince() time.Time {
	if a.state != AggregatorClosed {
		return time.Time{}
	}
	return a.closedAt
}

// BlinkStarted handles an open→closed transition.
func (a *BlinkAggregator) BlinkStarted() {
	switch a.state {
	case AggregatorClosed:
		return
	case AggregatorWaiting:
		a.stopGroupTimer()
		a.count++
	}
	a.closedAt = a.sched.Now()
	a.duration = 0
	a.transition(AggregatorClosed)
	a.armDurationTick()
}

// BlinkEnded handles a closed→open transition.
func (a *BlinkAggregator) BlinkEnded() {
	if a.state != AggregatorClosed {
		return
	}
	a.stopDurationTimer()
	seconds := a.duration
	a.duration = 0
	a.transition(AggregatorWaiting)
	// Armed before the hook so a Reset from inside it cancels the timer.
	a.groupTimer = a.sched.AfterFunc(a.gap, a.groupExpired)
	if a.hooks.LongBlink != nil {
		a.hooks.LongBlink(seconds, true)
	}
}

// Reset cancels both timers and drops the open group without emitting.
func (a *BlinkAggregator) Reset() {
	a.stopDurationTimer()
	a.stopGroupTimer()
	a.count = 0
	a.duration = 0
	a.transition(AggregatorIdle)
}

func (a *BlinkAggregator) armDurationTick() {
	a.durationTimer = a.sched.AfterFunc(a.tick, a.durationTicked)
}

func (a *BlinkAggregator) durationTicked() {
	if a.state != AggregatorClosed {
		return
	}
	a.duration++
	a.armDurationTick()
	if a.hooks.LongBlink != nil {
		a.hooks.LongBlink(a.duration, false)
	}
}

func (a *BlinkAggregator) groupExpired() {
	if a.state != AggregatorWaiting {
		return
	}
	a.groupTimer = nil
	count := a.count + 1
	a.count = 0
	a.transition(AggregatorIdle)
	if a.hooks.BlinkGroup != nil {
		a.hooks.BlinkGroup(count)
	}
}

func (a *BlinkAggregator) stopGroupTimer() {
	if a.groupTimer != nil {
		a.groupTimer.Stop()
		a.groupTimer = nil
	}
}

func (a *BlinkAggregator) stopDurationTimer() {
	if a.durationTimer != nil {
		a.durationTimer.Stop()
		a.durationTimer = nil
	}
}

func (a *BlinkAggregator) transition(next AggregatorState) {
	prev := a.state
	if prev == next {
		return
	}
	a.state = next
	if a.logger != nil {
		a.logger.Debug("blink aggregator transition", "from", prev.String(), "to", next.String(), "count", a.count)
	}
}
