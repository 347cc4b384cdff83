package presenter

import "time"

// Loop aggregates feature presenters and drives periodic updates.
//
// It ticks the sub-presenters and invokes a scheduler callback. The zero
// value is usable (methods are nil-safe).
type Loop struct {
	Session  *SessionPresenter
	State    *StatePresenter
	Targets  *TargetPresenter
	Schedule func()
	now      func() time.Time
}

func NewLoop(sess *SessionPresenter, state *StatePresenter, targets *TargetPresenter, schedule func()) *Loop {
	return &Loop{Session: sess, State: state, Targets: targets, Schedule: schedule, now: time.Now}
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	now := time.Now()
	if l.now != nil {
		now = l.now()
	}
	l.State.Tick(now)
	l.Session.Tick(now)
	l.Targets.Tick(now)
	if l.Schedule != nil {
		l.Schedule()
	}
}
