package model

import (
	"time"
)

// SessionModel tracks how long the current tracking session has run and
// the time spent tracking since the window opened. Presenters poll Values.
// The zero value is ready to use.
type SessionModel struct {
	tracking    bool
	start       time.Time
	current     time.Duration
	accumulated time.Duration
	sessions    int
}

// NewSessionModel returns a pointer to a ready-to-use SessionModel.
func NewSessionModel() *SessionModel { return &SessionModel{} }

// OnTick folds the engine's tracking flag observed at now into the model.
func (m *SessionModel) OnTick(tracking bool, now time.Time) {
	if m == nil {
		return
	}
	switch {
	case tracking && !m.tracking:
		m.tracking = true
		m.start = now
		m.current = 0
		m.sessions++
	case tracking:
		m.current = now.Sub(m.start)
	case m.tracking:
		m.current = now.Sub(m.start)
		m.accumulated += m.current
		m.tracking = false
	}
}

// Values returns the current (or last) session length and the total time
// tracked, including a running session.
func (m *SessionModel) Values() (session, total time.Duration) {
	if m == nil {
		return 0, 0
	}
	session = m.current
	total = m.accumulated
	if m.tracking {
		total += session
	}
	return
}

// Sessions returns how many tracking sessions were started.
func (m *SessionModel) Sessions() int {
	if m == nil {
		return 0
	}
	return m.sessions
}
