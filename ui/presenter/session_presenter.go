package presenter

import (
	"time"

	"github.com/soocke/gaze-go/domain/gaze"
	"github.com/soocke/gaze-go/ui/model"
)

// StateSource provides the latest engine state.
type StateSource interface{ Snapshot() gaze.State }

// SessionView displays formatted session and total durations.
type SessionView interface {
	SetSession(session, total time.Duration)
}

// SessionPresenter feeds the engine's tracking flag into the session model
// and pushes the durations to the view.
type SessionPresenter struct {
	sess   *model.SessionModel
	source StateSource
	view   SessionView
}

// NewSessionPresenter returns a new SessionPresenter.
func NewSessionPresenter(sess *model.SessionModel, source StateSource, view SessionView) *SessionPresenter {
	return &SessionPresenter{sess: sess, source: source, view: view}
}

// Tick advances the session model and pushes values to the view.
func (p *SessionPresenter) Tick(now time.Time) {
	if p == nil || p.sess == nil || p.source == nil || p.view == nil {
		return
	}
	p.sess.OnTick(p.source.Snapshot().Tracking, now)
	s, t := p.sess.Values()
	p.view.SetSession(s, t)
}
