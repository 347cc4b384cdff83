package presenter

import (
	"fmt"
	"sync"
	"time"

	"github.com/soocke/gaze-go/domain/gaze"
)

// StatusView renders engine state.
type StatusView interface {
	SetStatus(gaze.State)
	SetLastEvent(string)
	SetConfigEditable(bool)
}

// StatePresenter receives engine events from the callback goroutine and
// reflects them on the Tk thread during Tick.
type StatePresenter struct {
	view StatusView

	mu      sync.Mutex
	pending []gaze.Event

	latest   gaze.State
	shown    bool
	editable bool
}

func NewStatePresenter(view StatusView) *StatePresenter {
	return &StatePresenter{view: view}
}

// OnEvent queues an engine event. It is an engine subscriber.
func (p *StatePresenter) OnEvent(ev gaze.Event) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.pending = append(p.pending, ev)
	p.mu.Unlock()
}

// Tick drains queued events. Only the state of the last event is rendered;
// every notable event updates the last-event line in order.
func (p *StatePresenter) Tick(now time.Time) {
	if p == nil || p.view == nil {
		return
	}
	p.mu.Lock()
	events := p.pending
	p.pending = nil
	p.mu.Unlock()
	if len(events) == 0 {
		return
	}
	for _, ev := range events {
		if text, ok := Describe(ev); ok {
			p.view.SetLastEvent(text)
		}
	}
	last := events[len(events)-1].State
	if p.shown && last == p.latest {
		return
	}
	p.latest, p.shown = last, true
	p.view.SetStatus(last)

	editable := !last.Tracking && !last.Calibrating
	if editable != p.editable {
		p.editable = editable
		p.view.SetConfigEditable(editable)
	}
}

// Describe returns a one-line summary of events worth surfacing to the user.
func Describe(ev gaze.Event) (string, bool) {
	switch ev.Kind {
	case gaze.EventBlinkGroup:
		return fmt.Sprintf("Blinked %d× (%d fired)", ev.Count, ev.Fired), true
	case gaze.EventLongBlink:
		if ev.Final {
			return fmt.Sprintf("Long blink released after %ds", ev.Duration), true
		}
		return fmt.Sprintf("Eyes closed %ds (%d fired)", ev.Duration, ev.Fired), true
	case gaze.EventCalibrationStarted:
		return "Calibrating: keep your eyes open", true
	case gaze.EventCalibrationProgress:
		return fmt.Sprintf("Calibrating %d/%d", ev.Samples, ev.Total), true
	case gaze.EventCalibrationComplete:
		return fmt.Sprintf("Calibrated, threshold %.4f", ev.State.Threshold), true
	case gaze.EventCalibrationReset:
		return "Calibration reset", true
	case gaze.EventCalibrationPrompt:
		return "Calibrate before tracking", true
	case gaze.EventTracking:
		if ev.State.Tracking {
			return "Tracking started", true
		}
		return "Tracking stopped", true
	}
	return "", false
}
