package presenter

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/soocke/gaze-go/domain/gaze"
	"github.com/soocke/gaze-go/domain/geometry"
	"github.com/soocke/gaze-go/domain/interaction"
	"github.com/soocke/gaze-go/ui/model"
)

// registryAdapter exposes a real registry through the Registrar contract.
type registryAdapter struct{ *interaction.Registry }

func (r registryAdapter) Register(l interaction.Listener) error { return r.Add(l) }

type failingRegistrar struct {
	registryAdapter
	failAfter int
}

func (f *failingRegistrar) Register(l interaction.Listener) error {
	if f.Len() >= f.failAfter {
		return errors.New("full")
	}
	return f.Add(l)
}

type mockStatusView struct {
	statuses []gaze.State
	events   []string
	editable []bool
}

func (v *mockStatusView) SetStatus(s gaze.State) { v.statuses = append(v.statuses, s) }
func (v *mockStatusView) SetLastEvent(s string) { v.events = append(v.events, s) }
func (v *mockStatusView) SetConfigEditable(b bool) { v.editable = append(v.editable, b) }

type mockTargetView struct{ calls map[int]model.TargetStatus }

func (v *mockTargetView) SetTargetStatus(i int, s model.TargetStatus) {
	if v.calls == nil {
		v.calls = map[int]model.TargetStatus{}
	}
	v.calls[i] = s
}

type mockSessionView struct{ session, total time.Duration }

func (v *mockSessionView) SetSession(s, t time.Duration) { v.session, v.total = s, t }

type mockEngine struct {
	state     gaze.State
	toggles   int
	dismisses int
}

func (e *mockEngine) ToggleTracking() { e.toggles++ }
func (e *mockEngine) DismissCalibration() { e.dismisses++ }
func (e *mockEngine) Snapshot() gaze.State { return e.state }

func TestStatePresenter_RendersLastStateOnly(t *testing.T) {
	view := &mockStatusView{}
	p := NewStatePresenter(view)

	p.Tick(time.Now()) // nothing queued
	if len(view.statuses) != 0 {
		t.Fatalf("no events must not render")
	}

	p.OnEvent(gaze.Event{Kind: gaze.EventCursor, State: gaze.State{Quality: gaze.FaceDetected}})
	p.OnEvent(gaze.Event{Kind: gaze.EventBlinkGroup, Count: 2, Fired: 1, State: gaze.State{Quality: gaze.FaceDetected, Tracking: true}})
	p.Tick(time.Now())

	if len(view.statuses) != 1 || !view.statuses[0].Tracking {
		t.Fatalf("expected last state rendered once, got %+v", view.statuses)
	}
	if len(view.events) != 1 || !strings.Contains(view.events[0], "2×") {
		t.Fatalf("unexpected event lines %v", view.events)
	}
	if len(view.editable) != 0 {
		t.Fatalf("config must stay locked while tracking, got %v", view.editable)
	}

	// Same state again: no re-render.
	p.OnEvent(gaze.Event{Kind: gaze.EventCursor, State: gaze.State{Quality: gaze.FaceDetected, Tracking: true}})
	p.Tick(time.Now())
	if len(view.statuses) != 1 {
		t.Fatalf("unchanged state re-rendered")
	}

	p.OnEvent(gaze.Event{Kind: gaze.EventTracking, State: gaze.State{Quality: gaze.FaceDetected}})
	p.Tick(time.Now())
	if len(view.editable) != 1 || !view.editable[0] {
		t.Fatalf("config must unlock when tracking stops, got %v", view.editable)
	}
	if view.events[len(view.events)-1] != "Tracking stopped" {
		t.Fatalf("unexpected last event %q", view.events[len(view.events)-1])
	}
}

func TestDescribe(t *testing.T) {
	cases := []struct {
		ev   gaze.Event
		want string
		ok   bool
	}{
		{gaze.Event{Kind: gaze.EventLongBlink, Duration: 3, Fired: 1}, "Eyes closed 3s (1 fired)", true},
		{gaze.Event{Kind: gaze.EventLongBlink, Duration: 4, Final: true}, "Long blink released after 4s", true},
		{gaze.Event{Kind: gaze.EventCalibrationProgress, Samples: 5, Total: 20}, "Calibrating 5/20", true},
		{gaze.Event{Kind: gaze.EventCalibrationPrompt}, "Calibrate before tracking", true},
		{gaze.Event{Kind: gaze.EventCursor}, "", false},
	}
	for _, tc := range cases {
		got, ok := Describe(tc.ev)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("%s: got %q %v, want %q %v", tc.ev.Kind, got, ok, tc.want, tc.ok)
		}
	}
}

func TestSessionPresenter_FollowsTracking(t *testing.T) {
	eng := &mockEngine{}
	view := &mockSessionView{}
	p := NewSessionPresenter(model.NewSessionModel(), eng, view)
	base := time.Unix(0, 0)

	eng.state.Tracking = true
	p.Tick(base)
	p.Tick(base.Add(4 * time.Second))
	if view.session != 4*time.Second || view.total != 4*time.Second {
		t.Fatalf("got session=%v total=%v", view.session, view.total)
	}
	eng.state.Tracking = false
	p.Tick(base.Add(5 * time.Second))
	if view.total != 5*time.Second {
		t.Fatalf("total after stop %v", view.total)
	}
}

func testTargets() *model.TargetsModel {
	return model.NewTargetsModel(model.LayoutTargets(geometry.Size{Width: 200, Height: 100}, 1, 2, 1))
}

func TestTargetPresenter_AttachAndDispatch(t *testing.T) {
	reg := registryAdapter{interaction.NewRegistry(3, nil)}
	m := testTargets()
	view := &mockTargetView{}
	p := NewTargetPresenter(m, reg, view, TargetOptions{BlinkCount: 2, LongBlinkSeconds: 2}, nil)

	if err := p.Attach(); err != nil {
		t.Fatalf("attach: %v", err)
	}
	if reg.Len() != 6 {
		t.Fatalf("expected 3 listeners per target, got %d", reg.Len())
	}

	// Cursor box with its origin inside the second target (x 100..200).
	cursor := geometry.Rect{X: 150, Y: 50, Width: 10, Height: 10}
	if n := reg.DispatchBlink(2, cursor, true); n != 1 {
		t.Fatalf("expected one click, got %d", n)
	}
	if n := reg.DispatchLongBlink(2, cursor); n != 1 {
		t.Fatalf("expected one long press, got %d", n)
	}
	if entered := reg.UpdateHover(cursor); entered != 1 {
		t.Fatalf("expected one hover enter, got %d", entered)
	}

	p.Tick(time.Now())
	want := model.TargetStatus{Hovering: true, Clicks: 1, LongPresses: 1}
	if view.calls[1] != want || view.calls[0] != (model.TargetStatus{}) {
		t.Fatalf("unexpected view calls %+v", view.calls)
	}

	// Unchanged model: no redraw.
	view.calls = nil
	p.Tick(time.Now())
	if view.calls != nil {
		t.Fatalf("unchanged model redrawn")
	}

	p.Detach()
	if reg.Len() != 0 {
		t.Fatalf("detach left %d listeners", reg.Len())
	}
}

func TestTargetPresenter_AttachRollsBack(t *testing.T) {
	reg := &failingRegistrar{registryAdapter: registryAdapter{interaction.NewRegistry(3, nil)}, failAfter: 4}
	p := NewTargetPresenter(testTargets(), reg, &mockTargetView{}, TargetOptions{BlinkCount: 2, LongBlinkSeconds: 2}, nil)
	if err := p.Attach(); err == nil {
		t.Fatalf("expected attach error")
	}
	if reg.Len() != 0 {
		t.Fatalf("rollback left %d listeners", reg.Len())
	}
}

func TestTargetPresenter_ReservedCountRejected(t *testing.T) {
	reg := registryAdapter{interaction.NewRegistry(3, nil)}
	p := NewTargetPresenter(testTargets(), reg, &mockTargetView{}, TargetOptions{BlinkCount: 3, LongBlinkSeconds: 2}, nil)
	err := p.Attach()
	if !errors.Is(err, interaction.ErrReservedBlinkCount) {
		t.Fatalf("expected reserved count error, got %v", err)
	}
}

func TestQuickActions_ToggleAndDismiss(t *testing.T) {
	reg := registryAdapter{interaction.NewRegistry(3, nil)}
	eng := &mockEngine{}
	ids, err := RegisterQuickActions(reg, eng)
	if err != nil || len(ids) != 2 {
		t.Fatalf("register: %v %v", ids, err)
	}

	// Uncalibrated: nothing eligible.
	if reg.ResolveQuickAction(false) {
		t.Fatalf("no quick action should run before calibration")
	}

	eng.state = gaze.State{Calibrated: true, ShowCalibration: true}
	if !reg.ResolveQuickAction(false) || eng.dismisses != 1 || eng.toggles != 0 {
		t.Fatalf("expected dismiss, got dismisses=%d toggles=%d", eng.dismisses, eng.toggles)
	}

	eng.state = gaze.State{Calibrated: true}
	if !reg.ResolveQuickAction(false) || eng.toggles != 1 {
		t.Fatalf("expected toggle with tracking off, got %d", eng.toggles)
	}
	if !reg.ResolveQuickAction(true) || eng.toggles != 2 {
		t.Fatalf("expected toggle with tracking on, got %d", eng.toggles)
	}
}

func TestLoop_TicksAndReschedules(t *testing.T) {
	view := &mockStatusView{}
	state := NewStatePresenter(view)
	scheduled := 0
	l := NewLoop(nil, state, nil, func() { scheduled++ })
	l.now = func() time.Time { return time.Unix(10, 0) }

	state.OnEvent(gaze.Event{Kind: gaze.EventQuality, State: gaze.State{Quality: gaze.FaceDetected}})
	l.Tick()
	if scheduled != 1 || len(view.statuses) != 1 {
		t.Fatalf("scheduled=%d statuses=%d", scheduled, len(view.statuses))
	}

	var nilLoop *Loop
	nilLoop.Tick()
}
