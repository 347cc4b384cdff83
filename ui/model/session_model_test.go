package model

import (
	"testing"
	"time"
)

func TestSessionModel_TrackingLifecycle(t *testing.T) {
	m := NewSessionModel()
	base := time.Unix(0, 0)

	m.OnTick(true, base)
	m.OnTick(true, base.Add(5*time.Second))
	if s, total := m.Values(); s != 5*time.Second || total != 5*time.Second {
		t.Fatalf("running session: got session=%v total=%v", s, total)
	}

	// Tracking ends at 6s; the last session length is kept.
	m.OnTick(false, base.Add(6*time.Second))
	m.OnTick(false, base.Add(9*time.Second))
	if s, total := m.Values(); s != 6*time.Second || total != 6*time.Second {
		t.Fatalf("after stop: got session=%v total=%v", s, total)
	}

	// Second session restarts the session clock and adds to the total.
	m.OnTick(true, base.Add(10*time.Second))
	if s, total := m.Values(); s != 0 || total != 6*time.Second {
		t.Fatalf("new session: got session=%v total=%v", s, total)
	}
	m.OnTick(true, base.Add(13*time.Second))
	m.OnTick(false, base.Add(13*time.Second))
	if s, total := m.Values(); s != 3*time.Second || total != 9*time.Second {
		t.Fatalf("final: got session=%v total=%v", s, total)
	}
	if m.Sessions() != 2 {
		t.Fatalf("expected 2 sessions, got %d", m.Sessions())
	}
}

func TestSessionModel_NilSafe(t *testing.T) {
	var m *SessionModel
	m.OnTick(true, time.Unix(0, 0))
	if s, total := m.Values(); s != 0 || total != 0 || m.Sessions() != 0 {
		t.Fatalf("nil model must report zeros")
	}
}
