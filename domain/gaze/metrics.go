package gaze

import (
	"sync/atomic"
	"time"
)

// Stats summarises engine activity for instrumentation.
type Stats struct {
	Landmarks     uint64
	Poses         uint64
	DroppedPoses  uint64
	CursorMoves   uint64
	BlinkGroups   uint64
	LongBlinkTick uint64
	ActionsFired  uint64
	Calibrations  uint64
	LastSample    time.Time
}

type counters struct {
	landmarks    atomic.Uint64
	poses        atomic.Uint64
	droppedPoses atomic.Uint64
	cursorMoves  atomic.Uint64
	blinkGroups  atomic.Uint64
	ticks        atomic.Uint64
	actions      atomic.Uint64
	calibrations atomic.Uint64
	lastSample   atomic.Int64
}

func (c *counters) sampled(now time.Time) { c.lastSample.Store(now.UnixNano()) }

func (c *counters) snapshot() Stats {
	s := Stats{
		Landmarks:     c.landmarks.Load(),
		Poses:         c.poses.Load(),
		DroppedPoses:  c.droppedPoses.Load(),
		CursorMoves:   c.cursorMoves.Load(),
		BlinkGroups:   c.blinkGroups.Load(),
		LongBlinkTick: c.ticks.Load(),
		ActionsFired:  c.actions.Load(),
		Calibrations:  c.calibrations.Load(),
	}
	if ns := c.lastSample.Load(); ns != 0 {
		s.LastSample = time.Unix(0, ns)
	}
	return s
}
