package model

import (
	"fmt"
	"sync"

	"github.com/soocke/gaze-go/domain/geometry"
)

// Target is one demo element laid out over the engine viewport.
type Target struct {
	Name string
	Box  geometry.Rect
}

// TargetStatus is what the user has done to a target so far.
type TargetStatus struct {
	Hovering    bool
	Clicks      int
	LongPresses int
}

// LayoutTargets splits the viewport into rows x cols cells and centres a
// square target in each one. fill is the share of the smaller cell side the
// target covers, clamped to (0, 1].
func LayoutTargets(viewport geometry.Size, rows, cols int, fill float64) []Target {
	if viewport.Empty() || rows < 1 || cols < 1 {
		return nil
	}
	if fill <= 0 || fill > 1 {
		fill = 1
	}
	cellW := viewport.Width / float64(cols)
	cellH := viewport.Height / float64(rows)
	side := min(cellW, cellH) * fill

	targets := make([]Target, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			center := geometry.Point{X: cellW*float64(c) + cellW/2, Y: cellH*float64(r) + cellH/2}
			targets = append(targets, Target{
				Name: fmt.Sprintf("%c%d", 'A'+r, c+1),
				Box:  geometry.RectAround(center, side),
			})
		}
	}
	return targets
}

// TargetsModel holds the status of each target. Listener callbacks write
// from the engine's callback goroutine while the UI reads on its tick, so
// all access is locked. Version increases on every change.
type TargetsModel struct {
	mu      sync.Mutex
	targets []Target
	status  []TargetStatus
	version uint64
}

// NewTargetsModel returns a model for the given targets.
func NewTargetsModel(targets []Target) *TargetsModel {
	return &TargetsModel{targets: targets, status: make([]TargetStatus, len(targets))}
}

// Targets returns the laid out targets.
func (m *TargetsModel) Targets() []Target {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Target(nil), m.targets...)
}

func (m *TargetsModel) update(i int, fn func(*TargetStatus)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.status) {
		return
	}
	fn(&m.status[i])
	m.version++
}

// SetHovering records whether the cursor is over target i.
func (m *TargetsModel) SetHovering(i int, hovering bool) {
	m.update(i, func(s *TargetStatus) { s.Hovering = hovering })
}

// Click counts a blink-group activation of target i.
func (m *TargetsModel) Click(i int) {
	m.update(i, func(s *TargetStatus) { s.Clicks++ })
}

// LongPress counts a long-blink activation of target i.
func (m *TargetsModel) LongPress(i int) {
	m.update(i, func(s *TargetStatus) { s.LongPresses++ })
}

// Snapshot returns a copy of all statuses and the current version.
func (m *TargetsModel) Snapshot() ([]TargetStatus, uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]TargetStatus(nil), m.status...), m.version
}
