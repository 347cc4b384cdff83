package model

import (
	"testing"

	"github.com/soocke/gaze-go/domain/geometry"
)

func TestLayoutTargets_Grid(t *testing.T) {
	targets := LayoutTargets(geometry.Size{Width: 900, Height: 400}, 2, 3, 0.5)
	if len(targets) != 6 {
		t.Fatalf("expected 6 targets, got %d", len(targets))
	}
	// cells are 300x200, side = 200*0.5
	first := targets[0]
	if first.Name != "A1" || first.Box != (geometry.Rect{X: 100, Y: 50, Width: 100, Height: 100}) {
		t.Fatalf("unexpected first target %+v", first)
	}
	last := targets[5]
	if last.Name != "B3" || last.Box.Center() != (geometry.Point{X: 750, Y: 300}) {
		t.Fatalf("unexpected last target %+v", last)
	}
	for _, tg := range targets {
		if tg.Box.X < 0 || tg.Box.MaxX() > 900 || tg.Box.Y < 0 || tg.Box.MaxY() > 400 {
			t.Fatalf("target %s outside viewport: %+v", tg.Name, tg.Box)
		}
	}
}

func TestLayoutTargets_Degenerate(t *testing.T) {
	if got := LayoutTargets(geometry.Size{}, 2, 2, 1); got != nil {
		t.Fatalf("empty viewport must produce no targets")
	}
	if got := LayoutTargets(geometry.Size{Width: 10, Height: 10}, 0, 2, 1); got != nil {
		t.Fatalf("zero rows must produce no targets")
	}
	got := LayoutTargets(geometry.Size{Width: 100, Height: 100}, 1, 1, 7)
	if len(got) != 1 || got[0].Box.Width != 100 {
		t.Fatalf("fill must clamp to 1: %+v", got)
	}
}

func TestTargetsModel_Updates(t *testing.T) {
	m := NewTargetsModel(LayoutTargets(geometry.Size{Width: 200, Height: 100}, 1, 2, 1))
	_, v0 := m.Snapshot()

	m.SetHovering(1, true)
	m.Click(1)
	m.Click(1)
	m.LongPress(0)
	m.Click(9) // out of range, ignored

	status, v := m.Snapshot()
	if v != v0+4 {
		t.Fatalf("expected 4 version bumps, got %d", v-v0)
	}
	if !status[1].Hovering || status[1].Clicks != 2 || status[0].LongPresses != 1 || status[0].Hovering {
		t.Fatalf("unexpected status %+v", status)
	}
}
