package app

import (
	"errors"
	"image"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/soocke/gaze-go/config"
	"github.com/soocke/gaze-go/domain/action"
	"github.com/soocke/gaze-go/domain/clock"
	"github.com/soocke/gaze-go/domain/geometry"
	"github.com/soocke/gaze-go/domain/interaction"
)

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

type pointerRecorder struct {
	mu        sync.Mutex
	moves     int
	clicks    int
	secondary int
}

func (r *pointerRecorder) callbacks() *action.Callbacks {
	return &action.Callbacks{
		MoveCursor:     func(int, int) { r.mu.Lock(); r.moves++; r.mu.Unlock() },
		Click:          func() { r.mu.Lock(); r.clicks++; r.mu.Unlock() },
		SecondaryClick: func() { r.mu.Lock(); r.secondary++; r.mu.Unlock() },
	}
}

func (r *pointerRecorder) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clicks, r.secondary
}

func screenOf(w, h int) func() (image.Rectangle, error) {
	return func() (image.Rectangle, error) { return image.Rect(0, 0, w, h), nil }
}

func TestBuildContainer_ViewportFromScreen(t *testing.T) {
	c, err := BuildContainer(config.DefaultConfig(), discardLogger(), Options{
		Screen:    screenOf(1920, 1080),
		Scheduler: clock.NewFake(time.Unix(0, 0)),
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer c.Close()
	c.Engine.Sync()

	if got := c.Engine.Snapshot().Viewport; got != (geometry.Size{Width: 1920, Height: 1080}) {
		t.Fatalf("viewport %v", got)
	}
	if c.Cursor != nil || c.Engine.Registry().Len() != 0 {
		t.Fatalf("os cursor must be off by default")
	}
	if c.Bridge == nil {
		t.Fatalf("bridge not built")
	}
}

func TestBuildContainer_FallbackViewport(t *testing.T) {
	c, err := BuildContainer(nil, discardLogger(), Options{
		Screen:    func() (image.Rectangle, error) { return image.Rectangle{}, errors.New("headless") },
		Scheduler: clock.NewFake(time.Unix(0, 0)),
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer c.Close()
	c.Engine.Sync()

	if got := c.Engine.Snapshot().Viewport; got != DefaultViewport {
		t.Fatalf("viewport %v, want %v", got, DefaultViewport)
	}
	if c.Screen != image.Rect(0, 0, 1280, 720) {
		t.Fatalf("screen %v", c.Screen)
	}
}

func TestBuildContainer_OSCursorRegistersClick(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.OSCursor = true
	rec := &pointerRecorder{}
	c, err := BuildContainer(cfg, discardLogger(), Options{
		Screen:    screenOf(800, 600),
		Scheduler: clock.NewFake(time.Unix(0, 0)),
		Actions:   rec.callbacks(),
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer c.Close()

	ls := c.Engine.Registry().Listeners()
	if len(ls) != 2 {
		t.Fatalf("expected click and long-press listeners, got %d", len(ls))
	}
	whole := geometry.Rect{Width: 800, Height: 600}
	b, ok := ls[0].(interaction.Blink)
	if !ok || b.Count != cfg.DefaultBlinkCount || b.Box != whole {
		t.Fatalf("unexpected listener %#v", ls[0])
	}
	lb, ok := ls[1].(interaction.LongBlink)
	if !ok || lb.Duration != cfg.DragDropBlinkDuration || lb.Box != whole {
		t.Fatalf("unexpected listener %#v", ls[1])
	}

	cursor := geometry.RectAround(geometry.Point{X: 400, Y: 300}, cfg.CursorSize)
	if n := c.Engine.Registry().DispatchBlink(cfg.DefaultBlinkCount, cursor, true); n != 1 {
		t.Fatalf("expected one action, got %d", n)
	}
	if n := c.Engine.Registry().DispatchLongBlink(cfg.DragDropBlinkDuration, cursor); n != 1 {
		t.Fatalf("expected one long press, got %d", n)
	}
	c.Engine.Sync()
	if clicks, secondary := rec.counts(); clicks != 1 || secondary != 1 {
		t.Fatalf("expected one click of each button, got %d/%d", clicks, secondary)
	}

	c.Close()
	if c.Engine.Registry().Len() != 0 {
		t.Fatalf("close must remove the pointer listeners")
	}
}
