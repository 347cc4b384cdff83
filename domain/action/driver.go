package action

import (
	"image"
	"log/slog"
	"math"
	"sync"

	"github.com/soocke/gaze-go/domain/gaze"
	"github.com/soocke/gaze-go/domain/geometry"
)

// Callbacks are the OS side effects used by CursorDriver. Tests inject
// recorders; production uses MoveCursor, ClickLeft and ClickRight.
type Callbacks struct {
	MoveCursor     func(x, y int)
	Click          func()
	SecondaryClick func()
}

// DefaultCallbacks returns the platform implementation.
func DefaultCallbacks() Callbacks {
	return Callbacks{MoveCursor: MoveCursor, Click: ClickLeft, SecondaryClick: ClickRight}
}

// CursorDriver mirrors the engine cursor onto the OS pointer by mapping
// viewport coordinates into a screen rectangle.
type CursorDriver struct {
	logger *slog.Logger
	cb     Callbacks

	mu     sync.Mutex
	screen image.Rectangle
	last   image.Point
	moved  bool
}

// NewCursorDriver returns a driver targeting screen.
func NewCursorDriver(screen image.Rectangle, cb Callbacks, logger *slog.Logger) *CursorDriver {
	return &CursorDriver{logger: logger, cb: cb, screen: screen}
}

// SetScreen changes the target rectangle.
func (d *CursorDriver) SetScreen(r image.Rectangle) {
	d.mu.Lock()
	d.screen = r
	d.moved = false
	d.mu.Unlock()
}

// ScreenPoint maps p within viewport vp onto the screen rectangle. ok is
// false when either extent is empty.
func (d *CursorDriver) ScreenPoint(p geometry.Point, vp geometry.Size) (image.Point, bool) {
	d.mu.Lock()
	screen := d.screen
	d.mu.Unlock()
	return mapPoint(p, vp, screen)
}

func mapPoint(p geometry.Point, vp geometry.Size, screen image.Rectangle) (image.Point, bool) {
	if vp.Empty() || screen.Empty() {
		return image.Point{}, false
	}
	x := float64(screen.Min.X) + p.X/vp.Width*float64(screen.Dx())
	y := float64(screen.Min.Y) + p.Y/vp.Height*float64(screen.Dy())
	pt := image.Pt(int(math.Round(x)), int(math.Round(y)))
	// Keep the pointer on the screen.
	pt.X = min(max(pt.X, screen.Min.X), screen.Max.X-1)
	pt.Y = min(max(pt.Y, screen.Min.Y), screen.Max.Y-1)
	return pt, true
}

// HandleEvent is an engine subscriber moving the pointer on cursor events.
func (d *CursorDriver) HandleEvent(ev gaze.Event) {
	if ev.Kind != gaze.EventCursor || !ev.State.Tracking {
		return
	}
	d.mu.Lock()
	pt, ok := mapPoint(ev.State.Cursor.Center(), ev.State.Viewport, d.screen)
	if !ok || (d.moved && pt == d.last) {
		d.mu.Unlock()
		return
	}
	d.last, d.moved = pt, true
	d.mu.Unlock()
	if d.cb.MoveCursor != nil {
		d.cb.MoveCursor(pt.X, pt.Y)
	}
}

// Click performs a primary click at the current pointer position.
func (d *CursorDriver) Click() { d.click(d.cb.Click, "primary") }

// SecondaryClick performs a secondary click, used for long presses.
func (d *CursorDriver) SecondaryClick() { d.click(d.cb.SecondaryClick, "secondary") }

func (d *CursorDriver) click(fn func(), button string) {
	if fn == nil {
		return
	}
	fn()
	if d.logger != nil {
		d.mu.Lock()
		pt := d.last
		d.mu.Unlock()
		d.logger.Info("click executed", "button", button, "x", pt.X, "y", pt.Y)
	}
}
