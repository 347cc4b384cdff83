package capture

import (
	"errors"
	"image"

	"github.com/vova616/screenshot"

	"github.com/soocke/gaze-go/domain/geometry"
)

// ErrNoScreen is returned when no display bounds can be determined.
var ErrNoScreen = errors.New("no screen available")

// ScreenSource reports the bounds of the display the gaze cursor maps to.
type ScreenSource func() (image.Rectangle, error)

// PrimaryScreen returns the bounds of the primary display.
func PrimaryScreen() (image.Rectangle, error) {
	r, err := screenshot.ScreenRect()
	if err != nil {
		return image.Rectangle{}, err
	}
	if r.Empty() {
		return image.Rectangle{}, ErrNoScreen
	}
	return r, nil
}

// Viewport converts display bounds into an engine viewport.
func Viewport(r image.Rectangle) geometry.Size {
	return geometry.Size{Width: float64(r.Dx()), Height: float64(r.Dy())}
}

// ResolveViewport asks src for the display bounds and falls back to the
// given size when it fails.
func ResolveViewport(src ScreenSource, fallback geometry.Size) (geometry.Size, image.Rectangle) {
	if src != nil {
		if r, err := src(); err == nil && !r.Empty() {
			return Viewport(r), r
		}
	}
	r := image.Rect(0, 0, int(fallback.Width), int(fallback.Height))
	return fallback, r
}
