package gaze

import (
	"github.com/soocke/gaze-go/domain/geometry"
)

// CursorMapper converts head rotation relative to a tracking origin into a
// cursor offset from the viewport centre. Not safe for concurrent use.
type CursorMapper struct {
	multiplier geometry.Point
	padding    float64
	size       float64
	viewport   geometry.Size

	origin    geometry.Pose
	hasOrigin bool
	offset    geometry.Point
}

// NewCursorMapper returns a mapper with no origin. size is the side of the
// cursor bounding box.
func NewCursorMapper(multiplier geometry.Point, padding, size float64) *CursorMapper {
	return &CursorMapper{multiplier: multiplier, padding: padding, size: size}
}

// SetViewport updates the extent the cursor is confined to.
func (m *CursorMapper) SetViewport(s geometry.Size) { m.viewport = s }

// Viewport returns the current extent.
func (m *CursorMapper) Viewport() geometry.Size { return m.viewport }

// Apply feeds one pose sample and reports whether the offset moved. The
// first sample after Reset becomes the origin. A movement is applied only
// when the prospective position stays within the padded viewport on both
// axes; otherwise the whole sample is dropped.
func (m *CursorMapper) Apply(p geometry.Pose) bool {
	if !m.hasOrigin {
		m.origin = p
		m.hasOrigin = true
		return false
	}
	delta := geometry.Point{
		X: (p.Yaw - m.origin.Yaw) * m.multiplier.X,
		Y: (p.Pitch - m.origin.Pitch) * m.multiplier.Y,
	}
	if delta.X == 0 && delta.Y == 0 {
		return false
	}
	next := m.offset.Add(delta)
	if !m.inBounds(next) {
		return false
	}
	m.offset = next
	return true
}

func (m *CursorMapper) inBounds(offset geometry.Point) bool {
	pos := m.viewport.Center().Add(offset)
	withinX := pos.X >= m.padding && pos.X <= m.viewport.Width-m.padding
	withinY := pos.Y >= m.padding && pos.Y <= m.viewport.Height-m.padding
	return withinX && withinY
}

// Reset clears the origin and the offset. It reports whether the offset
// was non-zero.
func (m *CursorMapper) Reset() bool {
	moved := m.offset != (geometry.Point{})
	m.hasOrigin = false
	m.origin = geometry.Pose{}
	m.offset = geometry.Point{}
	return moved
}

// Offset returns the offset from the viewport centre.
func (m *CursorMapper) Offset() geometry.Point { return m.offset }

// Position returns the cursor position in viewport coordinates.
func (m *CursorMapper) Position() geometry.Point { return m.viewport.Center().Add(m.offset) }

// BoundingBox returns the cursor box used for hit-testing.
func (m *CursorMapper) BoundingBox() geometry.Rect {
	return geometry.RectAround(m.Position(), m.size)
}

// Origin returns the tracking origin, if one is established.
func (m *CursorMapper) Origin() (geometry.Pose, bool) { return m.origin, m.hasOrigin }
