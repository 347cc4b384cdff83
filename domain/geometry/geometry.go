// Package geometry holds the value types shared by the gaze engine and its
// adapters: points, sizes, axis-aligned rectangles and head poses.
package geometry

// Point is a 2D position. Coordinates are viewport units unless noted.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Size is a width/height pair.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Empty reports whether either dimension is non-positive.
func (s Size) Empty() bool { return s.Width <= 0 || s.Height <= 0 }

// Center returns the midpoint of a box of this size anchored at the origin.
func (s Size) Center() Point { return Point{X: s.Width / 2, Y: s.Height / 2} }

// Rect is an axis-aligned rectangle anchored at its minimum corner.
// The zero value is an empty rectangle that contains no point.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RectAround returns a square of the given side centred on c.
func RectAround(c Point, side float64) Rect {
	return Rect{X: c.X - side/2, Y: c.Y - side/2, Width: side, Height: side}
}

// Origin returns the minimum corner.
func (r Rect) Origin() Point { return Point{X: r.X, Y: r.Y} }

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.Width }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// Center returns the midpoint.
func (r Rect) Center() Point { return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2} }

// Empty reports whether the rectangle has no area. Listeners whose box has
// not been laid out yet carry an empty rectangle.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Contains reports whether p lies inside r. The minimum edges are
// inclusive and the maximum edges exclusive; an empty rectangle contains
// nothing.
func (r Rect) Contains(p Point) bool {
	if r.Empty() {
		return false
	}
	return p.X >= r.X && p.X < r.MaxX() && p.Y >= r.Y && p.Y < r.MaxY()
}

// Pose is a head rotation sample together with the detected face box.
type Pose struct {
	Roll  float64 `json:"roll"`  // face tilt
	Pitch float64 `json:"pitch"` // vertical rotation
	Yaw   float64 `json:"yaw"`   // horizontal rotation
	Box   Rect    `json:"box"`
}
