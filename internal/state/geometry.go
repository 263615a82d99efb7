package state

import "math"

// Point is a position in either screen or model space; the owner decides
// which.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Round2 rounds v to two decimal digits.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Distance returns the euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Rect is an axis-aligned rectangle. Right and Bottom are exclusive only in
// the sense that Intersects treats touching edges as disjoint.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// RectAround returns the square footprint of a sample of the given girth.
func RectAround(x, y, girth float64) Rect {
	return Rect{Left: x - girth, Top: y - girth, Right: x + girth, Bottom: y + girth}
}

// RectSpanning returns the smallest rectangle containing a and b.
func RectSpanning(a, b Point) Rect {
	return Rect{
		Left:   math.Min(a.X, b.X),
		Top:    math.Min(a.Y, b.Y),
		Right:  math.Max(a.X, b.X),
		Bottom: math.Max(a.Y, b.Y),
	}
}

func (r Rect) Width() float64  { return r.Right - r.Left }
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// Grow extends r so it covers the footprint of (x, y) at the given girth.
// The rectangle never shrinks.
func (r *Rect) Grow(x, y, girth float64) {
	r.Left = math.Min(r.Left, x-girth)
	r.Top = math.Min(r.Top, y-girth)
	r.Right = math.Max(r.Right, x+girth)
	r.Bottom = math.Max(r.Bottom, y+girth)
}

// Expand returns r pushed outwards by d on every side.
func (r Rect) Expand(d float64) Rect {
	return Rect{Left: r.Left - d, Top: r.Top - d, Right: r.Right + d, Bottom: r.Bottom + d}
}

// Intersects reports whether the interiors of r and o overlap.
func (r Rect) Intersects(o Rect) bool {
	return r.Left < o.Right && o.Left < r.Right &&
		r.Top < o.Bottom && o.Top < r.Bottom
}

// Contains reports whether the rectangle o lies inside r, edges included.
func (r Rect) Contains(o Rect) bool {
	return o.Left >= r.Left && o.Right <= r.Right &&
		o.Top >= r.Top && o.Bottom <= r.Bottom
}
