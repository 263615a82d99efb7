// Package eraser removes whole strokes that an eraser path passes over.
package eraser

import (
	"math"

	"LocalInk/internal/state"
)

const (
	// DefaultMargin widens the eraser motion box so dots and thin strokes
	// are not rejected by the bounding box test.
	DefaultMargin = 20

	// DefaultMinRadius is the smallest hit tolerance used for a segment.
	DefaultMinRadius = 5
)

// Eraser tracks the last two eraser positions and tests the segment between
// them against the strokes of a drawing.
type Eraser struct {
	Margin    float64
	MinRadius float64

	prev, cur state.Point
	n         int
}

func New() *Eraser {
	return &Eraser{Margin: DefaultMargin, MinRadius: DefaultMinRadius}
}

// Reset forgets the eraser window, so the next position starts a new path.
func (e *Eraser) Reset() { e.n = 0 }

// Empty reports whether no position has been recorded since the last Reset.
func (e *Eraser) Empty() bool { return e.n == 0 }

// window returns the current eraser segment once two positions are known.
func (e *Eraser) window() (prev, cur state.Point, ok bool) {
	return e.prev, e.cur, e.n == 2
}

func (e *Eraser) push(p state.Point) bool {
	switch e.n {
	case 0:
		e.prev = p
		e.n = 1
		return false
	case 1:
		e.cur = p
		e.n = 2
	default:
		e.prev, e.cur = e.cur, p
	}
	return true
}

// Result is the drawing content left after an erase.
type Result struct {
	Strokes []state.Stroke
	Bounds  []state.Rect
	Removed int
}

// EraseAt shifts p into the window and returns the strokes and bounding
// boxes that survive the eraser segment. bounds[i] must be the box of
// strokes[i]. The inputs are never modified; when nothing is hit ok is false
// and the result is empty.
func (e *Eraser) EraseAt(p state.Point, strokes []state.Stroke, bounds []state.Rect) (res Result, ok bool) {
	if !e.push(p) {
		return Result{}, false
	}

	box := state.RectSpanning(e.prev, e.cur).Expand(e.Margin)
	deleted := make([]bool, len(strokes))
	removed := 0
	for i := len(strokes) - 1; i >= 0; i-- {
		if !bounds[i].Intersects(box) {
			continue
		}
		if e.hits(strokes[i]) {
			deleted[i] = true
			removed++
		}
	}
	if removed == 0 {
		return Result{}, false
	}

	res = Result{
		Strokes: make([]state.Stroke, 0, len(strokes)-removed),
		Bounds:  make([]state.Rect, 0, len(strokes)-removed),
		Removed: removed,
	}
	for i := range strokes {
		if deleted[i] {
			continue
		}
		res.Strokes = append(res.Strokes, strokes[i])
		res.Bounds = append(res.Bounds, bounds[i])
	}
	return res, true
}

// hits tests the eraser segment against every segment of s. A single-sample
// stroke is treated as a zero-length segment.
func (e *Eraser) hits(s state.Stroke) bool {
	last := s.Len() - 2
	if last < 0 {
		last = 0
	}
	for i := 0; i <= last; i++ {
		j := min(i+1, s.Len()-1)
		a := roundPoint(s.Point(i))
		b := roundPoint(s.Point(j))

		r := math.Trunc(s.PointsGirth[i])
		if r < e.MinRadius {
			r = e.MinRadius
		}
		if nearPath(e.prev, e.cur, a, r) || nearPath(e.prev, e.cur, b, r) ||
			nearPath(a, b, e.prev, r) || nearPath(a, b, e.cur, r) {
			return true
		}
	}
	return false
}

// nearPath reports whether p lies inside the ellipse with foci f1 and f2
// whose string length exceeds their distance by at most tol: the detour
// f1 -> p -> f2 is within tol of the direct path.
func nearPath(f1, f2, p state.Point, tol float64) bool {
	direct := state.Distance(f1, f2)
	detour := state.Distance(f1, p) + state.Distance(p, f2)
	return direct >= detour-tol && direct <= detour+tol
}

func roundPoint(p state.Point) state.Point {
	return state.Point{X: math.Round(p.X), Y: math.Round(p.Y)}
}
