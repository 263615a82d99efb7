package engine

import (
	"math"

	"LocalInk/internal/state"
)

// pinch turns successive multi-finger samples into scale factors around
// the centroid of the contacts.
type pinch struct {
	active bool
	span   float64
}

// measure returns the centroid of pts and their average distance from it.
func measure(pts []state.Point) (focus state.Point, span float64) {
	if len(pts) == 0 {
		return state.Point{}, 0
	}
	for _, p := range pts {
		focus.X += p.X
		focus.Y += p.Y
	}
	n := float64(len(pts))
	focus.X /= n
	focus.Y /= n
	for _, p := range pts {
		span += state.Distance(p, focus)
	}
	return focus, span / n
}

// factor returns the scale change since the previous sample and records
// span for the next one. ok is false when either span is degenerate.
func (g *pinch) factor(span float64) (k float64, ok bool) {
	prev := g.span
	g.span = span
	if !(prev > 0) || !(span > 0) || math.IsInf(span, 0) {
		return 1, false
	}
	return span / prev, true
}

func (g *pinch) reset() { *g = pinch{} }

func contacts(ev Event) []state.Point {
	if len(ev.Pointers) > 0 {
		return ev.Pointers
	}
	return []state.Point{{X: ev.X, Y: ev.Y}}
}
