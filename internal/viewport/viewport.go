// Package viewport maps between surface pixels and document coordinates and
// implements anchor-preserving zoom.
package viewport

import (
	"math"

	"LocalInk/internal/state"
)

// DefaultMinScale keeps the document scale strictly positive.
const DefaultMinScale = 0.1

// Transformer holds the viewport of a fixed-size document canvas shown on a
// surface of a given pixel size. It is not safe for concurrent use; the
// engine serialises access.
type Transformer struct {
	canvasW, canvasH   float64
	surfaceW, surfaceH float64
	minScale           float64

	scale  float64
	tx, ty float64
	view   state.Rect

	// scale gesture
	scaling     bool
	screenFocus state.Point
	modelFocus  state.Point
	driftX      float64
	driftY      float64
}

// New returns a transformer for a canvas of the given size at unit scale.
func New(canvasW, canvasH float64) *Transformer {
	t := &Transformer{
		canvasW:  canvasW,
		canvasH:  canvasH,
		minScale: DefaultMinScale,
		scale:    1,
	}
	t.recompute()
	return t
}

// SetMinScale sets the lower bound for the scale. Non-positive values are
// ignored.
func (t *Transformer) SetMinScale(s float64) {
	if s > 0 {
		t.minScale = s
	}
}

// Resize records the drawable size of the surface and recomputes the view.
func (t *Transformer) Resize(w, h float64) {
	t.surfaceW, t.surfaceH = w, h
	t.recompute()
}

// Load adopts a document's persisted scale and translation.
func (t *Transformer) Load(scale, tx, ty float64) {
	if !(scale > 0) {
		scale = 1
	}
	t.scale = math.Max(scale, t.minScale)
	t.tx, t.ty = tx, ty
	t.recompute()
}

func (t *Transformer) Scale() float64 { return t.scale }

// Translation returns the document translation, the negated view origin.
func (t *Transformer) Translation() (x, y float64) { return t.tx, t.ty }

// View returns the model-space rectangle currently visible.
func (t *Transformer) View() state.Rect { return t.view }

func (t *Transformer) recompute() {
	w := t.surfaceW / t.scale
	h := t.surfaceH / t.scale
	t.view = state.Rect{Left: -t.tx, Top: -t.ty, Right: -t.tx + w, Bottom: -t.ty + h}
}

// ScreenToModel maps a surface pixel position to document coordinates. The
// input is clamped to the surface, the result rounded to two decimals and
// clamped to the canvas. ok is false when the mapping is undefined, as with
// a zero-size surface.
func (t *Transformer) ScreenToModel(p state.Point) (m state.Point, ok bool) {
	sx := clamp(p.X, 0, t.surfaceW)
	sy := clamp(p.Y, 0, t.surfaceH)

	x := t.view.Left + t.view.Width()*(sx/t.surfaceW)
	y := t.view.Top + t.view.Height()*(sy/t.surfaceH)
	if math.IsNaN(x) || math.IsNaN(y) {
		return state.Point{}, false
	}

	return state.Point{
		X: clamp(state.Round2(x), 0, t.canvasW),
		Y: clamp(state.Round2(y), 0, t.canvasH),
	}, true
}

// ModelToScreen is the inverse of ScreenToModel without the clamping.
func (t *Transformer) ModelToScreen(m state.Point) (p state.Point, ok bool) {
	x := (m.X - t.view.Left) / t.view.Width() * t.surfaceW
	y := (m.Y - t.view.Top) / t.view.Height() * t.surfaceH
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return state.Point{}, false
	}
	return state.Point{X: x, Y: y}, true
}

// BeginScale starts a scale gesture anchored at the on-screen focus. It
// returns false when the focus cannot be mapped, in which case the gesture
// does not start.
func (t *Transformer) BeginScale(focus state.Point) bool {
	m, ok := t.ScreenToModel(focus)
	if !ok {
		return false
	}
	t.scaling = true
	t.screenFocus = focus
	t.modelFocus = m
	return true
}

// Scaling reports whether a gesture is in progress.
func (t *Transformer) Scaling() bool { return t.scaling }

// ScaleBy multiplies the scale by factor and moves the view so the model
// point captured by BeginScale stays under the original screen focus,
// shifted by how far the reported focus has drifted since. It returns false
// when no gesture is in progress.
func (t *Transformer) ScaleBy(factor float64, focus state.Point) bool {
	if !t.scaling || !(factor > 0) {
		return false
	}
	t.scale = math.Max(t.scale*factor, t.minScale)

	nx := t.screenFocus.X / t.surfaceW
	ny := t.screenFocus.Y / t.surfaceH
	w := t.surfaceW / t.scale
	h := t.surfaceH / t.scale

	t.driftX = (t.screenFocus.X - focus.X) / t.scale
	t.driftY = (t.screenFocus.Y - focus.Y) / t.scale

	left := t.modelFocus.X - nx*w + t.driftX
	top := t.modelFocus.Y - ny*h + t.driftY

	t.view = state.Rect{Left: left, Top: top, Right: left + w, Bottom: top + h}
	t.tx, t.ty = -left, -top
	return true
}

// EndScale finishes the gesture and resets the drift accumulators.
func (t *Transformer) EndScale() {
	t.scaling = false
	t.driftX, t.driftY = 0, 0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
