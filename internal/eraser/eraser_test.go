package eraser

import (
	"testing"

	"LocalInk/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boundsOf(strokes []state.Stroke) []state.Rect {
	out := make([]state.Rect, len(strokes))
	for i, s := range strokes {
		out[i] = s.Bounds()
	}
	return out
}

func line(x1, y1, x2, y2, girth float64) state.Stroke {
	s := state.NewStroke(x1, y1, girth, state.White, 1)
	s.Append(x2, y2, girth)
	return s
}

func TestFirstPositionOnlyFillsWindow(t *testing.T) {
	e := New()
	strokes := []state.Stroke{state.NewStroke(100, 100, 3.5, state.White, 1)}

	_, ok := e.EraseAt(state.Point{X: 100, Y: 100}, strokes, boundsOf(strokes))
	assert.False(t, ok)
	assert.False(t, e.Empty())
	_, _, full := e.window()
	assert.False(t, full)
}

func TestEraseDot(t *testing.T) {
	e := New()
	strokes := []state.Stroke{state.NewStroke(100, 100, 3.5, state.White, 1)}
	bounds := boundsOf(strokes)

	e.EraseAt(state.Point{X: 100, Y: 100}, strokes, bounds)
	res, ok := e.EraseAt(state.Point{X: 101, Y: 101}, strokes, bounds)
	require.True(t, ok)
	assert.Equal(t, 1, res.Removed)
	assert.Empty(t, res.Strokes)
	assert.Empty(t, res.Bounds)
}

func TestWindowSlides(t *testing.T) {
	e := New()
	e.EraseAt(state.Point{X: 1, Y: 1}, nil, nil)
	e.EraseAt(state.Point{X: 2, Y: 2}, nil, nil)
	e.EraseAt(state.Point{X: 3, Y: 3}, nil, nil)

	prev, cur, ok := e.window()
	require.True(t, ok)
	assert.Equal(t, state.Point{X: 2, Y: 2}, prev)
	assert.Equal(t, state.Point{X: 3, Y: 3}, cur)

	e.Reset()
	assert.True(t, e.Empty())
}

func TestErasePreservesUntouched(t *testing.T) {
	e := New()
	near := line(100, 100, 200, 100, 4)
	far := line(1500, 2000, 1600, 2100, 4)
	strokes := []state.Stroke{near, far}
	bounds := boundsOf(strokes)
	farBounds := bounds[1]
	farX := append([]float64(nil), far.PointsX...)

	e.EraseAt(state.Point{X: 150, Y: 90}, strokes, bounds)
	res, ok := e.EraseAt(state.Point{X: 150, Y: 110}, strokes, bounds)
	require.True(t, ok)
	require.Len(t, res.Strokes, 1)
	assert.Equal(t, far, res.Strokes[0])
	assert.Equal(t, farX, res.Strokes[0].PointsX)
	assert.Equal(t, farBounds, res.Bounds[0])
}

func TestEraseMissesWhenOutsideTolerance(t *testing.T) {
	e := New()
	strokes := []state.Stroke{line(100, 100, 200, 100, 2)}
	bounds := boundsOf(strokes)

	// within the bounding box margin, but 20 units from the stroke
	e.EraseAt(state.Point{X: 150, Y: 120}, strokes, bounds)
	_, ok := e.EraseAt(state.Point{X: 151, Y: 120}, strokes, bounds)
	assert.False(t, ok)
}

func TestEraseAllThreeInOneCall(t *testing.T) {
	e := New()
	a := line(100, 100, 100, 102, 3)
	b := line(110, 100, 110, 102, 3)
	c := line(120, 100, 120, 102, 3)
	strokes := []state.Stroke{a, b, c}
	bounds := boundsOf(strokes)

	e.EraseAt(state.Point{X: 90, Y: 100}, strokes, bounds)
	res, ok := e.EraseAt(state.Point{X: 130, Y: 100}, strokes, bounds)
	require.True(t, ok)
	assert.Equal(t, 3, res.Removed)
	assert.Empty(t, res.Strokes)
	assert.Len(t, strokes, 3, "input is not modified")
}

func TestEraseKeepsOrderOfSurvivors(t *testing.T) {
	e := New()
	strokes := []state.Stroke{
		line(0, 0, 10, 0, 2),
		line(100, 50, 100, 150, 3),
		line(500, 500, 510, 500, 2),
		line(105, 50, 105, 150, 3),
		line(900, 900, 910, 900, 2),
	}
	bounds := boundsOf(strokes)

	e.EraseAt(state.Point{X: 95, Y: 100}, strokes, bounds)
	res, ok := e.EraseAt(state.Point{X: 110, Y: 100}, strokes, bounds)
	require.True(t, ok)
	assert.Equal(t, 2, res.Removed)
	assert.Equal(t, []state.Stroke{strokes[0], strokes[2], strokes[4]}, res.Strokes)
	assert.Equal(t, []state.Rect{bounds[0], bounds[2], bounds[4]}, res.Bounds)
}

func TestConfigurableTolerance(t *testing.T) {
	strokes := []state.Stroke{line(100, 100, 200, 100, 2)}
	bounds := boundsOf(strokes)

	e := New()
	e.MinRadius = 40
	e.EraseAt(state.Point{X: 150, Y: 120}, strokes, bounds)
	_, ok := e.EraseAt(state.Point{X: 151, Y: 120}, strokes, bounds)
	assert.True(t, ok)

	e = New()
	e.Margin = 0
	strokes = []state.Stroke{state.NewStroke(100, 100, 1, state.White, 1)}
	bounds = boundsOf(strokes)
	e.EraseAt(state.Point{X: 101.5, Y: 101.5}, strokes, bounds)
	_, ok = e.EraseAt(state.Point{X: 102, Y: 102}, strokes, bounds)
	assert.False(t, ok, "box test rejects before the distance test")
}

func TestNearPath(t *testing.T) {
	f1 := state.Point{X: 0, Y: 0}
	f2 := state.Point{X: 10, Y: 0}
	assert.True(t, nearPath(f1, f2, state.Point{X: 5, Y: 0}, 1))
	assert.True(t, nearPath(f1, f2, state.Point{X: 5, Y: 2}, 1))
	assert.False(t, nearPath(f1, f2, state.Point{X: 5, Y: 5}, 1))
}
