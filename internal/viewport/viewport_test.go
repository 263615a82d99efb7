package viewport

import (
	"testing"

	"LocalInk/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	canvasW = 2125
	canvasH = 2750
)

func newSized(w, h float64) *Transformer {
	t := New(canvasW, canvasH)
	t.Resize(w, h)
	return t
}

func TestScreenToModel_IdentityAtUnitScale(t *testing.T) {
	vp := newSized(1000, 800)

	m, ok := vp.ScreenToModel(state.Point{X: 100, Y: 100})
	require.True(t, ok)
	assert.Equal(t, state.Point{X: 100, Y: 100}, m)
}

func TestScreenToModel_Idempotent(t *testing.T) {
	vp := newSized(1000, 800)
	vp.Load(1.7, -33.3, -12.1)

	p := state.Point{X: 321.123, Y: 654.987}
	a, okA := vp.ScreenToModel(p)
	b, okB := vp.ScreenToModel(p)
	assert.True(t, okA)
	assert.True(t, okB)
	assert.Equal(t, a, b)
}

func TestScreenToModel_RoundsToTwoDecimals(t *testing.T) {
	vp := newSized(1000, 1000)
	vp.Load(3, 0, 0)

	m, ok := vp.ScreenToModel(state.Point{X: 100, Y: 200})
	require.True(t, ok)
	assert.Equal(t, state.Point{X: 33.33, Y: 66.67}, m)
}

func TestScreenToModel_Clamps(t *testing.T) {
	vp := newSized(1000, 800)

	m, ok := vp.ScreenToModel(state.Point{X: -50, Y: 5000})
	require.True(t, ok)
	assert.Equal(t, state.Point{X: 0, Y: 800}, m)

	// panned far right: the view extends past the canvas edge
	vp.Load(1, -2000, -2700)
	m, ok = vp.ScreenToModel(state.Point{X: 900, Y: 700})
	require.True(t, ok)
	assert.Equal(t, state.Point{X: canvasW, Y: canvasH}, m)
}

func TestScreenToModel_ZeroSurfaceIsInvalid(t *testing.T) {
	vp := New(canvasW, canvasH)

	_, ok := vp.ScreenToModel(state.Point{X: 10, Y: 10})
	assert.False(t, ok)
	assert.False(t, vp.BeginScale(state.Point{X: 10, Y: 10}))
}

func TestLoad_ComputesView(t *testing.T) {
	vp := newSized(1000, 800)
	vp.Load(2, -100, -50)

	assert.Equal(t, state.Rect{Left: 100, Top: 50, Right: 600, Bottom: 450}, vp.View())
	x, y := vp.Translation()
	assert.Equal(t, -100.0, x)
	assert.Equal(t, -50.0, y)

	vp.Load(0, 0, 0)
	assert.Equal(t, 1.0, vp.Scale())
}

func TestScaleBy_KeepsFocusAnchored(t *testing.T) {
	tests := []struct {
		name    string
		focus   state.Point
		factors []float64
	}{
		{"zoom in center", state.Point{X: 500, Y: 400}, []float64{1.5}},
		{"zoom in corner", state.Point{X: 50, Y: 700}, []float64{1.1, 1.2, 1.3}},
		{"zoom out", state.Point{X: 333, Y: 111}, []float64{0.8, 0.9}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vp := newSized(1000, 800)
			vp.Load(1.25, -40, -60)

			require.True(t, vp.BeginScale(tt.focus))
			anchor, ok := vp.ScreenToModel(tt.focus)
			require.True(t, ok)

			scale := vp.Scale()
			for _, k := range tt.factors {
				require.True(t, vp.ScaleBy(k, tt.focus))
				scale *= k
			}
			vp.EndScale()

			assert.InDelta(t, scale, vp.Scale(), 1e-9)
			back, ok := vp.ModelToScreen(anchor)
			require.True(t, ok)
			// the anchor was rounded to 2 decimals in model space
			tol := 0.01 * vp.Scale()
			assert.InDelta(t, tt.focus.X, back.X, tol)
			assert.InDelta(t, tt.focus.Y, back.Y, tol)
		})
	}
}

func TestScaleBy_FollowsFocusDrift(t *testing.T) {
	vp := newSized(1000, 800)
	start := state.Point{X: 400, Y: 400}
	require.True(t, vp.BeginScale(start))
	anchor, _ := vp.ScreenToModel(start)

	moved := state.Point{X: 450, Y: 380}
	require.True(t, vp.ScaleBy(2, moved))

	back, ok := vp.ModelToScreen(anchor)
	require.True(t, ok)
	assert.InDelta(t, moved.X, back.X, 0.05)
	assert.InDelta(t, moved.Y, back.Y, 0.05)

	vp.EndScale()
	assert.False(t, vp.Scaling())
	assert.Zero(t, vp.driftX)
	assert.Zero(t, vp.driftY)
}

func TestScaleBy_RequiresGestureAndMinScale(t *testing.T) {
	vp := newSized(1000, 800)
	assert.False(t, vp.ScaleBy(2, state.Point{X: 1, Y: 1}))

	vp.SetMinScale(0.5)
	require.True(t, vp.BeginScale(state.Point{X: 1, Y: 1}))
	assert.True(t, vp.ScaleBy(0.01, state.Point{X: 1, Y: 1}))
	assert.Equal(t, 0.5, vp.Scale())
	assert.False(t, vp.ScaleBy(-1, state.Point{X: 1, Y: 1}))
}

func TestTranslationMatchesView(t *testing.T) {
	vp := newSized(1000, 800)
	require.True(t, vp.BeginScale(state.Point{X: 250, Y: 250}))
	require.True(t, vp.ScaleBy(1.6, state.Point{X: 250, Y: 250}))
	vp.EndScale()

	x, y := vp.Translation()
	assert.Equal(t, -x, vp.View().Left)
	assert.Equal(t, -y, vp.View().Top)

	// screen = (model + translation) * scale
	m := state.Point{X: 300, Y: 300}
	p, ok := vp.ModelToScreen(m)
	require.True(t, ok)
	assert.InDelta(t, (m.X+x)*vp.Scale(), p.X, 1e-9)
	assert.InDelta(t, (m.Y+y)*vp.Scale(), p.Y, 1e-9)
}
