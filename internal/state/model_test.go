package state

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStroke_AppendKeepsArraysAligned(t *testing.T) {
	assert := assert.New(t)

	s := NewStroke(10, 20, 3.5, Red, 1)
	assert.Equal(1, s.Len())
	assert.NoError(s.Validate())

	for i := 0; i < 10; i++ {
		s.Append(float64(i), float64(i*2), 1.5)
		assert.NoError(s.Validate())
	}
	assert.Equal(11, s.Len())
	assert.Len(s.PointsY, 11)
	assert.Len(s.PointsGirth, 11)
	assert.Equal(Point{X: 9, Y: 18}, s.Point(10))
}

func TestStroke_Validate(t *testing.T) {
	tests := []struct {
		name   string
		stroke Stroke
		err    error
	}{
		{"empty", Stroke{Alpha: 1}, ErrEmptyStroke},
		{"unequal y", Stroke{PointsX: []float64{1, 2}, PointsY: []float64{1}, PointsGirth: []float64{1, 1}}, ErrUnequalPoints},
		{"unequal girth", Stroke{PointsX: []float64{1}, PointsY: []float64{1}, PointsGirth: nil}, ErrUnequalPoints},
		{"alpha", Stroke{PointsX: []float64{1}, PointsY: []float64{1}, PointsGirth: []float64{1}, Alpha: 2}, ErrInvalidAlpha},
		{"dot", NewStroke(1, 1, 1, Black, 0.5), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.stroke.Validate()
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestDrawing_ValidateWrapsStrokeIndex(t *testing.T) {
	d := NewDrawing()
	d.Strokes = []Stroke{NewStroke(1, 1, 1, White, 1), {PointsX: []float64{1}}}

	err := d.Validate()
	require.ErrorIs(t, err, ErrUnequalPoints)
	assert.Contains(t, err.Error(), "stroke 1")

	d.Strokes = nil
	d.Scale = 0
	assert.ErrorIs(t, d.Validate(), ErrInvalidScale)
}

func TestDrawing_CloneIsDeep(t *testing.T) {
	assert := assert.New(t)

	d := NewDrawing()
	d.Strokes = []Stroke{NewStroke(1, 2, 3, Blue, 1)}
	d.Theme = Theme{Blue: DefaultTheme[Blue]}

	c := d.Clone()
	assert.Equal(d, c)

	c.Strokes[0].Append(4, 5, 6)
	c.Theme[Red] = DefaultTheme[Red]
	assert.Equal(1, d.Strokes[0].Len())
	assert.NotContains(d.Theme, Red)

	empty := NewDrawing()
	assert.Nil(empty.Clone().Strokes)
	assert.Nil(empty.Clone().Theme)
}

func TestDrawing_JSON(t *testing.T) {
	d := NewDrawing()
	d.TranslationX = -12.5
	d.Strokes = []Stroke{NewStroke(1, 2, 3, Magenta, 0.25)}
	d.Theme = Theme{Magenta: DefaultTheme[Magenta]}

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"color":"magenta"`)
	assert.Contains(t, string(data), `"theme":{"magenta"`)

	var back Drawing
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, d, back)
}

func TestStroke_BoundsCoverEveryFootprint(t *testing.T) {
	s := NewStroke(50, 50, 2, White, 1)
	s.Append(10, 80, 4)
	s.Append(90, 5, 1)

	b := s.Bounds()
	for i := 0; i < s.Len(); i++ {
		assert.True(t, b.Contains(RectAround(s.PointsX[i], s.PointsY[i], s.PointsGirth[i])))
	}
	assert.Equal(t, Rect{Left: 6, Top: 4, Right: 91, Bottom: 84}, b)
}
