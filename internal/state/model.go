package state

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

var (
	ErrEmptyStroke   = errors.New("stroke has no points")
	ErrUnequalPoints = errors.New("stroke point and girth arrays differ in length")
	ErrInvalidScale  = errors.New("drawing scale must be positive")
	ErrInvalidAlpha  = errors.New("stroke alpha must be within [0, 1]")
)

// Stroke is one pen-down to pen-up path stored as parallel sample arrays.
// A stroke with a single sample is a dot.
type Stroke struct {
	PointsX     []float64  `json:"points_x"`
	PointsY     []float64  `json:"points_y"`
	PointsGirth []float64  `json:"points_girth"`
	Color       ColorAlias `json:"color"`
	Alpha       float64    `json:"alpha"`
}

// NewStroke starts a stroke at the given sample.
func NewStroke(x, y, girth float64, c ColorAlias, alpha float64) Stroke {
	return Stroke{
		PointsX:     []float64{x},
		PointsY:     []float64{y},
		PointsGirth: []float64{girth},
		Color:       c,
		Alpha:       alpha,
	}
}

// Append adds a sample to the end of the stroke.
func (s *Stroke) Append(x, y, girth float64) {
	s.PointsX = append(s.PointsX, x)
	s.PointsY = append(s.PointsY, y)
	s.PointsGirth = append(s.PointsGirth, girth)
}

func (s Stroke) Len() int { return len(s.PointsX) }

// Point returns the i-th sample position.
func (s Stroke) Point(i int) Point {
	return Point{X: s.PointsX[i], Y: s.PointsY[i]}
}

// Bounds computes the footprint box of every sample from scratch.
func (s Stroke) Bounds() Rect {
	if s.Len() == 0 {
		return Rect{}
	}
	r := RectAround(s.PointsX[0], s.PointsY[0], s.PointsGirth[0])
	for i := 1; i < s.Len(); i++ {
		r.Grow(s.PointsX[i], s.PointsY[i], s.PointsGirth[i])
	}
	return r
}

func (s Stroke) Clone() Stroke {
	return Stroke{
		PointsX:     slices.Clone(s.PointsX),
		PointsY:     slices.Clone(s.PointsY),
		PointsGirth: slices.Clone(s.PointsGirth),
		Color:       s.Color,
		Alpha:       s.Alpha,
	}
}

// Validate reports whether the sample arrays are well formed.
func (s Stroke) Validate() error {
	if len(s.PointsX) != len(s.PointsY) || len(s.PointsY) != len(s.PointsGirth) {
		return ErrUnequalPoints
	}
	if len(s.PointsX) == 0 {
		return ErrEmptyStroke
	}
	if s.Alpha < 0 || s.Alpha > 1 {
		return ErrInvalidAlpha
	}
	return nil
}

// Drawing is the document: the viewport transform last used to view it and
// its strokes in z-order.
type Drawing struct {
	Scale        float64  `json:"scale"`
	TranslationX float64  `json:"translation_x"`
	TranslationY float64  `json:"translation_y"`
	Strokes      []Stroke `json:"strokes"`
	Theme        Theme    `json:"theme,omitempty"`
}

// NewDrawing returns an empty document at unit scale.
func NewDrawing() Drawing {
	return Drawing{Scale: 1}
}

// Clone deep-copies the document. Nil slices and maps stay nil.
func (d Drawing) Clone() Drawing {
	out := d
	if d.Strokes != nil {
		out.Strokes = make([]Stroke, len(d.Strokes))
		for i, s := range d.Strokes {
			out.Strokes[i] = s.Clone()
		}
	}
	out.Theme = maps.Clone(d.Theme)
	return out
}

// Validate checks the document invariants.
func (d Drawing) Validate() error {
	if !(d.Scale > 0) {
		return ErrInvalidScale
	}
	for i, s := range d.Strokes {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("stroke %d: %w", i, err)
		}
	}
	return nil
}

// Resolver returns the color lookup for the document's theme, falling back
// to DefaultTheme when the document carries none.
func (d Drawing) Resolver(mode Mode) ColorResolver {
	if d.Theme == nil {
		return DefaultTheme.Resolve(mode)
	}
	return d.Theme.Resolve(mode)
}
