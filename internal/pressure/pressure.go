// Package pressure converts raw stylus pressure into stroke width.
package pressure

import "LocalInk/internal/state"

const (
	// Window is the number of samples the rolling average approximates.
	Window = 5

	DefaultMultiplier = 7
)

// Smoother keeps a rolling average of adjusted pressure across the samples
// of one stroke.
type Smoother struct {
	multiplier int
	avg        float64
}

// New returns a smoother scaling raw pressure by multiplier. Non-positive
// multipliers fall back to DefaultMultiplier.
func New(multiplier int) *Smoother {
	s := &Smoother{}
	s.SetMultiplier(multiplier)
	return s
}

func (s *Smoother) SetMultiplier(m int) {
	if m <= 0 {
		m = DefaultMultiplier
	}
	s.multiplier = m
}

func (s *Smoother) Multiplier() int { return s.multiplier }

// Adjust scales raw device pressure (0 to 1) into a pixel width.
func (s *Smoother) Adjust(raw float64) float64 {
	return state.Round2(raw * float64(s.multiplier))
}

// Start seeds the average with the first sample of a stroke and returns it.
func (s *Smoother) Start(raw float64) float64 {
	s.avg = s.Adjust(raw)
	return s.avg
}

// Next folds a sample into the average and returns the new average.
func (s *Smoother) Next(raw float64) float64 {
	s.avg = s.avg - s.avg/Window + s.Adjust(raw)/Window
	return s.avg
}
