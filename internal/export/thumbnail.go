package export

import (
	"fmt"
	"image"
	"image/color"

	"LocalInk/internal/state"

	"github.com/disintegration/imaging"
)

// Thumbnail renders d flattened onto white and scaled down to fit a
// side x side box. Drawings already smaller than the box keep their size.
func Thumbnail(d state.Drawing, side int, opts Options) (*image.NRGBA, error) {
	if side <= 0 {
		return nil, fmt.Errorf("export: thumbnail size %d", side)
	}
	img, err := Render(d, opts)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	flat := imaging.Overlay(imaging.New(b.Dx(), b.Dy(), color.White), img, image.Point{}, 1)
	return imaging.Fit(flat, side, side, imaging.Lanczos), nil
}
