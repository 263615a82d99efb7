// Package render presents the offscreen raster on a display surface from a
// dedicated goroutine.
package render

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Frame describes how model space is placed on the surface for one frame.
type Frame struct {
	Scale        float64
	TranslationX float64
	TranslationY float64

	CanvasWidth  int
	CanvasHeight int

	// Background fills the area outside the canvas, Canvas the canvas itself.
	Background color.Color
	Canvas     color.Color
}

// transform maps model coordinates to surface pixels: scale after
// translation.
func (f Frame) transform() f64.Aff3 {
	s := f.Scale
	return f64.Aff3{
		s, 0, s * f.TranslationX,
		0, s, s * f.TranslationY,
	}
}

// CanvasRect returns the canvas bounds in surface pixels.
func (f Frame) CanvasRect() image.Rectangle {
	s := f.Scale
	return image.Rect(
		int(math.Floor(f.TranslationX*s)),
		int(math.Floor(f.TranslationY*s)),
		int(math.Ceil((float64(f.CanvasWidth)+f.TranslationX)*s)),
		int(math.Ceil((float64(f.CanvasHeight)+f.TranslationY)*s)),
	)
}

// Compose paints one frame into dst: the background, the canvas bounds and
// then the raster, all under the frame's scale and translation.
func Compose(dst draw.Image, raster image.Image, f Frame) {
	b := dst.Bounds()
	draw.Draw(dst, b, image.NewUniform(f.Background), image.Point{}, draw.Src)

	canvas := f.CanvasRect().Add(b.Min).Intersect(b)
	if !canvas.Empty() {
		draw.Draw(dst, canvas, image.NewUniform(f.Canvas), image.Point{}, draw.Src)
	}

	if raster == nil || !(f.Scale > 0) {
		return
	}
	m := f.transform()
	m[2] += float64(b.Min.X)
	m[5] += float64(b.Min.Y)
	if f.Scale == 1 && isWhole(m[2]) && isWhole(m[5]) {
		// unscaled frames need no resampling
		offset := image.Pt(int(m[2]), int(m[5]))
		r := raster.Bounds().Add(offset)
		draw.Draw(dst, r, raster, raster.Bounds().Min, draw.Over)
		return
	}
	draw.ApproxBiLinear.Transform(dst, m, raster, raster.Bounds(), draw.Over, nil)
}

func isWhole(v float64) bool {
	return v == math.Trunc(v)
}
