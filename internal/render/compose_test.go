package render

import (
	"image"
	"image/color"
	"testing"

	"LocalInk/internal/raster"
	"LocalInk/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	grey  = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	black = color.NRGBA{A: 0xff}
	red   = color.NRGBA{R: 0xff, A: 0xff}
)

func frame(scale, tx, ty float64) Frame {
	return Frame{
		Scale:        scale,
		TranslationX: tx,
		TranslationY: ty,
		CanvasWidth:  20,
		CanvasHeight: 20,
		Background:   grey,
		Canvas:       black,
	}
}

func rasterWithPixel(x, y int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 20, 20))
	img.SetNRGBA(x, y, red)
	return img
}

func TestCompose_UnitScale(t *testing.T) {
	assert := assert.New(t)
	dst := image.NewRGBA(image.Rect(0, 0, 40, 40))

	Compose(dst, rasterWithPixel(5, 5), frame(1, 0, 0))

	assert.Equal(color.RGBA{R: 0xff, A: 0xff}, dst.RGBAAt(5, 5))
	assert.Equal(color.RGBA{A: 0xff}, dst.RGBAAt(6, 6))
	assert.Equal(color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}, dst.RGBAAt(30, 30))
}

func TestCompose_Translated(t *testing.T) {
	assert := assert.New(t)
	dst := image.NewRGBA(image.Rect(0, 0, 40, 40))

	Compose(dst, rasterWithPixel(5, 5), frame(1, 10, 3))

	assert.Equal(color.RGBA{R: 0xff, A: 0xff}, dst.RGBAAt(15, 8))
	// outside the canvas
	assert.Equal(color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}, dst.RGBAAt(5, 5))
	assert.Equal(image.Rect(10, 3, 30, 23), frame(1, 10, 3).CanvasRect())
}

func TestCompose_Scaled(t *testing.T) {
	assert := assert.New(t)
	dst := image.NewRGBA(image.Rect(0, 0, 40, 40))

	src := image.NewNRGBA(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			src.SetNRGBA(x, y, red)
		}
	}
	f := frame(2, 0, 0)
	Compose(dst, src, f)

	assert.Equal(image.Rect(0, 0, 40, 40), f.CanvasRect())
	c := dst.RGBAAt(20, 20)
	assert.Equal(uint8(0xff), c.R)
	assert.Equal(uint8(0xff), c.A)
}

func TestCompose_NilRaster(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 40, 40))
	Compose(dst, nil, frame(1, 0, 0))
	assert.Equal(t, color.RGBA{A: 0xff}, dst.RGBAAt(1, 1))
}

func TestCompose_TranslucentStroke(t *testing.T) {
	ras := raster.New(20, 20)
	require.NoError(t, ras.Dot(state.Point{X: 10, Y: 10}, 12, color.NRGBA{R: 0xff, A: 0x80}))

	f := frame(1, 0, 0)
	f.Canvas = color.White
	dst := image.NewRGBA(image.Rect(0, 0, 20, 20))
	Compose(dst, ras.Image(), f)

	c := dst.RGBAAt(10, 10)
	assert.InDelta(t, 0xff, int(c.R), 2)
	assert.InDelta(t, 0x7f, int(c.G), 2)
	assert.InDelta(t, 0x7f, int(c.B), 2)
	assert.Equal(t, uint8(0xff), c.A)
}
