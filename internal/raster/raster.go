// Package raster is the offscreen pixel buffer strokes are painted into.
// Callers serialise access; a Raster has no locking of its own.
package raster

import (
	"fmt"
	"image"
	"image/color"

	"LocalInk/internal/state"

	"github.com/gogpu/gg"
)

// Raster wraps a gg drawing context over a pixmap the size of the canvas.
type Raster struct {
	width, height int
	pixmap        *gg.Pixmap
	dc            *gg.Context
	view          *image.RGBA
}

// New allocates a transparent raster of the given size.
func New(width, height int) *Raster {
	pm := gg.NewPixmap(width, height)
	dc := gg.NewContext(width, height, gg.WithPixmap(pm))
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)

	return &Raster{
		width:  width,
		height: height,
		pixmap: pm,
		dc:     dc,
		// gg keeps premultiplied RGBA bytes, the image.RGBA layout
		view: &image.RGBA{
			Pix:    pm.Data(),
			Stride: width * 4,
			Rect:   image.Rect(0, 0, width, height),
		},
	}
}

func (r *Raster) Width() int  { return r.width }
func (r *Raster) Height() int { return r.height }

// Image returns a view sharing the raster's pixels. It reflects later paint
// operations, so readers must hold the same lock as painters.
func (r *Raster) Image() image.Image { return r.view }

// Clear resets every pixel to transparent.
func (r *Raster) Clear() {
	r.dc.Clear()
}

func (r *Raster) setColor(c color.NRGBA) {
	r.dc.SetRGBA(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, float64(c.A)/255)
}

// Segment strokes a round-capped line of the given width.
func (r *Raster) Segment(from, to state.Point, width float64, c color.NRGBA) error {
	r.setColor(c)
	r.dc.SetLineWidth(width)
	r.dc.DrawLine(from.X, from.Y, to.X, to.Y)
	if err := r.dc.Stroke(); err != nil {
		return fmt.Errorf("stroke segment: %w", err)
	}
	return nil
}

// Dot fills a disc whose diameter is the given width.
func (r *Raster) Dot(at state.Point, width float64, c color.NRGBA) error {
	r.setColor(c)
	r.dc.DrawCircle(at.X, at.Y, width/2)
	if err := r.dc.Fill(); err != nil {
		return fmt.Errorf("fill dot: %w", err)
	}
	return nil
}

// Stroke paints a whole stroke: a dot at its first sample, then every
// segment at the width of the segment's first sample.
func (r *Raster) Stroke(s state.Stroke, c color.NRGBA) error {
	if s.Len() == 0 {
		return nil
	}
	if err := r.Dot(s.Point(0), s.PointsGirth[0], c); err != nil {
		return err
	}
	for i := 0; i+1 < s.Len(); i++ {
		if err := r.Segment(s.Point(i), s.Point(i+1), s.PointsGirth[i], c); err != nil {
			return err
		}
	}
	return nil
}

// Replay clears the raster and paints every stroke in order. It stops at the
// first stroke whose color cannot be resolved.
func (r *Raster) Replay(strokes []state.Stroke, resolve state.ColorResolver) error {
	r.Clear()
	for i, s := range strokes {
		c, err := resolve(s.Color, s.Alpha)
		if err != nil {
			return fmt.Errorf("replay stroke %d: %w", i, err)
		}
		if err := r.Stroke(s, c); err != nil {
			return fmt.Errorf("replay stroke %d: %w", i, err)
		}
	}
	return nil
}
