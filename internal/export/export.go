// Package export renders a drawing into a raster image file.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"strings"

	"LocalInk/internal/raster"
	"LocalInk/internal/state"

	"github.com/spakin/netpbm"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

// Padding is added past the furthest sample on both axes.
const Padding = 20

var ErrUnknownFormat = errors.New("export: unknown format")

type Format int

const (
	PNG Format = iota
	JPEG
	BMP
	TIFF
	PDF
	PNM
	TGA
	Farbfeld
)

var formatNames = [...]string{"png", "jpeg", "bmp", "tiff", "pdf", "pnm", "tga", "farbfeld"}

func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return fmt.Sprintf("Format(%d)", int(f))
	}
	return formatNames[f]
}

// Ext returns the usual file extension including the dot.
func (f Format) Ext() string {
	switch f {
	case PNM:
		return ".ppm"
	case Farbfeld:
		return ".ff"
	}
	return "." + f.String()
}

// ParseFormat accepts a format name or file extension, case-insensitive.
func ParseFormat(s string) (Format, error) {
	s = strings.TrimPrefix(strings.ToLower(s), ".")
	switch s {
	case "jpg":
		return JPEG, nil
	case "tif":
		return TIFF, nil
	case "ppm":
		return PNM, nil
	case "ff":
		return Farbfeld, nil
	}
	for i, n := range formatNames {
		if n == s {
			return Format(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Bounds returns the pixel size of an export: the greatest sample
// coordinate on each axis, truncated, plus Padding. An empty drawing is
// (1+Padding) square.
func Bounds(d state.Drawing) (w, h int) {
	w, h = 1, 1
	for _, s := range d.Strokes {
		for i := range s.PointsX {
			w = max(w, int(math.Trunc(s.PointsX[i])))
			h = max(h, int(math.Trunc(s.PointsY[i])))
		}
	}
	return w + Padding, h + Padding
}

// Options controls rendering. A nil Resolve uses the drawing's theme in
// light mode.
type Options struct {
	Resolve state.ColorResolver
	// Background flattens the image onto a solid color. JPEG, BMP and PNM
	// output is always flattened, onto white when Background is nil.
	Background color.Color
}

// Render paints every stroke of d into a new image sized by Bounds.
func Render(d state.Drawing, opts Options) (*image.NRGBA, error) {
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	resolve := opts.Resolve
	if resolve == nil {
		resolve = d.Resolver(state.Light)
	}

	w, h := Bounds(d)
	r := raster.New(w, h)
	if err := r.Replay(d.Strokes, resolve); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	if opts.Background != nil {
		draw.Draw(out, out.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)
	}
	draw.Draw(out, out.Bounds(), r.Image(), image.Point{}, draw.Over)
	return out, nil
}

// Encode renders d and writes it to w in format f.
func Encode(w io.Writer, d state.Drawing, f Format, opts Options) error {
	if (f == JPEG || f == BMP || f == PNM) && opts.Background == nil {
		opts.Background = color.White
	}
	img, err := Render(d, opts)
	if err != nil {
		return err
	}

	switch f {
	case PNG:
		err = png.Encode(w, img)
	case JPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case BMP:
		err = bmp.Encode(w, img)
	case TIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case PDF:
		err = encodePDF(w, img)
	case PNM:
		err = netpbm.Encode(w, img, &netpbm.EncodeOptions{Format: netpbm.PPM, MaxValue: 255})
	case TGA:
		err = encodeTGA(w, img)
	case Farbfeld:
		err = encodeFarbfeld(w, img)
	default:
		return fmt.Errorf("%w: %v", ErrUnknownFormat, f)
	}
	if err != nil {
		return fmt.Errorf("encode %v: %w", f, err)
	}
	return nil
}

// Bytes is Encode into memory.
func Bytes(d state.Drawing, f Format, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, d, f, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
