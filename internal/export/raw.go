package export

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"image"
	"io"
)

// encodeTGA writes an uncompressed 32-bit true-color TGA with a top-left
// origin.
func encodeTGA(w io.Writer, img *image.NRGBA) error {
	b := img.Bounds()
	if b.Dx() > 0xffff || b.Dy() > 0xffff {
		return fmt.Errorf("tga: %dx%d exceeds 65535", b.Dx(), b.Dy())
	}

	var hdr [18]byte
	hdr[2] = 2 // true-color, no color map
	binary.LittleEndian.PutUint16(hdr[12:], uint16(b.Dx()))
	binary.LittleEndian.PutUint16(hdr[14:], uint16(b.Dy()))
	hdr[16] = 32
	hdr[17] = 0x28 // 8 alpha bits, rows top to bottom

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(hdr[:]); err != nil {
		return err
	}
	row := make([]byte, 4*b.Dx())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		src := img.Pix[img.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			r, g, bl, a := src[4*x], src[4*x+1], src[4*x+2], src[4*x+3]
			row[4*x], row[4*x+1], row[4*x+2], row[4*x+3] = bl, g, r, a
		}
		if _, err := bw.Write(row); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// encodeFarbfeld writes the "farbfeld" magic, big-endian width and height
// and then 16-bit big-endian non-premultiplied RGBA per pixel.
func encodeFarbfeld(w io.Writer, img *image.NRGBA) error {
	b := img.Bounds()
	var hdr [16]byte
	copy(hdr[:], "farbfeld")
	binary.BigEndian.PutUint32(hdr[8:], uint32(b.Dx()))
	binary.BigEndian.PutUint32(hdr[12:], uint32(b.Dy()))

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(hdr[:]); err != nil {
		return err
	}
	row := make([]byte, 8*b.Dx())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		src := img.Pix[img.PixOffset(b.Min.X, y):]
		for i := 0; i < 4*b.Dx(); i++ {
			binary.BigEndian.PutUint16(row[2*i:], uint16(src[i])*0x101)
		}
		if _, err := bw.Write(row); err != nil {
			return err
		}
	}
	return bw.Flush()
}
