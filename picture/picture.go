/*
Package picture implements the single image formats used for backgrounds.

Both formats start with a 16-bit width and height. A compressed picture
(.cfp) follows this with the run-length encoded stream of packed 16-bit
colors as implemented by package rle. A direct picture (.dfp) follows it with
one uncompressed 15-bit color per pixel:

	1RRRRRGGGGGBBBBB

Direct pictures carry no transparency. Every field is little-endian.
*/
package picture

import (
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"io"

	"github.com/bodgit/assetc/pixel"
	"github.com/bodgit/assetc/rle"
	"github.com/bodgit/assetc/sprite"
)

var (
	errNotEnough = errors.New("picture: not enough image data")
	errTooLarge  = errors.New("picture: image too large")
)

const maxSide = 1<<16 - 1

// RGB555 packs the upper five bits of each channel, ignoring alpha.
func RGB555(c color.Color) uint16 {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return 0x8000 | uint16(n.R&0xf8)<<7 | uint16(n.G&0xf8)<<2 | uint16(n.B&0xf8)>>3
}

func writeSize(w io.Writer, width, height int) error {
	if width > maxSide || height > maxSide {
		return errTooLarge
	}
	return binary.Write(w, binary.LittleEndian, [2]uint16{uint16(width), uint16(height)})
}

func readSize(r io.Reader) (int, int, error) {
	var size [2]uint16
	if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return 0, 0, errNotEnough
		}
		return 0, 0, err
	}
	return int(size[0]), int(size[1]), nil
}

// Encode writes t to w as a compressed picture.
func Encode(w io.Writer, t *sprite.True) error {
	if err := writeSize(w, int(t.Width), int(t.Height)); err != nil {
		return err
	}

	values := make([]uint16, len(t.Pix))
	for i, c := range t.Pix {
		values[i] = uint16(c)
	}

	return rle.Write(w, rle.Encode(values), rle.Word)
}

// Decode reads a compressed picture from r.
func Decode(r io.Reader) (*sprite.True, error) {
	width, height, err := readSize(r)
	if err != nil {
		return nil, err
	}

	values, err := rle.Read(r, rle.Word, width*height)
	if err != nil {
		return nil, err
	}

	t := &sprite.True{
		Width:  uint16(width),
		Height: uint16(height),
		Pix:    make([]pixel.Color, len(values)),
	}
	for i, v := range values {
		t.Pix[i] = pixel.Color(v)
	}
	return t, nil
}

// EncodeDirect writes m to w as a direct picture.
func EncodeDirect(w io.Writer, m image.Image) error {
	b := m.Bounds()
	if err := writeSize(w, b.Dx(), b.Dy()); err != nil {
		return err
	}

	pix := make([]uint16, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			pix = append(pix, RGB555(m.At(x, y)))
		}
	}

	return binary.Write(w, binary.LittleEndian, pix)
}

// DecodeDirect reads a direct picture from r.
func DecodeDirect(r io.Reader) (int, int, []uint16, error) {
	width, height, err := readSize(r)
	if err != nil {
		return 0, 0, nil, err
	}

	pix := make([]uint16, width*height)
	if err := binary.Read(r, binary.LittleEndian, pix); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return 0, 0, nil, errNotEnough
		}
		return 0, 0, nil, err
	}
	return width, height, pix, nil
}
