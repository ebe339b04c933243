package sprite

import (
	"encoding/binary"
	"io"

	"github.com/bodgit/assetc/pixel"
)

type encoder struct {
	w io.Writer
}

func (e *encoder) writeCount(n int) error {
	if n > MaxSprites {
		return ErrTooManySprites
	}
	return binary.Write(e.w, binary.LittleEndian, uint16(n))
}

func (e *encoder) writePalette(p *pixel.Palette) error {
	return binary.Write(e.w, binary.LittleEndian, p[:])
}

func (e *encoder) writeSize(w, h uint16) error {
	return binary.Write(e.w, binary.LittleEndian, [2]uint16{w, h})
}

// Encode writes the sprites to w as a true color sheet.
func Encode(w io.Writer, sprites []*True) error {
	e := encoder{w: w}

	if err := e.writeCount(len(sprites)); err != nil {
		return err
	}

	for _, t := range sprites {
		if err := e.writeSize(t.Width, t.Height); err != nil {
			return err
		}
		if err := binary.Write(e.w, binary.LittleEndian, t.Pix); err != nil {
			return err
		}
	}

	return nil
}

// EncodeShared writes the sprites to w as a shared palette sheet.
func EncodeShared(w io.Writer, p *pixel.Palette, sprites []*Indexed) error {
	e := encoder{w: w}

	if err := e.writeCount(len(sprites)); err != nil {
		return err
	}

	if err := e.writePalette(p); err != nil {
		return err
	}

	for _, t := range sprites {
		if err := e.writeSize(t.Width, t.Height); err != nil {
			return err
		}
		if _, err := e.w.Write(t.Pix); err != nil {
			return err
		}
	}

	return nil
}
