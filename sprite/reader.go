package sprite

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/bodgit/assetc/pixel"
)

var errNotEnough = errors.New("sprite: not enough sheet data")

type decoder struct {
	r io.Reader
}

func (d *decoder) read(v interface{}) error {
	err := binary.Read(d.r, binary.LittleEndian, v)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return errNotEnough
	}
	return err
}

func (d *decoder) readSize() (w, h uint16, err error) {
	var size [2]uint16
	if err = d.read(&size); err != nil {
		return
	}
	return size[0], size[1], nil
}

// Decode reads a true color sheet from r.
func Decode(r io.Reader) ([]*True, error) {
	d := decoder{r: r}

	var n uint16
	if err := d.read(&n); err != nil {
		return nil, err
	}

	sprites := make([]*True, 0, n)
	for i := 0; i < int(n); i++ {
		w, h, err := d.readSize()
		if err != nil {
			return nil, err
		}
		t := &True{Width: w, Height: h, Pix: make([]pixel.Color, int(w)*int(h))}
		if err := d.read(t.Pix); err != nil {
			return nil, err
		}
		sprites = append(sprites, t)
	}

	return sprites, nil
}

// DecodeShared reads a shared palette sheet from r.
func DecodeShared(r io.Reader) (*pixel.Palette, []*Indexed, error) {
	d := decoder{r: r}

	var n uint16
	if err := d.read(&n); err != nil {
		return nil, nil, err
	}

	p := new(pixel.Palette)
	if err := d.read(p[:]); err != nil {
		return nil, nil, err
	}

	sprites := make([]*Indexed, 0, n)
	for i := 0; i < int(n); i++ {
		w, h, err := d.readSize()
		if err != nil {
			return nil, nil, err
		}
		t := &Indexed{Width: w, Height: h, Pix: make([]uint8, int(w)*int(h))}
		if err := d.read(t.Pix); err != nil {
			return nil, nil, err
		}
		sprites = append(sprites, t)
	}

	return p, sprites, nil
}
