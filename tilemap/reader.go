package tilemap

import (
	"bytes"
	"encoding/binary"
	"io"
)

func read(r io.Reader, v interface{}) error {
	err := binary.Read(r, binary.LittleEndian, v)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return errNotEnough
	}
	return err
}

// Decode reads a tilemap from r.
func Decode(r io.Reader) (*Tilemap, error) {
	var h header
	if err := read(r, &h); err != nil {
		return nil, err
	}
	if h.Version != Version {
		return nil, ErrBadVersion
	}

	name := h.Sheet[:]
	if i := bytes.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}

	t := &Tilemap{
		Sheet:  string(name),
		Width:  int(h.Width),
		Height: int(h.Height),
		Tiles:  make([]uint16, int(h.Width)*int(h.Height)),
	}
	if err := read(r, t.Tiles); err != nil {
		return nil, err
	}

	return t, nil
}
