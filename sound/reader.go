package sound

import (
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

// Decode reads a sound bank from r.
func Decode(r io.Reader) (*Bank, error) {
	var h [2]uint16
	if err := read(r, &h); err != nil {
		return nil, err
	}

	b := &Bank{Rate: int(h[1]), Sounds: make([][]int8, 0, h[0])}
	for i := 0; i < int(h[0]); i++ {
		var n uint32
		if err := read(r, &n); err != nil {
			return nil, err
		}
		s := make([]int8, n)
		if err := read(r, s); err != nil {
			return nil, err
		}
		b.Sounds = append(b.Sounds, s)
	}

	return b, nil
}
