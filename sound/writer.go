package sound

import (
	"encoding/binary"
	"io"
	"math"
)

// Encode writes b to w.
func Encode(w io.Writer, b *Bank) error {
	if len(b.Sounds) > MaxSounds {
		return ErrTooManySounds
	}
	if b.Rate <= 0 || b.Rate > math.MaxUint16 {
		return ErrRate
	}

	if err := binary.Write(w, binary.LittleEndian, [2]uint16{uint16(len(b.Sounds)), uint16(b.Rate)}); err != nil {
		return err
	}

	for _, s := range b.Sounds {
		if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, s); err != nil {
			return err
		}
	}

	return nil
}
