package tilemap

import (
	"encoding/binary"
	"io"
)

type header struct {
	Version uint16
	_       uint8
	Sheet   [nameLen]byte
	Width   uint16
	Height  uint16
}

// Encode writes t to w.
func Encode(w io.Writer, t *Tilemap) error {
	if len(t.Sheet) > MaxSheetName {
		return ErrSheetName
	}
	if t.Width > maxSide || t.Height > maxSide {
		return errTooLarge
	}

	h := header{
		Version: Version,
		Width:   uint16(t.Width),
		Height:  uint16(t.Height),
	}
	copy(h.Sheet[:], t.Sheet)

	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return err
	}

	return binary.Write(w, binary.LittleEndian, t.Tiles)
}
