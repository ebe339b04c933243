package stage

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
)

var errTooManyLayers = errors.New("stage: too many layers")

const endOfStream int32 = -1

type header struct {
	Version uint16
	Height  uint16
	YOffset uint16
	Layers  uint16
}

type layerRecord struct {
	Attr     uint8
	_        uint8
	Filename [filenameLen]byte
	ScrollX  int32
	ScrollY  int32
	OriginX  int32
	OriginY  int32
	Reserved [2]int32
}

// eventRecord follows the type byte of every event.
type eventRecord struct {
	DelayLo uint16
	DelayHi uint8
	_       uint16
	Subtype uint16
	Y       int32
	X       int32
}

type eventAttrs struct {
	Drop uint8
	Diff uint8
	_    [2]uint8
}

func checkVersion(v uint16) error {
	switch v {
	case Version2, Version3:
		return nil
	}
	return ErrUnsupportedVersion
}

type encoder struct {
	w       io.Writer
	version uint16
}

func (e *encoder) write(v interface{}) error {
	return binary.Write(e.w, binary.LittleEndian, v)
}

func (e *encoder) writeLayer(l Layer) error {
	r := layerRecord{
		Attr:    uint8(l.Format)<<4 | uint8(l.Kind)&0x0f,
		ScrollX: l.ScrollX,
		ScrollY: l.ScrollY,
		OriginX: l.OriginX,
		OriginY: l.OriginY,
	}

	name := l.Filename
	if len(name) > MaxFilename {
		name = name[:MaxFilename]
	}
	copy(r.Filename[:], name)

	if e.version == Version3 {
		r.Reserved[0] = -1
	}

	return e.write(&r)
}

func (e *encoder) writeEvent(ev Event) error {
	var a eventAttrs
	if e.version == Version3 {
		var err error
		if a.Drop, a.Diff, err = ev.attributes(); err != nil {
			return err
		}
	}

	if err := e.write(ev.Type); err != nil {
		return err
	}

	r := eventRecord{
		DelayLo: uint16(ev.Delay & 0xffff),
		DelayHi: uint8(ev.Delay >> 16),
		Subtype: ev.Subtype,
		Y:       ev.OffsetY,
		X:       ev.OffsetX,
	}
	if err := e.write(&r); err != nil {
		return err
	}

	if e.version != Version3 {
		return nil
	}

	return e.write(&a)
}

func (e *encoder) writeGroup(g Group) error {
	if g.Sentinel() {
		return e.write(endOfStream)
	}
	if g.Delta > math.MaxInt32 {
		return ErrDeltaRange
	}

	if err := e.write(uint32(g.Delta)); err != nil {
		return err
	}
	for _, ev := range g.Events {
		if err := e.writeEvent(ev); err != nil {
			return err
		}
	}
	return e.write(uint8(0))
}

// Encode writes s to w using the layout selected by its version.
func Encode(w io.Writer, s *Stage) error {
	if err := checkVersion(s.Version); err != nil {
		return err
	}
	if len(s.Layers) > math.MaxUint16 {
		return errTooManyLayers
	}

	e := encoder{w: w, version: s.Version}

	if err := e.write(&header{
		Version: s.Version,
		Height:  s.Height,
		YOffset: s.YOffset,
		Layers:  uint16(len(s.Layers)),
	}); err != nil {
		return err
	}

	for _, l := range s.Layers {
		if err := e.writeLayer(l); err != nil {
			return err
		}
	}

	for _, g := range s.Groups {
		if err := e.writeGroup(g); err != nil {
			return err
		}
		if g.Sentinel() {
			return nil
		}
	}

	// Groups built by hand may lack the sentinel
	return e.write(endOfStream)
}
