package stage

import (
	"bytes"
	"encoding/binary"
	"io"
	"strconv"
)

type decoder struct {
	r       io.Reader
	version uint16
}

func (d *decoder) read(v interface{}) error {
	err := binary.Read(d.r, binary.LittleEndian, v)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return errNotEnough
	}
	return err
}

func (d *decoder) readLayer() (Layer, error) {
	var r layerRecord
	if err := d.read(&r); err != nil {
		return Layer{}, err
	}

	name := r.Filename[:]
	if i := bytes.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}

	return Layer{
		Kind:     Kind(r.Attr & 0x0f),
		Format:   Format(r.Attr >> 4),
		Filename: string(name),
		ScrollX:  r.ScrollX,
		ScrollY:  r.ScrollY,
		OriginX:  r.OriginX,
		OriginY:  r.OriginY,
	}, nil
}

func (d *decoder) readEvent(t uint8, x int) (Event, error) {
	var r eventRecord
	if err := d.read(&r); err != nil {
		return Event{}, err
	}

	ev := Event{
		X:       x,
		Type:    t,
		Delay:   uint32(r.DelayHi)<<16 | uint32(r.DelayLo),
		Subtype: r.Subtype,
		OffsetX: r.X,
		OffsetY: r.Y,
	}

	if d.version != Version3 {
		return ev, nil
	}

	var a eventAttrs
	if err := d.read(&a); err != nil {
		return Event{}, err
	}
	if a.Drop != defaultDrop || a.Diff != 0 {
		ev.Attrs = make(map[string]string)
		if a.Drop != defaultDrop {
			ev.Attrs[AttrDrop] = strconv.Itoa(int(a.Drop))
			if int(a.Drop) < len(powerups) {
				ev.Attrs[AttrDrop] = Powerup(a.Drop).String()
			}
		}
		if a.Diff != 0 {
			ev.Attrs[AttrDiff] = strconv.Itoa(int(a.Diff))
		}
	}
	return ev, nil
}

func (d *decoder) readGroup(x int, delta int32) (Group, error) {
	g := Group{X: x, Delta: int64(delta)}
	for {
		var t uint8
		if err := d.read(&t); err != nil {
			return Group{}, err
		}
		if t == 0 {
			return g, nil
		}
		ev, err := d.readEvent(t, x)
		if err != nil {
			return Group{}, err
		}
		g.Events = append(g.Events, ev)
	}
}

// Decode reads a stage file of either version from r.
func Decode(r io.Reader) (*Stage, error) {
	d := decoder{r: r}

	var h header
	if err := d.read(&h); err != nil {
		return nil, err
	}
	if err := checkVersion(h.Version); err != nil {
		return nil, err
	}
	d.version = h.Version

	s := &Stage{
		Header: Header{Version: h.Version, Height: h.Height, YOffset: h.YOffset},
		Layers: make([]Layer, 0, h.Layers),
	}

	for i := 0; i < int(h.Layers); i++ {
		l, err := d.readLayer()
		if err != nil {
			return nil, err
		}
		s.Layers = append(s.Layers, l)
	}

	x := 0
	for {
		var delta int32
		if err := d.read(&delta); err != nil {
			return nil, err
		}
		if delta == endOfStream {
			s.Groups = append(s.Groups, Group{X: x, Delta: -1})
			return s, nil
		}

		x += int(delta)
		g, err := d.readGroup(x, delta)
		if err != nil {
			return nil, err
		}
		s.Groups = append(s.Groups, g)
	}
}
