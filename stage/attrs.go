package stage

import (
	"fmt"
	"strconv"
	"strings"
)

// Powerup is an item dropped when an object is destroyed.
type Powerup uint8

// Powerups in the order the runtime expects them.
const (
	Score Powerup = iota
	OneUp
	Pulse
	Spray
	Beam
	Track
	Drone
	Special
)

// defaultDrop is written for events without a drop attribute.
const defaultDrop = uint8(Score)

var powerups = [...]string{"score", "oneup", "pulse", "spray", "beam", "track", "drone", "special"}

func (p Powerup) String() string {
	if int(p) < len(powerups) {
		return powerups[p]
	}
	return fmt.Sprintf("powerup(%d)", uint8(p))
}

// ParsePowerup accepts either a powerup name or a raw byte value.
func ParsePowerup(s string) (Powerup, error) {
	for i, name := range powerups {
		if strings.EqualFold(s, name) {
			return Powerup(i), nil
		}
	}
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("unknown powerup %q", s)
	}
	return Powerup(n), nil
}

// Attribute keys understood by version 3 stages. Any other key is carried
// through unchanged and ignored by the writer.
const (
	AttrDrop = "drop"
	AttrDiff = "diff"
)

func checkAttr(k, v string) error {
	_, err := attrByte(k, v)
	return err
}

func attrByte(k, v string) (uint8, error) {
	switch k {
	case AttrDrop:
		p, err := ParsePowerup(v)
		return uint8(p), err
	case AttrDiff:
		n, err := strconv.ParseUint(v, 10, 8)
		return uint8(n), err
	}
	return 0, nil
}

// attributes returns the drop and difficulty bytes of e.
func (e Event) attributes() (drop, diff uint8, err error) {
	drop = defaultDrop
	if v, ok := e.Attrs[AttrDrop]; ok {
		if drop, err = attrByte(AttrDrop, v); err != nil {
			return 0, 0, fmt.Errorf("stage: attribute %s: %w", AttrDrop, err)
		}
	}
	if v, ok := e.Attrs[AttrDiff]; ok {
		if diff, err = attrByte(AttrDiff, v); err != nil {
			return 0, 0, fmt.Errorf("stage: attribute %s: %w", AttrDiff, err)
		}
	}
	return drop, diff, nil
}
