/*
Package stage implements the level script compiler.

A level script describes the scrolling layers of a stage and the enemies and
other objects spawned as the stage scrolls. The script is compiled into a
binary stage file made of a header, one fixed size record per layer, and the
spawn events grouped by the scroll position at which they trigger. Each group
stores its distance from the previous group so that the runtime only has to
keep a running total.

Two layouts are supported, selected by the version in the header. Version 2
writes the reserved layer fields as unsigned zeroes. Version 3 writes the
first reserved layer field as a signed -1 and adds four bytes of attributes,
such as the item dropped, to every event.
*/
package stage

import (
	"errors"
	"fmt"
)

// Supported file versions.
const (
	Version2 = 2
	Version3 = 3
)

const (
	// DefaultHeight is the height of the playfield in pixels
	DefaultHeight = 208
	spriteHeight  = 16

	// MaxFilename is the longest layer filename that is kept
	MaxFilename = 13
	filenameLen = MaxFilename + 1

	maxDelay = 1<<24 - 1
)

var (
	// ErrUnsupportedVersion is returned for an unknown file version
	ErrUnsupportedVersion = errors.New("stage: unsupported version")
	// ErrDeltaRange is returned when two groups are too far apart
	ErrDeltaRange = errors.New("stage: group distance out of range")
	errNotEnough  = errors.New("stage: not enough stage data")
)

// Kind is the depth a layer is drawn at.
type Kind uint8

// Layer kinds.
const (
	Background Kind = iota
	Terrain
	Foreground
)

func (k Kind) String() string {
	switch k {
	case Background:
		return "background"
	case Terrain:
		return "terrain"
	case Foreground:
		return "foreground"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Format is how a layer's graphics are stored.
type Format uint8

// Layer formats.
const (
	TiledImage Format = iota
	Tilemap
	PlainImage
)

func (f Format) String() string {
	switch f {
	case TiledImage:
		return "tiled image"
	case Tilemap:
		return "tilemap"
	case PlainImage:
		return "plain image"
	}
	return fmt.Sprintf("format(%d)", uint8(f))
}

// Layer describes a single scrolling layer. Scroll speeds are Q8.8 fixed
// point.
type Layer struct {
	Kind     Kind
	Format   Format
	Filename string
	ScrollX  int32
	ScrollY  int32
	OriginX  int32
	OriginY  int32
}

// Event spawns an object once the stage has scrolled to X.
type Event struct {
	X       int
	Type    uint8
	Delay   uint32
	Subtype uint16
	OffsetX int32
	OffsetY int32
	Attrs   map[string]string
}

// Script is a parsed level script.
type Script struct {
	Layers []Layer
	Events []Event
}

// Group is every event sharing a trigger position. Delta is the distance
// from the previous group, the final group has a Delta of -1 and no events.
type Group struct {
	X      int
	Delta  int64
	Events []Event
}

// Sentinel reports whether g marks the end of the stream.
func (g Group) Sentinel() bool {
	return g.Delta < 0
}

// Header is the fixed part of a stage file.
type Header struct {
	Version uint16
	Height  uint16
	YOffset uint16
}

// NewHeader returns the header for a playfield of the given height with
// objects spawned on the middle row.
func NewHeader(version, height int) Header {
	return Header{
		Version: uint16(version),
		Height:  uint16(height),
		YOffset: uint16((height - spriteHeight) / 2),
	}
}

// Stage is a compiled stage.
type Stage struct {
	Header
	Layers []Layer
	Groups []Group
}

// Compile groups the events of s into a stage.
func Compile(s *Script, h Header) *Stage {
	return &Stage{
		Header: h,
		Layers: s.Layers,
		Groups: GroupEvents(s.Events),
	}
}
