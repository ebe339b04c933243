/*
Package sprite implements the sprite sheet encoder and decoder.

A sprite sheet is a list of rectangular sprites cut from one or more source
images. There are two variants. A true color sheet (.tip) stores every pixel
as a packed 16-bit color. A shared palette sheet (.tsp) stores a single 256
entry palette of packed colors followed by every pixel as an 8-bit palette
index, slot 0 of the palette being transparent.

The file is written as a 16-bit sprite count, the palette if there is one,
and then for each sprite its 16-bit width and height followed by the pixel
data in row-major order. There is no compression and every field is
little-endian.
*/
package sprite

import (
	"errors"

	"github.com/bodgit/assetc/pixel"
)

const (
	// MaxSprites is the most sprites a single sheet can hold
	MaxSprites = 1<<16 - 1
	maxSide    = 1<<16 - 1
)

var (
	// ErrInvalidRegion is returned when a region lies outside its image
	ErrInvalidRegion = errors.New("sprite: region outside image bounds")
	// ErrTooManySprites is returned when a sheet would exceed MaxSprites
	ErrTooManySprites = errors.New("sprite: too many sprites")
	// ErrTooLarge is returned when a sprite side does not fit in 16 bits
	ErrTooLarge = errors.New("sprite: sprite too large")
	// ErrSheetSize is returned when a font sheet is not a whole number of
	// characters
	ErrSheetSize = errors.New("sprite: sheet size is not a multiple of the character size")
)

// True is a sprite of packed colors.
type True struct {
	Width  uint16
	Height uint16
	Pix    []pixel.Color
}

// Indexed is a sprite of indices into a shared palette.
type Indexed struct {
	Width  uint16
	Height uint16
	Pix    []uint8
}
