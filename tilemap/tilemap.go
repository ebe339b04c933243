/*
Package tilemap implements the tilemap format used by tiled stage layers.

An image is cut into square tiles. Identical tiles are kept once in a shared
palette sprite sheet and the tilemap records, row by row, the index of each
tile in that sheet:

	version:u16 pad:u8 sheet:[13]byte width:u16 height:u16 tiles:[width*height]u16

The sheet name is NUL terminated and has no extension. Every field is
little-endian.
*/
package tilemap

import (
	"errors"
	"image"

	"github.com/bodgit/assetc/sprite"
)

const (
	// Version is the only supported version
	Version = 1

	// DefaultTileSize is the width and height of a tile in pixels
	DefaultTileSize = 16

	nameLen = 13
	// MaxSheetName is the longest sheet name that keeps its terminator
	MaxSheetName = nameLen - 1

	maxTiles = sprite.MaxSprites
	maxSide  = 1<<16 - 1
)

var (
	// ErrTileSize is returned when the image isn't a whole number of tiles
	ErrTileSize = errors.New("tilemap: image is not a multiple of the tile size")
	// ErrTooManyTiles is returned when there are more unique tiles than a
	// sheet can hold
	ErrTooManyTiles = errors.New("tilemap: too many unique tiles")
	// ErrSheetName is returned for a sheet name that doesn't fit
	ErrSheetName = errors.New("tilemap: sheet name too long")
	// ErrBadVersion is returned when reading an unknown version
	ErrBadVersion = errors.New("tilemap: unsupported version")
	errNotEnough  = errors.New("tilemap: not enough tilemap data")
	errTooLarge   = errors.New("tilemap: too many tiles across")
)

// Tilemap is a grid of indices into a tile sheet.
type Tilemap struct {
	Sheet  string
	Width  int
	Height int
	Tiles  []uint16
}

// Build cuts m into size by size tiles. It returns the map, without a sheet
// name, and the unique tiles in order of first appearance.
func Build(m image.Image, size int) (*Tilemap, []*sprite.True, error) {
	b := m.Bounds()
	if size <= 0 || b.Dx()%size != 0 || b.Dy()%size != 0 {
		return nil, nil, ErrTileSize
	}

	tileX, tileY := b.Dx()/size, b.Dy()/size
	if tileX > maxSide || tileY > maxSide {
		return nil, nil, errTooLarge
	}

	t := &Tilemap{
		Width:  tileX,
		Height: tileY,
		Tiles:  make([]uint16, 0, tileX*tileY),
	}

	var (
		tiles []*sprite.True
		seen  = make(map[string]uint16)
	)
	for ty := 0; ty < tileY; ty++ {
		for tx := 0; tx < tileX; tx++ {
			r := image.Rect(tx*size, ty*size, (tx+1)*size, (ty+1)*size)
			tile, err := sprite.Extract(m, &r)
			if err != nil {
				return nil, nil, err
			}

			k := key(tile)
			i, ok := seen[k]
			if !ok {
				if len(tiles) == maxTiles {
					return nil, nil, ErrTooManyTiles
				}
				i = uint16(len(tiles))
				seen[k] = i
				tiles = append(tiles, tile)
			}
			t.Tiles = append(t.Tiles, i)
		}
	}

	return t, tiles, nil
}

func key(t *sprite.True) string {
	b := make([]byte, 0, len(t.Pix)*2)
	for _, c := range t.Pix {
		b = append(b, byte(c), byte(c>>8))
	}
	return string(b)
}
