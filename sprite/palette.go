package sprite

import (
	"image"
	"image/color"
	"sort"

	"github.com/bodgit/assetc/pixel"
	"github.com/ericpauley/go-quantize/quantize"
)

type colorCount struct {
	color pixel.Color
	count int
}

// countColors returns every opaque color used by the sprites in the order
// they are first seen, along with how often it occurs.
func countColors(sprites []*True) []colorCount {
	index := make(map[pixel.Color]int)
	var counts []colorCount
	for _, t := range sprites {
		for _, c := range t.Pix {
			if c == pixel.Transparent {
				continue
			}
			i, ok := index[c]
			if !ok {
				i = len(counts)
				index[c] = i
				counts = append(counts, colorCount{color: c})
			}
			counts[i].count++
		}
	}
	return counts
}

// BuildPalette returns a palette of the 255 most used opaque colors across
// all of the sprites, most used first. Colors used equally often keep the
// order in which they were first seen. Unused slots are left transparent.
func BuildPalette(sprites []*True) pixel.Palette {
	counts := countColors(sprites)
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].count > counts[j].count
	})

	var p pixel.Palette
	for i := 0; i < len(counts) && i < pixel.PaletteSize-1; i++ {
		p[i+1] = counts[i].color
	}
	return p
}

// BuildMedianCutPalette returns a palette of up to 255 opaque colors chosen
// by median cut over every opaque pixel of the sprites.
func BuildMedianCutPalette(sprites []*True) pixel.Palette {
	var p pixel.Palette

	var n int
	for _, t := range sprites {
		for _, c := range t.Pix {
			if c != pixel.Transparent {
				n++
			}
		}
	}
	if n == 0 {
		return p
	}

	// Lay every opaque pixel out in a single row
	m := image.NewNRGBA(image.Rect(0, 0, n, 1))
	x := 0
	for _, t := range sprites {
		for _, c := range t.Pix {
			if c != pixel.Transparent {
				m.Set(x, 0, c)
				x++
			}
		}
	}

	q := quantize.MedianCutQuantizer{}
	for i, c := range q.Quantize(make(color.Palette, 0, pixel.PaletteSize-1), m) {
		if i >= pixel.PaletteSize-1 {
			break
		}
		p[i+1] = pixel.FromColor(c)
	}
	return p
}

// Convert maps every pixel of t to the index of its nearest palette entry.
func Convert(t *True, p *pixel.Palette) *Indexed {
	return ConvertFunc(t, p, pixel.RGB)
}

// ConvertFunc is Convert using m to find the nearest palette entry.
func ConvertFunc(t *True, p *pixel.Palette, m pixel.Metric) *Indexed {
	seen := make(map[pixel.Color]uint8)
	out := &Indexed{
		Width:  t.Width,
		Height: t.Height,
		Pix:    make([]uint8, len(t.Pix)),
	}
	for i, c := range t.Pix {
		idx, ok := seen[c]
		if !ok {
			idx = uint8(pixel.NearestFunc(p[:], c, m))
			seen[c] = idx
		}
		out.Pix[i] = idx
	}
	return out
}
