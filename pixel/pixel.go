/*
Package pixel implements the packed 16-bit color used by the game runtime.

A packed color keeps the upper nibble of each 8-bit red, green and blue
channel and sets bit 15 to mark the pixel as opaque:

	1000RRRRGGGGBBBB

The value 0 is reserved for a transparent pixel and is never produced for an
opaque one.
*/
package pixel

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	opaque         = 0x8000
	alphaThreshold = 128

	// PaletteSize is the number of entries in a shared palette
	PaletteSize = 256
)

// Transparent is the packed value of any pixel with alpha below 128.
const Transparent Color = 0

// Color is a packed 16-bit color. It implements the color.Color interface.
type Color uint16

// Palette is a shared palette. Slot 0 is always Transparent.
type Palette [PaletteSize]Color

// Pack converts 8-bit channels to a packed color.
func Pack(r, g, b, a uint8) Color {
	if a < alphaThreshold {
		return Transparent
	}
	return Color(opaque | uint16(r&0xf0)<<4 | uint16(g&0xf0) | uint16(b&0xf0)>>4)
}

// FromColor converts any color to a packed color using its non-alpha
// premultiplied channels.
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Pack(n.R, n.G, n.B, n.A)
}

func (c Color) nibbles() (r, g, b int) {
	return int(c>>8) & 0x0f, int(c>>4) & 0x0f, int(c) & 0x0f
}

// RGBA expands the nibbles back to 16-bit channels.
func (c Color) RGBA() (r, g, b, a uint32) {
	if c == Transparent {
		return 0, 0, 0, 0
	}
	nr, ng, nb := c.nibbles()
	// 0xf * 0x1111 == 0xffff
	return uint32(nr) * 0x1111, uint32(ng) * 0x1111, uint32(nb) * 0x1111, 0xffff
}

// Model converts any color.Color to a packed Color.
var Model = color.ModelFunc(func(c color.Color) color.Color {
	if p, ok := c.(Color); ok {
		return p
	}
	return FromColor(c)
})

// Distance returns the sum of the squared differences of the red, green and
// blue nibbles. The opaque flag is ignored.
func Distance(a, b Color) int {
	ar, ag, ab := a.nibbles()
	br, bg, bb := b.nibbles()
	return (ar-br)*(ar-br) + (ag-bg)*(ag-bg) + (ab-bb)*(ab-bb)
}

// Metric measures how far apart two packed colors are.
type Metric func(a, b Color) float64

// RGB is the default metric, Distance as a float.
func RGB(a, b Color) float64 {
	return float64(Distance(a, b))
}

func (c Color) colorful() colorful.Color {
	r, g, b := c.nibbles()
	return colorful.Color{R: float64(r) / 15, G: float64(g) / 15, B: float64(b) / 15}
}

// Lab measures the CIE76 distance between the colors in L*a*b* space.
func Lab(a, b Color) float64 {
	return a.colorful().DistanceLab(b.colorful())
}

// Nearest returns the index of c in p using the RGB metric.
func Nearest(p []Color, c Color) int {
	return NearestFunc(p, c, RGB)
}

// NearestFunc returns the index of the first entry in p equal to c, or
// failing that the index of the entry closest to c according to m. Ties go
// to the lowest index. It returns -1 if p is empty.
func NearestFunc(p []Color, c Color, m Metric) int {
	for i, e := range p {
		if e == c {
			return i
		}
	}

	best, bestDist := -1, 0.0
	for i, e := range p {
		if d := m(e, c); best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// MetricByName maps a configuration name to a Metric.
func MetricByName(name string) (Metric, bool) {
	switch name {
	case "", "rgb":
		return RGB, true
	case "lab":
		return Lab, true
	}
	return nil, false
}
