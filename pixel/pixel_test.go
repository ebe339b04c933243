package pixel

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPack(t *testing.T) {
	tables := []struct {
		name       string
		r, g, b, a uint8
		want       Color
	}{
		{"black", 0, 0, 0, 255, 0x8000},
		{"white", 255, 255, 255, 255, 0x8fff},
		{"red", 0xff, 0x00, 0x00, 0xff, 0x8f00},
		{"green", 0x00, 0xff, 0x00, 0xff, 0x80f0},
		{"blue", 0x00, 0x00, 0xff, 0xff, 0x800f},
		{"low bits dropped", 0x1f, 0x2e, 0x3d, 0x80, 0x8123},
		{"transparent", 255, 255, 255, 0, 0},
		{"just below threshold", 255, 255, 255, 127, 0},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			assert.Equal(t, table.want, Pack(table.r, table.g, table.b, table.a))
		})
	}
}

func TestPackNeverTransparentWhenOpaque(t *testing.T) {
	for a := 0; a < 256; a++ {
		c := Pack(0, 0, 0, uint8(a))
		if a < 128 {
			assert.Equal(t, Transparent, c)
		} else {
			assert.NotEqual(t, Transparent, c)
		}
	}
}

func TestFromColor(t *testing.T) {
	assert.Equal(t, Color(0x8f80), FromColor(color.NRGBA{0xff, 0x80, 0x00, 0xff}))
	assert.Equal(t, Transparent, FromColor(color.NRGBA{0xff, 0xff, 0xff, 0x10}))
	assert.Equal(t, Color(0x8fff), FromColor(color.White))
}

func TestRGBA(t *testing.T) {
	r, g, b, a := Color(0x8f08).RGBA()
	assert.Equal(t, []uint32{0xffff, 0, 0x8888, 0xffff}, []uint32{r, g, b, a})

	r, g, b, a = Transparent.RGBA()
	assert.Equal(t, []uint32{0, 0, 0, 0}, []uint32{r, g, b, a})

	assert.Equal(t, Color(0x8123), FromColor(Color(0x8123)))
}

func TestDistance(t *testing.T) {
	assert.Equal(t, 0, Distance(0x8123, 0x8123))
	assert.Equal(t, 3*15*15, Distance(0x8000, 0x8fff))
	// Opaque flag is ignored
	assert.Equal(t, 0, Distance(0x0123, 0x8123))
	assert.Equal(t, 1+4+9, Distance(0x8000, 0x8123))
}

func TestNearest(t *testing.T) {
	p := []Color{0, 0x8000, 0x8fff, 0x8f00, 0x8f00}

	// Exact match wins, first occurrence
	assert.Equal(t, 3, Nearest(p, 0x8f00))
	assert.Equal(t, 0, Nearest(p, 0))

	// Closest color
	assert.Equal(t, 3, Nearest(p, 0x8e11))
	assert.Equal(t, 2, Nearest(p, 0x8eee))

	// Ties go to the lowest index, 0 and 0x8000 are both distance 1 from
	// 0x8001 once the opaque bit is ignored
	assert.Equal(t, 0, Nearest(p, 0x8001))

	assert.Equal(t, -1, Nearest(nil, 0x8001))
}

func TestNearestLab(t *testing.T) {
	p := []Color{0, 0x8f00, 0x800f}
	assert.Equal(t, 1, NearestFunc(p, 0x8e01, Lab))
	assert.Equal(t, 2, NearestFunc(p, 0x810e, Lab))
}

func TestMetricByName(t *testing.T) {
	for _, name := range []string{"", "rgb", "lab"} {
		m, ok := MetricByName(name)
		assert.True(t, ok)
		assert.NotNil(t, m)
	}
	_, ok := MetricByName("hsv")
	assert.False(t, ok)
}
