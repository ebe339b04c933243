package sprite

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bodgit/assetc/pixel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red         = color.NRGBA{0xff, 0x00, 0x00, 0xff}
	green       = color.NRGBA{0x00, 0xff, 0x00, 0xff}
	blue        = color.NRGBA{0x00, 0x00, 0xff, 0xff}
	transparent = color.NRGBA{0xff, 0xff, 0xff, 0x00}
)

// checker returns a w by h image alternating between a and b.
func checker(w, h int, a, b color.Color) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				m.Set(x, y, a)
			} else {
				m.Set(x, y, b)
			}
		}
	}
	return m
}

func TestExtract(t *testing.T) {
	m := checker(4, 2, red, transparent)

	s, err := Extract(m, nil)
	require.NoError(t, err)
	assert.Equal(t, uint16(4), s.Width)
	assert.Equal(t, uint16(2), s.Height)
	assert.Equal(t, []pixel.Color{
		0x8f00, 0, 0x8f00, 0,
		0, 0x8f00, 0, 0x8f00,
	}, s.Pix)

	r := image.Rect(1, 0, 3, 2)
	s, err = Extract(m, &r)
	require.NoError(t, err)
	assert.Equal(t, uint16(2), s.Width)
	assert.Equal(t, []pixel.Color{0, 0x8f00, 0x8f00, 0}, s.Pix)
}

func TestExtractOffsetBounds(t *testing.T) {
	m := checker(4, 4, red, green).SubImage(image.Rect(2, 2, 4, 4))

	r := image.Rect(0, 0, 1, 1)
	s, err := Extract(m, &r)
	require.NoError(t, err)
	assert.Equal(t, []pixel.Color{0x8f00}, s.Pix)
}

func TestExtractInvalidRegion(t *testing.T) {
	m := checker(4, 4, red, green)

	for _, r := range []image.Rectangle{
		image.Rect(3, 3, 5, 5),
		image.Rect(-1, 0, 2, 2),
		image.Rect(0, 0, 4, 5),
	} {
		_, err := Extract(m, &r)
		assert.True(t, errors.Is(err, ErrInvalidRegion), "%v", r)
	}
}

func TestCache(t *testing.T) {
	var opened int
	c := NewCache()
	c.open = func(path string) (image.Image, error) {
		opened++
		return checker(2, 2, red, blue), nil
	}

	r1 := image.Rect(0, 0, 1, 1)
	r2 := image.Rect(1, 0, 2, 1)
	sprites, err := Apportion(c, []Task{
		{Source: Path("a.png"), Region: &r1},
		{Source: Path("a.png"), Region: &r2},
		{Source: Decoded(checker(1, 1, green, green))},
	})
	require.NoError(t, err)
	require.Len(t, sprites, 3)
	assert.Equal(t, 1, opened)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, []pixel.Color{0x8f00}, sprites[0].Pix)
	assert.Equal(t, []pixel.Color{0x800f}, sprites[1].Pix)
	assert.Equal(t, []pixel.Color{0x80f0}, sprites[2].Pix)

	c.Reset()
	assert.Equal(t, 0, c.Len())
}

func TestCacheFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "sheet.png")

	f, err := os.Create(file)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, checker(2, 2, red, blue)))
	require.NoError(t, f.Close())

	c := NewCache()
	m, err := c.Resolve(Path(file))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 2), m.Bounds())

	_, err = c.Resolve(Path(filepath.Join(dir, "missing.png")))
	assert.Error(t, err)
}

func TestParseList(t *testing.T) {
	tasks, err := ParseList(strings.NewReader("player.png\n\n  enemies.png:0, 16,32,8 \n"))
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	assert.Equal(t, "player.png", tasks[0].Source.String())
	assert.Nil(t, tasks[0].Region)

	assert.Equal(t, "enemies.png", tasks[1].Source.String())
	require.NotNil(t, tasks[1].Region)
	assert.Equal(t, image.Rect(0, 16, 32, 24), *tasks[1].Region)

	_, err = ParseList(strings.NewReader("a.png:1,2,3\n"))
	assert.Error(t, err)

	_, err = ParseList(strings.NewReader("a.png:1,2,3,x\n"))
	assert.Error(t, err)

	for _, line := range []string{"a.png:5,0,-3,1\n", "ok.png\na.png:0,5,1,-3\n"} {
		_, err = ParseList(strings.NewReader(line))
		assert.True(t, errors.Is(err, ErrInvalidRegion), "%q", line)
	}

	_, err = ParseList(strings.NewReader("ok.png\na.png:0,5,1,-3\n"))
	assert.ErrorContains(t, err, "line 2")
}

func TestSliceSheet(t *testing.T) {
	m := checker(6, 4, red, blue)

	tasks, err := SliceSheet(m, 3, 2)
	require.NoError(t, err)
	require.Len(t, tasks, 4)
	assert.Equal(t, image.Rect(3, 0, 6, 2), *tasks[1].Region)
	assert.Equal(t, image.Rect(0, 2, 3, 4), *tasks[2].Region)

	_, err = SliceSheet(m, 4, 2)
	assert.Equal(t, ErrSheetSize, err)
}

func TestBuildPaletteSingleColor(t *testing.T) {
	x := pixel.Color(0x8abc)
	p := BuildPalette([]*True{
		{Width: 2, Height: 1, Pix: []pixel.Color{0, x}},
		{Width: 1, Height: 1, Pix: []pixel.Color{x}},
	})

	var want pixel.Palette
	want[1] = x
	assert.Equal(t, want, p)
}

func TestBuildPaletteEmpty(t *testing.T) {
	assert.Equal(t, pixel.Palette{}, BuildPalette(nil))
	assert.Equal(t, pixel.Palette{}, BuildPalette([]*True{{Width: 1, Height: 1, Pix: []pixel.Color{0}}}))
}

func TestBuildPaletteOrder(t *testing.T) {
	p := BuildPalette([]*True{
		{Pix: []pixel.Color{0x8001, 0x8002, 0x8002, 0x8003}},
		{Pix: []pixel.Color{0x8004, 0x8003, 0, 0}},
	})

	// 0x8002 and 0x8003 are both used twice, 0x8002 was seen first
	assert.Equal(t, []pixel.Color{0, 0x8002, 0x8003, 0x8001, 0x8004, 0}, p[:6])
}

func TestBuildPaletteTruncates(t *testing.T) {
	s := &True{}
	for i := 0; i < 300; i++ {
		// Make later colors more frequent
		for j := 0; j <= i/100; j++ {
			s.Pix = append(s.Pix, pixel.Color(0x8000|i))
		}
	}

	p := BuildPalette([]*True{s})
	assert.Equal(t, pixel.Color(0), p[0])
	assert.Equal(t, pixel.Color(0x8000|200), p[1])
	assert.Equal(t, pixel.Color(0x8000|299), p[100])
	assert.Equal(t, pixel.Color(0x8000|100), p[101])
	assert.Equal(t, pixel.Color(0x8000|54), p[255])
}

func TestBuildMedianCutPalette(t *testing.T) {
	p := BuildMedianCutPalette([]*True{
		{Pix: []pixel.Color{0, 0x8f00, 0x8f00, 0x800f}},
	})
	assert.Equal(t, pixel.Transparent, p[0])
	assert.NotEqual(t, pixel.Transparent, p[1])

	assert.Equal(t, pixel.Palette{}, BuildMedianCutPalette([]*True{{Pix: []pixel.Color{0}}}))
}

func TestConvert(t *testing.T) {
	var p pixel.Palette
	p[1] = 0x8f00
	p[2] = 0x800f

	out := Convert(&True{Width: 2, Height: 2, Pix: []pixel.Color{0, 0x8f00, 0x8e01, 0x801e}}, &p)
	assert.Equal(t, uint16(2), out.Width)
	assert.Equal(t, uint16(2), out.Height)
	assert.Equal(t, []uint8{0, 1, 1, 2}, out.Pix)
}

func TestEncodeDecode(t *testing.T) {
	sprites := []*True{
		{Width: 2, Height: 1, Pix: []pixel.Color{0x8000, 0x8fff}},
		{Width: 0, Height: 0, Pix: []pixel.Color{}},
	}

	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, sprites))
	assert.Equal(t, []byte{
		0x02, 0x00,
		0x02, 0x00, 0x01, 0x00, 0x00, 0x80, 0xff, 0x8f,
		0x00, 0x00, 0x00, 0x00,
	}, b.Bytes())

	decoded, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, sprites, decoded)
}

func TestEncodeDecodeShared(t *testing.T) {
	var p pixel.Palette
	p[1] = 0x8123
	sprites := []*Indexed{{Width: 1, Height: 3, Pix: []uint8{0, 1, 1}}}

	b := new(bytes.Buffer)
	require.NoError(t, EncodeShared(b, &p, sprites))
	assert.Equal(t, 2+512+4+3, b.Len())
	assert.Equal(t, []byte{0x01, 0x00, 0x00, 0x00, 0x23, 0x81}, b.Bytes()[:6])

	dp, decoded, err := DecodeShared(b)
	require.NoError(t, err)
	assert.Equal(t, p, *dp)
	assert.Equal(t, sprites, decoded)
}

func TestEncodeTooMany(t *testing.T) {
	sprites := make([]*Indexed, MaxSprites+1)
	assert.Equal(t, ErrTooManySprites, EncodeShared(new(bytes.Buffer), &pixel.Palette{}, sprites))
}

func TestDecodeTruncated(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte{0x01, 0x00, 0x02, 0x00}))
	assert.Equal(t, errNotEnough, err)

	_, _, err = DecodeShared(bytes.NewReader([]byte{0x01, 0x00}))
	assert.Equal(t, errNotEnough, err)
}
