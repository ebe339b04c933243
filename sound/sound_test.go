package sound

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type frames struct {
	data [][2]float64
}

func (f *frames) Stream(samples [][2]float64) (int, bool) {
	if len(f.data) == 0 {
		return 0, false
	}
	n := copy(samples, f.data)
	f.data = f.data[n:]
	return n, true
}

func (f *frames) Err() error {
	return nil
}

func writeWAV(t *testing.T, rate, channels int, data [][2]float64) string {
	t.Helper()

	file := filepath.Join(t.TempDir(), "test.wav")
	f, err := os.Create(file)
	require.NoError(t, err)
	defer f.Close()

	format := beep.Format{
		SampleRate:  beep.SampleRate(rate),
		NumChannels: channels,
		Precision:   2,
	}
	require.NoError(t, wav.Encode(f, &frames{data: data}, format))

	return file
}

func load(t *testing.T, file string, rate int) []int8 {
	t.Helper()

	f, err := os.Open(file)
	require.NoError(t, err)
	defer f.Close()

	s, err := Load(f, rate)
	require.NoError(t, err)

	return s
}

func TestPack(t *testing.T) {
	tables := []struct {
		in   float64
		want int8
	}{
		{0, 0},
		{1, 127},
		{-1, -128},
		{0.5, 64},
		{-0.5, -64},
		{0.25, 32},
		{2, 127},
		{-2, -128},
	}

	for _, table := range tables {
		assert.Equal(t, table.want, Pack(table.in), "%v", table.in)
	}
}

func TestTruncate(t *testing.T) {
	tables := []struct {
		name string
		in   []int8
		want []int8
	}{
		{"silent", []int8{1, 0, 0, 0, 0, 0, 0, 0, 0, 0}, []int8{1, 0, 0, 0, 0, 0, 0}},
		{"tail", []int8{1, 2, 3, 4, 5, 6, 7, 8, 0, 0}, []int8{1, 2, 3, 4, 5, 6, 7, 8, 0}},
		{"audible", []int8{1, 2, 3, 4, 5, 6, 7, 8}, []int8{1, 2, 3, 4, 5, 6, 7, 8}},
		{"short", []int8{0, 0}, []int8{0, 0}},
		{"empty", []int8{}, []int8{}},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			assert.Equal(t, table.want, Truncate(table.in))
		})
	}
}

func TestLoadMono(t *testing.T) {
	data := [][2]float64{{0.5, 0.5}, {-0.5, -0.5}, {0.25, 0.25}}
	for i := 0; i < 10; i++ {
		data = append(data, [2]float64{})
	}

	s := load(t, writeWAV(t, LowRate, 1, data), LowRate)
	assert.Equal(t, []int8{64, -64, 32, 0, 0, 0, 0}, s)
}

func TestLoadStereo(t *testing.T) {
	data := [][2]float64{{0.5, 0}, {0, -0.5}, {0.5, 0.5}, {0.25, 0.25}, {0.25, 0.25}, {0.25, 0.25}, {0.25, 0.25}}

	s := load(t, writeWAV(t, LowRate, 2, data), LowRate)
	assert.Equal(t, []int8{32, -32, 64, 32, 32, 32, 32}, s)
}

func TestLoadResample(t *testing.T) {
	data := make([][2]float64, 100)
	for i := range data {
		data[i] = [2]float64{0.5, 0.5}
	}

	s := load(t, writeWAV(t, LowRate, 1, data), HighRate)
	assert.InDelta(t, 200, len(s), 10)
	assert.Equal(t, int8(64), s[100])
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(strings.NewReader("not a wav file"), LowRate)
	assert.Error(t, err)

	_, err = Load(strings.NewReader(""), 0)
	assert.Equal(t, ErrRate, err)
}

func TestParseList(t *testing.T) {
	files, err := ParseList(strings.NewReader("shot.wav\n\n boom.wav \n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"shot.wav", "boom.wav"}, files)
}

func TestEncodeDecode(t *testing.T) {
	b := &Bank{
		Rate:   LowRate,
		Sounds: [][]int8{{1, -1, 0}, {}},
	}

	buf := new(bytes.Buffer)
	require.NoError(t, Encode(buf, b))
	assert.Equal(t, []byte{
		0x02, 0x00, 0x22, 0x56,
		0x03, 0x00, 0x00, 0x00, 0x01, 0xff, 0x00,
		0x00, 0x00, 0x00, 0x00,
	}, buf.Bytes())

	decoded, err := Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, b, decoded)
}

func TestEncodeErrors(t *testing.T) {
	assert.Equal(t, ErrRate, Encode(new(bytes.Buffer), &Bank{Rate: 70000}))
	assert.Equal(t, ErrTooManySounds, Encode(new(bytes.Buffer), &Bank{Rate: LowRate, Sounds: make([][]int8, MaxSounds+1)}))
}

func TestDecodeTruncated(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte{0x01, 0x00, 0x22, 0x56, 0x02, 0x00, 0x00, 0x00, 0x01}))
	assert.Equal(t, errNotEnough, err)
}
