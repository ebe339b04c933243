package sound

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
)

// Linear interpolation between neighbouring samples.
const resampleQuality = 1

const bufferSize = 512

// Load decodes a WAV stream and converts it to a mono sound at rate.
func Load(r io.Reader, rate int) ([]int8, error) {
	if rate <= 0 || rate > math.MaxUint16 {
		return nil, ErrRate
	}

	s, format, err := wav.Decode(r)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	var streamer beep.Streamer = s
	if format.SampleRate != beep.SampleRate(rate) {
		streamer = beep.Resample(resampleQuality, format.SampleRate, beep.SampleRate(rate), s)
	}

	var (
		samples []int8
		buf     = make([][2]float64, bufferSize)
	)
	for {
		n, ok := streamer.Stream(buf)
		for _, frame := range buf[:n] {
			// Mono sources have the same sample on both channels
			samples = append(samples, Pack((frame[0]+frame[1])/2))
		}
		if !ok {
			break
		}
	}
	if err := streamer.Err(); err != nil {
		return nil, err
	}

	return Truncate(samples), nil
}

// ParseList reads a sound list, one WAV filename per line. Blank lines are
// ignored.
func ParseList(r io.Reader) ([]string, error) {
	var files []string

	s := bufio.NewScanner(r)
	for s.Scan() {
		if line := strings.TrimSpace(s.Text()); line != "" {
			files = append(files, line)
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("sound: reading list: %w", err)
	}

	return files, nil
}
