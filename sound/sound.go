/*
Package sound implements the sound bank format.

A sound bank holds any number of mono 8-bit signed sounds sharing a single
sample rate:

	count:u16 rate:u16
	len:u32 samples[len] ...

Every field is little-endian. Each sound is converted from a WAV file, mixed
down to mono, resampled and then has its trailing silence trimmed.
*/
package sound

import (
	"errors"
	"math"
)

// Sample rates of the two banks built from a sound list.
const (
	HighRate = 44100
	LowRate  = 22050
)

const (
	// MaxSounds is the most sounds a bank can hold
	MaxSounds = math.MaxUint16

	minSamples = 7
)

var (
	// ErrTooManySounds is returned when a bank holds more than MaxSounds
	ErrTooManySounds = errors.New("sound: too many sounds")
	// ErrRate is returned for a sample rate that doesn't fit the header
	ErrRate      = errors.New("sound: invalid sample rate")
	errNotEnough = errors.New("sound: not enough sound data")
)

// Bank is a list of sounds at the same sample rate.
type Bank struct {
	Rate   int
	Sounds [][]int8
}

// Pack converts a sample in the range [-1, 1] to 8-bit signed.
func Pack(x float64) int8 {
	v := math.Round((x + 1) * 128)
	if v > math.MaxUint8 {
		v = math.MaxUint8
	}
	if v < 0 {
		v = 0
	}
	return int8(uint8(v) ^ 0x80)
}

// Truncate trims trailing silence, keeping a single silent sample after the
// last audible one. Short sounds are left alone.
func Truncate(s []int8) []int8 {
	n := len(s) - 1
	for n > minSamples-2 && s[n] == 0 {
		n--
	}
	if n+2 < len(s) {
		return s[:n+2]
	}
	return s
}
