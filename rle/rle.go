/*
Package rle implements the run-length encoding used for compressed pictures.

The stream is a sequence of runs, each introduced by a header byte:

	0x00-0x7f  literal run of header+1 values, which follow the header
	0x80-0xfe  repeat run of header-0x7f copies of the previous value
	0xff       end of stream

Values are either 8 or 16 bits wide and stored little-endian. The previous
value starts as 0 so a stream may open with a repeat run of zeroes. A repeat
run is never longer than 127 values so that its header can never collide
with the end of stream marker.
*/
package rle

import (
	"errors"
	"fmt"
	"io"
)

const (
	// MaxLiteral is the longest literal run emitted by Encode
	MaxLiteral = 127
	// MaxRepeat is the longest repeat run emitted by Encode
	MaxRepeat = 127

	repeatBase = 0x7f
	// End marks the end of the stream
	End = 0xff
)

var (
	errBadWidth   = errors.New("rle: value width must be 1 or 2")
	errBadToken   = errors.New("rle: invalid token")
	errNotEnough  = errors.New("rle: not enough data")
	errTooMuch    = errors.New("rle: too much data")
	errValueRange = errors.New("rle: value does not fit width")
)

// Width is the size in bytes of each value in the stream.
type Width int

// Supported widths.
const (
	Byte Width = 1
	Word Width = 2
)

// Token is a single run. A literal run carries its values, a repeat run
// carries the single repeated value and the number of copies.
type Token struct {
	Repeat bool
	Count  int
	Values []uint16
}

// Len returns the number of values the token expands to.
func (t Token) Len() int {
	return t.Count
}

// Header returns the header byte for the token.
func (t Token) Header() byte {
	if t.Repeat {
		return byte(repeatBase + t.Count)
	}
	return byte(t.Count - 1)
}

func (t Token) valid() bool {
	if t.Repeat {
		return t.Count >= 1 && t.Count <= MaxRepeat && len(t.Values) == 1
	}
	return t.Count >= 1 && t.Count <= MaxLiteral+1 && len(t.Values) == t.Count
}

type mode int

const (
	literal mode = iota
	repeat
)

// encoder is the state carried between values.
type encoder struct {
	values []uint16
	tokens []Token

	mode     mode
	last     uint16
	haveLast bool

	litStart int
	litLen   int
	repLen   int
}

func (e *encoder) emitLiteral() {
	if e.litLen == 0 {
		return
	}
	run := make([]uint16, e.litLen)
	copy(run, e.values[e.litStart:e.litStart+e.litLen])
	e.tokens = append(e.tokens, Token{Count: e.litLen, Values: run})
}

func (e *encoder) emitRepeat() {
	e.tokens = append(e.tokens, Token{Repeat: true, Count: e.repLen, Values: []uint16{e.last}})
}

func (e *encoder) encode() []Token {
	// The runtime decoder starts with a previous value of 0
	e.haveLast = true

	for i := 0; i <= len(e.values); {
		end := i == len(e.values)
		var v uint16
		if !end {
			v = e.values[i]
		}

		switch e.mode {
		case repeat:
			if end || v != e.last || e.repLen == MaxRepeat {
				e.emitRepeat()
				switch {
				case end:
					return e.tokens
				case v != e.last:
					e.mode = literal
					e.litStart, e.litLen = i, 0
					e.haveLast = false
				default:
					e.repLen = 0
				}
				// Reconsider the same value in the new state
				continue
			}
			e.repLen++
		case literal:
			same := !end && e.haveLast && v == e.last
			if end || same || e.litLen == MaxLiteral {
				e.emitLiteral()
				if same {
					e.mode = repeat
					e.repLen = 1
				}
				e.litStart, e.litLen = i, 1
			} else {
				e.litLen++
			}
			e.last, e.haveLast = v, !end
		}
		i++
	}

	return e.tokens
}

// Encode splits values into literal and repeat runs.
func Encode(values []uint16) []Token {
	e := encoder{values: values}
	return e.encode()
}

// EncodeBytes is Encode for a stream of 8-bit values.
func EncodeBytes(b []byte) []Token {
	values := make([]uint16, len(b))
	for i, v := range b {
		values[i] = uint16(v)
	}
	return Encode(values)
}

// Decode expands tokens back into the original values.
func Decode(tokens []Token) ([]uint16, error) {
	var out []uint16
	for _, t := range tokens {
		if !t.valid() {
			return nil, errBadToken
		}
		if t.Repeat {
			for i := 0; i < t.Count; i++ {
				out = append(out, t.Values[0])
			}
			continue
		}
		out = append(out, t.Values...)
	}
	return out, nil
}

// Write serializes tokens to w, each value w bytes wide, followed by the end
// of stream marker.
func Write(w io.Writer, tokens []Token, width Width) error {
	if width != Byte && width != Word {
		return errBadWidth
	}

	buf := make([]byte, 0, 1+MaxLiteral*2+2)
	for _, t := range tokens {
		if !t.valid() || t.Header() == End {
			return errBadToken
		}
		buf = append(buf[:0], t.Header())
		if !t.Repeat {
			for _, v := range t.Values {
				switch width {
				case Byte:
					if v > 0xff {
						return errValueRange
					}
					buf = append(buf, byte(v))
				case Word:
					buf = append(buf, byte(v), byte(v>>8))
				}
			}
		}
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}

	_, err := w.Write([]byte{End})
	return err
}

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

// Read reads a stream written by Write and returns the expanded values. If n
// is not negative the stream must expand to exactly n values.
func Read(r io.Reader, width Width, n int) ([]uint16, error) {
	if width != Byte && width != Word {
		return nil, errBadWidth
	}

	var (
		out  []uint16
		last uint16
		tmp  [2]byte
	)
	for {
		if err := readFull(r, tmp[:1]); err != nil {
			if err == io.ErrUnexpectedEOF {
				return nil, errNotEnough
			}
			return nil, err
		}
		h := tmp[0]

		switch {
		case h == End:
			if n >= 0 && len(out) != n {
				return nil, fmt.Errorf("rle: expanded to %d values, expected %d", len(out), n)
			}
			return out, nil
		case h > repeatBase:
			for i := 0; i < int(h)-repeatBase; i++ {
				out = append(out, last)
			}
		default:
			for i := 0; i <= int(h); i++ {
				if err := readFull(r, tmp[:width]); err != nil {
					if err == io.ErrUnexpectedEOF {
						return nil, errNotEnough
					}
					return nil, err
				}
				last = uint16(tmp[0])
				if width == Word {
					last |= uint16(tmp[1]) << 8
				}
				out = append(out, last)
			}
		}

		if n >= 0 && len(out) > n {
			return nil, errTooMuch
		}
	}
}
