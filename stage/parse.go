package stage

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const fixShift = 8

// ParseError reports a malformed line of a level script.
type ParseError struct {
	Line int
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("stage: line %d: %s: %v", e.Line, e.Msg, e.Err)
	}
	return fmt.Sprintf("stage: line %d: %s", e.Line, e.Msg)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Fix converts an integer or an n/d fraction to Q8.8 fixed point. Fractions
// are rounded towards negative infinity.
func Fix(s string) (int32, error) {
	s = strings.TrimSpace(s)

	num, den, ok := strings.Cut(s, "/")
	n, err := strconv.ParseInt(strings.TrimSpace(num), 10, 32)
	if err != nil {
		return 0, err
	}
	if !ok {
		return fixRange(n << fixShift)
	}

	d, err := strconv.ParseInt(strings.TrimSpace(den), 10, 32)
	if err != nil {
		return 0, err
	}
	if d == 0 {
		return 0, strconv.ErrRange
	}

	n <<= fixShift
	q := n / d
	if (n%d != 0) && ((n < 0) != (d < 0)) {
		q--
	}
	return fixRange(q)
}

func fixRange(v int64) (int32, error) {
	if v < -1<<31 || v > 1<<31-1 {
		return 0, strconv.ErrRange
	}
	return int32(v), nil
}

var (
	kinds   = map[byte]Kind{'b': Background, 't': Terrain, 'f': Foreground}
	formats = map[byte]Format{'i': TiledImage, 't': Tilemap, 'p': PlainImage}
)

// block is an open wave. Its events are kept apart from the main list
// until the closing end.
type block struct {
	bias   int32
	events []Event
}

type parser struct {
	line   int
	x      int // advanced by sprite, wave and rwave only
	block  *block
	script Script
}

func (p *parser) errorf(err error, format string, args ...interface{}) error {
	return &ParseError{Line: p.line, Msg: fmt.Sprintf(format, args...), Err: err}
}

// fields splits a comma separated argument list, checking there are at least
// n mandatory values.
func (p *parser) fields(args string, n int) ([]string, error) {
	f := strings.Split(args, ",")
	for i := range f {
		f[i] = strings.TrimSpace(f[i])
	}
	if len(f) < n {
		return nil, p.errorf(nil, "expected %d values, got %d", n, len(f))
	}
	return f, nil
}

func (p *parser) number(s string, min, max int64) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, p.errorf(err, "invalid number %q", s)
	}
	if v < min || v > max {
		return 0, p.errorf(nil, "%d out of range %d to %d", v, min, max)
	}
	return v, nil
}

func (p *parser) attrs(extra []string) (map[string]string, error) {
	if len(extra) == 0 {
		return nil, nil
	}
	attrs := make(map[string]string, len(extra))
	for _, e := range extra {
		k, v, ok := strings.Cut(e, "=")
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if !ok || k == "" {
			return nil, p.errorf(nil, "expected key=value, got %q", e)
		}
		if err := checkAttr(k, v); err != nil {
			return nil, p.errorf(err, "attribute %s", k)
		}
		attrs[k] = v
	}
	return attrs, nil
}

// event parses the six values shared by sprite, wave and rwave.
func (p *parser) event(args string) (Event, error) {
	f, err := p.fields(args, 6)
	if err != nil {
		return Event{}, err
	}

	var v [6]int64
	limits := [6][2]int64{
		{-1 << 31, 1<<31 - 1}, // dx
		{1, 0xff},             // type, 0 ends a group
		{0, maxDelay},         // delay
		{0, 0xffff},           // subtype
		{-1 << 31, 1<<31 - 1}, // x offset
		{-1 << 31, 1<<31 - 1}, // y offset
	}
	for i := range v {
		if v[i], err = p.number(f[i], limits[i][0], limits[i][1]); err != nil {
			return Event{}, err
		}
	}

	attrs, err := p.attrs(f[6:])
	if err != nil {
		return Event{}, err
	}

	p.x += int(v[0])
	if p.x < 0 {
		return Event{}, p.errorf(nil, "position %d is before the start of the stage", p.x)
	}

	return Event{
		X:       p.x,
		Type:    uint8(v[1]),
		Delay:   uint32(v[2]),
		Subtype: uint16(v[3]),
		OffsetX: int32(v[4]),
		OffsetY: int32(v[5]),
		Attrs:   attrs,
	}, nil
}

func (p *parser) layer(letters, args string) error {
	if len(letters) != 2 {
		return p.errorf(nil, "expected layer kind and format letters, got %q", letters)
	}
	kind, ok := kinds[letters[0]]
	if !ok {
		return p.errorf(nil, "unknown layer kind %q", letters[0])
	}
	format, ok := formats[letters[1]]
	if !ok {
		return p.errorf(nil, "unknown layer format %q", letters[1])
	}

	f, err := p.fields(args, 5)
	if err != nil {
		return err
	}
	if len(f) != 5 {
		return p.errorf(nil, "expected 5 values, got %d", len(f))
	}

	for _, r := range f[0] {
		if r > 0x7f {
			return p.errorf(nil, "filename %q is not ASCII", f[0])
		}
	}

	l := Layer{Kind: kind, Format: format, Filename: f[0]}
	if l.ScrollX, err = Fix(f[1]); err != nil {
		return p.errorf(err, "invalid x scroll %q", f[1])
	}
	if l.ScrollY, err = Fix(f[2]); err != nil {
		return p.errorf(err, "invalid y scroll %q", f[2])
	}
	ox, err := p.number(f[3], -1<<31, 1<<31-1)
	if err != nil {
		return err
	}
	oy, err := p.number(f[4], -1<<31, 1<<31-1)
	if err != nil {
		return err
	}
	l.OriginX, l.OriginY = int32(ox), int32(oy)

	p.script.Layers = append(p.script.Layers, l)
	return nil
}

func (p *parser) continuation(line string) error {
	f, err := p.fields(line, 4)
	if err != nil {
		return err
	}

	var v [4]int64
	limits := [4][2]int64{
		{0, maxDelay},         // delay
		{0, 0xffff},           // subtype
		{-1 << 31, 1<<31 - 1}, // x offset
		{-1 << 31, 1<<31 - 1}, // y offset
	}
	for i := range v {
		if v[i], err = p.number(f[i], limits[i][0], limits[i][1]); err != nil {
			return err
		}
	}

	attrs, err := p.attrs(f[4:])
	if err != nil {
		return err
	}

	last := p.block.events[len(p.block.events)-1]
	delay := int64(last.Delay) + v[0]
	if delay > maxDelay {
		return p.errorf(nil, "accumulated delay %d out of range", delay)
	}

	p.block.events = append(p.block.events, Event{
		X:       last.X,
		Type:    last.Type,
		Delay:   uint32(delay),
		Subtype: uint16(v[1]),
		OffsetX: int32(v[2]),
		OffsetY: int32(v[3]) + p.block.bias,
		Attrs:   attrs,
	})
	return nil
}

func directive(line string) (string, string) {
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i+1:])
}

func (p *parser) parseLine(line string) error {
	head, args := directive(line)

	switch {
	case strings.HasPrefix(head, "layer"):
		letters := head[len("layer"):]
		if letters == "" {
			letters, args = directive(args)
		}
		return p.layer(letters, args)
	case head == "sprite":
		e, err := p.event(args)
		if err != nil {
			return err
		}
		p.script.Events = append(p.script.Events, e)
	case head == "wave", head == "rwave":
		if p.block != nil {
			return p.errorf(nil, "%s inside an open wave", head)
		}
		e, err := p.event(args)
		if err != nil {
			return err
		}
		p.block = &block{events: []Event{e}}
		if head == "rwave" {
			p.block.bias = e.OffsetY
		}
	case head == "end":
		if p.block == nil {
			return p.errorf(nil, "end without an open wave")
		}
		p.script.Events = append(p.script.Events, p.block.events...)
		p.block = nil
	case p.block != nil:
		return p.continuation(line)
	default:
		return p.errorf(nil, "unrecognized command %q", head)
	}

	return nil
}

// Parse reads a level script from r.
func Parse(r io.Reader) (*Script, error) {
	p := parser{}

	s := bufio.NewScanner(r)
	for s.Scan() {
		p.line++
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := p.parseLine(line); err != nil {
			return nil, err
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}

	if p.block != nil {
		p.line++
		return nil, p.errorf(nil, "missing end for open wave")
	}

	return &p.script, nil
}
