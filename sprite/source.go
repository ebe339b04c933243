package sprite

import (
	"bufio"
	"fmt"
	"image"
	_ "image/gif"
	"io"
	"strconv"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/bodgit/assetc/pixel"
	_ "golang.org/x/image/bmp" // BMP sources
)

// Source is either an already decoded image or the path of one.
type Source struct {
	image image.Image
	path  string
}

// Decoded returns a Source for an image already in memory.
func Decoded(m image.Image) Source {
	return Source{image: m}
}

// Path returns a Source for an image file.
func Path(path string) Source {
	return Source{path: path}
}

// File returns the path of a file source.
func (s Source) File() (string, bool) {
	return s.path, s.image == nil
}

// String returns the path, or a placeholder for decoded images.
func (s Source) String() string {
	if s.image != nil {
		return "<image>"
	}
	return s.path
}

// Task is a source image and an optional region of it, relative to the
// top-left corner of the image. A nil region means the whole image.
type Task struct {
	Source Source
	Region *image.Rectangle
}

// Cache decodes each image file once for the lifetime of a batch.
type Cache struct {
	images map[string]image.Image
	open   func(string) (image.Image, error)
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{
		images: make(map[string]image.Image),
		open:   imgio.Open,
	}
}

// Resolve returns the decoded image for s.
func (c *Cache) Resolve(s Source) (image.Image, error) {
	if s.image != nil {
		return s.image, nil
	}
	if m, ok := c.images[s.path]; ok {
		return m, nil
	}
	m, err := c.open(s.path)
	if err != nil {
		return nil, err
	}
	c.images[s.path] = m
	return m, nil
}

// Len returns the number of decoded images held.
func (c *Cache) Len() int {
	return len(c.images)
}

// Reset releases every decoded image.
func (c *Cache) Reset() {
	c.images = make(map[string]image.Image)
}

// Extract packs the pixels of m, or the region of it, into a sprite.
func Extract(m image.Image, region *image.Rectangle) (*True, error) {
	b := m.Bounds()
	r := b
	if region != nil {
		r = region.Add(b.Min)
		if !r.In(b) {
			return nil, fmt.Errorf("%w: %v not in %v", ErrInvalidRegion, *region, b.Sub(b.Min))
		}
	}

	if r.Dx() > maxSide || r.Dy() > maxSide {
		return nil, ErrTooLarge
	}

	t := &True{
		Width:  uint16(r.Dx()),
		Height: uint16(r.Dy()),
		Pix:    make([]pixel.Color, 0, r.Dx()*r.Dy()),
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			t.Pix = append(t.Pix, pixel.FromColor(m.At(x, y)))
		}
	}
	return t, nil
}

// Apportion resolves every task through c and extracts its sprite.
func Apportion(c *Cache, tasks []Task) ([]*True, error) {
	sprites := make([]*True, 0, len(tasks))
	for _, task := range tasks {
		m, err := c.Resolve(task.Source)
		if err != nil {
			return nil, err
		}
		t, err := Extract(m, task.Region)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", task.Source, err)
		}
		sprites = append(sprites, t)
	}
	return sprites, nil
}

// ParseList reads a sprite list. Each line is either a filename or a
// filename followed by a colon and a left,top,width,height region. Blank
// lines are ignored.
func ParseList(r io.Reader) ([]Task, error) {
	var tasks []Task

	s := bufio.NewScanner(r)
	for n := 1; s.Scan(); n++ {
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}

		file, rect, ok := strings.Cut(line, ":")
		if !ok {
			tasks = append(tasks, Task{Source: Path(file)})
			continue
		}

		fields := strings.Split(rect, ",")
		if len(fields) != 4 {
			return nil, fmt.Errorf("sprite: line %d: expected left,top,width,height", n)
		}
		var v [4]int
		for i, f := range fields {
			var err error
			if v[i], err = strconv.Atoi(strings.TrimSpace(f)); err != nil {
				return nil, fmt.Errorf("sprite: line %d: %w", n, err)
			}
		}

		if v[2] < 0 || v[3] < 0 {
			return nil, fmt.Errorf("sprite: line %d: %w: negative size %dx%d", n, ErrInvalidRegion, v[2], v[3])
		}

		region := image.Rect(v[0], v[1], v[0]+v[2], v[1]+v[3])
		tasks = append(tasks, Task{Source: Path(strings.TrimSpace(file)), Region: &region})
	}

	return tasks, s.Err()
}

// SliceSheet splits m into cw by ch characters, left to right then top to
// bottom.
func SliceSheet(m image.Image, cw, ch int) ([]Task, error) {
	b := m.Bounds()
	if cw <= 0 || ch <= 0 || b.Dx()%cw != 0 || b.Dy()%ch != 0 {
		return nil, ErrSheetSize
	}

	src := Decoded(m)
	tasks := make([]Task, 0, (b.Dx()/cw)*(b.Dy()/ch))
	for y := 0; y < b.Dy(); y += ch {
		for x := 0; x < b.Dx(); x += cw {
			region := image.Rect(x, y, x+cw, y+ch)
			tasks = append(tasks, Task{Source: src, Region: &region})
		}
	}
	return tasks, nil
}
