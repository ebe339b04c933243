package assetc

import (
	"bufio"
	"crypto/sha1"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/assetc/internal/config"
	"github.com/bodgit/assetc/picture"
	"github.com/bodgit/assetc/pixel"
	"github.com/bodgit/assetc/sound"
	"github.com/bodgit/assetc/sprite"
	"github.com/bodgit/assetc/stage"
	"github.com/bodgit/assetc/tilemap"
	"go.uber.org/zap"
)

// fingerprint hashes the settings followed by the name and contents of each
// input file.
func fingerprint(settings string, files ...string) (string, error) {
	h := sha1.New()
	io.WriteString(h, settings)

	for _, file := range files {
		io.WriteString(h, "\x00"+file+"\x00")

		f, err := os.Open(file)
		if err != nil {
			return "", err
		}
		_, err = io.Copy(h, f)
		f.Close()
		if err != nil {
			return "", err
		}
	}

	return fmt.Sprintf("%X", h.Sum(nil)), nil
}

func (c *Compiler) upToDate(fp string, outputs []string) (bool, error) {
	if c.Force {
		return false, nil
	}
	for _, output := range outputs {
		if _, err := os.Stat(output); err != nil {
			return false, nil
		}
		prev, err := c.db.Fingerprint(output)
		if err != nil {
			return false, err
		}
		if prev != fp {
			return false, nil
		}
	}
	return true, nil
}

// build runs fn unless the build database shows outputs were already built
// from the same inputs and settings.
func (c *Compiler) build(inputs []string, settings string, outputs []string, fn func() error) error {
	if c.db == nil {
		return fn()
	}

	fp, err := fingerprint(settings, inputs...)
	if err != nil {
		return err
	}

	ok, err := c.upToDate(fp, outputs)
	if err != nil {
		return err
	}
	if ok {
		c.logger.Info("up to date", zap.Strings("outputs", outputs))
		return nil
	}

	if err := fn(); err != nil {
		for _, output := range outputs {
			if ferr := c.db.Forget(output); ferr != nil {
				c.logger.Warn("forgetting failed output", zap.String("output", output), zap.Error(ferr))
			}
		}
		return err
	}

	for _, output := range outputs {
		if err := c.db.Record(output, fp); err != nil {
			return err
		}
	}
	return nil
}

// writeFile creates path and passes a buffered writer for it to fn. The file
// is removed if fn fails.
func (c *Compiler) writeFile(path string, fn func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	w := bufio.NewWriter(f)
	if err = fn(w); err != nil {
		return err
	}
	if err = w.Flush(); err != nil {
		return err
	}

	if info, err := f.Stat(); err == nil {
		c.logger.Info("wrote", zap.String("output", path), zap.Int64("bytes", info.Size()))
	}
	return nil
}

func isImage(file string) bool {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".png", ".bmp", ".gif", ".jpg", ".jpeg":
		return true
	}
	return false
}

// relative resolves file against dir unless it's absolute.
func relative(dir, file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(dir, file)
}

func unique(files []string) []string {
	seen := make(map[string]struct{}, len(files))
	out := files[:0]
	for _, file := range files {
		if _, ok := seen[file]; ok {
			continue
		}
		seen[file] = struct{}{}
		out = append(out, file)
	}
	return out
}

func (c *Compiler) spriteTasks(input string) ([]sprite.Task, []string, error) {
	if isImage(input) {
		return []sprite.Task{{Source: sprite.Path(input)}}, []string{input}, nil
	}

	f, err := os.Open(input)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	tasks, err := sprite.ParseList(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", input, err)
	}

	inputs := []string{input}
	dir := filepath.Dir(input)
	for i, task := range tasks {
		file, _ := task.Source.File()
		file = relative(dir, file)
		tasks[i].Source = sprite.Path(file)
		inputs = append(inputs, file)
	}

	return tasks, unique(inputs), nil
}

func (c *Compiler) palette(sprites []*sprite.True) pixel.Palette {
	if c.cfg.Sprites.Palette == config.PaletteMedianCut {
		return sprite.BuildMedianCutPalette(sprites)
	}
	return sprite.BuildPalette(sprites)
}

func (c *Compiler) writeShared(w io.Writer, sprites []*sprite.True) error {
	metric, ok := pixel.MetricByName(c.cfg.Sprites.Metric)
	if !ok {
		return fmt.Errorf("assetc: unknown color metric %q", c.cfg.Sprites.Metric)
	}

	p := c.palette(sprites)
	indexed := make([]*sprite.Indexed, len(sprites))
	for i, t := range sprites {
		indexed[i] = sprite.ConvertFunc(t, &p, metric)
	}

	return sprite.EncodeShared(w, &p, indexed)
}

func (c *Compiler) spriteSettings() string {
	return fmt.Sprintf("palette=%s metric=%s", c.cfg.Sprites.Palette, c.cfg.Sprites.Metric)
}

// CompileSprites builds a sprite sheet from input, either a single image or
// a sprite list. The output extension selects a true color (.tip) or shared
// palette (.tsp) sheet.
func (c *Compiler) CompileSprites(input, output string) error {
	var shared bool
	switch strings.ToLower(filepath.Ext(output)) {
	case ".tip":
	case ".tsp":
		shared = true
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, output)
	}

	tasks, inputs, err := c.spriteTasks(input)
	if err != nil {
		return err
	}
	defer c.cache.Reset()

	return c.build(inputs, "sprites "+c.spriteSettings(), []string{output}, func() error {
		sprites, err := sprite.Apportion(c.cache, tasks)
		if err != nil {
			return err
		}
		c.logger.Debug("extracted sprites", zap.String("input", input), zap.Int("sprites", len(sprites)), zap.Int("images", c.cache.Len()))

		return c.writeFile(output, func(w io.Writer) error {
			if shared {
				return c.writeShared(w, sprites)
			}
			return sprite.Encode(w, sprites)
		})
	})
}

// CompileFont slices a font sheet into cw by ch characters and writes them
// as a shared palette sheet.
func (c *Compiler) CompileFont(input string, cw, ch int, output string) error {
	settings := fmt.Sprintf("font %dx%d %s", cw, ch, c.spriteSettings())
	defer c.cache.Reset()

	return c.build([]string{input}, settings, []string{output}, func() error {
		m, err := c.cache.Resolve(sprite.Path(input))
		if err != nil {
			return err
		}

		tasks, err := sprite.SliceSheet(m, cw, ch)
		if err != nil {
			return fmt.Errorf("%s: %w", input, err)
		}

		sprites, err := sprite.Apportion(c.cache, tasks)
		if err != nil {
			return err
		}
		c.logger.Debug("sliced font", zap.String("input", input), zap.Int("characters", len(sprites)))

		return c.writeFile(output, func(w io.Writer) error {
			return c.writeShared(w, sprites)
		})
	})
}

// CompileStage compiles a level script.
func (c *Compiler) CompileStage(input, output string) error {
	settings := fmt.Sprintf("stage version=%d height=%d", c.cfg.Stage.Version, c.cfg.Stage.Height)

	return c.build([]string{input}, settings, []string{output}, func() error {
		f, err := os.Open(input)
		if err != nil {
			return err
		}
		defer f.Close()

		script, err := stage.Parse(f)
		if err != nil {
			return fmt.Errorf("%s: %w", input, err)
		}

		s := stage.Compile(script, stage.NewHeader(c.cfg.Stage.Version, c.cfg.Stage.Height))
		c.logger.Debug("compiled stage", zap.String("input", input), zap.Int("layers", len(s.Layers)), zap.Int("groups", len(s.Groups)-1))

		return c.writeFile(output, func(w io.Writer) error {
			return stage.Encode(w, s)
		})
	})
}

// SoundOutputs returns the high quality and normal bank filenames for
// output.
func SoundOutputs(output string) (string, string) {
	base := strings.TrimSuffix(output, filepath.Ext(output))
	return base + ".sxq", base + ".sxp"
}

func (c *Compiler) loadSound(file string, rate int) ([]int8, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := sound.Load(f, rate)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return s, nil
}

// CompileSounds builds both sound banks from a list of WAV files.
func (c *Compiler) CompileSounds(input, output string) error {
	f, err := os.Open(input)
	if err != nil {
		return err
	}
	files, err := sound.ParseList(f)
	f.Close()
	if err != nil {
		return err
	}

	inputs := []string{input}
	dir := filepath.Dir(input)
	for i := range files {
		files[i] = relative(dir, files[i])
		inputs = append(inputs, files[i])
	}

	high, low := SoundOutputs(output)
	banks := []struct {
		file string
		rate int
	}{
		{high, c.cfg.Sounds.HighRate},
		{low, c.cfg.Sounds.LowRate},
	}

	settings := fmt.Sprintf("sounds high=%d low=%d", c.cfg.Sounds.HighRate, c.cfg.Sounds.LowRate)

	return c.build(unique(inputs), settings, []string{high, low}, func() error {
		for _, bank := range banks {
			b := &sound.Bank{Rate: bank.rate}
			for _, file := range files {
				s, err := c.loadSound(file, bank.rate)
				if err != nil {
					return err
				}
				c.logger.Debug("converted sound", zap.String("input", file), zap.Int("rate", bank.rate), zap.Int("samples", len(s)))
				b.Sounds = append(b.Sounds, s)
			}

			if err := c.writeFile(bank.file, func(w io.Writer) error {
				return sound.Encode(w, b)
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

// CompilePicture converts a single image. The output extension selects a
// compressed (.cfp) or direct (.dfp) picture.
func (c *Compiler) CompilePicture(input, output string) error {
	var encode func(io.Writer, image.Image) error
	switch strings.ToLower(filepath.Ext(output)) {
	case ".cfp":
		encode = func(w io.Writer, m image.Image) error {
			t, err := sprite.Extract(m, nil)
			if err != nil {
				return err
			}
			return picture.Encode(w, t)
		}
	case ".dfp":
		encode = picture.EncodeDirect
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, output)
	}
	defer c.cache.Reset()

	return c.build([]string{input}, "picture", []string{output}, func() error {
		m, err := c.cache.Resolve(sprite.Path(input))
		if err != nil {
			return err
		}

		return c.writeFile(output, func(w io.Writer) error {
			return encode(w, m)
		})
	})
}

// TilemapOutputs returns the tilemap and tile sheet filenames for output.
func TilemapOutputs(output string) (string, string) {
	base := strings.TrimSuffix(output, filepath.Ext(output))
	return base + ".tlp", base + ".tsp"
}

// CompileTilemap cuts an image into size by size tiles, writing the tilemap
// and a shared palette sheet of the unique tiles next to output.
func (c *Compiler) CompileTilemap(input string, size int, output string) error {
	tlp, tsp := TilemapOutputs(output)

	name := strings.TrimSuffix(filepath.Base(tsp), filepath.Ext(tsp))
	if len(name) > tilemap.MaxSheetName {
		return fmt.Errorf("%w: %s", tilemap.ErrSheetName, name)
	}

	settings := fmt.Sprintf("tilemap %d %s", size, c.spriteSettings())
	defer c.cache.Reset()

	return c.build([]string{input}, settings, []string{tlp, tsp}, func() error {
		m, err := c.cache.Resolve(sprite.Path(input))
		if err != nil {
			return err
		}

		t, tiles, err := tilemap.Build(m, size)
		if err != nil {
			return fmt.Errorf("%s: %w", input, err)
		}
		t.Sheet = name
		c.logger.Debug("cut tilemap", zap.String("input", input), zap.Int("width", t.Width), zap.Int("height", t.Height), zap.Int("tiles", len(tiles)))

		if err := c.writeFile(tsp, func(w io.Writer) error {
			return c.writeShared(w, tiles)
		}); err != nil {
			return err
		}

		return c.writeFile(tlp, func(w io.Writer) error {
			return tilemap.Encode(w, t)
		})
	})
}
