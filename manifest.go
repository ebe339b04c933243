package assetc

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bodgit/assetc/tilemap"
	"gopkg.in/yaml.v3"
)

// Job commands.
const (
	CommandSprites = "sprites"
	CommandFont    = "font"
	CommandStage   = "stage"
	CommandSounds  = "sounds"
	CommandPicture = "picture"
	CommandTilemap = "tilemap"
)

var errNoOutput = errors.New("assetc: job has no input or output")

// Job is a single compile in a manifest. Width and Height are the
// character size of a font, Width alone is the tile size of a tilemap.
type Job struct {
	Command string `yaml:"command"`
	Input   string `yaml:"input"`
	Output  string `yaml:"output"`
	Width   int    `yaml:"width,omitempty"`
	Height  int    `yaml:"height,omitempty"`
}

// Manifest lists the jobs of a batch build.
type Manifest struct {
	Jobs []Job `yaml:"jobs"`
}

// LoadManifest reads a manifest from file. Relative paths in it are
// resolved against the directory holding file.
func LoadManifest(file string) (*Manifest, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	m := new(Manifest)
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	dir := filepath.Dir(file)
	for i := range m.Jobs {
		j := &m.Jobs[i]
		if j.Input == "" || j.Output == "" {
			return nil, fmt.Errorf("%s: job %d: %w", file, i+1, errNoOutput)
		}
		j.Input = relative(dir, j.Input)
		j.Output = relative(dir, j.Output)
	}

	return m, nil
}

// Run performs a single job.
func (c *Compiler) Run(j Job) error {
	switch j.Command {
	case CommandSprites:
		return c.CompileSprites(j.Input, j.Output)
	case CommandFont:
		return c.CompileFont(j.Input, j.Width, j.Height, j.Output)
	case CommandStage:
		return c.CompileStage(j.Input, j.Output)
	case CommandSounds:
		return c.CompileSounds(j.Input, j.Output)
	case CommandPicture:
		return c.CompilePicture(j.Input, j.Output)
	case CommandTilemap:
		size := j.Width
		if size == 0 {
			size = tilemap.DefaultTileSize
		}
		return c.CompileTilemap(j.Input, size, j.Output)
	}
	return fmt.Errorf("assetc: unknown command %q", j.Command)
}
