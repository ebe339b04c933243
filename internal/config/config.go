// Package config handles compiler configuration loading.
package config

import (
	"errors"
	"fmt"
)

// Palette builders.
const (
	PaletteFrequency = "frequency"
	PaletteMedianCut = "median-cut"
)

// Config holds all compiler settings.
type Config struct {
	Stage   StageConfig   `yaml:"stage"`
	Sprites SpritesConfig `yaml:"sprites"`
	Sounds  SoundsConfig  `yaml:"sounds"`
	Build   BuildConfig   `yaml:"build"`
	Logging LoggingConfig `yaml:"logging"`
}

// StageConfig holds level compiler settings.
type StageConfig struct {
	Version int `yaml:"version"`
	Height  int `yaml:"height"`
}

// SpritesConfig holds sprite sheet settings.
type SpritesConfig struct {
	Palette string `yaml:"palette"` // frequency or median-cut
	Metric  string `yaml:"metric"`  // rgb or lab
}

// SoundsConfig holds the sample rates of the high quality (.sxq) and normal
// (.sxp) sound banks.
type SoundsConfig struct {
	HighRate int `yaml:"high_rate"`
	LowRate  int `yaml:"low_rate"`
}

// BuildConfig holds incremental and batch build settings.
type BuildConfig struct {
	Database string `yaml:"database"` // empty disables incremental builds
	Workers  int    `yaml:"workers"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config matching the runtime's expectations.
func Default() *Config {
	return &Config{
		Stage: StageConfig{
			Version: 3,
			Height:  208,
		},
		Sprites: SpritesConfig{
			Palette: PaletteFrequency,
			Metric:  "rgb",
		},
		Sounds: SoundsConfig{
			HighRate: 44100,
			LowRate:  22050,
		},
		Build: BuildConfig{
			Workers: 4,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

var errWorkers = errors.New("config: build.workers must be at least 1")

// Validate checks every setting is usable.
func (c *Config) Validate() error {
	switch c.Stage.Version {
	case 2, 3:
	default:
		return fmt.Errorf("config: unsupported stage.version %d", c.Stage.Version)
	}
	if c.Stage.Height < 16 || c.Stage.Height > 0xffff {
		return fmt.Errorf("config: stage.height %d out of range", c.Stage.Height)
	}

	switch c.Sprites.Palette {
	case PaletteFrequency, PaletteMedianCut:
	default:
		return fmt.Errorf("config: unknown sprites.palette %q", c.Sprites.Palette)
	}
	switch c.Sprites.Metric {
	case "", "rgb", "lab":
	default:
		return fmt.Errorf("config: unknown sprites.metric %q", c.Sprites.Metric)
	}

	for _, r := range []int{c.Sounds.HighRate, c.Sounds.LowRate} {
		if r <= 0 || r > 0xffff {
			return fmt.Errorf("config: sound rate %d out of range", r)
		}
	}

	if c.Build.Workers < 1 {
		return errWorkers
	}

	return nil
}
