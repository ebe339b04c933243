package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/bodgit/assetc"
	"github.com/bodgit/assetc/internal/config"
	"github.com/bodgit/assetc/internal/logger"
	"github.com/bodgit/assetc/tilemap"
	"github.com/urfave/cli/v2"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

// loadConfig applies the global flags over the configuration file.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	if c.Bool("verbose") {
		cfg.Logging.Level = "debug"
	}
	if c.IsSet("log-file") {
		cfg.Logging.LogFile = c.String("log-file")
	}
	if c.IsSet("db") {
		cfg.Build.Database = c.String("db")
	}
	if c.IsSet("workers") {
		cfg.Build.Workers = c.Int("workers")
	}

	return cfg, cfg.Validate()
}

// newCompiler builds a Compiler from the global flags. The returned function
// releases everything it opened.
func newCompiler(c *cli.Context) (*assetc.Compiler, func(), error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}

	var file logger.FileConfig
	if cfg.Logging.LogFile != "" {
		file = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	l, err := logger.New(cfg.Logging.Level, file)
	if err != nil {
		return nil, nil, err
	}

	var db *assetc.BuildDB
	if cfg.Build.Database != "" {
		if db, err = assetc.NewBuildDB(cfg.Build.Database); err != nil {
			return nil, nil, err
		}
	}

	closer := func() {
		if db != nil {
			db.Close()
		}
		logger.Sync(l)
	}

	compiler, err := assetc.New(cfg, db, l)
	if err != nil {
		closer()
		return nil, nil, err
	}
	compiler.Force = c.Bool("force")

	return compiler, closer, nil
}

// action wraps a compile taking n arguments, showing the command help when
// any are missing.
func action(n int, fn func(*cli.Context, *assetc.Compiler) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		if c.NArg() < n {
			cli.ShowCommandHelpAndExit(c, c.Command.Name, 2)
		}

		compiler, closer, err := newCompiler(c)
		if err != nil {
			return cli.Exit(err, 1)
		}
		defer closer()

		if err := fn(c, compiler); err != nil {
			var ec cli.ExitCoder
			if errors.As(err, &ec) {
				return err
			}
			return cli.Exit(err, 1)
		}

		return nil
	}
}

func atoi(name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, cli.Exit(fmt.Sprintf("invalid %s %q", name, s), 2)
	}
	return n, nil
}

func main() {
	app := cli.NewApp()

	app.Name = "assetc"
	app.Usage = "Compile game assets into runtime formats"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			EnvVars: []string{"ASSETC_CONFIG"},
			Usage:   "path to configuration file",
		},
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"ASSETC_DB"},
			Usage:   "path to build database, enables incremental builds",
		},
		&cli.StringFlag{
			Name:  "log-file",
			Usage: "also log to `FILE`",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "number of parallel jobs in a batch build",
		},
		&cli.BoolFlag{
			Name:  "force",
			Usage: "rebuild outputs even if up to date",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "sprites",
			Usage:       "Build a sprite sheet",
			Description: "INPUT is an image or a sprite list with one FILE or FILE:left,top,width,height per line. An OUTPUT ending in .tsp shares a single palette, .tip keeps true color.",
			ArgsUsage:   "INPUT OUTPUT",
			Action: action(2, func(c *cli.Context, compiler *assetc.Compiler) error {
				return compiler.CompileSprites(c.Args().Get(0), c.Args().Get(1))
			}),
		},
		{
			Name:        "font",
			Usage:       "Build a font from a character sheet",
			Description: "The sheet dimensions must be multiples of the character size.",
			ArgsUsage:   "INPUT WIDTH HEIGHT OUTPUT",
			Action: action(4, func(c *cli.Context, compiler *assetc.Compiler) error {
				cw, err := atoi("character width", c.Args().Get(1))
				if err != nil {
					return err
				}
				ch, err := atoi("character height", c.Args().Get(2))
				if err != nil {
					return err
				}
				return compiler.CompileFont(c.Args().Get(0), cw, ch, c.Args().Get(3))
			}),
		},
		{
			Name:      "stage",
			Usage:     "Compile a level script",
			ArgsUsage: "INPUT OUTPUT",
			Action: action(2, func(c *cli.Context, compiler *assetc.Compiler) error {
				return compiler.CompileStage(c.Args().Get(0), c.Args().Get(1))
			}),
		},
		{
			Name:        "sounds",
			Usage:       "Build the sound banks from a list of WAV files",
			Description: "Both the high quality .sxq and the normal .sxp bank are written next to OUTPUT.",
			ArgsUsage:   "INPUT OUTPUT",
			Action: action(2, func(c *cli.Context, compiler *assetc.Compiler) error {
				return compiler.CompileSounds(c.Args().Get(0), c.Args().Get(1))
			}),
		},
		{
			Name:        "picture",
			Usage:       "Convert a single image",
			Description: "An OUTPUT ending in .cfp is compressed, .dfp is direct color.",
			ArgsUsage:   "INPUT OUTPUT",
			Action: action(2, func(c *cli.Context, compiler *assetc.Compiler) error {
				return compiler.CompilePicture(c.Args().Get(0), c.Args().Get(1))
			}),
		},
		{
			Name:        "tilemap",
			Usage:       "Cut an image into a tilemap and tile sheet",
			Description: "The .tlp tilemap and the .tsp sheet of unique tiles are written next to OUTPUT. SIZE defaults to 16.",
			ArgsUsage:   "INPUT [SIZE] OUTPUT",
			Action: action(2, func(c *cli.Context, compiler *assetc.Compiler) error {
				size, output := tilemap.DefaultTileSize, c.Args().Get(1)
				if c.NArg() > 2 {
					var err error
					if size, err = atoi("tile size", c.Args().Get(1)); err != nil {
						return err
					}
					output = c.Args().Get(2)
				}
				return compiler.CompileTilemap(c.Args().Get(0), size, output)
			}),
		},
		{
			Name:      "build",
			Usage:     "Run every job in a manifest",
			ArgsUsage: "MANIFEST",
			Action: action(1, func(c *cli.Context, compiler *assetc.Compiler) error {
				m, err := assetc.LoadManifest(c.Args().First())
				if err != nil {
					return err
				}
				return compiler.Build(c.Context, m)
			}),
		},
		{
			Name:      "config",
			Usage:     "Write the effective configuration",
			ArgsUsage: "OUTPUT",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.Name, 2)
				}

				cfg, err := loadConfig(c)
				if err != nil {
					return cli.Exit(err, 1)
				}

				if err := cfg.SaveTo(c.Args().First()); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
