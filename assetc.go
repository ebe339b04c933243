/*
Package assetc compiles the resources of the game into the binary formats
read by its runtime.

A Compiler runs one compile at a time and owns the decoded image cache used
by it. Outputs may be recorded in a build database so that assets whose
inputs and settings haven't changed are skipped on the next run.
*/
package assetc

import (
	"errors"

	"github.com/bodgit/assetc/internal/config"
	"github.com/bodgit/assetc/sprite"
	"go.uber.org/zap"
)

// ErrUnknownFormat is returned for an output filename whose extension
// doesn't select a format.
var ErrUnknownFormat = errors.New("assetc: unknown output format")

// Compiler turns source assets into runtime files.
type Compiler struct {
	cfg    *config.Config
	db     *BuildDB
	logger *zap.Logger
	cache  *sprite.Cache

	// Force rebuilds outputs the build database considers up to date
	Force bool
}

// New returns a Compiler using cfg. A nil db disables incremental builds.
func New(cfg *config.Config, db *BuildDB, logger *zap.Logger) (*Compiler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Compiler{
		cfg:    cfg,
		db:     db,
		logger: logger,
		cache:  sprite.NewCache(),
	}, nil
}

// clone returns a Compiler sharing everything but the image cache.
func (c *Compiler) clone() *Compiler {
	return &Compiler{
		cfg:    c.cfg,
		db:     c.db,
		logger: c.logger,
		cache:  sprite.NewCache(),
		Force:  c.Force,
	}
}
