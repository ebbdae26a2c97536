// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package tool implements the lowcard command line tools.
package tool

import (
	"io"
	"os"

	"github.com/colscan/lowcard/internal/base"
	"github.com/colscan/lowcard/vfs/factory"
	"github.com/spf13/cobra"
)

var stdout = io.Writer(os.Stdout)
var stderr = io.Writer(os.Stderr)

// T is the container for all of the tools.
type T struct {
	Commands []*cobra.Command
	dict     *dictT
	recode   *recodeT

	cfg        Config
	logger     base.Logger
	configPath string
	verbose    bool
}

// Option configures a T.
type Option func(*T)

// WithLogger sets the logger of the tools instead of the zap logger built
// from the --verbose flag.
func WithLogger(l base.Logger) Option {
	return func(t *T) { t.logger = l }
}

// WithConfig sets the configuration the --config file is merged into.
func WithConfig(cfg Config) Option {
	return func(t *T) { t.cfg = cfg }
}

// New creates a new set of tools.
func New(opts ...Option) *T {
	t := &T{}
	for _, o := range opts {
		o(t)
	}
	t.dict = newDict(t)
	t.recode = newRecode(t)
	t.Commands = []*cobra.Command{
		t.dict.Root,
		t.recode.Root,
	}
	for _, cmd := range t.Commands {
		cmd.PersistentFlags().StringVar(
			&t.configPath, "config", "", "YAML configuration file")
		cmd.PersistentFlags().BoolVarP(
			&t.verbose, "verbose", "v", false, "log informational messages")
		cmd.PersistentPreRunE = t.setup
	}
	return t
}

// setup loads the configuration file, builds the logger and configures the
// shared filesystems every command opens files through.
func (t *T) setup(cmd *cobra.Command, args []string) error {
	if t.configPath != "" {
		if err := loadConfig(t.configPath, &t.cfg); err != nil {
			return err
		}
	}
	if t.logger == nil {
		l, err := newZapLogger(t.verbose)
		if err != nil {
			return err
		}
		t.logger = l
	}
	fsOpts := t.cfg.FS
	fsOpts.Logger = t.logger
	factory.SetSharedOptions(fsOpts)
	return nil
}
