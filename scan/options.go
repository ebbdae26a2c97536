// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package scan

import (
	"runtime"

	"github.com/colscan/lowcard/dictcode"
	"github.com/colscan/lowcard/internal/base"
	"github.com/colscan/lowcard/vfs"
	"github.com/colscan/lowcard/vfs/factory"
)

// DefaultBatchSize is the default number of rows per batch.
const DefaultBatchSize = 4096

// Options holds the parameters of a scan.
type Options struct {
	// BatchSize is the maximum number of rows handed to the sink at once.
	BatchSize int `yaml:"batch_size"`
	// Concurrency is the number of row groups scanned at the same time.
	// Defaults to GOMAXPROCS.
	Concurrency int `yaml:"concurrency"`
	// VerifyCodes is copied into Recode.
	VerifyCodes bool `yaml:"verify_codes"`

	// Recode configures the iterators of the scan. Its Logger defaults to
	// Logger.
	Recode dictcode.Options `yaml:"-"`
	Logger base.Logger      `yaml:"-"`
	// OpenFS returns the filesystem of a file URI. Defaults to
	// factory.SharedFromURI.
	OpenFS func(uri string) (vfs.FS, error) `yaml:"-"`
}

// EnsureDefaults ensures that background options are set to their default
// values if they have not been set.
func (o *Options) EnsureDefaults() *Options {
	if o == nil {
		o = &Options{}
	}
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.Concurrency <= 0 {
		o.Concurrency = runtime.GOMAXPROCS(0)
	}
	if o.Logger == nil {
		o.Logger = base.DefaultLogger{}
	}
	if o.Recode.Logger == nil {
		o.Recode.Logger = o.Logger
	}
	if o.VerifyCodes {
		o.Recode.VerifyCodes = true
	}
	o.Recode.EnsureDefaults()
	if o.OpenFS == nil {
		o.OpenFS = factory.SharedFromURI
	}
	return o
}
