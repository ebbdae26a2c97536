// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package dictcode

import "github.com/colscan/lowcard/internal/base"

// DictDecodeMaxSize is the largest local dictionary a compliant file column
// produces for a low-cardinality column.
const DictDecodeMaxSize = 256

// Options configures an Iterator.
type Options struct {
	// Logger is used for reporting dictionary failures. Defaults to
	// base.DefaultLogger.
	Logger base.Logger

	// Metrics receives recoding statistics. When nil, an unregistered set of
	// metrics is allocated per Iterator.
	Metrics *Metrics

	// MaxDictSize is the largest local dictionary accepted when building a
	// convert map. Defaults to DictDecodeMaxSize.
	MaxDictSize int

	// VerifyCodes validates every local code of every batch before recoding
	// and returns an error marked ErrCodeOutOfRange on a violation. When
	// false, codes are trusted: builds with the "invariants" tag assert on
	// violations, and other builds panic with an index out of range for codes
	// above the dictionary size.
	VerifyCodes bool
}

// EnsureDefaults ensures that the default values for all options are set if a
// valid value was not already specified. Returns the new options.
func (o *Options) EnsureDefaults() *Options {
	if o == nil {
		o = &Options{}
	}
	if o.Logger == nil {
		o.Logger = base.DefaultLogger{}
	}
	if o.Metrics == nil {
		o.Metrics = NewMetrics(nil)
	}
	if o.MaxDictSize <= 0 {
		o.MaxDictSize = DictDecodeMaxSize
	}
	return o
}
