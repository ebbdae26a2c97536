// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package dictcode

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	// ErrDictInconsistent marks errors returned when a file's local dictionary
	// holds a non-empty value that is absent from the global dictionary. Use
	// errors.As with *InconsistencyError to retrieve the value.
	ErrDictInconsistent = errors.New("dictcode: local dictionary inconsistent with global dictionary")

	// ErrNotDictEncoded marks errors returned when a file column does not use
	// a single dictionary for all of its pages.
	ErrNotDictEncoded = errors.New("dictcode: column is not fully dictionary encoded")

	// ErrDictTooLarge marks errors returned when a local dictionary exceeds
	// Options.MaxDictSize.
	ErrDictTooLarge = errors.New("dictcode: local dictionary too large")

	// ErrCodeOutOfRange marks errors returned by Options.VerifyCodes when a
	// local code is outside [-1, dictSize], or is the null sentinel in a
	// non-nullable column.
	ErrCodeOutOfRange = errors.New("dictcode: local code out of range")

	// ErrNullabilityMismatch is returned when a codes column and its paired
	// words column disagree on nullability.
	ErrNullabilityMismatch = errors.New("dictcode: nullability mismatch between paired columns")
)

// InconsistencyError names the local dictionary value that could not be found
// in the global dictionary.
type InconsistencyError struct {
	Value string
}

func (e *InconsistencyError) Error() string {
	return fmt.Sprintf("dictcode: value %q not found in global dictionary", e.Value)
}

func newInconsistencyError(value []byte) error {
	return errors.Mark(&InconsistencyError{Value: string(value)}, ErrDictInconsistent)
}
