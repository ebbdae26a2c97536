// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

//go:build !invariants && !race

package invariants

// Enabled reports whether contract checks are compiled in.
const Enabled = false

// CloseChecker catches double closes and use after close of iterators. It
// has no state outside invariant builds.
type CloseChecker struct{}

// Close marks the owner closed, panicking in invariant builds if it already
// was.
func (d *CloseChecker) Close() {}

// AssertNotClosed panics in invariant builds once Close has been called.
func (d *CloseChecker) AssertNotClosed() {}

// CheckBounds panics in invariant builds unless 0 <= i < n.
func CheckBounds[T Integer](i T, n T) {}
