// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

//go:build invariants || race

package invariants

import "fmt"

// Enabled reports whether contract checks are compiled in.
const Enabled = true

// CloseChecker catches double closes and use after close of iterators.
type CloseChecker struct {
	closed bool
}

// Close marks the owner closed, panicking in invariant builds if it already
// was.
func (d *CloseChecker) Close() {
	if d.closed {
		panic("invariants: closed twice")
	}
	d.closed = true
}

// AssertNotClosed panics in invariant builds once Close has been called.
func (d *CloseChecker) AssertNotClosed() {
	if d.closed {
		panic("invariants: used after close")
	}
}

// CheckBounds panics in invariant builds unless 0 <= i < n.
func CheckBounds[T Integer](i T, n T) {
	if i < 0 || i >= n {
		panic(fmt.Sprintf("index %d out of bounds [0, %d)", i, n))
	}
}
