// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

//go:build !linux

package vfs

// Prefetch is a no-op on platforms without posix_fadvise.
func Prefetch(file File, offset, size int64) error {
	return nil
}
