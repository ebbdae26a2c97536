// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

//go:build linux

package vfs

import "golang.org/x/sys/unix"

// Prefetch signals the OS (on supported platforms) to fetch size bytes of
// file starting at offset into cache. Files not backed by a file descriptor
// are ignored.
func Prefetch(file File, offset, size int64) error {
	type fd interface {
		Fd() uintptr
	}
	if f, ok := file.(fd); ok && size > 0 {
		return unix.Fadvise(int(f.Fd()), offset, size, unix.FADV_WILLNEED)
	}
	return nil
}
