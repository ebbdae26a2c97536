// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package vfs provides the filesystem abstraction files are read through:
// the local disk, an in-memory filesystem for tests, and HDFS.
package vfs

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// File is a readable sequence of bytes.
//
// Typically, it will be an *os.File, but remote backends and test code
// substitute their own implementations.
type File interface {
	io.Closer
	io.Reader
	io.ReaderAt
	Stat() (os.FileInfo, error)
}

// WritableFile is a file opened for writing. Remote backends may buffer
// written data until Close, so the error returned by Close must be checked.
type WritableFile interface {
	io.WriteCloser
	Sync() error
}

// FS is a namespace for files.
//
// For the local filesystem names are filepath names. For the other backends
// names are URIs carrying the scheme and authority of the backend, e.g.
// "hdfs://namenode:8020/warehouse/t/part-0.parquet".
type FS interface {
	// Create creates the named file for writing, truncating it if it already
	// exists.
	Create(name string) (WritableFile, error)

	// Open opens the named file for reading.
	Open(name string) (File, error)

	// Remove removes the named file or empty directory.
	Remove(name string) error

	// MkdirAll creates a directory and all necessary parents. The permission
	// bits perm have the same semantics as in os.MkdirAll. If the directory
	// already exists, MkdirAll does nothing and returns nil. Object stores
	// have no directories and always return nil.
	MkdirAll(dir string, perm os.FileMode) error

	// List returns a listing of the given directory. The names returned are
	// relative to dir.
	List(dir string) ([]string, error)

	// Stat returns an os.FileInfo describing the named file.
	Stat(name string) (os.FileInfo, error)

	// PathBase returns the last element of path. Trailing path separators are
	// removed before extracting the last element.
	PathBase(path string) string

	// PathJoin joins any number of path elements into a single path, adding a
	// separator if necessary.
	PathJoin(elem ...string) string
}

// Default is a FS implementation backed by the underlying operating system's
// file system. Names may carry the "posix://" scheme, which is stripped.
var Default FS = defaultFS{}

type defaultFS struct{}

// PosixScheme is the optional scheme of local filesystem names.
const PosixScheme = "posix://"

func localPath(name string) string {
	return strings.TrimPrefix(name, PosixScheme)
}

func (defaultFS) Create(name string) (WritableFile, error) {
	return os.OpenFile(localPath(name), os.O_RDWR|os.O_CREATE|os.O_TRUNC|syscall.O_CLOEXEC, 0666)
}

func (defaultFS) Open(name string) (File, error) {
	file, err := os.OpenFile(localPath(name), os.O_RDONLY|syscall.O_CLOEXEC, 0)
	if err != nil {
		return nil, err
	}
	return file, nil
}

func (defaultFS) Remove(name string) error {
	return os.Remove(localPath(name))
}

func (defaultFS) MkdirAll(dir string, perm os.FileMode) error {
	return os.MkdirAll(localPath(dir), perm)
}

func (defaultFS) List(dir string) ([]string, error) {
	f, err := os.Open(localPath(dir))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.Readdirnames(-1)
}

func (defaultFS) Stat(name string) (os.FileInfo, error) {
	return os.Stat(localPath(name))
}

func (defaultFS) PathBase(path string) string {
	return filepath.Base(localPath(path))
}

func (defaultFS) PathJoin(elem ...string) string {
	return filepath.Join(elem...)
}
