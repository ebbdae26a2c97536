// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package vfs

import (
	"bytes"
	"io"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/oserror"
)

const sep = "/"

// NewMem returns a new memory-backed FS implementation. Names are slash
// separated; a leading slash is optional. Directories are created implicitly
// by Create.
func NewMem() *MemFS {
	return &MemFS{files: make(map[string]*memNode)}
}

// MemFS implements FS.
type MemFS struct {
	mu    sync.Mutex
	files map[string]*memNode
}

var _ FS = (*MemFS)(nil)

type memNode struct {
	mu      sync.Mutex
	data    []byte
	modTime time.Time
}

func cleanMemPath(name string) string {
	return strings.TrimPrefix(path.Clean(sep+name), sep)
}

// String dumps the names and sizes of the files in the filesystem.
func (y *MemFS) String() string {
	y.mu.Lock()
	defer y.mu.Unlock()
	names := make([]string, 0, len(y.files))
	for name := range y.files {
		names = append(names, name)
	}
	sort.Strings(names)
	var buf bytes.Buffer
	for _, name := range names {
		n := y.files[name]
		n.mu.Lock()
		size := len(n.data)
		n.mu.Unlock()
		buf.WriteString(name)
		buf.WriteString(" ")
		buf.WriteString(strconv.Itoa(size))
		buf.WriteString("\n")
	}
	return buf.String()
}

// Create implements FS.Create.
func (y *MemFS) Create(name string) (WritableFile, error) {
	name = cleanMemPath(name)
	n := &memNode{modTime: time.Now()}
	y.mu.Lock()
	y.files[name] = n
	y.mu.Unlock()
	return &memFile{name: name, n: n, write: true}, nil
}

// Open implements FS.Open.
func (y *MemFS) Open(name string) (File, error) {
	name = cleanMemPath(name)
	y.mu.Lock()
	n, ok := y.files[name]
	y.mu.Unlock()
	if !ok {
		return nil, &os.PathError{Op: "open", Path: name, Err: oserror.ErrNotExist}
	}
	return &memFile{name: name, n: n}, nil
}

// Remove implements FS.Remove.
func (y *MemFS) Remove(name string) error {
	name = cleanMemPath(name)
	y.mu.Lock()
	defer y.mu.Unlock()
	if _, ok := y.files[name]; !ok {
		return &os.PathError{Op: "remove", Path: name, Err: oserror.ErrNotExist}
	}
	delete(y.files, name)
	return nil
}

// MkdirAll implements FS.MkdirAll. Directories are implicit in a MemFS.
func (y *MemFS) MkdirAll(dir string, perm os.FileMode) error {
	return nil
}

// List implements FS.List.
func (y *MemFS) List(dir string) ([]string, error) {
	prefix := cleanMemPath(dir)
	if prefix != "" {
		prefix += sep
	}
	y.mu.Lock()
	defer y.mu.Unlock()
	seen := make(map[string]struct{})
	var names []string
	for name := range y.files {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		child, _, _ := strings.Cut(name[len(prefix):], sep)
		if _, ok := seen[child]; !ok {
			seen[child] = struct{}{}
			names = append(names, child)
		}
	}
	if len(names) == 0 && prefix != "" {
		return nil, &os.PathError{Op: "open", Path: dir, Err: oserror.ErrNotExist}
	}
	sort.Strings(names)
	return names, nil
}

// Stat implements FS.Stat. A name that prefixes existing files is reported
// as a directory.
func (y *MemFS) Stat(name string) (os.FileInfo, error) {
	f, err := y.Open(name)
	if err != nil {
		if y.isDir(cleanMemPath(name)) {
			return NewFileInfo(path.Base(cleanMemPath(name)), 0, time.Time{}, true), nil
		}
		if pe, ok := err.(*os.PathError); ok {
			pe.Op = "stat"
		}
		return nil, err
	}
	defer f.Close()
	return f.Stat()
}

func (y *MemFS) isDir(name string) bool {
	prefix := name + sep
	if name == "" {
		prefix = ""
	}
	y.mu.Lock()
	defer y.mu.Unlock()
	for n := range y.files {
		if strings.HasPrefix(n, prefix) {
			return true
		}
	}
	return false
}

// PathBase implements FS.PathBase.
func (*MemFS) PathBase(p string) string {
	return path.Base(p)
}

// PathJoin implements FS.PathJoin.
func (*MemFS) PathJoin(elem ...string) string {
	return path.Join(elem...)
}

// memFile is a reader or writer of a memNode.
type memFile struct {
	name   string
	n      *memNode
	pos    int
	write  bool
	closed bool
}

var _ File = (*memFile)(nil)
var _ WritableFile = (*memFile)(nil)

func (f *memFile) Close() error {
	if f.closed {
		return errors.New("vfs: file already closed")
	}
	f.closed = true
	return nil
}

func (f *memFile) Read(p []byte) (int, error) {
	if f.write {
		return 0, errors.New("vfs: file was opened for writing")
	}
	f.n.mu.Lock()
	defer f.n.mu.Unlock()
	if f.pos >= len(f.n.data) {
		return 0, io.EOF
	}
	n := copy(p, f.n.data[f.pos:])
	f.pos += n
	return n, nil
}

func (f *memFile) ReadAt(p []byte, off int64) (int, error) {
	if f.write {
		return 0, errors.New("vfs: file was opened for writing")
	}
	f.n.mu.Lock()
	defer f.n.mu.Unlock()
	if off >= int64(len(f.n.data)) {
		return 0, io.EOF
	}
	n := copy(p, f.n.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (f *memFile) Write(p []byte) (int, error) {
	if !f.write {
		return 0, errors.New("vfs: file was not opened for writing")
	}
	f.n.mu.Lock()
	defer f.n.mu.Unlock()
	f.n.data = append(f.n.data, p...)
	f.n.modTime = time.Now()
	return len(p), nil
}

func (f *memFile) Sync() error {
	return nil
}

func (f *memFile) Stat() (os.FileInfo, error) {
	f.n.mu.Lock()
	defer f.n.mu.Unlock()
	return NewFileInfo(path.Base(f.name), int64(len(f.n.data)), f.n.modTime, false), nil
}
