// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package remote

import (
	"context"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/colscan/lowcard/vfs"
)

// BucketOpener returns the Storage of a bucket. scheme is the URI scheme the
// bucket was addressed with, e.g. "s3" or "oss".
type BucketOpener func(scheme, bucket string) (Storage, error)

// NewFS returns a vfs.FS over object stores. Names are URIs of the form
// "scheme://bucket/key". Storages are opened on first use of a bucket and
// kept until the FS is closed.
func NewFS(open BucketOpener) *FS {
	return &FS{open: open, buckets: make(map[string]Storage)}
}

// FS implements vfs.FS.
type FS struct {
	open BucketOpener

	mu      sync.Mutex
	buckets map[string]Storage
}

var _ vfs.FS = (*FS)(nil)

func (fs *FS) resolve(name string) (Storage, string, error) {
	u, err := vfs.ParseURI(name)
	if err != nil {
		return nil, "", err
	}
	if u.Authority == "" {
		return nil, "", errors.Newf("remote: %q names no bucket", name)
	}
	key := u.Scheme + "://" + u.Authority
	fs.mu.Lock()
	defer fs.mu.Unlock()
	st, ok := fs.buckets[key]
	if !ok {
		st, err = fs.open(u.Scheme, u.Authority)
		if err != nil {
			return nil, "", err
		}
		fs.buckets[key] = st
	}
	return st, u.Path, nil
}

func notExist(st Storage, op, name string, err error) error {
	if st.IsNotExistError(err) {
		return &os.PathError{Op: op, Path: name, Err: os.ErrNotExist}
	}
	return err
}

// Create implements vfs.FS.Create.
func (fs *FS) Create(name string) (vfs.WritableFile, error) {
	st, key, err := fs.resolve(name)
	if err != nil {
		return nil, err
	}
	w, err := st.CreateObject(key)
	if err != nil {
		return nil, err
	}
	return objectWriter{w}, nil
}

type objectWriter struct {
	io.WriteCloser
}

// Sync is a no-op; objects become visible on Close.
func (objectWriter) Sync() error {
	return nil
}

// Open implements vfs.FS.Open.
func (fs *FS) Open(name string) (vfs.File, error) {
	st, key, err := fs.resolve(name)
	if err != nil {
		return nil, err
	}
	r, size, err := st.ReadObject(context.Background(), key)
	if err != nil {
		return nil, notExist(st, "open", name, err)
	}
	return &objectFile{name: name, r: r, size: size}, nil
}

// objectFile adapts an ObjectReader to vfs.File.
type objectFile struct {
	name string
	r    ObjectReader
	size int64
	pos  int64
}

var _ vfs.File = (*objectFile)(nil)

func (f *objectFile) ReadAt(p []byte, off int64) (int, error) {
	if off >= f.size {
		return 0, io.EOF
	}
	n := len(p)
	if rem := f.size - off; int64(n) > rem {
		n = int(rem)
	}
	if err := f.r.ReadAt(context.Background(), p[:n], off); err != nil {
		return 0, err
	}
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (f *objectFile) Read(p []byte) (int, error) {
	if f.pos >= f.size {
		return 0, io.EOF
	}
	n, err := f.ReadAt(p, f.pos)
	f.pos += int64(n)
	if err == io.EOF && n > 0 {
		err = nil
	}
	return n, err
}

func (f *objectFile) Stat() (os.FileInfo, error) {
	return vfs.NewFileInfo(vfs.BaseURI(f.name), f.size, time.Time{}, false), nil
}

func (f *objectFile) Close() error {
	return f.r.Close()
}

// Remove implements vfs.FS.Remove.
func (fs *FS) Remove(name string) error {
	st, key, err := fs.resolve(name)
	if err != nil {
		return err
	}
	return notExist(st, "remove", name, st.Delete(key))
}

// MkdirAll implements vfs.FS.MkdirAll. Object stores have no directories.
func (fs *FS) MkdirAll(dir string, perm os.FileMode) error {
	_, _, err := fs.resolve(dir)
	return err
}

// List implements vfs.FS.List.
func (fs *FS) List(dir string) ([]string, error) {
	st, key, err := fs.resolve(dir)
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimSuffix(key, "/")
	if prefix != "" {
		prefix += "/"
	}
	names, err := st.List(prefix, "/")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// Stat implements vfs.FS.Stat. Names that are a prefix of other objects but
// not objects themselves are reported as directories.
func (fs *FS) Stat(name string) (os.FileInfo, error) {
	st, key, err := fs.resolve(name)
	if err != nil {
		return nil, err
	}
	size, err := st.Size(key)
	if err == nil {
		return vfs.NewFileInfo(vfs.BaseURI(name), size, time.Time{}, false), nil
	}
	if !st.IsNotExistError(err) {
		return nil, err
	}
	children, listErr := st.List(strings.TrimSuffix(key, "/")+"/", "/")
	if listErr == nil && len(children) > 0 {
		return vfs.NewFileInfo(vfs.BaseURI(name), 0, time.Time{}, true), nil
	}
	return nil, notExist(st, "stat", name, err)
}

// PathBase implements vfs.FS.PathBase.
func (*FS) PathBase(path string) string {
	return vfs.BaseURI(path)
}

// PathJoin implements vfs.FS.PathJoin.
func (*FS) PathJoin(elem ...string) string {
	return vfs.JoinURI(elem...)
}

// Close closes the storage of every opened bucket.
func (fs *FS) Close() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	var err error
	for key, st := range fs.buckets {
		err = errors.CombineErrors(err, st.Close())
		delete(fs.buckets, key)
	}
	return err
}
