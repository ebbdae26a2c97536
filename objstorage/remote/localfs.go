// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package remote

import (
	"context"
	"io"
	"path"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/oserror"
	"github.com/colscan/lowcard/vfs"
)

// NewLocalFS returns a vfs-backed implementation of the remote.Storage
// interface (for testing). All objects will be stored at the directory
// dirname; object names containing slashes map to subdirectories.
func NewLocalFS(dirname string, fs vfs.FS) Storage {
	store := &localFSStore{
		dirname: dirname,
		vfs:     fs,
	}
	return store
}

// localFSStore is a vfs-backed implementation of the remote.Storage
// interface (for testing).
type localFSStore struct {
	dirname string
	vfs     vfs.FS
}

var _ Storage = (*localFSStore)(nil)

// Close is part of the remote.Storage interface.
func (s *localFSStore) Close() error {
	*s = localFSStore{}
	return nil
}

func (s *localFSStore) path(objName string) string {
	return s.vfs.PathJoin(s.dirname, objName)
}

// ReadObject is part of the remote.Storage interface.
func (s *localFSStore) ReadObject(
	ctx context.Context, objName string,
) (_ ObjectReader, objSize int64, _ error) {
	f, err := s.vfs.Open(s.path(objName))
	if err != nil {
		return nil, 0, err
	}
	stat, err := f.Stat()
	if err != nil {
		return nil, 0, errors.CombineErrors(err, f.Close())
	}

	return &localFSReader{f}, stat.Size(), nil
}

type localFSReader struct {
	file vfs.File
}

var _ ObjectReader = (*localFSReader)(nil)

// ReadAt is part of the remote.ObjectReader interface.
func (r *localFSReader) ReadAt(_ context.Context, p []byte, offset int64) error {
	n, err := r.file.ReadAt(p, offset)
	// https://pkg.go.dev/io#ReaderAt
	if err == io.EOF && n == len(p) {
		return nil
	}
	return err
}

// Close is part of the remote.ObjectReader interface.
func (r *localFSReader) Close() error {
	err := r.file.Close()
	r.file = nil
	return err
}

type objWriter struct {
	vfs.WritableFile
}

func (w *objWriter) Close() error {
	if w.WritableFile == nil {
		return nil
	}
	err := w.WritableFile.Sync()
	err = errors.CombineErrors(err, w.WritableFile.Close())
	*w = objWriter{}
	return err
}

// CreateObject is part of the remote.Storage interface.
func (s *localFSStore) CreateObject(objName string) (io.WriteCloser, error) {
	name := s.path(objName)
	if dir := path.Dir(objName); dir != "." {
		if err := s.vfs.MkdirAll(s.path(dir), 0755); err != nil {
			return nil, err
		}
	}
	file, err := s.vfs.Create(name)
	if err != nil {
		return nil, err
	}
	return &objWriter{WritableFile: file}, nil
}

// List is part of the remote.Storage interface.
func (s *localFSStore) List(prefix, delimiter string) ([]string, error) {
	var names []string
	if err := s.walk("", &names); err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	res := make([]string, 0, len(names))
	for _, name := range names {
		entry, ok := groupListing(name, prefix, delimiter)
		if !ok {
			continue
		}
		if _, dup := seen[entry]; !dup {
			seen[entry] = struct{}{}
			res = append(res, entry)
		}
	}
	return res, nil
}

// walk appends the object names below the directory rel to names.
func (s *localFSStore) walk(rel string, names *[]string) error {
	children, err := s.vfs.List(s.path(rel))
	if err != nil {
		return err
	}
	for _, child := range children {
		name := path.Join(rel, child)
		fi, err := s.vfs.Stat(s.path(name))
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if err := s.walk(name, names); err != nil {
				return err
			}
			continue
		}
		*names = append(*names, name)
	}
	return nil
}

// Delete is part of the remote.Storage interface.
func (s *localFSStore) Delete(objName string) error {
	return s.vfs.Remove(s.path(objName))
}

// Size is part of the remote.Storage interface.
func (s *localFSStore) Size(objName string) (int64, error) {
	stat, err := s.vfs.Stat(s.path(objName))
	if err != nil {
		return 0, err
	}
	return stat.Size(), nil
}

// IsNotExistError is part of the remote.Storage interface.
func (s *localFSStore) IsNotExistError(err error) bool {
	return oserror.IsNotExist(err)
}
