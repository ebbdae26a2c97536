// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package vfs

import (
	"os"
	"path"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// NewFileInfo returns an os.FileInfo for backends that have no native one.
func NewFileInfo(name string, size int64, modTime time.Time, isDir bool) os.FileInfo {
	return fileInfo{name: name, size: size, modTime: modTime, isDir: isDir}
}

type fileInfo struct {
	name    string
	size    int64
	modTime time.Time
	isDir   bool
}

func (fi fileInfo) Name() string       { return fi.name }
func (fi fileInfo) Size() int64        { return fi.size }
func (fi fileInfo) ModTime() time.Time { return fi.modTime }
func (fi fileInfo) IsDir() bool        { return fi.isDir }
func (fi fileInfo) Sys() interface{}   { return nil }

func (fi fileInfo) Mode() os.FileMode {
	if fi.isDir {
		return os.ModeDir | 0755
	}
	return 0644
}

// URI is a parsed "scheme://authority/path" file name.
type URI struct {
	Scheme    string
	Authority string
	// Path is the slash separated path following the authority, without a
	// leading slash.
	Path string
}

// ParseURI splits name into its scheme, authority and path. Query strings
// and fragments are not interpreted.
func ParseURI(name string) (URI, error) {
	scheme, rest, ok := strings.Cut(name, "://")
	if !ok || scheme == "" {
		return URI{}, errors.Newf("vfs: %q is not a URI", name)
	}
	authority, p, _ := strings.Cut(rest, sep)
	return URI{Scheme: scheme, Authority: authority, Path: p}, nil
}

// String reassembles the URI.
func (u URI) String() string {
	return u.Scheme + "://" + u.Authority + sep + u.Path
}

// Join returns the URI with elem appended to its path.
func (u URI) Join(elem ...string) URI {
	parts := append([]string{sep + u.Path}, elem...)
	u.Path = strings.TrimPrefix(path.Join(parts...), sep)
	return u
}

// JoinURI joins path elements onto a URI. It is the PathJoin of the URI
// addressed backends. If the first element does not parse as a URI the
// elements are joined as a plain slash separated path.
func JoinURI(elem ...string) string {
	if len(elem) == 0 {
		return ""
	}
	u, err := ParseURI(elem[0])
	if err != nil {
		return path.Join(elem...)
	}
	return u.Join(elem[1:]...).String()
}

// BaseURI returns the last element of the path of a URI.
func BaseURI(name string) string {
	if u, err := ParseURI(name); err == nil {
		name = sep + u.Path
	}
	return path.Base(name)
}
