// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package remote holds the blob storage drivers behind the object store
// filesystems: an S3 compatible driver and in-memory and local drivers for
// testing.
package remote

import (
	"context"
	"io"
)

// Storage is an interface for a blob storage driver scoped to a single bucket.
// This is lower-level than an FS-like interface; NewFS builds a vfs.FS on top
// of these methods.
type Storage interface {
	io.Closer

	// ReadObject returns an ObjectReader that can be used to perform reads on
	// an object, along with the total size of the object.
	ReadObject(ctx context.Context, objName string) (_ ObjectReader, objSize int64, _ error)

	// CreateObject returns a writer for the object at the request name. A new
	// empty object is created if CreateObject is called on an existing object.
	//
	// A Writer *must* be closed via either Close, and if closing returns a
	// non-nil error, that error should be handled or reported to the user: an
	// implementation may buffer written data until Close and only then return
	// an error.
	CreateObject(objName string) (io.WriteCloser, error)

	// List enumerates objects whose name starts with prefix, returning their
	// names with the prefix trimmed. If delimiter is non-empty, names which
	// share the text between the prefix and the next delimiter are grouped
	// into a single result which is that text. The order of the results is
	// undefined.
	//
	// For example, if the storage contains objects a, b/4, b/5 and b/6:
	//   List("", "") -> ["a", "b/4", "b/5", "b/6"]
	//   List("", "/") -> ["a", "b"]
	//   List("b/", "/") -> ["4", "5", "6"]
	//   List("b", "") -> ["/4", "/5", "/6"]
	List(prefix, delimiter string) ([]string, error)

	// Delete removes the named object from the store.
	Delete(objName string) error

	// Size returns the length of the named object in bytes.
	Size(objName string) (int64, error)

	// IsNotExistError returns true if the given error (returned by a method in
	// this interface) indicates that the object does not exist.
	IsNotExistError(err error) bool
}

// ObjectReader is used to perform reads on an object.
type ObjectReader interface {
	// ReadAt reads len(p) bytes into p starting at offset off. It returns an
	// error if fewer bytes were read.
	ReadAt(ctx context.Context, p []byte, offset int64) error

	Close() error
}

// groupListing applies the prefix and delimiter rules of Storage.List to a
// single object name. It returns false if the name does not match.
func groupListing(name, prefix, delimiter string) (string, bool) {
	if len(name) < len(prefix) || name[:len(prefix)] != prefix {
		return "", false
	}
	name = name[len(prefix):]
	if delimiter != "" {
		for i := 0; i+len(delimiter) <= len(name); i++ {
			if name[i:i+len(delimiter)] == delimiter {
				return name[:i], true
			}
		}
	}
	return name, true
}
