// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package factory maps file URIs to the vfs.FS backend that serves them.
package factory

import (
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/colscan/lowcard/internal/base"
	"github.com/colscan/lowcard/objstorage/remote"
	"github.com/colscan/lowcard/vfs"
)

// ErrNotSupported is the mark of errors returned for URIs whose scheme no
// backend serves.
var ErrNotSupported = errors.New("vfs: unsupported filesystem")

// Kind is a filesystem backend.
type Kind int8

const (
	// KindUnknown is the Kind of URIs no backend serves.
	KindUnknown Kind = iota
	// KindPosix is the local filesystem.
	KindPosix
	// KindHDFS is HDFS, addressed with hdfs:// or viewfs:// URIs.
	KindHDFS
	// KindObject is an S3 compatible object store.
	KindObject

	numKinds
)

func (k Kind) String() string {
	switch k {
	case KindPosix:
		return "posix"
	case KindHDFS:
		return "hdfs"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

var hdfsPrefixes = []string{"hdfs://", "viewfs://"}

var objectPrefixes = []string{
	"s3://", "s3a://", "s3n://", "oss://", "cos://", "cosn://", "obs://", "ks3://",
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// Classify returns the backend serving uri. Plain paths, which contain no
// ':', and posix:// URIs are local.
func Classify(uri string) Kind {
	switch {
	case !strings.Contains(uri, ":") || strings.HasPrefix(uri, vfs.PosixScheme):
		return KindPosix
	case hasAnyPrefix(uri, hdfsPrefixes):
		return KindHDFS
	case hasAnyPrefix(uri, objectPrefixes):
		return KindObject
	default:
		return KindUnknown
	}
}

// Options configures the backends created by the factory.
type Options struct {
	HDFS vfs.HDFSOptions `yaml:"hdfs"`
	// S3 configures the object store client shared by every object store
	// scheme. Endpoints overrides the endpoint per scheme, e.g. to point
	// "oss" URIs at an OSS region.
	S3        remote.S3Options  `yaml:"s3"`
	Endpoints map[string]string `yaml:"endpoints"`
	// LogObjectOps logs every object store operation to Logger.
	LogObjectOps bool `yaml:"log_object_ops"`

	Logger base.Logger `yaml:"-"`
	// OpenBucket overrides how object store buckets are opened. Tests use it
	// to substitute in-memory storage.
	OpenBucket remote.BucketOpener `yaml:"-"`
}

// EnsureDefaults ensures that background options are set to their default
// values if they have not been set.
func (o *Options) EnsureDefaults() *Options {
	if o == nil {
		o = &Options{}
	}
	if o.Logger == nil {
		o.Logger = base.DefaultLogger{}
	}
	if o.OpenBucket == nil {
		o.OpenBucket = o.openS3Bucket
	}
	if o.LogObjectOps {
		open, logger := o.OpenBucket, o.Logger
		o.OpenBucket = func(scheme, bucket string) (remote.Storage, error) {
			st, err := open(scheme, bucket)
			if err != nil {
				return nil, err
			}
			return remote.WithLogging(st, logger), nil
		}
		o.LogObjectOps = false
	}
	return o
}

// openS3Bucket dials the object store of scheme. Clients are not shared
// between buckets; minio clients do not connect until the first request.
func (o *Options) openS3Bucket(scheme, bucket string) (remote.Storage, error) {
	s3opts := o.S3
	if ep, ok := o.Endpoints[scheme]; ok {
		s3opts.Endpoint = ep
	}
	client, err := remote.NewS3Client(s3opts)
	if err != nil {
		return nil, errors.Wrapf(err, "vfs: opening %s://%s", scheme, bucket)
	}
	return remote.NewS3(client, bucket), nil
}

func notSupported(uri string) error {
	return errors.Mark(errors.Newf("vfs: no filesystem associated with %q", uri), ErrNotSupported)
}

// NewFromURI returns a new instance of the backend serving uri. The caller
// owns the instance; backends holding connections implement io.Closer.
func NewFromURI(uri string, opts Options) (vfs.FS, error) {
	return newFS(Classify(uri), uri, *opts.EnsureDefaults())
}

func newFS(kind Kind, uri string, opts Options) (vfs.FS, error) {
	switch kind {
	case KindPosix:
		return vfs.Default, nil
	case KindHDFS:
		return vfs.NewHDFS(opts.HDFS), nil
	case KindObject:
		return remote.NewFS(opts.OpenBucket), nil
	default:
		return nil, notSupported(uri)
	}
}

// shared holds one lazily created instance per backend kind for the whole
// process. Every backend is safe for concurrent use.
var shared struct {
	mu        sync.Mutex
	opts      Options
	instances [numKinds]vfs.FS
}

// SetSharedOptions sets the options of the instances returned by
// SharedFromURI and drops the instances created so far. It does not close
// them, as callers may still hold them.
func SetSharedOptions(opts Options) {
	shared.mu.Lock()
	defer shared.mu.Unlock()
	shared.opts = opts
	shared.instances = [numKinds]vfs.FS{}
}

// SharedFromURI returns the process-wide instance of the backend serving
// uri, creating it on first use. The instance must not be closed by the
// caller.
func SharedFromURI(uri string) (vfs.FS, error) {
	kind := Classify(uri)
	if kind == KindUnknown {
		return nil, notSupported(uri)
	}
	shared.mu.Lock()
	defer shared.mu.Unlock()
	if fs := shared.instances[kind]; fs != nil {
		return fs, nil
	}
	fs, err := newFS(kind, uri, *shared.opts.EnsureDefaults())
	if err != nil {
		return nil, err
	}
	shared.instances[kind] = fs
	return fs, nil
}
