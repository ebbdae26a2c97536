// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package remote

import (
	"context"
	"io"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Options configures the client of an S3 compatible object store.
type S3Options struct {
	// Endpoint is the host[:port] of the object store, e.g.
	// "s3.us-east-1.amazonaws.com".
	Endpoint string `yaml:"endpoint"`
	Region   string `yaml:"region"`
	// AccessKey and SecretKey are static credentials. If AccessKey is empty
	// the credentials are looked up in the environment, the AWS credentials
	// file and the instance metadata service, in that order.
	AccessKey    string `yaml:"access_key"`
	SecretKey    string `yaml:"secret_key"`
	SessionToken string `yaml:"session_token"`
	Insecure     bool   `yaml:"insecure"`
	// PathStyle forces path style bucket addressing, which most non-AWS
	// stores require.
	PathStyle bool `yaml:"path_style"`
}

// NewS3Client returns a minio client for the store described by opts.
func NewS3Client(opts S3Options) (*minio.Client, error) {
	if opts.Endpoint == "" {
		return nil, errors.New("remote: no object store endpoint configured")
	}
	var chain []credentials.Provider
	if opts.AccessKey != "" {
		chain = []credentials.Provider{&credentials.Static{
			Value: credentials.Value{
				AccessKeyID:     opts.AccessKey,
				SecretAccessKey: opts.SecretKey,
				SessionToken:    opts.SessionToken,
				SignerType:      credentials.SignatureV4,
			},
		}}
	} else {
		chain = []credentials.Provider{
			&credentials.EnvAWS{},
			&credentials.FileAWSCredentials{},
			&credentials.IAM{
				Client: &http.Client{
					Transport: http.DefaultTransport,
				},
			},
		}
	}
	lookup := minio.BucketLookupAuto
	if opts.PathStyle {
		lookup = minio.BucketLookupPath
	}
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:        credentials.NewChainCredentials(chain),
		Secure:       !opts.Insecure,
		Region:       opts.Region,
		BucketLookup: lookup,
	})
	if err != nil {
		return nil, errors.Wrap(err, "remote: initialize s3 client")
	}
	return client, nil
}

// NewS3 returns a remote.Storage over one bucket of an S3 compatible object
// store.
func NewS3(client *minio.Client, bucket string) Storage {
	return &s3Store{client: client, bucket: bucket}
}

type s3Store struct {
	client *minio.Client
	bucket string
}

var _ Storage = (*s3Store)(nil)

// Close is part of the remote.Storage interface. The client is shared and
// left open.
func (s *s3Store) Close() error {
	return nil
}

// ReadObject is part of the remote.Storage interface.
func (s *s3Store) ReadObject(
	ctx context.Context, objName string,
) (_ ObjectReader, objSize int64, _ error) {
	info, err := s.client.StatObject(ctx, s.bucket, objName, minio.StatObjectOptions{})
	if err != nil {
		return nil, 0, err
	}
	return &s3Reader{store: s, name: objName}, info.Size, nil
}

// s3Reader issues one ranged GET per ReadAt.
type s3Reader struct {
	store *s3Store
	name  string
}

var _ ObjectReader = (*s3Reader)(nil)

func (r *s3Reader) ReadAt(ctx context.Context, p []byte, offset int64) error {
	if len(p) == 0 {
		return nil
	}
	opts := minio.GetObjectOptions{}
	if err := opts.SetRange(offset, offset+int64(len(p))-1); err != nil {
		return err
	}
	obj, err := r.store.client.GetObject(ctx, r.store.bucket, r.name, opts)
	if err != nil {
		return err
	}
	_, err = io.ReadFull(obj, p)
	return errors.CombineErrors(err, obj.Close())
}

func (r *s3Reader) Close() error {
	return nil
}

// CreateObject is part of the remote.Storage interface. The object is
// streamed with a multipart upload; the upload result is returned by Close.
func (s *s3Store) CreateObject(objName string) (io.WriteCloser, error) {
	pr, pw := io.Pipe()
	w := &s3Writer{pw: pw, done: make(chan error, 1)}
	go func() {
		_, err := s.client.PutObject(context.Background(), s.bucket, objName, pr, -1, minio.PutObjectOptions{})
		pr.CloseWithError(err)
		w.done <- err
	}()
	return w, nil
}

type s3Writer struct {
	pw   *io.PipeWriter
	done chan error
}

func (w *s3Writer) Write(p []byte) (int, error) {
	return w.pw.Write(p)
}

func (w *s3Writer) Close() error {
	if w.done == nil {
		return nil
	}
	_ = w.pw.Close()
	err := <-w.done
	w.done = nil
	return errors.Wrap(err, "remote: upload s3 object")
}

// List is part of the remote.Storage interface. Only the "/" delimiter is
// supported.
func (s *s3Store) List(prefix, delimiter string) ([]string, error) {
	if delimiter != "" && delimiter != "/" {
		return nil, errors.Newf("remote: unsupported list delimiter %q", delimiter)
	}
	opts := minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: delimiter == "",
	}
	var res []string
	for object := range s.client.ListObjects(context.Background(), s.bucket, opts) {
		if object.Err != nil {
			return nil, object.Err
		}
		entry, ok := groupListing(object.Key, prefix, delimiter)
		if !ok || entry == "" {
			continue
		}
		res = append(res, entry)
	}
	return res, nil
}

// Delete is part of the remote.Storage interface.
func (s *s3Store) Delete(objName string) error {
	return s.client.RemoveObject(context.Background(), s.bucket, objName, minio.RemoveObjectOptions{})
}

// Size is part of the remote.Storage interface.
func (s *s3Store) Size(objName string) (int64, error) {
	info, err := s.client.StatObject(context.Background(), s.bucket, objName, minio.StatObjectOptions{})
	if err != nil {
		return 0, err
	}
	return info.Size, nil
}

// IsNotExistError is part of the remote.Storage interface.
func (s *s3Store) IsNotExistError(err error) bool {
	return minio.ToErrorResponse(errors.Cause(err)).Code == "NoSuchKey"
}
