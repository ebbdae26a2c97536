// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package vfs

import (
	"os"
	"os/user"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/colinmarc/hdfs/v2"
	"github.com/colinmarc/hdfs/v2/hadoopconf"
)

const defaultNamenodePort = "8020"

// HDFSOptions configures the HDFS backend.
type HDFSOptions struct {
	// User is the HDFS user the client acts as. Defaults to
	// $HADOOP_USER_NAME, then the current OS user.
	User string `yaml:"user"`
	// Namenodes are used for names without an authority, e.g.
	// "hdfs:///warehouse/t". If empty, the namenodes of the Hadoop
	// configuration found through $HADOOP_CONF_DIR are used.
	Namenodes []string `yaml:"namenodes"`
}

// NewHDFS returns a FS over HDFS. Names are "hdfs://" or "viewfs://" URIs.
// A client is dialed lazily for every distinct authority and kept until the
// FS is closed.
func NewHDFS(opts HDFSOptions) *HDFS {
	return &HDFS{opts: opts, clients: make(map[string]*hdfs.Client)}
}

// HDFS implements FS.
type HDFS struct {
	opts HDFSOptions

	mu      sync.Mutex
	clients map[string]*hdfs.Client
}

var _ FS = (*HDFS)(nil)

func (fs *HDFS) resolve(name string) (*hdfs.Client, string, error) {
	u, err := ParseURI(name)
	if err != nil {
		return nil, "", err
	}
	if u.Scheme != "hdfs" && u.Scheme != "viewfs" {
		return nil, "", errors.Newf("vfs: %q is not an HDFS URI", name)
	}
	c, err := fs.client(u.Authority)
	if err != nil {
		return nil, "", err
	}
	return c, sep + u.Path, nil
}

func (fs *HDFS) client(authority string) (*hdfs.Client, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if c, ok := fs.clients[authority]; ok {
		return c, nil
	}
	var co hdfs.ClientOptions
	switch {
	case authority != "":
		if !strings.Contains(authority, ":") {
			authority += ":" + defaultNamenodePort
		}
		co.Addresses = []string{authority}
	case len(fs.opts.Namenodes) > 0:
		co.Addresses = fs.opts.Namenodes
	default:
		conf, err := hadoopconf.LoadFromEnvironment()
		if err != nil {
			return nil, errors.Wrap(err, "vfs: loading hadoop configuration")
		}
		co = hdfs.ClientOptionsFromConf(conf)
		if len(co.Addresses) == 0 {
			return nil, errors.New("vfs: no namenode configured for HDFS URI without authority")
		}
	}
	co.User = fs.user()
	c, err := hdfs.NewClient(co)
	if err != nil {
		return nil, errors.Wrapf(err, "vfs: connecting to %v", co.Addresses)
	}
	fs.clients[authority] = c
	return c, nil
}

func (fs *HDFS) user() string {
	if fs.opts.User != "" {
		return fs.opts.User
	}
	if u := os.Getenv("HADOOP_USER_NAME"); u != "" {
		return u
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return "root"
}

// Create implements FS.Create.
func (fs *HDFS) Create(name string) (WritableFile, error) {
	c, p, err := fs.resolve(name)
	if err != nil {
		return nil, err
	}
	// HDFS files are write-once; truncation is removal followed by creation.
	if err := c.Remove(p); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	w, err := c.Create(p)
	if err != nil {
		return nil, err
	}
	return hdfsWriter{w}, nil
}

type hdfsWriter struct {
	*hdfs.FileWriter
}

// Sync flushes buffered data to the datanodes.
func (w hdfsWriter) Sync() error {
	return w.Flush()
}

// Open implements FS.Open.
func (fs *HDFS) Open(name string) (File, error) {
	c, p, err := fs.resolve(name)
	if err != nil {
		return nil, err
	}
	r, err := c.Open(p)
	if err != nil {
		return nil, err
	}
	return hdfsReader{r}, nil
}

type hdfsReader struct {
	*hdfs.FileReader
}

func (r hdfsReader) Stat() (os.FileInfo, error) {
	return r.FileReader.Stat(), nil
}

// Remove implements FS.Remove.
func (fs *HDFS) Remove(name string) error {
	c, p, err := fs.resolve(name)
	if err != nil {
		return err
	}
	return c.Remove(p)
}

// MkdirAll implements FS.MkdirAll.
func (fs *HDFS) MkdirAll(dir string, perm os.FileMode) error {
	c, p, err := fs.resolve(dir)
	if err != nil {
		return err
	}
	return c.MkdirAll(p, perm)
}

// List implements FS.List.
func (fs *HDFS) List(dir string) ([]string, error) {
	c, p, err := fs.resolve(dir)
	if err != nil {
		return nil, err
	}
	infos, err := c.ReadDir(p)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(infos))
	for i := range infos {
		names[i] = infos[i].Name()
	}
	return names, nil
}

// Stat implements FS.Stat.
func (fs *HDFS) Stat(name string) (os.FileInfo, error) {
	c, p, err := fs.resolve(name)
	if err != nil {
		return nil, err
	}
	return c.Stat(p)
}

// PathBase implements FS.PathBase.
func (*HDFS) PathBase(path string) string {
	return BaseURI(path)
}

// PathJoin implements FS.PathJoin.
func (*HDFS) PathJoin(elem ...string) string {
	return JoinURI(elem...)
}

// Close closes every client dialed by the FS.
func (fs *HDFS) Close() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	var err error
	for authority, c := range fs.clients {
		err = errors.CombineErrors(err, c.Close())
		delete(fs.clients, authority)
	}
	return err
}
