// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package vfs

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors/oserror"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, fs FS, name, contents string) {
	t.Helper()
	f, err := fs.Create(name)
	require.NoError(t, err)
	_, err = io.WriteString(f, contents)
	require.NoError(t, err)
	require.NoError(t, f.Sync())
	require.NoError(t, f.Close())
}

func readFile(t *testing.T, fs FS, name string) string {
	t.Helper()
	f, err := fs.Open(name)
	require.NoError(t, err)
	defer f.Close()
	b, err := io.ReadAll(f)
	require.NoError(t, err)
	return string(b)
}

func testFS(t *testing.T, fs FS, root string) {
	dir := fs.PathJoin(root, "a")
	require.NoError(t, fs.MkdirAll(dir, 0755))
	writeFile(t, fs, fs.PathJoin(dir, "x"), "hello")
	writeFile(t, fs, fs.PathJoin(dir, "y"), "world!")
	require.Equal(t, "hello", readFile(t, fs, fs.PathJoin(dir, "x")))

	// Create truncates.
	writeFile(t, fs, fs.PathJoin(dir, "x"), "hi")
	require.Equal(t, "hi", readFile(t, fs, fs.PathJoin(dir, "x")))

	fi, err := fs.Stat(fs.PathJoin(dir, "y"))
	require.NoError(t, err)
	require.EqualValues(t, 6, fi.Size())
	require.Equal(t, "y", fi.Name())

	f, err := fs.Open(fs.PathJoin(dir, "y"))
	require.NoError(t, err)
	buf := make([]byte, 3)
	n, err := f.ReadAt(buf, 3)
	require.NoError(t, err)
	require.Equal(t, "ld!", string(buf[:n]))
	require.NoError(t, f.Close())

	names, err := fs.List(dir)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"x", "y"}, names)

	require.NoError(t, fs.Remove(fs.PathJoin(dir, "x")))
	_, err = fs.Stat(fs.PathJoin(dir, "x"))
	require.True(t, oserror.IsNotExist(err), "%v", err)
	_, err = fs.Open(fs.PathJoin(dir, "x"))
	require.True(t, oserror.IsNotExist(err), "%v", err)
	require.Equal(t, "y", fs.PathBase(fs.PathJoin(dir, "y")))
}

func TestDefaultFS(t *testing.T) {
	testFS(t, Default, t.TempDir())
}

func TestDefaultFSPosixScheme(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, Default, PosixScheme+filepath.Join(dir, "f"), "abc")
	require.Equal(t, "abc", readFile(t, Default, filepath.Join(dir, "f")))
	require.Equal(t, "f", Default.PathBase(PosixScheme+filepath.Join(dir, "f")))
}

func TestMemFS(t *testing.T) {
	fs := NewMem()
	testFS(t, fs, "/root")
	require.Equal(t, "root/a/y 6\n", fs.String())

	names, err := fs.List("")
	require.NoError(t, err)
	require.Equal(t, []string{"root"}, names)
	fi, err := fs.Stat("/root/a")
	require.NoError(t, err)
	require.True(t, fi.IsDir())

	_, err = fs.List("missing")
	require.True(t, oserror.IsNotExist(err))
}

func TestMemFSReadAtEOF(t *testing.T) {
	fs := NewMem()
	writeFile(t, fs, "f", "abc")
	f, err := fs.Open("f")
	require.NoError(t, err)
	buf := make([]byte, 4)
	n, err := f.ReadAt(buf, 1)
	require.Equal(t, io.EOF, err)
	require.Equal(t, "bc", string(buf[:n]))
	_, err = f.ReadAt(buf, 3)
	require.Equal(t, io.EOF, err)
	require.NoError(t, f.Close())
	require.Error(t, f.Close())
}

func TestURI(t *testing.T) {
	u, err := ParseURI("hdfs://nn:8020/warehouse/t/part-0.parquet")
	require.NoError(t, err)
	require.Equal(t, URI{Scheme: "hdfs", Authority: "nn:8020", Path: "warehouse/t/part-0.parquet"}, u)
	require.Equal(t, "hdfs://nn:8020/warehouse/t/part-0.parquet", u.String())

	u, err = ParseURI("hdfs:///warehouse")
	require.NoError(t, err)
	require.Equal(t, "", u.Authority)
	require.Equal(t, "warehouse", u.Path)

	_, err = ParseURI("/tmp/x")
	require.Error(t, err)

	require.Equal(t, "s3://bucket/a/b/c", JoinURI("s3://bucket/a", "b", "c"))
	require.Equal(t, "s3://bucket/b", JoinURI("s3://bucket", "b"))
	require.Equal(t, "s3://bucket/a", JoinURI("s3://bucket/a/b", ".."))
	require.Equal(t, "a/b", JoinURI("a", "b"))
	require.Equal(t, "c", BaseURI("s3://bucket/a/b/c"))
	require.Equal(t, "/", BaseURI("s3://bucket"))
}

func TestHDFSRejectsForeignScheme(t *testing.T) {
	fs := NewHDFS(HDFSOptions{User: "test"})
	_, err := fs.Open("s3://bucket/key")
	require.Error(t, err)
	_, err = fs.Open("/local/path")
	require.Error(t, err)
	require.Equal(t, "hdfs://nn/a/b", fs.PathJoin("hdfs://nn/a", "b"))
	require.NoError(t, fs.Close())
}

func TestPrefetch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, Default, filepath.Join(dir, "f"), "abcdef")
	f, err := Default.Open(filepath.Join(dir, "f"))
	require.NoError(t, err)
	require.NoError(t, Prefetch(f, 2, 4))
	require.NoError(t, f.Close())

	mem := NewMem()
	writeFile(t, mem, "f", "abc")
	f, err = mem.Open("f")
	require.NoError(t, err)
	require.NoError(t, Prefetch(f, 0, 3))
	require.NoError(t, f.Close())
}
