// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package remote

import (
	"context"
	"fmt"
	"io"
	"sort"
	"testing"

	"github.com/cockroachdb/errors/oserror"
	"github.com/colscan/lowcard/internal/base"
	"github.com/colscan/lowcard/vfs"
	"github.com/stretchr/testify/require"
)

func put(t *testing.T, s Storage, name, data string) {
	t.Helper()
	w, err := s.CreateObject(name)
	require.NoError(t, err)
	_, err = io.WriteString(w, data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func sorted(names []string, err error) ([]string, error) {
	sort.Strings(names)
	return names, err
}

func testStorage(t *testing.T, s Storage) {
	ctx := context.Background()
	put(t, s, "a", "alpha")
	put(t, s, "b/4", "four")
	put(t, s, "b/5", "five")
	put(t, s, "b/6", "six")

	names, err := sorted(s.List("", ""))
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b/4", "b/5", "b/6"}, names)
	names, err = sorted(s.List("", "/"))
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, names)
	names, err = sorted(s.List("b/", "/"))
	require.NoError(t, err)
	require.Equal(t, []string{"4", "5", "6"}, names)
	names, err = sorted(s.List("b", ""))
	require.NoError(t, err)
	require.Equal(t, []string{"/4", "/5", "/6"}, names)

	r, size, err := s.ReadObject(ctx, "b/5")
	require.NoError(t, err)
	require.EqualValues(t, 4, size)
	buf := make([]byte, 3)
	require.NoError(t, r.ReadAt(ctx, buf, 1))
	require.Equal(t, "ive", string(buf))
	require.Error(t, r.ReadAt(ctx, buf, 2))
	require.NoError(t, r.Close())

	size, err = s.Size("a")
	require.NoError(t, err)
	require.EqualValues(t, 5, size)

	require.NoError(t, s.Delete("a"))
	_, err = s.Size("a")
	require.True(t, s.IsNotExistError(err), "%v", err)
	_, _, err = s.ReadObject(ctx, "a")
	require.True(t, s.IsNotExistError(err), "%v", err)
	require.NoError(t, s.Close())
}

func TestInMem(t *testing.T) {
	testStorage(t, NewInMem())
}

func TestLocalFS(t *testing.T) {
	t.Run("mem", func(t *testing.T) {
		testStorage(t, NewLocalFS("store", vfs.NewMem()))
	})
	t.Run("disk", func(t *testing.T) {
		testStorage(t, NewLocalFS(t.TempDir(), vfs.Default))
	})
}

func TestLogging(t *testing.T) {
	var log base.InMemLogger
	s := WithLogging(NewInMem(), &log)
	testStorage(t, s)
	require.Equal(t, `create object "a"
close writer for "a" after 5 bytes
create object "b/4"
close writer for "b/4" after 4 bytes
create object "b/5"
close writer for "b/5" after 4 bytes
create object "b/6"
close writer for "b/6" after 3 bytes
list (prefix="", delimiter="")
 - a
 - b/4
 - b/5
 - b/6
list (prefix="", delimiter="/")
 - a
 - b
list (prefix="b/", delimiter="/")
 - 4
 - 5
 - 6
list (prefix="b", delimiter="")
 - /4
 - /5
 - /6
create reader for object "b/5": 4 bytes
read object "b/5" at 2 (length 3): read of 3 bytes at 2 past object end 4: unexpected EOF
close reader for "b/5"
size of object "a": 5
delete object "a"
size of object "a": error: file does not exist
create reader for object "a": error: file does not exist
close
`, log.String())
}

func TestFS(t *testing.T) {
	var opened []string
	stores := map[string]Storage{}
	fs := NewFS(func(scheme, bucket string) (Storage, error) {
		opened = append(opened, scheme+"://"+bucket)
		if bucket == "missing" {
			return nil, fmt.Errorf("no such bucket %q", bucket)
		}
		s := NewInMem()
		stores[bucket] = s
		return s, nil
	})

	f, err := fs.Create("s3://warehouse/t/part-0")
	require.NoError(t, err)
	_, err = io.WriteString(f, "hello world")
	require.NoError(t, err)
	require.NoError(t, f.Sync())
	require.NoError(t, f.Close())
	require.NoError(t, fs.MkdirAll("s3://warehouse/t/sub", 0755))

	r, err := fs.Open("s3://warehouse/t/part-0")
	require.NoError(t, err)
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "hello world", string(b))
	buf := make([]byte, 10)
	n, err := r.ReadAt(buf, 6)
	require.Equal(t, io.EOF, err)
	require.Equal(t, "world", string(buf[:n]))
	fi, err := r.Stat()
	require.NoError(t, err)
	require.Equal(t, "part-0", fi.Name())
	require.EqualValues(t, 11, fi.Size())
	require.NoError(t, r.Close())

	names, err := fs.List("s3://warehouse/")
	require.NoError(t, err)
	require.Equal(t, []string{"t"}, names)
	names, err = fs.List("s3://warehouse/t")
	require.NoError(t, err)
	require.Equal(t, []string{"part-0"}, names)

	fi, err = fs.Stat("s3://warehouse/t")
	require.NoError(t, err)
	require.True(t, fi.IsDir())
	_, err = fs.Stat("s3://warehouse/nope")
	require.True(t, oserror.IsNotExist(err), "%v", err)
	_, err = fs.Open("s3://warehouse/nope")
	require.True(t, oserror.IsNotExist(err), "%v", err)

	// The same bucket under another scheme is a distinct store.
	_, err = fs.Open("oss://warehouse/t/part-0")
	require.True(t, oserror.IsNotExist(err), "%v", err)

	_, err = fs.Open("s3://missing/x")
	require.Error(t, err)
	_, err = fs.Open("s3:///x")
	require.Error(t, err)

	require.Equal(t, "s3://warehouse/t/part-1", fs.PathJoin("s3://warehouse/t", "part-1"))
	require.Equal(t, "part-1", fs.PathBase("s3://warehouse/t/part-1"))

	require.NoError(t, fs.Remove("s3://warehouse/t/part-0"))
	require.NoError(t, fs.Close())
	require.Equal(t, []string{"s3://warehouse", "oss://warehouse", "s3://missing"}, opened)
}
