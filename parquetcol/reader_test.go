// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package parquetcol

import (
	"fmt"
	"io"
	"math/rand/v2"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/colscan/lowcard/column"
	"github.com/colscan/lowcard/dictcode"
	"github.com/colscan/lowcard/globaldict"
	"github.com/colscan/lowcard/internal/base"
	"github.com/colscan/lowcard/vfs"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/require"
)

type testRow struct {
	City    *string  `parquet:"city,dict"`
	Country string   `parquet:"country,dict"`
	N       int32    `parquet:"n"`
	Plain   *string  `parquet:"plain"`
	Tags    []string `parquet:"tags"`
}

func strPtr(s string) *string { return &s }

// cities is the city column of the test file, split in two row groups.
var cities = [][]*string{
	{strPtr("paris"), nil, strPtr("rome"), strPtr("paris"), strPtr("oslo"), nil, strPtr("")},
	{strPtr("lima"), strPtr("lima"), nil, strPtr("rome")},
}

func writeTestFile(t *testing.T, fs vfs.FS, name string, pageBufferSize int) {
	t.Helper()
	f, err := fs.Create(name)
	require.NoError(t, err)
	w := parquet.NewGenericWriter[testRow](f, parquet.PageBufferSize(pageBufferSize))
	for _, group := range cities {
		rows := make([]testRow, len(group))
		for i, c := range group {
			rows[i] = testRow{City: c, Country: "c" + string(rune('a'+i%2)), N: int32(i), Plain: c, Tags: []string{"t"}}
		}
		_, err := w.Write(rows)
		require.NoError(t, err)
		require.NoError(t, w.Flush())
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
}

func openTestFile(t *testing.T, pageBufferSize int) *File {
	t.Helper()
	fs := vfs.NewMem()
	writeTestFile(t, fs, "t.parquet", pageBufferSize)
	f, err := OpenFile(fs, "t.parquet")
	require.NoError(t, err)
	require.Equal(t, len(cities), f.NumRowGroups())
	require.Equal(t, "t.parquet", f.Name())
	return f
}

// readAll reads every local code of r in batches of n and decodes them.
func readAll(t *testing.T, r *ColumnReader, n int) []*string {
	t.Helper()
	var res []*string
	for {
		dst := column.NewNullableColumn(column.NewInt32Column(), nil)
		read, err := r.NextDictCodes(n, dst)
		if err == io.EOF {
			require.Zero(t, read)
			return res
		}
		require.NoError(t, err)
		require.Equal(t, read, dst.Len())
		codes := column.Int32Data(dst).Data()
		for i, c := range codes {
			require.Equal(t, c < 0, dst.IsNull(i))
			if c < 0 {
				res = append(res, nil)
				continue
			}
			var v column.BinaryColumn
			require.NoError(t, r.DecodeDictCodes([]int32{c}, &v))
			res = append(res, strPtr(string(v.Get(0))))
		}
	}
}

func TestColumnReader(t *testing.T) {
	for _, pageBufferSize := range []int{1 << 20, 16} {
		f := openTestFile(t, pageBufferSize)
		for rg, want := range cities {
			r, err := f.Column(rg, "city")
			require.NoError(t, err)
			require.True(t, r.AllPagesDictEncoded())

			distinct := map[string]struct{}{}
			for _, c := range want {
				if c != nil {
					distinct[*c] = struct{}{}
				}
			}
			require.Equal(t, len(distinct), r.DictSize())

			var values column.BinaryColumn
			codes := make([]int32, r.DictSize())
			for i := range codes {
				codes[i] = int32(i)
			}
			require.NoError(t, r.DecodeDictCodes(codes, &values))
			for i := 0; i < values.Len(); i++ {
				require.Contains(t, distinct, string(values.Get(i)))
			}

			for _, n := range []int{1, 3, 100} {
				if n > 1 {
					require.NoError(t, r.Close())
					r, err = f.Column(rg, "city")
					require.NoError(t, err)
				}
				require.Equal(t, want, readAll(t, r, n), "page buffer %d, batch %d", pageBufferSize, n)
			}
			require.Error(t, r.DecodeDictCodes([]int32{int32(r.DictSize())}, &values))
			require.NoError(t, r.Close())
		}
		require.NoError(t, f.Close())
	}
}

func TestColumnReaderRequired(t *testing.T) {
	f := openTestFile(t, 1<<20)
	defer f.Close()
	r, err := f.Column(0, "country")
	require.NoError(t, err)
	defer r.Close()
	require.Equal(t, 2, r.DictSize())

	dst := column.NewInt32Column()
	read, err := r.NextDictCodes(100, dst)
	require.NoError(t, err)
	require.Equal(t, len(cities[0]), read)
	var values column.BinaryColumn
	require.NoError(t, r.DecodeDictCodes(dst.Data(), &values))
	for i := 0; i < values.Len(); i++ {
		require.Equal(t, "c"+string(rune('a'+i%2)), string(values.Get(i)))
	}
}

func TestOpenErrors(t *testing.T) {
	f := openTestFile(t, 1<<20)
	defer f.Close()

	_, err := f.Column(0, "missing")
	require.True(t, errors.Is(err, ErrColumnNotFound), "%v", err)
	_, err = f.Column(0, "n")
	require.True(t, errors.Is(err, ErrUnsupportedColumn), "%v", err)
	_, err = f.Column(0, "tags")
	require.True(t, errors.Is(err, ErrUnsupportedColumn), "%v", err)
	_, err = f.Column(2, "city")
	require.Error(t, err)
	_, err = f.Column(-1, "city")
	require.Error(t, err)

	_, err = OpenFile(vfs.NewMem(), "nope.parquet")
	require.Error(t, err)
}

func TestPlainColumnRejected(t *testing.T) {
	f := openTestFile(t, 1<<20)
	defer f.Close()
	r, err := f.Column(0, "plain")
	require.NoError(t, err)
	defer r.Close()
	require.False(t, r.AllPagesDictEncoded())

	dict := globaldict.NewBuilder(0).Freeze()
	_, err = dictcode.NewIterator(r, dict, &dictcode.Options{Logger: base.NoopLogger{}})
	require.True(t, errors.Is(err, dictcode.ErrNotDictEncoded), "%v", err)
}

func TestRecodeFile(t *testing.T) {
	b := globaldict.NewBuilder(8)
	for code, v := range []string{"", "lima", "oslo", "paris", "rome"} {
		require.NoError(t, b.AddString(v, int32(code+10)))
	}
	dict := b.Freeze()

	f := openTestFile(t, 16)
	defer f.Close()
	metrics := dictcode.NewMetrics(nil)
	var it *dictcode.Iterator
	for rg, want := range cities {
		r, err := f.Column(rg, "city")
		require.NoError(t, err)
		if it == nil {
			it, err = dictcode.NewIterator(r, dict, &dictcode.Options{Logger: base.NoopLogger{}, Metrics: metrics})
		} else {
			err = it.Reset(r)
		}
		require.NoError(t, err)

		var got []int32
		var nulls []bool
		dst := column.NewNullableColumn(column.NewInt32Column(), nil)
		for {
			n, err := it.NextBatch(2, dst)
			if err == io.EOF {
				break
			}
			require.NoError(t, err)
			got = append(got, column.Int32Data(dst).Data()[:n]...)
			for i := 0; i < n; i++ {
				nulls = append(nulls, dst.IsNull(i))
			}
		}
		require.Len(t, got, len(want))
		for i, c := range want {
			if c == nil {
				require.True(t, nulls[i])
				require.Zero(t, got[i])
				continue
			}
			require.False(t, nulls[i])
			code, ok := dict.LookupString(*c)
			require.True(t, ok)
			require.Equal(t, code, got[i], "row %d (%q)", i, *c)
		}
		require.NoError(t, r.Close())
	}
	require.NoError(t, it.Close())
	s := metrics.Snapshot()
	require.EqualValues(t, 2, s.ConvertMapsBuilt)
	require.EqualValues(t, len(cities[0])+len(cities[1]), s.RowsRecoded)
	require.EqualValues(t, 3, s.NullRows)
}

type cityRow struct {
	City *string `parquet:"city,dict"`
}

// TestRecodeManyPages recodes a column spread over many small pages, with
// batches that straddle page boundaries.
func TestRecodeManyPages(t *testing.T) {
	const rows = 20000
	rng := rand.New(rand.NewPCG(1, 2))
	b := globaldict.NewBuilder(64)
	for i := 0; i < 50; i++ {
		require.NoError(t, b.AddString(fmt.Sprintf("city-%02d", i), int32(100+i)))
	}
	dict := b.Freeze()

	want := make([]*string, rows)
	for i := range want {
		if rng.IntN(3) != 0 {
			want[i] = strPtr(fmt.Sprintf("city-%02d", rng.IntN(50)))
		}
	}
	fs := vfs.NewMem()
	w, err := fs.Create("many.parquet")
	require.NoError(t, err)
	pw := parquet.NewGenericWriter[cityRow](w, parquet.PageBufferSize(256))
	batch := make([]cityRow, rows)
	for i, c := range want {
		batch[i] = cityRow{City: c}
	}
	_, err = pw.Write(batch)
	require.NoError(t, err)
	require.NoError(t, pw.Close())
	require.NoError(t, w.Close())

	f, err := OpenFile(fs, "many.parquet")
	require.NoError(t, err)
	defer f.Close()
	r, err := f.Column(0, "city")
	require.NoError(t, err)
	defer r.Close()
	require.True(t, r.AllPagesDictEncoded())

	it, err := dictcode.NewIterator(r, dict, &dictcode.Options{Logger: base.NoopLogger{}})
	require.NoError(t, err)
	defer it.Close()
	dst := column.NewNullableColumn(column.NewInt32Column(), nil)
	row := 0
	for {
		n, err := it.NextBatch(777, dst)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		codes := column.Int32Data(dst).Data()
		for i := 0; i < n; i++ {
			c := want[row+i]
			require.Equal(t, c == nil, dst.IsNull(i), "row %d", row+i)
			if c == nil {
				require.Zero(t, codes[i])
				continue
			}
			code, ok := dict.LookupString(*c)
			require.True(t, ok)
			require.Equal(t, code, codes[i], "row %d (%q)", row+i, *c)
		}
		row += n
	}
	require.Equal(t, rows, row)
}
