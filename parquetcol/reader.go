// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package parquetcol reads the local dictionary codes of dictionary-encoded
// string columns of parquet files.
package parquetcol

import (
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/colscan/lowcard/column"
	"github.com/colscan/lowcard/dictcode"
	"github.com/colscan/lowcard/vfs"
	"github.com/parquet-go/parquet-go"
)

// ErrColumnNotFound is returned when the file schema has no leaf column of
// the requested name.
var ErrColumnNotFound = errors.New("column not found")

// ErrUnsupportedColumn is returned for columns that are repeated or do not
// hold byte arrays.
var ErrUnsupportedColumn = errors.New("unsupported column")

// File is an open parquet file.
type File struct {
	*parquet.File
	name string
	f    vfs.File
}

// OpenFile opens the parquet file name of fs. Bloom filters and page indexes
// are not read.
func OpenFile(fs vfs.FS, name string) (*File, error) {
	f, err := fs.Open(name)
	if err != nil {
		return nil, err
	}
	stat, err := f.Stat()
	if err != nil {
		return nil, errors.CombineErrors(err, f.Close())
	}
	pf, err := parquet.OpenFile(f, stat.Size(),
		parquet.SkipBloomFilters(true),
		parquet.SkipPageIndex(true),
	)
	if err != nil {
		return nil, errors.CombineErrors(errors.Wrapf(err, "parquetcol: opening %s", name), f.Close())
	}
	return &File{File: pf, name: name, f: f}, nil
}

// Name returns the name the file was opened with.
func (f *File) Name() string {
	return f.name
}

// NumRowGroups returns the number of row groups of the file.
func (f *File) NumRowGroups() int {
	return len(f.RowGroups())
}

// Column opens the named column of a row group. See Open. The byte range of
// the column chunk is prefetched into the OS cache first.
func (f *File) Column(rowGroup int, name string) (*ColumnReader, error) {
	leaf, err := lookupColumn(f.File, rowGroup, name)
	if err != nil {
		return nil, err
	}
	md := f.Metadata().RowGroups[rowGroup].Columns[leaf.ColumnIndex].MetaData
	start := md.DataPageOffset
	if md.DictionaryPageOffset > 0 && md.DictionaryPageOffset < start {
		start = md.DictionaryPageOffset
	}
	// Prefetching is advisory.
	_ = vfs.Prefetch(f.f, start, md.TotalCompressedSize)
	return open(f.File, rowGroup, leaf)
}

// Close closes the underlying file. Column readers of the file must be
// closed first.
func (f *File) Close() error {
	return f.f.Close()
}

var errNotDictEncoded = errors.Mark(
	errors.New("parquetcol: page is not dictionary-encoded"), dictcode.ErrNotDictEncoded)

// ColumnReader reads the local dictionary codes of one column chunk. It
// implements dictcode.LocalDictReader.
type ColumnReader struct {
	chunk  parquet.ColumnChunk
	maxDef int
	dict   parquet.Dictionary
	// allDict is set when every page of the chunk is encoded with dict.
	allDict bool

	pages parquet.Pages
	page  parquet.Page
	eof   bool
	// codes holds the local codes of the rows of the current page not yet
	// returned, with -1 at null rows.
	codes []int32
	buf   []int32
	flags []uint8
	// values is the scratch buffer of DecodeDictCodes.
	values []parquet.Value
}

var _ dictcode.LocalDictReader = (*ColumnReader)(nil)

// Open returns a reader over the chunk of column in the given row group of f.
// Nested columns are named by their dot separated path. The column must be a
// required or optional byte array column; repeated columns are rejected.
//
// Open reads the page headers of the chunk once to learn whether every page
// is dictionary-encoded.
func Open(f *parquet.File, rowGroup int, name string) (*ColumnReader, error) {
	leaf, err := lookupColumn(f, rowGroup, name)
	if err != nil {
		return nil, err
	}
	return open(f, rowGroup, leaf)
}

func lookupColumn(f *parquet.File, rowGroup int, name string) (parquet.LeafColumn, error) {
	if n := len(f.RowGroups()); rowGroup < 0 || rowGroup >= n {
		return parquet.LeafColumn{}, errors.Newf("parquetcol: row group %d out of range [0, %d)", rowGroup, n)
	}
	leaf, ok := f.Schema().Lookup(strings.Split(name, ".")...)
	if !ok {
		return leaf, errors.Wrapf(ErrColumnNotFound, "parquetcol: %q", name)
	}
	if leaf.MaxRepetitionLevel > 0 {
		return leaf, errors.Wrapf(ErrUnsupportedColumn, "parquetcol: %q is repeated", name)
	}
	if kind := leaf.Node.Type().Kind(); kind != parquet.ByteArray {
		return leaf, errors.Wrapf(ErrUnsupportedColumn, "parquetcol: %q holds %s values", name, kind)
	}
	return leaf, nil
}

func open(f *parquet.File, rowGroup int, leaf parquet.LeafColumn) (*ColumnReader, error) {
	r := &ColumnReader{
		chunk:  f.RowGroups()[rowGroup].ColumnChunks()[leaf.ColumnIndex],
		maxDef: leaf.MaxDefinitionLevel,
	}
	if err := r.checkPages(); err != nil {
		return nil, err
	}
	// The dictionary lives as long as the pages it was read from, so it is
	// taken from the first page of the pages the reader will consume.
	r.pages = r.chunk.Pages()
	if err := r.nextPage(); err != nil && err != io.EOF && !errors.Is(err, dictcode.ErrNotDictEncoded) {
		return nil, errors.CombineErrors(err, r.Close())
	}
	if r.page != nil {
		r.dict = r.page.Dictionary()
	}
	return r, nil
}

// checkPages sets allDict if every page of the chunk shares one dictionary.
func (r *ColumnReader) checkPages() error {
	pages := r.chunk.Pages()
	defer pages.Close()
	r.allDict = true
	var first parquet.Dictionary
	for {
		p, err := pages.ReadPage()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "parquetcol: reading page")
		}
		d := p.Dictionary()
		if first == nil {
			first = d
		}
		if d == nil || d != first {
			r.allDict = false
		}
		parquet.Release(p)
	}
}

// AllPagesDictEncoded implements dictcode.LocalDictReader.
func (r *ColumnReader) AllPagesDictEncoded() bool {
	return r.allDict
}

// DictSize implements dictcode.LocalDictReader.
func (r *ColumnReader) DictSize() int {
	if r.dict == nil {
		return 0
	}
	return r.dict.Len()
}

// DecodeDictCodes implements dictcode.LocalDictReader.
func (r *ColumnReader) DecodeDictCodes(codes []int32, dst *column.BinaryColumn) error {
	if len(codes) == 0 {
		return nil
	}
	n := int32(r.DictSize())
	for i, c := range codes {
		if c < 0 || c >= n {
			return errors.Newf("parquetcol: code %d at %d outside dictionary of %d values", c, i, n)
		}
	}
	if cap(r.values) < len(codes) {
		r.values = make([]parquet.Value, len(codes))
	}
	values := r.values[:len(codes)]
	r.dict.Lookup(codes, values)
	for i := range values {
		dst.Append(values[i].ByteArray())
	}
	clear(values)
	return nil
}

// NextDictCodes implements dictcode.LocalDictReader.
func (r *ColumnReader) NextDictCodes(n int, dst column.Column) (int, error) {
	if !r.allDict {
		return 0, errNotDictEncoded
	}
	out := column.Int32Data(dst)
	var nulls *column.NullableColumn
	if dst.IsNullable() {
		nulls = dst.(*column.NullableColumn)
	}
	read := 0
	for read < n {
		if len(r.codes) == 0 {
			if err := r.nextPage(); err != nil {
				if err == io.EOF && read > 0 {
					break
				}
				return read, err
			}
			continue
		}
		k := min(n-read, len(r.codes))
		codes := r.codes[:k]
		out.Append(codes...)
		if nulls != nil {
			r.flags = r.flags[:0]
			for _, c := range codes {
				var f uint8
				if c < 0 {
					f = 1
				}
				r.flags = append(r.flags, f)
			}
			nulls.AppendNullFlags(r.flags...)
		}
		r.codes = r.codes[k:]
		read += k
	}
	return read, nil
}

// nextPage decodes the next page of the chunk into r.codes. It returns
// io.EOF at the end of the chunk.
func (r *ColumnReader) nextPage() error {
	r.releasePage()
	if r.pages == nil || r.eof {
		return io.EOF
	}
	p, err := r.pages.ReadPage()
	if err != nil {
		if err == io.EOF {
			r.eof = true
		}
		return err
	}
	r.page = p
	if p.Dictionary() == nil {
		return errNotDictEncoded
	}
	data := p.Data()
	indexes := data.Int32()
	if r.maxDef == 0 {
		r.buf = append(r.buf[:0], indexes...)
		r.codes = r.buf
		return nil
	}
	defs := p.DefinitionLevels()
	r.buf = r.buf[:0]
	j := 0
	for _, d := range defs {
		if int(d) == r.maxDef {
			r.buf = append(r.buf, indexes[j])
			j++
		} else {
			r.buf = append(r.buf, -1)
		}
	}
	r.codes = r.buf
	return nil
}

func (r *ColumnReader) releasePage() {
	if r.page != nil {
		parquet.Release(r.page)
		r.page = nil
	}
}

// Close releases the pages of the reader.
func (r *ColumnReader) Close() error {
	r.releasePage()
	r.codes = nil
	if r.pages == nil {
		return nil
	}
	err := r.pages.Close()
	r.pages = nil
	return err
}
