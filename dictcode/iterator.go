// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package dictcode recodes dictionary-encoded string columns from the codes
// of each file's own local dictionary into the codes of a query-wide global
// dictionary, so that the rest of the engine can filter, group and join
// low-cardinality strings as plain integers.
package dictcode

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/colscan/lowcard/column"
	"github.com/colscan/lowcard/globaldict"
	"github.com/colscan/lowcard/internal/invariants"
)

// LocalDictReader is the per-file column reader an Iterator pulls local
// dictionary codes from.
type LocalDictReader interface {
	// AllPagesDictEncoded returns true if every page of the column is encoded
	// with the column's single local dictionary.
	AllPagesDictEncoded() bool

	// DictSize returns the number of distinct local codes.
	DictSize() int

	// DecodeDictCodes appends the value of each local code in codes to dst.
	DecodeDictCodes(codes []int32, dst *column.BinaryColumn) error

	// NextDictCodes appends up to n local codes of the following rows to
	// dst, an int32 column that is nullable if the caller wants null flags.
	// Null rows hold the sentinel code -1. It returns the number of rows
	// appended and io.EOF once no rows remain.
	NextDictCodes(n int, dst column.Column) (int, error)
}

// Iterator reads a dictionary-encoded string column file by file and produces
// batches of global codes. An Iterator is used by a single goroutine; the
// global dictionary it reads may be shared with any number of iterators.
type Iterator struct {
	opts    Options
	dict    *globaldict.Dict
	reader  LocalDictReader
	convert ConvertMap
	// localCodes is the scratch buffer local codes are read into before
	// being recoded into the caller's column.
	localCodes column.Column
	closeCheck invariants.CloseChecker
}

// NewIterator returns an Iterator over reader's column, recoding into the
// codes of dict.
func NewIterator(reader LocalDictReader, dict *globaldict.Dict, opts *Options) (*Iterator, error) {
	it := &Iterator{dict: dict}
	it.opts = *opts.EnsureDefaults()
	if err := it.Reset(reader); err != nil {
		return nil, err
	}
	return it, nil
}

// Reset points the iterator at the column of another file and rebuilds the
// convert map for that file's local dictionary.
func (it *Iterator) Reset(reader LocalDictReader) error {
	it.closeCheck.AssertNotClosed()
	it.reader = nil
	it.convert = ConvertMap{}
	if !reader.AllPagesDictEncoded() {
		return errors.Mark(errors.New("dictcode: column pages do not share one dictionary"), ErrNotDictEncoded)
	}
	if n := reader.DictSize(); n > it.opts.MaxDictSize {
		return errors.Wrapf(ErrDictTooLarge, "%d distinct values, limit %d", n, it.opts.MaxDictSize)
	}
	m, err := BuildConvertMap(reader, it.dict)
	if err != nil {
		if errors.Is(err, ErrDictInconsistent) {
			it.opts.Metrics.InconsistentDicts.Inc()
		}
		it.opts.Logger.Errorf("%v", err)
		return err
	}
	it.opts.Metrics.ConvertMapsBuilt.Inc()
	it.opts.Metrics.LocalDictSize.Observe(float64(m.Len()))
	it.reader = reader
	it.convert = m
	return nil
}

// ConvertMap returns the convert map of the current file.
func (it *Iterator) ConvertMap() ConvertMap {
	return it.convert
}

// NextBatch reads up to n rows of the current file into dst as global codes.
// dst must be an int32 column, nullable if the column has nulls. It returns
// the number of rows read and io.EOF once the file is exhausted.
func (it *Iterator) NextBatch(n int, dst column.Column) (int, error) {
	it.closeCheck.AssertNotClosed()
	if it.reader == nil {
		return 0, errors.AssertionFailedf("dictcode: NextBatch on an iterator without a file")
	}
	if it.localCodes == nil || it.localCodes.IsNullable() != dst.IsNullable() {
		it.localCodes = newLocalDictColumn(dst.IsNullable())
	}
	it.localCodes.Reset()
	dst.Reset()

	read, err := it.reader.NextDictCodes(n, it.localCodes)
	if err != nil && (read == 0 || err != io.EOF) {
		return 0, err
	}
	if err := it.decode(it.localCodes, dst, false /* copyNulls */); err != nil {
		return 0, err
	}
	// Hand dst the flags read into the scratch column. The scratch column
	// inherits dst's previous flag storage for the next batch.
	if err := swapNullColumns(it.localCodes, dst); err != nil {
		return 0, err
	}
	return read, nil
}

// DecodeDictCodes recodes the local codes of codes into words using the
// convert map of the current file. Both columns must be int32 columns with
// the same nullability. On success words has the length of codes, holds the
// global code of every non-null row and 0 at every null row, and carries a
// copy of codes' null flags.
func (it *Iterator) DecodeDictCodes(codes, words column.Column) error {
	return it.decode(codes, words, true /* copyNulls */)
}

func (it *Iterator) decode(codes, words column.Column, copyNulls bool) error {
	if codes.IsNullable() != words.IsNullable() {
		return errors.Wrapf(ErrNullabilityMismatch,
			"codes nullable=%t, words nullable=%t", codes.IsNullable(), words.IsNullable())
	}
	codeData := column.Int32Data(codes).Data()
	outputNullable := words.IsNullable()
	// Null rows may hold any code, in range or not.
	var nulls []uint8
	if outputNullable && codes.HasNull() {
		nulls = codes.(*column.NullableColumn).NullData()
	}

	if invariants.Enabled || it.opts.VerifyCodes {
		if err := checkCodes(codeData, nulls, it.convert.Len(), outputNullable); err != nil {
			if !it.opts.VerifyCodes {
				panic(errors.NewAssertionErrorWithWrappedErrf(err, "dictcode: invalid local codes"))
			}
			return err
		}
	}

	out := column.Int32Data(words)
	out.Resize(len(codeData))
	res := out.Data()
	nullRows := 0
	if nulls != nil {
		nullRows = it.convert.GatherMasked(res, codeData, nulls)
	} else {
		it.convert.Gather(res, codeData)
	}

	if outputNullable && copyNulls {
		src := codes.(*column.NullableColumn)
		dst := words.(*column.NullableColumn)
		dst.ResizeNulls(len(res))
		copy(dst.NullData(), src.NullData())
		dst.SetHasNull(src.HasNull())
	}
	it.opts.Metrics.RowsRecoded.Add(float64(len(res)))
	if nullRows > 0 {
		it.opts.Metrics.NullRows.Add(float64(nullRows))
	}
	return nil
}

func checkCodes(codes []int32, nulls []uint8, dictSize int, outputNullable bool) error {
	for i, c := range codes {
		if nulls != nil && nulls[i] != 0 {
			continue
		}
		if c < -1 || int(c) > dictSize {
			return errors.Wrapf(ErrCodeOutOfRange, "code %d at row %d outside [-1, %d]", c, i, dictSize)
		}
		if c < 0 && !outputNullable {
			return errors.Wrapf(ErrCodeOutOfRange, "null sentinel at row %d of a non-nullable column", i)
		}
	}
	return nil
}

// Close releases the iterator's buffers. It does not close the reader.
func (it *Iterator) Close() error {
	it.closeCheck.Close()
	it.reader = nil
	it.convert = ConvertMap{}
	it.localCodes = nil
	return nil
}
