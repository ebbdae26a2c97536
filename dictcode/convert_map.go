// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package dictcode

import (
	"github.com/cockroachdb/errors"
	"github.com/colscan/lowcard/column"
	"github.com/colscan/lowcard/globaldict"
	"github.com/colscan/lowcard/internal/invariants"
)

// ConvertMap translates the local codes of one file into global codes.
//
// The table holds dictSize+2 entries. The global code of local code i lives
// at table[i+1]; table[0] and table[dictSize+1] are guard slots that are never
// written and always hold 0. Indexing with code+1 therefore maps the null
// sentinel (-1) and the one-past-the-end code (dictSize) to 0 without a
// branch.
//
//	physical: [ guard | 0 | 1 | ... | dictSize-1 | guard ]
//	logical:     -1     0   1   ...   dictSize-1  dictSize
type ConvertMap struct {
	table []int32
}

func makeConvertMap(dictSize int) ConvertMap {
	return ConvertMap{table: make([]int32, dictSize+2)}
}

// Len returns the size of the local dictionary the map was built for.
func (m ConvertMap) Len() int {
	if m.table == nil {
		return 0
	}
	return len(m.table) - 2
}

// Get returns the global code for local code. Both -1 and Len() return 0.
func (m ConvertMap) Get(code int32) int32 {
	return m.table[code+1]
}

// Codes returns the global codes of local codes [0, Len()). The returned slice
// aliases the map.
func (m ConvertMap) Codes() []int32 {
	if m.table == nil {
		return nil
	}
	return m.table[1 : len(m.table)-1]
}

func (m ConvertMap) set(code int, global int32) {
	invariants.CheckBounds(code, m.Len())
	m.table[code+1] = global
}

// Gather sets dst[i] = m.Get(codes[i]) for every i. len(dst) must be at least
// len(codes).
func (m ConvertMap) Gather(dst, codes []int32) {
	table := m.table
	dst = dst[:len(codes)]
	i := 0
	for ; i+4 <= len(codes); i += 4 {
		c := codes[i : i+4 : i+4]
		d := dst[i : i+4 : i+4]
		d[0] = table[c[0]+1]
		d[1] = table[c[1]+1]
		d[2] = table[c[2]+1]
		d[3] = table[c[3]+1]
	}
	for ; i < len(codes); i++ {
		dst[i] = table[codes[i]+1]
	}
}

// GatherMasked is Gather for rows with null flags: dst[i] is 0 wherever
// nulls[i] is set, and the code of a null row is never used as an index. It
// returns the number of null rows.
func (m ConvertMap) GatherMasked(dst, codes []int32, nulls []uint8) int {
	table := m.table
	dst = dst[:len(codes)]
	nulls = nulls[:len(codes)]
	nullRows := 0
	for i, c := range codes {
		if nulls[i] != 0 {
			dst[i] = 0
			nullRows++
			continue
		}
		dst[i] = table[c+1]
	}
	return nullRows
}

// BuildConvertMap builds the map from the local codes of reader to the codes
// of dict. Every local value is decoded with a single bulk call and looked up
// in dict. A value missing from dict is tolerated only if it is the empty
// string, which is left at code 0; any other missing value fails the build
// with an error marked ErrDictInconsistent.
//
// The caller must have verified reader.AllPagesDictEncoded().
func BuildConvertMap(reader LocalDictReader, dict *globaldict.Dict) (ConvertMap, error) {
	if invariants.Enabled && !reader.AllPagesDictEncoded() {
		panic(errors.AssertionFailedf("dictcode: building convert map for a column that is not fully dictionary encoded"))
	}
	dictSize := reader.DictSize()
	codes := make([]int32, dictSize)
	for i := range codes {
		codes[i] = int32(i)
	}
	values := column.NewBinaryColumn()
	if err := reader.DecodeDictCodes(codes, values); err != nil {
		return ConvertMap{}, errors.Wrap(err, "dictcode: decoding local dictionary")
	}
	if values.Len() != dictSize {
		return ConvertMap{}, errors.AssertionFailedf(
			"dictcode: decoded %d values for %d local codes", values.Len(), dictSize)
	}

	m := makeConvertMap(dictSize)
	for i := 0; i < dictSize; i++ {
		v := values.Get(i)
		if global, ok := dict.Lookup(v); ok {
			m.set(int(codes[i]), global)
		} else if len(v) > 0 {
			return ConvertMap{}, newInconsistencyError(v)
		}
	}
	return m, nil
}
