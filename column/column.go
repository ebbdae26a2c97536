// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package column implements the in-memory columnar containers exchanged by the
// scan pipeline: fixed-width int32 columns holding dictionary codes, binary
// columns holding decoded string values, and a nullable wrapper that pairs a
// data column with a parallel sequence of null flags.
package column

import (
	"fmt"
	"io"
	"strings"
)

// DataType describes the physical type of a column's values.
type DataType uint8

const (
	// DataTypeInvalid represents an unset or invalid data type.
	DataTypeInvalid DataType = 0
	// DataTypeInt32 is a data type encoding a fixed 32 bits per row.
	DataTypeInt32 DataType = 1
	// DataTypeBinary is a data type encoding a variable-length byte string per
	// row.
	DataTypeBinary DataType = 2

	dataTypesCount DataType = 3
)

var dataTypeName = [dataTypesCount]string{
	DataTypeInvalid: "invalid",
	DataTypeInt32:   "int32",
	DataTypeBinary:  "binary",
}

// String returns a human-readable string representation of the data type.
func (t DataType) String() string {
	if t >= dataTypesCount {
		return fmt.Sprintf("DataType(%d)", uint8(t))
	}
	return dataTypeName[t]
}

// Column is a batch of values of a single type. Columns are transient buffers:
// the scan pipeline resets and refills them for every batch.
type Column interface {
	// DataType returns the physical type of the column's non-null data plane.
	DataType() DataType
	// Len returns the number of rows in the column.
	Len() int
	// IsNullable returns true if the column carries null flags.
	IsNullable() bool
	// HasNull returns true if at least one row is null. Always false for
	// non-nullable columns.
	HasNull() bool
	// Reset truncates the column to zero rows, retaining allocated memory.
	Reset()
}

// DataColumn returns the data plane of c: the wrapped column if c is a
// *NullableColumn and c itself otherwise.
func DataColumn(c Column) Column {
	if n, ok := c.(*NullableColumn); ok {
		return n.data
	}
	return c
}

// Int32Data returns the int32 data plane of c, looking through a nullable
// wrapper. It panics if the data plane is not an *Int32Column.
func Int32Data(c Column) *Int32Column {
	switch d := DataColumn(c).(type) {
	case *Int32Column:
		return d
	default:
		panic(fmt.Sprintf("column: data plane is %s, not int32", d.DataType()))
	}
}

// Describe writes a human-readable rendering of the column to w, one row per
// line. Null rows are rendered as NULL.
func Describe(w io.Writer, c Column) {
	var nulls []uint8
	if n, ok := c.(*NullableColumn); ok {
		nulls = n.nulls
	}
	data := DataColumn(c)
	for i := 0; i < c.Len(); i++ {
		if nulls != nil && nulls[i] != 0 {
			fmt.Fprintln(w, "NULL")
			continue
		}
		switch d := data.(type) {
		case *Int32Column:
			fmt.Fprintln(w, d.data[i])
		case *BinaryColumn:
			fmt.Fprintf(w, "%q\n", d.Get(i))
		}
	}
}

// String returns the rendering produced by Describe.
func String(c Column) string {
	var sb strings.Builder
	Describe(&sb, c)
	return sb.String()
}
