// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package column

import "slices"

// NullableColumn pairs a data column with one null flag per row. A non-zero
// flag marks the row as null; the data plane at a null row holds unspecified
// data and must not be interpreted.
//
// hasNull is a summary of the flags. It may be conservatively true when no
// flag is set, but it is never false while a flag is set.
type NullableColumn struct {
	data    Column
	nulls   []uint8
	hasNull bool
}

var _ Column = (*NullableColumn)(nil)

// NewNullableColumn wraps data with the provided null flags. The column takes
// ownership of both. len(nulls) must equal data.Len().
func NewNullableColumn(data Column, nulls []uint8) *NullableColumn {
	c := &NullableColumn{data: data, nulls: nulls}
	c.UpdateHasNull()
	return c
}

// DataType implements Column.
func (c *NullableColumn) DataType() DataType { return c.data.DataType() }

// Len implements Column.
func (c *NullableColumn) Len() int { return c.data.Len() }

// IsNullable implements Column.
func (c *NullableColumn) IsNullable() bool { return true }

// HasNull implements Column.
func (c *NullableColumn) HasNull() bool { return c.hasNull }

// Reset implements Column.
func (c *NullableColumn) Reset() {
	c.data.Reset()
	c.nulls = c.nulls[:0]
	c.hasNull = false
}

// DataColumn returns the wrapped data column.
func (c *NullableColumn) DataColumn() Column { return c.data }

// NullData returns the null flags. The returned slice aliases the column's
// storage.
func (c *NullableColumn) NullData() []uint8 { return c.nulls }

// IsNull returns true if row i is null.
func (c *NullableColumn) IsNull(i int) bool { return c.nulls[i] != 0 }

// ResizeNulls sets the number of null flags to n. Flags added by growing have
// unspecified values.
func (c *NullableColumn) ResizeNulls(n int) {
	if n <= cap(c.nulls) {
		c.nulls = c.nulls[:n]
		return
	}
	c.nulls = slices.Grow(c.nulls, n-len(c.nulls))[:n]
}

// AppendNullFlags appends flags to the null flags and updates the summary.
func (c *NullableColumn) AppendNullFlags(flags ...uint8) {
	c.nulls = append(c.nulls, flags...)
	if !c.hasNull {
		for _, f := range flags {
			if f != 0 {
				c.hasNull = true
				break
			}
		}
	}
}

// SetHasNull overwrites the has-null summary.
func (c *NullableColumn) SetHasNull(v bool) { c.hasNull = v }

// UpdateHasNull recomputes the has-null summary from the flags.
func (c *NullableColumn) UpdateHasNull() bool {
	c.hasNull = slices.ContainsFunc(c.nulls, func(f uint8) bool { return f != 0 })
	return c.hasNull
}

// SwapNullData exchanges the null flag slices of c and other. No flags are
// copied; each column takes ownership of the other's storage. The has-null
// summaries are left untouched.
func (c *NullableColumn) SwapNullData(other *NullableColumn) {
	c.nulls, other.nulls = other.nulls, c.nulls
}
