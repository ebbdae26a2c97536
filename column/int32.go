// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package column

import "slices"

// Int32Column is a non-nullable column of int32 values. It holds both local
// dictionary codes produced by a file reader and the global codes they are
// recoded into.
type Int32Column struct {
	data []int32
}

var _ Column = (*Int32Column)(nil)

// NewInt32Column returns a column holding the provided values. The column
// takes ownership of vals.
func NewInt32Column(vals ...int32) *Int32Column {
	return &Int32Column{data: vals}
}

// DataType implements Column.
func (c *Int32Column) DataType() DataType { return DataTypeInt32 }

// Len implements Column.
func (c *Int32Column) Len() int { return len(c.data) }

// IsNullable implements Column.
func (c *Int32Column) IsNullable() bool { return false }

// HasNull implements Column.
func (c *Int32Column) HasNull() bool { return false }

// Reset implements Column.
func (c *Int32Column) Reset() { c.data = c.data[:0] }

// Data returns the column's values. The returned slice aliases the column's
// storage and is invalidated by Resize, Append and Reset.
func (c *Int32Column) Data() []int32 { return c.data }

// Resize sets the number of rows to n. Rows added by growing the column have
// unspecified values.
func (c *Int32Column) Resize(n int) {
	if n <= cap(c.data) {
		c.data = c.data[:n]
		return
	}
	c.data = slices.Grow(c.data, n-len(c.data))[:n]
}

// Append appends values to the column.
func (c *Int32Column) Append(vals ...int32) {
	c.data = append(c.data, vals...)
}
