// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package column

// BinaryColumn is a non-nullable column of variable-length byte strings. The
// values are stored back to back in a single buffer; offsets[i] and
// offsets[i+1] delimit the i-th value.
type BinaryColumn struct {
	offsets []uint32
	bytes   []byte
}

var _ Column = (*BinaryColumn)(nil)

// NewBinaryColumn returns an empty binary column.
func NewBinaryColumn() *BinaryColumn {
	return &BinaryColumn{offsets: []uint32{0}}
}

// DataType implements Column.
func (c *BinaryColumn) DataType() DataType { return DataTypeBinary }

// Len implements Column.
func (c *BinaryColumn) Len() int {
	if len(c.offsets) == 0 {
		return 0
	}
	return len(c.offsets) - 1
}

// IsNullable implements Column.
func (c *BinaryColumn) IsNullable() bool { return false }

// HasNull implements Column.
func (c *BinaryColumn) HasNull() bool { return false }

// Reset implements Column.
func (c *BinaryColumn) Reset() {
	c.offsets = append(c.offsets[:0], 0)
	c.bytes = c.bytes[:0]
}

// Get returns the i-th value. The returned slice aliases the column's buffer
// and must not be modified.
func (c *BinaryColumn) Get(i int) []byte {
	return c.bytes[c.offsets[i]:c.offsets[i+1]:c.offsets[i+1]]
}

// Append appends a copy of v to the column.
func (c *BinaryColumn) Append(v []byte) {
	if len(c.offsets) == 0 {
		c.offsets = append(c.offsets, 0)
	}
	c.bytes = append(c.bytes, v...)
	c.offsets = append(c.offsets, uint32(len(c.bytes)))
}

// AppendString appends s to the column.
func (c *BinaryColumn) AppendString(s string) {
	if len(c.offsets) == 0 {
		c.offsets = append(c.offsets, 0)
	}
	c.bytes = append(c.bytes, s...)
	c.offsets = append(c.offsets, uint32(len(c.bytes)))
}
