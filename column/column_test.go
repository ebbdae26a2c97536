// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package column

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInt32ColumnResize(t *testing.T) {
	c := NewInt32Column(1, 2, 3)
	c.Resize(2)
	require.Equal(t, []int32{1, 2}, c.Data())
	c.Resize(10)
	require.Equal(t, 10, c.Len())
	require.Equal(t, int32(1), c.Data()[0])
	c.Reset()
	require.Equal(t, 0, c.Len())
	require.False(t, c.IsNullable())
}

func TestBinaryColumn(t *testing.T) {
	c := NewBinaryColumn()
	c.AppendString("")
	c.Append([]byte("apple"))
	c.AppendString("banana")
	require.Equal(t, 3, c.Len())
	require.Equal(t, "", string(c.Get(0)))
	require.Equal(t, "apple", string(c.Get(1)))
	require.Equal(t, "banana", string(c.Get(2)))

	c.Reset()
	require.Equal(t, 0, c.Len())
	c.AppendString("x")
	require.Equal(t, "x", string(c.Get(0)))

	var zero BinaryColumn
	require.Equal(t, 0, zero.Len())
	zero.AppendString("y")
	require.Equal(t, 1, zero.Len())
	require.Equal(t, "y", string(zero.Get(0)))
}

func TestNullableColumn(t *testing.T) {
	c := NewNullableColumn(NewInt32Column(1, 0, 2), []uint8{0, 1, 0})
	require.True(t, c.IsNullable())
	require.True(t, c.HasNull())
	require.True(t, c.IsNull(1))
	require.Equal(t, DataTypeInt32, c.DataType())
	require.Same(t, c.DataColumn(), DataColumn(c))
	require.Equal(t, "1\nNULL\n2\n", String(c))

	c.Reset()
	require.Equal(t, 0, c.Len())
	require.False(t, c.HasNull())

	Int32Data(c).Append(4, 5)
	c.AppendNullFlags(0, 0)
	require.False(t, c.HasNull())
	c.ResizeNulls(2)
	c.NullData()[0] = 1
	require.True(t, c.UpdateHasNull())
}

func TestSwapNullData(t *testing.T) {
	a := NewNullableColumn(NewInt32Column(1, 2), []uint8{1, 0})
	b := NewNullableColumn(NewInt32Column(3), []uint8{0})
	aNulls, bNulls := a.NullData(), b.NullData()
	a.SwapNullData(b)
	require.Same(t, &bNulls[0], &a.NullData()[0])
	require.Same(t, &aNulls[0], &b.NullData()[0])
	// Summaries are the caller's responsibility.
	require.True(t, a.HasNull())
	require.False(t, b.HasNull())
}

func TestInt32DataPanicsOnBinary(t *testing.T) {
	require.Panics(t, func() { Int32Data(NewBinaryColumn()) })
	require.Equal(t, "binary", DataTypeBinary.String())
	require.Equal(t, "DataType(9)", DataType(9).String())
}
