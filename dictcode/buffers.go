// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package dictcode

import (
	"github.com/cockroachdb/errors"
	"github.com/colscan/lowcard/column"
)

// newLocalDictColumn returns an empty int32 column, wrapped as nullable if
// requested, used as the scratch buffer for raw local codes.
func newLocalDictColumn(nullable bool) column.Column {
	var c column.Column = column.NewInt32Column()
	if nullable {
		c = column.NewNullableColumn(c, nil)
	}
	return c
}

// swapNullColumns hands the null flags of src to dst by exchanging their
// storage, and propagates src's has-null summary to dst. Both columns must
// have the same nullability; non-nullable columns are left untouched.
func swapNullColumns(src, dst column.Column) error {
	if src.IsNullable() != dst.IsNullable() {
		return errors.Wrapf(ErrNullabilityMismatch,
			"src nullable=%t, dst nullable=%t", src.IsNullable(), dst.IsNullable())
	}
	if !src.IsNullable() {
		return nil
	}
	s := src.(*column.NullableColumn)
	d := dst.(*column.NullableColumn)
	d.SwapNullData(s)
	d.SetHasNull(s.HasNull())
	return nil
}
