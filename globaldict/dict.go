// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package globaldict implements the query-wide dictionary that maps every
// distinct value of a low-cardinality string column to a shared int32 code.
//
// A dictionary is assembled with a Builder and then frozen into an immutable
// *Dict. A frozen Dict is never mutated again, so any number of concurrently
// running scans may read it without synchronization.
package globaldict

import (
	"slices"
	"unsafe"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/swiss"
)

// ErrDuplicateValue is returned by Builder.Add when a value is added twice.
var ErrDuplicateValue = errors.New("globaldict: duplicate value")

// ErrDuplicateCode is returned by Builder.Add when two values share a code.
var ErrDuplicateCode = errors.New("globaldict: duplicate code")

func hashValue(k *string, seed uintptr) uintptr {
	return uintptr(xxhash.Sum64String(*k) ^ uint64(seed))
}

func mapOptions() []swiss.Option[string, int32] {
	return []swiss.Option[string, int32]{
		swiss.WithHash[string, int32](hashValue),
	}
}

// Builder accumulates value to code assignments. A Builder is not safe for
// concurrent use and is unusable after Freeze.
type Builder struct {
	values *swiss.Map[string, int32]
	codes  *swiss.Map[int32, struct{}]
}

// NewBuilder returns a Builder sized for roughly sizeHint values.
func NewBuilder(sizeHint int) *Builder {
	return &Builder{
		values: swiss.New[string, int32](sizeHint, mapOptions()...),
		codes:  swiss.New[int32, struct{}](sizeHint),
	}
}

// Add assigns code to value. The value is copied.
func (b *Builder) Add(value []byte, code int32) error {
	return b.AddString(string(value), code)
}

// AddString assigns code to value.
func (b *Builder) AddString(value string, code int32) error {
	if b.values == nil {
		return errors.AssertionFailedf("globaldict: Add called on a frozen builder")
	}
	if prev, ok := b.values.Get(value); ok {
		return errors.Wrapf(ErrDuplicateValue, "value %q already has code %d", value, prev)
	}
	if _, ok := b.codes.Get(code); ok {
		return errors.Wrapf(ErrDuplicateCode, "code %d already assigned", code)
	}
	b.values.Put(value, code)
	b.codes.Put(code, struct{}{})
	return nil
}

// Len returns the number of values added so far.
func (b *Builder) Len() int {
	if b.values == nil {
		return 0
	}
	return b.values.Len()
}

// Freeze returns the immutable dictionary holding every assignment added to
// the builder. The builder must not be used afterwards.
func (b *Builder) Freeze() *Dict {
	d := &Dict{values: b.values}
	if d.values == nil {
		d.values = swiss.New[string, int32](0, mapOptions()...)
	}
	*b = Builder{}
	return d
}

// Dict is a frozen global dictionary. All methods are safe for concurrent use.
type Dict struct {
	values *swiss.Map[string, int32]
}

// Entry is a single value to code assignment.
type Entry struct {
	Value string
	Code  int32
}

// Lookup returns the global code of value.
func (d *Dict) Lookup(value []byte) (int32, bool) {
	// The key is only used for hashing and comparison during the probe and is
	// never retained, so aliasing value's bytes is safe.
	return d.values.Get(unsafe.String(unsafe.SliceData(value), len(value)))
}

// LookupString returns the global code of value.
func (d *Dict) LookupString(value string) (int32, bool) {
	return d.values.Get(value)
}

// Len returns the number of values in the dictionary.
func (d *Dict) Len() int {
	return d.values.Len()
}

// All calls fn for every entry in unspecified order until fn returns false.
func (d *Dict) All(fn func(value string, code int32) bool) {
	d.values.All(fn)
}

// Entries returns every entry of the dictionary ordered by code.
func (d *Dict) Entries() []Entry {
	entries := make([]Entry, 0, d.Len())
	d.All(func(value string, code int32) bool {
		entries = append(entries, Entry{Value: value, Code: code})
		return true
	})
	slices.SortFunc(entries, func(a, b Entry) int {
		switch {
		case a.Code < b.Code:
			return -1
		case a.Code > b.Code:
			return +1
		}
		return 0
	})
	return entries
}
