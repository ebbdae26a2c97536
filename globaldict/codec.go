// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package globaldict

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/zstd"
)

// The serialized form of a dictionary is:
//
//	+-------+---------+------------------------------------------------+
//	| magic | version | zstd( uvarint(n) { varint(code) uvarint(len) bytes }*n ) |
//	+-------+---------+------------------------------------------------+
//
// Entries are written in code order.
const (
	magic          = "LCGD"
	formatVersion1 = 1
)

// ErrCorruptDict is the mark of errors returned by Decode for malformed input.
var ErrCorruptDict = errors.New("globaldict: corrupt dictionary")

// Encode writes the serialized form of d to w.
func Encode(w io.Writer, d *Dict) error {
	if _, err := io.WriteString(w, magic); err != nil {
		return err
	}
	if _, err := w.Write([]byte{formatVersion1}); err != nil {
		return err
	}
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(enc)
	var buf [binary.MaxVarintLen64]byte
	writeUvarint := func(v uint64) error {
		_, err := bw.Write(buf[:binary.PutUvarint(buf[:], v)])
		return err
	}

	entries := d.Entries()
	err = writeUvarint(uint64(len(entries)))
	for i := 0; i < len(entries) && err == nil; i++ {
		_, err = bw.Write(buf[:binary.PutVarint(buf[:], int64(entries[i].Code))])
		if err == nil {
			err = writeUvarint(uint64(len(entries[i].Value)))
		}
		if err == nil {
			_, err = bw.WriteString(entries[i].Value)
		}
	}
	if err == nil {
		err = bw.Flush()
	}
	return errors.CombineErrors(err, enc.Close())
}

// Decode reads a dictionary previously written by Encode and returns it
// frozen.
func Decode(r io.Reader) (*Dict, error) {
	var hdr [len(magic) + 1]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "reading header"), ErrCorruptDict)
	}
	if string(hdr[:len(magic)]) != magic {
		return nil, errors.Mark(errors.Newf("bad magic %q", hdr[:len(magic)]), ErrCorruptDict)
	}
	if v := hdr[len(magic)]; v != formatVersion1 {
		return nil, errors.Mark(errors.Newf("unsupported format version %d", v), ErrCorruptDict)
	}
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	br := bufio.NewReader(dec)

	corrupt := func(err error, what string) error {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return errors.Mark(errors.Wrapf(err, "reading %s", what), ErrCorruptDict)
	}
	n, err := binary.ReadUvarint(br)
	if err != nil {
		return nil, corrupt(err, "entry count")
	}
	b := NewBuilder(int(min(n, 1<<20)))
	var value []byte
	for i := uint64(0); i < n; i++ {
		code, err := binary.ReadVarint(br)
		if err != nil {
			return nil, corrupt(err, "code")
		}
		if int64(int32(code)) != code {
			return nil, errors.Mark(errors.Newf("code %d overflows int32", code), ErrCorruptDict)
		}
		length, err := binary.ReadUvarint(br)
		if err != nil {
			return nil, corrupt(err, "value length")
		}
		if length > 1<<30 {
			return nil, errors.Mark(errors.Newf("value length %d too large", length), ErrCorruptDict)
		}
		if uint64(cap(value)) < length {
			value = make([]byte, length)
		}
		value = value[:length]
		if _, err := io.ReadFull(br, value); err != nil {
			return nil, corrupt(err, "value")
		}
		if err := b.Add(value, int32(code)); err != nil {
			return nil, errors.Mark(err, ErrCorruptDict)
		}
	}
	return b.Freeze(), nil
}
