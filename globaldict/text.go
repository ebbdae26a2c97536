// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package globaldict

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// ParseText reads a dictionary from its text form: one `code<TAB>value` entry
// per line. The value is taken verbatim up to the end of the line, so an
// entry for the empty string is written as a code followed by a lone tab.
// Empty lines are skipped.
func ParseText(r io.Reader) (*Dict, error) {
	b := NewBuilder(0)
	s := bufio.NewScanner(r)
	s.Buffer(nil, 1<<20)
	for lineNum := 1; s.Scan(); lineNum++ {
		line := s.Text()
		if line == "" {
			continue
		}
		codeStr, value, ok := strings.Cut(line, "\t")
		if !ok {
			return nil, errors.Newf("line %d: expected code<TAB>value, got %q", lineNum, line)
		}
		code, err := strconv.ParseInt(codeStr, 10, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNum)
		}
		if err := b.AddString(value, int32(code)); err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNum)
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return b.Freeze(), nil
}

// WriteText writes d in the form read by ParseText, ordered by code.
func WriteText(w io.Writer, d *Dict) error {
	bw := bufio.NewWriter(w)
	for _, e := range d.Entries() {
		if _, err := fmt.Fprintf(bw, "%d\t%s\n", e.Code, e.Value); err != nil {
			return err
		}
	}
	return bw.Flush()
}
