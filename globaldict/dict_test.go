// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package globaldict

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/cockroachdb/datadriven"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func parseValue(t *testing.T, s string) string {
	if strings.HasPrefix(s, `"`) {
		v, err := strconv.Unquote(s)
		require.NoError(t, err)
		return v
	}
	return s
}

func TestDictDataDriven(t *testing.T) {
	var d *Dict
	datadriven.RunTest(t, "testdata/dict", func(t *testing.T, td *datadriven.TestData) string {
		var buf bytes.Buffer
		switch td.Cmd {
		case "build":
			b := NewBuilder(0)
			for _, line := range strings.Split(td.Input, "\n") {
				codeStr, value, _ := strings.Cut(strings.TrimSpace(line), " ")
				code, err := strconv.ParseInt(codeStr, 10, 32)
				require.NoError(t, err)
				if err := b.AddString(parseValue(t, value), int32(code)); err != nil {
					return fmt.Sprintf("error: %v", err)
				}
			}
			d = b.Freeze()
			return fmt.Sprintf("%d entries", d.Len())

		case "lookup":
			for _, line := range strings.Split(td.Input, "\n") {
				v := parseValue(t, strings.TrimSpace(line))
				if code, ok := d.Lookup([]byte(v)); ok {
					fmt.Fprintf(&buf, "%q -> %d\n", v, code)
				} else {
					fmt.Fprintf(&buf, "%q -> not found\n", v)
				}
			}
			return buf.String()

		case "roundtrip":
			var enc bytes.Buffer
			require.NoError(t, Encode(&enc, d))
			decoded, err := Decode(&enc)
			require.NoError(t, err)
			for _, e := range decoded.Entries() {
				fmt.Fprintf(&buf, "%d %q\n", e.Code, e.Value)
			}
			return buf.String()

		default:
			return fmt.Sprintf("unknown command: %s", td.Cmd)
		}
	})
}

func TestBuilderFrozen(t *testing.T) {
	b := NewBuilder(4)
	require.NoError(t, b.AddString("a", 1))
	require.Equal(t, 1, b.Len())
	d := b.Freeze()
	require.Equal(t, 0, b.Len())
	err := b.AddString("b", 2)
	require.Error(t, err)
	require.True(t, errors.HasAssertionFailure(err))

	// The frozen dictionary is unaffected by the failed Add.
	require.Equal(t, 1, d.Len())
	_, ok := d.LookupString("b")
	require.False(t, ok)
}

func TestEmptyDict(t *testing.T) {
	d := NewBuilder(0).Freeze()
	require.Equal(t, 0, d.Len())
	_, ok := d.Lookup(nil)
	require.False(t, ok)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, d))
	decoded, err := Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, 0, decoded.Len())
}

func TestDecodeCorrupt(t *testing.T) {
	b := NewBuilder(0)
	for i := 0; i < 100; i++ {
		require.NoError(t, b.AddString(fmt.Sprintf("value-%03d", i), int32(i*2)))
	}
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, b.Freeze()))
	encoded := buf.Bytes()

	for _, tc := range []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"bad-magic", append([]byte("XXXX"), encoded[4:]...)},
		{"bad-version", append(append([]byte(magic), 9), encoded[5:]...)},
		{"truncated", encoded[:len(encoded)/2]},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(bytes.NewReader(tc.data))
			require.Error(t, err)
			if tc.name != "truncated" {
				require.True(t, errors.Is(err, ErrCorruptDict), "%v", err)
			}
		})
	}
}

func TestParseText(t *testing.T) {
	d, err := ParseText(strings.NewReader("0\t\n3\tx\n\n7\ty with spaces\n"))
	require.NoError(t, err)
	require.Equal(t, []Entry{{"", 0}, {"x", 3}, {"y with spaces", 7}}, d.Entries())

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, d))
	require.Equal(t, "0\t\n3\tx\n7\ty with spaces\n", buf.String())

	_, err = ParseText(strings.NewReader("nope\n"))
	require.ErrorContains(t, err, "line 1")
	_, err = ParseText(strings.NewReader("1\ta\n1\tb\n"))
	require.True(t, errors.Is(err, ErrDuplicateCode))
}

func TestConcurrentLookups(t *testing.T) {
	b := NewBuilder(1000)
	for i := 0; i < 1000; i++ {
		require.NoError(t, b.AddString(strconv.Itoa(i), int32(i)))
	}
	d := b.Freeze()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				code, ok := d.Lookup([]byte(strconv.Itoa(i)))
				if !ok || code != int32(i) {
					errs <- errors.Newf("lookup(%d) = %d, %t", i, code, ok)
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}
