// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package tool

import (
	"fmt"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/colscan/lowcard/globaldict"
	"github.com/colscan/lowcard/vfs/factory"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// dictT implements the global dictionary tools.
type dictT struct {
	Root   *cobra.Command
	Import *cobra.Command
	Show   *cobra.Command

	t *T

	// Flags.
	text bool
}

func newDict(t *T) *dictT {
	d := &dictT{t: t}
	d.Root = &cobra.Command{
		Use:   "dict",
		Short: "global dictionary tools",
	}
	d.Import = &cobra.Command{
		Use:   "import <text> <dict>",
		Short: "build a dictionary file from code<TAB>value lines",
		Long: `
Reads one code<TAB>value entry per line from the text file and writes the
frozen dictionary in its compressed binary form. Both names may be URIs of
any supported filesystem.
`,
		Args: cobra.ExactArgs(2),
		RunE: d.runImport,
	}
	d.Show = &cobra.Command{
		Use:   "show <dict>",
		Short: "print the entries of a dictionary file",
		Args:  cobra.ExactArgs(1),
		RunE:  d.runShow,
	}
	d.Show.Flags().BoolVar(
		&d.text, "text", false, "print code<TAB>value lines instead of a table")
	d.Root.AddCommand(d.Import, d.Show)
	return d
}

func (d *dictT) runImport(cmd *cobra.Command, args []string) (err error) {
	src, dst := args[0], args[1]
	inFS, err := factory.SharedFromURI(src)
	if err != nil {
		return err
	}
	in, err := inFS.Open(src)
	if err != nil {
		return err
	}
	defer func() { err = errors.CombineErrors(err, in.Close()) }()
	dict, err := globaldict.ParseText(in)
	if err != nil {
		return errors.Wrapf(err, "%s", src)
	}

	outFS, err := factory.SharedFromURI(dst)
	if err != nil {
		return err
	}
	out, err := outFS.Create(dst)
	if err != nil {
		return err
	}
	if err := globaldict.Encode(out, dict); err != nil {
		return errors.CombineErrors(err, out.Close())
	}
	if err := out.Sync(); err != nil {
		return errors.CombineErrors(err, out.Close())
	}
	if err := out.Close(); err != nil {
		return err
	}
	d.t.logger.Infof("dict: wrote %d values to %s", dict.Len(), dst)
	fmt.Fprintf(stdout, "imported %d values into %s\n", dict.Len(), dst)
	return nil
}

func (d *dictT) runShow(cmd *cobra.Command, args []string) error {
	dict, err := readDict(args[0])
	if err != nil {
		return err
	}
	if d.text {
		return globaldict.WriteText(stdout, dict)
	}
	tbl := tablewriter.NewWriter(stdout)
	tbl.SetHeader([]string{"Code", "Value"})
	for _, e := range dict.Entries() {
		tbl.Append([]string{strconv.Itoa(int(e.Code)), strconv.Quote(e.Value)})
	}
	tbl.Render()
	return nil
}

// readDict reads a dictionary file written by "dict import".
func readDict(name string) (_ *globaldict.Dict, err error) {
	fs, err := factory.SharedFromURI(name)
	if err != nil {
		return nil, err
	}
	f, err := fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer func() { err = errors.CombineErrors(err, f.Close()) }()
	dict, err := globaldict.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", name)
	}
	return dict, nil
}
