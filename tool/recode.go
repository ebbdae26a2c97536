// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package tool

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/colscan/lowcard/column"
	"github.com/colscan/lowcard/dictcode"
	"github.com/colscan/lowcard/scan"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// recodeT implements the recode tool.
type recodeT struct {
	Root *cobra.Command

	t *T

	// Flags.
	dictPath    string
	column      string
	rows        bool
	batchSize   int
	concurrency int
	verify      bool
}

func newRecode(t *T) *recodeT {
	r := &recodeT{t: t}
	r.Root = &cobra.Command{
		Use:   "recode <files>",
		Short: "recode a string column of parquet files to global dictionary codes",
		Long: `
Translates the dictionary-encoded string column of every row group of the
given parquet files into the codes of the global dictionary, and prints the
number of rows and null rows of each file. Files may be local paths or URIs
of any supported filesystem.

Empty strings missing from the global dictionary recode to code 0. With
--rows such rows print as "" when no dictionary value owns code 0, and as
the owner of code 0 otherwise.
`,
		Args: cobra.MinimumNArgs(1),
		RunE: r.run,
	}
	r.Root.Flags().StringVar(
		&r.dictPath, "dict", "", "global dictionary file written by \"dict import\"")
	r.Root.Flags().StringVar(
		&r.column, "column", "", "dot separated path of the column to recode")
	r.Root.Flags().BoolVar(
		&r.rows, "rows", false, "print every recoded row")
	r.Root.Flags().IntVar(
		&r.batchSize, "batch-size", 0, "rows per batch (default from config, else 4096)")
	r.Root.Flags().IntVarP(
		&r.concurrency, "concurrency", "c", 0, "row groups scanned concurrently (default GOMAXPROCS)")
	r.Root.Flags().BoolVar(
		&r.verify, "verify", false, "validate every local code before recoding")
	_ = r.Root.MarkFlagRequired("dict")
	_ = r.Root.MarkFlagRequired("column")
	return r
}

// recodedRow is a row printed with --rows.
type recodedRow struct {
	file     int
	rowGroup int
	row      int64
	code     int32
	null     bool
}

func (r *recodeT) run(cmd *cobra.Command, args []string) error {
	dict, err := readDict(r.dictPath)
	if err != nil {
		return err
	}
	values := make(map[int32]string, dict.Len())
	dict.All(func(v string, code int32) bool {
		values[code] = v
		return true
	})

	opts := r.t.cfg.Scan
	opts.Logger = r.t.logger
	opts.Recode.Metrics = dictcode.NewMetrics(nil)
	if r.batchSize > 0 {
		opts.BatchSize = r.batchSize
	}
	if r.concurrency > 0 {
		opts.Concurrency = r.concurrency
	}
	if r.verify {
		opts.VerifyCodes = true
	}

	fileIndex := make(map[string]int, len(args))
	for i, name := range args {
		fileIndex[name] = i
	}
	var mu sync.Mutex
	var rows []recodedRow
	sink := func(b scan.Batch) error {
		if !r.rows {
			return nil
		}
		codes := column.Int32Data(b.Codes).Data()
		nullable := b.Codes.(*column.NullableColumn)
		mu.Lock()
		defer mu.Unlock()
		for i, c := range codes {
			rows = append(rows, recodedRow{
				file:     fileIndex[b.File],
				rowGroup: b.RowGroup,
				row:      b.Offset + int64(i),
				code:     c,
				null:     nullable.IsNull(i),
			})
		}
		return nil
	}

	stats, err := scan.Run(context.Background(), dict, args, r.column, &opts, sink)
	if err != nil {
		return err
	}
	r.t.logger.Infof("recode: %s", opts.Recode.Metrics.Snapshot())

	if r.rows {
		sort.Slice(rows, func(i, j int) bool {
			a, b := rows[i], rows[j]
			if a.file != b.file {
				return a.file < b.file
			}
			if a.rowGroup != b.rowGroup {
				return a.rowGroup < b.rowGroup
			}
			return a.row < b.row
		})
		tbl := tablewriter.NewWriter(stdout)
		tbl.SetHeader([]string{"File", "Group", "Row", "Code", "Value"})
		for _, row := range rows {
			value := "NULL"
			if !row.null {
				// An unowned code is only produced for empty strings.
				v, ok := values[row.code]
				if !ok {
					v = ""
				}
				value = strconv.Quote(v)
			}
			tbl.Append([]string{
				args[row.file],
				strconv.Itoa(row.rowGroup),
				strconv.FormatInt(row.row, 10),
				strconv.Itoa(int(row.code)),
				value,
			})
		}
		tbl.Render()
	}

	tbl := tablewriter.NewWriter(stdout)
	tbl.SetHeader([]string{"File", "Groups", "Rows", "Nulls"})
	for _, s := range stats {
		tbl.Append([]string{
			s.File,
			strconv.Itoa(s.RowGroups),
			strconv.FormatInt(s.Rows, 10),
			strconv.FormatInt(s.NullRows, 10),
		})
	}
	tbl.Render()
	return nil
}
