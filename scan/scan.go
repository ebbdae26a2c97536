// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package scan recodes a string column of a set of parquet files into global
// dictionary codes, scanning row groups concurrently.
package scan

import (
	"context"
	"io"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/colscan/lowcard/column"
	"github.com/colscan/lowcard/dictcode"
	"github.com/colscan/lowcard/globaldict"
	"github.com/colscan/lowcard/parquetcol"
	"golang.org/x/sync/errgroup"
)

// Batch is a run of consecutive rows of one row group.
type Batch struct {
	File     string
	RowGroup int
	// Offset is the position of the first row of the batch in its row group.
	Offset int64
	// Codes is a nullable int32 column of global codes, 0 at null rows. It is
	// reused for the following batch once the sink returns.
	Codes column.Column
}

// Sink consumes the batches of a scan. It is called concurrently from the
// goroutines of the scan.
type Sink func(Batch) error

// FileStats summarizes the rows of one file read by a scan.
type FileStats struct {
	File      string
	RowGroups int
	Rows      int64
	NullRows  int64
}

type fileState struct {
	f     *parquetcol.File
	rows  atomic.Int64
	nulls atomic.Int64
}

type task struct {
	file     *fileState
	rowGroup int
}

// Run recodes columnName of every file, handing the batches to sink. Row
// groups are distributed over opts.Concurrency goroutines, each reusing one
// dictcode.Iterator for the row groups it scans. The first error cancels the
// scan and is returned.
func Run(
	ctx context.Context,
	dict *globaldict.Dict,
	files []string,
	columnName string,
	opts *Options,
	sink Sink,
) (_ []FileStats, err error) {
	o := *opts.EnsureDefaults()

	states := make([]*fileState, 0, len(files))
	defer func() {
		for _, s := range states {
			err = errors.CombineErrors(err, s.f.Close())
		}
	}()
	var tasks []task
	for _, name := range files {
		fs, err := o.OpenFS(name)
		if err != nil {
			return nil, err
		}
		f, err := parquetcol.OpenFile(fs, name)
		if err != nil {
			return nil, err
		}
		s := &fileState{f: f}
		states = append(states, s)
		for rg := 0; rg < f.NumRowGroups(); rg++ {
			tasks = append(tasks, task{file: s, rowGroup: rg})
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	queue := make(chan task)
	g.Go(func() error {
		defer close(queue)
		for _, t := range tasks {
			select {
			case queue <- t:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})
	workers := min(o.Concurrency, max(len(tasks), 1))
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			w := worker{opts: &o, dict: dict, column: columnName, sink: sink}
			defer w.close()
			for t := range queue {
				if err := w.scan(ctx, t); err != nil {
					return errors.Wrapf(err, "scan: %s row group %d", t.file.f.Name(), t.rowGroup)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := make([]FileStats, len(states))
	for i, s := range states {
		stats[i] = FileStats{
			File:      s.f.Name(),
			RowGroups: s.f.NumRowGroups(),
			Rows:      s.rows.Load(),
			NullRows:  s.nulls.Load(),
		}
		o.Logger.Infof("scan: %s: %d rows (%d null) in %d row groups",
			stats[i].File, stats[i].Rows, stats[i].NullRows, stats[i].RowGroups)
	}
	return stats, nil
}

// worker scans row groups one at a time.
type worker struct {
	opts   *Options
	dict   *globaldict.Dict
	column string
	sink   Sink
	it     *dictcode.Iterator
	codes  *column.NullableColumn
}

func (w *worker) scan(ctx context.Context, t task) (err error) {
	r, err := t.file.f.Column(t.rowGroup, w.column)
	if err != nil {
		return err
	}
	defer func() { err = errors.CombineErrors(err, r.Close()) }()

	if w.it == nil {
		it, err := dictcode.NewIterator(r, w.dict, &w.opts.Recode)
		if err != nil {
			return err
		}
		w.it = it
		w.codes = column.NewNullableColumn(column.NewInt32Column(), nil)
	} else if err := w.it.Reset(r); err != nil {
		return err
	}

	var offset int64
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := w.it.NextBatch(w.opts.BatchSize, w.codes)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		nulls := 0
		if w.codes.HasNull() {
			for _, f := range w.codes.NullData()[:n] {
				if f != 0 {
					nulls++
				}
			}
		}
		t.file.rows.Add(int64(n))
		t.file.nulls.Add(int64(nulls))
		if err := w.sink(Batch{File: t.file.f.Name(), RowGroup: t.rowGroup, Offset: offset, Codes: w.codes}); err != nil {
			return err
		}
		offset += int64(n)
	}
}

func (w *worker) close() {
	if w.it != nil {
		_ = w.it.Close()
		w.it = nil
	}
}
