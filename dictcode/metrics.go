// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package dictcode

import (
	"github.com/cockroachdb/crlib/crhumanize"
	"github.com/cockroachdb/redact"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds the recoding statistics shared by the iterators of a query.
// All fields are safe for concurrent use.
type Metrics struct {
	// ConvertMapsBuilt counts convert maps built, one per file column.
	ConvertMapsBuilt prometheus.Counter
	// InconsistentDicts counts convert map builds that failed because a local
	// value was missing from the global dictionary.
	InconsistentDicts prometheus.Counter
	// RowsRecoded counts rows translated to global codes.
	RowsRecoded prometheus.Counter
	// NullRows counts recoded rows that were null.
	NullRows prometheus.Counter
	// LocalDictSize observes the size of every local dictionary a convert map
	// was built for.
	LocalDictSize prometheus.Histogram
}

// NewMetrics allocates a set of metrics. If reg is non-nil the metrics are
// registered with it.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ConvertMapsBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lowcard", Subsystem: "dictcode", Name: "convert_maps_built_total",
			Help: "Number of local to global code convert maps built.",
		}),
		InconsistentDicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lowcard", Subsystem: "dictcode", Name: "inconsistent_dicts_total",
			Help: "Number of local dictionaries holding values missing from the global dictionary.",
		}),
		RowsRecoded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lowcard", Subsystem: "dictcode", Name: "rows_recoded_total",
			Help: "Number of rows recoded to global dictionary codes.",
		}),
		NullRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lowcard", Subsystem: "dictcode", Name: "null_rows_total",
			Help: "Number of recoded rows that were null.",
		}),
		LocalDictSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "lowcard", Subsystem: "dictcode", Name: "local_dict_size",
			Help:    "Size of the local dictionaries convert maps were built for.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 9),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.ConvertMapsBuilt, m.InconsistentDicts, m.RowsRecoded, m.NullRows, m.LocalDictSize)
	}
	return m
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	ConvertMapsBuilt  uint64
	InconsistentDicts uint64
	RowsRecoded       uint64
	NullRows          uint64
}

// Snapshot reads the current value of every counter.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		ConvertMapsBuilt:  counterValue(m.ConvertMapsBuilt),
		InconsistentDicts: counterValue(m.InconsistentDicts),
		RowsRecoded:       counterValue(m.RowsRecoded),
		NullRows:          counterValue(m.NullRows),
	}
}

func counterValue(c prometheus.Counter) uint64 {
	var pb dto.Metric
	if err := c.Write(&pb); err != nil {
		return 0
	}
	return uint64(pb.GetCounter().GetValue())
}

// String implements fmt.Stringer.
func (s MetricsSnapshot) String() string {
	return redact.StringWithoutMarkers(s)
}

// SafeFormat implements redact.SafeFormatter.
func (s MetricsSnapshot) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("maps: %s (%s inconsistent)  rows: %s (%s null)",
		crhumanize.Count(s.ConvertMapsBuilt, crhumanize.Compact),
		crhumanize.Count(s.InconsistentDicts, crhumanize.Compact),
		crhumanize.Count(s.RowsRecoded, crhumanize.Compact),
		crhumanize.Count(s.NullRows, crhumanize.Compact))
}
