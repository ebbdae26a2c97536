// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package base defines the logging interface shared by the lowcard packages.
package base

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
)

// Logger is the sink of the log messages of scans, recoding iterators and
// filesystems. The command line tools back it with zap.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
}

// DefaultLogger writes to the standard library logger.
type DefaultLogger struct{}

var _ Logger = DefaultLogger{}

// Infof implements Logger.
func (DefaultLogger) Infof(format string, args ...interface{}) {
	_ = log.Output(2, fmt.Sprintf(format, args...))
}

// Errorf implements Logger.
func (DefaultLogger) Errorf(format string, args ...interface{}) {
	_ = log.Output(2, "ERROR: "+fmt.Sprintf(format, args...))
}

// Fatalf implements Logger.
func (DefaultLogger) Fatalf(format string, args ...interface{}) {
	_ = log.Output(2, "FATAL: "+fmt.Sprintf(format, args...))
	os.Exit(1)
}

// NoopLogger drops everything but Fatalf, which panics.
type NoopLogger struct{}

var _ Logger = NoopLogger{}

// Infof implements Logger.
func (NoopLogger) Infof(format string, args ...interface{}) {}

// Errorf implements Logger.
func (NoopLogger) Errorf(format string, args ...interface{}) {}

// Fatalf implements Logger.
func (NoopLogger) Fatalf(format string, args ...interface{}) {
	panic(fmt.Sprintf(format, args...))
}

// InMemLogger records messages, one line each, for tests to inspect.
type InMemLogger struct {
	mu    sync.Mutex
	lines []string
}

var _ Logger = (*InMemLogger)(nil)

// Lines returns the recorded messages.
func (l *InMemLogger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.lines...)
}

// String returns the recorded messages, each terminated by a newline.
func (l *InMemLogger) String() string {
	lines := l.Lines()
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// Reset drops the recorded messages.
func (l *InMemLogger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = nil
}

// Infof implements Logger.
func (l *InMemLogger) Infof(format string, args ...interface{}) {
	l.record(format, args...)
}

// Errorf implements Logger.
func (l *InMemLogger) Errorf(format string, args ...interface{}) {
	l.record(format, args...)
}

// Fatalf implements Logger. The message is recorded before panicking.
func (l *InMemLogger) Fatalf(format string, args ...interface{}) {
	l.record(format, args...)
	panic(fmt.Sprintf(format, args...))
}

func (l *InMemLogger) record(format string, args ...interface{}) {
	s := strings.TrimSuffix(fmt.Sprintf(format, args...), "\n")
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, s)
}
