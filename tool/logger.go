// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package tool

import (
	"github.com/colscan/lowcard/internal/base"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// zapLogger implements base.Logger on top of a zap logger.
type zapLogger struct {
	s *zap.SugaredLogger
}

var _ base.Logger = zapLogger{}

// NewZapLogger returns a base.Logger writing to l.
func NewZapLogger(l *zap.Logger) base.Logger {
	return zapLogger{s: l.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

func newZapLogger(verbose bool) (base.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return NewZapLogger(l), nil
}

func (l zapLogger) Infof(format string, args ...interface{}) {
	l.s.Infof(format, args...)
}

func (l zapLogger) Errorf(format string, args ...interface{}) {
	l.s.Errorf(format, args...)
}

func (l zapLogger) Fatalf(format string, args ...interface{}) {
	l.s.Fatalf(format, args...)
}
