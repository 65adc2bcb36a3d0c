// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package slog adapts zap's SugaredLogger to the small Logger interface
// the sfx package drives, so the rest of the module never imports zap
// directly.
package slog

import "go.uber.org/zap"

// Logger wraps a zap.SugaredLogger to satisfy sfx.Logger.
type Logger struct {
	s *zap.SugaredLogger
}

// New builds a production zap logger (JSON encoding, info level) wrapped
// as a Logger. Falls back to a no-op logger if zap fails to build one,
// which only happens on a misconfigured encoder and never in practice
// with the defaults used here.
func New() *Logger {
	z, err := zap.NewProduction()
	if err != nil {
		z = zap.NewNop()
	}
	return &Logger{s: z.Sugar()}
}

// NewDevelopment builds a human-readable console logger at debug level,
// suitable for cmd/sfxtool's interactive use.
func NewDevelopment() *Logger {
	z, err := zap.NewDevelopment()
	if err != nil {
		z = zap.NewNop()
	}
	return &Logger{s: z.Sugar()}
}

// Debugf implements sfx.Logger.
func (l *Logger) Debugf(format string, args ...interface{}) { l.s.Debugf(format, args...) }

// Errorf implements sfx.Logger.
func (l *Logger) Errorf(format string, args ...interface{}) { l.s.Errorf(format, args...) }

// Sync flushes any buffered log entries; call before process exit.
func (l *Logger) Sync() error { return l.s.Sync() }
