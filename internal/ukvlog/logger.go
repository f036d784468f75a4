// Copyright 2026 The UKV Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package ukvlog wraps logrus behind a small interface so the engine and
// its backends depend on a contract, not a concrete logging library —
// the same shape OPA's disk-backed storage plugin takes a
// logging.Logger constructor argument instead of calling a global logger
// directly.
package ukvlog

import (
	"github.com/sirupsen/logrus"
)

// Logger is the minimal logging surface the engine needs.
type Logger interface {
	Debug(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
	WithFields(fields map[string]any) Logger
}

// logrusLogger adapts a *logrus.Entry to Logger.
type logrusLogger struct {
	entry *logrus.Entry
}

// New wraps l (or a fresh default logger if l is nil) as a Logger.
func New(l *logrus.Logger) Logger {
	if l == nil {
		l = logrus.New()
	}
	return &logrusLogger{entry: logrus.NewEntry(l)}
}

func (l *logrusLogger) Debug(format string, args ...any) { l.entry.Debugf(format, args...) }
func (l *logrusLogger) Warn(format string, args ...any)  { l.entry.Warnf(format, args...) }
func (l *logrusLogger) Error(format string, args ...any) { l.entry.Errorf(format, args...) }

func (l *logrusLogger) WithFields(fields map[string]any) Logger {
	return &logrusLogger{entry: l.entry.WithFields(logrus.Fields(fields))}
}

type noop struct{}

func (noop) Debug(string, ...any)            {}
func (noop) Warn(string, ...any)             {}
func (noop) Error(string, ...any)            {}
func (n noop) WithFields(map[string]any) Logger { return n }

// NoOp returns a Logger that discards everything, used as the default
// when a caller doesn't supply one.
func NoOp() Logger { return noop{} }
