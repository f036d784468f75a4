// Copyright 2026 The UKV Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package control holds the vocabulary of the Control Channel: the
// recognized string commands and the formatting of their string
// responses. It does not talk to a backend directly — DB.Control (in the
// root package) dispatches the verbs this package names, so the channel
// stays a thin string-in/string-out contract at every layer.
package control

import "fmt"

// Recognized commands. Clear, Reset, Compact, Info, and Usage come from
// the original control-channel contract; Stats is a supplemental verb
// aggregating a size estimate across every collection in the DB.
const (
	Clear   = "clear"
	Reset   = "reset"
	Compact = "compact"
	Info    = "info"
	Usage   = "usage"
	Stats   = "stats"
)

// Recognized reports whether cmd names a known control verb.
func Recognized(cmd string) bool {
	switch cmd {
	case Clear, Reset, Compact, Info, Usage, Stats:
		return true
	default:
		return false
	}
}

// SizeEstimate mirrors backend.SizeEstimate without importing the
// backend package, so this package stays free of a storage dependency.
type SizeEstimate struct {
	MinCardinality uint64
	MaxCardinality uint64
	MinValueBytes  uint64
	MaxValueBytes  uint64
	MinMemoryBytes uint64
	MaxMemoryBytes uint64
}

// FormatStats renders a DB-wide size estimate as the stats verb's
// response string.
func FormatStats(collections int, e SizeEstimate) string {
	return fmt.Sprintf(
		"collections=%d min_cardinality=%d max_cardinality=%d min_value_bytes=%d max_value_bytes=%d min_memory_bytes=%d max_memory_bytes=%d",
		collections, e.MinCardinality, e.MaxCardinality, e.MinValueBytes, e.MaxValueBytes, e.MinMemoryBytes, e.MaxMemoryBytes,
	)
}
