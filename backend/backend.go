// Copyright 2026 The UKV Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package backend defines the Storage Backend Interface: the capability
// surface every concrete engine (memory, badgerdb, remote) must provide —
// point get, atomic batch put, range scan, size estimation, and a
// snapshot for isolation — so the Transaction Manager and Batch
// Operations in the root package never know which concrete engine
// they're driving.
package backend

import (
	"context"

	"github.com/ukvdb/ukv/collection"
)

// Write is one pending mutation in a batch: Value == nil deletes
// (Collection, Key); any non-nil Value (including a zero-length one)
// sets it.
type Write struct {
	Collection collection.ID
	Key        int64
	Value      []byte
}

// ReadResult is the outcome of a single point get. CommitPoint is the
// engine-assigned logical timestamp of the write that produced Value (or
// of the last write to Key if Found is false because it was since
// deleted); the Transaction Manager uses it for read-tracking.
type ReadResult struct {
	Value       []byte
	CommitPoint uint64
	Found       bool
}

// ScanResult is the outcome of one ranged scan task. Lengths is nil
// unless the caller requested value lengths.
type ScanResult struct {
	Keys    []int64
	Lengths []uint32
}

// SizeEstimate is the outcome of one size-estimation task. The only
// invariant callers can rely on is Min <= true_value <= Max for each of
// the three measured quantities.
type SizeEstimate struct {
	MinCardinality uint64
	MaxCardinality uint64
	MinValueBytes  uint64
	MaxValueBytes  uint64
	MinMemoryBytes uint64
	MaxMemoryBytes uint64
}

// Snapshot is a read view pinned at a logical commit point, used to give
// a snapshot Transaction reads that are stable across concurrent
// commits. It must be Closed once the owning transaction frees or
// commits.
type Snapshot interface {
	Get(ctx context.Context, col collection.ID, key int64) (ReadResult, error)
	Scan(ctx context.Context, col collection.ID, minKey int64, scanLength int, withLengths bool) (ScanResult, error)
	Close() error
}

// Backend is the capability surface every storage engine must implement.
// Every method may block arbitrarily on I/O, lock acquisition, or
// validation; none of them are required to be non-blocking.
type Backend interface {
	// Get performs one point read against the live (latest committed)
	// state of the store.
	Get(ctx context.Context, col collection.ID, key int64) (ReadResult, error)

	// CommitBatch applies writes atomically against the live store and
	// returns the commit point assigned to the batch. Commit points form
	// a total order: later readers observe all earlier commits. flush
	// requests durable persistence before return; without it durability
	// follows the backend's own default.
	CommitBatch(ctx context.Context, writes []Write, flush bool) (commitPoint uint64, err error)

	// Scan returns up to scanLength ascending keys >= minKey that are
	// present in col at a consistent read point between call entry and
	// return.
	Scan(ctx context.Context, col collection.ID, minKey int64, scanLength int, withLengths bool) (ScanResult, error)

	// EstimateSize returns loose bounds on cardinality, value bytes, and
	// memory usage for keys in [minKey, maxKey].
	EstimateSize(ctx context.Context, col collection.ID, minKey, maxKey int64) (SizeEstimate, error)

	// Snapshot captures a consistent read point for a snapshot
	// transaction. Backends that can't support snapshots return an
	// error; DB.TxnBegin reports it as a `usage` *ukv.Error.
	Snapshot(ctx context.Context) (Snapshot, error)

	// Control executes one control-channel command: clear, reset,
	// compact, info, usage. The stats verb is answered by DB.Control
	// itself and never reaches a backend.
	Control(ctx context.Context, request string) (response string, err error)

	// CurrentCommitPoint returns the most recently assigned commit
	// point, used by the Transaction Manager to stamp new transaction
	// generations and to validate read-tracked commits.
	CurrentCommitPoint() uint64

	// RemoveCollection drops col's contents entirely: a named collection
	// removal.
	RemoveCollection(ctx context.Context, col collection.ID) error

	// ClearCollection deletes col's keys but keeps col itself
	// addressable: removing the default collection by name==nil.
	ClearCollection(ctx context.Context, col collection.ID) error

	// Close releases backend resources. It does not drain live
	// dependents; draining or refusing is left to the backend's own
	// documented choice.
	Close() error
}
