// Copyright 2026 The UKV Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package txn implements the Transaction Manager: generation-stamped
// transactions with optional snapshot isolation and optional read-set
// tracking, committing under optimistic concurrency control.
//
// The pending-write buffer and read-your-writes logic follow the shape
// of a classic in-process transaction type: an updates map consulted
// before falling through to the backend, and commit-time validation of
// every tracked read against the backend's live commit points.
package txn

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/ukvdb/ukv/backend"
	"github.com/ukvdb/ukv/collection"
)

// State is one node of a transaction handle's lifecycle.
type State int

const (
	StateFresh State = iota
	StateActive
	StateCommitted
	StateConflicted
	StateGone
)

func (s State) String() string {
	switch s {
	case StateFresh:
		return "fresh"
	case StateActive:
		return "active"
	case StateCommitted:
		return "committed"
	case StateConflicted:
		return "conflicted"
	case StateGone:
		return "gone"
	default:
		return "unknown"
	}
}

// Options configures one Begin call.
type Options struct {
	Snapshot  bool
	ReadTrack bool
}

// ErrConflict is returned by Commit when OCC validation fails. Callers
// compare against it with errors.Is.
var ErrConflict = fmt.Errorf("txn: commit conflict")

type writeKey struct {
	col collection.ID
	key int64
}

type readRecord struct {
	col                 collection.ID
	key                 int64
	observedCommitPoint uint64
}

// Txn is one transaction handle. The zero value is not usable; obtain one
// from a Manager's Begin.
type Txn struct {
	mu      sync.Mutex
	backend backend.Backend
	gen     uint64
	state   State
	opts    Options
	snap    backend.Snapshot
	writes  map[writeKey][]byte // nil slice value (distinct from absent key) means delete
	reads   []readRecord
	corr    uuid.UUID
}

// Gen returns the transaction's generation number.
func (t *Txn) Gen() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gen
}

// State returns the transaction's current state.
func (t *Txn) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Read implements read-your-writes over the transaction's pending
// write-set, falling back to the snapshot (if one was captured) or the
// live store otherwise. When read-tracking is enabled, it records the
// observed commit point for later OCC validation, unless the read was
// served entirely from the transaction's own write-set (a transaction
// can never conflict with itself).
func (t *Txn) Read(ctx context.Context, col collection.ID, key int64) (backend.ReadResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateActive {
		return backend.ReadResult{}, fmt.Errorf("txn: read on a %s transaction", t.state)
	}

	if v, ok := t.writes[writeKey{col, key}]; ok {
		if v == nil {
			return backend.ReadResult{Found: false}, nil
		}
		return backend.ReadResult{Value: v, Found: true}, nil
	}

	var (
		res backend.ReadResult
		err error
	)
	if t.snap != nil {
		res, err = t.snap.Get(ctx, col, key)
	} else {
		res, err = t.backend.Get(ctx, col, key)
	}
	if err != nil {
		return backend.ReadResult{}, err
	}

	if t.opts.ReadTrack {
		t.reads = append(t.reads, readRecord{col: col, key: key, observedCommitPoint: res.CommitPoint})
	}
	return res, nil
}

// Scan ranges over the transaction's snapshot (if one was captured) or
// the live store otherwise. Unlike Read, it does not merge in the
// transaction's own pending writes: scans are not guaranteed a
// consistent view across calls outside snapshot mode, so overlaying an
// unordered write-set onto a paginated range adds cost without a
// matching guarantee.
func (t *Txn) Scan(ctx context.Context, col collection.ID, minKey int64, scanLength int, withLengths bool) (backend.ScanResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != StateActive {
		return backend.ScanResult{}, fmt.Errorf("txn: scan on a %s transaction", t.state)
	}
	if t.snap != nil {
		return t.snap.Scan(ctx, col, minKey, scanLength, withLengths)
	}
	return t.backend.Scan(ctx, col, minKey, scanLength, withLengths)
}

// Write buffers a mutation in the transaction's write-set (last write
// wins within the transaction). A nil value deletes the key.
func (t *Txn) Write(col collection.ID, key int64, value []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != StateActive {
		return fmt.Errorf("txn: write on a %s transaction", t.state)
	}
	if t.writes == nil {
		t.writes = make(map[writeKey][]byte, 8)
	}
	t.writes[writeKey{col, key}] = value
	return nil
}

// Commit validates the transaction's read-set (if tracked) against the
// backend's current state and, if it passes, applies the write-set
// atomically. On conflict the transaction moves to StateConflicted and
// its buffers are preserved for inspection or retry.
func (t *Txn) Commit(ctx context.Context, flush bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != StateActive {
		return fmt.Errorf("txn: commit on a %s transaction", t.state)
	}

	for _, r := range t.reads {
		cur, err := t.backend.Get(ctx, r.col, r.key)
		if err != nil {
			return err
		}
		if cur.CommitPoint != r.observedCommitPoint {
			t.state = StateConflicted
			return ErrConflict
		}
	}

	if len(t.writes) > 0 {
		writes := make([]backend.Write, 0, len(t.writes))
		for k, v := range t.writes {
			writes = append(writes, backend.Write{Collection: k.col, Key: k.key, Value: v})
		}
		if _, err := t.backend.CommitBatch(ctx, writes, flush); err != nil {
			return err
		}
	}

	t.state = StateCommitted
	t.closeSnapshotLocked()
	return nil
}

// Abort discards the transaction's buffers without applying them,
// walking away from work in progress.
func (t *Txn) Abort() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.writes = nil
	t.reads = nil
	t.state = StateGone
	t.closeSnapshotLocked()
}

// Free releases the transaction's buffers and snapshot. Commit leaves the
// write-set in place whatever its outcome; Free always clears it,
// regardless of what state the transaction ended in. Freeing a nil Txn
// is a no-op.
func (t *Txn) Free() {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.writes = nil
	t.reads = nil
	t.state = StateGone
	t.closeSnapshotLocked()
}

func (t *Txn) closeSnapshotLocked() {
	if t.snap != nil {
		_ = t.snap.Close()
		t.snap = nil
	}
}

// IsReadOnly reports whether the transaction has buffered no writes, for
// callers deciding whether a commit is even necessary.
func (t *Txn) IsReadOnly() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.writes) == 0
}
