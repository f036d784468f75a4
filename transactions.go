package ukv

import (
	"context"
	"errors"

	"github.com/ukvdb/ukv/txn"
)

// Txn is one transaction handle, obtained from DB.TxnBegin.
type Txn = txn.Txn

// TxnOptions configures a TxnBegin call: whether to capture a snapshot
// for isolated reads, and whether to track reads for OCC validation at
// commit.
type TxnOptions = txn.Options

// TxnState is one node of a transaction handle's lifecycle.
type TxnState = txn.State

// ErrConflict is returned by Txn.Commit when OCC validation fails at
// commit time.
var ErrConflict = txn.ErrConflict

// TxnBegin starts (or, if existing is non-nil, resets in place for
// reuse) a transaction. gen == 0 asks the engine to assign a generation;
// a caller-supplied non-zero gen must be unique for the life of this DB.
func (db *DB) TxnBegin(ctx context.Context, existing *Txn, gen uint64, opts TxnOptions) (*Txn, error) {
	t, err := db.txns.Begin(ctx, existing, gen, opts)
	if err != nil {
		return nil, newError(KindUsage, "TxnBegin", err)
	}
	return t, nil
}

// TxnCommit validates t's read-set (if tracked) and applies its buffered
// writes. A conflict surfaces as a *Error with Kind KindConflict whose
// Err still unwraps to ErrConflict, so callers can match on either.
func (db *DB) TxnCommit(ctx context.Context, t *Txn, flush bool) error {
	err := t.Commit(ctx, flush)
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrConflict) {
		db.metrics.ObserveConflict()
		return newError(KindConflict, "TxnCommit", err)
	}
	return newError(KindIO, "TxnCommit", err)
}
