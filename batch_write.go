package ukv

import (
	"context"
	"time"

	"github.com/ukvdb/ukv/backend"
	"github.com/ukvdb/ukv/collection"
	"github.com/ukvdb/ukv/strided"
)

// BatchWrite applies tasksCount (collection, key, value) writes. A null
// value (strided.Vector.IsNull per-task isn't representable; callers
// signal a delete with a nil []byte at that index) deletes the key.
// collections may be a null vector, defaulting every task to
// DefaultCollection. When t is non-nil the writes are buffered into the
// transaction instead of applied immediately; otherwise they commit
// atomically against the live store.
func (db *DB) BatchWrite(
	ctx context.Context,
	t *Txn,
	tasksCount int,
	collections strided.Vector[collection.ID],
	keys strided.Vector[int64],
	values strided.Vector[[]byte],
	flush bool,
) error {
	if keys.IsNull() {
		return newError(KindUsage, "BatchWrite", errNullRequiredArg("keys"))
	}
	if keys.ZeroStrideOnRequired() {
		return newError(KindUsage, "BatchWrite", errBroadcastRequiredArg("keys"))
	}

	start := time.Now()
	defer func() { db.metrics.ObserveWrite(time.Since(start)) }()

	ctx, span := tracer.Start(ctx, "ukv.BatchWrite")
	defer span.End()

	if t != nil {
		for i := 0; i < tasksCount; i++ {
			col := collection.Default
			if !collections.IsNull() {
				col = collections.At(i)
			}
			if err := t.Write(col, keys.At(i), taskValue(values, i)); err != nil {
				return newError(KindUsage, "BatchWrite", err)
			}
		}
		return nil
	}

	writes := make([]backend.Write, tasksCount)
	for i := 0; i < tasksCount; i++ {
		col := collection.Default
		if !collections.IsNull() {
			col = collections.At(i)
		}
		writes[i] = backend.Write{Collection: col, Key: keys.At(i), Value: taskValue(values, i)}
	}

	if _, err := db.backend.CommitBatch(ctx, writes, flush); err != nil {
		return newError(KindIO, "BatchWrite", err)
	}
	db.metrics.ObserveCommit()
	return nil
}

func taskValue(values strided.Vector[[]byte], i int) []byte {
	if values.IsNull() {
		return nil
	}
	return values.At(i)
}
