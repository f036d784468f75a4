package ukv

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ukvdb/ukv/arena"
	"github.com/ukvdb/ukv/backend"
	"github.com/ukvdb/ukv/collection"
	"github.com/ukvdb/ukv/strided"
)

// maxReadConcurrency bounds how many per-task backend calls a single
// BatchRead or BatchScan fans out at once.
const maxReadConcurrency = 8

// BatchRead performs tasksCount point reads, packing results into a, a
// caller-owned arena.Arena reset at the start of this call. When t is
// non-nil, reads go through the transaction (read-your-writes, plus
// read-tracking if the transaction was opened with it). lengthsOnly
// skips copying value bytes into the tape, leaving only the length
// header populated.
func (db *DB) BatchRead(
	ctx context.Context,
	t *Txn,
	a *arena.Arena,
	tasksCount int,
	collections strided.Vector[collection.ID],
	keys strided.Vector[int64],
	lengthsOnly bool,
) (arena.Tape, error) {
	if keys.IsNull() {
		return arena.Tape{}, newError(KindUsage, "BatchRead", errNullRequiredArg("keys"))
	}
	if keys.ZeroStrideOnRequired() {
		return arena.Tape{}, newError(KindUsage, "BatchRead", errBroadcastRequiredArg("keys"))
	}

	start := time.Now()
	defer func() { db.metrics.ObserveRead(time.Since(start)) }()

	ctx, span := tracer.Start(ctx, "ukv.BatchRead")
	defer span.End()

	results := make([]backend.ReadResult, tasksCount)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxReadConcurrency)
	for i := 0; i < tasksCount; i++ {
		i := i
		col := collection.Default
		if !collections.IsNull() {
			col = collections.At(i)
		}
		key := keys.At(i)
		g.Go(func() error {
			var (
				res backend.ReadResult
				err error
			)
			if t != nil {
				res, err = t.Read(gctx, col, key)
			} else {
				res, err = db.backend.Get(gctx, col, key)
			}
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return arena.Tape{}, newError(KindIO, "BatchRead", err)
	}

	w := arena.NewTapeWriter(a, tasksCount)
	for i, res := range results {
		switch {
		case !res.Found:
			w.PutMissing(i)
		case lengthsOnly:
			w.PutLengthOnly(i, uint32(len(res.Value)))
		default:
			w.PutValue(i, res.Value)
		}
	}
	return arena.ReadTape(a.Bytes(), tasksCount), nil
}
