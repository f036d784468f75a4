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

// BatchScan performs tasksCount independent, paginated range scans, each
// returning up to its own scanLength ascending keys >= its own minKey.
// Per-task key counts are returned alongside the shared tape so callers
// can slice out task i's keys at
// sum(counts[:i])..sum(counts[:i])+counts[i]. Ordering within one task is
// a consistent read of the store at a point between call entry and
// return; consistency across tasks, or across repeated calls outside a
// snapshot transaction, is not guaranteed.
func (db *DB) BatchScan(
	ctx context.Context,
	t *Txn,
	a *arena.Arena,
	tasksCount int,
	collections strided.Vector[collection.ID],
	minKeys strided.Vector[int64],
	scanLengths strided.Vector[int],
	withLengths bool,
) (counts []int, tape arena.ScanTape, err error) {
	if minKeys.IsNull() {
		return nil, arena.ScanTape{}, newError(KindUsage, "BatchScan", errNullRequiredArg("minKeys"))
	}
	if minKeys.ZeroStrideOnRequired() {
		return nil, arena.ScanTape{}, newError(KindUsage, "BatchScan", errBroadcastRequiredArg("minKeys"))
	}
	if scanLengths.IsNull() {
		return nil, arena.ScanTape{}, newError(KindUsage, "BatchScan", errNullRequiredArg("scanLengths"))
	}

	start := time.Now()
	defer func() { db.metrics.ObserveScan(time.Since(start)) }()

	ctx, span := tracer.Start(ctx, "ukv.BatchScan")
	defer span.End()

	results := make([]backend.ScanResult, tasksCount)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxReadConcurrency)
	for i := 0; i < tasksCount; i++ {
		i := i
		col := collection.Default
		if !collections.IsNull() {
			col = collections.At(i)
		}
		minKey := minKeys.At(i)
		length := scanLengths.At(i)
		g.Go(func() error {
			var (
				res backend.ScanResult
				err error
			)
			if t != nil {
				res, err = t.Scan(gctx, col, minKey, length, withLengths)
			} else {
				res, err = db.backend.Scan(gctx, col, minKey, length, withLengths)
			}
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, arena.ScanTape{}, newError(KindIO, "BatchScan", err)
	}

	total := 0
	counts = make([]int, tasksCount)
	for i, res := range results {
		counts[i] = len(res.Keys)
		total += len(res.Keys)
	}

	w := arena.NewScanTapeWriter(a, withLengths)
	for _, res := range results {
		for j, key := range res.Keys {
			var length uint32
			if withLengths {
				length = res.Lengths[j]
			}
			w.PutKey(key, length)
		}
	}

	return counts, arena.ReadScanTape(a.Bytes(), total, withLengths), nil
}
