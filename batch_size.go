package ukv

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ukvdb/ukv/backend"
	"github.com/ukvdb/ukv/collection"
	"github.com/ukvdb/ukv/strided"
)

// BatchSize returns, per task, loose bounds on cardinality, value bytes,
// and memory usage for keys in [minKeys[i], maxKeys[i]]. Results are
// small fixed-size tuples, not variable-length data, so they're returned
// directly rather than packed into an arena tape.
func (db *DB) BatchSize(
	ctx context.Context,
	tasksCount int,
	collections strided.Vector[collection.ID],
	minKeys strided.Vector[int64],
	maxKeys strided.Vector[int64],
) ([]backend.SizeEstimate, error) {
	if minKeys.IsNull() || maxKeys.IsNull() {
		return nil, newError(KindUsage, "BatchSize", errNullRequiredArg("minKeys/maxKeys"))
	}

	ctx, span := tracer.Start(ctx, "ukv.BatchSize")
	defer span.End()

	results := make([]backend.SizeEstimate, tasksCount)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxReadConcurrency)
	for i := 0; i < tasksCount; i++ {
		i := i
		col := collection.Default
		if !collections.IsNull() {
			col = collections.At(i)
		}
		minKey, maxKey := minKeys.At(i), maxKeys.At(i)
		g.Go(func() error {
			est, err := db.backend.EstimateSize(gctx, col, minKey, maxKey)
			if err != nil {
				return err
			}
			results[i] = est
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, newError(KindIO, "BatchSize", err)
	}
	return results, nil
}
