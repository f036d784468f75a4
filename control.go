package ukv

import (
	"context"
	"math"

	"github.com/ukvdb/ukv/control"
)

// Control executes one control-channel command against the open DB:
// clear, reset, compact, info, usage, or the supplemental stats verb
// that aggregates a size estimate across every collection.
func (db *DB) Control(ctx context.Context, request string) (string, error) {
	if !control.Recognized(request) {
		return "", newError(KindUsage, "Control", errUnknownCommand(request))
	}

	if request == control.Stats {
		ids := db.registry.IDs()
		var total control.SizeEstimate
		for _, id := range ids {
			est, err := db.backend.EstimateSize(ctx, id, math.MinInt64, math.MaxInt64)
			if err != nil {
				return "", newError(KindIO, "Control", err)
			}
			total.MinCardinality += est.MinCardinality
			total.MaxCardinality += est.MaxCardinality
			total.MinValueBytes += est.MinValueBytes
			total.MaxValueBytes += est.MaxValueBytes
			total.MinMemoryBytes += est.MinMemoryBytes
			total.MaxMemoryBytes += est.MaxMemoryBytes
		}
		return control.FormatStats(len(ids), total), nil
	}

	resp, err := db.backend.Control(ctx, request)
	if err != nil {
		return "", newError(KindUnsupported, "Control", err)
	}
	if request == control.Reset {
		db.registry.Reset()
	}
	return resp, nil
}
