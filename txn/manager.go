package txn

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/ukvdb/ukv/backend"
)

// Manager begins, tracks, and retires transactions for one DB. It is the
// only place generation numbers are assigned or validated for uniqueness:
// a caller-supplied generation must be unique per DB per session.
type Manager struct {
	backend backend.Backend
	mu      sync.Mutex
	seenGen map[uint64]bool
	autoGen uint64
}

// NewManager returns a Manager driving transactions against b.
func NewManager(b backend.Backend) *Manager {
	return &Manager{backend: b, seenGen: make(map[uint64]bool)}
}

// Begin starts (or, if existing is non-nil, resets) a transaction. gen ==
// 0 asks the engine to assign a generation; a non-zero gen is used as
// given and must not collide with a generation still known to the
// manager. Passing the same *Txn back in as existing resets a live
// handle in place for reuse instead of allocating a new one.
func (m *Manager) Begin(ctx context.Context, existing *Txn, gen uint64, opts Options) (*Txn, error) {
	m.mu.Lock()
	if gen == 0 {
		gen = atomic.AddUint64(&m.autoGen, 1)
		// Generation numbers share one namespace with caller-supplied
		// ones; skip any a caller already claimed.
		for m.seenGen[gen] {
			gen = atomic.AddUint64(&m.autoGen, 1)
		}
	} else if m.seenGen[gen] && (existing == nil || existing.gen != gen) {
		m.mu.Unlock()
		return nil, fmt.Errorf("txn: generation %d already in use this session", gen)
	}
	m.seenGen[gen] = true
	m.mu.Unlock()

	t := existing
	if t == nil {
		t = &Txn{backend: m.backend}
	}

	t.mu.Lock()
	t.gen = gen
	t.state = StateActive
	t.opts = opts
	t.writes = nil
	t.reads = nil
	t.corr = uuid.New()
	if t.snap != nil {
		_ = t.snap.Close()
		t.snap = nil
	}
	t.mu.Unlock()

	if opts.Snapshot {
		snap, err := m.backend.Snapshot(ctx)
		if err != nil {
			return nil, err
		}
		t.mu.Lock()
		t.snap = snap
		t.mu.Unlock()
	}

	return t, nil
}
