// Copyright 2026 The UKV Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package badgerdb implements the persistent-local Storage Backend
// variant on top of github.com/dgraph-io/badger/v4.
//
// Grounded on a badger-backed storage.Store shape seen elsewhere in the
// Go ecosystem: the New(ctx, logger, prom, opts) constructor signature,
// a mutex serializing writers around badger's own transaction, and
// value-log GC exposed as a control command rather than a background-only
// concern.
package badgerdb

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"sync"
	"sync/atomic"

	badger "github.com/dgraph-io/badger/v4"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ukvdb/ukv/backend"
	"github.com/ukvdb/ukv/collection"
	"github.com/ukvdb/ukv/internal/ukvlog"
)

// Options configures a badgerdb-backed Store.
type Options struct {
	Dir         string // directory badger persists into
	CacheSize   int    // optional read-through value cache entry count; 0 disables it
	GCDiscard   float64
}

const defaultGCDiscardRatio = 0.5

// discardRatio returns Options.GCDiscard for the compact command's
// value-log GC, or defaultGCDiscardRatio when it is unset.
func (o Options) discardRatio() float64 {
	if o.GCDiscard <= 0 {
		return defaultGCDiscardRatio
	}
	return o.GCDiscard
}

// Store is the badger-backed Backend implementation.
type Store struct {
	db    *badger.DB
	xid   uint64
	mu    sync.Mutex // serializes writers, mirroring disk.go's wmu
	cache *lru.Cache[cacheKey, []byte]
	log   ukvlog.Logger
	opts  Options

	// commitTS tracks our own logical commit-point counter. Badger has
	// its own internal MVCC timestamps, but the conflict rule wants one
	// counter shared with the rest of the engine (including the
	// in-memory backend), so we keep it explicit here too rather than
	// exposing badger's ManagedDB timestamp directly.
	commitTS uint64
}

type cacheKey struct {
	col collection.ID
	key int64
}

// New opens (creating if necessary) a badger database at opts.Dir.
// prom, if non-nil, is where this backend would register its own
// metrics; collection/commit/conflict counters live in internal/metrics
// and are registered there instead. prom is accepted here so future
// backend-local gauges (e.g. LSM levels) have somewhere to register.
func New(_ context.Context, log ukvlog.Logger, _ prometheus.Registerer, opts Options) (*Store, error) {
	if log == nil {
		log = ukvlog.NoOp()
	}
	bopts := badger.DefaultOptions(opts.Dir)
	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("badgerdb: open %s: %w", opts.Dir, err)
	}
	s := &Store{db: db, log: log, opts: opts}
	if opts.CacheSize > 0 {
		if c, err := lru.New[cacheKey, []byte](opts.CacheSize); err == nil {
			s.cache = c
		}
	}
	return s, nil
}

// encodeKey lays out collection id and int64 key as a byte-lexicographic
// order matching numeric order, mirroring backend/memory's encodeKey.
func encodeKey(col collection.ID, key int64) []byte {
	b := make([]byte, 16)
	binary.BigEndian.PutUint64(b[:8], uint64(col))
	binary.BigEndian.PutUint64(b[8:], uint64(key)^(1<<63))
	return b
}

func decodeKey(b []byte) (collection.ID, int64) {
	col := collection.ID(binary.BigEndian.Uint64(b[:8]))
	key := int64(binary.BigEndian.Uint64(b[8:]) ^ (1 << 63))
	return col, key
}

// encodeValue prefixes v with the commit point that wrote it, so Get can
// report it for read-tracking without a second lookup.
func encodeValue(commitPoint uint64, v []byte) []byte {
	out := make([]byte, 8+len(v))
	binary.BigEndian.PutUint64(out, commitPoint)
	copy(out[8:], v)
	return out
}

func decodeValue(b []byte) (commitPoint uint64, v []byte) {
	return binary.BigEndian.Uint64(b[:8]), b[8:]
}

func (s *Store) Get(_ context.Context, col collection.ID, key int64) (backend.ReadResult, error) {
	ck := cacheKey{col, key}
	if s.cache != nil {
		// Cached entries keep the stored encoding: commit point, then value.
		if v, ok := s.cache.Get(ck); ok {
			cp, val := decodeValue(v)
			return backend.ReadResult{Value: val, Found: true, CommitPoint: cp}, nil
		}
	}
	var res backend.ReadResult
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(encodeKey(col, key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			cp, v := decodeValue(val)
			cpCopy := append([]byte(nil), v...)
			res = backend.ReadResult{Value: cpCopy, Found: true, CommitPoint: cp}
			return nil
		})
	})
	if err != nil {
		return backend.ReadResult{}, fmt.Errorf("badgerdb: get: %w", err)
	}
	if res.Found && s.cache != nil {
		s.cache.Add(ck, encodeValue(res.CommitPoint, res.Value))
	}
	return res, nil
}

func (s *Store) CommitBatch(_ context.Context, writes []backend.Write, flush bool) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	point := atomic.AddUint64(&s.commitTS, 1)
	err := s.db.Update(func(txn *badger.Txn) error {
		for _, w := range writes {
			k := encodeKey(w.Collection, w.Key)
			if w.Value == nil {
				if err := txn.Delete(k); err != nil {
					return err
				}
				continue
			}
			if err := txn.Set(k, encodeValue(point, w.Value)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("badgerdb: commit batch: %w", err)
	}
	if flush {
		if err := s.db.Sync(); err != nil {
			return 0, fmt.Errorf("badgerdb: flush: %w", err)
		}
	}
	if s.cache != nil {
		for _, w := range writes {
			s.cache.Remove(cacheKey{w.Collection, w.Key})
		}
	}
	atomic.AddUint64(&s.xid, 1)
	return point, nil
}

func (s *Store) Scan(_ context.Context, col collection.ID, minKey int64, scanLength int, withLengths bool) (backend.ScanResult, error) {
	if scanLength <= 0 {
		return backend.ScanResult{}, nil
	}
	var res backend.ScanResult
	err := s.db.View(func(txn *badger.Txn) error {
		opt := badger.DefaultIteratorOptions
		opt.PrefetchValues = withLengths
		it := txn.NewIterator(opt)
		defer it.Close()
		start := encodeKey(col, minKey)
		colPrefix := start[:8]
		for it.Seek(start); it.ValidForPrefix(colPrefix) && len(res.Keys) < scanLength; it.Next() {
			_, key := decodeKey(it.Item().KeyCopy(nil))
			res.Keys = append(res.Keys, key)
			if withLengths {
				var l uint32
				_ = it.Item().Value(func(val []byte) error {
					l = uint32(len(val) - 8)
					return nil
				})
				res.Lengths = append(res.Lengths, l)
			}
		}
		return nil
	})
	if err != nil {
		return backend.ScanResult{}, fmt.Errorf("badgerdb: scan: %w", err)
	}
	return res, nil
}

func (s *Store) EstimateSize(_ context.Context, col collection.ID, minKey, maxKey int64) (backend.SizeEstimate, error) {
	var count, bytes uint64
	err := s.db.View(func(txn *badger.Txn) error {
		opt := badger.DefaultIteratorOptions
		it := txn.NewIterator(opt)
		defer it.Close()
		start := encodeKey(col, minKey)
		colPrefix := start[:8]
		for it.Seek(start); it.ValidForPrefix(colPrefix); it.Next() {
			_, key := decodeKey(it.Item().KeyCopy(nil))
			if key > maxKey {
				break
			}
			count++
			bytes += uint64(it.Item().ValueSize()) - 8
		}
		return nil
	})
	if err != nil {
		return backend.SizeEstimate{}, fmt.Errorf("badgerdb: estimate size: %w", err)
	}
	lsm, vlog := s.db.Size()
	// Unlike the in-memory backend, persisted memory usage (lsm+vlog) is
	// shared across the whole DB, not just [minKey,maxKey]; report it as
	// a loose upper bound rather than a tight one.
	mem := uint64(lsm + vlog)
	return backend.SizeEstimate{
		MinCardinality: count, MaxCardinality: count,
		MinValueBytes: bytes, MaxValueBytes: bytes,
		MinMemoryBytes: 0, MaxMemoryBytes: mem,
	}, nil
}

// snapshot wraps a read-only badger transaction, which badger itself
// pins to a consistent MVCC read timestamp — true snapshot isolation,
// not an approximation.
type snapshot struct {
	txn *badger.Txn
}

func (sn *snapshot) Get(_ context.Context, col collection.ID, key int64) (backend.ReadResult, error) {
	item, err := sn.txn.Get(encodeKey(col, key))
	if err == badger.ErrKeyNotFound {
		return backend.ReadResult{}, nil
	}
	if err != nil {
		return backend.ReadResult{}, err
	}
	var res backend.ReadResult
	err = item.Value(func(val []byte) error {
		cp, v := decodeValue(val)
		res = backend.ReadResult{Value: append([]byte(nil), v...), Found: true, CommitPoint: cp}
		return nil
	})
	return res, err
}

func (sn *snapshot) Scan(_ context.Context, col collection.ID, minKey int64, scanLength int, withLengths bool) (backend.ScanResult, error) {
	if scanLength <= 0 {
		return backend.ScanResult{}, nil
	}
	var res backend.ScanResult
	opt := badger.DefaultIteratorOptions
	opt.PrefetchValues = withLengths
	it := sn.txn.NewIterator(opt)
	defer it.Close()
	start := encodeKey(col, minKey)
	colPrefix := start[:8]
	for it.Seek(start); it.ValidForPrefix(colPrefix) && len(res.Keys) < scanLength; it.Next() {
		_, key := decodeKey(it.Item().KeyCopy(nil))
		res.Keys = append(res.Keys, key)
		if withLengths {
			var l uint32
			_ = it.Item().Value(func(val []byte) error {
				l = uint32(len(val) - 8)
				return nil
			})
			res.Lengths = append(res.Lengths, l)
		}
	}
	return res, nil
}

func (sn *snapshot) Close() error {
	sn.txn.Discard()
	return nil
}

func (s *Store) Snapshot(context.Context) (backend.Snapshot, error) {
	return &snapshot{txn: s.db.NewTransaction(false)}, nil
}

func (s *Store) Control(_ context.Context, request string) (string, error) {
	switch request {
	case "clear":
		prefixes, err := s.collectionPrefixes()
		if err != nil {
			return "", fmt.Errorf("badgerdb: clear: %w", err)
		}
		// DropPrefix with zero prefixes is a documented no-op; an empty
		// database has nothing to clear, which is already the desired
		// outcome.
		if len(prefixes) > 0 {
			if err := s.db.DropPrefix(prefixes...); err != nil {
				return "", fmt.Errorf("badgerdb: clear: %w", err)
			}
		}
		if s.cache != nil {
			s.cache.Purge()
		}
		return "cleared", nil
	case "reset":
		if err := s.db.DropAll(); err != nil {
			return "", fmt.Errorf("badgerdb: reset: %w", err)
		}
		if s.cache != nil {
			s.cache.Purge()
		}
		return "reset", nil
	case "compact":
		err := s.db.RunValueLogGC(s.opts.discardRatio())
		if err != nil && err != badger.ErrNoRewrite {
			s.log.Warn("badgerdb: value log GC: %v", err)
			return "", fmt.Errorf("badgerdb: compact: %w", err)
		}
		return "value log gc requested", nil
	case "info":
		return fmt.Sprintf("ukv badgerdb backend dir=%s", s.opts.Dir), nil
	case "usage":
		lsm, vlog := s.db.Size()
		return fmt.Sprintf("lsm_bytes=%d vlog_bytes=%d", lsm, vlog), nil
	default:
		return "", fmt.Errorf("badgerdb backend: unrecognized control command %q", request)
	}
}

func (s *Store) CurrentCommitPoint() uint64 {
	return atomic.LoadUint64(&s.commitTS)
}

func (s *Store) RemoveCollection(_ context.Context, col collection.ID) error {
	return s.db.Update(func(txn *badger.Txn) error {
		opt := badger.DefaultIteratorOptions
		opt.PrefetchValues = false
		it := txn.NewIterator(opt)
		var toDelete [][]byte
		prefix := make([]byte, 8)
		binary.BigEndian.PutUint64(prefix, uint64(col))
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			toDelete = append(toDelete, it.Item().KeyCopy(nil))
		}
		it.Close()
		for _, k := range toDelete {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) ClearCollection(ctx context.Context, col collection.ID) error {
	return s.RemoveCollection(ctx, col)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// collectionPrefixes returns the distinct 8-byte collection-id prefixes
// currently present in the database, in key order. Badger's iterator
// already walks keys in byte order, so distinct collections' prefixes
// come out sorted and runs of keys sharing a collection's prefix are
// contiguous; bytes.Compare against the last prefix seen is enough to
// dedupe without a separate set.
func (s *Store) collectionPrefixes() ([][]byte, error) {
	var prefixes [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		opt := badger.DefaultIteratorOptions
		opt.PrefetchValues = false
		it := txn.NewIterator(opt)
		defer it.Close()
		var last []byte
		for it.Rewind(); it.Valid(); it.Next() {
			prefix := it.Item().Key()[:8]
			if last != nil && bytes.Compare(last, prefix) == 0 {
				continue
			}
			last = append([]byte(nil), prefix...)
			prefixes = append(prefixes, last)
		}
		return nil
	})
	return prefixes, err
}
