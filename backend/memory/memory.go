// Copyright 2026 The UKV Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package memory implements the in-memory Storage Backend variant.
//
// It is grounded on the OPA in-memory store:
// the same rmu/wmu reader-writer-plus-single-writer locking discipline,
// the same atomic transaction-id counter, and the same "New returns a
// ready-to-use store" entry point — generalized from a single JSON
// document tree to per-collection flat int64-keyed maps, and made
// snapshot-capable via an immutable, atomically-swapped version record
// instead of mutating shared state in place.
package memory

import (
	"context"
	"encoding/binary"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tchap/go-patricia/v2/patricia"

	"github.com/ukvdb/ukv/backend"
	"github.com/ukvdb/ukv/collection"
	"github.com/ukvdb/ukv/internal/ukvlog"
)

// colData is one collection's data at a point in time. It is treated as
// immutable once published: CommitBatch builds a new colData (copying
// only the collections it touched) and atomically swaps the *version*
// that owns it, which is what makes Snapshot cheap and consistent.
type colData struct {
	values map[int64][]byte
	stamps map[int64]uint64
	// index is a patricia trie over big-endian-encoded, sign-flipped
	// key bytes. Scan visits every key in it, keeps those >= minKey,
	// and sorts them on each call.
	index *patricia.Trie
}

func newColData() *colData {
	return &colData{values: map[int64][]byte{}, stamps: map[int64]uint64{}, index: patricia.NewTrie()}
}

// clone returns a shallow copy of c's maps, safe for independent mutation
// by a concurrent commit.
func (c *colData) clone() *colData {
	n := newColData()
	for k, v := range c.values {
		n.values[k] = v
	}
	for k, s := range c.stamps {
		n.stamps[k] = s
	}
	c.index.Visit(func(prefix patricia.Prefix, item patricia.Item) error {
		n.index.Insert(prefix, item)
		return nil
	})
	return n
}

// version is one immutable snapshot of the whole store.
type version struct {
	cols  map[collection.ID]*colData
	point uint64
}

func emptyVersion() *version {
	return &version{cols: map[collection.ID]*colData{collection.Default: newColData()}}
}

// Store is the in-memory Backend implementation.
type Store struct {
	mu  sync.Mutex // serializes writers; readers go through cur atomically
	cur atomic.Pointer[version]

	cache *lru.Cache[cacheKey, []byte] // optional read-through value cache

	xid uint64

	log ukvlog.Logger
}

type cacheKey struct {
	col collection.ID
	key int64
}

// Opt configures a Store at construction.
type Opt func(*Store)

// WithCache enables a bounded read-through cache of up to entries values.
func WithCache(entries int) Opt {
	return func(s *Store) {
		if entries <= 0 {
			return
		}
		c, err := lru.New[cacheKey, []byte](entries)
		if err == nil {
			s.cache = c
		}
	}
}

// WithLogger attaches a logger; defaults to a no-op logger.
func WithLogger(l ukvlog.Logger) Opt {
	return func(s *Store) { s.log = l }
}

// New returns an empty in-memory Backend.
func New(opts ...Opt) *Store {
	s := &Store{log: ukvlog.NoOp()}
	s.cur.Store(emptyVersion())
	for _, o := range opts {
		o(s)
	}
	return s
}

func encodeKey(key int64) patricia.Prefix {
	var b [8]byte
	u := uint64(key) ^ (1 << 63) // flip sign bit so byte order == numeric order
	for i := 0; i < 8; i++ {
		b[7-i] = byte(u >> (8 * i))
	}
	return patricia.Prefix(b[:])
}

func decodeKey(p patricia.Prefix) int64 {
	var u uint64
	for i := 0; i < 8; i++ {
		u = u<<8 | uint64(p[i])
	}
	return int64(u ^ (1 << 63))
}

func (s *Store) Get(_ context.Context, col collection.ID, key int64) (backend.ReadResult, error) {
	if s.cache != nil {
		// Cached entries are the 8-byte big-endian commit point followed
		// by the value bytes.
		if v, ok := s.cache.Get(cacheKey{col, key}); ok {
			return backend.ReadResult{Value: v[8:], Found: true, CommitPoint: binary.BigEndian.Uint64(v[:8])}, nil
		}
	}
	v := s.cur.Load()
	cd, ok := v.cols[col]
	if !ok {
		return backend.ReadResult{}, nil
	}
	val, found := cd.values[key]
	if !found {
		return backend.ReadResult{}, nil
	}
	res := backend.ReadResult{Value: val, Found: true, CommitPoint: cd.stamps[key]}
	if s.cache != nil {
		entry := binary.BigEndian.AppendUint64(make([]byte, 0, 8+len(val)), res.CommitPoint)
		s.cache.Add(cacheKey{col, key}, append(entry, val...))
	}
	return res, nil
}

func (s *Store) CommitBatch(_ context.Context, writes []backend.Write, _ bool) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.cur.Load()
	point := old.point + 1

	touched := make(map[collection.ID]*colData, 4)
	newCols := make(map[collection.ID]*colData, len(old.cols))
	for id, cd := range old.cols {
		newCols[id] = cd
	}

	for _, w := range writes {
		cd, ok := touched[w.Collection]
		if !ok {
			base, exists := old.cols[w.Collection]
			if !exists {
				base = newColData()
			}
			cd = base.clone()
			touched[w.Collection] = cd
			newCols[w.Collection] = cd
		}
		if w.Value == nil {
			delete(cd.values, w.Key)
			delete(cd.stamps, w.Key)
			cd.index.Delete(encodeKey(w.Key))
		} else {
			cd.values[w.Key] = w.Value
			cd.stamps[w.Key] = point
			cd.index.Insert(encodeKey(w.Key), true)
		}
		if s.cache != nil {
			s.cache.Remove(cacheKey{w.Collection, w.Key})
		}
	}

	s.cur.Store(&version{cols: newCols, point: point})
	atomic.AddUint64(&s.xid, 1)
	return point, nil
}

func (s *Store) Scan(_ context.Context, col collection.ID, minKey int64, scanLength int, withLengths bool) (backend.ScanResult, error) {
	v := s.cur.Load()
	return scanVersion(v, col, minKey, scanLength, withLengths)
}

func scanVersion(v *version, col collection.ID, minKey int64, scanLength int, withLengths bool) (backend.ScanResult, error) {
	cd, ok := v.cols[col]
	if !ok || scanLength <= 0 {
		return backend.ScanResult{}, nil
	}
	var keys []int64
	cd.index.Visit(func(prefix patricia.Prefix, _ patricia.Item) error {
		k := decodeKey(prefix)
		if k >= minKey {
			keys = append(keys, k)
		}
		return nil
	})
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	if len(keys) > scanLength {
		keys = keys[:scanLength]
	}
	res := backend.ScanResult{Keys: keys}
	if withLengths {
		lens := make([]uint32, len(keys))
		for i, k := range keys {
			lens[i] = uint32(len(cd.values[k]))
		}
		res.Lengths = lens
	}
	return res, nil
}

func (s *Store) EstimateSize(_ context.Context, col collection.ID, minKey, maxKey int64) (backend.SizeEstimate, error) {
	v := s.cur.Load()
	cd, ok := v.cols[col]
	if !ok {
		return backend.SizeEstimate{}, nil
	}
	var count, bytes uint64
	for k, val := range cd.values {
		if k >= minKey && k <= maxKey {
			count++
			bytes += uint64(len(val))
		}
	}
	// In-memory storage gives exact answers; min == max == true value.
	// Per-entry overhead is estimated, not measured, hence the loose
	// memory bound.
	const perEntryOverhead = 48
	mem := bytes + count*perEntryOverhead
	return backend.SizeEstimate{
		MinCardinality: count, MaxCardinality: count,
		MinValueBytes: bytes, MaxValueBytes: bytes,
		MinMemoryBytes: mem, MaxMemoryBytes: mem + mem/10,
	}, nil
}

type snapshot struct{ v *version }

func (sn *snapshot) Get(_ context.Context, col collection.ID, key int64) (backend.ReadResult, error) {
	cd, ok := sn.v.cols[col]
	if !ok {
		return backend.ReadResult{}, nil
	}
	val, found := cd.values[key]
	if !found {
		return backend.ReadResult{}, nil
	}
	return backend.ReadResult{Value: val, Found: true, CommitPoint: cd.stamps[key]}, nil
}

func (sn *snapshot) Scan(_ context.Context, col collection.ID, minKey int64, scanLength int, withLengths bool) (backend.ScanResult, error) {
	return scanVersion(sn.v, col, minKey, scanLength, withLengths)
}

func (sn *snapshot) Close() error { return nil }

func (s *Store) Snapshot(context.Context) (backend.Snapshot, error) {
	return &snapshot{v: s.cur.Load()}, nil
}

func (s *Store) Control(_ context.Context, request string) (string, error) {
	switch request {
	case "clear":
		s.mu.Lock()
		v := s.cur.Load()
		nv := &version{cols: map[collection.ID]*colData{}, point: v.point + 1}
		for id := range v.cols {
			nv.cols[id] = newColData()
		}
		s.cur.Store(nv)
		s.mu.Unlock()
		if s.cache != nil {
			s.cache.Purge()
		}
		return "cleared", nil
	case "reset":
		s.mu.Lock()
		s.cur.Store(emptyVersion())
		s.mu.Unlock()
		if s.cache != nil {
			s.cache.Purge()
		}
		return "reset", nil
	case "compact":
		s.log.Debug("memory backend has nothing to compact")
		return "compaction not applicable to the memory backend", nil
	case "info":
		return "ukv memory backend", nil
	case "usage":
		v := s.cur.Load()
		var keys, bytes int
		for _, cd := range v.cols {
			keys += len(cd.values)
			for _, val := range cd.values {
				bytes += len(val)
			}
		}
		return fmt.Sprintf("keys=%d bytes=%d ram=%d disk=0", keys, bytes, bytes), nil
	default:
		return "", fmt.Errorf("memory backend: unrecognized control command %q", request)
	}
}

func (s *Store) CurrentCommitPoint() uint64 {
	return s.cur.Load().point
}

func (s *Store) RemoveCollection(_ context.Context, col collection.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.cur.Load()
	newCols := make(map[collection.ID]*colData, len(v.cols))
	for id, cd := range v.cols {
		if id != col {
			newCols[id] = cd
		}
	}
	s.cur.Store(&version{cols: newCols, point: v.point + 1})
	s.purgeCollectionFromCache(col)
	return nil
}

func (s *Store) ClearCollection(_ context.Context, col collection.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.cur.Load()
	newCols := make(map[collection.ID]*colData, len(v.cols))
	for id, cd := range v.cols {
		newCols[id] = cd
	}
	newCols[col] = newColData()
	s.cur.Store(&version{cols: newCols, point: v.point + 1})
	s.purgeCollectionFromCache(col)
	return nil
}

// purgeCollectionFromCache drops every cached entry belonging to col, so a
// Get immediately after a collection is removed or cleared can't return a
// value that no longer exists in the current version.
func (s *Store) purgeCollectionFromCache(col collection.ID) {
	if s.cache == nil {
		return
	}
	for _, k := range s.cache.Keys() {
		if k.col == col {
			s.cache.Remove(k)
		}
	}
}

func (s *Store) Close() error { return nil }
