package ukv

import (
	"context"
	"testing"

	"github.com/ukvdb/ukv/arena"
	"github.com/ukvdb/ukv/collection"
	"github.com/ukvdb/ukv/strided"
)

func openMemory(t *testing.T) *DB {
	t.Helper()
	db, err := Open("")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// A. write(k,v) then read(k) returns v.
func TestBatchWriteThenReadRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := openMemory(t)

	keys := []int64{1}
	values := [][]byte{[]byte("hello")}
	if err := db.BatchWrite(ctx, nil, 1, strided.Empty[collection.ID](), strided.Of(keys), strided.Of(values), true); err != nil {
		t.Fatalf("BatchWrite: %v", err)
	}

	a := arena.New()
	tape, err := db.BatchRead(ctx, nil, a, 1, strided.Empty[collection.ID](), strided.Of(keys), false)
	if err != nil {
		t.Fatalf("BatchRead: %v", err)
	}
	v, ok := tape.Value(0)
	if !ok || string(v) != "hello" {
		t.Fatalf("got %q ok=%v", v, ok)
	}
}

// B. write(k,v) then write(k,nil) (delete) then read(k) returns missing.
func TestBatchWriteDeleteThenMissing(t *testing.T) {
	ctx := context.Background()
	db := openMemory(t)

	keys := []int64{1}
	if err := db.BatchWrite(ctx, nil, 1, strided.Empty[collection.ID](), strided.Of(keys), strided.Of([][]byte{[]byte("v")}), true); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := db.BatchWrite(ctx, nil, 1, strided.Empty[collection.ID](), strided.Of(keys), strided.Of([][]byte{nil}), true); err != nil {
		t.Fatalf("delete: %v", err)
	}

	a := arena.New()
	tape, err := db.BatchRead(ctx, nil, a, 1, strided.Empty[collection.ID](), strided.Of(keys), false)
	if err != nil {
		t.Fatalf("BatchRead: %v", err)
	}
	if _, ok := tape.Value(0); ok {
		t.Fatalf("expected deleted key to be missing")
	}
}

// C. write(k, []byte{}) then read(k) returns present, zero-length, distinct from missing.
func TestBatchWriteEmptyValueDistinctFromMissing(t *testing.T) {
	ctx := context.Background()
	db := openMemory(t)

	keys := []int64{1}
	if err := db.BatchWrite(ctx, nil, 1, strided.Empty[collection.ID](), strided.Of(keys), strided.Of([][]byte{{}}), true); err != nil {
		t.Fatalf("write: %v", err)
	}

	a := arena.New()
	tape, err := db.BatchRead(ctx, nil, a, 1, strided.Empty[collection.ID](), strided.Of(keys), false)
	if err != nil {
		t.Fatalf("BatchRead: %v", err)
	}
	v, ok := tape.Value(0)
	if !ok || len(v) != 0 {
		t.Fatalf("expected present empty value, got %q ok=%v", v, ok)
	}
}

// D. broadcasting a single collection/value across many keys.
func TestBatchWriteBroadcastCollection(t *testing.T) {
	ctx := context.Background()
	db := openMemory(t)

	col := db.CollectionOpen("widgets", nil)
	keys := []int64{1, 2, 3}
	value := []byte("same")
	cols := strided.Broadcast(col, len(keys))
	values := strided.Broadcast(value, len(keys))
	if err := db.BatchWrite(ctx, nil, len(keys), cols, strided.Of(keys), values, true); err != nil {
		t.Fatalf("BatchWrite: %v", err)
	}

	a := arena.New()
	tape, err := db.BatchRead(ctx, nil, a, len(keys), cols, strided.Of(keys), false)
	if err != nil {
		t.Fatalf("BatchRead: %v", err)
	}
	for i := range keys {
		v, ok := tape.Value(i)
		if !ok || string(v) != "same" {
			t.Fatalf("task %d: got %q ok=%v", i, v, ok)
		}
	}
}

// E. a whole batch of writes applied in one call: every task's value reads back afterwards.
func TestBatchWriteAppliesAllOrNothingSemantically(t *testing.T) {
	ctx := context.Background()
	db := openMemory(t)

	keys := []int64{1, 2, 3}
	values := [][]byte{[]byte("a"), []byte("b"), []byte("c")}
	if err := db.BatchWrite(ctx, nil, 3, strided.Empty[collection.ID](), strided.Of(keys), strided.Of(values), true); err != nil {
		t.Fatalf("BatchWrite: %v", err)
	}

	a := arena.New()
	tape, err := db.BatchRead(ctx, nil, a, 3, strided.Empty[collection.ID](), strided.Of(keys), false)
	if err != nil {
		t.Fatalf("BatchRead: %v", err)
	}
	for i, want := range values {
		v, ok := tape.Value(i)
		if !ok || string(v) != string(want) {
			t.Fatalf("task %d: got %q want %q", i, v, want)
		}
	}
}

// F. scan(min_key=0, scan_length=3) over keys {2,5,9,11} returns [2,5,9].
func TestBatchScanReturnsAscendingBoundedKeys(t *testing.T) {
	ctx := context.Background()
	db := openMemory(t)

	keys := []int64{2, 5, 9, 11}
	values := make([][]byte, len(keys))
	for i := range values {
		values[i] = []byte("v")
	}
	if err := db.BatchWrite(ctx, nil, len(keys), strided.Empty[collection.ID](), strided.Of(keys), strided.Of(values), true); err != nil {
		t.Fatalf("BatchWrite: %v", err)
	}

	a := arena.New()
	counts, tape, err := db.BatchScan(ctx, nil, a, 1,
		strided.Empty[collection.ID](),
		strided.Of([]int64{0}),
		strided.Of([]int{3}),
		false,
	)
	if err != nil {
		t.Fatalf("BatchScan: %v", err)
	}
	if len(counts) != 1 || counts[0] != 3 {
		t.Fatalf("expected 3 keys in task 0, got counts=%v", counts)
	}
	want := []int64{2, 5, 9}
	for i, k := range want {
		if tape.Keys[i] != k {
			t.Fatalf("key %d: got %d want %d", i, tape.Keys[i], k)
		}
	}
}

func TestBatchSizeReturnsBoundsPerTask(t *testing.T) {
	ctx := context.Background()
	db := openMemory(t)

	keys := []int64{1, 2, 3}
	values := [][]byte{[]byte("a"), []byte("bb"), []byte("ccc")}
	if err := db.BatchWrite(ctx, nil, 3, strided.Empty[collection.ID](), strided.Of(keys), strided.Of(values), true); err != nil {
		t.Fatalf("BatchWrite: %v", err)
	}

	ests, err := db.BatchSize(ctx, 1, strided.Empty[collection.ID](), strided.Of([]int64{0}), strided.Of([]int64{10}))
	if err != nil {
		t.Fatalf("BatchSize: %v", err)
	}
	if len(ests) != 1 {
		t.Fatalf("expected one estimate, got %d", len(ests))
	}
	if ests[0].MaxCardinality < ests[0].MinCardinality {
		t.Fatalf("max cardinality below min: %+v", ests[0])
	}
}

func TestBatchWriteRejectsNullKeys(t *testing.T) {
	ctx := context.Background()
	db := openMemory(t)

	err := db.BatchWrite(ctx, nil, 1, strided.Empty[collection.ID](), strided.Empty[int64](), strided.Empty[[]byte](), true)
	if err == nil {
		t.Fatalf("expected a usage error for a null required keys vector")
	}
}
