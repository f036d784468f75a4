package badgerdb

import (
	"context"
	"testing"

	"github.com/ukvdb/ukv/backend"
	"github.com/ukvdb/ukv/collection"
	"github.com/ukvdb/ukv/internal/ukvlog"
)

func open(t *testing.T) *Store {
	t.Helper()
	s, err := New(context.Background(), ukvlog.NoOp(), nil, Options{Dir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestBadgerRoundTrip(t *testing.T) {
	s := open(t)
	ctx := context.Background()
	if _, err := s.CommitBatch(ctx, []backend.Write{{Collection: collection.Default, Key: 1, Value: []byte("a")}}, true); err != nil {
		t.Fatal(err)
	}
	res, err := s.Get(ctx, collection.Default, 1)
	if err != nil || !res.Found || string(res.Value) != "a" {
		t.Fatalf("got %+v err=%v", res, err)
	}
	if res.CommitPoint == 0 {
		t.Fatalf("expected a nonzero commit point on the read value")
	}
}

func TestBadgerDeleteThenMissing(t *testing.T) {
	s := open(t)
	ctx := context.Background()
	_, _ = s.CommitBatch(ctx, []backend.Write{{Collection: collection.Default, Key: 1, Value: []byte("a")}}, false)
	_, _ = s.CommitBatch(ctx, []backend.Write{{Collection: collection.Default, Key: 1, Value: nil}}, false)
	res, err := s.Get(ctx, collection.Default, 1)
	if err != nil || res.Found {
		t.Fatalf("expected missing after delete, got %+v", res)
	}
}

func TestBadgerScanAscendingBounded(t *testing.T) {
	s := open(t)
	ctx := context.Background()
	for _, k := range []int64{2, 5, 9, 11} {
		if _, err := s.CommitBatch(ctx, []backend.Write{{Collection: collection.Default, Key: k, Value: []byte("v")}}, false); err != nil {
			t.Fatal(err)
		}
	}
	res, err := s.Scan(ctx, collection.Default, 0, 3, false)
	if err != nil {
		t.Fatal(err)
	}
	want := []int64{2, 5, 9}
	if len(res.Keys) != len(want) {
		t.Fatalf("got %v want %v", res.Keys, want)
	}
	for i, k := range want {
		if res.Keys[i] != k {
			t.Fatalf("got %v want %v", res.Keys, want)
		}
	}
}

func TestBadgerNegativeKeysOrderCorrectly(t *testing.T) {
	s := open(t)
	ctx := context.Background()
	for _, k := range []int64{-5, -1, 0, 3} {
		if _, err := s.CommitBatch(ctx, []backend.Write{{Collection: collection.Default, Key: k, Value: []byte("v")}}, false); err != nil {
			t.Fatal(err)
		}
	}
	res, err := s.Scan(ctx, collection.Default, -5, 10, false)
	if err != nil {
		t.Fatal(err)
	}
	want := []int64{-5, -1, 0, 3}
	if len(res.Keys) != len(want) {
		t.Fatalf("got %v want %v", res.Keys, want)
	}
	for i, k := range want {
		if res.Keys[i] != k {
			t.Fatalf("got %v want %v", res.Keys, want)
		}
	}
}

func TestBadgerSnapshotStableAcrossConcurrentCommits(t *testing.T) {
	s := open(t)
	ctx := context.Background()
	_, _ = s.CommitBatch(ctx, []backend.Write{{Collection: collection.Default, Key: 10, Value: []byte("a")}}, false)

	snap, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer snap.Close()

	_, _ = s.CommitBatch(ctx, []backend.Write{{Collection: collection.Default, Key: 10, Value: []byte("b")}}, false)

	res, err := snap.Get(ctx, collection.Default, 10)
	if err != nil || string(res.Value) != "a" {
		t.Fatalf("expected snapshot to still see \"a\", got %+v err=%v", res, err)
	}
	live, _ := s.Get(ctx, collection.Default, 10)
	if string(live.Value) != "b" {
		t.Fatalf("expected live read to see \"b\", got %+v", live)
	}
}

func TestBadgerControlClearRemovesData(t *testing.T) {
	s := open(t)
	ctx := context.Background()
	_, _ = s.CommitBatch(ctx, []backend.Write{{Collection: collection.Default, Key: 1, Value: []byte("a")}}, false)
	if _, err := s.Control(ctx, "clear"); err != nil {
		t.Fatal(err)
	}
	res, _ := s.Get(ctx, collection.Default, 1)
	if res.Found {
		t.Fatalf("expected clear to remove data")
	}
}

func TestBadgerControlClearRemovesAllCollections(t *testing.T) {
	s := open(t)
	ctx := context.Background()
	reg := collection.New()
	colB := reg.Open("b", nil)

	_, _ = s.CommitBatch(ctx, []backend.Write{{Collection: collection.Default, Key: 1, Value: []byte("a")}}, false)
	_, _ = s.CommitBatch(ctx, []backend.Write{{Collection: colB, Key: 1, Value: []byte("b")}}, false)

	if _, err := s.Control(ctx, "clear"); err != nil {
		t.Fatal(err)
	}
	if res, _ := s.Get(ctx, collection.Default, 1); res.Found {
		t.Fatalf("expected clear to remove default collection's data")
	}
	if res, _ := s.Get(ctx, colB, 1); res.Found {
		t.Fatalf("expected clear to remove collection b's data")
	}
}

func TestBadgerControlUnknownCommand(t *testing.T) {
	s := open(t)
	if _, err := s.Control(context.Background(), "frobnicate"); err == nil {
		t.Fatalf("expected an unrecognized control command to error")
	}
}

func TestBadgerRemoveCollectionIsolated(t *testing.T) {
	s := open(t)
	ctx := context.Background()
	reg := collection.New()
	colB := reg.Open("b", nil)

	_, _ = s.CommitBatch(ctx, []backend.Write{{Collection: collection.Default, Key: 1, Value: []byte("a")}}, false)
	_, _ = s.CommitBatch(ctx, []backend.Write{{Collection: colB, Key: 1, Value: []byte("b")}}, false)

	if err := s.RemoveCollection(ctx, colB); err != nil {
		t.Fatal(err)
	}
	resB, _ := s.Get(ctx, colB, 1)
	if resB.Found {
		t.Fatalf("expected removed collection's data to be gone")
	}
	resDefault, _ := s.Get(ctx, collection.Default, 1)
	if !resDefault.Found {
		t.Fatalf("expected default collection's data to survive removing another collection")
	}
}
