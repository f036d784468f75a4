package memory

import (
	"context"
	"testing"

	"github.com/ukvdb/ukv/backend"
	"github.com/ukvdb/ukv/collection"
)

func TestRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()
	if _, err := s.CommitBatch(ctx, []backend.Write{{Collection: collection.Default, Key: 1, Value: []byte("a")}}, false); err != nil {
		t.Fatal(err)
	}
	res, err := s.Get(ctx, collection.Default, 1)
	if err != nil || !res.Found || string(res.Value) != "a" {
		t.Fatalf("got %+v err=%v", res, err)
	}
}

func TestDeleteThenMissing(t *testing.T) {
	s := New()
	ctx := context.Background()
	_, _ = s.CommitBatch(ctx, []backend.Write{{Collection: collection.Default, Key: 1, Value: []byte("a")}}, false)
	_, _ = s.CommitBatch(ctx, []backend.Write{{Collection: collection.Default, Key: 1, Value: nil}}, false)
	res, err := s.Get(ctx, collection.Default, 1)
	if err != nil || res.Found {
		t.Fatalf("expected missing after delete, got %+v", res)
	}
}

func TestEmptyVsMissing(t *testing.T) {
	s := New()
	ctx := context.Background()
	_, _ = s.CommitBatch(ctx, []backend.Write{{Collection: collection.Default, Key: 1, Value: []byte{}}}, false)
	res, err := s.Get(ctx, collection.Default, 1)
	if err != nil || !res.Found || len(res.Value) != 0 {
		t.Fatalf("expected present empty value, got %+v", res)
	}
}

func TestScanAscendingBounded(t *testing.T) {
	s := New()
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

func TestSnapshotStableAcrossConcurrentCommits(t *testing.T) {
	s := New()
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

func TestSizeEstimateBounds(t *testing.T) {
	s := New()
	ctx := context.Background()
	for _, k := range []int64{1, 2, 3} {
		_, _ = s.CommitBatch(ctx, []backend.Write{{Collection: collection.Default, Key: k, Value: []byte("xx")}}, false)
	}
	est, err := s.EstimateSize(ctx, collection.Default, 0, 100)
	if err != nil {
		t.Fatal(err)
	}
	if est.MinCardinality > 3 || est.MaxCardinality < 3 {
		t.Fatalf("expected cardinality bounds to bracket 3, got %+v", est)
	}
}

func TestControlClearRemovesData(t *testing.T) {
	s := New()
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

// With a read-through cache enabled, removing or clearing a collection
// must also purge its cached entries, or a Get right after can still
// return the stale cached value instead of Found: false.
func TestRemoveCollectionPurgesCache(t *testing.T) {
	s := New(WithCache(16))
	ctx := context.Background()
	reg := collection.New()
	col := reg.Open("users", nil)

	if _, err := s.CommitBatch(ctx, []backend.Write{{Collection: col, Key: 7, Value: []byte("v")}}, false); err != nil {
		t.Fatal(err)
	}
	if res, err := s.Get(ctx, col, 7); err != nil || !res.Found {
		t.Fatalf("expected seed write to be readable and cached, got %+v err=%v", res, err)
	}

	if err := s.RemoveCollection(ctx, col); err != nil {
		t.Fatal(err)
	}
	res, err := s.Get(ctx, col, 7)
	if err != nil || res.Found {
		t.Fatalf("expected missing after collection removal, got %+v err=%v", res, err)
	}
}

func TestClearCollectionPurgesCache(t *testing.T) {
	s := New(WithCache(16))
	ctx := context.Background()
	reg := collection.New()
	col := reg.Open("users", nil)

	if _, err := s.CommitBatch(ctx, []backend.Write{{Collection: col, Key: 7, Value: []byte("v")}}, false); err != nil {
		t.Fatal(err)
	}
	if res, err := s.Get(ctx, col, 7); err != nil || !res.Found {
		t.Fatalf("expected seed write to be readable and cached, got %+v err=%v", res, err)
	}

	if err := s.ClearCollection(ctx, col); err != nil {
		t.Fatal(err)
	}
	res, err := s.Get(ctx, col, 7)
	if err != nil || res.Found {
		t.Fatalf("expected missing after collection clear, got %+v err=%v", res, err)
	}
}
