package remote

import (
	"context"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"github.com/ukvdb/ukv/backend"
	"github.com/ukvdb/ukv/backend/memory"
	"github.com/ukvdb/ukv/collection"
)

func startLoopback(t *testing.T, be *memory.Store) *Client {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	gs := grpc.NewServer()
	NewServer(be).Register(gs)
	go func() {
		_ = gs.Serve(lis)
	}()
	t.Cleanup(gs.Stop)

	conn, err := grpc.NewClient("passthrough:bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(codecName)),
	)
	if err != nil {
		t.Fatalf("dial bufconn: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return &Client{conn: conn}
}

func TestRemoteGetAndCommitBatchRoundTrip(t *testing.T) {
	ctx := context.Background()
	be := memory.New()
	c := startLoopback(t, be)

	point, err := c.CommitBatch(ctx, oneWrite(collection.Default, 7, []byte("hi")), true)
	if err != nil {
		t.Fatalf("CommitBatch: %v", err)
	}
	if point == 0 {
		t.Fatalf("expected a nonzero commit point")
	}

	res, err := c.Get(ctx, collection.Default, 7)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !res.Found || string(res.Value) != "hi" {
		t.Fatalf("got %+v", res)
	}
}

func TestRemoteScanReturnsAscendingKeys(t *testing.T) {
	ctx := context.Background()
	be := memory.New()
	c := startLoopback(t, be)

	writes := append(oneWrite(collection.Default, 1, []byte("a")), oneWrite(collection.Default, 2, []byte("b"))...)
	if _, err := c.CommitBatch(ctx, writes, true); err != nil {
		t.Fatalf("CommitBatch: %v", err)
	}

	res, err := c.Scan(ctx, collection.Default, 0, 10, false)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(res.Keys) != 2 || res.Keys[0] != 1 || res.Keys[1] != 2 {
		t.Fatalf("got %v", res.Keys)
	}
}

func TestRemoteSnapshotIsStableAcrossLaterCommits(t *testing.T) {
	ctx := context.Background()
	be := memory.New()
	c := startLoopback(t, be)

	if _, err := c.CommitBatch(ctx, oneWrite(collection.Default, 3, []byte("v1")), true); err != nil {
		t.Fatalf("seed: %v", err)
	}
	snap, err := c.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	defer snap.Close()

	if _, err := c.CommitBatch(ctx, oneWrite(collection.Default, 3, []byte("v2")), true); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	res, err := snap.Get(ctx, collection.Default, 3)
	if err != nil {
		t.Fatalf("snapshot Get: %v", err)
	}
	if string(res.Value) != "v1" {
		t.Fatalf("snapshot observed a later write: got %q", res.Value)
	}
}

func TestRemoteControlInfoRoundTrip(t *testing.T) {
	ctx := context.Background()
	be := memory.New()
	c := startLoopback(t, be)

	if _, err := c.Control(ctx, "info"); err != nil {
		t.Fatalf("Control: %v", err)
	}
}

// oneWrite is a small literal-builder so tests above read as one-liners.
func oneWrite(col collection.ID, key int64, value []byte) []backend.Write {
	return []backend.Write{{Collection: col, Key: key, Value: value}}
}
