package remote

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"github.com/ukvdb/ukv/backend"
	"github.com/ukvdb/ukv/collection"
)

// Options configures a Client's connection and optional request shaping.
type Options struct {
	// RateLimit caps outgoing requests per second. Zero disables limiting.
	RateLimit rate.Limit
	// Burst is the limiter's burst size; ignored when RateLimit is zero.
	Burst int
}

// Client implements backend.Backend by forwarding every call over grpc to
// a Server, so a process can front a memory or badgerdb store it doesn't
// hold open itself.
type Client struct {
	conn    *grpc.ClientConn
	limiter *rate.Limiter
}

// Dial connects to a remote backend Server at target.
func Dial(target string, opts Options) (*Client, error) {
	conn, err := grpc.NewClient(target,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(codecName)),
	)
	if err != nil {
		return nil, fmt.Errorf("remote: dial %s: %w", target, err)
	}
	c := &Client{conn: conn}
	if opts.RateLimit > 0 {
		c.limiter = rate.NewLimiter(opts.RateLimit, opts.Burst)
	}
	return c, nil
}

// Close tears down the underlying connection.
func (c *Client) Close() error { return c.conn.Close() }

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

// correlate stamps ctx with a per-request id, so server-side logs can be
// joined back to a particular client call.
func correlate(ctx context.Context) context.Context {
	return metadata.AppendToOutgoingContext(ctx, "x-ukv-request-id", uuid.NewString())
}

func invoke[Req any, Resp any](ctx context.Context, c *Client, method string, req *Req) (*Resp, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	ctx = correlate(ctx)
	resp := new(Resp)
	if err := c.conn.Invoke(ctx, "/"+serviceName+"/"+method, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) Get(ctx context.Context, col collection.ID, key int64) (backend.ReadResult, error) {
	resp, err := invoke[GetRequest, GetResponse](ctx, c, "Get", &GetRequest{Collection: col, Key: key})
	if err != nil {
		return backend.ReadResult{}, err
	}
	return backend.ReadResult{Value: resp.Value, CommitPoint: resp.CommitPoint, Found: resp.Found}, nil
}

func (c *Client) CommitBatch(ctx context.Context, writes []backend.Write, flush bool) (uint64, error) {
	msgs := make([]WriteMsg, len(writes))
	for i, w := range writes {
		msgs[i] = WriteMsg{Collection: w.Collection, Key: w.Key, Value: w.Value}
	}
	resp, err := invoke[CommitBatchRequest, CommitBatchResponse](ctx, c, "CommitBatch", &CommitBatchRequest{Writes: msgs, Flush: flush})
	if err != nil {
		return 0, err
	}
	return resp.CommitPoint, nil
}

func (c *Client) Scan(ctx context.Context, col collection.ID, minKey int64, scanLength int, withLengths bool) (backend.ScanResult, error) {
	resp, err := invoke[ScanRequest, ScanResponse](ctx, c, "Scan", &ScanRequest{
		Collection: col, MinKey: minKey, ScanLength: scanLength, WithLengths: withLengths,
	})
	if err != nil {
		return backend.ScanResult{}, err
	}
	return backend.ScanResult{Keys: resp.Keys, Lengths: resp.Lengths}, nil
}

func (c *Client) EstimateSize(ctx context.Context, col collection.ID, minKey, maxKey int64) (backend.SizeEstimate, error) {
	resp, err := invoke[EstimateSizeRequest, EstimateSizeResponse](ctx, c, "EstimateSize", &EstimateSizeRequest{
		Collection: col, MinKey: minKey, MaxKey: maxKey,
	})
	if err != nil {
		return backend.SizeEstimate{}, err
	}
	return backend.SizeEstimate{
		MinCardinality: resp.MinCardinality, MaxCardinality: resp.MaxCardinality,
		MinValueBytes: resp.MinValueBytes, MaxValueBytes: resp.MaxValueBytes,
		MinMemoryBytes: resp.MinMemoryBytes, MaxMemoryBytes: resp.MaxMemoryBytes,
	}, nil
}

func (c *Client) Snapshot(ctx context.Context) (backend.Snapshot, error) {
	resp, err := invoke[Empty, SnapshotResponse](ctx, c, "Snapshot", &Empty{})
	if err != nil {
		return nil, err
	}
	return &remoteSnapshot{client: c, id: resp.SnapshotID}, nil
}

func (c *Client) Control(ctx context.Context, request string) (string, error) {
	resp, err := invoke[ControlRequest, ControlResponse](ctx, c, "Control", &ControlRequest{Request: request})
	if err != nil {
		return "", err
	}
	return resp.Response, nil
}

func (c *Client) CurrentCommitPoint() uint64 {
	resp, err := invoke[Empty, CurrentCommitPointResponse](context.Background(), c, "CurrentCommitPoint", &Empty{})
	if err != nil {
		return 0
	}
	return resp.CommitPoint
}

func (c *Client) RemoveCollection(ctx context.Context, col collection.ID) error {
	_, err := invoke[CollectionRequest, Empty](ctx, c, "RemoveCollection", &CollectionRequest{Collection: col})
	return err
}

func (c *Client) ClearCollection(ctx context.Context, col collection.ID) error {
	_, err := invoke[CollectionRequest, Empty](ctx, c, "ClearCollection", &CollectionRequest{Collection: col})
	return err
}

// remoteSnapshot satisfies backend.Snapshot by driving the server-side
// snapshot opened by Client.Snapshot through its own RPCs.
type remoteSnapshot struct {
	client *Client
	id     string
}

func (s *remoteSnapshot) Get(ctx context.Context, col collection.ID, key int64) (backend.ReadResult, error) {
	resp, err := invoke[SnapshotGetRequest, GetResponse](ctx, s.client, "SnapshotGet", &SnapshotGetRequest{
		SnapshotID: s.id, Collection: col, Key: key,
	})
	if err != nil {
		return backend.ReadResult{}, err
	}
	return backend.ReadResult{Value: resp.Value, CommitPoint: resp.CommitPoint, Found: resp.Found}, nil
}

func (s *remoteSnapshot) Scan(ctx context.Context, col collection.ID, minKey int64, scanLength int, withLengths bool) (backend.ScanResult, error) {
	resp, err := invoke[SnapshotScanRequest, ScanResponse](ctx, s.client, "SnapshotScan", &SnapshotScanRequest{
		SnapshotID: s.id, Collection: col, MinKey: minKey, ScanLength: scanLength, WithLengths: withLengths,
	})
	if err != nil {
		return backend.ScanResult{}, err
	}
	return backend.ScanResult{Keys: resp.Keys, Lengths: resp.Lengths}, nil
}

func (s *remoteSnapshot) Close() error {
	_, err := invoke[SnapshotCloseRequest, Empty](context.Background(), s.client, "SnapshotClose", &SnapshotCloseRequest{SnapshotID: s.id})
	return err
}
