package remote

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"google.golang.org/grpc"

	"github.com/ukvdb/ukv/backend"
)

// Server adapts any concrete backend.Backend to the wire, so memory and
// badgerdb stores can be served remotely without their own grpc glue.
type Server struct {
	be    backend.Backend
	mu    sync.Mutex
	snaps map[string]backend.Snapshot
}

// NewServer wraps be for remote access.
func NewServer(be backend.Backend) *Server {
	return &Server{be: be, snaps: make(map[string]backend.Snapshot)}
}

// Register attaches the backend service to gs.
func (s *Server) Register(gs *grpc.Server) {
	gs.RegisterService(&serviceDesc, s)
}

func (s *Server) get(ctx context.Context, req *GetRequest) (*GetResponse, error) {
	res, err := s.be.Get(ctx, req.Collection, req.Key)
	if err != nil {
		return nil, err
	}
	return &GetResponse{Value: res.Value, CommitPoint: res.CommitPoint, Found: res.Found}, nil
}

func (s *Server) commitBatch(ctx context.Context, req *CommitBatchRequest) (*CommitBatchResponse, error) {
	writes := make([]backend.Write, len(req.Writes))
	for i, w := range req.Writes {
		writes[i] = backend.Write{Collection: w.Collection, Key: w.Key, Value: w.Value}
	}
	point, err := s.be.CommitBatch(ctx, writes, req.Flush)
	if err != nil {
		return nil, err
	}
	return &CommitBatchResponse{CommitPoint: point}, nil
}

func (s *Server) scan(ctx context.Context, req *ScanRequest) (*ScanResponse, error) {
	res, err := s.be.Scan(ctx, req.Collection, req.MinKey, req.ScanLength, req.WithLengths)
	if err != nil {
		return nil, err
	}
	return &ScanResponse{Keys: res.Keys, Lengths: res.Lengths}, nil
}

func (s *Server) estimateSize(ctx context.Context, req *EstimateSizeRequest) (*EstimateSizeResponse, error) {
	est, err := s.be.EstimateSize(ctx, req.Collection, req.MinKey, req.MaxKey)
	if err != nil {
		return nil, err
	}
	return &EstimateSizeResponse{
		MinCardinality: est.MinCardinality, MaxCardinality: est.MaxCardinality,
		MinValueBytes: est.MinValueBytes, MaxValueBytes: est.MaxValueBytes,
		MinMemoryBytes: est.MinMemoryBytes, MaxMemoryBytes: est.MaxMemoryBytes,
	}, nil
}

func (s *Server) snapshot(ctx context.Context, _ *Empty) (*SnapshotResponse, error) {
	snap, err := s.be.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	s.mu.Lock()
	s.snaps[id] = snap
	s.mu.Unlock()
	return &SnapshotResponse{SnapshotID: id}, nil
}

func (s *Server) lookupSnapshot(id string) (backend.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snaps[id]
	if !ok {
		return nil, fmt.Errorf("remote: unknown snapshot id %q", id)
	}
	return snap, nil
}

func (s *Server) snapshotGet(ctx context.Context, req *SnapshotGetRequest) (*GetResponse, error) {
	snap, err := s.lookupSnapshot(req.SnapshotID)
	if err != nil {
		return nil, err
	}
	res, err := snap.Get(ctx, req.Collection, req.Key)
	if err != nil {
		return nil, err
	}
	return &GetResponse{Value: res.Value, CommitPoint: res.CommitPoint, Found: res.Found}, nil
}

func (s *Server) snapshotScan(ctx context.Context, req *SnapshotScanRequest) (*ScanResponse, error) {
	snap, err := s.lookupSnapshot(req.SnapshotID)
	if err != nil {
		return nil, err
	}
	res, err := snap.Scan(ctx, req.Collection, req.MinKey, req.ScanLength, req.WithLengths)
	if err != nil {
		return nil, err
	}
	return &ScanResponse{Keys: res.Keys, Lengths: res.Lengths}, nil
}

func (s *Server) snapshotClose(_ context.Context, req *SnapshotCloseRequest) (*Empty, error) {
	s.mu.Lock()
	snap, ok := s.snaps[req.SnapshotID]
	delete(s.snaps, req.SnapshotID)
	s.mu.Unlock()
	if !ok {
		return &Empty{}, nil
	}
	return &Empty{}, snap.Close()
}

func (s *Server) control(ctx context.Context, req *ControlRequest) (*ControlResponse, error) {
	resp, err := s.be.Control(ctx, req.Request)
	if err != nil {
		return nil, err
	}
	return &ControlResponse{Response: resp}, nil
}

func (s *Server) currentCommitPoint(context.Context, *Empty) (*CurrentCommitPointResponse, error) {
	return &CurrentCommitPointResponse{CommitPoint: s.be.CurrentCommitPoint()}, nil
}

func (s *Server) removeCollection(ctx context.Context, req *CollectionRequest) (*Empty, error) {
	return &Empty{}, s.be.RemoveCollection(ctx, req.Collection)
}

func (s *Server) clearCollection(ctx context.Context, req *CollectionRequest) (*Empty, error) {
	return &Empty{}, s.be.ClearCollection(ctx, req.Collection)
}
