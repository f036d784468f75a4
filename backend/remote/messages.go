package remote

import "github.com/ukvdb/ukv/collection"

// WriteMsg is one wire-format pending mutation. A nil Value (JSON null)
// deletes; a non-nil, zero-length Value (JSON "") sets an empty value —
// encoding/json's base64 round trip preserves this distinction for free.
type WriteMsg struct {
	Collection collection.ID `json:"collection"`
	Key        int64         `json:"key"`
	Value      []byte        `json:"value"`
}

type GetRequest struct {
	Collection collection.ID `json:"collection"`
	Key        int64         `json:"key"`
}

type GetResponse struct {
	Value       []byte `json:"value"`
	CommitPoint uint64 `json:"commit_point"`
	Found       bool   `json:"found"`
}

type CommitBatchRequest struct {
	Writes []WriteMsg `json:"writes"`
	Flush  bool       `json:"flush"`
}

type CommitBatchResponse struct {
	CommitPoint uint64 `json:"commit_point"`
}

type ScanRequest struct {
	Collection  collection.ID `json:"collection"`
	MinKey      int64         `json:"min_key"`
	ScanLength  int           `json:"scan_length"`
	WithLengths bool          `json:"with_lengths"`
}

type ScanResponse struct {
	Keys    []int64  `json:"keys"`
	Lengths []uint32 `json:"lengths"`
}

type EstimateSizeRequest struct {
	Collection collection.ID `json:"collection"`
	MinKey     int64         `json:"min_key"`
	MaxKey     int64         `json:"max_key"`
}

type EstimateSizeResponse struct {
	MinCardinality uint64 `json:"min_cardinality"`
	MaxCardinality uint64 `json:"max_cardinality"`
	MinValueBytes  uint64 `json:"min_value_bytes"`
	MaxValueBytes  uint64 `json:"max_value_bytes"`
	MinMemoryBytes uint64 `json:"min_memory_bytes"`
	MaxMemoryBytes uint64 `json:"max_memory_bytes"`
}

type SnapshotResponse struct {
	SnapshotID string `json:"snapshot_id"`
}

type SnapshotGetRequest struct {
	SnapshotID string        `json:"snapshot_id"`
	Collection collection.ID `json:"collection"`
	Key        int64         `json:"key"`
}

type SnapshotScanRequest struct {
	SnapshotID  string        `json:"snapshot_id"`
	Collection  collection.ID `json:"collection"`
	MinKey      int64         `json:"min_key"`
	ScanLength  int           `json:"scan_length"`
	WithLengths bool          `json:"with_lengths"`
}

type SnapshotCloseRequest struct {
	SnapshotID string `json:"snapshot_id"`
}

type ControlRequest struct {
	Request string `json:"request"`
}

type ControlResponse struct {
	Response string `json:"response"`
}

type CollectionRequest struct {
	Collection collection.ID `json:"collection"`
}

type CurrentCommitPointResponse struct {
	CommitPoint uint64 `json:"commit_point"`
}

// Empty is used for RPCs with no meaningful response payload.
type Empty struct{}
