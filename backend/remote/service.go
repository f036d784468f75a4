package remote

import (
	"context"

	"google.golang.org/grpc"
)

// serviceName is the grpc service path every RPC below hangs off of:
// "/ukv.Backend/<Method>".
const serviceName = "ukv.Backend"

func decodeAndHandle[Req any, Resp any](
	srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor,
	fullMethod string, handle func(*Server, context.Context, *Req) (*Resp, error),
) (any, error) {
	req := new(Req)
	if err := dec(req); err != nil {
		return nil, err
	}
	s := srv.(*Server)
	if interceptor == nil {
		return handle(s, ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: s, FullMethod: fullMethod}
	return interceptor(ctx, req, info, func(ctx context.Context, req any) (any, error) {
		return handle(s, ctx, req.(*Req))
	})
}

// serviceDesc is a hand-written replacement for a protoc-generated
// grpc.ServiceDesc: one MethodDesc per RPC, dispatched through
// decodeAndHandle instead of generated unmarshal/invoke glue.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*any)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Get",
			Handler: func(srv any, ctx context.Context, dec func(any) error, i grpc.UnaryServerInterceptor) (any, error) {
				return decodeAndHandle[GetRequest, GetResponse](srv, ctx, dec, i, "/"+serviceName+"/Get", (*Server).get)
			},
		},
		{
			MethodName: "CommitBatch",
			Handler: func(srv any, ctx context.Context, dec func(any) error, i grpc.UnaryServerInterceptor) (any, error) {
				return decodeAndHandle[CommitBatchRequest, CommitBatchResponse](srv, ctx, dec, i, "/"+serviceName+"/CommitBatch", (*Server).commitBatch)
			},
		},
		{
			MethodName: "Scan",
			Handler: func(srv any, ctx context.Context, dec func(any) error, i grpc.UnaryServerInterceptor) (any, error) {
				return decodeAndHandle[ScanRequest, ScanResponse](srv, ctx, dec, i, "/"+serviceName+"/Scan", (*Server).scan)
			},
		},
		{
			MethodName: "EstimateSize",
			Handler: func(srv any, ctx context.Context, dec func(any) error, i grpc.UnaryServerInterceptor) (any, error) {
				return decodeAndHandle[EstimateSizeRequest, EstimateSizeResponse](srv, ctx, dec, i, "/"+serviceName+"/EstimateSize", (*Server).estimateSize)
			},
		},
		{
			MethodName: "Snapshot",
			Handler: func(srv any, ctx context.Context, dec func(any) error, i grpc.UnaryServerInterceptor) (any, error) {
				return decodeAndHandle[Empty, SnapshotResponse](srv, ctx, dec, i, "/"+serviceName+"/Snapshot", (*Server).snapshot)
			},
		},
		{
			MethodName: "SnapshotGet",
			Handler: func(srv any, ctx context.Context, dec func(any) error, i grpc.UnaryServerInterceptor) (any, error) {
				return decodeAndHandle[SnapshotGetRequest, GetResponse](srv, ctx, dec, i, "/"+serviceName+"/SnapshotGet", (*Server).snapshotGet)
			},
		},
		{
			MethodName: "SnapshotScan",
			Handler: func(srv any, ctx context.Context, dec func(any) error, i grpc.UnaryServerInterceptor) (any, error) {
				return decodeAndHandle[SnapshotScanRequest, ScanResponse](srv, ctx, dec, i, "/"+serviceName+"/SnapshotScan", (*Server).snapshotScan)
			},
		},
		{
			MethodName: "SnapshotClose",
			Handler: func(srv any, ctx context.Context, dec func(any) error, i grpc.UnaryServerInterceptor) (any, error) {
				return decodeAndHandle[SnapshotCloseRequest, Empty](srv, ctx, dec, i, "/"+serviceName+"/SnapshotClose", (*Server).snapshotClose)
			},
		},
		{
			MethodName: "Control",
			Handler: func(srv any, ctx context.Context, dec func(any) error, i grpc.UnaryServerInterceptor) (any, error) {
				return decodeAndHandle[ControlRequest, ControlResponse](srv, ctx, dec, i, "/"+serviceName+"/Control", (*Server).control)
			},
		},
		{
			MethodName: "CurrentCommitPoint",
			Handler: func(srv any, ctx context.Context, dec func(any) error, i grpc.UnaryServerInterceptor) (any, error) {
				return decodeAndHandle[Empty, CurrentCommitPointResponse](srv, ctx, dec, i, "/"+serviceName+"/CurrentCommitPoint", (*Server).currentCommitPoint)
			},
		},
		{
			MethodName: "RemoveCollection",
			Handler: func(srv any, ctx context.Context, dec func(any) error, i grpc.UnaryServerInterceptor) (any, error) {
				return decodeAndHandle[CollectionRequest, Empty](srv, ctx, dec, i, "/"+serviceName+"/RemoveCollection", (*Server).removeCollection)
			},
		},
		{
			MethodName: "ClearCollection",
			Handler: func(srv any, ctx context.Context, dec func(any) error, i grpc.UnaryServerInterceptor) (any, error) {
				return decodeAndHandle[CollectionRequest, Empty](srv, ctx, dec, i, "/"+serviceName+"/ClearCollection", (*Server).clearCollection)
			},
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ukv/backend/remote/service.go",
}
