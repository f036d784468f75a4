// Copyright 2026 The UKV Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package ukv is the Universal Key-Value engine CORE: a transactional,
// batch-oriented key-value front end exposing one uniform contract
// regardless of which concrete store backs it.
//
// A DB is opened against a chosen backend (in-memory, badgerdb-backed
// persistent-local, or remote) and offers three groups of operations:
// batch read/write/scan/size calls that decode strided argument vectors
// and pack results into a caller-reused arena.Arena; transactions with
// optional snapshot isolation and read-tracking, committed under
// optimistic concurrency control; and a named-collection namespace
// manager. A free-form Control channel carries out-of-band maintenance
// commands (clear, reset, compact, info, usage, stats).
package ukv
