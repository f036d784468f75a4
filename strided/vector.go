// Copyright 2026 The UKV Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package strided implements the uniform rule for decoding batched
// arguments: each logical argument is a (base pointer, byte stride) pair,
// element i lives at base + i*stride, and a stride of zero broadcasts the
// single element at base to every task.
//
// This is the only place per-argument layout is interpreted; every other
// package in this module sees a plain Vector[T] and never touches a
// pointer or a stride directly. Testing the decoder in isolation catches
// most input-shape bugs before they reach the batch layer.
package strided

import "unsafe"

// Vector is a cursor over a task count's worth of logical elements of
// type T, each located base+i*stride bytes from the start. A zero stride
// broadcasts base's single element to every task.
type Vector[T any] struct {
	base   unsafe.Pointer
	stride uintptr
	count  int
}

// Of builds a Vector over an ordinary Go slice: element i is s[i], i.e.
// stride == sizeof(T). This is the path almost every caller in this
// module uses; it never touches unsafe itself beyond taking the slice's
// address, matching how normal, non-ABI Go code is expected to produce
// one.
func Of[T any](s []T) Vector[T] {
	if len(s) == 0 {
		return Vector[T]{}
	}
	return Vector[T]{base: unsafe.Pointer(&s[0]), stride: unsafe.Sizeof(s[0]), count: len(s)}
}

// Broadcast builds a Vector that returns v for every one of count tasks,
// by setting stride to zero.
func Broadcast[T any](v T, count int) Vector[T] {
	return Vector[T]{base: unsafe.Pointer(&v), stride: 0, count: count}
}

// Empty builds a Vector representing a null/absent optional argument.
func Empty[T any]() Vector[T] {
	return Vector[T]{}
}

// FromPointer builds a Vector directly from a base pointer and byte
// stride, for callers that genuinely speak the raw ABI (e.g. a cgo or
// wire-protocol front end sitting outside this CORE). Ordinary Go callers
// should prefer Of or Broadcast.
func FromPointer[T any](base unsafe.Pointer, stride uintptr, count int) Vector[T] {
	return Vector[T]{base: base, stride: stride, count: count}
}

// IsNull reports whether the vector has no base pointer at all — the
// signal for "optional argument omitted", where a null base selects a
// documented default.
func (v Vector[T]) IsNull() bool { return v.base == nil }

// Len returns the task count this vector was constructed for.
func (v Vector[T]) Len() int { return v.count }

// Stride returns the configured byte stride; zero means "broadcast".
func (v Vector[T]) Stride() uintptr { return v.stride }

// At returns the logical element for task i. Calling At on a null vector
// panics; callers must check IsNull first, exactly as a required argument
// with a null base is a usage error.
func (v Vector[T]) At(i int) T {
	if v.base == nil {
		panic("strided: At called on a null vector")
	}
	if i < 0 || i >= v.count {
		panic("strided: index out of range")
	}
	off := v.stride * uintptr(i)
	return *(*T)(unsafe.Pointer(uintptr(v.base) + off))
}

// ZeroStrideOnRequired reports whether v is in the one configuration that
// is a usage error for a required, non-broadcastable argument (keys):
// non-null, stride zero, and more than one task (broadcasting a single
// key across many tasks makes no sense).
func (v Vector[T]) ZeroStrideOnRequired() bool {
	return !v.IsNull() && v.stride == 0 && v.count > 1
}
