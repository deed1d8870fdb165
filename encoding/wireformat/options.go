// Copyright 2026 The dynproto Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wireformat

// MarshalOptions configures binary encoding.
type MarshalOptions struct {
	// UsePackedRepeated controls whether repeated scalar fields of
	// varint/fixed32/fixed64 wire types are packed into a single
	// length-delimited run. Length-delimited element types (string, bytes,
	// message) are always unpacked regardless of this setting.
	UsePackedRepeated bool

	// Deterministic sorts map entries by their key's canonical text before
	// emitting them, so two calls over an equal message produce identical
	// bytes. It has no effect on non-map fields, which are already emitted
	// in a fixed, ascending field-number order.
	Deterministic bool
}

// DefaultMarshalOptions returns the library defaults: packed repeated
// scalars on, non-deterministic map ordering.
func DefaultMarshalOptions() MarshalOptions {
	return MarshalOptions{UsePackedRepeated: true}
}

// UnmarshalOptions configures binary decoding.
type UnmarshalOptions struct {
	// PreserveUnknownFields retains bytes for fields the descriptor does
	// not declare, so they survive a decode/re-encode cycle. When false,
	// unknown field bytes are discarded.
	PreserveUnknownFields bool

	// MaxNestingDepth bounds recursive submessage depth. Zero means
	// unlimited.
	MaxNestingDepth int

	// MaxMessageSize bounds the byte length of any single encoded message
	// (top-level or nested). Zero means unlimited.
	MaxMessageSize int
}

// DefaultUnmarshalOptions returns the library defaults: unknown fields
// preserved, no nesting or size limit.
func DefaultUnmarshalOptions() UnmarshalOptions {
	return UnmarshalOptions{PreserveUnknownFields: true}
}
