// Copyright 2026 The dynproto Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dynproto is the top-level facade over this module's dynamic
// Protocol Buffers runtime: build descriptors with schema, instantiate
// and populate messages with dynamicpb/factory/accessor, and move them
// to and from the wire with encoding/wireformat and encoding/dynjson.
package dynproto

import (
	"github.com/dynproto/dynproto/accessor"
	"github.com/dynproto/dynproto/dynamicpb"
	"github.com/dynproto/dynproto/encoding/dynjson"
	"github.com/dynproto/dynproto/encoding/wireformat"
	"github.com/dynproto/dynproto/factory"
	"github.com/dynproto/dynproto/schema"
)

// New allocates an empty message of desc's type.
func New(desc *schema.MessageDescriptor) *dynamicpb.Message {
	return factory.New(desc)
}

// NewSeeded allocates a message of desc's type and applies seed, a map
// from field name, wire.Number, or int field number to the value that
// field should hold.
func NewSeeded(desc *schema.MessageDescriptor, seed map[interface{}]interface{}) (*dynamicpb.Message, error) {
	return factory.NewSeeded(desc, seed)
}

// Clone returns a deep, independent copy of m.
func Clone(m *dynamicpb.Message) *dynamicpb.Message {
	return factory.Clone(m)
}

// Equal reports whether a and b hold the same populated field values.
func Equal(a, b *dynamicpb.Message) bool {
	return dynamicpb.Equal(a, b)
}

// Validate audits m for missing required fields, recursing into nested,
// repeated, and map-valued message fields.
func Validate(m *dynamicpb.Message) factory.ValidationResult {
	return factory.Validate(m)
}

// Merge copies every populated field from src into dst, following
// proto's standard merge semantics (scalars overwrite, messages merge
// recursively, repeated fields append, map entries overwrite by key).
func Merge(dst, src *dynamicpb.Message) error {
	return factory.Merge(dst, src)
}

// Reader returns a typed, absent-safe read view over m.
func Reader(m *dynamicpb.Message) *accessor.Reader {
	return accessor.NewReader(m)
}

// Writer returns a typed, boolean-result mutation view over m.
func Writer(m *dynamicpb.Message) *accessor.Writer {
	return accessor.NewWriter(m)
}

// Marshal encodes m to proto3 binary wire format.
func Marshal(m *dynamicpb.Message, opts wireformat.MarshalOptions) ([]byte, error) {
	return wireformat.Marshal(m, opts)
}

// Unmarshal decodes proto3 binary wire format into a fresh message of
// desc's type.
func Unmarshal(b []byte, desc *schema.MessageDescriptor, opts wireformat.UnmarshalOptions) (*dynamicpb.Message, error) {
	return wireformat.Unmarshal(b, desc, opts)
}

// MarshalJSON encodes m per the canonical proto3 JSON mapping.
func MarshalJSON(m *dynamicpb.Message, opts dynjson.MarshalOptions) ([]byte, error) {
	return dynjson.Marshal(m, opts)
}

// UnmarshalJSON decodes canonical proto3 JSON into a fresh message of
// desc's type.
func UnmarshalJSON(b []byte, desc *schema.MessageDescriptor, opts dynjson.UnmarshalOptions) (*dynamicpb.Message, error) {
	return dynjson.Unmarshal(b, desc, opts)
}
