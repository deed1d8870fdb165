// Copyright 2026 The dynproto Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dynjson

// MarshalOptions configures Marshal's output.
type MarshalOptions struct {
	// PrettyPrinted indents the output with two-space steps.
	PrettyPrinted bool
	// UseOriginalFieldNames emits each field's declared proto name instead
	// of its lowerCamelCase JSON name.
	UseOriginalFieldNames bool
	// IncludeDefaultValues emits fields that carry their implicit proto3
	// zero value instead of omitting them.
	IncludeDefaultValues bool
}

// DefaultMarshalOptions returns the canonical JSON mapping: lowerCamelCase
// names, unpopulated fields omitted, compact output.
func DefaultMarshalOptions() MarshalOptions {
	return MarshalOptions{}
}

// UnmarshalOptions configures Unmarshal's input handling.
type UnmarshalOptions struct {
	// IgnoreUnknownFields skips JSON object keys with no matching field
	// instead of rejecting the document.
	IgnoreUnknownFields bool
}

// DefaultUnmarshalOptions returns the lenient default: unknown fields are
// skipped rather than rejected.
func DefaultUnmarshalOptions() UnmarshalOptions {
	return UnmarshalOptions{IgnoreUnknownFields: true}
}
