// Copyright 2026 The dynproto Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package factory

import (
	"fmt"
	"strings"

	"github.com/dynproto/dynproto/internal/errcat"
)

// ValidationResult is the outcome of a required-field audit: valid
// messages carry no errors, invalid ones carry one entry per violation
// found, including nested violations discovered while recursing into
// submessages, repeated message elements, and message-valued map entries.
type ValidationResult struct {
	IsValid bool
	Errors  []ValidationIssue
}

// IssueKind enumerates the shapes a validation failure can take.
type IssueKind int

const (
	_ IssueKind = iota
	MissingRequiredField
	NestedMessageValidationFailed
	RepeatedFieldValidationFailed
	MapFieldValidationFailed
	ValidationError
)

func (k IssueKind) String() string {
	switch k {
	case MissingRequiredField:
		return "MissingRequiredField"
	case NestedMessageValidationFailed:
		return "NestedMessageValidationFailed"
	case RepeatedFieldValidationFailed:
		return "RepeatedFieldValidationFailed"
	case MapFieldValidationFailed:
		return "MapFieldValidationFailed"
	case ValidationError:
		return "ValidationError"
	default:
		return "Unknown"
	}
}

// ValidationIssue is one finding of a Validate pass.
type ValidationIssue struct {
	Kind    IssueKind
	Field   string
	Index   int    // populated for RepeatedFieldValidationFailed
	Key     string // populated for MapFieldValidationFailed
	Cause   error  // populated for ValidationError
	Nested  []ValidationIssue
}

func (i ValidationIssue) String() string {
	switch i.Kind {
	case MissingRequiredField:
		return fmt.Sprintf("missing required field %q", i.Field)
	case NestedMessageValidationFailed:
		return fmt.Sprintf("field %q: %s", i.Field, joinNested(i.Nested))
	case RepeatedFieldValidationFailed:
		return fmt.Sprintf("field %q[%d]: %s", i.Field, i.Index, joinNested(i.Nested))
	case MapFieldValidationFailed:
		return fmt.Sprintf("field %q[%s]: %s", i.Field, i.Key, joinNested(i.Nested))
	case ValidationError:
		return fmt.Sprintf("field %q: %v", i.Field, i.Cause)
	default:
		return "unknown validation issue"
	}
}

func joinNested(issues []ValidationIssue) string {
	parts := make([]string, len(issues))
	for i, is := range issues {
		parts[i] = is.String()
	}
	return strings.Join(parts, "; ")
}

// Error wraps construction-time and merge-time failures that are not
// validation findings (bad seed values, type mismatches while merging).
type Error struct {
	Op    string
	Field string
	Cause error
}

func (e *Error) Error() string {
	return errcat.Prefix("factory", "%s: field %q: %v", e.Op, e.Field, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

func newError(op, field string, cause error) *Error {
	return &Error{Op: op, Field: field, Cause: cause}
}

var (
	errUnsupportedSeedKey = fmt.Errorf("seed key must be a field name (string) or field number")
	errDescriptorMismatch = fmt.Errorf("source and destination messages do not share a descriptor")
)
