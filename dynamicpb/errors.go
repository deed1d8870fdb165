// Copyright 2026 The dynproto Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dynamicpb

import "github.com/dynproto/dynproto/internal/errcat"

// ErrorKind enumerates the message-typing failure kinds.
type ErrorKind int

const (
	_ ErrorKind = iota
	FieldNotFound
	TypeMismatch
	MessageTypeMismatch
	NotRepeated
	NotMap
	InvalidMapKeyType
	InvalidUTF8
)

func (k ErrorKind) String() string {
	switch k {
	case FieldNotFound:
		return "FieldNotFound"
	case TypeMismatch:
		return "TypeMismatch"
	case MessageTypeMismatch:
		return "MessageTypeMismatch"
	case NotRepeated:
		return "NotRepeated"
	case NotMap:
		return "NotMap"
	case InvalidMapKeyType:
		return "InvalidMapKeyType"
	case InvalidUTF8:
		return "InvalidUTF8"
	default:
		return "Unknown"
	}
}

// Error is the structured error every DynamicMessage operation returns,
// tagging the field by name/number and carrying the expected/actual type
// strings a caller needs to format a user-visible message.
type Error struct {
	Kind     ErrorKind
	Field    string // field name, or "#<number>" if looked up by number
	Message  string // owning message's fully-qualified name
	Expected string
	Actual   string
}

func (e *Error) Error() string {
	switch e.Kind {
	case TypeMismatch, MessageTypeMismatch:
		return errcat.Prefix("dynamicpb", "%s: field %q of %s: expected %s, got %s",
			e.Kind, e.Field, e.Message, e.Expected, e.Actual)
	default:
		return errcat.Prefix("dynamicpb", "%s: field %q of %s", e.Kind, e.Field, e.Message)
	}
}

func newFieldError(kind ErrorKind, msgName, field string) *Error {
	return &Error{Kind: kind, Field: field, Message: msgName}
}

func newTypeError(kind ErrorKind, msgName, field, expected, actual string) *Error {
	return &Error{Kind: kind, Field: field, Message: msgName, Expected: expected, Actual: actual}
}
