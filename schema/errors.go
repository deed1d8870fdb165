// Copyright 2026 The dynproto Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import "github.com/dynproto/dynproto/internal/errcat"

// ErrorKind enumerates the descriptor-build failure kinds.
type ErrorKind int

const (
	_ ErrorKind = iota
	DuplicateName
	DuplicateFieldNumber
	MissingTypeName
	InvalidFieldNumber
	UnknownOneofIndex
	MissingMapEntryInfo
	InvalidMapKeyType
	InvalidMapValueType
)

func (k ErrorKind) String() string {
	switch k {
	case DuplicateName:
		return "DuplicateName"
	case DuplicateFieldNumber:
		return "DuplicateFieldNumber"
	case MissingTypeName:
		return "MissingTypeName"
	case InvalidFieldNumber:
		return "InvalidFieldNumber"
	case UnknownOneofIndex:
		return "UnknownOneofIndex"
	case MissingMapEntryInfo:
		return "MissingMapEntryInfo"
	case InvalidMapKeyType:
		return "InvalidMapKeyType"
	case InvalidMapValueType:
		return "InvalidMapValueType"
	default:
		return "Unknown"
	}
}

// Error is the structured error returned by every descriptor-build
// operation.
type Error struct {
	Kind    ErrorKind
	Parent  string // fullName of the message/file being built
	Subject string // the name or number at fault, stringified
}

func (e *Error) Error() string {
	return errcat.Prefix("schema", "%s: %s (in %s)", e.Kind, e.Subject, e.Parent)
}

func newError(kind ErrorKind, parent, subject string) *Error {
	return &Error{Kind: kind, Parent: parent, Subject: subject}
}
