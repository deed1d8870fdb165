// Copyright 2026 The dynproto Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package wire defines the closed set of proto3 field types and wire
// types, and the low-level varint/zigzag/fixed-width codecs that every
// higher-level component (schema, dynamicpb, encoding/wireformat) builds
// on. It has no knowledge of descriptors or messages.
package wire

import "fmt"

// FieldType is the closed set of scalar, message, enum and group kinds a
// FieldDescriptor may declare.
type FieldType int

const (
	InvalidType FieldType = iota
	DoubleType
	FloatType
	Int32Type
	Int64Type
	Uint32Type
	Uint64Type
	Sint32Type
	Sint64Type
	Fixed32Type
	Fixed64Type
	Sfixed32Type
	Sfixed64Type
	BoolType
	StringType
	BytesType
	MessageType
	EnumType
	GroupType
)

func (t FieldType) String() string {
	switch t {
	case DoubleType:
		return "double"
	case FloatType:
		return "float"
	case Int32Type:
		return "int32"
	case Int64Type:
		return "int64"
	case Uint32Type:
		return "uint32"
	case Uint64Type:
		return "uint64"
	case Sint32Type:
		return "sint32"
	case Sint64Type:
		return "sint64"
	case Fixed32Type:
		return "fixed32"
	case Fixed64Type:
		return "fixed64"
	case Sfixed32Type:
		return "sfixed32"
	case Sfixed64Type:
		return "sfixed64"
	case BoolType:
		return "bool"
	case StringType:
		return "string"
	case BytesType:
		return "bytes"
	case MessageType:
		return "message"
	case EnumType:
		return "enum"
	case GroupType:
		return "group"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// IsValid reports whether t is one of the eighteen declared field types.
func (t FieldType) IsValid() bool {
	return t >= DoubleType && t <= GroupType
}

// Type is the 3-bit wire-format discriminator carried in every tag.
type Type int

const (
	VarintType         Type = 0
	Fixed64WireType    Type = 1
	BytesWireType      Type = 2
	StartGroupWireType Type = 3
	EndGroupWireType   Type = 4
	Fixed32WireType    Type = 5
)

func (t Type) String() string {
	switch t {
	case VarintType:
		return "varint"
	case Fixed64WireType:
		return "fixed64"
	case BytesWireType:
		return "length-delimited"
	case StartGroupWireType:
		return "start-group"
	case EndGroupWireType:
		return "end-group"
	case Fixed32WireType:
		return "fixed32"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// WireType returns the wire type the binary codec uses to encode values of
// field type t. Message and bytes/string use length-delimited framing;
// group maps to the legacy start-group marker, which this library rejects
// rather than emits.
func (t FieldType) WireType() Type {
	switch t {
	case DoubleType, Fixed64Type, Sfixed64Type:
		return Fixed64WireType
	case FloatType, Fixed32Type, Sfixed32Type:
		return Fixed32WireType
	case StringType, BytesType, MessageType:
		return BytesWireType
	case GroupType:
		return StartGroupWireType
	default:
		// int32/int64/uint32/uint64/sint32/sint64/bool/enum
		return VarintType
	}
}

// IsVarintFamily reports whether t's default wire type is varint. These
// types are packable, but so are the fixed32/fixed64 types (see
// IsPackable).
func (t FieldType) IsVarintFamily() bool {
	return t.WireType() == VarintType
}

// IsPackable reports whether repeated fields of this type may use packed
// encoding: every scalar numeric/bool/enum type, excluding string, bytes,
// message and group.
func (t FieldType) IsPackable() bool {
	switch t {
	case StringType, BytesType, MessageType, GroupType:
		return false
	default:
		return true
	}
}
