// Copyright 2026 The dynproto Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wireformat

import (
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/dynproto/dynproto/dynamicpb"
	"github.com/dynproto/dynproto/schema"
	"github.com/dynproto/dynproto/wire"
)

// Unmarshal decodes b into a fresh message bound to desc.
func Unmarshal(b []byte, desc *schema.MessageDescriptor, opts UnmarshalOptions) (*dynamicpb.Message, error) {
	return unmarshal(b, desc, opts, 0)
}

func unmarshal(b []byte, desc *schema.MessageDescriptor, opts UnmarshalOptions, depth int) (*dynamicpb.Message, error) {
	if opts.MaxMessageSize > 0 && len(b) > opts.MaxMessageSize {
		return nil, newErr(MessageTooLarge)
	}
	if opts.MaxNestingDepth > 0 && depth > opts.MaxNestingDepth {
		return nil, newErr(NestingTooDeep)
	}

	m := dynamicpb.New(desc)
	var unknown []byte

	for len(b) > 0 {
		tag, n := wire.ConsumeVarint(b)
		if n < 0 {
			return nil, newErr(TruncatedVarint)
		}
		start := b[:n]
		b = b[n:]
		num, wt := wire.DecodeTag(tag)

		fd, ok := desc.FieldByNumber(num)
		if !ok {
			skipped, n2 := consumeValue(b, wt)
			if n2 < 0 {
				if n2 == wire.ErrCodeFieldNum {
					return nil, newFieldErr(InvalidWireType, strconv.Itoa(int(num)))
				}
				return nil, newErr(TruncatedMessage)
			}
			if opts.PreserveUnknownFields {
				unknown = append(unknown, start...)
				unknown = append(unknown, skipped...)
			}
			b = b[n2:]
			continue
		}

		switch {
		case fd.IsMap():
			if wt != wire.BytesWireType {
				return nil, newMismatchErr(fd.Name(), wire.BytesWireType.String(), wt.String())
			}
			payload, n2, err := consumeLenDelimited(b)
			if err != nil {
				return nil, err
			}
			if err := decodeMapEntry(m, fd, payload, opts, depth); err != nil {
				return nil, err
			}
			b = b[n2:]

		case fd.IsRepeated():
			if wt == wire.BytesWireType && fd.Type().IsPackable() && wt != fd.Type().WireType() {
				payload, n2, err := consumeLenDelimited(b)
				if err != nil {
					return nil, err
				}
				if err := decodePacked(m, fd, payload); err != nil {
					return nil, err
				}
				b = b[n2:]
				continue
			}
			if wt != fd.Type().WireType() {
				return nil, newMismatchErr(fd.Name(), fd.Type().WireType().String(), wt.String())
			}
			v, n2, err := decodeElement(b, fd, opts, depth)
			if err != nil {
				return nil, err
			}
			if err := m.AddRepeated(dynamicpb.ByNumber(num), scalarArg(v)); err != nil {
				return nil, err
			}
			b = b[n2:]

		default:
			if wt != fd.Type().WireType() {
				return nil, newMismatchErr(fd.Name(), fd.Type().WireType().String(), wt.String())
			}
			v, n2, err := decodeElement(b, fd, opts, depth)
			if err != nil {
				return nil, err
			}
			if err := m.Set(dynamicpb.ByNumber(num), scalarArg(v)); err != nil {
				return nil, err
			}
			b = b[n2:]
		}
	}

	if opts.PreserveUnknownFields && len(unknown) > 0 {
		m.SetUnknown(unknown)
	}
	return m, nil
}

// consumeValue skips one field value given its wire type, mirroring
// wire.ConsumeFieldValue but rejecting legacy group markers explicitly.
func consumeValue(b []byte, wt wire.Type) ([]byte, int) {
	switch wt {
	case wire.StartGroupWireType, wire.EndGroupWireType:
		return nil, wire.ErrCodeFieldNum
	default:
		n := wire.ConsumeFieldValue(0, wt, b)
		if n < 0 {
			return nil, n
		}
		return b[:n], n
	}
}

func consumeLenDelimited(b []byte) ([]byte, int, error) {
	v, n := wire.ConsumeBytes(b)
	if n < 0 {
		return nil, 0, newErr(TruncatedMessage)
	}
	return v, n, nil
}

// decodedElement carries the decoded payload through the type-agnostic
// append/set call sites above; exactly one field is populated per element.
type decodedElement struct {
	typ   wire.FieldType
	b     bool
	i     int64
	u     uint64
	f     float64
	s     string
	by    []byte
	enum  dynamicpb.EnumValue
	msg   *dynamicpb.Message
}

func scalarArg(v decodedElement) interface{} {
	switch v.typ {
	case wire.BoolType:
		return v.b
	case wire.Int32Type, wire.Sint32Type, wire.Sfixed32Type:
		return int32(v.i)
	case wire.Int64Type, wire.Sint64Type, wire.Sfixed64Type:
		return v.i
	case wire.Uint32Type, wire.Fixed32Type:
		return uint32(v.u)
	case wire.Uint64Type, wire.Fixed64Type:
		return v.u
	case wire.FloatType:
		return float32(v.f)
	case wire.DoubleType:
		return v.f
	case wire.StringType:
		return v.s
	case wire.BytesType:
		return v.by
	case wire.EnumType:
		return v.enum
	case wire.MessageType:
		return v.msg
	}
	return nil
}

func decodeElement(b []byte, fd *schema.FieldDescriptor, opts UnmarshalOptions, depth int) (decodedElement, int, error) {
	typ := fd.Type()
	switch typ {
	case wire.BoolType:
		n64, n := wire.ConsumeVarint(b)
		if n < 0 {
			return decodedElement{}, 0, newErr(TruncatedVarint)
		}
		return decodedElement{typ: typ, b: n64 != 0}, n, nil

	case wire.Int32Type:
		n64, n := wire.ConsumeVarint(b)
		if n < 0 {
			return decodedElement{}, 0, newErr(TruncatedVarint)
		}
		return decodedElement{typ: typ, i: int64(int32(int64(n64)))}, n, nil

	case wire.Int64Type:
		n64, n := wire.ConsumeVarint(b)
		if n < 0 {
			return decodedElement{}, 0, newErr(TruncatedVarint)
		}
		return decodedElement{typ: typ, i: int64(n64)}, n, nil

	case wire.Uint32Type:
		n64, n := wire.ConsumeVarint(b)
		if n < 0 {
			return decodedElement{}, 0, newErr(TruncatedVarint)
		}
		return decodedElement{typ: typ, u: uint64(uint32(n64))}, n, nil

	case wire.Uint64Type:
		n64, n := wire.ConsumeVarint(b)
		if n < 0 {
			return decodedElement{}, 0, newErr(TruncatedVarint)
		}
		return decodedElement{typ: typ, u: n64}, n, nil

	case wire.Sint32Type:
		n64, n := wire.ConsumeVarint(b)
		if n < 0 {
			return decodedElement{}, 0, newErr(TruncatedVarint)
		}
		return decodedElement{typ: typ, i: int64(wire.ZigZagDecode32(uint32(n64)))}, n, nil

	case wire.Sint64Type:
		n64, n := wire.ConsumeVarint(b)
		if n < 0 {
			return decodedElement{}, 0, newErr(TruncatedVarint)
		}
		return decodedElement{typ: typ, i: wire.ZigZagDecode64(n64)}, n, nil

	case wire.EnumType:
		n64, n := wire.ConsumeVarint(b)
		if n < 0 {
			return decodedElement{}, 0, newErr(TruncatedVarint)
		}
		return decodedElement{typ: typ, enum: dynamicpb.EnumValue{Number: int32(int64(n64))}}, n, nil

	case wire.Fixed32Type:
		u, n := wire.ConsumeFixed32(b)
		if n < 0 {
			return decodedElement{}, 0, newErr(TruncatedMessage)
		}
		return decodedElement{typ: typ, u: uint64(u)}, n, nil

	case wire.Sfixed32Type:
		u, n := wire.ConsumeFixed32(b)
		if n < 0 {
			return decodedElement{}, 0, newErr(TruncatedMessage)
		}
		return decodedElement{typ: typ, i: int64(int32(u))}, n, nil

	case wire.FloatType:
		u, n := wire.ConsumeFixed32(b)
		if n < 0 {
			return decodedElement{}, 0, newErr(TruncatedMessage)
		}
		return decodedElement{typ: typ, f: float64(math.Float32frombits(u))}, n, nil

	case wire.Fixed64Type:
		u, n := wire.ConsumeFixed64(b)
		if n < 0 {
			return decodedElement{}, 0, newErr(TruncatedMessage)
		}
		return decodedElement{typ: typ, u: u}, n, nil

	case wire.Sfixed64Type:
		u, n := wire.ConsumeFixed64(b)
		if n < 0 {
			return decodedElement{}, 0, newErr(TruncatedMessage)
		}
		return decodedElement{typ: typ, i: int64(u)}, n, nil

	case wire.DoubleType:
		u, n := wire.ConsumeFixed64(b)
		if n < 0 {
			return decodedElement{}, 0, newErr(TruncatedMessage)
		}
		return decodedElement{typ: typ, f: math.Float64frombits(u)}, n, nil

	case wire.StringType:
		raw, n, err := consumeLenDelimited(b)
		if err != nil {
			return decodedElement{}, 0, err
		}
		if !utf8.Valid(raw) {
			return decodedElement{}, 0, newFieldErr(InvalidUTF8String, fd.Name())
		}
		return decodedElement{typ: typ, s: string(raw)}, n, nil

	case wire.BytesType:
		raw, n, err := consumeLenDelimited(b)
		if err != nil {
			return decodedElement{}, 0, err
		}
		return decodedElement{typ: typ, by: append([]byte(nil), raw...)}, n, nil

	case wire.MessageType:
		raw, n, err := consumeLenDelimited(b)
		if err != nil {
			return decodedElement{}, 0, err
		}
		sub, ok := resolveSubMessage(fd)
		if !ok {
			return decodedElement{}, 0, newFieldErr(UnsupportedNestedMessage, string(fd.TypeName()))
		}
		msg, err := unmarshal(raw, sub, opts, depth+1)
		if err != nil {
			return decodedElement{}, 0, err
		}
		return decodedElement{typ: typ, msg: msg}, n, nil

	case wire.GroupType:
		return decodedElement{}, 0, newFieldErr(UnsupportedFieldType, "group")
	}
	return decodedElement{}, 0, newFieldErr(UnsupportedFieldType, typ.String())
}

func resolveSubMessage(fd *schema.FieldDescriptor) (*schema.MessageDescriptor, bool) {
	p := fd.Parent()
	if p == nil {
		return nil, false
	}
	return p.File().ResolveMessage(fd.TypeName())
}

// decodePacked decodes a packed payload into successive AddRepeated calls.
func decodePacked(m *dynamicpb.Message, fd *schema.FieldDescriptor, payload []byte) error {
	if !fd.Type().IsPackable() {
		return newFieldErr(MalformedPackedField, fd.Name())
	}
	for len(payload) > 0 {
		elem, n, err := decodeScalarElement(payload, fd.Type())
		if err != nil {
			return err
		}
		if n <= 0 {
			return newFieldErr(MalformedPackedField, fd.Name())
		}
		if err := m.AddRepeated(dynamicpb.ByNumber(fd.Number()), scalarArg(elem)); err != nil {
			return err
		}
		payload = payload[n:]
	}
	return nil
}

// decodeScalarElement decodes one packed element by its bare type, since
// packed elements carry no tag of their own.
func decodeScalarElement(b []byte, typ wire.FieldType) (decodedElement, int, error) {
	switch typ {
	case wire.BoolType, wire.Int32Type, wire.Int64Type, wire.Uint32Type, wire.Uint64Type,
		wire.Sint32Type, wire.Sint64Type, wire.EnumType:
		n64, n := wire.ConsumeVarint(b)
		if n < 0 {
			return decodedElement{}, 0, newErr(TruncatedVarint)
		}
		switch typ {
		case wire.BoolType:
			return decodedElement{typ: typ, b: n64 != 0}, n, nil
		case wire.Int32Type:
			return decodedElement{typ: typ, i: int64(int32(int64(n64)))}, n, nil
		case wire.Int64Type:
			return decodedElement{typ: typ, i: int64(n64)}, n, nil
		case wire.Uint32Type:
			return decodedElement{typ: typ, u: uint64(uint32(n64))}, n, nil
		case wire.Uint64Type:
			return decodedElement{typ: typ, u: n64}, n, nil
		case wire.Sint32Type:
			return decodedElement{typ: typ, i: int64(wire.ZigZagDecode32(uint32(n64)))}, n, nil
		case wire.Sint64Type:
			return decodedElement{typ: typ, i: wire.ZigZagDecode64(n64)}, n, nil
		case wire.EnumType:
			return decodedElement{typ: typ, enum: dynamicpb.EnumValue{Number: int32(int64(n64))}}, n, nil
		}
	case wire.Fixed32Type, wire.Sfixed32Type, wire.FloatType:
		u, n := wire.ConsumeFixed32(b)
		if n < 0 {
			return decodedElement{}, 0, newErr(TruncatedMessage)
		}
		switch typ {
		case wire.Fixed32Type:
			return decodedElement{typ: typ, u: uint64(u)}, n, nil
		case wire.Sfixed32Type:
			return decodedElement{typ: typ, i: int64(int32(u))}, n, nil
		case wire.FloatType:
			return decodedElement{typ: typ, f: float64(math.Float32frombits(u))}, n, nil
		}
	case wire.Fixed64Type, wire.Sfixed64Type, wire.DoubleType:
		u, n := wire.ConsumeFixed64(b)
		if n < 0 {
			return decodedElement{}, 0, newErr(TruncatedMessage)
		}
		switch typ {
		case wire.Fixed64Type:
			return decodedElement{typ: typ, u: u}, n, nil
		case wire.Sfixed64Type:
			return decodedElement{typ: typ, i: int64(u)}, n, nil
		case wire.DoubleType:
			return decodedElement{typ: typ, f: math.Float64frombits(u)}, n, nil
		}
	}
	return decodedElement{}, 0, newErr(MalformedPackedField)
}

func decodeMapEntry(m *dynamicpb.Message, fd *schema.FieldDescriptor, payload []byte, opts UnmarshalOptions, depth int) error {
	mi := fd.MapInfo()
	entry, err := unmarshal(payload, mi.Entry, opts, depth+1)
	if err != nil {
		return err
	}
	keyV, err := entry.Get(dynamicpb.ByNumber(1))
	if err != nil {
		return err
	}
	valV, err := entry.Get(dynamicpb.ByNumber(2))
	if err != nil {
		return err
	}
	return m.SetMapEntry(dynamicpb.ByNumber(fd.Number()), keyArg(keyV), valArg(mi.Value.Type, valV))
}

func keyArg(v dynamicpb.Value) interface{} {
	switch v.Type() {
	case wire.BoolType:
		return v.Bool()
	case wire.StringType:
		return v.String()
	case wire.Uint32Type, wire.Fixed32Type:
		return uint32(v.Uint())
	case wire.Uint64Type, wire.Fixed64Type:
		return v.Uint()
	case wire.Int32Type, wire.Sint32Type, wire.Sfixed32Type:
		return int32(v.Int())
	default:
		return v.Int()
	}
}

func valArg(typ wire.FieldType, v dynamicpb.Value) interface{} {
	switch typ {
	case wire.BoolType:
		return v.Bool()
	case wire.StringType:
		return v.String()
	case wire.BytesType:
		return v.Bytes()
	case wire.EnumType:
		return v.Enum()
	case wire.Uint32Type, wire.Fixed32Type:
		return uint32(v.Uint())
	case wire.Uint64Type, wire.Fixed64Type:
		return v.Uint()
	case wire.Int32Type, wire.Sint32Type, wire.Sfixed32Type:
		return int32(v.Int())
	case wire.FloatType:
		return v.Float32()
	case wire.DoubleType:
		return v.Float()
	case wire.MessageType:
		return v.Message()
	default:
		return v.Int()
	}
}
