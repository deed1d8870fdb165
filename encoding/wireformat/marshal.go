// Copyright 2026 The dynproto Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wireformat

import (
	"math"
	"sort"

	"github.com/dynproto/dynproto/dynamicpb"
	"github.com/dynproto/dynproto/schema"
	"github.com/dynproto/dynproto/wire"
)

// Marshal encodes m to proto3 binary wire format. Fields are emitted in
// ascending field-number order; any preserved unknown-field trailer is
// appended verbatim after the known fields.
func Marshal(m *dynamicpb.Message, opts MarshalOptions) ([]byte, error) {
	fields := append([]*schema.FieldDescriptor(nil), m.Descriptor().Fields()...)
	sort.Slice(fields, func(i, j int) bool { return fields[i].Number() < fields[j].Number() })

	var out []byte
	for _, fd := range fields {
		has, err := m.HasValue(dynamicpb.ByNumber(fd.Number()))
		if err != nil {
			return nil, err
		}
		if !has {
			continue
		}
		v, err := m.Get(dynamicpb.ByNumber(fd.Number()))
		if err != nil {
			return nil, err
		}
		switch {
		case fd.IsMap():
			out, err = appendMap(out, fd, v, opts)
		case fd.IsRepeated():
			out, err = appendRepeated(out, fd, v, opts)
		default:
			out, err = appendSingular(out, fd.Number(), fd.Type(), v, opts)
		}
		if err != nil {
			return nil, err
		}
	}
	out = append(out, m.GetUnknown()...)
	return out, nil
}

func appendSingular(out []byte, num wire.Number, typ wire.FieldType, v dynamicpb.Value, opts MarshalOptions) ([]byte, error) {
	if typ == wire.GroupType {
		return nil, newFieldErr(UnsupportedFieldType, "group")
	}
	out = wire.AppendVarint(out, wire.EncodeTag(num, typ.WireType()))
	return appendPayload(out, typ, v, opts)
}

func appendPayload(out []byte, typ wire.FieldType, v dynamicpb.Value, opts MarshalOptions) ([]byte, error) {
	switch typ {
	case wire.BoolType:
		if v.Bool() {
			return wire.AppendVarint(out, 1), nil
		}
		return wire.AppendVarint(out, 0), nil
	case wire.Int32Type, wire.Int64Type:
		return wire.AppendVarint(out, uint64(v.Int())), nil
	case wire.Uint32Type, wire.Uint64Type:
		return wire.AppendVarint(out, v.Uint()), nil
	case wire.Sint32Type:
		return wire.AppendVarint(out, uint64(wire.ZigZagEncode32(int32(v.Int())))), nil
	case wire.Sint64Type:
		return wire.AppendVarint(out, wire.ZigZagEncode64(v.Int())), nil
	case wire.EnumType:
		return wire.AppendVarint(out, uint64(int64(v.Enum().Number))), nil
	case wire.Fixed32Type:
		return wire.AppendFixed32(out, uint32(v.Uint())), nil
	case wire.Sfixed32Type:
		return wire.AppendFixed32(out, uint32(v.Int())), nil
	case wire.FloatType:
		return wire.AppendFixed32(out, math.Float32bits(v.Float32())), nil
	case wire.Fixed64Type:
		return wire.AppendFixed64(out, v.Uint()), nil
	case wire.Sfixed64Type:
		return wire.AppendFixed64(out, uint64(v.Int())), nil
	case wire.DoubleType:
		return wire.AppendFixed64(out, math.Float64bits(v.Float())), nil
	case wire.StringType:
		return wire.AppendBytes(out, []byte(v.String())), nil
	case wire.BytesType:
		return wire.AppendBytes(out, v.Bytes()), nil
	case wire.MessageType:
		sub, err := Marshal(v.Message(), opts)
		if err != nil {
			return nil, err
		}
		return wire.AppendBytes(out, sub), nil
	}
	return nil, newFieldErr(UnsupportedFieldType, typ.String())
}

func appendRepeated(out []byte, fd *schema.FieldDescriptor, v dynamicpb.Value, opts MarshalOptions) ([]byte, error) {
	list := v.List()
	if list.Len() == 0 {
		return out, nil
	}
	typ := fd.Type()
	if opts.UsePackedRepeated && typ.IsPackable() {
		var payload []byte
		var err error
		for i := 0; i < list.Len(); i++ {
			payload, err = appendPayload(payload, typ, list.Get(i), opts)
			if err != nil {
				return nil, err
			}
		}
		out = wire.AppendVarint(out, wire.EncodeTag(fd.Number(), wire.BytesWireType))
		return wire.AppendBytes(out, payload), nil
	}
	var err error
	for i := 0; i < list.Len(); i++ {
		out, err = appendSingular(out, fd.Number(), typ, list.Get(i), opts)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func appendMap(out []byte, fd *schema.FieldDescriptor, v dynamicpb.Value, opts MarshalOptions) ([]byte, error) {
	mp := v.Map()
	if mp.Len() == 0 {
		return out, nil
	}
	mi := fd.MapInfo()

	type kv struct {
		k dynamicpb.MapKey
		v dynamicpb.Value
	}
	entries := make([]kv, 0, mp.Len())
	mp.Range(func(k dynamicpb.MapKey, val dynamicpb.Value) bool {
		entries = append(entries, kv{k, val})
		return true
	})
	if opts.Deterministic {
		sort.Slice(entries, func(i, j int) bool { return entries[i].k.Text() < entries[j].k.Text() })
	}

	var err error
	for _, e := range entries {
		var entry []byte
		entry, err = appendSingular(entry, 1, mi.Key.Type, e.k.AsValue(), opts)
		if err != nil {
			return nil, err
		}
		entry, err = appendSingular(entry, 2, mi.Value.Type, e.v, opts)
		if err != nil {
			return nil, err
		}
		out = wire.AppendVarint(out, wire.EncodeTag(fd.Number(), wire.BytesWireType))
		out = wire.AppendBytes(out, entry)
	}
	return out, nil
}
