// Copyright 2026 The dynproto Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dynjson

import (
	"encoding/base64"
	"encoding/json"
	"math"
	"strconv"

	"github.com/dynproto/dynproto/dynamicpb"
	"github.com/dynproto/dynproto/schema"
	"github.com/dynproto/dynproto/wire"
	jsoniter "github.com/json-iterator/go"
)

var tokenizer = jsoniter.Config{UseNumber: true}.Froze()

// Unmarshal parses JSON text per the canonical proto3 mapping into a fresh
// message built from desc. Generic tokenization is delegated to
// json-iterator (configured to preserve number literals exactly, the same
// way encoding/json's Decoder.UseNumber does); everything downstream of
// the token tree is proto3-mapping-aware and hand-written.
func Unmarshal(data []byte, desc *schema.MessageDescriptor, opts UnmarshalOptions) (*dynamicpb.Message, error) {
	var raw interface{}
	if err := tokenizer.Unmarshal(data, &raw); err != nil {
		return nil, newCauseErr(InvalidJSON, err)
	}
	m := dynamicpb.New(desc)
	if raw == nil {
		return m, nil
	}
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return nil, newErr(InvalidJSONStructure)
	}
	if err := populateMessage(m, obj, opts); err != nil {
		return nil, err
	}
	return m, nil
}

func populateMessage(m *dynamicpb.Message, obj map[string]interface{}, opts UnmarshalOptions) error {
	desc := m.Descriptor()
	for key, raw := range obj {
		fd, ok := fieldByJSONOrOriginalName(desc, key)
		if !ok {
			if opts.IgnoreUnknownFields {
				continue
			}
			return newFieldErr(UnknownField, key, "no matching field")
		}
		if raw == nil {
			continue
		}
		ref := dynamicpb.ByNumber(fd.Number())
		switch {
		case fd.IsMap():
			if err := populateMap(m, ref, fd, raw, opts); err != nil {
				return err
			}
		case fd.IsRepeated():
			if err := populateList(m, ref, fd, raw, opts); err != nil {
				return err
			}
		default:
			v, err := decodeScalar(fd.Type(), fd.TypeName(), fd, raw, key, opts)
			if err != nil {
				return err
			}
			if err := m.Set(ref, v); err != nil {
				return newCauseErr(InvalidFieldType, err)
			}
		}
	}
	return nil
}

func fieldByJSONOrOriginalName(desc *schema.MessageDescriptor, key string) (*schema.FieldDescriptor, bool) {
	for _, fd := range desc.Fields() {
		if fd.JSONName() == key || fd.Name() == key {
			return fd, true
		}
	}
	return nil, false
}

func populateList(m *dynamicpb.Message, ref dynamicpb.FieldRef, fd *schema.FieldDescriptor, raw interface{}, opts UnmarshalOptions) error {
	arr, ok := raw.([]interface{})
	if !ok {
		return newMismatchErr(fd.Name(), "array", "non-array")
	}
	for _, elem := range arr {
		v, err := decodeScalar(fd.Type(), fd.TypeName(), fd, elem, fd.Name(), opts)
		if err != nil {
			return err
		}
		if err := m.AddRepeated(ref, v); err != nil {
			return newCauseErr(InvalidFieldType, err)
		}
	}
	return nil
}

func populateMap(m *dynamicpb.Message, ref dynamicpb.FieldRef, fd *schema.FieldDescriptor, raw interface{}, opts UnmarshalOptions) error {
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return newMismatchErr(fd.Name(), "object", "non-object")
	}
	mi := fd.MapInfo()
	for k, rawVal := range obj {
		key, err := decodeMapKey(mi.Key.Type, k)
		if err != nil {
			return err
		}
		val, err := decodeScalar(mi.Value.Type, mi.Value.TypeName, fd, rawVal, fd.Name(), opts)
		if err != nil {
			return err
		}
		if err := m.SetMapEntry(ref, key, val); err != nil {
			return newCauseErr(InvalidFieldType, err)
		}
	}
	return nil
}

func decodeMapKey(typ wire.FieldType, text string) (interface{}, error) {
	switch typ {
	case wire.StringType:
		return text, nil
	case wire.BoolType:
		switch text {
		case "true":
			return true, nil
		case "false":
			return false, nil
		default:
			return nil, newMismatchErr("", "bool", text)
		}
	case wire.Uint32Type, wire.Fixed32Type:
		u, err := strconv.ParseUint(text, 10, 32)
		if err != nil {
			return nil, newCauseErr(InvalidNumberFormat, err)
		}
		return uint32(u), nil
	case wire.Uint64Type, wire.Fixed64Type:
		u, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			return nil, newCauseErr(InvalidNumberFormat, err)
		}
		return u, nil
	case wire.Int32Type, wire.Sint32Type, wire.Sfixed32Type:
		i, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return nil, newCauseErr(InvalidNumberFormat, err)
		}
		return int32(i), nil
	default:
		i, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, newCauseErr(InvalidNumberFormat, err)
		}
		return i, nil
	}
}

// decodeScalar converts one decoded JSON token into the Go value
// dynamicpb's coerce() expects for fd's declared type.
func decodeScalar(typ wire.FieldType, typeName schema.FullName, fd *schema.FieldDescriptor, raw interface{}, field string, opts UnmarshalOptions) (interface{}, error) {
	switch typ {
	case wire.BoolType:
		b, ok := raw.(bool)
		if !ok {
			return nil, newMismatchErr(field, "bool", "non-bool")
		}
		return b, nil
	case wire.StringType:
		s, ok := raw.(string)
		if !ok {
			return nil, newMismatchErr(field, "string", "non-string")
		}
		return s, nil
	case wire.BytesType:
		s, ok := raw.(string)
		if !ok {
			return nil, newMismatchErr(field, "base64 string", "non-string")
		}
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, newCauseErr(InvalidBase64, err)
		}
		return b, nil
	case wire.Int32Type, wire.Sint32Type, wire.Sfixed32Type:
		i, err := numberToInt64(raw, field)
		if err != nil {
			return nil, err
		}
		if i < math.MinInt32 || i > math.MaxInt32 {
			return nil, &Error{Kind: NumberOutOfRange, Field: field}
		}
		return int32(i), nil
	case wire.Uint32Type, wire.Fixed32Type:
		u, err := numberToUint64(raw, field)
		if err != nil {
			return nil, err
		}
		if u > math.MaxUint32 {
			return nil, &Error{Kind: NumberOutOfRange, Field: field}
		}
		return uint32(u), nil
	case wire.Int64Type, wire.Sint64Type, wire.Sfixed64Type:
		return numberToInt64(raw, field)
	case wire.Uint64Type, wire.Fixed64Type:
		return numberToUint64(raw, field)
	case wire.FloatType:
		f, err := numberToFloat(raw, field)
		return float32(f), err
	case wire.DoubleType:
		return numberToFloat(raw, field)
	case wire.EnumType:
		return decodeEnum(fd, raw, field)
	case wire.MessageType:
		return decodeMessageField(fd, typeName, raw, opts)
	default:
		return nil, newFieldErr(InvalidFieldType, field, typ.String())
	}
}

func numberToInt64(raw interface{}, field string) (int64, error) {
	switch t := raw.(type) {
	case json.Number:
		i, err := strconv.ParseInt(string(t), 10, 64)
		if err != nil {
			return 0, newCauseErr(InvalidNumberFormat, err)
		}
		return i, nil
	case string:
		i, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return 0, newCauseErr(InvalidNumberFormat, err)
		}
		return i, nil
	default:
		return 0, newMismatchErr(field, "number or numeric string", "other")
	}
}

func numberToUint64(raw interface{}, field string) (uint64, error) {
	switch t := raw.(type) {
	case json.Number:
		u, err := strconv.ParseUint(string(t), 10, 64)
		if err != nil {
			return 0, newCauseErr(InvalidNumberFormat, err)
		}
		return u, nil
	case string:
		u, err := strconv.ParseUint(t, 10, 64)
		if err != nil {
			return 0, newCauseErr(InvalidNumberFormat, err)
		}
		return u, nil
	default:
		return 0, newMismatchErr(field, "number or numeric string", "other")
	}
}

func numberToFloat(raw interface{}, field string) (float64, error) {
	switch t := raw.(type) {
	case json.Number:
		f, err := strconv.ParseFloat(string(t), 64)
		if err != nil {
			return 0, newCauseErr(InvalidNumberFormat, err)
		}
		return f, nil
	case string:
		switch t {
		case "NaN":
			return math.NaN(), nil
		case "Infinity":
			return math.Inf(1), nil
		case "-Infinity":
			return math.Inf(-1), nil
		}
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, newCauseErr(InvalidNumberFormat, err)
		}
		return f, nil
	default:
		return 0, newMismatchErr(field, "number or numeric string", "other")
	}
}

func decodeEnum(fd *schema.FieldDescriptor, raw interface{}, field string) (interface{}, error) {
	switch t := raw.(type) {
	case json.Number:
		i, err := strconv.ParseInt(string(t), 10, 32)
		if err != nil {
			return nil, newCauseErr(InvalidNumberFormat, err)
		}
		return int32(i), nil
	case string:
		return t, nil
	default:
		return nil, newMismatchErr(field, "enum name or number", "other")
	}
}

// decodeMessageField builds the nested message for fd's declared message
// type. typeName is threaded through separately from fd.TypeName() because
// for a map field fd's own type name names the synthesized map-entry
// message, not the map's value type.
func decodeMessageField(fd *schema.FieldDescriptor, typeName schema.FullName, raw interface{}, opts UnmarshalOptions) (interface{}, error) {
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return nil, newMismatchErr(fd.Name(), "object", "non-object")
	}
	sub, err := newMessageByTypeName(fd, typeName)
	if err != nil {
		return nil, newCauseErr(InvalidFieldType, err)
	}
	if err := populateMessage(sub, obj, opts); err != nil {
		return nil, err
	}
	return sub, nil
}

func newMessageByTypeName(fd *schema.FieldDescriptor, typeName schema.FullName) (*dynamicpb.Message, error) {
	if typeName == fd.TypeName() {
		return dynamicpb.NewSubMessage(fd)
	}
	p := fd.Parent()
	if p == nil {
		return nil, newFieldErr(InvalidFieldType, fd.Name(), "no enclosing message to resolve "+string(typeName))
	}
	md, ok := p.File().ResolveMessage(typeName)
	if !ok {
		return nil, newFieldErr(InvalidFieldType, fd.Name(), "unresolved message type "+string(typeName))
	}
	return dynamicpb.New(md), nil
}
