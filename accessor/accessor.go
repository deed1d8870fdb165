// Copyright 2026 The dynproto Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package accessor wraps a dynamicpb.Message behind typed, absent-safe
// getters and setters, so callers working against a known schema shape
// don't have to juggle dynamicpb.Value themselves.
package accessor

import (
	"github.com/dynproto/dynproto/dynamicpb"
)

// Reader exposes read-only, typed access to a message's fields. Every
// getter is absent-safe: a field the descriptor does not declare, or one
// that is unset, returns the zero value and false rather than an error.
// The getters do not compare the stored kind with the requested one: a
// getter of another type than the field's returns true together with
// whatever that accessor yields for the stored Value (usually a zero value).
type Reader struct {
	m *dynamicpb.Message
}

// NewReader wraps m for typed reads.
func NewReader(m *dynamicpb.Message) *Reader { return &Reader{m: m} }

// Message returns the wrapped message.
func (r *Reader) Message() *dynamicpb.Message { return r.m }

func (r *Reader) get(ref dynamicpb.FieldRef) (dynamicpb.Value, bool) {
	if r == nil || r.m == nil {
		return dynamicpb.Value{}, false
	}
	has, err := r.m.HasValue(ref)
	if err != nil || !has {
		return dynamicpb.Value{}, false
	}
	v, err := r.m.Get(ref)
	if err != nil {
		return dynamicpb.Value{}, false
	}
	return v, true
}

func (r *Reader) GetBool(ref dynamicpb.FieldRef) (bool, bool) {
	v, ok := r.get(ref)
	if !ok {
		return false, false
	}
	return v.Bool(), true
}

func (r *Reader) GetString(ref dynamicpb.FieldRef) (string, bool) {
	v, ok := r.get(ref)
	if !ok {
		return "", false
	}
	return v.String(), true
}

func (r *Reader) GetBytes(ref dynamicpb.FieldRef) ([]byte, bool) {
	v, ok := r.get(ref)
	if !ok {
		return nil, false
	}
	return v.Bytes(), true
}

func (r *Reader) GetInt32(ref dynamicpb.FieldRef) (int32, bool) {
	v, ok := r.get(ref)
	if !ok {
		return 0, false
	}
	return int32(v.Int()), true
}

func (r *Reader) GetInt64(ref dynamicpb.FieldRef) (int64, bool) {
	v, ok := r.get(ref)
	if !ok {
		return 0, false
	}
	return v.Int(), true
}

func (r *Reader) GetUint32(ref dynamicpb.FieldRef) (uint32, bool) {
	v, ok := r.get(ref)
	if !ok {
		return 0, false
	}
	return uint32(v.Uint()), true
}

func (r *Reader) GetUint64(ref dynamicpb.FieldRef) (uint64, bool) {
	v, ok := r.get(ref)
	if !ok {
		return 0, false
	}
	return v.Uint(), true
}

func (r *Reader) GetFloat32(ref dynamicpb.FieldRef) (float32, bool) {
	v, ok := r.get(ref)
	if !ok {
		return 0, false
	}
	return v.Float32(), true
}

func (r *Reader) GetFloat64(ref dynamicpb.FieldRef) (float64, bool) {
	v, ok := r.get(ref)
	if !ok {
		return 0, false
	}
	return v.Float(), true
}

func (r *Reader) GetEnum(ref dynamicpb.FieldRef) (dynamicpb.EnumValue, bool) {
	v, ok := r.get(ref)
	if !ok {
		return dynamicpb.EnumValue{}, false
	}
	return v.Enum(), true
}

func (r *Reader) GetMessage(ref dynamicpb.FieldRef) (*dynamicpb.Message, bool) {
	v, ok := r.get(ref)
	if !ok || v.Message() == nil {
		return nil, false
	}
	return v.Message(), true
}

// GetStringArray reads a repeated string field's elements.
func (r *Reader) GetStringArray(ref dynamicpb.FieldRef) ([]string, bool) {
	v, ok := r.get(ref)
	if !ok || v.List() == nil {
		return nil, false
	}
	list := v.List()
	out := make([]string, list.Len())
	for i := range out {
		out[i] = list.Get(i).String()
	}
	return out, true
}

// GetInt32Array reads a repeated int32-family field's elements.
func (r *Reader) GetInt32Array(ref dynamicpb.FieldRef) ([]int32, bool) {
	v, ok := r.get(ref)
	if !ok || v.List() == nil {
		return nil, false
	}
	list := v.List()
	out := make([]int32, list.Len())
	for i := range out {
		out[i] = int32(list.Get(i).Int())
	}
	return out, true
}

// GetMessageArray reads a repeated message field's elements.
func (r *Reader) GetMessageArray(ref dynamicpb.FieldRef) ([]*dynamicpb.Message, bool) {
	v, ok := r.get(ref)
	if !ok || v.List() == nil {
		return nil, false
	}
	list := v.List()
	out := make([]*dynamicpb.Message, list.Len())
	for i := range out {
		out[i] = list.Get(i).Message()
	}
	return out, true
}

// GetStringMap reads a string-keyed, string-valued map field into a
// plain Go map.
func (r *Reader) GetStringMap(ref dynamicpb.FieldRef) (map[string]string, bool) {
	v, ok := r.get(ref)
	if !ok || v.Map() == nil {
		return nil, false
	}
	out := make(map[string]string)
	v.Map().Range(func(k dynamicpb.MapKey, val dynamicpb.Value) bool {
		out[k.String()] = val.String()
		return true
	})
	return out, true
}

// GetStringToMessageMap reads a string-keyed, message-valued map field.
func (r *Reader) GetStringToMessageMap(ref dynamicpb.FieldRef) (map[string]*dynamicpb.Message, bool) {
	v, ok := r.get(ref)
	if !ok || v.Map() == nil {
		return nil, false
	}
	out := make(map[string]*dynamicpb.Message)
	v.Map().Range(func(k dynamicpb.MapKey, val dynamicpb.Value) bool {
		out[k.String()] = val.Message()
		return true
	})
	return out, true
}

// GetValue reads ref and type-asserts it to T, the escape hatch for
// callers who know the exact representation they want back (e.g. a raw
// dynamicpb.EnumValue or *dynamicpb.Message) without a dedicated getter.
func GetValue[T any](r *Reader, ref dynamicpb.FieldRef) (T, bool) {
	var zero T
	v, ok := r.get(ref)
	if !ok {
		return zero, false
	}
	switch any(zero).(type) {
	case bool:
		return any(v.Bool()).(T), true
	case string:
		return any(v.String()).(T), true
	case int32:
		return any(int32(v.Int())).(T), true
	case int64:
		return any(v.Int()).(T), true
	case uint32:
		return any(uint32(v.Uint())).(T), true
	case uint64:
		return any(v.Uint()).(T), true
	case float32:
		return any(v.Float32()).(T), true
	case float64:
		return any(v.Float()).(T), true
	case []byte:
		return any(v.Bytes()).(T), true
	case dynamicpb.EnumValue:
		return any(v.Enum()).(T), true
	case *dynamicpb.Message:
		return any(v.Message()).(T), true
	}
	return zero, false
}
