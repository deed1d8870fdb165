// Copyright 2026 The dynproto Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package accessor

import "github.com/dynproto/dynproto/dynamicpb"

// Writer exposes typed, boolean-result mutation of a message's fields.
// A false return means the assignment was rejected (wrong field, wrong
// type, or a map/list operation against a singular field); the message
// is left unchanged.
type Writer struct {
	m *dynamicpb.Message
}

// NewWriter wraps m for typed writes.
func NewWriter(m *dynamicpb.Message) *Writer { return &Writer{m: m} }

// Message returns the wrapped message.
func (w *Writer) Message() *dynamicpb.Message { return w.m }

func (w *Writer) SetBool(ref dynamicpb.FieldRef, v bool) bool       { return w.set(ref, v) }
func (w *Writer) SetString(ref dynamicpb.FieldRef, v string) bool   { return w.set(ref, v) }
func (w *Writer) SetBytes(ref dynamicpb.FieldRef, v []byte) bool    { return w.set(ref, v) }
func (w *Writer) SetInt32(ref dynamicpb.FieldRef, v int32) bool     { return w.set(ref, v) }
func (w *Writer) SetInt64(ref dynamicpb.FieldRef, v int64) bool     { return w.set(ref, v) }
func (w *Writer) SetUint32(ref dynamicpb.FieldRef, v uint32) bool   { return w.set(ref, v) }
func (w *Writer) SetUint64(ref dynamicpb.FieldRef, v uint64) bool   { return w.set(ref, v) }
func (w *Writer) SetFloat32(ref dynamicpb.FieldRef, v float32) bool { return w.set(ref, v) }
func (w *Writer) SetFloat64(ref dynamicpb.FieldRef, v float64) bool { return w.set(ref, v) }
func (w *Writer) SetEnumByNumber(ref dynamicpb.FieldRef, n int32) bool { return w.set(ref, n) }
func (w *Writer) SetEnumByName(ref dynamicpb.FieldRef, name string) bool { return w.set(ref, name) }
func (w *Writer) SetMessage(ref dynamicpb.FieldRef, v *dynamicpb.Message) bool {
	return w.set(ref, v)
}

func (w *Writer) set(ref dynamicpb.FieldRef, v interface{}) bool {
	if w == nil || w.m == nil {
		return false
	}
	return w.m.Set(ref, v) == nil
}

// AppendString appends an element to a repeated string field.
func (w *Writer) AppendString(ref dynamicpb.FieldRef, v string) bool { return w.appendRepeated(ref, v) }

// AppendInt32 appends an element to a repeated int32-family field.
func (w *Writer) AppendInt32(ref dynamicpb.FieldRef, v int32) bool { return w.appendRepeated(ref, v) }

// AppendMessage appends an element to a repeated message field.
func (w *Writer) AppendMessage(ref dynamicpb.FieldRef, v *dynamicpb.Message) bool {
	return w.appendRepeated(ref, v)
}

func (w *Writer) appendRepeated(ref dynamicpb.FieldRef, v interface{}) bool {
	if w == nil || w.m == nil {
		return false
	}
	return w.m.AddRepeated(ref, v) == nil
}

// PutMapEntry inserts or replaces one entry of a map field.
func (w *Writer) PutMapEntry(ref dynamicpb.FieldRef, key, val interface{}) bool {
	if w == nil || w.m == nil {
		return false
	}
	return w.m.SetMapEntry(ref, key, val) == nil
}

// Clear removes a field's value, restoring implicit presence semantics.
func (w *Writer) Clear(ref dynamicpb.FieldRef) bool {
	if w == nil || w.m == nil {
		return false
	}
	return w.m.Clear(ref) == nil
}
