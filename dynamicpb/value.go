// Copyright 2026 The dynproto Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dynamicpb

import "github.com/dynproto/dynproto/wire"

// EnumValue is the dual representation of a set enum field: it remembers
// whether it was last set by numeric tag or by value name, since the two
// forms are observably different on JSON round-trip and under equality
type EnumValue struct {
	Number int32
	Name   string
	ByName bool
}

// Value is the tagged value a Message stores for one scalar, enum or
// submessage field. Repeated and map fields wrap a *List or *Map instead
type Value struct {
	typ  wire.FieldType
	b    bool
	i64  int64
	u64  uint64
	f64  float64
	s    string
	by   []byte
	enum EnumValue
	msg  *Message
	list *List
	mp   *Map
}

// Type reports the FieldType this value is tagged with.
func (v Value) Type() wire.FieldType { return v.typ }

func (v Value) Bool() bool         { return v.b }
func (v Value) Int() int64         { return v.i64 }
func (v Value) Uint() uint64       { return v.u64 }
func (v Value) Float() float64     { return v.f64 }
func (v Value) String() string     { return v.s }
func (v Value) Bytes() []byte      { return v.by }
func (v Value) Enum() EnumValue    { return v.enum }
func (v Value) Message() *Message  { return v.msg }
func (v Value) List() *List        { return v.list }
func (v Value) Map() *Map          { return v.mp }
func (v Value) IsValid() bool      { return v.typ != wire.InvalidType }

func boolValue(b bool) Value    { return Value{typ: wire.BoolType, b: b} }
func int32Value(t wire.FieldType, v int32) Value { return Value{typ: t, i64: int64(v)} }
func int64Value(t wire.FieldType, v int64) Value { return Value{typ: t, i64: v} }
func uint32Value(t wire.FieldType, v uint32) Value { return Value{typ: t, u64: uint64(v)} }
func uint64Value(t wire.FieldType, v uint64) Value { return Value{typ: t, u64: v} }
func floatValue(v float32) Value  { return Value{typ: wire.FloatType, f64: float64(v)} }
func doubleValue(v float64) Value { return Value{typ: wire.DoubleType, f64: v} }
func stringValue(v string) Value  { return Value{typ: wire.StringType, s: v} }
func bytesValue(v []byte) Value   { return Value{typ: wire.BytesType, by: append([]byte(nil), v...)} }
func messageValue(m *Message) Value { return Value{typ: wire.MessageType, msg: m} }
func listValue(l *List) Value       { return Value{typ: wire.MessageType, list: l} }
func mapValueOf(m *Map) Value       { return Value{typ: wire.MessageType, mp: m} }
func enumValueNum(n int32) Value {
	return Value{typ: wire.EnumType, enum: EnumValue{Number: n}}
}
func enumValueName(name string, num int32) Value {
	return Value{typ: wire.EnumType, enum: EnumValue{Number: num, Name: name, ByName: true}}
}

// Float32 returns the value truncated to float32, for use with FloatType
// fields.
func (v Value) Float32() float32 { return float32(v.f64) }
