// Copyright 2026 The dynproto Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dynamicpb implements the dynamic message: a
// descriptor-bound value container that enforces proto3 type, cardinality,
// oneof, and map-key invariants on every mutation and read. Every public
// entry point returns a structured error instead of panicking.
package dynamicpb

import (
	"math"

	"github.com/dynproto/dynproto/schema"
	"github.com/dynproto/dynproto/wire"
)

// FieldRef identifies a field by name or by number; every Message
// operation accepts either form, both validated against the descriptor
type FieldRef struct {
	name   string
	num    wire.Number
	byName bool
}

// ByName builds a FieldRef that looks a field up by its declared name.
func ByName(name string) FieldRef { return FieldRef{name: name, byName: true} }

// ByNumber builds a FieldRef that looks a field up by its wire number.
func ByNumber(num wire.Number) FieldRef { return FieldRef{num: num} }

func (r FieldRef) label() string {
	if r.byName {
		return r.name
	}
	return "#" + itoa64(int64(r.num))
}

// Message is a dynamically constructed protocol buffer message value,
// bound to a MessageDescriptor.
//
// Operations which modify a Message are not safe for concurrent use
type Message struct {
	desc    *schema.MessageDescriptor
	fields  map[wire.Number]Value
	unknown []byte
}

// New creates an empty message bound to desc.
func New(desc *schema.MessageDescriptor) *Message {
	return &Message{desc: desc, fields: make(map[wire.Number]Value)}
}

// Descriptor returns the message's descriptor.
func (m *Message) Descriptor() *schema.MessageDescriptor { return m.desc }

func (m *Message) resolve(ref FieldRef) (*schema.FieldDescriptor, error) {
	var fd *schema.FieldDescriptor
	var ok bool
	if ref.byName {
		fd, ok = m.desc.FieldByName(ref.name)
	} else {
		fd, ok = m.desc.FieldByNumber(ref.num)
	}
	if !ok {
		return nil, newFieldError(FieldNotFound, string(m.desc.FullName()), ref.label())
	}
	return fd, nil
}

func fileOf(fd *schema.FieldDescriptor) *schema.FileDescriptor {
	p := fd.Parent()
	if p == nil {
		return nil
	}
	return p.File()
}

// Get returns the value of a field: the stored value if present, else the
// descriptor's default, else the canonical zero of its type, else an
// invalid Value if no zero exists (submessage fields).
func (m *Message) Get(ref FieldRef) (Value, error) {
	fd, err := m.resolve(ref)
	if err != nil {
		return Value{}, err
	}
	if v, ok := m.fields[fd.Number()]; ok {
		return v, nil
	}
	return m.defaultFor(fd), nil
}

func (m *Message) defaultFor(fd *schema.FieldDescriptor) Value {
	switch {
	case fd.IsMap():
		mi := fd.MapInfo()
		return mapValueOf(newMap(mi.Key.Type, mi.Value.Type, mi.Value.TypeName))
	case fd.IsRepeated():
		return listValue(newList(fd.Type(), fd.TypeName()))
	}
	if fd.Default() != nil {
		if v, ok := coerce(fd.Type(), fd.TypeName(), fileOf(fd), fd.Default()); ok {
			return v
		}
	}
	return zeroValue(fd.Type())
}

func zeroValue(typ wire.FieldType) Value {
	switch typ {
	case wire.BoolType:
		return boolValue(false)
	case wire.Int32Type, wire.Sint32Type, wire.Sfixed32Type:
		return int32Value(typ, 0)
	case wire.Int64Type, wire.Sint64Type, wire.Sfixed64Type:
		return int64Value(typ, 0)
	case wire.Uint32Type, wire.Fixed32Type:
		return uint32Value(typ, 0)
	case wire.Uint64Type, wire.Fixed64Type:
		return uint64Value(typ, 0)
	case wire.FloatType:
		return floatValue(0)
	case wire.DoubleType:
		return doubleValue(0)
	case wire.StringType:
		return stringValue("")
	case wire.BytesType:
		return bytesValue(nil)
	case wire.EnumType:
		return enumValueNum(0)
	default:
		return Value{} // message/group: no zero instance, field reads as absent
	}
}

// HasValue reports whether a field is populated. Oneof members and
// explicit-presence ("optional") fields are populated as soon as they hold
// any stored value, including the zero value; other proto3 scalars follow
// classic zero-value elision; messages/maps/lists are populated when
// non-empty/present.
func (m *Message) HasValue(ref FieldRef) (bool, error) {
	fd, err := m.resolve(ref)
	if err != nil {
		return false, err
	}
	v, ok := m.fields[fd.Number()]
	if !ok {
		return false, nil
	}
	return isSet(fd, v), nil
}

func isSet(fd *schema.FieldDescriptor, v Value) bool {
	switch {
	case fd.IsMap():
		return v.Map().Len() > 0
	case fd.IsRepeated():
		return v.List().Len() > 0
	case fd.ContainingOneof() != nil:
		return true
	case fd.IsOptional():
		return true
	}
	switch fd.Type() {
	case wire.BoolType:
		return v.Bool()
	case wire.EnumType:
		return v.Enum().Number != 0
	case wire.Int32Type, wire.Sint32Type, wire.Sfixed32Type,
		wire.Int64Type, wire.Sint64Type, wire.Sfixed64Type:
		return v.Int() != 0
	case wire.Uint32Type, wire.Fixed32Type, wire.Uint64Type, wire.Fixed64Type:
		return v.Uint() != 0
	case wire.FloatType, wire.DoubleType:
		return v.Float() != 0 || math.Signbit(v.Float())
	case wire.StringType:
		return v.String() != ""
	case wire.BytesType:
		return len(v.Bytes()) > 0
	case wire.MessageType:
		return true
	}
	return true
}

// Clear unsets a field.
func (m *Message) Clear(ref FieldRef) error {
	fd, err := m.resolve(ref)
	if err != nil {
		return err
	}
	delete(m.fields, fd.Number())
	return nil
}

// Set stores a value in a singular field, or replaces the whole sequence
// of a repeated field when v is a []interface{}, or the whole mapping of a
// map field when v is a map[interface{}]interface{}. Setting any member of
// a oneof atomically clears the other members of that oneof.
func (m *Message) Set(ref FieldRef, v interface{}) error {
	fd, err := m.resolve(ref)
	if err != nil {
		return err
	}

	var val Value
	switch {
	case fd.IsMap():
		val, err = m.coerceWholeMap(fd, v)
	case fd.IsRepeated():
		val, err = m.coerceWholeList(fd, v)
	default:
		cv, ok := coerce(fd.Type(), fd.TypeName(), fileOf(fd), v)
		if !ok {
			err = mismatchError(fd, v)
		}
		val = cv
	}
	if err != nil {
		return err
	}

	m.clearOtherOneofFields(fd)
	m.fields[fd.Number()] = val
	return nil
}

func mismatchError(fd *schema.FieldDescriptor, v interface{}) error {
	if fd.Type() == wire.MessageType {
		actual := "<nil>"
		if mv, ok := v.(*Message); ok && mv != nil {
			actual = string(mv.Descriptor().FullName())
		} else if v != nil {
			actual = actualLabel(v)
		}
		return newTypeError(MessageTypeMismatch, string(fd.Parent().FullName()), fd.Name(), string(fd.TypeName()), actual)
	}
	return newTypeError(TypeMismatch, string(fd.Parent().FullName()), fd.Name(), typeLabel(fd.Type(), fd.TypeName()), actualLabel(v))
}

func (m *Message) coerceWholeList(fd *schema.FieldDescriptor, v interface{}) (Value, error) {
	items, ok := v.([]interface{})
	if !ok {
		return Value{}, newTypeError(TypeMismatch, string(fd.Parent().FullName()), fd.Name(), "[]"+typeLabel(fd.Type(), fd.TypeName()), actualLabel(v))
	}
	list := newList(fd.Type(), fd.TypeName())
	for _, item := range items {
		cv, ok := coerce(fd.Type(), fd.TypeName(), fileOf(fd), item)
		if !ok {
			return Value{}, mismatchError(fd, item)
		}
		list.append(cv)
	}
	return listValue(list), nil
}

func (m *Message) coerceWholeMap(fd *schema.FieldDescriptor, v interface{}) (Value, error) {
	items, ok := v.(map[interface{}]interface{})
	if !ok {
		return Value{}, newTypeError(TypeMismatch, string(fd.Parent().FullName()), fd.Name(), "map", actualLabel(v))
	}
	mi := fd.MapInfo()
	mp := newMap(mi.Key.Type, mi.Value.Type, mi.Value.TypeName)
	for k, val := range items {
		mk, ok := coerceMapKey(mi.Key.Type, k)
		if !ok {
			return Value{}, newTypeError(InvalidMapKeyType, string(fd.Parent().FullName()), fd.Name(), mi.Key.Type.String(), actualLabel(k))
		}
		cv, ok := coerce(mi.Value.Type, mi.Value.TypeName, fileOf(fd), val)
		if !ok {
			return Value{}, mismatchError(fd, val)
		}
		mp.set(mk, cv)
	}
	return mapValueOf(mp), nil
}

func (m *Message) clearOtherOneofFields(fd *schema.FieldDescriptor) {
	od := fd.ContainingOneof()
	if od == nil {
		return
	}
	for _, sibling := range od.Fields() {
		if sibling.Number() != fd.Number() {
			delete(m.fields, sibling.Number())
		}
	}
}

// AddRepeated appends an element to a non-map repeated field.
func (m *Message) AddRepeated(ref FieldRef, v interface{}) error {
	fd, err := m.resolve(ref)
	if err != nil {
		return err
	}
	if fd.IsMap() || !fd.IsRepeated() {
		return newFieldError(NotRepeated, string(m.desc.FullName()), fd.Name())
	}
	cv, ok := coerce(fd.Type(), fd.TypeName(), fileOf(fd), v)
	if !ok {
		return mismatchError(fd, v)
	}
	existing, ok := m.fields[fd.Number()]
	var list *List
	if ok {
		list = existing.List()
	} else {
		list = newList(fd.Type(), fd.TypeName())
	}
	list.append(cv)
	m.fields[fd.Number()] = listValue(list)
	return nil
}

// SetMapEntry inserts or replaces an entry of a map field.
func (m *Message) SetMapEntry(ref FieldRef, key, v interface{}) error {
	fd, err := m.resolve(ref)
	if err != nil {
		return err
	}
	if !fd.IsMap() {
		return newFieldError(NotMap, string(m.desc.FullName()), fd.Name())
	}
	mi := fd.MapInfo()
	mk, ok := coerceMapKey(mi.Key.Type, key)
	if !ok {
		return newTypeError(InvalidMapKeyType, string(m.desc.FullName()), fd.Name(), mi.Key.Type.String(), actualLabel(key))
	}
	cv, ok := coerce(mi.Value.Type, mi.Value.TypeName, fileOf(fd), v)
	if !ok {
		return mismatchError(fd, v)
	}
	existing, ok := m.fields[fd.Number()]
	var mp *Map
	if ok {
		mp = existing.Map()
	} else {
		mp = newMap(mi.Key.Type, mi.Value.Type, mi.Value.TypeName)
	}
	mp.set(mk, cv)
	m.fields[fd.Number()] = mapValueOf(mp)
	return nil
}

// GetUnknown returns the raw unknown-field byte trailer preserved from a
// decode, if any.
func (m *Message) GetUnknown() []byte { return m.unknown }

// SetUnknown replaces the raw unknown-field byte trailer.
func (m *Message) SetUnknown(b []byte) { m.unknown = append([]byte(nil), b...) }

// NewSubMessage allocates a fresh empty message for fd's message type,
// resolving fd's TypeName against the owning file's descriptor graph. It
// is used by the factory and the binary/JSON decoders to instantiate
// nested messages and map-entry values.
func NewSubMessage(fd *schema.FieldDescriptor) (*Message, error) {
	file := fileOf(fd)
	if file == nil {
		return nil, newFieldError(MessageTypeMismatch, "", fd.Name())
	}
	md, ok := file.ResolveMessage(fd.TypeName())
	if !ok {
		return nil, newFieldError(MessageTypeMismatch, "", fd.Name())
	}
	return New(md), nil
}

func itoa64(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
