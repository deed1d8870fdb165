// Copyright 2026 The dynproto Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dynamicpb

import (
	"fmt"
	"unicode/utf8"

	"github.com/dynproto/dynproto/schema"
	"github.com/dynproto/dynproto/wire"
)

// MapKey is a resolved, comparable map key of an integral, bool or string
// kind.
type MapKey struct {
	typ wire.FieldType
	i   int64
	u   uint64
	s   string
	b   bool
}

// AsValue returns k as a singular Value of its declared type, for codecs
// that need to encode a map key through the same per-type payload logic
// used for ordinary scalar fields.
func (k MapKey) AsValue() Value {
	switch k.typ {
	case wire.BoolType:
		return boolValue(k.b)
	case wire.StringType:
		return stringValue(k.s)
	case wire.Uint32Type, wire.Fixed32Type, wire.Uint64Type, wire.Fixed64Type:
		return uint64Value(k.typ, k.u)
	default:
		return int64Value(k.typ, k.i)
	}
}

func (k MapKey) Type() wire.FieldType { return k.typ }
func (k MapKey) Int() int64           { return k.i }
func (k MapKey) Uint() uint64         { return k.u }
func (k MapKey) String() string       { return k.s }
func (k MapKey) Bool() bool           { return k.b }

// Text returns the key as the canonical text form keys take in JSON:
// decimal for integers, "true"/"false" for bools, the string itself for
// strings.
func (k MapKey) Text() string {
	switch k.typ {
	case wire.BoolType:
		if k.b {
			return "true"
		}
		return "false"
	case wire.StringType:
		return k.s
	case wire.Uint32Type, wire.Uint64Type, wire.Fixed32Type, wire.Fixed64Type:
		return fmt.Sprintf("%d", k.u)
	default:
		return fmt.Sprintf("%d", k.i)
	}
}

// coerceMapKey converts a caller value into a MapKey of the declared key
// type. Only integral, bool, and string key types are legal (enforced at
// descriptor-build time by schema.AddField).
func coerceMapKey(keyType wire.FieldType, v interface{}) (MapKey, bool) {
	switch keyType {
	case wire.BoolType:
		b, ok := v.(bool)
		return MapKey{typ: keyType, b: b}, ok
	case wire.StringType:
		s, ok := v.(string)
		if !ok || !utf8.ValidString(s) {
			return MapKey{}, false
		}
		return MapKey{typ: keyType, s: s}, true
	case wire.Int32Type, wire.Sint32Type, wire.Sfixed32Type:
		i, ok := asInt64(v)
		if !ok || i < -1<<31 || i > 1<<31-1 {
			return MapKey{}, false
		}
		return MapKey{typ: keyType, i: i}, true
	case wire.Int64Type, wire.Sint64Type, wire.Sfixed64Type:
		i, ok := asInt64(v)
		return MapKey{typ: keyType, i: i}, ok
	case wire.Uint32Type, wire.Fixed32Type:
		u, ok := asUint64(v)
		if !ok || u > 1<<32-1 {
			return MapKey{}, false
		}
		return MapKey{typ: keyType, u: u}, true
	case wire.Uint64Type, wire.Fixed64Type:
		u, ok := asUint64(v)
		return MapKey{typ: keyType, u: u}, ok
	}
	return MapKey{}, false
}

// Map is the value of a map field: a (key_kind -> value_kind) mapping with
// unique keys. Iteration order is undefined; equality
// treats maps as unordered key/value sets.
type Map struct {
	keyType      wire.FieldType
	valType      wire.FieldType
	valTypeName  schema.FullName
	entries      map[MapKey]Value
	order        []MapKey
}

func newMap(keyType, valType wire.FieldType, valTypeName schema.FullName) *Map {
	return &Map{keyType: keyType, valType: valType, valTypeName: valTypeName, entries: make(map[MapKey]Value)}
}

// KeyType reports the declared key type.
func (m *Map) KeyType() wire.FieldType { return m.keyType }

// ValueType reports the declared value type.
func (m *Map) ValueType() wire.FieldType { return m.valType }

// ValueTypeName reports the fully-qualified type name for message/enum
// values.
func (m *Map) ValueTypeName() schema.FullName { return m.valTypeName }

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Get returns the value for k, if present.
func (m *Map) Get(k MapKey) (Value, bool) {
	if m == nil {
		return Value{}, false
	}
	v, ok := m.entries[k]
	return v, ok
}

// Range visits every entry in an unspecified order.
func (m *Map) Range(f func(MapKey, Value) bool) {
	if m == nil {
		return
	}
	for _, k := range m.order {
		if v, ok := m.entries[k]; ok {
			if !f(k, v) {
				return
			}
		}
	}
}

// set inserts or replaces the entry for k.
func (m *Map) set(k MapKey, v Value) {
	if _, exists := m.entries[k]; !exists {
		m.order = append(m.order, k)
	}
	m.entries[k] = v
}

func (m *Map) clone() *Map {
	out := newMap(m.keyType, m.valType, m.valTypeName)
	for _, k := range m.order {
		out.order = append(out.order, k)
		out.entries[k] = cloneValue(m.entries[k])
	}
	return out
}
