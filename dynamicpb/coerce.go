// Copyright 2026 The dynproto Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dynamicpb

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/dynproto/dynproto/schema"
	"github.com/dynproto/dynproto/wire"
)

// coerce converts a caller-supplied, language-neutral "opaque value" into
// the Value representation declared by typ/typeName. Every mutator on
// Message funnels through this single conversion function rather than
// each defining its own accepted-type logic.
//
// file is used to resolve an enum field's EnumDescriptor when v is
// supplied as a value name rather than a numeric tag.
func coerce(typ wire.FieldType, typeName schema.FullName, file *schema.FileDescriptor, v interface{}) (Value, bool) {
	switch typ {
	case wire.BoolType:
		b, ok := v.(bool)
		return boolValue(b), ok

	case wire.Int32Type, wire.Sint32Type, wire.Sfixed32Type:
		i, ok := asInt64(v)
		if !ok || i < math.MinInt32 || i > math.MaxInt32 {
			return Value{}, false
		}
		return int32Value(typ, int32(i)), true

	case wire.Int64Type, wire.Sint64Type, wire.Sfixed64Type:
		i, ok := asInt64(v)
		return int64Value(typ, i), ok

	case wire.Uint32Type, wire.Fixed32Type:
		u, ok := asUint64(v)
		if !ok || u > math.MaxUint32 {
			return Value{}, false
		}
		return uint32Value(typ, uint32(u)), true

	case wire.Uint64Type, wire.Fixed64Type:
		u, ok := asUint64(v)
		return uint64Value(typ, u), ok

	case wire.FloatType:
		switch x := v.(type) {
		case float32:
			return floatValue(x), true
		case float64:
			return floatValue(float32(x)), true
		}
		return Value{}, false

	case wire.DoubleType:
		switch x := v.(type) {
		case float64:
			return doubleValue(x), true
		case float32:
			return doubleValue(float64(x)), true
		}
		return Value{}, false

	case wire.StringType:
		s, ok := v.(string)
		if !ok || !utf8.ValidString(s) {
			return Value{}, false
		}
		return stringValue(s), true

	case wire.BytesType:
		b, ok := v.([]byte)
		return bytesValue(b), ok

	case wire.EnumType:
		return coerceEnum(typeName, file, v)

	case wire.MessageType:
		m, ok := v.(*Message)
		if !ok {
			return Value{}, false
		}
		if m.Descriptor().FullName() != typeName {
			return Value{}, false
		}
		return messageValue(m), true
	}
	return Value{}, false
}

func coerceEnum(typeName schema.FullName, file *schema.FileDescriptor, v interface{}) (Value, bool) {
	switch x := v.(type) {
	case int32:
		return enumValueNum(x), true
	case int, int64:
		i, _ := asInt64(x)
		if i < math.MinInt32 || i > math.MaxInt32 {
			return Value{}, false
		}
		return enumValueNum(int32(i)), true
	case string:
		if file == nil {
			return Value{}, false
		}
		ed, ok := file.ResolveEnum(typeName)
		if !ok {
			return Value{}, false
		}
		num, ok := ed.NumberByName(x)
		if !ok {
			return Value{}, false
		}
		return enumValueName(x, num), true
	case EnumValue:
		if x.ByName {
			return enumValueName(x.Name, x.Number), true
		}
		return enumValueNum(x.Number), true
	}
	return Value{}, false
}

func asInt64(v interface{}) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	}
	return 0, false
}

func asUint64(v interface{}) (uint64, bool) {
	switch x := v.(type) {
	case uint:
		return uint64(x), true
	case uint8:
		return uint64(x), true
	case uint16:
		return uint64(x), true
	case uint32:
		return uint64(x), true
	case uint64:
		return x, true
	case int, int8, int16, int32, int64:
		i, _ := asInt64(x)
		if i < 0 {
			return 0, false
		}
		return uint64(i), true
	}
	return 0, false
}

// typeLabel is the "expected"/"actual" string a TypeMismatch error reports
// for a field declared with type typ (and typeName for message, enum and
// group fields).
func typeLabel(typ wire.FieldType, typeName schema.FullName) string {
	if typ == wire.MessageType || typ == wire.EnumType || typ == wire.GroupType {
		return fmt.Sprintf("%s<%s>", typ, typeName)
	}
	return typ.String()
}

func actualLabel(v interface{}) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}
