// Copyright 2026 The dynproto Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dynamicpb

import (
	"bytes"

	"github.com/dynproto/dynproto/wire"
)

// Equal reports whether a and b are deeply equal: same descriptor, same
// set of populated fields, and recursively equal values. Two enum values
// carrying the same number but a different name/numeric provenance are
// NOT equal, since an enum set by name and one set by number are
// observably different on JSON round-trip even though they agree
// numerically. Unknown-field trailers are not compared.
func Equal(a, b *Message) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.desc.FullName() != b.desc.FullName() {
		return false
	}
	seen := make(map[uint32]bool, len(a.fields))
	for num, av := range a.fields {
		seen[uint32(num)] = true
		fd, ok := a.desc.FieldByNumber(num)
		if !ok {
			return false
		}
		aPop := isSet(fd, av)
		bv, bok := b.fields[num]
		bPop := bok && isSet(fd, bv)
		if aPop != bPop {
			return false
		}
		if !aPop {
			continue
		}
		if !valueEqual(fd.IsMap(), fd.IsRepeated(), av, bv) {
			return false
		}
	}
	for num, bv := range b.fields {
		if seen[uint32(num)] {
			continue
		}
		fd, ok := b.desc.FieldByNumber(num)
		if !ok {
			return false
		}
		if isSet(fd, bv) {
			return false
		}
	}
	return true
}

func valueEqual(isMap, isRepeated bool, a, b Value) bool {
	switch {
	case isMap:
		return mapEqual(a.Map(), b.Map())
	case isRepeated:
		return listEqual(a.List(), b.List())
	default:
		return singularEqual(a, b)
	}
}

func singularEqual(a, b Value) bool {
	if a.Type() != b.Type() {
		return false
	}
	switch a.Type() {
	case wire.MessageType:
		return Equal(a.Message(), b.Message())
	case wire.EnumType:
		return enumEqual(a.Enum(), b.Enum())
	case wire.BoolType:
		return a.Bool() == b.Bool()
	case wire.StringType:
		return a.String() == b.String()
	case wire.BytesType:
		return bytes.Equal(a.Bytes(), b.Bytes())
	case wire.Int32Type, wire.Sint32Type, wire.Sfixed32Type,
		wire.Int64Type, wire.Sint64Type, wire.Sfixed64Type:
		return a.Int() == b.Int()
	case wire.Uint32Type, wire.Fixed32Type, wire.Uint64Type, wire.Fixed64Type:
		return a.Uint() == b.Uint()
	case wire.FloatType, wire.DoubleType:
		return a.Float() == b.Float()
	}
	return false
}

func enumEqual(a, b EnumValue) bool {
	if a.Number != b.Number {
		return false
	}
	if a.ByName != b.ByName {
		return false
	}
	if a.ByName && a.Name != b.Name {
		return false
	}
	return true
}

func listEqual(a, b *List) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		av, bv := a.Get(i), b.Get(i)
		if !valueEqual(false, false, av, bv) {
			return false
		}
	}
	return true
}

func mapEqual(a, b *Map) bool {
	if a.Len() != b.Len() {
		return false
	}
	eq := true
	a.Range(func(k MapKey, av Value) bool {
		bv, ok := b.Get(k)
		if !ok || !valueEqual(false, false, av, bv) {
			eq = false
			return false
		}
		return true
	})
	return eq
}
