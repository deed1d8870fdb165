// Copyright 2026 The dynproto Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dynamicpb

import (
	"github.com/google/go-cmp/cmp"

	"github.com/dynproto/dynproto/wire"
)

// snapshot is a plain, cmp-comparable projection of a message's populated
// fields, keyed by field number. Values are copied out to ordinary Go
// kinds (nested messages become nested snapshots) so cmp.Diff can walk
// them without reaching into dynamicpb's internal Value representation.
type snapshot map[int32]interface{}

// Diff renders a human-readable field-by-field difference between a and
// b, in the style of protocmp.Diff: convert each message to a plain,
// comparable tree first, then let cmp produce the report. An empty
// string means the messages are equal.
func Diff(a, b *Message) string {
	return cmp.Diff(snapshotOf(a), snapshotOf(b))
}

func snapshotOf(m *Message) snapshot {
	if m == nil {
		return nil
	}
	out := make(snapshot, len(m.fields))
	for num, v := range m.fields {
		fd, ok := m.desc.FieldByNumber(num)
		if !ok || !isSet(fd, v) {
			continue
		}
		out[int32(num)] = snapshotValue(fd.IsMap(), fd.IsRepeated(), v)
	}
	return out
}

func snapshotValue(isMap, isRepeated bool, v Value) interface{} {
	switch {
	case isMap:
		mp := v.Map()
		if mp == nil {
			return nil
		}
		out := make(map[string]interface{}, mp.Len())
		mp.Range(func(k MapKey, val Value) bool {
			out[k.Text()] = snapshotValue(false, false, val)
			return true
		})
		return out
	case isRepeated:
		list := v.List()
		if list == nil {
			return nil
		}
		out := make([]interface{}, list.Len())
		for i := range out {
			out[i] = snapshotValue(false, false, list.Get(i))
		}
		return out
	default:
		return snapshotScalar(v)
	}
}

func snapshotScalar(v Value) interface{} {
	switch v.Type() {
	case wire.MessageType:
		return snapshotOf(v.Message())
	case wire.EnumType:
		return v.Enum()
	case wire.BoolType:
		return v.Bool()
	case wire.StringType:
		return v.String()
	case wire.BytesType:
		return string(v.Bytes())
	case wire.FloatType, wire.DoubleType:
		return v.Float()
	case wire.Uint32Type, wire.Fixed32Type, wire.Uint64Type, wire.Fixed64Type:
		return v.Uint()
	default:
		return v.Int()
	}
}
