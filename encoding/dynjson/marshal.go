// Copyright 2026 The dynproto Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dynjson

import (
	"bytes"
	"encoding/base64"
	"math"
	"sort"
	"strconv"

	"github.com/dynproto/dynproto/dynamicpb"
	"github.com/dynproto/dynproto/schema"
	"github.com/dynproto/dynproto/wire"
	jsoniter "github.com/json-iterator/go"
)

// writer accumulates JSON text, indenting each nested level when pretty
// printing is requested. It mirrors protojson's own encoder shape: a
// handful of write* methods threading an indent depth, rather than
// building an intermediate tree first.
type writer struct {
	buf    bytes.Buffer
	indent bool
}

func (w *writer) newline(depth int) {
	if !w.indent {
		return
	}
	w.buf.WriteByte('\n')
	for i := 0; i < depth; i++ {
		w.buf.WriteString("  ")
	}
}

func (w *writer) writeString(s string) {
	b, _ := jsoniter.Marshal(s)
	w.buf.Write(b)
}

// Marshal renders m as canonical proto3 JSON.
func Marshal(m *dynamicpb.Message, opts MarshalOptions) ([]byte, error) {
	w := &writer{indent: opts.PrettyPrinted}
	if err := encodeMessage(w, m, opts, 0); err != nil {
		return nil, err
	}
	return w.buf.Bytes(), nil
}

func encodeMessage(w *writer, m *dynamicpb.Message, opts MarshalOptions, depth int) error {
	if m == nil {
		w.buf.WriteString("null")
		return nil
	}
	fields := append([]*schema.FieldDescriptor(nil), m.Descriptor().Fields()...)
	sort.Slice(fields, func(i, j int) bool { return fields[i].Number() < fields[j].Number() })

	w.buf.WriteByte('{')
	first := true
	for _, fd := range fields {
		has, err := m.HasValue(dynamicpb.ByNumber(fd.Number()))
		if err != nil {
			return err
		}
		if !has && !opts.IncludeDefaultValues {
			continue
		}
		if !has && (fd.ContainingOneof() != nil || fd.Type() == wire.MessageType) {
			// unset oneof members and unset message fields stay absent
			// even when emitting default values (they have no zero wire
			// value to show).
			continue
		}
		v, err := m.Get(dynamicpb.ByNumber(fd.Number()))
		if err != nil {
			return err
		}
		if !first {
			w.buf.WriteByte(',')
		}
		first = false
		w.newline(depth + 1)
		name := fd.JSONName()
		if opts.UseOriginalFieldNames {
			name = fd.Name()
		}
		w.writeString(name)
		w.buf.WriteByte(':')
		if w.indent {
			w.buf.WriteByte(' ')
		}
		if err := encodeFieldValue(w, fd, v, opts, depth+1); err != nil {
			return err
		}
	}
	if !first {
		w.newline(depth)
	}
	w.buf.WriteByte('}')
	return nil
}

func encodeFieldValue(w *writer, fd *schema.FieldDescriptor, v dynamicpb.Value, opts MarshalOptions, depth int) error {
	switch {
	case fd.IsMap():
		return encodeMap(w, fd, v, opts, depth)
	case fd.IsRepeated():
		return encodeList(w, fd, v, opts, depth)
	default:
		return encodeScalar(w, fd.Type(), v, opts, depth)
	}
}

func encodeList(w *writer, fd *schema.FieldDescriptor, v dynamicpb.Value, opts MarshalOptions, depth int) error {
	list := v.List()
	if list == nil || list.Len() == 0 {
		w.buf.WriteString("[]")
		return nil
	}
	w.buf.WriteByte('[')
	for i := 0; i < list.Len(); i++ {
		if i > 0 {
			w.buf.WriteByte(',')
		}
		w.newline(depth + 1)
		if err := encodeScalar(w, fd.Type(), list.Get(i), opts, depth+1); err != nil {
			return err
		}
	}
	w.newline(depth)
	w.buf.WriteByte(']')
	return nil
}

func encodeMap(w *writer, fd *schema.FieldDescriptor, v dynamicpb.Value, opts MarshalOptions, depth int) error {
	mp := v.Map()
	if mp == nil || mp.Len() == 0 {
		w.buf.WriteString("{}")
		return nil
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
	sort.Slice(entries, func(i, j int) bool { return entries[i].k.Text() < entries[j].k.Text() })

	w.buf.WriteByte('{')
	for i, e := range entries {
		if i > 0 {
			w.buf.WriteByte(',')
		}
		w.newline(depth + 1)
		w.writeString(e.k.Text())
		w.buf.WriteByte(':')
		if w.indent {
			w.buf.WriteByte(' ')
		}
		if err := encodeScalar(w, mi.Value.Type, e.v, opts, depth+1); err != nil {
			return err
		}
	}
	w.newline(depth)
	w.buf.WriteByte('}')
	return nil
}

func encodeScalar(w *writer, typ wire.FieldType, v dynamicpb.Value, opts MarshalOptions, depth int) error {
	switch typ {
	case wire.BoolType:
		if v.Bool() {
			w.buf.WriteString("true")
		} else {
			w.buf.WriteString("false")
		}
	case wire.Int32Type, wire.Sint32Type, wire.Sfixed32Type:
		w.buf.WriteString(strconv.FormatInt(v.Int(), 10))
	case wire.Uint32Type, wire.Fixed32Type:
		w.buf.WriteString(strconv.FormatUint(v.Uint(), 10))
	case wire.Int64Type, wire.Sint64Type, wire.Sfixed64Type:
		w.writeString(strconv.FormatInt(v.Int(), 10))
	case wire.Uint64Type, wire.Fixed64Type:
		w.writeString(strconv.FormatUint(v.Uint(), 10))
	case wire.FloatType:
		writeFloat(w, float64(v.Float32()), 32)
	case wire.DoubleType:
		writeFloat(w, v.Float(), 64)
	case wire.StringType:
		w.writeString(v.String())
	case wire.BytesType:
		w.writeString(base64.StdEncoding.EncodeToString(v.Bytes()))
	case wire.EnumType:
		w.buf.WriteString(strconv.FormatInt(int64(v.Enum().Number), 10))
	case wire.MessageType:
		return encodeMessage(w, v.Message(), opts, depth)
	default:
		return newFieldErr(InvalidFieldType, "", typ.String())
	}
	return nil
}

func writeFloat(w *writer, f float64, bits int) {
	switch {
	case math.IsNaN(f):
		w.writeString("NaN")
	case math.IsInf(f, 1):
		w.writeString("Infinity")
	case math.IsInf(f, -1):
		w.writeString("-Infinity")
	default:
		w.buf.WriteString(strconv.FormatFloat(f, 'g', -1, bits))
	}
}
