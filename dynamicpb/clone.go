// Copyright 2026 The dynproto Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dynamicpb

// DeepClone returns an independent copy of m: mutating the clone's
// submessages, repeated fields, or map entries never affects m, and vice
// versa. The unknown-field trailer is copied verbatim.
func (m *Message) DeepClone() *Message {
	if m == nil {
		return nil
	}
	return m.cloneInto()
}

func (m *Message) cloneInto() *Message {
	out := New(m.desc)
	for num, v := range m.fields {
		out.fields[num] = cloneValue(v)
	}
	if m.unknown != nil {
		out.unknown = append([]byte(nil), m.unknown...)
	}
	return out
}

func cloneValue(v Value) Value {
	switch {
	case v.msg != nil:
		return messageValue(v.msg.cloneInto())
	case v.list != nil:
		return listValue(v.list.clone())
	case v.mp != nil:
		return mapValueOf(v.mp.clone())
	default:
		return v
	}
}
