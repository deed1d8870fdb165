// Copyright 2026 The dynproto Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dynamicpb

import (
	"github.com/dynproto/dynproto/schema"
	"github.com/dynproto/dynproto/wire"
)

// List is the ordered value of a non-map repeated field. Order is preserved and compared on equality
type List struct {
	elemType     wire.FieldType
	elemTypeName schema.FullName
	elems        []Value
}

func newList(elemType wire.FieldType, elemTypeName schema.FullName) *List {
	return &List{elemType: elemType, elemTypeName: elemTypeName}
}

// ElemType reports the declared type of the list's elements.
func (l *List) ElemType() wire.FieldType { return l.elemType }

// ElemTypeName reports the fully-qualified type name for message/enum
// elements.
func (l *List) ElemTypeName() schema.FullName { return l.elemTypeName }

// Len returns the number of elements.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.elems)
}

// Get returns the element at index i.
func (l *List) Get(i int) Value { return l.elems[i] }

// Values returns all elements, in order.
func (l *List) Values() []Value {
	if l == nil {
		return nil
	}
	return append([]Value(nil), l.elems...)
}

func (l *List) append(v Value) {
	l.elems = append(l.elems, v)
}

func (l *List) clone() *List {
	if l == nil {
		return &List{}
	}
	out := newList(l.elemType, l.elemTypeName)
	out.elems = make([]Value, len(l.elems))
	for i, e := range l.elems {
		out.elems[i] = cloneValue(e)
	}
	return out
}
