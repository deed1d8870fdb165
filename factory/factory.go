// Copyright 2026 The dynproto Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package factory constructs and audits dynamic messages: empty or
// field-seeded creation, deep cloning, a recursive proto2-style
// required-field validator, and a source-into-destination merge. It
// never mutates descriptors; it only produces and inspects
// dynamicpb.Message values.
package factory

import (
	"strconv"

	"github.com/dynproto/dynproto/dynamicpb"
	"github.com/dynproto/dynproto/schema"
	"github.com/dynproto/dynproto/wire"
)

// New returns an empty message bound to desc.
func New(desc *schema.MessageDescriptor) *dynamicpb.Message {
	return dynamicpb.New(desc)
}

// NewSeeded returns a message bound to desc with every entry of seed
// applied through Message.Set, keyed by field name or, for wire.Number
// keys, by field number. The first failing field aborts construction and
// no partially seeded message is returned.
func NewSeeded(desc *schema.MessageDescriptor, seed map[interface{}]interface{}) (*dynamicpb.Message, error) {
	m := dynamicpb.New(desc)
	for k, v := range seed {
		ref, field, err := refFor(k)
		if err != nil {
			return nil, err
		}
		if err := m.Set(ref, v); err != nil {
			return nil, newError("NewSeeded", field, err)
		}
	}
	return m, nil
}

func refFor(k interface{}) (dynamicpb.FieldRef, string, error) {
	switch x := k.(type) {
	case string:
		return dynamicpb.ByName(x), x, nil
	case wire.Number:
		return dynamicpb.ByNumber(x), strconv.Itoa(int(x)), nil
	case int:
		return dynamicpb.ByNumber(wire.Number(x)), strconv.Itoa(x), nil
	default:
		return dynamicpb.FieldRef{}, "", newError("NewSeeded", "<seed-key>", errUnsupportedSeedKey)
	}
}

// Clone returns an independent deep copy of m.
func Clone(m *dynamicpb.Message) *dynamicpb.Message {
	return m.DeepClone()
}

// Validate performs a recursive proto2-style required-field audit.
// Proto3 messages, which declare no required fields, always validate.
func Validate(m *dynamicpb.Message) ValidationResult {
	var issues []ValidationIssue
	for _, fd := range m.Descriptor().Fields() {
		if fd.IsRequired() {
			has, err := m.HasValue(dynamicpb.ByNumber(fd.Number()))
			if err != nil {
				issues = append(issues, ValidationIssue{Kind: ValidationError, Field: fd.Name(), Cause: err})
				continue
			}
			if !has {
				issues = append(issues, ValidationIssue{Kind: MissingRequiredField, Field: fd.Name()})
				continue
			}
		}
		if issue, ok := validateNested(m, fd); ok {
			issues = append(issues, issue)
		}
	}
	return ValidationResult{IsValid: len(issues) == 0, Errors: issues}
}

func validateNested(m *dynamicpb.Message, fd *schema.FieldDescriptor) (ValidationIssue, bool) {
	if fd.Type() != wire.MessageType {
		return ValidationIssue{}, false
	}
	v, err := m.Get(dynamicpb.ByNumber(fd.Number()))
	if err != nil {
		return ValidationIssue{Kind: ValidationError, Field: fd.Name(), Cause: err}, true
	}

	switch {
	case fd.IsMap():
		if v.Map().Len() == 0 {
			return ValidationIssue{}, false
		}
		var nested []ValidationIssue
		v.Map().Range(func(k dynamicpb.MapKey, ev dynamicpb.Value) bool {
			if ev.Message() == nil {
				return true
			}
			res := Validate(ev.Message())
			if !res.IsValid {
				nested = append(nested, ValidationIssue{Kind: MapFieldValidationFailed, Field: fd.Name(), Key: k.Text(), Nested: res.Errors})
			}
			return true
		})
		if len(nested) == 0 {
			return ValidationIssue{}, false
		}
		return ValidationIssue{Kind: MapFieldValidationFailed, Field: fd.Name(), Nested: nested}, true

	case fd.IsRepeated():
		list := v.List()
		var nested []ValidationIssue
		for i := 0; i < list.Len(); i++ {
			elem := list.Get(i)
			if elem.Message() == nil {
				continue
			}
			res := Validate(elem.Message())
			if !res.IsValid {
				nested = append(nested, ValidationIssue{Kind: RepeatedFieldValidationFailed, Field: fd.Name(), Index: i, Nested: res.Errors})
			}
		}
		if len(nested) == 0 {
			return ValidationIssue{}, false
		}
		return ValidationIssue{Kind: RepeatedFieldValidationFailed, Field: fd.Name(), Nested: nested}, true

	default:
		if v.Message() == nil {
			return ValidationIssue{}, false
		}
		res := Validate(v.Message())
		if res.IsValid {
			return ValidationIssue{}, false
		}
		return ValidationIssue{Kind: NestedMessageValidationFailed, Field: fd.Name(), Nested: res.Errors}, true
	}
}

// Merge copies every populated field of src into dst: singular scalar
// fields are overwritten, singular message fields are recursively merged,
// repeated fields are appended, and map entries are overwritten key by
// key. dst and src must share the same message descriptor.
func Merge(dst, src *dynamicpb.Message) error {
	if dst.Descriptor().FullName() != src.Descriptor().FullName() {
		return newError("Merge", "<message>", errDescriptorMismatch)
	}
	for _, fd := range src.Descriptor().Fields() {
		has, err := src.HasValue(dynamicpb.ByNumber(fd.Number()))
		if err != nil {
			return newError("Merge", fd.Name(), err)
		}
		if !has {
			continue
		}
		sv, err := src.Get(dynamicpb.ByNumber(fd.Number()))
		if err != nil {
			return newError("Merge", fd.Name(), err)
		}

		switch {
		case fd.IsMap():
			if err := mergeMap(dst, fd, sv); err != nil {
				return err
			}
		case fd.IsRepeated():
			if err := mergeRepeated(dst, fd, sv); err != nil {
				return err
			}
		case fd.Type() == wire.MessageType:
			if err := mergeMessage(dst, fd, sv); err != nil {
				return err
			}
		default:
			if err := dst.Set(dynamicpb.ByNumber(fd.Number()), scalarInterface(sv)); err != nil {
				return newError("Merge", fd.Name(), err)
			}
		}
	}
	return nil
}

func mergeMessage(dst *dynamicpb.Message, fd *schema.FieldDescriptor, sv dynamicpb.Value) error {
	dstHas, err := dst.HasValue(dynamicpb.ByNumber(fd.Number()))
	if err != nil {
		return newError("Merge", fd.Name(), err)
	}
	if !dstHas {
		return dst.Set(dynamicpb.ByNumber(fd.Number()), sv.Message().DeepClone())
	}
	dv, err := dst.Get(dynamicpb.ByNumber(fd.Number()))
	if err != nil {
		return newError("Merge", fd.Name(), err)
	}
	if dv.Message() == nil {
		return dst.Set(dynamicpb.ByNumber(fd.Number()), sv.Message().DeepClone())
	}
	return Merge(dv.Message(), sv.Message())
}

func mergeRepeated(dst *dynamicpb.Message, fd *schema.FieldDescriptor, sv dynamicpb.Value) error {
	list := sv.List()
	for i := 0; i < list.Len(); i++ {
		elem := list.Get(i)
		arg := scalarInterface(elem)
		if elem.Message() != nil {
			arg = elem.Message().DeepClone()
		}
		if err := dst.AddRepeated(dynamicpb.ByNumber(fd.Number()), arg); err != nil {
			return newError("Merge", fd.Name(), err)
		}
	}
	return nil
}

func mergeMap(dst *dynamicpb.Message, fd *schema.FieldDescriptor, sv dynamicpb.Value) error {
	var outerErr error
	sv.Map().Range(func(k dynamicpb.MapKey, ev dynamicpb.Value) bool {
		arg := scalarInterface(ev)
		if ev.Message() != nil {
			arg = ev.Message().DeepClone()
		}
		if err := dst.SetMapEntry(dynamicpb.ByNumber(fd.Number()), mapKeyInterface(k), arg); err != nil {
			outerErr = newError("Merge", fd.Name(), err)
			return false
		}
		return true
	})
	return outerErr
}

func mapKeyInterface(k dynamicpb.MapKey) interface{} {
	switch k.Type() {
	case wire.BoolType:
		return k.Bool()
	case wire.StringType:
		return k.String()
	case wire.Uint32Type, wire.Uint64Type, wire.Fixed32Type, wire.Fixed64Type:
		return k.Uint()
	default:
		return k.Int()
	}
}

func scalarInterface(v dynamicpb.Value) interface{} {
	switch v.Type() {
	case wire.BoolType:
		return v.Bool()
	case wire.StringType:
		return v.String()
	case wire.BytesType:
		return v.Bytes()
	case wire.EnumType:
		return v.Enum()
	case wire.FloatType:
		return v.Float32()
	case wire.DoubleType:
		return v.Float()
	case wire.Uint32Type, wire.Fixed32Type, wire.Uint64Type, wire.Fixed64Type:
		return v.Uint()
	default:
		return v.Int()
	}
}
