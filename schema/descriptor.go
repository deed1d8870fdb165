// Copyright 2026 The dynproto Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package schema implements the descriptor model: the
// typed, self-consistent schema graph (file -> message/enum ->
// field/oneof/map-entry) that a DynamicMessage is bound to. Descriptors
// are built once by a single initializing goroutine and are logically
// frozen from the moment any message or codec references them.
package schema

import (
	"strings"

	"github.com/dynproto/dynproto/wire"
)

// FullName is a dotted, fully-qualified proto type name such as
// "my.pkg.Outer.Inner".
type FullName string

// Append returns the fully-qualified name of a child named name.
func (n FullName) Append(name string) FullName {
	if n == "" {
		return FullName(name)
	}
	return FullName(string(n) + "." + name)
}

// FileDescriptor is the root of a schema graph: a named, packaged
// collection of top-level messages and enums.
type FileDescriptor struct {
	name    string
	pkg     string
	msgsByN map[string]*MessageDescriptor
	msgsByF map[FullName]*MessageDescriptor
	enmByN  map[string]*EnumDescriptor
	enmByF  map[FullName]*EnumDescriptor
	// order preserves insertion order for deterministic iteration/tests.
	msgOrder []*MessageDescriptor
	enmOrder []*EnumDescriptor
}

// NewFile creates an empty FileDescriptor. name is the logical filename
// (e.g. "orders.proto"); pkg is the dotted proto package, or "" for the
// default package.
func NewFile(name, pkg string) *FileDescriptor {
	return &FileDescriptor{
		name:    name,
		pkg:     pkg,
		msgsByN: make(map[string]*MessageDescriptor),
		msgsByF: make(map[FullName]*MessageDescriptor),
		enmByN:  make(map[string]*EnumDescriptor),
		enmByF:  make(map[FullName]*EnumDescriptor),
	}
}

func (f *FileDescriptor) Name() string    { return f.name }
func (f *FileDescriptor) Package() string { return f.pkg }

// fullNameOf computes the fully-qualified name of a top-level child of
// this file: "package.name" if a package is set, else bare "name".
func (f *FileDescriptor) fullNameOf(name string) FullName {
	return FullName(f.pkg).Append(name)
}

// AddMessage declares a new top-level message in this file.
func (f *FileDescriptor) AddMessage(name string) (*MessageDescriptor, error) {
	if _, dup := f.msgsByN[name]; dup {
		return nil, newError(DuplicateName, f.name, name)
	}
	if _, dup := f.enmByN[name]; dup {
		return nil, newError(DuplicateName, f.name, name)
	}
	md := newMessageDescriptor(name, f.fullNameOf(name), f, nil)
	f.msgsByN[name] = md
	f.msgsByF[md.fullName] = md
	f.msgOrder = append(f.msgOrder, md)
	return md, nil
}

// AddEnum declares a new top-level enum in this file.
func (f *FileDescriptor) AddEnum(name string, values []EnumValue) (*EnumDescriptor, error) {
	if _, dup := f.msgsByN[name]; dup {
		return nil, newError(DuplicateName, f.name, name)
	}
	if _, dup := f.enmByN[name]; dup {
		return nil, newError(DuplicateName, f.name, name)
	}
	ed, err := newEnumDescriptor(name, f.fullNameOf(name), f, nil, values)
	if err != nil {
		return nil, err
	}
	f.enmByN[name] = ed
	f.enmByF[ed.fullName] = ed
	f.enmOrder = append(f.enmOrder, ed)
	return ed, nil
}

// MessageByName looks up a top-level message by its simple name.
func (f *FileDescriptor) MessageByName(name string) (*MessageDescriptor, bool) {
	md, ok := f.msgsByN[name]
	return md, ok
}

// ResolveMessage looks up any message declared in this file (top-level or
// nested) by its fully-qualified name. Lookups for unknown names return
// false, not an error.
func (f *FileDescriptor) ResolveMessage(full FullName) (*MessageDescriptor, bool) {
	md, ok := f.msgsByF[full]
	return md, ok
}

// ResolveEnum looks up any enum declared in this file by its
// fully-qualified name.
func (f *FileDescriptor) ResolveEnum(full FullName) (*EnumDescriptor, bool) {
	ed, ok := f.enmByF[full]
	return ed, ok
}

// Messages returns the top-level messages in declaration order.
func (f *FileDescriptor) Messages() []*MessageDescriptor { return append([]*MessageDescriptor(nil), f.msgOrder...) }

// Enums returns the top-level enums in declaration order.
func (f *FileDescriptor) Enums() []*EnumDescriptor { return append([]*EnumDescriptor(nil), f.enmOrder...) }

// registerNested records a nested message/enum's full name in the file's
// global index so ResolveMessage/ResolveEnum see it regardless of depth.
func (f *FileDescriptor) registerNested(md *MessageDescriptor) {
	f.msgsByF[md.fullName] = md
}
func (f *FileDescriptor) registerNestedEnum(ed *EnumDescriptor) {
	f.enmByF[ed.fullName] = ed
}

// MessageDescriptor is the schema for one message type: its fields (by
// name and by number, both unique within the message), its oneofs, and any
// nested messages/enums.
type MessageDescriptor struct {
	name     string
	fullName FullName
	file     *FileDescriptor
	parent   *MessageDescriptor // nil for top-level messages

	fieldsByN map[string]*FieldDescriptor
	fieldsByI map[wire.Number]*FieldDescriptor
	fieldOrd  []*FieldDescriptor

	oneofsByN map[string]*OneofDescriptor
	oneofOrd  []*OneofDescriptor

	nestedMsg map[string]*MessageDescriptor
	nestedEnm map[string]*EnumDescriptor

	isMapEntry bool
}

func newMessageDescriptor(name string, full FullName, file *FileDescriptor, parent *MessageDescriptor) *MessageDescriptor {
	return &MessageDescriptor{
		name:      name,
		fullName:  full,
		file:      file,
		parent:    parent,
		fieldsByN: make(map[string]*FieldDescriptor),
		fieldsByI: make(map[wire.Number]*FieldDescriptor),
		oneofsByN: make(map[string]*OneofDescriptor),
		nestedMsg: make(map[string]*MessageDescriptor),
		nestedEnm: make(map[string]*EnumDescriptor),
	}
}

func (m *MessageDescriptor) Name() string         { return m.name }
func (m *MessageDescriptor) FullName() FullName    { return m.fullName }
func (m *MessageDescriptor) File() *FileDescriptor { return m.file }

// Parent returns the enclosing message, or nil if m is a top-level message.
// It is a lookup-only reference, not an ownership edge.
func (m *MessageDescriptor) Parent() *MessageDescriptor { return m.parent }

// IsMapEntry reports whether m is a synthesized {key=1, value=2} map entry
// message.
func (m *MessageDescriptor) IsMapEntry() bool { return m.isMapEntry }

// AddMessage declares a nested message type.
func (m *MessageDescriptor) AddMessage(name string) (*MessageDescriptor, error) {
	if _, dup := m.nestedMsg[name]; dup {
		return nil, newError(DuplicateName, string(m.fullName), name)
	}
	if _, dup := m.nestedEnm[name]; dup {
		return nil, newError(DuplicateName, string(m.fullName), name)
	}
	nd := newMessageDescriptor(name, m.fullName.Append(name), m.file, m)
	m.nestedMsg[name] = nd
	m.file.registerNested(nd)
	return nd, nil
}

// AddEnum declares a nested enum type.
func (m *MessageDescriptor) AddEnum(name string, values []EnumValue) (*EnumDescriptor, error) {
	if _, dup := m.nestedMsg[name]; dup {
		return nil, newError(DuplicateName, string(m.fullName), name)
	}
	if _, dup := m.nestedEnm[name]; dup {
		return nil, newError(DuplicateName, string(m.fullName), name)
	}
	ed, err := newEnumDescriptor(name, m.fullName.Append(name), m.file, m, values)
	if err != nil {
		return nil, err
	}
	m.nestedEnm[name] = ed
	m.file.registerNestedEnum(ed)
	return ed, nil
}

// AddOneof declares a new oneof group. Fields join it via
// FieldConfig.OneofIndex.
func (m *MessageDescriptor) AddOneof(name string) (*OneofDescriptor, error) {
	if _, dup := m.oneofsByN[name]; dup {
		return nil, newError(DuplicateName, string(m.fullName), name)
	}
	od := &OneofDescriptor{name: name, parent: m, index: len(m.oneofOrd)}
	m.oneofsByN[name] = od
	m.oneofOrd = append(m.oneofOrd, od)
	return od, nil
}

// FieldConfig describes a field to add via AddField.
type FieldConfig struct {
	Name     string
	Number   wire.Number
	Type     wire.FieldType
	TypeName FullName // required when Type is MessageType, EnumType or GroupType

	Repeated bool
	Optional bool // proto3 "optional" (explicit presence)
	Required bool // proto2-legacy, surfaced only via validator

	JSONName string // defaults to lowerCamelCase(Name) if empty

	OneofIndex int // 1-based; 0 means "not in a oneof"

	IsMap  bool
	MapKey *KeyFieldInfo   // required if IsMap
	MapVal *ValueFieldInfo // required if IsMap

	Default interface{} // optional descriptor default value
}

// KeyFieldInfo describes a map field's key. Map keys are restricted to
// integral, bool, or string field types.
type KeyFieldInfo struct {
	Type wire.FieldType
}

// ValueFieldInfo describes a map field's value. Values may be any type
// except map and group.
type ValueFieldInfo struct {
	Type     wire.FieldType
	TypeName FullName
}

// MapEntryInfo is the synthesized {key=1, value=2} schema for a map field
type MapEntryInfo struct {
	Key   KeyFieldInfo
	Value ValueFieldInfo
	Entry *MessageDescriptor // the synthesized two-field entry message
}

// FieldDescriptor is the schema for one field of a message.
type FieldDescriptor struct {
	name       string
	jsonName   string
	number     wire.Number
	typ        wire.FieldType
	typeName   FullName
	repeated   bool
	optional   bool
	required   bool
	oneof      *OneofDescriptor
	isMap      bool
	mapInfo    *MapEntryInfo
	defaultVal interface{}
	parent     *MessageDescriptor
	index      int
}

// AddField declares a new field on m per the FieldConfig. Preconditions:
// name and number are unique within m; if Type is message/enum/group,
// TypeName is set; if IsMap, MapKey/MapVal are set and the field is
// internally repeated.
func (m *MessageDescriptor) AddField(cfg FieldConfig) (*FieldDescriptor, error) {
	if cfg.Name == "" {
		return nil, newError(DuplicateName, string(m.fullName), "<empty>")
	}
	if _, dup := m.fieldsByN[cfg.Name]; dup {
		return nil, newError(DuplicateName, string(m.fullName), cfg.Name)
	}
	if _, dup := m.fieldsByI[cfg.Number]; dup {
		return nil, newError(DuplicateFieldNumber, string(m.fullName), itoa(int(cfg.Number)))
	}
	if !wire.IsValidNumber(cfg.Number) {
		return nil, newError(InvalidFieldNumber, string(m.fullName), itoa(int(cfg.Number)))
	}
	if !cfg.Type.IsValid() {
		return nil, newError(MissingTypeName, string(m.fullName), cfg.Name)
	}
	if cfg.Type == wire.MessageType || cfg.Type == wire.EnumType || cfg.Type == wire.GroupType {
		if cfg.TypeName == "" {
			return nil, newError(MissingTypeName, string(m.fullName), cfg.Name)
		}
	}

	var od *OneofDescriptor
	if cfg.OneofIndex > 0 {
		if cfg.OneofIndex > len(m.oneofOrd) {
			return nil, newError(UnknownOneofIndex, string(m.fullName), itoa(cfg.OneofIndex))
		}
		od = m.oneofOrd[cfg.OneofIndex-1]
	}

	fd := &FieldDescriptor{
		name:       cfg.Name,
		jsonName:   cfg.JSONName,
		number:     cfg.Number,
		typ:        cfg.Type,
		typeName:   cfg.TypeName,
		repeated:   cfg.Repeated,
		optional:   cfg.Optional,
		required:   cfg.Required,
		oneof:      od,
		defaultVal: cfg.Default,
		parent:     m,
		index:      len(m.fieldOrd),
	}
	if fd.jsonName == "" {
		fd.jsonName = JSONName(cfg.Name)
	}

	if cfg.IsMap {
		if cfg.MapKey == nil || cfg.MapVal == nil {
			return nil, newError(MissingMapEntryInfo, string(m.fullName), cfg.Name)
		}
		if !isValidMapKeyType(cfg.MapKey.Type) {
			return nil, newError(InvalidMapKeyType, string(m.fullName), cfg.MapKey.Type.String())
		}
		if cfg.MapVal.Type == wire.MessageType || cfg.MapVal.Type == wire.EnumType {
			if cfg.MapVal.TypeName == "" {
				return nil, newError(MissingTypeName, string(m.fullName), cfg.Name+".value")
			}
		}
		if cfg.MapVal.Type == wire.GroupType {
			return nil, newError(InvalidMapValueType, string(m.fullName), cfg.MapVal.Type.String())
		}
		entry, err := buildMapEntryDescriptor(m, cfg)
		if err != nil {
			return nil, err
		}
		fd.isMap = true
		fd.repeated = true // maps are internally repeated message-of-entry
		fd.typ = wire.MessageType
		fd.typeName = entry.fullName
		fd.mapInfo = &MapEntryInfo{Key: *cfg.MapKey, Value: *cfg.MapVal, Entry: entry}
	}

	m.fieldsByN[fd.name] = fd
	m.fieldsByI[fd.number] = fd
	m.fieldOrd = append(m.fieldOrd, fd)
	if od != nil {
		od.fields = append(od.fields, fd)
	}
	return fd, nil
}

func isValidMapKeyType(t wire.FieldType) bool {
	switch t {
	case wire.Int32Type, wire.Int64Type, wire.Uint32Type, wire.Uint64Type,
		wire.Sint32Type, wire.Sint64Type, wire.Fixed32Type, wire.Fixed64Type,
		wire.Sfixed32Type, wire.Sfixed64Type, wire.BoolType, wire.StringType:
		return true
	default:
		return false
	}
}

func buildMapEntryDescriptor(owner *MessageDescriptor, cfg FieldConfig) (*MessageDescriptor, error) {
	entryName := mapEntryName(cfg.Name)
	entry, err := owner.AddMessage(entryName)
	if err != nil {
		return nil, err
	}
	entry.isMapEntry = true
	if _, err := entry.AddField(FieldConfig{Name: "key", Number: 1, Type: cfg.MapKey.Type}); err != nil {
		return nil, err
	}
	if _, err := entry.AddField(FieldConfig{
		Name: "value", Number: 2, Type: cfg.MapVal.Type, TypeName: cfg.MapVal.TypeName,
	}); err != nil {
		return nil, err
	}
	return entry, nil
}

func mapEntryName(fieldName string) string {
	parts := strings.Split(fieldName, "_")
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	b.WriteString("Entry")
	return b.String()
}

// Fields returns all fields on m, by declaration order.
func (m *MessageDescriptor) Fields() []*FieldDescriptor { return append([]*FieldDescriptor(nil), m.fieldOrd...) }

// FieldByName looks up a field by its declared name.
func (m *MessageDescriptor) FieldByName(name string) (*FieldDescriptor, bool) {
	fd, ok := m.fieldsByN[name]
	return fd, ok
}

// FieldByNumber looks up a field by its wire number.
func (m *MessageDescriptor) FieldByNumber(num wire.Number) (*FieldDescriptor, bool) {
	fd, ok := m.fieldsByI[num]
	return fd, ok
}

// Oneofs returns the oneof groups declared on m, by declaration order.
func (m *MessageDescriptor) Oneofs() []*OneofDescriptor { return append([]*OneofDescriptor(nil), m.oneofOrd...) }

// FieldDescriptor accessors.
func (f *FieldDescriptor) Name() string             { return f.name }
func (f *FieldDescriptor) JSONName() string          { return f.jsonName }
func (f *FieldDescriptor) Number() wire.Number        { return f.number }
func (f *FieldDescriptor) Type() wire.FieldType       { return f.typ }
func (f *FieldDescriptor) TypeName() FullName         { return f.typeName }
func (f *FieldDescriptor) IsRepeated() bool           { return f.repeated }
func (f *FieldDescriptor) IsOptional() bool           { return f.optional }
func (f *FieldDescriptor) IsRequired() bool           { return f.required }
func (f *FieldDescriptor) IsMap() bool                { return f.isMap }
func (f *FieldDescriptor) MapInfo() *MapEntryInfo      { return f.mapInfo }
func (f *FieldDescriptor) Default() interface{}        { return f.defaultVal }
func (f *FieldDescriptor) Parent() *MessageDescriptor  { return f.parent }
func (f *FieldDescriptor) Index() int                  { return f.index }
func (f *FieldDescriptor) ContainingOneof() *OneofDescriptor { return f.oneof }

// FullName returns the fully-qualified name of the field's declaring
// message, dot-joined with the field name -- used in error reporting.
func (f *FieldDescriptor) FullName() FullName { return f.parent.fullName.Append(f.name) }

// OneofDescriptor describes a set of fields of which at most one may be
// populated at a time.
type OneofDescriptor struct {
	name   string
	parent *MessageDescriptor
	index  int
	fields []*FieldDescriptor
}

func (o *OneofDescriptor) Name() string                  { return o.name }
func (o *OneofDescriptor) Parent() *MessageDescriptor     { return o.parent }
func (o *OneofDescriptor) Index() int                     { return o.index }
func (o *OneofDescriptor) Fields() []*FieldDescriptor      { return append([]*FieldDescriptor(nil), o.fields...) }

// EnumValue is one name=number pair of an enum.
type EnumValue struct {
	Name   string
	Number int32
}

// EnumDescriptor describes an enum type: an ordered list of name/number
// pairs, zero-valued member conventionally the proto3 default.
type EnumDescriptor struct {
	name     string
	fullName FullName
	file     *FileDescriptor
	parent   *MessageDescriptor
	values   []EnumValue
	byName   map[string]int32
	byNumber map[int32]string // first name registered for a number wins
}

func newEnumDescriptor(name string, full FullName, file *FileDescriptor, parent *MessageDescriptor, values []EnumValue) (*EnumDescriptor, error) {
	ed := &EnumDescriptor{
		name: name, fullName: full, file: file, parent: parent,
		byName:   make(map[string]int32),
		byNumber: make(map[int32]string),
	}
	for _, v := range values {
		if _, dup := ed.byName[v.Name]; dup {
			return nil, newError(DuplicateName, string(full), v.Name)
		}
		ed.byName[v.Name] = v.Number
		if _, dup := ed.byNumber[v.Number]; !dup {
			ed.byNumber[v.Number] = v.Name
		}
		ed.values = append(ed.values, v)
	}
	return ed, nil
}

func (e *EnumDescriptor) Name() string         { return e.name }
func (e *EnumDescriptor) FullName() FullName   { return e.fullName }
func (e *EnumDescriptor) File() *FileDescriptor { return e.file }
func (e *EnumDescriptor) Parent() *MessageDescriptor { return e.parent }
func (e *EnumDescriptor) Values() []EnumValue  { return append([]EnumValue(nil), e.values...) }

// NumberByName returns the numeric tag for a value name.
func (e *EnumDescriptor) NumberByName(name string) (int32, bool) {
	n, ok := e.byName[name]
	return n, ok
}

// NameByNumber returns the first-declared value name for a numeric tag.
// Unknown numbers (proto3 open enums) return ok=false.
func (e *EnumDescriptor) NameByNumber(num int32) (string, bool) {
	n, ok := e.byNumber[num]
	return n, ok
}

func itoa(n int) string {
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
