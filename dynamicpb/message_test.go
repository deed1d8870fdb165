package dynamicpb_test

import (
	"testing"

	"github.com/dynproto/dynproto/dynamicpb"
	"github.com/dynproto/dynproto/schema"
	"github.com/dynproto/dynproto/wire"
	"github.com/stretchr/testify/require"
)

func buildPersonDesc(t *testing.T) *schema.MessageDescriptor {
	t.Helper()
	f := schema.NewFile("person.proto", "example")
	person, err := f.AddMessage("Person")
	require.NoError(t, err)

	_, err = person.AddField(schema.FieldConfig{Name: "name", Number: 1, Type: wire.StringType})
	require.NoError(t, err)
	_, err = person.AddField(schema.FieldConfig{Name: "age", Number: 2, Type: wire.Int32Type})
	require.NoError(t, err)
	_, err = person.AddField(schema.FieldConfig{Name: "active", Number: 3, Type: wire.BoolType, Optional: true})
	require.NoError(t, err)

	od, err := person.AddOneof("contact")
	require.NoError(t, err)
	_, err = person.AddField(schema.FieldConfig{Name: "email", Number: 4, Type: wire.StringType, OneofIndex: od.Index() + 1})
	require.NoError(t, err)
	_, err = person.AddField(schema.FieldConfig{Name: "phone", Number: 5, Type: wire.StringType, OneofIndex: od.Index() + 1})
	require.NoError(t, err)

	_, err = person.AddField(schema.FieldConfig{Name: "tags", Number: 6, Type: wire.StringType, Repeated: true})
	require.NoError(t, err)

	_, err = person.AddField(schema.FieldConfig{
		Name: "attrs", Number: 7, IsMap: true,
		MapKey: &schema.KeyFieldInfo{Type: wire.StringType},
		MapVal: &schema.ValueFieldInfo{Type: wire.StringType},
	})
	require.NoError(t, err)

	_, err = f.AddEnum("Status", []schema.EnumValue{{Name: "UNKNOWN", Number: 0}, {Name: "OK", Number: 1}})
	require.NoError(t, err)
	_, err = person.AddField(schema.FieldConfig{Name: "status", Number: 8, Type: wire.EnumType, TypeName: "example.Status"})
	require.NoError(t, err)

	return person
}

func TestGetDefaultForUnsetField(t *testing.T) {
	person := buildPersonDesc(t)
	m := dynamicpb.New(person)

	v, err := m.Get(dynamicpb.ByName("name"))
	require.NoError(t, err)
	require.Equal(t, "", v.String())

	v, err = m.Get(dynamicpb.ByName("age"))
	require.NoError(t, err)
	require.Equal(t, int64(0), v.Int())
}

func TestSetAndGetRoundTrip(t *testing.T) {
	person := buildPersonDesc(t)
	m := dynamicpb.New(person)

	require.NoError(t, m.Set(dynamicpb.ByName("name"), "Ada"))
	v, err := m.Get(dynamicpb.ByName("name"))
	require.NoError(t, err)
	require.Equal(t, "Ada", v.String())

	has, err := m.HasValue(dynamicpb.ByName("name"))
	require.NoError(t, err)
	require.True(t, has)
}

func TestFieldNotFoundByNameAndNumber(t *testing.T) {
	person := buildPersonDesc(t)
	m := dynamicpb.New(person)

	_, err := m.Get(dynamicpb.ByName("nope"))
	require.Error(t, err)
	derr, ok := err.(*dynamicpb.Error)
	require.True(t, ok)
	require.Equal(t, dynamicpb.FieldNotFound, derr.Kind)

	_, err = m.Get(dynamicpb.ByNumber(999))
	require.Error(t, err)
}

func TestTypeMismatchError(t *testing.T) {
	person := buildPersonDesc(t)
	m := dynamicpb.New(person)

	err := m.Set(dynamicpb.ByName("age"), "not a number")
	require.Error(t, err)
	derr, ok := err.(*dynamicpb.Error)
	require.True(t, ok)
	require.Equal(t, dynamicpb.TypeMismatch, derr.Kind)
}

func TestOneofExclusivity(t *testing.T) {
	person := buildPersonDesc(t)
	m := dynamicpb.New(person)

	require.NoError(t, m.Set(dynamicpb.ByName("email"), "a@example.com"))
	has, _ := m.HasValue(dynamicpb.ByName("email"))
	require.True(t, has)

	require.NoError(t, m.Set(dynamicpb.ByName("phone"), "555-1234"))
	has, _ = m.HasValue(dynamicpb.ByName("email"))
	require.False(t, has, "setting phone must clear email as its oneof sibling")
	has, _ = m.HasValue(dynamicpb.ByName("phone"))
	require.True(t, has)
}

func TestExplicitPresenceFieldHasValueOnZero(t *testing.T) {
	person := buildPersonDesc(t)
	m := dynamicpb.New(person)

	require.NoError(t, m.Set(dynamicpb.ByName("active"), false))
	has, err := m.HasValue(dynamicpb.ByName("active"))
	require.NoError(t, err)
	require.True(t, has, "optional bool set to its zero value is still present")
}

func TestImplicitPresenceFieldAbsentOnZero(t *testing.T) {
	person := buildPersonDesc(t)
	m := dynamicpb.New(person)

	require.NoError(t, m.Set(dynamicpb.ByName("age"), int32(0)))
	has, err := m.HasValue(dynamicpb.ByName("age"))
	require.NoError(t, err)
	require.False(t, has, "plain proto3 scalar set to its zero value is elided")
}

func TestAddRepeatedAppendsInOrder(t *testing.T) {
	person := buildPersonDesc(t)
	m := dynamicpb.New(person)

	require.NoError(t, m.AddRepeated(dynamicpb.ByName("tags"), "a"))
	require.NoError(t, m.AddRepeated(dynamicpb.ByName("tags"), "b"))

	v, err := m.Get(dynamicpb.ByName("tags"))
	require.NoError(t, err)
	require.Equal(t, 2, v.List().Len())
	require.Equal(t, "a", v.List().Get(0).String())
	require.Equal(t, "b", v.List().Get(1).String())
}

func TestAddRepeatedRejectsMapField(t *testing.T) {
	person := buildPersonDesc(t)
	m := dynamicpb.New(person)

	err := m.AddRepeated(dynamicpb.ByName("attrs"), "x")
	require.Error(t, err)
	derr, ok := err.(*dynamicpb.Error)
	require.True(t, ok)
	require.Equal(t, dynamicpb.NotRepeated, derr.Kind)
}

func TestSetMapEntryUniqueKeys(t *testing.T) {
	person := buildPersonDesc(t)
	m := dynamicpb.New(person)

	require.NoError(t, m.SetMapEntry(dynamicpb.ByName("attrs"), "color", "blue"))
	require.NoError(t, m.SetMapEntry(dynamicpb.ByName("attrs"), "color", "red"))

	v, err := m.Get(dynamicpb.ByName("attrs"))
	require.NoError(t, err)
	require.Equal(t, 1, v.Map().Len())
}

func TestSetMapEntryRejectsNonMapField(t *testing.T) {
	person := buildPersonDesc(t)
	m := dynamicpb.New(person)

	err := m.SetMapEntry(dynamicpb.ByName("tags"), "k", "v")
	require.Error(t, err)
	derr, ok := err.(*dynamicpb.Error)
	require.True(t, ok)
	require.Equal(t, dynamicpb.NotMap, derr.Kind)
}

func TestEnumSetByNameAndNumber(t *testing.T) {
	person := buildPersonDesc(t)
	m := dynamicpb.New(person)

	require.NoError(t, m.Set(dynamicpb.ByName("status"), "OK"))
	v, err := m.Get(dynamicpb.ByName("status"))
	require.NoError(t, err)
	require.Equal(t, int32(1), v.Enum().Number)
	require.True(t, v.Enum().ByName)
	require.Equal(t, "OK", v.Enum().Name)
}

func TestClearRemovesValue(t *testing.T) {
	person := buildPersonDesc(t)
	m := dynamicpb.New(person)
	require.NoError(t, m.Set(dynamicpb.ByName("name"), "Ada"))
	require.NoError(t, m.Clear(dynamicpb.ByName("name")))
	has, err := m.HasValue(dynamicpb.ByName("name"))
	require.NoError(t, err)
	require.False(t, has)
}

func TestUnknownFieldTrailerRoundTrips(t *testing.T) {
	person := buildPersonDesc(t)
	m := dynamicpb.New(person)
	raw := []byte{0x1a, 0x02, 0x68, 0x69}
	m.SetUnknown(raw)
	require.Equal(t, raw, m.GetUnknown())
}
