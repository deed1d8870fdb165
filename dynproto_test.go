package dynproto_test

import (
	"testing"

	"github.com/dynproto/dynproto"
	"github.com/dynproto/dynproto/dynamicpb"
	"github.com/dynproto/dynproto/encoding/dynjson"
	"github.com/dynproto/dynproto/encoding/wireformat"
	"github.com/dynproto/dynproto/schema"
	"github.com/dynproto/dynproto/wire"
	"github.com/stretchr/testify/require"
)

func buildPersonDesc(t *testing.T) *schema.MessageDescriptor {
	t.Helper()
	f := schema.NewFile("person.proto", "facade")
	m, err := f.AddMessage("Person")
	require.NoError(t, err)
	_, err = m.AddField(schema.FieldConfig{Name: "name", Number: 1, Type: wire.StringType})
	require.NoError(t, err)
	_, err = m.AddField(schema.FieldConfig{Name: "id", Number: 2, Type: wire.Int32Type, Required: true})
	require.NoError(t, err)
	return m
}

func TestFacadeBinaryRoundTrip(t *testing.T) {
	desc := buildPersonDesc(t)
	m := dynproto.New(desc)
	w := dynproto.Writer(m)
	require.True(t, w.SetString(dynamicpb.ByName("name"), "ada"))
	require.True(t, w.SetInt32(dynamicpb.ByName("id"), 1))

	b, err := dynproto.Marshal(m, wireformat.DefaultMarshalOptions())
	require.NoError(t, err)

	out, err := dynproto.Unmarshal(b, desc, wireformat.DefaultUnmarshalOptions())
	require.NoError(t, err)
	require.True(t, dynproto.Equal(m, out))
}

func TestFacadeJSONRoundTrip(t *testing.T) {
	desc := buildPersonDesc(t)
	m := dynproto.New(desc)
	require.NoError(t, m.Set(dynamicpb.ByName("name"), "grace"))
	require.NoError(t, m.Set(dynamicpb.ByName("id"), int32(2)))

	b, err := dynproto.MarshalJSON(m, dynjson.DefaultMarshalOptions())
	require.NoError(t, err)

	out, err := dynproto.UnmarshalJSON(b, desc, dynjson.DefaultUnmarshalOptions())
	require.NoError(t, err)
	require.True(t, dynproto.Equal(m, out))
}

func TestFacadeValidateReportsMissingRequiredField(t *testing.T) {
	desc := buildPersonDesc(t)
	m := dynproto.New(desc)
	require.NoError(t, m.Set(dynamicpb.ByName("name"), "ada"))

	result := dynproto.Validate(m)
	require.False(t, result.IsValid)
	require.NotEmpty(t, result.Errors)
}

func TestFacadeCloneIsIndependent(t *testing.T) {
	desc := buildPersonDesc(t)
	m := dynproto.New(desc)
	require.NoError(t, m.Set(dynamicpb.ByName("name"), "ada"))

	clone := dynproto.Clone(m)
	require.NoError(t, clone.Set(dynamicpb.ByName("name"), "grace"))

	v, err := m.Get(dynamicpb.ByName("name"))
	require.NoError(t, err)
	require.Equal(t, "ada", v.String())
}

func TestFacadeMergeAppliesSrcOntoDst(t *testing.T) {
	desc := buildPersonDesc(t)
	dst := dynproto.New(desc)
	require.NoError(t, dst.Set(dynamicpb.ByName("id"), int32(1)))
	src := dynproto.New(desc)
	require.NoError(t, src.Set(dynamicpb.ByName("name"), "ada"))

	require.NoError(t, dynproto.Merge(dst, src))
	v, err := dst.Get(dynamicpb.ByName("name"))
	require.NoError(t, err)
	require.Equal(t, "ada", v.String())
}

func TestFacadeSeededConstruction(t *testing.T) {
	desc := buildPersonDesc(t)
	m, err := dynproto.NewSeeded(desc, map[interface{}]interface{}{
		"name": "ada",
		"id":   int32(7),
	})
	require.NoError(t, err)
	v, err := m.Get(dynamicpb.ByName("id"))
	require.NoError(t, err)
	require.Equal(t, int64(7), v.Int())
}
