package wireformat_test

import (
	"testing"

	"github.com/dynproto/dynproto/dynamicpb"
	"github.com/dynproto/dynproto/encoding/wireformat"
	"github.com/dynproto/dynproto/schema"
	"github.com/dynproto/dynproto/wire"
	"github.com/stretchr/testify/require"
)

func buildScalarDesc(t *testing.T) *schema.MessageDescriptor {
	t.Helper()
	f := schema.NewFile("scalar.proto", "scalar")
	m, err := f.AddMessage("M")
	require.NoError(t, err)
	_, err = m.AddField(schema.FieldConfig{Name: "b", Number: 1, Type: wire.BoolType})
	require.NoError(t, err)
	_, err = m.AddField(schema.FieldConfig{Name: "d", Number: 2, Type: wire.DoubleType})
	require.NoError(t, err)
	_, err = m.AddField(schema.FieldConfig{Name: "s", Number: 3, Type: wire.StringType})
	require.NoError(t, err)
	_, err = m.AddField(schema.FieldConfig{Name: "si", Number: 4, Type: wire.Sint32Type})
	require.NoError(t, err)
	_, err = m.AddField(schema.FieldConfig{Name: "rep", Number: 5, Type: wire.Int32Type, Repeated: true})
	require.NoError(t, err)
	return m
}

func TestBoolTrueCanonicalBytes(t *testing.T) {
	desc := buildScalarDesc(t)
	m := dynamicpb.New(desc)
	require.NoError(t, m.Set(dynamicpb.ByName("b"), true))

	b, err := wireformat.Marshal(m, wireformat.DefaultMarshalOptions())
	require.NoError(t, err)
	require.Equal(t, []byte{0x08, 0x01}, b)
}

func TestDoublePiCanonicalBytes(t *testing.T) {
	desc := buildScalarDesc(t)
	m := dynamicpb.New(desc)
	require.NoError(t, m.Set(dynamicpb.ByName("d"), 3.14159))

	b, err := wireformat.Marshal(m, wireformat.DefaultMarshalOptions())
	require.NoError(t, err)
	require.Len(t, b, 9)
	require.Equal(t, byte(wire.EncodeTag(2, wire.Fixed64WireType)), b[0])
}

func TestStringTagByte(t *testing.T) {
	desc := buildScalarDesc(t)
	m := dynamicpb.New(desc)
	require.NoError(t, m.Set(dynamicpb.ByName("s"), "Hello, 世界!"))

	b, err := wireformat.Marshal(m, wireformat.DefaultMarshalOptions())
	require.NoError(t, err)
	require.Equal(t, byte(wire.EncodeTag(3, wire.BytesWireType)), b[0])
}

func TestSint32MinusOneCanonicalBytes(t *testing.T) {
	desc := buildScalarDesc(t)
	m := dynamicpb.New(desc)
	require.NoError(t, m.Set(dynamicpb.ByName("si"), int32(-1)))

	b, err := wireformat.Marshal(m, wireformat.DefaultMarshalOptions())
	require.NoError(t, err)
	require.Equal(t, []byte{0x20, 0x01}, b)
}

func TestPackedRepeatedInt32(t *testing.T) {
	desc := buildScalarDesc(t)
	m := dynamicpb.New(desc)
	for _, n := range []int32{1, 2, 3, 4, 5} {
		require.NoError(t, m.AddRepeated(dynamicpb.ByName("rep"), n))
	}

	b, err := wireformat.Marshal(m, wireformat.DefaultMarshalOptions())
	require.NoError(t, err)
	require.Equal(t, []byte{0x2A, 0x05, 0x01, 0x02, 0x03, 0x04, 0x05}, b)
}

func TestBinaryRoundTrip(t *testing.T) {
	desc := buildScalarDesc(t)
	m := dynamicpb.New(desc)
	require.NoError(t, m.Set(dynamicpb.ByName("b"), true))
	require.NoError(t, m.Set(dynamicpb.ByName("d"), 2.5))
	require.NoError(t, m.Set(dynamicpb.ByName("s"), "hi"))
	require.NoError(t, m.AddRepeated(dynamicpb.ByName("rep"), int32(7)))
	require.NoError(t, m.AddRepeated(dynamicpb.ByName("rep"), int32(8)))

	b, err := wireformat.Marshal(m, wireformat.DefaultMarshalOptions())
	require.NoError(t, err)

	out, err := wireformat.Unmarshal(b, desc, wireformat.DefaultUnmarshalOptions())
	require.NoError(t, err)
	require.True(t, dynamicpb.Equal(m, out))
}

func TestUnknownFieldSkippedAndPreserved(t *testing.T) {
	f := schema.NewFile("u.proto", "u")
	full, err := f.AddMessage("Full")
	require.NoError(t, err)
	_, err = full.AddField(schema.FieldConfig{Name: "a", Number: 1, Type: wire.StringType})
	require.NoError(t, err)
	_, err = full.AddField(schema.FieldConfig{Name: "z", Number: 10, Type: wire.StringType})
	require.NoError(t, err)

	partial, err := f.AddMessage("Partial")
	require.NoError(t, err)
	_, err = partial.AddField(schema.FieldConfig{Name: "a", Number: 1, Type: wire.StringType})
	require.NoError(t, err)

	full1 := dynamicpb.New(full)
	require.NoError(t, full1.Set(dynamicpb.ByName("a"), "hi"))
	require.NoError(t, full1.Set(dynamicpb.ByName("z"), "extra"))

	b, err := wireformat.Marshal(full1, wireformat.DefaultMarshalOptions())
	require.NoError(t, err)

	decoded, err := wireformat.Unmarshal(b, partial, wireformat.DefaultUnmarshalOptions())
	require.NoError(t, err)
	v, err := decoded.Get(dynamicpb.ByName("a"))
	require.NoError(t, err)
	require.Equal(t, "hi", v.String())
	require.NotEmpty(t, decoded.GetUnknown())
}

func TestInvalidUTF8StringRejected(t *testing.T) {
	desc := buildScalarDesc(t)
	raw := []byte{0x1A, 0x02, 0xFF, 0xFE}
	_, err := wireformat.Unmarshal(raw, desc, wireformat.DefaultUnmarshalOptions())
	require.Error(t, err)
	werr, ok := err.(*wireformat.Error)
	require.True(t, ok)
	require.Equal(t, wireformat.InvalidUTF8String, werr.Kind)
}

func TestWireTypeMismatch(t *testing.T) {
	desc := buildScalarDesc(t)
	// field 1 ("b", bool, expects varint) encoded with a fixed64 wire type.
	raw := []byte{0x09, 0, 0, 0, 0, 0, 0, 0, 0}
	_, err := wireformat.Unmarshal(raw, desc, wireformat.DefaultUnmarshalOptions())
	require.Error(t, err)
	werr, ok := err.(*wireformat.Error)
	require.True(t, ok)
	require.Equal(t, wireformat.WireTypeMismatch, werr.Kind)
}

func TestZigZagLaw32(t *testing.T) {
	for _, n := range []int32{0, 1, -1, 2147483647, -2147483648, 42, -42} {
		require.Equal(t, n, wire.ZigZagDecode32(wire.ZigZagEncode32(n)))
	}
}

func TestZigZagLaw64(t *testing.T) {
	for _, n := range []int64{0, 1, -1, 9223372036854775807, -9223372036854775808, 42, -42} {
		require.Equal(t, n, wire.ZigZagDecode64(wire.ZigZagEncode64(n)))
	}
}

func TestMapFieldRoundTrip(t *testing.T) {
	f := schema.NewFile("mp.proto", "mp")
	m, err := f.AddMessage("M")
	require.NoError(t, err)
	_, err = m.AddField(schema.FieldConfig{
		Name: "attrs", Number: 1, IsMap: true,
		MapKey: &schema.KeyFieldInfo{Type: wire.StringType},
		MapVal: &schema.ValueFieldInfo{Type: wire.Int32Type},
	})
	require.NoError(t, err)

	msg := dynamicpb.New(m)
	require.NoError(t, msg.SetMapEntry(dynamicpb.ByName("attrs"), "a", int32(1)))
	require.NoError(t, msg.SetMapEntry(dynamicpb.ByName("attrs"), "b", int32(2)))

	b, err := wireformat.Marshal(msg, wireformat.DefaultMarshalOptions())
	require.NoError(t, err)

	out, err := wireformat.Unmarshal(b, m, wireformat.DefaultUnmarshalOptions())
	require.NoError(t, err)
	require.True(t, dynamicpb.Equal(msg, out))
}

func TestMapFieldWireTypeMismatchReportedBeforeTruncation(t *testing.T) {
	f := schema.NewFile("mpwt.proto", "mpwt")
	m, err := f.AddMessage("M")
	require.NoError(t, err)
	_, err = m.AddField(schema.FieldConfig{
		Name: "attrs", Number: 1, IsMap: true,
		MapKey: &schema.KeyFieldInfo{Type: wire.StringType},
		MapVal: &schema.ValueFieldInfo{Type: wire.Int32Type},
	})
	require.NoError(t, err)

	// field 1 ("attrs", map, expects a length-delimited entry) encoded as a
	// single-byte varint, too short to parse as a length-delimited payload.
	raw := []byte{0x08, 0x01}
	_, err = wireformat.Unmarshal(raw, m, wireformat.DefaultUnmarshalOptions())
	require.Error(t, err)
	werr, ok := err.(*wireformat.Error)
	require.True(t, ok)
	require.Equal(t, wireformat.WireTypeMismatch, werr.Kind)
}

func TestNestedMessageRoundTrip(t *testing.T) {
	f := schema.NewFile("nested.proto", "nested")
	inner, err := f.AddMessage("Inner")
	require.NoError(t, err)
	_, err = inner.AddField(schema.FieldConfig{Name: "v", Number: 1, Type: wire.Int32Type})
	require.NoError(t, err)

	outer, err := f.AddMessage("Outer")
	require.NoError(t, err)
	_, err = outer.AddField(schema.FieldConfig{Name: "inner", Number: 1, Type: wire.MessageType, TypeName: inner.FullName()})
	require.NoError(t, err)

	in := dynamicpb.New(inner)
	require.NoError(t, in.Set(dynamicpb.ByName("v"), int32(99)))
	out := dynamicpb.New(outer)
	require.NoError(t, out.Set(dynamicpb.ByName("inner"), in))

	b, err := wireformat.Marshal(out, wireformat.DefaultMarshalOptions())
	require.NoError(t, err)

	decoded, err := wireformat.Unmarshal(b, outer, wireformat.DefaultUnmarshalOptions())
	require.NoError(t, err)
	require.True(t, dynamicpb.Equal(out, decoded))
}

func TestUnknownFieldWithGroupWireTypeRejected(t *testing.T) {
	desc := buildScalarDesc(t)
	tag := wire.EncodeTag(99, wire.StartGroupWireType)
	raw := wire.AppendVarint(nil, tag)
	_, err := wireformat.Unmarshal(raw, desc, wireformat.DefaultUnmarshalOptions())
	require.Error(t, err)
	werr, ok := err.(*wireformat.Error)
	require.True(t, ok)
	require.Equal(t, wireformat.InvalidWireType, werr.Kind)
}

func TestEmptyInputYieldsEmptyMessage(t *testing.T) {
	desc := buildScalarDesc(t)
	m, err := wireformat.Unmarshal(nil, desc, wireformat.DefaultUnmarshalOptions())
	require.NoError(t, err)
	has, err := m.HasValue(dynamicpb.ByName("b"))
	require.NoError(t, err)
	require.False(t, has)
}
