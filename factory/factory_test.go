package factory_test

import (
	"testing"

	"github.com/dynproto/dynproto/dynamicpb"
	"github.com/dynproto/dynproto/factory"
	"github.com/dynproto/dynproto/schema"
	"github.com/dynproto/dynproto/wire"
	"github.com/stretchr/testify/require"
)

func buildOrderDesc(t *testing.T) (*schema.FileDescriptor, *schema.MessageDescriptor) {
	t.Helper()
	f := schema.NewFile("order.proto", "shop")

	item, err := f.AddMessage("Item")
	require.NoError(t, err)
	_, err = item.AddField(schema.FieldConfig{Name: "sku", Number: 1, Type: wire.StringType, Required: true})
	require.NoError(t, err)
	_, err = item.AddField(schema.FieldConfig{Name: "qty", Number: 2, Type: wire.Int32Type})
	require.NoError(t, err)

	order, err := f.AddMessage("Order")
	require.NoError(t, err)
	_, err = order.AddField(schema.FieldConfig{Name: "id", Number: 1, Type: wire.StringType, Required: true})
	require.NoError(t, err)
	_, err = order.AddField(schema.FieldConfig{
		Name: "items", Number: 2, Type: wire.MessageType, TypeName: item.FullName(), Repeated: true,
	})
	require.NoError(t, err)

	return f, order
}

func TestNewSeededAppliesAllFields(t *testing.T) {
	_, order := buildOrderDesc(t)
	m, err := factory.NewSeeded(order, map[interface{}]interface{}{"id": "o-1"})
	require.NoError(t, err)
	v, err := m.Get(dynamicpb.ByName("id"))
	require.NoError(t, err)
	require.Equal(t, "o-1", v.String())
}

func TestNewSeededAbortsOnFirstFailingField(t *testing.T) {
	_, order := buildOrderDesc(t)
	_, err := factory.NewSeeded(order, map[interface{}]interface{}{"id": 42})
	require.Error(t, err)
}

func TestValidateReportsMissingRequiredField(t *testing.T) {
	_, order := buildOrderDesc(t)
	m := factory.New(order)
	res := factory.Validate(m)
	require.False(t, res.IsValid)
	require.Len(t, res.Errors, 1)
	require.Equal(t, factory.MissingRequiredField, res.Errors[0].Kind)
	require.Equal(t, "id", res.Errors[0].Field)
}

func TestValidateRecursesIntoRepeatedMessages(t *testing.T) {
	f, order := buildOrderDesc(t)
	itemDesc, _ := f.MessageByName("Item")

	m := factory.New(order)
	require.NoError(t, m.Set(dynamicpb.ByName("id"), "o-1"))

	badItem := factory.New(itemDesc)
	require.NoError(t, m.AddRepeated(dynamicpb.ByName("items"), badItem))

	res := factory.Validate(m)
	require.False(t, res.IsValid)
	require.Equal(t, factory.RepeatedFieldValidationFailed, res.Errors[0].Kind)
	require.Equal(t, "items", res.Errors[0].Field)
	require.Equal(t, 0, res.Errors[0].Index)
}

func TestValidateProto3OnlyMessageAlwaysValid(t *testing.T) {
	f := schema.NewFile("x.proto", "x")
	m, _ := f.AddMessage("NoRequired")
	_, err := m.AddField(schema.FieldConfig{Name: "name", Number: 1, Type: wire.StringType})
	require.NoError(t, err)

	msg := factory.New(m)
	res := factory.Validate(msg)
	require.True(t, res.IsValid)
}

func TestCloneIsIndependent(t *testing.T) {
	_, order := buildOrderDesc(t)
	m := factory.New(order)
	require.NoError(t, m.Set(dynamicpb.ByName("id"), "o-1"))

	clone := factory.Clone(m)
	require.NoError(t, clone.Set(dynamicpb.ByName("id"), "o-2"))

	v, _ := m.Get(dynamicpb.ByName("id"))
	require.Equal(t, "o-1", v.String())
}

func TestMergeOverwritesScalarsAndAppendsRepeated(t *testing.T) {
	f, order := buildOrderDesc(t)
	itemDesc, _ := f.MessageByName("Item")

	dst := factory.New(order)
	require.NoError(t, dst.Set(dynamicpb.ByName("id"), "old"))

	src := factory.New(order)
	require.NoError(t, src.Set(dynamicpb.ByName("id"), "new"))
	item := factory.New(itemDesc)
	require.NoError(t, item.Set(dynamicpb.ByName("sku"), "widget"))
	require.NoError(t, src.AddRepeated(dynamicpb.ByName("items"), item))

	require.NoError(t, factory.Merge(dst, src))

	v, _ := dst.Get(dynamicpb.ByName("id"))
	require.Equal(t, "new", v.String())

	itemsV, _ := dst.Get(dynamicpb.ByName("items"))
	require.Equal(t, 1, itemsV.List().Len())
}

func TestMergeRejectsMismatchedDescriptors(t *testing.T) {
	f, order := buildOrderDesc(t)
	itemDesc, _ := f.MessageByName("Item")

	dst := factory.New(order)
	src := factory.New(itemDesc)
	require.Error(t, factory.Merge(dst, src))
}
