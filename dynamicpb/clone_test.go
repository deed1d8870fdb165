package dynamicpb_test

import (
	"testing"

	"github.com/dynproto/dynproto/dynamicpb"
	"github.com/stretchr/testify/require"
)

func TestDeepCloneIsIndependent(t *testing.T) {
	person := buildPersonDesc(t)
	orig := dynamicpb.New(person)
	require.NoError(t, orig.Set(dynamicpb.ByName("name"), "Ada"))
	require.NoError(t, orig.AddRepeated(dynamicpb.ByName("tags"), "a"))
	require.NoError(t, orig.SetMapEntry(dynamicpb.ByName("attrs"), "k", "v"))

	clone := orig.DeepClone()
	require.True(t, dynamicpb.Equal(orig, clone))

	require.NoError(t, clone.Set(dynamicpb.ByName("name"), "Grace"))
	require.NoError(t, clone.AddRepeated(dynamicpb.ByName("tags"), "b"))
	require.NoError(t, clone.SetMapEntry(dynamicpb.ByName("attrs"), "k", "changed"))

	v, err := orig.Get(dynamicpb.ByName("name"))
	require.NoError(t, err)
	require.Equal(t, "Ada", v.String(), "mutating the clone must not affect the original")

	v, err = orig.Get(dynamicpb.ByName("tags"))
	require.NoError(t, err)
	require.Equal(t, 1, v.List().Len())

	v, err = orig.Get(dynamicpb.ByName("attrs"))
	require.NoError(t, err)
	var got string
	v.Map().Range(func(k dynamicpb.MapKey, mv dynamicpb.Value) bool {
		if k.String() == "k" {
			got = mv.String()
		}
		return true
	})
	require.Equal(t, "v", got, "cloned map mutation must not leak back into the original")
}

func TestDeepCloneOfNilMessage(t *testing.T) {
	var m *dynamicpb.Message
	require.Nil(t, m.DeepClone())
}
