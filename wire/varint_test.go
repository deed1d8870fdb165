package wire

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVarintRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 300, 1 << 20, math.MaxUint32, math.MaxUint64}
	for _, v := range values {
		b := AppendVarint(nil, v)
		require.Equal(t, SizeVarint(v), len(b))
		got, n := ConsumeVarint(b)
		require.Equal(t, len(b), n)
		require.Equal(t, v, got)
	}
}

func TestConsumeVarintTruncated(t *testing.T) {
	_, n := ConsumeVarint([]byte{0x80})
	require.Equal(t, ErrCodeTruncated, n)
	_, n = ConsumeVarint(nil)
	require.Equal(t, ErrCodeTruncated, n)
}

func TestZigZagLaw32(t *testing.T) {
	for _, v := range []int32{0, 1, -1, 2, -2, math.MaxInt32, math.MinInt32} {
		require.Equal(t, v, ZigZagDecode32(ZigZagEncode32(v)))
	}
	require.Equal(t, uint32(1), ZigZagEncode32(-1))
	require.Equal(t, uint32(2), ZigZagEncode32(1))
}

func TestZigZagLaw64(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 2, -2, math.MaxInt64, math.MinInt64} {
		require.Equal(t, v, ZigZagDecode64(ZigZagEncode64(v)))
	}
}

func TestTagRoundTrip(t *testing.T) {
	num, typ := DecodeTag(EncodeTag(1, VarintType))
	require.Equal(t, Number(1), num)
	require.Equal(t, VarintType, typ)
}
