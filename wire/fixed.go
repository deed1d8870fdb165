// Copyright 2026 The dynproto Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

import "encoding/binary"

// AppendFixed32 appends v as 4 little-endian bytes.
func AppendFixed32(b []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(b, v)
}

// AppendFixed64 appends v as 8 little-endian bytes.
func AppendFixed64(b []byte, v uint64) []byte {
	return binary.LittleEndian.AppendUint64(b, v)
}

// ConsumeFixed32 reads 4 little-endian bytes from the front of b.
func ConsumeFixed32(b []byte) (v uint32, n int) {
	if len(b) < 4 {
		return 0, ErrCodeTruncated
	}
	return binary.LittleEndian.Uint32(b), 4
}

// ConsumeFixed64 reads 8 little-endian bytes from the front of b.
func ConsumeFixed64(b []byte) (v uint64, n int) {
	if len(b) < 8 {
		return 0, ErrCodeTruncated
	}
	return binary.LittleEndian.Uint64(b), 8
}

// AppendBytes appends a length-delimited byte string: varint length then
// the raw bytes.
func AppendBytes(b []byte, v []byte) []byte {
	b = AppendVarint(b, uint64(len(v)))
	return append(b, v...)
}

// ConsumeBytes reads a length-delimited byte string from the front of b.
func ConsumeBytes(b []byte) (v []byte, n int) {
	m, mlen := ConsumeVarint(b)
	if mlen < 0 {
		return nil, mlen
	}
	if m > uint64(len(b)-mlen) {
		return nil, ErrCodeTruncated
	}
	return b[mlen : mlen+int(m)], mlen + int(m)
}

// ConsumeFieldValue skips the bytes of an unknown field's value, given its
// wire type, returning the number of bytes consumed or a negative error
// code. Start/end-group wire types are legacy and rejected.
func ConsumeFieldValue(num Number, typ Type, b []byte) int {
	switch typ {
	case VarintType:
		_, n := ConsumeVarint(b)
		return n
	case Fixed32WireType:
		_, n := ConsumeFixed32(b)
		return n
	case Fixed64WireType:
		_, n := ConsumeFixed64(b)
		return n
	case BytesWireType:
		_, n := ConsumeBytes(b)
		return n
	default:
		return ErrCodeFieldNum
	}
}
