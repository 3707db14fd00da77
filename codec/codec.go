// Package codec implements the engine's fixed-width binary encode/decode
// primitives: the host-visible counterparts of the scripting language's
// encode_*/decode_* library functions, each converting between a Go numeric
// type and its fixed-width byte representation.
//
// This is a direct port of original_source/engine/lib-codec.c, built on
// encoding/binary instead of the original's pointer-cast-and-swap approach.
package codec

import (
	"encoding/binary"
	"math"
)

// EncodeI8 truncates value to its low 8 bits and returns them as a single
// byte, matching AspLib_encode_i8.
func EncodeI8(value int32) []byte {
	return []byte{byte(value)}
}

// EncodeI16BE encodes the low 16 bits of value, big-endian.
func EncodeI16BE(value int32) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, uint16(value))
	return b
}

// EncodeI16LE encodes the low 16 bits of value, little-endian.
func EncodeI16LE(value int32) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, uint16(value))
	return b
}

// EncodeI32BE encodes value big-endian.
func EncodeI32BE(value int32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, uint32(value))
	return b
}

// EncodeI32LE encodes value little-endian.
func EncodeI32LE(value int32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(value))
	return b
}

// EncodeF32BE encodes value, narrowed to float32, big-endian.
func EncodeF32BE(value float64) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, math.Float32bits(float32(value)))
	return b
}

// EncodeF32LE encodes value, narrowed to float32, little-endian.
func EncodeF32LE(value float64) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, math.Float32bits(float32(value)))
	return b
}

// EncodeF64BE encodes value big-endian.
func EncodeF64BE(value float64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, math.Float64bits(value))
	return b
}

// EncodeF64LE encodes value little-endian.
func EncodeF64LE(value float64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, math.Float64bits(value))
	return b
}

// DecodeI8 interprets s[0] as a signed byte.
func DecodeI8(s []byte) (int32, bool) {
	if len(s) != 1 {
		return 0, false
	}
	return int32(int8(s[0])), true
}

// DecodeU8 interprets s[0] as an unsigned byte.
func DecodeU8(s []byte) (int32, bool) {
	if len(s) != 1 {
		return 0, false
	}
	return int32(s[0]), true
}

// DecodeI16BE interprets s as a signed big-endian 16-bit integer.
func DecodeI16BE(s []byte) (int32, bool) {
	if len(s) != 2 {
		return 0, false
	}
	return int32(int16(binary.BigEndian.Uint16(s))), true
}

// DecodeI16LE interprets s as a signed little-endian 16-bit integer.
func DecodeI16LE(s []byte) (int32, bool) {
	if len(s) != 2 {
		return 0, false
	}
	return int32(int16(binary.LittleEndian.Uint16(s))), true
}

// DecodeU16BE interprets s as an unsigned big-endian 16-bit integer.
func DecodeU16BE(s []byte) (int32, bool) {
	if len(s) != 2 {
		return 0, false
	}
	return int32(binary.BigEndian.Uint16(s)), true
}

// DecodeU16LE interprets s as an unsigned little-endian 16-bit integer.
func DecodeU16LE(s []byte) (int32, bool) {
	if len(s) != 2 {
		return 0, false
	}
	return int32(binary.LittleEndian.Uint16(s)), true
}

// DecodeI32BE interprets s as a signed big-endian 32-bit integer.
func DecodeI32BE(s []byte) (int32, bool) {
	if len(s) != 4 {
		return 0, false
	}
	return int32(binary.BigEndian.Uint32(s)), true
}

// DecodeI32LE interprets s as a signed little-endian 32-bit integer.
func DecodeI32LE(s []byte) (int32, bool) {
	if len(s) != 4 {
		return 0, false
	}
	return int32(binary.LittleEndian.Uint32(s)), true
}

// DecodeF32BE interprets s as a big-endian IEEE-754 single-precision float,
// widened to float64.
func DecodeF32BE(s []byte) (float64, bool) {
	if len(s) != 4 {
		return 0, false
	}
	return float64(math.Float32frombits(binary.BigEndian.Uint32(s))), true
}

// DecodeF32LE interprets s as a little-endian IEEE-754 single-precision
// float, widened to float64.
func DecodeF32LE(s []byte) (float64, bool) {
	if len(s) != 4 {
		return 0, false
	}
	return float64(math.Float32frombits(binary.LittleEndian.Uint32(s))), true
}

// DecodeF64BE interprets s as a big-endian IEEE-754 double-precision float.
func DecodeF64BE(s []byte) (float64, bool) {
	if len(s) != 8 {
		return 0, false
	}
	return math.Float64frombits(binary.BigEndian.Uint64(s)), true
}

// DecodeF64LE interprets s as a little-endian IEEE-754 double-precision
// float.
func DecodeF64LE(s []byte) (float64, bool) {
	if len(s) != 8 {
		return 0, false
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(s)), true
}
