package codec

import (
	"bytes"
	"testing"
)

func TestEncodeF64LEMatchesKnownBytes(t *testing.T) {
	got := EncodeF64LE(1.0)
	want := []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xF0, 0x3F}
	if !bytes.Equal(got, want) {
		t.Fatalf("EncodeF64LE(1.0) = % X, want % X", got, want)
	}

	v, ok := DecodeF64LE(got)
	if !ok || v != 1.0 {
		t.Fatalf("DecodeF64LE round-trip = (%v, %v), want (1.0, true)", v, ok)
	}
}

func TestIntegerRoundTrips(t *testing.T) {
	cases := []struct {
		name    string
		encode  func(int32) []byte
		decode  func([]byte) (int32, bool)
		value   int32
		decoded int32
	}{
		{"i8", EncodeI8, DecodeI8, -5, -5},
		{"i16be", EncodeI16BE, DecodeI16BE, -1000, -1000},
		{"i16le", EncodeI16LE, DecodeI16LE, -1000, -1000},
		{"i32be", EncodeI32BE, DecodeI32BE, -123456789, -123456789},
		{"i32le", EncodeI32LE, DecodeI32LE, -123456789, -123456789},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b := c.encode(c.value)
			v, ok := c.decode(b)
			if !ok || v != c.decoded {
				t.Fatalf("%s round-trip = (%d, %v), want (%d, true)", c.name, v, ok, c.decoded)
			}
		})
	}
}

func TestU8AndU16Decode(t *testing.T) {
	v, ok := DecodeU8([]byte{0xFF})
	if !ok || v != 255 {
		t.Fatalf("DecodeU8(0xFF) = (%d, %v), want (255, true)", v, ok)
	}
	v, ok = DecodeI8([]byte{0xFF})
	if !ok || v != -1 {
		t.Fatalf("DecodeI8(0xFF) = (%d, %v), want (-1, true)", v, ok)
	}

	v, ok = DecodeU16BE([]byte{0xFF, 0xFF})
	if !ok || v != 65535 {
		t.Fatalf("DecodeU16BE = (%d, %v), want (65535, true)", v, ok)
	}
}

func TestFloat32RoundTrip(t *testing.T) {
	b := EncodeF32BE(3.5)
	v, ok := DecodeF32BE(b)
	if !ok || v != 3.5 {
		t.Fatalf("float32 BE round-trip = (%v, %v), want (3.5, true)", v, ok)
	}

	b = EncodeF32LE(3.5)
	v, ok = DecodeF32LE(b)
	if !ok || v != 3.5 {
		t.Fatalf("float32 LE round-trip = (%v, %v), want (3.5, true)", v, ok)
	}
}

func TestDecodeRejectsWrongLength(t *testing.T) {
	if _, ok := DecodeI16BE([]byte{0x01}); ok {
		t.Fatal("DecodeI16BE should reject a 1-byte input")
	}
	if _, ok := DecodeF64LE(make([]byte, 7)); ok {
		t.Fatal("DecodeF64LE should reject a 7-byte input")
	}
	if _, ok := DecodeI32LE(make([]byte, 5)); ok {
		t.Fatal("DecodeI32LE should reject a 5-byte input")
	}
}
