package header

import "testing"

func TestWriteThenParseRoundTrip(t *testing.T) {
	version := [4]byte{1, 0, 0, 0}
	body := []byte("some bytecode instructions go here")

	stream := Write(version, body)

	h, err := Parse(stream)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if h.Magic != Magic {
		t.Fatalf("Magic = %v, want %v", h.Magic, Magic)
	}
	if h.Version != version {
		t.Fatalf("Version = %v, want %v", h.Version, version)
	}
	if h.HeaderIndex != Size {
		t.Fatalf("HeaderIndex = %d, want %d", h.HeaderIndex, Size)
	}
	if body := stream[h.HeaderIndex:]; string(body) != "some bytecode instructions go here" {
		t.Fatalf("body = %q, want original body", body)
	}
}

func TestParseOnlyNeedsTheHeaderBytes(t *testing.T) {
	stream := Write([4]byte{1, 0, 0, 0}, []byte("a very long program body, in principle"))
	if _, err := Parse(stream[:Size]); err != nil {
		t.Fatalf("Parse(header-only slice) returned error: %v", err)
	}
}

func TestParseRejectsBadMagic(t *testing.T) {
	stream := Write([4]byte{1, 0, 0, 0}, []byte("x"))
	stream[0] ^= 0xFF
	if _, err := Parse(stream); err != ErrInvalidFormat {
		t.Fatalf("Parse with corrupted magic = %v, want ErrInvalidFormat", err)
	}
}

func TestParseRejectsCorruptedCheckValue(t *testing.T) {
	stream := Write([4]byte{1, 0, 0, 0}, []byte("original body bytes"))
	stream[8] ^= 0xFF // flip a bit inside the check value itself
	if _, err := Parse(stream); err != ErrInvalidCheckValue {
		t.Fatalf("Parse with corrupted check value = %v, want ErrInvalidCheckValue", err)
	}
}

func TestParseRejectsCorruptedVersion(t *testing.T) {
	stream := Write([4]byte{1, 0, 0, 0}, []byte("original body bytes"))
	stream[4] ^= 0xFF // flip a bit inside the version field
	if _, err := Parse(stream); err != ErrInvalidCheckValue {
		t.Fatalf("Parse with corrupted version = %v, want ErrInvalidCheckValue", err)
	}
}

func TestParseRejectsShortStream(t *testing.T) {
	if _, err := Parse([]byte{1, 2, 3}); err != ErrInvalidFormat {
		t.Fatalf("Parse with short stream = %v, want ErrInvalidFormat", err)
	}
}

func TestCheckValueIsDeterministic(t *testing.T) {
	v := [4]byte{1, 0, 0, 0}
	if CheckValue(Magic, v) != CheckValue(Magic, v) {
		t.Fatal("CheckValue should be deterministic for the same inputs")
	}
	if CheckValue(Magic, v) == CheckValue(Magic, [4]byte{2, 0, 0, 0}) {
		t.Fatal("CheckValue should differ for different versions (extremely unlikely collision)")
	}
}
