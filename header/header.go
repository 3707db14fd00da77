// Package header implements the bytecode stream's fixed leading header: a
// magic tag, the code version tuple, a SipHash-2-4 check value over those
// two fields, and the header's own byte length (needed by codepage to
// translate between code-relative and stream-relative offsets).
//
// The check value intentionally covers only the header itself, not the
// instruction stream that follows — paged mode must be able to validate a
// header (and report AddCodeInvalidCheckValue) after reading nothing more
// than the first page, long before the rest of a large program has been
// paged in.
//
// The original engine's code.h/code.c speak only of "the first headerIndex
// bytes of the code stream" and AspAddCodeResult_InvalidCheckValue; the
// exact layout and check-value algorithm are filled in here.
package header

import (
	"encoding/binary"
	"errors"

	"github.com/dchest/siphash"
)

// Size is the fixed on-wire length of a Header, in bytes: 4 (Magic) + 4
// (Version) + 8 (CheckValue) = 16. HeaderIndex is derived, not stored; it
// equals Size plus the length of any version-specific trailer, but this
// repo's header carries no trailer, so HeaderIndex is always Size.
const Size = 16

// Magic identifies a byte stream as asp bytecode.
var Magic = [4]byte{'A', 's', 'p', 'b'}

// ErrInvalidFormat is returned when the leading bytes don't carry the
// expected magic tag, or the stream is shorter than Size.
var ErrInvalidFormat = errors.New("header: invalid format")

// ErrInvalidCheckValue is returned when the check value doesn't match the
// header's own magic and version fields.
var ErrInvalidCheckValue = errors.New("header: invalid check value")

// checkKey0 and checkKey1 are the fixed SipHash key halves used to compute a
// header's CheckValue. They need not be secret: the check value defends
// against accidental corruption and version mismatch, not tampering.
const (
	checkKey0 uint64 = 0x6173706c616e6721
	checkKey1 uint64 = 0x62797465636f6465
)

// Header is the fixed leading structure of a bytecode stream.
type Header struct {
	Magic       [4]byte
	Version     [4]byte
	CheckValue  uint64
	HeaderIndex uint32
}

// CheckValue computes the SipHash-2-4 digest of a header's magic and
// version fields.
func CheckValue(magic, version [4]byte) uint64 {
	var buf [8]byte
	copy(buf[0:4], magic[:])
	copy(buf[4:8], version[:])
	return siphash.Hash(checkKey0, checkKey1, buf[:])
}

// Parse reads a Header from the first Size bytes of b, validating its magic
// tag and check value. b need only contain the header; any bytes beyond
// Size are ignored, so Parse works identically whether it's handed an
// entire program or just its first page.
func Parse(b []byte) (Header, error) {
	if len(b) < Size {
		return Header{}, ErrInvalidFormat
	}

	var h Header
	copy(h.Magic[:], b[0:4])
	if h.Magic != Magic {
		return Header{}, ErrInvalidFormat
	}
	copy(h.Version[:], b[4:8])
	h.CheckValue = binary.LittleEndian.Uint64(b[8:16])
	h.HeaderIndex = Size

	if h.CheckValue != CheckValue(h.Magic, h.Version) {
		return Header{}, ErrInvalidCheckValue
	}
	return h, nil
}

// Write serializes a Header for version followed by body, computing the
// header's check value.
func Write(version [4]byte, body []byte) []byte {
	out := make([]byte, Size+len(body))
	copy(out[0:4], Magic[:])
	copy(out[4:8], version[:])
	binary.LittleEndian.PutUint64(out[8:16], CheckValue(Magic, version))
	copy(out[Size:], body)
	return out
}
