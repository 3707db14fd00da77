package codepage

import "testing"

func TestDirectSourceReadsExactBytes(t *testing.T) {
	code := []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x01, 0x02, 0x03, 0x04}
	s := NewDirectSource(code, 2)

	if st := s.ValidateAddress(5); st != OK {
		t.Fatalf("ValidateAddress(5) = %v, want OK", st)
	}
	if st := s.ValidateAddress(6); st != OK {
		t.Fatalf("ValidateAddress(6) = %v, want OK (end index itself is valid)", st)
	}
	if st := s.ValidateAddress(7); st != BeyondEndOfCode {
		t.Fatalf("ValidateAddress(7) = %v, want BeyondEndOfCode", st)
	}

	buf := make([]byte, 3)
	if st := s.ReadBytes(2, buf); st != OK {
		t.Fatalf("ReadBytes = %v, want OK", st)
	}
	want := []byte{0xBE, 0xEF, 0x01}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("ReadBytes(2,3) = % X, want % X", buf, want)
		}
	}
}

func makeStream(headerIndex, codeLen int) []byte {
	buf := make([]byte, headerIndex+codeLen)
	for i := headerIndex; i < len(buf); i++ {
		buf[i] = byte((i-headerIndex)*31 + 7)
	}
	return buf
}

func readerOver(stream []byte) Reader {
	return func(id any, offset uint32, dest []byte) (int, error) {
		if int(offset) >= len(stream) {
			return 0, nil
		}
		n := copy(dest, stream[offset:])
		return n, nil
	}
}

// TestPagedAndDirectAgreeOnStridePattern implements scenario 6: under paged
// mode with page size 64 and 4 cached pages, reading bytes across page
// boundaries in a stride pattern produces identical bytes to non-paged
// mode.
func TestPagedAndDirectAgreeOnStridePattern(t *testing.T) {
	const headerIndex = 16
	const codeLen = 768 // exactly 12 pages of 64 bytes
	const pageSize = 64
	const pageCount = 4

	stream := makeStream(headerIndex, codeLen)

	direct := NewDirectSource(stream, headerIndex)
	paged := NewPagedSource(headerIndex, pageSize, pageCount, nil, readerOver(stream))

	// 97 is coprime with 768, so this visits every offset exactly once in
	// a scrambled, page-boundary-crossing order.
	const stride = 97
	for i, pc := 0, uint32(0); i < codeLen; i, pc = i+1, (pc+stride)%codeLen {
		var db, pb [1]byte
		if st := direct.ReadBytes(pc, db[:]); st != OK {
			t.Fatalf("direct.ReadBytes(%d) = %v, want OK", pc, st)
		}
		if st := paged.ReadBytes(pc, pb[:]); st != OK {
			t.Fatalf("paged.ReadBytes(%d) = %v, want OK", pc, st)
		}
		if db[0] != pb[0] {
			t.Fatalf("byte mismatch at pc=%d: direct=%02X paged=%02X", pc, db[0], pb[0])
		}
	}

	if end, known := direct.EndIndex(); !known || end != codeLen {
		t.Fatalf("direct.EndIndex() = (%d,%v), want (%d,true)", end, known, codeLen)
	}
	if _, known := paged.EndIndex(); !known {
		t.Fatal("paged.EndIndex() should be known after touching the final short page")
	}

	if paged.PageReadCount() == 0 {
		t.Fatal("expected at least one page load")
	}
}

func TestPagedSourceLRUAgeOrderMatchesAccessOrder(t *testing.T) {
	const pageSize = 64
	const pageCount = 4
	stream := makeStream(0, pageSize*10)
	paged := NewPagedSource(0, pageSize, pageCount, nil, readerOver(stream))

	touch := func(pc uint32) {
		var b [1]byte
		if st := paged.ReadBytes(pc, b[:]); st != OK {
			t.Fatalf("ReadBytes(%d) = %v, want OK", pc, st)
		}
	}

	// Fill all four slots, oldest to newest: page 0, page 1, page 2, page 3.
	touch(0 * pageSize)
	touch(1 * pageSize)
	touch(2 * pageSize)
	touch(3 * pageSize)

	// Re-touch page 1: it becomes the most recently used.
	touch(1 * pageSize)

	order := paged.AgeOrder()
	pageOf := func(slot int) uint32 { return paged.entries[slot].offset / pageSize }

	wantPages := []uint32{1, 3, 2, 0}
	for i, slot := range order {
		if got := pageOf(slot); got != wantPages[i] {
			t.Fatalf("AgeOrder()[%d] = page %d, want page %d (full order %v)", i, got, wantPages[i], order)
		}
	}
}

func TestPagedSourceDetectsEndOfStreamOnShortRead(t *testing.T) {
	const pageSize = 64
	const pageCount = 2
	stream := makeStream(0, 100) // not a multiple of pageSize
	paged := NewPagedSource(0, pageSize, pageCount, nil, readerOver(stream))

	if st := paged.ValidateAddress(99); st != OK {
		t.Fatalf("ValidateAddress(99) = %v, want OK", st)
	}
	if st := paged.ValidateAddress(100); st != BeyondEndOfCode {
		t.Fatalf("ValidateAddress(100) = %v, want BeyondEndOfCode", st)
	}
	if end, known := paged.EndIndex(); !known || end != 100 {
		t.Fatalf("EndIndex() = (%d,%v), want (100,true)", end, known)
	}
}
