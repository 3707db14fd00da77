// Package codepage implements linear and LRU-paged access to a bytecode
// stream, mirroring original_source/engine/code.c's AspLoadCodeBytes,
// AspValidateCodeAddress, and AspLoadCodePage.
//
// A Source answers two questions for a code-relative program counter (0 at
// the first instruction byte, after the header): is this address known to
// be within the code, and what bytes live there. DirectSource answers both
// directly from an in-memory buffer; PagedSource answers them by keeping a
// small fixed set of page-sized windows into a much larger offline stream,
// loaded on demand through a host-supplied Reader and evicted
// least-recently-used.
package codepage

import "golang.org/x/exp/slices"

// Status mirrors the subset of the engine's RunResult enumeration that the
// code layer can produce on its own.
type Status uint8

const (
	OK Status = iota
	BeyondEndOfCode
	ReadError
)

// Source is satisfied by both DirectSource and PagedSource.
type Source interface {
	// ValidateAddress reports whether pc is known to lie within the code
	// stream, loading whatever page holds it in paged mode.
	ValidateAddress(pc uint32) Status

	// ReadBytes fills dest with the count bytes starting at pc.
	ReadBytes(pc uint32, dest []byte) Status

	// EndIndex reports the code-relative end-of-stream offset and whether
	// it is known yet. In paged mode the end isn't known until a short
	// page read reveals it.
	EndIndex() (index uint32, known bool)
}

// DirectSource serves code straight out of an in-memory buffer, the
// non-paged mode described in spec.md 4.8.
type DirectSource struct {
	code        []byte
	headerIndex uint32
	end         uint32
}

// NewDirectSource wraps code (the full stream, header included) for direct
// access. headerIndex is the number of leading header bytes to skip.
func NewDirectSource(code []byte, headerIndex uint32) *DirectSource {
	return &DirectSource{
		code:        code,
		headerIndex: headerIndex,
		end:         uint32(len(code)) - headerIndex,
	}
}

func (s *DirectSource) ValidateAddress(pc uint32) Status {
	if pc > s.end {
		return BeyondEndOfCode
	}
	return OK
}

func (s *DirectSource) ReadBytes(pc uint32, dest []byte) Status {
	if pc+uint32(len(dest)) > s.end {
		return BeyondEndOfCode
	}
	copy(dest, s.code[s.headerIndex+pc:])
	return OK
}

func (s *DirectSource) EndIndex() (uint32, bool) { return s.end, true }

// Reader loads one page's worth of bytes starting at the given
// stream-relative offset (header included) into dest, returning the number
// of bytes actually written. A short read (n < len(dest)) signals
// end-of-stream, matching the host codeReader callback's contract.
type Reader func(id any, offset uint32, dest []byte) (n int, err error)

type pageEntry struct {
	offset uint32
	age    int8 // -1 means never loaded
}

// PagedSource implements age-based LRU paging over a Reader-backed stream
// too large to hold in memory, matching AspLoadCodePage/UpdateAges exactly:
// on a cache hit for a page other than the currently active one, ages are
// rewritten so the hit page becomes age 0 and every other valid page's age
// increments; on a miss, the highest-aged (or never-loaded) slot is evicted
// and reloaded via Reader.
type PagedSource struct {
	headerIndex uint32
	pageSize    uint32
	entries     []pageEntry
	pages       [][]byte
	active      int
	reader      Reader
	readerID    any

	codeEndIndex uint32
	codeEndKnown bool
	readCount    uint64
}

// NewPagedSource creates a PagedSource with pageCount cached windows of
// pageSize bytes each, reading from reader under readerID (passed through
// unchanged, the Go analogue of the original's pagedCodeId).
func NewPagedSource(headerIndex, pageSize uint32, pageCount int, readerID any, reader Reader) *PagedSource {
	entries := make([]pageEntry, pageCount)
	pages := make([][]byte, pageCount)
	for i := range entries {
		entries[i].age = -1
		entries[i].offset = ^uint32(0) // force a load on first access
		pages[i] = make([]byte, pageSize)
	}
	return &PagedSource{
		headerIndex: headerIndex,
		pageSize:    pageSize,
		entries:     entries,
		pages:       pages,
		reader:      reader,
		readerID:    readerID,
	}
}

// PageReadCount returns how many times the backing Reader has been invoked,
// a diagnostic counter with no behavioral effect.
func (s *PagedSource) PageReadCount() uint64 { return s.readCount }

// AgeOrder returns the cache slot indices ordered from most to least
// recently used (age 0 first, never-loaded slots last), for tests that want
// to assert the LRU bookkeeping directly.
func (s *PagedSource) AgeOrder() []int {
	order := make([]int, len(s.entries))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(i, j int) bool { return s.age(i) < s.age(j) })
	return order
}

func (s *PagedSource) age(i int) int {
	a := s.entries[i].age
	if a < 0 {
		return 1 << 30 // sort never-loaded slots last
	}
	return int(a)
}

func (s *PagedSource) updateAges() {
	for i := range s.entries {
		if i == s.active {
			s.entries[i].age = 0
		} else if s.entries[i].age >= 0 {
			s.entries[i].age++
		}
	}
}

func (s *PagedSource) loadPage(offset uint32) Status {
	// Already cached?
	for i := range s.entries {
		e := &s.entries[i]
		if e.age >= 0 && offset >= e.offset && offset < e.offset+s.pageSize {
			if s.active != i {
				s.active = i
				s.updateAges()
			}
			return OK
		}
	}

	// Evict the least-recently-used slot (or the first never-loaded one).
	chosen := 0
	oldestAge := int8(-1)
	for i := range s.entries {
		e := &s.entries[i]
		if e.age < 0 {
			chosen = i
			break
		}
		if i == 0 || e.age > oldestAge {
			oldestAge = e.age
			chosen = i
		}
	}
	s.active = chosen

	codePageIndex := offset / s.pageSize
	codeOffset := codePageIndex * s.pageSize
	s.entries[chosen].offset = codeOffset
	s.updateAges()

	s.readCount++
	n, err := s.reader(s.readerID, codeOffset, s.pages[chosen])
	if err != nil {
		return ReadError
	}
	if codeOffset == 0 && uint32(n) < s.headerIndex {
		return BeyondEndOfCode
	}
	if uint32(n) != s.pageSize {
		endIndex := codeOffset + uint32(n) - s.headerIndex
		if !s.codeEndKnown || endIndex < s.codeEndIndex {
			s.codeEndIndex = endIndex
			s.codeEndKnown = true
		}
	}
	return OK
}

func (s *PagedSource) ValidateAddress(pc uint32) Status {
	offset := s.headerIndex + pc
	e := &s.entries[s.active]
	if offset < e.offset || offset >= e.offset+s.pageSize {
		if st := s.loadPage(offset); st != OK {
			return st
		}
	}
	if s.codeEndKnown && pc >= s.codeEndIndex {
		return BeyondEndOfCode
	}
	return OK
}

func (s *PagedSource) ReadBytes(pc uint32, dest []byte) Status {
	offset := s.headerIndex + pc
	for i := range dest {
		if st := s.ValidateAddress(pc); st != OK {
			return st
		}
		page := s.pages[s.active]
		pageOffset := offset % s.pageSize
		offset++
		pc++
		dest[i] = page[pageOffset]
	}
	return OK
}

func (s *PagedSource) EndIndex() (uint32, bool) { return s.codeEndIndex, s.codeEndKnown }
