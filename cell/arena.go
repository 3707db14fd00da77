package cell

import "errors"

// Sentinel errors returned by Arena operations. Higher layers translate
// these into the engine-wide RunResult enumeration.
var (
	ErrOutOfMemory   = errors.New("cell: out of data memory")
	ErrCycleDetected = errors.New("cell: cycle detected during release")
)

// Arena is a fixed-capacity pool of cells with a singly-linked free list,
// exactly mirroring the host-supplied data region the original engine is
// initialized with. Index 0 is reserved as the null sentinel and is never
// handed out by Alloc.
type Arena struct {
	cells []cellData

	freeHead Index
	lowFree  int // low-water mark of the free-list length, for diagnostics

	// CycleLimit bounds the recursion performed by Unref and any traversal
	// that must survive a corrupt or malicious container graph. Zero means
	// "use DefaultCycleLimit".
	CycleLimit int

	// Poisoned, when true, makes Ref/Unref no-ops so that teardown after a
	// sticky engine error cannot itself raise new errors.
	Poisoned bool

	trueSingleton, falseSingleton Index
}

// BooleanSingleton returns the engine-wide Boolean cell for v, allocating
// it on first use and ref'ing it on every call thereafter, mirroring
// AspNewBoolean's singleton-per-engine contract.
func (a *Arena) BooleanSingleton(v bool) (Index, error) {
	slot := &a.falseSingleton
	if v {
		slot = &a.trueSingleton
	}
	if *slot != Null {
		a.Ref(*slot)
		return *slot, nil
	}
	i, err := a.Alloc(TagBoolean)
	if err != nil {
		return Null, err
	}
	a.SetBoolean(i, v)
	*slot = i
	return i, nil
}

// DefaultCycleLimit is used when Arena.CycleLimit is zero.
const DefaultCycleLimit = 1 << 20

// New creates an Arena with room for exactly capacity addressable cells
// (plus the reserved null cell at index 0).
func New(capacity int) *Arena {
	a := &Arena{cells: make([]cellData, capacity+1)}
	a.cells[0].tag = TagNone // the null cell is never touched otherwise
	for i := capacity; i >= 1; i-- {
		a.cells[i].tag = TagFree
		a.cells[i].idxA = a.freeHead
		a.freeHead = Index(i)
	}
	a.lowFree = a.freeListLen()
	return a
}

func (a *Arena) freeListLen() int {
	n := 0
	for i := a.freeHead; i != Null; i = a.cells[i].idxA {
		n++
	}
	return n
}

// Capacity returns the number of addressable, non-null cells.
func (a *Arena) Capacity() int { return len(a.cells) - 1 }

// LowFreeCount returns the fewest free cells ever observed, a diagnostic
// aid for sizing the host-supplied data region.
func (a *Arena) LowFreeCount() int { return a.lowFree }

// Alloc removes a cell from the free list, clears its payload, sets its tag
// and use count to one, and returns its index.
func (a *Arena) Alloc(tag Tag) (Index, error) {
	if a.freeHead == Null {
		return Null, ErrOutOfMemory
	}
	i := a.freeHead
	a.freeHead = a.cells[i].idxA
	a.cells[i] = cellData{tag: tag, useCount: 1}
	if n := a.freeListLen(); n < a.lowFree {
		a.lowFree = n
	}
	return i, nil
}

// free returns a cell to the free list without examining or releasing its
// owned fields; callers must already have released them.
func (a *Arena) free(i Index) {
	a.cells[i] = cellData{tag: TagFree, idxA: a.freeHead}
	a.freeHead = i
	if n := a.freeListLen(); n < a.lowFree {
		a.lowFree = n
	}
}

// Ref increments the use count of the cell at i. A no-op for the null
// index or a poisoned arena.
func (a *Arena) Ref(i Index) {
	if i == Null || a.Poisoned {
		return
	}
	a.cells[i].useCount++
}

// Unref decrements the use count of the cell at i, recursively releasing
// its owned fields once the count reaches zero. Recursion depth (measured
// in cells visited, not Go stack frames) is bounded by CycleLimit so that a
// corrupt graph cannot hang or crash the host; exceeding the limit returns
// ErrCycleDetected and leaves the arena in a safe, if leaky, state.
func (a *Arena) Unref(i Index) error {
	if i == Null || a.Poisoned {
		return nil
	}

	limit := a.CycleLimit
	if limit == 0 {
		limit = DefaultCycleLimit
	}

	// Explicit work stack: released composites can own further composites
	// (a list of lists, a dict of tuples...) and we must never recurse on
	// the host call stack to walk them.
	stack := []Index{i}
	visited := 0
	for len(stack) > 0 {
		visited++
		if visited > limit {
			return ErrCycleDetected
		}

		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if idx == Null {
			continue
		}

		c := &a.cells[idx]
		c.useCount--
		if c.useCount > 0 {
			continue
		}

		owned := ownedFields(c)
		a.free(idx)
		stack = append(stack, owned...)
	}
	return nil
}

// ownedFields returns the indices a cell holds a strong (owning) reference
// to, i.e. the set that must themselves be unref'd when c is released.
func ownedFields(c *cellData) []Index {
	switch c.tag {
	case TagRange:
		var owned []Index
		if c.flags&flagRangeHasStart != 0 {
			owned = append(owned, c.idxA)
		}
		if c.flags&flagRangeHasEnd != 0 {
			owned = append(owned, c.idxB)
		}
		if c.flags&flagRangeHasStep != 0 {
			owned = append(owned, c.idxC)
		}
		return owned

	case TagString, TagTuple, TagList:
		// Owns its head Element; each Element owns its value and chains to
		// the next Element (see the TagElement case below), so unref'ing
		// the head cascades through the whole sequence.
		if c.idxA == Null {
			return nil
		}
		return []Index{c.idxA}

	case TagElement:
		owned := []Index{c.idxC} // the value
		if c.idxB != Null {
			owned = append(owned, c.idxB) // next element, to keep walking
		}
		return owned

	case TagSet, TagDictionary, TagNamespace:
		// Owns its root node; each node owns its key/value and chains to
		// its children (see the node cases below), so unref'ing the root
		// cascades through the whole tree.
		if c.idxA == Null {
			return nil
		}
		return []Index{c.idxA}

	case TagSetNode:
		owned := []Index{c.idxA} // key
		if c.idxC != Null {
			owned = append(owned, c.idxC)
		}
		if c.idxD != Null {
			owned = append(owned, c.idxD)
		}
		return owned

	case TagDictionaryNode:
		owned := []Index{c.idxA, c.idxB} // key, value
		if c.idxD != Null {
			owned = append(owned, c.idxD) // TreeLinks cell
		}
		return owned

	case TagNamespaceNode:
		owned := []Index{c.idxB} // value only; key is a bare symbol, not a cell
		if c.idxD != Null {
			owned = append(owned, c.idxD)
		}
		return owned

	case TagTreeLinks:
		var owned []Index
		if c.idxA != Null {
			owned = append(owned, c.idxA)
		}
		if c.idxB != Null {
			owned = append(owned, c.idxB)
		}
		return owned

	case TagForwardIterator, TagReverseIterator:
		owned := []Index{c.idxA} // the iterable
		if c.flags&flagIteratorNeedsCleanup != 0 && c.idxB != Null {
			owned = append(owned, c.idxB) // the owned member integer
		}
		return owned

	case TagModule:
		return []Index{c.idxA}

	default:
		return nil
	}
}
