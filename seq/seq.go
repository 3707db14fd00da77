// Package seq implements the doubly-linked Element chain backing strings,
// tuples, and lists. All three share one sequence header shape (head, tail,
// count) in the cell package; this package supplies the append, insert,
// erase, index, and iteration operations that make that chain useful.
//
// sequence.c itself was not available to port directly; the node shape and
// operation contracts here are reconstructed from how api.c and iterator.c
// call AspSequenceAppend/InsertByIndex/Erase/Index/Next.
package seq

import "github.com/asplang/asp-sub001/cell"

// Status reports the outcome of a sequence operation.
type Status uint8

const (
	OK Status = iota
	ValueOutOfRange
	OutOfDataMemory
)

// Append adds value to the end of seq. It takes ownership of the caller's
// existing reference to value rather than adding a new one; callers that
// want to keep their own reference must Ref it themselves first.
func Append(a *cell.Arena, seq, value cell.Index) Status {
	tail := a.SequenceTail(seq)
	elem, err := a.NewElement(tail, cell.Null, value)
	if err != nil {
		return OutOfDataMemory
	}
	if tail != cell.Null {
		a.SetElementNext(tail, elem)
	} else {
		a.SetSequenceHead(seq, elem)
	}
	a.SetSequenceTail(seq, elem)
	a.SetSequenceCount(seq, a.SequenceCount(seq)+1)
	return OK
}

// InsertByIndex inserts value before the element currently at index,
// clamping index into [0, count] the way Python's list.insert does:
// negative indices count from the end and out-of-range indices clamp to
// either boundary rather than erroring. Like Append, it takes ownership of
// the caller's existing reference to value.
func InsertByIndex(a *cell.Arena, seq cell.Index, index int32, value cell.Index) Status {
	count := int32(a.SequenceCount(seq))
	switch {
	case index < 0:
		index += count
		if index < 0 {
			index = 0
		}
	case index > count:
		index = count
	}
	if index == count {
		return Append(a, seq, value)
	}

	at, status := elementAt(a, seq, index)
	if status != OK {
		return status
	}
	prev := a.ElementPrev(at)

	elem, err := a.NewElement(prev, at, value)
	if err != nil {
		return OutOfDataMemory
	}
	a.SetElementPrev(at, elem)
	if prev != cell.Null {
		a.SetElementNext(prev, elem)
	} else {
		a.SetSequenceHead(seq, elem)
	}
	a.SetSequenceCount(seq, a.SequenceCount(seq)+1)
	return OK
}

// Erase removes the element at index (negative counts from the end),
// releasing the sequence's reference to its value.
func Erase(a *cell.Arena, seq cell.Index, index int32) Status {
	elem, status := elementAt(a, seq, index)
	if status != OK {
		return status
	}

	prev := a.ElementPrev(elem)
	next := a.ElementNext(elem)
	if prev != cell.Null {
		a.SetElementNext(prev, next)
	} else {
		a.SetSequenceHead(seq, next)
	}
	if next != cell.Null {
		a.SetElementPrev(next, prev)
	} else {
		a.SetSequenceTail(seq, prev)
	}
	a.SetSequenceCount(seq, a.SequenceCount(seq)-1)

	unlinkAndFree(a, elem)
	return OK
}

// unlinkAndFree releases an element's value and then the element cell
// itself, after nulling out the fields Unref's cascade would otherwise
// walk into — the rest of the chain has already been relinked around it by
// the caller and must not be touched again here.
func unlinkAndFree(a *cell.Arena, elem cell.Index) {
	a.Unref(a.ElementValueIndex(elem))
	a.SetElementValueIndex(elem, cell.Null)
	a.SetElementNext(elem, cell.Null)
	a.Unref(elem)
}

// elementAt resolves a (possibly negative) index to the element at that
// position, walking from whichever end of the chain is closer.
func elementAt(a *cell.Arena, seq cell.Index, index int32) (cell.Index, Status) {
	count := int32(a.SequenceCount(seq))
	if index < 0 {
		index += count
	}
	if index < 0 || index >= count {
		return cell.Null, ValueOutOfRange
	}

	if index <= count/2 {
		e := a.SequenceHead(seq)
		for k := int32(0); k < index; k++ {
			e = a.ElementNext(e)
		}
		return e, OK
	}
	e := a.SequenceTail(seq)
	for k := count - 1; k > index; k-- {
		e = a.ElementPrev(e)
	}
	return e, OK
}

// Index returns the value held at the given (possibly negative) index.
func Index(a *cell.Arena, seq cell.Index, index int32) (cell.Index, Status) {
	e, status := elementAt(a, seq, index)
	if status != OK {
		return cell.Null, status
	}
	return a.ElementValueIndex(e), OK
}

// Next walks forward: given elem (cell.Null to start at the head), it
// returns the following element and the value held there. The returned
// element is cell.Null once the chain is exhausted.
func Next(a *cell.Arena, seq, elem cell.Index) (nextElem, value cell.Index) {
	if elem == cell.Null {
		nextElem = a.SequenceHead(seq)
	} else {
		nextElem = a.ElementNext(elem)
	}
	if nextElem != cell.Null {
		value = a.ElementValueIndex(nextElem)
	}
	return
}

// Prev walks backward: given elem (cell.Null to start at the tail), it
// returns the preceding element and the value held there.
func Prev(a *cell.Arena, seq, elem cell.Index) (prevElem, value cell.Index) {
	if elem == cell.Null {
		prevElem = a.SequenceTail(seq)
	} else {
		prevElem = a.ElementPrev(elem)
	}
	if prevElem != cell.Null {
		value = a.ElementValueIndex(prevElem)
	}
	return
}
