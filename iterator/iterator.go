// Package iterator implements the single state machine that walks every
// iterable kind the engine knows — ranges, strings, tuples, lists, sets,
// dictionaries, namespaces, modules, the bare ellipsis sentinel (meaning
// "the current local namespace"), and other iterators — in both forward and
// reverse directions.
//
// This is a direct semantic port of the original engine's iterator.c.
package iterator

import (
	"github.com/asplang/asp-sub001/asparith"
	"github.com/asplang/asp-sub001/cell"
	"github.com/asplang/asp-sub001/rangeval"
	"github.com/asplang/asp-sub001/seq"
	"github.com/asplang/asp-sub001/tree"
)

// Status reports the outcome of an iterator operation.
type Status uint8

const (
	OK Status = iota
	UnexpectedType
	OutOfDataMemory
	AtEnd
	Overflow
	DivideByZero
	ValueOutOfRange
)

func fromArith(s asparith.Status) Status {
	switch s {
	case asparith.OK:
		return OK
	case asparith.DivideByZero:
		return DivideByZero
	case asparith.ValueOutOfRange:
		return ValueOutOfRange
	default:
		return Overflow
	}
}

func fromRangeval(s rangeval.Status) Status {
	switch s {
	case rangeval.OK:
		return OK
	case rangeval.DivideByZero:
		return DivideByZero
	default:
		return Overflow
	}
}

// treeContainer resolves the cell an iterator over a Set/Dictionary/
// Namespace/Module/Ellipsis should actually walk: Modules and the Ellipsis
// sentinel (standing in for "the caller's current local namespace", since
// namespace binding itself is outside this package's scope) both route to a
// namespace cell; Set/Dictionary/Namespace route to themselves.
func treeContainer(a *cell.Arena, iterable, currentNamespace cell.Index) cell.Index {
	switch a.Type(iterable) {
	case cell.TagModule:
		return a.ModuleNamespaceIndex(iterable)
	case cell.TagEllipsis:
		return currentNamespace
	default:
		return iterable
	}
}

func reversedRangeAtEnd(testValue, startValue, endValue, stepValue int32) bool {
	switch {
	case stepValue == 0:
		return testValue == endValue
	case stepValue < 0:
		return testValue > startValue
	default:
		return testValue < startValue
	}
}

// Create allocates an iterator over iterable. currentNamespace is only
// consulted when iterable is the ellipsis sentinel.
func Create(a *cell.Arena, iterable cell.Index, reversed bool, currentNamespace cell.Index) (cell.Index, Status) {
	iterator, err := a.Alloc(cell.TagForwardIterator)
	if err != nil {
		return cell.Null, OutOfDataMemory
	}

	iterableType := a.Type(iterable)
	var oldIterator cell.Index = cell.Null
	if iterableType.IsIterator() {
		oldIterator = iterable
		iterable = a.IteratorIterableIndex(iterable)
		iterableType = a.Type(iterable)
	}

	a.Ref(iterable)
	a.SetIteratorIterableIndex(iterator, iterable)

	var member cell.Index
	needsCleanup := false
	var stringIndex uint8
	finalReversed := reversed

	fail := func(status Status) (cell.Index, Status) {
		a.Unref(iterator)
		return cell.Null, status
	}

	switch iterableType {
	case cell.TagRange:
		start, end, step, bounded := rangeval.Get(a, iterable)
		var initial int32
		atEnd := false
		if reversed {
			count, st := rangeval.Count(a, iterable)
			if st != rangeval.OK {
				return fail(fromRangeval(st))
			}
			atEnd = start == end
			if !atEnd && count > 0 {
				v, as := asparith.Multiply(count-1, step)
				if as == asparith.OK {
					v, as = asparith.Add(start, v)
				}
				if as != asparith.OK {
					return fail(fromArith(as))
				}
				initial = v
				atEnd = reversedRangeAtEnd(initial, start, end, step)
			}
		} else {
			initial = start
			atEnd = rangeval.IsValueAtEnd(start, end, step, bounded)
		}
		if !atEnd {
			v, err := a.Alloc(cell.TagInteger)
			if err != nil {
				return fail(OutOfDataMemory)
			}
			a.SetInteger(v, initial)
			needsCleanup = true
			member = v
		}

	case cell.TagString, cell.TagTuple, cell.TagList:
		var elem cell.Index
		if reversed {
			elem, _ = seq.Prev(a, iterable, cell.Null)
		} else {
			elem, _ = seq.Next(a, iterable, cell.Null)
		}
		member = elem
		if member != cell.Null && iterableType == cell.TagString && reversed {
			frag := a.ElementValueIndex(member)
			stringIndex = a.StringFragmentSize(frag) - 1
		}

	case cell.TagEllipsis, cell.TagModule, cell.TagSet, cell.TagDictionary, cell.TagNamespace:
		root := a.TreeRoot(treeContainer(a, iterable, currentNamespace))
		if reversed {
			member = tree.Last(a, root)
		} else {
			member = tree.First(a, root)
		}

	case cell.TagForwardIterator, cell.TagReverseIterator:
		member = a.IteratorMemberIndex(oldIterator)
		needsCleanup = a.IteratorMemberNeedsCleanup(oldIterator)
		if needsCleanup {
			a.Ref(member)
		}
		finalReversed = (iterableType == cell.TagReverseIterator) != reversed
		if a.Type(iterable) == cell.TagString {
			stringIndex = a.IteratorStringIndex(oldIterator)
		}

	default:
		return fail(UnexpectedType)
	}

	a.SetIteratorMemberIndex(iterator, member)
	a.SetIteratorMemberNeedsCleanup(iterator, needsCleanup)
	a.SetIteratorStringIndex(iterator, stringIndex)
	a.SetIteratorDirection(iterator, finalReversed)

	return iterator, OK
}

// Next advances iterator in place, ending it (member becomes cell.Null) once
// it passes the last element.
func Next(a *cell.Arena, iterator cell.Index) Status {
	if !a.Type(iterator).IsIterator() {
		return UnexpectedType
	}
	iterable := a.IteratorIterableIndex(iterator)
	member := a.IteratorMemberIndex(iterator)
	if member == cell.Null {
		return AtEnd
	}
	reversed := a.IsReverseIterator(iterator)

	switch iterableType := a.Type(iterable); iterableType {
	case cell.TagRange:
		if a.Type(member) != cell.TagInteger {
			return UnexpectedType
		}
		start, end, step, bounded := rangeval.Get(a, iterable)
		var newValue int32
		var as asparith.Status
		if reversed {
			newValue, as = asparith.Subtract(a.Integer(member), step)
		} else {
			newValue, as = asparith.Add(a.Integer(member), step)
		}
		if as != asparith.OK {
			return fromArith(as)
		}
		a.Unref(member)

		atEnd := reversedRangeAtEnd(newValue, start, end, step)
		if !reversed {
			atEnd = rangeval.IsValueAtEnd(newValue, end, step, bounded)
		}
		if atEnd {
			a.SetIteratorMemberNeedsCleanup(iterator, false)
			member = cell.Null
		} else {
			v, err := a.Alloc(cell.TagInteger)
			if err != nil {
				return OutOfDataMemory
			}
			a.SetInteger(v, newValue)
			member = v
		}

	case cell.TagString:
		if a.Type(member) != cell.TagElement {
			return UnexpectedType
		}
		fragment := a.ElementValueIndex(member)
		if a.Type(fragment) != cell.TagStringFragment {
			return UnexpectedType
		}
		stringIndex := a.IteratorStringIndex(iterator)
		if reversed {
			if stringIndex > 0 {
				a.SetIteratorStringIndex(iterator, stringIndex-1)
				return OK
			}
		} else if stringIndex+1 < a.StringFragmentSize(fragment) {
			a.SetIteratorStringIndex(iterator, stringIndex+1)
			return OK
		}
		next, val := seqStep(a, iterable, member, reversed)
		member = next
		if member != cell.Null {
			if !reversed {
				a.SetIteratorStringIndex(iterator, 0)
			} else {
				a.SetIteratorStringIndex(iterator, a.StringFragmentSize(val)-1)
			}
		}

	case cell.TagTuple, cell.TagList:
		if a.Type(member) != cell.TagElement {
			return UnexpectedType
		}
		next, _ := seqStep(a, iterable, member, reversed)
		member = next

	case cell.TagEllipsis, cell.TagModule, cell.TagSet, cell.TagDictionary, cell.TagNamespace:
		_ = iterableType
		switch a.Type(member) {
		case cell.TagSetNode, cell.TagDictionaryNode, cell.TagNamespaceNode:
		default:
			return UnexpectedType
		}
		if reversed {
			member = tree.Prev(a, member)
		} else {
			member = tree.Next(a, member)
		}

	default:
		return UnexpectedType
	}

	a.SetIteratorMemberIndex(iterator, member)
	return OK
}

func seqStep(a *cell.Arena, iterable, member cell.Index, reversed bool) (elem, value cell.Index) {
	if reversed {
		return seq.Prev(a, iterable, member)
	}
	return seq.Next(a, iterable, member)
}

// Dereference returns the value the iterator currently denotes, constructing
// a fresh cell where the original semantics require one (a one-character
// string, a (key, value) tuple for dictionary/namespace iteration) and a new
// strong reference where it denotes an existing value directly.
func Dereference(a *cell.Arena, iterator cell.Index) (cell.Index, Status) {
	if !a.Type(iterator).IsIterator() {
		return cell.Null, UnexpectedType
	}
	iterable := a.IteratorIterableIndex(iterator)
	member := a.IteratorMemberIndex(iterator)
	if member == cell.Null {
		return cell.Null, AtEnd
	}

	switch iterableType := a.Type(iterable); iterableType {
	case cell.TagRange:
		if a.Type(member) != cell.TagInteger {
			return cell.Null, UnexpectedType
		}
		a.Ref(member)
		return member, OK

	case cell.TagString:
		fragment := a.ElementValueIndex(member)
		if a.Type(fragment) != cell.TagStringFragment {
			return cell.Null, UnexpectedType
		}
		stringIndex := a.IteratorStringIndex(iterator)
		c := a.StringFragmentData(fragment)[stringIndex]

		result, err := a.Alloc(cell.TagString)
		if err != nil {
			return cell.Null, OutOfDataMemory
		}
		frag, err := a.NewStringFragment([]byte{c})
		if err != nil {
			a.Unref(result)
			return cell.Null, OutOfDataMemory
		}
		if st := seq.Append(a, result, frag); st != seq.OK {
			a.Unref(frag)
			a.Unref(result)
			return cell.Null, OutOfDataMemory
		}
		return result, OK

	case cell.TagTuple, cell.TagList:
		value := a.ElementValueIndex(member)
		a.Ref(value)
		return value, OK

	case cell.TagSet:
		key := a.TreeNodeKeyIndex(member)
		a.Ref(key)
		return key, OK

	case cell.TagEllipsis, cell.TagModule, cell.TagDictionary, cell.TagNamespace:
		resolved := iterable
		if iterableType == cell.TagModule {
			resolved = a.ModuleNamespaceIndex(iterable)
		}

		var key cell.Index
		if a.Type(resolved) == cell.TagNamespace {
			k, err := a.Alloc(cell.TagSymbol)
			if err != nil {
				return cell.Null, OutOfDataMemory
			}
			a.SetSymbol(k, a.NamespaceNodeSymbol(member))
			key = k
		} else {
			key = a.TreeNodeKeyIndex(member)
			a.Ref(key)
		}
		value := a.TreeNodeValueIndex(member)
		a.Ref(value)

		tuple, err := a.Alloc(cell.TagTuple)
		if err != nil {
			a.Unref(key)
			a.Unref(value)
			return cell.Null, OutOfDataMemory
		}
		if st := seq.Append(a, tuple, key); st != seq.OK {
			a.Unref(key)
			a.Unref(value)
			a.Unref(tuple)
			return cell.Null, OutOfDataMemory
		}
		if st := seq.Append(a, tuple, value); st != seq.OK {
			a.Unref(value)
			a.Unref(tuple)
			return cell.Null, OutOfDataMemory
		}
		return tuple, OK

	default:
		return cell.Null, UnexpectedType
	}
}
