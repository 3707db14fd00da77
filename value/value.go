// Package value implements the host-facing value model: type predicates,
// the total ordering that powers tree keys and comparison operators,
// constructors, scalar conversions, container mutation, and the
// AspToString rendering algorithm.
//
// This is a direct semantic port of the value-model sections of the
// original engine's api.c.
package value

import (
	"strconv"

	"github.com/asplang/asp-sub001/asparith"
	"github.com/asplang/asp-sub001/cell"
	"github.com/asplang/asp-sub001/iterator"
	"github.com/asplang/asp-sub001/rangeval"
	"github.com/asplang/asp-sub001/seq"
	"github.com/asplang/asp-sub001/tree"
)

// Status reports the outcome of a value operation.
type Status uint8

const (
	OK Status = iota
	UnexpectedType
	OutOfDataMemory
	NotExclusivelyOwned
	ValueOutOfRange
	IndexOutOfRange
	KeyNotFound
	DivideByZero
	Overflow
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

func fromSeq(s seq.Status) Status {
	switch s {
	case seq.OK:
		return OK
	case seq.ValueOutOfRange:
		return IndexOutOfRange
	default:
		return OutOfDataMemory
	}
}

func fromIterator(s iterator.Status) Status {
	switch s {
	case iterator.OK:
		return OK
	case iterator.AtEnd:
		return ValueOutOfRange
	case iterator.UnexpectedType:
		return UnexpectedType
	case iterator.OutOfDataMemory:
		return OutOfDataMemory
	case iterator.DivideByZero:
		return DivideByZero
	case iterator.ValueOutOfRange:
		return ValueOutOfRange
	default:
		return Overflow
	}
}

// ----- predicates ----------------------------------------------------------

func IsNone(a *cell.Arena, v cell.Index) bool       { return v != cell.Null && a.Type(v) == cell.TagNone }
func IsEllipsis(a *cell.Arena, v cell.Index) bool   { return v != cell.Null && a.Type(v) == cell.TagEllipsis }
func IsBoolean(a *cell.Arena, v cell.Index) bool    { return v != cell.Null && a.Type(v) == cell.TagBoolean }
func IsInteger(a *cell.Arena, v cell.Index) bool    { return v != cell.Null && a.Type(v) == cell.TagInteger }
func IsFloat(a *cell.Arena, v cell.Index) bool      { return v != cell.Null && a.Type(v) == cell.TagFloat }
func IsRange(a *cell.Arena, v cell.Index) bool      { return v != cell.Null && a.Type(v) == cell.TagRange }
func IsString(a *cell.Arena, v cell.Index) bool     { return v != cell.Null && a.Type(v) == cell.TagString }
func IsTuple(a *cell.Arena, v cell.Index) bool      { return v != cell.Null && a.Type(v) == cell.TagTuple }
func IsList(a *cell.Arena, v cell.Index) bool       { return v != cell.Null && a.Type(v) == cell.TagList }
func IsSet(a *cell.Arena, v cell.Index) bool        { return v != cell.Null && a.Type(v) == cell.TagSet }
func IsDictionary(a *cell.Arena, v cell.Index) bool { return v != cell.Null && a.Type(v) == cell.TagDictionary }
func IsType(a *cell.Arena, v cell.Index) bool       { return v != cell.Null && a.Type(v) == cell.TagType }
func IsIterator(a *cell.Arena, v cell.Index) bool   { return v != cell.Null && a.Type(v).IsIterator() }

// IsIntegral reports whether v is a Boolean or Integer.
func IsIntegral(a *cell.Arena, v cell.Index) bool {
	if v == cell.Null {
		return false
	}
	t := a.Type(v)
	return t == cell.TagBoolean || t == cell.TagInteger
}

// IsNumber reports whether v is an Integer or Float.
func IsNumber(a *cell.Arena, v cell.Index) bool {
	if v == cell.Null {
		return false
	}
	t := a.Type(v)
	return t == cell.TagInteger || t == cell.TagFloat
}

// IsNumeric reports whether v is a Boolean, Integer, or Float.
func IsNumeric(a *cell.Arena, v cell.Index) bool {
	if v == cell.Null {
		return false
	}
	t := a.Type(v)
	return t == cell.TagBoolean || t == cell.TagInteger || t == cell.TagFloat
}

// IsSequence reports whether v is a Tuple or List; strings are not
// considered sequences under this predicate.
func IsSequence(a *cell.Arena, v cell.Index) bool {
	if v == cell.Null {
		return false
	}
	t := a.Type(v)
	return t == cell.TagTuple || t == cell.TagList
}

// IsTrue implements the engine's truthiness table.
func IsTrue(a *cell.Arena, v cell.Index) bool {
	switch a.Type(v) {
	case cell.TagNone:
		return false
	case cell.TagBoolean:
		return a.Boolean(v)
	case cell.TagInteger:
		return a.Integer(v) != 0
	case cell.TagFloat:
		return a.Float(v) != 0
	case cell.TagRange:
		start, end, step, bounded := rangeval.Get(a, v)
		return !rangeval.IsValueAtEnd(start, end, step, bounded)
	case cell.TagString, cell.TagTuple, cell.TagList:
		return a.SequenceCount(v) != 0
	case cell.TagSet, cell.TagDictionary:
		return a.TreeCount(v) != 0
	case cell.TagForwardIterator, cell.TagReverseIterator:
		return a.IteratorMemberIndex(v) != cell.Null
	case cell.TagType:
		return a.TypeValue(v) != cell.TagNone
	default:
		// Ellipsis, Function, Module are always truthy.
		return true
	}
}

// ----- total ordering --------------------------------------------------

// Compare returns a negative number, zero, or a positive number as x is
// less than, equal to, or greater than y, under the total order that backs
// tree keys and the script-level `<`/`==` operators. Numeric kinds
// (Boolean, Integer, Float) compare across kinds by value with float
// promotion; every other kind compares by a fixed canonical type rank
// first, falling back to byte/element-wise comparison within a shared rank.
func Compare(a *cell.Arena, x, y cell.Index) int {
	if IsNumeric(a, x) && IsNumeric(a, y) {
		fx, fy := numericValue(a, x), numericValue(a, y)
		switch {
		case fx < fy:
			return -1
		case fx > fy:
			return 1
		default:
			return 0
		}
	}

	tx, ty := a.Type(x), a.Type(y)
	if tx != ty {
		if tx < ty {
			return -1
		}
		return 1
	}

	switch tx {
	case cell.TagNone, cell.TagEllipsis:
		return 0

	case cell.TagString:
		return compareBytes(a, x, y)

	case cell.TagTuple, cell.TagList:
		return compareSequences(a, x, y)

	case cell.TagRange:
		sx, ex, stx, _ := rangeval.Get(a, x)
		sy, ey, sty, _ := rangeval.Get(a, y)
		if c := compareInt32(sx, sy); c != 0 {
			return c
		}
		if c := compareInt32(ex, ey); c != 0 {
			return c
		}
		return compareInt32(stx, sty)

	case cell.TagType:
		return compareInt32(int32(a.TypeValue(x)), int32(a.TypeValue(y)))

	default:
		// Sets, dictionaries, iterators, functions, modules: no natural
		// value ordering is defined by the source language. Order
		// arbitrarily but stably by cell index so the tree still has a
		// consistent total order.
		return compareInt32(int32(x), int32(y))
	}
}

func numericValue(a *cell.Arena, v cell.Index) float64 {
	switch a.Type(v) {
	case cell.TagBoolean:
		if a.Boolean(v) {
			return 1
		}
		return 0
	case cell.TagInteger:
		return float64(a.Integer(v))
	default:
		return a.Float(v)
	}
}

func compareInt32(x, y int32) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

func compareBytes(a *cell.Arena, x, y cell.Index) int {
	xb, yb := stringBytes(a, x), stringBytes(a, y)
	n := len(xb)
	if len(yb) < n {
		n = len(yb)
	}
	for i := 0; i < n; i++ {
		if xb[i] != yb[i] {
			if xb[i] < yb[i] {
				return -1
			}
			return 1
		}
	}
	return compareInt32(int32(len(xb)), int32(len(yb)))
}

func compareSequences(a *cell.Arena, x, y cell.Index) int {
	ex, ey := cell.Null, cell.Null
	for {
		var vx, vy cell.Index
		ex, vx = seq.Next(a, x, ex)
		ey, vy = seq.Next(a, y, ey)
		if ex == cell.Null || ey == cell.Null {
			switch {
			case ex == cell.Null && ey == cell.Null:
				return 0
			case ex == cell.Null:
				return -1
			default:
				return 1
			}
		}
		if c := Compare(a, vx, vy); c != 0 {
			return c
		}
	}
}

// KeyCmp returns a tree.Cmp that orders nodes by comparing their key
// (TreeNodeKeyIndex) against key via Compare, for use with tree.Find and
// tree.Insert on sets, dictionaries, and namespaces keyed by a value cell.
func KeyCmp(a *cell.Arena, key cell.Index) tree.Cmp {
	return func(node cell.Index) int {
		return Compare(a, key, a.TreeNodeKeyIndex(node))
	}
}

// ----- conversions -------------------------------------------------------

// IntegerValue converts a numeric value to int32, following AspIntegerValue:
// booleans become 0/1, floats round-and-clamp to [minInt32, maxInt32]
// (returning ok=false if clamping occurred).
func IntegerValue(a *cell.Arena, v cell.Index) (result int32, ok bool) {
	if !IsNumeric(a, v) {
		return 0, false
	}
	switch a.Type(v) {
	case cell.TagBoolean:
		if a.Boolean(v) {
			return 1, true
		}
		return 0, true
	case cell.TagInteger:
		return a.Integer(v), true
	default:
		f := a.Float(v)
		switch {
		case f < float64(asparith.MinInt32):
			return asparith.MinInt32, false
		case f > float64(asparith.MaxInt32):
			return asparith.MaxInt32, false
		default:
			r := f
			if r >= 0 {
				r += 0.5
			} else {
				r -= 0.5
			}
			return int32(r), true
		}
	}
}

// FloatValue converts a numeric value to float64.
func FloatValue(a *cell.Arena, v cell.Index) (result float64, ok bool) {
	if !IsNumeric(a, v) {
		return 0, false
	}
	return numericValue(a, v), true
}

// RangeValues fills start/end/step from a Range value (the plural form
// actually shipped by the original api.c; see DESIGN.md Open Question 1).
func RangeValues(a *cell.Arena, v cell.Index) (start, end, step int32, ok bool) {
	if !IsRange(a, v) {
		return 0, 0, 0, false
	}
	start, end, step, _ = rangeval.Get(a, v)
	return start, end, step, true
}

func stringBytes(a *cell.Arena, v cell.Index) []byte {
	buf := make([]byte, 0, stringByteLength(a, v))
	elem := cell.Null
	for {
		var frag cell.Index
		elem, frag = seq.Next(a, v, elem)
		if elem == cell.Null {
			break
		}
		buf = append(buf, a.StringFragmentData(frag)...)
	}
	return buf
}

// stringByteLength sums the fragment sizes of a string, its true Python
// len() length, as distinct from a.SequenceCount(v) (the fragment count).
func stringByteLength(a *cell.Arena, v cell.Index) uint32 {
	var total uint32
	elem := cell.Null
	for {
		var frag cell.Index
		elem, frag = seq.Next(a, v, elem)
		if elem == cell.Null {
			break
		}
		total += uint32(a.StringFragmentSize(frag))
	}
	return total
}

// StringValue copies the string's bytes, from offset, into buffer (as many
// as fit), mirroring AspStringValue: size is the string's full byte
// length; copied is how much was written; terminated reports whether a
// trailing NUL byte was also written into buffer immediately after the
// copied bytes (only possible, and only done, when buffer had spare room
// beyond what was copied — an exact-fit buffer is not terminated).
func StringValue(a *cell.Arena, v cell.Index, offset int, buffer []byte) (size, copied int, terminated, ok bool) {
	if !IsString(a, v) {
		return 0, 0, false, false
	}
	full := stringBytes(a, v)
	size = len(full)
	if offset < len(full) {
		copied = copy(buffer, full[offset:])
	}
	terminated = copied < len(buffer)
	if terminated {
		buffer[copied] = 0
	}
	return size, copied, terminated, true
}

// ----- constructors --------------------------------------------------------

func NewNone(a *cell.Arena) (cell.Index, Status)     { return newObject(a, cell.TagNone) }
func NewEllipsis(a *cell.Arena) (cell.Index, Status) { return newObject(a, cell.TagEllipsis) }

func NewBoolean(a *cell.Arena, v bool) (cell.Index, Status) {
	i, err := a.BooleanSingleton(v)
	if err != nil {
		return cell.Null, OutOfDataMemory
	}
	return i, OK
}

func NewInteger(a *cell.Arena, v int32) (cell.Index, Status) {
	i, st := newObject(a, cell.TagInteger)
	if st != OK {
		return cell.Null, st
	}
	a.SetInteger(i, v)
	return i, OK
}

func NewFloat(a *cell.Arena, v float64) (cell.Index, Status) {
	i, st := newObject(a, cell.TagFloat)
	if st != OK {
		return cell.Null, st
	}
	a.SetFloat(i, v)
	return i, OK
}

// NewRange constructs a bounded range. Components that equal the script
// default (start=0, or -1 when step is negative; step=1) are omitted from
// storage, matching the
// original's NewRange, which only allocates an integer cell per component
// that deviates from its implicit default.
func NewRange(a *cell.Arena, start, end, step int32) (cell.Index, Status) {
	e := end
	return newRangeObject(a, start, &e, step)
}

// NewUnboundedRange constructs a range with no end bound.
func NewUnboundedRange(a *cell.Arena, start, step int32) (cell.Index, Status) {
	return newRangeObject(a, start, nil, step)
}

func newRangeObject(a *cell.Arena, start int32, end *int32, step int32) (cell.Index, Status) {
	r, st := newObject(a, cell.TagRange)
	if st != OK {
		return cell.Null, st
	}

	defaultStart := int32(0)
	if step < 0 {
		defaultStart = -1
	}
	if start != defaultStart {
		s, st := NewInteger(a, start)
		if st != OK {
			a.Unref(r)
			return cell.Null, st
		}
		a.SetRangeHasStart(r, true)
		a.SetRangeStartIndex(r, s)
	}
	if end != nil {
		e, st := NewInteger(a, *end)
		if st != OK {
			a.Unref(r)
			return cell.Null, st
		}
		a.SetRangeHasEnd(r, true)
		a.SetRangeEndIndex(r, e)
	}
	if step != 1 {
		s, st := NewInteger(a, step)
		if st != OK {
			a.Unref(r)
			return cell.Null, st
		}
		a.SetRangeHasStep(r, true)
		a.SetRangeStepIndex(r, s)
	}
	return r, OK
}

// NewString constructs a string from data, chaining fragments of
// cell.FragmentCapacity bytes each.
func NewString(a *cell.Arena, data []byte) (cell.Index, Status) {
	s, st := newObject(a, cell.TagString)
	if st != OK {
		return cell.Null, st
	}
	if st := appendStringBytes(a, s, data); st != OK {
		a.Unref(s)
		return cell.Null, st
	}
	return s, OK
}

func appendStringBytes(a *cell.Arena, s cell.Index, data []byte) Status {
	for len(data) > 0 {
		n := len(data)
		if n > cell.FragmentCapacity {
			n = cell.FragmentCapacity
		}
		frag, err := a.NewStringFragment(data[:n])
		if err != nil {
			return OutOfDataMemory
		}
		if st := seq.Append(a, s, frag); st != seq.OK {
			a.Unref(frag)
			return fromSeq(st)
		}
		data = data[n:]
	}
	return OK
}

func NewTuple(a *cell.Arena) (cell.Index, Status)      { return newObject(a, cell.TagTuple) }
func NewList(a *cell.Arena) (cell.Index, Status)       { return newObject(a, cell.TagList) }
func NewSet(a *cell.Arena) (cell.Index, Status)        { return newObject(a, cell.TagSet) }
func NewDictionary(a *cell.Arena) (cell.Index, Status) { return newObject(a, cell.TagDictionary) }

// NewIterator creates a forward iterator over iterable.
func NewIterator(a *cell.Arena, iterable cell.Index) (cell.Index, Status) {
	i, st := iterator.Create(a, iterable, false, cell.Null)
	return i, fromIterator(st)
}

// NewType wraps object's type tag as a first-class Type value.
func NewType(a *cell.Arena, object cell.Index) (cell.Index, Status) {
	t, st := newObject(a, cell.TagType)
	if st != OK {
		return cell.Null, st
	}
	a.SetTypeValue(t, a.Type(object))
	return t, OK
}

func newObject(a *cell.Arena, tag cell.Tag) (cell.Index, Status) {
	i, err := a.Alloc(tag)
	if err != nil {
		return cell.Null, OutOfDataMemory
	}
	return i, OK
}

// ----- container mutation --------------------------------------------------

// TupleAppend appends value to tuple, asserting the tuple is not
// referenced anywhere else (tuples are sealed after publication). If take,
// the caller's reference to value is consumed; otherwise append takes its
// own reference first.
func TupleAppend(a *cell.Arena, tuple, value cell.Index, take bool) Status {
	if a.Type(tuple) != cell.TagTuple {
		return UnexpectedType
	}
	if a.UseCount(tuple) != 1 {
		return NotExclusivelyOwned
	}
	if !take {
		a.Ref(value)
	}
	if st := seq.Append(a, tuple, value); st != seq.OK {
		return fromSeq(st)
	}
	return OK
}

// ListAppend appends value to list.
func ListAppend(a *cell.Arena, list, value cell.Index, take bool) Status {
	if a.Type(list) != cell.TagList {
		return UnexpectedType
	}
	if !take {
		a.Ref(value)
	}
	if st := seq.Append(a, list, value); st != seq.OK {
		return fromSeq(st)
	}
	return OK
}

// ListInsert inserts value before index (Python list.insert semantics).
func ListInsert(a *cell.Arena, list cell.Index, index int32, value cell.Index, take bool) Status {
	if a.Type(list) != cell.TagList {
		return UnexpectedType
	}
	if !take {
		a.Ref(value)
	}
	if st := seq.InsertByIndex(a, list, index, value); st != seq.OK {
		return fromSeq(st)
	}
	return OK
}

// ListErase removes the element at index, releasing its value.
func ListErase(a *cell.Arena, list cell.Index, index int32) Status {
	if a.Type(list) != cell.TagList {
		return UnexpectedType
	}
	return fromSeq(seq.Erase(a, list, index))
}

// StringAppend appends bytes to str, asserting str is not referenced
// anywhere else.
func StringAppend(a *cell.Arena, str cell.Index, data []byte) Status {
	if a.Type(str) != cell.TagString {
		return UnexpectedType
	}
	if a.UseCount(str) != 1 {
		return NotExclusivelyOwned
	}
	return appendStringBytes(a, str, data)
}

// SetInsert inserts key into set; duplicates are a no-op.
func SetInsert(a *cell.Arena, set, key cell.Index, take bool) Status {
	if a.Type(set) != cell.TagSet {
		return UnexpectedType
	}
	root := a.TreeRoot(set)
	if _, found := tree.Find(a, root, KeyCmp(a, key)); found {
		if take {
			a.Unref(key)
		}
		return OK
	}
	if !take {
		a.Ref(key)
	}
	node, err := a.NewSetNode(key)
	if err != nil {
		a.Unref(key)
		return OutOfDataMemory
	}
	newRoot, _ := tree.Insert(a, root, node, KeyCmp(a, key))
	a.SetTreeRoot(set, newRoot)
	a.SetTreeCount(set, a.TreeCount(set)+1)
	return OK
}

// SetErase removes key from set if present.
func SetErase(a *cell.Arena, set, key cell.Index) Status {
	if a.Type(set) != cell.TagSet {
		return UnexpectedType
	}
	root := a.TreeRoot(set)
	node, found := tree.Find(a, root, KeyCmp(a, key))
	if !found {
		return KeyNotFound
	}
	newRoot := tree.EraseNode(a, root, node)
	a.SetTreeRoot(set, newRoot)
	a.SetTreeCount(set, a.TreeCount(set)-1)
	a.Unref(node)
	return OK
}

// DictionaryInsert inserts or updates the binding key -> value.
func DictionaryInsert(a *cell.Arena, dictionary, key, value cell.Index, take bool) Status {
	if a.Type(dictionary) != cell.TagDictionary {
		return UnexpectedType
	}
	root := a.TreeRoot(dictionary)
	if existing, found := tree.Find(a, root, KeyCmp(a, key)); found {
		old := a.TreeNodeValueIndex(existing)
		a.Unref(old)
		if !take {
			a.Ref(value)
		}
		a.SetTreeNodeValueIndex(existing, value)
		if take {
			a.Unref(key)
		}
		return OK
	}
	if !take {
		a.Ref(key)
		a.Ref(value)
	}
	node, err := a.NewDictionaryNode(key, value)
	if err != nil {
		a.Unref(key)
		a.Unref(value)
		return OutOfDataMemory
	}
	newRoot, _ := tree.Insert(a, root, node, KeyCmp(a, key))
	a.SetTreeRoot(dictionary, newRoot)
	a.SetTreeCount(dictionary, a.TreeCount(dictionary)+1)
	return OK
}

// DictionaryErase removes the binding for key if present.
func DictionaryErase(a *cell.Arena, dictionary, key cell.Index) Status {
	if a.Type(dictionary) != cell.TagDictionary {
		return UnexpectedType
	}
	root := a.TreeRoot(dictionary)
	node, found := tree.Find(a, root, KeyCmp(a, key))
	if !found {
		return KeyNotFound
	}
	newRoot := tree.EraseNode(a, root, node)
	a.SetTreeRoot(dictionary, newRoot)
	a.SetTreeCount(dictionary, a.TreeCount(dictionary)-1)
	a.Unref(node)
	return OK
}

// ----- queries --------------------------------------------------------

// Find looks key up in a set or dictionary, returning the matching key (for
// a set) or bound value (for a dictionary), ref'd.
func Find(a *cell.Arena, container, key cell.Index) (cell.Index, Status) {
	t := a.Type(container)
	if t != cell.TagSet && t != cell.TagDictionary {
		return cell.Null, UnexpectedType
	}
	node, found := tree.Find(a, a.TreeRoot(container), KeyCmp(a, key))
	if !found {
		return cell.Null, KeyNotFound
	}
	if t == cell.TagSet {
		result := a.TreeNodeKeyIndex(node)
		a.Ref(result)
		return result, OK
	}
	result := a.TreeNodeValueIndex(node)
	a.Ref(result)
	return result, OK
}

// Next advances an iterator in place and returns the value it was pointing
// at before the advance (AspNext's dereference-then-advance contract).
func Next(a *cell.Arena, it cell.Index) (cell.Index, Status) {
	v, st := iterator.Dereference(a, it)
	if st != iterator.OK {
		return cell.Null, fromIterator(st)
	}
	iterator.Next(a, it)
	return v, OK
}

// Count returns the cardinality of a string/tuple/list/set/dictionary, or
// 1 for any other non-null value.
func Count(a *cell.Arena, v cell.Index) uint32 {
	if v == cell.Null {
		return 0
	}
	switch a.Type(v) {
	case cell.TagString:
		return stringByteLength(a, v)
	case cell.TagTuple, cell.TagList:
		return a.SequenceCount(v)
	case cell.TagSet, cell.TagDictionary:
		return a.TreeCount(v)
	default:
		return 1
	}
}

// Element returns the value at index within a Tuple or List, ref'd.
func Element(a *cell.Arena, sequence cell.Index, index int32) (cell.Index, Status) {
	t := a.Type(sequence)
	if t != cell.TagTuple && t != cell.TagList {
		return cell.Null, UnexpectedType
	}
	v, st := seq.Index(a, sequence, index)
	if st != seq.OK {
		return cell.Null, fromSeq(st)
	}
	a.Ref(v)
	return v, OK
}

// StringElement returns the byte at index within a string, or (0, false)
// if index is out of range.
func StringElement(a *cell.Arena, str cell.Index, index int32) (byte, bool) {
	if a.Type(str) != cell.TagString {
		return 0, false
	}
	if index < 0 {
		index += int32(stringByteLength(a, str))
		if index < 0 {
			return 0, false
		}
	}
	elem := cell.Null
	for {
		var frag cell.Index
		elem, frag = seq.Next(a, str, elem)
		if elem == cell.Null {
			return 0, false
		}
		size := int32(a.StringFragmentSize(frag))
		if index >= size {
			index -= size
			continue
		}
		return a.StringFragmentData(frag)[index], true
	}
}

// ----- stringification -----------------------------------------------------

// ToString renders v as a printable string value, following AspToString.
// Strings pass through (ref'd, no copy). Composite values are walked with
// an explicit stack of frames rather than Go call-stack recursion, since
// the structure being rendered may nest arbitrarily deeply.
func ToString(a *cell.Arena, v cell.Index) (cell.Index, Status) {
	if IsString(a, v) {
		a.Ref(v)
		return v, OK
	}

	type frame struct {
		container     cell.Index
		cursor        cell.Index // last element/node visited; Null before the first
		emittingValue bool       // dictionary only: cursor's key was just appended
	}

	var buf []byte
	var stack []frame
	pending := v
	havePending := true

	for {
		if havePending {
			nested := len(stack) > 0
			switch a.Type(pending) {
			case cell.TagTuple, cell.TagList:
				if a.Type(pending) == cell.TagTuple {
					buf = append(buf, '(')
				} else {
					buf = append(buf, '[')
				}
				stack = append(stack, frame{container: pending})
				havePending = false
				continue

			case cell.TagSet, cell.TagDictionary:
				buf = append(buf, '{')
				stack = append(stack, frame{container: pending})
				havePending = false
				continue

			default:
				buf = appendLeaf(a, buf, pending, nested)
				havePending = false
				continue
			}
		}

		if len(stack) == 0 {
			break
		}
		top := &stack[len(stack)-1]

		if top.emittingValue {
			buf = append(buf, ':', ' ')
			pending = a.TreeNodeValueIndex(top.cursor)
			havePending = true
			top.emittingValue = false
			continue
		}

		switch a.Type(top.container) {
		case cell.TagTuple, cell.TagList:
			elem, val := seq.Next(a, top.container, top.cursor)
			if elem == cell.Null {
				if a.Type(top.container) == cell.TagTuple && a.SequenceCount(top.container) == 1 {
					buf = append(buf, ',')
				}
				if a.Type(top.container) == cell.TagTuple {
					buf = append(buf, ')')
				} else {
					buf = append(buf, ']')
				}
				stack = stack[:len(stack)-1]
				continue
			}
			if top.cursor != cell.Null {
				buf = append(buf, ',', ' ')
			}
			top.cursor = elem
			pending = val
			havePending = true

		default: // Set, Dictionary
			var node cell.Index
			if top.cursor == cell.Null {
				node = tree.First(a, a.TreeRoot(top.container))
			} else {
				node = tree.Next(a, top.cursor)
			}
			if node == cell.Null {
				if a.Type(top.container) == cell.TagDictionary && top.cursor == cell.Null {
					buf = append(buf, ':')
				}
				buf = append(buf, '}')
				stack = stack[:len(stack)-1]
				continue
			}
			if top.cursor != cell.Null {
				buf = append(buf, ',', ' ')
			}
			top.cursor = node
			pending = a.TreeNodeKeyIndex(node)
			havePending = true
			if a.Type(top.container) == cell.TagDictionary {
				top.emittingValue = true
			}
		}
	}

	return NewString(a, buf)
}

func appendLeaf(a *cell.Arena, buf []byte, v cell.Index, nested bool) []byte {
	switch a.Type(v) {
	case cell.TagNone:
		return append(buf, "None"...)
	case cell.TagEllipsis:
		return append(buf, "..."...)
	case cell.TagBoolean:
		if a.Boolean(v) {
			return append(buf, "True"...)
		}
		return append(buf, "False"...)
	case cell.TagInteger:
		return strconv.AppendInt(buf, int64(a.Integer(v)), 10)
	case cell.TagFloat:
		return appendFloat(buf, a.Float(v))
	case cell.TagRange:
		return appendRange(a, buf, v)
	case cell.TagString:
		return appendStringLiteral(a, buf, v, nested)
	case cell.TagForwardIterator, cell.TagReverseIterator:
		buf = append(buf, "<iter:"...)
		buf = append(buf, a.Type(a.IteratorIterableIndex(v)).String()...)
		if a.IteratorMemberIndex(v) == cell.Null {
			buf = append(buf, " @end"...)
		}
		return append(buf, '>')
	case cell.TagFunction:
		buf = append(buf, "<func:"...)
		if a.FunctionIsApp(v) {
			buf = append(buf, "app:"...)
			buf = strconv.AppendInt(buf, int64(a.FunctionSymbol(v)), 10)
		} else {
			buf = append(buf, '@')
			buf = append(buf, strconv.FormatUint(uint64(a.FunctionCodeAddress(v)), 16)...)
		}
		return append(buf, '>')
	case cell.TagModule:
		buf = append(buf, "<mod:@"...)
		buf = append(buf, strconv.FormatUint(uint64(a.ModuleCodeAddress(v)), 16)...)
		return append(buf, '>')
	case cell.TagType:
		buf = append(buf, "<type "...)
		buf = append(buf, a.TypeValue(v).String()...)
		return append(buf, '>')
	default:
		return append(buf, '?')
	}
}

func appendFloat(buf []byte, f float64) []byte {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	buf = append(buf, s...)
	hasDotOrExp := false
	for i := 0; i < len(s); i++ {
		if s[i] == '.' || s[i] == 'e' {
			hasDotOrExp = true
			break
		}
	}
	if !hasDotOrExp {
		buf = append(buf, ".0"...)
	}
	return buf
}

func appendRange(a *cell.Arena, buf []byte, r cell.Index) []byte {
	start, end, step, _ := rangeval.Get(a, r)
	if start != 0 {
		buf = strconv.AppendInt(buf, int64(start), 10)
	}
	buf = append(buf, '.', '.')
	unbounded := (step < 0 && end == asparith.MinInt32) || (step > 0 && end == asparith.MaxInt32)
	if !unbounded {
		buf = strconv.AppendInt(buf, int64(end), 10)
	}
	if step != 1 {
		buf = append(buf, ':')
		buf = strconv.AppendInt(buf, int64(step), 10)
	}
	return buf
}

func appendStringLiteral(a *cell.Arena, buf []byte, s cell.Index, quote bool) []byte {
	data := stringBytes(a, s)
	if !quote {
		return append(buf, data...)
	}
	buf = append(buf, '\'')
	for _, c := range data {
		if isPrintable(c) {
			buf = append(buf, c)
			continue
		}
		switch c {
		case '\000':
			buf = append(buf, '\\', '0')
		case '\a':
			buf = append(buf, '\\', 'a')
		case '\b':
			buf = append(buf, '\\', 'b')
		case '\f':
			buf = append(buf, '\\', 'f')
		case '\n':
			buf = append(buf, '\\', 'n')
		case '\r':
			buf = append(buf, '\\', 'r')
		case '\t':
			buf = append(buf, '\\', 't')
		case '\v':
			buf = append(buf, '\\', 'v')
		case '\\':
			buf = append(buf, '\\', '\\')
		case '\'':
			buf = append(buf, '\\', '\'')
		default:
			buf = append(buf, '\\', 'x')
			buf = append(buf, hexDigit(c>>4), hexDigit(c&0xf))
		}
	}
	return append(buf, '\'')
}

func isPrintable(c byte) bool {
	return c >= 0x20 && c < 0x7f
}

func hexDigit(n byte) byte {
	if n < 10 {
		return '0' + n
	}
	return 'a' + n - 10
}
