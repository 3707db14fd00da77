package asp

import (
	"github.com/asplang/asp-sub001/cell"
	"github.com/asplang/asp-sub001/iterator"
	"github.com/asplang/asp-sub001/rangeval"
	"github.com/asplang/asp-sub001/value"
)

// Value is a host-visible handle to a data-arena cell. It is just
// cell.Index under the name host code actually sees, so an asp package
// consumer never needs to import cell directly.
type Value = cell.Index

// None is the null value handle: both "no value" and the engine's None
// singleton's absence before construction.
const None = cell.Null

// ----- predicates -------------------------------------------------------

func (e *Engine) IsNone(v Value) bool       { return value.IsNone(e.Arena, v) }
func (e *Engine) IsEllipsis(v Value) bool   { return value.IsEllipsis(e.Arena, v) }
func (e *Engine) IsBoolean(v Value) bool    { return value.IsBoolean(e.Arena, v) }
func (e *Engine) IsInteger(v Value) bool    { return value.IsInteger(e.Arena, v) }
func (e *Engine) IsFloat(v Value) bool      { return value.IsFloat(e.Arena, v) }
func (e *Engine) IsRange(v Value) bool      { return value.IsRange(e.Arena, v) }
func (e *Engine) IsString(v Value) bool     { return value.IsString(e.Arena, v) }
func (e *Engine) IsTuple(v Value) bool      { return value.IsTuple(e.Arena, v) }
func (e *Engine) IsList(v Value) bool       { return value.IsList(e.Arena, v) }
func (e *Engine) IsSet(v Value) bool        { return value.IsSet(e.Arena, v) }
func (e *Engine) IsDictionary(v Value) bool { return value.IsDictionary(e.Arena, v) }
func (e *Engine) IsType(v Value) bool       { return value.IsType(e.Arena, v) }
func (e *Engine) IsIterator(v Value) bool   { return value.IsIterator(e.Arena, v) }
func (e *Engine) IsIntegral(v Value) bool   { return value.IsIntegral(e.Arena, v) }
func (e *Engine) IsNumber(v Value) bool     { return value.IsNumber(e.Arena, v) }
func (e *Engine) IsNumeric(v Value) bool    { return value.IsNumeric(e.Arena, v) }
func (e *Engine) IsSequence(v Value) bool   { return value.IsSequence(e.Arena, v) }
func (e *Engine) IsTrue(v Value) bool       { return value.IsTrue(e.Arena, v) }

// Compare returns a total order over x and y (see value.Compare's doc
// comment and DESIGN.md's Open Question decision on non-orderable kinds).
func (e *Engine) Compare(x, y Value) int { return value.Compare(e.Arena, x, y) }

// ----- conversions -------------------------------------------------------

func (e *Engine) IntegerValue(v Value) (int32, bool)   { return value.IntegerValue(e.Arena, v) }
func (e *Engine) FloatValue(v Value) (float64, bool)   { return value.FloatValue(e.Arena, v) }
func (e *Engine) RangeValues(v Value) (start, end, step int32, ok bool) {
	return value.RangeValues(e.Arena, v)
}

// RangeIndex returns the value a range yields at the given (possibly
// negative) index, bounded or unbounded.
func (e *Engine) RangeIndex(r Value, index int32) (int32, RunResult) {
	v, st := rangeval.Index(e.Arena, r, index)
	return v, translateRangeval(st)
}
func (e *Engine) StringValue(v Value, offset int, buffer []byte) (size, copied int, terminated, ok bool) {
	return value.StringValue(e.Arena, v, offset, buffer)
}

// ----- construction ------------------------------------------------------

func (e *Engine) NewNone() (Value, RunResult)     { return e.wrap(value.NewNone(e.Arena)) }
func (e *Engine) NewEllipsis() (Value, RunResult) { return e.wrap(value.NewEllipsis(e.Arena)) }
func (e *Engine) NewBoolean(v bool) (Value, RunResult) {
	return e.wrap(value.NewBoolean(e.Arena, v))
}
func (e *Engine) NewInteger(v int32) (Value, RunResult) {
	return e.wrap(value.NewInteger(e.Arena, v))
}
func (e *Engine) NewFloat(v float64) (Value, RunResult) {
	return e.wrap(value.NewFloat(e.Arena, v))
}
func (e *Engine) NewRange(start, end, step int32) (Value, RunResult) {
	return e.wrap(value.NewRange(e.Arena, start, end, step))
}
func (e *Engine) NewUnboundedRange(start, step int32) (Value, RunResult) {
	return e.wrap(value.NewUnboundedRange(e.Arena, start, step))
}
func (e *Engine) NewString(data []byte) (Value, RunResult) {
	return e.wrap(value.NewString(e.Arena, data))
}
func (e *Engine) NewTuple() (Value, RunResult)      { return e.wrap(value.NewTuple(e.Arena)) }
func (e *Engine) NewList() (Value, RunResult)       { return e.wrap(value.NewList(e.Arena)) }
func (e *Engine) NewSet() (Value, RunResult)        { return e.wrap(value.NewSet(e.Arena)) }
func (e *Engine) NewDictionary() (Value, RunResult) { return e.wrap(value.NewDictionary(e.Arena)) }
func (e *Engine) NewIterator(iterable Value) (Value, RunResult) {
	return e.wrap(value.NewIterator(e.Arena, iterable))
}
func (e *Engine) NewType(object Value) (Value, RunResult) {
	return e.wrap(value.NewType(e.Arena, object))
}

func (e *Engine) wrap(v cell.Index, st value.Status) (Value, RunResult) {
	return v, translateValue(st)
}

// ----- container mutation -------------------------------------------------

// Every mutating call on a tuple or string asserts use_count == 1,
// reported as InvalidState (see value.NotExclusivelyOwned), matching
// spec.md 4.9.

func (e *Engine) Append(container, v Value, take bool) RunResult {
	switch e.Arena.Type(container) {
	case cell.TagTuple:
		return translateValue(value.TupleAppend(e.Arena, container, v, take))
	case cell.TagList:
		return translateValue(value.ListAppend(e.Arena, container, v, take))
	case cell.TagString:
		if take {
			return translateValue(value.UnexpectedType)
		}
		data := stringValueBytes(e.Arena, v)
		return translateValue(value.StringAppend(e.Arena, container, data))
	case cell.TagSet:
		return translateValue(value.SetInsert(e.Arena, container, v, take))
	default:
		return translateValue(value.UnexpectedType)
	}
}

func (e *Engine) Insert(list Value, index int32, v Value, take bool) RunResult {
	return translateValue(value.ListInsert(e.Arena, list, index, v, take))
}

func (e *Engine) InsertKey(dictionary, key, v Value, take bool) RunResult {
	return translateValue(value.DictionaryInsert(e.Arena, dictionary, key, v, take))
}

func (e *Engine) Erase(container, keyOrIndex Value) RunResult {
	switch e.Arena.Type(container) {
	case cell.TagSet:
		return translateValue(value.SetErase(e.Arena, container, keyOrIndex))
	case cell.TagDictionary:
		return translateValue(value.DictionaryErase(e.Arena, container, keyOrIndex))
	default:
		return translateValue(value.UnexpectedType)
	}
}

func (e *Engine) EraseAt(list Value, index int32) RunResult {
	return translateValue(value.ListErase(e.Arena, list, index))
}

// ----- queries -------------------------------------------------------

func (e *Engine) Find(container, key Value) (Value, RunResult) {
	return e.wrap(value.Find(e.Arena, container, key))
}

// Next dereferences it and advances it in place, returning the value it was
// pointing at before the advance. Unlike value.Next, which folds an
// exhausted iterator into the generic ValueOutOfRange, this goes straight to
// the iterator package so IteratorAtEnd survives as its own RunResult (see
// spec.md 7's result table and the At-end glossary entry).
func (e *Engine) Next(it Value) (Value, RunResult) {
	v, st := iterator.Dereference(e.Arena, it)
	if st != iterator.OK {
		return cell.Null, translateIterator(st)
	}
	iterator.Next(e.Arena, it)
	return v, OK
}

func (e *Engine) Count(v Value) uint32 { return value.Count(e.Arena, v) }

func (e *Engine) Element(sequence Value, index int32) (Value, RunResult) {
	return e.wrap(value.Element(e.Arena, sequence, index))
}

func (e *Engine) StringElement(str Value, index int32) (byte, bool) {
	return value.StringElement(e.Arena, str, index)
}

func (e *Engine) ToString(v Value) (Value, RunResult) {
	return e.wrap(value.ToString(e.Arena, v))
}

// Ref and Unref expose the arena's reference counting directly: every
// value handle an Engine method returns is already ref'd on the caller's
// behalf, and the caller must Unref it when done.
func (e *Engine) Ref(v Value)          { e.Arena.Ref(v) }
func (e *Engine) Unref(v Value) error  { return e.Arena.Unref(v) }

func stringValueBytes(a *cell.Arena, s cell.Index) []byte {
	size, _, _, _ := value.StringValue(a, s, 0, nil)
	buf := make([]byte, size)
	value.StringValue(a, s, 0, buf)
	return buf
}
