// Package rangeval implements the value algebra for range objects: reading
// a range's effective (start, end, step, bounded) tuple, counting its
// elements, indexing and slicing it, all with Python's floor semantics and
// overflow checking rather than C's wraparound.
//
// This is a direct semantic port of the original engine's range.c; the
// out-of-line helpers LimitIndex and UnboundedRangeIndex keep their original
// names since they are referenced by name in the spec this package
// implements.
package rangeval

import (
	"math"

	"github.com/asplang/asp-sub001/asparith"
	"github.com/asplang/asp-sub001/cell"
)

// Status reports the outcome of a range operation, in terms general enough
// for higher layers to fold into their own run-result enumerations.
type Status uint8

const (
	OK Status = iota
	ValueOutOfRange
	Overflow
	DivideByZero
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

// Get extracts a range cell's effective start, end, and step, along with
// whether it is bounded (has an end). An absent start defaults to 0 (or -1
// for a negative step); an absent end defaults to the widest representable
// bound in the step's direction.
func Get(a *cell.Arena, r cell.Index) (start, end, step int32, bounded bool) {
	if a.RangeHasStep(r) {
		step = a.Integer(a.RangeStepIndex(r))
	} else {
		step = 1
	}
	if a.RangeHasStart(r) {
		start = a.Integer(a.RangeStartIndex(r))
	} else if step < 0 {
		start = -1
	}
	bounded = a.RangeHasEnd(r)
	if bounded {
		end = a.Integer(a.RangeEndIndex(r))
	} else if step < 0 {
		end = math.MinInt32
	} else {
		end = math.MaxInt32
	}
	return
}

// Count returns the number of elements the range yields. Unbounded ranges
// and a zero step both report ValueOutOfRange, matching AspRangeCount.
func Count(a *cell.Arena, r cell.Index) (int32, Status) {
	start, end, step, bounded := Get(a, r)
	if step == 0 || !bounded {
		return 0, ValueOutOfRange
	}

	empty := start >= end
	if step < 0 {
		empty = end >= start
	}
	if empty {
		return 0, OK
	}

	if step < 0 {
		start, end = end, start
		neg, s := asparith.Negate(step)
		if s != asparith.OK {
			return 0, fromArith(s)
		}
		step = neg
	}

	v, s := asparith.Subtract(end, start)
	if s != asparith.OK {
		return 0, fromArith(s)
	}
	v, s = asparith.Subtract(v, 1)
	if s != asparith.OK {
		return 0, fromArith(s)
	}
	v, s = asparith.Divide(v, step)
	if s != asparith.OK {
		return 0, fromArith(s)
	}
	v, s = asparith.Add(v, 1)
	if s != asparith.OK {
		return 0, fromArith(s)
	}
	return v, OK
}

// UnboundedRangeIndex computes start + normalize(index, count)*step, where a
// negative index is taken relative to count. count is assumed non-negative,
// as it always is when derived from Count.
func UnboundedRangeIndex(start, step, count, index int32) (int32, Status) {
	if index < 0 {
		index += count
	}
	v, s := asparith.Multiply(index, step)
	if s != asparith.OK {
		return 0, fromArith(s)
	}
	v, s = asparith.Add(start, v)
	if s != asparith.OK {
		return 0, fromArith(s)
	}
	return v, OK
}

// Index returns the value the range yields at the given (possibly negative)
// index, with normal Python-style bounds checking against the range's
// element count. An unbounded range has no element count to bound a
// negative index against, so only index >= 0 is valid there.
func Index(a *cell.Arena, r cell.Index, index int32) (int32, Status) {
	start, _, step, bounded := Get(a, r)

	if !bounded {
		if index < 0 {
			return 0, ValueOutOfRange
		}
		return UnboundedRangeIndex(start, step, 0, index)
	}

	count, st := Count(a, r)
	if st != OK {
		return 0, st
	}
	if index < -count || index >= count {
		return 0, ValueOutOfRange
	}

	return UnboundedRangeIndex(start, step, count, index)
}

// IsValueAtEnd reports whether testValue has reached or passed endValue in
// the direction stepValue travels, for a bounded range. Always false for an
// unbounded range.
func IsValueAtEnd(testValue, endValue, stepValue int32, bounded bool) bool {
	if !bounded {
		return false
	}
	switch {
	case stepValue == 0:
		return testValue == endValue
	case stepValue < 0:
		return testValue <= endValue
	default:
		return testValue >= endValue
	}
}

// LimitIndex clamps index into [-count-1, count] so that it agrees with the
// direction step indicates, the same clamp normal sequence slicing applies
// before turning indices into element offsets.
func LimitIndex(index, step, count int32) int32 {
	switch {
	case index < -count:
		if step < 0 {
			return -1 - count
		}
		return 0
	case index >= count:
		if step < 0 {
			return -1
		}
		return count
	default:
		return index
	}
}

// GetSliceRange prepares a range's (start, end, step) components for use as
// normal sequence slice bounds against a sequence of sequenceCount elements:
// each bound is clamped via LimitIndex and then, if its sign disagrees with
// the step's, folded into the step's sign convention.
func GetSliceRange(a *cell.Arena, r cell.Index, sequenceCount int32) (start, end, step int32, bounded bool) {
	start, end, step, bounded = Get(a, r)

	adjust := func(index int32) int32 {
		index = LimitIndex(index, step, sequenceCount)
		if (index < 0) != (step < 0) {
			switch {
			case index < -sequenceCount:
				index = 0
			case index >= sequenceCount:
				index = -1
			case index < 0:
				index += sequenceCount
			default:
				index -= sequenceCount
			}
		}
		return index
	}
	start = adjust(start)
	end = adjust(end)
	return
}

// Slice computes the (start, end, step, bounded) components of the range
// that results from slicing r by the slice-range sliceRange, i.e. the
// Python `r[sliceRange]` operation for range objects.
func Slice(a *cell.Arena, r, sliceRange cell.Index) (newStart, newEnd, newStep int32, bounded bool, status Status) {
	rangeStart, _, rangeStep, rangeBounded := Get(a, r)
	sliceStart, sliceEnd, sliceStep, sliceBounded := Get(a, sliceRange)

	var rangeCount int32
	if rangeBounded || sliceBounded {
		src := sliceRange
		if rangeBounded {
			src = r
		}
		c, st := Count(a, src)
		if st != OK {
			return 0, 0, 0, false, st
		}
		rangeCount = c
	}

	if rangeBounded {
		sliceStart = LimitIndex(sliceStart, sliceStep, rangeCount)
		sliceEnd = LimitIndex(sliceEnd, sliceStep, rangeCount)
	}

	newStart, st := UnboundedRangeIndex(rangeStart, rangeStep, rangeCount, sliceStart)
	if st != OK {
		return 0, 0, 0, false, st
	}

	if !rangeBounded {
		negative := sliceStart < 0
		if !negative {
			switch {
			case !sliceBounded:
				negative = sliceStep < 0
			case rangeCount > 1:
				last, st := UnboundedRangeIndex(sliceStart, sliceStep, rangeCount, -1)
				if st != OK {
					return 0, 0, 0, false, st
				}
				negative = last < 0
			}
		}
		if negative {
			return 0, 0, 0, false, ValueOutOfRange
		}
	}

	if rangeBounded || sliceBounded {
		endCount := int32(0)
		if rangeBounded {
			endCount = rangeCount
		}
		e, st := UnboundedRangeIndex(rangeStart, rangeStep, endCount, sliceEnd)
		if st != OK {
			return 0, 0, 0, false, st
		}
		newEnd = e
	}

	step, as := asparith.Multiply(rangeStep, sliceStep)
	if as != asparith.OK {
		return 0, 0, 0, false, fromArith(as)
	}
	newStep = step

	bounded = rangeBounded || sliceBounded
	return newStart, newEnd, newStep, bounded, OK
}
