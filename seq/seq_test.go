package seq

import (
	"testing"

	"github.com/asplang/asp-sub001/cell"
)

func newList(t *testing.T, a *cell.Arena) cell.Index {
	t.Helper()
	i, err := a.Alloc(cell.TagList)
	if err != nil {
		t.Fatalf("Alloc list: %v", err)
	}
	return i
}

func newInt(t *testing.T, a *cell.Arena, v int32) cell.Index {
	t.Helper()
	i, err := a.Alloc(cell.TagInteger)
	if err != nil {
		t.Fatalf("Alloc int: %v", err)
	}
	a.SetInteger(i, v)
	return i
}

func values(t *testing.T, a *cell.Arena, l cell.Index) []int32 {
	t.Helper()
	var out []int32
	for e, v := cell.Null, cell.Null; ; {
		e, v = Next(a, l, e)
		if e == cell.Null {
			break
		}
		out = append(out, a.Integer(v))
	}
	return out
}

func assertEqual(t *testing.T, got, want []int32) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestAppendOrder(t *testing.T) {
	a := cell.New(64)
	l := newList(t, a)
	for _, v := range []int32{1, 2, 3} {
		if st := Append(a, l, newInt(t, a, v)); st != OK {
			t.Fatalf("Append(%d): %v", v, st)
		}
	}
	assertEqual(t, values(t, a, l), []int32{1, 2, 3})
	if a.SequenceCount(l) != 3 {
		t.Fatalf("SequenceCount = %d, want 3", a.SequenceCount(l))
	}
}

func TestInsertByIndex(t *testing.T) {
	a := cell.New(64)
	l := newList(t, a)
	Append(a, l, newInt(t, a, 1))
	Append(a, l, newInt(t, a, 3))
	if st := InsertByIndex(a, l, 1, newInt(t, a, 2)); st != OK {
		t.Fatalf("InsertByIndex: %v", st)
	}
	assertEqual(t, values(t, a, l), []int32{1, 2, 3})
}

func TestInsertByIndexNegativeAndClamped(t *testing.T) {
	a := cell.New(64)
	l := newList(t, a)
	Append(a, l, newInt(t, a, 1))
	Append(a, l, newInt(t, a, 2))

	if st := InsertByIndex(a, l, -1, newInt(t, a, 9)); st != OK {
		t.Fatalf("InsertByIndex(-1): %v", st)
	}
	assertEqual(t, values(t, a, l), []int32{1, 9, 2})

	if st := InsertByIndex(a, l, 100, newInt(t, a, 100)); st != OK {
		t.Fatalf("InsertByIndex(100): %v", st)
	}
	assertEqual(t, values(t, a, l), []int32{1, 9, 2, 100})
}

func TestEraseReleasesValue(t *testing.T) {
	a := cell.New(64)
	l := newList(t, a)
	v := newInt(t, a, 42)
	Append(a, l, v)

	allocatedBefore := a.Capacity()
	_ = allocatedBefore

	if st := Erase(a, l, 0); st != OK {
		t.Fatalf("Erase: %v", st)
	}
	if a.SequenceCount(l) != 0 {
		t.Fatalf("SequenceCount after erase = %d, want 0", a.SequenceCount(l))
	}
	if a.Type(v) != cell.TagFree {
		t.Fatalf("erased value not released: tag=%v", a.Type(v))
	}
}

func TestEraseNegativeIndex(t *testing.T) {
	a := cell.New(64)
	l := newList(t, a)
	Append(a, l, newInt(t, a, 1))
	Append(a, l, newInt(t, a, 2))
	Append(a, l, newInt(t, a, 3))

	if st := Erase(a, l, -1); st != OK {
		t.Fatalf("Erase(-1): %v", st)
	}
	assertEqual(t, values(t, a, l), []int32{1, 2})
}

func TestIndexOutOfRange(t *testing.T) {
	a := cell.New(64)
	l := newList(t, a)
	Append(a, l, newInt(t, a, 1))
	if _, st := Index(a, l, 5); st != ValueOutOfRange {
		t.Fatalf("Index(5) status = %v, want ValueOutOfRange", st)
	}
	if _, st := Index(a, l, -5); st != ValueOutOfRange {
		t.Fatalf("Index(-5) status = %v, want ValueOutOfRange", st)
	}
}

func TestPrevWalksBackward(t *testing.T) {
	a := cell.New(64)
	l := newList(t, a)
	Append(a, l, newInt(t, a, 1))
	Append(a, l, newInt(t, a, 2))
	Append(a, l, newInt(t, a, 3))

	var out []int32
	for e, v := cell.Null, cell.Null; ; {
		e, v = Prev(a, l, e)
		if e == cell.Null {
			break
		}
		out = append(out, a.Integer(v))
	}
	assertEqual(t, out, []int32{3, 2, 1})
}

func TestListUnrefReleasesAllElements(t *testing.T) {
	a := cell.New(64)
	l := newList(t, a)
	v1 := newInt(t, a, 1)
	v2 := newInt(t, a, 2)
	Append(a, l, v1)
	Append(a, l, v2)

	if err := a.Unref(l); err != nil {
		t.Fatalf("Unref(l): %v", err)
	}
	if a.Type(v1) != cell.TagFree || a.Type(v2) != cell.TagFree {
		t.Fatalf("list unref did not release elements: v1=%v v2=%v", a.Type(v1), a.Type(v2))
	}
}
