package asp

import (
	"testing"

	"github.com/asplang/asp-sub001/header"
)

func mustOK(t *testing.T, r RunResult) {
	t.Helper()
	if r != OK {
		t.Fatalf("RunResult = %v, want OK", r)
	}
}

// TestListRenderScenario builds [1, "hi", (2,3), {4,5}] through the public
// Engine API and checks it renders as "[1, 'hi', (2, 3), {4, 5}]".
func TestListRenderScenario(t *testing.T) {
	e := NewEngine(256, nil, nil)

	list, r := e.NewList()
	mustOK(t, r)

	one, r := e.NewInteger(1)
	mustOK(t, r)
	mustOK(t, e.Append(list, one, true))

	hi, r := e.NewString([]byte("hi"))
	mustOK(t, r)
	mustOK(t, e.Append(list, hi, true))

	tuple, r := e.NewTuple()
	mustOK(t, r)
	two, _ := e.NewInteger(2)
	mustOK(t, e.Append(tuple, two, true))
	three, _ := e.NewInteger(3)
	mustOK(t, e.Append(tuple, three, true))
	mustOK(t, e.Append(list, tuple, true))

	set, r := e.NewSet()
	mustOK(t, r)
	four, _ := e.NewInteger(4)
	mustOK(t, e.Append(set, four, true))
	five, _ := e.NewInteger(5)
	mustOK(t, e.Append(set, five, true))
	mustOK(t, e.Append(list, set, true))

	rendered, r := e.ToString(list)
	mustOK(t, r)

	buf := make([]byte, 64)
	size, _, _, ok := e.StringValue(rendered, 0, buf)
	if !ok {
		t.Fatal("StringValue returned ok=false")
	}
	if got := string(buf[:size]); got != "[1, 'hi', (2, 3), {4, 5}]" {
		t.Fatalf("rendered = %q, want %q", got, "[1, 'hi', (2, 3), {4, 5}]")
	}
}

// TestDictionaryIterationCollectsKeyValueTuples builds {1:'a', 2:'b'},
// iterates it, and checks the dereferenced members are (key, value) tuples
// in key order.
func TestDictionaryIterationCollectsKeyValueTuples(t *testing.T) {
	e := NewEngine(256, nil, nil)

	dict, r := e.NewDictionary()
	mustOK(t, r)

	k1, _ := e.NewInteger(1)
	v1, _ := e.NewString([]byte("a"))
	mustOK(t, e.InsertKey(dict, k1, v1, true))
	k2, _ := e.NewInteger(2)
	v2, _ := e.NewString([]byte("b"))
	mustOK(t, e.InsertKey(dict, k2, v2, true))

	it, r := e.NewIterator(dict)
	mustOK(t, r)

	var got []Value
	for {
		member, r := e.Next(it)
		if r == IteratorAtEnd {
			break
		}
		mustOK(t, r)
		got = append(got, member)
	}

	if len(got) != 2 {
		t.Fatalf("collected %d members, want 2", len(got))
	}
	for i, wantKey := range []int32{1, 2} {
		if !e.IsTuple(got[i]) {
			t.Fatalf("member %d is not a tuple", i)
		}
		key, r := e.Element(got[i], 0)
		mustOK(t, r)
		kv, ok := e.IntegerValue(key)
		if !ok || kv != wantKey {
			t.Fatalf("member %d key = %v, want %d", i, kv, wantKey)
		}
	}
}

func TestStringAppendCountAndElementAcrossFragments(t *testing.T) {
	e := NewEngine(256, nil, nil)
	s, r := e.NewString([]byte("hello"))
	mustOK(t, r)
	rest, r := e.NewString([]byte(" world"))
	mustOK(t, r)
	// "hello world" is 11 bytes over two 10-byte fragments: Count and
	// negative StringElement must use byte length, not fragment count.
	mustOK(t, e.Append(s, rest, false))

	if n := e.Count(s); n != 11 {
		t.Fatalf("Count = %d, want 11", n)
	}
	if b, ok := e.StringElement(s, -1); !ok || b != 'd' {
		t.Fatalf("StringElement(-1) = (%q,%v), want ('d',true)", b, ok)
	}
}

// TestUnboundedRangeIndex matches end-to-end scenario 4: index 5 on an
// unbounded range (0, +inf, 1) returns 5; index -1 is out of range.
func TestUnboundedRangeIndex(t *testing.T) {
	e := NewEngine(32, nil, nil)

	r, res := e.NewUnboundedRange(0, 1)
	mustOK(t, res)

	v, res := e.RangeIndex(r, 5)
	mustOK(t, res)
	if v != 5 {
		t.Fatalf("RangeIndex(5) = %d, want 5", v)
	}

	if _, res := e.RangeIndex(r, -1); res != ValueOutOfRange {
		t.Fatalf("RangeIndex(-1) = %v, want ValueOutOfRange", res)
	}
}

// TestEngineLifecycle exercises AddCode/Seal/Step/Reset/Restart against a
// minimal header-only program, confirming Step reports NotImplemented
// rather than attempting to decode an instruction once past the header.
func TestEngineLifecycle(t *testing.T) {
	e := NewEngine(16, nil, nil)

	stream := header.Write([4]byte{1, 0, 0, 0}, []byte{0xAA, 0xBB, 0xCC})

	if res := e.AddCode(stream); res != AddCodeOK {
		t.Fatalf("AddCode = %v, want AddCodeOK", res)
	}
	if res := e.Seal(); res != AddCodeOK {
		t.Fatalf("Seal = %v, want AddCodeOK", res)
	}
	if !e.IsRunning() {
		t.Fatal("engine should be running after Seal")
	}

	if r := e.Step(); r != NotImplemented {
		t.Fatalf("Step = %v, want NotImplemented", r)
	}
	// Step is sticky: a second call returns the same latched result.
	if r := e.Step(); r != NotImplemented {
		t.Fatalf("second Step = %v, want NotImplemented (sticky)", r)
	}

	if r := e.Restart(); r != OK {
		t.Fatalf("Restart = %v, want OK", r)
	}
	if e.ProgramCounter() != 0 {
		t.Fatalf("ProgramCounter after Restart = %d, want 0", e.ProgramCounter())
	}
	if e.RunResult() != OK {
		t.Fatalf("RunResult after Restart = %v, want OK", e.RunResult())
	}
}

func TestSealRejectsBadCheckValue(t *testing.T) {
	e := NewEngine(16, nil, nil)
	stream := header.Write([4]byte{1, 0, 0, 0}, []byte{0x01})
	stream[8] ^= 0xFF

	if err := e.AddCode(stream); err != AddCodeOK {
		t.Fatalf("AddCode = %v, want AddCodeOK", err)
	}
	if res := e.Seal(); res != AddCodeInvalidCheckValue {
		t.Fatalf("Seal with corrupted check value = %v, want AddCodeInvalidCheckValue", res)
	}
}

func TestRestartBeforeSealIsInvalidState(t *testing.T) {
	e := NewEngine(16, nil, nil)
	if r := e.Restart(); r != InvalidState {
		t.Fatalf("Restart before Seal = %v, want InvalidState", r)
	}
}
