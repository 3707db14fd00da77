package tree

import (
	"math/rand"
	"testing"

	"github.com/asplang/asp-sub001/cell"
)

// setTree is a tiny harness around a TagSet container for exercising the
// tree package without pulling in the value package's total ordering.
type setTree struct {
	a    *cell.Arena
	root cell.Index
}

func newSetTree(a *cell.Arena) *setTree {
	return &setTree{a: a}
}

func (s *setTree) keyOf(node cell.Index) int32 {
	return s.a.Integer(s.a.TreeNodeKeyIndex(node))
}

func (s *setTree) cmp(key int32) Cmp {
	return func(node cell.Index) int {
		k := s.keyOf(node)
		switch {
		case key < k:
			return -1
		case key > k:
			return 1
		default:
			return 0
		}
	}
}

func (s *setTree) insert(t *testing.T, key int32) {
	t.Helper()
	if _, found := Find(s.a, s.root, s.cmp(key)); found {
		return
	}
	keyCell, err := s.a.Alloc(cell.TagInteger)
	if err != nil {
		t.Fatalf("Alloc key: %v", err)
	}
	s.a.SetInteger(keyCell, key)
	node, err := s.a.NewSetNode(keyCell)
	if err != nil {
		t.Fatalf("NewSetNode: %v", err)
	}
	s.root, _ = Insert(s.a, s.root, node, s.cmp(key))
}

func (s *setTree) erase(t *testing.T, key int32) {
	t.Helper()
	node, found := Find(s.a, s.root, s.cmp(key))
	if !found {
		t.Fatalf("erase: key %d not found", key)
	}
	s.root = EraseNode(s.a, s.root, node)
	// Unref(node) alone is enough: EraseNode leaves node's key field intact
	// and clears its structural fields, so the cascade releases exactly the
	// key and nothing still live in the tree.
	s.a.Unref(node)
}

func (s *setTree) keys() []int32 {
	var out []int32
	for n := First(s.a, s.root); n != cell.Null; n = Next(s.a, n) {
		out = append(out, s.keyOf(n))
	}
	return out
}

func TestTreeInsertFindInOrder(t *testing.T) {
	a := cell.New(4096)
	s := newSetTree(a)
	for _, k := range []int32{5, 3, 8, 1, 4, 7, 9} {
		s.insert(t, k)
	}
	if !IsRedBlack(a, s.root) {
		t.Fatal("tree is not a valid red-black tree after inserts")
	}
	got := s.keys()
	want := []int32{1, 3, 4, 5, 7, 8, 9}
	if len(got) != len(want) {
		t.Fatalf("keys = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("keys = %v, want %v", got, want)
		}
	}
}

func TestTreeEraseMaintainsInvariants(t *testing.T) {
	a := cell.New(4096)
	s := newSetTree(a)
	for _, k := range []int32{5, 3, 8, 1, 4, 7, 9, 2, 6, 0} {
		s.insert(t, k)
	}
	for _, k := range []int32{3, 9, 0, 5} {
		s.erase(t, k)
		if !IsRedBlack(a, s.root) {
			t.Fatalf("tree invalid after erasing %d", k)
		}
	}
	want := []int32{1, 2, 4, 6, 7, 8}
	got := s.keys()
	if len(got) != len(want) {
		t.Fatalf("keys after erase = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("keys after erase = %v, want %v", got, want)
		}
	}
}

func TestTreeStressInsertEraseCycle(t *testing.T) {
	const n = 1017
	a := cell.New(4 * n)
	s := newSetTree(a)
	rng := rand.New(rand.NewSource(1))

	keys := rng.Perm(n)
	for _, k := range keys {
		s.insert(t, int32(k))
		if !IsRedBlack(a, s.root) {
			t.Fatalf("tree invalid after inserting %d", k)
		}
	}
	if got := Tally(a, s.root); got != n {
		t.Fatalf("Tally after %d inserts = %d, want %d", n, got, n)
	}

	eraseOrder := rng.Perm(n)
	for i, k := range eraseOrder {
		s.erase(t, int32(k))
		if !IsRedBlack(a, s.root) {
			t.Fatalf("tree invalid after erasing %d (step %d)", k, i)
		}
		if got, want := Tally(a, s.root), n-i-1; got != want {
			t.Fatalf("Tally after erasing %d = %d, want %d", k, got, want)
		}
	}
	if s.root != cell.Null {
		t.Fatalf("root not Null after erasing all keys")
	}
}

func TestDictionaryNodeLeftRightThroughTreeLinks(t *testing.T) {
	a := cell.New(64)
	k1, _ := a.Alloc(cell.TagInteger)
	v1, _ := a.Alloc(cell.TagInteger)
	k2, _ := a.Alloc(cell.TagInteger)
	v2, _ := a.Alloc(cell.TagInteger)
	a.SetInteger(k1, 1)
	a.SetInteger(k2, 2)

	n1, _ := a.NewDictionaryNode(k1, v1)
	n2, _ := a.NewDictionaryNode(k2, v2)

	a.SetTreeNodeLeft(n1, n2)
	a.SetTreeNodeParent(n2, n1)

	if got := a.TreeNodeLeft(n1); got != n2 {
		t.Fatalf("TreeNodeLeft(n1) = %d, want %d", got, n2)
	}
	if got := a.TreeNodeRight(n1); got != cell.Null {
		t.Fatalf("TreeNodeRight(n1) = %d, want Null", got)
	}
	if got := a.TreeNodeParent(n2); got != n1 {
		t.Fatalf("TreeNodeParent(n2) = %d, want %d", got, n1)
	}
}
