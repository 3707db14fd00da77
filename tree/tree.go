// Package tree implements the red-black tree backing sets, dictionaries,
// and namespaces. Nodes carry no subtree sizes, so there is no rank or
// select-by-position lookup; Tally counts nodes by walking the tree. Node
// layout (including the TreeLinks
// indirection dictionary/namespace nodes route their children through) lives
// in the cell package; this package is the CLRS red-black insert/delete
// algorithm expressed over cell.Index pointers instead of machine pointers.
//
// tree.c itself was not available to port directly; api.c's
// AspTreeInsert/AspTreeFind/AspTreeEraseNode call sites fix this package's
// contract, and the rebalancing follows the standard textbook scheme spec.md
// §4.4 describes informally.
package tree

import "github.com/asplang/asp-sub001/cell"

// Cmp compares a fixed search key against the key held by node, returning a
// negative number if the search key sorts before node's key, zero if equal,
// and a positive number if it sorts after. Callers close over whatever the
// search key actually is (a value.Compare against a cell.Index key for sets
// and dictionaries, a plain int32 comparison against a namespace symbol).
type Cmp func(node cell.Index) int

func left(a *cell.Arena, n cell.Index) cell.Index {
	if n == cell.Null {
		return cell.Null
	}
	return a.TreeNodeLeft(n)
}

func right(a *cell.Arena, n cell.Index) cell.Index {
	if n == cell.Null {
		return cell.Null
	}
	return a.TreeNodeRight(n)
}

func parent(a *cell.Arena, n cell.Index) cell.Index {
	if n == cell.Null {
		return cell.Null
	}
	return a.TreeNodeParent(n)
}

func red(a *cell.Arena, n cell.Index) bool {
	return n != cell.Null && a.TreeNodeRed(n)
}

func setLeft(a *cell.Arena, n, v cell.Index) {
	if n != cell.Null {
		a.SetTreeNodeLeft(n, v)
	}
}

func setRight(a *cell.Arena, n, v cell.Index) {
	if n != cell.Null {
		a.SetTreeNodeRight(n, v)
	}
}

func setParent(a *cell.Arena, n, v cell.Index) {
	if n != cell.Null {
		a.SetTreeNodeParent(n, v)
	}
}

func setRed(a *cell.Arena, n cell.Index, v bool) {
	if n != cell.Null {
		a.SetTreeNodeRed(n, v)
	}
}

func rotateLeft(a *cell.Arena, root, x cell.Index) cell.Index {
	y := right(a, x)
	setRight(a, x, left(a, y))
	if left(a, y) != cell.Null {
		setParent(a, left(a, y), x)
	}
	setParent(a, y, parent(a, x))
	switch {
	case parent(a, x) == cell.Null:
		root = y
	case x == left(a, parent(a, x)):
		setLeft(a, parent(a, x), y)
	default:
		setRight(a, parent(a, x), y)
	}
	setLeft(a, y, x)
	setParent(a, x, y)
	return root
}

func rotateRight(a *cell.Arena, root, x cell.Index) cell.Index {
	y := left(a, x)
	setLeft(a, x, right(a, y))
	if right(a, y) != cell.Null {
		setParent(a, right(a, y), x)
	}
	setParent(a, y, parent(a, x))
	switch {
	case parent(a, x) == cell.Null:
		root = y
	case x == right(a, parent(a, x)):
		setRight(a, parent(a, x), y)
	default:
		setLeft(a, parent(a, x), y)
	}
	setRight(a, y, x)
	setParent(a, x, y)
	return root
}

// Find descends the tree comparing each visited node against cmp, returning
// the matching node if one exists.
func Find(a *cell.Arena, root cell.Index, cmp Cmp) (cell.Index, bool) {
	x := root
	for x != cell.Null {
		switch c := cmp(x); {
		case c == 0:
			return x, true
		case c < 0:
			x = left(a, x)
		default:
			x = right(a, x)
		}
	}
	return cell.Null, false
}

// Insert links the freshly allocated node z into the tree according to cmp
// (which must compare against z's own key) and rebalances. If a node
// comparing equal to z already exists, z is left untouched and that
// existing node is returned instead; the caller owns deciding what, if
// anything, to do with z in that case (sets reject the duplicate,
// dictionaries typically replace the value in place instead of reinserting).
func Insert(a *cell.Arena, root, z cell.Index, cmp Cmp) (newRoot, existing cell.Index) {
	var y cell.Index = cell.Null
	x := root
	goesLeft := false
	for x != cell.Null {
		y = x
		switch c := cmp(x); {
		case c == 0:
			return root, x
		case c < 0:
			goesLeft = true
			x = left(a, x)
		default:
			goesLeft = false
			x = right(a, x)
		}
	}

	setParent(a, z, y)
	switch {
	case y == cell.Null:
		root = z
	case goesLeft:
		setLeft(a, y, z)
	default:
		setRight(a, y, z)
	}
	setLeft(a, z, cell.Null)
	setRight(a, z, cell.Null)
	setRed(a, z, true)

	return insertFixup(a, root, z), cell.Null
}

func insertFixup(a *cell.Arena, root, z cell.Index) cell.Index {
	for parent(a, z) != cell.Null && red(a, parent(a, z)) {
		p := parent(a, z)
		g := parent(a, p)
		if p == left(a, g) {
			u := right(a, g)
			if red(a, u) {
				setRed(a, p, false)
				setRed(a, u, false)
				setRed(a, g, true)
				z = g
				continue
			}
			if z == right(a, p) {
				z = p
				root = rotateLeft(a, root, z)
				p = parent(a, z)
				g = parent(a, p)
			}
			setRed(a, p, false)
			setRed(a, g, true)
			root = rotateRight(a, root, g)
		} else {
			u := left(a, g)
			if red(a, u) {
				setRed(a, p, false)
				setRed(a, u, false)
				setRed(a, g, true)
				z = g
				continue
			}
			if z == left(a, p) {
				z = p
				root = rotateRight(a, root, z)
				p = parent(a, z)
				g = parent(a, p)
			}
			setRed(a, p, false)
			setRed(a, g, true)
			root = rotateLeft(a, root, g)
		}
	}
	setRed(a, root, false)
	return root
}

func transplant(a *cell.Arena, root, u, v cell.Index) cell.Index {
	p := parent(a, u)
	switch {
	case p == cell.Null:
		root = v
	case u == left(a, p):
		setLeft(a, p, v)
	default:
		setRight(a, p, v)
	}
	setParent(a, v, p)
	return root
}

func minimum(a *cell.Arena, x cell.Index) cell.Index {
	for left(a, x) != cell.Null {
		x = left(a, x)
	}
	return x
}

func maximum(a *cell.Arena, x cell.Index) cell.Index {
	for right(a, x) != cell.Null {
		x = right(a, x)
	}
	return x
}

// EraseNode removes node from the tree and rebalances, then clears node's
// own left/right/parent fields so it is safe to Unref afterward: the
// cascade that Unref drives from node's key/value/TreeLinks fields will
// reach nothing that is still live elsewhere in the tree.
func EraseNode(a *cell.Arena, root, node cell.Index) cell.Index {
	y := node
	yOriginalRed := red(a, y)
	var x, xParent cell.Index

	switch {
	case left(a, node) == cell.Null:
		x = right(a, node)
		xParent = parent(a, node)
		root = transplant(a, root, node, right(a, node))
	case right(a, node) == cell.Null:
		x = left(a, node)
		xParent = parent(a, node)
		root = transplant(a, root, node, left(a, node))
	default:
		y = minimum(a, right(a, node))
		yOriginalRed = red(a, y)
		x = right(a, y)
		if parent(a, y) == node {
			xParent = y
		} else {
			xParent = parent(a, y)
			root = transplant(a, root, y, right(a, y))
			setRight(a, y, right(a, node))
			setParent(a, right(a, y), y)
		}
		root = transplant(a, root, node, y)
		setLeft(a, y, left(a, node))
		setParent(a, left(a, y), y)
		setRed(a, y, red(a, node))
	}

	if !yOriginalRed {
		root = deleteFixup(a, root, x, xParent)
	}

	// node is now fully detached from the tree; clear its structural fields
	// so a caller that Unrefs it afterward doesn't cascade into cells that
	// are still live elsewhere in the tree (node's former children may now
	// hang off y instead).
	setLeft(a, node, cell.Null)
	setRight(a, node, cell.Null)
	setParent(a, node, cell.Null)
	setRed(a, node, false)

	return root
}

func deleteFixup(a *cell.Arena, root, x, xParent cell.Index) cell.Index {
	for x != root && !red(a, x) {
		if x == left(a, xParent) {
			w := right(a, xParent)
			if red(a, w) {
				setRed(a, w, false)
				setRed(a, xParent, true)
				root = rotateLeft(a, root, xParent)
				w = right(a, xParent)
			}
			if !red(a, left(a, w)) && !red(a, right(a, w)) {
				setRed(a, w, true)
				x = xParent
				xParent = parent(a, x)
				continue
			}
			if !red(a, right(a, w)) {
				setRed(a, left(a, w), false)
				setRed(a, w, true)
				root = rotateRight(a, root, w)
				w = right(a, xParent)
			}
			setRed(a, w, red(a, xParent))
			setRed(a, xParent, false)
			setRed(a, right(a, w), false)
			root = rotateLeft(a, root, xParent)
			x = root
			xParent = cell.Null
		} else {
			w := left(a, xParent)
			if red(a, w) {
				setRed(a, w, false)
				setRed(a, xParent, true)
				root = rotateRight(a, root, xParent)
				w = left(a, xParent)
			}
			if !red(a, right(a, w)) && !red(a, left(a, w)) {
				setRed(a, w, true)
				x = xParent
				xParent = parent(a, x)
				continue
			}
			if !red(a, left(a, w)) {
				setRed(a, right(a, w), false)
				setRed(a, w, true)
				root = rotateLeft(a, root, w)
				w = left(a, xParent)
			}
			setRed(a, w, red(a, xParent))
			setRed(a, xParent, false)
			setRed(a, left(a, w), false)
			root = rotateRight(a, root, xParent)
			x = root
			xParent = cell.Null
		}
	}
	setRed(a, x, false)
	return root
}

// First returns the leftmost (smallest-keyed) node, the starting point for
// forward in-order iteration. Null for an empty tree.
func First(a *cell.Arena, root cell.Index) cell.Index {
	if root == cell.Null {
		return cell.Null
	}
	return minimum(a, root)
}

// Last returns the rightmost (largest-keyed) node, the starting point for
// reverse in-order iteration. Null for an empty tree.
func Last(a *cell.Arena, root cell.Index) cell.Index {
	if root == cell.Null {
		return cell.Null
	}
	return maximum(a, root)
}

// Next returns node's in-order successor, or cell.Null if node is the last.
func Next(a *cell.Arena, node cell.Index) cell.Index {
	if right(a, node) != cell.Null {
		return minimum(a, right(a, node))
	}
	y := parent(a, node)
	x := node
	for y != cell.Null && x == right(a, y) {
		x = y
		y = parent(a, y)
	}
	return y
}

// Prev returns node's in-order predecessor, or cell.Null if node is the
// first.
func Prev(a *cell.Arena, node cell.Index) cell.Index {
	if left(a, node) != cell.Null {
		return maximum(a, left(a, node))
	}
	y := parent(a, node)
	x := node
	for y != cell.Null && x == left(a, y) {
		x = y
		y = parent(a, y)
	}
	return y
}

// Tally counts the nodes reachable from root by in-order walk.
func Tally(a *cell.Arena, root cell.Index) int {
	n := 0
	for node := First(a, root); node != cell.Null; node = Next(a, node) {
		n++
	}
	return n
}

// IsRedBlack reports whether the tree rooted at root satisfies every
// red-black invariant: a black root, no red node with a red child, and
// equal black-height on every root-to-leaf path.
func IsRedBlack(a *cell.Arena, root cell.Index) bool {
	if red(a, root) {
		return false
	}
	_, ok := blackHeight(a, root)
	return ok
}

func blackHeight(a *cell.Arena, node cell.Index) (int, bool) {
	if node == cell.Null {
		return 1, true
	}
	if red(a, node) && (red(a, left(a, node)) || red(a, right(a, node))) {
		return 0, false
	}
	lh, ok := blackHeight(a, left(a, node))
	if !ok {
		return 0, false
	}
	rh, ok := blackHeight(a, right(a, node))
	if !ok || lh != rh {
		return 0, false
	}
	if red(a, node) {
		return lh, true
	}
	return lh + 1, true
}
