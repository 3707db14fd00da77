package cell

// This file is the Go analogue of the original engine's data.c: the only
// place that knows how each tag maps onto the generic cellData fields.
// Every other package reaches a cell's contents exclusively through these
// methods.

// ----- scalars ---------------------------------------------------------

func (a *Arena) Boolean(i Index) bool       { return a.cells[i].i32 != 0 }
func (a *Arena) SetBoolean(i Index, v bool) {
	if v {
		a.cells[i].i32 = 1
	} else {
		a.cells[i].i32 = 0
	}
}

func (a *Arena) Integer(i Index) int32        { return a.cells[i].i32 }
func (a *Arena) SetInteger(i Index, v int32)  { a.cells[i].i32 = v }

func (a *Arena) Float(i Index) float64       { return a.cells[i].f64 }
func (a *Arena) SetFloat(i Index, v float64) { a.cells[i].f64 = v }

func (a *Arena) Symbol(i Index) int32       { return a.cells[i].i32 }
func (a *Arena) SetSymbol(i Index, v int32) { a.cells[i].i32 = v }

// ----- range -------------------------------------------------------------

func (a *Arena) RangeHasStart(i Index) bool { return a.cells[i].flags&flagRangeHasStart != 0 }
func (a *Arena) SetRangeHasStart(i Index, v bool) {
	a.setFlag(i, flagRangeHasStart, v)
}

func (a *Arena) RangeHasEnd(i Index) bool { return a.cells[i].flags&flagRangeHasEnd != 0 }
func (a *Arena) SetRangeHasEnd(i Index, v bool) {
	a.setFlag(i, flagRangeHasEnd, v)
}

func (a *Arena) RangeHasStep(i Index) bool { return a.cells[i].flags&flagRangeHasStep != 0 }
func (a *Arena) SetRangeHasStep(i Index, v bool) {
	a.setFlag(i, flagRangeHasStep, v)
}

func (a *Arena) RangeStartIndex(i Index) Index        { return a.cells[i].idxA }
func (a *Arena) SetRangeStartIndex(i Index, v Index)  { a.cells[i].idxA = v }
func (a *Arena) RangeEndIndex(i Index) Index          { return a.cells[i].idxB }
func (a *Arena) SetRangeEndIndex(i Index, v Index)    { a.cells[i].idxB = v }
func (a *Arena) RangeStepIndex(i Index) Index         { return a.cells[i].idxC }
func (a *Arena) SetRangeStepIndex(i Index, v Index)   { a.cells[i].idxC = v }

func (a *Arena) setFlag(i Index, bit uint8, v bool) {
	if v {
		a.cells[i].flags |= bit
	} else {
		a.cells[i].flags &^= bit
	}
}

// ----- sequence header (String, Tuple, List) ------------------------------

func (a *Arena) SequenceHead(i Index) Index       { return a.cells[i].idxA }
func (a *Arena) SetSequenceHead(i Index, v Index) { a.cells[i].idxA = v }
func (a *Arena) SequenceTail(i Index) Index       { return a.cells[i].idxB }
func (a *Arena) SetSequenceTail(i Index, v Index) { a.cells[i].idxB = v }
func (a *Arena) SequenceCount(i Index) uint32     { return uint32(a.cells[i].i32) }
func (a *Arena) SetSequenceCount(i Index, v uint32) {
	a.cells[i].i32 = int32(v)
}

// ----- element -------------------------------------------------------------

// NewElement allocates a sequence node linking prev/next and holding a
// strong reference to value. It does not Ref value: the element takes over
// a reference the caller already holds, the same way seq.Append takes
// ownership of the value it is given.
func (a *Arena) NewElement(prev, next, value Index) (Index, error) {
	i, err := a.Alloc(TagElement)
	if err != nil {
		return Null, err
	}
	a.cells[i].idxA = prev
	a.cells[i].idxB = next
	a.cells[i].idxC = value
	return i, nil
}

func (a *Arena) ElementPrev(i Index) Index        { return a.cells[i].idxA }
func (a *Arena) SetElementPrev(i Index, v Index)  { a.cells[i].idxA = v }
func (a *Arena) ElementNext(i Index) Index        { return a.cells[i].idxB }
func (a *Arena) SetElementNext(i Index, v Index)  { a.cells[i].idxB = v }
func (a *Arena) ElementValueIndex(i Index) Index  { return a.cells[i].idxC }
func (a *Arena) SetElementValueIndex(i Index, v Index) {
	a.cells[i].idxC = v
}

// ----- string fragment -----------------------------------------------------

// NewStringFragment allocates a fragment cell copying up to
// FragmentCapacity bytes of data.
func (a *Arena) NewStringFragment(data []byte) (Index, error) {
	i, err := a.Alloc(TagStringFragment)
	if err != nil {
		return Null, err
	}
	a.SetStringFragment(i, data)
	return i, nil
}

// SetStringFragment overwrites the fragment payload at i. len(data) must
// not exceed FragmentCapacity.
func (a *Arena) SetStringFragment(i Index, data []byte) {
	c := &a.cells[i]
	n := copy(c.frag[:], data)
	c.fragLen = uint8(n)
}

func (a *Arena) StringFragmentSize(i Index) uint8 { return a.cells[i].fragLen }
func (a *Arena) StringFragmentData(i Index) []byte {
	c := &a.cells[i]
	return c.frag[:c.fragLen]
}

// ----- tree container header (Set, Dictionary, Namespace) -------------------

func (a *Arena) TreeRoot(i Index) Index       { return a.cells[i].idxA }
func (a *Arena) SetTreeRoot(i Index, v Index) { a.cells[i].idxA = v }
func (a *Arena) TreeCount(i Index) uint32     { return uint32(a.cells[i].i32) }
func (a *Arena) SetTreeCount(i Index, v uint32) {
	a.cells[i].i32 = int32(v)
}

// ----- tree nodes (SetNode, DictionaryNode, NamespaceNode) ------------------
//
// SetNode has room for both child indices directly. DictionaryNode and
// NamespaceNode additionally need a value index, so their payload has no
// room for a second child index; they route left/right through an
// auxiliary TreeLinks cell instead. Both layouts are indistinguishable
// through the accessors below.

// NewSetNode allocates a set tree node for key, with no parent/children yet.
func (a *Arena) NewSetNode(key Index) (Index, error) {
	i, err := a.Alloc(TagSetNode)
	if err != nil {
		return Null, err
	}
	a.cells[i].idxA = key
	return i, nil
}

// NewDictionaryNode allocates a dictionary tree node for key/value, along
// with the TreeLinks cell that will hold its children.
func (a *Arena) NewDictionaryNode(key, value Index) (Index, error) {
	links, err := a.Alloc(TagTreeLinks)
	if err != nil {
		return Null, err
	}
	i, err := a.Alloc(TagDictionaryNode)
	if err != nil {
		a.free(links)
		return Null, err
	}
	a.cells[i].idxA = key
	a.cells[i].idxB = value
	a.cells[i].idxD = links
	return i, nil
}

// NewNamespaceNode allocates a namespace tree node binding symbol to value.
func (a *Arena) NewNamespaceNode(symbol int32, value Index) (Index, error) {
	links, err := a.Alloc(TagTreeLinks)
	if err != nil {
		return Null, err
	}
	i, err := a.Alloc(TagNamespaceNode)
	if err != nil {
		a.free(links)
		return Null, err
	}
	a.cells[i].i32 = symbol
	a.cells[i].idxB = value
	a.cells[i].idxD = links
	return i, nil
}

func (a *Arena) TreeNodeKeyIndex(i Index) Index { return a.cells[i].idxA }
func (a *Arena) SetTreeNodeKeyIndex(i Index, v Index) {
	a.cells[i].idxA = v
}

func (a *Arena) TreeNodeValueIndex(i Index) Index { return a.cells[i].idxB }
func (a *Arena) SetTreeNodeValueIndex(i Index, v Index) {
	a.cells[i].idxB = v
}

func (a *Arena) NamespaceNodeSymbol(i Index) int32 { return a.cells[i].i32 }
func (a *Arena) SetNamespaceNodeSymbol(i Index, v int32) {
	a.cells[i].i32 = v
}

func (a *Arena) TreeNodeParent(i Index) Index {
	if a.cells[i].tag == TagSetNode {
		return a.cells[i].idxB
	}
	return a.cells[i].idxC
}

func (a *Arena) SetTreeNodeParent(i Index, v Index) {
	if a.cells[i].tag == TagSetNode {
		a.cells[i].idxB = v
	} else {
		a.cells[i].idxC = v
	}
}

func (a *Arena) TreeNodeRed(i Index) bool { return a.cells[i].flags&flagTreeNodeRed != 0 }
func (a *Arena) SetTreeNodeRed(i Index, v bool) {
	a.setFlag(i, flagTreeNodeRed, v)
}

func (a *Arena) TreeNodeLeft(i Index) Index {
	c := &a.cells[i]
	if c.tag == TagSetNode {
		return c.idxC
	}
	return a.cells[c.idxD].idxA
}

func (a *Arena) SetTreeNodeLeft(i Index, v Index) {
	c := &a.cells[i]
	if c.tag == TagSetNode {
		c.idxC = v
		return
	}
	a.cells[c.idxD].idxA = v
}

func (a *Arena) TreeNodeRight(i Index) Index {
	c := &a.cells[i]
	if c.tag == TagSetNode {
		return c.idxD
	}
	return a.cells[c.idxD].idxB
}

func (a *Arena) SetTreeNodeRight(i Index, v Index) {
	c := &a.cells[i]
	if c.tag == TagSetNode {
		c.idxD = v
		return
	}
	a.cells[c.idxD].idxB = v
}

// ----- iterator --------------------------------------------------------

func (a *Arena) IteratorIterableIndex(i Index) Index { return a.cells[i].idxA }
func (a *Arena) SetIteratorIterableIndex(i Index, v Index) {
	a.cells[i].idxA = v
}

func (a *Arena) IteratorMemberIndex(i Index) Index { return a.cells[i].idxB }
func (a *Arena) SetIteratorMemberIndex(i Index, v Index) {
	a.cells[i].idxB = v
}

func (a *Arena) IteratorMemberNeedsCleanup(i Index) bool {
	return a.cells[i].flags&flagIteratorNeedsCleanup != 0
}
func (a *Arena) SetIteratorMemberNeedsCleanup(i Index, v bool) {
	a.setFlag(i, flagIteratorNeedsCleanup, v)
}

func (a *Arena) IteratorStringIndex(i Index) uint8 { return a.cells[i].fragLen }
func (a *Arena) SetIteratorStringIndex(i Index, v uint8) {
	a.cells[i].fragLen = v
}

func (a *Arena) IsReverseIterator(i Index) bool { return a.cells[i].tag == TagReverseIterator }
func (a *Arena) SetIteratorDirection(i Index, reversed bool) {
	if reversed {
		a.cells[i].tag = TagReverseIterator
	} else {
		a.cells[i].tag = TagForwardIterator
	}
}

// ----- module / function / type ------------------------------------------

func (a *Arena) ModuleCodeAddress(i Index) uint32 { return a.cells[i].addr }
func (a *Arena) SetModuleCodeAddress(i Index, v uint32) {
	a.cells[i].addr = v
}
func (a *Arena) ModuleNamespaceIndex(i Index) Index { return a.cells[i].idxA }
func (a *Arena) SetModuleNamespaceIndex(i Index, v Index) {
	a.cells[i].idxA = v
}

func (a *Arena) FunctionIsApp(i Index) bool { return a.cells[i].flags&flagFunctionIsApp != 0 }
func (a *Arena) SetFunctionIsApp(i Index, v bool) {
	a.setFlag(i, flagFunctionIsApp, v)
}
func (a *Arena) FunctionSymbol(i Index) int32       { return a.cells[i].i32 }
func (a *Arena) SetFunctionSymbol(i Index, v int32) { a.cells[i].i32 = v }
func (a *Arena) FunctionCodeAddress(i Index) uint32 { return a.cells[i].addr }
func (a *Arena) SetFunctionCodeAddress(i Index, v uint32) {
	a.cells[i].addr = v
}

func (a *Arena) TypeValue(i Index) Tag       { return a.cells[i].typeValue }
func (a *Arena) SetTypeValue(i Index, v Tag) { a.cells[i].typeValue = v }
