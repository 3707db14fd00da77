package asp

import (
	"github.com/asplang/asp-sub001/asparith"
	"github.com/asplang/asp-sub001/codepage"
	"github.com/asplang/asp-sub001/iterator"
	"github.com/asplang/asp-sub001/rangeval"
	"github.com/asplang/asp-sub001/value"
)

// RunResult enumerates every status an Engine lifecycle or step operation
// can produce, matching spec.md 7's result table.
type RunResult uint16

const (
	OK RunResult = iota
	Complete
	Again
	InitializationError
	InvalidState
	OutOfDataMemory
	OutOfCodeMemory
	InvalidInstruction
	BeyondEndOfCode
	InvalidEnd
	StackUnderflow
	UnexpectedType
	NameNotFound
	KeyNotFound
	IndexOutOfRange
	IteratorAtEnd
	MalformedFunctionCall
	UndefinedAppFunction
	DivideByZero
	ArithmeticOverflow
	ValueOutOfRange
	CycleDetected
	Redundant
	InvalidContext
	InternalError
	NotImplemented
	Application RunResult = 0x100
)

func (r RunResult) String() string {
	switch r {
	case OK:
		return "ok"
	case Complete:
		return "complete"
	case Again:
		return "again"
	case InitializationError:
		return "initialization error"
	case InvalidState:
		return "invalid state"
	case OutOfDataMemory:
		return "out of data memory"
	case OutOfCodeMemory:
		return "out of code memory"
	case InvalidInstruction:
		return "invalid instruction"
	case BeyondEndOfCode:
		return "beyond end of code"
	case InvalidEnd:
		return "invalid end"
	case StackUnderflow:
		return "stack underflow"
	case UnexpectedType:
		return "unexpected type"
	case NameNotFound:
		return "name not found"
	case KeyNotFound:
		return "key not found"
	case IndexOutOfRange:
		return "index out of range"
	case IteratorAtEnd:
		return "iterator at end"
	case MalformedFunctionCall:
		return "malformed function call"
	case UndefinedAppFunction:
		return "undefined app function"
	case DivideByZero:
		return "divide by zero"
	case ArithmeticOverflow:
		return "arithmetic overflow"
	case ValueOutOfRange:
		return "value out of range"
	case CycleDetected:
		return "cycle detected"
	case Redundant:
		return "redundant"
	case InvalidContext:
		return "invalid context"
	case InternalError:
		return "internal error"
	case NotImplemented:
		return "not implemented"
	case Application:
		return "application"
	default:
		return "unknown run result"
	}
}

// AddCodeResult enumerates the outcome of AddCode/Seal, a distinct result
// type from RunResult because loading code happens before the engine has
// anything meaningful to run (see DESIGN.md's Open Question decisions).
type AddCodeResult uint8

const (
	AddCodeOK AddCodeResult = iota
	AddCodeInvalidFormat
	AddCodeInvalidCheckValue
	AddCodeOutOfCodeMemory
	AddCodeInvalidState
)

func (r AddCodeResult) String() string {
	switch r {
	case AddCodeOK:
		return "ok"
	case AddCodeInvalidFormat:
		return "invalid format"
	case AddCodeInvalidCheckValue:
		return "invalid check value"
	case AddCodeOutOfCodeMemory:
		return "out of code memory"
	case AddCodeInvalidState:
		return "invalid state"
	default:
		return "unknown add-code result"
	}
}

// translateArith converts an asparith.Status into its 1:1 RunResult
// counterpart, per spec.md 7's "Integer-arithmetic results translate 1:1 to
// run results."
func translateArith(s asparith.Status) RunResult {
	switch s {
	case asparith.OK:
		return OK
	case asparith.Overflow:
		return ArithmeticOverflow
	case asparith.DivideByZero:
		return DivideByZero
	case asparith.ValueOutOfRange:
		return ValueOutOfRange
	default:
		return InternalError
	}
}

func translateValue(s value.Status) RunResult {
	switch s {
	case value.OK:
		return OK
	case value.UnexpectedType:
		return UnexpectedType
	case value.OutOfDataMemory:
		return OutOfDataMemory
	case value.NotExclusivelyOwned:
		return InvalidState
	case value.ValueOutOfRange:
		return ValueOutOfRange
	case value.IndexOutOfRange:
		return IndexOutOfRange
	case value.KeyNotFound:
		return KeyNotFound
	case value.DivideByZero:
		return DivideByZero
	case value.Overflow:
		return ArithmeticOverflow
	default:
		return InternalError
	}
}

func translateRangeval(s rangeval.Status) RunResult {
	switch s {
	case rangeval.OK:
		return OK
	case rangeval.ValueOutOfRange:
		return ValueOutOfRange
	case rangeval.Overflow:
		return ArithmeticOverflow
	case rangeval.DivideByZero:
		return DivideByZero
	default:
		return InternalError
	}
}

func translateIterator(s iterator.Status) RunResult {
	switch s {
	case iterator.OK:
		return OK
	case iterator.UnexpectedType:
		return UnexpectedType
	case iterator.OutOfDataMemory:
		return OutOfDataMemory
	case iterator.AtEnd:
		return IteratorAtEnd
	case iterator.Overflow:
		return ArithmeticOverflow
	case iterator.DivideByZero:
		return DivideByZero
	case iterator.ValueOutOfRange:
		return ValueOutOfRange
	default:
		return InternalError
	}
}

func translateCodepage(s codepage.Status) RunResult {
	switch s {
	case codepage.OK:
		return OK
	case codepage.BeyondEndOfCode:
		return BeyondEndOfCode
	default:
		return InternalError
	}
}
