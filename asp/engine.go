// Package asp is the public embedding surface: it owns the data arena and
// the code source, drives the lifecycle a host uses to load a program and
// step it, and re-exports the value/iterator/range API so host application
// functions never need to import the lower-level packages directly.
//
// The opcode dispatcher, compiler/assembler, and VM namespace/symbol binder
// are out of scope for this repo; Step validates the program counter
// against the loaded code and reports NotImplemented rather than decoding
// and executing an instruction, since there is no instruction set defined
// here to decode.
package asp

import (
	"github.com/google/uuid"

	"github.com/asplang/asp-sub001/appspec"
	"github.com/asplang/asp-sub001/cell"
	"github.com/asplang/asp-sub001/codepage"
	"github.com/asplang/asp-sub001/header"
)

// codeVersion is the bytecode version tuple this engine accepts.
var codeVersion = [4]byte{1, 0, 0, 0}

// EngineVersion returns this implementation's own version tuple, distinct
// from whatever version a loaded program declares.
func EngineVersion() [4]byte { return [4]byte{1, 0, 0, 0} }

// Engine owns one data arena, one code source, and the scalar bookkeeping
// (program counter, sticky run result) that together constitute a single
// embeddable script instance.
type Engine struct {
	Arena      *cell.Arena
	InstanceID uuid.UUID

	spec    *appspec.Spec
	context any

	codeBuf []byte // accumulates AddCode input until Seal, non-paged mode
	paged   bool
	pageCfg pagedConfig

	sealed bool
	header header.Header
	source codepage.Source

	pc        uint32
	running   bool
	runResult RunResult
}

type pagedConfig struct {
	pageSize  uint32
	pageCount int
	readerID  any
	reader    codepage.Reader
}

// NewEngine creates a direct-mode (non-paged) engine with a data arena of
// dataCellCount cells. Code is supplied via AddCode/Seal before Step may be
// called.
func NewEngine(dataCellCount int, spec *appspec.Spec, context any) *Engine {
	return &Engine{
		Arena:      cell.New(dataCellCount),
		InstanceID: uuid.New(),
		spec:       spec,
		context:    context,
	}
}

// NewPagedEngine creates an engine that loads its code lazily, pageSize
// bytes at a time, through reader, keeping at most pageCount pages resident
// at once. AddCode/Seal still govern the lifecycle; Seal reads just the
// first page to validate the header before the rest of the program is
// paged in on demand.
func NewPagedEngine(dataCellCount int, spec *appspec.Spec, context any, pageSize uint32, pageCount int, readerID any, reader codepage.Reader) *Engine {
	e := NewEngine(dataCellCount, spec, context)
	e.paged = true
	e.pageCfg = pagedConfig{pageSize: pageSize, pageCount: pageCount, readerID: readerID, reader: reader}
	return e
}

// Context returns the host-supplied context value passed to NewEngine.
func (e *Engine) Context() any { return e.context }

// RunResult reports the engine's current sticky status.
func (e *Engine) RunResult() RunResult { return e.runResult }

// IsRunning reports whether the engine has been sealed and has not yet
// reached Complete or a sticky error.
func (e *Engine) IsRunning() bool { return e.running && !e.sticky() }

// ProgramCounter returns the current bytecode offset, relative to the end
// of the header.
func (e *Engine) ProgramCounter() uint32 { return e.pc }

// LowFreeCount returns the fewest free data cells ever observed, the same
// diagnostic AspLowFreeCount exposes.
func (e *Engine) LowFreeCount() int { return e.Arena.LowFreeCount() }

// CodeVersion returns the version tuple declared by the loaded program's
// header. Valid only once Seal has succeeded.
func (e *Engine) CodeVersion() [4]byte { return e.header.Version }

// sticky returns true and short-circuits if a prior sticky error is set.
func (e *Engine) sticky() bool { return e.runResult != OK }

// Assert sets and returns InternalError if condition is false, propagating
// any prior sticky error unchanged otherwise. It mirrors spec.md 7's
// Assert(condition) contract: a host-visible internal-consistency check
// that never gets bypassed by a successful prior call.
func (e *Engine) Assert(condition bool) RunResult {
	if e.sticky() {
		return e.runResult
	}
	if !condition {
		e.runResult = InternalError
	}
	return e.runResult
}

// AddCode appends b to the program being loaded. It fails once the program
// has been Seal'd.
func (e *Engine) AddCode(b []byte) AddCodeResult {
	if e.sealed {
		return AddCodeInvalidState
	}
	e.codeBuf = append(e.codeBuf, b...)
	return AddCodeOK
}

// Seal finalizes the loaded code, validating its header and, in direct
// mode, the whole program's presence in memory; in paged mode it reads only
// the first page through the configured Reader.
func (e *Engine) Seal() AddCodeResult {
	if e.sealed {
		return AddCodeInvalidState
	}

	var headerBytes []byte
	if e.paged {
		buf := make([]byte, e.pageCfg.pageSize)
		n, err := e.pageCfg.reader(e.pageCfg.readerID, 0, buf)
		if err != nil || n < header.Size {
			return AddCodeInvalidFormat
		}
		headerBytes = buf[:header.Size]
	} else {
		if len(e.codeBuf) < header.Size {
			return AddCodeInvalidFormat
		}
		headerBytes = e.codeBuf[:header.Size]
	}

	h, err := header.Parse(headerBytes)
	if err != nil {
		if err == header.ErrInvalidCheckValue {
			return AddCodeInvalidCheckValue
		}
		return AddCodeInvalidFormat
	}
	if h.Version != codeVersion {
		return AddCodeInvalidCheckValue
	}

	if e.paged {
		e.source = codepage.NewPagedSource(h.HeaderIndex, e.pageCfg.pageSize, e.pageCfg.pageCount, e.pageCfg.readerID, e.pageCfg.reader)
	} else {
		e.source = codepage.NewDirectSource(e.codeBuf, h.HeaderIndex)
	}

	e.header = h
	e.sealed = true
	e.running = true
	e.pc = 0
	return AddCodeOK
}

// Reset clears sticky error state and the program counter, returning the
// data arena to its initial configuration. The loaded code is unaffected.
func (e *Engine) Reset() RunResult {
	capacity := e.Arena.Capacity()
	e.Arena = cell.New(capacity)
	e.pc = 0
	e.runResult = OK
	e.running = e.sealed
	return OK
}

// Restart resets execution to the beginning of the sealed program without
// discarding or reloading it.
func (e *Engine) Restart() RunResult {
	if !e.sealed {
		e.runResult = InvalidState
		return e.runResult
	}
	return e.Reset()
}

// Step validates the current program counter against the loaded code and
// reports NotImplemented: decoding and executing an instruction is the
// opcode dispatcher's job, out of scope here.
func (e *Engine) Step() RunResult {
	if e.sticky() {
		return e.runResult
	}
	if !e.sealed {
		e.runResult = InvalidState
		return e.runResult
	}
	if st := e.source.ValidateAddress(e.pc); st != codepage.OK {
		e.runResult = translateCodepage(st)
		e.running = false
		return e.runResult
	}
	e.runResult = NotImplemented
	return e.runResult
}
