// Package appspec describes, statically, the set of host application
// functions a bytecode program may call: each function's name, its
// accepted argument-count range, and whether it produces a return value.
// asp.Engine stores the Spec it is given but does not consult it: Step does
// not dispatch calls to host functions, so no call is validated against it
// and MalformedFunctionCall/UndefinedAppFunction are never reported from it.
//
// The original engine's AspAppSpec is an opaque host-supplied table; this
// package gives it a concrete, loadable shape.
package appspec

import (
	"errors"
	"fmt"
	"os"

	"sigs.k8s.io/yaml"
)

// Again is the sentinel a host application function returns to ask that
// execution be suspended and the same call retried on a later Step. Nothing
// in this module returns or checks it: asp.Engine.Step never calls host
// functions.
var Again = errors.New("appspec: again")

// Symbol identifies a host application function by name.
type Symbol string

// FunctionEntry describes one host application function's call shape.
type FunctionEntry struct {
	MinArgs   int
	MaxArgs   int // -1 means unbounded, matching the original's variadic print()
	HasReturn bool
}

// ValidArgCount reports whether n arguments satisfy e's accepted range.
func (e FunctionEntry) ValidArgCount(n int) bool {
	if n < e.MinArgs {
		return false
	}
	return e.MaxArgs < 0 || n <= e.MaxArgs
}

// Spec is a symbol-indexed description of every host application function a
// bytecode program is permitted to call.
type Spec struct {
	Functions map[Symbol]FunctionEntry
}

// Lookup returns the entry for name and whether it exists.
func (s *Spec) Lookup(name Symbol) (FunctionEntry, bool) {
	if s == nil {
		return FunctionEntry{}, false
	}
	e, ok := s.Functions[name]
	return e, ok
}

// manifest mirrors the on-disk YAML shape consumed by Load: a flat mapping
// from function name to its call shape.
type manifest struct {
	Functions map[string]struct {
		MinArgs   int  `json:"minArgs"`
		MaxArgs   int  `json:"maxArgs"`
		HasReturn bool `json:"hasReturn"`
	} `json:"functions"`
}

// Load reads a Spec from a YAML manifest, e.g.:
//
//	functions:
//	  print:
//	    minArgs: 0
//	    maxArgs: -1
//	    hasReturn: false
//	  sqrt:
//	    minArgs: 1
//	    maxArgs: 1
//	    hasReturn: true
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("appspec: %w", err)
	}

	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("appspec: parsing %s: %w", path, err)
	}

	spec := &Spec{Functions: make(map[Symbol]FunctionEntry, len(m.Functions))}
	for name, e := range m.Functions {
		spec.Functions[Symbol(name)] = FunctionEntry{
			MinArgs:   e.MinArgs,
			MaxArgs:   e.MaxArgs,
			HasReturn: e.HasReturn,
		}
	}
	return spec, nil
}
