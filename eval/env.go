// Copyright 2023 The Hypatia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eval

import (
	_ "embed"

	"github.com/hypatia-lang/hypatia/number"
	"github.com/hypatia-lang/hypatia/trie"
	"github.com/hypatia-lang/hypatia/unit"
)

//go:embed prelude.hyp
var preludeSource string

// A Scope is one frame of variable bindings. Scopes form a parent-linked
// tree rather than a flat stack: a closure keeps the node it captured
// reachable after the evaluator has moved its cursor back out.
type Scope struct {
	vars  map[string]Value
	outer *Scope
}

func newScope(outer *Scope) *Scope {
	return &Scope{vars: make(map[string]Value), outer: outer}
}

// at walks depth links toward the root.
func (s *Scope) at(depth int) *Scope {
	for i := 0; i < depth && s != nil; i++ {
		s = s.outer
	}
	return s
}

// root returns the global scope at the end of the chain.
func (s *Scope) root() *Scope {
	for s.outer != nil {
		s = s.outer
	}
	return s
}

// lookup finds name anywhere along the chain.
func (s *Scope) lookup(name string) (Value, bool) {
	for ; s != nil; s = s.outer {
		if v, ok := s.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// unitEntry and prefixEntry remember whether a name was declared as a long
// name; prefixed lookups require the prefix and unit kinds to agree.
type unitEntry struct {
	isLong bool
	unit   unit.Unit
}

type prefixEntry struct {
	isLong bool
	scale  number.Number
}

// A UnitName is the long and optional short name of a declared unit.
type UnitName struct {
	Long  string
	Short string
}

// Environment is the evaluator's mutable state: the variable scope cursor
// plus the unit store, the dimensional-signature index, and the prefix
// trie. Copies of an Environment share the stores and diverge only in
// their scope cursor; that is exactly what a closure snapshot needs.
type Environment struct {
	scope    *Scope
	units    map[string]unitEntry
	sigIndex map[string][]UnitName // names in insertion order per signature
	prefixes *trie.Trie[prefixEntry]
}

// NewBareEnvironment returns an environment without the prelude.
func NewBareEnvironment() *Environment {
	return &Environment{
		scope:    newScope(nil),
		units:    make(map[string]unitEntry),
		sigIndex: make(map[string][]UnitName),
		prefixes: trie.New[prefixEntry](),
	}
}

// pushScope moves the cursor into a fresh child scope.
func (env *Environment) pushScope() {
	env.scope = newScope(env.scope)
}

// popScope moves the cursor back to the parent scope.
func (env *Environment) popScope() {
	env.scope = env.scope.outer
}

// LookupUnit resolves a unit name, trying the unit store first and then
// every prefix+unit split. When several prefixes lead to a valid split the
// longest valid match wins.
func (env *Environment) LookupUnit(name string) (unit.Unit, bool) {
	if e, ok := env.units[name]; ok {
		return e.unit, true
	}
	var (
		best  unit.Unit
		found bool
	)
	// Search yields shortest prefixes first; keep the last valid split.
	for _, cand := range env.prefixes.Search(name) {
		rest := name[len(cand.Key):]
		if rest == "" {
			continue
		}
		u, ok := env.units[rest]
		if !ok || u.isLong != cand.Value.isLong {
			continue
		}
		best = u.unit.Rescaled(cand.Value.scale)
		found = true
	}
	return best, found
}

// isUnitName reports whether name denotes a unit, directly or prefixed.
func (env *Environment) isUnitName(name string) bool {
	_, ok := env.LookupUnit(name)
	return ok
}

// declareUnit installs a unit under its long and optional short name and
// records the names in the signature index for the formatter. Redeclaring
// a unit name replaces the previous unit.
func (env *Environment) declareUnit(name, short string, u unit.Unit) {
	env.units[name] = unitEntry{isLong: true, unit: u}
	if short != "" {
		env.units[short] = unitEntry{isLong: false, unit: u}
	}
	sig := u.Signature()
	for _, n := range env.sigIndex[sig] {
		if n.Long == name && n.Short == short {
			return
		}
	}
	env.sigIndex[sig] = append(env.sigIndex[sig], UnitName{Long: name, Short: short})
}

// unitNames returns the declared names sharing a dimensional signature, in
// declaration order.
func (env *Environment) unitNames(u unit.Unit) []UnitName {
	return env.sigIndex[u.Signature()]
}

// declarePrefix installs a prefix scale under one name.
func (env *Environment) declarePrefix(name string, isLong bool, scale number.Number) bool {
	if env.prefixes.ContainsKey(name) {
		return false
	}
	env.prefixes.Insert(name, prefixEntry{isLong: isLong, scale: scale})
	return true
}

// Clone returns an environment sharing this one's unit, prefix and scope
// stores, with its own scope cursor. Cell-oriented hosts hand clones to
// consecutive evaluations.
func (env *Environment) Clone() *Environment {
	clone := *env
	return &clone
}

// NewEnvironment returns an environment pre-loaded with the standard
// prelude: SI base units, common derived units, and the SI and IEC
// prefixes. It panics if the embedded prelude fails to load, which would
// be a build defect.
func NewEnvironment() *Environment {
	env := NewBareEnvironment()
	if err := loadPrelude(env); err != nil {
		panic("eval: bad prelude: " + err.Error())
	}
	return env
}
