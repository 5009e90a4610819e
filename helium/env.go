package helium

import (
	"maps"
	"slices"
	"sync"
)

type ScopeKind int

const (
	ScopeMain ScopeKind = iota
	ScopeFunction
)

func (k ScopeKind) String() string {
	if k == ScopeFunction {
		return "function"
	}
	return "main"
}

// Scope is a binding environment in a parent-linked chain. The outermost
// ancestor of every main scope is the shared, read-only builtin scope.
type Scope struct {
	kind     ScopeKind
	parent   *Scope
	values   map[string]Value
	readOnly bool
}

var builtinScope = sync.OnceValue(func() *Scope {
	return &Scope{kind: ScopeMain, values: builtinValues(), readOnly: true}
})

// NewScope returns an empty main scope on top of the builtins.
func NewScope() *Scope {
	return newScope(ScopeMain, builtinScope())
}

func newScope(kind ScopeKind, parent *Scope) *Scope {
	return &Scope{kind: kind, parent: parent, values: make(map[string]Value)}
}

func (s *Scope) Kind() ScopeKind { return s.kind }

func (s *Scope) Parent() *Scope { return s.parent }

func (s *Scope) Get(name string) (Value, bool) {
	if owner := s.owner(name); owner != nil {
		return owner.values[name], true
	}
	return Value{}, false
}

// Define binds name in this scope, shadowing any outer binding.
func (s *Scope) Define(name string, val Value) {
	s.values[name] = val
}

// Assign overwrites the nearest writable binding of name, or defines it in
// this scope when there is none. Builtins are shadowed, never replaced.
func (s *Scope) Assign(name string, val Value) {
	if owner := s.owner(name); owner != nil && !owner.readOnly {
		owner.values[name] = val
		return
	}
	s.values[name] = val
}

// Names lists the names bound directly in this scope, sorted.
func (s *Scope) Names() []string {
	return slices.Sorted(maps.Keys(s.values))
}

// VisibleNames lists every name reachable from this scope, builtins
// included, sorted and without duplicates.
func (s *Scope) VisibleNames() []string {
	seen := make(map[string]struct{})
	for cur := s; cur != nil; cur = cur.parent {
		for name := range cur.values {
			seen[name] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

func (s *Scope) owner(name string) *Scope {
	for cur := s; cur != nil; cur = cur.parent {
		if _, ok := cur.values[name]; ok {
			return cur
		}
	}
	return nil
}
