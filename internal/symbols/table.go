// Package symbols implements a small generic symbol table keyed by
// interned names.ID, used for bound variable values, the #ignore set,
// and (monomorphized to struct{}) set-membership tables. Grounded on the
// original's SymbolTable<V> template (original_source/symbol_table.h)
// and modeled stylistically on the teacher's internal/symbols package,
// but monomorphized with Go generics instead of a type-system-aware
// table, since lsys only needs plain lexical lookup with scoped
// shadowing, not type unification.
package symbols

import "github.com/lsysgo/lsys/internal/names"

// Table is a chain of scopes mapping names.ID to a bound value of type
// V. Push opens a new scope that shadows outer bindings; Pop discards
// it. A Table with no scopes pushed behaves as a single flat table —
// this is how lsys uses it for the model-wide global symbol table.
type Table[V any] struct {
	scopes []map[names.ID]V
}

// New returns a Table with one base scope, ready for use.
func New[V any]() *Table[V] {
	return &Table[V]{scopes: []map[names.ID]V{make(map[names.ID]V)}}
}

// Push opens a new nested scope.
func (t *Table[V]) Push() {
	t.scopes = append(t.scopes, make(map[names.ID]V))
}

// Pop discards the innermost scope. Popping the base scope panics: it
// is a programming error, like popping an empty stack.
func (t *Table[V]) Pop() {
	if len(t.scopes) == 1 {
		panic("symbols: Pop of base scope")
	}
	t.scopes = t.scopes[:len(t.scopes)-1]
}

// Enter binds id to v in the innermost scope, shadowing any outer
// binding of the same name.
func (t *Table[V]) Enter(id names.ID, v V) {
	t.scopes[len(t.scopes)-1][id] = v
}

// Lookup searches from the innermost scope outward, returning the first
// binding found.
func (t *Table[V]) Lookup(id names.ID) (V, bool) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if v, ok := t.scopes[i][id]; ok {
			return v, true
		}
	}
	var zero V
	return zero, false
}

// Has reports whether id is bound in any scope.
func (t *Table[V]) Has(id names.ID) bool {
	_, ok := t.Lookup(id)
	return ok
}

// Remove deletes id from the innermost scope only, matching the
// original's Remove() which operates on the current scope.
func (t *Table[V]) Remove(id names.ID) {
	delete(t.scopes[len(t.scopes)-1], id)
}

// Set is a Table[struct{}] used as a membership set, e.g. the model's
// #ignore set (spec §4.2).
type Set = Table[struct{}]

// NewSet returns an empty Set.
func NewSet() *Set { return New[struct{}]() }

// Add inserts id into s.
func Add(s *Set, id names.ID) {
	s.Enter(id, struct{}{})
}

// Contains reports whether id is in s.
func Contains(s *Set, id names.ID) bool {
	return s.Has(id)
}
