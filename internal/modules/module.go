// Package modules implements Module and ModuleList, the basic units an
// L-system rewrites and a turtle interprets. Grounded on
// original_source/Module.h and List.h: a module is a name plus a
// parameter expression list, with bind/conform/instantiate operating
// against a symbol table of bound values (spec §3).
package modules

import (
	"strings"

	"github.com/lsysgo/lsys/internal/ast"
	"github.com/lsysgo/lsys/internal/names"
	"github.com/lsysgo/lsys/internal/symbols"
	"github.com/lsysgo/lsys/internal/values"
)

// Module is one symbol of a module string: a name and its (already
// bound-or-pending) parameter expressions. An ignore-marked module is
// invisible to context matching (spec §4.4) but still present in the
// string and still interpreted.
type Module struct {
	Name   names.ID
	Params []*ast.Expression
	Ignore bool
}

// New returns a Module. params may be nil for a parameterless module.
func New(name names.ID, params []*ast.Expression, ignore bool) Module {
	return Module{Name: name, Params: params, Ignore: ignore}
}

// Conforms reports whether m and other share the same name (tag) and
// the same number of parameters, the precondition for Bind. Matches
// Module::Conforms (original_source/src/Module.cpp), which checks the
// tag before the parameter-list arity.
func (m Module) Conforms(other Module) bool {
	if m.Name != other.Name {
		return false
	}
	return ast.Conforms(m.Params, other.Params)
}

// Bind binds each of m's parameter names (m must be a formal-parameter
// module, i.e. every Params entry a bare name) to the corresponding
// evaluated value from other, entering them into symbolTable. m and
// other must Conform.
func (m Module) Bind(other Module, symbolTable *symbols.Table[values.Value], env ast.Env) bool {
	return ast.Bind(m.Params, other.Params, symbolTable, env)
}

// Instantiate returns a copy of m with every parameter expression
// evaluated against env and collapsed to a concrete value — the step
// that turns a matched successor template into a literal new module.
func (m Module) Instantiate(env ast.Env) Module {
	return Module{Name: m.Name, Params: ast.Instantiate(m.Params, env), Ignore: m.Ignore}
}

// Float returns the n'th parameter evaluated as a float64, and whether
// that parameter exists and evaluated to a defined number.
func (m Module) Float(env ast.Env, n int) (float64, bool) {
	if n >= len(m.Params) {
		return 0, false
	}
	return m.Params[n].Evaluate(env).Float()
}

// String renders m as lsys source text: its name followed by a
// parenthesized, comma-separated parameter list when it has any. Used
// to print a rewritten module string back out (spec §6 --display),
// mirroring how original_source/Module.cpp's operator<< prints a
// module.
func (m Module) String(env ast.Env, in *names.Interner) string {
	if len(m.Params) == 0 {
		return in.Lookup(m.Name)
	}
	parts := make([]string, len(m.Params))
	for i, p := range m.Params {
		parts[i] = p.Evaluate(env).String()
	}
	return in.Lookup(m.Name) + "(" + strings.Join(parts, ",") + ")"
}

// List is an owned, slice-backed sequence of modules — the module
// string the rewriter and interpreter both operate on. Unlike the
// original's intrusive doubly linked List<Module>, this is a plain
// growable slice (DESIGN NOTES §9): nothing here needs O(1) splice at
// an arbitrary interior node, and a slice is simpler, cache-friendlier,
// and idiomatic Go.
type List []Module

// String renders every module of l in order, space-separated.
func (l List) String(env ast.Env, in *names.Interner) string {
	parts := make([]string, len(l))
	for i, m := range l {
		parts[i] = m.String(env, in)
	}
	return strings.Join(parts, " ")
}

// Cursor is a bidirectional, bracket-depth-aware position within a
// List, used by the production matcher to scan left/right context
// across nested branches (spec §4.4, original_source/Production.cpp
// matches()).
type Cursor struct {
	list *List
	pos  int
}

// NewCursor returns a Cursor positioned at index pos of list.
func NewCursor(list *List, pos int) Cursor {
	return Cursor{list: list, pos: pos}
}

// Valid reports whether the cursor is within bounds.
func (c Cursor) Valid() bool {
	return c.pos >= 0 && c.pos < len(*c.list)
}

// Module returns the module at the cursor, panicking if !Valid().
func (c Cursor) Module() Module {
	return (*c.list)[c.pos]
}

// Next returns a cursor advanced one module to the right.
func (c Cursor) Next() Cursor {
	return Cursor{list: c.list, pos: c.pos + 1}
}

// Prev returns a cursor moved one module to the left.
func (c Cursor) Prev() Cursor {
	return Cursor{list: c.list, pos: c.pos - 1}
}

// SkipRightBracketed advances past a balanced "[...]" run, per the
// right-context matching rule (spec §4.4): at a "[", skip to just past
// its matching "]" without looking inside.
func (c Cursor) SkipRightBracketed(in *names.Interner) Cursor {
	depth := 0
	cur := c
	for cur.Valid() {
		m := cur.Module()
		switch m.Name {
		case in.LBracket:
			depth++
		case in.RBracket:
			depth--
			if depth == 0 {
				return cur.Next()
			}
		}
		cur = cur.Next()
	}
	return cur
}

// SkipLeftBracketed retreats past a balanced "[...]" run scanning
// leftward, the mirror of SkipRightBracketed used when left context
// crosses a branch closed to its left.
func (c Cursor) SkipLeftBracketed(in *names.Interner) Cursor {
	depth := 0
	cur := c
	for cur.Valid() {
		m := cur.Module()
		switch m.Name {
		case in.RBracket:
			depth++
		case in.LBracket:
			depth--
			if depth == 0 {
				return cur.Prev()
			}
		}
		cur = cur.Prev()
	}
	return cur
}
