// Package rewrite implements one generation of parallel L-system
// derivation: scan the current module string left to right, and for
// each module either apply the first matching production or copy it
// through unchanged (spec §4.6). Grounded on the
// Production::matches/produce call site implied by the original's
// top-level derivation driver (original_source/src/interpret.h,
// generate loop) — the original performs the equivalent scan inline in
// its main loop; lsys factors it into its own package since SPEC_FULL.md
// treats rewriting as a standalone, independently testable component.
package rewrite

import (
	"github.com/lsysgo/lsys/internal/ast"
	"github.com/lsysgo/lsys/internal/modules"
	"github.com/lsysgo/lsys/internal/names"
	"github.com/lsysgo/lsys/internal/productions"
	"github.com/lsysgo/lsys/internal/symbols"
	"github.com/lsysgo/lsys/internal/values"
)

// Rules is an ordered set of productions; the first production whose
// predecessor and condition match a module wins (spec §4.5).
type Rules []productions.Production

// Generation rewrites a single module string into its successor,
// applying at most one production per input module. globals supplies
// the model-wide bound values (e.g. delta, maxgen) visible while
// matching conditions and binding context; a fresh child scope is
// pushed per module so bindings from one module's match never leak
// into the next.
func Generation(current modules.List, rules Rules, globals *symbols.Table[values.Value], in *names.Interner, baseEnv ast.Env) modules.List {
	next := make(modules.List, 0, len(current))

	for i := range current {
		cursor := modules.NewCursor(&current, i)
		m := current[i]

		produced, matched := tryRules(cursor, rules, globals, in, baseEnv)
		if !matched {
			next = append(next, m)
			continue
		}
		next = append(next, produced...)
	}

	return next
}

// tryRules scans rules in order, trying each production's match inside
// its own scope. A failed production's partial bindings are discarded
// (Pop); the first production to match keeps its scope through
// Produce, so any rand() draw made while matching the condition is not
// repeated.
func tryRules(cursor modules.Cursor, rules Rules, globals *symbols.Table[values.Value], in *names.Interner, baseEnv ast.Env) (modules.List, bool) {
	for _, prod := range rules {
		globals.Push()
		env := baseEnv
		env.Symbols = globals
		if prod.Matches(cursor, globals, in, env) {
			result := prod.Produce(globals, env)
			globals.Pop()
			return result, true
		}
		globals.Pop()
	}
	return nil, false
}
