// Package productions implements Production, the context-sensitive
// parametric rewriting rule applied once per generation to every module
// in a string. Grounded line-for-line on
// original_source/Production.cpp's matches() (bracket-depth skipping,
// the asymmetric left/right context scan, condition evaluation) and
// produce() (cumulative stochastic successor selection, instantiation).
package productions

import (
	"github.com/lsysgo/lsys/internal/ast"
	"github.com/lsysgo/lsys/internal/modules"
	"github.com/lsysgo/lsys/internal/names"
	"github.com/lsysgo/lsys/internal/symbols"
	"github.com/lsysgo/lsys/internal/values"
)

// Predecessor is the left-hand side of a production: a required center
// module plus optional left/right context module lists (spec §4.4).
// Either context list being nil means that side is context-free.
type Predecessor struct {
	Left   modules.List // nil: no left context required
	Center modules.Module
	Right  modules.List // nil: no right context required
}

// ContextFree reports whether this predecessor ignores its surroundings
// entirely, matching the original's cfree flag.
func (p Predecessor) ContextFree() bool {
	return len(p.Left) == 0 && len(p.Right) == 0
}

// Successor is one weighted alternative on the right-hand side of a
// stochastic production; a deterministic production has exactly one
// Successor with Probability 1.
type Successor struct {
	Probability float64
	Modules     modules.List
}

// Production is one rewriting rule: match Predecessor (optionally
// gated by Condition), then instantiate one of Successors chosen by
// cumulative probability.
type Production struct {
	Name      names.ID
	Predecessor Predecessor
	Condition *ast.Expression // nil: unconditional
	Successors []Successor
}

// Matches reports whether the module at cursor satisfies p's predecessor
// and condition, binding every matched formal parameter (center and any
// context) into st as a side effect — callers must discard st's
// bindings on a failed match, since partial binding can occur before
// failure is detected (mirroring the original's same behavior).
func (p Production) Matches(cursor modules.Cursor, st *symbols.Table[values.Value], in *names.Interner, env ast.Env) bool {
	m := cursor.Module()

	if !p.Predecessor.Center.Conforms(m) {
		return false
	}
	p.Predecessor.Center.Bind(m, st, env)

	if p.Predecessor.Left != nil {
		if !matchLeftContext(p.Predecessor.Left, cursor, st, in, env) {
			return false
		}
	}

	if p.Predecessor.Right != nil {
		if !matchRightContext(p.Predecessor.Right, cursor, st, in, env) {
			return false
		}
	}

	if p.Condition == nil {
		return true
	}
	v := p.Condition.Evaluate(env)
	i, ok := v.Int()
	return ok && i != 0
}

// matchLeftContext scans formal modules right-to-left against value
// modules to the left of cursor, skipping ignored modules and entire
// bracketed substrings at depth 0 (so "A < B" matches "A[anything]B").
func matchLeftContext(formals modules.List, cursor modules.Cursor, st *symbols.Table[values.Value], in *names.Interner, env ast.Env) bool {
	value := cursor.Prev()
	for i := len(formals) - 1; i >= 0; i-- {
		formal := formals[i]

		for value.Valid() {
			v := value.Module()
			switch {
			case v.Ignore:
				value = value.Prev()
				continue
			case v.Name == in.RBracket:
				value = value.SkipLeftBracketed(in)
				continue
			case v.Name == in.LBracket:
				value = value.Prev()
				continue
			}
			break
		}

		if !value.Valid() {
			return false
		}
		vm := value.Module()
		if !formal.Conforms(vm) {
			return false
		}
		formal.Bind(vm, st, env)
		value = value.Prev()
	}
	return true
}

// matchRightContext scans formal modules left-to-right against value
// modules to the right of cursor. Bracket tokens in the formal pattern
// are themselves matched literally (spec §4.4): a formal "[" requires
// finding an actual "[" (skipping only ignored modules), a formal "]"
// requires finding the matching "]" at the current depth, and a formal
// ordinary module must skip whole bracketed substrings — except that
// stepping outside the current branch via an unmatched "]" fails the
// match (e.g. "B > C" must not match "A[B]C").
func matchRightContext(formals modules.List, cursor modules.Cursor, st *symbols.Table[values.Value], in *names.Interner, env ast.Env) bool {
	value := cursor.Next()
	for _, formal := range formals {
		var ok bool
		switch formal.Name {
		case in.LBracket:
			// Must find a literal "[", skipping only ignored modules.
			for value.Valid() && value.Module().Ignore {
				value = value.Next()
			}
			ok = value.Valid()

		case in.RBracket:
			// Must find the "]" matching the current depth.
			value, ok = skipToMatchingRBracket(value, in)

		default:
			// Skip ignored modules and whole bracketed substrings;
			// stepping past an unmatched "]" means the candidate is
			// not along the same root-to-branch path, a hard failure
			// (e.g. "B > C" must not match "A[B]C").
			var failed bool
			value, ok, failed = skipToOrdinaryCandidate(value, in)
			if failed {
				return false
			}
		}

		if !ok || !value.Valid() {
			return false
		}
		vm := value.Module()
		if !formal.Conforms(vm) {
			return false
		}
		formal.Bind(vm, st, env)
		value = value.Next()
	}
	return true
}

// skipToMatchingRBracket advances past modules until the "]" that
// closes the bracket depth cursor started at, returning the cursor
// positioned ON that "]" (matchRightContext's formal.Conforms check
// needs to test the "]" formal against the actual "]" module itself;
// the caller's own value.Next() afterward advances past it).
func skipToMatchingRBracket(value modules.Cursor, in *names.Interner) (modules.Cursor, bool) {
	brackets := 0
	for value.Valid() {
		v := value.Module()
		if v.Name == in.RBracket {
			if brackets == 0 {
				return value, true
			}
			brackets--
		} else if v.Name == in.LBracket {
			brackets++
		}
		value = value.Next()
	}
	return value, false
}

// skipToOrdinaryCandidate advances past ignored modules and whole
// bracketed substrings to find the next module an ordinary (non-bracket)
// formal could match. failed reports the "B > C vs A[B]C" hard-failure
// case: stepping outside the branch containing the match cursor.
func skipToOrdinaryCandidate(value modules.Cursor, in *names.Interner) (cursor modules.Cursor, ok bool, failed bool) {
	for value.Valid() {
		v := value.Module()
		switch {
		case v.Ignore:
			value = value.Next()
			continue
		case v.Name == in.LBracket:
			value = value.SkipRightBracketed(in)
			continue
		case v.Name == in.RBracket:
			return value, false, true
		}
		return value, true, false
	}
	return value, false, false
}

// Produce applies p (already Matches-confirmed and bound into st) and
// returns the instantiated successor module list, choosing among
// stochastic alternatives by cumulative probability against a single
// draw from env.Engine's PRNG. If the cumulative probabilities never
// reach the drawn value (a malformed production whose weights sum to
// less than 1), Produce reports via env.Diag and returns an empty list
// rather than panicking (spec §4.5).
func (p Production) Produce(st *symbols.Table[values.Value], env ast.Env) modules.List {
	if len(p.Successors) == 0 {
		if env.Diag != nil {
			env.Diag.Warnf("production %q has no successors", env.Engine.Names.Lookup(p.Name))
		}
		return modules.List{}
	}

	draw := env.Engine.Float64()
	cumulative := 0.0
	var chosen modules.List
	found := false
	for _, succ := range p.Successors {
		cumulative += succ.Probability
		if draw <= cumulative {
			chosen = succ.Modules
			found = true
			break
		}
	}
	if !found {
		if env.Diag != nil {
			env.Diag.Warnf("production %q: stochastic weights do not sum to 1; no successor chosen", env.Engine.Names.Lookup(p.Name))
		}
		return modules.List{}
	}

	result := make(modules.List, 0, len(chosen))
	for _, m := range chosen {
		result = append(result, m.Instantiate(env))
	}
	return result
}
