// Package engine provides Engine, the explicit per-run context that
// replaces the original program's process-global name table and PRNG
// (original_source used a single global Name interner and drand48/
// srand48 state shared by the whole process). Carrying these as an
// explicit struct instead of package-level state keeps multiple
// derivations reentrant in the same process, which matters for tests
// and for any future concurrent use (SPEC_FULL.md §5/§10.6).
package engine

import (
	"math/rand"
	"time"

	"github.com/lsysgo/lsys/internal/names"
)

// Engine bundles the name interner and random source a single run
// shares. Zero value is not usable; construct with New.
type Engine struct {
	Names *names.Interner
	rng   *rand.Rand
}

// New returns an Engine seeded from seed. A seed of 0 is a legitimate,
// reproducible seed (spec §11's --seed flag), not a "use default" marker.
func New(seed int64) *Engine {
	return &Engine{
		Names: names.NewInterner(),
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// Float64 returns the next uniform value in [0,1), the same distribution
// as the original's drand48().
func (e *Engine) Float64() float64 {
	return e.rng.Float64()
}

// Reseed replaces the engine's random source, implementing the
// expression language's srand(value) built-in.
func (e *Engine) Reseed(seed int64) {
	e.rng = rand.New(rand.NewSource(seed))
}

// TimeSeed returns a seed derived from the current time, implementing
// srand() with no argument (original_source used time(nullptr)).
func (e *Engine) TimeSeed() int64 {
	return time.Now().UnixNano()
}
