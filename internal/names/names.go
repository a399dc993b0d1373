// Package names implements the bidirectional symbol interner used for
// module names and expression variable names throughout lsys.
//
// Every Interner is its own instance rather than a package-level
// singleton (see DESIGN.md, "Engine context"): this keeps multiple
// derivations reentrant in the same process, e.g. in tests.
package names

// ID identifies an interned name. IDs are dense, start at 0, and are
// never reused: once assigned, an ID's string is immutable and reverse
// lookup is O(1).
type ID int32

// Sentinel names always present in a freshly constructed Interner,
// used as context markers by the production matcher (spec §3).
const (
	LeftBracketName  = "["
	RightBracketName = "]"
)

// Interner is a grow-only string<->ID mapping.
type Interner struct {
	ids     map[string]ID
	strs    []string
	LBracket ID
	RBracket ID
}

// NewInterner returns an Interner pre-seeded with the bracket sentinels.
func NewInterner() *Interner {
	in := &Interner{
		ids:  make(map[string]ID, 64),
		strs: make([]string, 0, 64),
	}
	in.LBracket = in.Intern(LeftBracketName)
	in.RBracket = in.Intern(RightBracketName)
	return in
}

// Intern returns the existing ID for s, or allocates and returns the
// next sequential ID if s has not been seen before.
func (in *Interner) Intern(s string) ID {
	if id, ok := in.ids[s]; ok {
		return id
	}
	id := ID(len(in.strs))
	in.strs = append(in.strs, s)
	in.ids[s] = id
	return id
}

// Lookup returns the string for id. id must have been returned by
// Intern on this same Interner; behavior for any other id is undefined
// (it will panic on out-of-range access, by design — a foreign ID is a
// programming error, not a runtime condition to recover from).
func (in *Interner) Lookup(id ID) string {
	return in.strs[id]
}

// TryIntern reports the ID for s without allocating a new one, and
// whether s had already been interned.
func (in *Interner) TryIntern(s string) (ID, bool) {
	id, ok := in.ids[s]
	return id, ok
}

// Len returns the number of distinct interned names.
func (in *Interner) Len() int {
	return len(in.strs)
}
