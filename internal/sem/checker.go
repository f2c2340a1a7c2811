package sem

import (
	"loupe/internal/source"
	"loupe/internal/syntax"
)

// Fragment is one isolated recompilation request: a freshly parsed piece of
// the live text, checked in the context of a stale scope and the companion
// files of the original analysis.
type Fragment struct {
	Tree    *syntax.Tree
	Content []byte // padded fragment text; node spans are absolute offsets
	Scope   ScopeID
	Base    *Facts // stale analysis supplying the scope chain and members
	Sources *source.FileSet
}

// Checker type-checks a parsed fragment and returns fresh facts for its
// nodes. Unresolved names are not an error — they simply record no facts.
// A returned error indicates an internal checker fault, never incomplete
// input; callers must propagate it rather than treat it as "no result".
// Implementations are not assumed safe for concurrent calls on the same
// underlying session.
type Checker interface {
	CheckFragment(frag Fragment) (*Facts, error)
}
