package sem

import (
	"loupe/internal/source"
)

// ScopeID addresses a scope inside one Facts table (1-based, 0 = none).
type ScopeID uint32

const NoScopeID ScopeID = 0

func (id ScopeID) IsValid() bool { return id != NoScopeID }

// Scope is a nested naming environment active over a range. Parent is a
// non-owning index into the same Facts table. Member scopes hold the fields
// of a record type; they resolve selector accesses only and never take part
// in lexical scope-at-point lookup.
type Scope struct {
	Span     source.Span
	Parent   ScopeID
	Member   bool
	bindings map[string]SymbolID
}

func (s *Scope) binding(name string) (SymbolID, bool) {
	id, ok := s.bindings[name]
	return id, ok
}
