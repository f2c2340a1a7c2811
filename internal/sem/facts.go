package sem

import (
	"loupe/internal/source"
)

// RefFact is one reference-target entry: the referencing node's span and the
// declaration it resolves to.
type RefFact struct {
	Span   source.Span
	Target SymbolID
}

// Facts holds the semantic results of one analysis pass: three independent
// tables keyed by node span (types, reference targets, lexical scopes) plus
// the symbol and scope arenas they point into. Facts are written during
// checking and read-only afterwards.
type Facts struct {
	symbols []Symbol
	scopes  []Scope
	types   map[source.Span]Type
	refs    map[source.Span]SymbolID
	members map[Type]ScopeID // member scope of a record type
}

func NewFacts() *Facts {
	return &Facts{
		types:   make(map[source.Span]Type),
		refs:    make(map[source.Span]SymbolID),
		members: make(map[Type]ScopeID),
	}
}

// AddSymbol stores a symbol and returns its ID.
func (f *Facts) AddSymbol(sym Symbol) SymbolID {
	f.symbols = append(f.symbols, sym)
	return SymbolID(len(f.symbols))
}

func (f *Facts) Symbol(id SymbolID) *Symbol {
	if !id.IsValid() || int(id) > len(f.symbols) {
		return nil
	}
	return &f.symbols[id-1]
}

// AddScope records a lexical scope and returns its ID.
func (f *Facts) AddScope(span source.Span, parent ScopeID) ScopeID {
	f.scopes = append(f.scopes, Scope{
		Span:     span,
		Parent:   parent,
		bindings: make(map[string]SymbolID),
	})
	return ScopeID(len(f.scopes))
}

// AddMemberScope records a record-member scope. It is invisible to ScopeAt.
func (f *Facts) AddMemberScope(span source.Span, parent ScopeID) ScopeID {
	f.scopes = append(f.scopes, Scope{
		Span:     span,
		Parent:   parent,
		Member:   true,
		bindings: make(map[string]SymbolID),
	})
	return ScopeID(len(f.scopes))
}

func (f *Facts) Scope(id ScopeID) *Scope {
	if !id.IsValid() || int(id) > len(f.scopes) {
		return nil
	}
	return &f.scopes[id-1]
}

// Bind introduces name into the scope.
func (f *Facts) Bind(scope ScopeID, name string, sym SymbolID) {
	s := f.Scope(scope)
	if s == nil || name == "" {
		return
	}
	s.bindings[name] = sym
}

// RecordType stores the inferred type of the node spanning span.
func (f *Facts) RecordType(span source.Span, ty Type) {
	if ty == NoType {
		return
	}
	f.types[span] = ty
}

// TypeOf returns the inferred type of the node spanning span.
func (f *Facts) TypeOf(span source.Span) (Type, bool) {
	ty, ok := f.types[span]
	return ty, ok
}

// RecordRef stores the resolved declaration of the reference spanning span.
func (f *Facts) RecordRef(span source.Span, target SymbolID) {
	if !target.IsValid() {
		return
	}
	f.refs[span] = target
}

// RefTarget returns the resolved declaration of the reference spanning span.
func (f *Facts) RefTarget(span source.Span) (SymbolID, bool) {
	id, ok := f.refs[span]
	return id, ok
}

// RefAt scans the reference table for entries whose span contains the offset
// and returns the one with the smallest span. Ties break toward the lower
// start so resolution stays deterministic.
func (f *Facts) RefAt(offset uint32) (RefFact, bool) {
	var (
		best  RefFact
		found bool
	)
	for span, target := range f.refs {
		if !span.Contains(offset) {
			continue
		}
		if !found || span.Len() < best.Span.Len() ||
			(span.Len() == best.Span.Len() && span.Start < best.Span.Start) {
			best = RefFact{Span: span, Target: target}
			found = true
		}
	}
	return best, found
}

// ScopeAt returns the innermost recorded scope containing the offset.
// Scopes containing a point are nested by construction, so the smallest
// range is the innermost one; equal lengths break toward the lower start.
func (f *Facts) ScopeAt(offset uint32) ScopeID {
	var (
		best     ScopeID
		bestSpan source.Span
	)
	for i := range f.scopes {
		if f.scopes[i].Member {
			continue
		}
		span := f.scopes[i].Span
		if !span.Contains(offset) {
			continue
		}
		if !best.IsValid() || span.Len() < bestSpan.Len() ||
			(span.Len() == bestSpan.Len() && span.Start < bestSpan.Start) {
			best = ScopeID(i + 1)
			bestSpan = span
		}
	}
	return best
}

// Lookup resolves name through the scope chain starting at scope.
func (f *Facts) Lookup(scope ScopeID, name string) (SymbolID, bool) {
	for cur := scope; cur.IsValid(); {
		s := f.Scope(cur)
		if s == nil {
			break
		}
		if id, ok := s.binding(name); ok {
			return id, true
		}
		cur = s.Parent
	}
	return NoSymbolID, false
}

// Binding resolves name in exactly this scope, without walking the chain.
// Member scopes are queried this way so a missing field never leaks into an
// enclosing lexical scope.
func (f *Facts) Binding(scope ScopeID, name string) (SymbolID, bool) {
	s := f.Scope(scope)
	if s == nil {
		return NoSymbolID, false
	}
	return s.binding(name)
}

// BindMembers associates a record type with the scope holding its fields.
func (f *Facts) BindMembers(ty Type, scope ScopeID) {
	if ty == NoType {
		return
	}
	f.members[ty] = scope
}

// Members returns the member scope of a record type.
func (f *Facts) Members(ty Type) (ScopeID, bool) {
	id, ok := f.members[ty]
	return id, ok
}

// Types exposes the type table for serialization; treat as read-only.
func (f *Facts) Types() map[source.Span]Type {
	return f.types
}

// Refs exposes the reference table for serialization; treat as read-only.
func (f *Facts) Refs() map[source.Span]SymbolID {
	return f.refs
}

// Scopes exposes the recorded scopes for serialization; treat as read-only.
func (f *Facts) Scopes() []Scope {
	return f.scopes
}

// Symbols exposes the symbol arena for serialization; treat as read-only.
func (f *Facts) Symbols() []Symbol {
	return f.symbols
}
