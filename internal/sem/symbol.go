// Package sem holds the semantic side of an analysis: resolved symbols,
// lexical scopes, and the per-node fact tables point queries read.
package sem

import (
	"loupe/internal/source"
)

// Type is the rendered form of an inferred type. Empty means "no type".
type Type string

const NoType Type = ""

// SymbolKind classifies a declaration.
type SymbolKind uint8

const (
	SymFunc SymbolKind = iota
	SymParam
	SymVar
	SymRecord
	SymField
)

func (k SymbolKind) String() string {
	switch k {
	case SymFunc:
		return "fun"
	case SymParam:
		return "param"
	case SymVar:
		return "val"
	case SymRecord:
		return "record"
	case SymField:
		return "field"
	}
	return "unknown"
}

// SymbolID addresses a symbol inside one Facts table (1-based, 0 = none).
type SymbolID uint32

const NoSymbolID SymbolID = 0

func (id SymbolID) IsValid() bool { return id != NoSymbolID }

// Symbol is a resolved declaration a reference can point to.
type Symbol struct {
	Name string
	Kind SymbolKind
	Span source.Span // declaration site, in the declaring file's coordinates
	Path string      // declaring file; empty means the analyzed file itself
	Type Type
}
