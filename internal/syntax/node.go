package syntax

import (
	"loupe/internal/source"
)

// NodeID addresses a node inside a Tree's arena (1-based, 0 = none).
type NodeID uint32

const NoNodeID NodeID = 0

func (id NodeID) IsValid() bool { return id != NoNodeID }

// Kind classifies a node for the purposes of point queries. Frontends map
// their own grammar onto this closed set.
type Kind uint8

const (
	// KindOther covers statements, blocks, punctuation-level nodes.
	KindOther Kind = iota
	// KindExpr is any expression node.
	KindExpr
	// KindSelect is a selector-chain expression: a target plus a selected
	// trailing member (a.b). SelSpan covers the selected part.
	KindSelect
	// KindDecl is a named definition (function, variable, type) — the unit
	// of minimal recompilation.
	KindDecl
)

func (k Kind) String() string {
	switch k {
	case KindOther:
		return "other"
	case KindExpr:
		return "expr"
	case KindSelect:
		return "select"
	case KindDecl:
		return "decl"
	}
	return "invalid"
}

// Node is one syntax tree node. Parent is a non-owning index into the same
// arena; children are recovered by span containment, never stored as owning
// references.
type Node struct {
	Span    source.Span
	Kind    Kind
	Parent  NodeID
	SelSpan source.Span // только для KindSelect: хвостовая часть цепочки
}

// IsExpr reports whether the node can carry a type or reference fact.
func (n *Node) IsExpr() bool {
	return n.Kind == KindExpr || n.Kind == KindSelect
}
