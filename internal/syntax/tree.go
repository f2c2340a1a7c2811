package syntax

import (
	"loupe/internal/source"
)

// Tree is an immutable syntax tree over one text snapshot. Nodes live in an
// arena addressed by NodeID; the root spans the whole text.
type Tree struct {
	nodes *Arena[Node]
	root  NodeID
}

// NewTree creates an empty tree with a capacity hint.
func NewTree(capHint uint) *Tree {
	return &Tree{nodes: NewArena[Node](capHint)}
}

// Add allocates a node and returns its ID. The first added node with no
// parent becomes the root.
func (t *Tree) Add(n Node) NodeID {
	id := NodeID(t.nodes.Allocate(n))
	if t.root == NoNodeID && n.Parent == NoNodeID {
		t.root = id
	}
	return id
}

func (t *Tree) Get(id NodeID) *Node {
	if t == nil {
		return nil
	}
	return t.nodes.Get(uint32(id))
}

func (t *Tree) Root() NodeID {
	return t.root
}

func (t *Tree) Len() uint32 {
	return t.nodes.Len()
}

// NodeAt returns the innermost node whose span contains the offset, or
// NoNodeID when the offset lies outside every node. Smallest width wins;
// on equal width the later (deeper) node wins, since children are always
// allocated after their parents.
func (t *Tree) NodeAt(offset uint32) NodeID {
	var (
		bestID    NodeID
		bestWidth uint32
	)
	for i := uint32(1); i <= t.nodes.Len(); i++ {
		id := NodeID(i)
		node := t.nodes.Get(i)
		if !node.Span.Contains(offset) {
			continue
		}
		width := node.Span.Len()
		if bestID == NoNodeID || width <= bestWidth {
			bestID = id
			bestWidth = width
		}
	}
	return bestID
}

// EnclosingDecl walks ancestors from id upward and returns the first
// declaration-kind ancestor whose span fully contains region. Falls back to
// the tree root (whole-file unit) when no declaration qualifies.
func (t *Tree) EnclosingDecl(id NodeID, region source.Span) NodeID {
	for cur := id; cur.IsValid(); {
		node := t.Get(cur)
		if node == nil {
			break
		}
		if node.Kind == KindDecl && node.Span.ContainsSpan(region) {
			return cur
		}
		cur = node.Parent
	}
	return t.root
}

// ExpandSelection widens an expression across chained accesses: while the
// immediate parent is a selector-chain expression and the cursor sits inside
// its selected (trailing) part, the parent replaces the node. A cursor on
// `c` in `a.b.c` thus lands on the whole chain, which is what "what is this
// expression" means to a user.
func (t *Tree) ExpandSelection(cursor uint32, id NodeID) NodeID {
	for id.IsValid() {
		node := t.Get(id)
		if node == nil {
			break
		}
		parent := t.Get(node.Parent)
		if parent == nil || parent.Kind != KindSelect {
			break
		}
		if !parent.SelSpan.Contains(cursor) {
			break
		}
		id = node.Parent
	}
	return id
}

// Ancestors returns the ancestor chain of id from the node itself outward,
// stopping before the first declaration-kind ancestor. The walk never
// crosses into a sibling declaration.
func (t *Tree) Ancestors(id NodeID) []NodeID {
	var out []NodeID
	for cur := id; cur.IsValid(); {
		node := t.Get(cur)
		if node == nil || node.Kind == KindDecl {
			break
		}
		out = append(out, cur)
		cur = node.Parent
	}
	return out
}
