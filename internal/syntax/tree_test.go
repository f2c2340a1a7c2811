package syntax

import (
	"testing"

	"loupe/internal/source"
)

// buildChainTree models the text "a.b.c": a=[0,1), a.b=[0,3) selecting
// b=[2,3), a.b.c=[0,5) selecting c=[4,5).
func buildChainTree(t *testing.T) (*Tree, map[string]NodeID) {
	t.Helper()
	tree := NewTree(8)
	ids := map[string]NodeID{}
	ids["root"] = tree.Add(Node{Span: source.Span{Start: 0, End: 5}, Kind: KindOther})
	ids["abc"] = tree.Add(Node{
		Span:    source.Span{Start: 0, End: 5},
		Kind:    KindSelect,
		Parent:  ids["root"],
		SelSpan: source.Span{Start: 4, End: 5},
	})
	ids["ab"] = tree.Add(Node{
		Span:    source.Span{Start: 0, End: 3},
		Kind:    KindSelect,
		Parent:  ids["abc"],
		SelSpan: source.Span{Start: 2, End: 3},
	})
	ids["a"] = tree.Add(Node{Span: source.Span{Start: 0, End: 1}, Kind: KindExpr, Parent: ids["ab"]})
	ids["b"] = tree.Add(Node{Span: source.Span{Start: 2, End: 3}, Kind: KindExpr, Parent: ids["ab"]})
	ids["c"] = tree.Add(Node{Span: source.Span{Start: 4, End: 5}, Kind: KindExpr, Parent: ids["abc"]})
	return tree, ids
}

func TestNodeAtInnermost(t *testing.T) {
	tree, ids := buildChainTree(t)

	if got := tree.NodeAt(0); got != ids["a"] {
		t.Errorf("NodeAt(0) = %d, want a=%d", got, ids["a"])
	}
	if got := tree.NodeAt(4); got != ids["c"] {
		t.Errorf("NodeAt(4) = %d, want c=%d", got, ids["c"])
	}
	// The dot at offset 1 belongs only to the chains.
	if got := tree.NodeAt(1); got != ids["ab"] {
		t.Errorf("NodeAt(1) = %d, want ab=%d", got, ids["ab"])
	}
	if got := tree.NodeAt(99); got != NoNodeID {
		t.Errorf("NodeAt(99) = %d, want none", got)
	}
}

func TestExpandSelection(t *testing.T) {
	tree, ids := buildChainTree(t)

	// Cursor at 4 sits inside the trailing `c`: expand to the full chain.
	got := tree.ExpandSelection(4, ids["c"])
	if got != ids["abc"] {
		t.Errorf("expand(4, c) = %d, want abc=%d", got, ids["abc"])
	}
	span := tree.Get(got).Span
	if span != (source.Span{Start: 0, End: 5}) {
		t.Errorf("expanded span = %v, want [0,5)", span)
	}

	// Cursor at 2 sits inside `b`: expand stops at a.b, not a.b.c, because
	// 2 is outside the outer chain's selected part [4,5).
	got = tree.ExpandSelection(2, ids["b"])
	if got != ids["ab"] {
		t.Errorf("expand(2, b) = %d, want ab=%d", got, ids["ab"])
	}

	// Cursor on the target `a` never expands.
	got = tree.ExpandSelection(0, ids["a"])
	if got != ids["a"] {
		t.Errorf("expand(0, a) = %d, want a=%d", got, ids["a"])
	}
}

func TestEnclosingDecl(t *testing.T) {
	tree := NewTree(8)
	root := tree.Add(Node{Span: source.Span{Start: 0, End: 100}, Kind: KindOther})
	fn := tree.Add(Node{Span: source.Span{Start: 10, End: 60}, Kind: KindDecl, Parent: root})
	body := tree.Add(Node{Span: source.Span{Start: 30, End: 58}, Kind: KindOther, Parent: fn})
	expr := tree.Add(Node{Span: source.Span{Start: 40, End: 45}, Kind: KindExpr, Parent: body})

	// Region inside the function: the function is the recompilation unit.
	got := tree.EnclosingDecl(expr, source.Span{Start: 41, End: 43})
	if got != fn {
		t.Errorf("EnclosingDecl = %d, want fn=%d", got, fn)
	}

	// Region reaching outside the function: whole-file fallback.
	got = tree.EnclosingDecl(expr, source.Span{Start: 41, End: 70})
	if got != root {
		t.Errorf("EnclosingDecl = %d, want root=%d", got, root)
	}
}

func TestAncestorsStopBeforeDecl(t *testing.T) {
	tree := NewTree(8)
	root := tree.Add(Node{Span: source.Span{Start: 0, End: 100}, Kind: KindOther})
	fn := tree.Add(Node{Span: source.Span{Start: 0, End: 50}, Kind: KindDecl, Parent: root})
	stmt := tree.Add(Node{Span: source.Span{Start: 10, End: 40}, Kind: KindOther, Parent: fn})
	mul := tree.Add(Node{Span: source.Span{Start: 20, End: 30}, Kind: KindExpr, Parent: stmt})
	x := tree.Add(Node{Span: source.Span{Start: 20, End: 21}, Kind: KindExpr, Parent: mul})

	chain := tree.Ancestors(x)
	want := []NodeID{x, mul, stmt}
	if len(chain) != len(want) {
		t.Fatalf("chain = %v, want %v", chain, want)
	}
	for i := range want {
		if chain[i] != want[i] {
			t.Fatalf("chain[%d] = %d, want %d", i, chain[i], want[i])
		}
	}
}
