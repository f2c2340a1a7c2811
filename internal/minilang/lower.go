package minilang

import (
	"loupe/internal/syntax"
)

// lowerFile flattens the frontend AST into the arena tree point queries
// walk. Parents are always allocated before their children, so equal-width
// tie-breaks in NodeAt land on the deeper node.
func lowerFile(file *File) *syntax.Tree {
	tree := syntax.NewTree(uint(len(file.Items)*8 + 1))
	root := tree.Add(syntax.Node{Span: file.Span, Kind: syntax.KindOther})
	for _, item := range file.Items {
		lowerItem(tree, root, item)
	}
	return tree
}

func lowerItem(tree *syntax.Tree, parent syntax.NodeID, item Item) {
	switch it := item.(type) {
	case *FunDecl:
		id := tree.Add(syntax.Node{Span: it.Span, Kind: syntax.KindDecl, Parent: parent})
		tree.Add(syntax.Node{Span: it.Name.Span, Kind: syntax.KindOther, Parent: id})
		for i := range it.Params {
			pid := tree.Add(syntax.Node{Span: it.Params[i].Span, Kind: syntax.KindOther, Parent: id})
			tree.Add(syntax.Node{Span: it.Params[i].Name.Span, Kind: syntax.KindOther, Parent: pid})
		}
		if it.Body != nil {
			bid := tree.Add(syntax.Node{Span: it.Body.Span, Kind: syntax.KindOther, Parent: id})
			for _, stmt := range it.Body.Stmts {
				lowerStmt(tree, bid, stmt)
			}
		}
	case *RecordDecl:
		id := tree.Add(syntax.Node{Span: it.Span, Kind: syntax.KindDecl, Parent: parent})
		tree.Add(syntax.Node{Span: it.Name.Span, Kind: syntax.KindOther, Parent: id})
		for i := range it.Fields {
			tree.Add(syntax.Node{Span: it.Fields[i].Span, Kind: syntax.KindOther, Parent: id})
		}
	case *ValDecl:
		lowerVal(tree, parent, it)
	case *ExprStmt:
		lowerExpr(tree, parent, it.Expr)
	}
}

func lowerVal(tree *syntax.Tree, parent syntax.NodeID, decl *ValDecl) {
	id := tree.Add(syntax.Node{Span: decl.Span, Kind: syntax.KindDecl, Parent: parent})
	tree.Add(syntax.Node{Span: decl.Name.Span, Kind: syntax.KindOther, Parent: id})
	if decl.Init != nil {
		lowerExpr(tree, id, decl.Init)
	}
}

func lowerStmt(tree *syntax.Tree, parent syntax.NodeID, stmt Stmt) {
	switch st := stmt.(type) {
	case *ReturnStmt:
		id := tree.Add(syntax.Node{Span: st.Span, Kind: syntax.KindOther, Parent: parent})
		if st.Expr != nil {
			lowerExpr(tree, id, st.Expr)
		}
	case *ValDecl:
		lowerVal(tree, parent, st)
	case *ExprStmt:
		lowerExpr(tree, parent, st.Expr)
	}
}

func lowerExpr(tree *syntax.Tree, parent syntax.NodeID, expr Expr) syntax.NodeID {
	switch e := expr.(type) {
	case *IdentExpr, *IntLit, *StringLit, *BoolLit:
		return tree.Add(syntax.Node{Span: expr.ExprSpan(), Kind: syntax.KindExpr, Parent: parent})
	case *BinaryExpr:
		id := tree.Add(syntax.Node{Span: e.Span, Kind: syntax.KindExpr, Parent: parent})
		lowerExpr(tree, id, e.L)
		lowerExpr(tree, id, e.R)
		return id
	case *CallExpr:
		id := tree.Add(syntax.Node{Span: e.Span, Kind: syntax.KindExpr, Parent: parent})
		lowerExpr(tree, id, e.Callee)
		for _, arg := range e.Args {
			lowerExpr(tree, id, arg)
		}
		return id
	case *SelectorExpr:
		id := tree.Add(syntax.Node{
			Span:    e.Span,
			Kind:    syntax.KindSelect,
			Parent:  parent,
			SelSpan: e.Field.Span,
		})
		lowerExpr(tree, id, e.Target)
		tree.Add(syntax.Node{Span: e.Field.Span, Kind: syntax.KindExpr, Parent: id})
		return id
	case *ParenExpr:
		id := tree.Add(syntax.Node{Span: e.Span, Kind: syntax.KindExpr, Parent: parent})
		lowerExpr(tree, id, e.Inner)
		return id
	case *BadExpr:
		return tree.Add(syntax.Node{Span: e.Span, Kind: syntax.KindOther, Parent: parent})
	}
	return syntax.NoNodeID
}
