// Package sitter adapts tree-sitter grammars as syntax-only frontends.
// Structural point queries (node location, selection expansion, enclosing
// declarations) work for any supported language; semantic facts are limited
// to a single whole-file scope, so type and reference queries report no
// information rather than failing.
package sitter

import (
	"context"
	"fmt"

	tsitter "github.com/smacker/go-tree-sitter"

	"loupe/internal/sem"
	"loupe/internal/source"
	"loupe/internal/syntax"
)

// Provider is a tree-sitter backed frontend for one language.
type Provider struct {
	lang    string
	profile *profile
}

// ForLanguage returns the provider for a canonical language name.
func ForLanguage(lang string) (*Provider, error) {
	p, ok := profileFor(lang)
	if !ok {
		return nil, fmt.Errorf("sitter: unsupported language %q", lang)
	}
	return &Provider{lang: lang, profile: p}, nil
}

// ForPath picks a provider from the file extension.
func ForPath(path string) (*Provider, error) {
	lang, ok := LanguageForPath(path)
	if !ok {
		return nil, fmt.Errorf("sitter: no grammar for %q", path)
	}
	return ForLanguage(lang)
}

func (p *Provider) Language() string { return p.lang }

// Parse builds a generic node tree from the tree-sitter parse. Parsing is
// tolerant: tree-sitter emits error nodes for malformed input, and a parser
// fault degrades to a single whole-file node rather than failing.
func (p *Provider) Parse(content []byte) *syntax.Tree {
	tree := syntax.NewTree(64)
	root := tree.Add(syntax.Node{
		Span: source.Span{Start: 0, End: uint32(len(content))},
		Kind: syntax.KindOther,
	})

	parser := tsitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(p.profile.language)

	parsed, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil || parsed == nil {
		return tree
	}
	defer parsed.Close()

	p.lower(tree, parsed.RootNode(), root)
	return tree
}

func (p *Provider) lower(tree *syntax.Tree, node *tsitter.Node, parent syntax.NodeID) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		n := syntax.Node{
			Span: source.Span{
				Start: child.StartByte(),
				End:   child.EndByte(),
			},
			Kind:   p.classify(child),
			Parent: parent,
		}
		if field, ok := p.profile.selects[child.Type()]; ok {
			if sel := child.ChildByFieldName(field); sel != nil {
				n.SelSpan = source.Span{Start: sel.StartByte(), End: sel.EndByte()}
			}
		}
		id := tree.Add(n)
		p.lower(tree, child, id)
	}
}

func (p *Provider) classify(node *tsitter.Node) syntax.Kind {
	typ := node.Type()
	switch {
	case p.profile.decls[typ]:
		return syntax.KindDecl
	case p.profile.selects[typ] != "":
		return syntax.KindSelect
	case node.IsNamed() && !node.IsError():
		if isExprType(typ) {
			return syntax.KindExpr
		}
		return syntax.KindOther
	default:
		return syntax.KindOther
	}
}

// isExprType is a grammar-agnostic heuristic: tree-sitter grammars name
// expression nodes with these suffixes across the supported languages.
func isExprType(typ string) bool {
	switch typ {
	case "identifier", "field_identifier", "property_identifier",
		"call_expression", "call", "binary_expression", "binary_operator",
		"unary_expression", "parenthesized_expression", "index_expression",
		"subscript_expression", "method_invocation":
		return true
	}
	return false
}

// Check records a single whole-file scope and nothing else. Syntax-only
// providers never resolve names.
func (p *Provider) Check(content []byte, _ *source.FileSet) (*sem.Facts, error) {
	facts := sem.NewFacts()
	facts.AddScope(source.Span{Start: 0, End: uint32(len(content))}, sem.NoScopeID)
	return facts, nil
}

// CheckFragment mirrors Check for fragment reparses: structurally valid,
// semantically empty.
func (p *Provider) CheckFragment(frag sem.Fragment) (*sem.Facts, error) {
	facts := sem.NewFacts()
	facts.AddScope(source.Span{Start: 0, End: uint32(len(frag.Content))}, sem.NoScopeID)
	return facts, nil
}
