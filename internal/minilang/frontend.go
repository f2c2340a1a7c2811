package minilang

import (
	"loupe/internal/diag"
	"loupe/internal/sem"
	"loupe/internal/source"
	"loupe/internal/syntax"
)

// Frontend is the builtin minilang language frontend. It parses `.mini`
// sources into the generic syntax tree and produces semantic facts for
// whole files and for re-checked fragments.
//
// Sources passed to Check hold companion files only, never the analyzed
// file itself; companion declarations are hoisted into file scope with
// their origin path attached.
type Frontend struct {
	reporter diag.Reporter
}

func NewFrontend(reporter diag.Reporter) *Frontend {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	return &Frontend{reporter: reporter}
}

// Parse lowers the minilang AST into the generic node tree. Parsing is
// tolerant: a tree always comes back, broken regions become plain nodes.
func (f *Frontend) Parse(content []byte) *syntax.Tree {
	file := parseFile(content, f.reporter)
	return lowerFile(file)
}

// Check runs the full semantic pass over one file.
func (f *Frontend) Check(content []byte, sources *source.FileSet) (*sem.Facts, error) {
	file := parseFile(content, f.reporter)
	return checkFile(file, content, sources, f.reporter), nil
}

// CheckFragment re-checks an extracted declaration against a stale scope.
func (f *Frontend) CheckFragment(frag sem.Fragment) (*sem.Facts, error) {
	return checkFragment(frag, f.reporter)
}

var (
	_ syntax.Parser = (*Frontend)(nil)
	_ sem.Checker   = (*Frontend)(nil)
)
