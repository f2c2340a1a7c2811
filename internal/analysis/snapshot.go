package analysis

import (
	"loupe/internal/sem"
	"loupe/internal/source"
	"loupe/internal/syntax"
)

// Frontend is the language side of the analysis core: a tolerant parser for
// one-off fragment reparses plus a checker for full files and extracted
// fragments. Implementations: minilang.Frontend, sitter adapters (parse only).
type Frontend interface {
	syntax.Parser
	sem.Checker

	// Check runs the full semantic pass over content. sources holds the
	// companion files of the analyzed file, never the file itself. An error
	// means an internal frontend fault, not incomplete input.
	Check(content []byte, sources *source.FileSet) (*sem.Facts, error)
}

// Snapshot is one immutable analysis result: the text at analysis time, its
// syntax tree, the semantic facts, and the companion files the checker saw.
// A snapshot is never mutated; edits are reconciled against it transiently
// until a new snapshot replaces it.
type Snapshot struct {
	Path    string
	Content []byte
	Tree    *syntax.Tree
	Facts   *sem.Facts
	Sources *source.FileSet
	LineIdx []uint32
}

// NewSnapshot runs a full parse and check over content.
func NewSnapshot(path string, content []byte, sources *source.FileSet, fe Frontend) (*Snapshot, error) {
	facts, err := fe.Check(content, sources)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Path:    path,
		Content: content,
		Tree:    fe.Parse(content),
		Facts:   facts,
		Sources: sources,
		LineIdx: source.BuildLineIndex(content),
	}, nil
}
