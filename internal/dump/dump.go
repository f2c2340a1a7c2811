// Package dump serializes one analysis snapshot to a msgpack file for
// offline inspection. The export is a debugging artifact: nothing reads it
// back to answer queries, snapshots live only in memory.
package dump

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"loupe/internal/analysis"
	"loupe/internal/syntax"
)

// Schema version — increment when the payload format changes.
const schemaVersion uint16 = 1

// Payload is the serialized shape of a snapshot.
type Payload struct {
	Schema  uint16
	Path    string
	Content []byte

	Nodes   []NodeRecord
	Symbols []SymbolRecord
	Scopes  []ScopeRecord
	Types   []TypeRecord
	Refs    []RefRecord
}

type NodeRecord struct {
	Start, End uint32
	Kind       string
	Parent     uint32
}

type SymbolRecord struct {
	Name       string
	Kind       string
	Start, End uint32
	Path       string
	Type       string
}

type ScopeRecord struct {
	Start, End uint32
	Parent     uint32
	Member     bool
}

type TypeRecord struct {
	Start, End uint32
	Type       string
}

type RefRecord struct {
	Start, End uint32
	Target     uint32
}

// Build flattens a snapshot into the serializable payload.
func Build(snap *analysis.Snapshot) *Payload {
	p := &Payload{
		Schema:  schemaVersion,
		Path:    snap.Path,
		Content: snap.Content,
	}

	for i := uint32(1); i <= snap.Tree.Len(); i++ {
		node := snap.Tree.Get(syntax.NodeID(i))
		p.Nodes = append(p.Nodes, NodeRecord{
			Start:  node.Span.Start,
			End:    node.Span.End,
			Kind:   node.Kind.String(),
			Parent: uint32(node.Parent),
		})
	}

	for _, sym := range snap.Facts.Symbols() {
		p.Symbols = append(p.Symbols, SymbolRecord{
			Name:  sym.Name,
			Kind:  sym.Kind.String(),
			Start: sym.Span.Start,
			End:   sym.Span.End,
			Path:  sym.Path,
			Type:  string(sym.Type),
		})
	}

	for _, scope := range snap.Facts.Scopes() {
		p.Scopes = append(p.Scopes, ScopeRecord{
			Start:  scope.Span.Start,
			End:    scope.Span.End,
			Parent: uint32(scope.Parent),
			Member: scope.Member,
		})
	}

	for span, ty := range snap.Facts.Types() {
		p.Types = append(p.Types, TypeRecord{
			Start: span.Start,
			End:   span.End,
			Type:  string(ty),
		})
	}

	for span, target := range snap.Facts.Refs() {
		p.Refs = append(p.Refs, RefRecord{
			Start:  span.Start,
			End:    span.End,
			Target: uint32(target),
		})
	}
	return p
}

// Write encodes the payload to w.
func Write(w io.Writer, p *Payload) error {
	return msgpack.NewEncoder(w).Encode(p)
}

// Read decodes a payload and validates its schema.
func Read(r io.Reader, p *Payload) error {
	if err := msgpack.NewDecoder(r).Decode(p); err != nil {
		return err
	}
	if p.Schema != schemaVersion {
		return fmt.Errorf("dump: schema %d, expected %d", p.Schema, schemaVersion)
	}
	return nil
}

// WriteFile atomically writes the payload next to its final path.
func WriteFile(path string, p *Payload) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := Write(f, p); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), path)
}
