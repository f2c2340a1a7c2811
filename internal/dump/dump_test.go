package dump

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"loupe/internal/analysis"
	"loupe/internal/minilang"
)

func buildSnapshot(t *testing.T) *analysis.Snapshot {
	t.Helper()
	src := "fun square(x: Int): Int {\n  return x * x\n}\n"
	snap, err := analysis.NewSnapshot("square.mini", []byte(src), nil, minilang.NewFrontend(nil))
	if err != nil {
		t.Fatal(err)
	}
	return snap
}

func TestRoundTrip(t *testing.T) {
	p := Build(buildSnapshot(t))
	if len(p.Nodes) == 0 || len(p.Symbols) == 0 || len(p.Scopes) == 0 {
		t.Fatalf("payload is hollow: %d nodes, %d symbols, %d scopes",
			len(p.Nodes), len(p.Symbols), len(p.Scopes))
	}

	var buf bytes.Buffer
	if err := Write(&buf, p); err != nil {
		t.Fatalf("Write: %v", err)
	}
	var got Payload
	if err := Read(&buf, &got); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Path != p.Path || len(got.Symbols) != len(p.Symbols) {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestReadRejectsWrongSchema(t *testing.T) {
	p := Build(buildSnapshot(t))
	p.Schema = 99
	var buf bytes.Buffer
	if err := Write(&buf, p); err != nil {
		t.Fatal(err)
	}
	var got Payload
	if err := Read(&buf, &got); err == nil {
		t.Fatal("expected schema error")
	}
}

func TestWriteFile(t *testing.T) {
	p := Build(buildSnapshot(t))
	path := filepath.Join(t.TempDir(), "out", "snap.mp")
	if err := WriteFile(path, p); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	// Перечитываем с диска.
	var got Payload
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := Read(f, &got); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Path != "square.mini" {
		t.Errorf("path = %q", got.Path)
	}
}
