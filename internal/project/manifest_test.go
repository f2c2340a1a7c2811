package project

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeManifest(t *testing.T, dir, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "loupe.toml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadFromNestedDir(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[package]\nname = \"demo\"\n\n[analysis]\ndebounce_ms = 150\n")
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	m, ok, err := Load(nested)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok {
		t.Fatal("manifest not found from nested dir")
	}
	if m.Config.Package.Name != "demo" {
		t.Errorf("name = %q", m.Config.Package.Name)
	}
	if got := m.Config.Analysis.Debounce(); got != 150*time.Millisecond {
		t.Errorf("debounce = %v", got)
	}
	if m.Root != root {
		t.Errorf("root = %q, want %q", m.Root, root)
	}
}

func TestLoadMissingManifest(t *testing.T) {
	_, ok, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok {
		t.Fatal("found a manifest in an empty dir")
	}
}

func TestLoadRejectsMissingName(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[package]\n")
	if _, _, err := Load(dir); err == nil {
		t.Fatal("expected error for missing package name")
	}
}

func TestResolveEntry(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[package]\nname = \"demo\"\n\n[analysis]\nentry = \"main.mini\"\n")
	if err := os.WriteFile(filepath.Join(dir, "main.mini"), []byte("fun f() {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	m, _, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	path, ok, err := m.ResolveEntry()
	if err != nil {
		t.Fatalf("ResolveEntry: %v", err)
	}
	if !ok || path != filepath.Join(dir, "main.mini") {
		t.Errorf("entry = %q, ok=%v", path, ok)
	}
}

func TestResolveEntryMissingFile(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[package]\nname = \"demo\"\n\n[analysis]\nentry = \"gone.mini\"\n")
	m, _, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := m.ResolveEntry(); err == nil {
		t.Fatal("expected error for missing entry file")
	}
}
