// Package project reads loupe.toml, the per-project manifest naming the
// analysis entry point and tuning the server.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Manifest is a located and parsed loupe.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

type Config struct {
	Package  PackageConfig  `toml:"package"`
	Analysis AnalysisConfig `toml:"analysis"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

type AnalysisConfig struct {
	Entry      string `toml:"entry"`
	DebounceMs int    `toml:"debounce_ms"`
	Trace      bool   `toml:"trace"`
}

// Debounce converts the configured delay, falling back to the server default
// when unset.
func (c AnalysisConfig) Debounce() time.Duration {
	if c.DebounceMs <= 0 {
		return 0
	}
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// Find walks from startDir upward looking for loupe.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "loupe.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load finds and parses the manifest governing startDir. The second return
// is false when no manifest exists, which is not an error.
func Load(startDir string) (*Manifest, bool, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, true, nil
}

func loadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return Config{}, fmt.Errorf("%s: missing [package]", path)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, fmt.Errorf("%s: missing [package].name", path)
	}
	return cfg, nil
}

// ResolveEntry returns the absolute path of the configured analysis entry
// file, when one is set.
func (m *Manifest) ResolveEntry() (string, bool, error) {
	entry := strings.TrimSpace(m.Config.Analysis.Entry)
	if entry == "" {
		return "", false, nil
	}
	path := filepath.Join(m.Root, filepath.FromSlash(entry))
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("%s: [analysis].entry path does not exist: %s", m.Path, path)
		}
		return "", false, fmt.Errorf("%s: failed to stat [analysis].entry: %w", m.Path, err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("%s: [analysis].entry must be a file", m.Path)
	}
	return path, true, nil
}
