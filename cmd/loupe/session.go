package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"loupe/internal/analysis"
	"loupe/internal/lsp"
	"loupe/internal/project"
	"loupe/internal/source"
)

// openSession builds an analysis session for path: snapshot from the file on
// disk, live overlay from --live when given. The loupe.toml next to the file
// (or any parent) contributes trace settings.
func openSession(cmd *cobra.Command, path string) (*analysis.Session, []byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	trace := traceSink(cmd, path)
	factory := lsp.DefaultSessionFactory(trace)
	session, err := factory(path, content)
	if err != nil {
		return nil, nil, err
	}

	live := content
	if livePath, _ := cmd.Flags().GetString("live"); livePath != "" {
		live, err = os.ReadFile(livePath)
		if err != nil {
			return nil, nil, fmt.Errorf("reading live buffer: %w", err)
		}
		if err := session.Update(cmd.Context(), live); err != nil {
			return nil, nil, err
		}
	}
	return session, live, nil
}

func traceSink(cmd *cobra.Command, path string) analysis.Tracef {
	enabled, _ := cmd.Root().PersistentFlags().GetBool("trace")
	if !enabled {
		if manifest, ok, err := project.Load(filepath.Dir(path)); err == nil && ok {
			enabled = manifest.Config.Analysis.Trace
		}
	}
	if !enabled {
		return nil
	}
	return func(format string, args ...any) {
		fmt.Fprintf(os.Stderr, "loupe: "+format+"\n", args...)
	}
}

// parseCursor accepts a byte offset or a 1-based "line:col" pair.
func parseCursor(arg string, content []byte) (uint32, error) {
	if line, col, ok := strings.Cut(arg, ":"); ok {
		l, err := strconv.Atoi(line)
		if err != nil || l < 1 {
			return 0, fmt.Errorf("invalid line in %q", arg)
		}
		c, err := strconv.Atoi(col)
		if err != nil || c < 1 {
			return 0, fmt.Errorf("invalid column in %q", arg)
		}
		lineIdx := source.BuildLineIndex(content)
		return source.OffsetFor(content, lineIdx, source.Position{Line: l - 1, Character: c - 1}), nil
	}
	off, err := strconv.Atoi(arg)
	if err != nil || off < 0 {
		return 0, fmt.Errorf("invalid offset %q", arg)
	}
	return uint32(off), nil
}
