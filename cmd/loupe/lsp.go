package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"loupe/internal/analysis"
	"loupe/internal/lsp"
	"loupe/internal/project"
)

var lspCmd = &cobra.Command{
	Use:          "lsp",
	Short:        "Run the loupe language server over stdio",
	SilenceUsage: true,
	RunE:         runLSP,
}

func runLSP(cmd *cobra.Command, _ []string) error {
	var (
		debounce time.Duration
		trace    analysis.Tracef
	)
	if manifest, ok, err := project.Load("."); err == nil && ok {
		debounce = manifest.Config.Analysis.Debounce()
		if manifest.Config.Analysis.Trace {
			trace = func(format string, args ...any) {
				fmt.Fprintf(os.Stderr, "loupe: "+format+"\n", args...)
			}
		}
	}

	server := lsp.NewServer(os.Stdin, os.Stdout, lsp.ServerOptions{
		Factory:  lsp.DefaultSessionFactory(trace),
		Debounce: debounce,
		Trace:    trace,
	})
	if err := server.Run(cmd.Context()); err != nil {
		if errors.Is(err, lsp.ErrExit) {
			return nil
		}
		if errors.Is(err, lsp.ErrExitWithoutShutdown) {
			return fmt.Errorf("lsp exit without shutdown")
		}
		return err
	}
	return nil
}
