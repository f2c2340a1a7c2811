package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"loupe/internal/ui"
)

var inspectCmd = &cobra.Command{
	Use:          "inspect <file>",
	Short:        "Walk a file interactively and query every cursor position",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !isTerminal(os.Stdout) {
			return fmt.Errorf("inspect needs an interactive terminal")
		}
		session, live, err := openSession(cmd, args[0])
		if err != nil {
			return err
		}
		model := ui.NewInspectModel(args[0], live, session)
		program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
		_, err = program.Run()
		return err
	},
}

func init() {
	addQueryFlags(inspectCmd)
}
