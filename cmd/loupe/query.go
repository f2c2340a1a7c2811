package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"loupe/internal/analysis"
	"loupe/internal/sem"
)

func formatSymbol(sym *sem.Symbol) string {
	if sym == nil {
		return "?"
	}
	out := sym.Kind.String() + " " + sym.Name
	if sym.Type != sem.NoType && sym.Kind != sem.SymRecord {
		out += ": " + string(sym.Type)
	}
	return out
}

var (
	queryLabelColor = color.New(color.FgCyan, color.Bold)
	queryMissColor  = color.New(color.Faint)
)

func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().String("live", "", "path to the edited buffer contents (defaults to the file itself)")
}

func init() {
	addQueryFlags(typeCmd)
	addQueryFlags(defCmd)
	addQueryFlags(scopeCmd)
	addQueryFlags(describeCmd)
}

var typeCmd = &cobra.Command{
	Use:          "type <file> <offset|line:col>",
	Short:        "Report the type of the expression at a position",
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, live, err := openSession(cmd, args[0])
		if err != nil {
			return err
		}
		cursor, err := parseCursor(args[1], live)
		if err != nil {
			return err
		}

		ty, err := session.TypeAt(cmd.Context(), cursor)
		if analysis.IsNotFound(err) {
			queryMissColor.Fprintf(cmd.OutOrStdout(), "no type information (%v)\n", err)
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", queryLabelColor.Sprint("type:"), ty)
		return nil
	},
}

var defCmd = &cobra.Command{
	Use:          "def <file> <offset|line:col>",
	Short:        "Resolve the reference at a position to its declaration",
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, live, err := openSession(cmd, args[0])
		if err != nil {
			return err
		}
		cursor, err := parseCursor(args[1], live)
		if err != nil {
			return err
		}

		ref, err := session.ReferenceAt(cmd.Context(), cursor)
		if analysis.IsNotFound(err) {
			queryMissColor.Fprintf(cmd.OutOrStdout(), "no reference (%v)\n", err)
			return nil
		}
		if err != nil {
			return err
		}
		where := args[0]
		if ref.Symbol.Path != "" {
			where = ref.Symbol.Path
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", queryLabelColor.Sprint("declaration:"),
			formatSymbol(ref.Symbol), queryMissColor.Sprintf("(%s @ %s)", where, ref.Symbol.Span))
		return nil
	},
}

var scopeCmd = &cobra.Command{
	Use:          "scope <file> <offset|line:col>",
	Short:        "Show the innermost lexical scope containing a position",
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, live, err := openSession(cmd, args[0])
		if err != nil {
			return err
		}
		cursor, err := parseCursor(args[1], live)
		if err != nil {
			return err
		}

		scope, err := session.ScopeAt(cmd.Context(), cursor)
		if analysis.IsNotFound(err) {
			queryMissColor.Fprintf(cmd.OutOrStdout(), "no scope (%v)\n", err)
			return nil
		}
		if err != nil {
			return err
		}

		snap, err := session.Snapshot(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s\n", queryLabelColor.Sprint("scope chain (innermost first):"))
		for cur := scope; cur.IsValid(); {
			s := snap.Facts.Scope(cur)
			if s == nil {
				break
			}
			fmt.Fprintf(out, "  #%d %s\n", cur, s.Span)
			cur = s.Parent
		}
		return nil
	},
}

var describeCmd = &cobra.Command{
	Use:          "describe <file> <offset|line:col>",
	Short:        "Describe a position and its current line prefix",
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, live, err := openSession(cmd, args[0])
		if err != nil {
			return err
		}
		cursor, err := parseCursor(args[1], live)
		if err != nil {
			return err
		}

		where, err := session.DescribePosition(cmd.Context(), cursor)
		if err != nil {
			return err
		}
		prefix, err := session.LineBefore(cmd.Context(), cursor)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s\n", queryLabelColor.Sprint("position:"), where)
		fmt.Fprintf(out, "%s %q\n", queryLabelColor.Sprint("prefix:"), prefix)
		return nil
	},
}
