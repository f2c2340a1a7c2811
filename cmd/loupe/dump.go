package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"loupe/internal/dump"
)

var dumpOutput string

var dumpCmd = &cobra.Command{
	Use:          "dump <file>",
	Short:        "Write the analysis snapshot of a file to a msgpack dump",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, _, err := openSession(cmd, args[0])
		if err != nil {
			return err
		}
		// Поднимаем live-буфер до базового снимка перед выгрузкой.
		if err := session.Reanalyze(cmd.Context()); err != nil {
			return err
		}
		snap, err := session.Snapshot(cmd.Context())
		if err != nil {
			return err
		}
		out := dumpOutput
		if out == "" {
			out = args[0] + ".loupedump"
		}
		if err := dump.WriteFile(out, dump.Build(snap)); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
		return nil
	},
}

func init() {
	addQueryFlags(dumpCmd)
	dumpCmd.Flags().StringVarP(&dumpOutput, "output", "o", "", "dump path (default <file>.loupedump)")
}
