package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/shelf"
)

var historyCmd = &cobra.Command{
	Use:   "history <namespace>",
	Short: "Show the change history of a namespace (git-versioned shelves)",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	entries, err := shelf.History(cfg.Location(rootDir), args[0], opts...)
	if err != nil {
		return err
	}
	out := stdout(cmd)
	if len(entries) == 0 {
		warnColor.Fprintf(out, "No history for %s\n", args[0])
		return nil
	}
	for _, e := range entries {
		fmt.Fprintln(out, e)
	}
	return nil
}
