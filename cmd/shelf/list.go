package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/shelf/pkg/core"
)

var (
	listJSON    bool
	listPattern string
)

var listCmd = &cobra.Command{
	Use:   "list [namespace]",
	Short: "List records of a namespace, or the namespaces themselves",
	Long: `Without arguments, list the namespaces on the shelf (optionally filtered by
--pattern, a glob such as "cache_*"). With a namespace, list its records.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&listPattern, "pattern", "", "Glob filter for namespaces")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	out := stdout(cmd)
	return withStore(func(ctx context.Context, store *core.Store) error {
		if len(args) == 0 {
			names, err := store.Namespaces(ctx, listPattern)
			if err != nil {
				return err
			}
			if listJSON {
				return printJSON(out, names)
			}
			for _, ns := range names {
				fmt.Fprintln(out, ns)
			}
			return nil
		}

		records, err := store.List(ctx, args[0])
		if err != nil {
			return err
		}
		if listJSON {
			return printJSON(out, records)
		}
		for _, rec := range records {
			fmt.Fprintf(out, "%s  %s\n", infoColor.Sprint(rec.ID()), summary(rec))
		}
		return nil
	})
}
