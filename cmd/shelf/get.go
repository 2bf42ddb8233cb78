package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/shelf/pkg/core"
)

var getCmd = &cobra.Command{
	Use:   "get <namespace> <id>",
	Short: "Print a record as JSON",
	Args:  cobra.ExactArgs(2),
	RunE:  runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	ns, id := args[0], args[1]
	return withStore(func(ctx context.Context, store *core.Store) error {
		rec, found, err := store.Get(ctx, ns, id)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("record %s not found in %s", id, ns)
		}
		return printJSON(stdout(cmd), rec)
	})
}
