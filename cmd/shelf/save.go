package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/shelf/pkg/core"
)

var saveFile string

var saveCmd = &cobra.Command{
	Use:   "save <namespace> [json|-]",
	Short: "Insert or replace a record",
	Long: `Save a JSON object into a namespace. A record without "id" gets a fresh id;
a record whose id exists replaces the stored one in place.

The object is read from the argument, from --file, or from stdin when the
argument is "-" or omitted.`,
	Example: `  shelf save teams '{"name":"Furia"}'
  echo '{"id":"1","title":"Buy milk"}' | shelf save tasks -`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSave,
}

func init() {
	saveCmd.Flags().StringVarP(&saveFile, "file", "f", "", "Read the record from a file")
	addReasonFlags(saveCmd)
	rootCmd.AddCommand(saveCmd)
}

func runSave(cmd *cobra.Command, args []string) error {
	ns := args[0]
	arg := ""
	if len(args) == 2 {
		arg = args[1]
	}
	rec, err := readRecord(cmd, arg, saveFile)
	if err != nil {
		return err
	}

	return withStore(func(ctx context.Context, store *core.Store) error {
		subject := "save record"
		if id := rec.ID(); id != "" {
			subject = "save " + id
		}
		saved, err := store.Save(reasonContext(ctx, ns, subject), ns, rec)
		if err != nil {
			return err
		}
		okColor.Fprintf(stdout(cmd), "Saved %s/%s\n", ns, saved.ID())
		return nil
	})
}

var updateCmd = &cobra.Command{
	Use:   "update <namespace> <id> [json|-]",
	Short: "Merge fields into an existing record",
	Args:  cobra.RangeArgs(2, 3),
	RunE:  runUpdate,
}

var updateFile string

func init() {
	updateCmd.Flags().StringVarP(&updateFile, "file", "f", "", "Read the patch from a file")
	addReasonFlags(updateCmd)
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ns, id := args[0], args[1]
	arg := ""
	if len(args) == 3 {
		arg = args[2]
	}
	patch, err := readRecord(cmd, arg, updateFile)
	if err != nil {
		return err
	}

	return withStore(func(ctx context.Context, store *core.Store) error {
		_, found, err := store.Update(reasonContext(ctx, ns, "update "+id), ns, id, patch)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("record %s not found in %s", id, ns)
		}
		okColor.Fprintf(stdout(cmd), "Updated %s/%s\n", ns, id)
		return nil
	})
}

var deleteCmd = &cobra.Command{
	Use:     "delete <namespace> <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a record",
	Args:    cobra.ExactArgs(2),
	RunE:    runDelete,
}

func init() {
	addReasonFlags(deleteCmd)
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	ns, id := args[0], args[1]
	return withStore(func(ctx context.Context, store *core.Store) error {
		removed, err := store.Delete(reasonContext(ctx, ns, "delete "+id), ns, id)
		if err != nil {
			return err
		}
		if !removed {
			warnColor.Fprintf(stdout(cmd), "Nothing to delete: %s/%s\n", ns, id)
			return nil
		}
		okColor.Fprintf(stdout(cmd), "Deleted %s/%s\n", ns, id)
		return nil
	})
}
