package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/shelf/pkg/core"
)

var favCmd = &cobra.Command{
	Use:   "fav",
	Short: "Manage favorites",
}

var favToggleCmd = &cobra.Command{
	Use:   "toggle <type> <namespace> <id>",
	Short: "Mark or unmark a record as favorite",
	Long: `Toggle the favorite marker of a record. The record is read from the
namespace so the marker carries a snapshot of it.`,
	Example: "  shelf fav toggle recipe recipes 52772",
	Args:    cobra.ExactArgs(3),
	RunE:    runFavToggle,
}

var favListJSON bool

var favListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favorites, oldest first",
	Args:  cobra.NoArgs,
	RunE:  runFavList,
}

func init() {
	favListCmd.Flags().BoolVar(&favListJSON, "json", false, "Output in JSON format")
	favCmd.AddCommand(favToggleCmd, favListCmd)
	rootCmd.AddCommand(favCmd)
}

func runFavToggle(cmd *cobra.Command, args []string) error {
	entityType, ns, id := args[0], args[1], args[2]
	return withStore(func(ctx context.Context, store *core.Store) error {
		rec, found, err := store.Get(ctx, ns, id)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("record %s not found in %s", id, ns)
		}
		on, err := store.ToggleFavorite(ctx, rec, entityType)
		if err != nil {
			return err
		}
		if on {
			okColor.Fprintf(stdout(cmd), "★ %s\n", core.FavoriteKey(entityType, id))
		} else {
			warnColor.Fprintf(stdout(cmd), "☆ %s\n", core.FavoriteKey(entityType, id))
		}
		return nil
	})
}

func runFavList(cmd *cobra.Command, args []string) error {
	out := stdout(cmd)
	return withStore(func(ctx context.Context, store *core.Store) error {
		favs, err := store.Favorites(ctx)
		if err != nil {
			return err
		}
		if favListJSON {
			return printJSON(out, favs)
		}
		for _, f := range favs {
			label := ""
			if f.Snapshot != nil {
				label = summary(f.Snapshot)
			}
			fmt.Fprintf(out, "%s  %s  %s\n",
				infoColor.Sprint(f.Key()), f.FavoritedAt.Local().Format(time.DateTime), label)
		}
		return nil
	})
}
