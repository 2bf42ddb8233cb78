package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	shelflc "github.com/aretw0/shelf/pkg/adapters/lifecycle"
	"github.com/aretw0/shelf/pkg/core"
)

var watchLocalOnly bool

var watchCmd = &cobra.Command{
	Use:   "watch [pattern]",
	Short: "Stream change events until interrupted",
	Long: `Print an event for every change to namespaces matching the glob pattern
(all when omitted). On the fs adapter, edits made by other programs are
reported too and marked as external.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchLocalOnly, "local", false, "Ignore changes made outside this process")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	pattern := "**"
	if len(args) == 1 {
		pattern = args[0]
	}

	base := context.Background()
	if cmd != nil && cmd.Context() != nil {
		base = cmd.Context()
	}
	ctx, stop := signal.NotifyContext(base, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	var opts []shelflc.SourceOption
	if watchLocalOnly {
		opts = append(opts, shelflc.WithoutExternal())
	}
	src, err := shelflc.Watch(ctx, store, pattern, opts...)
	if err != nil {
		return err
	}
	if err := src.Start(ctx); err != nil {
		return err
	}

	out := stdout(cmd)
	infoColor.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", pattern)
	for e := range src.Events() {
		line := fmt.Sprintf("%s  %s", time.Now().Format(time.TimeOnly), e)
		if ce, ok := e.(core.Event); ok && ce.External {
			line += warnColor.Sprint("  (external)")
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
