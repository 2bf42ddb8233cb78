package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/shelf/pkg/codec"
	"github.com/aretw0/shelf/pkg/core"
)

var (
	exportOutput string
	exportFormat string
	importFormat string
	clearYes     bool
)

var exportCmd = &cobra.Command{
	Use:   "export [pattern...]",
	Short: "Export namespaces to a snapshot",
	Long: `Export namespaces matching the glob patterns (all when none are given) as a
JSON or YAML snapshot. The format follows --format, then the extension of
--output, then defaults to JSON.`,
	Example: `  shelf export -o backup.yaml
  shelf export 'cache_*' --format json`,
	RunE: runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Import a snapshot",
	Long:  `Write every namespace of a snapshot back onto the shelf, replacing existing ones.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

var clearCmd = &cobra.Command{
	Use:   "clear <pattern...>",
	Short: "Remove whole namespaces",
	Example: `  shelf clear 'cache_*' --yes
  shelf clear tasks favorites --yes`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClear,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to file instead of stdout")
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "Snapshot format (json, yaml)")
	importCmd.Flags().StringVar(&importFormat, "format", "", "Snapshot format (json, yaml)")
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "Confirm removal")
	addReasonFlags(importCmd)
	addReasonFlags(clearCmd)
	rootCmd.AddCommand(exportCmd, importCmd, clearCmd)
}

func pickCodec(format, path string) (codec.Codec, error) {
	if format != "" {
		return codec.ForName(format)
	}
	return codec.ForPath(path), nil
}

func runExport(cmd *cobra.Command, args []string) error {
	c, err := pickCodec(exportFormat, exportOutput)
	if err != nil {
		return err
	}

	return withStore(func(ctx context.Context, store *core.Store) error {
		snap, err := store.Export(ctx, args...)
		if err != nil {
			return err
		}

		if exportOutput == "" || exportOutput == "-" {
			return c.Encode(stdout(cmd), snap)
		}
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", exportOutput, err)
		}
		if err := c.Encode(f, snap); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		okColor.Fprintf(stdout(cmd), "Exported %d namespaces to %s\n", len(snap.Namespaces), exportOutput)
		return nil
	})
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]
	c, err := pickCodec(importFormat, path)
	if err != nil {
		return err
	}

	var r io.Reader
	if path == "-" {
		r = stdin(cmd)
	} else {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	snap, err := c.Decode(r)
	if err != nil {
		return err
	}

	return withStore(func(ctx context.Context, store *core.Store) error {
		n, err := store.Import(reasonContext(ctx, "import", "import snapshot"), snap)
		if err != nil {
			return err
		}
		okColor.Fprintf(stdout(cmd), "Imported %d namespaces\n", n)
		return nil
	})
}

func runClear(cmd *cobra.Command, args []string) error {
	if !clearYes {
		return fmt.Errorf("refusing to clear %v without --yes", args)
	}
	return withStore(func(ctx context.Context, store *core.Store) error {
		n, err := store.Clear(reasonContext(ctx, "clear", "clear namespaces"), args...)
		if err != nil {
			return err
		}
		okColor.Fprintf(stdout(cmd), "Cleared %d namespaces\n", n)
		return nil
	})
}
