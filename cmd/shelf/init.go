package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/shelf"
	"github.com/aretw0/shelf/pkg/core"
)

var initConfig bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a shelf",
	Long: `Initialize a shelf at the configured path. For the fs adapter this creates
the directory and, unless versioning is "none", a git repository.

With --config a shelf.yaml holding the current settings is written next to it.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initConfig, "config", false, "write shelf.yaml with the current settings")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	err := withStore(func(ctx context.Context, store *core.Store) error {
		return store.Initialize(ctx)
	}, shelf.WithAutoInit(true))
	if err != nil {
		return err
	}

	out := stdout(cmd)
	location := cfg.Location(rootDir)
	okColor.Fprintf(out, "Initialized empty shelf (%s) in %s\n", cfg.Adapter, location)

	if !initConfig {
		return nil
	}
	dir := rootDir
	if cfg.Adapter == shelf.AdapterFS {
		dir = location
	}
	if _, err := os.Stat(filepath.Join(dir, configFile)); err == nil {
		warnColor.Fprintf(out, "%s already exists, left unchanged\n", configFile)
		return nil
	}
	written := *cfg
	if cfg.Adapter == shelf.AdapterFS {
		written.Path = "."
	}
	if err := WriteConfig(dir, &written); err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote %s\n", filepath.Join(dir, configFile))
	return nil
}
