package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/aretw0/shelf"
	"github.com/aretw0/shelf/pkg/core"
)

const configFile = "shelf.yaml"

var (
	verbose    bool
	adapter    string
	shelfPath  string
	rootDir    string
	cfg        = DefaultConfig()
	okColor    = color.New(color.FgGreen)
	infoColor  = color.New(color.FgCyan)
	warnColor  = color.New(color.FgYellow)
	errorColor = color.New(color.FgRed, color.Bold)
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "shelf",
	Short: "A keyed collection store for JSON records",
	Long: `shelf keeps named collections of JSON records on top of a key-value medium
(a directory of JSON files, optionally versioned with git, or a SQLite database).

Every namespace is one JSON array; records are identified by their "id" field.`,
	Version:       shelf.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		return loadConfig()
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetVersionTemplate("shelf version {{.Version}}\n")

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&adapter, "adapter", "", "Storage adapter (fs, sqlite, memory)")
	rootCmd.PersistentFlags().StringVar(&shelfPath, "path", "", "Shelf directory or database file")
}

// loadConfig locates the root from the working directory and loads shelf.yaml.
// Flags win over the file and the environment.
func loadConfig() error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	rootDir = wd
	if found, err := shelf.FindRoot(wd); err == nil {
		rootDir = found
	}

	loaded, err := LoadConfig(rootDir)
	if err != nil {
		return err
	}
	if adapter != "" {
		loaded.Adapter = adapter
	}
	if shelfPath != "" {
		abs, err := filepath.Abs(shelfPath)
		if err != nil {
			return err
		}
		loaded.Path = abs
	}
	cfg = loaded
	return nil
}

// openStore opens the configured store. Extra options are applied last.
func openStore(extra ...shelf.Option) (*core.Store, error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	opts = append(opts, shelf.WithLogger(slog.Default()))
	opts = append(opts, extra...)

	store, err := shelf.New(cfg.Location(rootDir), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open shelf: %w", err)
	}
	return store, nil
}

// withStore opens the store, runs fn and closes it.
func withStore(fn func(ctx context.Context, store *core.Store) error, extra ...shelf.Option) error {
	store, err := openStore(extra...)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(context.Background(), store)
}

func stdout(cmd *cobra.Command) io.Writer {
	if cmd == nil {
		return os.Stdout
	}
	return cmd.OutOrStdout()
}

func stdin(cmd *cobra.Command) io.Reader {
	if cmd == nil {
		return os.Stdin
	}
	return cmd.InOrStdin()
}
