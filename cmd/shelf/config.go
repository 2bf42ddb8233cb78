package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/shelf"
	"github.com/aretw0/shelf/pkg/core"
)

// Versioning modes for the fs adapter.
const (
	VersioningAuto = "auto"
	VersioningGit  = "git"
	VersioningNone = "none"
)

// Config represents the project configuration from shelf.yaml.
// Environment variables override the file.
type Config struct {
	// Adapter is the storage medium: fs, sqlite or memory.
	Adapter string `yaml:"adapter" env:"SHELF_ADAPTER"`

	// Path is the shelf directory (fs) or database file (sqlite), relative to the root.
	Path string `yaml:"path" env:"SHELF_PATH"`

	// Versioning is auto, git or none.
	Versioning string `yaml:"versioning" env:"SHELF_VERSIONING"`

	IDStrategy         string `yaml:"id_strategy" env:"SHELF_ID_STRATEGY"`
	SaveMode           string `yaml:"save_mode" env:"SHELF_SAVE_MODE"`
	Timestamps         bool   `yaml:"timestamps" env:"SHELF_TIMESTAMPS"`
	ReadOnly           bool   `yaml:"read_only" env:"SHELF_READ_ONLY"`
	FavoritesNamespace string `yaml:"favorites_namespace" env:"SHELF_FAVORITES_NAMESPACE"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Adapter:            shelf.AdapterFS,
		Path:               ".",
		Versioning:         VersioningAuto,
		IDStrategy:         "timestamp",
		SaveMode:           core.SaveReplace.String(),
		FavoritesNamespace: core.DefaultFavoritesNamespace,
	}
}

// LoadConfig reads shelf.yaml from dir when present, merges it over the
// defaults and applies environment overrides.
func LoadConfig(dir string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filepath.Join(dir, configFile))
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read %s: %w", configFile, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", configFile, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// WriteConfig writes cfg as shelf.yaml into dir.
func WriteConfig(dir string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", configFile, err)
	}
	return os.WriteFile(filepath.Join(dir, configFile), data, 0644)
}

// Options translates the configuration into shelf options.
func (c *Config) Options() ([]shelf.Option, error) {
	mode, err := core.ParseSaveMode(c.SaveMode)
	if err != nil {
		return nil, err
	}

	opts := []shelf.Option{
		shelf.WithAdapter(c.Adapter),
		shelf.WithIDStrategy(c.IDStrategy),
		shelf.WithSaveMode(mode),
		shelf.WithTimestamps(c.Timestamps),
		shelf.WithReadOnly(c.ReadOnly),
		shelf.WithFavoritesNamespace(c.FavoritesNamespace),
	}

	switch c.Versioning {
	case VersioningAuto, "":
	case VersioningGit:
		opts = append(opts, shelf.WithVersioning(true))
	case VersioningNone:
		opts = append(opts, shelf.WithVersioning(false))
	default:
		return nil, fmt.Errorf("unknown versioning mode: %s", c.Versioning)
	}
	return opts, nil
}

// Location resolves the configured path against root.
func (c *Config) Location(root string) string {
	if c.Adapter == shelf.AdapterSQLite && c.Path == "." {
		return filepath.Join(root, "shelf.db")
	}
	if c.Path == "" || filepath.IsAbs(c.Path) {
		return c.Path
	}
	return filepath.Join(root, c.Path)
}
