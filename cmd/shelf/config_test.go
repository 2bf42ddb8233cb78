package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigMergesFile(t *testing.T) {
	dir := t.TempDir()
	content := "adapter: sqlite\ntimestamps: true\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFile), []byte(content), 0644))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Adapter)
	assert.True(t, cfg.Timestamps)
	// untouched fields keep their defaults
	assert.Equal(t, "timestamp", cfg.IDStrategy)
	assert.Equal(t, VersioningAuto, cfg.Versioning)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFile), []byte("adapter: sqlite\n"), 0644))
	t.Setenv("SHELF_ADAPTER", "memory")
	t.Setenv("SHELF_ID_STRATEGY", "uuid")
	t.Setenv("SHELF_READ_ONLY", "true")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Adapter)
	assert.Equal(t, "uuid", cfg.IDStrategy)
	assert.True(t, cfg.ReadOnly)
}

func TestLoadConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFile), []byte("adapter: [\n"), 0644))
	_, err := LoadConfig(dir)
	assert.Error(t, err)

	t.Setenv("SHELF_TIMESTAMPS", "not-a-bool")
	_, err = LoadConfig(t.TempDir())
	assert.Error(t, err)
}

func TestConfigOptions(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"git", func(c *Config) { c.Versioning = VersioningGit }, false},
		{"bad versioning", func(c *Config) { c.Versioning = "svn" }, true},
		{"bad save mode", func(c *Config) { c.SaveMode = "merge" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			_, err := cfg.Options()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigLocation(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "/root/shelf", cfg.Location("/root/shelf"))

	cfg.Path = "data"
	assert.Equal(t, filepath.Join("/root/shelf", "data"), cfg.Location("/root/shelf"))

	cfg.Path = "/abs/data"
	assert.Equal(t, "/abs/data", cfg.Location("/root/shelf"))

	cfg = DefaultConfig()
	cfg.Adapter = "sqlite"
	assert.Equal(t, filepath.Join("/root/shelf", "shelf.db"), cfg.Location("/root/shelf"))
}
