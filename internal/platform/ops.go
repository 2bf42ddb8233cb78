package platform

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/aretw0/shelf/pkg/adapters/fs"
	"github.com/aretw0/shelf/pkg/adapters/memory"
	"github.com/aretw0/shelf/pkg/adapters/sqlite"
	"github.com/aretw0/shelf/pkg/core"
	"github.com/aretw0/shelf/pkg/git"
)

// Init builds the medium selected by the options and runs its setup.
// The 'uri' argument is adapter-specific: a directory for 'fs', a database
// file (or ":memory:") for 'sqlite', ignored for 'memory'.
func Init(uri string, opts ...Option) (core.Medium, error) {
	return initMedium(context.Background(), uri, buildOptions(opts))
}

func initMedium(ctx context.Context, uri string, o *options) (core.Medium, error) {
	if o.medium != nil {
		return o.medium, nil
	}

	var m core.Medium
	var err error

	switch o.adapter {
	case AdapterFS, "":
		m, err = initFS(uri, o)
	case AdapterMemory:
		m = memory.New()
	case AdapterSQLite:
		m, err = initSQLite(uri, o)
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
	if err != nil {
		return nil, err
	}

	if init, ok := m.(core.Initializer); ok {
		if err := init.Initialize(ctx); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// initFS handles path resolution and versioning detection for the filesystem adapter.
func initFS(path string, o *options) (*fs.Medium, error) {
	autoInit, _ := o.config["auto_init"].(bool)
	tempDir, _ := o.config["temp_dir"].(bool)
	mustExist, _ := o.config["must_exist"].(bool)
	readOnly, _ := o.config["read_only"].(bool)
	systemDir, _ := o.config["system_dir"].(string)
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))

	devSafety := true
	if val, ok := o.config["dev_safety"].(bool); ok {
		devSafety = val
	}

	// Read-only shelves cannot damage the workspace.
	bypassSafety := readOnly || !devSafety
	useTemp := tempDir || (IsDevRun() && !bypassSafety)
	resolved := ResolvePath(path, useTemp)

	if IsDevRun() {
		switch {
		case readOnly:
			o.logger.Debug("running in READ-ONLY mode (bypassing dev sandbox)", "path", resolved)
		case bypassSafety:
			o.logger.Warn("running in UNSAFE mode (bypassing dev sandbox)", "path", resolved)
		default:
			o.logger.Debug("running in SAFE mode (dev sandbox enabled)", "path", resolved)
		}
	}
	if useTemp && resolved != path {
		o.logger.Warn("shelf redirected to sandbox", "original_path", path, "resolved_path", resolved)
	}

	if systemDir == "" {
		systemDir = fs.DefaultSystemDir
	}

	versioned, explicit := o.config["versioned"].(bool)
	if !explicit {
		versioned = detectVersioning(resolved, systemDir, autoInit)
		o.logger.Debug("detected versioning", "path", resolved, "versioned", versioned)
	}

	return fs.NewMedium(fs.Config{
		Path:         resolved,
		AutoInit:     autoInit,
		MustExist:    mustExist || (!autoInit && !useTemp),
		Versioned:    versioned,
		ReadOnly:     readOnly,
		Logger:       o.logger,
		SystemDir:    systemDir,
		ErrorHandler: errorHandler,
	}), nil
}

// detectVersioning keeps git on when the directory is already a repository.
// A fresh shelf created with auto-init is versioned when git is available; an
// existing plain shelf (system dir present, no .git) is never upgraded.
func detectVersioning(path, systemDir string, autoInit bool) bool {
	if hasFile(path, ".git") {
		return true
	}
	if !autoInit || hasFile(path, systemDir) {
		return false
	}
	return git.IsInstalled()
}

func initSQLite(uri string, o *options) (*sqlite.Medium, error) {
	if uri == "" {
		uri = "shelf.db"
	}
	if uri != sqlite.InMemory {
		tempDir, _ := o.config["temp_dir"].(bool)
		devSafety := true
		if val, ok := o.config["dev_safety"].(bool); ok {
			devSafety = val
		}
		if tempDir || (IsDevRun() && devSafety) {
			dir := ResolvePath(filepath.Dir(uri), true)
			uri = filepath.Join(dir, filepath.Base(uri))
		}
	}
	return sqlite.Open(sqlite.Config{Path: uri, Logger: o.logger})
}

// History returns the change history of a namespace on a versioned
// filesystem shelf, newest first.
func History(uri, ns string, opts ...Option) ([]string, error) {
	o := buildOptions(opts)
	if o.adapter != AdapterFS && o.adapter != "" {
		return nil, fmt.Errorf("history: %w", core.ErrUnsupported)
	}
	o.config["must_exist"] = true
	m, err := initFS(uri, o)
	if err != nil {
		return nil, err
	}
	return m.History(ns)
}
