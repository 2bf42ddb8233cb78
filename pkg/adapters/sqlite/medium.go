// Package sqlite implements core.Medium on a single SQLite table, using the
// pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/introspection"
	_ "modernc.org/sqlite"

	"github.com/aretw0/shelf/pkg/core"
)

// InMemory opens a private database that lives as long as the medium.
const InMemory = ":memory:"

// Config holds the configuration for the SQLite medium.
type Config struct {
	Path   string
	Logger *slog.Logger
}

// Medium stores each key as one row of the kv table.
type Medium struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Open opens (or creates) the database at cfg.Path and ensures the schema.
// Parent directories are created if needed.
func Open(cfg Config) (*Medium, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "sqlite-medium")

	if path != InMemory {
		path = filepath.Clean(path)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One connection: SQLite has a single writer, and ":memory:" databases
	// are per connection.
	db.SetMaxOpenConns(1)

	m := &Medium{db: db, path: path, logger: logger}
	if err := m.Initialize(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug("SQLite medium initialized", "path", path)
	return m, nil
}

// Initialize applies pragmas and creates the table if it doesn't exist.
func (m *Medium) Initialize(ctx context.Context) error {
	if m.path != InMemory {
		if _, err := m.db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			return fmt.Errorf("enabling WAL mode: %w", err)
		}
	}
	if _, err := m.db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		return fmt.Errorf("setting busy timeout: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		);
	`
	if _, err := m.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Close closes the database handle.
func (m *Medium) Close() error {
	if m == nil || m.db == nil {
		return nil
	}
	return m.db.Close()
}

func (m *Medium) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := m.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %q: %w", key, err)
	}
	return value, true, nil
}

func (m *Medium) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return core.ErrInvalidNamespace
	}
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("writing %q: %w", key, err)
	}
	return nil
}

// Remove deletes keys in one transaction. Missing keys are ignored.
func (m *Medium) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, key := range keys {
		if _, err := tx.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
			return fmt.Errorf("deleting %q: %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing delete: %w", err)
	}
	return nil
}

func (m *Medium) Keys(ctx context.Context) ([]string, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT key FROM kv ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("listing keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scanning key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// UpdatedAt reports when key was last written.
func (m *Medium) UpdatedAt(ctx context.Context, key string) (time.Time, bool, error) {
	var ms int64
	err := m.db.QueryRowContext(ctx, `SELECT updated_at FROM kv WHERE key = ?`, key).Scan(&ms)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("reading %q: %w", key, err)
	}
	return time.UnixMilli(ms).UTC(), true, nil
}

// MediumState exposes internal state for observability.
type MediumState struct {
	Path            string `json:"path"`
	OpenConnections int    `json:"open_connections"`
	InUse           int    `json:"in_use"`
}

// State implements introspection.Introspectable.
func (m *Medium) State() any {
	stats := m.db.Stats()
	return MediumState{
		Path:            m.path,
		OpenConnections: stats.OpenConnections,
		InUse:           stats.InUse,
	}
}

// ComponentType implements introspection.Component.
func (m *Medium) ComponentType() string {
	return "sqlite"
}

var (
	_ core.Medium                  = (*Medium)(nil)
	_ core.Remover                 = (*Medium)(nil)
	_ core.KeyLister               = (*Medium)(nil)
	_ core.Initializer             = (*Medium)(nil)
	_ introspection.Introspectable = (*Medium)(nil)
	_ introspection.Component      = (*Medium)(nil)
)
