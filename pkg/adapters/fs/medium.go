// Package fs implements core.Medium on the filesystem: one JSON file per key
// inside a directory, written atomically, optionally versioned with git.
package fs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/shelf/pkg/core"
	"github.com/aretw0/shelf/pkg/git"
)

const (
	// DefaultSystemDir marks a shelf directory.
	DefaultSystemDir = ".shelf"
	// FileExt is the extension of every namespace file.
	FileExt = ".json"
)

// Config holds the configuration for the filesystem medium.
type Config struct {
	Path         string
	AutoInit     bool // create the directory (and git repo when Versioned) if missing
	MustExist    bool
	Versioned    bool // commit every write to git
	ReadOnly     bool
	Logger       *slog.Logger
	SystemDir    string        // e.g. ".shelf"
	Debounce     time.Duration // quiet period for watched keys, DefaultDebounce when zero
	ErrorHandler func(error)
}

// Medium implements core.Medium using the filesystem.
type Medium struct {
	Path   string
	git    *git.Client
	cache  *cache
	config Config

	mu            sync.RWMutex
	seen         map[string]string // key -> digest of the content this process last wrote
	watchers     int
	lastExternal *time.Time
}

// NewMedium creates a new filesystem-backed medium.
func NewMedium(config Config) *Medium {
	if config.SystemDir == "" {
		config.SystemDir = DefaultSystemDir
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	config.Logger = config.Logger.With("component", "fs-medium")
	return &Medium{
		Path:   config.Path,
		git:    git.NewClient(config.Path, config.Logger),
		cache:  newCache(),
		config: config,
		seen:   make(map[string]string),
	}
}

// Initialize performs the necessary setup for the medium (mkdir, git init).
func (m *Medium) Initialize(ctx context.Context) error {
	if m.config.ReadOnly || m.config.MustExist {
		info, err := os.Stat(m.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("shelf path does not exist: %s", m.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("shelf path is not a directory: %s", m.Path)
		}
		if m.config.ReadOnly {
			return nil
		}
	} else if err := os.MkdirAll(m.Path, 0755); err != nil {
		return fmt.Errorf("failed to create shelf directory: %w", err)
	}

	if err := os.MkdirAll(filepath.Join(m.Path, m.config.SystemDir), 0755); err != nil {
		return fmt.Errorf("failed to create system directory: %w", err)
	}

	if !m.config.Versioned {
		return nil
	}
	if !git.IsInstalled() {
		return fmt.Errorf("git is not installed")
	}

	wasNewRepo := false
	if !m.git.IsRepo() {
		if !m.config.AutoInit {
			return fmt.Errorf("path is not a git repository: %s", m.Path)
		}
		if err := m.git.Init(); err != nil {
			return fmt.Errorf("failed to git init: %w", err)
		}
		wasNewRepo = true
	}

	mod, err := m.ensureIgnore()
	if err != nil {
		return fmt.Errorf("failed to ensure .gitignore: %w", err)
	}
	if mod && wasNewRepo {
		if err := m.git.Stage(".gitignore"); err != nil {
			return fmt.Errorf("failed to add .gitignore: %w", err)
		}
		if err := m.git.Commit(fmt.Sprintf("chore: configure %s ignore", m.config.SystemDir)); err != nil {
			return fmt.Errorf("failed to commit .gitignore: %w", err)
		}
	}
	return nil
}

// ensureIgnore keeps the system directory and the lock file out of git.
func (m *Medium) ensureIgnore() (bool, error) {
	ignorePath := filepath.Join(m.Path, ".gitignore")
	entries := []string{m.config.SystemDir + "/", git.DefaultLockName}

	content, err := os.ReadFile(ignorePath)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}

	present := make(map[string]bool)
	for _, line := range strings.Split(string(content), "\n") {
		present[strings.TrimSpace(line)] = true
	}

	var missing []string
	for _, e := range entries {
		if !present[e] {
			missing = append(missing, e)
		}
	}
	if len(missing) == 0 {
		return false, nil
	}

	f, err := os.OpenFile(ignorePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return false, err
	}
	defer f.Close()

	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		if _, err := f.WriteString("\n"); err != nil {
			return false, err
		}
	}
	if _, err := f.WriteString(strings.Join(missing, "\n") + "\n"); err != nil {
		return false, err
	}
	return true, nil
}

// Get reads the file backing key.
func (m *Medium) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	fullPath := m.filePath(key)

	info, err := os.Stat(fullPath)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	if v, hit := m.cache.Get(key, info.ModTime(), info.Size()); hit {
		return v, true, nil
	}

	data, err := os.ReadFile(fullPath)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	m.cache.Set(key, cacheEntry{Value: string(data), ModTime: info.ModTime(), Size: info.Size()})
	return string(data), true, nil
}

// Set writes value atomically to the file backing key and, when versioned,
// commits it. The commit message comes from core.ChangeReasonKey when set.
//
// Workflow:
//  1. Create the directory if needed and snapshot the current file.
//  2. Record the expected digest so the watcher ignores this write.
//  3. Write to a temp file and rename over the target.
//  4. Refresh the read cache.
//  5. (If versioned) 'git add' and 'git commit'. If the commit fails the
//     snapshot is put back, so disk and history stay in step.
func (m *Medium) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.config.ReadOnly {
		return core.ErrReadOnly
	}
	if key == "" {
		return core.ErrInvalidNamespace
	}

	if err := os.MkdirAll(m.Path, 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	fullPath := m.filePath(key)
	var prev fileSnapshot
	if m.config.Versioned {
		var err error
		if prev, err = snapshotFile(fullPath); err != nil {
			return err
		}
	}

	restore := m.remember(key, digest(value))
	if err := writeFileAtomic(fullPath, []byte(value), 0644); err != nil {
		restore()
		return fmt.Errorf("failed to write file: %w", err)
	}

	if info, err := os.Stat(fullPath); err == nil {
		m.cache.Set(key, cacheEntry{Value: value, ModTime: info.ModTime(), Size: info.Size()})
	} else {
		m.cache.Delete(key)
	}

	if m.config.Versioned {
		if err := m.commit(ctx, "update "+key, fileName(key)); err != nil {
			m.rollback(map[string]fileSnapshot{key: prev})
			return err
		}
	}
	return nil
}

// Remove deletes the files backing keys. Missing keys are ignored.
// On a versioned medium a failed commit restores the removed files.
func (m *Medium) Remove(ctx context.Context, keys ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.config.ReadOnly {
		return core.ErrReadOnly
	}

	var removed []string
	snapshots := make(map[string]fileSnapshot)
	for _, key := range keys {
		fullPath := m.filePath(key)
		if m.config.Versioned {
			snap, err := snapshotFile(fullPath)
			if err != nil {
				m.rollback(snapshots)
				return err
			}
			if !snap.existed {
				continue
			}
			snapshots[key] = snap
		}

		restore := m.remember(key, tombstone)
		err := os.Remove(fullPath)
		if os.IsNotExist(err) {
			restore()
			delete(snapshots, key)
			continue
		}
		if err != nil {
			restore()
			delete(snapshots, key)
			m.rollback(snapshots)
			return fmt.Errorf("failed to remove file: %w", err)
		}
		m.cache.Delete(key)
		removed = append(removed, fileName(key))
	}

	if m.config.Versioned && len(removed) > 0 {
		if err := m.commit(ctx, "delete "+strings.Join(keys, ", "), removed...); err != nil {
			m.rollback(snapshots)
			return err
		}
	}
	return nil
}

// rollback puts the snapshotted files back and re-stages them, so the index
// does not carry content that never made it into a commit.
func (m *Medium) rollback(snapshots map[string]fileSnapshot) {
	if len(snapshots) == 0 {
		return
	}
	files := make([]string, 0, len(snapshots))
	for key, snap := range snapshots {
		m.remember(key, snap.digest())
		if err := snap.restore(m.filePath(key), 0644); err != nil {
			m.config.Logger.Error("rollback failed", "key", key, "error", err)
		}
		m.cache.Delete(key)
		files = append(files, fileName(key))
	}

	unlock, err := m.git.Lock()
	if err != nil {
		m.config.Logger.Error("rollback could not lock git", "error", err)
		return
	}
	defer unlock()
	if err := m.git.Stage(files...); err != nil {
		m.config.Logger.Warn("rollback could not reset the index", "files", files, "error", err)
	}
}

// Keys lists every key stored in the directory.
func (m *Medium) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(m.Path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var keys []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if key, ok := keyFromFile(e.Name()); ok {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (m *Medium) commit(ctx context.Context, fallback string, files ...string) error {
	unlock, err := m.git.Lock()
	if err != nil {
		return fmt.Errorf("failed to acquire git lock: %w", err)
	}
	defer unlock()

	changed, err := m.git.Changed(files...)
	if err != nil {
		return fmt.Errorf("failed to read git status: %w", err)
	}
	if !changed {
		return nil
	}

	if err := m.git.Stage(files...); err != nil {
		return fmt.Errorf("failed to git add: %w", err)
	}

	msg := fallback
	if val, ok := ctx.Value(core.ChangeReasonKey).(string); ok && val != "" {
		msg = val
	}
	if err := m.git.Commit(msg); err != nil {
		return fmt.Errorf("failed to git commit: %w", err)
	}
	return nil
}

// History returns the commit subjects touching key, newest first.
// Only available on versioned media.
func (m *Medium) History(key string) ([]string, error) {
	if !m.config.Versioned {
		return nil, fmt.Errorf("history: %w", core.ErrUnsupported)
	}
	return m.git.Log(fileName(key))
}

// --- key <-> file mapping ---

const tombstone = "-"

func (m *Medium) filePath(key string) string {
	return filepath.Join(m.Path, fileName(key))
}

// fileName escapes every byte outside [A-Za-z0-9@_.-] as %XX, and a leading
// dot, so any key maps to a single plain file.
func fileName(key string) string {
	var b strings.Builder
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c == '.' && i == 0:
			fmt.Fprintf(&b, "%%%02X", c)
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9',
			c == '@', c == '_', c == '-', c == '.':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String() + FileExt
}

func keyFromFile(name string) (string, bool) {
	if !strings.HasSuffix(name, FileExt) || strings.HasPrefix(name, TempFilePrefix) {
		return "", false
	}
	if strings.HasPrefix(name, ".") {
		return "", false
	}
	key, err := url.PathUnescape(strings.TrimSuffix(name, FileExt))
	if err != nil || key == "" {
		return "", false
	}
	return key, true
}

func digest(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

// remember records the digest the watcher should expect for key and returns
// a func that puts the previous one back.
func (m *Medium) remember(key, d string) (restore func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, had := m.seen[key]
	m.seen[key] = d
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if had {
			m.seen[key] = prev
		} else {
			delete(m.seen, key)
		}
	}
}

func (m *Medium) debounce() time.Duration {
	if m.config.Debounce > 0 {
		return m.config.Debounce
	}
	return DefaultDebounce
}

var (
	_ core.Medium      = (*Medium)(nil)
	_ core.Remover     = (*Medium)(nil)
	_ core.KeyLister   = (*Medium)(nil)
	_ core.Initializer = (*Medium)(nil)
	_ core.KeyWatcher  = (*Medium)(nil)
)
