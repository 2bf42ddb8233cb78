package fs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"
)

// WatchKeys reports keys whose files were changed by someone other than this
// medium. Bursts of events are debounced per key, and content this process
// wrote itself is suppressed by comparing digests.
//
// Every call owns its own view of the directory, so concurrent watchers each
// receive every external change.
//
// While git holds .git/index.lock the watcher pauses, then reconciles the
// whole directory once the lock is released.
func (m *Medium) WatchKeys(ctx context.Context) (<-chan string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(m.Path); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", m.Path, err)
	}
	if m.config.Versioned {
		_ = watcher.Add(filepath.Join(m.Path, ".git"))
	}

	v := m.prime(ctx)

	out := make(chan string, 64)
	m.setWatcherActive(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(out)
		defer m.setWatcherActive(false)
		defer watcher.Close()
		defer m.recoverWatcher(ctx)
		return m.watchLoop(ctx, watcher, v, out)
	}, lifecycle.WithErrorHandler(m.reportError))

	return out, nil
}

// view maps key to the digest one watcher last observed on disk. It is owned
// by that watcher's goroutine.
type view map[string]string

func (m *Medium) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, v view, out chan<- string) error {
	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	d := newDebouncer(loopCtx, m.debounce())
	defer d.stop()

	var gitLocked bool
	for {
		select {
		case <-ctx.Done():
			return nil

		case key := <-d.Due():
			if !gitLocked {
				m.check(ctx, v, key, out)
			}

		case event, ok := <-watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}

			if isGitLock(event.Name) {
				if event.Has(fsnotify.Create) {
					gitLocked = true
					m.config.Logger.Debug("git operations detected, pausing watcher")
				} else if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					gitLocked = false
					m.config.Logger.Debug("git operations finished, reconciling")
					m.reconcile(ctx, v, out)
				}
				continue
			}
			if gitLocked {
				continue
			}

			key, ok := keyFromFile(filepath.Base(event.Name))
			if !ok || filepath.Dir(event.Name) != filepath.Clean(m.Path) {
				continue
			}
			m.config.Logger.Debug("event received", "name", event.Name, "op", event.Op.String())
			d.add(key)

		case wErr, ok := <-watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			m.config.Logger.Error("fsnotify error", "error", wErr)
			if m.config.ErrorHandler != nil {
				m.config.ErrorHandler(wErr)
			}
		}
	}
}

// check emits key when the file content differs from what v last observed
// and from what this medium wrote itself.
func (m *Medium) check(ctx context.Context, v view, key string, out chan<- string) {
	current := tombstone
	if data, err := os.ReadFile(m.filePath(key)); err == nil {
		current = digest(string(data))
	} else if !os.IsNotExist(err) {
		m.config.Logger.Debug("read after event failed", "key", key, "error", err)
		return
	}

	previous, known := v[key]
	if known && previous == current {
		return
	}
	if !known && current == tombstone {
		return
	}
	v[key] = current

	m.mu.Lock()
	if own, ok := m.seen[key]; ok && own == current {
		m.mu.Unlock()
		return
	}
	now := time.Now()
	m.lastExternal = &now
	m.mu.Unlock()

	m.cache.Delete(key)

	select {
	case out <- key:
	case <-ctx.Done():
	}
}

// reconcile re-checks every known and present key after a pause.
func (m *Medium) reconcile(ctx context.Context, v view, out chan<- string) {
	keys, err := m.Keys(ctx)
	if err != nil {
		m.reportError(fmt.Errorf("reconcile failed: %w", err))
		return
	}

	candidates := make(map[string]struct{}, len(keys)+len(v))
	for k := range v {
		candidates[k] = struct{}{}
	}
	for _, k := range keys {
		candidates[k] = struct{}{}
	}

	for k := range candidates {
		m.check(ctx, v, k, out)
	}
}

// prime builds a view from the files already on disk so that the first
// touch of an unchanged file is not reported.
func (m *Medium) prime(ctx context.Context) view {
	v := make(view)
	keys, err := m.Keys(ctx)
	if err != nil {
		return v
	}
	for _, key := range keys {
		data, err := os.ReadFile(m.filePath(key))
		if err != nil {
			continue
		}
		v[key] = digest(string(data))
	}
	return v
}

func (m *Medium) reportError(err error) {
	if m.config.ErrorHandler != nil {
		m.config.ErrorHandler(err)
		return
	}
	m.config.Logger.Error("watcher failed", "error", err)
}

func (m *Medium) recoverWatcher(ctx context.Context) {
	recovered := recover()
	if recovered == nil {
		return
	}
	panicErr := fmt.Errorf("watcher panic: %v", recovered)
	// Stack traces only at debug level.
	if m.config.Logger.Enabled(ctx, slog.LevelDebug) {
		m.config.Logger.Error("watcher panic", "error", panicErr, "stack", string(debug.Stack()))
	} else {
		m.config.Logger.Error("watcher panic", "error", panicErr)
	}
	if m.config.ErrorHandler != nil {
		m.config.ErrorHandler(panicErr)
	}
}

func isGitLock(name string) bool {
	return filepath.Base(name) == "index.lock" && filepath.Base(filepath.Dir(name)) == ".git"
}
