package fs

import (
	"time"

	"github.com/aretw0/introspection"
)

// MediumState exposes internal state for observability.
type MediumState struct {
	Path          string     `json:"path"`
	SystemDir     string     `json:"system_dir"`
	CacheSize     int        `json:"cache_size"`
	CacheHits     int        `json:"cache_hits"`
	CacheMisses   int        `json:"cache_misses"`
	Versioned     bool       `json:"versioned"`
	ReadOnly      bool       `json:"read_only"`
	WatcherActive bool       `json:"watcher_active"`
	LastExternal  *time.Time `json:"last_external,omitempty"`
}

// State implements introspection.Introspectable.
func (m *Medium) State() any {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hits, misses := m.cache.Stats()
	return MediumState{
		Path:          m.Path,
		SystemDir:     m.config.SystemDir,
		CacheSize:     m.cache.Len(),
		CacheHits:     hits,
		CacheMisses:   misses,
		Versioned:     m.config.Versioned,
		ReadOnly:      m.config.ReadOnly,
		WatcherActive: m.watchers > 0,
		LastExternal:  m.lastExternal,
	}
}

// ComponentType implements introspection.Component.
func (m *Medium) ComponentType() string {
	return "fs"
}

var _ introspection.Introspectable = (*Medium)(nil)
var _ introspection.Component = (*Medium)(nil)

func (m *Medium) setWatcherActive(active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if active {
		m.watchers++
	} else {
		m.watchers--
	}
}
