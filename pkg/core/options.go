package core

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// SaveMode selects how Save treats a record whose id already exists.
type SaveMode int

const (
	// SaveReplace swaps the stored record for the new one.
	SaveReplace SaveMode = iota
	// SavePatch lays the new fields over the stored record.
	SavePatch
)

func (m SaveMode) String() string {
	switch m {
	case SavePatch:
		return "patch"
	default:
		return "replace"
	}
}

// ParseSaveMode parses "replace" or "patch".
func ParseSaveMode(s string) (SaveMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "replace":
		return SaveReplace, nil
	case "patch":
		return SavePatch, nil
	default:
		return SaveReplace, fmt.Errorf("unknown save mode: %s", s)
	}
}

const (
	// DefaultFavoritesNamespace is where favorite markers live.
	DefaultFavoritesNamespace = "favorites"
	// DefaultEventBuffer is the per-subscriber event buffer.
	DefaultEventBuffer = 100
)

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger for the store.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger.With("component", "store")
		}
	}
}

// WithIDGenerator replaces the default timestamp id generator.
func WithIDGenerator(g IDGenerator) StoreOption {
	return func(s *Store) {
		if g != nil {
			s.ids = g
		}
	}
}

// WithClock overrides the time source used for timestamps and markers.
func WithClock(clock func() time.Time) StoreOption {
	return func(s *Store) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithSaveMode selects replace (default) or patch semantics for Save.
func WithSaveMode(mode SaveMode) StoreOption {
	return func(s *Store) {
		s.mode = mode
	}
}

// WithTimestamps stamps createdAt on insert and updatedAt on every write.
func WithTimestamps(enabled bool) StoreOption {
	return func(s *Store) {
		s.timestamps = enabled
	}
}

// WithSerializedWrites controls the per-namespace write lock.
// Enabled by default; disabling it restores unguarded read-modify-write.
func WithSerializedWrites(enabled bool) StoreOption {
	return func(s *Store) {
		s.serialize = enabled
	}
}

// WithEventBuffer sets the buffer size of each Watch subscription.
// Zero means default (100).
func WithEventBuffer(size int) StoreOption {
	return func(s *Store) {
		if size > 0 {
			s.eventBuffer = size
		}
	}
}

// WithFavoritesNamespace moves favorite markers to another namespace.
func WithFavoritesNamespace(ns string) StoreOption {
	return func(s *Store) {
		if ns != "" {
			s.favoritesNS = ns
		}
	}
}
