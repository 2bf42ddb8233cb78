package core

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
)

// SnapshotVersion is written into every exported snapshot.
const SnapshotVersion = "1.0.0"

// Snapshot is a portable copy of a set of namespaces.
// Each namespace keeps its raw JSON blob.
type Snapshot struct {
	Version    string                     `json:"version"`
	ExportedAt time.Time                  `json:"exportedAt"`
	Namespaces map[string]json.RawMessage `json:"namespaces"`
}

// Namespaces returns the keys of the medium matching pattern, sorted.
// An empty pattern matches everything.
func (s *Store) Namespaces(ctx context.Context, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "**"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid namespace pattern: %s", pattern)
	}
	lister, ok := s.medium.(KeyLister)
	if !ok {
		return nil, fmt.Errorf("listing namespaces: %w", ErrUnsupported)
	}
	keys, err := lister.Keys(ctx)
	if err != nil {
		return nil, Unavailable("keys", pattern, err)
	}

	var out []string
	for _, k := range keys {
		if ok, _ := doublestar.Match(pattern, k); ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out, nil
}

// resolve expands patterns into namespaces. Literal names are used as is so
// media without key listing can still export them.
func (s *Store) resolve(ctx context.Context, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = []string{"**"}
	}
	seen := make(map[string]struct{})
	var out []string
	for _, p := range patterns {
		var names []string
		if hasMeta(p) {
			matched, err := s.Namespaces(ctx, p)
			if err != nil {
				return nil, err
			}
			names = matched
		} else if p != "" {
			names = []string{p}
		}
		for _, n := range names {
			if _, dup := seen[n]; !dup {
				seen[n] = struct{}{}
				out = append(out, n)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

func hasMeta(p string) bool {
	for _, c := range p {
		switch c {
		case '*', '?', '[', '{', '\\':
			return true
		}
	}
	return false
}

// Export copies the namespaces matching patterns into a Snapshot.
// Namespaces that were never written are skipped.
func (s *Store) Export(ctx context.Context, patterns ...string) (*Snapshot, error) {
	names, err := s.resolve(ctx, patterns)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Version:    SnapshotVersion,
		ExportedAt: s.now(),
		Namespaces: make(map[string]json.RawMessage, len(names)),
	}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, ns := range names {
		g.Go(func() error {
			raw, found, err := s.read(gctx, ns)
			if err != nil || !found {
				return err
			}
			if !json.Valid([]byte(raw)) {
				return corrupt(ns, fmt.Errorf("invalid json"))
			}
			mu.Lock()
			snap.Namespaces[ns] = json.RawMessage(raw)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Debug("export complete", "namespaces", len(snap.Namespaces))
	return snap, nil
}

// Import writes every namespace of the snapshot back to the medium,
// replacing what is there. Namespaces are written one by one; a failure
// leaves the ones already written in place.
func (s *Store) Import(ctx context.Context, snap *Snapshot) (int, error) {
	if snap == nil {
		return 0, fmt.Errorf("snapshot cannot be nil")
	}
	names := make([]string, 0, len(snap.Namespaces))
	for ns, raw := range snap.Namespaces {
		if ns == "" {
			return 0, ErrInvalidNamespace
		}
		if !json.Valid(raw) {
			return 0, corrupt(ns, fmt.Errorf("invalid json in snapshot"))
		}
		names = append(names, ns)
	}
	sort.Strings(names)

	for i, ns := range names {
		if err := s.importOne(ctx, ns, snap.Namespaces[ns]); err != nil {
			return i, err
		}
	}
	s.logger.Info("import complete", "namespaces", len(names))
	return len(names), nil
}

func (s *Store) importOne(ctx context.Context, ns string, raw json.RawMessage) error {
	unlock := s.lock(ns)
	defer unlock()

	if err := s.medium.Set(ctx, ns, string(raw)); err != nil {
		return Unavailable("set", ns, err)
	}
	s.touch(ns)
	s.publish(EventModify, ns, "")
	return nil
}

// Clear removes every namespace matching any of the patterns and returns
// how many were removed.
func (s *Store) Clear(ctx context.Context, patterns ...string) (int, error) {
	if len(patterns) == 0 {
		return 0, fmt.Errorf("clear requires at least one pattern")
	}
	names, err := s.resolve(ctx, patterns)
	if err != nil {
		return 0, err
	}
	for _, ns := range names {
		if err := s.remove(ctx, ns); err != nil {
			return 0, err
		}
	}
	s.logger.Info("namespaces cleared", "count", len(names))
	return len(names), nil
}

func (s *Store) remove(ctx context.Context, ns string) error {
	rm, ok := s.medium.(Remover)
	if !ok {
		return fmt.Errorf("removing %q: %w", ns, ErrUnsupported)
	}

	unlock := s.lock(ns)
	defer unlock()

	if err := rm.Remove(ctx, ns); err != nil {
		return Unavailable("remove", ns, err)
	}
	s.mu.Lock()
	delete(s.touched, ns)
	s.mu.Unlock()
	s.publish(EventDelete, ns, "")
	return nil
}
