// Package memory implements core.Medium in process memory.
// It is the default medium for tests and ephemeral stores, and supports
// fault injection to exercise failure paths.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/introspection"

	"github.com/aretw0/shelf/pkg/core"
)

// Medium is a map-backed key-value medium.
type Medium struct {
	mu     sync.RWMutex
	data   map[string]string
	faults map[string]error
	writes int
}

// New creates an empty medium.
func New() *Medium {
	return &Medium{
		data:   make(map[string]string),
		faults: make(map[string]error),
	}
}

// Fail makes every call of op ("get", "set", "remove", "keys") return err
// until cleared with a nil err.
func (m *Medium) Fail(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.faults, op)
		return
	}
	m.faults[op] = err
}

// Writes returns how many successful Set calls were made.
func (m *Medium) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

func (m *Medium) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.faults["get"]; err != nil {
		return "", false, err
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Medium) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.faults["set"]; err != nil {
		return err
	}
	m.data[key] = value
	m.writes++
	return nil
}

func (m *Medium) Remove(ctx context.Context, keys ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.faults["remove"]; err != nil {
		return err
	}
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *Medium) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.faults["keys"]; err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// MediumState exposes internal state for observability.
type MediumState struct {
	Keys   int `json:"keys"`
	Writes int `json:"writes"`
	Faults int `json:"faults"`
}

// State implements introspection.Introspectable.
func (m *Medium) State() any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return MediumState{Keys: len(m.data), Writes: m.writes, Faults: len(m.faults)}
}

// ComponentType implements introspection.Component.
func (m *Medium) ComponentType() string {
	return "memory"
}

var (
	_ core.Medium                  = (*Medium)(nil)
	_ core.Remover                 = (*Medium)(nil)
	_ core.KeyLister               = (*Medium)(nil)
	_ introspection.Introspectable = (*Medium)(nil)
	_ introspection.Component      = (*Medium)(nil)
)
