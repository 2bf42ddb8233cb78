package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/shelf/pkg/adapters/sqlite"
	"github.com/aretw0/shelf/pkg/core"
	"github.com/aretw0/shelf/pkg/core/coretest"
)

func openTemp(t *testing.T) (*sqlite.Medium, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "shelf.db")
	m, err := sqlite.Open(sqlite.Config{Path: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m, path
}

func TestStoreContract(t *testing.T) {
	coretest.Run(t, func(t *testing.T) core.Medium {
		m, _ := openTemp(t)
		return m
	})
}

func TestStoreContract_InMemory(t *testing.T) {
	coretest.Run(t, func(t *testing.T) core.Medium {
		m, err := sqlite.Open(sqlite.Config{Path: sqlite.InMemory})
		require.NoError(t, err)
		t.Cleanup(func() { _ = m.Close() })
		return m
	})
}

func TestGetSetRemove(t *testing.T) {
	ctx := context.Background()
	m, _ := openTemp(t)

	_, found, err := m.Get(ctx, "teams")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, m.Set(ctx, "teams", `[]`))
	require.NoError(t, m.Set(ctx, "teams", `[{"id":"1"}]`))
	require.NoError(t, m.Set(ctx, "players", `[]`))

	v, found, err := m.Get(ctx, "teams")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, `[{"id":"1"}]`, v)

	at, found, err := m.UpdatedAt(ctx, "teams")
	require.NoError(t, err)
	require.True(t, found)
	assert.False(t, at.IsZero())

	keys, err := m.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"players", "teams"}, keys)

	require.NoError(t, m.Remove(ctx, "teams", "missing"))
	keys, err = m.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"players"}, keys)
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	m, path := openTemp(t)
	require.NoError(t, m.Set(ctx, "settings", `{"darkMode":true}`))
	require.NoError(t, m.Close())

	reopened, err := sqlite.Open(sqlite.Config{Path: path})
	require.NoError(t, err)
	defer reopened.Close()

	v, found, err := reopened.Get(ctx, "settings")
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `{"darkMode":true}`, v)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := sqlite.Open(sqlite.Config{})
	assert.Error(t, err)
}

func TestState(t *testing.T) {
	m, path := openTemp(t)
	state := m.State().(sqlite.MediumState)
	assert.Equal(t, path, state.Path)
	assert.Equal(t, "sqlite", m.ComponentType())
}
