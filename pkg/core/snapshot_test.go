package core_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/shelf/pkg/adapters/memory"
	"github.com/aretw0/shelf/pkg/core"
)

func seed(t *testing.T, store *core.Store) {
	t.Helper()
	ctx := context.Background()
	for _, ns := range []string{"teams", "players", "games"} {
		_, err := store.Save(ctx, ns, core.Record{"id": "1"})
		require.NoError(t, err)
	}
	require.NoError(t, store.Cache().Put(ctx, "remote", "x", 0))
}

func TestNamespaces(t *testing.T) {
	store := core.NewStore(memory.New())
	seed(t, store)

	all, err := store.Namespaces(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"cache:remote", "games", "players", "teams"}, all)

	caches, err := store.Namespaces(context.Background(), "cache:*")
	require.NoError(t, err)
	assert.Equal(t, []string{"cache:remote"}, caches)

	_, err = store.Namespaces(context.Background(), "[")
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	store := core.NewStore(memory.New())
	seed(t, store)

	snap, err := store.Export(context.Background(), "*s", "missing")
	require.NoError(t, err)
	assert.Equal(t, core.SnapshotVersion, snap.Version)
	assert.Len(t, snap.Namespaces, 3)
	assert.JSONEq(t, `[{"id":"1"}]`, string(snap.Namespaces["teams"]))
}

func TestImport_RejectsInvalidJSON(t *testing.T) {
	store := core.NewStore(memory.New())
	snap := &core.Snapshot{Namespaces: map[string]json.RawMessage{"teams": json.RawMessage(`{`)}}

	_, err := store.Import(context.Background(), snap)
	assert.ErrorIs(t, err, core.ErrCorruptNamespace)

	_, err = store.Import(context.Background(), nil)
	assert.Error(t, err)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	store := core.NewStore(memory.New())
	seed(t, store)

	n, err := store.Clear(ctx, "cache:*")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = store.Clear(ctx, "teams", "games")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	left, err := store.Namespaces(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"players"}, left)

	_, err = store.Clear(ctx)
	assert.Error(t, err)
}

// plainMedium supports only Get and Set.
type plainMedium struct{ m *memory.Medium }

func (p plainMedium) Get(ctx context.Context, k string) (string, bool, error) { return p.m.Get(ctx, k) }
func (p plainMedium) Set(ctx context.Context, k, v string) error             { return p.m.Set(ctx, k, v) }

func TestSnapshot_MinimalMedium(t *testing.T) {
	ctx := context.Background()
	store := core.NewStore(plainMedium{memory.New()})
	_, err := store.Save(ctx, "teams", core.Record{"id": "1"})
	require.NoError(t, err)

	snap, err := store.Export(ctx, "teams")
	require.NoError(t, err, "literal names need no key listing")
	assert.Len(t, snap.Namespaces, 1)

	_, err = store.Export(ctx, "*")
	assert.ErrorIs(t, err, core.ErrUnsupported)

	_, err = store.Clear(ctx, "teams")
	assert.ErrorIs(t, err, core.ErrUnsupported)
}
