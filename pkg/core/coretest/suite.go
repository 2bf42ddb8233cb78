// Package coretest holds the behaviour every core.Medium must show when a
// core.Store runs on top of it. Adapter packages call Run from their tests.
package coretest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/shelf/pkg/core"
)

// Factory returns a fresh, empty medium for one subtest.
type Factory func(t *testing.T) core.Medium

// Run exercises the store contract against media built by newMedium.
func Run(t *testing.T, newMedium Factory) {
	t.Helper()

	open := func(t *testing.T, opts ...core.StoreOption) *core.Store {
		t.Helper()
		s := core.NewStore(newMedium(t), opts...)
		require.NoError(t, s.Initialize(context.Background()))
		return s
	}

	t.Run("SaveAssignsUniqueID", func(t *testing.T) {
		ctx := context.Background()
		s := open(t)

		var ids []string
		for i := range 5 {
			saved, err := s.Save(ctx, "teams", core.Record{"name": fmt.Sprintf("team-%d", i)})
			require.NoError(t, err)
			require.NotEmpty(t, saved.ID())
			ids = append(ids, saved.ID())

			list, err := s.List(ctx, "teams")
			require.NoError(t, err)
			require.Len(t, list, i+1)
			assert.Equal(t, saved, list[i])
		}
		assert.Len(t, unique(ids), 5)
	})

	t.Run("SaveReplacesInPlace", func(t *testing.T) {
		ctx := context.Background()
		s := open(t)

		a, err := s.Save(ctx, "teams", core.Record{"name": "A"})
		require.NoError(t, err)
		_, err = s.Save(ctx, "teams", core.Record{"name": "B"})
		require.NoError(t, err)

		changed := core.Record{"id": a.ID(), "name": "A2", "city": "Recife"}
		_, err = s.Save(ctx, "teams", changed)
		require.NoError(t, err)

		list, err := s.List(ctx, "teams")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, changed, list[0])
		assert.Equal(t, "B", list[1]["name"])
	})

	t.Run("DeleteIsIdempotent", func(t *testing.T) {
		ctx := context.Background()
		s := open(t)

		a, err := s.Save(ctx, "tasks", core.Record{"title": "a"})
		require.NoError(t, err)
		b, err := s.Save(ctx, "tasks", core.Record{"title": "b"})
		require.NoError(t, err)

		ok, err := s.Delete(ctx, "tasks", a.ID())
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = s.Delete(ctx, "tasks", a.ID())
		require.NoError(t, err)
		assert.False(t, ok)

		list, err := s.List(ctx, "tasks")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, b.ID(), list[0].ID())
	})

	t.Run("EmptyNamespace", func(t *testing.T) {
		s := open(t)

		list, err := s.List(context.Background(), "never-written")
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)

		_, found, err := s.Get(context.Background(), "never-written", "1")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("FavoriteToggleIsSelfInverse", func(t *testing.T) {
		ctx := context.Background()
		s := open(t)
		entity := core.Record{"id": "42", "name": "Bolo"}

		on, err := s.ToggleFavorite(ctx, entity, "recipe")
		require.NoError(t, err)
		assert.True(t, on)
		fav, err := s.IsFavorite(ctx, "recipe", "42")
		require.NoError(t, err)
		assert.True(t, fav)

		on, err = s.ToggleFavorite(ctx, entity, "recipe")
		require.NoError(t, err)
		assert.False(t, on)
		fav, err = s.IsFavorite(ctx, "recipe", "42")
		require.NoError(t, err)
		assert.False(t, fav)
	})

	t.Run("LenientUpsert", func(t *testing.T) {
		ctx := context.Background()
		s := open(t)

		_, err := s.Save(ctx, "players", core.Record{"name": "first"})
		require.NoError(t, err)
		saved, err := s.Save(ctx, "players", core.Record{"id": "nonexistent-id", "name": "x"})
		require.NoError(t, err)
		assert.Equal(t, "nonexistent-id", saved.ID())

		list, err := s.List(ctx, "players")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "nonexistent-id", list[1].ID())
	})

	t.Run("NamespacesAreIndependent", func(t *testing.T) {
		ctx := context.Background()
		s := open(t)

		_, err := s.Save(ctx, "teams", core.Record{"id": "1"})
		require.NoError(t, err)
		_, err = s.Save(ctx, "players", core.Record{"id": "1"})
		require.NoError(t, err)

		ok, err := s.Delete(ctx, "teams", "1")
		require.NoError(t, err)
		require.True(t, ok)

		players, err := s.List(ctx, "players")
		require.NoError(t, err)
		assert.Len(t, players, 1)
	})

	t.Run("ConcurrentSavesKeepEveryRecord", func(t *testing.T) {
		ctx := context.Background()
		s := open(t, core.WithIDGenerator(core.UUIDIDs{}))

		const n = 20
		var wg sync.WaitGroup
		errs := make(chan error, n)
		for i := range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.Save(ctx, "tasks", core.Record{"n": float64(i)})
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		list, err := s.List(ctx, "tasks")
		require.NoError(t, err)
		assert.Len(t, list, n)
	})

	t.Run("ExportImportRoundTrip", func(t *testing.T) {
		ctx := context.Background()
		src := open(t)

		_, err := src.Save(ctx, "teams", core.Record{"id": "1", "name": "Reds"})
		require.NoError(t, err)
		_, err = src.Document("settings", nil).Merge(ctx, core.Record{"darkMode": false})
		require.NoError(t, err)

		snap, err := src.Export(ctx, "teams", "settings")
		require.NoError(t, err)
		require.Len(t, snap.Namespaces, 2)

		dst := open(t)
		n, err := dst.Import(ctx, snap)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		teams, err := dst.List(ctx, "teams")
		require.NoError(t, err)
		require.Len(t, teams, 1)
		assert.Equal(t, "Reds", teams[0]["name"])

		settings, err := dst.Document("settings", nil).Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, false, settings["darkMode"])
	})
}

func unique(ids []string) map[string]struct{} {
	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}
