package typed_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/shelf/pkg/adapters/memory"
	"github.com/aretw0/shelf/pkg/core"
	"github.com/aretw0/shelf/pkg/typed"
)

type Team struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	City  string `json:"city,omitempty"`
	Score int    `json:"score"`
}

func newTeams(t *testing.T) *typed.Collection[Team] {
	t.Helper()
	return typed.New[Team](core.NewStore(memory.New()), "teams")
}

func TestCollection_CRUD(t *testing.T) {
	ctx := context.Background()
	teams := newTeams(t)

	saved, err := teams.Save(ctx, Team{Name: "Reds", Score: 3})
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	got, found, err := teams.Get(ctx, saved.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, saved, got)

	updated, ok, err := teams.Update(ctx, saved.ID, core.Record{"score": 4})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 4, updated.Score)
	assert.Equal(t, "Reds", updated.Name)

	deleted, err := teams.Delete(ctx, saved.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, found, err = teams.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCollection_FindAndSorted(t *testing.T) {
	ctx := context.Background()
	teams := newTeams(t)

	for _, name := range []string{"Cobras", "Ants", "Bees"} {
		_, err := teams.Save(ctx, Team{Name: name, City: "Recife"})
		require.NoError(t, err)
	}
	_, err := teams.Save(ctx, Team{Name: "Ducks", City: "Olinda"})
	require.NoError(t, err)

	recife, err := teams.Find(ctx, func(t Team) bool { return t.City == "Recife" })
	require.NoError(t, err)
	assert.Len(t, recife, 3)

	sorted, err := teams.Sorted(ctx, func(a, b Team) int { return strings.Compare(a.Name, b.Name) })
	require.NoError(t, err)
	names := make([]string, 0, len(sorted))
	for _, s := range sorted {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Ants", "Bees", "Cobras", "Ducks"}, names)
}

func TestCollection_DecodeError(t *testing.T) {
	ctx := context.Background()
	medium := memory.New()
	require.NoError(t, medium.Set(ctx, "teams", `[{"id":"1","score":"not a number"}]`))

	_, err := typed.New[Team](core.NewStore(medium), "teams").List(ctx)
	assert.Error(t, err)
}

func TestCollection_ToggleFavorite(t *testing.T) {
	ctx := context.Background()
	teams := newTeams(t)

	saved, err := teams.Save(ctx, Team{Name: "Reds"})
	require.NoError(t, err)

	on, err := teams.ToggleFavorite(ctx, saved, "team")
	require.NoError(t, err)
	assert.True(t, on)

	fav, err := teams.Store().IsFavorite(ctx, "team", saved.ID)
	require.NoError(t, err)
	assert.True(t, fav)
}

func TestToRecord_RejectsNonObjects(t *testing.T) {
	_, err := typed.ToRecord([]int{1, 2})
	assert.Error(t, err)
}

type Settings struct {
	DarkMode bool   `json:"darkMode"`
	Language string `json:"language"`
}

func TestDocument(t *testing.T) {
	ctx := context.Background()
	store := core.NewStore(memory.New())

	doc, err := typed.NewDocument(store, "settings", Settings{DarkMode: true, Language: "pt-BR"})
	require.NoError(t, err)

	s, err := doc.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, Settings{DarkMode: true, Language: "pt-BR"}, s)

	s, err = doc.Merge(ctx, core.Record{"language": "en"})
	require.NoError(t, err)
	assert.Equal(t, "en", s.Language)
	assert.True(t, s.DarkMode)

	require.NoError(t, doc.Replace(ctx, Settings{Language: "es"}))
	s, err = doc.Load(ctx)
	require.NoError(t, err)
	assert.False(t, s.DarkMode)

	exists, err := doc.Exists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)
}
