package core_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/shelf/pkg/adapters/memory"
	"github.com/aretw0/shelf/pkg/core"
)

func TestDocument(t *testing.T) {
	ctx := context.Background()
	store := core.NewStore(memory.New())
	settings := store.Document("settings", core.Record{"darkMode": true, "language": "pt-BR"})

	exists, err := settings.Exists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)

	loaded, err := settings.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, true, loaded["darkMode"])

	merged, err := settings.Merge(ctx, core.Record{"darkMode": false})
	require.NoError(t, err)
	assert.Equal(t, false, merged["darkMode"])
	assert.Equal(t, "pt-BR", merged["language"])

	require.NoError(t, settings.Replace(ctx, core.Record{"language": "en"}))
	loaded, err = settings.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "en", loaded["language"])
	assert.Equal(t, true, loaded["darkMode"], "defaults fill missing fields")
}

func TestDocument_Corrupt(t *testing.T) {
	ctx := context.Background()
	medium := memory.New()
	require.NoError(t, medium.Set(ctx, "profile", `"just a string"`))

	_, err := core.NewStore(medium).Document("profile", nil).Load(ctx)
	assert.ErrorIs(t, err, core.ErrCorruptNamespace)
}

func TestDocument_Invalid(t *testing.T) {
	ctx := context.Background()
	doc := core.NewStore(memory.New()).Document("", nil)

	_, err := doc.Load(ctx)
	assert.ErrorIs(t, err, core.ErrInvalidNamespace)
	assert.Error(t, core.NewStore(memory.New()).Document("p", nil).Replace(ctx, nil))
}
