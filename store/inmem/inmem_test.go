package inmem_test

import (
	"context"
	"testing"

	"github.com/dekarrin/gramlex/store"
	"github.com/dekarrin/gramlex/store/inmem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrammarsRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	ds := inmem.NewDatastore()

	created, err := ds.Grammars().Create(ctx, store.Grammar{Name: "sum", Source: "format = \"GRAMLEX\""})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	byID, err := ds.Grammars().GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, byID)

	byName, err := ds.Grammars().GetByName(ctx, "sum")
	require.NoError(t, err)
	assert.Equal(t, created, byName)
}

func TestGrammarsRepository_DuplicateNameFails(t *testing.T) {
	ctx := context.Background()
	ds := inmem.NewDatastore()

	_, err := ds.Grammars().Create(ctx, store.Grammar{Name: "sum"})
	require.NoError(t, err)

	_, err = ds.Grammars().Create(ctx, store.Grammar{Name: "sum"})
	require.ErrorIs(t, err, store.ErrConstraintViolation)
}

func TestGrammarsRepository_DeleteThenGetFails(t *testing.T) {
	ctx := context.Background()
	ds := inmem.NewDatastore()

	created, err := ds.Grammars().Create(ctx, store.Grammar{Name: "sum"})
	require.NoError(t, err)

	deleted, err := ds.Grammars().Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)

	_, err = ds.Grammars().GetByID(ctx, created.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestGrammarsRepository_GetAllSortedByName(t *testing.T) {
	ctx := context.Background()
	ds := inmem.NewDatastore()

	for _, name := range []string{"zeta", "alpha", "mu"} {
		_, err := ds.Grammars().Create(ctx, store.Grammar{Name: name})
		require.NoError(t, err)
	}

	all, err := ds.Grammars().GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"alpha", "mu", "zeta"}, []string{all[0].Name, all[1].Name, all[2].Name})
}
