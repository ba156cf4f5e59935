package graph

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tagvault/internal/store"
)

func setupSeededStore(t *testing.T) (*store.Store, store.FileResult) {
	t.Helper()
	dir := t.TempDir()

	st, err := store.Open(filepath.Join(dir, "load.edb"), store.Options{
		Seed: &store.Seed{Groups: []store.SeedGroup{
			{Name: "People", Tags: []string{"Alice", "Bob"}},
			{Name: "Places", Tags: []string{"Tokyo"}},
		}},
	})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	path := filepath.Join(dir, "photo.jpg")
	require.NoError(t, os.WriteFile(path, []byte("pixels"), 0o644))
	results := st.CreateFiles(context.Background(), []store.FileCreate{{Path: path}})
	require.Nil(t, results[0].Err)

	return st, results[0]
}

func TestLoad_EmptyStore(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "empty.edb"), store.Options{})
	require.NoError(t, err)
	defer st.Close()

	g, err := Load(context.Background(), st)
	require.NoError(t, err)
	assert.Zero(t, g.GroupCount())
	assert.Zero(t, g.TagCount())
	assert.Zero(t, g.FileCount())
}

func TestLoad_WiresAllStages(t *testing.T) {
	st, file := setupSeededStore(t)
	ctx := context.Background()

	// Tag the file with Alice (id 1) and Tokyo (id 3).
	linkResults := st.CreateLinks(ctx, []store.Link{
		{TagID: 1, FileID: file.ID},
		{TagID: 3, FileID: file.ID},
	})
	for _, res := range linkResults {
		require.Nil(t, res.Err)
	}

	g, err := Load(ctx, st)
	require.NoError(t, err)

	assert.Equal(t, 2, g.GroupCount())
	assert.Equal(t, 3, g.TagCount())
	assert.Equal(t, 1, g.FileCount())

	people := g.GroupByName("People")
	require.NotNil(t, people)
	assert.Equal(t, 2, people.TagCount())

	loaded := g.FileByDigest(file.Digest)
	require.NotNil(t, loaded)
	assert.Equal(t, file.Path, loaded.Path)
	assert.Equal(t, []int64{1, 3}, loaded.TagIDs())

	// Both sides of each association must be wired.
	assert.True(t, g.Linked(1, file.ID))
	assert.True(t, g.Linked(3, file.ID))
	assert.False(t, g.Linked(2, file.ID))

	groups := g.OwningGroups(loaded)
	require.Len(t, groups, 2)
	assert.Equal(t, "People", groups[0].Name)
	assert.Equal(t, "Places", groups[1].Name)
}

func TestLoad_MatchesIncrementalState(t *testing.T) {
	st, file := setupSeededStore(t)
	ctx := context.Background()

	res := st.CreateLinks(ctx, []store.Link{{TagID: 2, FileID: file.ID}})
	require.Nil(t, res[0].Err)

	// A reload from scratch must agree with a graph mutated incrementally.
	incremental, err := Load(ctx, st)
	require.NoError(t, err)

	unlinked := st.DeleteLinks(ctx, []store.Link{{TagID: 2, FileID: file.ID}})
	require.Nil(t, unlinked[0].Err)
	incremental.Unlink(2, file.ID)

	reloaded, err := Load(ctx, st)
	require.NoError(t, err)

	assert.Equal(t, incremental.Linked(2, file.ID), reloaded.Linked(2, file.ID))
	assert.Equal(t, incremental.Tag(2).FileCount(), reloaded.Tag(2).FileCount())
	assert.Equal(t, incremental.File(file.ID).TagCount(), reloaded.File(file.ID).TagCount())
}
