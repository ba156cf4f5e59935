package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tagvault/internal/schema"
)

func TestOpen_CreatesNewStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh.edb")

	s, err := Open(path, Options{})
	require.NoError(t, err)
	defer s.Close()

	assert.True(t, s.Ready())
	assert.Equal(t, path, s.Path())

	_, err = os.Stat(path)
	assert.NoError(t, err, "store file must exist after a fresh open")

	// All entity tables must be present.
	for name := range schema.TableNames() {
		var got string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", name,
		).Scan(&got)
		assert.NoError(t, err, "table %q missing after creation", name)
	}
}

func TestOpen_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roundtrip.edb")

	s1, err := Open(path, Options{})
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	// Reopen must pass shape validation and come up empty.
	s2, err := Open(path, Options{})
	require.NoError(t, err)
	defer s2.Close()

	ctx := context.Background()
	groups, err := s2.ReadAllGroups(ctx)
	require.NoError(t, err)
	assert.Empty(t, groups)

	tags, err := s2.ReadAllTags(ctx)
	require.NoError(t, err)
	assert.Empty(t, tags)

	files, err := s2.ReadAllFiles(ctx)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestOpen_InvalidFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.edb")
	content := []byte("this is definitely not a sqlite database, not even close")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	_, err := Open(path, Options{})
	require.Error(t, err)
	assert.True(t, IsInvalidFormat(err), "expected INVALID_FORMAT, got %v", err)

	// The rejected file must not have been mutated.
	after, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, content, after)
}

func TestOpen_EmptyFileTreatedAsFresh(t *testing.T) {
	// A zero-byte file is a valid SQLite database with schema_version 0.
	path := filepath.Join(t.TempDir(), "empty.edb")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	s, err := Open(path, Options{})
	require.NoError(t, err)
	defer s.Close()

	assert.True(t, s.Ready())
	groups, err := s.ReadAllGroups(context.Background())
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestOpen_SchemaMismatch_MissingTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.edb")

	s, err := Open(path, Options{})
	require.NoError(t, err)
	_, err = s.db.Exec("DROP TABLE " + schema.TableTags)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = Open(path, Options{})
	require.Error(t, err)
	assert.True(t, IsSchemaMismatch(err), "expected SCHEMA_MISMATCH, got %v", err)
}

func TestOpen_SchemaMismatch_ColumnDrift(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drifted.edb")

	s, err := Open(path, Options{})
	require.NoError(t, err)
	_, err = s.db.Exec("ALTER TABLE " + schema.TableFiles + " ADD COLUMN stray TEXT")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = Open(path, Options{})
	require.Error(t, err)
	assert.True(t, IsSchemaMismatch(err), "expected SCHEMA_MISMATCH, got %v", err)
}

func TestOpen_ToleratesUnrecognizedTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shared.edb")

	s, err := Open(path, Options{})
	require.NoError(t, err)
	_, err = s.db.Exec("CREATE TABLE unrelated_app_data (k TEXT, v TEXT)")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Extra tables warn but never reject the open.
	s2, err := Open(path, Options{})
	require.NoError(t, err)
	defer s2.Close()
	assert.True(t, s2.Ready())
}

func TestOpen_AppliesSeedOnFreshStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seeded.edb")
	seed := &Seed{Groups: []SeedGroup{
		{Name: "People", Tags: []string{"Alice", "Bob"}},
		{Name: "Places", Tags: []string{"New York"}},
	}}

	s, err := Open(path, Options{Seed: seed})
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	groups, err := s.ReadAllGroups(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "People", groups[0].Name)
	assert.Len(t, groups[0].TagIDs, 2)
	assert.Equal(t, "Places", groups[1].Name)
	assert.Len(t, groups[1].TagIDs, 1)

	tags, err := s.ReadAllTags(ctx)
	require.NoError(t, err)
	assert.Len(t, tags, 3)
}

func TestOpen_SeedIgnoredOnExistingStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "existing.edb")

	s1, err := Open(path, Options{})
	require.NoError(t, err)
	mustCreateGroup(t, s1, "Existing")
	require.NoError(t, s1.Close())

	seed := &Seed{Groups: []SeedGroup{{Name: "ShouldNotAppear"}}}
	s2, err := Open(path, Options{Seed: seed})
	require.NoError(t, err)
	defer s2.Close()

	groups, err := s2.ReadAllGroups(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "Existing", groups[0].Name)
}

func TestOpen_ForeignKeysEnforced(t *testing.T) {
	s := openTestStore(t)

	var enabled int
	require.NoError(t, s.db.QueryRow("PRAGMA foreign_keys").Scan(&enabled))
	assert.Equal(t, 1, enabled)
}

func TestClose_BeforeAnyLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shortlived.edb")

	s, err := Open(path, Options{})
	require.NoError(t, err)

	// Closing right after open, with no bulk load in between, must be safe.
	assert.NoError(t, s.Close())
	assert.False(t, s.Ready())
}

func TestClose_NilDB(t *testing.T) {
	s := &Store{}
	assert.NoError(t, s.Close())
}

func TestLoadSeed(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "seed.yaml", []byte(`
groups:
  - name: People
    tags: [Alice, Bob]
  - name: Pets
    tags:
      - Luna
`))

	seed, err := LoadSeed(path)
	require.NoError(t, err)
	require.Len(t, seed.Groups, 2)
	assert.Equal(t, "People", seed.Groups[0].Name)
	assert.Equal(t, []string{"Alice", "Bob"}, seed.Groups[0].Tags)
	assert.Equal(t, []string{"Luna"}, seed.Groups[1].Tags)
}

func TestLoadSeed_Missing(t *testing.T) {
	_, err := LoadSeed(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadSeed_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "bad.yaml", []byte("groups: {not: [valid"))

	_, err := LoadSeed(path)
	assert.Error(t, err)
}

func TestFileByPath_NoRows(t *testing.T) {
	s := openTestStore(t)

	_, err := s.FileByPath(context.Background(), "/no/such/path")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
