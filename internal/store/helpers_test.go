package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// openTestStore creates a fresh store in a temp dir and registers cleanup.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.edb")
	s, err := Open(path, Options{})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// writeTempFile creates a file with the given content and returns its path.
func writeTempFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

// mustCreateGroup creates one group and fails the test on a per-item error.
func mustCreateGroup(t *testing.T, s *Store, name string) int64 {
	t.Helper()
	results := s.CreateGroups(context.Background(), []GroupCreate{{Name: name}})
	require.Len(t, results, 1)
	require.Nil(t, results[0].Err)
	return results[0].ID
}

// mustCreateTag creates one tag and fails the test on a per-item error.
func mustCreateTag(t *testing.T, s *Store, name string, groupID int64) int64 {
	t.Helper()
	results := s.CreateTags(context.Background(), []TagCreate{{Name: name, GroupID: groupID}})
	require.Len(t, results, 1)
	require.Nil(t, results[0].Err)
	return results[0].ID
}

// mustCreateFile registers one file and fails the test on a per-item error.
func mustCreateFile(t *testing.T, s *Store, path string) FileResult {
	t.Helper()
	results := s.CreateFiles(context.Background(), []FileCreate{{Path: path}})
	require.Len(t, results, 1)
	require.Nil(t, results[0].Err)
	return results[0]
}

// mustLink associates one tag-file pair.
func mustLink(t *testing.T, s *Store, tagID, fileID int64) {
	t.Helper()
	results := s.CreateLinks(context.Background(), []Link{{TagID: tagID, FileID: fileID}})
	require.Len(t, results, 1)
	require.Nil(t, results[0].Err)
}
