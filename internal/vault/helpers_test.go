package vault

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"tagvault/internal/graph"
)

func openTestSession(t *testing.T) (*Session, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vault.db")
	s, err := Open(context.Background(), path, Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func writeTempFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func mustGroup(t *testing.T, s *Session, name string) *graph.TagGroup {
	t.Helper()
	group, err := s.CreateGroup(context.Background(), name)
	require.NoError(t, err)
	return group
}

func mustTag(t *testing.T, s *Session, groupID int64, name string) *graph.Tag {
	t.Helper()
	tag, err := s.CreateTag(context.Background(), groupID, name)
	require.NoError(t, err)
	return tag
}

func mustRegister(t *testing.T, s *Session, path string) *graph.File {
	t.Helper()
	file, err := s.RegisterFile(context.Background(), path)
	require.NoError(t, err)
	return file
}

func mustTagFile(t *testing.T, s *Session, fileID, tagID int64) {
	t.Helper()
	results := s.TagFile(context.Background(), fileID, tagID)
	require.Len(t, results, 1)
	require.Nil(t, results[0].Err)
}
