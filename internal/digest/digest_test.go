package digest

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestFile_StableAcrossPaths(t *testing.T) {
	dir := t.TempDir()
	content := []byte("the same bytes, twice over")

	a := writeFile(t, dir, "a.bin", content)
	b := writeFile(t, dir, "subdir-free-b.bin", content)

	da, err := File(a)
	require.NoError(t, err)
	db, err := File(b)
	require.NoError(t, err)

	assert.Equal(t, da, db, "identical content must digest identically regardless of path")
	assert.Len(t, da, 64, "hex SHA-256 is 64 characters")
}

func TestFile_DiffersForDifferentContent(t *testing.T) {
	dir := t.TempDir()

	a := writeFile(t, dir, "a.bin", []byte("content one"))
	b := writeFile(t, dir, "b.bin", []byte("content two"))

	da, err := File(a)
	require.NoError(t, err)
	db, err := File(b)
	require.NoError(t, err)

	assert.NotEqual(t, da, db)
}

func TestFile_LargerThanChunk(t *testing.T) {
	dir := t.TempDir()

	// Spans multiple read chunks to exercise the streaming path.
	content := bytes.Repeat([]byte{0xAB}, chunkSize*3+17)
	path := writeFile(t, dir, "big.bin", content)

	got, err := File(path)
	require.NoError(t, err)
	assert.Equal(t, Bytes(content), got)
}

func TestFile_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "empty", nil)

	got, err := File(path)
	require.NoError(t, err)
	assert.Equal(t, Bytes(nil), got)
}

func TestFile_NotAFile(t *testing.T) {
	dir := t.TempDir()

	_, err := File(filepath.Join(dir, "does-not-exist"))
	assert.ErrorIs(t, err, ErrNotAFile)

	_, err = File(dir)
	assert.ErrorIs(t, err, ErrNotAFile, "directories are not digestible")
}

func TestBytes_MatchesFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte("round trip")
	path := writeFile(t, dir, "f", content)

	fromFile, err := File(path)
	require.NoError(t, err)
	assert.Equal(t, Bytes(content), fromFile)
}
