package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the CLI with the given args against a fresh root command,
// capturing stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func testDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "vault.db")
}

func TestInit_CreatesDatabase(t *testing.T) {
	db := testDB(t)

	out, err := execute(t, "--db", db, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "vault ready")
	assert.FileExists(t, db)
}

func TestInit_WithSeed(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "vault.db")
	seedPath := filepath.Join(dir, "seed.yaml")
	seed := "groups:\n  - name: People\n    tags: [Family, Friends]\n"
	require.NoError(t, os.WriteFile(seedPath, []byte(seed), 0o644))

	out, err := execute(t, "--db", db, "init", "--seed", seedPath)
	require.NoError(t, err)
	assert.Contains(t, out, "1 groups, 2 tags")
}

func TestGroupLifecycle(t *testing.T) {
	db := testDB(t)

	out, err := execute(t, "--db", db, "group", "add", "People", "Places")
	require.NoError(t, err)
	assert.Contains(t, out, "group 1: People")
	assert.Contains(t, out, "group 2: Places")

	out, err = execute(t, "--db", db, "group", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "People")
	assert.Contains(t, out, "Places")

	out, err = execute(t, "--db", db, "group", "mv", "1", "Humans")
	require.NoError(t, err)
	assert.Contains(t, out, "renamed to Humans")

	_, err = execute(t, "--db", db, "group", "rm", "2")
	require.NoError(t, err)

	out, err = execute(t, "--db", db, "group", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "Humans")
	assert.NotContains(t, out, "Places")
}

func TestGroupAdd_DuplicateExitsNonZero(t *testing.T) {
	db := testDB(t)
	_, err := execute(t, "--db", db, "group", "add", "People")
	require.NoError(t, err)

	out, err := execute(t, "--db", db, "group", "add", "People")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "DUPLICATE_NAME")
}

func TestFileWorkflow(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "vault.db")
	photo := filepath.Join(dir, "photo.jpg")
	require.NoError(t, os.WriteFile(photo, []byte("pixels"), 0o644))

	_, err := execute(t, "--db", db, "group", "add", "People")
	require.NoError(t, err)
	_, err = execute(t, "--db", db, "tag", "add", "--group", "1", "Alice")
	require.NoError(t, err)

	out, err := execute(t, "--db", db, "file", "add", photo)
	require.NoError(t, err)
	assert.Contains(t, out, "file 1: "+photo)

	out, err = execute(t, "--db", db, "file", "tag", "1", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "tag 1 attached to file 1")

	// The live tag refuses deletion.
	out, err = execute(t, "--db", db, "tag", "rm", "1")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "TAG_IN_USE")

	out, err = execute(t, "--db", db, "file", "ls", "--tag", "1")
	require.NoError(t, err)
	assert.Contains(t, out, photo)

	_, err = execute(t, "--db", db, "file", "untag", "1", "1")
	require.NoError(t, err)
	_, err = execute(t, "--db", db, "tag", "rm", "1")
	require.NoError(t, err)
}

func TestFileAdd_BatchReportsPerItem(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "vault.db")
	good := filepath.Join(dir, "good.txt")
	require.NoError(t, os.WriteFile(good, []byte("content"), 0o644))
	missing := filepath.Join(dir, "missing.txt")

	out, err := execute(t, "--db", db, "file", "add", good, missing)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "file 1: "+good)
	assert.Contains(t, out, "NOT_A_FILE")

	// The good file made it in despite the failing sibling.
	out, err = execute(t, "--db", db, "file", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, good)
}

func TestJSONOutput(t *testing.T) {
	db := testDB(t)
	_, err := execute(t, "--db", db, "group", "add", "People")
	require.NoError(t, err)

	out, err := execute(t, "--db", db, "--format", "json", "group", "ls")
	require.NoError(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.NotNil(t, resp.Data)
}

func TestJSONErrorOutput(t *testing.T) {
	db := testDB(t)
	_, err := execute(t, "--db", db, "group", "add", "People")
	require.NoError(t, err)

	out, err := execute(t, "--db", db, "--format", "json", "group", "add", "People")
	require.Error(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "DUPLICATE_NAME", resp.Error.Code)
}

func TestOpenError_CommandExitCode(t *testing.T) {
	dir := t.TempDir()
	bogus := filepath.Join(dir, "bogus.db")
	require.NoError(t, os.WriteFile(bogus, []byte("not a database"), 0o644))

	_, err := execute(t, "--db", bogus, "group", "ls")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
