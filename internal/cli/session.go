package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"tagvault/internal/vault"
)

// openVault opens the session for the configured database, mapping
// open-time failures to a command-level exit code.
func openVault(cmd *cobra.Command, opts *RootOptions) (*vault.Session, error) {
	s, err := vault.Open(cmd.Context(), opts.Database, vault.Options{})
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open vault", err)
	}
	return s, nil
}

func newFormatter(cmd *cobra.Command, opts *RootOptions) *OutputFormatter {
	return &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
}

// parseIDs converts positional arguments to entity keys.
func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, len(args))
	for i, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil, NewExitError(ExitCommandError, "invalid id "+strconv.Quote(arg))
		}
		ids[i] = id
	}
	return ids, nil
}

func parseID(arg string) (int64, error) {
	ids, err := parseIDs([]string{arg})
	if err != nil {
		return 0, err
	}
	return ids[0], nil
}

// groupView is the JSON shape of one tag group.
type groupView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Tags int    `json:"tags"`
}

// tagView is the JSON shape of one tag.
type tagView struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	GroupID int64  `json:"group_id"`
	Files   int    `json:"files"`
}

// fileView is the JSON shape of one registered file.
type fileView struct {
	ID     int64   `json:"id"`
	Path   string  `json:"path"`
	Digest string  `json:"digest"`
	TagIDs []int64 `json:"tag_ids,omitempty"`
}
