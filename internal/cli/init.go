package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"tagvault/internal/store"
	"tagvault/internal/vault"
)

// InitOptions holds flags for the init command.
type InitOptions struct {
	*RootOptions
	SeedPath string
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a new vault database",
		Long: `Create a new vault database at the --db path.

An existing valid database is left as is. With --seed, default groups
and tags from a YAML file are written into a freshly created database.

Example:
  tagvault --db ./vault.db init
  tagvault --db ./vault.db init --seed defaults.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.SeedPath, "seed", "", "YAML file with default groups and tags")

	return cmd
}

func runInit(opts *InitOptions, cmd *cobra.Command) error {
	var seed *store.Seed
	if opts.SeedPath != "" {
		var err error
		seed, err = store.LoadSeed(opts.SeedPath)
		if err != nil {
			return WrapExitError(ExitCommandError, "load seed", err)
		}
	}

	s, err := vault.Open(cmd.Context(), opts.Database, vault.Options{Seed: seed})
	if err != nil {
		return WrapExitError(ExitCommandError, "open vault", err)
	}
	defer s.Close()

	formatter := newFormatter(cmd, opts.RootOptions)
	summary := struct {
		Path   string `json:"path"`
		Groups int    `json:"groups"`
		Tags   int    `json:"tags"`
		Files  int    `json:"files"`
	}{s.Path(), s.Graph().GroupCount(), s.Graph().TagCount(), s.Graph().FileCount()}

	if opts.Format == "json" {
		return formatter.Success(summary)
	}
	fmt.Fprintf(formatter.Writer, "vault ready at %s (%d groups, %d tags, %d files)\n",
		summary.Path, summary.Groups, summary.Tags, summary.Files)
	return nil
}
