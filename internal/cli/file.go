package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"tagvault/internal/graph"
)

// NewFileCommand creates the file command and its subcommands.
func NewFileCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "file",
		Short: "Register, tag, and list files",
	}

	cmd.AddCommand(newFileAddCommand(rootOpts))
	cmd.AddCommand(newFileRmCommand(rootOpts))
	cmd.AddCommand(newFileLsCommand(rootOpts))
	cmd.AddCommand(newFileTagCommand(rootOpts, true))
	cmd.AddCommand(newFileTagCommand(rootOpts, false))

	return cmd
}

// fileAddResult is one item of a batch registration in JSON output.
type fileAddResult struct {
	Path  string        `json:"path"`
	File  *fileView     `json:"file,omitempty"`
	Error *ErrorPayload `json:"error,omitempty"`
}

func newFileAddCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <path>...",
		Short: "Register files by content digest",
		Long: `Register one or more files. Each file is read once to compute its
content digest; duplicates are reported per item without aborting the
rest of the batch.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openVault(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer s.Close()
			formatter := newFormatter(cmd, rootOpts)

			results := s.RegisterFiles(cmd.Context(), args)
			items := make([]fileAddResult, len(results))
			failures := 0
			for i, res := range results {
				items[i] = fileAddResult{Path: res.Path}
				if res.Err != nil {
					failures++
					items[i].Error = toErrorPayload(res.Err)
					if rootOpts.Format != "json" {
						fmt.Fprintf(formatter.Writer, "%s: [%s] %s\n", res.Path, res.Err.Code, res.Err.Message)
					}
					continue
				}
				items[i].File = &fileView{ID: res.File.ID, Path: res.File.Path, Digest: res.File.Digest}
				if rootOpts.Format != "json" {
					fmt.Fprintf(formatter.Writer, "file %d: %s\n", res.File.ID, res.File.Path)
				}
			}

			if err := formatter.Success(items); err != nil {
				return err
			}
			if failures > 0 {
				return NewExitError(ExitFailure, fmt.Sprintf("%d of %d files not registered", failures, len(results)))
			}
			return nil
		},
	}
}

func newFileRmCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "rm <id>...",
		Short:         "Remove files and their tag associations",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			s, err := openVault(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer s.Close()
			formatter := newFormatter(cmd, rootOpts)

			var failed error
			for _, id := range ids {
				if err := s.DeleteFile(cmd.Context(), id); err != nil {
					failed = formatter.Fail(err)
					continue
				}
				if rootOpts.Format != "json" {
					fmt.Fprintf(formatter.Writer, "file %d removed\n", id)
				}
			}
			if failed != nil {
				return failed
			}
			return formatter.Success(nil)
		},
	}
}

func newFileLsCommand(rootOpts *RootOptions) *cobra.Command {
	var tagArg string

	cmd := &cobra.Command{
		Use:           "ls",
		Short:         "List registered files, optionally filtered by tag",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openVault(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer s.Close()
			formatter := newFormatter(cmd, rootOpts)

			var files []*graph.File
			if tagArg != "" {
				tagID, err := parseID(tagArg)
				if err != nil {
					return err
				}
				files, err = s.FilesByTag(tagID)
				if err != nil {
					return formatter.Fail(err)
				}
			} else {
				files = s.Files()
			}

			views := make([]fileView, 0, len(files))
			for _, file := range files {
				views = append(views, fileView{ID: file.ID, Path: file.Path, Digest: file.Digest, TagIDs: file.TagIDs()})
				if rootOpts.Format != "json" {
					fmt.Fprintf(formatter.Writer, "%d\t%s\t%s\t(%d tags)\n",
						file.ID, file.Path, file.Digest[:12], file.TagCount())
				}
			}
			return formatter.Success(views)
		},
	}

	cmd.Flags().StringVar(&tagArg, "tag", "", "restrict to files carrying one tag id")

	return cmd
}

// newFileTagCommand builds both directions of the association verb.
func newFileTagCommand(rootOpts *RootOptions, attach bool) *cobra.Command {
	use, short, verb := "tag <file-id> <tag-id>...", "Attach tags to a file", "attached to"
	if !attach {
		use, short, verb = "untag <file-id> <tag-id>...", "Detach tags from a file", "detached from"
	}

	return &cobra.Command{
		Use:           use,
		Short:         short,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fileID, err := parseID(args[0])
			if err != nil {
				return err
			}
			tagIDs, err := parseIDs(args[1:])
			if err != nil {
				return err
			}
			s, err := openVault(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer s.Close()
			formatter := newFormatter(cmd, rootOpts)

			op := s.TagFile
			if !attach {
				op = s.UntagFile
			}

			var failed error
			for _, res := range op(cmd.Context(), fileID, tagIDs...) {
				if res.Err != nil {
					failed = formatter.Fail(res.Err)
					continue
				}
				if rootOpts.Format != "json" {
					fmt.Fprintf(formatter.Writer, "tag %d %s file %d\n", res.TagID, verb, res.FileID)
				}
			}
			if failed != nil {
				return failed
			}
			return formatter.Success(nil)
		},
	}
}
