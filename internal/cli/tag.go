package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"tagvault/internal/graph"
)

// NewTagCommand creates the tag command and its subcommands.
func NewTagCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage tags",
	}

	cmd.AddCommand(newTagAddCommand(rootOpts))
	cmd.AddCommand(newTagRmCommand(rootOpts))
	cmd.AddCommand(newTagLsCommand(rootOpts))
	cmd.AddCommand(newTagMvCommand(rootOpts))

	return cmd
}

func newTagAddCommand(rootOpts *RootOptions) *cobra.Command {
	var groupArg string

	cmd := &cobra.Command{
		Use:           "add --group <id> <name>...",
		Short:         "Create tags under a group",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			groupID, err := parseID(groupArg)
			if err != nil {
				return err
			}
			s, err := openVault(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer s.Close()
			formatter := newFormatter(cmd, rootOpts)

			views := make([]tagView, 0, len(args))
			var failed error
			for _, name := range args {
				tag, err := s.CreateTag(cmd.Context(), groupID, name)
				if err != nil {
					failed = formatter.Fail(err)
					continue
				}
				views = append(views, tagView{ID: tag.ID, Name: tag.Name, GroupID: tag.GroupID})
				if rootOpts.Format != "json" {
					fmt.Fprintf(formatter.Writer, "tag %d: %s\n", tag.ID, tag.Name)
				}
			}
			if failed != nil {
				return failed
			}
			return formatter.Success(views)
		},
	}

	cmd.Flags().StringVar(&groupArg, "group", "", "owning group id (required)")
	_ = cmd.MarkFlagRequired("group")

	return cmd
}

func newTagRmCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "rm <id>...",
		Short:         "Delete tags with no associated files",
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
				if err := s.DeleteTag(cmd.Context(), id); err != nil {
					failed = formatter.Fail(err)
					continue
				}
				if rootOpts.Format != "json" {
					fmt.Fprintf(formatter.Writer, "tag %d removed\n", id)
				}
			}
			if failed != nil {
				return failed
			}
			return formatter.Success(nil)
		},
	}
}

func newTagLsCommand(rootOpts *RootOptions) *cobra.Command {
	var groupArg string

	cmd := &cobra.Command{
		Use:           "ls",
		Short:         "List tags, optionally scoped to one group",
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

			var tags []*graph.Tag
			if groupArg != "" {
				groupID, err := parseID(groupArg)
				if err != nil {
					return err
				}
				tags, err = s.TagsIn(groupID)
				if err != nil {
					return formatter.Fail(err)
				}
			} else {
				tags = s.Tags()
			}

			views := make([]tagView, 0, len(tags))
			for _, tag := range tags {
				views = append(views, tagView{ID: tag.ID, Name: tag.Name, GroupID: tag.GroupID, Files: tag.FileCount()})
				if rootOpts.Format != "json" {
					fmt.Fprintf(formatter.Writer, "%d\t%s\tgroup %d\t(%d files)\n",
						tag.ID, tag.Name, tag.GroupID, tag.FileCount())
				}
			}
			return formatter.Success(views)
		},
	}

	cmd.Flags().StringVar(&groupArg, "group", "", "restrict to one group id")

	return cmd
}

func newTagMvCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "mv <id> <new-name>",
		Short:         "Rename a tag within its group",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := openVault(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer s.Close()
			formatter := newFormatter(cmd, rootOpts)

			if err := s.RenameTag(cmd.Context(), id, args[1]); err != nil {
				return formatter.Fail(err)
			}
			if rootOpts.Format != "json" {
				fmt.Fprintf(formatter.Writer, "tag %d renamed to %s\n", id, args[1])
			}
			return formatter.Success(tagView{ID: id, Name: args[1]})
		},
	}
}
