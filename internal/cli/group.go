package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewGroupCommand creates the group command and its subcommands.
func NewGroupCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Manage tag groups",
	}

	cmd.AddCommand(newGroupAddCommand(rootOpts))
	cmd.AddCommand(newGroupRmCommand(rootOpts))
	cmd.AddCommand(newGroupLsCommand(rootOpts))
	cmd.AddCommand(newGroupMvCommand(rootOpts))

	return cmd
}

func newGroupAddCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "add <name>...",
		Short:         "Create tag groups",
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

			views := make([]groupView, 0, len(args))
			var failed error
			for _, name := range args {
				group, err := s.CreateGroup(cmd.Context(), name)
				if err != nil {
					failed = formatter.Fail(err)
					continue
				}
				views = append(views, groupView{ID: group.ID, Name: group.Name})
				if rootOpts.Format != "json" {
					fmt.Fprintf(formatter.Writer, "group %d: %s\n", group.ID, group.Name)
				}
			}
			if failed != nil {
				return failed
			}
			return formatter.Success(views)
		},
	}
}

func newGroupRmCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "rm <id>...",
		Short:         "Delete empty tag groups",
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
				if err := s.DeleteGroup(cmd.Context(), id); err != nil {
					failed = formatter.Fail(err)
					continue
				}
				if rootOpts.Format != "json" {
					fmt.Fprintf(formatter.Writer, "group %d removed\n", id)
				}
			}
			if failed != nil {
				return failed
			}
			return formatter.Success(nil)
		},
	}
}

func newGroupLsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "ls",
		Short:         "List tag groups",
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

			views := make([]groupView, 0)
			for _, group := range s.Groups() {
				views = append(views, groupView{ID: group.ID, Name: group.Name, Tags: group.TagCount()})
				if rootOpts.Format != "json" {
					fmt.Fprintf(formatter.Writer, "%d\t%s\t(%d tags)\n", group.ID, group.Name, group.TagCount())
				}
			}
			return formatter.Success(views)
		},
	}
}

func newGroupMvCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "mv <id> <new-name>",
		Short:         "Rename a tag group",
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

			if err := s.RenameGroup(cmd.Context(), id, args[1]); err != nil {
				return formatter.Fail(err)
			}
			if rootOpts.Format != "json" {
				fmt.Fprintf(formatter.Writer, "group %d renamed to %s\n", id, args[1])
			}
			return formatter.Success(groupView{ID: id, Name: args[1]})
		},
	}
}
