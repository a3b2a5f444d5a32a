package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iksnae/smartnotes/internal"
)

var foldersCmd = &cobra.Command{
	Use:     "folders",
	Aliases: []string{"folder"},
	Short:   "Create, rename and delete folders",
	Long: `Manage the folders at the top of the hierarchy.

Use 'smartnotes list' to see existing folders.`,
}

var folderCreateCmd = &cobra.Command{
	Use:     "create <title>",
	Short:   "Create a folder",
	Example: `  smartnotes folders create "Work"`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, true, func(a *app) error {
			f, err := a.client.CreateFolder(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("failed to create folder: %w", err)
			}
			printCreated(cmd, "folder", f.ID, f.Title)
			return nil
		})
	},
}

var folderRenameCmd = &cobra.Command{
	Use:     "rename <folder-id> <title>",
	Short:   "Rename a folder",
	Example: `  smartnotes folders rename 3 "Archive"`,
	Args:    cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, true, func(a *app) error {
			f, err := a.client.UpdateFolder(cmd.Context(), internal.ID(args[0]), strings.Join(args[1:], " "))
			if err != nil {
				return fmt.Errorf("failed to rename folder: %w", err)
			}
			printUpdated(cmd, "folder", f.ID, f.Title)
			return nil
		})
	},
}

var folderDeleteCmd = &cobra.Command{
	Use:   "delete <folder-id>",
	Short: "Delete a folder with its notebooks and notes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, true, func(a *app) error {
			id := internal.ID(args[0])
			if err := a.client.DeleteFolder(cmd.Context(), id); err != nil {
				return fmt.Errorf("failed to delete folder: %w", err)
			}
			printDeleted(cmd, "folder", id)
			return nil
		})
	},
}

func printCreated(cmd *cobra.Command, kind string, id internal.ID, title string) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
		successStyle.Render(fmt.Sprintf("✓ Created %s %q", kind, title)), idStyle.Render("(id "+id.String()+")"))
}

func printUpdated(cmd *cobra.Command, kind string, id internal.ID, title string) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
		successStyle.Render(fmt.Sprintf("✓ Updated %s %q", kind, title)), idStyle.Render("(id "+id.String()+")"))
}

func printDeleted(cmd *cobra.Command, kind string, id internal.ID) {
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("✓ Deleted %s %s", kind, id)))
}

func init() {
	rootCmd.AddCommand(foldersCmd)
	foldersCmd.AddCommand(folderCreateCmd, folderRenameCmd, folderDeleteCmd)
}
