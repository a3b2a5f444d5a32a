package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/iksnae/smartnotes/internal"
	"github.com/iksnae/smartnotes/internal/api"
)

var (
	notebookTitle       string
	notebookDescription string
	notebookColor       string
)

var notebooksCmd = &cobra.Command{
	Use:     "notebooks",
	Aliases: []string{"notebook", "nb"},
	Short:   "Create, update and delete notebooks",
	Long: `Manage the notebooks inside a folder.

Colors are a palette name (see 'smartnotes notebooks colors') or a #rrggbb value.`,
}

var notebookCreateCmd = &cobra.Command{
	Use:   "create <folder-id>",
	Short: "Create a notebook at the end of a folder",
	Example: `  smartnotes notebooks create 3 --title Recipes --color green
  smartnotes notebooks create 3 -t Journal -d "Daily notes" -c "#0ea5e9"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, true, func(a *app) error {
			nb, err := a.client.CreateNotebook(cmd.Context(), internal.ID(args[0]), api.NotebookInput{
				Title:       notebookTitle,
				Description: notebookDescription,
				Color:       notebookColor,
			})
			if err != nil {
				return fmt.Errorf("failed to create notebook: %w", err)
			}
			printCreated(cmd, "notebook", nb.ID, nb.Title)
			return nil
		})
	},
}

var notebookUpdateCmd = &cobra.Command{
	Use:   "update <notebook-id>",
	Short: "Change a notebook's title, description or color",
	Long: `Change a notebook's title, description or color.

Fields not given on the command line keep their current value.`,
	Example: `  smartnotes notebooks update 12 --color red`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, true, func(a *app) error {
			ctx := cmd.Context()
			current, err := a.client.FindNotebook(ctx, internal.ID(args[0]))
			if err != nil {
				return fmt.Errorf("failed to find notebook: %w", err)
			}

			in := api.NotebookInput{Title: current.Title, Description: current.Description, Color: current.Color}
			flags := cmd.Flags()
			if flags.Changed("title") {
				in.Title = notebookTitle
			}
			if flags.Changed("description") {
				in.Description = notebookDescription
			}
			if flags.Changed("color") {
				in.Color = notebookColor
			}

			nb, err := a.client.UpdateNotebook(ctx, current.ID, in)
			if err != nil {
				return fmt.Errorf("failed to update notebook: %w", err)
			}
			printUpdated(cmd, "notebook", nb.ID, nb.Title)
			return nil
		})
	},
}

var notebookDeleteCmd = &cobra.Command{
	Use:   "delete <notebook-id>",
	Short: "Delete a notebook and its notes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, true, func(a *app) error {
			id := internal.ID(args[0])
			if err := a.client.DeleteNotebook(cmd.Context(), id); err != nil {
				return fmt.Errorf("failed to delete notebook: %w", err)
			}
			printDeleted(cmd, "notebook", id)
			return nil
		})
	},
}

var notebookColorsCmd = &cobra.Command{
	Use:   "colors",
	Short: "Show the named notebook colors",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		names := make([]string, 0, len(api.NotebookPalette))
		for name := range api.NotebookPalette {
			names = append(names, name)
		}
		sort.Strings(names)

		out := cmd.OutOrStdout()
		for _, name := range names {
			hex := api.NotebookPalette[name]
			swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("●")
			line := fmt.Sprintf("%s %-8s %s", swatch, name, hex)
			if hex == api.DefaultNotebookColor {
				line += idStyle.Render(" (default)")
			}
			_, _ = fmt.Fprintln(out, strings.TrimRight(line, " "))
		}
	},
}

func init() {
	rootCmd.AddCommand(notebooksCmd)
	notebooksCmd.AddCommand(notebookCreateCmd, notebookUpdateCmd, notebookDeleteCmd, notebookColorsCmd)

	for _, c := range []*cobra.Command{notebookCreateCmd, notebookUpdateCmd} {
		c.Flags().StringVarP(&notebookTitle, "title", "t", "", "Notebook title")
		c.Flags().StringVarP(&notebookDescription, "description", "d", "", "Notebook description")
		c.Flags().StringVarP(&notebookColor, "color", "c", "", "Palette name or #rrggbb")
	}
	_ = notebookCreateCmd.MarkFlagRequired("title")
}
