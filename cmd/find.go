package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iksnae/smartnotes/internal"
	"github.com/iksnae/smartnotes/internal/tui"
)

var findPrintID bool

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Fuzzy-find a note by title and open it",
	Long: `Load every note you own and pick one with an interactive fuzzy finder.

The chosen note is printed like 'smartnotes show'. With --id only its ID is
printed, which is handy in scripts:

  smartnotes notes update "$(smartnotes find --id)" --title "Renamed"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, true, func(a *app) error {
			var items []tui.NoteItem
			err := internal.ShowProgress(cmd.Context(), "Loading notes", func(ctx context.Context) error {
				var err error
				items, err = collectNotes(ctx, a)
				return err
			})
			if err != nil {
				return err
			}

			picked, err := tui.FindNote(items, a.extractor)
			if err != nil {
				return err
			}
			if picked == nil {
				return nil
			}

			if findPrintID {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), picked.Note.ID)
				return nil
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), renderNote(&picked.Note, a.extractor, showWidth))
			return nil
		})
	},
}

// collectNotes walks every folder and notebook and gathers their notes
func collectNotes(ctx context.Context, a *app) ([]tui.NoteItem, error) {
	folders, err := a.client.ListFolders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}

	var items []tui.NoteItem
	for _, f := range folders {
		notebooks, err := a.client.ListNotebooks(ctx, f.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list notebooks of folder %s: %w", f.ID, err)
		}
		for _, nb := range notebooks {
			notes, err := a.client.ListNotes(ctx, nb.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to list notes of notebook %s: %w", nb.ID, err)
			}
			for _, n := range notes {
				items = append(items, tui.NoteItem{Folder: f.Title, Notebook: nb.Title, Note: n})
			}
		}
	}
	internal.LogDebug("Collected %d note(s) from %d folder(s)", len(items), len(folders))
	return items, nil
}

func init() {
	rootCmd.AddCommand(findCmd)
	findCmd.Flags().BoolVar(&findPrintID, "id", false, "Print only the chosen note's ID")
}
