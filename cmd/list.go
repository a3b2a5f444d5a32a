package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/iksnae/smartnotes/internal"
	"github.com/iksnae/smartnotes/internal/browser"
)

var (
	listTree bool
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Italic(true)
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:     "list [folder-id [notebook-id]]",
	Aliases: []string{"ls"},
	Short:   "List folders, notebooks or notes",
	Long: `List one level of the hierarchy.

With no arguments the folders are listed. Given a folder id, that folder's
notebooks are listed; given a folder id and a notebook id, that notebook's notes.
With --tree the whole hierarchy is printed.`,
	Example: `  smartnotes list
  smartnotes list 3
  smartnotes list 3 12
  smartnotes list --tree`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, true, func(a *app) error {
			if listTree {
				return printTree(cmd, a)
			}
			entries, kind, err := browseTo(cmd, a, args)
			if err != nil {
				return err
			}
			displayEntries(cmd.OutOrStdout(), kind, entries)
			return nil
		})
	},
}

// browseTo walks the selection cascade down to the level named by args and
// returns the entries of the deepest tier
func browseTo(cmd *cobra.Command, a *app, args []string) ([]internal.Entry, internal.EntryKind, error) {
	ctx := cmd.Context()
	b := browser.New(a.client)
	defer b.Close()

	b.LoadFolders(ctx)
	b.Wait()
	snap := b.Snapshot()
	if snap.Folders.State == browser.LoadingFailed {
		return nil, internal.KindFolder, fmt.Errorf("failed to load folders: %w", snap.Folders.Err)
	}
	if len(args) == 0 {
		return internal.FolderEntries(snap.Folders.Items), internal.KindFolder, nil
	}

	b.SelectFolder(ctx, internal.ID(args[0]))
	b.Wait()
	snap = b.Snapshot()
	if snap.Notebooks.State == browser.LoadingFailed {
		return nil, internal.KindNotebook, fmt.Errorf("failed to load notebooks: %w", snap.Notebooks.Err)
	}
	if len(args) == 1 {
		return internal.NotebookEntries(snap.Notebooks.Items), internal.KindNotebook, nil
	}

	if err := b.SelectNotebook(ctx, internal.ID(args[1])); err != nil {
		return nil, internal.KindNote, err
	}
	b.Wait()
	snap = b.Snapshot()
	if snap.Notes.State == browser.LoadingFailed {
		return nil, internal.KindNote, fmt.Errorf("failed to load notes: %w", snap.Notes.Err)
	}
	return internal.NoteEntries(snap.Notes.Items, a.extractor), internal.KindNote, nil
}

func printTree(cmd *cobra.Command, a *app) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	folders, err := a.client.ListFolders(ctx)
	if err != nil {
		return fmt.Errorf("failed to load folders: %w", err)
	}
	if len(folders) == 0 {
		_, _ = fmt.Fprintln(out, headerStyle.Render("📋 No folders found"))
		return nil
	}

	for _, f := range folders {
		_, _ = fmt.Fprintf(out, "%s %s\n", titleStyle.Render(f.Title), idStyle.Render("("+f.ID.String()+")"))
		notebooks, err := a.client.ListNotebooks(ctx, f.ID)
		if err != nil {
			return fmt.Errorf("failed to load notebooks of folder %s: %w", f.ID, err)
		}
		for i, nb := range notebooks {
			branch, indent := "├── ", "│   "
			if i == len(notebooks)-1 {
				branch, indent = "└── ", "    "
			}
			_, _ = fmt.Fprintf(out, "%s%s %s\n", branch, nb.Title, idStyle.Render("("+nb.ID.String()+")"))

			notes, err := a.client.ListNotes(ctx, nb.ID)
			if err != nil {
				return fmt.Errorf("failed to load notes of notebook %s: %w", nb.ID, err)
			}
			for j, e := range internal.NoteEntries(notes, a.extractor) {
				leaf := "├── "
				if j == len(notes)-1 {
					leaf = "└── "
				}
				_, _ = fmt.Fprintf(out, "%s%s%s %s\n", indent, leaf, e.Title, idStyle.Render("("+e.ID.String()+")"))
			}
		}
	}
	return nil
}

func displayEntries(out io.Writer, kind internal.EntryKind, entries []internal.Entry) {
	plural := kind.String() + "s"
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(out, headerStyle.Render("📋 No "+plural+" found"))
		return
	}

	header := headerStyle.Render(fmt.Sprintf("📋 Found %d %s(s)", len(entries), kind))
	_, _ = fmt.Fprintln(out, header)
	_, _ = fmt.Fprintln(out)

	// Use tabwriter for aligned columns with better spacing
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)

	_, _ = fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Title")+"\t"+titleStyle.Render("Updated")+"\t"+titleStyle.Render("Details")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 100))

	for _, e := range entries {
		title := e.Title
		if e.Color != "" {
			title = lipgloss.NewStyle().Foreground(lipgloss.Color(e.Color)).Render("●") + " " + title
		}

		details := e.Subtitle
		if len([]rune(details)) > 60 {
			details = string([]rune(details)[:57]) + "..."
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n",
			idStyle.Render(e.ID.String()), title, formatRelative(e.Updated, time.Now()), subtitleStyle.Render(details))
	}

	_ = w.Flush()
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, idStyle.Render("💡 Tip: Use an ID (e.g., ")+
		lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Render(entries[0].ID.String())+
		idStyle.Render(") with "+nextHint(kind)))
}

func nextHint(kind internal.EntryKind) string {
	switch kind {
	case internal.KindFolder:
		return "`smartnotes list <folder-id>`"
	case internal.KindNotebook:
		return "`smartnotes list <folder-id> <notebook-id>`"
	default:
		return "`smartnotes show <note-id>`"
	}
}

// formatRelative renders recent times compactly and older ones as a date
func formatRelative(t, now time.Time) string {
	if t.IsZero() {
		return dateStyle.Render("—")
	}
	t = t.Local()
	diff := now.Sub(t)
	switch {
	case diff < 24*time.Hour:
		return dateStyle.Render(t.Format("Today 15:04"))
	case diff < 7*24*time.Hour:
		return dateStyle.Render(t.Format("Mon 15:04"))
	case diff < 365*24*time.Hour:
		return dateStyle.Render(t.Format("Jan 02 15:04"))
	default:
		return dateStyle.Render(t.Format("2006-01-02"))
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listTree, "tree", false, "Print the whole hierarchy")
}
