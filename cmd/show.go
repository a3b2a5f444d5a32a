package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/iksnae/smartnotes/internal"
)

var (
	showRaw   bool
	showWidth int
)

var (
	// Styles for show command
	noteHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			Padding(0, 1).
			MarginBottom(1)

	noteMetaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	noteContentStyle = lipgloss.NewStyle().
				Padding(0, 2).
				MarginBottom(1)

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <note-id>",
	Short: "Show a note",
	Long: `Display a note's title, metadata and text.

The note's markup is rendered as plain text; use --raw to print it unchanged.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, true, func(a *app) error {
			n, err := a.client.GetNote(cmd.Context(), internal.ID(args[0]))
			if err != nil {
				return fmt.Errorf("failed to load note: %w", err)
			}

			out := cmd.OutOrStdout()
			if showRaw {
				_, _ = fmt.Fprintln(out, n.Content)
				return nil
			}
			_, _ = fmt.Fprint(out, renderNote(n, a.extractor, showWidth))
			return nil
		})
	},
}

func renderNote(n *internal.Note, ex *internal.Extractor, width int) string {
	title := n.Title
	if title == "" {
		title = ex.Title(n.Content)
	}

	var b strings.Builder
	b.WriteString(noteHeaderStyle.Render("📝 " + title))
	b.WriteString("\n")

	meta := []string{"ID: " + n.ID.String(), "Notebook: " + n.NotebookID.String()}
	if !n.CreatedAt.IsZero() {
		meta = append(meta, "Created: "+n.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	if !n.UpdatedAt.IsZero() {
		meta = append(meta, "Updated: "+n.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	b.WriteString(noteMetaStyle.Render(strings.Join(meta, " • ")))
	b.WriteString("\n\n")

	text := internal.ExtractText(n.Content)
	if text == "" {
		b.WriteString(noteContentStyle.Render(emptyStyle.Render(internal.NoContent)))
	} else {
		style := noteContentStyle
		if width > 0 {
			style = style.Width(width)
		}
		b.WriteString(style.Render(text))
	}
	b.WriteString("\n")
	return b.String()
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "Print the stored markup unchanged")
	showCmd.Flags().IntVarP(&showWidth, "width", "w", 80, "Wrap text at this width (0 to disable)")
}
