package cmd

import (
	"fmt"
	"html"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iksnae/smartnotes/internal"
)

var (
	noteTitle   string
	noteContent string
	noteFile    string
)

var notesCmd = &cobra.Command{
	Use:     "notes",
	Aliases: []string{"note"},
	Short:   "Create, update and delete notes",
	Long: `Manage the notes inside a notebook.

Content is given with --content or read from --file ("-" reads stdin). Plain
text is turned into paragraphs; content starting with "<" is sent as markup.`,
}

var noteCreateCmd = &cobra.Command{
	Use:   "create <notebook-id>",
	Short: "Append a note to a notebook",
	Example: `  smartnotes notes create 12 --title "Pancakes" --content "Flour, eggs, milk"
  smartnotes notes create 12 --title "Minutes" --file minutes.html`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := readContent(cmd)
		if err != nil {
			return err
		}
		return withApp(cmd, true, func(a *app) error {
			n, err := a.client.CreateNote(cmd.Context(), internal.ID(args[0]), noteTitle, content)
			if err != nil {
				return fmt.Errorf("failed to create note: %w", err)
			}
			printCreated(cmd, "note", n.ID, n.Title)
			return nil
		})
	},
}

var noteUpdateCmd = &cobra.Command{
	Use:   "update <note-id>",
	Short: "Replace a note's title or content",
	Long: `Replace a note's title or content.

Whatever is not given keeps its current value.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var content string
		replaceContent := cmd.Flags().Changed("content") || cmd.Flags().Changed("file")
		if replaceContent {
			var err error
			if content, err = readContent(cmd); err != nil {
				return err
			}
		}

		return withApp(cmd, true, func(a *app) error {
			ctx := cmd.Context()
			current, err := a.client.GetNote(ctx, internal.ID(args[0]))
			if err != nil {
				return fmt.Errorf("failed to load note: %w", err)
			}

			title := current.Title
			if cmd.Flags().Changed("title") {
				title = noteTitle
			}
			if !replaceContent {
				content = current.Content
			}

			n, err := a.client.UpdateNote(ctx, current.ID, title, content)
			if err != nil {
				return fmt.Errorf("failed to update note: %w", err)
			}
			printUpdated(cmd, "note", n.ID, n.Title)
			return nil
		})
	},
}

var noteDeleteCmd = &cobra.Command{
	Use:   "delete <note-id>",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, true, func(a *app) error {
			id := internal.ID(args[0])
			if err := a.client.DeleteNote(cmd.Context(), id); err != nil {
				return fmt.Errorf("failed to delete note: %w", err)
			}
			printDeleted(cmd, "note", id)
			return nil
		})
	},
}

// readContent resolves --content and --file into note markup
func readContent(cmd *cobra.Command) (string, error) {
	if noteContent != "" && noteFile != "" {
		return "", &internal.ValidationError{Field: "content", Reason: "use either --content or --file"}
	}

	raw := noteContent
	if noteFile != "" {
		var (
			data []byte
			err  error
		)
		if noteFile == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(noteFile)
		}
		if err != nil {
			return "", fmt.Errorf("failed to read content: %w", err)
		}
		raw = string(data)
	}
	return textToMarkup(raw), nil
}

// textToMarkup wraps plain text in paragraphs, one per blank-line separated
// block. Text that already starts with a tag is returned unchanged.
func textToMarkup(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || strings.HasPrefix(trimmed, "<") {
		return trimmed
	}

	var b strings.Builder
	for _, block := range strings.Split(strings.ReplaceAll(trimmed, "\r\n", "\n"), "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		lines := strings.Split(block, "\n")
		for i, l := range lines {
			lines[i] = html.EscapeString(strings.TrimSpace(l))
		}
		b.WriteString("<p>")
		b.WriteString(strings.Join(lines, "<br>"))
		b.WriteString("</p>")
	}
	return b.String()
}

func init() {
	rootCmd.AddCommand(notesCmd)
	notesCmd.AddCommand(noteCreateCmd, noteUpdateCmd, noteDeleteCmd)

	for _, c := range []*cobra.Command{noteCreateCmd, noteUpdateCmd} {
		c.Flags().StringVarP(&noteTitle, "title", "t", "", "Note title")
		c.Flags().StringVarP(&noteContent, "content", "c", "", "Note content, plain text or markup")
		c.Flags().StringVarP(&noteFile, "file", "f", "", "Read content from a file, - for stdin")
	}
	_ = noteCreateCmd.MarkFlagRequired("title")
}
