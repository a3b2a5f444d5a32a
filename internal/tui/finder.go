package tui

import (
	"fmt"
	"strings"

	"github.com/koki-develop/go-fzf"

	"github.com/iksnae/smartnotes/internal"
)

// NoteItem is a note with the names of the folder and notebook it lives in
type NoteItem struct {
	Folder   string
	Notebook string
	Note     internal.Note
}

// FindNote presents an interactive fuzzy finder over items. It returns nil
// when the user cancels.
func FindNote(items []NoteItem, ex *internal.Extractor) (*NoteItem, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("no notes found")
	}
	if ex == nil {
		ex = internal.NewExtractor(0, 0)
	}

	f, err := fzf.New(
		fzf.WithPrompt("Notes > "),
		fzf.WithInputPosition(fzf.InputPositionTop),
		fzf.WithLimit(1),
	)
	if err != nil {
		return nil, err
	}

	idxs, err := f.Find(
		items,
		func(i int) string {
			return formatNoteLine(items[i], ex)
		},
		fzf.WithPreviewWindow(func(i, w, h int) string {
			if i < 0 || i >= len(items) {
				return ""
			}
			return formatNotePreview(items[i], ex, w)
		}),
	)
	if err != nil {
		return nil, err
	}
	if len(idxs) == 0 {
		return nil, nil // User cancelled
	}

	return &items[idxs[0]], nil
}

func formatNoteLine(item NoteItem, ex *internal.Extractor) string {
	title := item.Note.Title
	if title == "" {
		title = ex.Title(item.Note.Content)
	}
	updated := "                "
	if !item.Note.UpdatedAt.IsZero() {
		updated = item.Note.UpdatedAt.Local().Format("2006-01-02 15:04")
	}
	return fmt.Sprintf("%s  %-24s  %s",
		updated,
		fixedWidth(item.Folder+" / "+item.Notebook, 24),
		title)
}

func formatNotePreview(item NoteItem, ex *internal.Extractor, width int) string {
	var b strings.Builder

	b.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	b.WriteString(fmt.Sprintf("Note:     %s\n", item.Note.ID))
	b.WriteString(fmt.Sprintf("Folder:   %s\n", item.Folder))
	b.WriteString(fmt.Sprintf("Notebook: %s\n", item.Notebook))
	b.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	text := internal.ExtractText(item.Note.Content)
	if text == "" {
		b.WriteString(ex.Preview(item.Note.Content))
		b.WriteString("\n")
		return b.String()
	}
	for _, line := range wordWrap(text, max(20, width-2)) {
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
