package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/iksnae/smartnotes/internal"
)

// JSONLExporter exports notebooks in JSONL format (one note per line)
type JSONLExporter struct {
	extractor *internal.Extractor
}

type jsonlNote struct {
	ID         internal.ID `json:"id"`
	NotebookID internal.ID `json:"notebook_id"`
	Notebook   string      `json:"notebook"`
	Title      string      `json:"title"`
	Text       string      `json:"text"`
	Content    string      `json:"content"`
	OrderIndex int         `json:"order_index"`
	UpdatedAt  string      `json:"updated_at,omitempty"`
}

// Export writes one JSON object per note, carrying both the plain text and the original markup
func (e *JSONLExporter) Export(export *internal.NotebookExport, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	for _, n := range export.Notes {
		line := jsonlNote{
			ID:         n.ID,
			NotebookID: export.Notebook.ID,
			Notebook:   export.Notebook.Title,
			Title:      noteTitle(n, e.extractor),
			Text:       internal.ExtractText(n.Content),
			Content:    n.Content,
			OrderIndex: n.OrderIndex,
		}
		if !n.UpdatedAt.IsZero() {
			line.UpdatedAt = n.UpdatedAt.Format(time.RFC3339)
		}

		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("failed to encode note %s: %w", n.ID, err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
