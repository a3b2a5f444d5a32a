package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/iksnae/smartnotes/internal"
)

func TestJSONExporter_Export(t *testing.T) {
	tests := []struct {
		name   string
		export *internal.NotebookExport
	}{
		{name: "empty notebook", export: internal.CreateTestNotebookExport(0)},
		{name: "notebook with notes", export: internal.CreateTestNotebookExport(2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			exporter := &JSONExporter{}

			if err := exporter.Export(tt.export, &buf); err != nil {
				t.Fatalf("JSONExporter.Export() error = %v", err)
			}

			var got internal.NotebookExport
			if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
				t.Fatalf("Output is not valid JSON: %v\nOutput: %s", err, buf.String())
			}
			if got.Notebook.ID != tt.export.Notebook.ID {
				t.Errorf("Notebook.ID = %q, want %q", got.Notebook.ID, tt.export.Notebook.ID)
			}
			if len(got.Notes) != len(tt.export.Notes) {
				t.Errorf("len(Notes) = %d, want %d", len(got.Notes), len(tt.export.Notes))
			}
			if !bytes.Contains(buf.Bytes(), []byte("\n  \"notebook\"")) {
				t.Errorf("Output should be indented\nOutput: %s", buf.String())
			}
		})
	}
}

func TestJSONExporter_Extension(t *testing.T) {
	exporter := &JSONExporter{}
	if got := exporter.Extension(); got != "json" {
		t.Errorf("JSONExporter.Extension() = %v, want json", got)
	}
}
