package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/iksnae/smartnotes/internal"
)

func TestJSONLExporter_Export(t *testing.T) {
	tests := []struct {
		name   string
		export *internal.NotebookExport
		want   []string
		lines  int
	}{
		{
			name:   "empty notebook",
			export: internal.CreateTestNotebookExport(0),
			want:   []string{},
			lines:  0,
		},
		{
			name:   "notebook with notes",
			export: internal.CreateTestNotebookExport(3),
			want: []string{
				`"title":"Note 1"`,
				`"text":"Body of note 2"`,
				`"notebook":"Test Notebook"`,
			},
			lines: 3,
		},
		{
			name: "untitled note",
			export: &internal.NotebookExport{
				Notebook: internal.CreateTestNotebook("nb-9", "f-1", "Scratch"),
				Notes: []internal.Note{
					internal.CreateTestNote("n-1", "nb-9", "", "<h1>Plan</h1><p>ship it</p>"),
				},
			},
			want: []string{
				`"title":"Plan ship it"`,
				`"content":"<h1>Plan</h1><p>ship it</p>"`,
			},
			lines: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			exporter := &JSONLExporter{extractor: internal.NewExtractor(0, 0)}

			if err := exporter.Export(tt.export, &buf); err != nil {
				t.Fatalf("JSONLExporter.Export() error = %v", err)
			}

			output := buf.String()
			lines := strings.Split(strings.TrimSpace(output), "\n")
			if output == "" {
				lines = nil
			}
			if len(lines) != tt.lines {
				t.Fatalf("Expected %d lines, got %d\nOutput: %s", tt.lines, len(lines), output)
			}

			// Each line must be a standalone JSON object
			for i, line := range lines {
				var obj map[string]interface{}
				if err := json.Unmarshal([]byte(line), &obj); err != nil {
					t.Errorf("Line %d is not valid JSON: %v\nLine: %s", i+1, err, line)
				}
			}

			for _, want := range tt.want {
				if !strings.Contains(output, want) {
					t.Errorf("Output should contain %q\nOutput: %s", want, output)
				}
			}
		})
	}
}

func TestJSONLExporter_Extension(t *testing.T) {
	exporter := &JSONLExporter{}
	if got := exporter.Extension(); got != "jsonl" {
		t.Errorf("JSONLExporter.Extension() = %v, want jsonl", got)
	}
}
