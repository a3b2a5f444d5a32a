package export

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/iksnae/smartnotes/internal"
)

// Exporter defines the interface for all export formats
type Exporter interface {
	Export(export *internal.NotebookExport, w io.Writer) error
	Extension() string
}

// Formats lists the accepted format names
var Formats = []string{"jsonl", "md", "yaml", "json"}

// NewExporter creates a new exporter based on format. ex derives titles for
// untitled notes; nil means the default caps.
func NewExporter(format string, ex *internal.Extractor) (Exporter, error) {
	if ex == nil {
		ex = internal.NewExtractor(0, 0)
	}
	switch format {
	case "jsonl":
		return &JSONLExporter{extractor: ex}, nil
	case "md", "markdown":
		return &MarkdownExporter{extractor: ex}, nil
	case "yaml":
		return &YAMLExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: jsonl, md, yaml, json)", format)
	}
}

// noteTitle returns the stored title, or one derived from the content
func noteTitle(n internal.Note, ex *internal.Extractor) string {
	if n.Title != "" {
		return n.Title
	}
	return ex.Title(n.Content)
}

// JSONExporter writes the whole bundle as one indented JSON document. Notes
// keep their stored markup; titles are not derived.
type JSONExporter struct{}

func (e *JSONExporter) Export(export *internal.NotebookExport, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(export)
}

func (e *JSONExporter) Extension() string { return "json" }

// YAMLExporter writes the same bundle as JSONExporter in YAML, the format
// the config file uses
type YAMLExporter struct{}

func (e *YAMLExporter) Export(export *internal.NotebookExport, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(export); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

func (e *YAMLExporter) Extension() string { return "yaml" }
