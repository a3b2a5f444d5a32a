package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/iksnae/smartnotes/internal"
)

// MarkdownExporter exports notebooks in Markdown format
type MarkdownExporter struct {
	extractor *internal.Extractor
}

// Export writes a heading for the notebook and a section per note
func (e *MarkdownExporter) Export(export *internal.NotebookExport, w io.Writer) error {
	nb := export.Notebook

	// Header
	_, _ = fmt.Fprintf(w, "# %s\n\n", escapeMarkdown(nb.Title))

	if nb.Description != "" {
		_, _ = fmt.Fprintf(w, "%s\n\n", escapeMarkdown(nb.Description))
	}
	if nb.Color != "" {
		_, _ = fmt.Fprintf(w, "**Color:** %s  \n", nb.Color)
	}
	_, _ = fmt.Fprintf(w, "**Notes:** %d  \n", len(export.Notes))
	if !export.ExportedAt.IsZero() {
		_, _ = fmt.Fprintf(w, "**Exported:** %s", export.ExportedAt.Format(time.RFC3339))
	}
	_, _ = fmt.Fprintf(w, "\n\n---\n\n")

	for i, n := range export.Notes {
		_, _ = fmt.Fprintf(w, "## %s\n\n", escapeMarkdown(noteTitle(n, e.extractor)))
		if !n.UpdatedAt.IsZero() {
			_, _ = fmt.Fprintf(w, "_Updated %s_\n\n", n.UpdatedAt.Format("2006-01-02 15:04"))
		}

		body := markdownBody(n.Content)
		if body == "" {
			body = "_" + internal.NoContent + "_"
		}
		_, _ = fmt.Fprintf(w, "%s\n\n", body)

		// Add horizontal rule after each note (except the last one)
		if i < len(export.Notes)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

// markdownBody renders note markup as Markdown paragraphs. Block elements
// start a new paragraph, list items become bullets and images become image links.
func markdownBody(markup string) string {
	var (
		paragraphs []string
		current    strings.Builder
		prefix     string
		skipDepth  int
	)
	flush := func() {
		text := strings.Join(strings.Fields(current.String()), " ")
		current.Reset()
		if text != "" {
			paragraphs = append(paragraphs, prefix+escapeMarkdown(text))
		}
		prefix = ""
	}

	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			flush()
			return strings.Join(paragraphs, "\n\n")
		case html.TextToken:
			if skipDepth == 0 {
				current.Write(z.Text())
			}
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			switch tok.DataAtom {
			case atom.Script, atom.Style:
				if tt == html.StartTagToken {
					skipDepth++
				} else if tt == html.EndTagToken && skipDepth > 0 {
					skipDepth--
				}
			case atom.Img:
				flush()
				for _, attr := range tok.Attr {
					if attr.Key == "src" && attr.Val != "" {
						paragraphs = append(paragraphs, fmt.Sprintf("![](%s)", attr.Val))
					}
				}
			case atom.Li:
				flush()
				if tt == html.StartTagToken {
					prefix = "- "
				}
			case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
				flush()
				if tt == html.StartTagToken {
					prefix = "### "
				}
			case atom.P, atom.Div, atom.Br, atom.Ul, atom.Ol, atom.Blockquote, atom.Pre, atom.Tr, atom.Hr:
				flush()
			}
		}
	}
}

// escapeMarkdown escapes markdown special characters
func escapeMarkdown(text string) string {
	// Basic escaping - preserve code blocks
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			// Escape markdown syntax outside code blocks
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
