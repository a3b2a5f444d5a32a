package internal

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	// DefaultTitleCap is the maximum number of characters in a derived title
	DefaultTitleCap = 50
	// DefaultPreviewCap is the maximum number of characters in a derived preview
	DefaultPreviewCap = 150

	// UntitledNote is shown when a note has no extractable text for a title
	UntitledNote = "Untitled Note"
	// NoContent is shown when a note has no extractable text for a preview
	NoContent = "No content"
)

// Extractor derives display strings from rich-text note content.
// Caps are counted in characters (runes), not bytes.
type Extractor struct {
	TitleCap   int
	PreviewCap int
}

// NewExtractor returns an Extractor with the given caps. Non-positive caps
// fall back to the defaults.
func NewExtractor(titleCap, previewCap int) *Extractor {
	if titleCap <= 0 {
		titleCap = DefaultTitleCap
	}
	if previewCap <= 0 {
		previewCap = DefaultPreviewCap
	}
	return &Extractor{TitleCap: titleCap, PreviewCap: previewCap}
}

var defaultExtractor = NewExtractor(DefaultTitleCap, DefaultPreviewCap)

// Title returns the first TitleCap characters of the note's plain text, or
// UntitledNote when there is none.
func (e *Extractor) Title(markup string) string {
	return capText(ExtractText(markup), e.TitleCap, UntitledNote)
}

// Preview returns the first PreviewCap characters of the note's plain text, or
// NoContent when there is none.
func (e *Extractor) Preview(markup string) string {
	return capText(ExtractText(markup), e.PreviewCap, NoContent)
}

// ExtractTitle derives a title using the default 50 character cap
func ExtractTitle(markup string) string {
	return defaultExtractor.Title(markup)
}

// ExtractPreview derives a preview using the default 150 character cap
func ExtractPreview(markup string) string {
	return defaultExtractor.Preview(markup)
}

// capText cuts text to limit runes; the placeholder is cut the same way
func capText(text string, limit int, placeholder string) string {
	if text == "" {
		text = placeholder
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return strings.TrimRightFunc(string(runes[:limit]), isSpace)
}

// blockElements end a run of inline text; adjacent blocks must not glue
// their words together ("<p>a</p><p>b</p>" is "a b", not "ab").
var blockElements = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Li: true,
	atom.Ul: true, atom.Ol: true, atom.Blockquote: true, atom.Pre: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Tr: true, atom.Td: true, atom.Th: true, atom.Hr: true,
}

// ExtractText strips markup from rich-text content and returns its plain text
// with whitespace collapsed. It never fails: malformed markup yields whatever
// text the tokenizer can recover.
func ExtractText(markup string) string {
	if markup == "" {
		return ""
	}

	var sb strings.Builder
	skipDepth := 0
	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if z.Err() != io.EOF {
				LogDebug("Stopped extracting text at malformed markup: %v", z.Err())
			}
			return strings.Join(strings.Fields(sb.String()), " ")
		case html.TextToken:
			if skipDepth == 0 {
				sb.Write(z.Text())
			}
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if a == atom.Script || a == atom.Style {
				switch tt {
				case html.StartTagToken:
					skipDepth++
				case html.EndTagToken:
					if skipDepth > 0 {
						skipDepth--
					}
				}
				continue
			}
			if blockElements[a] {
				sb.WriteByte(' ')
			}
		}
	}
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
