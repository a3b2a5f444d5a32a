package api

import (
	"net/mail"
	"regexp"
	"strings"

	"github.com/iksnae/smartnotes/internal"
)

// DefaultNotebookColor is used when a notebook is created without a color
const DefaultNotebookColor = "#6366f1"

// NotebookPalette maps the named notebook colors to their hex values
var NotebookPalette = map[string]string{
	"indigo": "#6366f1",
	"purple": "#9333ea",
	"pink":   "#ec4899",
	"red":    "#ef4444",
	"orange": "#f97316",
	"amber":  "#f59e0b",
	"green":  "#10b981",
	"teal":   "#14b8a6",
	"blue":   "#3b82f6",
	"cyan":   "#06b6d4",
	"lime":   "#84cc16",
	"gray":   "#6b7280",
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ResolveColor accepts a palette name or a #rrggbb value. Empty means the default.
func ResolveColor(color string) (string, error) {
	if color == "" {
		return DefaultNotebookColor, nil
	}
	if hex, ok := NotebookPalette[strings.ToLower(color)]; ok {
		return hex, nil
	}
	if hexColor.MatchString(color) {
		return strings.ToLower(color), nil
	}
	return "", &internal.ValidationError{Field: "color", Reason: "must be a palette name or #rrggbb"}
}

func require(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &internal.ValidationError{Field: field, Reason: "is required"}
	}
	return nil
}

func requireID(field string, id internal.ID) error {
	return require(field, id.String())
}

func validateEmail(email string) error {
	if err := require("email", email); err != nil {
		return err
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return &internal.ValidationError{Field: "email", Reason: "is not a valid address"}
	}
	return nil
}

// validateContent rejects note content with no visible text or image, such as
// the empty paragraph an editor leaves behind ("<p><br></p>")
func validateContent(content string) error {
	if internal.ExtractText(content) == "" && !strings.Contains(strings.ToLower(content), "<img") {
		return &internal.ValidationError{Field: "content", Reason: "must not be empty"}
	}
	return nil
}
