package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/iksnae/smartnotes/internal"
)

func TestFindNoteEmpty(t *testing.T) {
	item, err := FindNote(nil, nil)
	assert.Error(t, err)
	assert.Nil(t, item)
}

func TestFormatNoteLine(t *testing.T) {
	ex := internal.NewExtractor(0, 0)
	note := internal.CreateTestNote("n-1", "nb-1", "", "<p>Pancakes on Sunday</p>")
	note.UpdatedAt = time.Date(2024, 3, 9, 10, 30, 0, 0, time.Local)

	line := formatNoteLine(NoteItem{Folder: "Home", Notebook: "Recipes", Note: note}, ex)
	assert.True(t, strings.HasPrefix(line, "2024-03-09 10:30"), line)
	assert.Contains(t, line, "Home / Recipes")
	assert.Contains(t, line, "Pancakes on Sunday")
}

func TestFormatNotePreview(t *testing.T) {
	ex := internal.NewExtractor(0, 0)

	t.Run("wraps text", func(t *testing.T) {
		note := internal.CreateTestNote("n-1", "nb-1", "Shopping", "<p>eggs flour milk butter sugar salt</p>")
		preview := formatNotePreview(NoteItem{Folder: "Home", Notebook: "Recipes", Note: note}, ex, 22)
		assert.Contains(t, preview, "Note:     n-1")
		assert.Contains(t, preview, "Notebook: Recipes")
		assert.Contains(t, preview, "eggs flour milk\nbutter sugar salt")
	})

	t.Run("empty content", func(t *testing.T) {
		note := internal.CreateTestNote("n-2", "nb-1", "Blank", "<p></p>")
		preview := formatNotePreview(NoteItem{Note: note}, ex, 80)
		assert.Contains(t, preview, internal.NoContent)
	})
}
