package internal

import (
	"fmt"
	"time"
)

// CreateTestFolder creates a test folder
func CreateTestFolder(id, title string) Folder {
	return Folder{
		ID:        ID(id),
		Title:     title,
		UserID:    "user-1",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

// CreateTestNotebook creates a test notebook inside folderID
func CreateTestNotebook(id, folderID, title string) Notebook {
	now := time.Now().UTC().Truncate(time.Second)
	return Notebook{
		ID:          ID(id),
		FolderID:    ID(folderID),
		Title:       title,
		Description: "Notebook " + title,
		Color:       "#6366f1",
		OrderIndex:  1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// CreateTestNote creates a test note inside notebookID
func CreateTestNote(id, notebookID, title, content string) Note {
	now := time.Now().UTC().Truncate(time.Second)
	return Note{
		ID:         ID(id),
		NotebookID: ID(notebookID),
		Title:      title,
		Content:    content,
		OrderIndex: 1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// CreateTestNotebookExport creates an export bundle with n simple notes
func CreateTestNotebookExport(n int) *NotebookExport {
	nb := CreateTestNotebook("nb-1", "f-1", "Test Notebook")
	notes := make([]Note, 0, n)
	for i := 1; i <= n; i++ {
		notes = append(notes, CreateTestNote(
			fmt.Sprintf("note-%d", i), "nb-1",
			fmt.Sprintf("Note %d", i),
			fmt.Sprintf("<p>Body of note %d</p>", i),
		))
	}
	return &NotebookExport{
		Notebook:   nb,
		Notes:      notes,
		ExportedAt: time.Now().UTC().Truncate(time.Second),
	}
}
