package api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/iksnae/smartnotes/internal"
)

// ListNotes returns the notes in a notebook. It satisfies browser.Provider.
func (c *Client) ListNotes(ctx context.Context, notebookID internal.ID) ([]internal.Note, error) {
	list, err := c.listNotes(ctx, notebookID)
	if err != nil {
		return nil, err
	}
	return list.Notes, nil
}

func (c *Client) listNotes(ctx context.Context, notebookID internal.ID) (*internal.NoteList, error) {
	if err := requireID("notebook id", notebookID); err != nil {
		return nil, err
	}

	var out internal.NoteList
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/notes",
		query:  url.Values{"notebook_id": {notebookID.String()}},
		authed: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetNote fetches a single note
func (c *Client) GetNote(ctx context.Context, id internal.ID) (*internal.Note, error) {
	if err := requireID("note id", id); err != nil {
		return nil, err
	}

	var out internal.Note
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/notes/" + id.String(), authed: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateNote appends a note to a notebook. Content is opaque rich-text markup
// and must contain visible text.
func (c *Client) CreateNote(ctx context.Context, notebookID internal.ID, title, content string) (*internal.Note, error) {
	if err := requireID("notebook id", notebookID); err != nil {
		return nil, err
	}
	if err := require("title", title); err != nil {
		return nil, err
	}
	if err := validateContent(content); err != nil {
		return nil, err
	}

	existing, err := c.listNotes(ctx, notebookID)
	if err != nil {
		return nil, err
	}
	count := existing.Count
	if count < len(existing.Notes) {
		count = len(existing.Notes)
	}

	body := struct {
		NotebookID internal.ID `json:"notebook_id"`
		Title      string      `json:"title"`
		Content    string      `json:"content"`
		OrderIndex int         `json:"order_index"`
	}{notebookID, title, content, count + 1}

	var out internal.Note
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/notes", json: body, authed: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateNote replaces a note's title and content
func (c *Client) UpdateNote(ctx context.Context, id internal.ID, title, content string) (*internal.Note, error) {
	if err := requireID("note id", id); err != nil {
		return nil, err
	}
	if err := require("title", title); err != nil {
		return nil, err
	}
	if err := validateContent(content); err != nil {
		return nil, err
	}

	body := map[string]string{"title": title, "content": content}
	var out internal.Note
	if err := c.do(ctx, request{method: http.MethodPut, path: "/api/notes/" + id.String(), json: body, authed: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteNote deletes a note
func (c *Client) DeleteNote(ctx context.Context, id internal.ID) error {
	if err := requireID("note id", id); err != nil {
		return err
	}
	return c.do(ctx, request{method: http.MethodDelete, path: "/api/notes/" + id.String(), authed: true}, nil)
}

// NotebookExport fetches a notebook and all its notes for the exporters
func (c *Client) NotebookExport(ctx context.Context, notebookID internal.ID) (*internal.NotebookExport, error) {
	nb, err := c.FindNotebook(ctx, notebookID)
	if err != nil {
		return nil, err
	}
	notes, err := c.ListNotes(ctx, notebookID)
	if err != nil {
		return nil, err
	}
	return &internal.NotebookExport{Notebook: *nb, Notes: notes, ExportedAt: time.Now().UTC()}, nil
}
