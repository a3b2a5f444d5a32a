package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/iksnae/smartnotes/internal"
)

// NotebookInput holds the editable notebook fields
type NotebookInput struct {
	Title       string
	Description string
	Color       string
}

// ListNotebooks returns the notebooks in a folder. It satisfies browser.Provider.
func (c *Client) ListNotebooks(ctx context.Context, folderID internal.ID) ([]internal.Notebook, error) {
	if err := requireID("folder id", folderID); err != nil {
		return nil, err
	}

	var out internal.NotebookList
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/notebooks",
		query:  url.Values{"folder_id": {folderID.String()}},
		authed: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Notebooks, nil
}

// CountNotebooks returns the number of notebooks in a folder
func (c *Client) CountNotebooks(ctx context.Context, folderID internal.ID) (int, error) {
	if err := requireID("folder id", folderID); err != nil {
		return 0, err
	}

	var raw json.RawMessage
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/notebooks/count",
		query:  url.Values{"folder_id": {folderID.String()}},
		authed: true,
	}, &raw)
	if err != nil {
		return 0, err
	}
	return decodeCount(raw)
}

// decodeCount accepts a bare number or a {"count": n} object
func decodeCount(raw json.RawMessage) (int, error) {
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var wrapped struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return 0, &internal.ParseError{Source: "api", Key: "GET /api/notebooks/count", Err: err}
	}
	return wrapped.Count, nil
}

// CreateNotebook adds a notebook at the end of the folder. The order index is
// one past the folder's current notebook count.
func (c *Client) CreateNotebook(ctx context.Context, folderID internal.ID, in NotebookInput) (*internal.Notebook, error) {
	if err := requireID("folder id", folderID); err != nil {
		return nil, err
	}
	if err := require("title", in.Title); err != nil {
		return nil, err
	}
	color, err := ResolveColor(in.Color)
	if err != nil {
		return nil, err
	}

	count, err := c.CountNotebooks(ctx, folderID)
	if err != nil {
		return nil, err
	}

	body := struct {
		Title       string      `json:"title"`
		Description string      `json:"description"`
		Color       string      `json:"color"`
		FolderID    internal.ID `json:"folder_id"`
		OrderIndex  int         `json:"order_index"`
	}{in.Title, in.Description, color, folderID, count + 1}

	var out internal.Notebook
	err = c.do(ctx, request{method: http.MethodPost, path: "/api/notebooks", json: body, authed: true}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateNotebook replaces a notebook's title, description and color
func (c *Client) UpdateNotebook(ctx context.Context, id internal.ID, in NotebookInput) (*internal.Notebook, error) {
	if err := requireID("notebook id", id); err != nil {
		return nil, err
	}
	if err := require("title", in.Title); err != nil {
		return nil, err
	}
	color, err := ResolveColor(in.Color)
	if err != nil {
		return nil, err
	}

	body := map[string]string{"title": in.Title, "description": in.Description, "color": color}
	var out internal.Notebook
	err = c.do(ctx, request{method: http.MethodPut, path: "/api/notebooks/" + id.String(), json: body, authed: true}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteNotebook deletes a notebook
func (c *Client) DeleteNotebook(ctx context.Context, id internal.ID) error {
	if err := requireID("notebook id", id); err != nil {
		return err
	}
	return c.do(ctx, request{method: http.MethodDelete, path: "/api/notebooks/" + id.String(), authed: true}, nil)
}

// FindNotebook locates a notebook by id across the user's folders. The Data
// Provider has no single-notebook endpoint, so each folder is listed in turn.
func (c *Client) FindNotebook(ctx context.Context, id internal.ID) (*internal.Notebook, error) {
	if err := requireID("notebook id", id); err != nil {
		return nil, err
	}
	folders, err := c.ListFolders(ctx)
	if err != nil {
		return nil, err
	}
	for _, f := range folders {
		notebooks, err := c.ListNotebooks(ctx, f.ID)
		if err != nil {
			return nil, err
		}
		for i := range notebooks {
			if notebooks[i].ID == id {
				return &notebooks[i], nil
			}
		}
	}
	return nil, fmt.Errorf("notebook %s: %w", id, internal.ErrNotFound)
}
