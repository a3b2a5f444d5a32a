package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/iksnae/smartnotes/internal"
)

// ListFolders returns the authenticated user's folders. It satisfies browser.Provider.
func (c *Client) ListFolders(ctx context.Context) ([]internal.Folder, error) {
	userID, err := c.subject()
	if err != nil {
		return nil, err
	}

	var out internal.FolderList
	err = c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/folders",
		query:  url.Values{"user_id": {userID}},
		authed: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Folders, nil
}

// CreateFolder creates a folder owned by the authenticated user
func (c *Client) CreateFolder(ctx context.Context, title string) (*internal.Folder, error) {
	if err := require("title", title); err != nil {
		return nil, err
	}
	userID, err := c.subject()
	if err != nil {
		return nil, err
	}

	var out internal.Folder
	err = c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/folders",
		json:   map[string]string{"user_id": userID, "title": title},
		authed: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateFolder renames a folder
func (c *Client) UpdateFolder(ctx context.Context, id internal.ID, title string) (*internal.Folder, error) {
	if err := requireID("folder id", id); err != nil {
		return nil, err
	}
	if err := require("title", title); err != nil {
		return nil, err
	}

	var out internal.Folder
	err := c.do(ctx, request{
		method: http.MethodPut,
		path:   "/api/folders/" + id.String(),
		json:   map[string]string{"title": title},
		authed: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteFolder deletes a folder
func (c *Client) DeleteFolder(ctx context.Context, id internal.ID) error {
	if err := requireID("folder id", id); err != nil {
		return err
	}
	return c.do(ctx, request{method: http.MethodDelete, path: "/api/folders/" + id.String(), authed: true}, nil)
}
