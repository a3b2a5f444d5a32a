package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/iksnae/smartnotes/internal"
)

// UploadMedia attaches the file at path to a note
func (c *Client) UploadMedia(ctx context.Context, noteID internal.ID, path string) (*internal.Media, error) {
	if err := requireID("note id", noteID); err != nil {
		return nil, err
	}
	if err := require("file", path); err != nil {
		return nil, err
	}

	form := (&multipartForm{}).field("note_id", noteID.String()).file("file", path)
	var out internal.Media
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/media", form: form, authed: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMedia returns the files attached to a note
func (c *Client) ListMedia(ctx context.Context, noteID internal.ID) ([]internal.Media, error) {
	if err := requireID("note id", noteID); err != nil {
		return nil, err
	}

	var out []internal.Media
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/media",
		query:  url.Values{"note_id": {noteID.String()}},
		authed: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteMedia removes an attachment
func (c *Client) DeleteMedia(ctx context.Context, id internal.ID) error {
	if err := requireID("media id", id); err != nil {
		return err
	}
	return c.do(ctx, request{method: http.MethodDelete, path: "/api/media/" + id.String(), authed: true}, nil)
}
