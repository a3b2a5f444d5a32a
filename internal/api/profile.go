package api

import (
	"context"
	"net/http"

	"github.com/iksnae/smartnotes/internal"
)

// GetProfile returns the authenticated user's profile
func (c *Client) GetProfile(ctx context.Context) (*internal.Profile, error) {
	userID, err := c.subject()
	if err != nil {
		return nil, err
	}

	var out internal.Profile
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/profile/" + userID, authed: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile changes the display name
func (c *Client) UpdateProfile(ctx context.Context, name string) (*internal.Profile, error) {
	if err := require("name", name); err != nil {
		return nil, err
	}
	userID, err := c.subject()
	if err != nil {
		return nil, err
	}

	form := (&multipartForm{}).field("name", name)
	var out internal.Profile
	if err := c.do(ctx, request{method: http.MethodPut, path: "/api/profile/" + userID, form: form, authed: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfilePicture uploads a new profile picture from imagePath
func (c *Client) UpdateProfilePicture(ctx context.Context, imagePath string) (*internal.Profile, error) {
	if err := require("image", imagePath); err != nil {
		return nil, err
	}

	form := (&multipartForm{}).file("image", imagePath)
	var out internal.Profile
	if err := c.do(ctx, request{method: http.MethodPut, path: "/api/profile/picture", form: form, authed: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
