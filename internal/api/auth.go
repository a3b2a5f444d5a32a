package api

import (
	"context"
	"net/http"

	"github.com/iksnae/smartnotes/internal"
)

// SignUpRequest is the registration form. Image is an optional path to a profile picture.
type SignUpRequest struct {
	Name     string
	Email    string
	Password string
	Image    string
}

// SignUp registers a new account and returns its first credential pair
func (c *Client) SignUp(ctx context.Context, in SignUpRequest) (*internal.AuthResponse, error) {
	if err := require("name", in.Name); err != nil {
		return nil, err
	}
	if err := validateEmail(in.Email); err != nil {
		return nil, err
	}
	if err := require("password", in.Password); err != nil {
		return nil, err
	}

	form := (&multipartForm{}).
		field("name", in.Name).
		field("email", in.Email).
		field("password", in.Password).
		file("image", in.Image)

	var out internal.AuthResponse
	err := c.do(ctx, request{method: http.MethodPost, path: "/api/auth/signup", form: form}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SignIn exchanges email and password for a credential pair
func (c *Client) SignIn(ctx context.Context, email, password string) (*internal.AuthResponse, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := require("password", password); err != nil {
		return nil, err
	}

	body := map[string]string{"email": email, "password": password}
	var out internal.AuthResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/auth/signin", json: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh trades a refresh credential for a new pair. It satisfies session.Exchanger.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*internal.AuthResponse, error) {
	body := map[string]string{"refresh_token": refreshToken}
	var out internal.AuthResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/auth/refresh", json: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SignOut revokes the current credential on the Data Provider
func (c *Client) SignOut(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/api/auth/signout", authed: true}, nil)
}
