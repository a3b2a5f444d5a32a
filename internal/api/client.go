// Package api is the client for the Smart Notes Data Provider REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/iksnae/smartnotes/internal"
	"github.com/iksnae/smartnotes/internal/telemetry"
)

const (
	// RequestIDHeader carries a fresh id on every request for log correlation
	RequestIDHeader = "X-Request-ID"

	fallbackMessage  = "An unexpected error occurred"
	maxErrorBodySize = 1 << 20
)

// Session is what the client needs from the session manager: the live access
// credential for each request and the user id for user-scoped endpoints.
type Session interface {
	oauth2.TokenSource
	Subject() (string, error)
}

// Options configures a Client
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	// Transport is the base round tripper; nil means http.DefaultTransport
	Transport http.RoundTripper
}

// Client talks to the Data Provider. Authorized calls read the credential from
// the Session on every request, so a logout is visible immediately.
type Client struct {
	baseURL   *url.URL
	userAgent string
	session   Session
	public    *http.Client
	authed    *http.Client
}

// New creates a Client
func New(opts Options, session Session) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("api base URL is required")
	}
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, &internal.ParseError{Source: "config", Key: "api_base_url", Err: err}
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, &internal.ParseError{Source: "config", Key: "api_base_url", Err: fmt.Errorf("unsupported scheme %q", base.Scheme)}
	}

	traced := telemetry.Transport(opts.Transport)

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "smartnotes"
	}

	return &Client{
		baseURL:   base,
		userAgent: userAgent,
		session:   session,
		public:    &http.Client{Timeout: opts.Timeout, Transport: traced},
		authed: &http.Client{
			Timeout:   opts.Timeout,
			Transport: &oauth2.Transport{Source: session, Base: traced},
		},
	}, nil
}

// BaseURL returns the Data Provider's base URL
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// errorBody is the Data Provider's error envelope
type errorBody struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// request describes one call. At most one of json and form is set.
type request struct {
	method string
	path   string
	query  url.Values
	json   any
	form   *multipartForm
	authed bool
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	body, contentType, err := r.encode()
	if err != nil {
		return err
	}

	u := *c.baseURL
	u.Path = c.baseURL.Path + r.path
	if len(r.query) > 0 {
		u.RawQuery = r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u.String(), body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	hc := c.public
	if r.authed {
		hc = c.authed
	}

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		if errors.Is(err, internal.ErrUnauthorized) {
			return fmt.Errorf("%s %s: %w", r.method, r.path, internal.ErrUnauthorized)
		}
		internal.LogDebug("%s %s failed after %s [%s]: %v", r.method, r.path, time.Since(start).Round(time.Millisecond), requestID, err)
		return &internal.NetworkError{Method: r.method, Path: r.path, Err: err}
	}
	defer resp.Body.Close()

	internal.LogDebug("%s %s -> %d in %s [%s]", r.method, r.path, resp.StatusCode, time.Since(start).Round(time.Millisecond), requestID)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(r.method, r.path, resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &internal.NetworkError{Method: r.method, Path: r.path, Err: err}
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &internal.ParseError{Source: "api", Key: r.method + " " + r.path, Err: err}
	}
	return nil
}

func (r request) encode() (io.Reader, string, error) {
	switch {
	case r.form != nil:
		return r.form.encode()
	case r.json != nil:
		data, err := json.Marshal(r.json)
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode request body: %w", err)
		}
		return bytes.NewReader(data), "application/json", nil
	default:
		return nil, "", nil
	}
}

func decodeError(method, path string, resp *http.Response) error {
	apiErr := &internal.APIError{Method: method, Path: path, Status: resp.StatusCode, Message: fallbackMessage}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if err != nil {
		return apiErr
	}
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		return apiErr
	}
	if body.Message != "" {
		apiErr.Message = body.Message
	}
	apiErr.Errors = body.Errors
	return apiErr
}

func (c *Client) subject() (string, error) {
	sub, err := c.session.Subject()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user id: %w", err)
	}
	return sub, nil
}

// Ping checks that the Data Provider answers HTTP at all. Any status code
// counts as reachable; only transport failures are errors.
func (c *Client) Ping(ctx context.Context) (time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL.String()+"/", nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.public.Do(req)
	if err != nil {
		return 0, &internal.NetworkError{Method: http.MethodGet, Path: "/", Err: err}
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBodySize))
	resp.Body.Close()
	return time.Since(start), nil
}
