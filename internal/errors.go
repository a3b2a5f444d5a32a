package internal

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	// ErrUnauthorized is returned when no valid access credential is held or the
	// Data Provider rejects the one that was sent.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound is returned when the Data Provider does not know the requested id.
	ErrNotFound = errors.New("not found")
	// ErrNetwork wraps transport failures (DNS, refused connections, timeouts).
	ErrNetwork = errors.New("network failure")
	// ErrNoFolderSelected is returned when a notebook is selected without a folder.
	ErrNoFolderSelected = errors.New("no folder selected")
)

// StorageError represents errors accessing the local credential store
type StorageError struct {
	Path string
	Op   string // "open", "read", "write", "delete"
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ParseError represents errors parsing data
type ParseError struct {
	Source string // "config", "api", "token"
	Key    string // file path, endpoint or claim
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error [%s] %s: %v", e.Source, e.Key, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// APIError is a non-2xx answer from the Data Provider
type APIError struct {
	Method  string
	Path    string
	Status  int
	Message string
	Errors  map[string][]string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if len(e.Errors) > 0 {
		var fields []string
		for field, problems := range e.Errors {
			fields = append(fields, fmt.Sprintf("%s: %s", field, strings.Join(problems, ", ")))
		}
		sort.Strings(fields)
		msg = fmt.Sprintf("%s (%s)", msg, strings.Join(fields, "; "))
	}
	return fmt.Sprintf("api error [%d] %s %s: %s", e.Status, e.Method, e.Path, msg)
}

// Unwrap maps well-known statuses onto the package sentinels so callers can
// use errors.Is(err, ErrUnauthorized) regardless of the endpoint.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return nil
	}
}

// NetworkError represents a request that never produced an HTTP response
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() []error {
	return []error{ErrNetwork, e.Err}
}

// ValidationError is a local form-level failure; the request is never sent
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ExportError represents errors during export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
