package internal

import (
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestStorageError(t *testing.T) {
	originalErr := errors.New("permission denied")
	err := &StorageError{
		Path: "/test/smartnotes.db",
		Op:   "open",
		Err:  originalErr,
	}

	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "storage error") {
		t.Errorf("StorageError.Error() should contain 'storage error', got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "/test/smartnotes.db") {
		t.Errorf("StorageError.Error() should contain path, got: %q", errorMsg)
	}
	if !errors.Is(err, originalErr) {
		t.Error("StorageError.Unwrap() should return original error")
	}
}

func TestParseError(t *testing.T) {
	originalErr := errors.New("invalid YAML")
	err := &ParseError{
		Source: "config",
		Key:    "/home/u/.config/smartnotes/config.yaml",
		Err:    originalErr,
	}

	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "parse error") {
		t.Errorf("ParseError.Error() should contain 'parse error', got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "config") {
		t.Errorf("ParseError.Error() should contain source, got: %q", errorMsg)
	}
	if !errors.Is(err, originalErr) {
		t.Error("ParseError.Unwrap() should return original error")
	}
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		name         string
		err          *APIError
		unauthorized bool
		notFound     bool
		contains     []string
	}{
		{
			name:         "unauthorized",
			err:          &APIError{Method: "GET", Path: "/api/folders", Status: http.StatusUnauthorized, Message: "Invalid token"},
			unauthorized: true,
			contains:     []string{"401", "/api/folders", "Invalid token"},
		},
		{
			name:     "not found",
			err:      &APIError{Method: "PUT", Path: "/api/notes/9", Status: http.StatusNotFound},
			notFound: true,
			contains: []string{"404", "Not Found"},
		},
		{
			name: "validation details",
			err: &APIError{
				Method:  "POST",
				Path:    "/api/notebooks",
				Status:  http.StatusUnprocessableEntity,
				Message: "Validation failed",
				Errors:  map[string][]string{"title": {"is required"}},
			},
			contains: []string{"422", "Validation failed", "title: is required"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, ErrUnauthorized); got != tt.unauthorized {
				t.Errorf("errors.Is(ErrUnauthorized) = %v, want %v", got, tt.unauthorized)
			}
			if got := errors.Is(tt.err, ErrNotFound); got != tt.notFound {
				t.Errorf("errors.Is(ErrNotFound) = %v, want %v", got, tt.notFound)
			}
			msg := tt.err.Error()
			for _, want := range tt.contains {
				if !strings.Contains(msg, want) {
					t.Errorf("APIError.Error() = %q, should contain %q", msg, want)
				}
			}
		})
	}
}

func TestNetworkError(t *testing.T) {
	cause := errors.New("connection refused")
	err := &NetworkError{Method: "GET", Path: "/api/notes", Err: cause}

	if !errors.Is(err, ErrNetwork) {
		t.Error("NetworkError should match ErrNetwork")
	}
	if !errors.Is(err, cause) {
		t.Error("NetworkError should match its cause")
	}
	if errors.Is(err, ErrUnauthorized) {
		t.Error("NetworkError should not match ErrUnauthorized")
	}
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Field: "title", Reason: "must not be empty"}
	if got, want := err.Error(), "invalid title: must not be empty"; got != want {
		t.Errorf("ValidationError.Error() = %q, want %q", got, want)
	}
}

func TestExportError(t *testing.T) {
	originalErr := errors.New("write failed")
	err := &ExportError{
		Format: "jsonl",
		Path:   "/output/notebook.jsonl",
		Err:    originalErr,
	}

	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "export error") {
		t.Errorf("ExportError.Error() should contain 'export error', got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "jsonl") {
		t.Errorf("ExportError.Error() should contain format, got: %q", errorMsg)
	}
	if !errors.Is(err, originalErr) {
		t.Error("ExportError.Unwrap() should return original error")
	}
}
