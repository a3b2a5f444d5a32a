package internal

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// RefreshTokenKey is the only key ever written to the credential store
const RefreshTokenKey = "smart_notes_refresh_token"

// CredentialDBName is the file name of the credential store inside the data directory
const CredentialDBName = "smartnotes.db"

// CredentialStore persists the refresh credential in a local SQLite key/value table.
// Nothing else the client knows survives a restart.
type CredentialStore struct {
	db   *sql.DB
	path string
}

// OpenCredentialStore opens (creating if needed) the credential database at path.
// The file is readable by the owner only.
func OpenCredentialStore(path string) (*CredentialStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, &StorageError{Path: path, Op: "open", Err: err}
	}

	f, err := os.OpenFile(path, os.O_RDONLY|os.O_CREATE, 0600)
	if err != nil {
		return nil, &StorageError{Path: path, Op: "open", Err: err}
	}
	f.Close()
	if err := os.Chmod(path, 0600); err != nil {
		return nil, &StorageError{Path: path, Op: "open", Err: err}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &StorageError{Path: path, Op: "open", Err: fmt.Errorf("failed to open database: %w", err)}
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &StorageError{Path: path, Op: "open", Err: fmt.Errorf("database ping failed: %w", err)}
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, &StorageError{Path: path, Op: "open", Err: fmt.Errorf("failed to create kv table: %w", err)}
	}

	LogDebug("Opened credential store at %s", path)
	return &CredentialStore{db: db, path: path}, nil
}

// Path returns the database file path
func (s *CredentialStore) Path() string {
	return s.path
}

// Load returns the stored refresh credential, or "" when none is stored
func (s *CredentialStore) Load() (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", RefreshTokenKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", &StorageError{Path: s.path, Op: "read", Err: err}
	}
	return value, nil
}

// Save replaces the stored refresh credential
func (s *CredentialStore) Save(token string) error {
	_, err := s.db.Exec(
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		RefreshTokenKey, token,
	)
	if err != nil {
		return &StorageError{Path: s.path, Op: "write", Err: err}
	}
	return nil
}

// Clear removes the stored refresh credential. Clearing an empty store is not an error.
func (s *CredentialStore) Clear() error {
	if _, err := s.db.Exec("DELETE FROM kv WHERE key = ?", RefreshTokenKey); err != nil {
		return &StorageError{Path: s.path, Op: "delete", Err: err}
	}
	return nil
}

// Close closes the underlying database
func (s *CredentialStore) Close() error {
	return s.db.Close()
}
