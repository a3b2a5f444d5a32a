package internal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *CredentialStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", CredentialDBName)
	store, err := OpenCredentialStore(path)
	if err != nil {
		t.Fatalf("OpenCredentialStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpenCredentialStore(t *testing.T) {
	store := openTestStore(t)

	info, err := os.Stat(store.Path())
	if err != nil {
		t.Fatalf("credential database was not created: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("credential database mode = %v, want 0600", perm)
	}
}

func TestOpenCredentialStoreInvalidDir(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := OpenCredentialStore(filepath.Join(blocker, CredentialDBName))
	var storageErr *StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("OpenCredentialStore() error = %v, want *StorageError", err)
	}
	if storageErr.Op != "open" {
		t.Errorf("StorageError.Op = %q, want open", storageErr.Op)
	}
}

func TestCredentialStoreLifecycle(t *testing.T) {
	store := openTestStore(t)

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() on empty store error = %v", err)
	}
	if got != "" {
		t.Errorf("Load() on empty store = %q, want empty", got)
	}

	if err := store.Save("refresh-1"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Save("refresh-2"); err != nil {
		t.Fatalf("Save() overwrite error = %v", err)
	}

	got, err = store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != "refresh-2" {
		t.Errorf("Load() = %q, want refresh-2", got)
	}

	var rows int
	if err := store.db.QueryRow("SELECT COUNT(*) FROM kv").Scan(&rows); err != nil {
		t.Fatal(err)
	}
	if rows != 1 {
		t.Errorf("kv holds %d rows, want exactly 1", rows)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("second Clear() error = %v", err)
	}
	if got, _ := store.Load(); got != "" {
		t.Errorf("Load() after Clear() = %q, want empty", got)
	}
}

func TestCredentialStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), CredentialDBName)

	store, err := OpenCredentialStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Save("persisted"); err != nil {
		t.Fatal(err)
	}
	store.Close()

	reopened, err := OpenCredentialStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	got, err := reopened.Load()
	if err != nil {
		t.Fatal(err)
	}
	if got != "persisted" {
		t.Errorf("Load() after reopen = %q, want persisted", got)
	}
}
