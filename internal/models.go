package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// ID is an opaque entity identifier. The Data Provider has served both numeric
// and string ids over time; both decode into the same string form.
type ID string

// UnmarshalJSON accepts a JSON string, number or null
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// String returns the id as a plain string
func (id ID) String() string {
	return string(id)
}

// AuthResponse is returned by sign-in, sign-up and refresh
type AuthResponse struct {
	Message      string `json:"message,omitempty"`
	Success      bool   `json:"success"`
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
	ExpiresAt    int64  `json:"expires_at,omitempty"`
	RefreshToken string `json:"refresh_token"`
}

// Expiry resolves the access credential's expiry. expires_at wins over
// expires_in; a zero time means the credential carries no expiry.
func (r *AuthResponse) Expiry(now time.Time) time.Time {
	switch {
	case r.ExpiresAt > 0:
		return time.Unix(r.ExpiresAt, 0)
	case r.ExpiresIn > 0:
		return now.Add(time.Duration(r.ExpiresIn) * time.Second)
	default:
		return time.Time{}
	}
}

// Folder is the top level of the hierarchy
type Folder struct {
	ID        ID        `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	UserID    string    `json:"user_id,omitempty" yaml:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// Notebook belongs to exactly one folder
type Notebook struct {
	ID          ID        `json:"id" yaml:"id"`
	FolderID    ID        `json:"folder_id" yaml:"folder_id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Color       string    `json:"color,omitempty" yaml:"color,omitempty"`
	OrderIndex  int       `json:"order_index" yaml:"order_index"`
	CreatedAt   time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// Note belongs to exactly one notebook. Content is opaque rich-text markup.
type Note struct {
	ID         ID        `json:"id" yaml:"id"`
	NotebookID ID        `json:"notebook_id" yaml:"notebook_id"`
	Title      string    `json:"title" yaml:"title"`
	Content    string    `json:"content" yaml:"content"`
	OrderIndex int       `json:"order_index" yaml:"order_index"`
	CreatedAt  time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt  time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// Media is a file attached to a note
type Media struct {
	ID        ID        `json:"id"`
	NoteID    ID        `json:"note_id"`
	FileURL   string    `json:"file_url"`
	FileType  string    `json:"file_type"`
	FileSize  string    `json:"file_size"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Profile is the authenticated user's public profile
type Profile struct {
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	ProfilePicID string    `json:"profile_pic_id,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

// FolderList is the body of GET /api/folders
type FolderList struct {
	Folders []Folder `json:"folders"`
}

// NotebookList is the body of GET /api/notebooks
type NotebookList struct {
	Notebooks []Notebook `json:"notebooks"`
	Count     int        `json:"count"`
}

// NoteList is the body of GET /api/notes
type NoteList struct {
	Notes []Note `json:"notes"`
	Count int    `json:"count"`
}

// EntryKind tags an Entry
type EntryKind int

const (
	KindFolder EntryKind = iota
	KindNotebook
	KindNote
)

func (k EntryKind) String() string {
	switch k {
	case KindFolder:
		return "folder"
	case KindNotebook:
		return "notebook"
	case KindNote:
		return "note"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Entry is the single row shape every list renderer consumes, whatever the
// entity kind. Subtitle holds the notebook description or the note preview.
type Entry struct {
	Kind     EntryKind
	ID       ID
	Title    string
	Subtitle string
	Color    string
	Updated  time.Time
}

// FolderEntries converts folders into list entries
func FolderEntries(folders []Folder) []Entry {
	entries := make([]Entry, 0, len(folders))
	for _, f := range folders {
		entries = append(entries, Entry{Kind: KindFolder, ID: f.ID, Title: f.Title, Updated: f.CreatedAt})
	}
	return entries
}

// NotebookEntries converts notebooks into list entries
func NotebookEntries(notebooks []Notebook) []Entry {
	entries := make([]Entry, 0, len(notebooks))
	for _, nb := range notebooks {
		entries = append(entries, Entry{
			Kind:     KindNotebook,
			ID:       nb.ID,
			Title:    nb.Title,
			Subtitle: nb.Description,
			Color:    nb.Color,
			Updated:  nb.UpdatedAt,
		})
	}
	return entries
}

// NoteEntries converts notes into list entries. A note without a title is
// titled from its content.
func NoteEntries(notes []Note, ex *Extractor) []Entry {
	entries := make([]Entry, 0, len(notes))
	for _, n := range notes {
		title := n.Title
		if title == "" {
			title = ex.Title(n.Content)
		}
		entries = append(entries, Entry{
			Kind:     KindNote,
			ID:       n.ID,
			Title:    title,
			Subtitle: ex.Preview(n.Content),
			Updated:  n.UpdatedAt,
		})
	}
	return entries
}

// NotebookExport bundles a notebook with its notes for the exporters
type NotebookExport struct {
	Notebook   Notebook  `json:"notebook" yaml:"notebook"`
	Notes      []Note    `json:"notes" yaml:"notes"`
	ExportedAt time.Time `json:"exported_at" yaml:"exported_at"`
}
