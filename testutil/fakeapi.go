package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iksnae/smartnotes/internal"
)

// RecordedRequest is what FakeAPI saw of one request
type RecordedRequest struct {
	Method        string
	Path          string
	Query         string
	RequestID     string
	Authorization string
	ContentType   string
}

type fakeUser struct {
	id, name, email, password string
}

type failure struct {
	status int
	body   string
}

// FakeAPI is an in-process Data Provider. Access tokens are real HS256 JWTs
// whose subject is the user id; refresh tokens rotate on every refresh.
type FakeAPI struct {
	Server *httptest.Server
	// ExpiresIn is returned with every credential pair
	ExpiresIn int64

	t         *testing.T
	mu        sync.Mutex
	nextID    int
	users     map[string]*fakeUser // by email
	access    map[string]string    // access token -> user id
	refresh   map[string]string    // refresh token -> user id
	folders   []internal.Folder
	notebooks []internal.Notebook
	notes     []internal.Note
	media     []internal.Media
	profiles  map[string]*internal.Profile
	failures  map[string][]failure
	requests  []RecordedRequest
}

// NewFakeAPI starts a FakeAPI that is shut down when the test ends
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()
	f := &FakeAPI{
		ExpiresIn: 3600,
		t:         t,
		users:     map[string]*fakeUser{},
		access:    map[string]string{},
		refresh:   map[string]string{},
		profiles:  map[string]*internal.Profile{},
		failures:  map[string][]failure{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/signup", f.handleSignUp)
	mux.HandleFunc("POST /api/auth/signin", f.handleSignIn)
	mux.HandleFunc("POST /api/auth/refresh", f.handleRefresh)
	mux.HandleFunc("POST /api/auth/signout", f.authed(f.handleSignOut))
	mux.HandleFunc("GET /api/folders", f.authed(f.handleListFolders))
	mux.HandleFunc("POST /api/folders", f.authed(f.handleCreateFolder))
	mux.HandleFunc("PUT /api/folders/{id}", f.authed(f.handleUpdateFolder))
	mux.HandleFunc("DELETE /api/folders/{id}", f.authed(f.handleDeleteFolder))
	mux.HandleFunc("GET /api/notebooks", f.authed(f.handleListNotebooks))
	mux.HandleFunc("GET /api/notebooks/count", f.authed(f.handleCountNotebooks))
	mux.HandleFunc("POST /api/notebooks", f.authed(f.handleCreateNotebook))
	mux.HandleFunc("PUT /api/notebooks/{id}", f.authed(f.handleUpdateNotebook))
	mux.HandleFunc("DELETE /api/notebooks/{id}", f.authed(f.handleDeleteNotebook))
	mux.HandleFunc("GET /api/notes", f.authed(f.handleListNotes))
	mux.HandleFunc("GET /api/notes/{id}", f.authed(f.handleGetNote))
	mux.HandleFunc("POST /api/notes", f.authed(f.handleCreateNote))
	mux.HandleFunc("PUT /api/notes/{id}", f.authed(f.handleUpdateNote))
	mux.HandleFunc("DELETE /api/notes/{id}", f.authed(f.handleDeleteNote))
	mux.HandleFunc("GET /api/profile/{user}", f.authed(f.handleGetProfile))
	mux.HandleFunc("PUT /api/profile/picture", f.authed(f.handleProfilePicture))
	mux.HandleFunc("PUT /api/profile/{user}", f.authed(f.handleUpdateProfile))
	mux.HandleFunc("POST /api/media", f.authed(f.handleUploadMedia))
	mux.HandleFunc("GET /api/media", f.authed(f.handleListMedia))
	mux.HandleFunc("DELETE /api/media/{id}", f.authed(f.handleDeleteMedia))

	f.Server = httptest.NewServer(f.record(mux))
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the server's base URL
func (f *FakeAPI) URL() string {
	return f.Server.URL
}

// AddUser registers an account and returns its user id
func (f *FakeAPI) AddUser(name, email, password string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addUserLocked(name, email, password)
}

// IssueTokens mints a credential pair for userID as a successful sign-in would
func (f *FakeAPI) IssueTokens(userID string) *internal.AuthResponse {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.issueLocked(userID)
}

// RevokeRefresh invalidates every refresh token
func (f *FakeAPI) RevokeRefresh() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refresh = map[string]string{}
}

// SeedFolder adds a folder owned by userID
func (f *FakeAPI) SeedFolder(userID, title string) internal.Folder {
	f.mu.Lock()
	defer f.mu.Unlock()
	folder := internal.Folder{ID: f.idLocked("f"), Title: title, UserID: userID, CreatedAt: now()}
	f.folders = append(f.folders, folder)
	return folder
}

// SeedNotebook adds a notebook to folderID
func (f *FakeAPI) SeedNotebook(folderID internal.ID, title string) internal.Notebook {
	f.mu.Lock()
	defer f.mu.Unlock()
	nb := internal.Notebook{
		ID:         f.idLocked("nb"),
		FolderID:   folderID,
		Title:      title,
		Color:      "#6366f1",
		OrderIndex: f.countNotebooksLocked(folderID) + 1,
		CreatedAt:  now(),
		UpdatedAt:  now(),
	}
	f.notebooks = append(f.notebooks, nb)
	return nb
}

// SeedNote adds a note to notebookID
func (f *FakeAPI) SeedNote(notebookID internal.ID, title, content string) internal.Note {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := internal.Note{
		ID:         f.idLocked("n"),
		NotebookID: notebookID,
		Title:      title,
		Content:    content,
		OrderIndex: len(f.notesInLocked(notebookID)) + 1,
		CreatedAt:  now(),
		UpdatedAt:  now(),
	}
	f.notes = append(f.notes, n)
	return n
}

// FailNext makes the next request matching method and path answer with status
// and body instead of being handled
func (f *FakeAPI) FailNext(method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := method + " " + path
	f.failures[key] = append(f.failures[key], failure{status: status, body: body})
}

// Requests returns every request received so far
func (f *FakeAPI) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RecordedRequest(nil), f.requests...)
}

// RequestCount returns how many requests matched method and path
func (f *FakeAPI) RequestCount(method, path string) int {
	n := 0
	for _, r := range f.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// Folders returns a copy of the stored folders
func (f *FakeAPI) Folders() []internal.Folder {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]internal.Folder(nil), f.folders...)
}

// Media returns a copy of the stored attachments
func (f *FakeAPI) Media() []internal.Media {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]internal.Media(nil), f.media...)
}

// Notebooks returns a copy of the stored notebooks
func (f *FakeAPI) Notebooks() []internal.Notebook {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]internal.Notebook(nil), f.notebooks...)
}

// Notes returns a copy of the stored notes
func (f *FakeAPI) Notes() []internal.Note {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]internal.Note(nil), f.notes...)
}

func (f *FakeAPI) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, RecordedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			Query:         r.URL.RawQuery,
			RequestID:     r.Header.Get("X-Request-ID"),
			Authorization: r.Header.Get("Authorization"),
			ContentType:   r.Header.Get("Content-Type"),
		})
		key := r.Method + " " + r.URL.Path
		var fail *failure
		if queued := f.failures[key]; len(queued) > 0 {
			fail = &queued[0]
			f.failures[key] = queued[1:]
		}
		f.mu.Unlock()

		if fail != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(fail.status)
			_, _ = w.Write([]byte(fail.body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeAPI) authed(next func(w http.ResponseWriter, r *http.Request, userID string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		f.mu.Lock()
		userID, known := f.access[token]
		f.mu.Unlock()
		if !ok || !known {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
			return
		}
		next(w, r, userID)
	}
}

func (f *FakeAPI) handleSignUp(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid form"})
		return
	}
	name, email, password := r.FormValue("name"), r.FormValue("email"), r.FormValue("password")
	if name == "" || email == "" || password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"message": "Validation failed",
			"errors":  map[string][]string{"fields": {"name, email and password are required"}},
		})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.users[email]; exists {
		writeJSON(w, http.StatusConflict, map[string]string{"message": "User already exists"})
		return
	}
	id := f.addUserLocked(name, email, password)
	writeJSON(w, http.StatusCreated, f.issueLocked(id))
}

func (f *FakeAPI) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid body"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[body.Email]
	if !ok || u.password != body.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, f.issueLocked(u.id))
}

func (f *FakeAPI) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid body"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	userID, ok := f.refresh[body.RefreshToken]
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid refresh token"})
		return
	}
	delete(f.refresh, body.RefreshToken)
	writeJSON(w, http.StatusOK, f.issueLocked(userID))
}

func (f *FakeAPI) handleSignOut(w http.ResponseWriter, r *http.Request, userID string) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	f.mu.Lock()
	delete(f.access, token)
	for rt, owner := range f.refresh {
		if owner == userID {
			delete(f.refresh, rt)
		}
	}
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Signed out"})
}

func (f *FakeAPI) handleListFolders(w http.ResponseWriter, r *http.Request, userID string) {
	if r.URL.Query().Get("user_id") != userID {
		writeJSON(w, http.StatusForbidden, map[string]string{"message": "Forbidden"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	folders := []internal.Folder{}
	for _, folder := range f.folders {
		if folder.UserID == userID {
			folders = append(folders, folder)
		}
	}
	writeJSON(w, http.StatusOK, internal.FolderList{Folders: folders})
}

func (f *FakeAPI) handleCreateFolder(w http.ResponseWriter, r *http.Request, userID string) {
	var body struct {
		UserID string `json:"user_id"`
		Title  string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Title is required"})
		return
	}
	if body.UserID != userID {
		writeJSON(w, http.StatusForbidden, map[string]string{"message": "Forbidden"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	folder := internal.Folder{ID: f.idLocked("f"), Title: body.Title, UserID: userID, CreatedAt: now()}
	f.folders = append(f.folders, folder)
	writeJSON(w, http.StatusCreated, folder)
}

func (f *FakeAPI) handleUpdateFolder(w http.ResponseWriter, r *http.Request, userID string) {
	var body struct {
		Title string `json:"title"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.folders {
		if string(f.folders[i].ID) == r.PathValue("id") && f.folders[i].UserID == userID {
			f.folders[i].Title = body.Title
			writeJSON(w, http.StatusOK, f.folders[i])
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Folder not found"})
}

func (f *FakeAPI) handleDeleteFolder(w http.ResponseWriter, r *http.Request, userID string) {
	id := internal.ID(r.PathValue("id"))
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.folders {
		if f.folders[i].ID == id && f.folders[i].UserID == userID {
			f.folders = append(f.folders[:i], f.folders[i+1:]...)
			var keep []internal.Notebook
			for _, nb := range f.notebooks {
				if nb.FolderID == id {
					f.deleteNotesLocked(nb.ID)
					continue
				}
				keep = append(keep, nb)
			}
			f.notebooks = keep
			writeJSON(w, http.StatusOK, map[string]string{"message": "Folder deleted"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Folder not found"})
}

func (f *FakeAPI) handleListNotebooks(w http.ResponseWriter, r *http.Request, _ string) {
	folderID := internal.ID(r.URL.Query().Get("folder_id"))
	f.mu.Lock()
	defer f.mu.Unlock()
	notebooks := []internal.Notebook{}
	for _, nb := range f.notebooks {
		if nb.FolderID == folderID {
			notebooks = append(notebooks, nb)
		}
	}
	writeJSON(w, http.StatusOK, internal.NotebookList{Notebooks: notebooks, Count: len(notebooks)})
}

func (f *FakeAPI) handleCountNotebooks(w http.ResponseWriter, r *http.Request, _ string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, http.StatusOK, f.countNotebooksLocked(internal.ID(r.URL.Query().Get("folder_id"))))
}

func (f *FakeAPI) handleCreateNotebook(w http.ResponseWriter, r *http.Request, _ string) {
	var nb internal.Notebook
	if err := json.NewDecoder(r.Body).Decode(&nb); err != nil || nb.Title == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"message": "Validation failed",
			"errors":  map[string][]string{"title": {"is required"}},
		})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	nb.ID = f.idLocked("nb")
	nb.CreatedAt, nb.UpdatedAt = now(), now()
	f.notebooks = append(f.notebooks, nb)
	writeJSON(w, http.StatusCreated, nb)
}

func (f *FakeAPI) handleUpdateNotebook(w http.ResponseWriter, r *http.Request, _ string) {
	var body struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Color       string `json:"color"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.notebooks {
		if string(f.notebooks[i].ID) == r.PathValue("id") {
			f.notebooks[i].Title = body.Title
			f.notebooks[i].Description = body.Description
			f.notebooks[i].Color = body.Color
			f.notebooks[i].UpdatedAt = now()
			writeJSON(w, http.StatusOK, f.notebooks[i])
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Notebook not found"})
}

func (f *FakeAPI) handleDeleteNotebook(w http.ResponseWriter, r *http.Request, _ string) {
	id := internal.ID(r.PathValue("id"))
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.notebooks {
		if f.notebooks[i].ID == id {
			f.notebooks = append(f.notebooks[:i], f.notebooks[i+1:]...)
			f.deleteNotesLocked(id)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Notebook deleted"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Notebook not found"})
}

func (f *FakeAPI) handleListNotes(w http.ResponseWriter, r *http.Request, _ string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	notes := f.notesInLocked(internal.ID(r.URL.Query().Get("notebook_id")))
	writeJSON(w, http.StatusOK, internal.NoteList{Notes: notes, Count: len(notes)})
}

func (f *FakeAPI) handleGetNote(w http.ResponseWriter, r *http.Request, _ string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.notes {
		if string(n.ID) == r.PathValue("id") {
			writeJSON(w, http.StatusOK, n)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Note not found"})
}

func (f *FakeAPI) handleCreateNote(w http.ResponseWriter, r *http.Request, _ string) {
	var n internal.Note
	if err := json.NewDecoder(r.Body).Decode(&n); err != nil || n.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Title is required"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	n.ID = f.idLocked("n")
	n.CreatedAt, n.UpdatedAt = now(), now()
	f.notes = append(f.notes, n)
	writeJSON(w, http.StatusCreated, n)
}

func (f *FakeAPI) handleUpdateNote(w http.ResponseWriter, r *http.Request, _ string) {
	var body struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.notes {
		if string(f.notes[i].ID) == r.PathValue("id") {
			f.notes[i].Title = body.Title
			f.notes[i].Content = body.Content
			f.notes[i].UpdatedAt = now()
			writeJSON(w, http.StatusOK, f.notes[i])
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Note not found"})
}

func (f *FakeAPI) handleDeleteNote(w http.ResponseWriter, r *http.Request, _ string) {
	id := internal.ID(r.PathValue("id"))
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.notes {
		if f.notes[i].ID == id {
			f.notes = append(f.notes[:i], f.notes[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Note deleted"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Note not found"})
}

func (f *FakeAPI) handleGetProfile(w http.ResponseWriter, r *http.Request, userID string) {
	if r.PathValue("user") != userID {
		writeJSON(w, http.StatusForbidden, map[string]string{"message": "Forbidden"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, http.StatusOK, f.profiles[userID])
}

func (f *FakeAPI) handleUpdateProfile(w http.ResponseWriter, r *http.Request, userID string) {
	if r.PathValue("user") != userID {
		writeJSON(w, http.StatusForbidden, map[string]string{"message": "Forbidden"})
		return
	}
	if err := r.ParseMultipartForm(1 << 20); err != nil || r.FormValue("name") == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Name is required"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.profiles[userID]
	p.Name = r.FormValue("name")
	p.UpdatedAt = now()
	writeJSON(w, http.StatusOK, p)
}

func (f *FakeAPI) handleProfilePicture(w http.ResponseWriter, r *http.Request, userID string) {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid form"})
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Profile image is required"})
		return
	}
	file.Close()
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.profiles[userID]
	p.ProfilePicID = header.Filename
	writeJSON(w, http.StatusOK, p)
}

func (f *FakeAPI) handleUploadMedia(w http.ResponseWriter, r *http.Request, _ string) {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid form"})
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "File is required"})
		return
	}
	file.Close()
	f.mu.Lock()
	defer f.mu.Unlock()
	m := internal.Media{
		ID:        f.idLocked("m"),
		NoteID:    internal.ID(r.FormValue("note_id")),
		FileURL:   "https://media.example.test/" + header.Filename,
		FileType:  header.Header.Get("Content-Type"),
		FileSize:  fmt.Sprintf("%d", header.Size),
		CreatedAt: now(),
	}
	f.media = append(f.media, m)
	writeJSON(w, http.StatusCreated, m)
}

func (f *FakeAPI) handleListMedia(w http.ResponseWriter, r *http.Request, _ string) {
	noteID := internal.ID(r.URL.Query().Get("note_id"))
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []internal.Media{}
	for _, m := range f.media {
		if m.NoteID == noteID {
			out = append(out, m)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeAPI) handleDeleteMedia(w http.ResponseWriter, r *http.Request, _ string) {
	id := internal.ID(r.PathValue("id"))
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.media {
		if f.media[i].ID == id {
			f.media = append(f.media[:i], f.media[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Media not found"})
}

func (f *FakeAPI) addUserLocked(name, email, password string) string {
	id := string(f.idLocked("user"))
	f.users[email] = &fakeUser{id: id, name: name, email: email, password: password}
	f.profiles[id] = &internal.Profile{UserID: id, Name: name, Email: email, CreatedAt: now(), UpdatedAt: now()}
	return id
}

func (f *FakeAPI) issueLocked(userID string) *internal.AuthResponse {
	claims := jwt.MapClaims{
		"sub": userID,
		"jti": string(f.idLocked("jti")),
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Duration(f.ExpiresIn) * time.Second).Unix(),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(TokenSecret))
	if err != nil {
		f.t.Errorf("Failed to sign token: %v", err)
	}
	refresh := string(f.idLocked("refresh"))
	f.access[access] = userID
	f.refresh[refresh] = userID
	return &internal.AuthResponse{
		Message:      "ok",
		Success:      true,
		AccessToken:  access,
		TokenType:    "bearer",
		ExpiresIn:    f.ExpiresIn,
		RefreshToken: refresh,
	}
}

func (f *FakeAPI) idLocked(prefix string) internal.ID {
	f.nextID++
	return internal.ID(fmt.Sprintf("%s-%d", prefix, f.nextID))
}

func (f *FakeAPI) countNotebooksLocked(folderID internal.ID) int {
	n := 0
	for _, nb := range f.notebooks {
		if nb.FolderID == folderID {
			n++
		}
	}
	return n
}

func (f *FakeAPI) notesInLocked(notebookID internal.ID) []internal.Note {
	notes := []internal.Note{}
	for _, n := range f.notes {
		if n.NotebookID == notebookID {
			notes = append(notes, n)
		}
	}
	return notes
}

func (f *FakeAPI) deleteNotesLocked(notebookID internal.ID) {
	var keep []internal.Note
	for _, n := range f.notes {
		if n.NotebookID != notebookID {
			keep = append(keep, n)
		}
	}
	f.notes = keep
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
