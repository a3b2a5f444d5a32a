package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iksnae/smartnotes/internal"
	"github.com/iksnae/smartnotes/internal/api"
	"github.com/iksnae/smartnotes/internal/session"
	"github.com/iksnae/smartnotes/testutil"
)

const (
	testEmail    = "ada@example.com"
	testPassword = "correct horse"
)

type fixture struct {
	fake   *testutil.FakeAPI
	mgr    *session.Manager
	client *api.Client
	userID string
	ctx    context.Context
}

// newFixture returns a client logged in as a fresh user
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := newLoggedOutFixture(t)
	f.mgr.Login(f.fake.IssueTokens(f.userID))
	return f
}

func newLoggedOutFixture(t *testing.T) *fixture {
	t.Helper()
	fake := testutil.NewFakeAPI(t)
	userID := fake.AddUser("Ada", testEmail, testPassword)
	mgr := session.New(testutil.NewMemoryStore(""))
	client, err := api.New(api.Options{BaseURL: fake.URL(), Timeout: 5 * time.Second}, mgr)
	require.NoError(t, err)
	return &fixture{fake: fake, mgr: mgr, client: client, userID: userID, ctx: context.Background()}
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	mgr := session.New(testutil.NewMemoryStore(""))

	_, err := api.New(api.Options{}, mgr)
	require.Error(t, err)

	_, err = api.New(api.Options{BaseURL: "ftp://example.com"}, mgr)
	var parseErr *internal.ParseError
	require.ErrorAs(t, err, &parseErr)

	c, err := api.New(api.Options{BaseURL: "http://localhost:5000/"}, mgr)
	require.NoError(t, err)
	require.Equal(t, "http://localhost:5000", c.BaseURL())
}

func TestSignIn(t *testing.T) {
	f := newLoggedOutFixture(t)

	resp, err := f.client.SignIn(f.ctx, testEmail, testPassword)
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	require.EqualValues(t, 3600, resp.ExpiresIn)

	f.mgr.Login(resp)
	sub, err := f.mgr.Subject()
	require.NoError(t, err)
	require.Equal(t, f.userID, sub)
}

func TestSignInWrongPassword(t *testing.T) {
	f := newLoggedOutFixture(t)

	_, err := f.client.SignIn(f.ctx, testEmail, "nope")
	require.ErrorIs(t, err, internal.ErrUnauthorized)

	var apiErr *internal.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "Invalid credentials", apiErr.Message)
}

func TestSignInValidation(t *testing.T) {
	f := newLoggedOutFixture(t)

	tests := []struct {
		name     string
		email    string
		password string
		field    string
	}{
		{"empty email", "", "pw", "email"},
		{"malformed email", "not-an-email", "pw", "email"},
		{"empty password", testEmail, "", "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.client.SignIn(f.ctx, tt.email, tt.password)
			var vErr *internal.ValidationError
			require.ErrorAs(t, err, &vErr)
			require.Equal(t, tt.field, vErr.Field)
		})
	}
	require.Empty(t, f.fake.Requests(), "invalid input must not reach the provider")
}

func TestSignUp(t *testing.T) {
	f := newLoggedOutFixture(t)
	image := testutil.WriteFile(t, t.TempDir(), "avatar.png", []byte("\x89PNG"))

	resp, err := f.client.SignUp(f.ctx, api.SignUpRequest{
		Name:     "Grace",
		Email:    "grace@example.com",
		Password: "hopper",
		Image:    image,
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)

	reqs := f.fake.Requests()
	require.Len(t, reqs, 1)
	require.True(t, strings.HasPrefix(reqs[0].ContentType, "multipart/form-data"))

	_, err = f.client.SignUp(f.ctx, api.SignUpRequest{Name: "Grace", Email: "grace@example.com", Password: "x"})
	var apiErr *internal.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusConflict, apiErr.Status)
	require.Equal(t, "User already exists", apiErr.Message)
}

func TestSignUpMissingImage(t *testing.T) {
	f := newLoggedOutFixture(t)

	_, err := f.client.SignUp(f.ctx, api.SignUpRequest{
		Name: "Grace", Email: "grace@example.com", Password: "hopper",
		Image: "/does/not/exist.png",
	})
	require.Error(t, err)
	require.Empty(t, f.fake.Requests())
}

func TestRefreshRotates(t *testing.T) {
	f := newLoggedOutFixture(t)
	first := f.fake.IssueTokens(f.userID)

	second, err := f.client.Refresh(f.ctx, first.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = f.client.Refresh(f.ctx, first.RefreshToken)
	require.ErrorIs(t, err, internal.ErrUnauthorized)
}

func TestRestoreThroughClient(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	userID := fake.AddUser("Ada", testEmail, testPassword)
	stored := fake.IssueTokens(userID)

	store := testutil.NewMemoryStore(stored.RefreshToken)
	mgr := session.New(store)
	client, err := api.New(api.Options{BaseURL: fake.URL()}, mgr)
	require.NoError(t, err)

	mgr.Restore(context.Background(), client)

	require.Equal(t, session.Status{IsAuthenticated: true, IsLoading: false}, mgr.Status())
	require.NotEqual(t, stored.RefreshToken, store.Token(), "rotated refresh token is persisted")

	_, err = client.ListFolders(context.Background())
	require.NoError(t, err)
}

func TestRestoreRejected(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	store := testutil.NewMemoryStore("stale-refresh")
	mgr := session.New(store)
	client, err := api.New(api.Options{BaseURL: fake.URL()}, mgr)
	require.NoError(t, err)

	mgr.Restore(context.Background(), client)

	require.Equal(t, session.Status{IsAuthenticated: false, IsLoading: false}, mgr.Status())
	require.Empty(t, store.Token())
}

func TestUnauthenticatedRequestsNeverLeave(t *testing.T) {
	f := newLoggedOutFixture(t)

	_, err := f.client.ListNotebooks(f.ctx, "f-1")
	require.ErrorIs(t, err, internal.ErrUnauthorized)
	require.False(t, errors.Is(err, internal.ErrNetwork))
	require.Empty(t, f.fake.Requests())
}

func TestLogoutIsVisibleToNextRequest(t *testing.T) {
	f := newFixture(t)

	_, err := f.client.ListFolders(f.ctx)
	require.NoError(t, err)

	f.mgr.Logout()

	_, err = f.client.ListNotebooks(f.ctx, "f-1")
	require.ErrorIs(t, err, internal.ErrUnauthorized)
	require.Equal(t, 0, f.fake.RequestCount(http.MethodGet, "/api/notebooks"))
}

func TestRequestHeaders(t *testing.T) {
	f := newFixture(t)

	_, err := f.client.ListFolders(f.ctx)
	require.NoError(t, err)
	_, err = f.client.ListFolders(f.ctx)
	require.NoError(t, err)

	reqs := f.fake.Requests()
	require.Len(t, reqs, 2)
	for _, r := range reqs {
		require.NotEmpty(t, r.RequestID)
		require.True(t, strings.HasPrefix(r.Authorization, "Bearer "))
		require.Equal(t, "user_id="+f.userID, r.Query)
	}
	require.NotEqual(t, reqs[0].RequestID, reqs[1].RequestID)
}

func TestErrorEnvelope(t *testing.T) {
	f := newFixture(t)

	f.fake.FailNext(http.MethodGet, "/api/notebooks", http.StatusUnprocessableEntity,
		`{"message":"Validation failed","errors":{"folder_id":["is invalid"]}}`)
	_, err := f.client.ListNotebooks(f.ctx, "f-1")

	var apiErr *internal.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	require.Equal(t, "Validation failed", apiErr.Message)
	require.Equal(t, []string{"is invalid"}, apiErr.Errors["folder_id"])
}

func TestErrorEnvelopeFallback(t *testing.T) {
	f := newFixture(t)

	f.fake.FailNext(http.MethodGet, "/api/notes", http.StatusBadGateway, `<html>bad gateway</html>`)
	_, err := f.client.ListNotes(f.ctx, "nb-1")

	var apiErr *internal.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadGateway, apiErr.Status)
	require.Equal(t, "An unexpected error occurred", apiErr.Message)
}

func TestServerUnauthorizedMapsToSentinel(t *testing.T) {
	f := newFixture(t)

	f.fake.FailNext(http.MethodGet, "/api/notes/n-9", http.StatusUnauthorized, `{"message":"Token expired"}`)
	_, err := f.client.GetNote(f.ctx, "n-9")
	require.ErrorIs(t, err, internal.ErrUnauthorized)
}

func TestNetworkError(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	url := dead.URL
	dead.Close()

	mgr := session.New(testutil.NewMemoryStore(""))
	client, err := api.New(api.Options{BaseURL: url, Timeout: time.Second}, mgr)
	require.NoError(t, err)

	_, err = client.SignIn(context.Background(), testEmail, testPassword)
	require.ErrorIs(t, err, internal.ErrNetwork)

	var netErr *internal.NetworkError
	require.ErrorAs(t, err, &netErr)
	require.Equal(t, "/api/auth/signin", netErr.Path)
}

func TestMalformedSuccessBody(t *testing.T) {
	f := newFixture(t)

	f.fake.FailNext(http.MethodGet, "/api/notes/n-1", http.StatusOK, `{"id": [`)
	_, err := f.client.GetNote(f.ctx, "n-1")

	var parseErr *internal.ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "api", parseErr.Source)
}

func TestNumericIDsAreAccepted(t *testing.T) {
	f := newFixture(t)

	f.fake.FailNext(http.MethodGet, "/api/notebooks", http.StatusOK,
		`{"notebooks":[{"id":12,"folder_id":3,"title":"Legacy","color":"#6366f1","order_index":1}],"count":1}`)
	notebooks, err := f.client.ListNotebooks(f.ctx, "3")
	require.NoError(t, err)
	require.Len(t, notebooks, 1)
	require.Equal(t, internal.ID("12"), notebooks[0].ID)
	require.Equal(t, internal.ID("3"), notebooks[0].FolderID)
}

func TestSignOut(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.client.SignOut(f.ctx))

	// the provider revoked the access token even though the session still holds it
	_, err := f.client.ListFolders(f.ctx)
	require.ErrorIs(t, err, internal.ErrUnauthorized)
}

func TestPing(t *testing.T) {
	f := newLoggedOutFixture(t)
	_, err := f.client.Ping(f.ctx)
	require.NoError(t, err, "any HTTP answer counts as reachable")

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	client, err := api.New(api.Options{BaseURL: url, Timeout: time.Second}, f.mgr)
	require.NoError(t, err)
	_, err = client.Ping(f.ctx)
	require.ErrorIs(t, err, internal.ErrNetwork)
}
