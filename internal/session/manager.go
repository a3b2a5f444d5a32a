// Package session holds the client's authentication state: the in-memory
// access credential and the durable refresh credential behind it.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/iksnae/smartnotes/internal"
)

// CredentialStore persists the refresh credential across restarts.
// Load returns "" with a nil error when nothing is stored.
type CredentialStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// Exchanger trades a refresh credential for a fresh credential pair
type Exchanger interface {
	Refresh(ctx context.Context, refreshToken string) (*internal.AuthResponse, error)
}

// Status is the externally visible session state
type Status struct {
	IsAuthenticated bool
	IsLoading       bool
}

type credentials struct {
	accessToken  string
	refreshToken string
	tokenType    string
	expiry       time.Time
}

// Manager is the single authority over whether the user is logged in.
// It is safe for concurrent use and implements oauth2.TokenSource so request
// paths read the live credential instead of holding a copy.
type Manager struct {
	mu      sync.RWMutex
	store   CredentialStore
	creds   *credentials
	loading bool
	now     func() time.Time

	restoreOnce sync.Once
}

// Option configures a Manager
type Option func(*Manager)

// WithClock overrides the time source used for expiry checks
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// New returns a logged-out Manager
func New(store CredentialStore, opts ...Option) *Manager {
	m := &Manager{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Login installs the credentials from a successful sign-in and persists the
// refresh credential. A persistence failure is logged; the session is still
// established for this process.
func (m *Manager) Login(resp *internal.AuthResponse) {
	if resp == nil || resp.AccessToken == "" {
		internal.LogWarn("Ignoring login without an access token")
		return
	}

	creds := &credentials{
		accessToken:  resp.AccessToken,
		refreshToken: resp.RefreshToken,
		tokenType:    resp.TokenType,
		expiry:       resp.Expiry(m.now()),
	}

	m.mu.Lock()
	m.creds = creds
	m.mu.Unlock()

	if creds.refreshToken == "" {
		// A stored token from an earlier session must not outlive this login
		internal.LogWarn("Login response carried no refresh token; session will not survive a restart")
		if err := m.store.Clear(); err != nil {
			internal.LogWarn("Failed to clear stored credentials: %v", err)
		}
		return
	}
	if err := m.store.Save(creds.refreshToken); err != nil {
		internal.LogWarn("Failed to persist refresh token: %v", err)
	}
}

// Logout discards the in-memory and durable credentials. Calling it while
// logged out is a no-op.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.creds = nil
	m.mu.Unlock()

	if err := m.store.Clear(); err != nil {
		internal.LogWarn("Failed to clear stored credentials: %v", err)
	}
}

// Status reports whether a valid access credential is held and whether a
// restore is in progress
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Status{
		IsAuthenticated: m.validLocked(),
		IsLoading:       m.loading,
	}
}

// Expiry returns the access credential's expiry; zero when logged out or
// when the credential does not expire
func (m *Manager) Expiry() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.creds == nil {
		return time.Time{}
	}
	return m.creds.expiry
}

// Restore attempts, once per process, to re-establish a session from the
// stored refresh credential. Failures leave the manager logged out and are
// never returned. IsLoading is true only while the attempt is running.
func (m *Manager) Restore(ctx context.Context, ex Exchanger) {
	m.restoreOnce.Do(func() {
		m.mu.Lock()
		m.loading = true
		m.mu.Unlock()
		defer func() {
			m.mu.Lock()
			m.loading = false
			m.mu.Unlock()
		}()
		m.restore(ctx, ex)
	})
}

func (m *Manager) restore(ctx context.Context, ex Exchanger) {
	refresh, err := m.store.Load()
	if err != nil {
		internal.LogWarn("Failed to read stored credentials: %v", err)
		return
	}
	if refresh == "" {
		internal.LogDebug("No stored session")
		return
	}

	resp, err := ex.Refresh(ctx, refresh)
	switch {
	case errors.Is(err, internal.ErrUnauthorized):
		internal.LogInfo("Stored session was rejected; logging out")
		if err := m.store.Clear(); err != nil {
			internal.LogWarn("Failed to clear stored credentials: %v", err)
		}
		return
	case err != nil:
		internal.LogWarn("Could not restore session: %v", err)
		return
	case resp == nil || resp.AccessToken == "":
		internal.LogWarn("Refresh returned no access token; logging out")
		if err := m.store.Clear(); err != nil {
			internal.LogWarn("Failed to clear stored credentials: %v", err)
		}
		return
	}

	m.mu.RLock()
	alreadyLoggedIn := m.creds != nil
	m.mu.RUnlock()
	if alreadyLoggedIn {
		internal.LogDebug("Session established during restore; discarding restored credentials")
		return
	}

	restored := *resp
	if restored.RefreshToken == "" {
		restored.RefreshToken = refresh
	}
	m.Login(&restored)
	internal.LogDebug("Session restored")
}

// Token implements oauth2.TokenSource. It returns internal.ErrUnauthorized
// when no valid access credential is held.
func (m *Manager) Token() (*oauth2.Token, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.validLocked() {
		return nil, internal.ErrUnauthorized
	}
	tokenType := m.creds.tokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	return &oauth2.Token{
		AccessToken: m.creds.accessToken,
		TokenType:   tokenType,
		Expiry:      m.creds.expiry,
	}, nil
}

// Subject returns the user id carried in the access credential's "sub" claim.
// The token is not verified; the Data Provider does that on every request.
func (m *Manager) Subject() (string, error) {
	tok, err := m.Token()
	if err != nil {
		return "", err
	}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(tok.AccessToken, &claims); err != nil {
		return "", &internal.ParseError{Source: "token", Key: "sub", Err: err}
	}
	if claims.Subject == "" {
		return "", &internal.ParseError{Source: "token", Key: "sub", Err: errors.New("claim missing")}
	}
	return claims.Subject, nil
}

func (m *Manager) validLocked() bool {
	if m.creds == nil {
		return false
	}
	return m.creds.expiry.IsZero() || m.now().Before(m.creds.expiry)
}
