package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iksnae/smartnotes/internal"
	"github.com/iksnae/smartnotes/internal/session"
	"github.com/iksnae/smartnotes/testutil"
)

type exchangeFunc func(ctx context.Context, refreshToken string) (*internal.AuthResponse, error)

func (f exchangeFunc) Refresh(ctx context.Context, refreshToken string) (*internal.AuthResponse, error) {
	return f(ctx, refreshToken)
}

func mustNotExchange(t *testing.T) session.Exchanger {
	return exchangeFunc(func(context.Context, string) (*internal.AuthResponse, error) {
		t.Fatal("Refresh must not be called")
		return nil, nil
	})
}

func TestNewStartsLoggedOut(t *testing.T) {
	m := session.New(testutil.NewMemoryStore(""))

	require.Equal(t, session.Status{IsAuthenticated: false, IsLoading: false}, m.Status())

	_, err := m.Token()
	require.ErrorIs(t, err, internal.ErrUnauthorized)
}

func TestLoginPersistsRefreshToken(t *testing.T) {
	store := testutil.NewMemoryStore("")
	m := session.New(store)

	m.Login(&internal.AuthResponse{AccessToken: "access-1", RefreshToken: "refresh-1", ExpiresIn: 3600})

	require.True(t, m.Status().IsAuthenticated)
	require.Equal(t, "refresh-1", store.Token())

	tok, err := m.Token()
	require.NoError(t, err)
	require.Equal(t, "access-1", tok.AccessToken)
	require.Equal(t, "Bearer", tok.TokenType)
}

func TestLoginWithoutRestore(t *testing.T) {
	now := time.Now()
	m := session.New(testutil.NewMemoryStore(""), session.WithClock(func() time.Time { return now }))

	m.Login(&internal.AuthResponse{AccessToken: "t1", RefreshToken: "r1", ExpiresAt: now.Add(time.Hour).Unix()})

	require.Equal(t, session.Status{IsAuthenticated: true, IsLoading: false}, m.Status())
}

func TestRestoreReportsLoadingWhileRunning(t *testing.T) {
	var m *session.Manager
	var during session.Status
	m = session.New(testutil.NewMemoryStore("refresh-1"))

	m.Restore(context.Background(), exchangeFunc(func(context.Context, string) (*internal.AuthResponse, error) {
		during = m.Status()
		return &internal.AuthResponse{AccessToken: "access-2", RefreshToken: "refresh-2"}, nil
	}))

	require.True(t, during.IsLoading)
	require.Equal(t, session.Status{IsAuthenticated: true, IsLoading: false}, m.Status())
}

func TestLoginWithoutRefreshTokenClearsStored(t *testing.T) {
	store := testutil.NewMemoryStore("")
	m := session.New(store)

	m.Login(&internal.AuthResponse{AccessToken: "t1", RefreshToken: "r1"})
	require.Equal(t, "r1", store.Token())

	m.Login(&internal.AuthResponse{AccessToken: "t2"})

	require.True(t, m.Status().IsAuthenticated)
	require.Empty(t, store.Token())
	require.Equal(t, 1, store.Clears)
}

func TestLoginSurvivesStoreFailure(t *testing.T) {
	store := testutil.NewMemoryStore("")
	store.SaveErr = errors.New("disk full")
	m := session.New(store)

	m.Login(&internal.AuthResponse{AccessToken: "access-1", RefreshToken: "refresh-1"})

	require.True(t, m.Status().IsAuthenticated)
}

func TestLoginIgnoresEmptyAccessToken(t *testing.T) {
	store := testutil.NewMemoryStore("")
	m := session.New(store)

	m.Login(&internal.AuthResponse{RefreshToken: "refresh-1"})
	m.Login(nil)

	require.False(t, m.Status().IsAuthenticated)
	require.Zero(t, store.Saves)
}

func TestLogout(t *testing.T) {
	store := testutil.NewMemoryStore("")
	m := session.New(store)
	m.Login(&internal.AuthResponse{AccessToken: "a", RefreshToken: "r"})

	m.Logout()
	require.False(t, m.Status().IsAuthenticated)
	require.Empty(t, store.Token())

	// idempotent
	m.Logout()
	require.False(t, m.Status().IsAuthenticated)
	require.Equal(t, 2, store.Clears)
}

func TestExpiryIsEnforced(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	clock := func() time.Time { return now }
	m := session.New(testutil.NewMemoryStore(""), session.WithClock(clock))

	m.Login(&internal.AuthResponse{AccessToken: "a", RefreshToken: "r", ExpiresIn: 60})
	require.True(t, m.Status().IsAuthenticated)
	require.Equal(t, now.Add(time.Minute), m.Expiry())

	now = now.Add(61 * time.Second)
	require.False(t, m.Status().IsAuthenticated)
	_, err := m.Token()
	require.ErrorIs(t, err, internal.ErrUnauthorized)
}

func TestRestore(t *testing.T) {
	tests := []struct {
		name       string
		stored     string
		loadErr    error
		exchange   func(t *testing.T) session.Exchanger
		wantAuth   bool
		wantStored string
		wantAccess string
	}{
		{
			name:       "nothing stored",
			stored:     "",
			exchange:   mustNotExchange,
			wantAuth:   false,
			wantStored: "",
		},
		{
			name:       "store unreadable",
			stored:     "refresh-1",
			loadErr:    errors.New("locked"),
			exchange:   mustNotExchange,
			wantAuth:   false,
			wantStored: "refresh-1",
		},
		{
			name:   "refresh succeeds with rotation",
			stored: "refresh-1",
			exchange: func(t *testing.T) session.Exchanger {
				return exchangeFunc(func(_ context.Context, rt string) (*internal.AuthResponse, error) {
					require.Equal(t, "refresh-1", rt)
					return &internal.AuthResponse{AccessToken: "access-2", RefreshToken: "refresh-2", ExpiresIn: 3600}, nil
				})
			},
			wantAuth:   true,
			wantStored: "refresh-2",
			wantAccess: "access-2",
		},
		{
			name:   "refresh succeeds without rotation",
			stored: "refresh-1",
			exchange: func(t *testing.T) session.Exchanger {
				return exchangeFunc(func(context.Context, string) (*internal.AuthResponse, error) {
					return &internal.AuthResponse{AccessToken: "access-2"}, nil
				})
			},
			wantAuth:   true,
			wantStored: "refresh-1",
			wantAccess: "access-2",
		},
		{
			name:   "refresh rejected",
			stored: "refresh-1",
			exchange: func(t *testing.T) session.Exchanger {
				return exchangeFunc(func(context.Context, string) (*internal.AuthResponse, error) {
					return nil, &internal.APIError{Method: "POST", Path: "/api/auth/refresh", Status: 401}
				})
			},
			wantAuth:   false,
			wantStored: "",
		},
		{
			name:   "provider unreachable",
			stored: "refresh-1",
			exchange: func(t *testing.T) session.Exchanger {
				return exchangeFunc(func(context.Context, string) (*internal.AuthResponse, error) {
					return nil, &internal.NetworkError{Method: "POST", Path: "/api/auth/refresh", Err: errors.New("connection refused")}
				})
			},
			wantAuth:   false,
			wantStored: "refresh-1",
		},
		{
			name:   "refresh returns no access token",
			stored: "refresh-1",
			exchange: func(t *testing.T) session.Exchanger {
				return exchangeFunc(func(context.Context, string) (*internal.AuthResponse, error) {
					return &internal.AuthResponse{}, nil
				})
			},
			wantAuth:   false,
			wantStored: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.NewMemoryStore(tt.stored)
			store.LoadErr = tt.loadErr
			m := session.New(store)

			m.Restore(context.Background(), tt.exchange(t))

			status := m.Status()
			require.False(t, status.IsLoading)
			require.Equal(t, tt.wantAuth, status.IsAuthenticated)
			require.Equal(t, tt.wantStored, store.Token())

			if tt.wantAccess != "" {
				tok, err := m.Token()
				require.NoError(t, err)
				require.Equal(t, tt.wantAccess, tok.AccessToken)
			}
		})
	}
}

func TestRestoreRunsOnce(t *testing.T) {
	store := testutil.NewMemoryStore("refresh-1")
	m := session.New(store)

	calls := 0
	ex := exchangeFunc(func(context.Context, string) (*internal.AuthResponse, error) {
		calls++
		return &internal.AuthResponse{AccessToken: "a", RefreshToken: "r2"}, nil
	})

	m.Restore(context.Background(), ex)
	m.Logout()
	m.Restore(context.Background(), ex)

	require.Equal(t, 1, calls)
	require.False(t, m.Status().IsAuthenticated)
}

func TestRestoreDoesNotOverrideConcurrentLogin(t *testing.T) {
	store := testutil.NewMemoryStore("old-refresh")
	m := session.New(store)

	ex := exchangeFunc(func(context.Context, string) (*internal.AuthResponse, error) {
		m.Login(&internal.AuthResponse{AccessToken: "interactive", RefreshToken: "interactive-refresh"})
		return &internal.AuthResponse{AccessToken: "restored", RefreshToken: "restored-refresh"}, nil
	})
	m.Restore(context.Background(), ex)

	tok, err := m.Token()
	require.NoError(t, err)
	require.Equal(t, "interactive", tok.AccessToken)
	require.Equal(t, "interactive-refresh", store.Token())
}

func TestTokenReadsThroughAfterLogout(t *testing.T) {
	m := session.New(testutil.NewMemoryStore(""))
	m.Login(&internal.AuthResponse{AccessToken: "a", RefreshToken: "r"})

	_, err := m.Token()
	require.NoError(t, err)

	m.Logout()
	_, err = m.Token()
	require.ErrorIs(t, err, internal.ErrUnauthorized)
}

func TestSubject(t *testing.T) {
	m := session.New(testutil.NewMemoryStore(""))

	_, err := m.Subject()
	require.ErrorIs(t, err, internal.ErrUnauthorized)

	m.Login(&internal.AuthResponse{
		AccessToken:  testutil.SignedToken(t, "user-42", time.Now().Add(time.Hour)),
		RefreshToken: "r",
	})
	sub, err := m.Subject()
	require.NoError(t, err)
	require.Equal(t, "user-42", sub)

	m.Login(&internal.AuthResponse{AccessToken: "not-a-jwt", RefreshToken: "r"})
	_, err = m.Subject()
	var parseErr *internal.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestManagerConcurrentAccess(t *testing.T) {
	m := session.New(testutil.NewMemoryStore(""))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			m.Login(&internal.AuthResponse{AccessToken: "a", RefreshToken: "r"})
			m.Logout()
		}()
		go func() {
			defer wg.Done()
			_ = m.Status()
			_, _ = m.Token()
		}()
	}
	wg.Wait()
}
