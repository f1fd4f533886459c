package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lingnexus/platform-sdk/transport"
)

func testUser() User {
	return User{ID: 1, Username: "ada", Email: "ada@example.com", IsActive: true}
}

func authServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"bad credentials"}`))
			return
		}
		json.NewEncoder(w).Encode(AuthResponse{
			AccessToken: "tok-abc",
			TokenType:   "bearer",
			User:        testUser(),
		})
	})
	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-abc" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"token expired"}`))
			return
		}
		json.NewEncoder(w).Encode(testUser())
	})
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"bye"}`))
	})
	return httptest.NewServer(mux)
}

func newSessionStore(t *testing.T, srv *httptest.Server) (*Store, *MemoryKeyring) {
	t.Helper()
	keyring := &MemoryKeyring{}
	creds := NewCredentials(keyring, nil)
	client := transport.New(transport.Config{BaseURL: srv.URL},
		transport.WithTokenProvider(creds))
	return New(client, creds), keyring
}

func TestLoginPersistsSession(t *testing.T) {
	srv := authServer(t)
	defer srv.Close()
	s, keyring := newSessionStore(t, srv)

	assert.Equal(t, Anonymous, s.State())

	resp, err := s.Login(context.Background(), "ada", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", resp.AccessToken)
	assert.Equal(t, Authenticated, s.State())
	assert.True(t, s.IsAuthenticated())

	token, userRaw, err := keyring.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", token)
	assert.Contains(t, string(userRaw), `"ada"`)
}

func TestLoginFailureStaysAnonymous(t *testing.T) {
	srv := authServer(t)
	defer srv.Close()
	s, keyring := newSessionStore(t, srv)

	_, err := s.Login(context.Background(), "ada", "wrong")
	require.Error(t, err)
	assert.Equal(t, Anonymous, s.State())

	token, _, _ := keyring.Load()
	assert.Empty(t, token)
}

func TestRestoreConvergesViaCurrentUser(t *testing.T) {
	srv := authServer(t)
	defer srv.Close()
	s, keyring := newSessionStore(t, srv)

	// token persisted from an earlier run, user document missing
	require.NoError(t, keyring.Store("tok-abc", nil))
	require.NoError(t, s.Initialize())
	assert.Equal(t, Anonymous, s.State(), "token without user is not authenticated")

	user, err := s.FetchCurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ada", user.Username)
	assert.Equal(t, Authenticated, s.State())
}

func TestFetchCurrentUserWithoutToken(t *testing.T) {
	srv := authServer(t)
	defer srv.Close()
	s, _ := newSessionStore(t, srv)

	_, err := s.FetchCurrentUser(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestExpiredTokenClearsKeyringOnce(t *testing.T) {
	srv := authServer(t)
	defer srv.Close()

	keyring := &MemoryKeyring{}
	creds := NewCredentials(keyring, nil)

	var expirations int
	var mu sync.Mutex

	var s *Store
	client := transport.New(transport.Config{BaseURL: srv.URL},
		transport.WithTokenProvider(creds),
		transport.WithUnauthorizedHook(func() { s.HandleUnauthorized() }))
	s = New(client, creds)
	s.OnSessionExpired(func() {
		mu.Lock()
		expirations++
		mu.Unlock()
	})

	require.NoError(t, creds.Set("stale-token", testUser()))

	// several concurrent calls all hit 401; teardown must happen once
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.FetchCurrentUser(context.Background())
		}()
	}
	wg.Wait()

	mu.Lock()
	got := expirations
	mu.Unlock()
	assert.Equal(t, 1, got, "expiry callbacks fire exactly once")
	assert.Equal(t, Anonymous, s.State())

	token, _, _ := keyring.Load()
	assert.Empty(t, token)
}

func TestLogoutAlwaysClearsLocally(t *testing.T) {
	srv := authServer(t)
	s, keyring := newSessionStore(t, srv)

	_, err := s.Login(context.Background(), "ada", "secret")
	require.NoError(t, err)

	// server gone; logout still clears local state
	srv.Close()
	_ = s.Logout(context.Background())

	assert.Equal(t, Anonymous, s.State())
	token, _, _ := keyring.Load()
	assert.Empty(t, token)
}

func TestFileKeyringRoundTrip(t *testing.T) {
	dir := t.TempDir()
	k, err := NewFileKeyring(dir)
	require.NoError(t, err)

	token, user, err := k.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Nil(t, user)

	require.NoError(t, k.Store("tok", []byte(`{"id":1}`)))
	token, user, err = k.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
	assert.JSONEq(t, `{"id":1}`, string(user))

	require.NoError(t, k.Clear())
	token, user, err = k.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Nil(t, user)
}

func TestRestoreDropsCorruptUser(t *testing.T) {
	keyring := &MemoryKeyring{}
	require.NoError(t, keyring.Store("tok", []byte("not json")))

	creds := NewCredentials(keyring, nil)
	require.NoError(t, creds.Restore())

	assert.Equal(t, "tok", creds.Token())
	_, ok := creds.User()
	assert.False(t, ok, "corrupt user document is dropped")
}
