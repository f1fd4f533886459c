// Package session holds the authenticated identity for the SDK process:
// durable credentials, the auth API calls that produce them, and the
// Anonymous/Authenticating/Authenticated lifecycle.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/lingnexus/platform-sdk/errhandle"
	"github.com/lingnexus/platform-sdk/pkg/logger"
	"github.com/lingnexus/platform-sdk/transport"
)

// ErrNoSession is returned by authenticated operations when no token is
// held.
var ErrNoSession = errors.New("no active session")

// Store drives the session lifecycle. It owns the only legal transitions:
// Anonymous -> Authenticating -> Authenticated -> Anonymous.
type Store struct {
	client  *transport.Client
	creds   *Credentials
	handler *errhandle.Handler
	log     *logger.Logger

	mu             sync.Mutex
	authenticating bool
	onExpired      []func()
}

// StoreOption customizes a session store.
type StoreOption func(*Store)

// WithHandler sets the error handler.
func WithHandler(h *errhandle.Handler) StoreOption {
	return func(s *Store) { s.handler = h }
}

// WithLogger sets the store logger.
func WithLogger(log *logger.Logger) StoreOption {
	return func(s *Store) { s.log = log }
}

// New creates a session store over the given transport and credentials.
func New(client *transport.Client, creds *Credentials, opts ...StoreOption) *Store {
	s := &Store{
		client:  client,
		creds:   creds,
		handler: errhandle.New(),
		log:     logger.NewDefault("session"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Credentials exposes the session object for transport wiring.
func (s *Store) Credentials() *Credentials { return s.creds }

// State reports the current lifecycle position. A persisted token without
// a resolved user counts as Anonymous until FetchCurrentUser converges it.
func (s *Store) State() State {
	s.mu.Lock()
	authenticating := s.authenticating
	s.mu.Unlock()

	if authenticating {
		return Authenticating
	}
	if _, ok := s.creds.User(); ok && s.creds.Token() != "" {
		return Authenticated
	}
	return Anonymous
}

// IsAuthenticated reports whether both a token and a resolved user exist.
func (s *Store) IsAuthenticated() bool { return s.State() == Authenticated }

// OnSessionExpired registers a callback fired exactly once per detected
// expiry. Hosts typically redirect to their login entry point here.
func (s *Store) OnSessionExpired(fn func()) {
	s.mu.Lock()
	s.onExpired = append(s.onExpired, fn)
	s.mu.Unlock()
}

// Initialize restores persisted credentials. When only a token survived,
// the caller should follow up with FetchCurrentUser to converge the state.
func (s *Store) Initialize() error {
	return s.creds.Restore()
}

// Login authenticates with username and password and persists the session.
func (s *Store) Login(ctx context.Context, username, password string) (*AuthResponse, error) {
	return s.authenticate(ctx, "/auth/login", LoginRequest{Username: username, Password: password})
}

// Register creates an account and persists the returned session.
func (s *Store) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	return s.authenticate(ctx, "/auth/register", req)
}

func (s *Store) authenticate(ctx context.Context, path string, body any) (*AuthResponse, error) {
	s.setAuthenticating(true)
	defer s.setAuthenticating(false)

	resp, err := transport.Decode[AuthResponse](s.client.Post(ctx, path, body))
	if err != nil {
		s.handler.Handle(err)
		return nil, err
	}
	if err := s.creds.Set(resp.AccessToken, resp.User); err != nil {
		s.log.WithError(err).Warn("persist session")
	}
	s.log.WithField("username", resp.User.Username).Info("session established")
	return &resp, nil
}

// FetchCurrentUser resolves the user behind the held token. An expired or
// rejected token forces the session back to Anonymous and clears the
// persisted credentials.
func (s *Store) FetchCurrentUser(ctx context.Context) (*User, error) {
	if s.creds.Token() == "" {
		return nil, ErrNoSession
	}

	user, err := transport.Decode[User](s.client.Get(ctx, "/auth/me", nil))
	if err != nil {
		// The 401 path is already torn down by the transport hook; any
		// other failure still invalidates the locally held session.
		s.creds.ClearIfPresent()
		s.handler.Handle(err, errhandle.Silent())
		return nil, err
	}

	if err := s.creds.SetUser(user); err != nil {
		s.log.WithError(err).Warn("persist refreshed user")
	}
	return &user, nil
}

// Logout ends the session server-side (best effort) and always clears
// local credentials.
func (s *Store) Logout(ctx context.Context) error {
	_, err := s.client.Post(ctx, "/auth/logout", nil)
	if err != nil {
		s.log.WithError(err).Debug("server logout failed, clearing locally")
	}
	return s.creds.Clear()
}

// HandleUnauthorized is wired as the transport's unauthorized hook. Of any
// number of concurrent 401 responses, exactly one clears the session and
// fires the expiry callbacks.
func (s *Store) HandleUnauthorized() {
	if !s.creds.ClearIfPresent() {
		return
	}
	s.log.Info("session expired, credentials cleared")

	s.mu.Lock()
	callbacks := make([]func(), len(s.onExpired))
	copy(callbacks, s.onExpired)
	s.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
}

func (s *Store) setAuthenticating(v bool) {
	s.mu.Lock()
	s.authenticating = v
	s.mu.Unlock()
}
