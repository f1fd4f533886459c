// Package platformsdk wires the LingNexus client stack together: one
// transport, one error handler, one session and a store per domain. Hosts
// embed the SDK and read store state; all stores share the session's
// credentials and are reset when the session ends.
package platformsdk

import (
	"context"
	"fmt"

	"github.com/lingnexus/platform-sdk/agents"
	"github.com/lingnexus/platform-sdk/config"
	"github.com/lingnexus/platform-sdk/creator"
	"github.com/lingnexus/platform-sdk/errhandle"
	"github.com/lingnexus/platform-sdk/files"
	"github.com/lingnexus/platform-sdk/marketplace"
	"github.com/lingnexus/platform-sdk/monitoring"
	"github.com/lingnexus/platform-sdk/pkg/logger"
	"github.com/lingnexus/platform-sdk/session"
	"github.com/lingnexus/platform-sdk/skills"
	"github.com/lingnexus/platform-sdk/transport"
)

// SDK is the assembled client. Construct it with New, call Initialize once,
// and use the domain stores directly.
type SDK struct {
	Client  *transport.Client
	Handler *errhandle.Handler
	Session *session.Store

	Skills      *skills.Store
	Agents      *agents.Store
	Marketplace *marketplace.Store
	Monitoring  *monitoring.Store
	Files       *files.Store
	Creator     *creator.Client
}

// Options customize SDK assembly.
type Options struct {
	// Notifier receives user-facing error messages. Nil keeps the no-op.
	Notifier errhandle.Notifier
	// Keyring overrides the file-backed credential store.
	Keyring session.Keyring
	// Logger is the root logger; components derive theirs from its config.
	Logger *logger.Logger
}

// New assembles the SDK from configuration.
func New(cfg config.Config, opts Options) (*SDK, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("sdk config: %w", err)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewDefault("platform-sdk")
	}

	keyring := opts.Keyring
	if keyring == nil {
		fk, err := session.NewFileKeyring(cfg.StateDir)
		if err != nil {
			return nil, fmt.Errorf("sdk keyring: %w", err)
		}
		keyring = fk
	}

	handlerOpts := []errhandle.HandlerOption{errhandle.WithLogger(log.WithField("component", "errors"))}
	if opts.Notifier != nil {
		handlerOpts = append(handlerOpts, errhandle.WithNotifier(opts.Notifier))
	}
	handler := errhandle.New(handlerOpts...)

	creds := session.NewCredentials(keyring, log.WithField("component", "session"))

	sdk := &SDK{Handler: handler}

	clientOpts := []transport.Option{
		transport.WithTokenProvider(creds),
		transport.WithUnauthorizedHook(func() { sdk.onUnauthorized() }),
		transport.WithLogger(log.WithField("component", "transport")),
	}
	if cfg.RateLimit > 0 {
		clientOpts = append(clientOpts, transport.WithRateLimit(cfg.RateLimit, cfg.RateBurst))
	}
	client := transport.New(transport.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Retry: transport.RetryConfig{
			MaxRetries: cfg.MaxRetries,
			BaseDelay:  cfg.RetryBaseDelay,
			Multiplier: 2,
		},
	}, clientOpts...)

	sdk.Client = client
	sdk.Session = session.New(client, creds,
		session.WithHandler(handler),
		session.WithLogger(log.WithField("component", "session")))

	sdk.Skills = skills.NewStore(client, handler)
	sdk.Agents = agents.NewStore(client, handler)
	sdk.Marketplace = marketplace.NewStore(client, handler)
	sdk.Monitoring = monitoring.NewStore(client, handler)
	sdk.Files = files.NewStore(client, handler)
	sdk.Creator = creator.NewClient(client)

	// Expiry tears down per-user state so the next login starts clean.
	sdk.Session.OnSessionExpired(sdk.ResetStores)

	return sdk, nil
}

// Initialize restores persisted credentials and, when a token survived,
// converges the session by fetching the current user. A rejected token
// leaves the SDK anonymous without error.
func (s *SDK) Initialize(ctx context.Context) error {
	if err := s.Session.Initialize(); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	if s.Session.Credentials().Token() == "" {
		return nil
	}
	if _, err := s.Session.FetchCurrentUser(ctx); err != nil {
		if _, ok := transport.AsAPIError(err); ok {
			return nil
		}
		return err
	}
	return nil
}

// Logout ends the session and clears all per-user store state.
func (s *SDK) Logout(ctx context.Context) error {
	err := s.Session.Logout(ctx)
	s.ResetStores()
	return err
}

// ResetStores clears every domain store.
func (s *SDK) ResetStores() {
	s.Skills.Reset()
	s.Agents.Reset()
	s.Marketplace.Reset()
	s.Monitoring.Reset()
	s.Files.Reset()
}

func (s *SDK) onUnauthorized() {
	if s.Session != nil {
		s.Session.HandleUnauthorized()
	}
}
