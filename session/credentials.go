package session

import (
	"encoding/json"
	"sync"

	"github.com/lingnexus/platform-sdk/pkg/logger"
)

// Credentials is the process-wide session object: the bearer token and the
// resolved user, persisted through a Keyring. It implements the
// transport.TokenProvider contract. Token presence does not imply validity;
// the server decides that on the first authenticated call.
type Credentials struct {
	mu      sync.RWMutex
	token   string
	user    *User
	keyring Keyring
	log     *logger.Logger
}

// NewCredentials creates an empty credential holder backed by the keyring.
func NewCredentials(keyring Keyring, log *logger.Logger) *Credentials {
	if log == nil {
		log = logger.NewDefault("session")
	}
	return &Credentials{keyring: keyring, log: log}
}

// Restore loads persisted state from the keyring. A corrupt user document
// is dropped; the token alone still restores (it converges via a current
// user fetch).
func (c *Credentials) Restore() error {
	token, userRaw, err := c.keyring.Load()
	if err != nil {
		return err
	}

	var user *User
	if len(userRaw) > 0 {
		var u User
		if jerr := json.Unmarshal(userRaw, &u); jerr != nil {
			c.log.WithError(jerr).Warn("dropping corrupt persisted user")
		} else {
			user = &u
		}
	}

	c.mu.Lock()
	c.token = token
	c.user = user
	c.mu.Unlock()
	return nil
}

// Token returns the current bearer token, empty when anonymous.
func (c *Credentials) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// User returns a copy of the resolved user, if any.
func (c *Credentials) User() (User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return User{}, false
	}
	return *c.user, true
}

// Set stores a fresh token and user and persists both.
func (c *Credentials) Set(token string, user User) error {
	c.mu.Lock()
	c.token = token
	c.user = &user
	c.mu.Unlock()

	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return c.keyring.Store(token, raw)
}

// SetUser refreshes the resolved user, keeping the token.
func (c *Credentials) SetUser(user User) error {
	c.mu.Lock()
	c.user = &user
	token := c.token
	c.mu.Unlock()

	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return c.keyring.Store(token, raw)
}

// Clear drops token and user and wipes the keyring.
func (c *Credentials) Clear() error {
	c.mu.Lock()
	c.token = ""
	c.user = nil
	c.mu.Unlock()
	return c.keyring.Clear()
}

// ClearIfPresent clears only when a token is currently held and reports
// whether it did. This backs the exactly-once guarantee of session expiry
// handling: of N concurrent 401 responses, exactly one observes the
// transition.
func (c *Credentials) ClearIfPresent() bool {
	c.mu.Lock()
	had := c.token != ""
	c.token = ""
	c.user = nil
	c.mu.Unlock()

	if had {
		if err := c.keyring.Clear(); err != nil {
			c.log.WithError(err).Warn("clear keyring after session expiry")
		}
	}
	return had
}
