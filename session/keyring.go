package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Keyring is the durable client storage for the two session keys: the
// bearer token and the serialized user. Both are cleared together.
type Keyring interface {
	Load() (token string, user []byte, err error)
	Store(token string, user []byte) error
	Clear() error
}

const (
	tokenFile = "access_token"
	userFile  = "user.json"
)

// FileKeyring persists the session under a state directory with 0600 files.
type FileKeyring struct {
	dir string
}

// NewFileKeyring creates a keyring rooted at dir, creating it when missing.
func NewFileKeyring(dir string) (*FileKeyring, error) {
	if dir == "" {
		return nil, fmt.Errorf("keyring dir is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create keyring dir: %w", err)
	}
	return &FileKeyring{dir: dir}, nil
}

func (k *FileKeyring) Load() (string, []byte, error) {
	token, err := os.ReadFile(filepath.Join(k.dir, tokenFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil, nil
		}
		return "", nil, fmt.Errorf("read token: %w", err)
	}

	user, err := os.ReadFile(filepath.Join(k.dir, userFile))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", nil, fmt.Errorf("read user: %w", err)
	}
	return string(token), user, nil
}

func (k *FileKeyring) Store(token string, user []byte) error {
	if err := os.WriteFile(filepath.Join(k.dir, tokenFile), []byte(token), 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	if user != nil {
		if err := os.WriteFile(filepath.Join(k.dir, userFile), user, 0o600); err != nil {
			return fmt.Errorf("write user: %w", err)
		}
	}
	return nil
}

func (k *FileKeyring) Clear() error {
	var errs []error
	for _, name := range []string{tokenFile, userFile} {
		if err := os.Remove(filepath.Join(k.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// MemoryKeyring keeps the session in memory only. Used in tests and by
// hosts that manage persistence themselves.
type MemoryKeyring struct {
	token string
	user  []byte
}

func (k *MemoryKeyring) Load() (string, []byte, error) { return k.token, k.user, nil }

func (k *MemoryKeyring) Store(token string, user []byte) error {
	k.token = token
	if user != nil {
		k.user = user
	}
	return nil
}

func (k *MemoryKeyring) Clear() error {
	k.token = ""
	k.user = nil
	return nil
}
