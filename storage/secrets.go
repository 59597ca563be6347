package storage

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const keyringService = "lazydb"

// Secrets keeps connection passwords in the OS keyring, keyed by
// connection id.
type Secrets struct {
	service string
}

func NewSecrets() *Secrets {
	return &Secrets{service: keyringService}
}

// Get returns "" when no password is stored.
func (s *Secrets) Get(connectionID string) (string, error) {
	pw, err := keyring.Get(s.service, connectionID)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read password from keyring: %w", err)
	}
	return pw, nil
}

// Set stores password; an empty password removes the entry.
func (s *Secrets) Set(connectionID, password string) error {
	if password == "" {
		return s.Delete(connectionID)
	}
	if err := keyring.Set(s.service, connectionID, password); err != nil {
		return fmt.Errorf("failed to store password in keyring: %w", err)
	}
	return nil
}

func (s *Secrets) Delete(connectionID string) error {
	err := keyring.Delete(s.service, connectionID)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete password from keyring: %w", err)
	}
	return nil
}
