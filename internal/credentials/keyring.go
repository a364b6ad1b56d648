// Package credentials keeps gateway secrets in the OS keyring.
package credentials

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"healthsync/internal/config"
)

// Keyring stores secrets under a single keyring service name.
type Keyring struct {
	service string
}

func NewKeyring(service string) *Keyring {
	return &Keyring{service: service}
}

// Get returns config.ErrSecretNotFound when key has no entry.
func (k *Keyring) Get(key string) (string, error) {
	v, err := keyring.Get(k.service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", config.ErrSecretNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read %s from keyring: %w", key, err)
	}
	return v, nil
}

func (k *Keyring) Set(key, value string) error {
	if err := keyring.Set(k.service, key, value); err != nil {
		return fmt.Errorf("write %s to keyring: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (k *Keyring) Delete(key string) error {
	err := keyring.Delete(k.service, key)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("delete %s from keyring: %w", key, err)
	}
	return nil
}
