package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/companion/internal/constants"
)

var (
	// ErrNotFound is returned when no credential is stored in the keyring
	ErrNotFound = errors.New("credential not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Vault stores the chat API credential override in the OS keyring.
type Vault struct {
	service string
	user    string
}

// New returns a Vault scoped to the application's keyring entry.
func New() *Vault {
	return &Vault{
		service: constants.AppName,
		user:    constants.DefaultKeyringUser,
	}
}

// GetAPIKey retrieves the stored API key. Returns ErrNotFound if nothing is stored.
func (v *Vault) GetAPIKey() (string, error) {
	key, err := keyring.Get(v.service, v.user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return key, nil
}

// SetAPIKey stores the API key in the OS keyring.
func (v *Vault) SetAPIKey(key string) error {
	if key == "" {
		return errors.New("api key cannot be empty")
	}
	if err := keyring.Set(v.service, v.user, key); err != nil {
		return fmt.Errorf("%w: failed to store api key: %v", ErrKeyringUnavailable, err)
	}
	return nil
}

// DeleteAPIKey removes the API key from the OS keyring.
func (v *Vault) DeleteAPIKey() error {
	err := keyring.Delete(v.service, v.user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: failed to delete api key: %v", ErrKeyringUnavailable, err)
	}
	return nil
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func (v *Vault) IsAvailable() bool {
	_, err := keyring.Get(v.service, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
