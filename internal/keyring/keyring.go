package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/murmur/internal/constants"
)

var (
	ErrNotFound           = errors.New("credentials not found in keyring")
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Store reads and writes secrets for one keyring service. The zero value
// uses the application name as the service.
type Store struct {
	Service string
}

func (s Store) service() string {
	if s.Service == "" {
		return constants.AppName
	}
	return s.Service
}

func (s Store) Get(user string) (string, error) {
	secret, err := keyring.Get(s.service(), user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

func (s Store) Set(user, secret string) error {
	if secret == "" {
		return errors.New("secret cannot be empty")
	}
	if err := keyring.Set(s.service(), user, secret); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

func (s Store) Delete(user string) error {
	if err := keyring.Delete(s.service(), user); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// Available reports whether the OS keyring answers at all. A miss counts as
// available.
func (s Store) Available() bool {
	_, err := keyring.Get(s.service(), "availability-probe")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}

// GetConnectionString returns the PostgreSQL connection string stored for
// the journal database.
func GetConnectionString() (string, error) {
	return Store{}.Get(constants.DefaultKeyringUser)
}

func SetConnectionString(connStr string) error {
	return Store{}.Set(constants.DefaultKeyringUser, connStr)
}

func DeleteConnectionString() error {
	return Store{}.Delete(constants.DefaultKeyringUser)
}

func IsAvailable() bool {
	return Store{}.Available()
}
