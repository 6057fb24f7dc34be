package credential

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "jirautil"

// tokenKey is the keyring entry holding the Jira API token.
const tokenKey = "jira-token"

// ErrNoToken is returned when no API token has been stored.
var ErrNoToken = errors.New("no Jira API token in keyring")

// TokenStore keeps the Jira API token in a keyring.
type TokenStore struct {
	ring keyring.Keyring
}

// NewTokenStore wraps an already opened keyring.
func NewTokenStore(ring keyring.Keyring) *TokenStore {
	return &TokenStore{ring: ring}
}

// OpenTokenStore opens the system keyring, falling back to an encrypted
// file under ~/.config/jirautil when no native backend is available.
func OpenTokenStore() (*TokenStore, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/jirautil/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("jirautil-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return NewTokenStore(ring), nil
}

// Token returns the stored API token.
func (s *TokenStore) Token() (string, error) {
	item, err := s.ring.Get(tokenKey)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("reading API token: %w", err)
	}
	if len(item.Data) == 0 {
		return "", ErrNoToken
	}
	return string(item.Data), nil
}

// SaveToken stores token, replacing any previous one. Empty and
// placeholder tokens are refused.
func (s *TokenStore) SaveToken(token string) error {
	if IsTemplateValue(FieldPassword, token) {
		return fmt.Errorf("refusing to store placeholder API token")
	}
	err := s.ring.Set(keyring.Item{
		Key:         tokenKey,
		Data:        []byte(token),
		Label:       "JiraUtil API token",
		Description: "Jira API token used by jirautil",
	})
	if err != nil {
		return fmt.Errorf("storing API token: %w", err)
	}
	return nil
}

// DeleteToken removes the stored token. Removing a token that was never
// stored is not an error.
func (s *TokenStore) DeleteToken() error {
	err := s.ring.Remove(tokenKey)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("removing API token: %w", err)
	}
	return nil
}

// StoredToken reads the API token from the system keyring.
func StoredToken() (string, error) {
	s, err := OpenTokenStore()
	if err != nil {
		return "", err
	}
	return s.Token()
}
