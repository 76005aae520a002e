package keys

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// SigningSecretID is the entry holding the Slack signing secret.
const SigningSecretID = "slack-signing-secret"

// Store provides access to secrets kept outside the config file.
type Store interface {
	Get(id string) (string, error)
	Put(id string, secret string) error
	Delete(id string) error
}

var ErrKeyNotFound = errors.New("key not found")

// MapStore keeps secrets in memory.
type MapStore struct {
	Secrets map[string]string
}

func (s *MapStore) Get(id string) (string, error) {
	if s == nil || s.Secrets == nil {
		return "", ErrKeyNotFound
	}
	val, ok := s.Secrets[id]
	if !ok || val == "" {
		return "", ErrKeyNotFound
	}
	return val, nil
}

func (s *MapStore) Put(id string, secret string) error {
	if s.Secrets == nil {
		s.Secrets = map[string]string{}
	}
	s.Secrets[id] = secret
	return nil
}

func (s *MapStore) Delete(id string) error {
	if s == nil || s.Secrets == nil {
		return nil
	}
	delete(s.Secrets, id)
	return nil
}

// SigningSecret returns slack.signing_secret when set. Otherwise, with
// slack.keyring enabled, the secret must be present in store. An empty result
// means request signing is not checked.
func SigningSecret(v *viper.Viper, store Store) (string, error) {
	if s := strings.TrimSpace(v.GetString("slack.signing_secret")); s != "" {
		return s, nil
	}
	if !v.GetBool("slack.keyring") {
		return "", nil
	}
	if store == nil {
		return "", fmt.Errorf("slack.keyring is enabled but no key store is available")
	}
	s, err := store.Get(SigningSecretID)
	if errors.Is(err, ErrKeyNotFound) {
		return "", fmt.Errorf("slack.keyring is enabled but no signing secret is stored; run `things-to-check config secret set`")
	}
	if err != nil {
		return "", fmt.Errorf("read signing secret: %w", err)
	}
	return strings.TrimSpace(s), nil
}
