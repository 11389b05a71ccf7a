package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

// KeyringPrefix marks a value stored in the OS keyring, as in
// "mail.password=keyring:exception-notifier/smtp".
const KeyringPrefix = "keyring:"

// ErrKeyring reports a keyring reference that could not be resolved.
var ErrKeyring = errors.New("keyring lookup failed")

type keyringSource struct {
	Source
}

// WithKeyring resolves keyring references in src. Lookup reports why a
// reference could not be resolved; Get treats it as absent.
func WithKeyring(src Source) Source {
	return keyringSource{Source: src}
}

func (s keyringSource) Get(key string) (string, bool) {
	v, ok, err := s.Lookup(key)
	if err != nil {
		return "", false
	}
	return v, ok
}

func (s keyringSource) Lookup(key string) (string, bool, error) {
	v, ok, err := lookup(s.Source, key)
	if err != nil || !ok || !strings.HasPrefix(v, KeyringPrefix) {
		return v, ok, err
	}
	service, user, found := strings.Cut(strings.TrimPrefix(v, KeyringPrefix), "/")
	if !found || service == "" || user == "" {
		return "", false, fmt.Errorf("%w: reference %q must have the form %s<service>/<user>", ErrKeyring, v, KeyringPrefix)
	}
	secret, err := keyring.Get(service, user)
	if err != nil {
		return "", false, fmt.Errorf("%w: %s/%s: %w", ErrKeyring, service, user, err)
	}
	return secret, true, nil
}
