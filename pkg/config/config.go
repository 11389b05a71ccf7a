package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Keys read by the notifier.
const (
	KeyMailHost               = "mail.host"
	KeyMailPort               = "mail.port"
	KeyMailUsername           = "mail.username"
	KeyMailPassword           = "mail.password"
	KeyMailInsecureSkipVerify = "mail.insecure.skip.verify"
	KeyMailSenderName         = "mail.sender.name"
	KeySubjectPrefix          = "subject.prefix"
	KeyToList                 = "to.list"
	KeyFrom                   = "from"
	KeyBodyMaxBytes           = "body.max.bytes"
)

// DefaultConfigPath is used when no path is given. It can be overridden via
// the EXCEPTION_NOTIFIER_CONFIG environment variable.
const DefaultConfigPath = "./notifier.properties"

// ErrMissingKey reports a required key that is absent or blank.
var ErrMissingKey = errors.New("configuration value not set")

// Source is a flat key/value configuration source.
type Source interface {
	// Get returns the raw value of key and whether it was present.
	Get(key string) (string, bool)
}

// Lookuper is implemented by sources whose lookups can fail for reasons
// other than an absent key.
type Lookuper interface {
	Lookup(key string) (string, bool, error)
}

func lookup(src Source, key string) (string, bool, error) {
	if l, ok := src.(Lookuper); ok {
		return l.Lookup(key)
	}
	v, ok := src.Get(key)
	return v, ok, nil
}

// MapSource is an in-memory Source.
type MapSource map[string]string

func (m MapSource) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Load reads a configuration file. The format follows the extension:
// .properties, .yaml or .yml. Values of the form keyring:<service>/<user>
// are resolved from the OS keyring.
func Load(configPath ...string) (Source, error) {
	path := DefaultConfigPath
	if env := os.Getenv("EXCEPTION_NOTIFIER_CONFIG"); env != "" {
		path = env
	}
	if len(configPath) > 0 && configPath[0] != "" {
		path = configPath[0]
	}

	var (
		src Source
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".properties":
		src, err = LoadProperties(path)
	case ".yaml", ".yml":
		src, err = LoadYAML(path)
	default:
		return nil, fmt.Errorf("unsupported config file format %q for %s", ext, path)
	}
	if err != nil {
		return nil, err
	}
	return WithKeyring(src), nil
}

// Required returns the value of key or an ErrMissingKey error naming it.
// Lookup failures are returned wrapped with the key.
func Required(src Source, key string) (string, error) {
	v, ok, err := lookup(src, key)
	if err != nil {
		return "", fmt.Errorf("%s's value could not be read: %w", key, err)
	}
	if !ok || strings.TrimSpace(v) == "" {
		return "", fmt.Errorf("%s's value was not found, please make sure it is set: %w", key, ErrMissingKey)
	}
	return v, nil
}

// RequiredInt is Required followed by an integer conversion.
func RequiredInt(src Source, key string) (int, error) {
	v, err := Required(src, key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q: %w", key, v, err)
	}
	return n, nil
}

// Optional returns "" when key is absent.
func Optional(src Source, key string) (string, error) {
	v, _, err := lookup(src, key)
	if err != nil {
		return "", fmt.Errorf("%s's value could not be read: %w", key, err)
	}
	return v, nil
}

// OptionalBool returns false when key is absent or blank.
func OptionalBool(src Source, key string) (bool, error) {
	v, err := Optional(src, key)
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(v) == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean, got %q: %w", key, v, err)
	}
	return b, nil
}

// OptionalInt64 returns 0 when key is absent or blank.
func OptionalInt64(src Source, key string) (int64, error) {
	v, err := Optional(src, key)
	if err != nil {
		return 0, err
	}
	if strings.TrimSpace(v) == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q: %w", key, v, err)
	}
	return n, nil
}

// SplitList splits a comma separated list, trimming entries and dropping
// empty ones.
func SplitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
