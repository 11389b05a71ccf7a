// Package config provides the key/value configuration sources read by the
// exception notifier: .properties files, YAML files, in-memory maps, and
// OS keyring references for secrets.
package config
