// SPDX-FileCopyrightText: 2026 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package notifier

import (
	"fmt"
	"sync"

	"github.com/telekom/exception-notifier/pkg/config"
	"github.com/telekom/exception-notifier/pkg/mail"
	"github.com/telekom/exception-notifier/pkg/request"
)

// The process-wide notifier. Applications that can pass a *Notifier around
// should prefer New; this facade serves call sites deep in error paths.
var (
	mu       sync.RWMutex
	instance *Notifier
)

// Configure installs the process-wide notifier. It fails with
// ErrConfiguration when a notifier is already installed.
func Configure(sender mail.Sender, subjectPrefix string, recipients []string, from string, opts ...Option) error {
	return ConfigureWith(Configuration{
		Sender:        sender,
		SubjectPrefix: subjectPrefix,
		Recipients:    recipients,
		From:          from,
	}, opts...)
}

// ConfigureWith installs the process-wide notifier from a complete
// Configuration.
func ConfigureWith(cfg Configuration, opts ...Option) error {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return fmt.Errorf("%w: exception notifier has already been configured", ErrConfiguration)
	}
	n, err := New(cfg, opts...)
	if err != nil {
		return err
	}
	instance = n
	n.log.Infow("Exception notifier configured",
		"subjectPrefix", cfg.SubjectPrefix,
		"recipients", len(cfg.Recipients),
		"from", cfg.From)
	return nil
}

// ConfigureFromSource reads the notifier settings from src, builds an SMTP
// sender and installs the process-wide notifier. Every missing or blank
// required key fails with ErrConfiguration naming the key.
func ConfigureFromSource(src config.Source, opts ...Option) error {
	cfg, err := ConfigurationFromSource(src, opts...)
	if err != nil {
		return err
	}
	return ConfigureWith(cfg, opts...)
}

// ConfigureFromFile loads a .properties or YAML file and calls
// ConfigureFromSource.
func ConfigureFromFile(path string, opts ...Option) error {
	src, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	return ConfigureFromSource(src, opts...)
}

// ConfigurationFromSource builds a Configuration with an SMTP sender from
// src without installing it.
func ConfigurationFromSource(src config.Source, opts ...Option) (Configuration, error) {
	if src == nil {
		return Configuration{}, fmt.Errorf("%w: configuration source must not be nil", ErrConfiguration)
	}
	wrap := func(err error) error {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	host, err := config.Required(src, config.KeyMailHost)
	if err != nil {
		return Configuration{}, wrap(err)
	}
	port, err := config.RequiredInt(src, config.KeyMailPort)
	if err != nil {
		return Configuration{}, wrap(err)
	}
	username, err := config.Required(src, config.KeyMailUsername)
	if err != nil {
		return Configuration{}, wrap(err)
	}
	password, err := config.Required(src, config.KeyMailPassword)
	if err != nil {
		return Configuration{}, wrap(err)
	}
	subjectPrefix, err := config.Required(src, config.KeySubjectPrefix)
	if err != nil {
		return Configuration{}, wrap(err)
	}
	toList, err := config.Required(src, config.KeyToList)
	if err != nil {
		return Configuration{}, wrap(err)
	}
	from, err := config.Required(src, config.KeyFrom)
	if err != nil {
		return Configuration{}, wrap(err)
	}

	insecure, err := config.OptionalBool(src, config.KeyMailInsecureSkipVerify)
	if err != nil {
		return Configuration{}, wrap(err)
	}
	maxBody, err := config.OptionalInt64(src, config.KeyBodyMaxBytes)
	if err != nil {
		return Configuration{}, wrap(err)
	}
	senderName, err := config.Optional(src, config.KeyMailSenderName)
	if err != nil {
		return Configuration{}, wrap(err)
	}

	o := buildOptions(opts)
	sender := mail.NewSMTPSender(mail.SMTPConfig{
		Host:               host,
		Port:               port,
		Username:           username,
		Password:           password,
		InsecureSkipVerify: insecure,
		SenderName:         senderName,
	}, o.logger)

	return Configuration{
		Sender:        sender,
		SubjectPrefix: subjectPrefix,
		Recipients:    config.SplitList(toList),
		From:          from,
		MaxBodyBytes:  maxBody,
	}, nil
}

// Instance returns the process-wide notifier, or ErrNotConfigured.
func Instance() (*Notifier, error) {
	mu.RLock()
	defer mu.RUnlock()
	if instance == nil {
		return nil, ErrNotConfigured
	}
	return instance, nil
}

// Destroy removes the process-wide notifier. It never fails.
func Destroy() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
}

// HandleException reports err through the process-wide notifier.
func HandleException(message string, err error, req request.Request) error {
	n, ierr := Instance()
	if ierr != nil {
		return ierr
	}
	return n.HandleException(message, err, req)
}
