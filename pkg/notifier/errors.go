// SPDX-FileCopyrightText: 2026 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package notifier

import "errors"

var (
	// ErrConfiguration reports a missing or invalid configuration value, or a
	// Configure call while a configuration is already live.
	ErrConfiguration = errors.New("exception notifier configuration error")
	// ErrNotConfigured is returned by Instance before a successful Configure.
	ErrNotConfigured = errors.New("exception notifier must be configured before it can be used")
	// ErrValidation reports an invalid HandleException argument.
	ErrValidation = errors.New("invalid exception report")
	// ErrTransport matches every *TransportError.
	ErrTransport = errors.New("exception report delivery failed")
)

// TransportError carries the mail sender's failure. Error returns the
// sender's message unchanged and Unwrap exposes the original error.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrTransport) hold for every TransportError.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}
