// SPDX-FileCopyrightText: 2026 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package notifier

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/telekom/exception-notifier/pkg/request"
)

const (
	requestBanner   = "-------------------------------\nRequest:\n-------------------------------\n\n"
	exceptionBanner = "-------------------------------\nException:\n-------------------------------\n\n"

	// ReportIDHeader carries Report.ID on the dispatched mail.
	ReportIDHeader = "X-Exception-Report-Id"
)

// Report is the composed subject and body of a single notification.
type Report struct {
	ID      string
	Subject string
	Body    string
}

// Compose builds the report for err. The request section is only present
// when snapshot is not nil. An empty message renders as "null" in the
// subject.
func Compose(subjectPrefix, message string, err error, snapshot *request.Snapshot) (Report, error) {
	if isNilError(err) {
		return Report{}, fmt.Errorf("%w: exception must not be nil", ErrValidation)
	}

	var b strings.Builder
	if snapshot != nil {
		b.WriteString(requestBanner)
		b.WriteString(snapshot.String())
		b.WriteString("\n\n")
	}
	b.WriteString(exceptionBanner)
	b.WriteString(FormatTrace(err))

	if message == "" {
		message = "null"
	}

	return Report{
		ID:      uuid.New().String(),
		Subject: fmt.Sprintf("[%s] %s: %s", subjectPrefix, TypeName(err), message),
		Body:    b.String(),
	}, nil
}
