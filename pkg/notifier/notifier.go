// SPDX-FileCopyrightText: 2026 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package notifier

import (
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/telekom/exception-notifier/pkg/mail"
	"github.com/telekom/exception-notifier/pkg/metrics"
	"github.com/telekom/exception-notifier/pkg/request"
)

// Configuration holds the delivery parameters of a Notifier.
type Configuration struct {
	Sender        mail.Sender
	SubjectPrefix string
	Recipients    []string
	From          string
	// MaxBodyBytes bounds the captured request body. Zero keeps it unbounded.
	MaxBodyBytes int64
}

type options struct {
	logger *zap.SugaredLogger
}

// Option tunes a Notifier.
type Option func(*options)

// WithLogger sets the logger used by the notifier and the senders it builds.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: zap.NewNop().Sugar()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Notifier composes exception reports and hands them to a mail sender. It is
// immutable after construction and safe for concurrent use when its Sender is.
type Notifier struct {
	cfg Configuration
	log *zap.SugaredLogger
}

// New creates a Notifier. Recipient and sender addresses are not validated;
// malformed addresses surface when a report is sent.
func New(cfg Configuration, opts ...Option) (*Notifier, error) {
	if cfg.Sender == nil {
		return nil, fmt.Errorf("%w: mail sender must not be nil", ErrConfiguration)
	}
	o := buildOptions(opts)
	cfg.Recipients = append([]string(nil), cfg.Recipients...)
	return &Notifier{
		cfg: cfg,
		log: o.logger.Named("exception-notifier"),
	}, nil
}

// Configuration returns a copy of the notifier's configuration.
func (n *Notifier) Configuration() Configuration {
	cfg := n.cfg
	cfg.Recipients = append([]string(nil), n.cfg.Recipients...)
	return cfg
}

func (n *Notifier) SubjectPrefix() string { return n.cfg.SubjectPrefix }

func (n *Notifier) Recipients() []string { return append([]string(nil), n.cfg.Recipients...) }

func (n *Notifier) From() string { return n.cfg.From }

func (n *Notifier) Sender() mail.Sender { return n.cfg.Sender }

// HandleException composes a report for err, enriched with req when it is
// not nil, and sends it synchronously. A nil err fails with ErrValidation
// before anything is sent; a delivery failure is returned as *TransportError.
func (n *Notifier) HandleException(message string, err error, req request.Request) error {
	report, cerr := n.Compose(message, err, req)
	if cerr != nil {
		metrics.ReportsRejected.WithLabelValues("validation").Inc()
		n.log.Warnw("Rejecting exception report", "message", message, "error", cerr)
		return cerr
	}
	return n.dispatch(report)
}

// Compose builds the report HandleException would send without sending it.
// Errors without a stack trace in their chain get the caller's stack.
func (n *Notifier) Compose(message string, err error, req request.Request) (Report, error) {
	if isNilError(err) {
		return Compose(n.cfg.SubjectPrefix, message, nil, nil)
	}
	err = withCallerStack(err)

	var snapshot *request.Snapshot
	if req != nil {
		s := request.Serialize(req,
			request.WithMaxBodyBytes(n.cfg.MaxBodyBytes),
			request.WithLogger(n.log))
		snapshot = &s
	}
	report, cerr := Compose(n.cfg.SubjectPrefix, message, err, snapshot)
	if cerr != nil {
		return Report{}, cerr
	}
	metrics.ReportsComposed.WithLabelValues(strconv.FormatBool(snapshot != nil)).Inc()
	return report, nil
}

func (n *Notifier) dispatch(report Report) error {
	msg := &mail.Message{
		From:    n.cfg.From,
		To:      append([]string(nil), n.cfg.Recipients...),
		Subject: report.Subject,
		Body:    report.Body,
		Headers: map[string]string{ReportIDHeader: report.ID},
	}

	n.log.Infow("Sending exception report",
		"reportID", report.ID,
		"subject", report.Subject,
		"recipients", len(msg.To))

	if err := n.cfg.Sender.Send(msg); err != nil {
		n.log.Errorw("Exception report could not be delivered",
			"reportID", report.ID,
			"error", err)
		return &TransportError{Err: err}
	}
	return nil
}
