// SPDX-FileCopyrightText: 2026 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package mail

import (
	"crypto/tls"
	"errors"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/telekom/exception-notifier/pkg/metrics"
	"github.com/telekom/exception-notifier/pkg/version"
)

// Message is a plain-text mail.
type Message struct {
	From    string
	To      []string
	Subject string
	Body    string
	// Headers are additional raw headers such as X-Exception-Report-Id.
	Headers map[string]string
}

// Sender delivers a message. Implementations make a single attempt.
type Sender interface {
	Send(msg *Message) error
	GetHost() string
	GetPort() int
}

// SMTPConfig holds the SMTP connection parameters.
type SMTPConfig struct {
	Host               string
	Port               int
	Username           string
	Password           string
	InsecureSkipVerify bool
	// SenderName is the optional display name placed next to the From address.
	SenderName string
}

type smtpSender struct {
	dialer     *gomail.Dialer
	senderName string
	log        *zap.SugaredLogger
}

// NewSMTPSender creates a Sender backed by a gomail dialer. A nil logger
// disables logging.
func NewSMTPSender(cfg SMTPConfig, log *zap.SugaredLogger) Sender {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	log = log.Named("mail")
	log.Infow("Initializing mail sender",
		"host", cfg.Host,
		"port", cfg.Port,
		"user", cfg.Username)

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	if cfg.InsecureSkipVerify {
		log.Warn("InsecureSkipVerify is enabled for mail TLS connection")
		d.TLSConfig = &tls.Config{InsecureSkipVerify: true} // #nosec G402 -- opt-in for internal relays
	}

	return &smtpSender{
		dialer:     d,
		senderName: cfg.SenderName,
		log:        log,
	}
}

func (s *smtpSender) Send(msg *Message) error {
	if msg == nil {
		return errors.New("mail: nil message")
	}
	s.log.Debugw("Preparing to send mail",
		"receivers", len(msg.To),
		"subject", msg.Subject)

	m := gomail.NewMessage()
	if s.senderName != "" {
		m.SetAddressHeader("From", msg.From, s.senderName)
	} else {
		m.SetHeader("From", msg.From)
	}
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetHeader("X-Mailer", version.UserAgent())
	for k, v := range msg.Headers {
		m.SetHeader(k, v)
	}
	m.SetBody("text/plain", msg.Body)

	if err := s.dialer.DialAndSend(m); err != nil {
		s.log.Errorw("Failed to send mail",
			"receivers", len(msg.To),
			"error", err)
		metrics.MailSendFailure.WithLabelValues(s.GetHost()).Inc()
		return err
	}

	s.log.Infow("Mail sent successfully", "receivers", len(msg.To))
	metrics.MailSendSuccess.WithLabelValues(s.GetHost()).Inc()
	return nil
}

func (s *smtpSender) GetHost() string {
	return s.dialer.Host
}

func (s *smtpSender) GetPort() int {
	return s.dialer.Port
}
