// Package mailer delivers email campaign messages over SMTP.
package mailer

import (
	"context"
	"fmt"

	"github.com/ArowuTest/customerconnect-backend/internal/config"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// Mailer sends one HTML email and returns its message id
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) (string, error)
}

// Dialer is the part of gomail.Dialer used for delivery
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// New returns an SMTP mailer, or a simulated one when simulation is on or
// no SMTP account is configured
func New(cfg config.EmailConfig, logger *logrus.Logger) Mailer {
	if cfg.Simulate || cfg.Username == "" || cfg.Password == "" {
		return NewSimulated(logger)
	}
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return NewSMTP(gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password), from, cfg.Host)
}

// SMTPMailer sends mail through an SMTP dialer
type SMTPMailer struct {
	dialer Dialer
	from   string
	domain string
}

// NewSMTP creates a mailer sending as from; domain is used in Message-ID headers
func NewSMTP(dialer Dialer, from, domain string) *SMTPMailer {
	return &SMTPMailer{dialer: dialer, from: from, domain: domain}
}

// Send delivers the message; the returned id is the Message-ID header value
func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), m.domain)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetHeader("Message-ID", messageID)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return "", fmt.Errorf("smtp send: %w", err)
	}
	return messageID, nil
}

// SimulatedMailer logs messages instead of sending them
type SimulatedMailer struct {
	logger *logrus.Logger
}

// NewSimulated creates a SimulatedMailer
func NewSimulated(logger *logrus.Logger) *SimulatedMailer {
	return &SimulatedMailer{logger: logger}
}

// Send records the email and returns a generated id
func (m *SimulatedMailer) Send(_ context.Context, to, subject, htmlBody string) (string, error) {
	id := "email-sim-" + uuid.NewString()
	if m.logger != nil {
		m.logger.WithFields(logrus.Fields{
			"to":         to,
			"subject":    subject,
			"message_id": id,
			"length":     len(htmlBody),
		}).Info("Email simulated")
	}
	return id, nil
}
