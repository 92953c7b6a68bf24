// Package notify sends outbound notification mail. Delivery is strictly
// best-effort: callers treat every send as fire-and-forget.
package notify

import (
	"net/smtp"
	"strings"

	"github.com/sirupsen/logrus"
)

// Sender dispatches a notification to zero or more recipients. An empty
// recipient list is a no-op, never an error.
type Sender interface {
	Send(subject, body string, recipients []string) error
}

// SMTPSender delivers through a plain SMTP relay.
type SMTPSender struct {
	Addr string // host:port
	From string
}

func NewSMTPSender(addr, from string) *SMTPSender {
	return &SMTPSender{Addr: addr, From: from}
}

func (s *SMTPSender) Send(subject, body string, recipients []string) error {
	if len(recipients) == 0 {
		return nil
	}

	msg := strings.Join([]string{
		"From: " + s.From,
		"To: " + strings.Join(recipients, ", "),
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	return smtp.SendMail(s.Addr, nil, s.From, recipients, []byte(msg))
}

// LogSender is the development fallback used when no SMTP relay is
// configured; it only records the would-be delivery.
type LogSender struct{}

func (LogSender) Send(subject, body string, recipients []string) error {
	if len(recipients) == 0 {
		return nil
	}
	logrus.WithFields(logrus.Fields{
		"subject":    subject,
		"recipients": recipients,
	}).Info("notification (delivery disabled)")
	return nil
}
