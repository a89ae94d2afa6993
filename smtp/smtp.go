// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package smtp delivers notification e-mails through the Amazon SES SMTP
// interface, or any other SMTP relay when a host is configured.
package smtp

import (
	"context"
	"fmt"

	"github.com/absmach/watchmen/notifications"
	"github.com/absmach/watchmen/pkg/errors"
	"gopkg.in/gomail.v2"
)

const (
	sesHostFormat = "email-smtp.%s.amazonaws.com"
	contentType   = "text/plain"
	idHeader      = "X-Watchmen-Notification-Id"
)

var (
	// ErrSendMail indicates the SMTP relay did not accept the e-mail.
	ErrSendMail = errors.New("sending e-mail failed")

	// ErrNoRecipients indicates an e-mail without recipients.
	ErrNoRecipients = errors.New("e-mail has no recipients")

	// ErrMissingRegion indicates neither a region nor an explicit host is set.
	ErrMissingRegion = errors.New("missing SES region or SMTP host")

	// ErrInvalidPort indicates an out of range SMTP port.
	ErrInvalidPort = errors.New("invalid SMTP port")
)

// Config holds the mail provider settings. Key and Secret are the SES SMTP
// credentials.
type Config struct {
	From   string `env:"WATCHMEN_AWS_FROM"   envDefault:""`
	Region string `env:"WATCHMEN_AWS_REGION" envDefault:"us-east-1"`
	Key    string `env:"WATCHMEN_AWS_KEY"    envDefault:""`
	Secret string `env:"WATCHMEN_AWS_SECRET" envDefault:""`
	// Host overrides the regional SES endpoint.
	Host string `env:"WATCHMEN_SMTP_HOST" envDefault:""`
	Port int    `env:"WATCHMEN_SMTP_PORT" envDefault:"587"`
}

// Address returns the SMTP host the configuration points to.
func (c Config) Address() (string, error) {
	if c.Host != "" {
		return c.Host, nil
	}
	if c.Region == "" {
		return "", ErrMissingRegion
	}

	return fmt.Sprintf(sesHostFormat, c.Region), nil
}

// Dialer sends gomail messages. *gomail.Dialer implements it.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

var _ notifications.Mailer = (*mailer)(nil)

type mailer struct {
	from   string
	dialer Dialer
}

// New instantiates the SMTP mail transport.
func New(cfg Config) (notifications.Mailer, error) {
	host, err := cfg.Address()
	if err != nil {
		return nil, err
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, errors.Wrap(ErrInvalidPort, fmt.Errorf("%d", cfg.Port))
	}

	return NewWithDialer(cfg, gomail.NewDialer(host, cfg.Port, cfg.Key, cfg.Secret)), nil
}

// NewWithDialer instantiates the SMTP mail transport on top of d.
func NewWithDialer(cfg Config, d Dialer) notifications.Mailer {
	return &mailer{
		from:   cfg.From,
		dialer: d,
	}
}

func (m *mailer) Send(ctx context.Context, email notifications.Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(email.To) == 0 {
		return ErrNoRecipients
	}

	from := email.From
	if from == "" {
		from = m.from
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", email.To...)
	msg.SetHeader("Subject", email.Subject)
	if email.ID != "" {
		msg.SetHeader(idHeader, email.ID)
	}
	msg.SetBody(contentType, email.Body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return errors.Wrap(ErrSendMail, err)
	}

	return nil
}
