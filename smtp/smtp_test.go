// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package smtp_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/absmach/watchmen/notifications"
	"github.com/absmach/watchmen/pkg/errors"
	"github.com/absmach/watchmen/smtp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

var errRelay = errors.New("554 Message rejected: Email address is not verified")

type dialerMock struct {
	msgs []*gomail.Message
	err  error
}

func (d *dialerMock) DialAndSend(m ...*gomail.Message) error {
	d.msgs = append(d.msgs, m...)
	return d.err
}

func TestAddress(t *testing.T) {
	cases := []struct {
		desc string
		cfg  smtp.Config
		host string
		err  error
	}{
		{
			desc: "regional SES endpoint",
			cfg:  smtp.Config{Region: "eu-west-1"},
			host: "email-smtp.eu-west-1.amazonaws.com",
		},
		{
			desc: "explicit host wins over region",
			cfg:  smtp.Config{Region: "eu-west-1", Host: "mail.example.com"},
			host: "mail.example.com",
		},
		{
			desc: "neither region nor host",
			cfg:  smtp.Config{},
			err:  smtp.ErrMissingRegion,
		},
	}

	for _, tc := range cases {
		host, err := tc.cfg.Address()
		assert.Equal(t, tc.host, host, fmt.Sprintf("%s: expected %s got %s\n", tc.desc, tc.host, host))
		assert.True(t, errors.Contains(err, tc.err), fmt.Sprintf("%s: expected %s got %s\n", tc.desc, tc.err, err))
	}
}

func TestNew(t *testing.T) {
	cases := []struct {
		desc string
		cfg  smtp.Config
		err  error
	}{
		{
			desc: "valid configuration",
			cfg:  smtp.Config{Region: "us-east-1", Port: 587, Key: "key", Secret: "secret"},
		},
		{
			desc: "missing region",
			cfg:  smtp.Config{Port: 587},
			err:  smtp.ErrMissingRegion,
		},
		{
			desc: "invalid port",
			cfg:  smtp.Config{Region: "us-east-1", Port: 0},
			err:  smtp.ErrInvalidPort,
		},
	}

	for _, tc := range cases {
		m, err := smtp.New(tc.cfg)
		assert.True(t, errors.Contains(err, tc.err), fmt.Sprintf("%s: expected %s got %s\n", tc.desc, tc.err, err))
		if tc.err == nil {
			assert.NotNil(t, m, fmt.Sprintf("%s: expected mailer", tc.desc))
		}
	}
}

func TestSend(t *testing.T) {
	cfg := smtp.Config{From: "watchmen@example.com"}
	email := notifications.Email{
		ID:      "123e4567-e89b-12d3-a456-000000000001",
		To:      []string{"ops@example.com", "boss@example.com"},
		Subject: "[watchmen] api is down!",
		Body:    `api is down!. Reason: {"code":500}`,
	}

	cases := []struct {
		desc    string
		ctx     func() context.Context
		email   notifications.Email
		dialErr error
		from    string
		err     error
		dialed  bool
	}{
		{
			desc:   "send with configured sender",
			ctx:    context.Background,
			email:  email,
			from:   "watchmen@example.com",
			dialed: true,
		},
		{
			desc: "send with sender from e-mail",
			ctx:  context.Background,
			email: func() notifications.Email {
				e := email
				e.From = "alerts@example.com"
				return e
			}(),
			from:   "alerts@example.com",
			dialed: true,
		},
		{
			desc:    "relay rejects message",
			ctx:     context.Background,
			email:   email,
			dialErr: errRelay,
			from:    "watchmen@example.com",
			err:     smtp.ErrSendMail,
			dialed:  true,
		},
		{
			desc: "no recipients",
			ctx:  context.Background,
			email: func() notifications.Email {
				e := email
				e.To = nil
				return e
			}(),
			err: smtp.ErrNoRecipients,
		},
		{
			desc: "context already canceled",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			email: email,
			err:   context.Canceled,
		},
	}

	for _, tc := range cases {
		d := &dialerMock{err: tc.dialErr}
		m := smtp.NewWithDialer(cfg, d)

		err := m.Send(tc.ctx(), tc.email)
		assert.True(t, errors.Contains(err, tc.err), fmt.Sprintf("%s: expected %s got %s\n", tc.desc, tc.err, err))
		if !tc.dialed {
			assert.Empty(t, d.msgs, fmt.Sprintf("%s: expected no dial", tc.desc))
			continue
		}

		require.Len(t, d.msgs, 1, tc.desc)
		msg := d.msgs[0]
		assert.Equal(t, []string{tc.from}, msg.GetHeader("From"), tc.desc)
		assert.Equal(t, tc.email.To, msg.GetHeader("To"), tc.desc)
		assert.Equal(t, []string{tc.email.Subject}, msg.GetHeader("Subject"), tc.desc)
		assert.Equal(t, []string{tc.email.ID}, msg.GetHeader("X-Watchmen-Notification-Id"), tc.desc)

		var body bytes.Buffer
		_, err = msg.WriteTo(&body)
		require.Nil(t, err, tc.desc)
		assert.Contains(t, body.String(), "Reason: {\"code\":500}", tc.desc)
	}
}
