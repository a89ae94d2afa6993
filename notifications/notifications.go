// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package notifications

import (
	"context"
	"math"
	"time"
)

// EventKind names the notification being sent.
type EventKind string

const (
	// OutageStarted is sent when a monitored service goes down.
	OutageStarted EventKind = "outage-started"
	// ServiceRecovered is sent when a monitored service is back up.
	ServiceRecovered EventKind = "service-recovered"
)

// Host event names the plugin subscribes to.
const (
	EventNewOutage   = "new-outage"
	EventServiceBack = "service-back"
)

// MonitoredService describes the service an event refers to.
type MonitoredService struct {
	Name string `json:"name"`
	// AlertTo is a comma separated list of e-mail addresses.
	AlertTo string `json:"alertTo"`
}

// Outage describes a service outage. Downtime is only set on recovery and
// is expressed in milliseconds.
type Outage struct {
	Error    any   `json:"error"`
	Downtime int64 `json:"downtime"`
}

// Duration returns the outage downtime, saturating at the longest
// representable duration.
func (o Outage) Duration() time.Duration {
	const maxMillis = math.MaxInt64 / int64(time.Millisecond)
	switch {
	case o.Downtime > maxMillis:
		return math.MaxInt64
	case o.Downtime < -maxMillis:
		return math.MinInt64
	}

	return time.Duration(o.Downtime) * time.Millisecond
}

// Message is a rendered notification.
type Message struct {
	Title string
	Body  string
}

// Email is handed to the mail transport.
type Email struct {
	ID      string
	From    string
	To      []string
	Subject string
	Body    string
}

// Mailer delivers e-mails.
//
//go:generate mockery --name Mailer --output=./mocks --filename mailer.go --quiet --note "Copyright (c) Abstract Machines"
type Mailer interface {
	// Send delivers the e-mail, returning once the transport accepted or
	// rejected it.
	Send(ctx context.Context, email Email) error
}

// Config holds the dispatcher settings, read once at startup.
type Config struct {
	// From is the sender address.
	From string `env:"WATCHMEN_AWS_FROM"                      envDefault:""`
	// AlwaysAlertTo is a comma separated list of addresses notified about
	// every service.
	AlwaysAlertTo string `env:"WATCHMEN_NOTIFICATIONS_ALWAYS_ALERT_TO" envDefault:""`
}
