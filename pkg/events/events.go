// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package events carries watchmen host events between the monitor and the
// notification plugin. The in-process Emitter is used when both live in the
// same binary; the broker subpackages feed the same handlers from a stream.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/absmach/watchmen/notifications"
	"github.com/absmach/watchmen/pkg/errors"
)

const (
	// MaxEventStreamLen bounds broker streams that support trimming.
	MaxEventStreamLen int64 = 1e6

	// MaxUnpublishedEvents is the number of events held while the broker
	// is unreachable. Publishing past this limit fails.
	MaxUnpublishedEvents uint32 = 1e4

	// UnpublishedEventsCheckInterval is how often buffered events are retried.
	UnpublishedEventsCheckInterval = 1 * time.Minute

	// ConnCheckInterval bounds a single broker liveness check.
	ConnCheckInterval = 100 * time.Millisecond

	// DefaultStream is the stream host events are published to.
	DefaultStream = "watchmen.services"
)

var (
	// ErrMalformedEvent indicates an event that could not be decoded.
	ErrMalformedEvent = errors.New("malformed event")

	// ErrMissingOperation indicates an event without an operation name.
	ErrMissingOperation = errors.New("event operation is missing")

	// ErrEmptyStream is returned when stream name is empty.
	ErrEmptyStream = errors.New("stream name cannot be empty")

	// ErrEmptyConsumer is returned when consumer name is empty.
	ErrEmptyConsumer = errors.New("consumer name cannot be empty")

	// ErrMalformedURL indicates a broker URL that can't be parsed.
	ErrMalformedURL = errors.New("malformed event store URL")
)

// IsConfigError reports whether err comes from invalid publisher or
// subscriber settings rather than from the broker.
func IsConfigError(err error) bool {
	return errors.Contains(err, ErrEmptyStream) ||
		errors.Contains(err, ErrEmptyConsumer) ||
		errors.Contains(err, ErrMalformedURL)
}

// Event is a host event on the wire.
type Event struct {
	Operation  string                         `json:"operation"`
	Service    notifications.MonitoredService `json:"service"`
	Outage     notifications.Outage           `json:"outage"`
	OccurredAt int64                          `json:"occurred_at,omitempty"`
}

// Encode returns the JSON form of the event, stamping OccurredAt if unset.
func (e Event) Encode() ([]byte, error) {
	if e.OccurredAt == 0 {
		e.OccurredAt = time.Now().UnixNano()
	}

	return json.Marshal(e)
}

// Decode parses an encoded event.
func Decode(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, errors.Wrap(ErrMalformedEvent, err)
	}
	if e.Operation == "" {
		return Event{}, ErrMissingOperation
	}

	return e, nil
}

// Publisher specifies events publishing API.
type Publisher interface {
	// Publish publishes event to stream.
	Publish(ctx context.Context, event Event) error

	// Close gracefully closes event publisher's connection.
	Close() error
}

// Subscriber is an emitter fed by a message broker.
type Subscriber interface {
	notifications.Emitter

	// Subscribe starts consuming the event stream, dispatching every event
	// to the handlers registered for its operation.
	Subscribe(ctx context.Context) error

	// Close gracefully closes event subscriber's connection.
	Close() error
}
