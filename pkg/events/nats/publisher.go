// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package nats

import (
	"context"

	"github.com/absmach/watchmen/pkg/events"
	"github.com/nats-io/nats.go"
)

var _ events.Publisher = (*pubEventStore)(nil)

type pubEventStore struct {
	conn    *nats.Conn
	subject string
}

// NewPublisher returns a publisher sending events on the stream subject.
// The NATS client buffers publishes while it reconnects.
func NewPublisher(_ context.Context, url, stream string) (events.Publisher, error) {
	if stream == "" {
		return nil, ErrEmptyStream
	}
	conn, err := connect(url)
	if err != nil {
		return nil, err
	}

	return &pubEventStore{
		conn:    conn,
		subject: subject(stream),
	}, nil
}

func (es *pubEventStore) Publish(ctx context.Context, event events.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := event.Encode()
	if err != nil {
		return err
	}

	return es.conn.Publish(es.subject, data)
}

func (es *pubEventStore) Close() error {
	if err := es.conn.Flush(); err != nil && err != nats.ErrConnectionClosed {
		return err
	}
	es.conn.Close()

	return nil
}
