// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package rabbitmq

import (
	"context"
	"time"

	"github.com/absmach/watchmen/pkg/events"
	amqp "github.com/rabbitmq/amqp091-go"
)

var _ events.Publisher = (*pubEventStore)(nil)

type pubEventStore struct {
	conn       *amqp.Connection
	ch         *amqp.Channel
	routingKey string
}

// NewPublisher returns a publisher routing events to the stream key of the
// events exchange.
func NewPublisher(_ context.Context, url, stream string) (events.Publisher, error) {
	if stream == "" {
		return nil, ErrEmptyStream
	}
	conn, ch, err := connect(url)
	if err != nil {
		return nil, err
	}

	return &pubEventStore{
		conn:       conn,
		ch:         ch,
		routingKey: routingKey(stream),
	}, nil
}

func (es *pubEventStore) Publish(ctx context.Context, event events.Event) error {
	data, err := event.Encode()
	if err != nil {
		return err
	}

	return es.ch.PublishWithContext(ctx, exchangeName, es.routingKey, false, false, amqp.Publishing{
		ContentType:  contentType,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Type:         event.Operation,
		Body:         data,
	})
}

func (es *pubEventStore) Close() error {
	return es.conn.Close()
}
