// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package rabbitmq feeds host events routed through the events topic exchange
// to the handlers registered on the subscriber.
package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/absmach/watchmen/pkg/errors"
	"github.com/absmach/watchmen/pkg/events"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	exchangeName = "events"
	eventsPrefix = "events"
	contentType  = "application/json"
)

var _ events.Subscriber = (*subEventStore)(nil)

var (
	// ErrEmptyStream is returned when stream name is empty.
	ErrEmptyStream = events.ErrEmptyStream

	// ErrEmptyConsumer is returned when consumer name is empty.
	ErrEmptyConsumer = events.ErrEmptyConsumer
)

type subEventStore struct {
	*events.Emitter
	conn     *amqp.Connection
	ch       *amqp.Channel
	stream   string
	consumer string
	logger   *slog.Logger
}

// NewSubscriber returns a subscriber consuming the stream from a durable
// queue named after the consumer.
func NewSubscriber(url, stream, consumer string, logger *slog.Logger) (events.Subscriber, error) {
	if stream == "" {
		return nil, ErrEmptyStream
	}
	if consumer == "" {
		return nil, ErrEmptyConsumer
	}

	conn, ch, err := connect(url)
	if err != nil {
		return nil, err
	}

	return &subEventStore{
		Emitter:  events.NewEmitter(),
		conn:     conn,
		ch:       ch,
		stream:   stream,
		consumer: consumer,
		logger:   logger,
	}, nil
}

func (es *subEventStore) Subscribe(ctx context.Context) error {
	queue := fmt.Sprintf("%s.%s", routingKey(es.stream), es.consumer)
	if _, err := es.ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return err
	}
	if err := es.ch.QueueBind(queue, routingKey(es.stream), exchangeName, false, nil); err != nil {
		return err
	}

	deliveries, err := es.ch.Consume(queue, es.consumer, false, false, false, false, nil)
	if err != nil {
		return err
	}

	go es.consume(ctx, deliveries)

	return nil
}

func (es *subEventStore) Close() error {
	return es.conn.Close()
}

func (es *subEventStore) consume(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			if err := es.ch.Cancel(es.consumer, false); err != nil && err != amqp.ErrClosed {
				es.logger.Warn(fmt.Sprintf("failed to cancel rabbitmq consumer: %s", err))
			}
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			es.handle(ctx, d)
		}
	}
}

func (es *subEventStore) handle(ctx context.Context, d amqp.Delivery) {
	event, err := events.Decode(d.Body)
	switch err {
	case nil:
		if n := es.Dispatch(ctx, event); n == 0 {
			es.logger.Debug(fmt.Sprintf("no handlers for event %s", event.Operation))
		}
	default:
		es.logger.Warn(fmt.Sprintf("failed to handle rabbitmq event: %s", err))
	}

	if err := d.Ack(false); err != nil {
		es.logger.Warn(fmt.Sprintf("failed to ack rabbitmq event: %s", err))
	}
}

func connect(url string) (*amqp.Connection, *amqp.Channel, error) {
	if _, err := amqp.ParseURI(url); err != nil {
		return nil, nil, errors.Wrap(events.ErrMalformedURL, err)
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	if err := ch.ExchangeDeclare(exchangeName, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, nil, err
	}

	return conn, ch, nil
}

func routingKey(stream string) string {
	return eventsPrefix + "." + stream
}
