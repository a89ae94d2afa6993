// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package redis feeds host events from a Redis stream, read through a
// consumer group, to the handlers registered on the subscriber.
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/absmach/watchmen/pkg/errors"
	"github.com/absmach/watchmen/pkg/events"
	"github.com/go-redis/redis/v8"
)

const (
	dataKey     = "data"
	eventCount  = 100
	exists      = "BUSYGROUP Consumer Group name already exists"
	group       = "watchmen-notifier"
	readTimeout = 5 * time.Second
	retryDelay  = time.Second
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
	client   *redis.Client
	stream   string
	consumer string
	logger   *slog.Logger
}

// NewSubscriber returns a subscriber reading the named stream as consumer.
func NewSubscriber(url, stream, consumer string, logger *slog.Logger) (events.Subscriber, error) {
	if stream == "" {
		return nil, ErrEmptyStream
	}
	if consumer == "" {
		return nil, ErrEmptyConsumer
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(events.ErrMalformedURL, err)
	}

	return &subEventStore{
		Emitter:  events.NewEmitter(),
		client:   redis.NewClient(opts),
		stream:   stream,
		consumer: consumer,
		logger:   logger,
	}, nil
}

func (es *subEventStore) Subscribe(ctx context.Context) error {
	err := es.client.XGroupCreateMkStream(ctx, es.stream, group, "$").Err()
	if err != nil && err.Error() != exists {
		return err
	}

	go es.consume(ctx)

	return nil
}

func (es *subEventStore) Close() error {
	return es.client.Close()
}

func (es *subEventStore) consume(ctx context.Context) {
	for {
		msgs, err := es.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    group,
			Consumer: es.consumer,
			Streams:  []string{es.stream, ">"},
			Count:    eventCount,
			Block:    readTimeout,
		}).Result()
		switch {
		case ctx.Err() != nil, err == redis.ErrClosed:
			return
		case err == redis.Nil:
			continue
		case err != nil:
			es.logger.Warn(fmt.Sprintf("failed to read from redis stream: %s", err))
			select {
			case <-time.After(retryDelay):
				continue
			case <-ctx.Done():
				return
			}
		}

		for _, stream := range msgs {
			es.handle(ctx, stream.Messages)
		}
	}
}

func (es *subEventStore) handle(ctx context.Context, msgs []redis.XMessage) {
	for _, msg := range msgs {
		if err := es.dispatch(ctx, msg); err != nil {
			es.logger.Warn(fmt.Sprintf("failed to handle redis event %s: %s", msg.ID, err))
		}

		// Malformed events are acknowledged as well.
		if err := es.client.XAck(ctx, es.stream, group, msg.ID).Err(); err != nil {
			es.logger.Warn(fmt.Sprintf("failed to ack redis event: %s", err))
		}
	}
}

func (es *subEventStore) dispatch(ctx context.Context, msg redis.XMessage) error {
	data, ok := msg.Values[dataKey].(string)
	if !ok {
		return events.ErrMalformedEvent
	}
	event, err := events.Decode([]byte(data))
	if err != nil {
		return err
	}
	if n := es.Dispatch(ctx, event); n == 0 {
		es.logger.Debug(fmt.Sprintf("no handlers for event %s", event.Operation))
	}

	return nil
}
