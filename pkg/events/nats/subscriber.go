// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package nats feeds host events published on a NATS subject to the handlers
// registered on the subscriber. Subscribers sharing a consumer name form a
// queue group, so every event is handled by one of them.
package nats

import (
	"context"
	"fmt"
	"log/slog"
	neturl "net/url"
	"strings"
	"sync"

	"github.com/absmach/watchmen/pkg/errors"
	"github.com/absmach/watchmen/pkg/events"
	"github.com/nats-io/nats.go"
)

const (
	maxReconnects = -1
	eventsPrefix  = "events"
)

var _ events.Subscriber = (*subEventStore)(nil)

var (
	// ErrEmptyStream is returned when stream name is empty.
	ErrEmptyStream = events.ErrEmptyStream

	// ErrEmptyConsumer is returned when consumer name is empty.
	ErrEmptyConsumer = events.ErrEmptyConsumer

	// ErrAlreadySubscribed is returned when Subscribe is called twice.
	ErrAlreadySubscribed = errors.New("already subscribed to stream")
)

type subEventStore struct {
	*events.Emitter
	conn     *nats.Conn
	subject  string
	consumer string
	logger   *slog.Logger

	mu  sync.Mutex
	sub *nats.Subscription
}

// NewSubscriber returns a subscriber receiving the stream as consumer.
func NewSubscriber(_ context.Context, url, stream, consumer string, logger *slog.Logger) (events.Subscriber, error) {
	if stream == "" {
		return nil, ErrEmptyStream
	}
	if consumer == "" {
		return nil, ErrEmptyConsumer
	}

	conn, err := connect(url)
	if err != nil {
		return nil, err
	}

	return &subEventStore{
		Emitter:  events.NewEmitter(),
		conn:     conn,
		subject:  subject(stream),
		consumer: consumer,
		logger:   logger,
	}, nil
}

func (es *subEventStore) Subscribe(ctx context.Context) error {
	es.mu.Lock()
	defer es.mu.Unlock()

	if es.sub != nil {
		return ErrAlreadySubscribed
	}

	sub, err := es.conn.QueueSubscribe(es.subject, es.consumer, func(msg *nats.Msg) {
		es.handle(ctx, msg)
	})
	if err != nil {
		return err
	}
	es.sub = sub

	go func() {
		<-ctx.Done()
		es.mu.Lock()
		defer es.mu.Unlock()
		if err := es.sub.Unsubscribe(); err != nil && err != nats.ErrConnectionClosed && err != nats.ErrBadSubscription {
			es.logger.Warn(fmt.Sprintf("failed to unsubscribe from %s: %s", es.subject, err))
		}
	}()

	return es.conn.Flush()
}

func (es *subEventStore) Close() error {
	es.conn.Close()

	return nil
}

func (es *subEventStore) handle(ctx context.Context, msg *nats.Msg) {
	event, err := events.Decode(msg.Data)
	if err != nil {
		es.logger.Warn(fmt.Sprintf("failed to handle nats event: %s", err))

		return
	}
	if n := es.Dispatch(ctx, event); n == 0 {
		es.logger.Debug(fmt.Sprintf("no handlers for event %s", event.Operation))
	}
}

func connect(url string) (*nats.Conn, error) {
	for _, server := range strings.Split(url, ",") {
		if _, err := neturl.Parse(strings.TrimSpace(server)); err != nil {
			return nil, errors.Wrap(events.ErrMalformedURL, err)
		}
	}

	return nats.Connect(url, nats.MaxReconnects(maxReconnects))
}

func subject(stream string) string {
	return eventsPrefix + "." + stream
}
