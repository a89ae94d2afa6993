// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package rabbitmq_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/absmach/watchmen/logger"
	"github.com/absmach/watchmen/notifications"
	"github.com/absmach/watchmen/pkg/errors"
	"github.com/absmach/watchmen/pkg/events"
	"github.com/absmach/watchmen/pkg/events/rabbitmq"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const timeout = 10 * time.Second

var api = notifications.MonitoredService{Name: "api", AlertTo: "ops@example.com"}

func TestNewSubscriber(t *testing.T) {
	cases := []struct {
		desc     string
		stream   string
		consumer string
		err      error
	}{
		{
			desc:     "valid subscriber",
			stream:   stream,
			consumer: consumer,
		},
		{
			desc:     "empty stream",
			consumer: consumer,
			err:      rabbitmq.ErrEmptyStream,
		},
		{
			desc:   "empty consumer",
			stream: stream,
			err:    rabbitmq.ErrEmptyConsumer,
		},
	}

	for _, tc := range cases {
		sub, err := rabbitmq.NewSubscriber(rabbitmqURL, tc.stream, tc.consumer, logger.NewMock())
		assert.Equal(t, tc.err, err, fmt.Sprintf("%s: expected %s got %s\n", tc.desc, tc.err, err))
		if err == nil {
			assert.Nil(t, sub.Close(), fmt.Sprintf("%s: unexpected close error", tc.desc))
		}
	}

	_, err := rabbitmq.NewSubscriber("http://invalidurl.com", stream, consumer, logger.NewMock())
	assert.True(t, errors.Contains(err, events.ErrMalformedURL), fmt.Sprintf("expected %s on invalid rabbitmq URL got %s", events.ErrMalformedURL, err))
}

func TestPubSub(t *testing.T) {
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sub, err := rabbitmq.NewSubscriber(rabbitmqURL, stream, consumer, logger.NewMock())
	require.Nil(t, err, fmt.Sprintf("got unexpected error on creating subscriber: %s", err))
	defer sub.Close()

	ch := make(chan events.Event, 10)
	for _, name := range []string{notifications.EventNewOutage, notifications.EventServiceBack} {
		name := name
		sub.On(name, func(_ context.Context, svc notifications.MonitoredService, outage notifications.Outage) {
			ch <- events.Event{Operation: name, Service: svc, Outage: outage}
		})
	}
	require.Nil(t, sub.Subscribe(subCtx))

	pub, err := rabbitmq.NewPublisher(ctx, rabbitmqURL, stream)
	require.Nil(t, err, fmt.Sprintf("got unexpected error on creating publisher: %s", err))
	defer pub.Close()

	// A malformed message must not stop delivery of the ones after it.
	raw, err := amqp.Dial(rabbitmqURL)
	require.Nil(t, err)
	defer raw.Close()
	rawCh, err := raw.Channel()
	require.Nil(t, err)
	err = rawCh.PublishWithContext(ctx, "events", "events."+stream, false, false, amqp.Publishing{Body: []byte("{not json")})
	require.Nil(t, err)

	cases := []events.Event{
		{
			Operation: notifications.EventNewOutage,
			Service:   api,
			Outage:    notifications.Outage{Error: map[string]any{"code": "ECONNRESET"}},
		},
		{
			Operation: notifications.EventServiceBack,
			Service:   api,
			Outage:    notifications.Outage{Error: map[string]any{"code": "ECONNRESET"}, Downtime: 45000},
		},
	}

	for _, event := range cases {
		err := pub.Publish(ctx, event)
		require.Nil(t, err, fmt.Sprintf("%s: got unexpected error: %s", event.Operation, err))

		select {
		case got := <-ch:
			assert.Equal(t, event, got, fmt.Sprintf("expected %v got %v", event, got))
		case <-time.After(timeout):
			t.Fatalf("%s: event not delivered", event.Operation)
		}
	}
}
