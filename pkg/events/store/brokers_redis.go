// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

//go:build !nats && !rabbitmq
// +build !nats,!rabbitmq

package store

import (
	"context"
	"log/slog"

	"github.com/absmach/watchmen/pkg/events"
	"github.com/absmach/watchmen/pkg/events/redis"
)

// Broker names the event broker the binary was built with.
const Broker = "redis"

func NewPublisher(ctx context.Context, url, stream string) (events.Publisher, error) {
	pb, err := redis.NewPublisher(ctx, url, stream, events.UnpublishedEventsCheckInterval)
	if err != nil {
		return nil, err
	}

	return pb, nil
}

func NewSubscriber(_ context.Context, url, stream, consumer string, logger *slog.Logger) (events.Subscriber, error) {
	sb, err := redis.NewSubscriber(url, stream, consumer, logger)
	if err != nil {
		return nil, err
	}

	return sb, nil
}
