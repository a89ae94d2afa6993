// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

//go:build nats
// +build nats

package store

import (
	"context"
	"log/slog"

	"github.com/absmach/watchmen/pkg/events"
	"github.com/absmach/watchmen/pkg/events/nats"
)

// Broker names the event broker the binary was built with.
const Broker = "nats"

func NewPublisher(ctx context.Context, url, stream string) (events.Publisher, error) {
	pb, err := nats.NewPublisher(ctx, url, stream)
	if err != nil {
		return nil, err
	}

	return pb, nil
}

func NewSubscriber(ctx context.Context, url, stream, consumer string, logger *slog.Logger) (events.Subscriber, error) {
	sb, err := nats.NewSubscriber(ctx, url, stream, consumer, logger)
	if err != nil {
		return nil, err
	}

	return sb, nil
}
