// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/absmach/watchmen/pkg/errors"
	"github.com/absmach/watchmen/pkg/events"
	"github.com/go-redis/redis/v8"
)

// closeFlushTimeout bounds the last delivery attempt made by Close.
const closeFlushTimeout = 2 * time.Second

var (
	// ErrPendingFull is returned by Publish when Redis is unreachable and the
	// pending queue already holds events.MaxUnpublishedEvents events.
	ErrPendingFull = errors.New("too many events waiting for redis")

	// ErrUndelivered is returned by Close when pending events could not be
	// appended to the stream.
	ErrUndelivered = errors.New("events not delivered to redis stream")
)

var _ events.Publisher = (*pubEventStore)(nil)

type pubEventStore struct {
	client      *redis.Client
	stream      string
	flushPeriod time.Duration

	mu      sync.Mutex
	pending []*redis.XAddArgs

	done      chan struct{}
	closeOnce sync.Once
}

// NewPublisher returns a publisher appending events to the named Redis stream.
// Events published while Redis is unreachable wait in memory and are retried
// every flushPeriod, until ctx is done or the publisher is closed. Close makes
// a last attempt and reports the events it could not deliver.
func NewPublisher(ctx context.Context, url, stream string, flushPeriod time.Duration) (events.Publisher, error) {
	if stream == "" {
		return nil, ErrEmptyStream
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(events.ErrMalformedURL, err)
	}

	es := &pubEventStore{
		client:      redis.NewClient(opts),
		stream:      stream,
		flushPeriod: flushPeriod,
		done:        make(chan struct{}),
	}
	go es.retryPending(ctx)

	return es, nil
}

func (es *pubEventStore) Publish(ctx context.Context, event events.Event) error {
	data, err := event.Encode()
	if err != nil {
		return err
	}
	record := &redis.XAddArgs{
		Stream: es.stream,
		MaxLen: events.MaxEventStreamLen,
		Approx: true,
		Values: map[string]interface{}{
			dataKey:     string(data),
			"operation": event.Operation,
		},
	}

	es.mu.Lock()
	defer es.mu.Unlock()

	// Keep stream order: nothing skips ahead of events already waiting.
	if len(es.pending) == 0 && es.ping(ctx) == nil {
		return es.client.XAdd(ctx, record).Err()
	}
	if len(es.pending) >= int(events.MaxUnpublishedEvents) {
		return ErrPendingFull
	}
	es.pending = append(es.pending, record)

	return nil
}

func (es *pubEventStore) Close() error {
	var err error
	es.closeOnce.Do(func() {
		close(es.done)

		ctx, cancel := context.WithTimeout(context.Background(), closeFlushTimeout)
		defer cancel()

		es.mu.Lock()
		flushErr := es.flush(ctx)
		es.mu.Unlock()

		err = es.client.Close()
		if flushErr != nil {
			err = flushErr
		}
	})

	return err
}

func (es *pubEventStore) retryPending(ctx context.Context) {
	ticker := time.NewTicker(es.flushPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			es.mu.Lock()
			_ = es.flush(ctx)
			es.mu.Unlock()
		case <-es.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// flush appends pending events in order, stopping at the first failure.
// Callers hold es.mu.
func (es *pubEventStore) flush(ctx context.Context) error {
	if len(es.pending) == 0 {
		return nil
	}
	if err := es.ping(ctx); err != nil {
		return errors.Wrap(ErrUndelivered, fmt.Errorf("%d events pending: %w", len(es.pending), err))
	}
	for len(es.pending) > 0 {
		if err := es.client.XAdd(ctx, es.pending[0]).Err(); err != nil {
			return errors.Wrap(ErrUndelivered, fmt.Errorf("%d events pending: %w", len(es.pending), err))
		}
		es.pending[0] = nil
		es.pending = es.pending[1:]
	}

	return nil
}

func (es *pubEventStore) ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, events.ConnCheckInterval)
	defer cancel()

	return es.client.Ping(ctx).Err()
}
