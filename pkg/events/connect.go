// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package events

import (
	"context"

	"github.com/absmach/watchmen/pkg/errors"
	"github.com/cenkalti/backoff/v4"
)

// SubscriberFactory creates a broker-backed subscriber.
type SubscriberFactory func() (Subscriber, error)

// Connect creates a subscriber, hands it to setup to register handlers and
// starts consuming. Attempts failing on the broker are retried following b
// and reported to notify; invalid settings fail at once.
func Connect(ctx context.Context, newSubscriber SubscriberFactory, setup func(Subscriber), b backoff.BackOff, notify backoff.Notify) (Subscriber, error) {
	var sub Subscriber
	op := func() error {
		s, err := newSubscriber()
		switch {
		case IsConfigError(err):
			return backoff.Permanent(err)
		case err != nil:
			return err
		}

		setup(s)
		if err := s.Subscribe(ctx); err != nil {
			if cerr := s.Close(); cerr != nil {
				return errors.Wrap(err, cerr)
			}
			return err
		}
		sub = s

		return nil
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify); err != nil {
		return nil, err
	}

	return sub, nil
}
