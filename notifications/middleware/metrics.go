// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package middleware

import (
	"context"
	"time"

	"github.com/absmach/watchmen/notifications"
	"github.com/go-kit/kit/metrics"
)

var (
	_ notifications.Service = (*metricsMiddleware)(nil)
	_ notifications.Mailer  = (*mailerMetrics)(nil)
)

type metricsMiddleware struct {
	counter metrics.Counter
	latency metrics.Histogram
	svc     notifications.Service
}

// NewMetricsMiddleware instruments notification service by tracking request count and latency.
func NewMetricsMiddleware(counter metrics.Counter, latency metrics.Histogram, svc notifications.Service) notifications.Service {
	return &metricsMiddleware{
		counter: counter,
		latency: latency,
		svc:     svc,
	}
}

// Notify instruments Notify method with metrics.
func (mm *metricsMiddleware) Notify(ctx context.Context, kind notifications.EventKind, svc notifications.MonitoredService, outage notifications.Outage) {
	defer func(begin time.Time) {
		method := "notify_" + string(kind)
		mm.counter.With("method", method).Add(1)
		mm.latency.With("method", method).Observe(time.Since(begin).Seconds())
	}(time.Now())

	mm.svc.Notify(ctx, kind, svc, outage)
}

// Close instruments Close method with metrics.
func (mm *metricsMiddleware) Close(ctx context.Context) error {
	defer func(begin time.Time) {
		mm.counter.With("method", "close").Add(1)
		mm.latency.With("method", "close").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.Close(ctx)
}

type mailerMetrics struct {
	counter metrics.Counter
	latency metrics.Histogram
	mailer  notifications.Mailer
}

// NewMailerMetrics instruments the mail transport by tracking send count,
// failures and latency.
func NewMailerMetrics(counter metrics.Counter, latency metrics.Histogram, mailer notifications.Mailer) notifications.Mailer {
	return &mailerMetrics{
		counter: counter,
		latency: latency,
		mailer:  mailer,
	}
}

// Send instruments Send method with metrics.
func (mm *mailerMetrics) Send(ctx context.Context, email notifications.Email) (err error) {
	defer func(begin time.Time) {
		method := "send"
		if err != nil {
			method = "send_failed"
		}
		mm.counter.With("method", method).Add(1)
		mm.latency.With("method", method).Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.mailer.Send(ctx, email)
}
