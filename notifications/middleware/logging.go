// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/absmach/watchmen/notifications"
)

var _ notifications.Service = (*loggingMiddleware)(nil)

type loggingMiddleware struct {
	logger *slog.Logger
	svc    notifications.Service
}

// NewLoggingMiddleware adds logging facilities to the notification service.
func NewLoggingMiddleware(logger *slog.Logger, svc notifications.Service) notifications.Service {
	return &loggingMiddleware{
		logger: logger,
		svc:    svc,
	}
}

// Notify logs the notify request. It logs the event kind, the service and the
// time it took to schedule the delivery.
func (lm *loggingMiddleware) Notify(ctx context.Context, kind notifications.EventKind, svc notifications.MonitoredService, outage notifications.Outage) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("kind", string(kind)),
			slog.Group("service",
				slog.String("name", svc.Name),
				slog.Bool("alert_to_set", svc.AlertTo != ""),
			),
		}
		if kind == notifications.ServiceRecovered {
			args = append(args, slog.String("downtime", outage.Duration().String()))
		}
		lm.logger.Debug("Notify completed", args...)
	}(time.Now())

	lm.svc.Notify(ctx, kind, svc, outage)
}

// Close logs the close request and the time it took to drain deliveries.
// If draining fails, it logs the error.
func (lm *loggingMiddleware) Close(ctx context.Context) (err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Close notification service failed to drain deliveries", args...)
			return
		}
		lm.logger.Info("Close notification service completed successfully", args...)
	}(time.Now())

	return lm.svc.Close(ctx)
}
