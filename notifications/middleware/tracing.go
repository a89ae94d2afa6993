// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package middleware

import (
	"context"

	"github.com/absmach/watchmen/notifications"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	_ notifications.Service = (*tracingMiddleware)(nil)
	_ notifications.Mailer  = (*mailerTracing)(nil)
)

type tracingMiddleware struct {
	tracer trace.Tracer
	svc    notifications.Service
}

// NewTracingMiddleware returns a new notification service with tracing capabilities.
func NewTracingMiddleware(tracer trace.Tracer, svc notifications.Service) notifications.Service {
	return &tracingMiddleware{
		tracer: tracer,
		svc:    svc,
	}
}

// Notify traces the notify operation. The span ends once the delivery is
// scheduled; the send itself is traced by the mailer middleware.
func (tm *tracingMiddleware) Notify(ctx context.Context, kind notifications.EventKind, svc notifications.MonitoredService, outage notifications.Outage) {
	ctx, span := tm.tracer.Start(ctx, "notify", trace.WithAttributes(
		attribute.String("kind", string(kind)),
		attribute.String("service", svc.Name),
		attribute.Int64("downtime_ms", outage.Downtime),
	))
	defer span.End()

	tm.svc.Notify(ctx, kind, svc, outage)
}

// Close traces the close operation.
func (tm *tracingMiddleware) Close(ctx context.Context) error {
	ctx, span := tm.tracer.Start(ctx, "close")
	defer span.End()

	return tm.svc.Close(ctx)
}

type mailerTracing struct {
	tracer trace.Tracer
	mailer notifications.Mailer
}

// NewMailerTracing returns a mail transport with tracing capabilities.
func NewMailerTracing(tracer trace.Tracer, mailer notifications.Mailer) notifications.Mailer {
	return &mailerTracing{
		tracer: tracer,
		mailer: mailer,
	}
}

// Send traces the send operation.
func (mt *mailerTracing) Send(ctx context.Context, email notifications.Email) error {
	ctx, span := mt.tracer.Start(ctx, "send_email", trace.WithSpanKind(trace.SpanKindClient), trace.WithAttributes(
		attribute.String("notification_id", email.ID),
		attribute.String("subject", email.Subject),
		attribute.Int("recipients", len(email.To)),
	))
	defer span.End()

	if err := mt.mailer.Send(ctx, email); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
