// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package notifications

import "context"

// Handler reacts to a host event about a monitored service.
type Handler func(ctx context.Context, svc MonitoredService, outage Outage)

// Emitter is the host event source the plugin attaches to.
type Emitter interface {
	// On registers h for the named event.
	On(event string, h Handler)
}

// Register attaches the notification handlers to the host emitter. It must
// be called once per emitter: each call adds another pair of handlers.
func Register(em Emitter, svc Service) {
	em.On(EventNewOutage, func(ctx context.Context, ms MonitoredService, outage Outage) {
		svc.Notify(ctx, OutageStarted, ms, outage)
	})
	em.On(EventServiceBack, func(ctx context.Context, ms MonitoredService, lastOutage Outage) {
		svc.Notify(ctx, ServiceRecovered, ms, lastOutage)
	})
}
