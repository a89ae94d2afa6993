// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package events

import (
	"context"
	"sync"

	"github.com/absmach/watchmen/notifications"
)

var _ notifications.Emitter = (*Emitter)(nil)

// Emitter is an in-process event emitter. Handlers run synchronously on the
// emitting goroutine, in registration order.
type Emitter struct {
	mu       sync.RWMutex
	handlers map[string][]notifications.Handler
}

// NewEmitter returns an emitter without handlers.
func NewEmitter() *Emitter {
	return &Emitter{handlers: map[string][]notifications.Handler{}}
}

// On registers h for the named event.
func (e *Emitter) On(event string, h notifications.Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.handlers == nil {
		e.handlers = map[string][]notifications.Handler{}
	}
	e.handlers[event] = append(e.handlers[event], h)
}

// Emit calls the handlers registered for event and returns how many ran.
func (e *Emitter) Emit(ctx context.Context, event string, svc notifications.MonitoredService, outage notifications.Outage) int {
	e.mu.RLock()
	hs := make([]notifications.Handler, len(e.handlers[event]))
	copy(hs, e.handlers[event])
	e.mu.RUnlock()

	for _, h := range hs {
		h(ctx, svc, outage)
	}

	return len(hs)
}

// Dispatch emits a decoded wire event.
func (e *Emitter) Dispatch(ctx context.Context, event Event) int {
	return e.Emit(ctx, event.Operation, event.Service, event.Outage)
}

// Handlers returns the number of handlers registered for event.
func (e *Emitter) Handlers(event string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return len(e.handlers[event])
}
