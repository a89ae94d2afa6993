// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/absmach/watchmen"
	"github.com/absmach/watchmen/pkg/errors"
)

// ErrNotify wraps sending notification errors.
var ErrNotify = errors.New("error sending notification")

// Service represents the notification dispatcher.
//
//go:generate mockery --name Service --output=./mocks --filename service.go --quiet --note "Copyright (c) Abstract Machines"
type Service interface {
	// Notify resolves the recipients for the event and, if there are any,
	// schedules the e-mail. It returns immediately; delivery failures are
	// logged and never reported to the caller.
	Notify(ctx context.Context, kind EventKind, svc MonitoredService, outage Outage)

	// Close waits for in-flight deliveries to finish or for ctx to expire.
	// Notifications triggered after Close are dropped.
	Close(ctx context.Context) error
}

var _ Service = (*service)(nil)

type service struct {
	cfg    Config
	mailer Mailer
	idp    watchmen.IDProvider
	logger *slog.Logger

	// mu orders wg.Add in Notify before wg.Wait in Close.
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// New instantiates the notification dispatcher.
func New(cfg Config, mailer Mailer, idp watchmen.IDProvider, logger *slog.Logger) Service {
	return &service{
		cfg:    cfg,
		mailer: mailer,
		idp:    idp,
		logger: logger,
	}
}

func (s *service) Notify(ctx context.Context, kind EventKind, svc MonitoredService, outage Outage) {
	s.logger.Debug("triggering notification", slog.String("kind", string(kind)), slog.String("service", svc.Name))

	to := Recipients(svc.AlertTo, s.cfg.AlwaysAlertTo)
	if len(to) == 0 {
		return
	}

	msg := Format(kind, svc, outage)
	email := Email{
		From:    s.cfg.From,
		To:      to,
		Subject: msg.Title,
		Body:    msg.Body,
	}
	id, err := s.idp.ID()
	if err != nil {
		s.logger.Warn("failed to generate notification id", slog.String("service", svc.Name), slog.Any("error", err))
	}
	email.ID = id

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		s.logger.Warn(fmt.Sprintf("notification for %s dropped after close", svc.Name), slog.String("notification_id", email.ID))
		return
	}
	s.wg.Add(1)
	go s.send(context.WithoutCancel(ctx), svc, email)
}

func (s *service) send(ctx context.Context, svc MonitoredService, email Email) {
	defer s.wg.Done()

	var err error
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("mailer panic: %v", r)
		}
		args := []any{
			slog.String("service", svc.Name),
			slog.String("notification_id", email.ID),
		}
		if err != nil {
			args = append(args, slog.Any("error", errors.Wrap(ErrNotify, err)))
			s.logger.Error(fmt.Sprintf("error sending notification for %s", svc.Name), args...)
			return
		}
		args = append(args, slog.Any("recipients", email.To))
		s.logger.Info(fmt.Sprintf("notification sent successfully for %s", svc.Name), args...)
	}()

	err = s.mailer.Send(ctx, email)
}

func (s *service) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
