// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package main contains the watchmen e-mail notifier service.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/absmach/watchmen"
	"github.com/absmach/watchmen/internal/clients/jaeger"
	"github.com/absmach/watchmen/internal/env"
	"github.com/absmach/watchmen/internal/server"
	httpserver "github.com/absmach/watchmen/internal/server/http"
	mglog "github.com/absmach/watchmen/logger"
	"github.com/absmach/watchmen/notifications"
	"github.com/absmach/watchmen/notifications/api"
	"github.com/absmach/watchmen/notifications/middleware"
	"github.com/absmach/watchmen/pkg/events"
	"github.com/absmach/watchmen/pkg/events/store"
	"github.com/absmach/watchmen/pkg/prometheus"
	"github.com/absmach/watchmen/pkg/uuid"
	"github.com/absmach/watchmen/smtp"
	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const (
	svcName        = "notifier"
	envPrefixHTTP  = "WATCHMEN_NOTIFIER_HTTP_"
	defSvcHTTPPort = "9020"
	metricsNS      = "watchmen"
)

type config struct {
	LogLevel        string        `env:"WATCHMEN_NOTIFIER_LOG_LEVEL"        envDefault:"info"`
	InstanceID      string        `env:"WATCHMEN_NOTIFIER_INSTANCE_ID"      envDefault:""`
	ESURL           string        `env:"WATCHMEN_ES_URL"                    envDefault:"redis://localhost:6379/0"`
	ESStream        string        `env:"WATCHMEN_ES_STREAM"                 envDefault:"watchmen.services"`
	ESConsumer      string        `env:"WATCHMEN_NOTIFIER_ES_CONSUMER"      envDefault:"watchmen-notifier"`
	JaegerURL       string        `env:"WATCHMEN_JAEGER_URL"                envDefault:""`
	TraceRatio      float64       `env:"WATCHMEN_JAEGER_TRACE_RATIO"        envDefault:"1.0"`
	ShutdownTimeout time.Duration `env:"WATCHMEN_NOTIFIER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)

	cfg := config{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to load %s configuration : %s", svcName, err)
	}

	logger, err := mglog.New(os.Stdout, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %s", err)
	}

	var exitCode int
	defer mglog.ExitWithError(&exitCode)

	idp := uuid.New()
	if cfg.InstanceID == "" {
		if cfg.InstanceID, err = idp.ID(); err != nil {
			logger.Error(fmt.Sprintf("failed to generate instanceID: %s", err))
			exitCode = 1
			return
		}
	}

	notifierCfg := notifications.Config{}
	if err := env.Parse(&notifierCfg); err != nil {
		logger.Error(fmt.Sprintf("failed to load %s notifications configuration : %s", svcName, err))
		exitCode = 1
		return
	}

	smtpCfg := smtp.Config{}
	if err := env.Parse(&smtpCfg); err != nil {
		logger.Error(fmt.Sprintf("failed to load %s SMTP configuration : %s", svcName, err))
		exitCode = 1
		return
	}

	var tracer trace.Tracer = otel.Tracer(svcName)
	if cfg.JaegerURL != "" {
		tp, err := jaeger.NewProvider(ctx, svcName, cfg.JaegerURL, cfg.InstanceID, cfg.TraceRatio)
		if err != nil {
			logger.Error(fmt.Sprintf("failed to init Jaeger: %s", err))
			exitCode = 1
			return
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Error(fmt.Sprintf("error shutting down tracer provider: %v", err))
			}
		}()
		tracer = tp.Tracer(svcName)
	}

	svc, err := newService(notifierCfg, smtpCfg, idp, tracer, logger)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to create %s service: %s", svcName, err))
		exitCode = 1
		return
	}

	newSubscriber := func() (events.Subscriber, error) {
		return store.NewSubscriber(ctx, cfg.ESURL, cfg.ESStream, cfg.ESConsumer, logger)
	}
	register := func(sub events.Subscriber) {
		notifications.Register(sub, svc)
	}
	notify := func(e error, next time.Duration) {
		logger.Info(fmt.Sprintf("%s event store not ready: %s, next try in %s", store.Broker, e, next))
	}
	subscriber, err := events.Connect(ctx, newSubscriber, register, backoff.NewExponentialBackOff(), notify)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to subscribe to %s event store: %s", store.Broker, err))
		exitCode = 1
		return
	}
	logger.Info(fmt.Sprintf("%s service subscribed to %s stream %s as %s", svcName, store.Broker, cfg.ESStream, cfg.ESConsumer))

	httpServerConfig := server.Config{Port: defSvcHTTPPort}
	if err := env.Parse(&httpServerConfig, env.Options{Prefix: envPrefixHTTP}); err != nil {
		logger.Error(fmt.Sprintf("failed to load %s HTTP server configuration : %s", svcName, err))
		exitCode = 1
		return
	}
	hs := httpserver.New(ctx, cancel, svcName, httpServerConfig, api.MakeHandler(svcName, cfg.InstanceID), logger)

	g.Go(func() error {
		return hs.Start()
	})

	g.Go(func() error {
		return server.StopSignalHandler(ctx, cancel, logger, svcName, hs)
	})

	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("%s service terminated: %s", svcName, err))
	}

	if err := subscriber.Close(); err != nil {
		logger.Error(fmt.Sprintf("failed to close %s event store subscriber: %s", store.Broker, err))
	}

	closeCtx, closeCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer closeCancel()
	if err := svc.Close(closeCtx); err != nil {
		logger.Error(fmt.Sprintf("%s service stopped with notifications in flight: %s", svcName, err))
		exitCode = 1
	}
}

func newService(notifierCfg notifications.Config, smtpCfg smtp.Config, idp watchmen.IDProvider, tracer trace.Tracer, logger *slog.Logger) (notifications.Service, error) {
	mailer, err := smtp.New(smtpCfg)
	if err != nil {
		return nil, err
	}
	mailCounter, mailLatency := prometheus.MakeMailMetrics(metricsNS, svcName)
	mailer = middleware.NewMailerMetrics(mailCounter, mailLatency, mailer)
	mailer = middleware.NewMailerTracing(tracer, mailer)

	svc := notifications.New(notifierCfg, mailer, idp, logger)
	svc = middleware.NewLoggingMiddleware(logger, svc)
	counter, latency := prometheus.MakeMetrics(metricsNS, svcName)
	svc = middleware.NewMetricsMiddleware(counter, latency, svc)
	svc = middleware.NewTracingMiddleware(tracer, svc)

	return svc, nil
}
