// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package prometheus builds the go-kit metrics the notifier middleware records.
package prometheus

import (
	kitprometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

// MailLatencyBuckets covers SMTP round trips, from a local relay to a slow
// remote submission server.
var MailLatencyBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

// MakeMetrics returns an operation counter and an operation latency summary,
// both labeled by method. Latencies are observed in seconds.
//
//	counter, latency := prometheus.MakeMetrics("watchmen", "notifier")
func MakeMetrics(namespace, subsystem string) (*kitprometheus.Counter, *kitprometheus.Summary) {
	counter := kitprometheus.NewCounterFrom(stdprometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_count",
		Help:      "Number of operations handled.",
	}, []string{"method"})
	latency := kitprometheus.NewSummaryFrom(stdprometheus.SummaryOpts{
		Namespace:  namespace,
		Subsystem:  subsystem,
		Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		Name:       "request_latency_seconds",
		Help:       "Total duration of operations in seconds.",
	}, []string{"method"})

	return counter, latency
}

// MakeMailMetrics returns a delivery counter and a delivery latency histogram
// for the mail transport, labeled by method (send or send_failed).
func MakeMailMetrics(namespace, subsystem string) (*kitprometheus.Counter, *kitprometheus.Histogram) {
	counter := kitprometheus.NewCounterFrom(stdprometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "mail_count",
		Help:      "Number of e-mail delivery attempts.",
	}, []string{"method"})
	latency := kitprometheus.NewHistogramFrom(stdprometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "mail_latency_seconds",
		Help:      "Duration of e-mail delivery attempts in seconds.",
		Buckets:   MailLatencyBuckets,
	}, []string{"method"})

	return counter, latency
}
