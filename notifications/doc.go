// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package notifications contains the e-mail alerting plugin for the
// watchmen service monitor: it listens to outage and recovery events,
// resolves who should hear about them and hands the rendered message to a
// mail transport.
package notifications
