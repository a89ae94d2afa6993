// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package store selects the event broker at build time. Redis is the default;
// the nats and rabbitmq build tags switch to the respective broker.
package store
