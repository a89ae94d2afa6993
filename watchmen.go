// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package watchmen holds the definitions shared by the watchmen notifier
// packages.
package watchmen

// IDProvider specifies an API for generating unique identifiers.
type IDProvider interface {
	// ID generates the unique identifier.
	ID() (string, error)
}
