// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package env loads configuration structs from environment variables.
package env

import (
	"github.com/caarlos0/env/v7"
)

type Options struct {
	// Environment keys and values used instead of the process environment.
	Environment map[string]string

	// TagName specifies another tagname to use rather than the default env.
	TagName string

	// RequiredIfNoDef marks every field without an envDefault as required.
	RequiredIfNoDef bool

	// OnSet runs a function whenever a value is set.
	OnSet env.OnSetFn

	// Prefix is prepended to each key.
	Prefix string
}

// Parse fills v from the environment.
func Parse(v interface{}, opts ...Options) error {
	altOpts := []env.Options{}

	for _, opt := range opts {
		altOpts = append(altOpts, env.Options{
			Environment:     opt.Environment,
			TagName:         opt.TagName,
			RequiredIfNoDef: opt.RequiredIfNoDef,
			OnSet:           opt.OnSet,
			Prefix:          opt.Prefix,
		})
	}

	return env.Parse(v, altOpts...)
}
