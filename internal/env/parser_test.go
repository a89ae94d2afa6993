// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package env

import (
	"fmt"
	"testing"

	"github.com/absmach/watchmen/internal/server"
	"github.com/absmach/watchmen/notifications"
	"github.com/absmach/watchmen/smtp"
	"github.com/stretchr/testify/assert"
)

func TestParseServerConfig(t *testing.T) {
	tests := []struct {
		description    string
		config         *server.Config
		expectedConfig *server.Config
		options        []Options
		err            bool
	}{
		{
			"Parsing with Server Config",
			&server.Config{},
			&server.Config{
				Host:     "localhost",
				Port:     "9020",
				CertFile: "cert",
				KeyFile:  "key",
			},
			[]Options{
				{
					Environment: map[string]string{
						"HOST":        "localhost",
						"PORT":        "9020",
						"SERVER_CERT": "cert",
						"SERVER_KEY":  "key",
					},
				},
			},
			false,
		},
		{
			"Parsing with Server Config with Prefix",
			&server.Config{},
			&server.Config{
				Host: "localhost",
				Port: "9020",
			},
			[]Options{
				{
					Environment: map[string]string{
						"WATCHMEN_NOTIFIER_HTTP_HOST": "localhost",
						"WATCHMEN_NOTIFIER_HTTP_PORT": "9020",
						"HOST":                        "ignored",
					},
					Prefix: "WATCHMEN_NOTIFIER_HTTP_",
				},
			},
			false,
		},
	}
	for _, test := range tests {
		err := Parse(test.config, test.options...)
		assert.Equal(t, test.err, err != nil, fmt.Sprintf("%s: unexpected error %v", test.description, err))
		assert.Equal(t, test.expectedConfig, test.config, fmt.Sprintf("%s: expected %v got %v", test.description, test.expectedConfig, test.config))
	}
}

func TestParseNotifierConfig(t *testing.T) {
	cfg := notifications.Config{}
	err := Parse(&cfg, Options{Environment: map[string]string{
		"WATCHMEN_AWS_FROM":                      "watchmen@example.com",
		"WATCHMEN_NOTIFICATIONS_ALWAYS_ALERT_TO": "oncall@example.com, sre@example.com",
	}})
	assert.NoError(t, err, fmt.Sprintf("expected no error but got %v", err))
	assert.Equal(t, notifications.Config{
		From:          "watchmen@example.com",
		AlwaysAlertTo: "oncall@example.com, sre@example.com",
	}, cfg)
}

func TestParseSMTPConfig(t *testing.T) {
	tests := []struct {
		description    string
		expectedConfig smtp.Config
		env            map[string]string
		err            bool
	}{
		{
			"defaults",
			smtp.Config{Region: "us-east-1", Port: 587},
			map[string]string{},
			false,
		},
		{
			"all fields",
			smtp.Config{
				From:   "watchmen@example.com",
				Region: "eu-west-1",
				Key:    "key",
				Secret: "secret",
				Host:   "mail.example.com",
				Port:   2587,
			},
			map[string]string{
				"WATCHMEN_AWS_FROM":   "watchmen@example.com",
				"WATCHMEN_AWS_REGION": "eu-west-1",
				"WATCHMEN_AWS_KEY":    "key",
				"WATCHMEN_AWS_SECRET": "secret",
				"WATCHMEN_SMTP_HOST":  "mail.example.com",
				"WATCHMEN_SMTP_PORT":  "2587",
			},
			false,
		},
		{
			"invalid port",
			smtp.Config{Region: "us-east-1"},
			map[string]string{"WATCHMEN_SMTP_PORT": "not int"},
			true,
		},
	}
	for _, test := range tests {
		cfg := smtp.Config{}
		err := Parse(&cfg, Options{Environment: test.env})
		assert.Equal(t, test.err, err != nil, fmt.Sprintf("%s: unexpected error %v", test.description, err))
		assert.Equal(t, test.expectedConfig, cfg, fmt.Sprintf("%s: expected %v got %v", test.description, test.expectedConfig, cfg))
	}
}

func TestParseCustomConfig(t *testing.T) {
	type CustomConfig struct {
		Field1 string `env:"FIELD1" envDefault:"val1"`
		Field2 int    `env:"FIELD2"`
	}

	tests := []struct {
		description    string
		expectedConfig CustomConfig
		options        []Options
		err            bool
	}{
		{
			"parse with missing required field",
			CustomConfig{Field1: "test val"},
			[]Options{{Environment: map[string]string{"FIELD1": "test val"}, RequiredIfNoDef: true}},
			true,
		},
		{
			"parse with default",
			CustomConfig{Field1: "val1", Field2: 2},
			[]Options{{Environment: map[string]string{"FIELD2": "2"}}},
			false,
		},
	}

	for _, test := range tests {
		cfg := CustomConfig{}
		err := Parse(&cfg, test.options...)
		assert.Equal(t, test.err, err != nil, fmt.Sprintf("%s: unexpected error %v", test.description, err))
		assert.Equal(t, test.expectedConfig, cfg, fmt.Sprintf("%s: expected %v got %v", test.description, test.expectedConfig, cfg))
	}
}
