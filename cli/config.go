// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"
	"net/url"
	"os"

	"github.com/absmach/watchmen/pkg/errors"
	"github.com/pelletier/go-toml"
	"github.com/spf13/cobra"
)

type broker struct {
	URL    string `toml:"url"`
	Stream string `toml:"stream"`
}

type alerts struct {
	AlwaysAlertTo string `toml:"always_alert_to"`
}

type config struct {
	Broker        broker        `toml:"broker"`
	Notifications alerts        `toml:"notifications"`
	RawOutput     bool          `toml:"raw_output"`
}

// Readable by all user groups but writeable by the user only.
const filePermission = 0o644

var (
	errReadFail      = errors.New("failed to read config file")
	errNoKey         = errors.New("no such key")
	errWritingConfig = errors.New("error in writing the updated config to file")
	errInvalidURL    = errors.New("invalid url")

	defaultConfigPath = "./config.toml"
	defaultConfig     = config{
		Broker: broker{
			URL:    "redis://localhost:6379/0",
			Stream: "watchmen.services",
		},
	}
)

func read(file string) (config, error) {
	c := config{}
	data, err := os.Open(file)
	if err != nil {
		return c, errors.Wrap(errReadFail, err)
	}
	defer data.Close()

	buf, err := io.ReadAll(data)
	if err != nil {
		return c, errors.Wrap(errReadFail, err)
	}

	if err := toml.Unmarshal(buf, &c); err != nil {
		return config{}, errors.Wrap(errReadFail, err)
	}

	return c, nil
}

func write(file string, c config) error {
	buf, err := toml.Marshal(c)
	if err != nil {
		return errors.Wrap(errWritingConfig, err)
	}
	if err := os.WriteFile(file, buf, filePermission); err != nil {
		return errors.Wrap(errWritingConfig, err)
	}

	return nil
}

// ParseConfig loads the config file, creating it with default values if it
// does not exist. Values already set by flags are kept.
func ParseConfig() error {
	if ConfigPath == "" {
		ConfigPath = defaultConfigPath
	}

	_, err := os.Stat(ConfigPath)
	switch {
	case os.IsNotExist(err):
		if err := write(ConfigPath, defaultConfig); err != nil {
			return err
		}
	case err != nil:
		return err
	}

	c, err := read(ConfigPath)
	if err != nil {
		return err
	}

	if BrokerURL == "" {
		BrokerURL = c.Broker.URL
	}
	if Stream == "" {
		Stream = c.Broker.Stream
	}
	if AlwaysAlertTo == "" {
		AlwaysAlertTo = c.Notifications.AlwaysAlertTo
	}
	if c.RawOutput {
		RawOutput = true
	}

	return nil
}

// NewConfigCmd returns the command storing params in the local TOML file.
func NewConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config <key> <value>",
		Short: "CLI local config",
		Long: "Local param storage to prevent repetitive passing of keys\n" +
			"keys: broker_url, stream, always_alert_to",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 2 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}

			if err := setConfigValue(args[0], args[1]); err != nil {
				logErrorCmd(*cmd, err)
				return
			}

			logOKCmd(*cmd)
		},
	}
}

func setConfigValue(key, value string) error {
	c, err := read(ConfigPath)
	if err != nil {
		return err
	}

	fields := map[string]*string{
		"broker_url":      &c.Broker.URL,
		"stream":          &c.Broker.Stream,
		"always_alert_to": &c.Notifications.AlwaysAlertTo,
	}

	field, ok := fields[key]
	if !ok {
		return errNoKey
	}

	if key == "broker_url" {
		u, err := url.Parse(value)
		if err != nil {
			return errors.Wrap(errInvalidURL, err)
		}
		if u.Scheme == "" || u.Host == "" {
			return errInvalidURL
		}
	}

	*field = value

	return write(ConfigPath, c)
}
