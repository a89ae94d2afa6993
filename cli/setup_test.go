// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli_test

import (
	"bytes"
	"testing"

	"github.com/absmach/watchmen/cli"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func executeCommand(t *testing.T, root *cobra.Command, args ...string) string {
	buffer := new(bytes.Buffer)
	root.SetOut(buffer)
	root.SetErr(buffer)
	root.SetArgs(args)
	err := root.Execute()
	assert.NoError(t, err, "Error executing command")
	return buffer.String()
}

func newRootCmd(cmds ...*cobra.Command) *cobra.Command {
	cli.BrokerURL = ""
	cli.Stream = ""
	cli.AlertTo = ""
	cli.AlwaysAlertTo = ""
	cli.OutageError = ""
	cli.Downtime = 0
	cli.RawOutput = false

	rootCmd := &cobra.Command{Use: "watchmen-cli"}
	rootCmd.PersistentFlags().StringVarP(&cli.BrokerURL, "broker-url", "b", "", "Event store URL")
	rootCmd.PersistentFlags().StringVarP(&cli.Stream, "stream", "s", "", "Event store stream")
	rootCmd.PersistentFlags().BoolVarP(&cli.RawOutput, "raw", "r", false, "Enables raw output mode")
	rootCmd.PersistentFlags().StringVarP(&cli.AlertTo, "alert-to", "a", "", "Comma separated service recipients")
	rootCmd.PersistentFlags().StringVar(&cli.AlwaysAlertTo, "always-alert-to", "", "Comma separated recipients of every notification")
	rootCmd.PersistentFlags().StringVarP(&cli.OutageError, "error", "e", "", "Outage error")
	rootCmd.PersistentFlags().DurationVarP(&cli.Downtime, "downtime", "d", 0, "Outage downtime")

	for _, cmd := range cmds {
		rootCmd.AddCommand(cmd)
	}

	return rootCmd
}
