// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package main contains the watchmen command line client.
package main

import (
	"log"

	"github.com/absmach/watchmen/cli"
	"github.com/absmach/watchmen/pkg/events/store"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/spf13/cobra"
)

func main() {
	// Root
	rootCmd := &cobra.Command{
		Use: "watchmen-cli",
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if err := cli.ParseConfig(); err != nil {
				log.Fatalf("failed to parse config: %s", err)
			}
			cli.SetPublisherFactory(store.NewPublisher)
		},
	}

	cc.Init(&cc.Config{
		RootCmd:  rootCmd,
		Headings: cc.HiCyan + cc.Bold + cc.Underline,
		Commands: cc.HiYellow + cc.Bold,
		Example:  cc.Italic,
		ExecName: cc.Bold,
		Flags:    cc.Bold,
	})

	// Root Commands
	rootCmd.AddCommand(cli.NewVersionCmd())
	rootCmd.AddCommand(cli.NewEventsCmd())
	rootCmd.AddCommand(cli.NewPreviewCmd())
	rootCmd.AddCommand(cli.NewConfigCmd())

	// Root Flags
	rootCmd.PersistentFlags().StringVarP(
		&cli.BrokerURL,
		"broker-url",
		"b",
		"",
		"Event store URL",
	)

	rootCmd.PersistentFlags().StringVarP(
		&cli.Stream,
		"stream",
		"s",
		"",
		"Event store stream",
	)

	rootCmd.PersistentFlags().StringVar(
		&cli.ConfigPath,
		"config",
		"",
		"Watchmen CLI config path",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&cli.RawOutput,
		"raw",
		"r",
		false,
		"Enables raw output mode for easier parsing of output",
	)

	// Notification Flags
	rootCmd.PersistentFlags().StringVarP(
		&cli.AlertTo,
		"alert-to",
		"a",
		"",
		"Comma separated service recipients",
	)

	rootCmd.PersistentFlags().StringVar(
		&cli.AlwaysAlertTo,
		"always-alert-to",
		"",
		"Comma separated recipients of every notification",
	)

	rootCmd.PersistentFlags().StringVarP(
		&cli.OutageError,
		"error",
		"e",
		"",
		"Outage error, JSON or plain text",
	)

	rootCmd.PersistentFlags().DurationVarP(
		&cli.Downtime,
		"downtime",
		"d",
		0,
		"Outage downtime",
	)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
