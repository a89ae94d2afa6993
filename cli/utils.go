// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
	"github.com/spf13/cobra"
)

var (
	// BrokerURL event store URL parameter.
	BrokerURL string = ""
	// Stream event store stream parameter.
	Stream string = ""
	// AlertTo per-service recipients parameter.
	AlertTo string = ""
	// AlwaysAlertTo global recipients parameter.
	AlwaysAlertTo string = ""
	// OutageError outage error parameter, JSON or plain text.
	OutageError string = ""
	// Downtime outage downtime parameter.
	Downtime time.Duration = 0
	// ConfigPath config path parameter.
	ConfigPath string = ""
	// RawOutput raw output mode.
	RawOutput bool = false
)

func logJSONCmd(cmd cobra.Command, iList ...interface{}) {
	for _, i := range iList {
		m, err := json.Marshal(i)
		if err != nil {
			logErrorCmd(cmd, err)
			return
		}

		pj, err := prettyjson.Format(m)
		if err != nil {
			logErrorCmd(cmd, err)
			return
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n\n", string(pj))
	}
}

func logUsageCmd(cmd cobra.Command, u string) {
	fmt.Fprintf(cmd.OutOrStdout(), color.YellowString("\nusage: %s\n\n"), u)
}

func logErrorCmd(cmd cobra.Command, err error) {
	boldRed := color.New(color.FgRed, color.Bold)
	boldRed.Fprintf(cmd.ErrOrStderr(), "\nerror: ")

	fmt.Fprintf(cmd.ErrOrStderr(), "%s\n\n", color.RedString(err.Error()))
}

func logOKCmd(cmd cobra.Command) {
	fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n\n", color.BlueString("ok"))
}

func logPublishedCmd(cmd cobra.Command, operation, stream string) {
	if RawOutput {
		fmt.Fprintln(cmd.OutOrStdout(), operation)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), color.BlueString("\npublished: %s to %s\n\n"), operation, stream)
}

// parseOutageError reads the outage error as JSON, falling back to the raw
// text when it is not valid JSON.
func parseOutageError(s string) interface{} {
	if s == "" {
		return nil
	}
	var v interface{}
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	return v
}
