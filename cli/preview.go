// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"time"

	"github.com/absmach/watchmen/notifications"
	"github.com/spf13/cobra"
)

type preview struct {
	Recipients []string `json:"recipients"`
	Subject    string   `json:"subject"`
	Body       string   `json:"body"`
}

var cmdPreview = []cobra.Command{
	{
		Use:   "outage <service_name>",
		Short: "Preview the outage e-mail",
		Long: "Renders the e-mail sent when the service goes down\n" +
			"Usage:\n" +
			"\twatchmen-cli preview outage api --alert-to ops@example.com --error timeout\n",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}
			previewCmd(*cmd, notifications.OutageStarted, args[0])
		},
	},
	{
		Use:   "back <service_name>",
		Short: "Preview the recovery e-mail",
		Long: "Renders the e-mail sent when the service is back\n" +
			"Usage:\n" +
			"\twatchmen-cli preview back api --downtime 2h\n",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}
			previewCmd(*cmd, notifications.ServiceRecovered, args[0])
		},
	},
	{
		Use:   "downtime <duration>",
		Short: "Humanize a downtime",
		Long: "Prints the phrase used for a downtime in recovery e-mails\n" +
			"Usage:\n" +
			"\twatchmen-cli preview downtime 90m\n",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}
			d, err := time.ParseDuration(args[0])
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}
			fmt.Fprintln(cmd.OutOrStdout(), notifications.HumanizeDuration(d))
		},
	},
}

// NewPreviewCmd returns preview command.
func NewPreviewCmd() *cobra.Command {
	cmd := cobra.Command{
		Use:   "preview [outage | back | downtime]",
		Short: "Notification preview",
		Long:  "Render notification e-mails locally without sending them",
	}

	for i := range cmdPreview {
		cmd.AddCommand(&cmdPreview[i])
	}

	return &cmd
}

func previewCmd(cmd cobra.Command, kind notifications.EventKind, name string) {
	svc := notifications.MonitoredService{Name: name, AlertTo: AlertTo}
	outage := notifications.Outage{Error: parseOutageError(OutageError), Downtime: Downtime.Milliseconds()}

	msg := notifications.Format(kind, svc, outage)
	p := preview{
		Recipients: notifications.Recipients(AlertTo, AlwaysAlertTo),
		Subject:    msg.Title,
		Body:       msg.Body,
	}

	if RawOutput {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n%s\n", p.Subject, p.Body)
		return
	}
	logJSONCmd(cmd, p)
}
