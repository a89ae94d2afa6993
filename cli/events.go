// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"

	"github.com/absmach/watchmen/notifications"
	"github.com/absmach/watchmen/pkg/events"
	"github.com/spf13/cobra"
)

// PublisherFactory connects to the event store.
type PublisherFactory func(ctx context.Context, url, stream string) (events.Publisher, error)

var newPublisher PublisherFactory

// SetPublisherFactory sets the event store connector used by the events
// commands.
func SetPublisherFactory(f PublisherFactory) {
	newPublisher = f
}

var cmdEvents = []cobra.Command{
	{
		Use:   "outage <service_name>",
		Short: "Publish a new outage event",
		Long: "Publishes a new-outage event for the service\n" +
			"Usage:\n" +
			"\twatchmen-cli events outage api --alert-to ops@example.com --error '{\"code\":\"ECONNREFUSED\"}'\n",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}
			publishCmd(*cmd, notifications.EventNewOutage, args[0], 0)
		},
	},
	{
		Use:   "back <service_name>",
		Short: "Publish a service back event",
		Long: "Publishes a service-back event for the service\n" +
			"Usage:\n" +
			"\twatchmen-cli events back api --alert-to ops@example.com --downtime 15m\n",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}
			publishCmd(*cmd, notifications.EventServiceBack, args[0], Downtime.Milliseconds())
		},
	},
}

// NewEventsCmd returns events command.
func NewEventsCmd() *cobra.Command {
	cmd := cobra.Command{
		Use:   "events [outage | back]",
		Short: "Host events publishing",
		Long:  "Publish watchmen host events to the event store",
	}

	for i := range cmdEvents {
		cmd.AddCommand(&cmdEvents[i])
	}

	return &cmd
}

func publishCmd(cmd cobra.Command, operation, name string, downtime int64) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	pub, err := newPublisher(ctx, BrokerURL, Stream)
	if err != nil {
		logErrorCmd(cmd, err)
		return
	}

	event := events.Event{
		Operation: operation,
		Service:   notifications.MonitoredService{Name: name, AlertTo: AlertTo},
		Outage:    notifications.Outage{Error: parseOutageError(OutageError), Downtime: downtime},
	}
	// A publisher may hold the event until Close, so the event only counts
	// as published once Close succeeds.
	err = pub.Publish(ctx, event)
	if cerr := pub.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		logErrorCmd(cmd, err)
		return
	}

	logPublishedCmd(cmd, operation, Stream)
}
