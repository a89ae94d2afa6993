// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"github.com/absmach/watchmen"
	"github.com/spf13/cobra"
)

type version struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
}

// NewVersionCmd returns version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Watchmen CLI version",
		Long:  `Watchmen CLI version, commit and build time`,
		Run: func(cmd *cobra.Command, _ []string) {
			logJSONCmd(*cmd, version{
				Version:   watchmen.Version,
				Commit:    watchmen.Commit,
				BuildTime: watchmen.BuildTime,
			})
		},
	}
}
