package main

import (
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/batterybar/batterybar/pkg/client"
	"github.com/batterybar/batterybar/pkg/version"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("%s %s\n", version.Version, version.GitCommit)

			daemonVersion, err := client.NewClient(unixSocketPath).GetVersion()
			if err != nil {
				if !errors.Is(err, client.ErrDaemonNotRunning) {
					logrus.WithError(err).Debug("failed to get daemon version")
				}
				return
			}
			if daemonVersion != version.Version {
				logrus.WithFields(logrus.Fields{
					"clientVersion": version.Version,
					"daemonVersion": daemonVersion,
				}).Warn("Version mismatch between client and running agent. Restart batterybar to use the new version.")
			}
		},
	}
}
