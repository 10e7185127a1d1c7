package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/batterybar/batterybar/pkg/daemon"
	"github.com/batterybar/batterybar/pkg/version"
)

var (
	// alwaysAllowNonRootAccess makes the socket world-accessible regardless of the config.
	alwaysAllowNonRootAccess = false
)

func runDaemon() error {
	logrus.WithFields(logrus.Fields{
		"version": version.Version,
		"commit":  version.GitCommit,
	}).Info("batterybar starting")
	return daemon.Run(configPath, unixSocketPath, alwaysAllowNonRootAccess)
}

// NewDaemonCommand .
func NewDaemonCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "daemon",
		Hidden:  true,
		Short:   "Run batterybar in the foreground",
		GroupID: gBasic,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runDaemon()
		},
	}

	f := cmd.Flags()

	f.BoolVar(&alwaysAllowNonRootAccess, "always-allow-non-root-access", false,
		"Always allow other users to access the status socket.")

	return cmd
}
