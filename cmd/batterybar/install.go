package main

import (
	"fmt"
	"os"
	"path/filepath"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/batterybar/batterybar/pkg/config"
	"github.com/batterybar/batterybar/pkg/utils/launchd"
)

// NewInstallCommand .
func NewInstallCommand() *cobra.Command {
	headless := false

	cmd := &cobra.Command{
		Use:     "install",
		Short:   "Start batterybar at login",
		GroupID: gInstallation,
		Long: `Install batterybar as a launchd agent of the current user.

This makes batterybar start when you log in and restarts it if it crashes.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := config.NewFile(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("headless") {
				conf.SetHeadless(headless)
			}

			err = os.MkdirAll(filepath.Dir(configPath), 0755)
			if err != nil {
				return pkgerrors.Wrapf(err, "failed to create config directory")
			}
			err = conf.Save()
			if err != nil {
				return pkgerrors.Wrapf(err, "failed to save config")
			}

			err = launchd.Install()
			if err != nil {
				return fmt.Errorf("failed to install launch agent: %w", err)
			}

			logrus.Infof("installation succeeded")

			exePath, _ := os.Executable()

			cmd.Printf("`launchd' will use current binary (%s) at login so please make sure you do not move this binary. Once this binary is moved or deleted, you will need to run ``batterybar install'' again.\n", exePath)

			return nil
		},
	}

	cmd.Flags().BoolVar(&headless, "headless", false, "Do not show the menubar item, only alert when low.")

	return cmd
}

// NewUninstallCommand .
func NewUninstallCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "uninstall",
		Short:   "Stop starting batterybar at login",
		GroupID: gInstallation,
		Long: `Uninstall the batterybar launchd agent.

This stops batterybar and removes it from launchd.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := launchd.Uninstall()
			if err != nil {
				return fmt.Errorf("failed to uninstall launch agent: %w", err)
			}

			fmt.Println("successfully uninstalled")

			cmd.Printf("Your config is kept in %s, in case you want to use `batterybar' again.\n", configPath)

			return nil
		},
	}
}
