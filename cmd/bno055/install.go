package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	daemonutils "github.com/sensorkit/bno055/pkg/utils/daemon"
)

// NewInstallCommand .
func NewInstallCommand() *cobra.Command {
	allowNonRootAccess := false

	cmd := &cobra.Command{
		Use:     "install",
		Short:   "Install the bno055 daemon as a systemd service",
		GroupID: gInstallation,
		Long: `Install the bno055 daemon as a systemd service (system-wide).

This makes the daemon run in the background and start on boot. You must run this command as root.

By default only root may access the daemon socket. Use --allow-non-root-access to let other users read the sensor without sudo.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			socket := unixSocketPath
			if socket == "" {
				socket = defaultDaemonSocket
			}

			err := daemonutils.Install(daemonutils.Options{
				ConfigPath:         configPath,
				SocketPath:         socket,
				AllowNonRootAccess: allowNonRootAccess,
			})
			if err != nil {
				// check if current user is root
				if os.Geteuid() != 0 {
					logrus.Errorf("you must run this command as root")
				}
				return fmt.Errorf("failed to install daemon: %v", err)
			}

			logrus.Infof("installation succeeded")

			exePath, _ := os.Executable()
			cmd.Printf("systemd will use the current binary (%s) at startup, so do not move it. Once it is moved or deleted, run `bno055 install' again.\n", exePath)

			return nil
		},
	}

	cmd.Flags().BoolVar(&allowNonRootAccess, "allow-non-root-access", false, "Allow non-root users to access the daemon.")

	return cmd
}

// NewUninstallCommand .
func NewUninstallCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "uninstall",
		Short:   "Uninstall the bno055 daemon service",
		GroupID: gInstallation,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := daemonutils.Uninstall(); err != nil {
				return fmt.Errorf("failed to uninstall daemon: %v", err)
			}

			logrus.Infof("successfully uninstalled the bno055 daemon")
			return nil
		},
	}
}
