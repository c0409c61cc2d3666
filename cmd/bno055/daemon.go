package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sensorkit/bno055/pkg/daemon"
	"github.com/sensorkit/bno055/pkg/version"
)

const defaultDaemonSocket = "/var/run/bno055.sock"

var (
	// alwaysAllowNonRootAccess indicates whether to always allow non-root users to access the daemon.
	alwaysAllowNonRootAccess = false
)

// NewDaemonCommand .
func NewDaemonCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the bno055 daemon in the foreground",
		Long: `Run the bno055 daemon in the foreground.

The daemon owns the bus, brings the sensor up in the configured mode, restores
the configured calibration if restoreCalibration is set, and serves the sensor
over HTTP on a unix socket (--daemon-socket, default ` + defaultDaemonSocket + `).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			socket := unixSocketPath
			if socket == "" {
				socket = defaultDaemonSocket
			}

			logrus.WithFields(logrus.Fields{
				"version": version.Version,
				"commit":  version.GitCommit,
			}).Info("bno055 daemon starting")
			return daemon.Run(conf, socket, alwaysAllowNonRootAccess)
		},
	}

	f := cmd.Flags()

	f.BoolVar(&alwaysAllowNonRootAccess, "always-allow-non-root-access", false,
		"Always allow non-root users to access the daemon.")

	return cmd
}
