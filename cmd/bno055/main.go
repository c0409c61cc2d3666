package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sensorkit/bno055/pkg/bno055"
	"github.com/sensorkit/bno055/pkg/bus"
	"github.com/sensorkit/bno055/pkg/client"
)

const defaultConfigPath = "/etc/bno055.yaml"

var (
	logLevel       = "info"
	unixSocketPath = ""
	configPath     = defaultConfigPath
)

var (
	gSensor       = "Sensor:"
	gCalibration  = "Calibration:"
	gInstallation = "Installation:"
	commandGroups = []string{
		gSensor,
		gCalibration,
		gInstallation,
	}
)

func setupLogger() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}

	return nil
}

func handleCmdError(err error) {
	switch {
	case errors.Is(err, client.ErrDaemonNotRunning):
		fmt.Fprintln(os.Stderr, "\nError: bno055 daemon is not running")
		fmt.Fprintln(os.Stderr, "Start it with 'bno055 daemon', or drop --daemon-socket to access the bus directly.")
	case errors.Is(err, client.ErrPermissionDenied):
		fmt.Fprintln(os.Stderr, "\nError: Permission Denied")
		fmt.Fprintln(os.Stderr, "  - Try running the command again with 'sudo'")
		fmt.Fprintln(os.Stderr, "  - Or restart the daemon with '--always-allow-non-root-access'")
	case errors.Is(err, bus.ErrBusUnavailable):
		fmt.Fprintln(os.Stderr, "\nError: the I2C bus could not be opened")
		fmt.Fprintln(os.Stderr, "  - Check that I2C is enabled and the --bus device exists")
		fmt.Fprintln(os.Stderr, "  - Another process (e.g. the bno055 daemon) may hold the bus; use --daemon-socket")
	case errors.Is(err, bus.ErrAddressRejected), errors.Is(err, bus.ErrTimeout), errors.Is(err, bno055.ErrUnexpectedDevice):
		fmt.Fprintln(os.Stderr, "\nError: no BNO055 answered")
		fmt.Fprintln(os.Stderr, "  - The address is 0x28 with COM3 low and 0x29 with COM3 high, see --addr")
		fmt.Fprintln(os.Stderr, "  - Check wiring and power")
	case errors.Is(err, client.ErrNoCalibrationFile):
		fmt.Fprintln(os.Stderr, "\nError: the daemon has no calibrationFile configured")
		fmt.Fprintln(os.Stderr, "Set calibrationFile in its config, or pass a file: 'bno055 calibration save <file>'")
	case errors.Is(err, bno055.ErrFusionRequired):
		fmt.Fprintln(os.Stderr, "\nError: orientation data needs a fusion mode")
		fmt.Fprintln(os.Stderr, "Switch with e.g. 'bno055 mode ndof'")
	}
}

func main() {
	cmd := NewCommand()
	if err := cmd.Execute(); err != nil {
		handleCmdError(err)
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bno055",
		Short: "bno055 reads and configures a Bosch BNO055 orientation sensor over I2C",
		Long: `bno055 reads and configures a Bosch BNO055 orientation sensor over I2C.

Commands access the bus directly, or go through a running 'bno055 daemon'
when --daemon-socket is set.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return setupLogger()
		},
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", "info", "log level (trace, debug, info, warn, error, fatal, panic)")
	globalFlags.StringVar(&configPath, "config", defaultConfigPath, "config file path (.json, .yaml or .yml)")
	globalFlags.StringVar(&unixSocketPath, "daemon-socket", "", "talk to the bno055 daemon on this unix socket instead of the bus")
	globalFlags.StringVar(&driverFlag, "driver", "", "bus driver ("+strings.Join(bus.Drivers(), ", ")+"), overrides the config")
	globalFlags.StringVar(&busFlag, "bus", "", "I2C bus or serial port, e.g. /dev/i2c-1 or /dev/ttyUSB0, overrides the config")
	globalFlags.Uint16Var(&addrFlag, "addr", 0, "sensor address, 0x28 or 0x29, overrides the config")

	for _, i := range commandGroups {
		cmd.AddGroup(&cobra.Group{
			ID:    i,
			Title: i,
		})
	}

	cmd.AddCommand(
		NewDaemonCommand(),
		NewVersionCommand(),
		NewInfoCommand(),
		NewReadCommand(),
		NewDashboardCommand(),
		NewModeCommand(),
		NewResetCommand(),
		NewCalibrationCommand(),
		NewEventsCommand(),
		NewInstallCommand(),
		NewUninstallCommand(),
	)

	return cmd
}
