package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sensorkit/bno055/pkg/bno055"
	"github.com/sensorkit/bno055/pkg/calibration"
	"github.com/sensorkit/bno055/pkg/client"
	"github.com/sensorkit/bno055/pkg/codec"
	"github.com/sensorkit/bno055/pkg/config"
)

var (
	driverFlag string
	busFlag    string
	addrFlag   uint16
)

// sensor is served either by the bus directly or by the daemon.
type sensor interface {
	Identity() (codec.Identity, error)
	Mode() (codec.Mode, error)
	SetMode(codec.Mode) error
	Reset() error
	CalibrationStatus() (codec.CalibrationStatus, error)
	CalibrationOffsets() (codec.CalibrationOffsets, error)
	CalibrationProfile() (codec.CalibrationProfile, error)
	RestoreCalibration(codec.CalibrationProfile) error
	SystemStatus() (codec.SystemStatus, error)
	Temperature() (codec.Temperature, error)
	Measurement(codec.Kind) (codec.Sample, error)
	UnitSelection() (codec.UnitSelection, error)
	Close() error
}

var (
	_ sensor = &bno055.Device{}
	_ sensor = &client.Client{}
)

// loadConfig reads the config file and applies the global flags on top.
func loadConfig(cmd *cobra.Command) (*config.File, error) {
	conf, err := config.NewFile(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("driver") {
		conf.SetDriver(driverFlag)
	}
	if flags.Changed("bus") {
		conf.SetBus(busFlag)
	}
	if flags.Changed("addr") {
		conf.SetAddress(addrFlag)
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}
	logrus.WithFields(conf.LogrusFields()).Debug("config loaded")

	return conf, nil
}

func openSensor(cmd *cobra.Command) (sensor, error) {
	if unixSocketPath != "" {
		return client.NewClient(unixSocketPath), nil
	}

	conf, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	dev, err := bno055.Connect(conf.BusConfig())
	if err != nil {
		return nil, err
	}

	if err := bringUp(dev, conf); err != nil {
		if cerr := dev.Close(); cerr != nil {
			logrus.Warnf("failed to close sensor: %v", cerr)
		}
		return nil, err
	}

	return dev, nil
}

// bringUp initializes a sensor found in CONFIG mode, i.e. fresh from power-on
// or a reset, in the configured mode and restores the configured calibration.
// A sensor that is already running is left alone.
func bringUp(dev *bno055.Device, conf config.Config) error {
	m, err := dev.Mode()
	if err != nil {
		return err
	}
	if m != codec.ModeConfig {
		return nil
	}

	logrus.Debugf("sensor is in CONFIG mode, bringing it up in %v", conf.Mode())
	if err := dev.Init(conf.Mode()); err != nil {
		return fmt.Errorf("failed to bring up sensor in mode %v: %w", conf.Mode(), err)
	}

	if !conf.RestoreCalibration() {
		return nil
	}

	p, err := calibration.NewFile(conf.CalibrationFile()).Load()
	if err != nil {
		// an uncalibrated sensor still works
		logrus.Warnf("not restoring calibration: %v", err)
		return nil
	}
	if err := dev.RestoreCalibration(p); err != nil {
		return fmt.Errorf("failed to restore calibration: %w", err)
	}
	logrus.WithField("file", conf.CalibrationFile()).Debug("calibration restored")

	return nil
}

// withSensor opens the sensor, runs fn and closes the sensor again.
func withSensor(cmd *cobra.Command, fn func(s sensor) error) error {
	s, err := openSensor(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			logrus.Warnf("failed to close sensor: %v", err)
		}
	}()

	return fn(s)
}

func bool2Text(b bool) string {
	if b {
		return color.New(color.Bold, color.FgGreen).Sprint("✔")
	}
	return color.New(color.Bold, color.FgRed).Sprint("✘")
}

func bold(format string, a ...interface{}) string {
	return color.New(color.Bold).Sprintf(format, a...)
}

// calibText colors a 0-3 calibration counter.
func calibText(v uint8) string {
	switch v {
	case 3:
		return color.New(color.Bold, color.FgGreen).Sprintf("%d", v)
	case 0:
		return color.New(color.Bold, color.FgRed).Sprintf("%d", v)
	default:
		return color.New(color.Bold, color.FgYellow).Sprintf("%d", v)
	}
}
