package config

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sensorkit/bno055/pkg/bus"
	"github.com/sensorkit/bno055/pkg/codec"
)

type Config interface {
	Driver() string
	Bus() string
	Address() uint16
	Timeout() time.Duration
	Mode() codec.Mode
	CalibrationFile() string
	RestoreCalibration() bool

	SetDriver(string)
	SetBus(string)
	SetAddress(uint16)
	SetTimeout(time.Duration)
	SetMode(codec.Mode)
	SetCalibrationFile(string)
	SetRestoreCalibration(bool)

	// BusConfig assembles the bus settings.
	BusConfig() bus.Config
	LogrusFields() logrus.Fields

	// Validate reports the first invalid setting.
	Validate() error
	// Load reads the configuration from the source.
	Load() error
	// Save saves the configuration to the source.
	Save() error
}
