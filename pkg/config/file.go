package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/sensorkit/bno055/pkg/bus"
	"github.com/sensorkit/bno055/pkg/codec"
	"github.com/sensorkit/bno055/pkg/utils/ptr"
)

var (
	defaultFileConfig = &RawFileConfig{
		Driver:             ptr.To("i2cdev"),
		Bus:                ptr.To("/dev/i2c-1"),
		Address:            ptr.To(uint16(0x28)),
		TimeoutMs:          ptr.To(int(bus.DefaultTimeout / time.Millisecond)),
		Mode:               ptr.To(codec.ModeNDOF.String()),
		CalibrationFile:    ptr.To(""),
		RestoreCalibration: ptr.To(false),
	}
)

var _ Config = &File{}

// File is a Config backed by a JSON or YAML file. Files ending in .yaml or
// .yml are YAML, everything else is JSON. Unset fields fall back to defaults.
type File struct {
	c        *RawFileConfig
	mu       *sync.RWMutex
	filepath string
}

func NewFile(configPath string) (*File, error) {
	f := &File{
		filepath: configPath,
		mu:       &sync.RWMutex{},
	}
	err := f.Load()
	if err != nil {
		return nil, err
	}

	return f, nil
}

func NewFileFromConfig(c *RawFileConfig, configPath string) *File {
	if c == nil {
		c = &RawFileConfig{}
	}

	f := &File{
		c:        c,
		mu:       &sync.RWMutex{},
		filepath: configPath,
	}

	return f
}

type RawFileConfig struct {
	Driver             *string `json:"driver,omitempty" yaml:"driver,omitempty"`
	Bus                *string `json:"bus,omitempty" yaml:"bus,omitempty"`
	Address            *uint16 `json:"address,omitempty" yaml:"address,omitempty"`
	TimeoutMs          *int    `json:"timeoutMs,omitempty" yaml:"timeoutMs,omitempty"`
	Mode               *string `json:"mode,omitempty" yaml:"mode,omitempty"`
	CalibrationFile    *string `json:"calibrationFile,omitempty" yaml:"calibrationFile,omitempty"`
	RestoreCalibration *bool   `json:"restoreCalibration,omitempty" yaml:"restoreCalibration,omitempty"`
}

func (f *File) isYAML() bool {
	ext := strings.ToLower(filepath.Ext(f.filepath))
	return ext == ".yaml" || ext == ".yml"
}

func (f *File) Driver() string {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return ptr.Deref(f.c.Driver, *defaultFileConfig.Driver)
}

func (f *File) Bus() string {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return ptr.Deref(f.c.Bus, *defaultFileConfig.Bus)
}

func (f *File) Address() uint16 {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return ptr.Deref(f.c.Address, *defaultFileConfig.Address)
}

func (f *File) Timeout() time.Duration {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return time.Duration(ptr.Deref(f.c.TimeoutMs, *defaultFileConfig.TimeoutMs)) * time.Millisecond
}

// Mode returns the mode the device is brought up in. An unparsable value
// yields the default; Validate reports it.
func (f *File) Mode() codec.Mode {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	m, err := codec.ParseMode(ptr.Deref(f.c.Mode, *defaultFileConfig.Mode))
	if err != nil {
		return codec.ModeNDOF
	}

	return m
}

func (f *File) CalibrationFile() string {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return ptr.Deref(f.c.CalibrationFile, *defaultFileConfig.CalibrationFile)
}

func (f *File) RestoreCalibration() bool {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return ptr.Deref(f.c.RestoreCalibration, *defaultFileConfig.RestoreCalibration)
}

func (f *File) SetDriver(s string) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.Driver = &s
}

func (f *File) SetBus(s string) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.Bus = &s
}

func (f *File) SetAddress(a uint16) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.Address = &a
}

func (f *File) SetTimeout(d time.Duration) {
	if f.c == nil {
		panic("config is nil")
	}

	ms := int(d / time.Millisecond)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.TimeoutMs = &ms
}

func (f *File) SetMode(m codec.Mode) {
	if f.c == nil {
		panic("config is nil")
	}

	s := m.String()

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.Mode = &s
}

func (f *File) SetCalibrationFile(s string) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.CalibrationFile = &s
}

func (f *File) SetRestoreCalibration(b bool) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.RestoreCalibration = &b
}

// Validate checks the settings that cannot be represented by the field types.
func (f *File) Validate() error {
	if f.c == nil {
		return pkgerrors.New("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c.Driver != nil && *f.c.Driver == "" {
		return pkgerrors.New("driver must not be empty")
	}
	if f.c.Address != nil && *f.c.Address > 0x7F {
		return pkgerrors.Errorf("address 0x%02X is not a 7-bit address", *f.c.Address)
	}
	if f.c.TimeoutMs != nil && *f.c.TimeoutMs <= 0 {
		return pkgerrors.Errorf("timeoutMs must be positive, got %d", *f.c.TimeoutMs)
	}
	if f.c.Mode != nil {
		if _, err := codec.ParseMode(*f.c.Mode); err != nil {
			return pkgerrors.Wrap(err, "invalid mode")
		}
	}
	if f.c.RestoreCalibration != nil && *f.c.RestoreCalibration &&
		(f.c.CalibrationFile == nil || *f.c.CalibrationFile == "") {
		return pkgerrors.New("restoreCalibration requires calibrationFile")
	}

	return nil
}

// BusConfig returns the bus settings as a bus.Config.
func (f *File) BusConfig() bus.Config {
	return bus.Config{
		Driver:  f.Driver(),
		Bus:     f.Bus(),
		Addr:    f.Address(),
		Timeout: f.Timeout(),
	}
}

func (f *File) Load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, err := os.ReadFile(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			// If the file does not exist, return the empty config.
			// Do not make f.c a nil.
			f.c = &RawFileConfig{}
			return nil
		}
		return pkgerrors.Wrapf(err, "failed to read file %s", f.filepath)
	}

	if strings.TrimSpace(string(b)) == "" {
		f.c = &RawFileConfig{}
		return nil
	}

	conf := RawFileConfig{}
	if f.isYAML() {
		err = yaml.Unmarshal(b, &conf)
	} else {
		err = json.Unmarshal(b, &conf)
	}
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to unmarshal config from file %s", f.filepath)
	}
	f.c = &conf

	return nil
}

func (f *File) Save() error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c == nil {
		return pkgerrors.New("config is nil")
	}

	fp, err := os.OpenFile(f.filepath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	if f.isYAML() {
		enc := yaml.NewEncoder(fp)
		enc.SetIndent(2)
		err = enc.Encode(f.c)
		if err == nil {
			err = enc.Close()
		}
	} else {
		enc := json.NewEncoder(fp)
		enc.SetIndent("", "  ")
		err = enc.Encode(f.c)
	}
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to encode config to file %s", f.filepath)
	}

	return nil
}

func (f *File) LogrusFields() logrus.Fields {
	if f.c == nil {
		panic("config is nil")
	}

	return logrus.Fields{
		"driver":             f.Driver(),
		"bus":                f.Bus(),
		"address":            f.Address(),
		"timeout":            f.Timeout(),
		"mode":               f.Mode(),
		"calibrationFile":    f.CalibrationFile(),
		"restoreCalibration": f.RestoreCalibration(),
	}
}
