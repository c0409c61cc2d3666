package bno055

import (
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/sensorkit/bno055/pkg/bus"
	"github.com/sensorkit/bno055/pkg/codec"
)

// Settle delays. The device does not answer reliably before they elapse.
var (
	// BootDelay is waited before the identity check is retried.
	BootDelay = time.Second
	// ResetDelay is the power-on-reset time after a reset trigger.
	ResetDelay = 650 * time.Millisecond
	// ModeSwitchDelay covers both config-to-any (19ms) and any-to-config (7ms).
	ModeSwitchDelay = 30 * time.Millisecond
	// PowerModeDelay is waited after a power mode change.
	PowerModeDelay = 10 * time.Millisecond
)

var sleep = time.Sleep

// Device is a BNO055 reached through one bus session. It is not safe for
// concurrent use.
type Device struct {
	s *bus.Session
}

// Connect opens a bus session and verifies that a BNO055 answers on it.
func Connect(c bus.Config) (*Device, error) {
	s, err := bus.Open(c)
	if err != nil {
		return nil, err
	}

	d, err := New(s)
	if err != nil {
		if cerr := s.Close(); cerr != nil {
			logrus.Warnf("failed to close bus session: %v", cerr)
		}
		return nil, err
	}

	return d, nil
}

// New verifies the chip id on an open session. A mismatch is retried once
// after BootDelay, since the chip answers with garbage while it boots.
func New(s *bus.Session) (*Device, error) {
	d := &Device{s: s}

	id, err := d.Identity()
	if err != nil {
		return nil, err
	}

	if !id.IsBNO055() {
		logrus.Warnf("chip id is 0x%02X, expected 0x%02X, retrying in %s", id.ChipID, codec.ChipID, BootDelay)
		sleep(BootDelay)

		id, err = d.Identity()
		if err != nil {
			return nil, err
		}
		if !id.IsBNO055() {
			return nil, pkgerrors.Wrapf(ErrUnexpectedDevice, "chip id is 0x%02X, expected 0x%02X", id.ChipID, codec.ChipID)
		}
	}

	logrus.WithFields(logrus.Fields{
		"addr":     s.Addr(),
		"firmware": id.FirmwareVersion(),
	}).Debug("BNO055 connected")

	return d, nil
}

// Close releases the bus session.
func (d *Device) Close() error {
	return d.s.Close()
}

// Identity reads the id block at registers 0x00-0x06.
func (d *Device) Identity() (codec.Identity, error) {
	logrus.Tracef("Identity called")

	b, err := d.s.ReadRegisterBlock(RegChipID, codec.IdentitySize)
	if err != nil {
		return codec.Identity{}, pkgerrors.Wrap(err, "failed to read identity")
	}

	return codec.DecodeIdentity(b)
}

// Mode reads the current operational mode.
func (d *Device) Mode() (codec.Mode, error) {
	logrus.Tracef("Mode called")

	v, err := d.s.ReadRegister(RegOprMode)
	if err != nil {
		return 0, pkgerrors.Wrap(err, "failed to read operational mode")
	}

	m, err := codec.DecodeMode(v)
	if err != nil {
		return 0, err
	}
	logrus.Tracef("Mode returned %v", m)

	return m, nil
}

// SetMode switches the operational mode and waits for the switch to settle.
// Switching between two fusion modes does not need a CONFIG step in between.
func (d *Device) SetMode(m codec.Mode) error {
	logrus.Tracef("SetMode(%v) called", m)

	if !m.Valid() {
		return pkgerrors.Wrapf(ErrInvalidMode, "mode 0x%02X", uint8(m))
	}

	if err := d.s.WriteRegister(RegOprMode, byte(m)); err != nil {
		return pkgerrors.Wrapf(err, "failed to set mode %v", m)
	}
	sleep(ModeSwitchDelay)

	return nil
}

// Reset triggers a system reset and waits until the device is back.
func (d *Device) Reset() error {
	logrus.Tracef("Reset called")

	if err := d.s.WriteRegister(RegSysTrigger, SysTriggerReset); err != nil {
		return pkgerrors.Wrap(err, "failed to trigger reset")
	}
	sleep(ResetDelay)

	return nil
}

// SetPowerNormal selects the normal power mode.
func (d *Device) SetPowerNormal() error {
	logrus.Tracef("SetPowerNormal called")

	if err := d.s.WriteRegister(RegPowerMode, PowerModeNormal); err != nil {
		return pkgerrors.Wrap(err, "failed to set power mode")
	}
	sleep(PowerModeDelay)

	return nil
}

// SelectPage selects the register page. All registers used here live on page 0.
func (d *Device) SelectPage(page uint8) error {
	logrus.Tracef("SelectPage(%d) called", page)

	if err := d.s.WriteRegister(RegPageID, page); err != nil {
		return pkgerrors.Wrapf(err, "failed to select page %d", page)
	}

	return nil
}

// Init brings the device up: operational mode, normal power, register page 0.
func (d *Device) Init(m codec.Mode) error {
	if err := d.SetMode(m); err != nil {
		return err
	}
	if err := d.SetPowerNormal(); err != nil {
		return err
	}
	return d.SelectPage(registerPageZero)
}
