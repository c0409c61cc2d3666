package bno055

import (
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/sensorkit/bno055/pkg/codec"
)

// CalibrationStatus reads the calibration counters of register 0x35.
func (d *Device) CalibrationStatus() (codec.CalibrationStatus, error) {
	logrus.Tracef("CalibrationStatus called")

	v, err := d.s.ReadRegister(RegCalibStatus)
	if err != nil {
		return codec.CalibrationStatus{}, pkgerrors.Wrap(err, "failed to read calibration status")
	}

	st := codec.DecodeCalibrationStatus(v)
	logrus.Tracef("CalibrationStatus returned %+v", st)

	return st, nil
}

// CalibrationOffsets reads the offsets of registers 0x55-0x66.
func (d *Device) CalibrationOffsets() (codec.CalibrationOffsets, error) {
	logrus.Tracef("CalibrationOffsets called")

	b, err := d.s.ReadRegisterBlock(RegAccelOffset, codec.OffsetsSize)
	if err != nil {
		return codec.CalibrationOffsets{}, pkgerrors.Wrap(err, "failed to read calibration offsets")
	}

	return codec.DecodeCalibrationOffsets(b)
}

// CalibrationRadii reads the radii of registers 0x67-0x6A.
func (d *Device) CalibrationRadii() (codec.CalibrationRadii, error) {
	logrus.Tracef("CalibrationRadii called")

	b, err := d.s.ReadRegisterBlock(RegAccelRadius, codec.RadiiSize)
	if err != nil {
		return codec.CalibrationRadii{}, pkgerrors.Wrap(err, "failed to read calibration radii")
	}

	return codec.DecodeCalibrationRadii(b)
}

// CalibrationProfile captures status, offsets and radii.
func (d *Device) CalibrationProfile() (codec.CalibrationProfile, error) {
	logrus.Tracef("CalibrationProfile called")

	st, err := d.CalibrationStatus()
	if err != nil {
		return codec.CalibrationProfile{}, err
	}

	b, err := d.s.ReadRegisterBlock(RegAccelOffset, codec.RegisterSize)
	if err != nil {
		return codec.CalibrationProfile{}, pkgerrors.Wrap(err, "failed to read calibration registers")
	}

	offsets, radii, err := codec.DecodeCalibrationRegisters(b)
	if err != nil {
		return codec.CalibrationProfile{}, err
	}

	return codec.CalibrationProfile{Status: st, Offsets: offsets, Radii: radii}, nil
}

// RestoreCalibration writes a captured profile back to the device. The offset
// registers are only writable in CONFIG mode, so the current mode is saved,
// CONFIG is entered for the write and the saved mode is restored afterwards.
// The status counters are read-only and are not restored; the device reports
// them again once the fusion algorithm has confirmed the offsets.
func (d *Device) RestoreCalibration(p codec.CalibrationProfile) error {
	logrus.Tracef("RestoreCalibration called")

	prev, err := d.Mode()
	if err != nil {
		return err
	}

	if prev != codec.ModeConfig {
		if err := d.SetMode(codec.ModeConfig); err != nil {
			return err
		}
	}

	if err := d.s.WriteRegister(RegAccelOffset, codec.EncodeCalibrationRegisters(p)...); err != nil {
		return pkgerrors.Wrap(err, "failed to write calibration registers")
	}

	if prev != codec.ModeConfig {
		return d.SetMode(prev)
	}

	return nil
}
