package bno055

import (
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/sensorkit/bno055/pkg/codec"
)

// SystemStatus reads system status, self-test result, system error and unit
// selection.
func (d *Device) SystemStatus() (codec.SystemStatus, error) {
	logrus.Tracef("SystemStatus called")

	regs := []uint8{RegSysStatus, RegSelfTest, RegSysError, RegUnitSelect}
	vals := make([]byte, len(regs))
	for i, reg := range regs {
		v, err := d.s.ReadRegister(reg)
		if err != nil {
			return codec.SystemStatus{}, pkgerrors.Wrap(err, "failed to read system status")
		}
		vals[i] = v
	}

	return codec.DecodeSystemStatus(vals[0], vals[1], vals[2], vals[3])
}

// Temperature reads the chip temperature in the selected unit.
func (d *Device) Temperature() (codec.Temperature, error) {
	logrus.Tracef("Temperature called")

	units, err := d.s.ReadRegister(RegUnitSelect)
	if err != nil {
		return codec.Temperature{}, pkgerrors.Wrap(err, "failed to read unit selection")
	}

	v, err := d.s.ReadRegister(RegTemperature)
	if err != nil {
		return codec.Temperature{}, pkgerrors.Wrap(err, "failed to read temperature")
	}

	return codec.DecodeTemperature(v, codec.UnitSelection(units)), nil
}

// UnitSelection reads register 0x3B, needed to scale measurement samples.
func (d *Device) UnitSelection() (codec.UnitSelection, error) {
	logrus.Tracef("UnitSelection called")

	v, err := d.s.ReadRegister(RegUnitSelect)
	if err != nil {
		return 0, pkgerrors.Wrap(err, "failed to read unit selection")
	}

	return codec.UnitSelection(v), nil
}
