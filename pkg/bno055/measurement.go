package bno055

import (
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/sensorkit/bno055/pkg/codec"
)

// Measurement reads one sample. Orientation outputs are only produced in a
// fusion mode; outside of one the device returns stale data, so the mode is
// checked first and ErrFusionRequired returned without reading the sample.
func (d *Device) Measurement(k codec.Kind) (codec.Sample, error) {
	logrus.Tracef("Measurement(%v) called", k)

	reg, ok := measurementRegisters[k]
	if !ok {
		return codec.Sample{}, pkgerrors.Wrapf(codec.ErrOutOfRange, "measurement kind %d", k)
	}

	if k.IsFusion() {
		m, err := d.Mode()
		if err != nil {
			return codec.Sample{}, err
		}
		if !m.IsFusion() {
			return codec.Sample{}, pkgerrors.Wrapf(ErrFusionRequired, "cannot read %v in mode %v", k, m)
		}
	}

	b, err := d.s.ReadRegisterBlock(reg, k.Size())
	if err != nil {
		return codec.Sample{}, pkgerrors.Wrapf(err, "failed to read %v data", k)
	}

	return codec.DecodeSample(k, b)
}
