package codec

import (
	"encoding/binary"

	pkgerrors "github.com/pkg/errors"
)

// Sizes of the calibration register blocks and of a persisted profile.
const (
	OffsetsSize  = 18 // registers 0x55-0x66
	RadiiSize    = 4  // registers 0x67-0x6A
	RegisterSize = OffsetsSize + RadiiSize
	ProfileSize  = 1 + RegisterSize
)

// CalibrationStatus holds the four 2-bit calibration counters of register 0x35.
// 3 means fully calibrated.
type CalibrationStatus struct {
	System uint8 `json:"system"`
	Gyro   uint8 `json:"gyro"`
	Accel  uint8 `json:"accel"`
	Mag    uint8 `json:"mag"`
}

// DecodeCalibrationStatus unpacks register 0x35.
func DecodeCalibrationStatus(b byte) CalibrationStatus {
	return CalibrationStatus{
		System: (b >> 6) & 0x03,
		Gyro:   (b >> 4) & 0x03,
		Accel:  (b >> 2) & 0x03,
		Mag:    b & 0x03,
	}
}

// Encode packs the counters back into the register layout.
func (s CalibrationStatus) Encode() byte {
	return (s.System&0x03)<<6 | (s.Gyro&0x03)<<4 | (s.Accel&0x03)<<2 | s.Mag&0x03
}

// FullyCalibrated reports whether every counter reached 3.
func (s CalibrationStatus) FullyCalibrated() bool {
	return s.System == 3 && s.Gyro == 3 && s.Accel == 3 && s.Mag == 3
}

// CalibrationOffsets are the sensor offsets of registers 0x55-0x66.
// Their range depends on the configured sensor range.
type CalibrationOffsets struct {
	AccelX int16 `json:"accelX"`
	AccelY int16 `json:"accelY"`
	AccelZ int16 `json:"accelZ"`
	MagX   int16 `json:"magX"`
	MagY   int16 `json:"magY"`
	MagZ   int16 `json:"magZ"`
	GyroX  int16 `json:"gyroX"`
	GyroY  int16 `json:"gyroY"`
	GyroZ  int16 `json:"gyroZ"`
}

// CalibrationRadii are the accelerometer and magnetometer radii of registers 0x67-0x6A.
type CalibrationRadii struct {
	Accel int16 `json:"accel"`
	Mag   int16 `json:"mag"`
}

// CalibrationProfile is everything needed to restore a calibration without
// repeating the calibration motions. It is only valid for the device model and
// firmware it was captured from.
type CalibrationProfile struct {
	Status  CalibrationStatus  `json:"status"`
	Offsets CalibrationOffsets `json:"offsets"`
	Radii   CalibrationRadii   `json:"radii"`
}

// DecodeOffset reconstructs a signed little-endian 16-bit value.
func DecodeOffset(low, high byte) int16 {
	return int16(uint16(low) | uint16(high)<<8)
}

func (o CalibrationOffsets) values() []int16 {
	return []int16{o.AccelX, o.AccelY, o.AccelZ, o.MagX, o.MagY, o.MagZ, o.GyroX, o.GyroY, o.GyroZ}
}

// DecodeCalibrationOffsets decodes the 18-byte offset block.
func DecodeCalibrationOffsets(b []byte) (CalibrationOffsets, error) {
	if err := checkLen(b, OffsetsSize, "calibration offsets"); err != nil {
		return CalibrationOffsets{}, err
	}

	v := make([]int16, 9)
	for i := range v {
		v[i] = DecodeOffset(b[2*i], b[2*i+1])
	}

	return CalibrationOffsets{
		AccelX: v[0], AccelY: v[1], AccelZ: v[2],
		MagX: v[3], MagY: v[4], MagZ: v[5],
		GyroX: v[6], GyroY: v[7], GyroZ: v[8],
	}, nil
}

// EncodeCalibrationOffsets encodes the offsets into the 18-byte register layout.
func EncodeCalibrationOffsets(o CalibrationOffsets) []byte {
	b := make([]byte, OffsetsSize)
	for i, v := range o.values() {
		binary.LittleEndian.PutUint16(b[2*i:], uint16(v))
	}
	return b
}

// DecodeCalibrationRadii decodes the 4-byte radius block.
func DecodeCalibrationRadii(b []byte) (CalibrationRadii, error) {
	if err := checkLen(b, RadiiSize, "calibration radii"); err != nil {
		return CalibrationRadii{}, err
	}

	return CalibrationRadii{
		Accel: DecodeOffset(b[0], b[1]),
		Mag:   DecodeOffset(b[2], b[3]),
	}, nil
}

// EncodeCalibrationRadii encodes the radii into the 4-byte register layout.
func EncodeCalibrationRadii(r CalibrationRadii) []byte {
	b := make([]byte, RadiiSize)
	binary.LittleEndian.PutUint16(b[0:], uint16(r.Accel))
	binary.LittleEndian.PutUint16(b[2:], uint16(r.Mag))
	return b
}

// EncodeCalibrationRegisters returns the 22-byte image written to registers 0x55-0x6A.
// The status byte is read-only on the device and is not part of it.
func EncodeCalibrationRegisters(p CalibrationProfile) []byte {
	b := make([]byte, 0, RegisterSize)
	b = append(b, EncodeCalibrationOffsets(p.Offsets)...)
	return append(b, EncodeCalibrationRadii(p.Radii)...)
}

// DecodeCalibrationRegisters decodes the 22-byte image of registers 0x55-0x6A.
func DecodeCalibrationRegisters(b []byte) (CalibrationOffsets, CalibrationRadii, error) {
	if err := checkLen(b, RegisterSize, "calibration registers"); err != nil {
		return CalibrationOffsets{}, CalibrationRadii{}, err
	}

	offsets, err := DecodeCalibrationOffsets(b[:OffsetsSize])
	if err != nil {
		return CalibrationOffsets{}, CalibrationRadii{}, err
	}
	radii, err := DecodeCalibrationRadii(b[OffsetsSize:RegisterSize])
	if err != nil {
		return CalibrationOffsets{}, CalibrationRadii{}, err
	}

	return offsets, radii, nil
}

// MarshalBinary encodes the profile as the packed status byte followed by the
// offsets and radii, all little-endian.
func (p CalibrationProfile) MarshalBinary() ([]byte, error) {
	b := make([]byte, 0, ProfileSize)
	b = append(b, p.Status.Encode())
	return append(b, EncodeCalibrationRegisters(p)...), nil
}

// UnmarshalBinary decodes a profile produced by MarshalBinary.
func (p *CalibrationProfile) UnmarshalBinary(b []byte) error {
	if err := checkLen(b, ProfileSize, "calibration profile"); err != nil {
		return err
	}
	if len(b) > ProfileSize {
		return pkgerrors.Wrapf(ErrOutOfRange, "calibration profile: %d trailing bytes", len(b)-ProfileSize)
	}

	offsets, radii, err := DecodeCalibrationRegisters(b[1:])
	if err != nil {
		return err
	}

	*p = CalibrationProfile{
		Status:  DecodeCalibrationStatus(b[0]),
		Offsets: offsets,
		Radii:   radii,
	}
	return nil
}
