package codec

import (
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// Mode is the operational mode held in register 0x3D.
type Mode uint8

// Operational modes. IMU and above run the fusion algorithm.
const (
	ModeConfig     Mode = 0x00
	ModeAccOnly    Mode = 0x01
	ModeMagOnly    Mode = 0x02
	ModeGyroOnly   Mode = 0x03
	ModeAccMag     Mode = 0x04
	ModeAccGyro    Mode = 0x05
	ModeMagGyro    Mode = 0x06
	ModeAMG        Mode = 0x07
	ModeIMU        Mode = 0x08
	ModeCompass    Mode = 0x09
	ModeM4G        Mode = 0x0A
	ModeNDOFFMCOff Mode = 0x0B // NDOF with fast magnetometer calibration turned off
	ModeNDOF       Mode = 0x0C
)

var modeNames = map[Mode]string{
	ModeConfig:     "config",
	ModeAccOnly:    "acconly",
	ModeMagOnly:    "magonly",
	ModeGyroOnly:   "gyronly",
	ModeAccMag:     "accmag",
	ModeAccGyro:    "accgyro",
	ModeMagGyro:    "maggyro",
	ModeAMG:        "amg",
	ModeIMU:        "imu",
	ModeCompass:    "compass",
	ModeM4G:        "m4g",
	ModeNDOFFMCOff: "ndof_fmc_off",
	ModeNDOF:       "ndof",
}

// AllModes lists every defined mode in register order.
var AllModes = []Mode{
	ModeConfig, ModeAccOnly, ModeMagOnly, ModeGyroOnly, ModeAccMag, ModeAccGyro, ModeMagGyro,
	ModeAMG, ModeIMU, ModeCompass, ModeM4G, ModeNDOFFMCOff, ModeNDOF,
}

// Valid reports whether m is a defined mode.
func (m Mode) Valid() bool {
	_, ok := modeNames[m]
	return ok
}

// IsFusion reports whether the mode produces orientation output:
// IMU, COMPASS, M4G and both NDOF variants.
func (m Mode) IsFusion() bool {
	switch m {
	case ModeIMU, ModeCompass, ModeM4G, ModeNDOFFMCOff, ModeNDOF:
		return true
	default:
		return false
	}
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

// MarshalText encodes the mode by name.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, pkgerrors.Wrapf(ErrOutOfRange, "mode 0x%02X", uint8(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText decodes a mode name.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMode parses a mode name such as "ndof" (case-insensitive).
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return 0, pkgerrors.Wrapf(ErrOutOfRange, "unknown mode %q", s)
}

// DecodeMode decodes register 0x3D. Only the low 4 bits are significant.
func DecodeMode(b byte) (Mode, error) {
	m := Mode(b & 0x0F)
	if !m.Valid() {
		return 0, pkgerrors.Wrapf(ErrOutOfRange, "mode 0x%02X", uint8(m))
	}
	return m, nil
}
