package codec

import "fmt"

// Identity values reported by a genuine BNO055.
const (
	ChipID  uint8 = 0xA0
	AccelID uint8 = 0xFB
	MagID   uint8 = 0x32
	GyroID  uint8 = 0x0F
)

// IdentitySize is the length of the id block at registers 0x00-0x06.
const IdentitySize = 7

// Identity is the id block of the sensor and its sub-components.
type Identity struct {
	ChipID        uint8 `json:"chipId"`
	AccelID       uint8 `json:"accelId"`
	MagID         uint8 `json:"magId"`
	GyroID        uint8 `json:"gyroId"`
	SWRevLSB      uint8 `json:"swRevLsb"`
	SWRevMSB      uint8 `json:"swRevMsb"`
	BootloaderRev uint8 `json:"bootloaderRev"`
}

// DecodeIdentity decodes registers 0x00-0x06.
func DecodeIdentity(b []byte) (Identity, error) {
	if err := checkLen(b, IdentitySize, "identity"); err != nil {
		return Identity{}, err
	}

	return Identity{
		ChipID:        b[0],
		AccelID:       b[1],
		MagID:         b[2],
		GyroID:        b[3],
		SWRevLSB:      b[4],
		SWRevMSB:      b[5],
		BootloaderRev: b[6],
	}, nil
}

// FirmwareVersion returns the software revision as "major.minor", e.g. "3.08".
func (i Identity) FirmwareVersion() string {
	return fmt.Sprintf("%x.%02x", i.SWRevMSB, i.SWRevLSB)
}

// IsBNO055 reports whether the chip id matches the expected model.
func (i Identity) IsBNO055() bool {
	return i.ChipID == ChipID
}
