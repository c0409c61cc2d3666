package bno055

import "github.com/sensorkit/bno055/pkg/codec"

// Default I²C addresses, selected by the COM3 pin.
const (
	AddressLow  = 0x28
	AddressHigh = 0x29
)

// Page 0 register map.
const (
	RegChipID         = 0x00 // 0x00-0x06 id block
	RegPageID         = 0x07
	RegAccelData      = 0x08
	RegMagData        = 0x0E
	RegGyroData       = 0x14
	RegEulerData      = 0x1A
	RegQuaternionData = 0x20
	RegLinearAccel    = 0x28
	RegGravity        = 0x2E
	RegTemperature    = 0x34
	RegCalibStatus    = 0x35
	RegSelfTest       = 0x36
	RegSysStatus      = 0x39
	RegSysError       = 0x3A
	RegUnitSelect     = 0x3B
	RegOprMode        = 0x3D
	RegPowerMode      = 0x3E
	RegSysTrigger     = 0x3F
	RegAccelOffset    = 0x55 // 0x55-0x66 offsets
	RegAccelRadius    = 0x67 // 0x67-0x6A radii
)

// Register values.
const (
	PowerModeNormal  = 0x00
	SysTriggerReset  = 0x20
	registerPageZero = 0x00
)

var measurementRegisters = map[codec.Kind]uint8{
	codec.KindAccel:       RegAccelData,
	codec.KindMag:         RegMagData,
	codec.KindGyro:        RegGyroData,
	codec.KindEuler:       RegEulerData,
	codec.KindQuaternion:  RegQuaternionData,
	codec.KindLinearAccel: RegLinearAccel,
	codec.KindGravity:     RegGravity,
}
