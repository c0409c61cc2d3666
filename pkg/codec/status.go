package codec

import (
	pkgerrors "github.com/pkg/errors"
)

// StatusCode is the system status of register 0x39.
type StatusCode uint8

// System status codes.
const (
	StatusIdle StatusCode = iota
	StatusSystemError
	StatusPeripheralInit
	StatusSystemInit
	StatusSelfTest
	StatusFusionRunning
	StatusRunningNoFusion
)

var statusNames = []string{
	"idle",
	"system error",
	"initializing peripherals",
	"system initialization",
	"executing self-test",
	"sensor fusion running",
	"running without fusion",
}

func (c StatusCode) String() string {
	if int(c) < len(statusNames) {
		return statusNames[c]
	}
	return "unknown"
}

// ErrorCode is the system error of register 0x3A. Zero means no error.
type ErrorCode uint8

var errorNames = []string{
	"no error",
	"peripheral initialization error",
	"system initialization error",
	"self-test failed",
	"register map value out of range",
	"register map address out of range",
	"register map write error",
	"low power mode not available for selected operation mode",
	"accelerometer power mode not available",
	"fusion algorithm configuration error",
	"sensor configuration error",
}

func (c ErrorCode) String() string {
	if int(c) < len(errorNames) {
		return errorNames[c]
	}
	return "unknown"
}

// SelfTest is the result of register 0x36. A set bit means the test passed.
type SelfTest uint8

func (s SelfTest) Accel() bool { return s&0x01 != 0 }
func (s SelfTest) Mag() bool   { return s&0x02 != 0 }
func (s SelfTest) Gyro() bool  { return s&0x04 != 0 }
func (s SelfTest) MCU() bool   { return s&0x08 != 0 }

// Passed reports whether all four self tests passed.
func (s SelfTest) Passed() bool { return s&0x0F == 0x0F }

// UnitSelection is register 0x3B. It governs how measurement values are scaled.
type UnitSelection uint8

func (u UnitSelection) AccelMilliG() bool    { return u&0x01 != 0 }
func (u UnitSelection) GyroRPS() bool        { return u&0x02 != 0 }
func (u UnitSelection) EulerRadians() bool   { return u&0x04 != 0 }
func (u UnitSelection) TempFahrenheit() bool { return u&0x10 != 0 }

// AndroidOrientation reports the Android pitch convention (bit 7); Windows otherwise.
func (u UnitSelection) AndroidOrientation() bool { return u&0x80 != 0 }

// SystemStatus is the device self-diagnostic snapshot.
type SystemStatus struct {
	Status   StatusCode    `json:"status"`
	SelfTest SelfTest      `json:"selfTest"`
	Error    ErrorCode     `json:"error"`
	Units    UnitSelection `json:"units"`
}

// DecodeSystemStatus decodes registers 0x39, 0x36, 0x3A and 0x3B.
func DecodeSystemStatus(status, selfTest, sysErr, units byte) (SystemStatus, error) {
	if status > byte(StatusRunningNoFusion) {
		return SystemStatus{}, pkgerrors.Wrapf(ErrOutOfRange, "system status %d", status)
	}
	if int(sysErr) >= len(errorNames) {
		return SystemStatus{}, pkgerrors.Wrapf(ErrOutOfRange, "system error %d", sysErr)
	}

	return SystemStatus{
		Status:   StatusCode(status),
		SelfTest: SelfTest(selfTest & 0x0F),
		Error:    ErrorCode(sysErr),
		Units:    UnitSelection(units),
	}, nil
}

// Temperature is the chip temperature in the unit selected by register 0x3B.
type Temperature struct {
	Value      float64 `json:"value"`
	Fahrenheit bool    `json:"fahrenheit"`
}

// DecodeTemperature decodes register 0x34. The register is signed; one LSB is
// one degree Celsius or two degrees Fahrenheit.
func DecodeTemperature(b byte, u UnitSelection) Temperature {
	if u.TempFahrenheit() {
		return Temperature{Value: float64(int8(b)) * 2, Fahrenheit: true}
	}
	return Temperature{Value: float64(int8(b))}
}
