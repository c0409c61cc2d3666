// Package calibration persists BNO055 calibration profiles so that a device can
// be brought back to a calibrated state after a power cycle without repeating
// the calibration motions.
//
// A profile is stored as 23 bytes: the packed calibration status byte followed
// by the 22-byte register image of 0x55-0x6A (nine offsets and two radii, all
// little-endian int16). The status byte is informational; the device recomputes
// it after a restore.
package calibration
