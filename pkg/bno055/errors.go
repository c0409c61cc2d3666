package bno055

import "errors"

var (
	// ErrUnexpectedDevice is returned when the chip id does not identify a BNO055.
	ErrUnexpectedDevice = errors.New("unexpected device")

	// ErrFusionRequired is returned when an orientation output is read outside a fusion mode.
	ErrFusionRequired = errors.New("fusion mode required")

	// ErrInvalidMode is returned for an undefined operational mode.
	ErrInvalidMode = errors.New("invalid operational mode")
)
