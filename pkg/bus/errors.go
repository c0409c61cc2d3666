package bus

import "errors"

var (
	// ErrBusUnavailable is returned when the bus cannot be acquired, e.g. it does
	// not exist or another process holds it exclusively.
	ErrBusUnavailable = errors.New("bus unavailable")

	// ErrAddressRejected is returned when the transport refuses to bind the device address.
	ErrAddressRejected = errors.New("address rejected")

	// ErrWriteFailed is returned when a write does not complete fully.
	ErrWriteFailed = errors.New("write failed")

	// ErrReadFailed is returned when fewer bytes than requested are read.
	ErrReadFailed = errors.New("read failed")

	// ErrTimeout is returned when the device does not answer within the session timeout.
	ErrTimeout = errors.New("bus timeout")

	// ErrClosed is returned when the session has been closed.
	ErrClosed = errors.New("session closed")
)
