package bus

import (
	"fmt"
	"io"
	"sort"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DefaultTimeout bounds a single read when the config does not set one.
const DefaultTimeout = 100 * time.Millisecond

// Transport is a byte stream to one device address. Read and Write report how
// many bytes were actually transferred.
type Transport interface {
	io.ReadWriteCloser
}

// Config selects and configures the transport of a session.
type Config struct {
	// Driver is "i2cdev" (Linux /dev/i2c-N), "periph", "uart" or any other
	// registered driver.
	Driver string
	// Bus is the bus device, e.g. "/dev/i2c-1", or the serial port for "uart".
	Bus string
	// Addr is the 7-bit device address, 0x28 or 0x29 for a BNO055.
	Addr uint16
	// Timeout bounds every read.
	Timeout time.Duration
}

// Opener acquires a transport bound to addr on the named bus.
type Opener func(bus string, addr uint16) (Transport, error)

var drivers = map[string]Opener{}

// Register makes a transport driver available to Open.
func Register(name string, o Opener) {
	drivers[name] = o
}

// Drivers returns the sorted names of registered drivers.
func Drivers() []string {
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Session is an open connection to one device address. It is not safe for
// concurrent use: every transaction completes before the next one starts.
type Session struct {
	t       Transport
	addr    uint16
	timeout time.Duration
	err     error
	closed  bool
}

// Open acquires the bus described by c and binds the device address.
func Open(c Config) (*Session, error) {
	open, ok := drivers[c.Driver]
	if !ok {
		return nil, pkgerrors.Wrapf(ErrBusUnavailable, "unknown driver %q", c.Driver)
	}
	if c.Addr > 0x7F {
		return nil, pkgerrors.Wrapf(ErrAddressRejected, "address 0x%02X is not a 7-bit address", c.Addr)
	}

	logrus.WithFields(logrus.Fields{
		"driver": c.Driver,
		"bus":    c.Bus,
		"addr":   fmt.Sprintf("0x%02X", c.Addr),
	}).Debug("opening bus session")

	t, err := open(c.Bus, c.Addr)
	if err != nil {
		return nil, err
	}

	return NewSession(t, c.Addr, c.Timeout), nil
}

// NewSession wraps an already bound transport.
func NewSession(t Transport, addr uint16, timeout time.Duration) *Session {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Session{t: t, addr: addr, timeout: timeout}
}

// Addr returns the bound device address.
func (s *Session) Addr() uint16 {
	return s.addr
}

// SelectRegister names the register the next Transfer starts reading from.
func (s *Session) SelectRegister(reg uint8) error {
	return s.write([]byte{reg})
}

// Transfer reads exactly n bytes following a SelectRegister.
func (s *Session) Transfer(n int) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}

	type result struct {
		n   int
		err error
	}

	buf := make([]byte, n)
	done := make(chan result, 1)
	go func() {
		k, err := s.t.Read(buf)
		done <- result{k, err}
	}()

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	select {
	case r := <-done:
		if r.err != nil {
			return nil, pkgerrors.Wrapf(ErrReadFailed, "got %d of %d bytes: %v", r.n, n, r.err)
		}
		if r.n != n {
			return nil, pkgerrors.Wrapf(ErrReadFailed, "got %d of %d bytes", r.n, n)
		}
		return buf, nil
	case <-timer.C:
		// the pending read still owns the transport
		s.err = pkgerrors.Wrapf(ErrTimeout, "no answer from 0x%02X within %s", s.addr, s.timeout)
		return nil, s.err
	}
}

// ReadRegisterBlock reads n consecutive registers starting at reg.
func (s *Session) ReadRegisterBlock(reg uint8, n int) ([]byte, error) {
	if err := s.SelectRegister(reg); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to select register 0x%02X", reg)
	}

	b, err := s.Transfer(n)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to read %d bytes from register 0x%02X", n, reg)
	}

	logrus.WithFields(logrus.Fields{
		"reg": fmt.Sprintf("0x%02X", reg),
		"val": b,
	}).Trace("read from bus succeed")

	return b, nil
}

// ReadRegister reads a single register.
func (s *Session) ReadRegister(reg uint8) (byte, error) {
	b, err := s.ReadRegisterBlock(reg, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// WriteRegister writes data to consecutive registers starting at reg in one transaction.
func (s *Session) WriteRegister(reg uint8, data ...byte) error {
	logrus.WithFields(logrus.Fields{
		"reg": fmt.Sprintf("0x%02X", reg),
		"val": data,
	}).Trace("trying to write to bus")

	w := make([]byte, 0, 1+len(data))
	w = append(w, reg)
	w = append(w, data...)
	if err := s.write(w); err != nil {
		return pkgerrors.Wrapf(err, "failed to write register 0x%02X", reg)
	}

	return nil
}

// Close releases the transport.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.err = ErrClosed
	return s.t.Close()
}

func (s *Session) write(w []byte) error {
	if s.err != nil {
		return s.err
	}

	n, err := s.t.Write(w)
	if err != nil {
		return pkgerrors.Wrapf(ErrWriteFailed, "%v", err)
	}
	if n != len(w) {
		return pkgerrors.Wrapf(ErrWriteFailed, "wrote %d of %d bytes", n, len(w))
	}

	return nil
}
