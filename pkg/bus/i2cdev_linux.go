//go:build linux

package bus

import (
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// i2cSlave is the I2C_SLAVE ioctl request of linux/i2c-dev.h.
const i2cSlave = 0x0703

// i2cDev is a Linux i2c-dev character device bound to one address. Every
// read and write is a separate bus transaction.
type i2cDev struct {
	fd   int
	path string
}

func init() {
	Register("i2cdev", openI2CDev)
}

func openI2CDev(path string, addr uint16) (Transport, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, pkgerrors.Wrapf(ErrBusUnavailable, "failed to open %s: %v", path, err)
	}

	if err := unix.Flock(fd, unix.LOCK_EX|unix.LOCK_NB); err != nil {
		_ = unix.Close(fd)
		return nil, pkgerrors.Wrapf(ErrBusUnavailable, "%s is held by another process: %v", path, err)
	}

	if err := unix.IoctlSetInt(fd, i2cSlave, int(addr)); err != nil {
		_ = unix.Close(fd)
		return nil, pkgerrors.Wrapf(ErrAddressRejected, "failed to bind 0x%02X on %s: %v", addr, path, err)
	}

	logrus.Debugf("opened %s for address 0x%02X", path, addr)

	return &i2cDev{fd: fd, path: path}, nil
}

func (d *i2cDev) Read(p []byte) (int, error) {
	n, err := unix.Read(d.fd, p)
	if n < 0 {
		n = 0
	}
	return n, err
}

func (d *i2cDev) Write(p []byte) (int, error) {
	n, err := unix.Write(d.fd, p)
	if n < 0 {
		n = 0
	}
	return n, err
}

func (d *i2cDev) Close() error {
	if err := unix.Close(d.fd); err != nil {
		return pkgerrors.Wrapf(err, "failed to close %s", d.path)
	}
	return nil
}
