package bus

import (
	"strings"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

var hostInit = sync.OnceValue(func() error {
	_, err := host.Init()
	return err
})

// periphDev adapts a periph.io I²C bus to Transport. A Write is a write-only
// transaction and a Read a read-only one, which is how the device expects a
// register select followed by a block read.
type periphDev struct {
	dev    *i2c.Dev
	closer func() error
}

func init() {
	Register("periph", openPeriph)
}

func openPeriph(name string, addr uint16) (Transport, error) {
	if err := hostInit(); err != nil {
		return nil, pkgerrors.Wrapf(ErrBusUnavailable, "periph host init: %v", err)
	}

	// i2creg knows buses by number, "/dev/i2c-1" is registered as "1".
	name = strings.TrimPrefix(name, "/dev/i2c-")

	b, err := i2creg.Open(name)
	if err != nil {
		return nil, pkgerrors.Wrapf(ErrBusUnavailable, "failed to open I²C bus %q: %v", name, err)
	}

	logrus.Debugf("opened periph bus %s for address 0x%02X", b, addr)

	return newPeriphDev(b, addr, b.Close), nil
}

func newPeriphDev(b i2c.Bus, addr uint16, closer func() error) *periphDev {
	return &periphDev{
		dev:    &i2c.Dev{Bus: b, Addr: addr},
		closer: closer,
	}
}

func (d *periphDev) Read(p []byte) (int, error) {
	if err := d.dev.Tx(nil, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (d *periphDev) Write(p []byte) (int, error) {
	if err := d.dev.Tx(p, nil); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (d *periphDev) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer()
}
