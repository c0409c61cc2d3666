package bus

import (
	"io"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tarm/serial"
)

// BNO055 UART protocol (PS1 high, PS0 low), 115200 8N1.
const (
	uartBaud = 115200

	uartStart    = 0xAA
	uartCmdWrite = 0x00
	uartCmdRead  = 0x01
	uartRespAck  = 0xEE
	uartRespData = 0xBB

	uartMaxLength = 128

	uartWriteSuccess = 0x01
	uartBusOverRun   = 0x07

	// overruns are reported when the device is busy, the command can be resent
	uartOverRunRetries = 3
)

var uartStatusNames = map[byte]string{
	0x01: "write success",
	0x02: "read fail",
	0x03: "write fail",
	0x04: "invalid register address",
	0x05: "register write disabled",
	0x06: "wrong start byte",
	0x07: "bus over run",
	0x08: "max length exceeded",
	0x09: "min length not reached",
	0x0A: "receive character timeout",
}

func uartStatusError(status byte) error {
	name, ok := uartStatusNames[status]
	if !ok {
		name = "unknown"
	}
	return pkgerrors.Errorf("device answered status 0x%02X (%s)", status, name)
}

// uartDev speaks the register protocol of the BNO055 UART interface. A
// one-byte Write only selects the register, the following Read becomes a read
// command for len(p) bytes from it. Longer writes are sent as write commands.
type uartDev struct {
	port io.ReadWriteCloser
	reg  uint8
}

func init() {
	Register("uart", openUART)
}

func openUART(name string, addr uint16) (Transport, error) {
	port, err := serial.OpenPort(&serial.Config{
		Name:        name,
		Baud:        uartBaud,
		ReadTimeout: time.Second,
	})
	if err != nil {
		return nil, pkgerrors.Wrapf(ErrBusUnavailable, "failed to open serial port %s: %v", name, err)
	}

	// the UART interface has no device address
	logrus.Debugf("opened serial port %s, ignoring address 0x%02X", name, addr)

	return newUARTDev(port), nil
}

func newUARTDev(port io.ReadWriteCloser) *uartDev {
	return &uartDev{port: port}
}

func (u *uartDev) Write(p []byte) (int, error) {
	switch {
	case len(p) == 0:
		return 0, nil
	case len(p) == 1:
		u.reg = p[0]
		return 1, nil
	case len(p)-1 > uartMaxLength:
		return 0, pkgerrors.Errorf("write of %d bytes exceeds %d", len(p)-1, uartMaxLength)
	}

	cmd := make([]byte, 0, 4+len(p)-1)
	cmd = append(cmd, uartStart, uartCmdWrite, p[0], byte(len(p)-1))
	cmd = append(cmd, p[1:]...)

	for attempt := 0; ; attempt++ {
		if _, err := u.port.Write(cmd); err != nil {
			return 0, err
		}

		var resp [2]byte
		if _, err := io.ReadFull(u.port, resp[:]); err != nil {
			return 0, pkgerrors.Wrap(err, "no write acknowledgement")
		}
		if resp[0] != uartRespAck {
			return 0, pkgerrors.Errorf("unexpected response header 0x%02X", resp[0])
		}

		switch {
		case resp[1] == uartWriteSuccess:
			u.reg = p[0]
			return len(p), nil
		case resp[1] == uartBusOverRun && attempt < uartOverRunRetries:
			logrus.Tracef("bus over run writing 0x%02X, retrying", p[0])
			continue
		default:
			return 0, uartStatusError(resp[1])
		}
	}
}

func (u *uartDev) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if len(p) > uartMaxLength {
		return 0, pkgerrors.Errorf("read of %d bytes exceeds %d", len(p), uartMaxLength)
	}

	cmd := []byte{uartStart, uartCmdRead, u.reg, byte(len(p))}

	for attempt := 0; ; attempt++ {
		if _, err := u.port.Write(cmd); err != nil {
			return 0, err
		}

		var resp [2]byte
		if _, err := io.ReadFull(u.port, resp[:]); err != nil {
			return 0, pkgerrors.Wrap(err, "no read response")
		}

		switch resp[0] {
		case uartRespData:
			n := int(resp[1])
			if n > len(p) {
				return 0, pkgerrors.Errorf("device sent %d bytes, asked for %d", n, len(p))
			}
			read, err := io.ReadFull(u.port, p[:n])
			return read, err
		case uartRespAck:
			if resp[1] == uartBusOverRun && attempt < uartOverRunRetries {
				logrus.Tracef("bus over run reading 0x%02X, retrying", u.reg)
				continue
			}
			return 0, uartStatusError(resp[1])
		default:
			return 0, pkgerrors.Errorf("unexpected response header 0x%02X", resp[0])
		}
	}
}

func (u *uartDev) Close() error {
	return u.port.Close()
}
