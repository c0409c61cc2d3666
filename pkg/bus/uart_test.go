package bus

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

// uartPeer answers UART commands from a register Mock. The first overruns
// commands are answered with a bus over run status.
type uartPeer struct {
	regs     *Mock
	out      bytes.Buffer
	cmds     [][]byte
	overruns int
	status   byte
}

func (u *uartPeer) Write(p []byte) (int, error) {
	u.cmds = append(u.cmds, append([]byte(nil), p...))
	if u.overruns > 0 {
		u.overruns--
		u.out.Write([]byte{uartRespAck, uartBusOverRun})
		return len(p), nil
	}
	if u.status != 0 {
		u.out.Write([]byte{uartRespAck, u.status})
		return len(p), nil
	}

	reg, n := p[2], int(p[3])
	switch p[1] {
	case uartCmdWrite:
		_, _ = u.regs.Write(append([]byte{reg}, p[4:4+n]...))
		u.out.Write([]byte{uartRespAck, uartWriteSuccess})
	case uartCmdRead:
		_, _ = u.regs.Write([]byte{reg})
		data := make([]byte, n)
		_, _ = u.regs.Read(data)
		u.out.Write([]byte{uartRespData, byte(n)})
		u.out.Write(data)
	}
	return len(p), nil
}

func (u *uartPeer) Read(p []byte) (int, error) {
	return u.out.Read(p)
}

func (u *uartPeer) Close() error {
	return nil
}

func TestUARTReadWrite(t *testing.T) {
	peer := &uartPeer{regs: NewMock(map[uint8][]byte{0x00: {0xA0, 0xFB, 0x32, 0x0F}})}
	s := NewSession(newUARTDev(peer), 0x28, time.Second)

	got, err := s.ReadRegisterBlock(0x00, 4)
	if err != nil {
		t.Fatalf("ReadRegisterBlock() err = %v", err)
	}
	if !bytes.Equal(got, []byte{0xA0, 0xFB, 0x32, 0x0F}) {
		t.Errorf("ReadRegisterBlock() = % X", got)
	}

	if err := s.WriteRegister(0x3D, 0x0C); err != nil {
		t.Fatalf("WriteRegister() err = %v", err)
	}
	if v := peer.regs.Get(0x3D, 1); v[0] != 0x0C {
		t.Errorf("register 0x3D = 0x%02X, want 0x0C", v[0])
	}

	want := [][]byte{
		{0xAA, 0x01, 0x00, 0x04},
		{0xAA, 0x00, 0x3D, 0x01, 0x0C},
	}
	if len(peer.cmds) != len(want) {
		t.Fatalf("commands = % X, want % X", peer.cmds, want)
	}
	for i := range want {
		if !bytes.Equal(peer.cmds[i], want[i]) {
			t.Errorf("command %d = % X, want % X", i, peer.cmds[i], want[i])
		}
	}
}

func TestUARTBusOverRun(t *testing.T) {
	tests := []struct {
		name     string
		overruns int
		wantErr  bool
	}{
		{name: "recovers", overruns: uartOverRunRetries, wantErr: false},
		{name: "gives up", overruns: uartOverRunRetries + 1, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			peer := &uartPeer{regs: NewMock(map[uint8][]byte{0x35: {0xFF}}), overruns: tt.overruns}
			u := newUARTDev(peer)
			u.reg = 0x35

			buf := make([]byte, 1)
			_, err := u.Read(buf)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Read() err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && buf[0] != 0xFF {
				t.Errorf("Read() = 0x%02X, want 0xFF", buf[0])
			}
		})
	}
}

func TestUARTStatusErrors(t *testing.T) {
	peer := &uartPeer{regs: NewMock(nil), status: 0x05}
	s := NewSession(newUARTDev(peer), 0x28, time.Second)

	if err := s.WriteRegister(0x00, 0x01); !errors.Is(err, ErrWriteFailed) {
		t.Errorf("WriteRegister() to a read-only register err = %v, want ErrWriteFailed", err)
	}

	peer.status = 0x02
	if _, err := s.ReadRegister(0x08); !errors.Is(err, ErrReadFailed) {
		t.Errorf("ReadRegister() with read fail status err = %v, want ErrReadFailed", err)
	}

	// over runs past the retry limit fail like any other status
	peer.status = 0
	peer.overruns = uartOverRunRetries + 1
	if _, err := s.ReadRegister(0x08); !errors.Is(err, ErrReadFailed) {
		t.Errorf("ReadRegister() after %d over runs err = %v, want ErrReadFailed", uartOverRunRetries+1, err)
	}
	if want := 2 + uartOverRunRetries + 1; len(peer.cmds) != want {
		t.Errorf("sent %d commands, want %d", len(peer.cmds), want)
	}
}
