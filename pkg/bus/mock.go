package bus

import (
	"sync"
)

// MockOp is one transaction seen by a Mock.
type MockOp struct {
	Write bool
	Reg   uint8
	Data  []byte
}

// Mock is an in-memory register-addressed device. A one-byte write selects a
// register, a longer write stores data from the selected register on, and a
// read returns data from the selected register on. The register pointer
// auto-increments like on the real device.
type Mock struct {
	mu   sync.Mutex
	regs [256]byte
	ptr  uint8

	// Ops records every transaction.
	Ops []MockOp
	// OnRead may rewrite the bytes returned by a read starting at reg.
	OnRead func(reg uint8, b []byte)
	// OnWrite is called after data was stored starting at reg.
	OnWrite func(m *Mock, reg uint8, data []byte)
}

// NewMock returns a new Mock with prefilled registers.
func NewMock(prefill map[uint8][]byte) *Mock {
	m := &Mock{}
	for reg, value := range prefill {
		copy(m.regs[reg:], value)
	}
	return m
}

// Set stores value starting at reg without recording a transaction.
func (m *Mock) Set(reg uint8, value ...byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy(m.regs[reg:], value)
}

// Get returns n registers starting at reg without recording a transaction.
func (m *Mock) Get(reg uint8, n int) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.regs[int(reg):int(reg)+n]...)
}

func (m *Mock) Read(p []byte) (int, error) {
	m.mu.Lock()
	reg := m.ptr
	n := copy(p, m.regs[reg:])
	m.ptr += uint8(n)
	m.Ops = append(m.Ops, MockOp{Reg: reg, Data: append([]byte(nil), p[:n]...)})
	hook := m.OnRead
	m.mu.Unlock()

	if hook != nil {
		hook(reg, p[:n])
	}
	return n, nil
}

func (m *Mock) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	m.mu.Lock()
	reg := p[0]
	m.ptr = reg
	data := append([]byte(nil), p[1:]...)
	copy(m.regs[reg:], data)
	m.Ops = append(m.Ops, MockOp{Write: true, Reg: reg, Data: data})
	hook := m.OnWrite
	m.mu.Unlock()

	if hook != nil && len(data) > 0 {
		hook(m, reg, data)
	}
	return len(p), nil
}

func (m *Mock) Close() error {
	return nil
}
