package bno055

import (
	"github.com/sensorkit/bno055/pkg/bus"
	"github.com/sensorkit/bno055/pkg/codec"
)

func init() {
	bus.Register("sim", func(_ string, _ uint16) (bus.Transport, error) {
		return NewSimulator(), nil
	})
}

// NewSimulator returns an in-memory BNO055 register map in CONFIG mode, useful
// to try the tools without hardware. A reset restores the power-on values.
func NewSimulator() *bus.Mock {
	m := bus.NewMock(powerOnRegisters())
	m.OnWrite = func(m *bus.Mock, reg uint8, data []byte) {
		switch {
		case reg == RegSysTrigger && data[0]&SysTriggerReset != 0:
			for r, v := range powerOnRegisters() {
				m.Set(r, v...)
			}
		case reg == RegOprMode:
			status := codec.StatusIdle
			if mode := codec.Mode(data[0] & 0x0F); mode.IsFusion() {
				status = codec.StatusFusionRunning
			} else if mode != codec.ModeConfig {
				status = codec.StatusRunningNoFusion
			}
			m.Set(RegSysStatus, byte(status))
		}
	}
	return m
}

func powerOnRegisters() map[uint8][]byte {
	return map[uint8][]byte{
		RegChipID:         {codec.ChipID, codec.AccelID, codec.MagID, codec.GyroID, 0x11, 0x03, 0x15},
		RegAccelData:      {0x00, 0x00, 0x00, 0x00, 0xD5, 0x03}, // 0, 0, 9.81 m/s²
		RegMagData:        {0xA0, 0x00, 0xF0, 0xFF, 0x40, 0x03}, // 10, -1, 52 µT
		RegGyroData:       {0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
		RegEulerData:      {0xA0, 0x05, 0x00, 0x00, 0x00, 0x00}, // heading 90°
		RegQuaternionData: {0x00, 0x40, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
		RegLinearAccel:    {0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
		RegGravity:        {0x00, 0x00, 0x00, 0x00, 0xD5, 0x03},
		RegTemperature:    {0x19},
		RegCalibStatus:    {0x00},
		RegSelfTest:       {0x0F},
		RegSysStatus:      {0x00},
		RegSysError:       {0x00},
		RegUnitSelect:     {0x80},
		RegOprMode:        {byte(codec.ModeConfig)},
		RegPowerMode:      {PowerModeNormal},
		RegSysTrigger:     {0x00},
		RegAccelOffset:    make([]byte, codec.RegisterSize),
	}
}
