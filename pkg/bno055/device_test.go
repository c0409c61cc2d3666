package bno055

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/sensorkit/bno055/pkg/bus"
	"github.com/sensorkit/bno055/pkg/codec"
)

// noSleep replaces the settle delays and records them.
func noSleep(t *testing.T) *[]time.Duration {
	t.Helper()
	var slept []time.Duration
	sleep = func(d time.Duration) { slept = append(slept, d) }
	t.Cleanup(func() { sleep = time.Sleep })
	return &slept
}

func newTestDevice(t *testing.T) (*Device, *bus.Mock) {
	t.Helper()
	noSleep(t)
	m := NewSimulator()
	d, err := New(bus.NewSession(m, AddressLow, time.Second))
	if err != nil {
		t.Fatalf("New() err = %v", err)
	}
	m.Ops = nil
	return d, m
}

func TestConnectRetry(t *testing.T) {
	tests := []struct {
		name       string
		badReads   int
		wantErr    error
		wantSleeps int
	}{
		{name: "match", badReads: 0, wantErr: nil, wantSleeps: 0},
		{name: "match on retry", badReads: 1, wantErr: nil, wantSleeps: 1},
		{name: "mismatch twice", badReads: 2, wantErr: ErrUnexpectedDevice, wantSleeps: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slept := noSleep(t)
			m := NewSimulator()
			bad := tt.badReads
			m.OnRead = func(reg uint8, b []byte) {
				if reg == RegChipID && bad > 0 {
					b[0] = 0x00
					bad--
				}
			}

			_, err := New(bus.NewSession(m, AddressLow, time.Second))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("New() err = %v, want %v", err, tt.wantErr)
			}
			if len(*slept) != tt.wantSleeps {
				t.Errorf("slept %d times, want %d", len(*slept), tt.wantSleeps)
			}
			if tt.wantSleeps > 0 && (*slept)[0] != BootDelay {
				t.Errorf("slept %s, want %s", (*slept)[0], BootDelay)
			}
		})
	}
}

func TestConnectBusErrorNotRetried(t *testing.T) {
	slept := noSleep(t)
	s := bus.NewSession(bus.NewMock(nil), AddressLow, time.Second)
	_ = s.Close()

	if _, err := New(s); !errors.Is(err, bus.ErrClosed) {
		t.Fatalf("New() err = %v, want ErrClosed", err)
	}
	if len(*slept) != 0 {
		t.Errorf("bus failure was retried")
	}
}

func TestConnectSim(t *testing.T) {
	noSleep(t)
	d, err := Connect(bus.Config{Driver: "sim", Addr: AddressLow})
	if err != nil {
		t.Fatalf("Connect() err = %v", err)
	}
	defer d.Close()

	id, err := d.Identity()
	if err != nil {
		t.Fatalf("Identity() err = %v", err)
	}
	if id.FirmwareVersion() != "3.11" {
		t.Errorf("FirmwareVersion() = %q", id.FirmwareVersion())
	}
}

func TestSetMode(t *testing.T) {
	d, m := newTestDevice(t)
	slept := noSleep(t)

	if err := d.SetMode(codec.ModeNDOF); err != nil {
		t.Fatalf("SetMode() err = %v", err)
	}
	if got := m.Get(RegOprMode, 1)[0]; got != byte(codec.ModeNDOF) {
		t.Errorf("mode register = 0x%02X", got)
	}
	if len(*slept) != 1 || (*slept)[0] != ModeSwitchDelay {
		t.Errorf("slept %v, want [%s]", *slept, ModeSwitchDelay)
	}

	// fusion to fusion needs no CONFIG step
	m.Ops = nil
	if err := d.SetMode(codec.ModeIMU); err != nil {
		t.Fatalf("SetMode() err = %v", err)
	}
	if len(m.Ops) != 1 {
		t.Errorf("SetMode(IMU) issued %d transactions, want 1", len(m.Ops))
	}

	got, err := d.Mode()
	if err != nil || got != codec.ModeIMU {
		t.Errorf("Mode() = %v, %v", got, err)
	}

	m.Ops = nil
	if err := d.SetMode(codec.Mode(0x0E)); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("SetMode(0x0E) err = %v, want ErrInvalidMode", err)
	}
	if len(m.Ops) != 0 {
		t.Errorf("invalid mode reached the bus")
	}
}

func TestReset(t *testing.T) {
	d, m := newTestDevice(t)
	if err := d.SetMode(codec.ModeNDOF); err != nil {
		t.Fatal(err)
	}
	slept := noSleep(t)

	if err := d.Reset(); err != nil {
		t.Fatalf("Reset() err = %v", err)
	}
	if len(*slept) != 1 || (*slept)[0] != ResetDelay {
		t.Errorf("slept %v, want [%s]", *slept, ResetDelay)
	}
	if got := m.Get(RegOprMode, 1)[0]; got != byte(codec.ModeConfig) {
		t.Errorf("mode after reset = 0x%02X, want CONFIG", got)
	}
}

func TestInit(t *testing.T) {
	d, m := newTestDevice(t)

	if err := d.Init(codec.ModeNDOF); err != nil {
		t.Fatalf("Init() err = %v", err)
	}

	want := []bus.MockOp{
		{Write: true, Reg: RegOprMode, Data: []byte{byte(codec.ModeNDOF)}},
		{Write: true, Reg: RegPowerMode, Data: []byte{PowerModeNormal}},
		{Write: true, Reg: RegPageID, Data: []byte{0}},
	}
	if len(m.Ops) != len(want) {
		t.Fatalf("Init() ops = %+v", m.Ops)
	}
	for i := range want {
		if m.Ops[i].Reg != want[i].Reg || !bytes.Equal(m.Ops[i].Data, want[i].Data) || !m.Ops[i].Write {
			t.Errorf("op %d = %+v, want %+v", i, m.Ops[i], want[i])
		}
	}
}

func TestMeasurementFusionRequired(t *testing.T) {
	d, m := newTestDevice(t)
	m.Set(RegOprMode, byte(codec.ModeAccOnly))

	for _, k := range []codec.Kind{codec.KindEuler, codec.KindQuaternion, codec.KindLinearAccel, codec.KindGravity} {
		m.Ops = nil
		_, err := d.Measurement(k)
		if !errors.Is(err, ErrFusionRequired) {
			t.Errorf("Measurement(%v) err = %v, want ErrFusionRequired", k, err)
		}
		// mode register select + mode read only
		if len(m.Ops) != 2 || m.Ops[0].Reg != RegOprMode {
			t.Errorf("Measurement(%v) ops = %+v, want only the mode check", k, m.Ops)
		}
	}
}

func TestMeasurement(t *testing.T) {
	d, m := newTestDevice(t)

	mag, err := d.Measurement(codec.KindMag)
	if err != nil {
		t.Fatalf("Measurement(mag) err = %v", err)
	}
	v, unit := mag.Physical(0)
	if unit != "µT" || v[0] != 10 || v[1] != -1 || v[2] != 52 {
		t.Errorf("mag = %v %s", v, unit)
	}

	m.Set(RegOprMode, byte(codec.ModeNDOF))
	eul, err := d.Measurement(codec.KindEuler)
	if err != nil {
		t.Fatalf("Measurement(eul) err = %v", err)
	}
	if v, _ := eul.Physical(0); v[0] != 90 {
		t.Errorf("heading = %v, want 90", v[0])
	}

	qua, err := d.Measurement(codec.KindQuaternion)
	if err != nil {
		t.Fatalf("Measurement(qua) err = %v", err)
	}
	if len(qua.Values) != 4 || qua.Values[0] != 1<<14 {
		t.Errorf("quaternion = %v", qua.Values)
	}

	if _, err := d.Measurement(codec.Kind(99)); !errors.Is(err, codec.ErrOutOfRange) {
		t.Errorf("Measurement(99) err = %v, want ErrOutOfRange", err)
	}
}

func TestMeasurementShortRead(t *testing.T) {
	noSleep(t)
	d := &Device{s: bus.NewSession(&truncating{NewSimulator()}, AddressLow, time.Second)}

	if _, err := d.Measurement(codec.KindMag); !errors.Is(err, bus.ErrReadFailed) {
		t.Errorf("Measurement() err = %v, want ErrReadFailed", err)
	}
}

// truncating drops the last byte of every read.
type truncating struct{ *bus.Mock }

func (t *truncating) Read(p []byte) (int, error) {
	n, err := t.Mock.Read(p)
	if n > 0 {
		n--
	}
	return n, err
}

func TestCalibration(t *testing.T) {
	d, m := newTestDevice(t)
	m.Set(RegCalibStatus, 0xFF)
	m.Set(RegAccelOffset,
		0x0A, 0x00, 0xF6, 0xFF, 0x00, 0x00,
		0x64, 0x00, 0x9C, 0xFF, 0x05, 0x00,
		0x01, 0x00, 0xFF, 0xFF, 0x02, 0x00,
		0xE8, 0x03, 0xF4, 0x01,
	)

	st, err := d.CalibrationStatus()
	if err != nil || !st.FullyCalibrated() {
		t.Errorf("CalibrationStatus() = %+v, %v", st, err)
	}

	off, err := d.CalibrationOffsets()
	if err != nil {
		t.Fatalf("CalibrationOffsets() err = %v", err)
	}
	if off.AccelY != -10 || off.MagX != 100 || off.GyroZ != 2 {
		t.Errorf("CalibrationOffsets() = %+v", off)
	}

	radii, err := d.CalibrationRadii()
	if err != nil || radii.Accel != 1000 || radii.Mag != 500 {
		t.Errorf("CalibrationRadii() = %+v, %v", radii, err)
	}

	p, err := d.CalibrationProfile()
	if err != nil {
		t.Fatalf("CalibrationProfile() err = %v", err)
	}
	if p.Offsets != off || p.Radii != radii || p.Status != st {
		t.Errorf("CalibrationProfile() = %+v", p)
	}
}

func TestRestoreCalibration(t *testing.T) {
	d, m := newTestDevice(t)
	m.Set(RegOprMode, byte(codec.ModeNDOF))

	p := codec.CalibrationProfile{
		Status:  codec.CalibrationStatus{System: 3, Gyro: 3, Accel: 3, Mag: 3},
		Offsets: codec.CalibrationOffsets{AccelX: 10, AccelY: -10, MagX: 100, MagY: -100, MagZ: 5, GyroX: 1, GyroY: -1, GyroZ: 2},
		Radii:   codec.CalibrationRadii{Accel: 1000, Mag: 500},
	}

	var modeDuringWrite byte
	m.OnWrite = func(m *bus.Mock, reg uint8, data []byte) {
		if reg == RegAccelOffset {
			modeDuringWrite = m.Get(RegOprMode, 1)[0]
		}
	}

	if err := d.RestoreCalibration(p); err != nil {
		t.Fatalf("RestoreCalibration() err = %v", err)
	}
	if modeDuringWrite != byte(codec.ModeConfig) {
		t.Errorf("offsets written in mode 0x%02X, want CONFIG", modeDuringWrite)
	}
	if got := m.Get(RegOprMode, 1)[0]; got != byte(codec.ModeNDOF) {
		t.Errorf("mode after restore = 0x%02X, want NDOF", got)
	}
	if got := m.Get(RegAccelOffset, codec.RegisterSize); !bytes.Equal(got, codec.EncodeCalibrationRegisters(p)) {
		t.Errorf("calibration registers = % X", got)
	}

	got, err := d.CalibrationProfile()
	if err != nil {
		t.Fatal(err)
	}
	if got.Offsets != p.Offsets || got.Radii != p.Radii {
		t.Errorf("CalibrationProfile() after restore = %+v", got)
	}
}

func TestSystemStatus(t *testing.T) {
	d, m := newTestDevice(t)
	if err := d.SetMode(codec.ModeNDOF); err != nil {
		t.Fatal(err)
	}
	m.Ops = nil

	st, err := d.SystemStatus()
	if err != nil {
		t.Fatalf("SystemStatus() err = %v", err)
	}
	if st.Status != codec.StatusFusionRunning || !st.SelfTest.Passed() || st.Error != 0 || !st.Units.AndroidOrientation() {
		t.Errorf("SystemStatus() = %+v", st)
	}
	// four registers, select + read each
	if len(m.Ops) != 8 {
		t.Errorf("SystemStatus() issued %d transactions, want 8", len(m.Ops))
	}

	m.Set(RegSysError, 0x0B)
	if _, err := d.SystemStatus(); !errors.Is(err, codec.ErrOutOfRange) {
		t.Errorf("SystemStatus() err = %v, want ErrOutOfRange", err)
	}
}

func TestTemperature(t *testing.T) {
	d, m := newTestDevice(t)

	temp, err := d.Temperature()
	if err != nil || temp.Value != 25 || temp.Fahrenheit {
		t.Errorf("Temperature() = %+v, %v", temp, err)
	}

	m.Set(RegUnitSelect, 0x10)
	temp, err = d.Temperature()
	if err != nil || temp.Value != 50 || !temp.Fahrenheit {
		t.Errorf("Temperature(F) = %+v, %v", temp, err)
	}

	u, err := d.UnitSelection()
	if err != nil || !u.TempFahrenheit() {
		t.Errorf("UnitSelection() = 0x%02X, %v", uint8(u), err)
	}
}
