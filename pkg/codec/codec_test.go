package codec

import (
	"errors"
	"math"
	"testing"
)

func TestDecodeIdentity(t *testing.T) {
	got, err := DecodeIdentity([]byte{0xA0, 0xFB, 0x32, 0x0F, 0x11, 0x03, 0x15})
	if err != nil {
		t.Fatalf("DecodeIdentity() err = %v", err)
	}
	if !got.IsBNO055() {
		t.Errorf("IsBNO055() = false, want true")
	}
	if got.AccelID != AccelID || got.MagID != MagID || got.GyroID != GyroID {
		t.Errorf("DecodeIdentity() = %+v", got)
	}
	if v := got.FirmwareVersion(); v != "3.11" {
		t.Errorf("FirmwareVersion() = %q, want %q", v, "3.11")
	}
	if got.BootloaderRev != 0x15 {
		t.Errorf("BootloaderRev = 0x%02X, want 0x15", got.BootloaderRev)
	}
}

func TestMode(t *testing.T) {
	tests := []struct {
		raw    byte
		want   Mode
		fusion bool
	}{
		{0x00, ModeConfig, false},
		{0x01, ModeAccOnly, false},
		{0x07, ModeAMG, false},
		{0x08, ModeIMU, true},
		{0x09, ModeCompass, true},
		{0x0A, ModeM4G, true},
		{0x0B, ModeNDOFFMCOff, true},
		{0x0C, ModeNDOF, true},
		{0xFC, ModeNDOF, true}, // high nibble ignored
	}
	for _, tt := range tests {
		got, err := DecodeMode(tt.raw)
		if err != nil {
			t.Fatalf("DecodeMode(0x%02X) err = %v", tt.raw, err)
		}
		if got != tt.want || got.IsFusion() != tt.fusion {
			t.Errorf("DecodeMode(0x%02X) = %v (fusion %t), want %v (fusion %t)", tt.raw, got, got.IsFusion(), tt.want, tt.fusion)
		}
	}

	for _, raw := range []byte{0x0D, 0x0E, 0x0F} {
		if _, err := DecodeMode(raw); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("DecodeMode(0x%02X) err = %v, want ErrOutOfRange", raw, err)
		}
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range AllModes {
		got, err := ParseMode(m.String())
		if err != nil || got != m {
			t.Errorf("ParseMode(%q) = %v, %v", m.String(), got, err)
		}
	}
	if got, err := ParseMode(" NDOF "); err != nil || got != ModeNDOF {
		t.Errorf("ParseMode(NDOF) = %v, %v", got, err)
	}
	if _, err := ParseMode("warp"); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("ParseMode(warp) err = %v, want ErrOutOfRange", err)
	}
}

func TestDecodeSample(t *testing.T) {
	// mag: x=160 (10 µT), y=-16 (-1 µT), z=8 (0.5 µT)
	s, err := DecodeSample(KindMag, []byte{0xA0, 0x00, 0xF0, 0xFF, 0x08, 0x00})
	if err != nil {
		t.Fatalf("DecodeSample() err = %v", err)
	}
	if len(s.Values) != 3 || s.Values[0] != 160 || s.Values[1] != -16 || s.Values[2] != 8 {
		t.Fatalf("DecodeSample() = %+v", s)
	}

	got, unit := s.Physical(0)
	want := []float64{10, -1, 0.5}
	if unit != "µT" {
		t.Errorf("unit = %q, want µT", unit)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Physical()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	// raw values are kept unscaled
	if s.Values[0] != 160 {
		t.Errorf("Physical() modified raw values")
	}
}

func TestSamplePhysicalUnits(t *testing.T) {
	tests := []struct {
		name  string
		kind  Kind
		raw   int16
		units UnitSelection
		want  float64
		unit  string
	}{
		{"accel m/s2", KindAccel, 981, 0x00, 9.81, "m/s²"},
		{"accel mg", KindAccel, 1000, 0x01, 1000, "mg"},
		{"gyro dps", KindGyro, 32, 0x00, 2, "dps"},
		{"gyro rps", KindGyro, 900, 0x02, 1, "rps"},
		{"euler deg", KindEuler, 16 * 90, 0x00, 90, "deg"},
		{"euler rad", KindEuler, 900, 0x04, 1, "rad"},
		{"gravity", KindGravity, 100, 0x00, 1, "m/s²"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Sample{Kind: tt.kind, Values: []int16{tt.raw, 0, 0}}
			got, unit := s.Physical(tt.units)
			if math.Abs(got[0]-tt.want) > 1e-9 || unit != tt.unit {
				t.Errorf("Physical() = %v %q, want %v %q", got[0], unit, tt.want, tt.unit)
			}
		})
	}
}

func TestDecodeQuaternion(t *testing.T) {
	s, err := DecodeSample(KindQuaternion, []byte{0x00, 0x40, 0x00, 0x00, 0x00, 0xC0, 0x00, 0x20})
	if err != nil {
		t.Fatalf("DecodeSample() err = %v", err)
	}
	got, _ := s.Physical(0)
	want := []float64{1, 0, -1, 0.5}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("quaternion[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if labels := KindQuaternion.Labels(); len(labels) != 4 {
		t.Errorf("Labels() = %v", labels)
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range AllKinds {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := ParseKind("baro"); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("ParseKind(baro) err = %v, want ErrOutOfRange", err)
	}
	if _, err := DecodeSample(Kind(42), make([]byte, 8)); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("DecodeSample(42) err = %v, want ErrOutOfRange", err)
	}
}

func TestDecodeSystemStatus(t *testing.T) {
	got, err := DecodeSystemStatus(0x05, 0xFF, 0x00, 0x80)
	if err != nil {
		t.Fatalf("DecodeSystemStatus() err = %v", err)
	}
	if got.Status != StatusFusionRunning || got.Error != 0 {
		t.Errorf("DecodeSystemStatus() = %+v", got)
	}
	if got.SelfTest != 0x0F || !got.SelfTest.Passed() {
		t.Errorf("SelfTest = 0x%02X, want 0x0F", uint8(got.SelfTest))
	}
	if !got.Units.AndroidOrientation() || got.Units.AccelMilliG() {
		t.Errorf("Units = 0x%02X", uint8(got.Units))
	}

	st := SelfTest(0x05)
	if !st.Accel() || st.Mag() || !st.Gyro() || st.MCU() || st.Passed() {
		t.Errorf("SelfTest(0x05) flags wrong")
	}

	if _, err := DecodeSystemStatus(7, 0, 0, 0); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("status 7 err = %v, want ErrOutOfRange", err)
	}
	if _, err := DecodeSystemStatus(0, 0, 11, 0); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("error 11 err = %v, want ErrOutOfRange", err)
	}
	if s := ErrorCode(10).String(); s != "sensor configuration error" {
		t.Errorf("ErrorCode(10).String() = %q", s)
	}
}

func TestDecodeTemperature(t *testing.T) {
	if got := DecodeTemperature(0x19, 0); got.Value != 25 || got.Fahrenheit {
		t.Errorf("DecodeTemperature(25C) = %+v", got)
	}
	if got := DecodeTemperature(0xFB, 0); got.Value != -5 {
		t.Errorf("DecodeTemperature(-5C) = %+v", got)
	}
	if got := DecodeTemperature(0x28, 0x10); got.Value != 80 || !got.Fahrenheit {
		t.Errorf("DecodeTemperature(F) = %+v", got)
	}
}
