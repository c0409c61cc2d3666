package calibration

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sensorkit/bno055/pkg/codec"
)

var testProfile = codec.CalibrationProfile{
	Status:  codec.CalibrationStatus{System: 3, Gyro: 3, Accel: 3, Mag: 3},
	Offsets: codec.CalibrationOffsets{AccelX: 10, AccelY: -10, AccelZ: 0, MagX: 100, MagY: -100, MagZ: 5, GyroX: 1, GyroY: -1, GyroZ: 2},
	Radii:   codec.CalibrationRadii{Accel: 1000, Mag: 500},
}

func TestFileSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bno055.cal")
	f := NewFile(path)

	if err := f.Save(testProfile); err != nil {
		t.Fatalf("Save() err = %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{
		0xFF,
		0x0A, 0x00, 0xF6, 0xFF, 0x00, 0x00,
		0x64, 0x00, 0x9C, 0xFF, 0x05, 0x00,
		0x01, 0x00, 0xFF, 0xFF, 0x02, 0x00,
		0xE8, 0x03, 0xF4, 0x01,
	}
	if !bytes.Equal(b, want) {
		t.Errorf("file content = % X\nwant           % X", b, want)
	}

	got, err := f.Load()
	if err != nil {
		t.Fatalf("Load() err = %v", err)
	}
	if got != testProfile {
		t.Errorf("Load() = %+v, want %+v", got, testProfile)
	}
}

func TestFileSaveReplaces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bno055.cal")
	f := NewFile(path)

	if err := f.Save(codec.CalibrationProfile{}); err != nil {
		t.Fatal(err)
	}
	if err := f.Save(testProfile); err != nil {
		t.Fatal(err)
	}

	got, err := f.Load()
	if err != nil || got != testProfile {
		t.Errorf("Load() = %+v, %v", got, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, temporary files left behind", len(entries))
	}
}

func TestFileSaveFailureKeepsPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "bno055.cal")
	if err := NewFile(path).Save(testProfile); err == nil {
		t.Fatal("Save() into a missing directory succeeded")
	}
}

func TestFileLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		wantErr error
	}{
		{name: "empty", content: nil, wantErr: codec.ErrShortBuffer},
		{name: "short", content: make([]byte, codec.ProfileSize-1), wantErr: codec.ErrShortBuffer},
		{name: "long", content: make([]byte, codec.ProfileSize+1), wantErr: codec.ErrOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bno055.cal")
			if err := os.WriteFile(path, tt.content, 0644); err != nil {
				t.Fatal(err)
			}

			_, err := NewFile(path).Load()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Load() err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFileLoadMissing(t *testing.T) {
	_, err := NewFile(filepath.Join(t.TempDir(), "nope")).Load()
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() err = %v, want ErrNotExist", err)
	}
}
