package calibration

import (
	"os"
	"path/filepath"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/sensorkit/bno055/pkg/codec"
)

// Store persists one calibration profile.
type Store interface {
	// Save persists the profile, replacing any previous one.
	Save(p codec.CalibrationProfile) error
	// Load returns the persisted profile.
	Load() (codec.CalibrationProfile, error)
}

var _ Store = &File{}

// File stores a profile in a single binary file.
type File struct {
	path string
}

func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the file the profile is stored in.
func (f *File) Path() string {
	return f.path
}

// Save writes the profile to a temporary file next to the target, syncs it and
// renames it over the target. A failed save leaves the previous file intact.
func (f *File) Save(p codec.CalibrationProfile) error {
	b, err := p.MarshalBinary()
	if err != nil {
		return pkgerrors.Wrap(err, "failed to encode calibration profile")
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), "."+filepath.Base(f.path)+".*")
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to create temporary file for %s", f.path)
	}
	tmpPath := tmp.Name()
	defer func() {
		// no-op after a successful rename
		if err := os.Remove(tmpPath); err != nil && !os.IsNotExist(err) {
			logrus.Warnf("failed to remove temporary file %s: %v", tmpPath, err)
		}
	}()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return pkgerrors.Wrapf(err, "failed to write %s", tmpPath)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return pkgerrors.Wrapf(err, "failed to sync %s", tmpPath)
	}
	if err := tmp.Close(); err != nil {
		return pkgerrors.Wrapf(err, "failed to close %s", tmpPath)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return pkgerrors.Wrapf(err, "failed to chmod %s", tmpPath)
	}

	if err := os.Rename(tmpPath, f.path); err != nil {
		return pkgerrors.Wrapf(err, "failed to rename %s to %s", tmpPath, f.path)
	}

	logrus.WithFields(logrus.Fields{
		"path":   f.path,
		"status": p.Status,
	}).Debug("calibration profile saved")

	return nil
}

// Load reads and decodes the profile. A file of the wrong length is rejected
// with codec.ErrShortBuffer or codec.ErrOutOfRange.
func (f *File) Load() (codec.CalibrationProfile, error) {
	b, err := os.ReadFile(f.path)
	if err != nil {
		return codec.CalibrationProfile{}, pkgerrors.Wrapf(err, "failed to read calibration profile %s", f.path)
	}

	var p codec.CalibrationProfile
	if err := p.UnmarshalBinary(b); err != nil {
		return codec.CalibrationProfile{}, pkgerrors.Wrapf(err, "invalid calibration profile %s", f.path)
	}

	return p, nil
}
