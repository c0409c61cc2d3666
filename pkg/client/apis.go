package client

import (
	"encoding/json"

	pkgerrors "github.com/pkg/errors"

	"github.com/sensorkit/bno055/pkg/bno055"
	"github.com/sensorkit/bno055/pkg/codec"
	"github.com/sensorkit/bno055/pkg/types"
)

func (c *Client) Identity() (codec.Identity, error) {
	var id codec.Identity
	if err := c.getJSON("/identity", &id); err != nil {
		return codec.Identity{}, pkgerrors.Wrap(err, "failed to get identity")
	}
	return id, nil
}

func (c *Client) Mode() (codec.Mode, error) {
	var m codec.Mode
	if err := c.getJSON("/mode", &m); err != nil {
		return 0, pkgerrors.Wrap(err, "failed to get mode")
	}
	return m, nil
}

func (c *Client) SetMode(m codec.Mode) error {
	if !m.Valid() {
		return pkgerrors.Wrapf(bno055.ErrInvalidMode, "mode 0x%02X", uint8(m))
	}
	payload, err := json.Marshal(m)
	if err != nil {
		return err
	}
	_, err = c.Put("/mode", string(payload))
	return err
}

func (c *Client) Reset() error {
	_, err := c.Post("/reset", "")
	return err
}

func (c *Client) CalibrationStatus() (codec.CalibrationStatus, error) {
	var st codec.CalibrationStatus
	if err := c.getJSON("/calibration/status", &st); err != nil {
		return codec.CalibrationStatus{}, pkgerrors.Wrap(err, "failed to get calibration status")
	}
	return st, nil
}

func (c *Client) CalibrationOffsets() (codec.CalibrationOffsets, error) {
	var off codec.CalibrationOffsets
	if err := c.getJSON("/calibration/offsets", &off); err != nil {
		return codec.CalibrationOffsets{}, pkgerrors.Wrap(err, "failed to get calibration offsets")
	}
	return off, nil
}

func (c *Client) CalibrationProfile() (codec.CalibrationProfile, error) {
	var p codec.CalibrationProfile
	if err := c.getJSON("/calibration/profile", &p); err != nil {
		return codec.CalibrationProfile{}, pkgerrors.Wrap(err, "failed to get calibration profile")
	}
	return p, nil
}

func (c *Client) RestoreCalibration(p codec.CalibrationProfile) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return err
	}
	_, err = c.Put("/calibration/profile", string(payload))
	return err
}

// SaveCalibration asks the daemon to store the current profile in its
// configured calibration file and returns the daemon's message.
func (c *Client) SaveCalibration() (string, error) {
	ret, err := c.Post("/calibration/save", "")
	if err != nil {
		return "", err
	}
	var msg string
	if err := json.Unmarshal([]byte(ret), &msg); err != nil {
		return "", pkgerrors.Wrap(err, "failed to unmarshal response of /calibration/save")
	}
	return msg, nil
}

func (c *Client) SystemStatus() (codec.SystemStatus, error) {
	var st codec.SystemStatus
	if err := c.getJSON("/system-status", &st); err != nil {
		return codec.SystemStatus{}, pkgerrors.Wrap(err, "failed to get system status")
	}
	return st, nil
}

func (c *Client) UnitSelection() (codec.UnitSelection, error) {
	st, err := c.SystemStatus()
	if err != nil {
		return 0, err
	}
	return st.Units, nil
}

func (c *Client) Temperature() (codec.Temperature, error) {
	var t codec.Temperature
	if err := c.getJSON("/temperature", &t); err != nil {
		return codec.Temperature{}, pkgerrors.Wrap(err, "failed to get temperature")
	}
	return t, nil
}

// Reading returns a scaled measurement as taken by the daemon.
func (c *Client) Reading(k codec.Kind) (types.Reading, error) {
	var r types.Reading
	if err := c.getJSON("/measurement/"+k.String(), &r); err != nil {
		return types.Reading{}, pkgerrors.Wrapf(err, "failed to get %v measurement", k)
	}
	return r, nil
}

func (c *Client) Measurement(k codec.Kind) (codec.Sample, error) {
	r, err := c.Reading(k)
	if err != nil {
		return codec.Sample{}, err
	}
	return r.Sample()
}

func (c *Client) Version() (string, error) {
	var v string
	if err := c.getJSON("/version", &v); err != nil {
		return "", pkgerrors.Wrap(err, "failed to get version")
	}
	return v, nil
}

// Close drops idle connections to the daemon.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
