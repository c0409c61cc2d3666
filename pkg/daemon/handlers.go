package daemon

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/sensorkit/bno055/pkg/bno055"
	"github.com/sensorkit/bno055/pkg/codec"
	"github.com/sensorkit/bno055/pkg/events"
	"github.com/sensorkit/bno055/pkg/types"
	"github.com/sensorkit/bno055/pkg/version"
)

func abort(c *gin.Context, code int, err error) {
	c.IndentedJSON(code, err.Error())
	_ = c.AbortWithError(code, err)
}

// abortDevice maps a device error to a status code.
func abortDevice(c *gin.Context, op string, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, bno055.ErrInvalidMode):
		code = http.StatusBadRequest
	case errors.Is(err, bno055.ErrFusionRequired):
		code = http.StatusConflict
	default:
		logrus.Errorf("%s failed: %v", op, err)
	}
	abort(c, code, err)
}

func getIdentity(c *gin.Context) {
	devMu.Lock()
	id, err := dev.Identity()
	devMu.Unlock()
	if err != nil {
		abortDevice(c, "getIdentity", err)
		return
	}

	c.IndentedJSON(http.StatusOK, id)
}

func getMode(c *gin.Context) {
	devMu.Lock()
	m, err := dev.Mode()
	devMu.Unlock()
	if err != nil {
		abortDevice(c, "getMode", err)
		return
	}

	c.IndentedJSON(http.StatusOK, m)
}

func setMode(c *gin.Context) {
	var m codec.Mode
	if err := c.BindJSON(&m); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	devMu.Lock()
	prev, err := dev.Mode()
	if err == nil {
		err = dev.SetMode(m)
	}
	devMu.Unlock()
	if err != nil {
		abortDevice(c, "setMode", err)
		return
	}

	logrus.Infof("set operational mode to %v", m)
	if prev != m {
		sseHub.Publish(events.ModeChanged, events.ModeChangedEvent{From: prev.String(), To: m.String(), Ts: time.Now().Unix()})
	}

	c.IndentedJSON(http.StatusCreated, fmt.Sprintf("mode set to %v", m))
}

func postReset(c *gin.Context) {
	devMu.Lock()
	err := dev.Reset()
	devMu.Unlock()
	if err != nil {
		abortDevice(c, "postReset", err)
		return
	}

	logrus.Info("device reset")
	sseHub.Publish(events.DeviceReset, events.DeviceResetEvent{Ts: time.Now().Unix()})

	c.IndentedJSON(http.StatusCreated, "device reset, it is now in CONFIG mode")
}

func getCalibrationStatus(c *gin.Context) {
	devMu.Lock()
	st, err := dev.CalibrationStatus()
	devMu.Unlock()
	if err != nil {
		abortDevice(c, "getCalibrationStatus", err)
		return
	}

	c.IndentedJSON(http.StatusOK, st)
}

func getCalibrationOffsets(c *gin.Context) {
	devMu.Lock()
	off, err := dev.CalibrationOffsets()
	devMu.Unlock()
	if err != nil {
		abortDevice(c, "getCalibrationOffsets", err)
		return
	}

	c.IndentedJSON(http.StatusOK, off)
}

func getCalibrationProfile(c *gin.Context) {
	devMu.Lock()
	p, err := dev.CalibrationProfile()
	devMu.Unlock()
	if err != nil {
		abortDevice(c, "getCalibrationProfile", err)
		return
	}

	c.IndentedJSON(http.StatusOK, p)
}

func setCalibrationProfile(c *gin.Context) {
	var p codec.CalibrationProfile
	if err := c.BindJSON(&p); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	devMu.Lock()
	err := dev.RestoreCalibration(p)
	devMu.Unlock()
	if err != nil {
		abortDevice(c, "setCalibrationProfile", err)
		return
	}

	logrus.WithField("offsets", p.Offsets).Info("calibration profile restored")
	sseHub.Publish(events.CalibrationRestored, events.CalibrationRestoredEvent{Ts: time.Now().Unix()})

	c.IndentedJSON(http.StatusCreated, "calibration profile restored")
}

func saveCalibrationProfile(c *gin.Context) {
	if conf.CalibrationFile() == "" {
		abort(c, http.StatusPreconditionFailed, errors.New("no calibrationFile configured"))
		return
	}

	devMu.Lock()
	p, err := dev.CalibrationProfile()
	devMu.Unlock()
	if err != nil {
		abortDevice(c, "saveCalibrationProfile", err)
		return
	}

	if !p.Status.FullyCalibrated() {
		logrus.WithField("status", p.Status).Warn("saving a profile that is not fully calibrated")
	}

	if err := store.Save(p); err != nil {
		logrus.Errorf("saveCalibrationProfile failed: %v", err)
		abort(c, http.StatusInternalServerError, err)
		return
	}

	c.IndentedJSON(http.StatusCreated, fmt.Sprintf("calibration profile saved to %s", conf.CalibrationFile()))
}

func getSystemStatus(c *gin.Context) {
	devMu.Lock()
	st, err := dev.SystemStatus()
	devMu.Unlock()
	if err != nil {
		abortDevice(c, "getSystemStatus", err)
		return
	}

	c.IndentedJSON(http.StatusOK, st)
}

func getTemperature(c *gin.Context) {
	devMu.Lock()
	t, err := dev.Temperature()
	devMu.Unlock()
	if err != nil {
		abortDevice(c, "getTemperature", err)
		return
	}

	c.IndentedJSON(http.StatusOK, t)
}

func getMeasurement(c *gin.Context) {
	k, err := codec.ParseKind(c.Param("kind"))
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	devMu.Lock()
	s, err := dev.Measurement(k)
	var u codec.UnitSelection
	if err == nil {
		u, err = dev.UnitSelection()
	}
	devMu.Unlock()
	if err != nil {
		abortDevice(c, "getMeasurement", err)
		return
	}

	c.IndentedJSON(http.StatusOK, types.NewReading(s, u, time.Now()))
}

func getVersion(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, version.Version)
}
