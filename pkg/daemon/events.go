package daemon

import (
	"context"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/sensorkit/bno055/pkg/codec"
	"github.com/sensorkit/bno055/pkg/events"
)

var sseHub *events.EventHub

// calibrationPollInterval is how often the calibration counters are polled
// while anyone listens on /events.
var calibrationPollInterval = time.Second

func getEvents(c *gin.Context) {
	ch := sseHub.Subscribe()
	defer sseHub.Unsubscribe(ch)

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(ev.Name, string(ev.Data))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// watchCalibration publishes the calibration counters whenever they change.
// The bus is only polled while there are subscribers.
func watchCalibration(ctx context.Context) {
	ticker := time.NewTicker(calibrationPollInterval)
	defer ticker.Stop()

	var last *codec.CalibrationStatus
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if sseHub.Subscribers() == 0 {
			last = nil
			continue
		}

		devMu.Lock()
		st, err := dev.CalibrationStatus()
		devMu.Unlock()
		if err != nil {
			logrus.Warnf("failed to poll calibration status: %v", err)
			continue
		}

		if last != nil && *last == st {
			continue
		}
		last = &st

		sseHub.Publish(events.CalibrationStatus, events.CalibrationStatusEvent{
			System: st.System,
			Gyro:   st.Gyro,
			Accel:  st.Accel,
			Mag:    st.Mag,
			Ts:     time.Now().Unix(),
		})
	}
}
