package daemon

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/sensorkit/bno055/pkg/bno055"
	"github.com/sensorkit/bno055/pkg/calibration"
	"github.com/sensorkit/bno055/pkg/config"
	"github.com/sensorkit/bno055/pkg/events"
)

var (
	// dev is only touched with devMu held. The daemon is the sole owner of
	// the bus session.
	dev   *bno055.Device
	devMu sync.Mutex
	conf  config.Config
	store calibration.Store
)

func setupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ginLogger(logrus.StandardLogger()))
	router.GET("/identity", getIdentity)
	router.GET("/mode", getMode)
	router.PUT("/mode", setMode)
	router.POST("/reset", postReset)
	router.GET("/calibration/status", getCalibrationStatus)
	router.GET("/calibration/offsets", getCalibrationOffsets)
	router.GET("/calibration/profile", getCalibrationProfile)
	router.PUT("/calibration/profile", setCalibrationProfile)
	router.POST("/calibration/save", saveCalibrationProfile)
	router.GET("/system-status", getSystemStatus)
	router.GET("/temperature", getTemperature)
	router.GET("/measurement/:kind", getMeasurement)
	router.GET("/events", getEvents)
	router.GET("/version", getVersion)

	return router
}

// bringUp connects to the device, brings it into the configured mode and
// restores the stored calibration if asked to.
func bringUp(c config.Config) (*bno055.Device, error) {
	d, err := bno055.Connect(c.BusConfig())
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to connect to BNO055")
	}

	if err := d.Init(c.Mode()); err != nil {
		_ = d.Close()
		return nil, pkgerrors.Wrapf(err, "failed to bring up BNO055 in mode %v", c.Mode())
	}

	if c.RestoreCalibration() {
		p, err := store.Load()
		if err != nil {
			// an uncalibrated sensor still works
			logrus.Warnf("not restoring calibration: %v", err)
			return d, nil
		}
		if err := d.RestoreCalibration(p); err != nil {
			_ = d.Close()
			return nil, pkgerrors.Wrap(err, "failed to restore calibration")
		}
		logrus.WithField("file", c.CalibrationFile()).Info("calibration restored")
		sseHub.Publish(events.CalibrationRestored, events.CalibrationRestoredEvent{
			Source: c.CalibrationFile(),
			Ts:     time.Now().Unix(),
		})
	}

	return d, nil
}

func Run(c config.Config, unixSocketPath string, allowNonRoot bool) error {
	if err := c.Validate(); err != nil {
		return pkgerrors.Wrap(err, "invalid config")
	}
	conf = c
	logrus.WithFields(c.LogrusFields()).Info("config loaded")
	store = calibration.NewFile(c.CalibrationFile())
	sseHub = events.NewEventHub()

	d, err := bringUp(c)
	if err != nil {
		return err
	}
	dev = d

	router := setupRoutes()
	srv := &http.Server{
		Handler: router,
	}

	// A stale socket from a killed daemon blocks Listen.
	if err := os.Remove(unixSocketPath); err != nil && !os.IsNotExist(err) {
		logrus.Warnf("failed to remove stale socket %s: %v", unixSocketPath, err)
	}

	l, err := net.Listen("unix", unixSocketPath)
	if err != nil {
		_ = dev.Close()
		return pkgerrors.Wrapf(err, "failed to listen on %s", unixSocketPath)
	}

	if allowNonRoot {
		logrus.Infof("non-root access is allowed, changing permissions of %s to 0777", unixSocketPath)
		err = os.Chmod(unixSocketPath, 0777)
		if err != nil {
			logrus.Fatal(err)
		}
	}

	go func() {
		logrus.Infof("http server listening on %s", l.Addr().String())
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatal(err)
		}
	}()

	watchCtx, stopWatch := context.WithCancel(context.Background())
	go watchCalibration(watchCtx)

	// Handle common process-killing signals, so we can gracefully shut down:
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigc
	logrus.Infof("caught signal \"%s\": shutting down.", sig)

	stopWatch()

	logrus.Info("shutting down http server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = srv.Shutdown(ctx)
	if err != nil {
		logrus.Errorf("failed to shutdown http server: %v", err)
	}
	cancel()

	logrus.Info("closing bus session")
	devMu.Lock()
	err = dev.Close()
	devMu.Unlock()
	if err != nil {
		logrus.Errorf("failed to close bus session: %v", err)
	}

	logrus.Info("exiting")
	return nil
}
