package main

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sensorkit/bno055/pkg/calibration"
	"github.com/sensorkit/bno055/pkg/client"
	"github.com/sensorkit/bno055/pkg/codec"
)

func NewCalibrationCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "calibration",
		Aliases: []string{"cal"},
		Short:   "Inspect, save and restore sensor calibration",
		GroupID: gCalibration,
		Long: `Inspect, save and restore sensor calibration.

The sensor calibrates itself while it is moved: keep it still for the
gyroscope, move it through a figure eight for the magnetometer and hold it in
six different orientations for the accelerometer. Once every counter reads 3
the calibration can be saved and later restored after a power cycle.`,
	}

	cmd.AddCommand(
		newCalibrationStatusCommand(),
		newCalibrationOffsetsCommand(),
		newCalibrationSaveCommand(),
		newCalibrationLoadCommand(),
	)

	return cmd
}

func newCalibrationStatusCommand() *cobra.Command {
	var watch time.Duration

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the calibration counters (0 uncalibrated, 3 fully calibrated)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSensor(cmd, func(s sensor) error {
				for {
					st, err := s.CalibrationStatus()
					if err != nil {
						return fmt.Errorf("failed to read calibration status: %w", err)
					}

					cmd.Printf("%d SYS=%s GYR=%s ACC=%s MAG=%s %s\n", time.Now().Unix(),
						calibText(st.System), calibText(st.Gyro), calibText(st.Accel), calibText(st.Mag),
						bool2Text(st.FullyCalibrated()))

					if watch <= 0 || st.FullyCalibrated() {
						return nil
					}
					time.Sleep(watch)
				}
			})
		},
	}

	cmd.Flags().DurationVarP(&watch, "watch", "w", 0, "poll at this interval until fully calibrated")

	return cmd
}

func newCalibrationOffsetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "offsets",
		Short: "Show the calibration offsets and radii",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSensor(cmd, func(s sensor) error {
				p, err := s.CalibrationProfile()
				if err != nil {
					return fmt.Errorf("failed to read calibration data: %w", err)
				}

				ts := time.Now().Unix()
				o := p.Offsets
				cmd.Printf("%d ACC_OFFSET_X=%d ACC_OFFSET_Y=%d ACC_OFFSET_Z=%d\n", ts, o.AccelX, o.AccelY, o.AccelZ)
				cmd.Printf("%d MAG_OFFSET_X=%d MAG_OFFSET_Y=%d MAG_OFFSET_Z=%d\n", ts, o.MagX, o.MagY, o.MagZ)
				cmd.Printf("%d GYR_OFFSET_X=%d GYR_OFFSET_Y=%d GYR_OFFSET_Z=%d\n", ts, o.GyroX, o.GyroY, o.GyroZ)
				cmd.Printf("%d ACC_RADIUS=%d MAG_RADIUS=%d\n", ts, p.Radii.Accel, p.Radii.Mag)

				return nil
			})
		},
	}
}

// profilePath returns the file argument or the configured calibration file.
func profilePath(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}

	conf, err := loadConfig(cmd)
	if err != nil {
		return "", err
	}
	if conf.CalibrationFile() == "" {
		return "", fmt.Errorf("no file given and no calibrationFile configured")
	}

	return conf.CalibrationFile(), nil
}

// checkComplete refuses an incomplete calibration unless forced.
func checkComplete(st codec.CalibrationStatus, force bool) error {
	if st.FullyCalibrated() {
		return nil
	}
	if !force {
		return fmt.Errorf("sensor is not fully calibrated (SYS=%d GYR=%d ACC=%d MAG=%d), use --force to save anyway",
			st.System, st.Gyro, st.Accel, st.Mag)
	}
	logrus.Warn("saving a calibration that is not complete")
	return nil
}

// saveThroughDaemon lets the daemon write the profile to its own calibration file.
func saveThroughDaemon(cmd *cobra.Command, force bool) error {
	c := client.NewClient(unixSocketPath)
	defer c.Close()

	st, err := c.CalibrationStatus()
	if err != nil {
		return fmt.Errorf("failed to read calibration status: %w", err)
	}
	if err := checkComplete(st, force); err != nil {
		return err
	}

	msg, err := c.SaveCalibration()
	if err != nil {
		return fmt.Errorf("failed to save calibration: %w", err)
	}
	cmd.Println(msg)

	return nil
}

func newCalibrationSaveCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "save [file]",
		Short: "Save the current calibration to a file",
		Long: `Save the current calibration to a file.

Without a file the configured calibrationFile is used. With --daemon-socket and
no file the daemon saves to the calibrationFile of its own configuration.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && unixSocketPath != "" {
				return saveThroughDaemon(cmd, force)
			}

			path, err := profilePath(cmd, args)
			if err != nil {
				return err
			}

			return withSensor(cmd, func(s sensor) error {
				p, err := s.CalibrationProfile()
				if err != nil {
					return fmt.Errorf("failed to read calibration data: %w", err)
				}

				if err := checkComplete(p.Status, force); err != nil {
					return err
				}

				if err := calibration.NewFile(path).Save(p); err != nil {
					return fmt.Errorf("failed to save calibration: %w", err)
				}

				logrus.Infof("successfully saved calibration to %s", path)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "save even if the sensor is not fully calibrated")

	return cmd
}

func newCalibrationLoadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "load [file]",
		Short: "Restore a saved calibration to the sensor",
		Long: `Restore a saved calibration to the sensor.

The sensor is switched to CONFIG mode for the write and back to its previous
mode afterwards. The calibration counters start at 0 again and rise as soon as
the fusion algorithm has confirmed the restored offsets.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := profilePath(cmd, args)
			if err != nil {
				return err
			}

			p, err := calibration.NewFile(path).Load()
			if err != nil {
				return fmt.Errorf("failed to load calibration: %w", err)
			}

			return withSensor(cmd, func(s sensor) error {
				if err := s.RestoreCalibration(p); err != nil {
					return fmt.Errorf("failed to restore calibration: %w", err)
				}

				logrus.Infof("successfully restored calibration from %s", path)
				return nil
			})
		},
	}
}
