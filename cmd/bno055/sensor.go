package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sensorkit/bno055/pkg/codec"
	"github.com/sensorkit/bno055/pkg/types"
	"github.com/sensorkit/bno055/pkg/version"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("%s %s\n", version.Version, version.GitCommit)
		},
	}
}

func NewInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "info",
		Short:   "Show sensor identity, mode and system status",
		GroupID: gSensor,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSensor(cmd, func(s sensor) error {
				id, err := s.Identity()
				if err != nil {
					return fmt.Errorf("failed to read identity: %w", err)
				}
				mode, err := s.Mode()
				if err != nil {
					return fmt.Errorf("failed to read mode: %w", err)
				}
				st, err := s.SystemStatus()
				if err != nil {
					return fmt.Errorf("failed to read system status: %w", err)
				}
				temp, err := s.Temperature()
				if err != nil {
					return fmt.Errorf("failed to read temperature: %w", err)
				}

				cmd.Println(bold("Identity:"))
				cmd.Printf("  Chip ID: 0x%02X %s\n", id.ChipID, bool2Text(id.IsBNO055()))
				cmd.Printf("  Accelerometer ID: 0x%02X %s\n", id.AccelID, bool2Text(id.AccelID == codec.AccelID))
				cmd.Printf("  Magnetometer ID: 0x%02X %s\n", id.MagID, bool2Text(id.MagID == codec.MagID))
				cmd.Printf("  Gyroscope ID: 0x%02X %s\n", id.GyroID, bool2Text(id.GyroID == codec.GyroID))
				cmd.Printf("  Firmware: %s, bootloader: 0x%02X\n", bold("%s", id.FirmwareVersion()), id.BootloaderRev)
				cmd.Println()

				cmd.Println(bold("Status:"))
				cmd.Printf("  Operation mode: %s (fusion %s)\n", bold("%s", strings.ToUpper(mode.String())), bool2Text(mode.IsFusion()))
				cmd.Printf("  System status: %s\n", st.Status)
				cmd.Printf("  System error: %s\n", st.Error)
				cmd.Printf("  Self test: accel %s  mag %s  gyro %s  MCU %s\n",
					bool2Text(st.SelfTest.Accel()), bool2Text(st.SelfTest.Mag()),
					bool2Text(st.SelfTest.Gyro()), bool2Text(st.SelfTest.MCU()))
				unit := "°C"
				if temp.Fahrenheit {
					unit = "°F"
				}
				cmd.Printf("  Temperature: %s\n", bold("%.0f%s", temp.Value, unit))
				cmd.Println()

				cmd.Println(bold("Units:"))
				cmd.Printf("  Acceleration: %s\n", pick(st.Units.AccelMilliG(), "mg", "m/s²"))
				cmd.Printf("  Angular rate: %s\n", pick(st.Units.GyroRPS(), "rps", "dps"))
				cmd.Printf("  Euler angles: %s\n", pick(st.Units.EulerRadians(), "radians", "degrees"))
				cmd.Printf("  Orientation: %s\n", pick(st.Units.AndroidOrientation(), "Android", "Windows"))

				return nil
			})
		},
	}
}

func pick(b bool, yes, no string) string {
	if b {
		return yes
	}
	return no
}

func NewReadCommand() *cobra.Command {
	var (
		count    int
		interval time.Duration
		asJSON   bool
	)

	kinds := make([]string, 0, len(codec.AllKinds))
	for _, k := range codec.AllKinds {
		kinds = append(kinds, k.String())
	}

	cmd := &cobra.Command{
		Use:     "read <" + strings.Join(kinds, "|") + ">",
		Short:   "Read a measurement",
		GroupID: gSensor,
		Long: `Read a measurement and print it with a unix timestamp, e.g.

  1700000000 MAG-X=10.00 MAG-Y=-1.00 MAG-Z=52.00

acc, mag and gyr are raw sensor data. eul, qua, lin and grv are computed by
the fusion algorithm and need a fusion mode (imu, compass, m4g, ndof_fmc_off, ndof).`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: kinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := codec.ParseKind(args[0])
			if err != nil {
				return err
			}

			return withSensor(cmd, func(s sensor) error {
				u, err := s.UnitSelection()
				if err != nil {
					return fmt.Errorf("failed to read unit selection: %w", err)
				}

				for i := 0; count <= 0 || i < count; i++ {
					if i > 0 {
						time.Sleep(interval)
					}

					sample, err := s.Measurement(k)
					if err != nil {
						return fmt.Errorf("failed to read %v: %w", k, err)
					}
					r := types.NewReading(sample, u, time.Now())

					if asJSON {
						b, err := json.Marshal(r)
						if err != nil {
							return err
						}
						cmd.Println(string(b))
						continue
					}
					cmd.Println(formatReading(r))
				}

				return nil
			})
		},
	}

	f := cmd.Flags()
	f.IntVarP(&count, "count", "n", 1, "number of samples, 0 reads until interrupted")
	f.DurationVarP(&interval, "interval", "i", 100*time.Millisecond, "time between samples")
	f.BoolVar(&asJSON, "json", false, "print one JSON object per sample")

	return cmd
}

// formatReading renders "<unix-ts> MAG-X=10.00 MAG-Y=-1.00 MAG-Z=52.00".
func formatReading(r types.Reading) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d", r.Timestamp.Unix())
	prefix := strings.ToUpper(r.Kind)
	for i, v := range r.Values {
		if r.Kind == codec.KindQuaternion.String() {
			fmt.Fprintf(&sb, " %s-%s=%.4f", prefix, r.Labels[i], v)
			continue
		}
		fmt.Fprintf(&sb, " %s-%s=%.2f", prefix, r.Labels[i], v)
	}
	return sb.String()
}

func NewModeCommand() *cobra.Command {
	names := make([]string, 0, len(codec.AllModes))
	for _, m := range codec.AllModes {
		names = append(names, m.String())
	}

	return &cobra.Command{
		Use:     "mode [name]",
		Short:   "Show or set the operation mode",
		GroupID: gSensor,
		Long: `Show or set the operation mode.

Modes: ` + strings.Join(names, ", ") + `.
Fusion modes are imu, compass, m4g, ndof_fmc_off and ndof.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSensor(cmd, func(s sensor) error {
				if len(args) == 0 {
					m, err := s.Mode()
					if err != nil {
						return fmt.Errorf("failed to read mode: %w", err)
					}
					cmd.Println(strings.ToUpper(m.String()))
					return nil
				}

				m, err := codec.ParseMode(args[0])
				if err != nil {
					return err
				}
				if err := s.SetMode(m); err != nil {
					return fmt.Errorf("failed to set mode: %w", err)
				}

				logrus.Infof("successfully set operation mode to %s", strings.ToUpper(m.String()))
				return nil
			})
		},
	}
}

func NewResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "reset",
		Short:   "Reset the sensor",
		GroupID: gSensor,
		Long:    `Trigger a system reset. The sensor comes back in CONFIG mode with default settings and without calibration.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSensor(cmd, func(s sensor) error {
				if err := s.Reset(); err != nil {
					return fmt.Errorf("failed to reset: %w", err)
				}
				logrus.Info("successfully reset the sensor")
				return nil
			})
		},
	}
}
