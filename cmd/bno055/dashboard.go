package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sensorkit/bno055/pkg/bno055"
	"github.com/sensorkit/bno055/pkg/codec"
	"github.com/sensorkit/bno055/pkg/types"
)

var dashboardHeader = []string{"Kind", "Values", "Unit"}

// dashboard holds the widgets of the live view.
type dashboard struct {
	table  *widgets.Table
	status *widgets.Paragraph
	gauges []*widgets.Gauge
	grid   *ui.Grid
}

func newDashboard() *dashboard {
	d := &dashboard{
		table:  widgets.NewTable(),
		status: widgets.NewParagraph(),
	}

	d.table.Title = "Measurements"
	d.table.Rows = [][]string{dashboardHeader}
	d.table.TextStyle = ui.NewStyle(ui.ColorWhite)
	d.table.RowSeparator = false
	d.table.FillRow = true
	d.table.RowStyles[0] = ui.NewStyle(ui.ColorWhite, ui.ColorClear, ui.ModifierBold)

	d.status.Title = "Sensor"

	cols := make([]interface{}, 0, 4)
	for _, name := range []string{"System", "Gyroscope", "Accelerometer", "Magnetometer"} {
		g := widgets.NewGauge()
		g.Title = name
		d.gauges = append(d.gauges, g)
		cols = append(cols, ui.NewCol(1.0/4, g))
	}

	d.grid = ui.NewGrid()
	d.grid.Set(
		ui.NewRow(0.2, d.status),
		ui.NewRow(0.6, ui.NewCol(1.0, d.table)),
		ui.NewRow(0.2, cols...),
	)

	return d
}

func (d *dashboard) resize(width, height int) {
	d.grid.SetRect(0, 0, width, height)
}

// update refreshes every widget from s. Errors of single measurements are
// shown in place, only failures of the mode or calibration reads are returned.
func (d *dashboard) update(s sensor) error {
	m, err := s.Mode()
	if err != nil {
		return err
	}
	u, err := s.UnitSelection()
	if err != nil {
		return err
	}
	cal, err := s.CalibrationStatus()
	if err != nil {
		return err
	}

	status := fmt.Sprintf("Mode: %v    Updated: %s", m, time.Now().Format(time.TimeOnly))
	if t, err := s.Temperature(); err == nil {
		status += fmt.Sprintf("    Temperature: %.0f%s", t.Value, pick(t.Fahrenheit, "°F", "°C"))
	}
	d.status.Text = status

	d.table.Rows = dashboardRows(s, u)

	for i, v := range []uint8{cal.System, cal.Gyro, cal.Accel, cal.Mag} {
		d.gauges[i].Percent = int(v) * 100 / 3
		d.gauges[i].Label = fmt.Sprintf("%d/3", v)
		d.gauges[i].BarColor = calibColor(v)
	}

	return nil
}

func dashboardRows(s sensor, u codec.UnitSelection) [][]string {
	rows := [][]string{dashboardHeader}
	for _, k := range codec.AllKinds {
		sample, err := s.Measurement(k)
		switch {
		case errors.Is(err, bno055.ErrFusionRequired):
			rows = append(rows, []string{k.String(), "needs a fusion mode", ""})
			continue
		case err != nil:
			rows = append(rows, []string{k.String(), err.Error(), ""})
			continue
		}

		r := types.NewReading(sample, u, time.Now())
		vals := make([]string, 0, len(r.Values))
		for i, v := range r.Values {
			vals = append(vals, fmt.Sprintf("%s=%.2f", r.Labels[i], v))
		}
		rows = append(rows, []string{k.String(), strings.Join(vals, " "), r.Unit})
	}
	return rows
}

func calibColor(v uint8) ui.Color {
	switch v {
	case 3:
		return ui.ColorGreen
	case 0:
		return ui.ColorRed
	default:
		return ui.ColorYellow
	}
}

func NewDashboardCommand() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:     "dashboard",
		Short:   "Show live measurements and calibration in the terminal",
		GroupID: gSensor,
		Long: `Show every measurement, the operating mode and the calibration counters
in a live terminal view. Press q or Ctrl-C to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSensor(cmd, func(s sensor) error {
				if err := ui.Init(); err != nil {
					return fmt.Errorf("failed to initialize terminal: %w", err)
				}
				defer ui.Close()

				d := newDashboard()
				d.resize(ui.TerminalDimensions())

				refresh := func() error {
					if err := d.update(s); err != nil {
						return err
					}
					ui.Render(d.grid)
					return nil
				}
				if err := refresh(); err != nil {
					return err
				}

				ticker := time.NewTicker(interval)
				defer ticker.Stop()

				uiEvents := ui.PollEvents()
				for {
					select {
					case e := <-uiEvents:
						switch e.ID {
						case "q", "<C-c>":
							return nil
						case "<Resize>":
							payload := e.Payload.(ui.Resize)
							d.resize(payload.Width, payload.Height)
							ui.Clear()
							ui.Render(d.grid)
						}
					case <-ticker.C:
						if err := refresh(); err != nil {
							logrus.Debugf("dashboard refresh failed: %v", err)
							return err
						}
					}
				}
			})
		},
	}

	cmd.Flags().DurationVarP(&interval, "interval", "i", 200*time.Millisecond, "refresh interval")

	return cmd
}
