package events

import "encoding/json"

// Event name constants
const (
	// ModeChanged carries a ModeChangedEvent.
	ModeChanged = "mode.changed"
	// DeviceReset carries a DeviceResetEvent.
	DeviceReset = "device.reset"
	// CalibrationStatus carries a CalibrationStatusEvent whenever a counter changes.
	CalibrationStatus = "calibration.status"
	// CalibrationRestored carries a CalibrationRestoredEvent.
	CalibrationRestored = "calibration.restored"
)

// Event is a generic SSE event from daemon.
type Event struct {
	Name string          // SSE event name
	Data json.RawMessage // Raw JSON payload
}

type ModeChangedEvent struct {
	From string `json:"from"`
	To   string `json:"to"`
	Ts   int64  `json:"ts"`
}

type DeviceResetEvent struct {
	Ts int64 `json:"ts"`
}

type CalibrationStatusEvent struct {
	System uint8 `json:"system"`
	Gyro   uint8 `json:"gyro"`
	Accel  uint8 `json:"accel"`
	Mag    uint8 `json:"mag"`
	Ts     int64 `json:"ts"`
}

type CalibrationRestoredEvent struct {
	Source string `json:"source,omitempty"`
	Ts     int64  `json:"ts"`
}

// DecodeAs decodes the event payload into the caller-specified generic type T.
// It ignores the event name and simply unmarshals Data into T. If Data is empty,
// it returns the zero value of T with a nil error.
func DecodeAs[T any](e Event) (T, error) {
	var zero T
	if len(e.Data) == 0 {
		return zero, nil
	}
	var v T
	if err := json.Unmarshal(e.Data, &v); err != nil {
		return zero, err
	}
	return v, nil
}
