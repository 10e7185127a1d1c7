package events

import "encoding/json"

// Event names
const (
	// BatteryLow is published when the charge drops to the low battery threshold.
	BatteryLow = "battery.low"
	// BatteryRecovered is published when the charge rises above the threshold again.
	BatteryRecovered = "battery.recovered"
	// AlertFailed is published when the low battery alert could not be raised.
	AlertFailed = "alert.failed"
)

// Event is a generic SSE event from daemon.
type Event struct {
	Name string          // SSE event name
	Data json.RawMessage // Raw JSON payload
}

// ThresholdEvent is the payload of BatteryLow and BatteryRecovered.
type ThresholdEvent struct {
	Percent   float64 `json:"percent"`
	Threshold float64 `json:"threshold"`
	Title     string  `json:"title"`
	Ts        int64   `json:"ts"`
}

// AlertFailedEvent is the payload of AlertFailed.
type AlertFailedEvent struct {
	Percent float64 `json:"percent"`
	Error   string  `json:"error"`
	Ts      int64   `json:"ts"`
}

// DecodeAs decodes the event payload into T. The event name is not checked.
// Empty Data yields the zero value of T.
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
