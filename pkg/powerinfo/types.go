package powerinfo

import "time"

// Status is the result of the latest poll cycle, as served by the daemon
// on GET /status. It is shared between the daemon and the client.
type Status struct {
	// Title is the label currently shown in the menubar.
	Title string `json:"title"`
	// State is the power source state string, e.g. "Battery Power".
	State           string  `json:"state"`
	Percent         float64 `json:"percent"`
	CurrentCapacity int64   `json:"currentCapacity"`
	MaxCapacity     int64   `json:"maxCapacity"`
	// TimeRemainingMinutes is nil when the platform has no estimate.
	TimeRemainingMinutes *int64 `json:"timeRemainingMinutes,omitempty"`

	// LastTransition is the last threshold transition (EnteredLow or ExitedLow).
	LastTransition   string    `json:"lastTransition,omitempty"`
	LastTransitionAt time.Time `json:"lastTransitionAt"`

	// LastError is the error of the last failed cycle, cleared on success.
	LastError string    `json:"lastError,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
	Cycles    int       `json:"cycles"`
}
