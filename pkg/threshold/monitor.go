package threshold

// LowBatteryThreshold is the charge, in percent, at or below which the
// battery is considered low.
const LowBatteryThreshold = 5.0

// Transition is returned by Monitor.Update.
type Transition int

const (
	// None means nothing changed since the last update.
	None Transition = iota
	// EnteredLow means the charge just dropped to or below the threshold.
	EnteredLow
	// ExitedLow means the charge just rose above the threshold again.
	ExitedLow
)

func (t Transition) String() string {
	switch t {
	case EnteredLow:
		return "EnteredLow"
	case ExitedLow:
		return "ExitedLow"
	default:
		return "None"
	}
}

// Monitor debounces low battery alerts: EnteredLow is reported once per
// low charge episode, until the charge goes back above the threshold.
//
// Monitor is not safe for concurrent use. It is owned by the polling loop.
type Monitor struct {
	threshold       float64
	alreadyNotified bool
}

// NewMonitor returns a Monitor using LowBatteryThreshold.
func NewMonitor() *Monitor {
	return &Monitor{threshold: LowBatteryThreshold}
}

// Update feeds the latest charge percentage.
func (m *Monitor) Update(percent float64) Transition {
	switch {
	case percent <= m.threshold && !m.alreadyNotified:
		m.alreadyNotified = true
		return EnteredLow
	case percent > m.threshold && m.alreadyNotified:
		m.alreadyNotified = false
		return ExitedLow
	default:
		return None
	}
}
