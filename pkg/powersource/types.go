package powersource

import (
	"math"
)

// State is the power source state reported by the platform.
type State int

const (
	// Unknown is used for any state string we do not recognize.
	Unknown State = iota
	// OnACPower indicates the host is drawing power from an adapter.
	OnACPower
	// OnBattery indicates the host is running on battery.
	OnBattery
)

// Values of PowerSourceStateKey, as defined in IOPSKeys.h.
const (
	ACPowerValue      = "AC Power"
	BatteryPowerValue = "Battery Power"
	UnknownValue      = "Unknown"
)

// Record keys, as defined in IOPSKeys.h.
const (
	PowerSourceStateKey = "Power Source State"
	CurrentCapacityKey  = "Current Capacity"
	MaxCapacityKey      = "Max Capacity"
	TimeToEmptyKey      = "Time to Empty"
	TimeToFullChargeKey = "Time to Full Charge"
	IsChargingKey       = "Is Charging"
)

// Sentinels for time remaining, in minutes.
const (
	TimeRemainingUnknown   = -1
	TimeRemainingUnlimited = -2
)

// ParseState converts a platform state string to a State.
func ParseState(s string) State {
	switch s {
	case ACPowerValue:
		return OnACPower
	case BatteryPowerValue:
		return OnBattery
	default:
		return Unknown
	}
}

func (s State) String() string {
	switch s {
	case OnACPower:
		return ACPowerValue
	case OnBattery:
		return BatteryPowerValue
	default:
		return UnknownValue
	}
}

// Snapshot is the power source status captured in a single poll cycle.
// It is immutable; use NewSnapshot to build one.
type Snapshot struct {
	state           State
	currentCapacity int64
	maxCapacity     int64
	// minutes, valid only if hasTimeRemaining
	timeRemaining    int64
	hasTimeRemaining bool
}

// NewSnapshot validates the capacities and builds a Snapshot. minutes is the
// raw time estimate reported by the platform. 0 and the negative sentinels
// mean no estimate is available.
func NewSnapshot(state State, current, maxCapacity, minutes int64) (Snapshot, error) {
	if maxCapacity == 0 {
		return Snapshot{}, ErrDivisionByZero
	}
	if maxCapacity < 0 || current < 0 {
		return Snapshot{}, ErrInvalidCapacity
	}

	s := Snapshot{
		state:           state,
		currentCapacity: current,
		maxCapacity:     maxCapacity,
	}
	if minutes > 0 {
		s.timeRemaining = minutes
		s.hasTimeRemaining = true
	}

	return s, nil
}

func (s Snapshot) State() State { return s.state }

func (s Snapshot) CurrentCapacity() int64 { return s.currentCapacity }

func (s Snapshot) MaxCapacity() int64 { return s.maxCapacity }

// TimeRemaining returns the time to empty when on battery, or the time to
// full charge when on AC power, in minutes.
func (s Snapshot) TimeRemaining() (int64, bool) {
	return s.timeRemaining, s.hasTimeRemaining
}

// Percent returns the remaining charge in [0, 100].
func (s Snapshot) Percent() float64 {
	if s.maxCapacity <= 0 {
		return 0
	}
	return math.Min(100, 100*float64(s.currentCapacity)/float64(s.maxCapacity))
}
