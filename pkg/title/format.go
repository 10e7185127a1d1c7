// Package title renders a power source snapshot as the short string shown in
// the menubar, e.g. "↓ 2h5m (4%)".
package title

import (
	"fmt"
	"math"
	"strconv"

	"github.com/batterybar/batterybar/pkg/powersource"
)

const (
	DischargingGlyph = "↓"
	ChargingGlyph    = "↑"
	// UnknownGlyph is shown alone when the power source state is not recognized.
	UnknownGlyph = "🤔"
)

// Format returns the title for s.
func Format(s powersource.Snapshot) string {
	var glyph string
	switch s.State() {
	case powersource.OnBattery:
		glyph = DischargingGlyph
	case powersource.OnACPower:
		glyph = ChargingGlyph
	default:
		return UnknownGlyph
	}

	remaining := ""
	if minutes, ok := s.TimeRemaining(); ok {
		remaining = HumanTime(minutes) + " "
	}

	return fmt.Sprintf("%s %s(%s%%)", glyph, remaining, Percent(s.Percent()))
}

// HumanTime formats minutes as "59m", "23h59m" or "1d0h0m".
func HumanTime(minutes int64) string {
	if minutes < 0 {
		minutes = 0
	}

	days := minutes / (24 * 60)
	hours := minutes / 60 % 24
	mins := minutes % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd%dh%dm", days, hours, mins)
	case hours > 0:
		return fmt.Sprintf("%dh%dm", hours, mins)
	default:
		return fmt.Sprintf("%dm", mins)
	}
}

// Percent formats a percentage rounded to one decimal, without trailing
// zeros: 4 -> "4", 33.333 -> "33.3". The same rule is used everywhere so
// the title does not flicker between cycles.
func Percent(p float64) string {
	return strconv.FormatFloat(math.Round(p*10)/10, 'f', -1, 64)
}
