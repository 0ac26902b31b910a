// Package timeutil provides minute-of-day arithmetic for the planner core.
//
// All computations operate on integer minutes within a 1440-minute day.
// Ranges may cross midnight (start > end), and malformed inputs map to the
// InvalidMinute sentinel rather than errors so that range checks degrade to
// "not in range".
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// MinutesPerDay is the number of one-minute slots in a simulated day.
	MinutesPerDay = 24 * 60

	// InvalidMinute is the sentinel returned for unparseable clock values.
	InvalidMinute = -1
)

// ParseClock converts a strict "HH:MM" string into minutes since midnight.
// Any malformed or out-of-range input yields InvalidMinute.
func ParseClock(value string) int {
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return InvalidMinute
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return InvalidMinute
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return InvalidMinute
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return InvalidMinute
	}
	return hours*60 + minutes
}

// InRange reports whether minute falls inside [start, end), treating
// start > end as a midnight-crossing interval. A range with start == end is
// never matched, and invalid bounds never match anything.
func InRange(minute, start, end int) bool {
	if minute < 0 || start < 0 || end < 0 {
		return false
	}
	if start > end {
		return minute >= start || minute < end
	}
	return minute >= start && minute < end
}

// UntilNextStart returns the forward distance, wrapping through the end of
// the day, from minute to the next start boundary. The second return value
// is false when either bound is invalid.
func UntilNextStart(minute, start, end int) (int, bool) {
	if minute < 0 || start < 0 || end < 0 {
		return 0, false
	}
	return ((start - minute) + MinutesPerDay) % MinutesPerDay, true
}

// RemainingInRange returns how many minutes remain until the range's end
// boundary, assuming minute is currently inside the range. Wraparound ranges
// are handled by counting through midnight.
func RemainingInRange(minute, start, end int) int {
	if start > end && minute >= start {
		return (MinutesPerDay - minute) + end
	}
	return end - minute
}

// FormatDuration renders a minute count as "XhYm", omitting zero components.
// Zero renders as "0m" and negative values as "N/A".
func FormatDuration(minutes int) string {
	if minutes < 0 {
		return "N/A"
	}
	if minutes == 0 {
		return "0m"
	}
	hours := minutes / 60
	rem := minutes % 60
	switch {
	case hours == 0:
		return fmt.Sprintf("%dm", rem)
	case rem == 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dh%dm", hours, rem)
	}
}

// FormatClock renders a minute of day as "HH:MM". Negative values, including
// InvalidMinute, render as "N/A".
func FormatClock(minute int) string {
	if minute < 0 {
		return "N/A"
	}
	minute %= MinutesPerDay
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// WrapMinute normalizes an arbitrary minute offset into [0, MinutesPerDay).
func WrapMinute(minute int) int {
	minute %= MinutesPerDay
	if minute < 0 {
		minute += MinutesPerDay
	}
	return minute
}
