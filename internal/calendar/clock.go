package calendar

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultDurationHours is used when a length string carries no known unit.
const DefaultDurationHours = 1.0

var nonDigits = regexp.MustCompile(`\D`)

// IsNumericTime reports whether raw is a military time made only of digits.
// Anything else (for example "PITT") is a "no fixed time" sentinel.
func IsNumericTime(raw string) bool {
	if raw == "" {
		return false
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// NormalizeTime left-pads a numeric military time to four digits
// ("0" -> "0000", "800" -> "0800"). Sentinel values pass through unchanged.
func NormalizeTime(raw string) string {
	if !IsNumericTime(raw) || len(raw) >= 4 {
		return raw
	}
	return strings.Repeat("0", 4-len(raw)) + raw
}

// MilitaryValue returns the integer value of a numeric time ("0830" -> 830).
func MilitaryValue(raw string) (int, bool) {
	if !IsNumericTime(raw) {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

// HourMinute splits a time into hour and minute. Sentinel times report
// ok=false and midnight.
func HourMinute(raw string) (hour, minute int, ok bool) {
	t := NormalizeTime(raw)
	if !IsNumericTime(t) || len(t) != 4 {
		return 0, 0, false
	}
	hour, _ = strconv.Atoi(t[:2])
	minute, _ = strconv.Atoi(t[2:])
	return hour, minute, true
}

// DurationToHours parses a length such as "30min" or "2hrs".
//
// Only the digits count. When no unit is recognized, or no digits are
// present, it returns DefaultDurationHours and ok=false; callers treat that
// as a warning, never as an error.
func DurationToHours(raw string) (hours float64, ok bool) {
	digits := nonDigits.ReplaceAllString(raw, "")
	n, err := strconv.Atoi(digits)
	if err != nil || n <= 0 {
		return DefaultDurationHours, false
	}

	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "min"):
		return float64(n) / 60, true
	case strings.Contains(lower, "hr"):
		return float64(n), true
	default:
		return DefaultDurationHours, false
	}
}

// To12Hour renders a military time as "H:MMam" / "H:MMpm".
// Sentinel times return ok=false.
func To12Hour(raw string) (string, bool) {
	hour, minute, ok := HourMinute(raw)
	if !ok {
		return "", false
	}
	suffix := "am"
	if hour > 11 {
		suffix = "pm"
	}
	return fmt.Sprintf("%d:%02d%s", (hour+11)%12+1, minute, suffix), true
}
