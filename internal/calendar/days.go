// Package calendar provides the weekday, clock-time and ISO week conversions
// used to resolve the station's weekly program schedule.
//
// Weekdays are numbered the ISO way: Monday is 0 and Sunday is 6.
package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownDay is returned when a weekday name is not recognized.
var ErrUnknownDay = errors.New("unknown day")

// ErrDayOutOfRange is returned when a weekday index is outside 0..6.
var ErrDayOutOfRange = errors.New("day index out of range")

// DaysPerWeek is the number of weekdays in a schedule week.
const DaysPerWeek = 7

var dayAbbrevs = [DaysPerWeek]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

var dayNames = [DaysPerWeek]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// DayNameToIndex converts a weekday name ("Mon", "monday", "SUN") to its
// ISO index. Matching is case-insensitive and ignores surrounding space.
func DayNameToIndex(name string) (int, error) {
	key := strings.TrimSpace(name)
	for i := range dayAbbrevs {
		if strings.EqualFold(key, dayAbbrevs[i]) || strings.EqualFold(key, dayNames[i]) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDay, name)
}

// IndexToDayAbbrev returns the three-letter abbreviation used by the feed.
func IndexToDayAbbrev(i int) (string, error) {
	if i < 0 || i >= DaysPerWeek {
		return "", fmt.Errorf("%w: %d", ErrDayOutOfRange, i)
	}
	return dayAbbrevs[i], nil
}

// IndexToDayName returns the full weekday name (Monday, Tuesday, ...).
func IndexToDayName(i int) (string, error) {
	if i < 0 || i >= DaysPerWeek {
		return "", fmt.Errorf("%w: %d", ErrDayOutOfRange, i)
	}
	return dayNames[i], nil
}

// ISODay maps a time.Weekday (Sunday=0) to the ISO index (Monday=0).
func ISODay(wd time.Weekday) int {
	return (int(wd) + 6) % DaysPerWeek
}

// Ordinal returns the ordinal form of a number (1st, 2nd, 11th, 23rd).
func Ordinal(n int) string {
	if n%100 >= 11 && n%100 <= 13 {
		return fmt.Sprintf("%dth", n)
	}
	switch n % 10 {
	case 1:
		return fmt.Sprintf("%dst", n)
	case 2:
		return fmt.Sprintf("%dnd", n)
	case 3:
		return fmt.Sprintf("%drd", n)
	default:
		return fmt.Sprintf("%dth", n)
	}
}
