// Package schedule resolves the station's weekly broadcast schedule:
// what is airing now, when a program last aired, and what is on a given day.
//
// Every operation is a pure query over the entries and a station-local
// instant supplied by the caller.
package schedule

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/zapponejosh/audioreader-api/internal/calendar"
)

var (
	// ErrTitleNotFound is returned when no entry carries the requested title.
	ErrTitleNotFound = errors.New("program not found")

	// ErrNotPlaying is returned when nothing matches the current instant.
	ErrNotPlaying = errors.New("nothing playing")

	// ErrNoFixedDay is returned for entries whose day is a sentinel.
	ErrNoFixedDay = errors.New("entry has no fixed weekday")

	// ErrInvalidEntry is returned when an entry fails structural validation.
	ErrInvalidEntry = errors.New("invalid schedule entry")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Entry is one row of the published schedule feed.
type Entry struct {
	Title  string `json:"title" validate:"required"`
	Day    string `json:"day" validate:"required"`    // Mon..Sun, or a sentinel
	Time   string `json:"time" validate:"required"`   // military time, e.g. "800"
	Length string `json:"length" validate:"required"` // e.g. "30min", "2hrs"
}

// Validate checks that every field of the entry is present.
func (e Entry) Validate() error {
	if err := validate.Struct(e); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	return nil
}

// Weekday returns the ISO weekday index. ok is false for sentinel days.
func (e Entry) Weekday() (int, bool) {
	i, err := calendar.DayNameToIndex(e.Day)
	if err != nil {
		return 0, false
	}
	return i, true
}

// StartTime returns the normalized four-character start time.
func (e Entry) StartTime() string {
	return calendar.NormalizeTime(e.Time)
}

// HourMinute returns the start hour and minute; sentinel times are midnight.
func (e Entry) HourMinute() (hour, minute int) {
	hour, minute, _ = calendar.HourMinute(e.Time)
	return hour, minute
}

// HasFixedTime reports whether the entry has a numeric start time.
func (e Entry) HasFixedTime() bool {
	return calendar.IsNumericTime(e.Time)
}

// military returns the start time as an integer (e.g. 830).
func (e Entry) military() (int, bool) {
	return calendar.MilitaryValue(e.Time)
}
