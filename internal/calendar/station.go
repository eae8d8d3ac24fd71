package calendar

import (
	"fmt"
	"time"
	_ "time/tzdata" // station zone must resolve on hosts without zoneinfo
)

// DefaultStationZone is the zone the broadcast schedule is published in.
const DefaultStationZone = "America/Chicago"

// StationTime is an instant expressed in the station's local zone.
// All schedule arithmetic works on StationTime, never on the caller's clock.
type StationTime struct {
	t time.Time
}

// At converts t into the station zone.
func At(t time.Time, loc *time.Location) StationTime {
	return StationTime{t: t.In(loc)}
}

// Time returns the underlying instant.
func (s StationTime) Time() time.Time { return s.t }

// Location returns the station zone.
func (s StationTime) Location() *time.Location { return s.t.Location() }

// Hour returns the station-local hour.
func (s StationTime) Hour() int { return s.t.Hour() }

// Minute returns the station-local minute.
func (s StationTime) Minute() int { return s.t.Minute() }

// ISOWeekday returns the weekday index, Monday=0 through Sunday=6.
func (s StationTime) ISOWeekday() int { return ISODay(s.t.Weekday()) }

// ISOWeek returns the ISO-8601 week number of the station-local date.
func (s StationTime) ISOWeek() int { return ISOWeekNumber(s.t) }

// Before reports whether s is earlier than o.
func (s StationTime) Before(o StationTime) bool { return s.t.Before(o.t) }

// Equal reports whether s and o are the same instant.
func (s StationTime) Equal(o StationTime) bool { return s.t.Equal(o.t) }

// DaysBefore returns the local date daysBack days earlier at hour:minute.
// Calendar fields are used so the result stays correct across DST changes.
func (s StationTime) DaysBefore(daysBack, hour, minute int) StationTime {
	y, m, d := s.t.Date()
	return StationTime{t: time.Date(y, m, d-daysBack, hour, minute, 0, 0, s.t.Location())}
}

// PrettyString renders the date as "Monday, March 8th, 2021".
func (s StationTime) PrettyString() string {
	day, _ := IndexToDayName(s.ISOWeekday())
	return fmt.Sprintf("%s, %s %s, %d", day, s.t.Month(), Ordinal(s.t.Day()), s.t.Year())
}

// String implements fmt.Stringer.
func (s StationTime) String() string { return s.t.Format(time.RFC3339) }

// ISOWeekNumber returns the ISO-8601 week (1..53) containing t.
func ISOWeekNumber(t time.Time) int {
	_, week := t.ISOWeek()
	return week
}

// LoadStationLocation resolves a station zone name.
func LoadStationLocation(name string) (*time.Location, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load station time zone %q: %w", name, err)
	}
	return loc, nil
}

// Clock yields the current station-local time. Resolve it once per request
// and pass the result down; nothing below the handlers reads the clock.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// NewClock creates a station clock. A nil now uses time.Now.
func NewClock(loc *time.Location, now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{loc: loc, now: now}
}

// Now returns the current station-local time.
func (c *Clock) Now() StationTime {
	return At(c.now(), c.loc)
}

// Location returns the station zone.
func (c *Clock) Location() *time.Location { return c.loc }
