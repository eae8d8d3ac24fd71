// Package archive derives on-demand recording identifiers for past airings.
//
// Recordings are stored hourly as {week}{day}{hour}{minute}[{region}].mp3,
// where week is the two-digit ISO week of the airing. Regional variants use
// only the first two letters of the day and append a one-letter region code.
package archive

import (
	"fmt"

	"github.com/zapponejosh/audioreader-api/internal/calendar"
	"github.com/zapponejosh/audioreader-api/internal/lookup"
	"github.com/zapponejosh/audioreader-api/internal/schedule"
)

// WeeksPerYear is used to wrap week numbers below 1 into the previous year.
// TODO: use the real week count of the previous ISO year (53 every 5-6 years).
const WeeksPerYear = 52

// Reference addresses one archived recording.
type Reference struct {
	Identifier string `json:"identifier"`
	OffsetMS   int64  `json:"offset_ms"`
}

// Recording is a resolved past airing together with its archive reference.
type Recording struct {
	Entry     schedule.Entry
	AiredAt   calendar.StationTime
	Reference Reference
	URL       string
}

// Locator maps entries to archive references.
type Locator struct {
	baseURL  string
	regions  *lookup.Table
	resolver *schedule.Resolver
}

// NewLocator creates a locator. baseURL must end with a slash; regions maps
// exact feed titles to one-letter region codes.
func NewLocator(baseURL string, regions *lookup.Table, resolver *schedule.Resolver) *Locator {
	return &Locator{
		baseURL:  baseURL,
		regions:  regions,
		resolver: resolver,
	}
}

// Find resolves the most recent airing of title and its recording.
// It returns schedule.ErrTitleNotFound when no entry matches.
func (l *Locator) Find(entries []schedule.Entry, title string, now calendar.StationTime, weeksAgo int) (*Recording, error) {
	// Instances are compared by start time only; length is ignored.
	airing, err := l.resolver.MostRecentAiring(entries, title, now, 0, true)
	if err != nil {
		return nil, err
	}

	ref, at, err := l.Locate(airing.Entry, now, weeksAgo)
	if err != nil {
		return nil, err
	}

	return &Recording{
		Entry:     airing.Entry,
		AiredAt:   at,
		Reference: ref,
		URL:       l.URL(ref),
	}, nil
}

// Locate builds the reference for e's airing weeksAgo weeks before the
// current one and returns when that airing started. If this week's airing
// has not happened yet (it is on air, its day is later in the week, or it
// is later today) the previous week is used. The identifier's week and the
// returned start always fall in the same ISO week.
func (l *Locator) Locate(e schedule.Entry, now calendar.StationTime, weeksAgo int) (Reference, calendar.StationTime, error) {
	wd, ok := e.Weekday()
	if !ok {
		return Reference{}, calendar.StationTime{}, fmt.Errorf("%w: %q", schedule.ErrNoFixedDay, e.Day)
	}

	hour, minute := e.HourMinute()
	today := now.ISOWeekday()

	weeks := weeksAgo
	if l.resolver.IsAiring(e, now) || today < wd || (today == wd && now.Hour() < hour) {
		weeks++
	}

	at := now.DaysBefore(today-wd+weeks*calendar.DaysPerWeek, hour, minute)
	return l.reference(e, now, weeks), at, nil
}

func (l *Locator) reference(e schedule.Entry, now calendar.StationTime, weeks int) Reference {
	_, minute := e.HourMinute()
	week := FormatWeek(WrapWeek(now.ISOWeek() - weeks))
	start := e.StartTime()

	var id string
	if region, ok := l.regions.Get(e.Title); ok {
		id = week + prefix(e.Day, 2) + slice(start, 0, 2) + slice(start, 2, 4) + region + ".mp3"
	} else {
		id = week + e.Day + slice(start, 0, 2) + slice(start, 2, 4) + ".mp3"
	}

	return Reference{
		Identifier: id,
		OffsetMS:   int64(minute) * 60000,
	}
}

// RegionCount returns the number of titles with a regional archive code.
func (l *Locator) RegionCount() int { return l.regions.Len() }

// URL joins the archive base URL and the reference identifier.
func (l *Locator) URL(ref Reference) string {
	return l.baseURL + ref.Identifier
}

// WrapWeek maps week numbers below 1 into the previous year, assuming
// 52-week years: 0 -> 52, -3 -> 49.
func WrapWeek(week int) int {
	if week < 1 {
		return WeeksPerYear + week
	}
	return week
}

// FormatWeek renders a week number as two digits.
func FormatWeek(week int) string {
	return fmt.Sprintf("%02d", week)
}

func prefix(s string, n int) string {
	return slice(s, 0, n)
}

// slice returns s[from:to] clamped to the length of s.
func slice(s string, from, to int) string {
	if from > len(s) {
		return ""
	}
	if to > len(s) {
		to = len(s)
	}
	return s[from:to]
}
