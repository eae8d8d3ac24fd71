package schedule

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/zapponejosh/audioreader-api/internal/calendar"
	"github.com/zapponejosh/audioreader-api/internal/lookup"
)

const (
	// nowPlayingStep is the resolution of feed start times, in minutes.
	nowPlayingStep = 10

	// nowPlayingSteps bounds the lookback: 60 x 10 minutes = 10 hours.
	nowPlayingSteps = 60
)

// ResolvedAiring is a concrete past occurrence of an entry.
type ResolvedAiring struct {
	Entry    Entry
	AiredAt  calendar.StationTime
	WeeksAgo int
}

// Resolver answers "what airs when" against a list of entries.
type Resolver struct {
	logger     *slog.Logger
	onFallback func(Entry)
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithFallbackHook registers fn to be called whenever an entry's length
// could not be parsed and the one-hour default was used.
func WithFallbackHook(fn func(Entry)) Option {
	return func(r *Resolver) {
		r.onFallback = fn
	}
}

// NewResolver creates a resolver.
func NewResolver(logger *slog.Logger, opts ...Option) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Resolver{logger: logger}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DurationHours returns the entry's length in hours. An unparseable length
// falls back to one hour and is reported as a warning.
func (r *Resolver) DurationHours(e Entry) float64 {
	hours, ok := calendar.DurationToHours(e.Length)
	if !ok {
		r.logger.Warn("program length not recognized, assuming one hour",
			slog.String("title", e.Title),
			slog.String("length", e.Length),
		)
		if r.onFallback != nil {
			r.onFallback(e)
		}
	}
	return hours
}

// IsAiring reports whether e's window on its weekday contains now.
// Elapsed minutes since the start must be non-negative and not exceed the
// length in minutes.
func (r *Resolver) IsAiring(e Entry, now calendar.StationTime) bool {
	wd, ok := e.Weekday()
	if !ok || wd != now.ISOWeekday() || !e.HasFixedTime() {
		return false
	}

	hour, minute := e.HourMinute()
	elapsed := (now.Hour()*60 + now.Minute()) - (hour*60 + minute)
	if elapsed < 0 {
		return false
	}
	return float64(elapsed) <= r.DurationHours(e)*60
}

// FindCurrentAiring returns the first entry whose window contains now.
func (r *Resolver) FindCurrentAiring(entries []Entry, now calendar.StationTime) (Entry, error) {
	for _, e := range entries {
		if r.IsAiring(e, now) {
			return e, nil
		}
	}
	return Entry{}, ErrNotPlaying
}

// FindNowPlaying approximates "what just started" using the feed's coarse
// 10-minute start times.
//
// The current time is rounded down to a multiple of ten minutes (minimum
// ten) and turned into an integer key hour*100+minute. Each step looks for
// an entry on today's weekday with exactly that start time, then subtracts
// ten from the key. Keys like 1090 are visited and match nothing, and
// between hh:00 and hh:10 the first key tried is hh:10.
func (r *Resolver) FindNowPlaying(entries []Entry, now calendar.StationTime) (Entry, error) {
	today := now.ISOWeekday()

	minute := now.Minute()
	if minute < nowPlayingStep {
		minute = nowPlayingStep
	} else {
		minute -= minute % nowPlayingStep
	}
	key := now.Hour()*100 + minute

	for i := 0; i < nowPlayingSteps; i++ {
		for _, e := range entries {
			wd, ok := e.Weekday()
			if !ok || wd != today {
				continue
			}
			if start, ok := e.military(); ok && start == key {
				return e, nil
			}
		}
		key -= nowPlayingStep
	}

	r.logger.Debug("no now-playing match in lookback window",
		slog.Int("day", today),
		slog.Int("last_key", key+nowPlayingStep),
	)
	return Entry{}, ErrNotPlaying
}

// LastAired returns the most recent past date e aired, weeksAgo weeks back.
//
// If e airs today and its start plus length (zero in nowPlaying mode) is
// still ahead of the current hour, this week's airing has not happened yet
// and last week's is used.
func (r *Resolver) LastAired(e Entry, now calendar.StationTime, weeksAgo int, nowPlaying bool) (calendar.StationTime, error) {
	wd, ok := e.Weekday()
	if !ok {
		return calendar.StationTime{}, fmt.Errorf("%w: %q", ErrNoFixedDay, e.Day)
	}
	hour, minute := e.HourMinute()

	diff := now.ISOWeekday() - wd
	if diff < 0 {
		diff += calendar.DaysPerWeek
	}

	duration := 0.0
	if !nowPlaying {
		duration = r.DurationHours(e)
	}
	if diff == 0 && float64(now.Hour())-(float64(hour)+duration) < 0 {
		diff += calendar.DaysPerWeek
	}
	if weeksAgo > 0 {
		diff += weeksAgo * calendar.DaysPerWeek
	}

	return now.DaysBefore(diff, hour, minute), nil
}

// MostRecentAiring finds the latest past airing of the program titled title.
//
// Titles match after trimming and case folding. When several entries share
// the title, the one with the latest LastAired date wins; on a tie the entry
// with the later weekday wins.
func (r *Resolver) MostRecentAiring(entries []Entry, title string, now calendar.StationTime, weeksAgo int, nowPlaying bool) (ResolvedAiring, error) {
	candidates := r.matchTitle(entries, title)
	if len(candidates) == 0 {
		return ResolvedAiring{}, fmt.Errorf("%w: %q", ErrTitleNotFound, title)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, _ := candidates[i].Weekday()
		b, _ := candidates[j].Weekday()
		return a < b
	})

	var best ResolvedAiring
	for i, c := range candidates {
		at, err := r.LastAired(c, now, weeksAgo, nowPlaying)
		if err != nil {
			return ResolvedAiring{}, err
		}
		if i == 0 || !at.Before(best.AiredAt) {
			best = ResolvedAiring{Entry: c, AiredAt: at, WeeksAgo: weeksAgo}
		}
	}
	return best, nil
}

// matchTitle returns the entries with a fixed weekday whose title matches.
func (r *Resolver) matchTitle(entries []Entry, title string) []Entry {
	key := lookup.FoldKey(title)
	if key == "" {
		return nil
	}

	var out []Entry
	for _, e := range entries {
		if lookup.FoldKey(e.Title) != key {
			continue
		}
		if _, ok := e.Weekday(); !ok {
			r.logger.Debug("skipping entry without fixed weekday",
				slog.String("title", e.Title),
				slog.String("day", e.Day),
			)
			continue
		}
		out = append(out, e)
	}
	return out
}

// DaySchedule returns day's entries in chronological order.
//
// Start times compare numerically. Entries without a numeric start time sort
// after all timed entries and keep their feed order.
func (r *Resolver) DaySchedule(entries []Entry, day int) ([]Entry, error) {
	if _, err := calendar.IndexToDayAbbrev(day); err != nil {
		return nil, err
	}

	out := make([]Entry, 0)
	for _, e := range entries {
		if wd, ok := e.Weekday(); ok && wd == day {
			out = append(out, e)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, aok := out[i].military()
		b, bok := out[j].military()
		switch {
		case aok && bok:
			return a < b
		case aok:
			return true
		default:
			return false
		}
	})
	return out, nil
}
