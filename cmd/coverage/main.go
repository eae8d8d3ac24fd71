// Command coverage audits the published schedule feed. It walks every
// ten-minute slot of one week and reports which slots resolve to a program,
// which are actually on air, and which feed entries need attention.
//
// Usage:
//
//	go run ./cmd/coverage -week 2021-03-08 -o coverage.json
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/zapponejosh/audioreader-api/internal/calendar"
	"github.com/zapponejosh/audioreader-api/internal/config"
	"github.com/zapponejosh/audioreader-api/internal/feed"
	"github.com/zapponejosh/audioreader-api/internal/schedule"
)

const slotMinutes = 10

// DayStats summarizes one weekday.
type DayStats struct {
	Day      string   `json:"day"`
	Date     string   `json:"date"`
	Entries  int      `json:"entries"`
	Slots    int      `json:"slots"`
	Resolved int      `json:"resolved"`
	OnAir    int      `json:"on_air"`
	Gaps     []string `json:"gaps,omitempty"`
}

// Analysis is the full coverage report.
type Analysis struct {
	Entries       int        `json:"entries"`
	BadLengths    []string   `json:"bad_lengths,omitempty"`
	NoFixedDay    []string   `json:"no_fixed_day,omitempty"`
	NoFixedTime   []string   `json:"no_fixed_time,omitempty"`
	Days          []DayStats `json:"days"`
	TotalSlots    int        `json:"total_slots"`
	TotalResolved int        `json:"total_resolved"`
	TotalOnAir    int        `json:"total_on_air"`
}

func main() {
	scheduleURL := flag.String("url", config.DefaultScheduleURL, "Schedule feed URL")
	zone := flag.String("tz", calendar.DefaultStationZone, "Station time zone")
	week := flag.String("week", "", "Monday of the week to audit (YYYY-MM-DD, default this week)")
	verbose := flag.Bool("v", false, "Verbose output (list every gap)")
	outputFile := flag.String("o", "", "Output results to JSON file")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	loc, err := calendar.LoadStationLocation(*zone)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	monday, err := weekStart(*week, loc, time.Now())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("================================================================")
	fmt.Println("Audio Reader - Schedule Coverage")
	fmt.Println("================================================================")
	fmt.Printf("Feed:  %s\n", *scheduleURL)
	fmt.Printf("Week:  %s (%s)\n", monday.Format(time.DateOnly), loc)
	fmt.Println()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	entries, err := feed.NewClient(*scheduleURL, 20*time.Second, logger, nil).Fetch(ctx)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	analysis, err := analyze(ctx, entries, schedule.NewResolver(logger), monday)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	printSummary(analysis, *verbose)

	if *outputFile != "" {
		if err := saveResults(*outputFile, analysis); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nResults written to %s\n", *outputFile)
	}
}

// weekStart returns midnight of the Monday to audit.
func weekStart(value string, loc *time.Location, now time.Time) (time.Time, error) {
	if value != "" {
		t, err := time.ParseInLocation(time.DateOnly, value, loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid -week %q: %w", value, err)
		}
		if t.Weekday() != time.Monday {
			return time.Time{}, fmt.Errorf("-week %s is a %s, not a Monday", value, t.Weekday())
		}
		return t, nil
	}

	st := calendar.At(now, loc)
	return st.DaysBefore(st.ISOWeekday(), 0, 0).Time(), nil
}

func analyze(ctx context.Context, entries []schedule.Entry, resolver *schedule.Resolver, monday time.Time) (Analysis, error) {
	a := Analysis{Entries: len(entries)}

	for _, e := range entries {
		label := fmt.Sprintf("%s (%s %s)", e.Title, e.Day, e.Time)
		if _, ok := calendar.DurationToHours(e.Length); !ok {
			a.BadLengths = append(a.BadLengths, fmt.Sprintf("%s length %q", label, e.Length))
		}
		if _, ok := e.Weekday(); !ok {
			a.NoFixedDay = append(a.NoFixedDay, label)
		}
		if !e.HasFixedTime() {
			a.NoFixedTime = append(a.NoFixedTime, label)
		}
	}

	a.Days = make([]DayStats, calendar.DaysPerWeek)
	g, gctx := errgroup.WithContext(ctx)
	for day := 0; day < calendar.DaysPerWeek; day++ {
		day := day
		g.Go(func() error {
			stats, err := analyzeDay(gctx, entries, resolver, monday, day)
			if err != nil {
				return err
			}
			a.Days[day] = stats
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Analysis{}, err
	}

	for _, d := range a.Days {
		a.TotalSlots += d.Slots
		a.TotalResolved += d.Resolved
		a.TotalOnAir += d.OnAir
	}
	sort.Strings(a.BadLengths)
	return a, nil
}

func analyzeDay(ctx context.Context, entries []schedule.Entry, resolver *schedule.Resolver, monday time.Time, day int) (DayStats, error) {
	name, err := calendar.IndexToDayName(day)
	if err != nil {
		return DayStats{}, err
	}

	dayEntries, err := resolver.DaySchedule(entries, day)
	if err != nil {
		return DayStats{}, err
	}

	loc := monday.Location()
	y, m, d := monday.Date()
	stats := DayStats{
		Day:     name,
		Date:    time.Date(y, m, d+day, 0, 0, 0, 0, loc).Format(time.DateOnly),
		Entries: len(dayEntries),
	}

	for minute := 0; minute < 24*60; minute += slotMinutes {
		if err := ctx.Err(); err != nil {
			return DayStats{}, err
		}

		now := calendar.At(time.Date(y, m, d+day, minute/60, minute%60, 0, 0, loc), loc)
		if now.Hour() != minute/60 {
			// Skipped by a spring-forward clock change.
			continue
		}
		stats.Slots++

		if _, err := resolver.FindNowPlaying(entries, now); err == nil {
			stats.Resolved++
		}
		if _, err := resolver.FindCurrentAiring(entries, now); err == nil {
			stats.OnAir++
		} else {
			stats.Gaps = append(stats.Gaps, fmt.Sprintf("%02d:%02d", minute/60, minute%60))
		}
	}

	return stats, nil
}

func printSummary(a Analysis, verbose bool) {
	fmt.Println("--- Feed Entries ---")
	fmt.Printf("  Entries:            %d\n", a.Entries)
	fmt.Printf("  Unparseable length: %d\n", len(a.BadLengths))
	fmt.Printf("  No fixed day:       %d\n", len(a.NoFixedDay))
	fmt.Printf("  No fixed time:      %d\n", len(a.NoFixedTime))
	for _, s := range a.BadLengths {
		fmt.Printf("    ✗ %s\n", s)
	}
	if verbose {
		for _, s := range a.NoFixedDay {
			fmt.Printf("    • no day: %s\n", s)
		}
		for _, s := range a.NoFixedTime {
			fmt.Printf("    • no time: %s\n", s)
		}
	}
	fmt.Println()

	fmt.Println("--- Coverage by Day ---")
	for _, d := range a.Days {
		fmt.Printf("  %-9s %s  %3d programs  now-playing %5.1f%%  on-air %5.1f%%\n",
			d.Day, d.Date, d.Entries, pct(d.Resolved, d.Slots), pct(d.OnAir, d.Slots))
		if verbose && len(d.Gaps) > 0 {
			fmt.Printf("    gaps: %v\n", d.Gaps)
		}
	}
	fmt.Println()

	fmt.Printf("Total: %d slots, now-playing %.1f%%, on-air %.1f%%\n",
		a.TotalSlots, pct(a.TotalResolved, a.TotalSlots), pct(a.TotalOnAir, a.TotalSlots))
}

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) * 100 / float64(total)
}

func saveResults(path string, a Analysis) error {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}
