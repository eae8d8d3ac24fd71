// Package speech builds the SSML spoken by voice front ends.
package speech

import (
	"fmt"
	"strings"

	"github.com/zapponejosh/audioreader-api/internal/calendar"
	"github.com/zapponejosh/audioreader-api/internal/schedule"
)

// NotApplicable is spoken in place of a time for entries without one.
const NotApplicable = "(not applicable)"

var sanitizer = strings.NewReplacer("[", "", "]", "", "&", "and")

// Sanitize strips characters that break SSML.
func Sanitize(s string) string {
	return sanitizer.Replace(s)
}

// Renderer produces station-specific speech.
type Renderer struct {
	station string
}

// NewRenderer creates a renderer that names station in its announcements.
func NewRenderer(station string) *Renderer {
	return &Renderer{station: station}
}

// Station returns the spoken station name.
func (r *Renderer) Station() string { return r.station }

// SpokenTime renders an entry's start time for a guide sentence.
func SpokenTime(e schedule.Entry) string {
	if t, ok := calendar.To12Hour(e.Time); ok {
		return t
	}
	return NotApplicable
}

// ProgramGuide lists the entries of one day, one sentence each.
func (r *Renderer) ProgramGuide(dayName string, entries []schedule.Entry) string {
	items := make([]string, 0, len(entries))
	for _, e := range entries {
		items = append(items, fmt.Sprintf(`<s>At <say-as interpret-as="time">%s</say-as> is %s.</s>`,
			SpokenTime(e), Sanitize(strings.TrimSpace(e.Title))))
	}

	return fmt.Sprintf("<p>Here is the %s schedule for %s.</p> <p>%s</p>",
		r.station, dayName, strings.Join(items, " "))
}

// NowPlaying announces the program currently being read.
func (r *Renderer) NowPlaying(e schedule.Entry) string {
	return fmt.Sprintf("<s>%s is being read right now on %s.</s>", Sanitize(e.Title), r.station)
}

// NotPlaying is spoken when the current program cannot be determined.
func (r *Renderer) NotPlaying() string {
	return fmt.Sprintf("I'm sorry but I could not determine what is being read on %s at the moment.", r.station)
}

// OnDemand announces playback of a recording aired on prettyDate.
func (r *Renderer) OnDemand(title, prettyDate string) string {
	return fmt.Sprintf("Now playing the latest recording of %s from %s, on %s.", Sanitize(title), prettyDate, r.station)
}

// OnDemandNotFound is spoken when no program matches title.
func (r *Renderer) OnDemandNotFound(title string) string {
	return fmt.Sprintf("I couldn't find a program called %s. If you would like to try again, "+
		"you can say, play on demand, play the live stream, or read me the program guide.", Sanitize(title))
}

// LiveStream announces the main stream.
func (r *Renderer) LiveStream() string {
	return fmt.Sprintf("Now playing %s's live stream.", r.station)
}

// KansasCityStream announces the Kansas City stream.
func (r *Renderer) KansasCityStream() string {
	return "Now playing our Kansas City stream."
}
