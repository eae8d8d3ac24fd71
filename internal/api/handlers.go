package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/audioreader-api/internal/archive"
	"github.com/zapponejosh/audioreader-api/internal/calendar"
	"github.com/zapponejosh/audioreader-api/internal/config"
	"github.com/zapponejosh/audioreader-api/internal/feed"
	"github.com/zapponejosh/audioreader-api/internal/logger"
	"github.com/zapponejosh/audioreader-api/internal/lookup"
	"github.com/zapponejosh/audioreader-api/internal/metrics"
	"github.com/zapponejosh/audioreader-api/internal/schedule"
	"github.com/zapponejosh/audioreader-api/internal/speech"
)

// maxWeeksAgo bounds the weeks_ago parameter to one archive year.
const maxWeeksAgo = archive.WeeksPerYear - 1

// ScheduleSource supplies the current weekly schedule.
type ScheduleSource interface {
	Fetch(ctx context.Context) ([]schedule.Entry, error)
}

// HealthChecker reports whether a dependency is usable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Deps are the collaborators the handlers need.
type Deps struct {
	Health      HealthChecker
	Feed        ScheduleSource
	Resolver    *schedule.Resolver
	Locator     *archive.Locator
	Corrections *lookup.Table
	Clock       *calendar.Clock
	Speech      *speech.Renderer
	Config      *config.Config
	Metrics     *metrics.Metrics
	Logger      *slog.Logger
}

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	health      HealthChecker
	feed        ScheduleSource
	resolver    *schedule.Resolver
	locator     *archive.Locator
	corrections *lookup.Table
	clock       *calendar.Clock
	speech      *speech.Renderer
	cfg         *config.Config
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(d Deps) *Handlers {
	return &Handlers{
		health:      d.Health,
		feed:        d.Feed,
		resolver:    d.Resolver,
		locator:     d.Locator,
		corrections: d.Corrections,
		clock:       d.Clock,
		speech:      d.Speech,
		cfg:         d.Config,
		metrics:     d.Metrics,
		logger:      d.Logger,
	}
}

// =============================================================================
// Response payloads
// =============================================================================

// GuideEntry is one line of a day's program guide.
type GuideEntry struct {
	Title      string `json:"title"`
	Time       string `json:"time"`
	SpokenTime string `json:"spoken_time"`
	Length     string `json:"length"`
}

// GuideData is the payload of GET /api/v1/schedule.
type GuideData struct {
	Day     string       `json:"day"`
	Date    string       `json:"date"`
	Entries []GuideEntry `json:"entries"`
	SSML    string       `json:"ssml"`
}

// NowPlayingData is the payload of GET /api/v1/now-playing.
type NowPlayingData struct {
	Found    bool        `json:"found"`
	Entry    *GuideEntry `json:"entry,omitempty"`
	OnAir    bool        `json:"on_air"`
	SSML     string      `json:"ssml"`
	Reprompt string      `json:"reprompt"`
}

// OnDemandData is the payload of GET /api/v1/on-demand.
type OnDemandData struct {
	Found      bool   `json:"found"`
	Title      string `json:"title"`
	Identifier string `json:"identifier,omitempty"`
	URL        string `json:"url,omitempty"`
	OffsetMS   int64  `json:"offset_ms"`
	AiredAt    string `json:"aired_at,omitempty"`
	AiredOn    string `json:"aired_on,omitempty"`
	Token      string `json:"token,omitempty"`
	SSML       string `json:"ssml"`
	Reprompt   string `json:"reprompt,omitempty"`
}

// StreamData is the payload of GET /api/v1/streams/{name}.
type StreamData struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	SSML string `json:"ssml"`
}

// speechOnly carries speech when a request fails.
type speechOnly struct {
	SSML string `json:"ssml"`
}

func guideEntry(e schedule.Entry) GuideEntry {
	return GuideEntry{
		Title:      e.Title,
		Time:       e.StartTime(),
		SpokenTime: speech.SpokenTime(e),
		Length:     e.Length,
	}
}

// =============================================================================
// Handlers
// =============================================================================

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.health.Health(r.Context()); err != nil {
		h.logger.Warn("health check failed", slog.Any("error", err))
		WriteError(w, http.StatusServiceUnavailable, "Database unhealthy", "HEALTH_CHECK_FAILED")
		return
	}

	WriteSuccess(w, map[string]any{
		"status":            "healthy",
		"region_codes":      h.locatorRegions(),
		"title_corrections": h.corrections.Len(),
	})
}

func (h *Handlers) locatorRegions() int {
	if h.locator == nil {
		return 0
	}
	return h.locator.RegionCount()
}

// GetSchedule handles GET /api/v1/schedule?day=Mon&date=YYYY-MM-DD
//
// date wins over day; with neither, the station-local today is used.
func (h *Handlers) GetSchedule(w http.ResponseWriter, r *http.Request) {
	const route = "schedule"
	now := h.clock.Now()

	target, err := h.guideDate(now, r.URL.Query().Get("day"), r.URL.Query().Get("date"))
	if err != nil {
		h.metrics.Request(route, "bad_request")
		WriteBadRequest(w, err.Error())
		return
	}

	entries, ok := h.fetch(w, r, route)
	if !ok {
		return
	}

	day := target.ISOWeekday()
	dayEntries, err := h.resolver.DaySchedule(entries, day)
	if err != nil {
		h.metrics.Request(route, "error")
		logger.Error(r.Context(), "day schedule failed", err, slog.Int("day", day))
		WriteInternalError(w, "Failed to build schedule")
		return
	}

	dayName, _ := calendar.IndexToDayName(day)
	items := make([]GuideEntry, 0, len(dayEntries))
	for _, e := range dayEntries {
		items = append(items, guideEntry(e))
	}

	h.metrics.Request(route, "ok")
	WriteSuccess(w, GuideData{
		Day:     dayName,
		Date:    target.Time().Format(time.DateOnly),
		Entries: items,
		SSML:    h.speech.ProgramGuide(dayName, dayEntries),
	})
}

// guideDate resolves the guide query to a station-local date. A weekday name
// maps to its most recent occurrence, today included.
func (h *Handlers) guideDate(now calendar.StationTime, day, date string) (calendar.StationTime, error) {
	if date = strings.TrimSpace(date); date != "" {
		t, err := time.ParseInLocation(time.DateOnly, date, now.Location())
		if err != nil {
			return calendar.StationTime{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", date)
		}
		return calendar.At(t, now.Location()), nil
	}

	if day = strings.TrimSpace(day); day != "" {
		idx, err := calendar.DayNameToIndex(day)
		if err != nil {
			return calendar.StationTime{}, fmt.Errorf("unknown day %q", day)
		}
		diff := (now.ISOWeekday() - idx + calendar.DaysPerWeek) % calendar.DaysPerWeek
		return now.DaysBefore(diff, 0, 0), nil
	}

	return now, nil
}

// GetNowPlaying handles GET /api/v1/now-playing
func (h *Handlers) GetNowPlaying(w http.ResponseWriter, r *http.Request) {
	const route = "now_playing"
	now := h.clock.Now()
	msgs := h.speech.Messages()

	entries, ok := h.fetch(w, r, route)
	if !ok {
		return
	}

	e, err := h.resolver.FindNowPlaying(entries, now)
	if errors.Is(err, schedule.ErrNotPlaying) {
		logger.Info(r.Context(), "now playing not determined", slog.String("now", now.String()))
		h.metrics.Request(route, "not_found")
		WriteSuccess(w, NowPlayingData{
			SSML:     h.speech.NotPlaying(),
			Reprompt: msgs.LaunchReprompt,
		})
		return
	}
	if err != nil {
		h.metrics.Request(route, "error")
		logger.Error(r.Context(), "now playing failed", err)
		WriteInternalError(w, "Failed to resolve now playing")
		return
	}

	item := guideEntry(e)
	h.metrics.Request(route, "found")
	WriteSuccess(w, NowPlayingData{
		Found:    true,
		Entry:    &item,
		OnAir:    h.resolver.IsAiring(e, now),
		SSML:     h.speech.NowPlaying(e) + " <s>" + msgs.NowPlayingHint + ".</s>",
		Reprompt: msgs.NowPlayingShort,
	})
}

// GetOnDemand handles GET /api/v1/on-demand?title=...&weeks_ago=N
func (h *Handlers) GetOnDemand(w http.ResponseWriter, r *http.Request) {
	const route = "on_demand"
	now := h.clock.Now()

	spoken := strings.TrimSpace(r.URL.Query().Get("title"))
	if spoken == "" {
		h.metrics.Request(route, "bad_request")
		WriteBadRequest(w, "title parameter is required")
		return
	}

	weeksAgo := 0
	if raw := r.URL.Query().Get("weeks_ago"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > maxWeeksAgo {
			h.metrics.Request(route, "bad_request")
			WriteBadRequest(w, fmt.Sprintf("weeks_ago must be between 0 and %d", maxWeeksAgo))
			return
		}
		weeksAgo = n
	}

	title := schedule.CorrectTitle(h.corrections, spoken)

	entries, ok := h.fetch(w, r, route)
	if !ok {
		return
	}

	rec, err := h.locator.Find(entries, title, now, weeksAgo)
	if errors.Is(err, schedule.ErrTitleNotFound) {
		logger.Info(r.Context(), "on-demand title not found",
			slog.String("spoken", spoken), slog.String("title", title))
		h.metrics.Request(route, "not_found")
		WriteSuccess(w, OnDemandData{
			Title:    title,
			SSML:     h.speech.OnDemandNotFound(title),
			Reprompt: h.speech.Messages().LaunchReprompt,
		})
		return
	}
	if err != nil {
		h.metrics.Request(route, "error")
		logger.Error(r.Context(), "on-demand lookup failed", err, slog.String("title", title))
		WriteInternalError(w, "Failed to locate recording")
		return
	}

	pretty := rec.AiredAt.PrettyString()
	h.metrics.Request(route, "found")
	WriteSuccess(w, OnDemandData{
		Found:      true,
		Title:      title,
		Identifier: rec.Reference.Identifier,
		URL:        rec.URL,
		OffsetMS:   rec.Reference.OffsetMS,
		AiredAt:    rec.AiredAt.String(),
		AiredOn:    pretty,
		Token:      title,
		SSML:       h.speech.OnDemand(title, pretty),
	})
}

// GetStream handles GET /api/v1/streams/{name}
func (h *Handlers) GetStream(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var data StreamData
	switch name {
	case "live":
		data = StreamData{Name: name, URL: h.cfg.StreamURL, SSML: h.speech.LiveStream()}
	case "kc":
		data = StreamData{Name: name, URL: h.cfg.KCStreamURL, SSML: h.speech.KansasCityStream()}
	default:
		h.metrics.Request("stream", "not_found")
		WriteNotFound(w, fmt.Sprintf("unknown stream %q", name))
		return
	}

	h.metrics.Request("stream", name)
	WriteSuccess(w, data)
}

// GetHelp handles GET /api/v1/help
func (h *Handlers) GetHelp(w http.ResponseWriter, r *http.Request) {
	h.metrics.Request("help", "ok")
	WriteSuccess(w, h.speech.Messages())
}

// fetch loads the schedule for one request. On failure it writes the 502
// response and returns false.
func (h *Handlers) fetch(w http.ResponseWriter, r *http.Request, route string) ([]schedule.Entry, bool) {
	entries, err := h.feed.Fetch(r.Context())
	if err == nil {
		return entries, true
	}

	h.metrics.Request(route, "feed_error")
	logger.Error(r.Context(), "schedule unavailable", err, slog.String("route", route))

	code := "FEED_UNAVAILABLE"
	if errors.Is(err, feed.ErrMalformedSchedule) {
		code = "FEED_MALFORMED"
	}
	WriteErrorData(w, http.StatusBadGateway, speechOnly{SSML: h.speech.Messages().Error},
		"Schedule unavailable", code)
	return nil, false
}
