package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapponejosh/audioreader-api/internal/archive"
	"github.com/zapponejosh/audioreader-api/internal/calendar"
	"github.com/zapponejosh/audioreader-api/internal/config"
	"github.com/zapponejosh/audioreader-api/internal/database"
	"github.com/zapponejosh/audioreader-api/internal/feed"
	"github.com/zapponejosh/audioreader-api/internal/logger"
	"github.com/zapponejosh/audioreader-api/internal/lookup"
	"github.com/zapponejosh/audioreader-api/internal/metrics"
	"github.com/zapponejosh/audioreader-api/internal/schedule"
	"github.com/zapponejosh/audioreader-api/internal/speech"
)

// =============================================================================
// TEST SETUP HELPERS
// =============================================================================

// fakeFeed serves a fixed schedule or error.
type fakeFeed struct {
	entries []schedule.Entry
	err     error
	calls   int
}

func (f *fakeFeed) Fetch(ctx context.Context) ([]schedule.Entry, error) {
	f.calls++
	return f.entries, f.err
}

// testEnv holds a router wired to an in-memory database, a fake feed and
// a clock frozen at Wednesday 2021-03-10 10:15 station time (ISO week 10).
type testEnv struct {
	feed   *fakeFeed
	cfg    *config.Config
	router http.Handler
}

func sampleSchedule() []schedule.Entry {
	return []schedule.Entry{
		{Title: "Morning News", Day: "Mon", Time: "800", Length: "1hr"},
		{Title: "Farm Report", Day: "Mon", Time: "900", Length: "30min"},
		{Title: "KC Newspapers", Day: "Tue", Time: "730", Length: "1hr"},
		{Title: "Arts & Culture", Day: "Wed", Time: "1400", Length: "1hr"},
		{Title: "Pittsburg Today", Day: "Wed", Time: "PITT", Length: "1hr"},
		{Title: "Farm Report", Day: "Wed", Time: "900", Length: "30min"},
		{Title: "Wednesday Book", Day: "Wed", Time: "1000", Length: "1hr"},
	}
}

func setupTest(t *testing.T, modify ...func(*config.Config)) *testEnv {
	t.Helper()
	ctx := context.Background()
	log := logger.Discard()

	db, err := database.Open(database.Config{
		Path:            ":memory:",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
	}, log)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Migrate(ctx)
	require.NoError(t, err)

	regions, err := db.ListRegionCodes(ctx)
	require.NoError(t, err)
	corrections, err := db.ListTitleCorrections(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8080,
		Env:                config.EnvDevelopment,
		DatabasePath:       ":memory:",
		LogLevel:           "error",
		LogFormat:          "text",
		ScheduleURL:        config.DefaultScheduleURL,
		ArchiveURL:         config.DefaultArchiveURL,
		StreamURL:          config.DefaultStreamURL,
		KCStreamURL:        config.DefaultKCStreamURL,
		StationTimezone:    "America/Chicago",
		StationName:        config.DefaultStationName,
		FetchTimeout:       time.Second,
		RateLimitPerMinute: 0,
	}
	for _, m := range modify {
		m(cfg)
	}

	loc, err := cfg.Location()
	require.NoError(t, err)
	frozen := time.Date(2021, time.March, 10, 10, 15, 0, 0, loc)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	resolver := schedule.NewResolver(log, schedule.WithFallbackHook(func(schedule.Entry) { m.DurationFallback() }))
	ff := &fakeFeed{entries: sampleSchedule()}

	h := NewHandlers(Deps{
		Health:      db,
		Feed:        ff,
		Resolver:    resolver,
		Locator:     archive.NewLocator(cfg.ArchiveURL, lookup.New(regions, lookup.Exact), resolver),
		Corrections: lookup.New(corrections, lookup.Folded),
		Clock:       calendar.NewClock(loc, func() time.Time { return frozen }),
		Speech:      speech.NewRenderer(cfg.StationName),
		Config:      cfg,
		Metrics:     m,
		Logger:      log,
	})

	return &testEnv{
		feed:   ff,
		cfg:    cfg,
		router: SetupRoutes(h, cfg, reg, log),
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *ErrorInfo      `json:"error"`
}

func (env *testEnv) get(t *testing.T, path string, headers ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	var resp envelope
	if strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	}
	return rr, resp
}

func decodeData[T any](t *testing.T, resp envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(resp.Data, &v))
	return v
}

// =============================================================================
// HEALTH & MIDDLEWARE
// =============================================================================

func TestHealthCheck(t *testing.T) {
	env := setupTest(t)

	rr, resp := env.get(t, "/health")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, resp.Success)

	data := decodeData[map[string]any](t, resp)
	assert.Equal(t, "healthy", data["status"])
	assert.EqualValues(t, 7, data["region_codes"])
}

func TestRequestID(t *testing.T) {
	env := setupTest(t)

	rr, _ := env.get(t, "/health")
	_, err := uuid.Parse(rr.Header().Get("X-Request-ID"))
	assert.NoError(t, err)

	given := uuid.NewString()
	rr, _ = env.get(t, "/health", "X-Request-ID", given)
	assert.Equal(t, given, rr.Header().Get("X-Request-ID"))

	rr, _ = env.get(t, "/health", "X-Request-ID", "not-a-uuid")
	assert.NotEqual(t, "not-a-uuid", rr.Header().Get("X-Request-ID"))
}

func TestAuth(t *testing.T) {
	env := setupTest(t, func(c *config.Config) { c.APIKey = "test-key" })

	rr, resp := env.get(t, "/api/v1/help")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)

	rr, _ = env.get(t, "/api/v1/help", "X-API-Key", "wrong")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr, _ = env.get(t, "/api/v1/help", "X-API-Key", "test-key")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr, _ = env.get(t, "/health")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRateLimit(t *testing.T) {
	env := setupTest(t, func(c *config.Config) { c.RateLimitPerMinute = 2 })

	for i := 0; i < 2; i++ {
		rr, _ := env.get(t, "/api/v1/help")
		require.Equal(t, http.StatusOK, rr.Code)
	}

	rr, resp := env.get(t, "/api/v1/help")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "RATE_LIMITED", resp.Error.Code)
	assert.Equal(t, "60", rr.Header().Get("Retry-After"))
}

func TestUnknownRoute(t *testing.T) {
	env := setupTest(t)

	rr, resp := env.get(t, "/api/v1/nothing-here")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.False(t, resp.Success)
}

func TestMetricsEndpoint(t *testing.T) {
	env := setupTest(t)

	env.get(t, "/api/v1/now-playing")

	rr, _ := env.get(t, "/metrics")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `audioreader_requests_total{outcome="found",route="now_playing"} 1`)
}

// =============================================================================
// SCHEDULE
// =============================================================================

func TestGetSchedule(t *testing.T) {
	env := setupTest(t)

	tests := []struct {
		name      string
		query     string
		wantDay   string
		wantDate  string
		wantCount int
	}{
		{"defaults to today", "", "Wednesday", "2021-03-10", 4},
		{"short day name", "?day=Mon", "Monday", "2021-03-08", 2},
		{"long day name", "?day=tuesday", "Tuesday", "2021-03-09", 1},
		{"today by name", "?day=Wed", "Wednesday", "2021-03-10", 4},
		{"later weekday maps to last week", "?day=Thu", "Thursday", "2021-03-04", 0},
		{"explicit date", "?date=2021-03-15", "Monday", "2021-03-15", 2},
		{"date wins over day", "?day=Tue&date=2021-03-13", "Saturday", "2021-03-13", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, resp := env.get(t, "/api/v1/schedule"+tt.query)
			require.Equal(t, http.StatusOK, rr.Code)

			data := decodeData[GuideData](t, resp)
			assert.Equal(t, tt.wantDay, data.Day)
			assert.Equal(t, tt.wantDate, data.Date)
			assert.Len(t, data.Entries, tt.wantCount)
			assert.True(t, strings.HasPrefix(data.SSML, "<p>Here is the Audio Reader schedule for "+tt.wantDay+".</p>"))
		})
	}
}

func TestGetSchedule_OrderAndSpeech(t *testing.T) {
	env := setupTest(t)

	_, resp := env.get(t, "/api/v1/schedule?day=Wed")
	data := decodeData[GuideData](t, resp)

	assert.Equal(t, []GuideEntry{
		{Title: "Farm Report", Time: "0900", SpokenTime: "9:00am", Length: "30min"},
		{Title: "Wednesday Book", Time: "1000", SpokenTime: "10:00am", Length: "1hr"},
		{Title: "Arts & Culture", Time: "1400", SpokenTime: "2:00pm", Length: "1hr"},
		{Title: "Pittsburg Today", Time: "PITT", SpokenTime: "(not applicable)", Length: "1hr"},
	}, data.Entries)
	assert.Contains(t, data.SSML, "is Arts and Culture.</s>")
	assert.Contains(t, data.SSML, `<say-as interpret-as="time">(not applicable)</say-as> is Pittsburg Today.`)
}

func TestGetSchedule_BadRequest(t *testing.T) {
	env := setupTest(t)

	for _, q := range []string{"?day=Funday", "?date=03/10/2021"} {
		rr, resp := env.get(t, "/api/v1/schedule"+q)
		assert.Equal(t, http.StatusBadRequest, rr.Code, q)
		assert.Equal(t, "BAD_REQUEST", resp.Error.Code, q)
	}
	assert.Equal(t, 0, env.feed.calls)
}

func TestGetSchedule_FeedFailure(t *testing.T) {
	env := setupTest(t)
	env.feed.err = feed.ErrFetchFailed

	rr, resp := env.get(t, "/api/v1/schedule")
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "FEED_UNAVAILABLE", resp.Error.Code)

	data := decodeData[map[string]string](t, resp)
	assert.Equal(t, "Sorry, there was an error. Please try again.", data["ssml"])
}

// =============================================================================
// NOW PLAYING
// =============================================================================

func TestGetNowPlaying(t *testing.T) {
	env := setupTest(t)

	rr, resp := env.get(t, "/api/v1/now-playing")
	require.Equal(t, http.StatusOK, rr.Code)

	data := decodeData[NowPlayingData](t, resp)
	require.True(t, data.Found)
	assert.Equal(t, "Wednesday Book", data.Entry.Title)
	assert.True(t, data.OnAir)
	assert.True(t, strings.HasPrefix(data.SSML, "<s>Wednesday Book is being read right now on Audio Reader.</s> <s>Say "))
}

func TestGetNowPlaying_NotDetermined(t *testing.T) {
	env := setupTest(t)
	env.feed.entries = []schedule.Entry{
		{Title: "Sunday Only", Day: "Sun", Time: "800", Length: "1hr"},
	}

	rr, resp := env.get(t, "/api/v1/now-playing")
	require.Equal(t, http.StatusOK, rr.Code)

	data := decodeData[NowPlayingData](t, resp)
	assert.False(t, data.Found)
	assert.Nil(t, data.Entry)
	assert.Equal(t, "I'm sorry but I could not determine what is being read on Audio Reader at the moment.", data.SSML)
}

func TestGetNowPlaying_MalformedFeed(t *testing.T) {
	env := setupTest(t)
	env.feed.err = feed.ErrMalformedSchedule

	rr, resp := env.get(t, "/api/v1/now-playing")
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Equal(t, "FEED_MALFORMED", resp.Error.Code)
}

// =============================================================================
// ON DEMAND
// =============================================================================

func TestGetOnDemand(t *testing.T) {
	env := setupTest(t)

	tests := []struct {
		name       string
		query      string
		wantTitle  string
		wantID     string
		wantOffset int64
		wantOn     string
	}{
		{"latest airing", "?title=Farm%20Report", "farm report", "10Wed0900.mp3", 0, "Wednesday, March 10th, 2021"},
		{"one week older", "?title=farm+report&weeks_ago=1", "farm report", "09Wed0900.mp3", 0, "Wednesday, March 3rd, 2021"},
		{"regional with offset", "?title=KC+Newspapers", "kc newspapers", "10Tu0730k.mp3", 1800000, "Tuesday, March 9th, 2021"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, resp := env.get(t, "/api/v1/on-demand"+tt.query)
			require.Equal(t, http.StatusOK, rr.Code)

			data := decodeData[OnDemandData](t, resp)
			require.True(t, data.Found)
			assert.Equal(t, tt.wantTitle, data.Title)
			assert.Equal(t, tt.wantTitle, data.Token)
			assert.Equal(t, tt.wantID, data.Identifier)
			assert.Equal(t, config.DefaultArchiveURL+tt.wantID, data.URL)
			assert.Equal(t, tt.wantOffset, data.OffsetMS)
			assert.Equal(t, tt.wantOn, data.AiredOn)
			assert.Equal(t, "Now playing the latest recording of "+tt.wantTitle+" from "+tt.wantOn+", on Audio Reader.", data.SSML)
		})
	}
}

func TestGetOnDemand_TitleCorrection(t *testing.T) {
	env := setupTest(t)

	_, resp := env.get(t, "/api/v1/on-demand?title=Pittsburgh")
	data := decodeData[OnDemandData](t, resp)
	require.True(t, data.Found)
	assert.Equal(t, "pittsburg today", data.Title)
	assert.Equal(t, "10WedPITT.mp3", data.Identifier)
	assert.Equal(t, int64(0), data.OffsetMS)
}

func TestGetOnDemand_NotFound(t *testing.T) {
	env := setupTest(t)

	rr, resp := env.get(t, "/api/v1/on-demand?title=newsroom")
	require.Equal(t, http.StatusOK, rr.Code)

	data := decodeData[OnDemandData](t, resp)
	assert.False(t, data.Found)
	assert.Equal(t, "the newsroom hour", data.Title)
	assert.Empty(t, data.Identifier)
	assert.True(t, strings.HasPrefix(data.SSML, "I couldn't find a program called the newsroom hour."))
}

func TestGetOnDemand_BadRequest(t *testing.T) {
	env := setupTest(t)

	for _, q := range []string{"", "?title=", "?title=x&weeks_ago=-1", "?title=x&weeks_ago=abc", "?title=x&weeks_ago=52"} {
		rr, _ := env.get(t, "/api/v1/on-demand"+q)
		assert.Equal(t, http.StatusBadRequest, rr.Code, q)
	}
}

// =============================================================================
// STREAMS & HELP
// =============================================================================

func TestGetStream(t *testing.T) {
	env := setupTest(t)

	_, resp := env.get(t, "/api/v1/streams/live")
	data := decodeData[StreamData](t, resp)
	assert.Equal(t, config.DefaultStreamURL, data.URL)
	assert.Equal(t, "Now playing Audio Reader's live stream.", data.SSML)

	_, resp = env.get(t, "/api/v1/streams/kc")
	data = decodeData[StreamData](t, resp)
	assert.Equal(t, config.DefaultKCStreamURL, data.URL)
	assert.Equal(t, "Now playing our Kansas City stream.", data.SSML)

	rr, _ := env.get(t, "/api/v1/streams/wichita")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetHelp(t *testing.T) {
	env := setupTest(t)

	rr, resp := env.get(t, "/api/v1/help")
	require.Equal(t, http.StatusOK, rr.Code)

	data := decodeData[speech.Messages](t, resp)
	assert.Contains(t, data.Launch, "Audio Reader is a reading service for the blind and print disabled.")
	assert.NotEmpty(t, data.Help)
	assert.Equal(t, 0, env.feed.calls)
}
