// Package feed fetches the published weekly schedule.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/zapponejosh/audioreader-api/internal/metrics"
	"github.com/zapponejosh/audioreader-api/internal/schedule"
)

var (
	// ErrFetchFailed is returned when the feed could not be retrieved.
	ErrFetchFailed = errors.New("schedule fetch failed")

	// ErrMalformedSchedule is returned when the feed body is not a valid
	// array of schedule entries.
	ErrMalformedSchedule = errors.New("malformed schedule data")
)

// maxBodyBytes bounds the feed document size.
const maxBodyBytes = 4 << 20

// Client retrieves the schedule feed. It holds no state between calls.
type Client struct {
	url     string
	http    *http.Client
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewClient creates a feed client for url.
func NewClient(url string, timeout time.Duration, logger *slog.Logger, m *metrics.Metrics) *Client {
	return &Client{
		url:     url,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
		metrics: m,
	}
}

// Fetch downloads and decodes the full schedule.
func (c *Client) Fetch(ctx context.Context) ([]schedule.Entry, error) {
	start := time.Now()
	defer func() { c.metrics.ObserveFetch(time.Since(start)) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, c.fail("request", fmt.Errorf("%w: %v", ErrFetchFailed, err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.fail("transport", fmt.Errorf("%w: %v", ErrFetchFailed, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.fail("status", fmt.Errorf("%w: unexpected status %d", ErrFetchFailed, resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, c.fail("read", fmt.Errorf("%w: %v", ErrFetchFailed, err))
	}

	entries, err := Decode(body)
	if err != nil {
		return nil, c.fail("decode", err)
	}

	c.logger.Debug("schedule fetched", "entries", len(entries), "duration", time.Since(start))
	return entries, nil
}

func (c *Client) fail(reason string, err error) error {
	c.metrics.FetchFailed(reason)
	c.logger.Error("schedule fetch failed", "url", c.url, "reason", reason, "error", err)
	return err
}

// Decode parses a feed document. Every entry must carry all four fields.
func Decode(body []byte) ([]schedule.Entry, error) {
	var entries []schedule.Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSchedule, err)
	}
	if entries == nil {
		return nil, fmt.Errorf("%w: document is not an array", ErrMalformedSchedule)
	}

	for i, e := range entries {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrMalformedSchedule, i, err)
		}
	}

	return entries, nil
}
