// Command apitest exercises every endpoint of a running Audio Reader API.
//
// Usage:
//
//	go run ./cmd/apitest -url http://localhost:8080 -key $API_KEY -title "kc newspapers"
package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/zapponejosh/audioreader-api/internal/api"
	"github.com/zapponejosh/audioreader-api/internal/speech"
)

// APIResponse mirrors the server envelope with the data left raw.
type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *api.ErrorInfo  `json:"error,omitempty"`
}

// =============================================================================
// Test Runner
// =============================================================================

type TestRunner struct {
	baseURL      string
	apiKey       string
	title        string
	client       *http.Client
	verbose      bool
	successCount int
	errorCount   int
	errors       []string
}

func NewTestRunner(baseURL, apiKey, title string, verbose bool) *TestRunner {
	return &TestRunner{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		title:   title,
		client: &http.Client{
			Timeout: 20 * time.Second,
		},
		verbose: verbose,
	}
}

func (tr *TestRunner) Run() {
	fmt.Println("==============================================")
	fmt.Println("Audio Reader API Test Suite")
	fmt.Println("==============================================")
	fmt.Printf("Base URL: %s\n", tr.baseURL)
	fmt.Println()

	tr.testHealth()
	tr.testSchedule()
	tr.testNowPlaying()
	tr.testOnDemand()
	tr.testStreams()
	tr.testHelp()
	tr.testEdgeCases()

	tr.printSummary()
}

// =============================================================================
// Test Groups
// =============================================================================

func (tr *TestRunner) testHealth() {
	tr.printSection("Health Check")

	var health map[string]any
	if err := tr.getData("/health", &health); err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	if health["status"] == "healthy" {
		tr.recordSuccess(fmt.Sprintf("Health check passed (%v region codes, %v title corrections)",
			health["region_codes"], health["title_corrections"]))
	} else {
		tr.recordError("Health", fmt.Sprintf("Unexpected status: %v", health["status"]))
	}
}

func (tr *TestRunner) testSchedule() {
	tr.printSection("Program Guide")

	var today api.GuideData
	if err := tr.getData("/api/v1/schedule", &today); err != nil {
		tr.recordError("Guide (today)", err.Error())
		return
	}
	tr.recordSuccess(fmt.Sprintf("Today is %s %s: %d programs", today.Day, today.Date, len(today.Entries)))
	tr.printGuide(today)

	for _, day := range []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"} {
		var data api.GuideData
		if err := tr.getData("/api/v1/schedule?day="+day, &data); err != nil {
			tr.recordError("Guide "+day, err.Error())
			continue
		}
		if !strings.HasPrefix(data.Day, day) {
			tr.recordError("Guide "+day, fmt.Sprintf("got day %q", data.Day))
			continue
		}
		if !sortedByTime(data.Entries) {
			tr.recordError("Guide "+day, "entries not in time order")
			continue
		}
		tr.recordSuccess(fmt.Sprintf("%s (%s): %d programs", data.Day, data.Date, len(data.Entries)))
		if tr.verbose {
			tr.printGuide(data)
		}
	}
}

func (tr *TestRunner) testNowPlaying() {
	tr.printSection("Now Playing")

	var data api.NowPlayingData
	if err := tr.getData("/api/v1/now-playing", &data); err != nil {
		tr.recordError("Now playing", err.Error())
		return
	}

	if data.Found {
		tr.recordSuccess(fmt.Sprintf("Now playing: %s (%s, on air: %t)", data.Entry.Title, data.Entry.SpokenTime, data.OnAir))
	} else {
		tr.recordSuccess("Now playing could not be determined")
	}
	if tr.verbose {
		fmt.Printf("    SSML: %s\n", data.SSML)
	}
}

func (tr *TestRunner) testOnDemand() {
	tr.printSection("On Demand")

	for weeksAgo := 0; weeksAgo <= 1; weeksAgo++ {
		path := fmt.Sprintf("/api/v1/on-demand?title=%s&weeks_ago=%d", url.QueryEscape(tr.title), weeksAgo)

		var data api.OnDemandData
		if err := tr.getData(path, &data); err != nil {
			tr.recordError("On demand", err.Error())
			return
		}

		if !data.Found {
			tr.recordError("On demand", fmt.Sprintf("program %q not found", data.Title))
			return
		}

		tr.recordSuccess(fmt.Sprintf("%s, %d week(s) ago: %s at %dms (%s)",
			data.Title, weeksAgo, data.Identifier, data.OffsetMS, data.AiredOn))

		resp, err := tr.client.Head(data.URL)
		if err != nil {
			tr.recordError("Archive HEAD", err.Error())
			continue
		}
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			tr.recordSuccess("Archive file exists: " + data.URL)
		} else {
			tr.recordError("Archive HEAD", fmt.Sprintf("%s returned HTTP %d", data.URL, resp.StatusCode))
		}
	}

	var missing api.OnDemandData
	if err := tr.getData("/api/v1/on-demand?title=no+such+program", &missing); err != nil {
		tr.recordError("On demand (missing)", err.Error())
	} else if missing.Found {
		tr.recordError("On demand (missing)", "unexpectedly found")
	} else {
		tr.recordSuccess("Unknown program reported as not found")
	}
}

func (tr *TestRunner) testStreams() {
	tr.printSection("Streams")

	for _, name := range []string{"live", "kc"} {
		var data api.StreamData
		if err := tr.getData("/api/v1/streams/"+name, &data); err != nil {
			tr.recordError("Stream "+name, err.Error())
			continue
		}
		tr.recordSuccess(fmt.Sprintf("%s: %s", name, data.URL))
	}
}

func (tr *TestRunner) testHelp() {
	tr.printSection("Help")

	var msgs speech.Messages
	if err := tr.getData("/api/v1/help", &msgs); err != nil {
		tr.recordError("Help", err.Error())
		return
	}
	if msgs.Launch == "" || msgs.Help == "" {
		tr.recordError("Help", "empty launch or help text")
		return
	}
	tr.recordSuccess("Launch and help prompts present")
}

func (tr *TestRunner) testEdgeCases() {
	tr.printSection("Edge Cases")

	cases := []struct {
		path   string
		status int
		desc   string
	}{
		{"/api/v1/schedule?day=Funday", http.StatusBadRequest, "Unknown day rejected"},
		{"/api/v1/schedule?date=2025/12/25", http.StatusBadRequest, "Bad date format rejected"},
		{"/api/v1/on-demand", http.StatusBadRequest, "Missing title rejected"},
		{"/api/v1/on-demand?title=x&weeks_ago=-1", http.StatusBadRequest, "Negative weeks_ago rejected"},
		{"/api/v1/streams/nowhere", http.StatusNotFound, "Unknown stream rejected"},
	}

	for _, c := range cases {
		resp, err := tr.getRaw(c.path)
		if err != nil {
			tr.recordError(c.desc, err.Error())
			continue
		}
		resp.Body.Close()
		if resp.StatusCode == c.status {
			tr.recordSuccess(c.desc)
		} else {
			tr.recordError(c.desc, fmt.Sprintf("expected HTTP %d, got %d", c.status, resp.StatusCode))
		}
	}
}

// =============================================================================
// Helper Methods
// =============================================================================

func (tr *TestRunner) getData(path string, target any) error {
	resp, err := tr.getRaw(path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read error: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return fmt.Errorf("parse error: %w", err)
	}

	if !apiResp.Success {
		errMsg := "unknown error"
		if apiResp.Error != nil {
			errMsg = apiResp.Error.Message
		}
		return fmt.Errorf("API error (HTTP %d): %s", resp.StatusCode, errMsg)
	}

	return json.Unmarshal(apiResp.Data, target)
}

func (tr *TestRunner) getRaw(path string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, tr.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	if tr.apiKey != "" {
		req.Header.Set("X-API-Key", tr.apiKey)
	}
	return tr.client.Do(req)
}

func sortedByTime(entries []api.GuideEntry) bool {
	seenSentinel := false
	prev := ""
	for _, e := range entries {
		numeric := e.SpokenTime != speech.NotApplicable
		if !numeric {
			seenSentinel = true
			continue
		}
		if seenSentinel || e.Time < prev {
			return false
		}
		prev = e.Time
	}
	return true
}

func (tr *TestRunner) printSection(name string) {
	fmt.Println()
	fmt.Printf("--- %s ---\n", name)
	fmt.Println()
}

func (tr *TestRunner) printGuide(g api.GuideData) {
	for _, e := range g.Entries {
		fmt.Printf("    %-8s %s (%s)\n", e.SpokenTime, e.Title, e.Length)
	}
	fmt.Println()
}

func (tr *TestRunner) recordSuccess(msg string) {
	tr.successCount++
	fmt.Printf("  ✓ %s\n", msg)
}

func (tr *TestRunner) recordError(context, msg string) {
	tr.errorCount++
	errStr := fmt.Sprintf("%s: %s", context, msg)
	tr.errors = append(tr.errors, errStr)
	fmt.Printf("  ✗ %s\n", errStr)
}

func (tr *TestRunner) printSummary() {
	fmt.Println()
	fmt.Println("==============================================")
	fmt.Println("Summary")
	fmt.Println("==============================================")
	fmt.Printf("  Passed: %d\n", tr.successCount)
	fmt.Printf("  Failed: %d\n", tr.errorCount)
	fmt.Println()

	if tr.errorCount > 0 {
		fmt.Println("Failures:")
		for _, err := range tr.errors {
			fmt.Printf("  • %s\n", err)
		}
		fmt.Println()
	}

	if tr.errorCount == 0 {
		fmt.Println("All tests passed! ✓")
	} else {
		fmt.Printf("Tests completed with %d failure(s)\n", tr.errorCount)
	}
}

// =============================================================================
// Main
// =============================================================================

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	apiKey := flag.String("key", os.Getenv("API_KEY"), "API key for /api/v1 routes")
	title := flag.String("title", "kc newspapers", "Program to request on demand")
	verbose := flag.Bool("v", false, "Verbose output (show guide details and SSML)")
	flag.Parse()

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}
	resp.Body.Close()

	runner := NewTestRunner(*baseURL, *apiKey, *title, *verbose)
	runner.Run()

	if runner.errorCount > 0 {
		os.Exit(1)
	}
}
