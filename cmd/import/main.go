// Command import loads region codes and title corrections from a YAML file
// into the SQLite database.
//
// Usage:
//
//	go run ./cmd/import -file data/tables.example.yaml -db data/audioreader.db
//
// Rows are upserted in a single transaction, so the import can be re-run
// after editing the file. A bad row aborts the whole import.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zapponejosh/audioreader-api/internal/database"
	"github.com/zapponejosh/audioreader-api/internal/lookup"
)

func main() {
	filePath := flag.String("file", "data/tables.example.yaml", "Path to YAML lookup-table file")
	dbPath := flag.String("db", "data/audioreader.db", "Path to SQLite database")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))

	if err := run(*filePath, *dbPath, logger); err != nil {
		logger.Error("import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("import complete")
}

func run(filePath, dbPath string, logger *slog.Logger) error {
	ctx := context.Background()
	startTime := time.Now()

	// =========================================================================
	// Step 1: Read and parse YAML
	// =========================================================================
	logger.Info("reading table file", slog.String("path", filePath))

	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("read table file: %w", err)
	}

	tables, err := parseTables(data)
	if err != nil {
		return err
	}

	logger.Info("parsed table file",
		slog.Int("region_codes", len(tables.RegionCodes)),
		slog.Int("title_corrections", len(tables.TitleCorrections)),
	)

	// =========================================================================
	// Step 2: Open database and run migrations
	// =========================================================================
	db, err := database.Open(database.DefaultConfig(dbPath), logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	migrated, err := db.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("migrations complete", slog.Int("applied", migrated))

	// =========================================================================
	// Step 3: Upsert rows in a transaction
	// =========================================================================
	if err := db.Import(ctx, tables); err != nil {
		return fmt.Errorf("import tables: %w", err)
	}

	// =========================================================================
	// Step 4: Verify
	// =========================================================================
	if err := verifyRows(ctx, db, tables, logger); err != nil {
		return err
	}

	if logger.Enabled(ctx, slog.LevelDebug) {
		if err := listTables(ctx, db, logger); err != nil {
			return err
		}
	}

	counts, err := db.Counts(ctx)
	if err != nil {
		return err
	}

	elapsed := time.Since(startTime)
	logger.Info("import verified",
		slog.Int("region_codes", counts.RegionCodes),
		slog.Int("title_corrections", counts.TitleCorrections),
		slog.Duration("elapsed", elapsed),
	)

	fmt.Println()
	fmt.Println("=== Import Summary ===")
	fmt.Printf("Region codes in file:       %d\n", len(tables.RegionCodes))
	fmt.Printf("Title corrections in file:  %d\n", len(tables.TitleCorrections))
	fmt.Printf("Region codes stored:        %d\n", counts.RegionCodes)
	fmt.Printf("Title corrections stored:   %d\n", counts.TitleCorrections)
	fmt.Printf("Time elapsed:               %v\n", elapsed.Round(time.Millisecond))

	return nil
}

// parseTables decodes a lookup-table document and checks every row.
func parseTables(data []byte) (*database.ImportFile, error) {
	var f database.ImportFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}

	return &f, nil
}

// verifyRows reads every imported row back from the database. When the file
// repeats a key, its last row is the one expected.
func verifyRows(ctx context.Context, db *database.DB, f *database.ImportFile, logger *slog.Logger) error {
	codes := make(map[string]string, len(f.RegionCodes))
	for _, rc := range f.RegionCodes {
		codes[rc.Title] = rc.Code
	}
	for title, want := range codes {
		got, err := db.GetRegionCode(ctx, title)
		if err != nil {
			return fmt.Errorf("verify region code %q: %w", title, err)
		}
		if got.Code != want {
			return fmt.Errorf("verify region code %q: stored %q, want %q", title, got.Code, want)
		}
		logger.Debug("region code verified",
			slog.String("title", got.Title),
			slog.String("code", got.Code),
			slog.Time("updated_at", got.UpdatedAt),
		)
	}

	titles := make(map[string]string, len(f.TitleCorrections))
	for _, tc := range f.TitleCorrections {
		titles[strings.ToLower(strings.TrimSpace(tc.Phrase))] = tc.Title
	}
	for phrase, want := range titles {
		got, err := db.GetTitleCorrection(ctx, phrase)
		if err != nil {
			return fmt.Errorf("verify title correction %q: %w", phrase, err)
		}
		if got.Title != want {
			return fmt.Errorf("verify title correction %q: stored %q, want %q", phrase, got.Title, want)
		}
		logger.Debug("title correction verified",
			slog.String("phrase", got.Phrase),
			slog.String("title", got.Title),
			slog.Time("updated_at", got.UpdatedAt),
		)
	}

	return nil
}

// listTables logs both lookup tables in key order.
func listTables(ctx context.Context, db *database.DB, logger *slog.Logger) error {
	regionRows, err := db.ListRegionCodes(ctx)
	if err != nil {
		return err
	}
	regions := lookup.New(regionRows, lookup.Exact)
	for _, title := range regions.Keys() {
		code, _ := regions.Get(title)
		logger.Debug("region code", slog.String("title", title), slog.String("code", code))
	}

	correctionRows, err := db.ListTitleCorrections(ctx)
	if err != nil {
		return err
	}
	corrections := lookup.New(correctionRows, lookup.Folded)
	for _, phrase := range corrections.Keys() {
		logger.Debug("title correction", slog.String("phrase", phrase), slog.String("title", corrections.Apply(phrase)))
	}

	return nil
}
