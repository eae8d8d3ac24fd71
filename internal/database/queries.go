package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// Helper Functions
// =============================================================================

// parseTimestamp parses a SQLite datetime('now') value.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// =============================================================================
// Region Codes
// =============================================================================

// ListRegionCodes returns every region code keyed by exact feed title.
func (db *DB) ListRegionCodes(ctx context.Context) (map[string]string, error) {
	return db.listPairs(ctx, "SELECT title, code FROM region_codes")
}

// GetRegionCode returns the stored row for title.
// Returns ErrNotFound if the title has no region.
func (db *DB) GetRegionCode(ctx context.Context, title string) (*RegionCode, error) {
	var rc RegionCode
	var updatedAt string

	err := db.QueryRowContext(ctx,
		"SELECT title, code, updated_at FROM region_codes WHERE title = ?", title,
	).Scan(&rc.Title, &rc.Code, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query region code: %w", err)
	}

	rc.UpdatedAt = parseTimestamp(updatedAt)
	return &rc, nil
}

// UpsertRegionCode inserts or replaces the code for title.
func (tx *Tx) UpsertRegionCode(ctx context.Context, title, code string) error {
	if err := validateRow(RegionCode{Title: title, Code: code}); err != nil {
		return err
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO region_codes (title, code) VALUES (?, ?)
		ON CONFLICT(title) DO UPDATE SET code = excluded.code, updated_at = datetime('now')
	`, title, code)
	if err != nil {
		return fmt.Errorf("upsert region code: %w", err)
	}
	return nil
}

// =============================================================================
// Title Corrections
// =============================================================================

// ListTitleCorrections returns every correction keyed by spoken phrase.
func (db *DB) ListTitleCorrections(ctx context.Context) (map[string]string, error) {
	return db.listPairs(ctx, "SELECT phrase, title FROM title_corrections")
}

// GetTitleCorrection returns the stored row for phrase.
// Returns ErrNotFound if no correction exists.
func (db *DB) GetTitleCorrection(ctx context.Context, phrase string) (*TitleCorrection, error) {
	var tc TitleCorrection
	var updatedAt string

	err := db.QueryRowContext(ctx,
		"SELECT phrase, title, updated_at FROM title_corrections WHERE phrase = ?",
		strings.ToLower(strings.TrimSpace(phrase)),
	).Scan(&tc.Phrase, &tc.Title, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query title correction: %w", err)
	}

	tc.UpdatedAt = parseTimestamp(updatedAt)
	return &tc, nil
}

// UpsertTitleCorrection inserts or replaces the title for phrase.
// Phrases are stored lowercase.
func (tx *Tx) UpsertTitleCorrection(ctx context.Context, phrase, title string) error {
	phrase = strings.ToLower(strings.TrimSpace(phrase))
	if err := validateRow(TitleCorrection{Phrase: phrase, Title: title}); err != nil {
		return err
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO title_corrections (phrase, title) VALUES (?, ?)
		ON CONFLICT(phrase) DO UPDATE SET title = excluded.title, updated_at = datetime('now')
	`, phrase, title)
	if err != nil {
		return fmt.Errorf("upsert title correction: %w", err)
	}
	return nil
}

// =============================================================================
// Import & Stats
// =============================================================================

// Import upserts every row of f in one transaction.
func (db *DB) Import(ctx context.Context, f *ImportFile) error {
	return db.WithTx(ctx, func(tx *Tx) error {
		for _, rc := range f.RegionCodes {
			if err := tx.UpsertRegionCode(ctx, rc.Title, rc.Code); err != nil {
				return err
			}
		}
		for _, tc := range f.TitleCorrections {
			if err := tx.UpsertTitleCorrection(ctx, tc.Phrase, tc.Title); err != nil {
				return err
			}
		}
		return nil
	})
}

// Counts returns the number of rows in each lookup table.
func (db *DB) Counts(ctx context.Context) (TableCounts, error) {
	var c TableCounts
	err := db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM region_codes),
			(SELECT COUNT(*) FROM title_corrections)
	`).Scan(&c.RegionCodes, &c.TitleCorrections)
	if err != nil {
		return TableCounts{}, fmt.Errorf("count lookup tables: %w", err)
	}
	return c, nil
}

func (db *DB) listPairs(ctx context.Context, query string) (map[string]string, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query lookup table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan lookup row: %w", err)
		}
		out[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lookup rows: %w", err)
	}

	return out, nil
}
