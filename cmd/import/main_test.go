package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapponejosh/audioreader-api/internal/database"
)

const sampleTables = `
region_codes:
  - title: Western Kansas Newspapers
    code: w
title_corrections:
  - phrase: western kansas
    title: western kansas newspapers
  - phrase: farm report
    title: the farm report
`

func TestParseTables(t *testing.T) {
	f, err := parseTables([]byte(sampleTables))
	require.NoError(t, err)
	require.Len(t, f.RegionCodes, 1)
	assert.Equal(t, "w", f.RegionCodes[0].Code)
	require.Len(t, f.TitleCorrections, 2)
	assert.Equal(t, "the farm report", f.TitleCorrections[1].Title)
}

func TestParseTables_Invalid(t *testing.T) {
	_, err := parseTables([]byte("region_codes: ["))
	assert.Error(t, err)

	tests := map[string]string{
		"long code":      "region_codes:\n  - title: X\n    code: xy\n",
		"missing code":   "region_codes:\n  - title: X\n",
		"missing title":  "title_corrections:\n  - phrase: x\n",
		"missing phrase": "title_corrections:\n  - title: x\n",
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := parseTables([]byte(doc))
			assert.ErrorIs(t, err, database.ErrInvalidRow)
		})
	}
}

func TestRun_VerboseListsTables(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "tables.yaml")
	require.NoError(t, os.WriteFile(file, []byte(sampleTables), 0o644))

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	require.NoError(t, run(file, filepath.Join(dir, "audioreader.db"), logger))

	out := buf.String()
	assert.Contains(t, out, "region code verified")
	assert.Contains(t, out, "title correction verified")
	assert.Contains(t, out, `title="Western Kansas Newspapers" code=w`)
	assert.Contains(t, out, `phrase="farm report" title="the farm report"`)
}

func TestVerifyRows(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := database.Open(database.DefaultConfig(filepath.Join(t.TempDir(), "verify.db")), logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = db.Migrate(ctx)
	require.NoError(t, err)

	// Repeated keys: the last row wins on import and on verification.
	f := &database.ImportFile{
		RegionCodes: []database.RegionCode{
			{Title: "Springfield News", Code: "s"},
			{Title: "Springfield News", Code: "t"},
		},
		TitleCorrections: []database.TitleCorrection{
			{Phrase: "Springfield", Title: "springfield news"},
		},
	}
	require.NoError(t, db.Import(ctx, f))
	require.NoError(t, verifyRows(ctx, db, f, logger))

	missing := &database.ImportFile{
		RegionCodes: []database.RegionCode{{Title: "Never Imported", Code: "n"}},
	}
	assert.ErrorIs(t, verifyRows(ctx, db, missing, logger), database.ErrNotFound)

	changed := &database.ImportFile{
		TitleCorrections: []database.TitleCorrection{{Phrase: "springfield", Title: "something else"}},
	}
	assert.Error(t, verifyRows(ctx, db, changed, logger))
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "tables.yaml")
	require.NoError(t, os.WriteFile(file, []byte(sampleTables), 0o644))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dbPath := filepath.Join(dir, "audioreader.db")

	require.NoError(t, run(file, dbPath, logger))
	// Upserts make a second run a no-op.
	require.NoError(t, run(file, dbPath, logger))
}
