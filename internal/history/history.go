// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history persists a log of completed generations.
//
// Every finalized invocation is recorded: model, prompt, streamed
// response, and any web-search sources. The log backs the `rigwrite
// history` command and is never consulted by the inline engine itself.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// TYPES
// =============================================================================

// Source is one web-search citation attached to a generation.
type Source struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Entry is one recorded generation.
type Entry struct {
	ID         string
	CreatedAt  time.Time
	Model      string
	Persona    string
	Prompt     string
	Response   string
	Sources    []Source
	DurationMs int64
	TTFTMs     int64
}

// =============================================================================
// STORE
// =============================================================================

const schema = `
CREATE TABLE IF NOT EXISTS generations (
	id          TEXT PRIMARY KEY,
	created_at  INTEGER NOT NULL,
	model       TEXT NOT NULL,
	persona     TEXT NOT NULL DEFAULT '',
	prompt      TEXT NOT NULL,
	response    TEXT NOT NULL,
	sources     TEXT NOT NULL DEFAULT '[]',
	duration_ms INTEGER NOT NULL DEFAULT 0,
	ttft_ms     INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_generations_created ON generations(created_at DESC);
`

// Store is a SQLite-backed generation log.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the log at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts an entry, assigning ID and CreatedAt when unset.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	sources, err := json.Marshal(e.Sources)
	if err != nil {
		return fmt.Errorf("failed to encode sources: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO generations (id, created_at, model, persona, prompt, response, sources, duration_ms, ttft_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.CreatedAt.UnixMilli(), e.Model, e.Persona, e.Prompt, e.Response,
		string(sources), e.DurationMs, e.TTFTMs)
	if err != nil {
		return fmt.Errorf("failed to record generation: %w", err)
	}
	return nil
}

// List returns the most recent entries, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, model, persona, prompt, response, sources, duration_ms, ttft_ms
		FROM generations ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list generations: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// Search returns entries whose prompt or response contains term,
// newest first.
func (s *Store) Search(ctx context.Context, term string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	pattern := "%" + term + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, model, persona, prompt, response, sources, duration_ms, ttft_ms
		FROM generations
		WHERE prompt LIKE ? OR response LIKE ?
		ORDER BY created_at DESC LIMIT ?`, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search generations: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// Prune deletes entries older than cutoff, returning how many were
// removed.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM generations WHERE created_at < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to prune generations: %w", err)
	}
	return res.RowsAffected()
}

// Count returns the number of recorded generations.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM generations`).Scan(&n)
	return n, err
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		var created int64
		var sources string
		if err := rows.Scan(&e.ID, &created, &e.Model, &e.Persona, &e.Prompt,
			&e.Response, &sources, &e.DurationMs, &e.TTFTMs); err != nil {
			return nil, fmt.Errorf("failed to scan generation: %w", err)
		}
		e.CreatedAt = time.UnixMilli(created)
		if err := json.Unmarshal([]byte(sources), &e.Sources); err != nil {
			return nil, fmt.Errorf("failed to decode sources: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
