// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// historySchema is the export history table.
const historySchema = `
CREATE TABLE IF NOT EXISTS exports (
    id TEXT PRIMARY KEY,
    conversation_id TEXT NOT NULL,
    path TEXT NOT NULL,
    format TEXT NOT NULL,
    messages INTEGER NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_exports_created ON exports(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_exports_conversation ON exports(conversation_id);
`

// =============================================================================
// HISTORY ENTRY
// =============================================================================

// HistoryEntry records one file written by an export.
type HistoryEntry struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Path           string    `json:"path"`
	Format         string    `json:"format"` // "json" or "markdown"
	Messages       int       `json:"messages"`
	CreatedAt      time.Time `json:"created_at"`
}

// =============================================================================
// HISTORY STORE
// =============================================================================

// History is the SQLite-backed log of saved exports.
type History struct {
	db *sql.DB
}

// OpenHistory opens (and creates if needed) the history database at path.
func OpenHistory(ctx context.Context, path string) (*History, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.ExecContext(ctx, historySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &History{db: db}, nil
}

// Record inserts e, filling in the ID and timestamp when unset.
func (h *History) Record(ctx context.Context, e HistoryEntry) (HistoryEntry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	_, err := h.db.ExecContext(ctx, `
		INSERT INTO exports (id, conversation_id, path, format, messages, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.ConversationID, e.Path, e.Format, e.Messages, e.CreatedAt.UnixNano(),
	)
	if err != nil {
		return HistoryEntry{}, fmt.Errorf("record export: %w", err)
	}
	return e, nil
}

// RecordFiles records one row per exported file. files maps a format name
// ("json", "markdown") to the written path; empty paths are skipped.
func (h *History) RecordFiles(ctx context.Context, conversationID string, messages int, files map[string]string) error {
	now := time.Now()
	for _, format := range []string{"json", "markdown"} {
		path := files[format]
		if path == "" {
			continue
		}
		_, err := h.Record(ctx, HistoryEntry{
			ConversationID: conversationID,
			Path:           path,
			Format:         format,
			Messages:       messages,
			CreatedAt:      now,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// List returns the most recent entries first. A limit of zero or less
// returns everything.
func (h *History) List(ctx context.Context, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := h.db.QueryContext(ctx, `
		SELECT id, conversation_id, path, format, messages, created_at
		FROM exports
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query export history: %w", err)
	}
	return scanHistory(rows)
}

// ForConversation returns the entries for one conversation, newest first.
func (h *History) ForConversation(ctx context.Context, conversationID string) ([]HistoryEntry, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT id, conversation_id, path, format, messages, created_at
		FROM exports
		WHERE conversation_id = ?
		ORDER BY created_at DESC, rowid DESC`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("query export history: %w", err)
	}
	return scanHistory(rows)
}

// Close closes the database.
func (h *History) Close() error {
	return h.db.Close()
}

func scanHistory(rows *sql.Rows) ([]HistoryEntry, error) {
	defer rows.Close()

	entries := []HistoryEntry{}
	for rows.Next() {
		var e HistoryEntry
		var created int64
		if err := rows.Scan(&e.ID, &e.ConversationID, &e.Path, &e.Format, &e.Messages, &created); err != nil {
			return nil, fmt.Errorf("scan export history: %w", err)
		}
		e.CreatedAt = time.Unix(0, created)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read export history: %w", err)
	}
	return entries, nil
}

// FormatHistory renders entries as a plain table.
func FormatHistory(entries []HistoryEntry) string {
	if len(entries) == 0 {
		return "No exports recorded."
	}

	out := fmt.Sprintf("%-19s  %-8s  %-5s  %s\n", "When", "Format", "Msgs", "Path")
	for _, e := range entries {
		out += fmt.Sprintf("%-19s  %-8s  %-5d  %s\n",
			e.CreatedAt.Format("2006-01-02 15:04:05"), e.Format, e.Messages, e.Path)
	}
	return out
}
