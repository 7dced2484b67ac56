// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestHistory(t *testing.T) *History {
	t.Helper()
	h, err := OpenHistory(context.Background(), filepath.Join(t.TempDir(), "db", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	return h
}

func TestHistory_RecordAndList(t *testing.T) {
	ctx := context.Background()
	h := openTestHistory(t)

	base := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	for i, format := range []string{"json", "markdown", "json"} {
		_, err := h.Record(ctx, HistoryEntry{
			ConversationID: "conv_a",
			Path:           "/tmp/out." + format,
			Format:         format,
			Messages:       i + 1,
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	all, err := h.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 3, all[0].Messages, "newest first")
	assert.True(t, all[0].CreatedAt.Equal(base.Add(2*time.Minute)))
	assert.NotEmpty(t, all[0].ID)

	limited, err := h.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestHistory_RecordFillsDefaults(t *testing.T) {
	h := openTestHistory(t)

	e, err := h.Record(context.Background(), HistoryEntry{ConversationID: "c", Path: "p", Format: "json"})
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)
	assert.False(t, e.CreatedAt.IsZero())
}

func TestHistory_ForConversation(t *testing.T) {
	ctx := context.Background()
	h := openTestHistory(t)

	for _, id := range []string{"conv_a", "conv_b", "conv_a"} {
		_, err := h.Record(ctx, HistoryEntry{ConversationID: id, Path: id, Format: "json"})
		require.NoError(t, err)
	}

	entries, err := h.ForConversation(ctx, "conv_a")
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	none, err := h.ForConversation(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestHistory_PersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	h, err := OpenHistory(ctx, path)
	require.NoError(t, err)
	_, err = h.Record(ctx, HistoryEntry{ConversationID: "c", Path: "p", Format: "markdown"})
	require.NoError(t, err)
	require.NoError(t, h.Close())

	h, err = OpenHistory(ctx, path)
	require.NoError(t, err)
	defer h.Close()

	entries, err := h.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "markdown", entries[0].Format)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestFormatHistory(t *testing.T) {
	assert.Equal(t, "No exports recorded.", FormatHistory(nil))

	out := FormatHistory([]HistoryEntry{{
		Path: "/x/conversation.md", Format: "markdown", Messages: 4,
		CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.Local),
	}})
	assert.True(t, strings.HasPrefix(out, "When"))
	assert.Contains(t, out, "2025-01-02 03:04:05")
	assert.Contains(t, out, "/x/conversation.md")
}

func TestHistory_RecordFiles(t *testing.T) {
	ctx := context.Background()
	h := openTestHistory(t)

	err := h.RecordFiles(ctx, "conv_x", 3, map[string]string{
		"json":     "/out/c.json",
		"markdown": "/out/c.md",
		"other":    "/out/ignored",
	})
	require.NoError(t, err)

	entries, err := h.ForConversation(ctx, "conv_x")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	formats := []string{entries[0].Format, entries[1].Format}
	assert.ElementsMatch(t, []string{"json", "markdown"}, formats)
	assert.Equal(t, 3, entries[0].Messages)

	require.NoError(t, h.RecordFiles(ctx, "conv_y", 1, map[string]string{"json": ""}))
	none, err := h.ForConversation(ctx, "conv_y")
	require.NoError(t, err)
	assert.Empty(t, none)
}
