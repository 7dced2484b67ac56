// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/rigrun-export/internal/util"
)

const watchedOne = `[{"role": "user", "content": "one"}]`
const watchedTwo = `[{"role": "user", "content": "one"}, {"role": "assistant", "content": "two"}]`

func waitReload(t *testing.T, w *Watcher) Reload {
	t.Helper()
	select {
	case r, ok := <-w.Reloads():
		require.True(t, ok, "reload channel closed")
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
		return Reload{}
	}
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conv.json")
	require.NoError(t, os.WriteFile(path, []byte(watchedOne), 0644))

	w, err := NewWatcher(path, 10*time.Millisecond)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	require.NoError(t, os.WriteFile(path, []byte(watchedTwo), 0644))

	// A plain write may be observed mid-way; wait for the complete file.
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		r := waitReload(t, w)
		if r.Err == nil && len(r.Conversation.Messages) == 2 {
			assert.Equal(t, "two", r.Conversation.Messages[1].Content)
			return
		}
	}
	t.Fatal("never saw the two-message reload")
}

func TestWatcher_ReloadsOnAtomicReplace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conv.json")
	require.NoError(t, os.WriteFile(path, []byte(watchedOne), 0644))

	w, err := NewWatcher(path, 10*time.Millisecond)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	require.NoError(t, util.AtomicWriteFile(path, []byte(watchedTwo), 0644))

	r := waitReload(t, w)
	require.NoError(t, r.Err)
	assert.Len(t, r.Conversation.Messages, 2)
	assert.Equal(t, w.Path(), r.Path)
}

func TestWatcher_CloseEndsStream(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conv.json")
	require.NoError(t, os.WriteFile(path, []byte(watchedOne), 0644))

	w, err := NewWatcher(path, 0)
	require.NoError(t, err)
	w.Start(context.Background())

	require.NoError(t, w.Close())
	require.NoError(t, w.Close(), "second Close is a no-op")

	select {
	case _, ok := <-w.Reloads():
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("reload channel not closed")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(filepath.Join(dir, "conv.json"), 0)
	require.NoError(t, err)
	defer w.Close()

	assert.False(t, w.relevant(fsnotify.Event{Name: filepath.Join(dir, "other.json"), Op: fsnotify.Write}))
	assert.False(t, w.relevant(fsnotify.Event{Name: w.Path(), Op: fsnotify.Remove}))
	assert.True(t, w.relevant(fsnotify.Event{Name: w.Path(), Op: fsnotify.Create}))
}

func TestNewWatcher_MissingDirectory(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "nope", "conv.json"), 0)
	assert.Error(t, err)
}
