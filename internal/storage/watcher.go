// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"
)

// DefaultReloadInterval is the minimum spacing between reloads.
const DefaultReloadInterval = 250 * time.Millisecond

// Reload is delivered each time the watched file changes.
type Reload struct {
	Path         string
	Conversation *StoredConversation
	Err          error
}

// =============================================================================
// CONVERSATION WATCHER
// =============================================================================

// Watcher reloads a conversation file when it changes on disk.
//
// The parent directory is watched rather than the file so that atomic
// replace-by-rename writes are seen. Bursts of events collapse into one
// reload per interval.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	limiter *rate.Limiter
	out     chan Reload

	closeOnce sync.Once
}

// NewWatcher creates a watcher for path. An interval of zero uses
// DefaultReloadInterval.
func NewWatcher(path string, interval time.Duration) (*Watcher, error) {
	if interval <= 0 {
		interval = DefaultReloadInterval
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve watch path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		path:    abs,
		watcher: fw,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		out:     make(chan Reload, 1),
	}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Reloads returns the channel of reload results. It is closed when the
// watcher stops.
func (w *Watcher) Reloads() <-chan Reload {
	return w.out
}

// Start processes events until ctx is cancelled or Close is called.
func (w *Watcher) Start(ctx context.Context) {
	go w.run(ctx)
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.out)
	defer w.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}

			if err := w.limiter.Wait(ctx); err != nil {
				return
			}
			w.drain()

			reload := Reload{Path: w.path}
			reload.Conversation, reload.Err = LoadFile(w.path)
			if reload.Err != nil {
				log.Printf("WATCH_ERROR | path=%s error=%v", w.path, reload.Err)
			} else {
				log.Printf("WATCH_RELOAD | path=%s messages=%d", w.path, len(reload.Conversation.Messages))
			}

			select {
			case w.out <- reload:
			case <-ctx.Done():
				return
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("WATCH_ERROR | path=%s error=%v", w.path, err)
		}
	}
}

// relevant reports whether event may have changed the watched file.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// drain discards events queued while waiting on the limiter; the reload
// that follows reads the latest file contents anyway.
func (w *Watcher) drain() {
	for {
		select {
		case _, ok := <-w.watcher.Events:
			if !ok {
				return
			}
		default:
			return
		}
	}
}
