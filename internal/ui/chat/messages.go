// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/rigrun-export/internal/storage"
)

// =============================================================================
// MESSAGES
// =============================================================================

// ReloadMsg carries a reload of the watched conversation file.
type ReloadMsg struct {
	storage.Reload
}

// watcherClosedMsg is sent once the watcher's stream ends.
type watcherClosedMsg struct{}

// ConversationSavedMsg reports the result of saving to the store.
type ConversationSavedMsg struct {
	ID  string
	Err error
}

// waitForReload blocks on the next reload from w.
func waitForReload(w *storage.Watcher) tea.Cmd {
	return func() tea.Msg {
		r, ok := <-w.Reloads()
		if !ok {
			return watcherClosedMsg{}
		}
		return ReloadMsg{Reload: r}
	}
}
