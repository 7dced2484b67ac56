// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/rigrun-export/internal/i18n"
	"github.com/jeranaias/rigrun-export/internal/model"
	"github.com/jeranaias/rigrun-export/internal/storage"
	"github.com/jeranaias/rigrun-export/internal/ui/components"
	"github.com/jeranaias/rigrun-export/internal/ui/styles"
)

// historyTimeout bounds a single history insert.
const historyTimeout = 5 * time.Second

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case ReloadMsg:
		return m.handleReload(msg)

	case watcherClosedMsg:
		m.watcher = nil
		return m, nil

	case ConversationSavedMsg:
		if msg.Err != nil {
			log.Printf("CONVERSATION_SAVE_FAILED | err=%v", msg.Err)
			m.statusMsg = styles.RenderError(msg.Err.Error())
			return m, nil
		}
		m.storedID = msg.ID
		m.statusMsg = styles.RenderSuccess(m.t(i18n.KeyChatSaved) + " (" + msg.ID + ")")
		return m, nil

	case components.ExportSavedMsg:
		record := m.recordExport(msg)
		cmd := m.forwardToDialogs(msg)
		return m, tea.Batch(record, cmd)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, m.keyMap.Quit) {
		return m, tea.Quit
	}

	// Open dialogs take all other input.
	if cmd, handled := m.fenced.Update(msg); handled {
		return m, cmd
	}
	if cmd, handled := m.export.Update(msg); handled {
		return m, cmd
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(keyMsg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the chat, or an open dialog over it.
func (m Model) View() string {
	return m.renderChat()
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	const (
		headerHeight    = 1
		inputAreaHeight = 2 // separator + input line
		statusBarHeight = 1
	)

	viewportHeight := m.height - headerHeight - inputAreaHeight - statusBarHeight
	if viewportHeight < 1 {
		viewportHeight = 1
	}
	viewportWidth := m.width
	if viewportWidth < 1 {
		viewportWidth = 1
	}
	m.viewport.Width = viewportWidth
	m.viewport.Height = viewportHeight

	const promptLen = 2 // "> "
	inputWidth := m.width - 2 - promptLen
	if inputWidth < 10 {
		inputWidth = 10
	}
	m.input.Width = inputWidth

	m.theme.SetSize(m.width, m.height)
	m.export.SetSize(m.width, m.height)
	m.fenced.SetSize(m.width, m.height)

	m.updateViewport()
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Export):
		m.export.Open()
		return m, nil

	case key.Matches(msg, m.keyMap.ExportFenced):
		m.fenced.Open()
		return m, nil

	case key.Matches(msg, m.keyMap.Save):
		return m, m.saveConversation()

	case key.Matches(msg, m.keyMap.Submit):
		return m.submit()

	case key.Matches(msg, m.keyMap.Up, m.keyMap.Down, m.keyMap.PageUp, m.keyMap.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleReload(msg ReloadMsg) (tea.Model, tea.Cmd) {
	next := tea.Cmd(nil)
	if m.watcher != nil {
		next = waitForReload(m.watcher)
	}

	if msg.Err != nil {
		m.statusMsg = styles.RenderError(msg.Err.Error())
		return m, next
	}

	m.conversation.ReplaceMessages(msg.Conversation.ModelMessages())
	m.statusMsg = styles.RenderInfo(m.t(i18n.KeyChatReloaded))
	m.updateViewport()
	m.viewport.GotoBottom()
	return m, next
}

// forwardToDialogs hands a result message to whichever dialog is open.
func (m Model) forwardToDialogs(msg tea.Msg) tea.Cmd {
	if cmd, handled := m.fenced.Update(msg); handled {
		return cmd
	}
	cmd, _ := m.export.Update(msg)
	return cmd
}

// =============================================================================
// ACTIONS
// =============================================================================

// submit appends the input as a message. "/assistant" and "/system"
// prefixes set the role; "/clear" empties the conversation.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	m.input.Reset()

	role, content := parseInput(text)
	switch {
	case text == "/clear":
		m.conversation.ClearHistory()
	case content != "":
		m.conversation.AddMessage(model.NewMessage(role, content))
	}

	m.updateViewport()
	m.viewport.GotoBottom()
	return m, nil
}

// parseInput splits a role command from the message text.
func parseInput(text string) (model.Role, string) {
	for _, p := range []struct {
		prefix string
		role   model.Role
	}{
		{"/assistant", model.RoleAssistant},
		{"/system", model.RoleSystem},
	} {
		if text == p.prefix {
			return p.role, ""
		}
		if strings.HasPrefix(text, p.prefix+" ") {
			return p.role, strings.TrimSpace(strings.TrimPrefix(text, p.prefix))
		}
	}
	return model.RoleUser, text
}

func (m Model) saveConversation() tea.Cmd {
	if m.store == nil {
		return nil
	}
	store := m.store
	stored := storage.FromModel(m.conversation)
	return func() tea.Msg {
		id, err := store.Save(stored)
		return ConversationSavedMsg{ID: id, Err: err}
	}
}

func (m Model) recordExport(msg components.ExportSavedMsg) tea.Cmd {
	if msg.Err != nil || m.history == nil {
		return nil
	}
	history := m.history
	convID := m.conversation.ID
	files := map[string]string{
		"json":     msg.Files.JSONPath,
		"markdown": msg.Files.MarkdownPath,
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
		defer cancel()
		if err := history.RecordFiles(ctx, convID, msg.Messages, files); err != nil {
			log.Printf("HISTORY_ERROR | conversation=%s err=%v", convID, err)
		}
		return nil
	}
}

// updateViewport re-renders the transcript into the viewport.
func (m *Model) updateViewport() {
	m.viewport.SetContent(m.renderMessages())
}
