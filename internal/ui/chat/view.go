// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rigrun-export/internal/i18n"
	"github.com/jeranaias/rigrun-export/internal/model"
	"github.com/jeranaias/rigrun-export/internal/ui/styles"
	"github.com/jeranaias/rigrun-export/internal/util"
)

// =============================================================================
// LAYOUT
// =============================================================================

// renderChat stacks header, transcript, input and status bar. An open
// dialog replaces the whole screen.
func (m Model) renderChat() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.fenced.IsVisible() {
		return m.fenced.View()
	}
	if m.export.IsVisible() {
		return m.export.View()
	}

	header := m.renderHeader()
	input := m.renderInput()
	status := m.renderStatusBar()

	availableHeight := m.height - lipgloss.Height(header) - lipgloss.Height(input) - lipgloss.Height(status)
	if availableHeight < 1 {
		availableHeight = 1
	}

	messages := m.viewport.View()
	if lipgloss.Height(messages) != availableHeight {
		messages = lipgloss.NewStyle().
			Height(availableHeight).
			MaxHeight(availableHeight).
			Width(m.width).
			Render(messages)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, messages, input, status)
}

func (m Model) renderHeader() string {
	title := "rigrun-export | " + m.conversation.GetTitle()
	return m.theme.Header.
		Width(m.width).
		MaxHeight(1).
		Render(util.TruncateWidth(title, m.width-2))
}

func (m Model) renderInput() string {
	return m.theme.InputContainer.Width(m.width).Render(m.input.View())
}

// renderStatusBar shows the export trigger, the key hints and the last
// status message, dropping hints first when space runs out.
func (m Model) renderStatusBar() string {
	sep := lipgloss.NewStyle().Foreground(styles.Overlay).Render(" | ")

	parts := []string{}
	if trigger := m.export.TriggerView(); trigger != "" {
		parts = append(parts, trigger)
	}
	if m.statusMsg != "" {
		parts = append(parts, m.statusMsg)
	}

	var hints []string
	for _, b := range m.keyMap.ShortHelp() {
		h := b.Help()
		hints = append(hints, m.theme.ShortcutKey.Render(h.Key)+" "+m.theme.ShortcutDesc.Render(h.Desc))
	}

	content := strings.Join(parts, sep)
	if withHints := strings.Join(append(parts, strings.Join(hints, "  ")), sep); lipgloss.Width(withHints) <= m.width-2 {
		content = withHints
	}

	return m.theme.StatusBar.Width(m.width).MaxHeight(1).Render(content)
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

func (m *Model) renderMessages() string {
	msgs := m.conversation.Messages()
	if len(msgs) == 0 {
		return m.theme.EmptyState.Render(m.t(i18n.KeyEmpty))
	}

	bodyWidth := m.viewport.Width - 2
	if bodyWidth < 10 {
		bodyWidth = 10
	}

	blocks := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		blocks = append(blocks, m.renderMessage(msg, bodyWidth))
	}
	return strings.Join(blocks, "\n\n")
}

func (m *Model) renderMessage(msg model.Message, width int) string {
	label := m.labelStyle(msg.Role).Render(m.label(msg.Role))
	body := m.theme.MessageBody.Width(width).Render(msg.Content)
	return label + "\n" + body
}

func (m *Model) labelStyle(role model.Role) lipgloss.Style {
	switch role {
	case model.RoleUser:
		return m.theme.UserLabel
	case model.RoleSystem:
		return m.theme.SystemLabel
	default:
		return m.theme.AssistantLabel
	}
}

// label uses the export headings for the two conversation sides so the
// transcript reads like the export.
func (m *Model) label(role model.Role) string {
	switch role {
	case model.RoleUser:
		return m.t(i18n.KeyUserSays)
	case model.RoleAssistant:
		return m.t(i18n.KeyAISays)
	default:
		return role.DisplayName()
	}
}
