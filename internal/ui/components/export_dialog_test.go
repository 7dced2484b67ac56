// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/rigrun-export/internal/i18n"
)

func dialogConfig(t *testing.T) ExportViewConfig {
	t.Helper()
	cat, err := i18n.New("en")
	require.NoError(t, err)
	return ExportViewConfig{
		Source:     sampleConversation(),
		Translator: cat,
		Theme:      plainTheme(),
		Clipboard:  func(string) error { return nil },
	}
}

var escKey = tea.KeyMsg{Type: tea.KeyEsc}

func TestExportDialog_UncontrolledLifecycle(t *testing.T) {
	d := NewExportDialog(dialogConfig(t), ExportDialogOptions{}, nil)
	d.SetSize(120, 40)

	assert.False(t, d.IsVisible(), "uncontrolled dialogs start closed")
	assert.Empty(t, d.View())

	trigger := d.TriggerView()
	assert.Contains(t, trigger, TriggerIcon)
	assert.Contains(t, trigger, "Export")

	d.Open()
	require.True(t, d.IsVisible())
	out := d.View()
	assert.Contains(t, out, "Export conversation")
	assert.Contains(t, out, "Copy or save this conversation")

	_, handled := d.Update(escKey)
	assert.True(t, handled)
	assert.False(t, d.IsVisible())
}

func TestExportDialog_ControlledWithSetter(t *testing.T) {
	open := false
	ctrl := ControlledOpen{
		Open:         func() bool { return open },
		OnOpenChange: func(v bool) { open = v },
	}
	d := NewExportDialog(dialogConfig(t), ExportDialogOptions{}, ctrl)

	assert.Empty(t, d.TriggerView(), "caller owns opening")
	assert.False(t, d.IsVisible())

	open = true
	assert.True(t, d.IsVisible())

	_, handled := d.Update(escKey)
	assert.True(t, handled)
	assert.False(t, open, "dismissal goes through the setter")
	assert.False(t, d.IsVisible())

	d.Open()
	assert.True(t, open)
}

func TestExportDialog_ControlledWithoutSetter(t *testing.T) {
	ctrl := ControlledOpen{Open: func() bool { return true }}
	d := NewExportDialog(dialogConfig(t), ExportDialogOptions{}, ctrl)

	assert.NotEmpty(t, d.TriggerView())
	require.True(t, d.IsVisible())

	d.Update(escKey)
	assert.True(t, d.IsVisible(), "without a setter the flag stays with the caller")
}

func TestExportDialog_Options(t *testing.T) {
	opts := ExportDialogOptions{
		Title:       "Share",
		Description: "Pick a format",
		Trigger:     func() string { return "[share]" },
		MaxLength:   10,
		Submittable: true,
	}
	d := NewExportDialog(dialogConfig(t), opts, nil)
	d.SetSize(120, 40)

	assert.Equal(t, "[share]", d.TriggerView())
	assert.Equal(t, "Share", d.Title())
	assert.Equal(t, "Pick a format", d.Description())

	d.Open()
	out := d.View()
	assert.Contains(t, out, "Share")
	assert.Contains(t, out, "Pick a format")
}

func TestExportDialog_ClosedIgnoresInput(t *testing.T) {
	d := NewExportDialog(dialogConfig(t), ExportDialogOptions{}, nil)

	cmd, handled := d.Update(runeKey("1"))
	assert.Nil(t, cmd)
	assert.False(t, handled)
	assert.Equal(t, ModeSplit, d.ExportView().Mode())
}

func TestExportDialog_ForwardsKeysToView(t *testing.T) {
	d := NewExportDialog(dialogConfig(t), ExportDialogOptions{}, nil)
	d.Open()

	_, handled := d.Update(runeKey("3"))
	assert.True(t, handled)
	assert.Equal(t, ModePreviewOnly, d.ExportView().Mode())

	cmd, handled := d.Update(runeKey("y"))
	require.True(t, handled)
	require.NotNil(t, cmd)
	_, handled = d.Update(cmd())
	assert.True(t, handled)
	assert.Contains(t, d.ExportView().Status(), "Copied to clipboard")
}

func TestExportDialog_ReopenClearsStatus(t *testing.T) {
	d := NewExportDialog(dialogConfig(t), ExportDialogOptions{}, nil)
	d.Open()
	cmd, _ := d.Update(runeKey("m"))
	d.Update(cmd())
	require.NotEmpty(t, d.ExportView().Status())

	d.Close()
	d.Open()
	assert.Empty(t, d.ExportView().Status())
}

func TestJSONTransMarkdownDialog(t *testing.T) {
	d := JSONTransMarkdownDialog(dialogConfig(t), ExportDialogOptions{}, nil)

	md := d.ExportView().Payload().MarkdownBlock
	assert.True(t, strings.HasPrefix(md, "```markdown\n"))
	assert.True(t, strings.HasSuffix(md, "\n```"))
	assert.Contains(t, md, "## User\n\nhi")
}

func TestOpenControllers(t *testing.T) {
	u := &UncontrolledOpen{}
	assert.False(t, u.IsOpen())
	assert.True(t, u.ShowsTrigger())
	u.SetOpen(true)
	assert.True(t, u.IsOpen())

	var empty ControlledOpen
	assert.False(t, empty.IsOpen())
	assert.True(t, empty.ShowsTrigger())
	assert.NotPanics(t, func() { empty.SetOpen(true) })
}
