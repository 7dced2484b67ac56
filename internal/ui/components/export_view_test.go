// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/rigrun-export/internal/export"
	"github.com/jeranaias/rigrun-export/internal/i18n"
	"github.com/jeranaias/rigrun-export/internal/model"
	"github.com/jeranaias/rigrun-export/internal/ui/styles"
)

// =============================================================================
// HELPERS
// =============================================================================

func plainTheme() *styles.Theme {
	theme := styles.NewThemeFor("dark")
	theme.ColorProfile = termenv.Ascii
	return theme
}

func testTranslator() i18n.Map {
	return i18n.Map{
		i18n.KeyUserSays:    "U",
		i18n.KeyAISays:      "A",
		i18n.KeyModeInput:   "JSON",
		i18n.KeyModeSplit:   "Split",
		i18n.KeyModePreview: "Markdown",
		i18n.KeyCopied:      "Copied",
		i18n.KeySaved:       "Saved to",
		i18n.KeyFailed:      "Failed",
	}
}

func sampleConversation() *model.Conversation {
	conv := model.NewConversation()
	conv.AddUserMessage("hi")
	conv.AddAssistantMessage("hello")
	return conv
}

func newTestView(conv *model.Conversation, compact bool) *ExportView {
	v := NewExportView(ExportViewConfig{
		Source:     conv,
		Translator: testTranslator(),
		Compact:    compact,
		Theme:      plainTheme(),
		Clipboard:  func(string) error { return nil },
		Saver: func(export.Payload) (export.SavedFiles, error) {
			return export.SavedFiles{}, nil
		},
	})
	v.SetSize(120, 40)
	return v
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// runCmd executes cmd and feeds its message back into the view.
func runCmd(t *testing.T, v *ExportView, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	v.Update(msg)
	return msg
}

// =============================================================================
// MODE TESTS
// =============================================================================

func TestExportView_Defaults(t *testing.T) {
	tests := []struct {
		name        string
		compact     bool
		wantPreview bool
		wantMode    ViewMode
	}{
		{"wide terminal", false, true, ModeSplit},
		{"compact terminal", true, false, ModeInputOnly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestView(sampleConversation(), tt.compact)
			assert.True(t, v.ShowInput())
			assert.Equal(t, tt.wantPreview, v.ShowPreview())
			assert.Equal(t, tt.wantMode, v.Mode())
		})
	}
}

func TestExportView_InputPreviewSplitScenario(t *testing.T) {
	v := newTestView(sampleConversation(), false)

	v.Update(runeKey("1"))
	assert.True(t, v.ShowInput())
	assert.False(t, v.ShowPreview())

	v.Update(runeKey("3"))
	assert.False(t, v.ShowInput())
	assert.True(t, v.ShowPreview())

	v.Update(runeKey("2"))
	assert.True(t, v.ShowInput())
	assert.True(t, v.ShowPreview())
}

func TestExportView_TabCycles(t *testing.T) {
	v := newTestView(sampleConversation(), true)
	want := []ViewMode{ModeSplit, ModePreviewOnly, ModeInputOnly, ModeSplit}

	for i, mode := range want {
		v.Update(tea.KeyMsg{Type: tea.KeyTab})
		assert.Equal(t, mode, v.Mode(), "after %d tabs", i+1)
	}
}

func TestExportView_NeverHidesBothPanes(t *testing.T) {
	keys := []tea.KeyMsg{
		runeKey("1"), runeKey("2"), runeKey("3"),
		{Type: tea.KeyTab}, runeKey("x"),
	}

	for _, compact := range []bool{false, true} {
		v := newTestView(sampleConversation(), compact)
		for i := 0; i < 200; i++ {
			// Deterministic but irregular walk over the keys.
			v.Update(keys[(i*7+i/3)%len(keys)])
			require.True(t, v.ShowInput() || v.ShowPreview(), "step %d", i)
		}
	}
}

func TestViewMode_String(t *testing.T) {
	assert.Equal(t, "input", ModeInputOnly.String())
	assert.Equal(t, "split", ModeSplit.String())
	assert.Equal(t, "preview", ModePreviewOnly.String())
	assert.Equal(t, "unknown", ViewMode(9).String())
}

// =============================================================================
// PAYLOAD TESTS
// =============================================================================

func TestExportView_Payload(t *testing.T) {
	v := newTestView(sampleConversation(), false)
	p := v.Payload()

	assert.Equal(t, "## U\n\nhi\n\n## A\n\nhello", p.MarkdownBlock)

	_, raw, ok := export.Unfence(p.JSONBlock)
	require.True(t, ok)
	var got []map[string]string
	require.NoError(t, json.Unmarshal([]byte(raw), &got))
	assert.Equal(t, []map[string]string{
		{"role": "user", "content": "hi"},
		{"role": "assistant", "content": "hello"},
	}, got)
}

func TestExportView_EmptyConversation(t *testing.T) {
	v := newTestView(model.NewConversation(), false)
	p := v.Payload()

	assert.Contains(t, p.JSONBlock, "[]")
	assert.Equal(t, "", p.MarkdownBlock)
	assert.NotPanics(t, func() { _ = v.View() })
}

func TestExportView_MemoizesPayload(t *testing.T) {
	conv := sampleConversation()
	v := newTestView(conv, false)

	_ = v.View()
	_ = v.View()
	v.Update(runeKey("1"))
	_ = v.View()
	assert.Equal(t, 1, v.Builds(), "re-rendering the same messages must not rebuild")

	conv.AddUserMessage("more")
	_ = v.View()
	assert.Equal(t, 2, v.Builds())
	assert.Contains(t, v.Payload().MarkdownBlock, "more")

	v.SetFormatter(export.MarkdownFence)
	_ = v.View()
	assert.Equal(t, 3, v.Builds())
	assert.True(t, strings.HasPrefix(v.Payload().MarkdownBlock, "```markdown\n"))
}

func TestExportView_NilSource(t *testing.T) {
	v := NewExportView(ExportViewConfig{Theme: plainTheme()})
	p := v.Payload()
	assert.Contains(t, p.JSONBlock, "[]")
	assert.Equal(t, "", p.MarkdownBlock)
}

// =============================================================================
// RENDERING TESTS
// =============================================================================

func TestExportView_ViewShowsVisiblePanes(t *testing.T) {
	v := newTestView(sampleConversation(), false)

	v.SelectInput()
	out := v.View()
	assert.Contains(t, out, `"role": "user"`)
	assert.Contains(t, out, "[1 JSON]")

	v.SelectPreview()
	out = v.View()
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "[3 Markdown]")
	assert.NotContains(t, out, `"role"`)

	v.SelectSplit()
	out = v.View()
	assert.Contains(t, out, `"role": "user"`)
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "[2 Split]")
}

func TestExportView_PanesAreLoading(t *testing.T) {
	v := newTestView(sampleConversation(), false)
	_ = v.View()
	assert.True(t, v.input.Loading())
	assert.True(t, v.preview.Loading())
}

// =============================================================================
// COPY / SAVE TESTS
// =============================================================================

func TestExportView_Copy(t *testing.T) {
	var copied []string
	v := newTestView(sampleConversation(), false)
	v.clipboard = func(s string) error {
		copied = append(copied, s)
		return nil
	}

	p := v.Payload()
	runCmd(t, v, v.Update(runeKey("y")))
	runCmd(t, v, v.Update(runeKey("m")))
	msg := runCmd(t, v, v.Update(runeKey("Y")))

	require.Len(t, copied, 3)
	assert.Equal(t, p.JSONBlock, copied[0])
	assert.Equal(t, p.MarkdownBlock, copied[1])
	assert.True(t, strings.HasPrefix(copied[2], "["))
	assert.Equal(t, "raw_json", msg.(ExportCopiedMsg).What)
	assert.Contains(t, v.Status(), "Copied")
}

func TestExportView_CopyFailureKeepsViewUsable(t *testing.T) {
	v := newTestView(sampleConversation(), false)
	v.clipboard = func(string) error { return errors.New("no clipboard") }

	runCmd(t, v, v.Update(runeKey("y")))
	assert.Contains(t, v.Status(), "Failed")
	assert.Contains(t, v.Status(), "no clipboard")
	assert.Contains(t, v.View(), "no clipboard")

	v.ClearStatus()
	assert.Empty(t, v.Status())
}

func TestExportView_Save(t *testing.T) {
	var saved export.Payload
	v := newTestView(sampleConversation(), false)
	v.saver = func(p export.Payload) (export.SavedFiles, error) {
		saved = p
		return export.SavedFiles{JSONPath: "out/c.json", MarkdownPath: "out/c.md"}, nil
	}

	msg := runCmd(t, v, v.Update(runeKey("s")))

	savedMsg, ok := msg.(ExportSavedMsg)
	require.True(t, ok)
	assert.NoError(t, savedMsg.Err)
	assert.Equal(t, 2, savedMsg.Messages)
	assert.Equal(t, v.Payload(), saved)
	assert.Contains(t, v.Status(), "Saved to out/c.md")
}

func TestExportView_SaveFailure(t *testing.T) {
	v := newTestView(sampleConversation(), false)
	v.saver = func(export.Payload) (export.SavedFiles, error) {
		return export.SavedFiles{}, errors.New("disk full")
	}

	runCmd(t, v, v.Update(runeKey("s")))
	assert.Contains(t, v.Status(), "disk full")
}

func TestExportView_SaveWritesFiles(t *testing.T) {
	dir := t.TempDir()
	v := newTestView(sampleConversation(), false)
	v.saver = func(p export.Payload) (export.SavedFiles, error) {
		return export.SaveFiles("demo", p, export.SaveOptions{OutputDir: dir})
	}

	msg := runCmd(t, v, v.Update(runeKey("s")))
	files := msg.(ExportSavedMsg).Files
	assert.FileExists(t, files.JSONPath)
	assert.FileExists(t, files.MarkdownPath)
}
