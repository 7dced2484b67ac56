// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rigrun-export/internal/config"
	"github.com/jeranaias/rigrun-export/internal/detect"
	"github.com/jeranaias/rigrun-export/internal/export"
	"github.com/jeranaias/rigrun-export/internal/i18n"
	"github.com/jeranaias/rigrun-export/internal/model"
	"github.com/jeranaias/rigrun-export/internal/storage"
	"github.com/jeranaias/rigrun-export/internal/ui/components"
	"github.com/jeranaias/rigrun-export/internal/ui/styles"
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options wires the chat host to its collaborators. Only Conversation is
// required.
type Options struct {
	Conversation *model.Conversation
	Translator   i18n.Translator
	Theme        *styles.Theme

	// Probe decides whether the export preview starts hidden. It is
	// consulted once, in New.
	Probe detect.Probe

	// Export configures where dialogs save files.
	Export config.ExportConfig

	// Store receives the conversation on ctrl+s. nil disables saving.
	Store *storage.ConversationStore

	// History records every export written to disk. Optional.
	History *storage.History

	// Watcher feeds reloads of the conversation file. Optional; the caller
	// starts and closes it.
	Watcher *storage.Watcher

	// Clipboard overrides the system clipboard, mainly for tests.
	Clipboard func(string) error
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model hosting a conversation and its export
// dialogs.
type Model struct {
	theme      *styles.Theme
	translator i18n.Translator

	width  int
	height int

	conversation *model.Conversation
	storedID     string

	store   *storage.ConversationStore
	history *storage.History
	watcher *storage.Watcher

	// export is the uncontrolled dialog opened from its trigger.
	export *components.ExportDialog

	// fenced is controlled through fencedOpen; it shows no trigger.
	fenced     *components.ExportDialog
	fencedOpen *bool

	viewport viewport.Model
	input    textinput.Model
	keyMap   KeyMap

	statusMsg string
}

// New creates a chat model.
func New(opts Options) Model {
	conv := opts.Conversation
	if conv == nil {
		conv = model.NewConversation()
	}
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme()
	}
	probe := opts.Probe
	if probe == nil {
		probe = detect.Static(false)
	}

	exportCfg := opts.Export
	viewCfg := components.ExportViewConfig{
		Source:     conv,
		Translator: opts.Translator,
		Compact:    detect.Safe(probe).IsCompact(),
		Theme:      theme,
		Clipboard:  opts.Clipboard,
		Saver: func(p export.Payload) (export.SavedFiles, error) {
			return export.SaveFiles(conv.GetTitle(), p, export.SaveOptions{
				OutputDir:       exportCfg.OutputDir,
				OpenAfterExport: exportCfg.OpenAfterExport,
			})
		},
	}

	var exportOpts components.ExportDialogOptions
	if exportCfg.WrapMarkdown {
		exportOpts.Formatter = export.MarkdownFence
	}

	fencedOpen := new(bool)
	fenced := components.JSONTransMarkdownDialog(viewCfg, components.ExportDialogOptions{}, components.ControlledOpen{
		Open:         func() bool { return *fencedOpen },
		OnOpenChange: func(open bool) { *fencedOpen = open },
	})

	vp := viewport.New(80, 20)
	vp.Style = lipgloss.NewStyle()

	ti := textinput.New()
	ti.Placeholder = i18n.Lookup(opts.Translator, i18n.KeyPlaceholder)
	ti.Prompt = "> "
	ti.CharLimit = 0
	ti.Focus()

	m := Model{
		theme:        theme,
		translator:   opts.Translator,
		conversation: conv,
		store:        opts.Store,
		history:      opts.History,
		watcher:      opts.Watcher,
		export:       components.NewExportDialog(viewCfg, exportOpts, nil),
		fenced:       fenced,
		fencedOpen:   fencedOpen,
		viewport:     vp,
		input:        ti,
		keyMap:       DefaultKeyMap(),
	}
	m.updateViewport()
	return m
}

// Init starts the cursor blink and, when a watcher is set, listening for
// reloads.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.watcher != nil {
		cmds = append(cmds, waitForReload(m.watcher))
	}
	return tea.Batch(cmds...)
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Conversation returns the hosted conversation.
func (m Model) Conversation() *model.Conversation {
	return m.conversation
}

// ExportDialog returns the trigger-opened export dialog.
func (m Model) ExportDialog() *components.ExportDialog {
	return m.export
}

// FencedDialog returns the caller-controlled fenced-markdown dialog.
func (m Model) FencedDialog() *components.ExportDialog {
	return m.fenced
}

// StoredID returns the store ID after the first save, or "".
func (m Model) StoredID() string {
	return m.storedID
}

// Status returns the current status bar message.
func (m Model) Status() string {
	return m.statusMsg
}

func (m Model) t(key string) string {
	return i18n.Lookup(m.translator, key)
}
