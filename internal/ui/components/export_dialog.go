// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rigrun-export/internal/export"
	"github.com/jeranaias/rigrun-export/internal/i18n"
	"github.com/jeranaias/rigrun-export/internal/ui/styles"
	"github.com/jeranaias/rigrun-export/internal/util"
)

// =============================================================================
// EXPORT DIALOG
// =============================================================================

// TriggerIcon prefixes the default trigger label.
const TriggerIcon = "⇩"

// ExportDialogOptions configures the dialog chrome.
type ExportDialogOptions struct {
	// Title defaults to the localized "export.title".
	Title string

	// Description defaults to the localized "export.description".
	Description string

	// Trigger renders a custom trigger in place of the default icon and
	// label.
	Trigger func() string

	// Formatter overrides the view's Markdown formatter when set.
	Formatter export.Formatter

	// Reserved: accepted for callers that pass them, not acted on.
	MaxLength     int
	Submittable   bool
	OnSubmit      func(string)
	CloseOnSubmit bool
}

// ExportDialog presents an ExportView in a modal box.
type ExportDialog struct {
	view       *ExportView
	opts       ExportDialogOptions
	open       OpenController
	translator i18n.Translator
	theme      *styles.Theme

	width  int
	height int
}

// NewExportDialog creates an export dialog. A nil controller gives an
// uncontrolled dialog that starts closed.
func NewExportDialog(cfg ExportViewConfig, opts ExportDialogOptions, open OpenController) *ExportDialog {
	if opts.Formatter != nil {
		cfg.Formatter = opts.Formatter
	}
	if cfg.Theme == nil {
		cfg.Theme = styles.NewTheme()
	}
	if open == nil {
		open = &UncontrolledOpen{}
	}

	d := &ExportDialog{
		view:       NewExportView(cfg),
		opts:       opts,
		open:       open,
		translator: cfg.Translator,
		theme:      cfg.Theme,
	}
	d.SetSize(80, 24)
	return d
}

// JSONTransMarkdownDialog creates an export dialog whose preview wraps the
// transcript in a markdown fence.
func JSONTransMarkdownDialog(cfg ExportViewConfig, opts ExportDialogOptions, open OpenController) *ExportDialog {
	opts.Formatter = export.MarkdownFence
	return NewExportDialog(cfg, opts, open)
}

// =============================================================================
// STATE
// =============================================================================

// Open asks the controller to open the dialog.
func (d *ExportDialog) Open() {
	d.view.ClearStatus()
	d.open.SetOpen(true)
}

// Close asks the controller to close the dialog.
func (d *ExportDialog) Close() {
	d.open.SetOpen(false)
}

// IsVisible returns whether the dialog is open.
func (d *ExportDialog) IsVisible() bool {
	return d.open.IsOpen()
}

// ExportView returns the hosted export view.
func (d *ExportDialog) ExportView() *ExportView {
	return d.view
}

// SetSize updates the area the dialog is centered in.
func (d *ExportDialog) SetSize(width, height int) {
	d.width = width
	d.height = height

	// Border and padding take 6 columns and 4 rows; the chrome lines 4 more.
	boxWidth, boxHeight := d.boxSize()
	d.view.SetSize(boxWidth-6, boxHeight-8)
}

func (d *ExportDialog) boxSize() (int, int) {
	w := d.width - 4
	if w > 160 {
		w = 160
	}
	if w < 30 {
		w = 30
	}
	h := d.height - 2
	if h < 12 {
		h = 12
	}
	return w, h
}

// Update handles input while the dialog is open. The second return value
// reports whether the message was consumed.
func (d *ExportDialog) Update(msg tea.Msg) (tea.Cmd, bool) {
	if !d.IsVisible() {
		return nil, false
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			d.Close()
			return nil, true
		}
		return d.view.Update(msg), true

	case ExportCopiedMsg, ExportSavedMsg:
		return d.view.Update(msg), true
	}

	return nil, false
}

// =============================================================================
// RENDERING
// =============================================================================

// TriggerView renders the affordance that opens the dialog. It is empty
// when the caller owns opening.
func (d *ExportDialog) TriggerView() string {
	if !d.open.ShowsTrigger() {
		return ""
	}
	if d.opts.Trigger != nil {
		return d.opts.Trigger()
	}
	return d.theme.Trigger.Render(TriggerIcon + " " + d.t(i18n.KeyTrigger))
}

// Title returns the dialog title.
func (d *ExportDialog) Title() string {
	if d.opts.Title != "" {
		return d.opts.Title
	}
	return d.t(i18n.KeyTitle)
}

// Description returns the dialog description.
func (d *ExportDialog) Description() string {
	if d.opts.Description != "" {
		return d.opts.Description
	}
	return d.t(i18n.KeyDescription)
}

// View renders the dialog centered in its area, or nothing when closed.
func (d *ExportDialog) View() string {
	if !d.IsVisible() {
		return ""
	}

	boxWidth, _ := d.boxSize()
	inner := boxWidth - 6

	content := lipgloss.JoinVertical(lipgloss.Left,
		d.theme.DialogTitle.Render(util.TruncateWidth(d.Title(), inner)),
		d.theme.DialogDescription.Render(util.TruncateWidth(d.Description(), inner)),
		"",
		d.view.View(),
		d.theme.DialogHint.Render(util.TruncateWidth(d.t(i18n.KeyHint), inner)),
	)

	box := d.theme.DialogBox.Render(content)
	return lipgloss.Place(d.width, d.height, lipgloss.Center, lipgloss.Center, box)
}

func (d *ExportDialog) t(key string) string {
	return i18n.Lookup(d.translator, key)
}
