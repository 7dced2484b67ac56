// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"log"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rigrun-export/internal/export"
	"github.com/jeranaias/rigrun-export/internal/i18n"
	"github.com/jeranaias/rigrun-export/internal/model"
	"github.com/jeranaias/rigrun-export/internal/ui/styles"
	"github.com/jeranaias/rigrun-export/internal/util"
)

// =============================================================================
// EXPORT VIEW - JSON input pane and Markdown preview pane
// =============================================================================

// MessageSource supplies the messages to export. Revision must change
// whenever the message list changes.
type MessageSource interface {
	Messages() []model.Message
	Revision() uint64
}

// ViewMode names the three reachable pane layouts.
type ViewMode int

const (
	ModeInputOnly ViewMode = iota
	ModeSplit
	ModePreviewOnly
)

// String returns the mode name.
func (m ViewMode) String() string {
	switch m {
	case ModeInputOnly:
		return "input"
	case ModeSplit:
		return "split"
	case ModePreviewOnly:
		return "preview"
	default:
		return "unknown"
	}
}

// ExportViewConfig configures an ExportView.
type ExportViewConfig struct {
	Source     MessageSource
	Translator i18n.Translator

	// Compact seeds the preview default: compact terminals start with the
	// preview hidden. Read once at construction.
	Compact bool

	// Formatter post-processes the Markdown block. nil leaves it unchanged.
	Formatter export.Formatter

	Theme *styles.Theme

	// Clipboard writes text to the system clipboard.
	// Default: clipboard.WriteAll
	Clipboard func(string) error

	// Saver writes the payload to disk.
	// Default: export.SaveFiles into ./exports
	Saver func(export.Payload) (export.SavedFiles, error)
}

// ExportCopiedMsg reports the result of a clipboard copy.
type ExportCopiedMsg struct {
	What  string
	Bytes int
	Err   error
}

// ExportSavedMsg reports the result of saving the payload to files.
type ExportSavedMsg struct {
	Files    export.SavedFiles
	Messages int
	Err      error
}

// ExportView shows the export payload as a JSON pane and a Markdown
// preview pane. At least one pane is always visible.
type ExportView struct {
	source     MessageSource
	translator i18n.Translator
	theme      *styles.Theme
	clipboard  func(string) error
	saver      func(export.Payload) (export.SavedFiles, error)

	formatter    export.Formatter
	formatterGen uint64
	memo         export.Memo

	showInput   bool
	showPreview bool

	input   *Viewer
	preview *Viewer

	width  int
	height int

	status string
}

// NewExportView creates an export view.
func NewExportView(cfg ExportViewConfig) *ExportView {
	theme := cfg.Theme
	if theme == nil {
		theme = styles.NewTheme()
	}
	clip := cfg.Clipboard
	if clip == nil {
		clip = clipboard.WriteAll
	}
	saver := cfg.Saver
	if saver == nil {
		saver = func(p export.Payload) (export.SavedFiles, error) {
			return export.SaveFiles("", p, export.SaveOptions{OutputDir: "./exports"})
		}
	}

	v := &ExportView{
		source:      cfg.Source,
		translator:  cfg.Translator,
		theme:       theme,
		clipboard:   clip,
		saver:       saver,
		formatter:   cfg.Formatter,
		showInput:   true,
		showPreview: !cfg.Compact,
		input:       NewViewer(theme, ViewerCode),
		preview:     NewViewer(theme, ViewerMarkdown),
	}
	v.SetSize(80, 24)
	return v
}

// =============================================================================
// STATE
// =============================================================================

// SelectInput shows only the JSON pane.
func (v *ExportView) SelectInput() {
	v.showInput, v.showPreview = true, false
}

// SelectSplit shows both panes.
func (v *ExportView) SelectSplit() {
	v.showInput, v.showPreview = true, true
}

// SelectPreview shows only the Markdown preview.
func (v *ExportView) SelectPreview() {
	v.showInput, v.showPreview = false, true
}

// Cycle advances input, split, preview and back to input.
func (v *ExportView) Cycle() {
	switch v.Mode() {
	case ModeInputOnly:
		v.SelectSplit()
	case ModeSplit:
		v.SelectPreview()
	default:
		v.SelectInput()
	}
}

// Mode returns the current pane layout.
func (v *ExportView) Mode() ViewMode {
	switch {
	case v.showInput && v.showPreview:
		return ModeSplit
	case v.showPreview:
		return ModePreviewOnly
	default:
		return ModeInputOnly
	}
}

// ShowInput reports whether the JSON pane is visible.
func (v *ExportView) ShowInput() bool { return v.showInput }

// ShowPreview reports whether the preview pane is visible.
func (v *ExportView) ShowPreview() bool { return v.showPreview }

// SetFormatter replaces the Markdown formatter. The next render rebuilds
// the payload.
func (v *ExportView) SetFormatter(f export.Formatter) {
	v.formatter = f
	v.formatterGen++
}

// Payload returns the payload for the current messages, building it only
// when the messages, formatter or labels have changed.
func (v *ExportView) Payload() export.Payload {
	labels := export.LabelsFrom(v.translator)

	var revision uint64
	if v.source != nil {
		revision = v.source.Revision()
	}

	key := export.MemoKey{Revision: revision, Formatter: v.formatterGen, Labels: labels}
	return v.memo.Get(key, func() export.Payload {
		var messages []model.Message
		if v.source != nil {
			messages = v.source.Messages()
		}
		return export.Build(messages, labels, v.formatter)
	})
}

// Builds reports how many payloads have been built.
func (v *ExportView) Builds() int {
	return v.memo.Builds()
}

// Status returns the last copy or save result line.
func (v *ExportView) Status() string {
	return v.status
}

// ClearStatus empties the status line.
func (v *ExportView) ClearStatus() {
	v.status = ""
}

// SetSize updates the view dimensions.
func (v *ExportView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.layout()
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles mode, copy, save and scroll keys, and the results of copy
// and save commands.
func (v *ExportView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ExportCopiedMsg:
		v.handleCopied(msg)
		return nil

	case ExportSavedMsg:
		v.handleSaved(msg)
		return nil

	case tea.KeyMsg:
		switch msg.String() {
		case "1":
			v.SelectInput()
			v.layout()
			return nil
		case "2":
			v.SelectSplit()
			v.layout()
			return nil
		case "3":
			v.SelectPreview()
			v.layout()
			return nil
		case "tab":
			v.Cycle()
			v.layout()
			return nil
		case "y":
			return v.copyCmd("json", v.Payload().JSONBlock)
		case "Y":
			_, raw, _ := export.Unfence(v.Payload().JSONBlock)
			return v.copyCmd("raw_json", raw)
		case "m":
			return v.copyCmd("markdown", v.Payload().MarkdownBlock)
		case "s":
			return v.saveCmd()
		}
	}

	var cmds []tea.Cmd
	if v.showInput {
		cmds = append(cmds, v.input.Update(msg))
	}
	if v.showPreview {
		cmds = append(cmds, v.preview.Update(msg))
	}
	return tea.Batch(cmds...)
}

func (v *ExportView) copyCmd(what, text string) tea.Cmd {
	write := v.clipboard
	return func() tea.Msg {
		return ExportCopiedMsg{What: what, Bytes: len(text), Err: write(text)}
	}
}

func (v *ExportView) saveCmd() tea.Cmd {
	payload := v.Payload()
	count := 0
	if v.source != nil {
		count = len(v.source.Messages())
	}
	save := v.saver
	return func() tea.Msg {
		files, err := save(payload)
		return ExportSavedMsg{Files: files, Messages: count, Err: err}
	}
}

func (v *ExportView) handleCopied(msg ExportCopiedMsg) {
	if msg.Err != nil {
		log.Printf("EXPORT_FAILED | op=copy what=%s err=%v", msg.What, msg.Err)
		v.status = styles.RenderError(v.t(i18n.KeyFailed) + ": " + msg.Err.Error())
		return
	}
	log.Printf("EXPORT_COPIED | what=%s bytes=%d", msg.What, msg.Bytes)
	v.status = styles.RenderSuccess(v.t(i18n.KeyCopied))
}

func (v *ExportView) handleSaved(msg ExportSavedMsg) {
	if msg.Err != nil {
		log.Printf("EXPORT_FAILED | op=save err=%v", msg.Err)
		v.status = styles.RenderError(v.t(i18n.KeyFailed) + ": " + msg.Err.Error())
		return
	}
	v.status = styles.RenderSuccess(v.t(i18n.KeySaved) + " " + msg.Files.MarkdownPath)
}

func (v *ExportView) t(key string) string {
	return i18n.Lookup(v.translator, key)
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the toolbar, the visible panes and the status line.
func (v *ExportView) View() string {
	payload := v.Payload()
	v.input.SetContent(payload.JSONBlock, true)
	v.preview.SetContent(payload.MarkdownBlock, true)

	var panes []string
	if v.showInput {
		panes = append(panes, v.renderPane(v.t(i18n.KeyModeInput), v.input))
	}
	if v.showPreview {
		panes = append(panes, v.renderPane(v.t(i18n.KeyModePreview), v.preview))
	}

	parts := []string{
		v.renderToolbar(),
		lipgloss.JoinHorizontal(lipgloss.Top, panes...),
	}
	if v.status != "" {
		parts = append(parts, lipgloss.NewStyle().MaxWidth(v.width).Render(v.status))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (v *ExportView) renderToolbar() string {
	mode := v.Mode()
	toggles := []struct {
		key   string
		label string
		mode  ViewMode
	}{
		{"1", v.t(i18n.KeyModeInput), ModeInputOnly},
		{"2", v.t(i18n.KeyModeSplit), ModeSplit},
		{"3", v.t(i18n.KeyModePreview), ModePreviewOnly},
	}

	var rendered []string
	for _, tg := range toggles {
		label := tg.key + " " + tg.label
		if tg.mode == mode {
			rendered = append(rendered, v.theme.TogglePressed.Render("["+label+"]"))
		} else {
			rendered = append(rendered, v.theme.Toggle.Render(" "+label+" "))
		}
		rendered = append(rendered, " ")
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, rendered[:len(rendered)-1]...)
}

func (v *ExportView) renderPane(title string, viewer *Viewer) string {
	header := v.theme.PaneTitle.Render(util.TruncateWidth(title, viewer.width))
	body := lipgloss.JoinVertical(lipgloss.Left, header, viewer.View())
	return v.theme.Pane.Render(body)
}

// layout sizes the viewers for the current mode. Each pane carries a
// border of one cell and a title line.
func (v *ExportView) layout() {
	paneHeight := v.height - 2 // toolbar, status
	innerHeight := paneHeight - 3
	if innerHeight < 1 {
		innerHeight = 1
	}

	if v.showInput && v.showPreview {
		left := v.width / 2
		right := v.width - left
		v.input.SetSize(left-2, innerHeight)
		v.preview.SetSize(right-2, innerHeight)
		return
	}
	v.input.SetSize(v.width-2, innerHeight)
	v.preview.SetSize(v.width-2, innerHeight)
}
