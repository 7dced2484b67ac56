// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rigrun-export/internal/export"
	"github.com/jeranaias/rigrun-export/internal/ui/styles"
)

// =============================================================================
// VIEWER - Scrollable read-only pane
// =============================================================================

// ViewerKind selects how a Viewer renders its content.
type ViewerKind int

const (
	// ViewerMarkdown renders content through glamour.
	ViewerMarkdown ViewerKind = iota

	// ViewerCode renders a fenced code block with chroma highlighting.
	ViewerCode
)

// Viewer shows text content inside a scrollable viewport.
//
// With loading set the scroll footer is hidden and the content is shown as
// given, without waiting for anything further.
type Viewer struct {
	viewport viewport.Model
	theme    *styles.Theme
	kind     ViewerKind

	content string
	loading bool

	width  int
	height int

	renderer      *glamour.TermRenderer
	rendererWidth int
	rendered      bool
}

// NewViewer creates a viewer of the given kind.
func NewViewer(theme *styles.Theme, kind ViewerKind) *Viewer {
	vp := viewport.New(40, 10)
	vp.Style = lipgloss.NewStyle()

	return &Viewer{
		viewport: vp,
		theme:    theme,
		kind:     kind,
		width:    40,
		height:   10,
	}
}

// SetContent replaces the displayed text. Setting the same content again
// does not re-render.
func (v *Viewer) SetContent(content string, loading bool) {
	if v.rendered && content == v.content && loading == v.loading {
		return
	}
	v.content = content
	v.loading = loading
	v.render()
}

// Content returns the raw content last given to SetContent.
func (v *Viewer) Content() string {
	return v.content
}

// Loading reports whether the viewer was given the loading flag.
func (v *Viewer) Loading() bool {
	return v.loading
}

// SetSize updates the viewer dimensions, footer included.
func (v *Viewer) SetSize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if width == v.width && height == v.height {
		return
	}
	v.width = width
	v.height = height

	v.viewport.Width = width
	v.viewport.Height = v.bodyHeight()
	if v.rendered {
		v.render()
	}
}

// Update handles scrolling keys.
func (v *Viewer) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return cmd
}

// View renders the viewer.
func (v *Viewer) View() string {
	body := v.viewport.View()
	if v.loading {
		return body
	}

	footer := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Width(v.width).
		Align(lipgloss.Right).
		Render(fmt.Sprintf("%3.f%%", v.viewport.ScrollPercent()*100))
	return lipgloss.JoinVertical(lipgloss.Left, body, footer)
}

func (v *Viewer) bodyHeight() int {
	if v.loading || v.height < 2 {
		return v.height
	}
	return v.height - 1
}

// =============================================================================
// RENDERING
// =============================================================================

func (v *Viewer) render() {
	v.rendered = true
	v.viewport.Height = v.bodyHeight()

	var out string
	switch v.kind {
	case ViewerCode:
		out = v.renderCode()
	default:
		out = v.renderMarkdown()
	}

	v.viewport.SetContent(strings.TrimRight(out, "\n"))
	v.viewport.GotoTop()
}

func (v *Viewer) renderMarkdown() string {
	if v.content == "" {
		return ""
	}

	r, err := v.markdownRenderer()
	if err != nil {
		log.Printf("VIEWER_RENDER_FAILED | kind=markdown err=%v", err)
		return v.content
	}

	out, err := r.Render(v.content)
	if err != nil {
		log.Printf("VIEWER_RENDER_FAILED | kind=markdown err=%v", err)
		return v.content
	}
	return out
}

// markdownRenderer returns a glamour renderer sized to the viewer, reusing
// the previous one while the width is unchanged.
func (v *Viewer) markdownRenderer() (*glamour.TermRenderer, error) {
	if v.renderer != nil && v.rendererWidth == v.width {
		return v.renderer, nil
	}

	styleName := "dark"
	profile := lipgloss.ColorProfile()
	if v.theme != nil {
		styleName = v.theme.GlamourStyle()
		profile = v.theme.ColorProfile
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(styleName),
		glamour.WithColorProfile(profile),
		glamour.WithWordWrap(v.width),
	)
	if err != nil {
		return nil, err
	}
	v.renderer = r
	v.rendererWidth = v.width
	return r, nil
}

// renderCode highlights the body of a fenced block and keeps the fence
// lines visible. Unfenced content is highlighted as a whole.
func (v *Viewer) renderCode() string {
	profile := lipgloss.ColorProfile()
	dark := true
	if v.theme != nil {
		profile = v.theme.ColorProfile
		dark = v.theme.IsDark
	}

	lang, body, ok := export.Unfence(v.content)
	if !ok {
		return HighlightCode(v.content, "", profile, dark)
	}

	lines := strings.SplitN(v.content, "\n", 2)
	open := lines[0]
	closeFence := open[:len(open)-len(strings.TrimLeft(open, "`"))]

	var sb strings.Builder
	sb.WriteString(open)
	sb.WriteString("\n")
	sb.WriteString(strings.TrimRight(HighlightCode(body, lang, profile, dark), "\n"))
	sb.WriteString("\n")
	sb.WriteString(closeFence)
	return sb.String()
}
