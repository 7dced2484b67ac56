// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the export UI components for rigrun-export.

All components are plain structs driven from a host Bubble Tea model: the
host forwards messages to Update and composes View output into its own.

# Components

ExportView (export_view.go) - JSON input pane and Markdown preview pane
with a three-way toggle (1 JSON, 2 split, 3 Markdown, tab cycles). The
payload is rebuilt only when the message revision, formatter or labels
change.

ExportDialog (export_dialog.go) - Modal wrapper around ExportView with a
trigger affordance and localized title and description. Open state lives
in an OpenController: UncontrolledOpen keeps it internally,
ControlledOpen hands it to the caller.

Viewer (viewer.go) - Scrollable pane rendering Markdown through glamour or
fenced code through chroma (codeblock.go).

# Usage

	dialog := components.NewExportDialog(components.ExportViewConfig{
		Source:     conv,
		Translator: catalog,
		Compact:    probe.IsCompact(),
		Theme:      theme,
	}, components.ExportDialogOptions{}, nil)

	// In the host Update:
	if cmd, handled := dialog.Update(msg); handled {
		return m, cmd
	}

# Keys

Inside the dialog: y copies the fenced JSON, Y the bare JSON, m the
Markdown; s saves both to files; esc closes.
*/
package components
