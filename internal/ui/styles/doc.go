// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for rigrun-export.

# Color System (colors.go)

All colors are Lip Gloss AdaptiveColor values:

	Purple, Cyan, Emerald - accents
	Rose, Amber           - errors and warnings
	Surface, SurfaceDim   - backgrounds
	TextPrimary .. TextMuted - text hierarchy

Status helpers pair each color with an ASCII indicator ([OK], [X], [i]).

# Theme System (theme.go)

	theme := styles.NewThemeFor(cfg.UI.Theme)
	theme.Apply()
	renderer, _ := glamour.NewTermRenderer(glamour.WithStandardStyle(theme.GlamourStyle()))
*/
package styles
