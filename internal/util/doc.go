// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across rigrun-export.
//
// # Key Functions
//
//   - AtomicWriteFile: crash-safe file writing with fsync and rename
//   - TruncateWidth, StringWidth, PadRight: display-width aware text
//     helpers built on go-runewidth (CJK and emoji count as two columns)
//   - SanitizeFilename: portable file name fragment from free text
package util
