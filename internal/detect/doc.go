// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package detect classifies the runtime environment for layout decisions.
//
// The export dialog opens with its preview pane hidden on compact
// terminals. Callers inject a Probe instead of checking the terminal
// themselves, so views stay deterministic under test.
//
// # Key Types
//
//   - Probe: answers IsCompact
//   - TerminalProbe: measures a terminal file descriptor with x/term
//   - Static: fixed answer
//   - Safe: wraps any Probe and turns panics into "not compact"
//
// # Usage
//
//	probe := detect.Safe(detect.NewTerminalProbe(os.Stdout, 80))
//	compact := probe.IsCompact()
package detect
