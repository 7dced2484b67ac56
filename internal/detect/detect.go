// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package detect

import (
	"log"
	"os"

	"golang.org/x/term"
)

// DefaultCompactWidth is the column count below which a terminal is compact.
const DefaultCompactWidth = 80

// Probe reports whether the environment is constrained.
type Probe interface {
	IsCompact() bool
}

// ProbeFunc adapts a function to Probe.
type ProbeFunc func() bool

// IsCompact implements Probe.
func (f ProbeFunc) IsCompact() bool {
	return f()
}

// Static is a Probe with a fixed answer.
type Static bool

// IsCompact implements Probe.
func (s Static) IsCompact() bool {
	return bool(s)
}

// =============================================================================
// TERMINAL PROBE
// =============================================================================

// sizeFunc matches term.GetSize so tests can stub the measurement.
type sizeFunc func(fd int) (width, height int, err error)

// TerminalProbe treats a terminal narrower than MinWidth columns as compact.
type TerminalProbe struct {
	fd       int
	MinWidth int
	getSize  sizeFunc
}

// NewTerminalProbe creates a probe measuring f.
// A non-positive minWidth selects DefaultCompactWidth.
func NewTerminalProbe(f *os.File, minWidth int) *TerminalProbe {
	if minWidth <= 0 {
		minWidth = DefaultCompactWidth
	}
	return &TerminalProbe{
		fd:       int(f.Fd()),
		MinWidth: minWidth,
		getSize:  term.GetSize,
	}
}

// IsCompact implements Probe. A descriptor that is not a terminal
// (pipes, CI logs) reports false.
func (p *TerminalProbe) IsCompact() bool {
	width, _, err := p.getSize(p.fd)
	if err != nil || width <= 0 {
		return false
	}
	return width < p.MinWidth
}

// IsCompactWidth applies the same rule to a width that is already known,
// e.g. from a tea.WindowSizeMsg.
func IsCompactWidth(width, minWidth int) bool {
	if minWidth <= 0 {
		minWidth = DefaultCompactWidth
	}
	return width > 0 && width < minWidth
}

// =============================================================================
// SAFE WRAPPER
// =============================================================================

type safeProbe struct {
	inner Probe
}

// Safe wraps p so that a nil probe or a panicking probe yields false.
func Safe(p Probe) Probe {
	return safeProbe{inner: p}
}

// IsCompact implements Probe.
func (s safeProbe) IsCompact() (compact bool) {
	if s.inner == nil {
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("PROBE_FAILED | error=%v", r)
			compact = false
		}
	}()
	return s.inner.IsCompact()
}

// Override returns a probe honouring a config value of "true" or "false"
// and deferring to fallback otherwise.
func Override(value string, fallback Probe) Probe {
	switch value {
	case "true", "1", "yes":
		return Static(true)
	case "false", "0", "no":
		return Static(false)
	default:
		return fallback
	}
}
