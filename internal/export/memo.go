// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

// MemoKey identifies the inputs a Payload was built from.
type MemoKey struct {
	// Revision is the message store revision.
	Revision uint64
	// Formatter is bumped whenever the formatter function is replaced.
	Formatter uint64
	// Labels are part of the key so a locale switch rebuilds.
	Labels Labels
}

// Memo caches the most recent Payload. It holds a single entry and is not
// safe for concurrent use.
type Memo struct {
	key     MemoKey
	valid   bool
	payload Payload
	builds  int
}

// Get returns the cached payload for key, calling build on a miss.
func (m *Memo) Get(key MemoKey, build func() Payload) Payload {
	if m.valid && m.key == key {
		return m.payload
	}
	m.payload = build()
	m.key = key
	m.valid = true
	m.builds++
	return m.payload
}

// Invalidate drops the cached entry.
func (m *Memo) Invalidate() {
	m.valid = false
}

// Builds reports how many times build has run.
func (m *Memo) Builds() int {
	return m.builds
}
