// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/jeranaias/rigrun-export/internal/i18n"
	"github.com/jeranaias/rigrun-export/internal/model"
)

// =============================================================================
// TYPES
// =============================================================================

// Payload is the derived export of one message snapshot.
type Payload struct {
	// JSONBlock is the message list as 4-space indented JSON in a json fence.
	JSONBlock string

	// MarkdownBlock is the transcript, after the formatter if one was given.
	MarkdownBlock string
}

// Formatter post-processes the Markdown transcript. A nil Formatter
// leaves the transcript unchanged.
type Formatter func(string) string

// Labels holds the headings used for each side of the conversation.
type Labels struct {
	User  string
	Other string
}

// LabelsFrom resolves the role headings through a translator.
func LabelsFrom(t i18n.Translator) Labels {
	return Labels{
		User:  i18n.Lookup(t, i18n.KeyUserSays),
		Other: i18n.Lookup(t, i18n.KeyAISays),
	}
}

// For returns the heading for role.
func (l Labels) For(role model.Role) string {
	if role.IsUser() {
		return l.User
	}
	return l.Other
}

// entry is the exported projection of a message. Field order fixes the
// JSON key order.
type entry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// =============================================================================
// TRANSFORM
// =============================================================================

// Build derives the export payload for messages. The formatter touches the
// Markdown block only.
func Build(messages []model.Message, labels Labels, format Formatter) Payload {
	markdown := BuildMarkdown(messages, labels)
	if format != nil {
		markdown = format(markdown)
	}
	return Payload{
		JSONBlock:     BuildJSON(messages),
		MarkdownBlock: markdown,
	}
}

// BuildJSON returns the {role, content} projection of messages as an
// indented JSON array inside a json fence.
func BuildJSON(messages []model.Message) string {
	return Fence("json", MarshalMessages(messages))
}

// MarshalMessages returns the {role, content} projection as indented JSON.
// HTML characters and line separators are left as-is so code in messages
// stays readable.
func MarshalMessages(messages []model.Message) string {
	entries := make([]entry, 0, len(messages))
	for _, msg := range messages {
		entries = append(entries, entry{Role: string(msg.Role), Content: msg.Content})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(entries); err != nil {
		// Unreachable for string fields.
		return "[]"
	}
	return unescapeLineSeparators(strings.TrimSuffix(buf.String(), "\n"))
}

// unescapeLineSeparators undoes the encoder's \u2028 and \u2029 escapes,
// which SetEscapeHTML does not cover. Escaped backslashes are skipped so a
// literal "\\u2028" in a message survives.
func unescapeLineSeparators(s string) string {
	if !strings.Contains(s, `\u202`) {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			sb.WriteByte(s[i])
			continue
		}
		switch {
		case strings.HasPrefix(s[i:], `\u2028`):
			sb.WriteRune('\u2028')
			i += 5
		case strings.HasPrefix(s[i:], `\u2029`):
			sb.WriteRune('\u2029')
			i += 5
		default:
			sb.WriteByte(s[i])
			sb.WriteByte(s[i+1])
			i++
		}
	}
	return sb.String()
}

// BuildMarkdown renders each message as a level-2 heading followed by its
// content, with a blank line between messages.
func BuildMarkdown(messages []model.Message, labels Labels) string {
	parts := make([]string, 0, len(messages))
	for _, msg := range messages {
		parts = append(parts, "## "+labels.For(msg.Role)+"\n\n"+msg.Content)
	}
	return strings.Join(parts, "\n\n")
}

// MarkdownFence wraps a transcript in a markdown fence so it can be pasted
// as a single code block.
func MarkdownFence(value string) string {
	return Fence("markdown", value)
}
