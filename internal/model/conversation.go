// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds a chat transcript and acts as the message store for
// the export dialog. Every mutation bumps Revision, which is how readers
// tell whether a snapshot they computed from is still current.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	messages []Message
	revision uint64
}

// NewConversation creates a new conversation with a generated ID.
func NewConversation() *Conversation {
	now := time.Now()
	return &Conversation{
		ID:        generateConversationID(),
		CreatedAt: now,
		UpdatedAt: now,
		messages:  make([]Message, 0),
	}
}

// NewConversationWithMessages creates a conversation seeded with messages.
func NewConversationWithMessages(messages []Message) *Conversation {
	conv := NewConversation()
	conv.ReplaceMessages(messages)
	return conv
}

// =============================================================================
// MESSAGE STORE
// =============================================================================

// Messages returns a snapshot of the messages in order.
// The returned slice is a copy; callers may keep it across mutations.
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Revision returns a counter that changes whenever the message list changes.
func (c *Conversation) Revision() uint64 {
	return c.revision
}

// AddMessage appends a message to the conversation.
func (c *Conversation) AddMessage(msg Message) {
	if msg.ID == "" {
		msg.ID = generateID()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	c.messages = append(c.messages, msg)
	c.touch()
}

// AddUserMessage adds a user message and returns it.
func (c *Conversation) AddUserMessage(content string) Message {
	msg := NewUserMessage(content)
	c.AddMessage(msg)
	return msg
}

// AddAssistantMessage adds an assistant message and returns it.
func (c *Conversation) AddAssistantMessage(content string) Message {
	msg := NewAssistantMessage(content)
	c.AddMessage(msg)
	return msg
}

// ReplaceMessages swaps the whole message list, e.g. after a reload from disk.
func (c *Conversation) ReplaceMessages(messages []Message) {
	c.messages = make([]Message, len(messages))
	copy(c.messages, messages)
	c.touch()
}

// RemoveMessage removes a message by ID. Returns true if found.
func (c *Conversation) RemoveMessage(id string) bool {
	for i, msg := range c.messages {
		if msg.ID == id {
			c.messages = append(c.messages[:i], c.messages[i+1:]...)
			c.touch()
			return true
		}
	}
	return false
}

// ClearHistory removes all messages.
func (c *Conversation) ClearHistory() {
	c.messages = make([]Message, 0)
	c.touch()
}

// MessageCount returns the number of messages.
func (c *Conversation) MessageCount() int {
	return len(c.messages)
}

// IsEmpty returns true if the conversation has no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.messages) == 0
}

// =============================================================================
// TITLE
// =============================================================================

// SetTitle sets a custom title.
func (c *Conversation) SetTitle(title string) {
	c.Title = title
}

// GetTitle returns the title, falling back to the first user message.
func (c *Conversation) GetTitle() string {
	if c.Title != "" {
		return c.Title
	}
	for _, msg := range c.messages {
		if msg.Role.IsUser() && msg.Content != "" {
			title := strings.ReplaceAll(msg.Preview(50), "\n", " ")
			return strings.ReplaceAll(title, "\r", "")
		}
	}
	return "New conversation"
}

// =============================================================================
// HELPERS
// =============================================================================

func (c *Conversation) touch() {
	c.revision++
	c.UpdatedAt = time.Now()
}

// generateConversationID creates a unique conversation ID.
func generateConversationID() string {
	return "conv_" + uuid.NewString()
}
