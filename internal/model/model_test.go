// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"fmt"
	"strings"
	"testing"
)

// =============================================================================
// ROLE TESTS
// =============================================================================

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"user", RoleUser},
		{"human", RoleUser},
		{"assistant", RoleAssistant},
		{"model", RoleAssistant},
		{"system", RoleSystem},
		{"tool", RoleTool},
		{"narrator", Role("narrator")},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			if got := ParseRole(tc.in); got != tc.want {
				t.Errorf("ParseRole(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestRole_IsUser(t *testing.T) {
	if !RoleUser.IsUser() {
		t.Error("RoleUser.IsUser() = false")
	}
	for _, r := range []Role{RoleAssistant, RoleSystem, RoleTool, Role("other")} {
		if r.IsUser() {
			t.Errorf("%q.IsUser() = true", r)
		}
	}
}

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestConversation_RevisionChangesOnMutation(t *testing.T) {
	conv := NewConversation()
	start := conv.Revision()

	conv.AddUserMessage("hi")
	afterAdd := conv.Revision()
	if afterAdd == start {
		t.Fatal("revision should change after AddUserMessage")
	}

	_ = conv.Messages()
	if conv.Revision() != afterAdd {
		t.Error("reading messages must not change the revision")
	}

	conv.ReplaceMessages([]Message{NewAssistantMessage("x")})
	if conv.Revision() == afterAdd {
		t.Error("revision should change after ReplaceMessages")
	}
}

func TestConversation_MessagesIsSnapshot(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("hi")

	snap := conv.Messages()
	snap[0].Content = "mutated"

	if got := conv.Messages()[0].Content; got != "hi" {
		t.Errorf("store content = %q, want %q", got, "hi")
	}
}

func TestConversation_RemoveMessage(t *testing.T) {
	conv := NewConversation()
	msg := conv.AddUserMessage("hi")
	conv.AddAssistantMessage("hello")

	if !conv.RemoveMessage(msg.ID) {
		t.Fatal("RemoveMessage returned false for existing ID")
	}
	if conv.MessageCount() != 1 {
		t.Errorf("MessageCount = %d, want 1", conv.MessageCount())
	}
	if conv.RemoveMessage("missing") {
		t.Error("RemoveMessage returned true for missing ID")
	}
}

func TestConversation_KeepsLongHistory(t *testing.T) {
	msgs := make([]Message, 1500)
	for i := range msgs {
		msgs[i] = NewUserMessage(fmt.Sprintf("m%d", i))
	}

	conv := NewConversationWithMessages(msgs)
	if conv.MessageCount() != 1500 {
		t.Fatalf("MessageCount = %d, want 1500", conv.MessageCount())
	}
	if got := conv.Messages()[0].Content; got != "m0" {
		t.Errorf("first message = %q, want %q", got, "m0")
	}

	conv.ReplaceMessages(msgs)
	conv.AddAssistantMessage("tail")
	if conv.MessageCount() != 1501 {
		t.Errorf("MessageCount after append = %d, want 1501", conv.MessageCount())
	}
}

func TestConversation_GetTitle(t *testing.T) {
	conv := NewConversation()
	if conv.GetTitle() != "New conversation" {
		t.Errorf("empty title = %q", conv.GetTitle())
	}

	conv.AddAssistantMessage("ignored")
	conv.AddUserMessage("line one\nline two")
	if got := conv.GetTitle(); strings.Contains(got, "\n") || !strings.HasPrefix(got, "line one") {
		t.Errorf("GetTitle() = %q", got)
	}

	conv.SetTitle("custom")
	if conv.GetTitle() != "custom" {
		t.Errorf("GetTitle() = %q, want custom", conv.GetTitle())
	}
}

func TestMessage_Preview(t *testing.T) {
	msg := NewUserMessage("héllo wörld")
	if got := msg.Preview(100); got != "héllo wörld" {
		t.Errorf("Preview(100) = %q", got)
	}
	if got := msg.Preview(8); got != "héllo..." {
		t.Errorf("Preview(8) = %q", got)
	}
	if !strings.HasPrefix(msg.ID, "msg_") {
		t.Errorf("ID = %q, want msg_ prefix", msg.ID)
	}
}
