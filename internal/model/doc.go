// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// # Key Types
//
//   - Conversation: ordered transcript that doubles as the message store
//     read by the export dialog (Messages snapshot plus Revision counter)
//   - Message: single message with role, content and timestamp
//   - Role: message role (user, assistant, system, tool)
//
// # Usage
//
//	conv := model.NewConversation()
//	conv.AddUserMessage("hi")
//	conv.AddAssistantMessage("hello")
//	msgs := conv.Messages() // copy, safe to keep
package model
