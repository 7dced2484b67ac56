// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides conversation persistence for rigrun-export.
//
// # Key Types
//
//   - ConversationStore: JSON files, one per conversation, written atomically
//   - StoredConversation: Serializable conversation with metadata
//   - Watcher: reloads a conversation file when it changes on disk
//   - History: SQLite log of saved exports
//
// # Usage
//
//	store, err := storage.NewConversationStoreWithDir(dir)
//	id, err := store.SaveModel(conv)
//	stored, err := store.Load(id)
//	conv = stored.ToModel()
//
// Follow a file another program keeps writing:
//
//	w, err := storage.NewWatcher(path, 0)
//	w.Start(ctx)
//	for r := range w.Reloads() {
//	    conv.ReplaceMessages(r.Conversation.ModelMessages())
//	}
//
// # Storage Location
//
// Conversations are stored in ~/.rigrun-export/conversations/ as JSON files;
// the export history lives in ~/.rigrun-export/history.db.
package storage
