// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the host view for rigrun-export's TUI.

The Model shows a conversation transcript, takes new messages from a text
input and hosts two export dialogs:

  - ctrl+e opens the trigger-driven dialog (its trigger sits in the status
    bar); the dialog owns its open state.
  - ctrl+o opens the fenced-markdown dialog, whose open state belongs to
    the Model, so it renders no trigger.

Typing "/assistant text" appends an assistant message, "/system text" a
system message, "/clear" empties the conversation; anything else is a
user message. ctrl+s saves the conversation to the store.

When a storage.Watcher is supplied, reloads of the conversation file
replace the messages in place. Files written by the dialogs are recorded
in the export history.
*/
package chat
