// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// list_cmd.go - Stored conversations and export history.
//
// Command: list [--search Q]
// Short:   List stored conversations, most recent first
// Aliases: ls
//
// Command: history [--limit N] [--conversation ID]
// Short:   Show files written by save and the export dialog
//
// Examples:
//   rigrun-export list                  All stored conversations
//   rigrun-export ls -s deploy          Conversations mentioning "deploy"
//   rigrun-export history -n 5          Last five exported files
//   rigrun-export history --conversation abc --json

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jeranaias/rigrun-export/internal/storage"
)

// HandleList handles the "list" command.
func HandleList(args Args, env Env) error {
	return OutputJSON(env.Out, args.JSON, "list", func() (interface{}, error) {
		store, err := OpenStore(env.Config)
		if err != nil {
			return nil, err
		}

		var metas []storage.ConversationMeta
		if args.Search != "" {
			metas, err = store.Search(args.Search)
		} else {
			metas, err = store.List()
		}
		if err != nil {
			return nil, WrapError(err, "list conversations")
		}
		if metas == nil {
			metas = []storage.ConversationMeta{}
		}

		if !args.JSON {
			printBlock(env.Out, storage.FormatSessionList(metas))
		}
		return ListData{Count: len(metas), Conversations: metas}, nil
	})
}

// HandleHistory handles the "history" command.
func HandleHistory(args Args, env Env) error {
	return OutputJSON(env.Out, args.JSON, "history", func() (interface{}, error) {
		path, err := env.Config.HistoryPath()
		if err != nil {
			return nil, NewCommandError("history", "open", "cannot resolve history path", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		history, err := storage.OpenHistory(ctx, path)
		if err != nil {
			return nil, NewCommandError("history", "open", path, err)
		}
		defer history.Close()

		var entries []storage.HistoryEntry
		if args.Conversation != "" {
			entries, err = history.ForConversation(ctx, args.Conversation)
		} else {
			entries, err = history.List(ctx, args.Limit)
		}
		if err != nil {
			return nil, WrapError(err, "read export history")
		}
		if entries == nil {
			entries = []storage.HistoryEntry{}
		}

		if !args.JSON {
			printBlock(env.Out, storage.FormatHistory(entries))
		}
		return HistoryData{Count: len(entries), Entries: entries}, nil
	})
}

// printBlock writes text, ending it with a newline.
func printBlock(w io.Writer, text string) {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	fmt.Fprint(w, text)
}
