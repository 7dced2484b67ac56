// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// save_cmd.go - Write the export of a conversation to disk.
//
// Command: save (--file PATH | --id ID)
// Short:   Save the JSON and Markdown exports as files
// Aliases: export
//
// Examples:
//   rigrun-export save chat.json                 Write to export.output_dir
//   rigrun-export save --id abc -o ~/exports     Custom directory
//   rigrun-export save chat.json --wrap --open   Fenced Markdown, then open it
//
// Every save is recorded in the export history (see "history").

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jeranaias/rigrun-export/internal/export"
	"github.com/jeranaias/rigrun-export/internal/storage"
)

// HandleSave handles the "save" command.
func HandleSave(args Args, env Env) error {
	return OutputJSON(env.Out, args.JSON, "save", func() (interface{}, error) {
		conv, messages, payload, err := buildPayload(args, env.Config)
		if err != nil {
			return nil, err
		}

		outDir := args.Out
		if outDir == "" {
			outDir = env.Config.Export.OutputDir
		}
		title := conv.Summary
		if title == "" {
			title = conv.ToModel().GetTitle()
		}

		files, err := export.SaveFiles(title, payload, export.SaveOptions{
			OutputDir:       outDir,
			OpenAfterExport: args.Open || env.Config.Export.OpenAfterExport,
		})
		if err != nil {
			return nil, NewCommandError("save", "write", "could not write export files", err)
		}

		if err := recordHistory(env, conv.ID, len(messages), files); err != nil {
			fmt.Fprintf(env.Err, "Warning: export history not updated: %v\n", err)
		}

		data := SaveData{
			ConversationID: conv.ID,
			Messages:       len(messages),
			JSONPath:       files.JSONPath,
			MarkdownPath:   files.MarkdownPath,
		}
		if !args.JSON {
			fmt.Fprintf(env.Out, "%s Saved %d messages\n", render(SuccessStyle, "[OK]"), data.Messages)
			fmt.Fprintf(env.Out, "  %s%s\n", RenderLabel("JSON:"), data.JSONPath)
			fmt.Fprintf(env.Out, "  %s%s\n", RenderLabel("Markdown:"), data.MarkdownPath)
		}
		return data, nil
	})
}

// recordHistory appends the saved files to the export history database.
func recordHistory(env Env, conversationID string, messages int, files export.SavedFiles) error {
	path, err := env.Config.HistoryPath()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	history, err := storage.OpenHistory(ctx, path)
	if err != nil {
		return err
	}
	defer history.Close()

	return history.RecordFiles(ctx, conversationID, messages, map[string]string{
		"json":     files.JSONPath,
		"markdown": files.MarkdownPath,
	})
}
