// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// print_cmd.go - Print the export payload of a conversation.
//
// Command: print (--file PATH | --id ID)
// Short:   Print the JSON and/or Markdown export
// Aliases: p, show
//
// Examples:
//   rigrun-export print chat.json                  Both blocks
//   rigrun-export print -f chat.json --format json JSON block only
//   rigrun-export print --id abc --format markdown --wrap
//   rigrun-export print chat.json --raw            JSON without its fence
//   rigrun-export print chat.json --json           JSON envelope
//
// Output is syntax highlighted when stdout is a color terminal.

package cli

import (
	"fmt"
	"strings"

	"github.com/jeranaias/rigrun-export/internal/export"
	"github.com/jeranaias/rigrun-export/internal/ui/components"
)

// HandlePrint handles the "print" command.
func HandlePrint(args Args, env Env) error {
	return OutputJSON(env.Out, args.JSON, "print", func() (interface{}, error) {
		_, messages, payload, err := buildPayload(args, env.Config)
		if err != nil {
			return nil, err
		}

		jsonText := payload.JSONBlock
		if args.RawJSON {
			if _, raw, ok := export.Unfence(jsonText); ok {
				jsonText = raw
			}
		}

		data := PrintData{Messages: len(messages)}
		if args.Format != "markdown" {
			data.JSON = jsonText
		}
		if args.Format != "json" {
			data.Markdown = payload.MarkdownBlock
		}

		if !args.JSON {
			fmt.Fprint(env.Out, renderPrint(data, args.RawJSON))
		}
		return data, nil
	})
}

// renderPrint highlights the selected blocks for the terminal.
func renderPrint(data PrintData, raw bool) string {
	profile := GetColorProfile()
	dark := true

	var parts []string
	if data.JSON != "" {
		if raw {
			parts = append(parts, components.HighlightJSON(data.JSON, profile, dark))
		} else {
			parts = append(parts, components.HighlightCode(data.JSON, "markdown", profile, dark))
		}
	}
	if data.Markdown != "" {
		parts = append(parts, components.HighlightCode(data.Markdown, "markdown", profile, dark))
	}
	return strings.Join(parts, "\n\n") + "\n"
}
