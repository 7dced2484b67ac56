// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export turns a conversation into copyable text.
//
// The transform is pure: given the ordered messages, the two role labels
// and an optional formatter it yields a Payload with a fenced JSON block
// and a Markdown transcript. Nothing here touches the terminal; the export
// dialog in ui/components renders the payload and SaveFiles writes it out.
//
// # Key Types
//
//   - Payload: the JSON block and the Markdown block
//   - Labels: role headings, usually resolved through i18n
//   - Formatter: optional post-processing of the Markdown block
//   - Memo: single-entry cache keyed on message revision and formatter
//
// # Usage
//
//	labels := export.LabelsFrom(translator)
//	p := export.Build(conv.Messages(), labels, export.MarkdownFence)
//	fmt.Println(p.JSONBlock)
//
// Save both blocks next to each other:
//
//	files, err := export.SaveFiles(conv.GetTitle(), p, export.SaveOptions{
//	    OutputDir: "./exports",
//	})
package export
