// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the non-interactive commands of rigrun-export.
//
// # Commands
//
//   - print: write the JSON and/or Markdown export of a conversation to stdout
//   - save: write the export as .json and .md files and record it in history
//   - list: list stored conversations
//   - history: show recorded exports
//   - config: show, initialize and edit the configuration
//   - version: print build information
//
// The TUI is the default command and is started by main.
//
// # Usage
//
//	cmd, args, err := cli.Parse(os.Args[1:])
//	if err != nil {
//	    cli.DisplayError(os.Stderr, err, args.JSON)
//	    os.Exit(cli.GetExitCode(err))
//	}
//	if err := cli.Run(cmd, args, cli.Env{}); err != nil {
//	    os.Exit(cli.GetExitCode(err))
//	}
//
// # JSON Output
//
// With --json every command prints one JSONResponse envelope:
//
//	{"success": true, "data": {...}, "error": null, "timestamp": "...", "command": "save"}
//
// # Exit Codes
//
//   - 0: success
//   - 1: general error
//   - 2: invalid usage
//   - 3: configuration error
//   - 7: conversation or file not found
package cli
