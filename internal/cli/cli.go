// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
)

// Version information (set by main at build time)
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdPrint
	CmdSave
	CmdList
	CmdHistory
	CmdConfig
	CmdVersion
	CmdHelp
)

// String returns the command name as typed on the command line.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdPrint:
		return "print"
	case CmdSave:
		return "save"
	case CmdList:
		return "list"
	case CmdHistory:
		return "history"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	default:
		return "help"
	}
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	JSON   bool
	Locale string

	// Conversation source
	File string
	ID   string

	// print / save
	Format  string // "json", "markdown" or "both"
	Wrap    bool   // fence the Markdown block
	RawJSON bool   // print the JSON without its fence
	Out     string
	Open    bool

	// tui
	Theme   string
	Compact string

	// list / history
	Search       string
	Limit        int
	Conversation string

	// config
	Subcommand string
	Force      bool

	// Positional holds arguments left after the command and its flags.
	Positional []string
}

const usageText = `rigrun-export - export conversations as JSON and Markdown

Usage:
  rigrun-export [tui] [--file PATH | --id ID]   Start the TUI (default)
  rigrun-export print (--file PATH | --id ID)   Print the export payload
  rigrun-export save (--file PATH | --id ID)    Write .json and .md files
  rigrun-export list [--search Q]               List stored conversations
  rigrun-export history [--limit N]             Show saved exports
  rigrun-export config [show|path|init|get|set] Manage configuration
  rigrun-export version                         Show version
  rigrun-export help                            Show this help

Print options:
  --format json|markdown|both   Which block to print (default both)
  --wrap                        Wrap the Markdown in a markdown fence
  --raw                         Print the JSON without its fence

Save options:
  -o, --out DIR                 Output directory (default export.output_dir)
  --open                        Open the Markdown file afterwards

Global options:
  --json                        Machine-readable output
  --locale L                    Heading language (en, zh, ru)

TUI keys:
  ctrl+e  export dialog      ctrl+o  fenced Markdown export
  ctrl+s  save conversation  ctrl+c  quit

Configuration: ~/.rigrun-export/config.toml (also config.json, config.yaml)

Version: %s
`

// PrintUsage writes the help text to w.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, Version)
}

// PrintVersion writes version information to w.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "rigrun-export version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
}

// =============================================================================
// PARSING
// =============================================================================

// Parse parses command-line arguments (without the program name). With no
// command, or one starting with "-", the TUI is selected.
func Parse(argv []string) (Command, Args, error) {
	if len(argv) > 0 && (argv[0] == "--version" || argv[0] == "-v") {
		argv = append([]string{"version"}, argv[1:]...)
	}

	cmd := CmdTUI
	if len(argv) > 0 && !strings.HasPrefix(argv[0], "-") {
		name := strings.ToLower(argv[0])
		argv = argv[1:]

		switch name {
		case "tui":
			cmd = CmdTUI
		case "print", "p", "show":
			cmd = CmdPrint
		case "save", "export":
			cmd = CmdSave
		case "list", "ls":
			cmd = CmdList
		case "history":
			cmd = CmdHistory
		case "config":
			cmd = CmdConfig
		case "version":
			cmd = CmdVersion
		case "help":
			cmd = CmdHelp
		default:
			return CmdHelp, Args{}, ErrInvalidValue("command", name, "rigrun-export help")
		}
	}

	args := Args{Format: "both", Limit: 20}
	fs := newFlagSet(cmd, &args)
	if err := fs.Parse(argv); err != nil {
		if err == pflag.ErrHelp {
			return CmdHelp, args, nil
		}
		return cmd, args, &ValidationError{Field: "flags", Reason: err.Error()}
	}
	args.Positional = fs.Args()

	if err := finishArgs(cmd, &args); err != nil {
		return cmd, args, err
	}
	return cmd, args, nil
}

// finishArgs applies positional arguments and validates combinations.
func finishArgs(cmd Command, args *Args) error {
	switch cmd {
	case CmdTUI, CmdPrint, CmdSave:
		if args.File == "" && args.ID == "" && len(args.Positional) > 0 {
			args.File = args.Positional[0]
		}
		if args.File != "" && args.ID != "" {
			return &ValidationError{Field: "source", Reason: "use either --file or --id, not both"}
		}
		if cmd != CmdTUI && args.File == "" && args.ID == "" {
			return ErrMissingArgument("source", "rigrun-export "+cmd.String()+" --file conversation.json")
		}
	case CmdConfig:
		if len(args.Positional) > 0 {
			args.Subcommand = strings.ToLower(args.Positional[0])
		} else {
			args.Subcommand = "show"
		}
	}

	if cmd == CmdPrint {
		switch args.Format {
		case "json", "markdown", "both":
		case "md":
			args.Format = "markdown"
		default:
			return ErrInvalidValue("format", args.Format, "--format json|markdown|both")
		}
	}
	if cmd == CmdHistory && args.Limit < 0 {
		return ErrInvalidValue("limit", fmt.Sprint(args.Limit), "--limit 20")
	}
	return nil
}

// newFlagSet registers the flags accepted by cmd. Flags a command does not
// use are rejected by pflag as unknown.
func newFlagSet(cmd Command, args *Args) *pflag.FlagSet {
	fs := pflag.NewFlagSet("rigrun-export "+cmd.String(), pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false

	fs.BoolVar(&args.JSON, "json", false, "machine-readable output")
	fs.StringVar(&args.Locale, "locale", "", "heading language")

	switch cmd {
	case CmdTUI, CmdPrint, CmdSave:
		fs.StringVarP(&args.File, "file", "f", "", "conversation file")
		fs.StringVar(&args.ID, "id", "", "stored conversation ID")
		fs.BoolVar(&args.Wrap, "wrap", false, "wrap the Markdown in a markdown fence")
	}

	switch cmd {
	case CmdTUI:
		fs.StringVar(&args.Theme, "theme", "", "dark, light or auto")
		fs.StringVar(&args.Compact, "compact", "", "force the compact layout: true or false")
	case CmdPrint:
		fs.StringVar(&args.Format, "format", "both", "json, markdown or both")
		fs.BoolVar(&args.RawJSON, "raw", false, "print the JSON without its fence")
	case CmdSave:
		fs.StringVarP(&args.Out, "out", "o", "", "output directory")
		fs.BoolVar(&args.Open, "open", false, "open the Markdown file afterwards")
	case CmdList:
		fs.StringVarP(&args.Search, "search", "s", "", "filter by summary or preview")
	case CmdHistory:
		fs.IntVarP(&args.Limit, "limit", "n", 20, "number of entries")
		fs.StringVar(&args.Conversation, "conversation", "", "only entries for this conversation")
	case CmdConfig:
		fs.BoolVar(&args.Force, "force", false, "overwrite an existing config file")
	}
	return fs
}

// HandleVersion handles the "version" command.
func HandleVersion(args Args, env Env) error {
	return OutputJSON(env.Out, args.JSON, "version", func() (interface{}, error) {
		if !args.JSON {
			PrintVersion(env.Out)
		}
		return VersionData{Version: Version, GitCommit: GitCommit, BuildDate: BuildDate}, nil
	})
}
