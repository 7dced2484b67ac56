// rigrun-export - Copy or save terminal conversations as JSON and Markdown.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/rigrun-export/internal/cli"
	"github.com/jeranaias/rigrun-export/internal/config"
	"github.com/jeranaias/rigrun-export/internal/detect"
	"github.com/jeranaias/rigrun-export/internal/i18n"
	"github.com/jeranaias/rigrun-export/internal/model"
	"github.com/jeranaias/rigrun-export/internal/storage"
	"github.com/jeranaias/rigrun-export/internal/ui/chat"
	"github.com/jeranaias/rigrun-export/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args, err := cli.Parse(os.Args[1:])
	if err != nil {
		cli.DisplayError(os.Stderr, err, args.JSON)
		os.Exit(cli.GetExitCode(err))
	}

	if cmd == cli.CmdTUI {
		err = runTUI(args)
	} else {
		err = cli.Run(cmd, args, cli.Env{})
	}
	if err != nil {
		// JSON mode already printed the error envelope to stdout.
		if !args.JSON {
			cli.DisplayError(os.Stderr, err, false)
		}
		os.Exit(cli.GetExitCode(err))
	}
}

// =============================================================================
// TUI
// =============================================================================

func runTUI(args cli.Args) error {
	closeLog, err := setupLogging()
	if err != nil {
		return err
	}
	defer closeLog()

	cfg := config.Global().Clone()
	if args.Theme != "" {
		cfg.UI.Theme = args.Theme
	}
	if args.Compact != "" {
		cfg.UI.Compact = args.Compact
	}
	if args.Locale != "" {
		cfg.Locale = args.Locale
	}
	if args.Wrap {
		cfg.Export.WrapMarkdown = true
	}
	if err := cfg.Validate(); err != nil {
		return cli.WrapError(err, "invalid config")
	}

	theme := styles.NewThemeFor(cfg.UI.Theme)
	theme.Apply()

	catalog, err := i18n.New(cfg.Locale)
	if err != nil {
		return cli.WrapError(err, "load locale catalog")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store, err := cli.OpenStore(cfg)
	if err != nil {
		return err
	}

	conv := model.NewConversation()
	if args.File != "" || args.ID != "" {
		stored, err := cli.LoadConversation(args, cfg)
		if err != nil {
			return err
		}
		conv = stored.ToModel()
	}

	opts := chat.Options{
		Conversation: conv,
		Translator:   catalog,
		Theme:        theme,
		Probe:        detect.Override(cfg.UI.Compact, detect.NewTerminalProbe(os.Stdout, cfg.UI.CompactWidth)),
		Export:       cfg.Export,
		Store:        store,
	}

	if historyPath, err := cfg.HistoryPath(); err == nil {
		history, err := storage.OpenHistory(ctx, historyPath)
		if err != nil {
			log.Printf("HISTORY_ERROR | op=open path=%s error=%v", historyPath, err)
		} else {
			defer history.Close()
			opts.History = history
		}
	}

	if args.File != "" {
		watcher, err := storage.NewWatcher(args.File, 0)
		if err != nil {
			log.Printf("WATCH_FAILED | path=%s error=%v", args.File, err)
		} else {
			defer watcher.Close()
			watcher.Start(ctx)
			opts.Watcher = watcher
		}
	}

	p := tea.NewProgram(
		chat.New(opts),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("error running rigrun-export: %w", err)
	}
	return nil
}

// setupLogging sends log output to a file when RIGRUN_DEBUG is set and
// discards it otherwise, so nothing is written over the TUI.
func setupLogging() (func(), error) {
	path := os.Getenv("RIGRUN_DEBUG")
	if path == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	if path == "1" || path == "true" {
		path = "rigrun-export-debug.log"
	}

	f, err := tea.LogToFile(path, "rigrun-export")
	if err != nil {
		return nil, fmt.Errorf("open debug log: %w", err)
	}
	return func() { f.Close() }, nil
}
