// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// env.go - Shared state and conversation loading for CLI commands.

package cli

import (
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/jeranaias/rigrun-export/internal/config"
	"github.com/jeranaias/rigrun-export/internal/export"
	"github.com/jeranaias/rigrun-export/internal/i18n"
	"github.com/jeranaias/rigrun-export/internal/model"
	"github.com/jeranaias/rigrun-export/internal/storage"
)

// Env carries what every handler needs. Zero fields are filled by Defaults.
type Env struct {
	Config *config.Config
	Out    io.Writer
	Err    io.Writer

	// ConfigPath is the file written by config init and config set.
	// Empty means config.ConfigPathTOML.
	ConfigPath string
}

// Defaults fills unset fields from the process environment.
func (e Env) Defaults() Env {
	if e.Config == nil {
		e.Config = config.Global()
	}
	if e.Out == nil {
		e.Out = os.Stdout
	}
	if e.Err == nil {
		e.Err = os.Stderr
	}
	return e
}

func (e Env) configPath() (string, error) {
	if e.ConfigPath != "" {
		return e.ConfigPath, nil
	}
	return config.ConfigPathTOML()
}

// Run dispatches a parsed command. The TUI is started by main, not here.
func Run(cmd Command, args Args, env Env) error {
	env = env.Defaults()

	switch cmd {
	case CmdPrint:
		return HandlePrint(args, env)
	case CmdSave:
		return HandleSave(args, env)
	case CmdList:
		return HandleList(args, env)
	case CmdHistory:
		return HandleHistory(args, env)
	case CmdConfig:
		return HandleConfig(args, env)
	case CmdVersion:
		return HandleVersion(args, env)
	default:
		PrintUsage(env.Out)
		return nil
	}
}

// =============================================================================
// CONVERSATION SOURCES
// =============================================================================

// OpenStore opens the conversation store configured in cfg.
func OpenStore(cfg *config.Config) (*storage.ConversationStore, error) {
	dir, err := cfg.StorageDir()
	if err != nil {
		return nil, NewCommandError("storage", "open", "cannot resolve storage directory", err)
	}
	store, err := storage.NewConversationStoreWithDir(dir)
	if err != nil {
		return nil, NewCommandError("storage", "open", dir, err)
	}
	store.MaxConversations = cfg.Storage.MaxConversations
	return store, nil
}

// LoadConversation resolves --file or --id to a conversation.
func LoadConversation(args Args, cfg *config.Config) (*storage.StoredConversation, error) {
	if args.File != "" {
		conv, err := storage.LoadFile(args.File)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, ErrNotFound("file", args.File)
			}
			return nil, WrapError(err, "load "+args.File)
		}
		return conv, nil
	}

	store, err := OpenStore(cfg)
	if err != nil {
		return nil, err
	}
	conv, err := store.Load(args.ID)
	if err != nil {
		if errors.Is(err, storage.ErrConversationNotFound) {
			return nil, ErrNotFound("conversation", args.ID)
		}
		return nil, WrapError(err, "load conversation "+args.ID)
	}
	return conv, nil
}

// translator picks --locale, then the configured locale.
func translator(args Args, cfg *config.Config) (i18n.Translator, error) {
	locale := args.Locale
	if locale == "" {
		locale = cfg.Locale
	}
	catalog, err := i18n.New(locale)
	if err != nil {
		return nil, WrapError(err, "load locale catalog")
	}
	return catalog, nil
}

// formatter returns the Markdown formatter selected by --wrap or config.
func formatter(args Args, cfg *config.Config) export.Formatter {
	if args.Wrap || cfg.Export.WrapMarkdown {
		return export.MarkdownFence
	}
	return nil
}

// buildPayload loads the conversation and derives its export.
func buildPayload(args Args, cfg *config.Config) (*storage.StoredConversation, []model.Message, export.Payload, error) {
	conv, err := LoadConversation(args, cfg)
	if err != nil {
		return nil, nil, export.Payload{}, err
	}
	t, err := translator(args, cfg)
	if err != nil {
		return nil, nil, export.Payload{}, err
	}
	messages := conv.ModelMessages()
	return conv, messages, export.Build(messages, export.LabelsFrom(t), formatter(args, cfg)), nil
}
