// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Config command implementation for rigrun-export.
//
// Command: config [subcommand]
// Short:   View and modify configuration
//
// Subcommands:
//   show (default)      Display the effective configuration
//   path                Show the configuration file path
//   init [--force]      Write a default config.toml
//   get <key>           Print one value
//   set <key> <value>   Change one value and save
//   keys                List settable keys
//
// Examples:
//   rigrun-export config set export.output_dir ~/exports
//   rigrun-export config set export.wrap_markdown true
//   rigrun-export config set locale zh
//   rigrun-export config get ui.theme --json

package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/rigrun-export/internal/config"
)

// HandleConfig handles the "config" command.
func HandleConfig(args Args, env Env) error {
	sub := args.Subcommand
	if sub == "" {
		sub = "show"
	}
	rest := []string{}
	if len(args.Positional) > 1 {
		rest = args.Positional[1:]
	}

	return OutputJSON(env.Out, args.JSON, "config "+sub, func() (interface{}, error) {
		switch sub {
		case "show":
			return handleConfigShow(args, env)
		case "path":
			return handleConfigPath(args, env)
		case "init":
			return handleConfigInit(args, env)
		case "get":
			if len(rest) < 1 {
				return nil, ErrMissingArgument("key", "rigrun-export config get ui.theme")
			}
			return handleConfigGet(args, env, rest[0])
		case "set":
			if len(rest) < 2 {
				return nil, ErrMissingArgument("key and value", "rigrun-export config set ui.theme light")
			}
			return handleConfigSet(args, env, rest[0], strings.Join(rest[1:], " "))
		case "keys":
			keys := config.GetAllKeys()
			if !args.JSON {
				for _, k := range keys {
					fmt.Fprintln(env.Out, k)
				}
			}
			return keys, nil
		default:
			return nil, ErrInvalidValue("subcommand", sub, "rigrun-export config show|path|init|get|set|keys")
		}
	})
}

func handleConfigShow(args Args, env Env) (interface{}, error) {
	if args.JSON {
		return env.Config, nil
	}

	fmt.Fprintln(env.Out, render(TitleStyle, "rigrun-export Configuration"))
	fmt.Fprintln(env.Out, RenderSeparator(41))
	if err := toml.NewEncoder(env.Out).Encode(env.Config); err != nil {
		return nil, NewCommandError("config", "show", "could not encode configuration", err)
	}
	fmt.Fprintln(env.Out, RenderSeparator(41))
	if path, err := env.configPath(); err == nil {
		fmt.Fprintf(env.Out, "Config file: %s\n", path)
	}
	return env.Config, nil
}

func handleConfigPath(args Args, env Env) (interface{}, error) {
	path, err := env.configPath()
	if err != nil {
		return nil, NewCommandError("config", "path", "cannot resolve config path", err)
	}
	if !args.JSON {
		fmt.Fprintln(env.Out, path)
		if _, err := os.Stat(path); err != nil {
			fmt.Fprintf(env.Err, "%s (file does not exist - run \"config init\" to create it)\n",
				render(DimStyle, path))
		}
	}
	return ConfigPathData{Path: path}, nil
}

func handleConfigInit(args Args, env Env) (interface{}, error) {
	path, err := env.configPath()
	if err != nil {
		return nil, NewCommandError("config", "init", "cannot resolve config path", err)
	}
	if _, err := os.Stat(path); err == nil && !args.Force {
		return nil, NewCommandError("config", "init", "file exists (use --force to overwrite)", errors.New(path))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, NewCommandError("config", "init", "could not create config directory", err)
	}
	if err := config.SaveTOML(config.Default(), path); err != nil {
		return nil, NewCommandError("config", "init", "could not write config file", err)
	}

	if !args.JSON {
		fmt.Fprintf(env.Out, "%s Wrote default configuration\n", render(SuccessStyle, "[OK]"))
		fmt.Fprintf(env.Out, "Config file: %s\n", path)
	}
	return ConfigPathData{Path: path, Created: true}, nil
}

func handleConfigGet(args Args, env Env, key string) (interface{}, error) {
	value, err := env.Config.Get(key)
	if err != nil {
		return nil, ErrInvalidValue("key", key, strings.Join(config.GetAllKeys(), ", "))
	}
	if !args.JSON {
		fmt.Fprintf(env.Out, "%v\n", value)
	}
	return ConfigValueData{Key: key, Value: value}, nil
}

// handleConfigSet edits the config file on disk, not the merged effective
// configuration, so environment overrides are never persisted.
func handleConfigSet(args Args, env Env, key, value string) (interface{}, error) {
	path, err := env.configPath()
	if err != nil {
		return nil, NewCommandError("config", "set", "cannot resolve config path", err)
	}

	cfg := config.Default()
	if err := config.LoadTOML(cfg, path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, NewCommandError("config", "set", "could not load config file", err)
	}
	cfg.SetDefaults()

	if err := cfg.Set(key, value); err != nil {
		return nil, ErrInvalidValue("key", key, strings.Join(config.GetAllKeys(), ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, &ValidationError{Field: key, Value: value, Reason: err.Error()}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, NewCommandError("config", "set", "could not create config directory", err)
	}
	if err := config.SaveTOML(cfg, path); err != nil {
		return nil, NewCommandError("config", "set", "could not write config file", err)
	}

	_ = env.Config.Set(key, value)

	stored, _ := cfg.Get(key)
	if !args.JSON {
		fmt.Fprintf(env.Out, "%s %s = %v\n", render(SuccessStyle, "[OK]"), key, stored)
	}
	return ConfigValueData{Key: key, Value: stored}, nil
}
