// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for
// rigrun-export.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - UIConfig: Theme and compact layout settings
//   - ExportConfig: Where and how exports are saved
//   - StorageConfig: Conversation store and export history locations
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (RIGRUN_*)
//   - ~/.rigrun-export/config.toml
//   - ~/.rigrun-export/config.json
//   - ~/.rigrun-export/config.yaml
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	dir := cfg.Export.OutputDir
package config
