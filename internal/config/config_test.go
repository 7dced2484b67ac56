// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// isolateHome points the config directory at a fresh temp dir and clears
// the env overrides.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	for _, name := range []string{
		"RIGRUN_LOCALE", "RIGRUN_THEME", "RIGRUN_COMPACT",
		"RIGRUN_EXPORT_DIR", "RIGRUN_STORAGE_DIR",
	} {
		t.Setenv(name, "")
	}
	return home
}

func writeConfigFile(t *testing.T, home, name, content string) {
	t.Helper()
	dir := filepath.Join(home, ".rigrun-export")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}

// TestConfig_ConcurrentAccess tests that Global() and SetGlobal() can be
// called concurrently.
// Run with: go test -race -v ./internal/config/
func TestConfig_ConcurrentAccess(t *testing.T) {
	isolateHome(t)
	ResetGlobalForTesting()
	defer ResetGlobalForTesting()

	var wg sync.WaitGroup

	// 50 writers using SetGlobal, 50 readers using Global
	for i := 0; i < 50; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()
			c := Default()
			c.Locale = "zh"
			SetGlobal(c)
		}()

		go func() {
			defer wg.Done()
			if Global() == nil {
				t.Error("Global() returned nil")
			}
		}()
	}

	wg.Wait()
}

func TestConfig_GlobalInitialization(t *testing.T) {
	isolateHome(t)
	ResetGlobalForTesting()
	defer ResetGlobalForTesting()

	cfg := Global()
	if cfg == nil {
		t.Fatal("Global() returned nil")
	}
	if cfg != Global() {
		t.Error("Global() should return the same instance")
	}
	if cfg.UI.Theme != "dark" {
		t.Errorf("expected default theme 'dark', got %q", cfg.UI.Theme)
	}
}

func TestConfig_SetGlobalOverwrites(t *testing.T) {
	isolateHome(t)
	ResetGlobalForTesting()
	defer ResetGlobalForTesting()

	custom := Default()
	custom.Locale = "ru"
	SetGlobal(custom)

	if got := Global(); got.Locale != "ru" {
		t.Errorf("expected SetGlobal config, got locale %q", got.Locale)
	}
}

func TestConfig_Default(t *testing.T) {
	cfg := Default()

	if cfg.UI.CompactWidth != 80 {
		t.Errorf("expected compact_width 80, got %d", cfg.UI.CompactWidth)
	}
	if cfg.Export.OutputDir != "./exports" {
		t.Errorf("expected output_dir ./exports, got %q", cfg.Export.OutputDir)
	}
	if cfg.Storage.MaxConversations != 100 {
		t.Errorf("expected max_conversations 100, got %d", cfg.Storage.MaxConversations)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		field   string
		wantErr bool
	}{
		{"valid default config", func(c *Config) {}, "", false},
		{"invalid theme", func(c *Config) { c.UI.Theme = "neon" }, "ui.theme", true},
		{"auto theme", func(c *Config) { c.UI.Theme = "auto" }, "", false},
		{"compact width too small", func(c *Config) { c.UI.CompactWidth = 5 }, "ui.compact_width", true},
		{"compact forced", func(c *Config) { c.UI.Compact = "true" }, "", false},
		{"compact garbage", func(c *Config) { c.UI.Compact = "maybe" }, "ui.compact", true},
		{"empty output dir", func(c *Config) { c.Export.OutputDir = " " }, "export.output_dir", true},
		{"zero max conversations", func(c *Config) { c.Storage.MaxConversations = 0 }, "storage.max_conversations", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			var verrs ValidateErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidateErrors, got %T", err)
			}
			if verrs[0].Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, verrs[0].Field)
			}
		})
	}
}

func TestLoad_DefaultsWithoutFiles(t *testing.T) {
	isolateHome(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.UI.Theme != "dark" {
		t.Errorf("expected default theme, got %q", cfg.UI.Theme)
	}
}

func TestLoad_TOMLFirst(t *testing.T) {
	home := isolateHome(t)
	writeConfigFile(t, home, "config.toml", "locale = \"zh\"\n[ui]\ntheme = \"light\"\n")
	writeConfigFile(t, home, "config.json", `{"locale": "ru"}`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Locale != "zh" || cfg.UI.Theme != "light" {
		t.Errorf("expected TOML values, got locale=%q theme=%q", cfg.Locale, cfg.UI.Theme)
	}
	// Unset fields keep their defaults.
	if cfg.Storage.MaxConversations != 100 {
		t.Errorf("expected default max_conversations, got %d", cfg.Storage.MaxConversations)
	}
}

func TestLoad_JSONWithComments(t *testing.T) {
	home := isolateHome(t)
	writeConfigFile(t, home, "config.json", `{
		// shown in Russian
		"locale": "ru",
		"export": {"wrap_markdown": true,},
	}`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Locale != "ru" || !cfg.Export.WrapMarkdown {
		t.Errorf("expected JSON values, got locale=%q wrap=%v", cfg.Locale, cfg.Export.WrapMarkdown)
	}
}

func TestLoad_YAML(t *testing.T) {
	home := isolateHome(t)
	writeConfigFile(t, home, "config.yaml", "ui:\n  compact: \"yes\"\nstorage:\n  max_conversations: 7\n")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.UI.Compact != "true" {
		t.Errorf("expected compact migrated to 'true', got %q", cfg.UI.Compact)
	}
	if cfg.Storage.MaxConversations != 7 {
		t.Errorf("expected max_conversations 7, got %d", cfg.Storage.MaxConversations)
	}
}

func TestLoad_BrokenFileFallsBack(t *testing.T) {
	home := isolateHome(t)
	writeConfigFile(t, home, "config.toml", "this is = = not toml")

	cfg, err := Load()
	if err == nil {
		t.Error("expected a load error to be reported")
	}
	if cfg == nil || cfg.UI.Theme != "dark" {
		t.Fatal("expected defaults alongside the load error")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	home := isolateHome(t)
	writeConfigFile(t, home, "config.toml", "[ui]\ntheme = \"light\"\n")
	t.Setenv("RIGRUN_THEME", "auto")
	t.Setenv("RIGRUN_LOCALE", "zh_CN.UTF-8")
	t.Setenv("RIGRUN_EXPORT_DIR", "/tmp/out")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.UI.Theme != "auto" {
		t.Errorf("expected env theme, got %q", cfg.UI.Theme)
	}
	if cfg.Locale != "zh_CN.UTF-8" {
		t.Errorf("expected env locale, got %q", cfg.Locale)
	}
	if cfg.Export.OutputDir != "/tmp/out" {
		t.Errorf("expected env output dir, got %q", cfg.Export.OutputDir)
	}
}

func TestLoad_InvalidValueFails(t *testing.T) {
	home := isolateHome(t)
	writeConfigFile(t, home, "config.toml", "[ui]\ntheme = \"neon\"\n")

	if _, err := Load(); err == nil {
		t.Error("expected invalid theme to fail Load()")
	}
}

func TestSaveTOML_RoundTrip(t *testing.T) {
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.Locale = "ru"
	cfg.Export.OpenAfterExport = true
	if err := SaveTOML(cfg, path); err != nil {
		t.Fatalf("SaveTOML() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# rigrun-export configuration file") {
		t.Error("expected header comment")
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if loaded.Locale != "ru" || !loaded.Export.OpenAfterExport {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}

func TestConfig_ResolvedPaths(t *testing.T) {
	home := isolateHome(t)

	cfg := Default()
	dir, err := cfg.StorageDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join(home, ".rigrun-export", "conversations") {
		t.Errorf("unexpected storage dir %q", dir)
	}

	cfg.Storage.HistoryDB = "/var/lib/history.db"
	db, _ := cfg.HistoryPath()
	if db != "/var/lib/history.db" {
		t.Errorf("explicit history path not honoured: %q", db)
	}
}

func TestConfig_GetSet(t *testing.T) {
	cfg := Default()

	val, err := cfg.Get("ui.theme")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if val != "dark" {
		t.Errorf("Get('ui.theme') = %v, want 'dark'", val)
	}

	if err := cfg.Set("storage.max_conversations", "25"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if cfg.Storage.MaxConversations != 25 {
		t.Errorf("Set did not apply, got %d", cfg.Storage.MaxConversations)
	}

	if err := cfg.Set("export.wrap_markdown", "yes"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if !cfg.Export.WrapMarkdown {
		t.Error("expected wrap_markdown true")
	}

	if _, err := cfg.Get("invalid.key"); err == nil {
		t.Error("Get() with invalid key should return error")
	}
	if _, err := cfg.Get("locale.inner"); err == nil {
		t.Error("Get() through a non-struct should return error")
	}
}

func TestGetAllKeys_Resolve(t *testing.T) {
	cfg := Default()
	for _, key := range GetAllKeys() {
		if _, err := cfg.Get(key); err != nil {
			t.Errorf("key %s does not resolve: %v", key, err)
		}
	}
}

func TestConfig_Clone(t *testing.T) {
	original := Default()
	clone := original.Clone()
	clone.Locale = "zh"

	if original.Locale != "" {
		t.Error("Clone should create an independent copy")
	}
}
