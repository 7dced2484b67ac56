// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for
// rigrun-export.
//
// Configuration file locations (in order of precedence):
//   - ~/.rigrun-export/config.toml
//   - ~/.rigrun-export/config.json (comments allowed)
//   - ~/.rigrun-export/config.yaml
//   - Built-in defaults
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/rigrun-export/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete rigrun-export configuration.
type Config struct {
	// Locale selects the UI catalog. Empty derives it from LC_ALL/LANG.
	Locale string `toml:"locale" json:"locale" yaml:"locale"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui" yaml:"ui"`

	// Export configuration
	Export ExportConfig `toml:"export" json:"export" yaml:"export"`

	// Storage configuration
	Storage StorageConfig `toml:"storage" json:"storage" yaml:"storage"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme" json:"theme" yaml:"theme"`
	// CompactWidth is the terminal width below which the layout is compact.
	CompactWidth int `toml:"compact_width" json:"compact_width" yaml:"compact_width"`
	// Compact forces the compact probe: "", "true" or "false".
	Compact string `toml:"compact" json:"compact" yaml:"compact"`
}

// ExportConfig contains export dialog configuration.
type ExportConfig struct {
	// OutputDir is where saved exports are written.
	OutputDir string `toml:"output_dir" json:"output_dir" yaml:"output_dir"`
	// OpenAfterExport opens the saved Markdown file.
	OpenAfterExport bool `toml:"open_after_export" json:"open_after_export" yaml:"open_after_export"`
	// WrapMarkdown wraps the transcript in a markdown fence by default.
	WrapMarkdown bool `toml:"wrap_markdown" json:"wrap_markdown" yaml:"wrap_markdown"`
}

// StorageConfig contains conversation storage configuration.
type StorageConfig struct {
	// Dir holds saved conversations. Empty means ~/.rigrun-export/conversations.
	Dir string `toml:"dir" json:"dir" yaml:"dir"`
	// MaxConversations caps the number of stored conversations.
	MaxConversations int `toml:"max_conversations" json:"max_conversations" yaml:"max_conversations"`
	// HistoryDB is the export history database. Empty means ~/.rigrun-export/history.db.
	HistoryDB string `toml:"history_db" json:"history_db" yaml:"history_db"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Locale: "",

		UI: UIConfig{
			Theme:        "dark",
			CompactWidth: 80,
			Compact:      "",
		},

		Export: ExportConfig{
			OutputDir:       "./exports",
			OpenAfterExport: false,
			WrapMarkdown:    false,
		},

		Storage: StorageConfig{
			Dir:              "",
			MaxConversations: 100,
			HistoryDB:        "",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the rigrun-export configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".rigrun-export"), nil
}

func configPath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) { return configPath("config.toml") }

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) { return configPath("config.json") }

// ConfigPathYAML returns the path to the YAML config file.
func ConfigPathYAML() (string, error) { return configPath("config.yaml") }

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// StorageDir returns the resolved conversation directory.
func (c *Config) StorageDir() (string, error) {
	if c.Storage.Dir != "" {
		return c.Storage.Dir, nil
	}
	return configPath("conversations")
}

// HistoryPath returns the resolved export history database path.
func (c *Config) HistoryPath() (string, error) {
	if c.Storage.HistoryDB != "" {
		return c.Storage.HistoryDB, nil
	}
	return configPath("history.db")
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// loader decodes one config format into cfg.
type loader struct {
	path func() (string, error)
	load func(cfg *Config, path string) error
	name string
}

var loaders = []loader{
	{ConfigPathTOML, LoadTOML, "TOML"},
	{ConfigPathJSON, LoadJSON, "JSON"},
	{ConfigPathYAML, LoadYAML, "YAML"},
}

// Load loads configuration from the config file(s).
// Tries TOML, then JSON, then YAML, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	var loadErr error

	for _, l := range loaders {
		path, err := l.path()
		if err != nil {
			continue
		}
		if _, statErr := os.Stat(path); statErr != nil {
			continue
		}

		cfg := Default()
		if err := l.load(cfg, path); err != nil {
			loadErr = fmt.Errorf("failed to load %s config: %w", l.name, err)
			continue
		}
		if err := cfg.finish(); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	cfg := Default()
	if err := cfg.finish(); err != nil {
		return nil, err
	}

	// Return defaults (with any load error for informational purposes)
	return cfg, loadErr
}

// finish applies env overrides, migration, defaults and validation.
func (c *Config) finish() error {
	c.ApplyEnvOverrides()
	if err := c.Migrate(); err != nil {
		return fmt.Errorf("config migration failed: %w", err)
	}
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON loads configuration from a JSON file. Comments and trailing
// commas are allowed.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(jsonc.ToJSON(data), cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// LoadYAML loads configuration from a YAML file.
func LoadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read YAML file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode YAML file: %w", err)
	}
	return nil
}

// LoadFromPath loads configuration from a specific file path with full
// validation. The format follows the file extension; anything else is TOML.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		err = LoadJSON(cfg, path)
	case ".yaml", ".yml":
		err = LoadYAML(cfg, path)
	default:
		err = LoadTOML(cfg, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file with a header comment.
func SaveTOML(cfg *Config, path string) error {
	var b strings.Builder
	b.WriteString("# rigrun-export configuration file\n")
	b.WriteString("# Generated by rigrun-export - edit with care\n")
	b.WriteString("\n")

	if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON saves the configuration to a JSON file.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	if c.UI.CompactWidth < 20 || c.UI.CompactWidth > 1000 {
		errs = append(errs, ValidationError{
			Field:   "ui.compact_width",
			Message: fmt.Sprintf("compact_width %d out of range (20-1000)", c.UI.CompactWidth),
		})
	}

	switch strings.ToLower(c.UI.Compact) {
	case "", "true", "false":
	default:
		errs = append(errs, ValidationError{
			Field:   "ui.compact",
			Message: fmt.Sprintf("invalid value '%s', must be empty, true or false", c.UI.Compact),
		})
	}

	if strings.TrimSpace(c.Export.OutputDir) == "" {
		errs = append(errs, ValidationError{
			Field:   "export.output_dir",
			Message: "output_dir cannot be empty",
		})
	}

	if c.Storage.MaxConversations < 1 {
		errs = append(errs, ValidationError{
			Field:   "storage.max_conversations",
			Message: "max_conversations must be at least 1",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults sets default values for any missing or zero-value configuration fields.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.UI.CompactWidth == 0 {
		c.UI.CompactWidth = defaults.UI.CompactWidth
	}
	if c.Export.OutputDir == "" {
		c.Export.OutputDir = defaults.Export.OutputDir
	}
	if c.Storage.MaxConversations == 0 {
		c.Storage.MaxConversations = defaults.Storage.MaxConversations
	}
}

// Migrate normalizes older spellings of config values.
func (c *Config) Migrate() error {
	c.UI.Theme = strings.ToLower(strings.TrimSpace(c.UI.Theme))

	switch strings.ToLower(strings.TrimSpace(c.UI.Compact)) {
	case "1", "yes", "on":
		c.UI.Compact = "true"
	case "0", "no", "off":
		c.UI.Compact = "false"
	default:
		c.UI.Compact = strings.ToLower(strings.TrimSpace(c.UI.Compact))
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - RIGRUN_LOCALE: overrides locale
//   - RIGRUN_THEME: overrides ui.theme
//   - RIGRUN_COMPACT: overrides ui.compact
//   - RIGRUN_EXPORT_DIR: overrides export.output_dir
//   - RIGRUN_STORAGE_DIR: overrides storage.dir
func (c *Config) ApplyEnvOverrides() {
	if locale := os.Getenv("RIGRUN_LOCALE"); locale != "" {
		c.Locale = locale
	}
	if theme := os.Getenv("RIGRUN_THEME"); theme != "" {
		c.UI.Theme = theme
	}
	if compact := os.Getenv("RIGRUN_COMPACT"); compact != "" {
		c.UI.Compact = compact
	}
	if dir := os.Getenv("RIGRUN_EXPORT_DIR"); dir != "" {
		c.Export.OutputDir = dir
	}
	if dir := os.Getenv("RIGRUN_STORAGE_DIR"); dir != "" {
		c.Storage.Dir = dir
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "ui.theme").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "ui.theme").
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}

	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Bool:
			boolVal := strVal == "1" || strings.ToLower(strVal) == "true" || strings.ToLower(strVal) == "yes"
			field.SetBool(boolVal)
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}

	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"locale",
		"ui.theme",
		"ui.compact_width",
		"ui.compact",
		"export.output_dir",
		"export.open_after_export",
		"export.wrap_markdown",
		"storage.dir",
		"storage.max_conversations",
		"storage.history_db",
	}
}

// Clone creates a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns the config as indented JSON for debugging.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		}
		if cfg == nil {
			cfg = Default()
		}
		globalConfigMu.Lock()
		globalConfig = cfg
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigOnce.Do(func() {})
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
