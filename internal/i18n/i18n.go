// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package i18n resolves UI strings from embedded TOML catalogs.
//
// Lookups never fail: a key missing from the active catalog falls back to
// English, and a key missing from English is returned verbatim.
package i18n

import (
	"embed"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localeFS embed.FS

// =============================================================================
// KEYS
// =============================================================================

const (
	KeyUserSays     = "export.user_says"
	KeyAISays       = "export.ai_says"
	KeyTitle        = "export.title"
	KeyDescription  = "export.description"
	KeyTrigger      = "export.text"
	KeyModeInput    = "export.mode_input"
	KeyModeSplit    = "export.mode_split"
	KeyModePreview  = "export.mode_preview"
	KeyCopied       = "export.copied"
	KeySaved        = "export.saved"
	KeyFailed       = "export.failed"
	KeyHint         = "export.hint"
	KeyPlaceholder  = "chat.placeholder"
	KeyEmpty        = "chat.empty"
	KeyChatSaved    = "chat.saved"
	KeyChatReloaded = "chat.reloaded"
)

// Translator resolves a message key to display text.
type Translator interface {
	T(key string) string
}

// =============================================================================
// CATALOG
// =============================================================================

// supported lists the shipped catalogs. The first entry is the fallback.
var supported = []language.Tag{
	language.English,
	language.SimplifiedChinese,
	language.Russian,
}

var catalogFiles = map[language.Tag]string{
	language.English:           "locales/en.toml",
	language.SimplifiedChinese: "locales/zh.toml",
	language.Russian:           "locales/ru.toml",
}

var matcher = language.NewMatcher(supported)

// Catalog is a Translator backed by one embedded locale plus English.
type Catalog struct {
	tag      language.Tag
	messages map[string]string
	fallback map[string]string

	mu      sync.Mutex
	missing map[string]bool
}

// New loads the catalog that best matches locale.
// An empty locale is resolved from the environment (see DetectLocale).
func New(locale string) (*Catalog, error) {
	if locale == "" {
		locale = DetectLocale()
	}
	tag := Match(locale)

	fallback, err := loadCatalog(language.English)
	if err != nil {
		return nil, err
	}

	messages := fallback
	if tag != language.English {
		messages, err = loadCatalog(tag)
		if err != nil {
			return nil, err
		}
	}

	return &Catalog{
		tag:      tag,
		messages: messages,
		fallback: fallback,
		missing:  make(map[string]bool),
	}, nil
}

// Tag returns the language of the active catalog.
func (c *Catalog) Tag() language.Tag {
	return c.tag
}

// T returns the text for key.
func (c *Catalog) T(key string) string {
	if s, ok := c.messages[key]; ok {
		return s
	}
	if s, ok := c.fallback[key]; ok {
		return s
	}

	c.mu.Lock()
	if !c.missing[key] {
		c.missing[key] = true
		log.Printf("I18N_MISSING | key=%s locale=%s", key, c.tag)
	}
	c.mu.Unlock()
	return key
}

// Map is a fixed Translator, handy for tests and embedding callers.
// Missing keys resolve to the key itself.
type Map map[string]string

// T implements Translator.
func (m Map) T(key string) string {
	if s, ok := m[key]; ok {
		return s
	}
	return key
}

// Lookup resolves key through t, tolerating a nil translator.
func Lookup(t Translator, key string) string {
	if t == nil {
		return key
	}
	return t.T(key)
}

// =============================================================================
// LOCALE DETECTION
// =============================================================================

// Match returns the supported language closest to locale.
// Unparseable or unsupported locales resolve to English.
func Match(locale string) language.Tag {
	tag, err := language.Parse(normalizeLocale(locale))
	if err != nil {
		return language.English
	}
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return language.English
	}
	return supported[index]
}

// DetectLocale reads the POSIX locale variables in priority order.
func DetectLocale() string {
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(name); v != "" && v != "C" && v != "POSIX" {
			return v
		}
	}
	return "en"
}

// normalizeLocale turns "zh_CN.UTF-8@pinyin" into "zh-CN".
func normalizeLocale(locale string) string {
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	return strings.ReplaceAll(locale, "_", "-")
}

// loadCatalog decodes an embedded catalog into flat "section.key" entries.
func loadCatalog(tag language.Tag) (map[string]string, error) {
	path, ok := catalogFiles[tag]
	if !ok {
		return nil, fmt.Errorf("no catalog for %s", tag)
	}
	data, err := localeFS.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	var sections map[string]map[string]string
	if _, err := toml.Decode(string(data), &sections); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}

	flat := make(map[string]string)
	for section, entries := range sections {
		for key, value := range entries {
			flat[section+"."+key] = value
		}
	}
	return flat, nil
}
