// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		locale string
		want   language.Tag
	}{
		{"en_US.UTF-8", language.English},
		{"zh_CN.UTF-8", language.SimplifiedChinese},
		{"zh-Hans", language.SimplifiedChinese},
		{"ru_RU", language.Russian},
		{"de_DE", language.English},
		{"not a locale!!", language.English},
		{"", language.English},
	}

	for _, tc := range tests {
		t.Run(tc.locale, func(t *testing.T) {
			assert.Equal(t, tc.want, Match(tc.locale))
		})
	}
}

func TestNormalizeLocale(t *testing.T) {
	assert.Equal(t, "zh-CN", normalizeLocale("zh_CN.UTF-8"))
	assert.Equal(t, "sr-RS", normalizeLocale("sr_RS@latin"))
	assert.Equal(t, "en", normalizeLocale("en"))
}

func TestCatalog_AllLocalesHaveExportKeys(t *testing.T) {
	keys := []string{
		KeyUserSays, KeyAISays, KeyTitle, KeyDescription, KeyTrigger,
		KeyModeInput, KeyModeSplit, KeyModePreview,
		KeyCopied, KeySaved, KeyFailed, KeyHint,
		KeyPlaceholder, KeyEmpty, KeyChatSaved, KeyChatReloaded,
	}

	for tag := range catalogFiles {
		t.Run(tag.String(), func(t *testing.T) {
			messages, err := loadCatalog(tag)
			require.NoError(t, err)
			for _, key := range keys {
				assert.NotEmpty(t, messages[key], "missing %s", key)
			}
		})
	}
}

func TestCatalog_T(t *testing.T) {
	cat, err := New("zh_CN")
	require.NoError(t, err)
	assert.Equal(t, language.SimplifiedChinese, cat.Tag())
	assert.Equal(t, "用户", cat.T(KeyUserSays))

	// Missing keys come back verbatim.
	assert.Equal(t, "export.nope", cat.T("export.nope"))
	assert.Equal(t, "export.nope", cat.T("export.nope"))
}

func TestCatalog_FallsBackToEnglish(t *testing.T) {
	cat, err := New("ru")
	require.NoError(t, err)

	delete(cat.messages, KeyTitle)
	assert.Equal(t, "Export conversation", cat.T(KeyTitle))
}

func TestDetectLocale(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "ru_RU.UTF-8")
	assert.Equal(t, "ru_RU.UTF-8", DetectLocale())

	t.Setenv("LC_ALL", "C")
	assert.Equal(t, "ru_RU.UTF-8", DetectLocale())

	t.Setenv("LANG", "")
	assert.Equal(t, "en", DetectLocale())
}

func TestMapAndLookup(t *testing.T) {
	m := Map{"a": "A"}
	assert.Equal(t, "A", m.T("a"))
	assert.Equal(t, "b", m.T("b"))
	assert.Equal(t, "a", Lookup(nil, "a"))
	assert.Equal(t, "A", Lookup(m, "a"))
}
