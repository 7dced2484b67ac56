// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Fence wraps body in a three-backtick code block tagged with lang.
// The body is not escaped.
func Fence(lang, body string) string {
	return "```" + lang + "\n" + body + "\n```"
}

var (
	markdownParser     goldmark.Markdown
	markdownParserOnce sync.Once
)

func parser() goldmark.Markdown {
	markdownParserOnce.Do(func() {
		markdownParser = goldmark.New()
	})
	return markdownParser
}

// Unfence extracts the language tag and body of the first fenced code
// block in block. ok is false when block does not start with a fence.
func Unfence(block string) (lang, body string, ok bool) {
	source := []byte(block)
	doc := parser().Parser().Parse(text.NewReader(source))

	fenced, isFenced := doc.FirstChild().(*ast.FencedCodeBlock)
	if !isFenced {
		return "", "", false
	}

	var buf bytes.Buffer
	lines := fenced.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		buf.Write(segment.Value(source))
	}

	return string(fenced.Language(source)), strings.TrimSuffix(buf.String(), "\n"), true
}
