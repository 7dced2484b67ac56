// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export_test

import (
	"fmt"

	"github.com/jeranaias/rigrun-export/internal/export"
	"github.com/jeranaias/rigrun-export/internal/model"
)

func ExampleBuild() {
	conv := model.NewConversation()
	conv.AddUserMessage("hi")
	conv.AddAssistantMessage("hello")

	p := export.Build(conv.Messages(), export.Labels{User: "User", Other: "AI"}, nil)
	fmt.Println(p.MarkdownBlock)
	// Output:
	// ## User
	//
	// hi
	//
	// ## AI
	//
	// hello
}

func ExampleMarkdownFence() {
	fmt.Println(export.MarkdownFence("## User\n\nhi"))
	// Output:
	// ```markdown
	// ## User
	//
	// hi
	// ```
}
