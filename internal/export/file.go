// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"log"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/jeranaias/rigrun-export/internal/util"
)

// =============================================================================
// SAVE OPTIONS
// =============================================================================

// SaveOptions configures SaveFiles.
type SaveOptions struct {
	// OutputDir is the directory where files will be saved.
	// Default: current working directory
	OutputDir string

	// OpenAfterExport opens the Markdown file in the default application.
	OpenAfterExport bool

	// Now stamps file names. Default: time.Now
	Now func() time.Time
}

// SavedFiles lists the files written by SaveFiles.
type SavedFiles struct {
	JSONPath     string
	MarkdownPath string
}

// =============================================================================
// SAVE
// =============================================================================

// SaveFiles writes the payload as a .json file (the JSON block without its
// fence) and a .md file (the Markdown block as shown in the preview).
func SaveFiles(title string, p Payload, opts SaveOptions) (SavedFiles, error) {
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	_, raw, ok := Unfence(p.JSONBlock)
	if !ok {
		return SavedFiles{}, fmt.Errorf("json block is not fenced")
	}

	base := fmt.Sprintf("conversation_%s_%s",
		util.SanitizeFilename(title),
		opts.Now().Format("20060102_150405"),
	)

	files := SavedFiles{
		JSONPath:     filepath.Join(opts.OutputDir, base+".json"),
		MarkdownPath: filepath.Join(opts.OutputDir, base+".md"),
	}

	if err := util.AtomicWriteFile(files.JSONPath, []byte(raw+"\n"), 0644); err != nil {
		return SavedFiles{}, fmt.Errorf("write json export: %w", err)
	}
	if err := util.AtomicWriteFile(files.MarkdownPath, []byte(p.MarkdownBlock+"\n"), 0644); err != nil {
		return SavedFiles{}, fmt.Errorf("write markdown export: %w", err)
	}

	log.Printf("EXPORT_SAVED | json=%s markdown=%s", files.JSONPath, files.MarkdownPath)

	if opts.OpenAfterExport {
		if err := openFile(files.MarkdownPath); err != nil {
			// Non-fatal: the files are on disk.
			log.Printf("EXPORT_OPEN_FAILED | path=%s error=%v", files.MarkdownPath, err)
		}
	}

	return files, nil
}

// openFile opens a file in the default application for the OS.
func openFile(path string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		// Empty quoted title so start does not treat the path as one.
		cmd = exec.Command("cmd", "/c", "start", `""`, path)
	case "darwin":
		cmd = exec.Command("open", path)
	case "linux":
		cmd = exec.Command("xdg-open", path)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
