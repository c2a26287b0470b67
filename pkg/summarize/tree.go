// Package summarize provides the directory-tree and symbol-listing collaborators used
// while assembling a prompt. Every implementation degrades to an empty string when it
// cannot produce output.
package summarize

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"promptmaker/pkg/toolexec"

	"go.uber.org/zap"
)

// CommandTree renders the project tree with the external `tree` program.
type CommandTree struct {
	Runner *toolexec.Runner
}

// RenderTree returns the output of `tree <root>`, or "" when the tool is unavailable.
func (t CommandTree) RenderTree(ctx context.Context, root string) string {
	out, err := runnerOrDefault(t.Runner).Run(ctx, "", "tree", root)
	if err != nil {
		return ""
	}
	return out
}

// NativeTree renders the project tree in-process using the same layout as `tree`:
// directories before files, names compared case-insensitively, hidden entries omitted.
type NativeTree struct {
	Logger *zap.Logger
}

// RenderTree returns the tree rooted at root followed by a directory/file count line.
func (t NativeTree) RenderTree(ctx context.Context, root string) string {
	logger := t.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		logger.Warn("Cannot render tree for path", zap.String("path", root), zap.Error(err))
		return ""
	}

	var counts treeCounts
	lines := []string{root}
	lines = append(lines, generateTreeRecursively(ctx, root, "", &counts, logger)...)

	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\n%s, %s\n",
		plural(counts.dirs, "directory", "directories"),
		plural(counts.files, "file", "files"))
	return b.String()
}

type treeCounts struct {
	dirs  int
	files int
}

// generateTreeRecursively returns the connector-prefixed lines for directory's children.
func generateTreeRecursively(ctx context.Context, directory, prefix string, counts *treeCounts, logger *zap.Logger) []string {
	if ctx.Err() != nil {
		return nil
	}

	entries, err := os.ReadDir(directory)
	if err != nil {
		logger.Warn("Failed to read directory for tree structure", zap.String("directory", directory), zap.Error(err))
		return nil
	}

	visible := entries[:0]
	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), ".") {
			visible = append(visible, entry)
		}
	}

	sort.Slice(visible, func(i, j int) bool {
		if visible[i].IsDir() != visible[j].IsDir() {
			return visible[i].IsDir()
		}
		return strings.ToLower(visible[i].Name()) < strings.ToLower(visible[j].Name())
	})

	var output []string
	for i, entry := range visible {
		connector := "├── "
		extension := "│   "
		if i == len(visible)-1 {
			connector = "└── "
			extension = "    "
		}

		output = append(output, prefix+connector+entry.Name())
		if entry.IsDir() {
			counts.dirs++
			output = append(output, generateTreeRecursively(ctx, filepath.Join(directory, entry.Name()), prefix+extension, counts, logger)...)
		} else {
			counts.files++
		}
	}
	return output
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
