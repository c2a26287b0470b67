package prompt

import (
	"context"
	"errors"

	"promptmaker/pkg/filter"
)

// ErrInvalidRoot is returned when the project directory is missing or not a directory.
var ErrInvalidRoot = errors.New("invalid project directory")

// TreeRenderer produces a human-readable directory listing of root.
// An empty result means no tree is available.
type TreeRenderer interface {
	RenderTree(ctx context.Context, root string) string
}

// SymbolSummarizer produces a symbol cross-reference listing for a single file.
// An empty result means no summary is available.
type SymbolSummarizer interface {
	Summarize(ctx context.Context, path string) string
}

// Options holds the inputs of a single Generate call.
type Options struct {
	ProjectDir       string            // Project root; "" means the current directory.
	Patterns         filter.PatternSet // Include/ignore globs matched against relative paths.
	BaseInstructions string            // Opening segment of the document.
	TaskInstructions string            // Closing segment of the document.
	IncludeTree      bool              // Render a "Project structure" block.
	MaxFileSize      int64             // Files larger than this many bytes are summarized.
}

// FileCandidate is a file selected for the prompt.
type FileCandidate struct {
	AbsPath  string // Absolute filesystem path.
	RelPath  string // Path relative to the project root, slash separated.
	Size     int64  // Size in bytes at collection time.
	Language string // Fence label from the language classifier.
}
