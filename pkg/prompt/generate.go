// Package prompt assembles a project's files into a single prompt document.
//
// The document is, in order: the base instructions, an optional project tree, one block
// per selected file in relative-path order, and the task instructions. Files up to the
// size limit are embedded in a fenced block tagged with their language; larger files are
// replaced by a symbol summary when one is available.
package prompt

import (
	"context"
	"fmt"
	"strings"
	"time"

	"promptmaker/pkg/filter"
	"promptmaker/pkg/progress"

	"go.uber.org/zap"
)

// Assembler builds prompt documents. Tree and Symbols may be nil, in which case the
// corresponding content is omitted as if the tool were unavailable.
type Assembler struct {
	Tree     TreeRenderer
	Symbols  SymbolSummarizer
	Progress progress.Factory
	Logger   *zap.Logger
}

// NewAssembler returns an Assembler with the given collaborators and no progress display.
func NewAssembler(tree TreeRenderer, symbols SymbolSummarizer, logger *zap.Logger) *Assembler {
	return &Assembler{Tree: tree, Symbols: symbols, Logger: logger}
}

// Generate walks opts.ProjectDir and returns the assembled document.
// It fails only when the project directory is unusable or a pattern does not compile.
func (a *Assembler) Generate(ctx context.Context, opts Options) (string, error) {
	startTime := time.Now()
	logger := a.logger()

	root, err := ResolveRoot(opts.ProjectDir)
	if err != nil {
		return "", err
	}
	logger.Info("Starting prompt generation",
		zap.String("root", root),
		zap.Bool("tree", opts.IncludeTree),
		zap.Int64("maxFileSize", opts.MaxFileSize))

	f, err := filter.New(opts.Patterns, logger)
	if err != nil {
		return "", fmt.Errorf("failed to compile patterns: %w", err)
	}

	var doc strings.Builder
	fmt.Fprintf(&doc, "Base Instructions:\n%s\n\n", opts.BaseInstructions)
	doc.WriteString("Background Information:\n")

	if opts.IncludeTree && a.Tree != nil {
		treeRoot := opts.ProjectDir
		if treeRoot == "" {
			treeRoot = "."
		}
		if tree := a.Tree.RenderTree(ctx, treeRoot); tree != "" {
			fmt.Fprintf(&doc, "Project structure:\n```\n%s\n```\n\n", tree)
		}
	}

	files, err := CollectFiles(root, f, logger)
	if err != nil {
		return "", err
	}

	bar := a.progressFactory()(len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("prompt generation interrupted: %w", err)
		}
		doc.WriteString(a.renderFile(ctx, file, opts.MaxFileSize))
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	fmt.Fprintf(&doc, "\nTask Instructions:\n%s\n", opts.TaskInstructions)

	logger.Info("Prompt generation completed",
		zap.Int("files", len(files)),
		zap.Int("bytes", doc.Len()),
		zap.Duration("elapsed", time.Since(startTime)))
	return doc.String(), nil
}

func (a *Assembler) progressFactory() progress.Factory {
	if a.Progress == nil {
		return progress.NopFactory
	}
	return a.Progress
}

func (a *Assembler) logger() *zap.Logger {
	if a.Logger == nil {
		a.Logger = zap.NewNop()
	}
	return a.Logger
}
