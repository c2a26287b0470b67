package prompt

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// renderFile returns the block for one file: a header followed by either the fenced
// contents or, above maxFileSize, the symbol summary if one is available.
func (a *Assembler) renderFile(ctx context.Context, c FileCandidate, maxFileSize int64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "File: %s\n", c.RelPath)

	if c.Size > maxFileSize {
		var summary string
		if a.Symbols != nil {
			summary = a.Symbols.Summarize(ctx, c.AbsPath)
		}
		if summary != "" {
			fmt.Fprintf(&b, "File size: %d bytes. Showing ctags summary:\n```\n%s\n```\n\n", c.Size, summary)
		} else {
			a.logger().Debug("No summary for oversized file",
				zap.String("file", c.RelPath),
				zap.Int64("sizeBytes", c.Size),
				zap.Int64("maxFileSize", maxFileSize))
		}
		return b.String()
	}

	fmt.Fprintf(&b, "```%s\n", c.Language)
	b.WriteString(a.readText(c))
	b.WriteString("\n```\n\n")
	return b.String()
}

// readText returns the file's decoded text, or a placeholder line when the file cannot
// be read or is not valid UTF-8.
func (a *Assembler) readText(c FileCandidate) string {
	data, err := os.ReadFile(c.AbsPath)
	if err != nil {
		a.logger().Warn("Failed to read file", zap.String("file", c.RelPath), zap.Error(err))
		return unreadable(c.RelPath)
	}
	text, ok := decodeText(data)
	if !ok {
		a.logger().Debug("File is not valid UTF-8", zap.String("file", c.RelPath))
		return unreadable(c.RelPath)
	}
	return text
}

func unreadable(relPath string) string {
	return fmt.Sprintf("[Unable to read file: %s]\n", relPath)
}

// decodeText validates data as UTF-8 and translates CRLF and lone CR line endings to LF.
func decodeText(data []byte) (string, bool) {
	if !utf8.Valid(data) {
		return "", false
	}
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	data = bytes.ReplaceAll(data, []byte("\r"), []byte("\n"))
	return string(data), true
}
