package filter

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

// IgnoreFileName is the per-project ignore file looked up at the project root.
const IgnoreFileName = ".promptignore"

// LoadPatternFile reads glob patterns from an ignore file, one per line.
// A missing file is reported with an error matching fs.ErrNotExist.
func LoadPatternFile(path string, logger *zap.Logger) ([]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ignore file %s: %w", path, err)
	}

	var patterns []string
	for i, line := range strings.Split(string(content), "\n") {
		glob, ok := parsePatternLine(line)
		if !ok {
			continue
		}
		patterns = append(patterns, glob)
		logger.Debug("Loaded ignore pattern",
			zap.String("filePath", path),
			zap.Int("lineNo", i+1),
			zap.String("pattern", glob))
	}
	return patterns, nil
}

// parsePatternLine trims a line and drops blanks and comments.
// A leading `\#` yields a pattern starting with a literal '#'.
func parsePatternLine(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", false
	}
	if strings.HasPrefix(trimmed, `\#`) {
		trimmed = trimmed[1:]
	}
	return trimmed, true
}
