// Package wordcount counts the words of a generated prompt.
//
// A word is a maximal run of non-whitespace characters. Fields implements that definition
// directly; Command asks `wc -w`, which agrees except for non-ASCII whitespace (for
// example U+00A0) that wc may treat as part of a word depending on the locale.
package wordcount

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"promptmaker/pkg/toolexec"

	"go.uber.org/zap"
)

// Counter counts the words in text.
type Counter interface {
	Count(ctx context.Context, text string) int
}

// Fields counts whitespace-delimited tokens in-process.
type Fields struct{}

// Count implements Counter.
func (Fields) Count(_ context.Context, text string) int {
	return len(strings.Fields(text))
}

// Command counts words with the external `wc -w` tool.
type Command struct {
	Runner *toolexec.Runner
}

// CountWords runs `wc -w` and parses its first field.
func (c Command) CountWords(ctx context.Context, text string) (int, error) {
	runner := c.Runner
	if runner == nil {
		runner = &toolexec.Runner{}
	}
	out, err := runner.Run(ctx, text, "wc", "-w")
	if err != nil {
		return 0, err
	}
	fields := strings.Fields(out)
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty wc output: %w", toolexec.ErrToolUnavailable)
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, fmt.Errorf("unparsable wc output %q: %w", fields[0], toolexec.ErrToolUnavailable)
	}
	return n, nil
}

// WithFallback prefers Command and falls back to Fields when wc cannot answer.
type WithFallback struct {
	Command Command
	Logger  *zap.Logger
}

// New returns the default Counter: `wc -w` with an in-process fallback.
func New(runner *toolexec.Runner, logger *zap.Logger) Counter {
	return WithFallback{Command: Command{Runner: runner}, Logger: logger}
}

// Count implements Counter.
func (w WithFallback) Count(ctx context.Context, text string) int {
	n, err := w.Command.CountWords(ctx, text)
	if err == nil {
		return n
	}
	if w.Logger != nil {
		w.Logger.Debug("Falling back to in-process word count", zap.Error(err))
	}
	return Fields{}.Count(ctx, text)
}
