// Package toolexec runs optional external tools with a bounded lifetime.
//
// A tool that is not installed, exits non-zero, or outlives its timeout is reported as
// ErrToolUnavailable. Callers degrade to an empty result instead of failing the run.
package toolexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout bounds a single tool invocation.
const DefaultTimeout = 30 * time.Second

// waitDelay caps how long output pipes are drained after a timed-out tool is killed.
const waitDelay = 500 * time.Millisecond

// ErrToolUnavailable is returned when a tool cannot produce output.
var ErrToolUnavailable = errors.New("tool unavailable")

// Runner invokes external commands. The zero value is usable.
type Runner struct {
	Timeout time.Duration
	Logger  *zap.Logger

	lookPath func(string) (string, error)
	warned   map[string]bool
}

// NewRunner returns a Runner with the given timeout and logger.
func NewRunner(timeout time.Duration, logger *zap.Logger) *Runner {
	return &Runner{Timeout: timeout, Logger: logger}
}

// Run executes name with args, feeding stdin when non-empty, and returns stdout.
func (r *Runner) Run(ctx context.Context, stdin string, name string, args ...string) (string, error) {
	logger := r.logger()

	lookPath := r.lookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	if _, err := lookPath(name); err != nil {
		r.reportUnavailable(name, fmt.Sprintf("'%s' command not found. Please install it or add it to your PATH.", name), err)
		return "", fmt.Errorf("%s: %w", name, ErrToolUnavailable)
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = waitDelay
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("Running external tool", zap.String("tool", name), zap.Strings("args", args))
	start := time.Now()
	err := cmd.Run()
	if ctx.Err() != nil {
		r.reportUnavailable(name, fmt.Sprintf("'%s' did not finish within %s.", name, timeout), ctx.Err())
		return "", fmt.Errorf("%s: %w", name, ErrToolUnavailable)
	}
	if err != nil {
		r.reportUnavailable(name, fmt.Sprintf("'%s' failed: %s", name, strings.TrimSpace(stderr.String())), err)
		return "", fmt.Errorf("%s: %w", name, ErrToolUnavailable)
	}

	logger.Debug("External tool finished",
		zap.String("tool", name),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("stdoutBytes", stdout.Len()))
	return stdout.String(), nil
}

// reportUnavailable logs the first failure of each tool at warn level and later ones at debug.
func (r *Runner) reportUnavailable(name, msg string, err error) {
	logger := r.logger()
	if r.warned == nil {
		r.warned = make(map[string]bool)
	}
	if r.warned[name] {
		logger.Debug(msg, zap.String("tool", name), zap.Error(err))
		return
	}
	r.warned[name] = true
	logger.Warn(msg, zap.String("tool", name), zap.Error(err))
}

func (r *Runner) logger() *zap.Logger {
	if r.Logger == nil {
		r.Logger = zap.NewNop()
	}
	return r.Logger
}
