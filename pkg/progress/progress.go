// Package progress draws a per-file progress bar while a prompt is assembled.
package progress

import (
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// Reporter is advanced once per processed file.
type Reporter interface {
	Add(n int) error
	Finish() error
}

// Factory creates a Reporter for a run over total items.
type Factory func(total int) Reporter

// Nop discards progress.
type Nop struct{}

func (Nop) Add(int) error { return nil }
func (Nop) Finish() error { return nil }

// NopFactory always returns Nop.
func NopFactory(int) Reporter { return Nop{} }

// New returns a progress bar writing to w, or Nop when w is not a terminal.
func New(w io.Writer, total int, description string) Reporter {
	if !IsTerminal(w) {
		return Nop{}
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("file"),
		progressbar.OptionClearOnFinish(),
	)
}

// TerminalFactory returns a Factory that draws "Processing files" bars on w.
func TerminalFactory(w io.Writer) Factory {
	return func(total int) Reporter {
		return New(w, total, "Processing files")
	}
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
