// Package filter decides which project files belong in a prompt.
//
// A PatternSet runs in exactly one of two modes. When include patterns are present the
// filter is include-only and ignore patterns are never evaluated; otherwise every path
// is kept unless an ignore pattern matches it. Hidden paths are rejected separately by
// IsHidden, before any pattern is consulted.
package filter

import (
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Mode selects how a Filter evaluates its patterns.
type Mode int

const (
	// IgnoreUnlessMatched keeps a path unless an ignore pattern matches it.
	IgnoreUnlessMatched Mode = iota
	// IncludeOnly keeps a path only if an include pattern matches it.
	IncludeOnly
)

func (m Mode) String() string {
	switch m {
	case IncludeOnly:
		return "include-only"
	default:
		return "ignore-unless-matched"
	}
}

// PatternSet holds the user-supplied include and ignore globs.
type PatternSet struct {
	Include []string
	Ignore  []string
}

// Mode returns IncludeOnly when any include pattern is set.
func (ps PatternSet) Mode() Mode {
	if len(ps.Include) > 0 {
		return IncludeOnly
	}
	return IgnoreUnlessMatched
}

// Filter is a compiled PatternSet.
type Filter struct {
	mode     Mode
	patterns []*Pattern // patterns of the active mode only
	logger   *zap.Logger
}

// New compiles the patterns of the mode selected by ps.
func New(ps PatternSet, logger *zap.Logger) (*Filter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	mode := ps.Mode()
	globs := ps.Ignore
	if mode == IncludeOnly {
		globs = ps.Include
	}

	f := &Filter{mode: mode, logger: logger}
	for _, glob := range globs {
		p, err := CompilePattern(glob)
		if err != nil {
			return nil, err
		}
		f.patterns = append(f.patterns, p)
		logger.Debug("Compiled pattern", zap.String("glob", glob), zap.Stringer("mode", mode))
	}
	return f, nil
}

// Mode reports the evaluation mode of the filter.
func (f *Filter) Mode() Mode {
	return f.mode
}

// Includes reports whether the path, relative to the project root, passes the filter.
func (f *Filter) Includes(relPath string) bool {
	matched, p := f.MatchesPathWithPattern(relPath)
	if f.mode == IncludeOnly {
		if !matched {
			f.logger.Debug("No include pattern matched", zap.String("path", relPath))
		}
		return matched
	}
	if matched {
		f.logger.Debug("Path ignored", zap.String("path", relPath), zap.String("pattern", p.Glob))
	}
	return !matched
}

// MatchesPathWithPattern reports whether any active pattern matches the path, and which one
// matched first.
func (f *Filter) MatchesPathWithPattern(relPath string) (bool, *Pattern) {
	normalized := filepath.ToSlash(relPath)
	for _, p := range f.patterns {
		if p.Match(normalized) {
			return true, p
		}
	}
	return false, nil
}

// IsHidden reports whether any component of the relative path starts with a dot.
func IsHidden(relPath string) bool {
	for _, part := range strings.Split(filepath.ToSlash(relPath), "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}
