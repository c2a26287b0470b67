package filter

import (
	"fmt"
	"regexp"
	"strings"
)

// Pattern is a shell-style glob compiled to an anchored regular expression.
type Pattern struct {
	Glob string         // Original glob as supplied by the user.
	re   *regexp.Regexp // Compiled matcher over the whole relative path.
}

// CompilePattern compiles glob using fnmatch rules: '*' matches any run of characters
// (path separators included), '?' matches one character, '[seq]' and '[!seq]' are
// character classes, and an unclosed '[' is taken literally.
func CompilePattern(glob string) (*Pattern, error) {
	re, err := regexp.Compile(globToRegex(glob))
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern %q: %w", glob, err)
	}
	return &Pattern{Glob: glob, re: re}, nil
}

// Match reports whether the slash-separated path matches the pattern in full.
func (p *Pattern) Match(path string) bool {
	return p.re.MatchString(path)
}

func (p *Pattern) String() string {
	return p.Glob
}

// globToRegex translates a glob into a regular expression anchored at both ends.
func globToRegex(glob string) string {
	runes := []rune(glob)
	n := len(runes)

	var b strings.Builder
	b.WriteString("^(?s:")
	for i := 0; i < n; {
		c := runes[i]
		i++
		switch c {
		case '*':
			for i < n && runes[i] == '*' {
				i++
			}
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		case '[':
			j := i
			if j < n && runes[j] == '!' {
				j++
			}
			if j < n && runes[j] == ']' {
				j++
			}
			for j < n && runes[j] != ']' {
				j++
			}
			if j >= n {
				b.WriteString(`\[`)
				continue
			}
			b.WriteString(classToRegex(string(runes[i:j])))
			i = j + 1
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	b.WriteString(")$")
	return b.String()
}

// classToRegex converts the body of a glob character class into a regex class.
// A reversed range such as z-a is empty and dropped; a class left empty matches nothing,
// and its negation matches any character.
func classToRegex(body string) string {
	runes := []rune(body)
	negate := len(runes) > 0 && runes[0] == '!'
	if negate {
		runes = runes[1:]
	}

	var items strings.Builder
	for i := 0; i < len(runes); i++ {
		lo := runes[i]
		if i+2 < len(runes) && runes[i+1] == '-' {
			hi := runes[i+2]
			i += 2
			if lo > hi {
				continue
			}
			items.WriteString(classRune(lo) + "-" + classRune(hi))
			continue
		}
		items.WriteString(classRune(lo))
	}

	switch {
	case items.Len() == 0 && negate:
		return "."
	case items.Len() == 0:
		return `[^\x00-\x{10FFFF}]`
	case negate:
		return "[^" + items.String() + "]"
	default:
		return "[" + items.String() + "]"
	}
}

func classRune(r rune) string {
	switch r {
	case '\\', '[', ']', '^', '-':
		return `\` + string(r)
	}
	return string(r)
}
