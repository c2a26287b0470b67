// Package language maps file name suffixes to the labels used to tag fenced code blocks.
package language

import (
	"path"
	"path/filepath"
	"strings"
)

// Plaintext is returned for unknown or missing suffixes.
const Plaintext = "plaintext"

// extensionToLanguage holds the fence labels keyed by lowercase suffix.
var extensionToLanguage = map[string]string{
	".py":    "python3",
	".js":    "javascript",
	".html":  "html",
	".css":   "css",
	".java":  "java",
	".c":     "c",
	".cpp":   "cpp",
	".h":     "cpp",
	".sh":    "bash",
	".md":    "markdown",
	".json":  "json",
	".xml":   "xml",
	".yaml":  "yaml",
	".yml":   "yaml",
	".sql":   "sql",
	".rb":    "ruby",
	".php":   "php",
	".go":    "go",
	".rs":    "rust",
	".ts":    "typescript",
	".kt":    "kotlin",
	".swift": "swift",
	".m":     "objectivec",
	".lua":   "lua",
}

// ForPath returns the fence label for the given file name or path.
func ForPath(name string) string {
	label, ok := extensionToLanguage[Suffix(name)]
	if !ok {
		return Plaintext
	}
	return label
}

// Suffix returns the lowercase final extension of the base name, including the dot.
// A name whose only dot is the leading one (".bashrc") has no suffix.
func Suffix(name string) string {
	base := path.Base(filepath.ToSlash(name))
	ext := path.Ext(base)
	if ext == base || ext == "." {
		return ""
	}
	return strings.ToLower(ext)
}
