package config

import (
	"github.com/spf13/pflag"
)

// Flag names registered by BindFlags.
const (
	FlagInclude          = "include"
	FlagIgnore           = "ignore"
	FlagIgnoreFile       = "ignore-file"
	FlagBaseInstructions = "base-instructions"
	FlagTaskInstructions = "task-instructions"
	FlagNoTree           = "no-tree"
	FlagTreeRenderer     = "tree-renderer"
	FlagOutput           = "output"
	FlagMaxFileSize      = "max-file-size"
	FlagToolTimeout      = "tool-timeout"
	FlagNoProgress       = "no-progress"
)

// BindFlags registers one flag per setting on fs, with the built-in defaults.
func BindFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.StringArray(FlagInclude, nil, "Glob pattern of files to include; repeat the flag for each pattern. When set, only matching files are included")
	fs.StringArray(FlagIgnore, nil, "Glob pattern of files to ignore; repeat the flag for each pattern. Ignored when --include is set")
	fs.String(FlagIgnoreFile, d.IgnoreFile, "File of ignore patterns, one per line (default <projectDir>/.promptignore)")
	fs.String(FlagBaseInstructions, d.BaseInstructions, "Instructions placed at the start of the prompt")
	fs.String(FlagTaskInstructions, d.TaskInstructions, "Instructions placed at the end of the prompt")
	fs.Bool(FlagNoTree, d.NoTree, "Omit the project structure tree")
	fs.String(FlagTreeRenderer, d.TreeRenderer, "Tree renderer: 'command' runs the tree tool, 'native' draws it in-process")
	fs.StringP(FlagOutput, "o", d.Output, "Write the prompt to this file instead of standard output")
	fs.Int64(FlagMaxFileSize, d.MaxFileSize, "Largest file size in bytes embedded in full; larger files get a ctags summary")
	fs.Duration(FlagToolTimeout, d.ToolTimeout, "Timeout for each external tool invocation")
	fs.Bool(FlagNoProgress, d.NoProgress, "Disable the progress bar")
}

// ApplyFlags overrides c with every flag in fs that was set on the command line.
// Flags absent from fs are left alone.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	var err error
	changed := func(name string) bool {
		return err == nil && fs.Lookup(name) != nil && fs.Changed(name)
	}

	if changed(FlagInclude) {
		c.Include, err = fs.GetStringArray(FlagInclude)
	}
	if changed(FlagIgnore) {
		c.Ignore, err = fs.GetStringArray(FlagIgnore)
	}
	if changed(FlagIgnoreFile) {
		c.IgnoreFile, err = fs.GetString(FlagIgnoreFile)
	}
	if changed(FlagBaseInstructions) {
		c.BaseInstructions, err = fs.GetString(FlagBaseInstructions)
	}
	if changed(FlagTaskInstructions) {
		c.TaskInstructions, err = fs.GetString(FlagTaskInstructions)
	}
	if changed(FlagNoTree) {
		c.NoTree, err = fs.GetBool(FlagNoTree)
	}
	if changed(FlagTreeRenderer) {
		c.TreeRenderer, err = fs.GetString(FlagTreeRenderer)
	}
	if changed(FlagOutput) {
		c.Output, err = fs.GetString(FlagOutput)
	}
	if changed(FlagMaxFileSize) {
		c.MaxFileSize, err = fs.GetInt64(FlagMaxFileSize)
	}
	if changed(FlagToolTimeout) {
		c.ToolTimeout, err = fs.GetDuration(FlagToolTimeout)
	}
	if changed(FlagNoProgress) {
		c.NoProgress, err = fs.GetBool(FlagNoProgress)
	}
	return err
}
