// Package config resolves promptmaker settings from, in increasing precedence:
// built-in defaults, a TOML config file, PROMPTMAKER_* environment variables,
// and command-line flags that were set explicitly.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// DefaultBaseInstructions opens every prompt unless overridden.
	DefaultBaseInstructions = "You are an AI assistant tasked with analyzing and working with the provided codebase. If you don't have enough information to complete a task, please admit it."
	// DefaultTaskInstructions closes every prompt unless overridden.
	DefaultTaskInstructions = "Please analyze the provided code and suggest improvements."
	// DefaultMaxFileSize is the largest file, in bytes, embedded verbatim.
	DefaultMaxFileSize int64 = 10000
	// DefaultToolTimeout bounds each external tool invocation.
	DefaultToolTimeout = 30 * time.Second

	// FileName is the config file looked up in the project root and the home directory.
	FileName = ".promptmaker.toml"
	// EnvPrefix marks environment variables read as configuration.
	EnvPrefix = "PROMPTMAKER_"

	TreeRendererCommand = "command"
	TreeRendererNative  = "native"
)

// Keys shared by the config file, environment variables and defaults.
const (
	keyInclude          = "include"
	keyIgnore           = "ignore"
	keyIgnoreFile       = "ignore_file"
	keyBaseInstructions = "base_instructions"
	keyTaskInstructions = "task_instructions"
	keyNoTree           = "no_tree"
	keyTreeRenderer     = "tree_renderer"
	keyOutput           = "output"
	keyMaxFileSize      = "max_file_size"
	keyToolTimeout      = "tool_timeout"
	keyNoProgress       = "no_progress"
)

// listKeys hold comma-separated lists when read from the environment.
var listKeys = map[string]bool{keyInclude: true, keyIgnore: true}

// Config is the fully resolved configuration of a run.
type Config struct {
	Include          []string      `koanf:"include"`
	Ignore           []string      `koanf:"ignore"`
	IgnoreFile       string        `koanf:"ignore_file"`
	BaseInstructions string        `koanf:"base_instructions"`
	TaskInstructions string        `koanf:"task_instructions"`
	NoTree           bool          `koanf:"no_tree"`
	TreeRenderer     string        `koanf:"tree_renderer"`
	Output           string        `koanf:"output"`
	MaxFileSize      int64         `koanf:"max_file_size"`
	ToolTimeout      time.Duration `koanf:"tool_timeout"`
	NoProgress       bool          `koanf:"no_progress"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		keyInclude:          []string{},
		keyIgnore:           []string{},
		keyIgnoreFile:       "",
		keyBaseInstructions: DefaultBaseInstructions,
		keyTaskInstructions: DefaultTaskInstructions,
		keyNoTree:           false,
		keyTreeRenderer:     TreeRendererCommand,
		keyOutput:           "",
		keyMaxFileSize:      DefaultMaxFileSize,
		keyToolTimeout:      DefaultToolTimeout,
		keyNoProgress:       false,
	}
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		BaseInstructions: DefaultBaseInstructions,
		TaskInstructions: DefaultTaskInstructions,
		TreeRenderer:     TreeRendererCommand,
		MaxFileSize:      DefaultMaxFileSize,
		ToolTimeout:      DefaultToolTimeout,
	}
}

// Load builds the configuration from defaults, a config file and the environment.
// An explicit configPath must exist; otherwise FileName is looked up in projectDir
// and then in $HOME, and a missing file is not an error.
func Load(configPath, projectDir string) (*Config, error) {
	var k = koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("error loading defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config %s: %w", configPath, err)
		}
	} else {
		for _, path := range defaultPaths(projectDir) {
			if _, err := os.Stat(path); err != nil {
				continue
			}
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("error loading config %s: %w", path, err)
			}
			break
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("error loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	return &cfg, nil
}

func defaultPaths(projectDir string) []string {
	var paths []string
	if projectDir != "" {
		paths = append(paths, filepath.Join(projectDir, FileName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, FileName))
	}
	return paths
}

// envValue maps PROMPTMAKER_MAX_FILE_SIZE to max_file_size and splits list values on commas.
func envValue(key, value string) (string, interface{}) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	if !listKeys[key] {
		return key, value
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return key, items
}

// Validate reports settings that cannot drive a run.
func (c *Config) Validate() error {
	var errs []error
	if c.MaxFileSize < 0 {
		errs = append(errs, fmt.Errorf("max file size must not be negative, got %d", c.MaxFileSize))
	}
	switch c.TreeRenderer {
	case TreeRendererCommand, TreeRendererNative:
	default:
		errs = append(errs, fmt.Errorf("unknown tree renderer %q (want %q or %q)", c.TreeRenderer, TreeRendererCommand, TreeRendererNative))
	}
	if c.ToolTimeout <= 0 {
		errs = append(errs, fmt.Errorf("tool timeout must be positive, got %s", c.ToolTimeout))
	}
	return errors.Join(errs...)
}
