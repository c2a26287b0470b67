package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"promptmaker/pkg/config"
	"promptmaker/pkg/filter"
	"promptmaker/pkg/logging"
	"promptmaker/pkg/output"
	"promptmaker/pkg/progress"
	"promptmaker/pkg/prompt"
	"promptmaker/pkg/summarize"
	"promptmaker/pkg/toolexec"
	"promptmaker/pkg/version"
	"promptmaker/pkg/wordcount"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// globChars mark a positional argument that was probably meant as a pattern.
const globChars = "*?["

type rootOptions struct {
	configPath string
	verbose    bool
}

// NewRootCmd builds the promptmaker command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "promptmaker [projectDir]",
		Short: "Generate a structured prompt from project files",
		Long: `promptmaker walks a project directory and assembles one text prompt: base instructions,
the project tree, every selected file in a fenced block (or a ctags summary for large files),
and task instructions. Hidden files and directories are always skipped.

--include and --ignore take one pattern each and may be repeated:
  promptmaker . --include '*.md' --include '*.py'

Settings are read from .promptmaker.toml in the project or home directory, then from
PROMPTMAKER_* environment variables, then from flags.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := logging.Setup(opts.verbose, version.AppName, version.Version); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			projectDir := "."
			if len(args) == 1 {
				projectDir = args[0]
			}
			return runPrompt(cmd, projectDir, opts, logging.L())
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Flags().StringVar(&opts.configPath, "config", "", "Config file (default <projectDir>/.promptmaker.toml, then ~/.promptmaker.toml)")
	config.BindFlags(rootCmd.Flags())

	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func runPrompt(cmd *cobra.Command, projectDir string, opts *rootOptions, logger *zap.Logger) error {
	cfg, err := config.Load(opts.configPath, projectDir)
	if err != nil {
		return err
	}
	if err := cfg.ApplyFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error reading flags: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	root, err := prompt.ResolveRoot(projectDir)
	if err != nil {
		if strings.ContainsAny(projectDir, globChars) {
			return fmt.Errorf("%w (%q looks like a glob pattern; pass --include or --ignore once per pattern)", err, projectDir)
		}
		return err
	}
	patterns, err := loadPatterns(cfg, root, logger)
	if err != nil {
		return err
	}

	runner := toolexec.NewRunner(cfg.ToolTimeout, logger)
	assembler := prompt.NewAssembler(newTreeRenderer(cfg.TreeRenderer, runner, logger), summarize.Ctags{Runner: runner}, logger)
	if !cfg.NoProgress {
		assembler.Progress = progress.TerminalFactory(cmd.ErrOrStderr())
	}

	ctx := cmd.Context()
	doc, err := assembler.Generate(ctx, prompt.Options{
		ProjectDir:       projectDir,
		Patterns:         patterns,
		BaseInstructions: cfg.BaseInstructions,
		TaskInstructions: cfg.TaskInstructions,
		IncludeTree:      !cfg.NoTree,
		MaxFileSize:      cfg.MaxFileSize,
	})
	if err != nil {
		return err
	}

	words := wordcount.New(runner, logger).Count(ctx, doc)
	fmt.Fprintf(cmd.ErrOrStderr(), "\nPrompt generated. Word count: %d\n", words)

	if cfg.Output == "" {
		return output.Write(cmd.OutOrStdout(), doc)
	}
	if err := output.WriteFile(cfg.Output, doc, logger); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Prompt written to %s\n", cfg.Output)
	return nil
}

// loadPatterns merges the configured patterns with those of the ignore file. Only the
// default <root>/.promptignore may be absent; an explicitly named file must exist.
func loadPatterns(cfg *config.Config, root string, logger *zap.Logger) (filter.PatternSet, error) {
	ignoreFile := cfg.IgnoreFile
	if ignoreFile == "" {
		ignoreFile = filepath.Join(root, filter.IgnoreFileName)
	}
	filePatterns, err := filter.LoadPatternFile(ignoreFile, logger)
	switch {
	case err == nil:
	case cfg.IgnoreFile == "" && errors.Is(err, fs.ErrNotExist):
		logger.Debug("Ignore file does not exist and will be skipped", zap.String("filePath", ignoreFile))
	default:
		return filter.PatternSet{}, err
	}

	ignore := make([]string, 0, len(cfg.Ignore)+len(filePatterns))
	ignore = append(ignore, cfg.Ignore...)
	ignore = append(ignore, filePatterns...)
	return filter.PatternSet{Include: cfg.Include, Ignore: ignore}, nil
}

func newTreeRenderer(kind string, runner *toolexec.Runner, logger *zap.Logger) prompt.TreeRenderer {
	if kind == config.TreeRendererNative {
		return summarize.NativeTree{Logger: logger}
	}
	return summarize.CommandTree{Runner: runner}
}
