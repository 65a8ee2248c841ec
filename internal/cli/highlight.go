package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/tokmark/internal/logging"
	"github.com/yaklabco/tokmark/pkg/config"
	"github.com/yaklabco/tokmark/pkg/reporter"
	"github.com/yaklabco/tokmark/pkg/runner"
)

type highlightFlags struct {
	format         string
	jobs           int
	ignore         []string
	mode           string
	tabWidth       int
	lineNumbers    bool
	includeUnknown bool
	followLinks    bool
	headers        bool
	summary        bool
	compact        bool
}

func newHighlightCommand(global *globalFlags) *cobra.Command {
	flags := &highlightFlags{}

	cmd := &cobra.Command{
		Use:   "highlight [paths...|-]",
		Short: "Highlight source files",
		Long:  highlightLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHighlight(cmd, args, global, flags)
		},
	}

	addHighlightFlags(cmd, flags)
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, tokens, json, summary")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().IntVar(&flags.tabWidth, "tab-width", 0, "tab stop distance for text output (default 4)")
	cmd.Flags().BoolVarP(&flags.lineNumbers, "line-numbers", "n", false, "prefix lines with their number")
	cmd.Flags().BoolVar(&flags.includeUnknown, "include-unknown", false,
		"highlight files no mode accepts as plain text")
	cmd.Flags().BoolVar(&flags.followLinks, "follow-symlinks", false, "follow directory symlinks")
	cmd.Flags().BoolVar(&flags.headers, "headers", false, "print a header before each file")
	cmd.Flags().BoolVar(&flags.summary, "summary", false, "print a summary line to stderr")

	return cmd
}

const highlightLongDescription = `Highlight source files with the mode their name or first line selects.

Directories are walked recursively; files no mode accepts are skipped
unless --include-unknown is given. Use "-" to read standard input, whose
mode is detected from its content unless --mode is given. Files ending in
.gz are decompressed and highlighted as their inner type.

Examples:
  tokmark highlight main.c                 # Styled source on stdout
  tokmark highlight -n src/                # Every known file, numbered
  tokmark highlight --format json lib.py   # Tokens as JSON
  cat script | tokmark highlight -         # Detect the language
  tokmark highlight --mode perl tool.cgi   # Force a mode`

// addHighlightFlags adds the flags shared by highlight and tokens.
func addHighlightFlags(cmd *cobra.Command, flags *highlightFlags) {
	cmd.Flags().StringVarP(&flags.mode, "mode", "m", "", "force a mode instead of resolving one")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact JSON output")
}

// cliConfig maps the flags that were set onto a config layer.
func (f *highlightFlags) cliConfig(cmd *cobra.Command) *config.Config {
	cfg := &config.Config{
		Jobs: f.jobs,
		Mode: f.mode,
	}
	if cmd.Flags().Lookup("format") == nil || cmd.Flags().Changed("format") {
		cfg.Format = config.OutputFormat(f.format)
	}
	if cmd.Flags().Changed("ignore") {
		cfg.Ignore = f.ignore
	}
	if cmd.Flags().Changed("tab-width") {
		cfg.TabWidth = f.tabWidth
	}
	if cmd.Flags().Changed("line-numbers") {
		cfg.LineNumbers = &f.lineNumbers
	}
	return cfg
}

func runHighlight(cmd *cobra.Command, args []string, global *globalFlags, flags *highlightFlags) error {
	if _, err := reporter.ParseFormat(flags.format); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	sess, err := newSession(cmd, global, flags.cliConfig(cmd))
	if err != nil {
		return err
	}
	cfg := sess.cfg

	hl := runner.New(sess.provider, sess.logger)

	var result *runner.Result
	if isStdin(args) {
		result = highlightStdin(cmd, hl, cfg.Mode, sess)
	} else {
		result, err = hl.Run(sess.ctx, runner.Options{
			Paths:          args,
			WorkingDir:     sess.workDir,
			FollowSymlinks: flags.followLinks,
			IncludeUnknown: flags.includeUnknown,
			Mode:           cfg.Mode,
			Jobs:           cfg.Jobs,
			Config:         cfg,
		})
	}
	if err != nil {
		return errors.Join(errors.New("highlight run failed"), err)
	}

	sess.logger.Debug("highlight run finished",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesSkipped, result.Stats.FilesSkipped,
		logging.FieldTokens, result.Stats.TokensTotal,
	)

	format, err := reporter.ParseFormat(string(cfg.Format))
	if err != nil {
		return fmt.Errorf("invalid format: %w", err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		ErrorWriter: cmd.ErrOrStderr(),
		Format:      format,
		Color:       string(cfg.Color),
		ShowSummary: flags.summary,
		ShowHeaders: flags.headers,
		LineNumbers: cfg.ShowLineNumbers(),
		TabWidth:    cfg.TabWidth,
		Compact:     flags.compact,
		WorkingDir:  sess.workDir,
		Config:      cfg,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(sess.ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	if ExitCodeFromResult(result) != ExitSuccess {
		return ErrFilesFailed
	}
	return nil
}

func isStdin(args []string) bool {
	return len(args) == 1 && args[0] == runner.StdinPath
}

func highlightStdin(cmd *cobra.Command, hl *runner.Runner, forcedMode string, sess *session) *runner.Result {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		sess.logger.Info("reading from standard input; end with Ctrl-D")
	}

	outcome := runner.FileOutcome{Path: runner.StdinPath}
	outcome.Result, outcome.Error = hl.HighlightReader(in, runner.StdinPath, forcedMode)
	if outcome.Error != nil {
		outcome.Result = nil
	}
	return runner.NewResult(outcome)
}
