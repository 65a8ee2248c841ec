// Package cli provides the Cobra command structure for tokmark.
package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/yaklabco/tokmark/internal/configloader"
	"github.com/yaklabco/tokmark/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	debug      bool
	configPath string
	noConfig   bool
	color      string
	logLevel   string
}

// NewRootCommand creates the root tokmark command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "tokmark",
		Short: "Incremental syntax highlighting from declarative grammars",
		Long: `tokmark highlights source files with rule-based grammars.

Grammars are YAML documents describing keywords, spans, sequences and
regular expressions per rule set. Files are matched to modes by file name
and first-line globs, with content detection as a fallback. Output can be
styled terminal text, a token listing, JSON, or a summary.

` + envHelp(),
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			switch {
			case flags.debug:
				logging.SetLevel("debug")
			case flags.logLevel != "":
				logging.SetLevel(flags.logLevel)
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().BoolVar(&flags.noConfig, "no-config", false,
		"ignore system, user and project config files")
	rootCmd.PersistentFlags().StringVar(&flags.color, "color", "",
		"colorize output: auto, always, never (default auto)")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "",
		"log level: debug, info, warn, error")

	// Add subcommands.
	rootCmd.AddCommand(newHighlightCommand(flags))
	rootCmd.AddCommand(newTokensCommand(flags))
	rootCmd.AddCommand(newModesCommand(flags))
	rootCmd.AddCommand(newBlocksCommand(flags))
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	applyHelp(rootCmd, &flags.color)

	return rootCmd
}

// envHelp lists the TOKMARK_* variables for the root help text.
func envHelp() string {
	vars := configloader.ListEnvVars()
	names := lo.Keys(vars)
	slices.Sort(names)
	width := len(lo.MaxBy(names, func(a, b string) bool { return len(a) > len(b) }))

	var b strings.Builder
	b.WriteString("Environment:")
	for _, name := range names {
		fmt.Fprintf(&b, "\n  %-*s  %s", width, name, vars[name])
	}
	return b.String()
}
