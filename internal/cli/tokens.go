package cli

import (
	"github.com/spf13/cobra"

	"github.com/yaklabco/tokmark/pkg/config"
)

func newTokensCommand(global *globalFlags) *cobra.Command {
	flags := &highlightFlags{}
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tokens <file|->",
		Short: "List the tokens of a file",
		Long: `List every token of a file with its line, column, length and kind.

Columns are 1-based byte columns. Use "-" to read standard input.

Examples:
  tokmark tokens main.c
  tokmark tokens --json main.c
  echo 'x = 1' | tokmark tokens --mode python -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.format = string(config.FormatTokens)
			if asJSON {
				flags.format = string(config.FormatJSON)
			}
			flags.includeUnknown = true
			return runHighlight(cmd, args, global, flags)
		},
	}

	addHighlightFlags(cmd, flags)
	cmd.Flags().BoolVar(&asJSON, "json", false, "write tokens as JSON")

	return cmd
}
