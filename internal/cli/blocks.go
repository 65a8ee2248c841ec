package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/yaklabco/tokmark/internal/logging"
	"github.com/yaklabco/tokmark/internal/ui/pretty"
	"github.com/yaklabco/tokmark/pkg/mdcode"
	"github.com/yaklabco/tokmark/pkg/reporter"
	"github.com/yaklabco/tokmark/pkg/runner"
)

type blocksFlags struct {
	list        bool
	lineNumbers bool
}

func newBlocksCommand(global *globalFlags) *cobra.Command {
	flags := &blocksFlags{}

	cmd := &cobra.Command{
		Use:   "blocks <markdown...|->",
		Short: "Highlight the fenced code blocks of Markdown files",
		Long: `Highlight the fenced code blocks of Markdown files.

The info string of each block selects its mode, by mode name, alias or a
language alias known to go-enry. Blocks without an info string are
detected from their content. Lines are numbered as in the Markdown file.

Examples:
  tokmark blocks README.md
  tokmark blocks --list docs/*.md`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBlocks(cmd, args, global, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.list, "list", false, "list blocks instead of highlighting them")
	cmd.Flags().BoolVarP(&flags.lineNumbers, "line-numbers", "n", false, "prefix lines with their number")

	return cmd
}

func runBlocks(cmd *cobra.Command, args []string, global *globalFlags, flags *blocksFlags) error {
	sess, err := newSession(cmd, global, nil)
	if err != nil {
		return err
	}

	out := bufio.NewWriter(cmd.OutOrStdout())
	defer out.Flush()

	colorEnabled := pretty.IsColorEnabled(string(sess.cfg.Color), cmd.OutOrStdout())
	renderer := pretty.NewRenderer(cmd.OutOrStdout(), colorEnabled)
	styles := pretty.NewStylesFor(renderer, colorEnabled)
	theme := pretty.NewTheme(renderer, colorEnabled, sess.cfg)
	lines := reporter.NewLineRenderer(theme, styles, sess.cfg.TabWidth,
		flags.lineNumbers || sess.cfg.ShowLineNumbers())

	highlighter := mdcode.NewHighlighter(sess.provider, sess.logger)

	failed := false
	printed := 0
	for _, path := range args {
		content, err := readInput(cmd, path)
		if err != nil {
			fmt.Fprint(cmd.ErrOrStderr(), styles.FormatFileError(path, err))
			failed = true
			continue
		}

		blocks, err := highlighter.Highlight(sess.ctx, path, content)
		if err != nil {
			return fmt.Errorf("highlight %s: %w", path, err)
		}
		sess.logger.Debug("extracted code blocks", logging.FieldPath, path, logging.FieldBlocks, len(blocks))

		if flags.list {
			fmt.Fprintln(out, styles.FormatFileHeader(path, "markdown", false))
			fmt.Fprint(out, styles.FormatTable([]string{"LINE", "LANG", "MODE", "LINES"}, blockRows(blocks)))
			continue
		}

		for _, block := range blocks {
			if printed > 0 {
				fmt.Fprintln(out)
			}
			location := path + ":" + strconv.Itoa(block.FenceLine)
			fmt.Fprintln(out, styles.FormatFileHeader(location, block.Mode, block.Fallback))
			if err := lines.RenderLines(out, block.Mode, block.Lines); err != nil {
				return fmt.Errorf("write: %w", err)
			}
			printed++
		}
	}

	if failed {
		return ErrFilesFailed
	}
	return nil
}

func blockRows(blocks []mdcode.HighlightedBlock) [][]string {
	rows := make([][]string, 0, len(blocks))
	for _, b := range blocks {
		lang := b.Lang
		if lang == "" {
			lang = "-"
		}
		rows = append(rows, []string{
			strconv.Itoa(b.FenceLine),
			lang,
			b.Mode,
			strconv.Itoa(len(b.Lines)),
		})
	}
	return rows
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == runner.StdinPath {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}
