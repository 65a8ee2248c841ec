package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strconv"

	"github.com/yaklabco/tokmark/internal/ui/pretty"
	"github.com/yaklabco/tokmark/pkg/runner"
)

// tokensHeaders are the columns of the token listing.
//
//nolint:gochecknoglobals // Read-only table layout.
var tokensHeaders = []string{"LINE", "COL", "LEN", "KIND", "TEXT"}

// TokensReporter lists every token of each file in a table, one group
// per source line.
type TokensReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTokensReporter creates a new tokens reporter.
func NewTokensReporter(opts Options) *TokensReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TokensReporter{
		opts:   opts,
		styles: pretty.NewStylesFor(pretty.NewRenderer(opts.Writer, colorEnabled), colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TokensReporter) Report(ctx context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		result = &runner.Result{}
	}
	errw := r.opts.diagnosticWriter(r.bw)

	reported := 0
	for _, file := range result.Files {
		if err := ctx.Err(); err != nil {
			return reported, err
		}
		path := r.opts.displayPath(file.Path)

		switch {
		case file.Error != nil:
			fmt.Fprint(errw, r.styles.FormatFileError(path, file.Error))
			continue
		case file.Result == nil:
			continue
		case file.Result.Skipped:
			fmt.Fprint(errw, r.styles.FormatSkipped(path, file.Result.SkipReason))
			continue
		}

		if reported > 0 {
			fmt.Fprintln(r.bw)
		}
		fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, file.Result.Mode, file.Result.Fallback))
		fmt.Fprint(r.bw, r.styles.FormatGroupedTable(tokensHeaders, tokenGroups(file.Result.Lines)))
		reported++
	}

	if r.opts.ShowSummary {
		fmt.Fprint(errw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return reported, nil
}

// tokenGroups builds one table group per non-empty line. Columns are
// 1-based byte columns and the text is Go-quoted so whitespace is visible.
func tokenGroups(lines []runner.Line) [][][]string {
	groups := make([][][]string, 0, len(lines))
	for _, line := range lines {
		if len(line.Tokens) == 0 {
			continue
		}
		rows := make([][]string, 0, len(line.Tokens))
		for _, tok := range line.Tokens {
			rows = append(rows, []string{
				strconv.Itoa(line.Number),
				strconv.Itoa(tok.Offset + 1),
				strconv.Itoa(tok.Length),
				tok.Kind.String(),
				strconv.Quote(tok.Text(line.Text)),
			})
		}
		groups = append(groups, rows)
	}
	return groups
}
