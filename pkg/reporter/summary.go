package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strconv"

	"github.com/yaklabco/tokmark/internal/ui/pretty"
	"github.com/yaklabco/tokmark/pkg/runner"
)

// maxFilePathLength is the longest path shown in the files table before
// it is shortened from the left.
const maxFilePathLength = 58

// SummaryReporter prints a table of files followed by aggregate statistics.
type SummaryReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewSummaryReporter creates a new summary reporter.
func NewSummaryReporter(opts Options) *SummaryReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryReporter{
		opts:   opts,
		styles: pretty.NewStylesFor(pretty.NewRenderer(opts.Writer, colorEnabled), colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *SummaryReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(runner.Stats{}))
		return 0, nil
	}

	rows := make([][]string, 0, len(result.Files))
	for _, file := range result.Files {
		rows = append(rows, r.fileRow(file))
	}
	fmt.Fprint(r.bw, r.styles.FormatTable([]string{"FILE", "MODE", "LINES", "TOKENS"}, rows))
	if result.Stats.FilesFallback > 0 {
		fmt.Fprint(r.bw, r.styles.FormatLegend("* highlighted as plain text"))
	}
	fmt.Fprint(r.bw, r.styles.FormatSummary(result.Stats))

	return result.Stats.FilesProcessed, nil
}

func (r *SummaryReporter) fileRow(file runner.FileOutcome) []string {
	path := r.opts.displayPath(file.Path)
	if len(path) > maxFilePathLength {
		path = "…" + path[len(path)-(maxFilePathLength-1):]
	}

	switch {
	case file.Error != nil:
		return []string{path, "error", "-", "-"}
	case file.Result == nil:
		return []string{path, "-", "-", "-"}
	case file.Result.Skipped:
		return []string{path, "skipped", "-", "-"}
	}

	name := file.Result.Mode
	if file.Result.Fallback {
		name += "*"
	}
	return []string{
		path,
		name,
		strconv.Itoa(len(file.Result.Lines)),
		strconv.Itoa(file.Result.TokenCount()),
	}
}
