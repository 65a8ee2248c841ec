package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/tokmark/internal/ui/pretty"
	"github.com/yaklabco/tokmark/pkg/runner"
)

// TextReporter writes the highlighted source of each file.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	lines  *LineRenderer
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	renderer := pretty.NewRenderer(opts.Writer, colorEnabled)
	styles := pretty.NewStylesFor(renderer, colorEnabled)
	theme := pretty.NewTheme(renderer, colorEnabled, opts.Config)
	return &TextReporter{
		opts:   opts,
		styles: styles,
		lines:  NewLineRenderer(theme, styles, opts.tabWidth(), opts.LineNumbers),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(ctx context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		result = &runner.Result{}
	}
	headers := r.opts.ShowHeaders || len(result.Files) > 1
	errw := r.opts.diagnosticWriter(r.bw)

	reported := 0
	for _, file := range result.Files {
		if err := ctx.Err(); err != nil {
			return reported, err
		}
		path := r.opts.displayPath(file.Path)

		if file.Error != nil {
			fmt.Fprint(errw, r.styles.FormatFileError(path, file.Error))
			continue
		}
		fr := file.Result
		if fr == nil {
			continue
		}
		if fr.Skipped {
			fmt.Fprint(errw, r.styles.FormatSkipped(path, fr.SkipReason))
			continue
		}

		if headers {
			if reported > 0 {
				fmt.Fprintln(r.bw)
			}
			fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, fr.Mode, fr.Fallback))
		}
		if err := r.lines.RenderLines(r.bw, fr.Mode, fr.Lines); err != nil {
			return reported, fmt.Errorf("write %s: %w", path, err)
		}
		reported++
	}

	if r.opts.ShowSummary {
		fmt.Fprint(errw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return reported, nil
}
