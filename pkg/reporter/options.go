package reporter

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yaklabco/tokmark/pkg/config"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Options configures reporter behavior.
type Options struct {
	// Writer is the destination for output (typically os.Stdout).
	Writer io.Writer

	// ErrorWriter receives file errors, skips and the summary line of the
	// text and tokens formats, so that Writer carries only highlighted
	// source. Nil means Writer.
	ErrorWriter io.Writer

	// Format specifies the output format.
	Format Format

	// Color controls colorized output.
	// Values: "auto" (default), "always", "never"
	Color string

	// ShowSummary displays aggregate statistics after results.
	ShowSummary bool

	// ShowHeaders prints a header before each file. Headers are always
	// printed when more than one file is reported.
	ShowHeaders bool

	// LineNumbers prefixes each line with its number.
	LineNumbers bool

	// TabWidth is the tab stop distance of the text format.
	TabWidth int

	// Compact uses compact/minified output where applicable.
	Compact bool

	// WorkingDir is the directory to make paths relative to.
	// If empty, paths are kept as-is.
	WorkingDir string

	// Config supplies token styles. Nil uses the built-in palette.
	Config *config.Config
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
		Format:      FormatText,
		Color:       "auto",
		TabWidth:    config.DefaultTabWidth,
	}
}

// diagnosticWriter returns bw when diagnostics share the output stream,
// so that their order relative to the source is kept.
func (o Options) diagnosticWriter(bw *bufio.Writer) io.Writer {
	if o.ErrorWriter == nil || o.ErrorWriter == o.Writer {
		return bw
	}
	return o.ErrorWriter
}

func (o Options) tabWidth() int {
	if o.TabWidth <= 0 {
		return config.DefaultTabWidth
	}
	return o.TabWidth
}

// displayPath makes path relative to the working directory when it lies
// beneath it.
func (o Options) displayPath(path string) string {
	if o.WorkingDir == "" || !filepath.IsAbs(path) {
		return path
	}
	rel, err := filepath.Rel(o.WorkingDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
