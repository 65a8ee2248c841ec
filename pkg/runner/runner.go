package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/gzip"
	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/tokmark/internal/logging"
	"github.com/yaklabco/tokmark/pkg/buffer"
	"github.com/yaklabco/tokmark/pkg/langdetect"
	"github.com/yaklabco/tokmark/pkg/mode"
)

// FallbackMode is the mode used when nothing else accepts a file.
const FallbackMode = "text"

// StdinPath names standard input in results.
const StdinPath = "-"

// Runner highlights files with modes from a shared Provider.
type Runner struct {
	// Provider resolves and loads modes. It is shared by all workers.
	Provider *mode.Provider

	logger *log.Logger
}

// New creates a Runner. A nil logger uses the default logger.
func New(provider *mode.Provider, logger *log.Logger) *Runner {
	if logger == nil {
		logger = logging.Default()
	}
	return &Runner{Provider: provider, logger: logger}
}

// Accept reports whether some mode accepts path by name or first line.
// Compressed files are judged by their uncompressed name.
func (r *Runner) Accept(path string) bool {
	name := filepath.Base(path)
	if _, ok := r.Provider.ResolveName(path, name, ""); ok {
		return true
	}
	_, ok := r.Provider.ResolveName(path, name, peekFirstLine(path))
	return ok
}

// Run discovers files under opts.Paths and highlights them concurrently.
// It returns a deterministic collection of FileOutcome values and aggregate stats.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	var accept AcceptFunc
	if !opts.IncludeUnknown && opts.forcedMode() == "" {
		accept = r.Accept
	}

	files, err := Discover(ctx, opts, accept)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
		Stats: newStats(),
	}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	r.logger.Debug("highlighting files",
		logging.FieldFiles, len(files),
		logging.FieldJobs, jobs)

	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	group, groupCtx := errgroup.WithContext(logging.WithLogger(ctx, r.logger))
	for range jobs {
		group.Go(func() error {
			r.worker(groupCtx, workCh, outCh, opts)
			return nil
		})
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-groupCtx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		_ = group.Wait()
		close(outCh)
	}()

	// Workers finish out of order; rebuild path order afterwards.
	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}

	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	return result, nil
}

func (r *Runner) worker(ctx context.Context, workCh <-chan string, outCh chan<- FileOutcome, opts Options) {
	for path := range workCh {
		select {
		case <-ctx.Done():
			return
		default:
		}

		fileCtx := logging.WithFields(ctx, logging.FieldPath, path)
		outcome := FileOutcome{Path: path}
		fr, err := r.HighlightFile(fileCtx, path, opts.forcedMode())
		if err != nil {
			outcome.Error = err
			logging.FromContext(fileCtx).Warn("file failed", logging.FieldError, err)
		} else {
			outcome.Result = fr
		}

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}

// HighlightFile reads and highlights one file. forcedMode, when not empty,
// names the mode to use.
func (r *Runner) HighlightFile(ctx context.Context, path, forcedMode string) (*FileResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("highlight cancelled: %w", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	fr, err := r.Highlight(path, content, forcedMode)
	if err != nil {
		return nil, err
	}
	if !fr.Skipped {
		logging.FromContext(ctx).Debug("highlighted",
			logging.FieldMode, fr.Mode,
			logging.FieldLinesLexed, fr.Stats.LinesLexed)
	}
	return fr, nil
}

// HighlightReader highlights everything read from rd under the given name.
// The name drives mode resolution; use StdinPath when there is none.
func (r *Runner) HighlightReader(rd io.Reader, name, forcedMode string) (*FileResult, error) {
	content, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return r.Highlight(name, content, forcedMode)
}

// Highlight lexes content as the file at path. A ".gz" path is
// decompressed first. Binary content is skipped.
func (r *Runner) Highlight(path string, content []byte, forcedMode string) (*FileResult, error) {
	if strings.HasSuffix(path, ".gz") {
		decompressed, err := gunzip(content)
		if err != nil {
			return nil, fmt.Errorf("decompress %s: %w", path, err)
		}
		content = decompressed
	}

	if langdetect.IsBinary(content) {
		r.logger.Debug("skipping binary file", logging.FieldPath, path)
		return &FileResult{Path: path, Skipped: true, SkipReason: "binary"}, nil
	}

	m, err := r.pickMode(path, content, forcedMode)
	if err != nil {
		return nil, err
	}

	return HighlightText(path, m, string(content)), nil
}

func (r *Runner) pickMode(path string, content []byte, forcedMode string) (*mode.Mode, error) {
	if forcedMode != "" {
		m, err := r.Provider.Mode(forcedMode)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return m, nil
	}

	detectPath := path
	if path == StdinPath {
		detectPath = ""
	}
	if m, ok := r.Provider.Detect(detectPath, content); ok {
		return m, nil
	}
	if name := langdetect.Detect(content); name != "" && r.Provider.Has(name) {
		if m, err := r.Provider.Mode(name); err == nil {
			return m, nil
		}
	}

	if m, err := r.Provider.Mode(FallbackMode); err == nil {
		return m, nil
	}
	return mode.Plain(FallbackMode, mode.Association{}), nil
}

// HighlightText lexes every line of text with m.
func HighlightText(path string, m *mode.Mode, text string) *FileResult {
	buf := buffer.New(m, text)

	count := buf.LineCount()
	if count > 1 && strings.HasSuffix(text, "\n") {
		count--
	}

	lines := make([]Line, 0, count)
	for i := range count {
		lines = append(lines, Line{
			Number: i + 1,
			Text:   buf.LineText(i),
			Tokens: buf.Tokens(i),
		})
	}

	return &FileResult{
		Path:     path,
		Mode:     m.Name(),
		Fallback: m.IsFallback() || m.Name() == FallbackMode,
		Lines:    lines,
		Stats:    buf.Stats(),
	}
}

func gunzip(content []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	return io.ReadAll(zr)
}

// peekFirstLine returns the first line of the file at path, reading at
// most a small prefix. Errors yield "".
func peekFirstLine(path string) string {
	if strings.HasSuffix(path, ".gz") {
		return ""
	}
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	var head [256]byte
	n, _ := io.ReadFull(f, head[:])
	return mode.FirstLine(head[:n])
}
